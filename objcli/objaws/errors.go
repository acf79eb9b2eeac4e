package objaws

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws/awserr"

	"github.com/KhiopsML/khiopsdriver-s3/objerr"
)

// isKeyNotFound returns a boolean indicating whether 'err' represents a missing key/bucket.
func isKeyNotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}

	switch aerr.Code() {
	case "NoSuchKey", "NotFound", "NoSuchBucket":
		return true
	default:
		return false
	}
}

// handleError converts an AWS SDK error into a classified '*objerr.Error', given the bucket/key which were being
// operated on (either may be nil, matching the SDK's optional pointer style).
func handleError(bucket, key *string, err error) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf("failed to perform operation (bucket=%s, key=%s)", derefOrEmpty(bucket), derefOrEmpty(key))

	if isKeyNotFound(err) {
		return objerr.Wrap(objerr.KindNotFound, err, msg)
	}

	return objerr.Wrap(objerr.KindStore, err, msg)
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

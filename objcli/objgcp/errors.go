package objgcp

import (
	"errors"
	"fmt"

	"cloud.google.com/go/storage"

	"github.com/KhiopsML/khiopsdriver-s3/objerr"
)

// handleError converts a Google Cloud Storage SDK error into a classified '*objerr.Error'.
func handleError(bucket, key string, err error) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf("failed to perform operation (bucket=%s, key=%s)", bucket, key)

	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return objerr.Wrap(objerr.KindNotFound, err, msg)
	}

	return objerr.Wrap(objerr.KindStore, err, msg)
}

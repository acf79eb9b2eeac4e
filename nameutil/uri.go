// Package nameutil parses the driver's '<scheme>://[bucket]/object_key' URI grammar (component B).
package nameutil

import (
	"strings"

	"github.com/KhiopsML/khiopsdriver-s3/objerr"
)

// Name is a parsed '(bucket, object)' pair.
type Name struct {
	Bucket string
	Object string
}

// Parse splits 'uri' into a bucket and object key, requiring the given scheme prefix (e.g. "s3" or "gs"). An empty
// bucket slice in the URI is substituted with 'defaultBucket'.
func Parse(uri, scheme, defaultBucket string) (Name, error) {
	prefix := scheme + "://"

	if !strings.HasPrefix(uri, prefix) {
		return Name{}, objerr.New(objerr.KindInvalidArgument, "uri missing required scheme prefix '"+prefix+"'")
	}

	rest := uri[len(prefix):]

	idx := strings.IndexByte(rest, '/')
	if idx == -1 {
		return Name{}, objerr.New(objerr.KindInvalidArgument, "uri missing object key")
	}

	bucket, object := rest[:idx], rest[idx+1:]

	if bucket == "" {
		bucket = defaultBucket
	}

	if bucket == "" {
		return Name{}, objerr.New(objerr.KindInvalidArgument, "uri has no bucket and no default bucket is configured")
	}

	if object == "" {
		return Name{}, objerr.New(objerr.KindInvalidArgument, "uri object key is empty")
	}

	return Name{Bucket: bucket, Object: object}, nil
}

// IsDirectoryIntent returns a boolean indicating whether the original URI's object part ends in '/', marking
// directory intent; object stores are flat so this is handled degenerately by callers (§4.8).
func IsDirectoryIntent(uri string) bool {
	return strings.HasSuffix(uri, "/")
}

// Package objcli defines the abstract object-store client contract (component C, §4.1) implemented by the 'objaws'
// (Amazon S3) and 'objgcp' (Google Cloud Storage) adapters.
package objcli

import (
	"context"
	"errors"
	"io"

	"github.com/KhiopsML/khiopsdriver-s3/glob"
	"github.com/KhiopsML/khiopsdriver-s3/objval"
)

// ErrIncludeAndExcludeAreMutuallyExclusive is returned by 'IterateObjects' when both filters are supplied.
var ErrIncludeAndExcludeAreMutuallyExclusive = errors.New("include and exclude filters are mutually exclusive")

// ListPage is a single page of results from 'Client.ListObjects'.
type ListPage struct {
	// Objects is the page of object metadata, in the order returned by the store.
	Objects []objval.ObjectAttrs

	// NextContinuation is the token to pass to the next call to continue listing; empty when this is the last page.
	NextContinuation string
}

// IterateFunc is invoked once per object when iterating a bucket/prefix; returning an error stops iteration early.
type IterateFunc func(attrs *objval.ObjectAttrs) error

// Client abstracts the semantic request set a cloud object store must support for this driver: HEAD, (ranged) GET,
// PUT, DELETE, paginated LIST, and the multipart upload protocol (initiate/upload-part/upload-part-copy/complete/
// abort). Implementations: 'objaws.Client' (Amazon S3), 'objgcp.Client' (Google Cloud Storage).
type Client interface {
	// Provider identifies which cloud object store this client talks to.
	Provider() objval.Provider

	// GetObject fetches an object, optionally bounded to a byte range. The caller must close the returned body.
	GetObject(ctx context.Context, bucket, key string, br *objval.ByteRange) (*objval.Object, error)

	// GetObjectAttrs returns an object's metadata without fetching its body; a missing object is a classified
	// 'objerr.KindNotFound' error.
	GetObjectAttrs(ctx context.Context, bucket, key string) (*objval.ObjectAttrs, error)

	// PutObject uploads an object in a single request, overwriting any existing object at 'key'.
	PutObject(ctx context.Context, bucket, key string, body io.ReadSeeker) error

	// DeleteObjects removes the given keys; missing keys are not an error.
	DeleteObjects(ctx context.Context, bucket string, keys ...string) error

	// DeleteDirectory removes every object whose key has the given prefix.
	DeleteDirectory(ctx context.Context, bucket, prefix string) error

	// ListObjects returns one page of objects under 'prefix', continuing from 'continuation' when non-empty.
	ListObjects(ctx context.Context, bucket, prefix, continuation string) (*ListPage, error)

	// IterateObjects walks every object under 'prefix', invoking 'fn' for those not excluded by 'include'/'exclude'
	// (at most one of which may be supplied).
	IterateObjects(ctx context.Context, bucket, prefix string, include, exclude []string, fn IterateFunc) error

	// CreateMultipartUpload begins a new multipart upload, returning its opaque upload id.
	CreateMultipartUpload(ctx context.Context, bucket, key string) (string, error)

	// UploadPart uploads a single part of an in-progress multipart upload.
	UploadPart(ctx context.Context, bucket, id, key string, number int, body io.ReadSeeker) (objval.Part, error)

	// UploadPartCopy uploads a part whose content is copied server-side from an existing object, optionally bounded
	// to a byte range of the source (required to be a closed range; see 'objval.ByteRange.Valid').
	UploadPartCopy(ctx context.Context, bucket, id, dst, src string, number int, br *objval.ByteRange) (objval.Part, error)

	// CompleteMultipartUpload finalizes a multipart upload from the given ordered parts.
	CompleteMultipartUpload(ctx context.Context, bucket, id, key string, parts ...objval.Part) error

	// AbortMultipartUpload cancels an in-progress multipart upload, releasing any uploaded parts.
	AbortMultipartUpload(ctx context.Context, bucket, id, key string) error
}

// ShouldIgnore returns a boolean indicating whether 'key' should be skipped given the (mutually exclusive)
// include/exclude glob filters; a nil/empty filter set never excludes anything.
func ShouldIgnore(key string, include, exclude []string) bool {
	if len(include) > 0 {
		for _, p := range include {
			if glob.Match(key, p) {
				return false
			}
		}

		return true
	}

	for _, p := range exclude {
		if glob.Match(key, p) {
			return true
		}
	}

	return false
}

package objval

import (
	"io"
	"time"
)

// Provider identifies the cloud object-store backing a 'objcli.Client' implementation.
type Provider int

const (
	// ProviderAWS indicates the client is backed by Amazon S3.
	ProviderAWS Provider = iota

	// ProviderGCP indicates the client is backed by Google Cloud Storage.
	ProviderGCP
)

// String implements the 'fmt.Stringer' interface.
func (p Provider) String() string {
	switch p {
	case ProviderAWS:
		return "aws"
	case ProviderGCP:
		return "gcp"
	default:
		return "unknown"
	}
}

// ObjectAttrs encapsulates the metadata attributes returned for a single object.
type ObjectAttrs struct {
	// Key is the full object key (path) within its bucket.
	Key string

	// ETag is the entity tag reported by the object store; opaque, provider-specific.
	ETag string

	// Size is the size of the object in bytes.
	Size int64

	// LastModified is the time the object was last modified, if known.
	LastModified *time.Time
}

// Object is the metadata and body returned by a 'GetObject' style request.
type Object struct {
	ObjectAttrs

	// Body is the (possibly range-bounded) object content; the caller is responsible for closing it.
	Body io.ReadCloser
}

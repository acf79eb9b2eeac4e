package objgcp

import (
	"context"

	"cloud.google.com/go/storage"
)

// serviceAPI is the subset of '*storage.Client' used by this package; narrowed so it's easy to mock in unit tests.
type serviceAPI interface {
	Bucket(name string) bucketAPI
}

// bucketAPI is the subset of '*storage.BucketHandle' used by this package.
type bucketAPI interface {
	Object(key string) objectAPI
	Objects(ctx context.Context, query *storage.Query) objectIteratorAPI
}

// objectAPI is the subset of '*storage.ObjectHandle' used by this package.
type objectAPI interface {
	NewRangeReader(ctx context.Context, offset, length int64) (*storage.Reader, error)
	Attrs(ctx context.Context) (*storage.ObjectAttrs, error)
	NewWriter(ctx context.Context) *storage.Writer
	Retryer(opts ...storage.RetryOption) objectAPI
	Delete(ctx context.Context) error

	// handle exposes the underlying concrete handle, required because the real SDK's 'CopierFrom'/'ComposerFrom'
	// methods only accept '*storage.ObjectHandle', not an interface.
	handle() *storage.ObjectHandle
}

// objectIteratorAPI is the subset of '*storage.ObjectIterator' used by this package.
type objectIteratorAPI interface {
	Next() (*storage.ObjectAttrs, error)
}

// serviceClient adapts a real '*storage.Client' to 'serviceAPI'.
type serviceClient struct {
	client *storage.Client
}

func (s serviceClient) Bucket(name string) bucketAPI {
	return bucketClient{s.client.Bucket(name)}
}

// bucketClient adapts a real '*storage.BucketHandle' to 'bucketAPI'.
type bucketClient struct {
	bucket *storage.BucketHandle
}

func (b bucketClient) Object(key string) objectAPI {
	return objectClient{b.bucket.Object(key)}
}

func (b bucketClient) Objects(ctx context.Context, query *storage.Query) objectIteratorAPI {
	return b.bucket.Objects(ctx, query)
}

// objectClient adapts a real '*storage.ObjectHandle' to 'objectAPI'.
type objectClient struct {
	object *storage.ObjectHandle
}

func (o objectClient) NewRangeReader(ctx context.Context, offset, length int64) (*storage.Reader, error) {
	return o.object.NewRangeReader(ctx, offset, length)
}

func (o objectClient) Attrs(ctx context.Context) (*storage.ObjectAttrs, error) {
	return o.object.Attrs(ctx)
}

func (o objectClient) NewWriter(ctx context.Context) *storage.Writer {
	return o.object.NewWriter(ctx)
}

func (o objectClient) Retryer(opts ...storage.RetryOption) objectAPI {
	return objectClient{o.object.Retryer(opts...)}
}

func (o objectClient) Delete(ctx context.Context) error {
	return o.object.Delete(ctx)
}

func (o objectClient) handle() *storage.ObjectHandle {
	return o.object
}

package objgcp

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/mock"
	"google.golang.org/api/iterator"
)

// mockServiceAPI is a hand-written mock for 'serviceAPI', in the style of mockery-generated mocks elsewhere in this
// repository.
type mockServiceAPI struct {
	mock.Mock
}

func (m *mockServiceAPI) Bucket(name string) bucketAPI {
	args := m.Called(name)
	return ret0[bucketAPI](args)
}

// mockBucketAPI is a hand-written mock for 'bucketAPI'.
type mockBucketAPI struct {
	mock.Mock
}

func (m *mockBucketAPI) Object(key string) objectAPI {
	args := m.Called(key)
	return ret0[objectAPI](args)
}

func (m *mockBucketAPI) Objects(ctx context.Context, query *storage.Query) objectIteratorAPI {
	args := m.Called(ctx, query)
	return ret0[objectIteratorAPI](args)
}

// mockObjectAPI is a hand-written mock for 'objectAPI'.
type mockObjectAPI struct {
	mock.Mock
}

func (m *mockObjectAPI) NewRangeReader(ctx context.Context, offset, length int64) (*storage.Reader, error) {
	args := m.Called(ctx, offset, length)
	return ret0[*storage.Reader](args), args.Error(1)
}

func (m *mockObjectAPI) Attrs(ctx context.Context) (*storage.ObjectAttrs, error) {
	args := m.Called(ctx)
	return ret0[*storage.ObjectAttrs](args), args.Error(1)
}

func (m *mockObjectAPI) NewWriter(ctx context.Context) *storage.Writer {
	args := m.Called(ctx)
	return ret0[*storage.Writer](args)
}

func (m *mockObjectAPI) Retryer(opts ...storage.RetryOption) objectAPI {
	args := m.Called(opts)
	return ret0[objectAPI](args)
}

func (m *mockObjectAPI) Delete(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockObjectAPI) handle() *storage.ObjectHandle {
	args := m.Called()
	return ret0[*storage.ObjectHandle](args)
}

// mockObjectIteratorAPI is a hand-written mock for 'objectIteratorAPI'.
type mockObjectIteratorAPI struct {
	mock.Mock

	attrs []*storage.ObjectAttrs
	index int
}

// newMockObjectIteratorAPI returns an iterator mock that yields 'attrs' in order, then 'iterator.Done'.
func newMockObjectIteratorAPI(attrs []*storage.ObjectAttrs) *mockObjectIteratorAPI {
	return &mockObjectIteratorAPI{attrs: attrs}
}

func (m *mockObjectIteratorAPI) Next() (*storage.ObjectAttrs, error) {
	if m.index >= len(m.attrs) {
		return nil, iterator.Done
	}

	attrs := m.attrs[m.index]
	m.index++

	return attrs, nil
}

// ret0 extracts the first mocked return value, tolerating a nil return without a type assertion panic.
func ret0[T any](args mock.Arguments) T {
	var zero T

	if args.Get(0) == nil {
		return zero
	}

	return args.Get(0).(T) //nolint:forcetypeassert
}

package objaws

import (
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/mock"
)

// mockServiceAPI is a hand-written mock for the 'serviceAPI' interface, in the same style as 'mock_bucket_api.go'
// in 'objgcp' (mockery-generated).
type mockServiceAPI struct {
	mock.Mock
}

func (m *mockServiceAPI) GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	args := m.Called(input)
	return ret0[*s3.GetObjectOutput](args), args.Error(1)
}

func (m *mockServiceAPI) HeadObject(input *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
	args := m.Called(input)
	return ret0[*s3.HeadObjectOutput](args), args.Error(1)
}

func (m *mockServiceAPI) PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	args := m.Called(input)
	return ret0[*s3.PutObjectOutput](args), args.Error(1)
}

func (m *mockServiceAPI) DeleteObjects(input *s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error) {
	args := m.Called(input)
	return ret0[*s3.DeleteObjectsOutput](args), args.Error(1)
}

func (m *mockServiceAPI) ListObjectsV2(input *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
	args := m.Called(input)
	return ret0[*s3.ListObjectsV2Output](args), args.Error(1)
}

func (m *mockServiceAPI) CreateMultipartUpload(
	input *s3.CreateMultipartUploadInput,
) (*s3.CreateMultipartUploadOutput, error) {
	args := m.Called(input)
	return ret0[*s3.CreateMultipartUploadOutput](args), args.Error(1)
}

func (m *mockServiceAPI) UploadPart(input *s3.UploadPartInput) (*s3.UploadPartOutput, error) {
	args := m.Called(input)
	return ret0[*s3.UploadPartOutput](args), args.Error(1)
}

func (m *mockServiceAPI) UploadPartCopy(input *s3.UploadPartCopyInput) (*s3.UploadPartCopyOutput, error) {
	args := m.Called(input)
	return ret0[*s3.UploadPartCopyOutput](args), args.Error(1)
}

func (m *mockServiceAPI) CompleteMultipartUpload(
	input *s3.CompleteMultipartUploadInput,
) (*s3.CompleteMultipartUploadOutput, error) {
	args := m.Called(input)
	return ret0[*s3.CompleteMultipartUploadOutput](args), args.Error(1)
}

func (m *mockServiceAPI) AbortMultipartUpload(
	input *s3.AbortMultipartUploadInput,
) (*s3.AbortMultipartUploadOutput, error) {
	args := m.Called(input)
	return ret0[*s3.AbortMultipartUploadOutput](args), args.Error(1)
}

// ret0 extracts the first mocked return value, tolerating a nil return without a type assertion panic.
func ret0[T any](args mock.Arguments) T {
	var zero T

	if args.Get(0) == nil {
		return zero
	}

	return args.Get(0).(T) //nolint:forcetypeassert
}

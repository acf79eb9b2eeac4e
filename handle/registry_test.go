package handle

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KhiopsML/khiopsdriver-s3/objcli"
	"github.com/KhiopsML/khiopsdriver-s3/objerr"
	"github.com/KhiopsML/khiopsdriver-s3/objval"
	"github.com/KhiopsML/khiopsdriver-s3/vfile"
)

// fakeClient is a minimal in-memory 'objcli.Client' sufficient to construct real readers/writers for registry tests.
type fakeClient struct {
	objcli.Client

	objects map[string][]byte
	aborted []string
	abortFn func(id string) error
}

func (f *fakeClient) GetObject(_ context.Context, _, key string, _ *objval.ByteRange) (*objval.Object, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, objerr.New(objerr.KindNotFound, "no such key")
	}

	return &objval.Object{
		ObjectAttrs: objval.ObjectAttrs{Key: key, Size: int64(len(data))},
		Body:        io.NopCloser(nil),
	}, nil
}

func (f *fakeClient) GetObjectAttrs(_ context.Context, _, key string) (*objval.ObjectAttrs, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, objerr.New(objerr.KindNotFound, "no such key")
	}

	return &objval.ObjectAttrs{Key: key, Size: int64(len(data))}, nil
}

func (f *fakeClient) ListObjects(_ context.Context, _, _, _ string) (*objcli.ListPage, error) {
	return &objcli.ListPage{}, nil
}

func (f *fakeClient) CreateMultipartUpload(_ context.Context, _, _ string) (string, error) {
	return "upload-1", nil
}

func (f *fakeClient) AbortMultipartUpload(_ context.Context, _, id, _ string) error {
	f.aborted = append(f.aborted, id)

	if f.abortFn != nil {
		return f.abortFn(id)
	}

	return nil
}

func newReader(t *testing.T) *vfile.Reader {
	t.Helper()

	client := &fakeClient{objects: map[string][]byte{"data.csv": []byte("hello")}}

	r, err := vfile.NewReader(context.Background(), client, "bucket", "data.csv")
	require.NoError(t, err)

	return r
}

func newWriter(t *testing.T, client *fakeClient) *vfile.Writer {
	t.Helper()

	w, err := vfile.OpenWriter(context.Background(), client, "bucket", "out.csv", 'w')
	require.NoError(t, err)

	return w
}

func TestPutAndLookupReader(t *testing.T) {
	r := NewRegistry()

	reader := newReader(t)
	h := r.PutReader(reader)

	got, err := r.Reader(h)
	require.NoError(t, err)
	assert.Same(t, reader, got)
}

func TestLookupUnknownHandleFails(t *testing.T) {
	r := NewRegistry()

	_, err := r.Reader(0xdeadbeef)
	require.Error(t, err)
}

func TestCloseReaderRemovesIt(t *testing.T) {
	r := NewRegistry()

	reader := newReader(t)
	h := r.PutReader(reader)
	r.CloseReader(reader)

	_, err := r.Reader(h)
	require.Error(t, err)
}

func TestPutAndLookupWriter(t *testing.T) {
	r := NewRegistry()
	client := &fakeClient{objects: map[string][]byte{}}

	writer := newWriter(t, client)
	h := r.PutWriter(writer)

	got, err := r.Writer(h)
	require.NoError(t, err)
	assert.Same(t, writer, got)
}

func TestDrainAllAbortsAllWritersDespiteFailures(t *testing.T) {
	r := NewRegistry()

	failing := &fakeClient{objects: map[string][]byte{}, abortFn: func(string) error { return errors.New("boom") }}
	ok := &fakeClient{objects: map[string][]byte{}}

	w1 := newWriter(t, failing)
	w2 := newWriter(t, ok)

	r.PutWriter(w1)
	r.PutWriter(w2)

	err := r.DrainAll(context.Background())
	require.Error(t, err)

	assert.Len(t, failing.aborted, 1)
	assert.Len(t, ok.aborted, 1)

	_, err = r.Writer(0)
	assert.Error(t, err)
}

func TestDrainAllWithNoWritersSucceeds(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.DrainAll(context.Background()))
}

package vfile

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/KhiopsML/khiopsdriver-s3/objcli"
	"github.com/KhiopsML/khiopsdriver-s3/objerr"
	"github.com/KhiopsML/khiopsdriver-s3/objval"
)

// memClient is a minimal in-memory 'objcli.Client' backed by a flat key/value map, used to exercise the reader and
// writer without mocking the full object-store surface. Multipart uploads are tracked in 'uploads' keyed by the
// opaque upload id handed back from 'CreateMultipartUpload'.
type memClient struct {
	objcli.Client

	objects map[string][]byte
	uploads map[string]map[int]([]byte)

	nextUploadID int
}

func newMemClient(objects map[string][]byte) *memClient {
	if objects == nil {
		objects = map[string][]byte{}
	}

	return &memClient{objects: objects, uploads: map[string]map[int][]byte{}}
}

func (m *memClient) GetObject(_ context.Context, _, key string, br *objval.ByteRange) (*objval.Object, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, objerr.New(objerr.KindNotFound, "no such key: "+key)
	}

	body := data

	if br != nil {
		end := int64(len(data))
		if br.End != -1 {
			end = br.End + 1
		}

		body = data[br.Start:end]
	}

	return &objval.Object{
		ObjectAttrs: objval.ObjectAttrs{Key: key, Size: int64(len(data))},
		Body:        io.NopCloser(bytes.NewReader(body)),
	}, nil
}

func (m *memClient) GetObjectAttrs(_ context.Context, _, key string) (*objval.ObjectAttrs, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, objerr.New(objerr.KindNotFound, "no such key: "+key)
	}

	return &objval.ObjectAttrs{Key: key, Size: int64(len(data))}, nil
}

func (m *memClient) ListObjects(_ context.Context, _, prefix, _ string) (*objcli.ListPage, error) {
	page := &objcli.ListPage{}

	for key, data := range m.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			page.Objects = append(page.Objects, objval.ObjectAttrs{Key: key, Size: int64(len(data))})
		}
	}

	// Deterministic, lexicographic order (as a real LIST would return).
	for i := 1; i < len(page.Objects); i++ {
		for j := i; j > 0 && page.Objects[j-1].Key > page.Objects[j].Key; j-- {
			page.Objects[j-1], page.Objects[j] = page.Objects[j], page.Objects[j-1]
		}
	}

	return page, nil
}

func (m *memClient) PutObject(_ context.Context, _, key string, body io.ReadSeeker) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	m.objects[key] = data

	return nil
}

func (m *memClient) DeleteObjects(_ context.Context, _ string, keys ...string) error {
	for _, key := range keys {
		delete(m.objects, key)
	}

	return nil
}

func (m *memClient) CreateMultipartUpload(_ context.Context, _, _ string) (string, error) {
	m.nextUploadID++
	id := strconv.Itoa(m.nextUploadID)
	m.uploads[id] = map[int][]byte{}

	return id, nil
}

func (m *memClient) UploadPart(
	_ context.Context, _, id, _ string, number int, body io.ReadSeeker,
) (objval.Part, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return objval.Part{}, err
	}

	m.uploads[id][number] = data

	return objval.Part{ID: strconv.Itoa(number), Number: number, Size: int64(len(data))}, nil
}

func (m *memClient) UploadPartCopy(
	_ context.Context, _, id, _, src string, number int, br *objval.ByteRange,
) (objval.Part, error) {
	data, ok := m.objects[src]
	if !ok {
		return objval.Part{}, objerr.New(objerr.KindNotFound, "no such key: "+src)
	}

	end := int64(len(data))
	if br != nil && br.End != -1 {
		end = br.End + 1
	}

	start := int64(0)
	if br != nil {
		start = br.Start
	}

	chunk := append([]byte(nil), data[start:end]...)
	m.uploads[id][number] = chunk

	return objval.Part{ID: strconv.Itoa(number), Number: number, Size: int64(len(chunk))}, nil
}

func (m *memClient) CompleteMultipartUpload(_ context.Context, _, id, key string, parts ...objval.Part) error {
	parts2, ok := m.uploads[id]
	if !ok {
		return objerr.New(objerr.KindStore, "unknown upload id")
	}

	var whole []byte

	for _, part := range parts {
		whole = append(whole, parts2[part.Number]...)
	}

	m.objects[key] = whole
	delete(m.uploads, id)

	return nil
}

func (m *memClient) AbortMultipartUpload(_ context.Context, _, id, _ string) error {
	delete(m.uploads, id)
	return nil
}

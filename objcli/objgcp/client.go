// Package objgcp implements 'objcli.Client' for Google Cloud Storage.
package objgcp

import (
	"context"
	"crypto/md5" //nolint:gosec
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/KhiopsML/khiopsdriver-s3/hofp"
	"github.com/KhiopsML/khiopsdriver-s3/log"
	"github.com/KhiopsML/khiopsdriver-s3/objcli"
	"github.com/KhiopsML/khiopsdriver-s3/objerr"
	"github.com/KhiopsML/khiopsdriver-s3/objval"
	"github.com/KhiopsML/khiopsdriver-s3/system"
)

// Client implements 'objcli.Client', backing object operations onto Google Cloud Storage; multipart uploads are
// emulated by composing intermediate objects, since GCS has no native multipart protocol.
type Client struct {
	serviceAPI serviceAPI
}

var _ objcli.Client = (*Client)(nil)

// NewClient returns a new client which uses the given storage client; in general this should be the client created
// by the 'storage.NewClient' function exposed by the SDK.
func NewClient(client *storage.Client) *Client {
	return &Client{serviceAPI: serviceClient{client}}
}

func (c *Client) Provider() objval.Provider {
	return objval.ProviderGCP
}

func (c *Client) GetObject(ctx context.Context, bucket, key string, br *objval.ByteRange) (*objval.Object, error) {
	if err := br.Valid(false); err != nil {
		return nil, err // Purposefully not wrapped
	}

	var offset, length int64 = 0, -1
	if br != nil {
		offset, length = br.ToOffsetLength(length)
	}

	reader, err := c.serviceAPI.Bucket(bucket).Object(key).NewRangeReader(ctx, offset, length)
	if err != nil {
		return nil, handleError(bucket, key, err)
	}

	remote := reader.Attrs()

	attrs := objval.ObjectAttrs{
		Key:          key,
		Size:         remote.Size,
		LastModified: aws.Time(remote.LastModified),
	}

	return &objval.Object{ObjectAttrs: attrs, Body: reader}, nil
}

func (c *Client) GetObjectAttrs(ctx context.Context, bucket, key string) (*objval.ObjectAttrs, error) {
	remote, err := c.serviceAPI.Bucket(bucket).Object(key).Attrs(ctx)
	if err != nil {
		return nil, handleError(bucket, key, err)
	}

	return &objval.ObjectAttrs{
		Key:          key,
		ETag:         remote.Etag,
		Size:         remote.Size,
		LastModified: &remote.Updated,
	}, nil
}

func (c *Client) PutObject(ctx context.Context, bucket, key string, body io.ReadSeeker) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		md5sum = md5.New() //nolint:gosec
		crc32c = crc32.New(crc32.MakeTable(crc32.Castagnoli))
		// We expect exclusive access to a given key prefix (the driver serializes writers per-handle), so it's
		// always safe to retry a failed put.
		writer = c.serviceAPI.Bucket(bucket).Object(key).Retryer(storage.WithPolicy(storage.RetryAlways)).NewWriter(ctx)
	)

	if _, err := aws.CopySeekableBody(io.MultiWriter(md5sum, crc32c), body); err != nil {
		return fmt.Errorf("failed to calculate checksums: %w", err)
	}

	writer.SendMD5(md5sum.Sum(nil))
	writer.SendCRC(crc32c.Sum32())

	if _, err := io.Copy(writer, body); err != nil {
		return handleError(bucket, key, err)
	}

	return handleError(bucket, key, writer.Close())
}

func (c *Client) DeleteObjects(ctx context.Context, bucket string, keys ...string) error {
	pool := hofp.NewPool(hofp.Options{
		Context:   ctx,
		Size:      system.NumWorkers(len(keys)),
		LogPrefix: "(objgcp)",
	})

	del := func(ctx context.Context, key string) error {
		handle := c.serviceAPI.Bucket(bucket).Object(key).Retryer(storage.WithPolicy(storage.RetryAlways))

		err := handle.Delete(ctx)
		if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return handleError(bucket, key, err)
		}

		return nil
	}

	queue := func(key string) error {
		return pool.Queue(func(ctx context.Context) error { return del(ctx, key) })
	}

	for _, key := range keys {
		if queue(key) != nil {
			break
		}
	}

	return pool.Stop()
}

func (c *Client) DeleteDirectory(ctx context.Context, bucket, prefix string) error {
	return c.IterateObjects(ctx, bucket, prefix, nil, nil, func(attrs *objval.ObjectAttrs) error {
		return c.DeleteObjects(ctx, bucket, attrs.Key)
	})
}

// continuationMarker is appended to the last key of a page to form the next page's (exclusive) 'StartOffset',
// since GCS key names never contain a NUL byte.
const continuationMarker = "\x00"

func (c *Client) ListObjects(
	ctx context.Context, bucket, prefix, continuation string,
) (*objcli.ListPage, error) {
	query := &storage.Query{Prefix: prefix, Projection: storage.ProjectionNoACL, StartOffset: continuation}

	if err := query.SetAttrSelection([]string{"Name", "Etag", "Size", "Updated"}); err != nil {
		return nil, fmt.Errorf("failed to set attribute selection: %w", err)
	}

	it := c.serviceAPI.Bucket(bucket).Objects(ctx, query)

	page := &objcli.ListPage{Objects: make([]objval.ObjectAttrs, 0, PageSize)}

	for len(page.Objects) < PageSize {
		remote, err := it.Next()

		if errors.Is(err, iterator.Done) {
			return page, nil
		}

		if err != nil {
			return nil, fmt.Errorf("failed to get next object: %w", err)
		}

		page.Objects = append(page.Objects, objval.ObjectAttrs{
			Key:          remote.Name,
			Size:         remote.Size,
			LastModified: &remote.Updated,
		})
	}

	// There may be more objects; resume after the last key seen in this page.
	page.NextContinuation = page.Objects[len(page.Objects)-1].Key + continuationMarker

	return page, nil
}

func (c *Client) IterateObjects(
	ctx context.Context, bucket, prefix string, include, exclude []string, fn objcli.IterateFunc,
) error {
	if include != nil && exclude != nil {
		return objcli.ErrIncludeAndExcludeAreMutuallyExclusive
	}

	continuation := ""

	for {
		page, err := c.ListObjects(ctx, bucket, prefix, continuation)
		if err != nil {
			return err // Purposefully not wrapped
		}

		for i := range page.Objects {
			attrs := page.Objects[i]

			if objcli.ShouldIgnore(attrs.Key, include, exclude) {
				continue
			}

			if err := fn(&attrs); err != nil {
				return err // Purposefully not wrapped
			}
		}

		if page.NextContinuation == "" {
			return nil
		}

		continuation = page.NextContinuation
	}
}

func (c *Client) CreateMultipartUpload(_ context.Context, _, _ string) (string, error) {
	return uuid.NewString(), nil
}

func (c *Client) UploadPart(
	ctx context.Context, bucket, id, key string, number int, body io.ReadSeeker,
) (objval.Part, error) {
	size, err := aws.SeekerLen(body)
	if err != nil {
		return objval.Part{}, fmt.Errorf("failed to determine body length: %w", err)
	}

	intermediate := partKey(id, key)

	if err := c.PutObject(ctx, bucket, intermediate, body); err != nil {
		return objval.Part{}, err // Purposefully not wrapped
	}

	return objval.Part{ID: intermediate, Number: number, Size: size}, nil
}

// UploadPartCopy composes 'src' into an intermediate part object. Google Storage has no byte-range copy, so a
// partial range is only accepted when it spans the entire source object (see 'objval.ByteRange.Valid').
func (c *Client) UploadPartCopy(
	ctx context.Context, bucket, id, dst, src string, number int, br *objval.ByteRange,
) (objval.Part, error) {
	if err := br.Valid(false); err != nil {
		return objval.Part{}, err // Purposefully not wrapped
	}

	attrs, err := c.GetObjectAttrs(ctx, bucket, src)
	if err != nil {
		return objval.Part{}, fmt.Errorf("failed to get object attributes: %w", err)
	}

	if br != nil && !(br.Start == 0 && br.End == attrs.Size-1) {
		return objval.Part{}, objerr.ErrUnsupportedOperation
	}

	var (
		intermediate = partKey(id, dst)
		srcHandle    = c.serviceAPI.Bucket(bucket).Object(src)
		dstHandle    = c.serviceAPI.Bucket(bucket).Object(intermediate).Retryer(storage.WithPolicy(storage.RetryAlways))
	)

	if _, err := dstHandle.handle().CopierFrom(srcHandle.handle()).Run(ctx); err != nil {
		return objval.Part{}, handleError(bucket, intermediate, err)
	}

	return objval.Part{ID: intermediate, Number: number, Size: attrs.Size}, nil
}

func (c *Client) CompleteMultipartUpload(ctx context.Context, bucket, id, key string, parts ...objval.Part) error {
	converted := make([]string, 0, len(parts))

	for _, part := range parts {
		converted = append(converted, part.ID)
	}

	if err := c.complete(ctx, bucket, key, converted...); err != nil {
		return err // Purposefully not wrapped
	}

	c.cleanup(ctx, bucket, converted...)

	return nil
}

// complete recursively composes the object in chunks of 'MaxComposable', eventually resulting in a single object.
func (c *Client) complete(ctx context.Context, bucket, key string, parts ...string) error {
	if len(parts) <= MaxComposable {
		return c.compose(ctx, bucket, key, parts...)
	}

	intermediate := partKey(uuid.NewString(), key)
	defer c.cleanup(ctx, bucket, intermediate)

	if err := c.compose(ctx, bucket, intermediate, parts[:MaxComposable]...); err != nil {
		return err // Purposefully not wrapped
	}

	return c.complete(ctx, bucket, key, append([]string{intermediate}, parts[MaxComposable:]...)...)
}

// compose combines the given intermediate parts into a single object at 'key'.
func (c *Client) compose(ctx context.Context, bucket, key string, parts ...string) error {
	handles := make([]*storage.ObjectHandle, 0, len(parts))

	for _, part := range parts {
		handles = append(handles, c.serviceAPI.Bucket(bucket).Object(part).handle())
	}

	dst := c.serviceAPI.Bucket(bucket).Object(key).Retryer(storage.WithPolicy(storage.RetryAlways))

	_, err := dst.handle().ComposerFrom(handles...).Run(ctx)

	return handleError(bucket, key, err)
}

// cleanup attempts to remove the given intermediate keys, logging on failure since they must then be removed
// manually.
func (c *Client) cleanup(ctx context.Context, bucket string, keys ...string) {
	if err := c.DeleteObjects(ctx, bucket, keys...); err != nil {
		log.Errorf(`(Objgcp) Failed to cleanup intermediate keys, they should be removed manually `+
			`| {"keys":[%s],"error":"%s"}`, strings.Join(keys, ","), err)
	}
}

func (c *Client) AbortMultipartUpload(ctx context.Context, bucket, id, key string) error {
	return c.DeleteDirectory(ctx, bucket, partPrefix(id, key))
}

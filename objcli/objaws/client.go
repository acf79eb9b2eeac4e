// Package objaws implements 'objcli.Client' for Amazon S3 (and S3-compatible endpoints reachable via a custom
// 'S3_ENDPOINT').
package objaws

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/KhiopsML/khiopsdriver-s3/log"
	"github.com/KhiopsML/khiopsdriver-s3/maths"
	"github.com/KhiopsML/khiopsdriver-s3/objcli"
	"github.com/KhiopsML/khiopsdriver-s3/objerr"
	"github.com/KhiopsML/khiopsdriver-s3/objval"
	"github.com/KhiopsML/khiopsdriver-s3/retry"
)

// Client implements 'objcli.Client', backing object operations onto Amazon S3.
type Client struct {
	serviceAPI serviceAPI
	retryer    retry.Retryer
}

var _ objcli.Client = (*Client)(nil)

// NewClient returns a new client which uses the given 'serviceAPI'; in general this should be the client created by
// the 's3.New' function exposed by the AWS SDK (or an S3-compatible equivalent pointed at a custom endpoint).
func NewClient(serviceAPI serviceAPI) *Client {
	return &Client{
		serviceAPI: serviceAPI,
		retryer:    retry.NewRetryer(retry.RetryerOptions{MaxRetries: 3}),
	}
}

func (c *Client) Provider() objval.Provider {
	return objval.ProviderAWS
}

func (c *Client) GetObject(
	ctx context.Context, bucket, key string, br *objval.ByteRange,
) (*objval.Object, error) {
	if err := br.Valid(false); err != nil {
		return nil, err // Purposefully not wrapped
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	if br != nil {
		input.Range = aws.String(br.String())
	}

	payload, err := c.retryer.DoWithContext(ctx, func(*retry.Context) (any, error) {
		return c.serviceAPI.GetObject(input)
	})
	if err != nil {
		return nil, handleError(input.Bucket, input.Key, err)
	}

	resp, _ := payload.(*s3.GetObjectOutput)

	attrs := objval.ObjectAttrs{
		Key:          key,
		Size:         aws.Int64Value(resp.ContentLength),
		LastModified: resp.LastModified,
	}

	return &objval.Object{ObjectAttrs: attrs, Body: resp.Body}, nil
}

func (c *Client) GetObjectAttrs(ctx context.Context, bucket, key string) (*objval.ObjectAttrs, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	payload, err := c.retryer.DoWithContext(ctx, func(*retry.Context) (any, error) {
		return c.serviceAPI.HeadObject(input)
	})
	if err != nil {
		return nil, handleError(input.Bucket, input.Key, err)
	}

	resp, _ := payload.(*s3.HeadObjectOutput)

	return &objval.ObjectAttrs{
		Key:          key,
		ETag:         aws.StringValue(resp.ETag),
		Size:         aws.Int64Value(resp.ContentLength),
		LastModified: resp.LastModified,
	}, nil
}

func (c *Client) PutObject(_ context.Context, bucket, key string, body io.ReadSeeker) error {
	input := &s3.PutObjectInput{
		Body:   body,
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	_, err := c.serviceAPI.PutObject(input)

	return handleError(input.Bucket, input.Key, err)
}

func (c *Client) DeleteObjects(ctx context.Context, bucket string, keys ...string) error {
	for start, end := 0, PageSize; start < len(keys); start, end = start+PageSize, end+PageSize {
		if err := c.deleteObjects(ctx, bucket, keys[start:maths.Min(end, len(keys))]...); err != nil {
			return err // Purposefully not wrapped
		}
	}

	return nil
}

// deleteObjects performs a batched delete operation for a single page (<=1000) of keys.
func (c *Client) deleteObjects(_ context.Context, bucket string, keys ...string) error {
	input := &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &s3.Delete{Quiet: aws.Bool(true)},
	}

	for _, key := range keys {
		input.Delete.Objects = append(input.Delete.Objects, &s3.ObjectIdentifier{Key: aws.String(key)})
	}

	resp, err := c.serviceAPI.DeleteObjects(input)
	if err != nil {
		return handleError(input.Bucket, nil, err)
	}

	for _, deleteErr := range resp.Errors {
		if deleteErr.Code != nil && *deleteErr.Code == "NoSuchKey" {
			continue
		}

		return objerr.Wrap(objerr.KindStore, fmt.Errorf("%s: %s", aws.StringValue(deleteErr.Code),
			aws.StringValue(deleteErr.Message)), "failed to delete one or more objects")
	}

	return nil
}

func (c *Client) DeleteDirectory(ctx context.Context, bucket, prefix string) error {
	return c.IterateObjects(ctx, bucket, prefix, nil, nil, func(attrs *objval.ObjectAttrs) error {
		return c.DeleteObjects(ctx, bucket, attrs.Key)
	})
}

func (c *Client) ListObjects(
	ctx context.Context, bucket, prefix, continuation string,
) (*objcli.ListPage, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}

	if continuation != "" {
		input.ContinuationToken = aws.String(continuation)
	}

	payload, err := c.retryer.DoWithContext(ctx, func(*retry.Context) (any, error) {
		return c.serviceAPI.ListObjectsV2(input)
	})
	if err != nil {
		return nil, handleError(input.Bucket, nil, err)
	}

	resp, _ := payload.(*s3.ListObjectsV2Output)

	page := &objcli.ListPage{Objects: make([]objval.ObjectAttrs, 0, len(resp.Contents))}

	for _, object := range resp.Contents {
		page.Objects = append(page.Objects, objval.ObjectAttrs{
			Key:          aws.StringValue(object.Key),
			Size:         aws.Int64Value(object.Size),
			LastModified: object.LastModified,
		})
	}

	if aws.BoolValue(resp.IsTruncated) {
		page.NextContinuation = aws.StringValue(resp.NextContinuationToken)
	}

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

func (c *Client) CreateMultipartUpload(_ context.Context, bucket, key string) (string, error) {
	input := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	resp, err := c.serviceAPI.CreateMultipartUpload(input)
	if err != nil {
		return "", handleError(input.Bucket, input.Key, err)
	}

	return aws.StringValue(resp.UploadId), nil
}

func (c *Client) UploadPart(
	_ context.Context, bucket, id, key string, number int, body io.ReadSeeker,
) (objval.Part, error) {
	size, err := aws.SeekerLen(body)
	if err != nil {
		return objval.Part{}, fmt.Errorf("failed to determine body length: %w", err)
	}

	input := &s3.UploadPartInput{
		Body:       body,
		Bucket:     aws.String(bucket),
		Key:        aws.String(key),
		PartNumber: aws.Int64(int64(number)),
		UploadId:   aws.String(id),
	}

	output, err := c.serviceAPI.UploadPart(input)
	if err != nil {
		return objval.Part{}, handleError(input.Bucket, input.Key, err)
	}

	return objval.Part{ID: aws.StringValue(output.ETag), Number: number, Size: size}, nil
}

// UploadPartCopy copies the provided byte range from the given 'src' object into a multipart upload for the given
// 'dst' object; used to implement append-via-copy (§4.6).
func (c *Client) UploadPartCopy(
	_ context.Context, bucket, id, dst, src string, number int, br *objval.ByteRange,
) (objval.Part, error) {
	if err := br.Valid(true); err != nil {
		return objval.Part{}, err // Purposefully not wrapped
	}

	input := &s3.UploadPartCopyInput{
		Bucket:          aws.String(bucket),
		CopySource:      aws.String(bucket + "/" + src),
		CopySourceRange: aws.String(br.String()),
		Key:             aws.String(dst),
		PartNumber:      aws.Int64(int64(number)),
		UploadId:        aws.String(id),
	}

	output, err := c.serviceAPI.UploadPartCopy(input)
	if err != nil {
		return objval.Part{}, handleError(input.Bucket, input.Key, err)
	}

	size := int64(0)
	if br != nil {
		size = br.End - br.Start + 1
	}

	return objval.Part{ID: aws.StringValue(output.CopyPartResult.ETag), Number: number, Size: size}, nil
}

func (c *Client) CompleteMultipartUpload(_ context.Context, bucket, id, key string, parts ...objval.Part) error {
	converted := make([]*s3.CompletedPart, len(parts))

	for index, part := range parts {
		converted[index] = &s3.CompletedPart{ETag: aws.String(part.ID), PartNumber: aws.Int64(int64(part.Number))}
	}

	input := &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(bucket),
		Key:             aws.String(key),
		UploadId:        aws.String(id),
		MultipartUpload: &s3.CompletedMultipartUpload{Parts: converted},
	}

	_, err := c.serviceAPI.CompleteMultipartUpload(input)

	return handleError(input.Bucket, input.Key, err)
}

func (c *Client) AbortMultipartUpload(_ context.Context, bucket, id, key string) error {
	input := &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		UploadId: aws.String(id),
	}

	_, err := c.serviceAPI.AbortMultipartUpload(input)
	if err != nil {
		log.Warnf("(Objaws) Failed to abort multipart upload | {\"id\":\"%s\",\"key\":\"%s\",\"error\":\"%s\"}",
			id, key, err)
	}

	return handleError(input.Bucket, input.Key, err)
}

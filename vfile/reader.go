// Package vfile implements the multi-part reader and writer that make a flat object store behave as a seekable,
// appendable file (components E and F, §4.5-4.6).
package vfile

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"sort"

	"github.com/KhiopsML/khiopsdriver-s3/maths"
	"github.com/KhiopsML/khiopsdriver-s3/objcli"
	"github.com/KhiopsML/khiopsdriver-s3/objerr"
	"github.com/KhiopsML/khiopsdriver-s3/objval"
	"github.com/KhiopsML/khiopsdriver-s3/resolver"
)

// Reader is a logical view over 1..N objects backing a single (possibly multifile) pattern, with a common-header
// deduplication policy and random seek over the concatenated logical offset. Not safe for concurrent use.
type Reader struct {
	client objcli.Client
	bucket string

	filenames       []string
	sizes           []int64
	cumulativeSizes []int64

	commonHeaderLength int64
	totalSize          int64

	offset int64
}

// NewReader resolves 'pattern' and constructs a reader over the resulting concrete objects. A single-entry match
// gets no header deduplication. A multi-entry match compares each object's first line against the first object's;
// when every line matches, that line is treated as a duplicated header and its bytes are hidden from every object
// but the first.
func NewReader(ctx context.Context, client objcli.Client, bucket, pattern string) (*Reader, error) {
	entries, err := resolver.Resolve(ctx, client, bucket, pattern)
	if err != nil {
		return nil, err // Purposefully not wrapped
	}

	r := &Reader{client: client, bucket: bucket}

	for _, entry := range entries {
		r.filenames = append(r.filenames, entry.Key)
		r.sizes = append(r.sizes, entry.Size)
	}

	if len(r.filenames) == 1 {
		r.cumulativeSizes = []int64{r.sizes[0]}
		r.totalSize = r.sizes[0]

		return r, nil
	}

	if err := r.detectCommonHeader(ctx); err != nil {
		return nil, err // Purposefully not wrapped
	}

	r.cumulativeSizes = make([]int64, len(r.filenames))

	for i := range r.filenames {
		if i == 0 {
			r.cumulativeSizes[0] = r.sizes[0]
			continue
		}

		r.cumulativeSizes[i] = r.cumulativeSizes[i-1] + r.sizes[i] - r.commonHeaderLength
	}

	r.totalSize = r.cumulativeSizes[len(r.cumulativeSizes)-1]

	return r, nil
}

// detectCommonHeader fetches the first line of every backing object and, if they're all byte-identical, records
// its length so it can be hidden from every object but the first.
func (r *Reader) detectCommonHeader(ctx context.Context) error {
	header, err := firstLine(ctx, r.client, r.bucket, r.filenames[0])
	if err != nil {
		return err // Purposefully not wrapped
	}

	if len(header) == 0 {
		return objerr.New(objerr.KindProtocol, "multifile header is empty")
	}

	for _, name := range r.filenames[1:] {
		line, err := firstLine(ctx, r.client, r.bucket, name)
		if err != nil {
			return err // Purposefully not wrapped
		}

		if !bytes.Equal(line, header) {
			return nil // Mismatch: leave commonHeaderLength at its zero value
		}
	}

	r.commonHeaderLength = int64(len(header))

	return nil
}

// firstLine fetches the first line of 'key' (up to and including its trailing '\n', if any).
func firstLine(ctx context.Context, client objcli.Client, bucket, key string) ([]byte, error) {
	obj, err := client.GetObject(ctx, bucket, key, nil)
	if err != nil {
		return nil, err // Purposefully not wrapped
	}
	defer obj.Body.Close()

	line, err := bufio.NewReader(obj.Body).ReadBytes('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}

	return line, nil
}

// Size returns the reader's total logical size, after header deduplication.
func (r *Reader) Size() int64 {
	return r.totalSize
}

// Seek whence values, mirroring 'io.Seek*'.
const (
	SeekStart   = io.SeekStart
	SeekCurrent = io.SeekCurrent
	SeekEnd     = io.SeekEnd
)

// Seek repositions the logical offset. Seeking past the end is permitted; subsequent reads then return 0 bytes.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var base int64

	switch whence {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = r.offset
	case SeekEnd:
		if r.totalSize == 0 {
			base = 0
		} else {
			base = r.totalSize - 1
		}
	default:
		return r.offset, objerr.New(objerr.KindInvalidArgument, "invalid seek whence")
	}

	newOffset, ok := addOverflow(base, offset)
	if !ok {
		return r.offset, objerr.New(objerr.KindOverflow, "seek offset overflows a signed 64-bit integer")
	}

	if newOffset < 0 {
		return r.offset, objerr.New(objerr.KindInvalidArgument, "seek would move before the start of the file")
	}

	r.offset = newOffset

	return r.offset, nil
}

// Read copies up to 'len(dst)' logical bytes starting at the current offset into 'dst', following the C 'fread'
// convention of a short read at EOF. The offset only advances on success; a store error leaves it unchanged.
func (r *Reader) Read(ctx context.Context, dst []byte) (int, error) {
	remaining := maths.Min(int64(len(dst)), maths.Max(0, r.totalSize-r.offset))
	if remaining <= 0 {
		return 0, nil
	}

	i := r.fileIndexAt(r.offset)
	delivered := int64(0)

	for delivered < remaining && i < len(r.filenames) {
		prevCum := int64(0)
		if i > 0 {
			prevCum = r.cumulativeSizes[i-1]
		}

		headerSkip := int64(0)
		if i > 0 {
			headerSkip = r.commonHeaderLength
		}

		intraStart := (r.offset + delivered) - prevCum + headerSkip
		toRead := maths.Min(remaining-delivered, r.sizes[i]-intraStart)

		if toRead > 0 {
			br := objval.NewByteRange(intraStart, intraStart+toRead-1)

			obj, err := r.client.GetObject(ctx, r.bucket, r.filenames[i], br)
			if err != nil {
				return 0, err // Purposefully not wrapped; offset untouched
			}

			n, err := io.ReadFull(obj.Body, dst[delivered:delivered+toRead])
			obj.Body.Close()

			if err != nil {
				return 0, err
			}

			delivered += int64(n)
		}

		i++
	}

	r.offset += delivered

	return int(delivered), nil
}

// fileIndexAt returns the smallest index 'i' with 'cumulativeSizes[i] > offset', or 'len(filenames)' if none.
func (r *Reader) fileIndexAt(offset int64) int {
	return sort.Search(len(r.cumulativeSizes), func(i int) bool {
		return r.cumulativeSizes[i] > offset
	})
}

// addOverflow returns 'a+b' and a boolean indicating whether the addition did not overflow a signed 64-bit integer.
func addOverflow(a, b int64) (int64, bool) {
	sum := a + b

	if b > 0 && sum < a {
		return 0, false
	}

	if b < 0 && sum > a {
		return 0, false
	}

	return sum, true
}

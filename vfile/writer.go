package vfile

import (
	"bytes"
	"context"
	"io"

	"github.com/KhiopsML/khiopsdriver-s3/log"
	"github.com/KhiopsML/khiopsdriver-s3/maths"
	"github.com/KhiopsML/khiopsdriver-s3/objcli"
	"github.com/KhiopsML/khiopsdriver-s3/objerr"
	"github.com/KhiopsML/khiopsdriver-s3/objval"
)

// Multipart upload part-size bounds, dictated by the object-store protocol (§3).
const (
	BuffMin = 5 * 1024 * 1024
	BuffMax = 5 * 1024 * 1024 * 1024
)

type writerState int

const (
	stateOpen writerState = iota
	stateUploading
	stateClosing
	stateDone
	stateAborted
)

// Writer is a multipart-upload state machine exposing a streaming 'Write' API over a size-bounded staging buffer,
// with an append mode that seeds the upload by server-side copying an existing object (component F, §4.6). Not
// safe for concurrent use.
type Writer struct {
	client objcli.Client
	bucket string
	key    string

	uploadID    string
	nextPartNum int
	parts       []objval.Part
	staging     bytes.Buffer
	stagingCap  int64
	state       writerState
}

// OpenWriter begins a new multipart upload for 'key'. 'mode' is 'w' for a fresh overwrite, or 'a' to append: when
// the target already exists, its current content is copied into the new upload as a server-side part-copy chain
// before any caller bytes are written; when it doesn't, append falls back to a plain write.
func OpenWriter(ctx context.Context, client objcli.Client, bucket, key string, mode byte) (*Writer, error) {
	if mode != 'w' && mode != 'a' {
		return nil, objerr.New(objerr.KindInvalidArgument, "unsupported open mode")
	}

	id, err := client.CreateMultipartUpload(ctx, bucket, key)
	if err != nil {
		return nil, err // Purposefully not wrapped
	}

	w := &Writer{
		client:      client,
		bucket:      bucket,
		key:         key,
		uploadID:    id,
		nextPartNum: 1,
		stagingCap:  BuffMin,
		state:       stateOpen,
	}

	if mode == 'a' {
		if err := w.seedAppend(ctx, key); err != nil {
			_ = w.Abort(ctx)
			return nil, err // Purposefully not wrapped
		}
	}

	return w, nil
}

// seedAppend copies the existing content of 'target' into the in-progress upload as a chain of part-copies, per the
// append-mode algorithm in §4.6. A missing target is not an error: the writer simply behaves as a fresh write.
func (w *Writer) seedAppend(ctx context.Context, target string) error {
	attrs, err := w.client.GetObjectAttrs(ctx, w.bucket, target)
	if err != nil {
		if objerr.IsNotFoundError(err) {
			log.Warnf("(Writer) append target %q does not exist, falling back to a fresh write", target)
			return nil
		}

		return err // Purposefully not wrapped
	}

	size := attrs.Size
	offset := int64(0)

	for offset < size {
		remaining := size - offset
		chunk := maths.Min(remaining, int64(BuffMin))

		if chunk < BuffMin {
			// Final sub-minimum residue: fold into the staging buffer instead of part-copying it, so a future real
			// 'write' can absorb it alongside user bytes.
			br := objval.NewByteRange(offset, size-1)

			obj, err := w.client.GetObject(ctx, w.bucket, target, br)
			if err != nil {
				return err // Purposefully not wrapped
			}

			_, err = io.Copy(&w.staging, obj.Body)
			obj.Body.Close()

			if err != nil {
				return err
			}

			w.state = stateUploading

			return nil
		}

		br := objval.NewByteRange(offset, offset+chunk-1)

		part, err := w.client.UploadPartCopy(ctx, w.bucket, w.uploadID, w.key, target, w.nextPartNum, br)
		if err != nil {
			return err // Purposefully not wrapped
		}

		w.parts = append(w.parts, part)
		w.nextPartNum++
		w.state = stateUploading
		offset += chunk
	}

	return nil
}

// growCapacity returns the largest multiple of 'unitSize' that fits in '[current, BuffMax]'; 'current' itself if no
// larger multiple fits.
func growCapacity(current, unitSize int64) int64 {
	if unitSize <= 0 {
		return current
	}

	multiples := BuffMax / unitSize
	grown := multiples * unitSize

	if grown < current {
		return current
	}

	return grown
}

// Write appends 'src' to the staging buffer, uploading the buffer as a part whenever it holds at least BuffMin bytes.
// 'unitSize' is the caller's logical record size, used to pick a buffer-growth quantum that never splits a record
// across two parts.
func (w *Writer) Write(ctx context.Context, src []byte, unitSize int64) (int, error) {
	if w.state != stateOpen && w.state != stateUploading {
		return 0, objerr.New(objerr.KindInvalidArgument, "writer is not open for writes")
	}

	w.state = stateUploading

	written := 0

	for len(src) > 0 {
		// Only grow the buffer when its current capacity would split a caller record in two; otherwise keep
		// flushing BuffMin-sized parts as the call progresses.
		if unitSize > 0 && w.stagingCap%unitSize != 0 && w.stagingCap < BuffMax {
			w.stagingCap = growCapacity(w.stagingCap, unitSize)
		}

		room := w.stagingCap - int64(w.staging.Len())
		if room <= 0 {
			room = 0
		}

		n := int64(len(src))
		if n > room {
			n = room
		}

		if n > 0 {
			w.staging.Write(src[:n])
			src = src[n:]
			written += int(n)
		}

		if int64(w.staging.Len()) >= BuffMin {
			if err := w.flushPart(ctx); err != nil {
				return written, err // Purposefully not wrapped
			}
		}
	}

	return written, nil
}

// flushPart uploads the current staging buffer content as the next part and resets the buffer.
func (w *Writer) flushPart(ctx context.Context) error {
	if w.staging.Len() == 0 {
		return nil
	}

	body := bytes.NewReader(w.staging.Bytes())

	part, err := w.client.UploadPart(ctx, w.bucket, w.uploadID, w.key, w.nextPartNum, body)
	if err != nil {
		return err // Purposefully not wrapped
	}

	w.parts = append(w.parts, part)
	w.nextPartNum++
	w.stagingCap = BuffMin
	w.staging.Reset()

	return nil
}

// Close flushes any residual buffered bytes as the final part (exempt from the BuffMin minimum) and completes the
// multipart upload.
func (w *Writer) Close(ctx context.Context) error {
	if w.state == stateDone {
		return nil
	}

	if w.state == stateAborted {
		return objerr.New(objerr.KindInvalidArgument, "writer already aborted")
	}

	w.state = stateClosing

	if w.staging.Len() > 0 || len(w.parts) == 0 {
		body := bytes.NewReader(w.staging.Bytes())

		part, err := w.client.UploadPart(ctx, w.bucket, w.uploadID, w.key, w.nextPartNum, body)
		if err != nil {
			return err // Purposefully not wrapped
		}

		w.parts = append(w.parts, part)
		w.staging.Reset()
	}

	if err := w.client.CompleteMultipartUpload(ctx, w.bucket, w.uploadID, w.key, w.parts...); err != nil {
		return err // Purposefully not wrapped
	}

	w.state = stateDone

	return nil
}

// Abort cancels the in-progress upload; idempotent once the upload has reached a terminal state.
func (w *Writer) Abort(ctx context.Context) error {
	if w.state == stateDone || w.state == stateAborted {
		return nil
	}

	err := w.client.AbortMultipartUpload(ctx, w.bucket, w.uploadID, w.key)
	w.state = stateAborted

	return err
}

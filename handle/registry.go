// Package handle owns the two containers of live reader/writer instances behind the opaque addresses handed back
// across the C ABI (component G, §4.7).
package handle

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"github.com/KhiopsML/khiopsdriver-s3/objerr"
	"github.com/KhiopsML/khiopsdriver-s3/vfile"
)

// Registry owns every open 'vfile.Reader'/'vfile.Writer', keyed by the stable address of the owned instance. The
// driver facade exposes that address to the host as an opaque handle.
type Registry struct {
	mu      sync.Mutex
	readers map[*vfile.Reader]struct{}
	writers map[*vfile.Writer]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		readers: make(map[*vfile.Reader]struct{}),
		writers: make(map[*vfile.Writer]struct{}),
	}
}

// PutReader registers a newly opened reader, returning its handle.
func (r *Registry) PutReader(reader *vfile.Reader) uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.readers[reader] = struct{}{}

	return handleOf(reader)
}

// PutWriter registers a newly opened writer, returning its handle.
func (r *Registry) PutWriter(writer *vfile.Writer) uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.writers[writer] = struct{}{}

	return handleOf(writer)
}

// Reader looks up an open reader by handle; 'objerr.KindUnknownHandle' if it isn't (or is no longer) registered.
func (r *Registry) Reader(h uintptr) (*vfile.Reader, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for reader := range r.readers {
		if handleOf(reader) == h {
			return reader, nil
		}
	}

	return nil, objerr.New(objerr.KindUnknownHandle, "unknown reader handle")
}

// Writer looks up an open writer by handle; 'objerr.KindUnknownHandle' if it isn't (or is no longer) registered.
func (r *Registry) Writer(h uintptr) (*vfile.Writer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for writer := range r.writers {
		if handleOf(writer) == h {
			return writer, nil
		}
	}

	return nil, objerr.New(objerr.KindUnknownHandle, "unknown writer handle")
}

// CloseReader removes a reader from the registry; a no-op if already removed.
func (r *Registry) CloseReader(reader *vfile.Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.readers, reader)
}

// CloseWriter removes a writer from the registry; a no-op if already removed.
func (r *Registry) CloseWriter(writer *vfile.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.writers, writer)
}

// DrainAll aborts every open writer (best-effort, concurrently) and discards every open reader, clearing both
// containers. Per-writer abort errors are collected and returned joined, but never stop the rest of the drain: a
// stuck/failing upload must not leave its siblings leaked.
//
// A 'hofp.Pool' is deliberately not used here: it stops handing queued work to its workers as soon as one fails,
// which is the opposite of "best-effort, keep draining" required by a disconnect.
func (r *Registry) DrainAll(ctx context.Context) error {
	r.mu.Lock()
	writers := make([]*vfile.Writer, 0, len(r.writers))

	for w := range r.writers {
		writers = append(writers, w)
	}

	r.readers = make(map[*vfile.Reader]struct{})
	r.writers = make(map[*vfile.Writer]struct{})
	r.mu.Unlock()

	if len(writers) == 0 {
		return nil
	}

	var (
		wg    sync.WaitGroup
		errMu sync.Mutex
		errs  []string
	)

	wg.Add(len(writers))

	for _, w := range writers {
		go func(w *vfile.Writer) {
			defer wg.Done()

			if err := w.Abort(ctx); err != nil {
				errMu.Lock()
				errs = append(errs, err.Error())
				errMu.Unlock()
			}
		}(w)
	}

	wg.Wait()

	if len(errs) > 0 {
		return objerr.New(objerr.KindStore, fmt.Sprintf("disconnect: %d writer(s) failed to abort: %s",
			len(errs), strings.Join(errs, "; ")))
	}

	return nil
}

// handleOf returns the stable address of an owned instance, used as its opaque handle.
func handleOf[T any](v *T) uintptr {
	return uintptr(unsafe.Pointer(v))
}

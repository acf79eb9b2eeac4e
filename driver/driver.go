// Package driver implements the external contract (component H, §4.8): the facade a C ABI shim calls into,
// delegating to the resolver, reader/writer and handle registry beneath it.
package driver

import (
	"context"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/KhiopsML/khiopsdriver-s3/handle"
	"github.com/KhiopsML/khiopsdriver-s3/log"
	"github.com/KhiopsML/khiopsdriver-s3/nameutil"
	"github.com/KhiopsML/khiopsdriver-s3/objcli"
	"github.com/KhiopsML/khiopsdriver-s3/objerr"
	"github.com/KhiopsML/khiopsdriver-s3/objval"
	"github.com/KhiopsML/khiopsdriver-s3/resolver"
	"github.com/KhiopsML/khiopsdriver-s3/vfile"
)

// Name/Version are the driver's static identity, reported verbatim by the ABI's
// 'driver_getDriverName'/'driver_getVersion'. The scheme ('driver_getScheme') is NOT static: it tracks whichever
// provider 'Connect' was handed, since the same driver binary backs both the S3 and GCS variants (§2, §4.1).
const (
	Name    = "S3 driver"
	Version = "1.0.0"

	// PreferredBufferSize is returned by 'driver_getSystemPreferredBufferSize'.
	PreferredBufferSize = 4 * 1024 * 1024

	// DiskFreeSpace is an implementation-defined large constant reported by 'driver_diskFreeSpace'; object stores
	// have no meaningful notion of free space.
	DiskFreeSpace = 1 << 60

	// defaultScheme is reported while disconnected, before a provider has been resolved.
	defaultScheme = "s3"
)

// schemeFor maps a connected client's provider to the URI scheme prefix 'nameutil.Parse' requires and
// 'driver_getScheme' reports.
func schemeFor(provider objval.Provider) string {
	if provider == objval.ProviderGCP {
		return "gs"
	}

	return "s3"
}

// Driver holds the process-wide state a connect/disconnect cycle owns: the object-store client, the default
// bucket, the resolved URI scheme, the connection flag, the handle registry, and the last-error slot (§5).
type Driver struct {
	mu sync.Mutex

	client    objcli.Client
	bucket    string
	scheme    string
	connected bool
	handles   *handle.Registry
	lastErr   string
}

// New returns a disconnected driver instance.
func New() *Driver {
	return &Driver{handles: handle.NewRegistry()}
}

// Connect initializes the object-store client and default bucket; idempotent while already connected.
func (d *Driver) Connect(client objcli.Client, bucket string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return nil
	}

	d.client = client
	d.bucket = bucket
	d.scheme = schemeFor(client.Provider())
	d.connected = true

	log.Debugf("(Driver) connected: %s", d.debugStateLocked(client.Provider()))

	return nil
}

// debugStateLocked renders the connection's identifying state as JSON for a debug-level log line; called with 'mu'
// held.
func (d *Driver) debugStateLocked(provider objval.Provider) string {
	dump, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(struct {
		Provider string `json:"provider"`
		Bucket   string `json:"bucket"`
	}{Provider: provider.String(), Bucket: d.bucket})
	if err != nil {
		return "<unavailable>"
	}

	return dump
}

// Disconnect drains the handle registry (aborting open writers, discarding open readers), tears down the client,
// and clears the connected flag.
func (d *Driver) Disconnect(ctx context.Context) error {
	d.mu.Lock()

	if !d.connected {
		d.mu.Unlock()
		return nil
	}

	registry := d.handles
	d.connected = false
	d.client = nil
	d.bucket = ""
	d.scheme = ""
	d.mu.Unlock()

	if err := registry.DrainAll(ctx); err != nil {
		d.setLastError(err)
		return err // Purposefully not wrapped
	}

	return nil
}

// IsConnected reports the current connection state.
func (d *Driver) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.connected
}

// Scheme returns the URI scheme prefix the currently connected provider requires ("s3" or "gs"), or the default
// scheme while disconnected.
func (d *Driver) Scheme() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return defaultScheme
	}

	return d.scheme
}

// LastError returns the most recently recorded error message, or "" if none has occurred since the last successful
// call.
func (d *Driver) LastError() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.lastErr
}

func (d *Driver) setLastError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err == nil {
		d.lastErr = ""
		return
	}

	d.lastErr = err.Error()
}

// snapshot returns the connected client/bucket/scheme, or 'objerr.KindNotConnected' if not connected.
func (d *Driver) snapshot() (objcli.Client, string, string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil, "", "", objerr.New(objerr.KindNotConnected, "driver is not connected")
	}

	return d.client, d.bucket, d.scheme, nil
}

// track runs 'fn' and, on failure, records the error in the last-error slot before returning it; on success it
// clears the slot.
func (d *Driver) track(fn func() error) error {
	err := fn()
	d.setLastError(err)

	return err
}

// Exist dispatches to 'FileExists' unless 'uri' ends in '/', in which case it unconditionally reports existence
// (object stores have no directories).
func (d *Driver) Exist(ctx context.Context, uri string) (bool, error) {
	if nameutil.IsDirectoryIntent(uri) {
		return true, nil
	}

	return d.FileExists(ctx, uri)
}

// FileExists reports true iff a plain head succeeds, or a multifile pattern resolves to a non-empty list.
func (d *Driver) FileExists(ctx context.Context, uri string) (bool, error) {
	var exists bool

	err := d.track(func() error {
		client, bucket, scheme, err := d.snapshot()
		if err != nil {
			return err // Purposefully not wrapped
		}

		name, err := nameutil.Parse(uri, scheme, bucket)
		if err != nil {
			return err // Purposefully not wrapped
		}

		_, err = resolver.Resolve(ctx, client, name.Bucket, name.Object)
		if err != nil {
			if objerr.IsNotFoundError(err) {
				return nil
			}

			return err
		}

		exists = true

		return nil
	})

	return exists, err
}

// GetFileSize returns the logical size of the object(s) backing 'uri' (multifile-aware: header-deduplicated total).
func (d *Driver) GetFileSize(ctx context.Context, uri string) (int64, error) {
	var size int64

	err := d.track(func() error {
		client, bucket, scheme, err := d.snapshot()
		if err != nil {
			return err // Purposefully not wrapped
		}

		name, err := nameutil.Parse(uri, scheme, bucket)
		if err != nil {
			return err // Purposefully not wrapped
		}

		reader, err := vfile.NewReader(ctx, client, name.Bucket, name.Object)
		if err != nil {
			return err // Purposefully not wrapped
		}

		size = reader.Size()

		return nil
	})

	return size, err
}

// Fopen opens 'uri' for reading ('r'), fresh writing ('w'), or appending ('a'), registering the resulting
// reader/writer and returning its opaque handle.
func (d *Driver) Fopen(ctx context.Context, uri string, mode byte) (uintptr, error) {
	var token uintptr

	err := d.track(func() error {
		client, bucket, scheme, err := d.snapshot()
		if err != nil {
			return err // Purposefully not wrapped
		}

		name, err := nameutil.Parse(uri, scheme, bucket)
		if err != nil {
			return err // Purposefully not wrapped
		}

		switch mode {
		case 'r':
			reader, err := vfile.NewReader(ctx, client, name.Bucket, name.Object)
			if err != nil {
				return err // Purposefully not wrapped
			}

			token = d.handles.PutReader(reader)
		case 'w', 'a':
			writer, err := vfile.OpenWriter(ctx, client, name.Bucket, name.Object, mode)
			if err != nil {
				return err // Purposefully not wrapped
			}

			token = d.handles.PutWriter(writer)
		default:
			return objerr.New(objerr.KindInvalidArgument, "unsupported open mode")
		}

		return nil
	})

	return token, err
}

// Fclose closes the reader/writer behind 'token', finalizing a writer's multipart upload.
func (d *Driver) Fclose(ctx context.Context, token uintptr) error {
	return d.track(func() error {
		if reader, err := d.handles.Reader(token); err == nil {
			d.handles.CloseReader(reader)
			return nil
		}

		writer, err := d.handles.Writer(token)
		if err != nil {
			return err // Purposefully not wrapped
		}

		closeErr := writer.Close(ctx)
		d.handles.CloseWriter(writer)

		return closeErr
	})
}

// Fseek repositions a reader's logical offset; writers don't support seeking.
func (d *Driver) Fseek(token uintptr, offset int64, whence int) (int64, error) {
	var pos int64

	err := d.track(func() error {
		reader, err := d.handles.Reader(token)
		if err != nil {
			return err // Purposefully not wrapped
		}

		pos, err = reader.Seek(offset, whence)

		return err
	})

	return pos, err
}

// Fread reads up to 'len(dst)' bytes from the reader behind 'token'.
func (d *Driver) Fread(ctx context.Context, token uintptr, dst []byte) (int, error) {
	var n int

	err := d.track(func() error {
		reader, err := d.handles.Reader(token)
		if err != nil {
			return err // Purposefully not wrapped
		}

		n, err = reader.Read(ctx, dst)

		return err
	})

	return n, err
}

// Fwrite appends 'src' to the writer behind 'token'. 'unitSize' is the caller's logical record size (as in C
// 'fwrite's 'size' parameter), used to pick a part-boundary-safe buffer growth quantum.
func (d *Driver) Fwrite(ctx context.Context, token uintptr, src []byte, unitSize int64) (int, error) {
	var n int

	err := d.track(func() error {
		writer, err := d.handles.Writer(token)
		if err != nil {
			return err // Purposefully not wrapped
		}

		n, err = writer.Write(ctx, src, unitSize)

		return err
	})

	return n, err
}

// Fflush is a no-op: a multipart upload cannot publish intermediate bytes before 'Fclose' completes it.
func (d *Driver) Fflush(token uintptr) error {
	return d.track(func() error {
		if _, err := d.handles.Reader(token); err == nil {
			return nil
		}

		_, err := d.handles.Writer(token)

		return err
	})
}

// Remove deletes the single object at 'uri'.
func (d *Driver) Remove(ctx context.Context, uri string) error {
	return d.track(func() error {
		client, bucket, scheme, err := d.snapshot()
		if err != nil {
			return err // Purposefully not wrapped
		}

		name, err := nameutil.Parse(uri, scheme, bucket)
		if err != nil {
			return err // Purposefully not wrapped
		}

		return client.DeleteObjects(ctx, name.Bucket, name.Object)
	})
}

// Mkdir is a no-op returning success: object stores have no directories.
func (d *Driver) Mkdir(string) error {
	return nil
}

// Rmdir is a no-op returning success: object stores have no directories.
func (d *Driver) Rmdir(string) error {
	return nil
}

// CopyToLocal streams the full (header-deduplicated) logical content of 'src' into the local file at 'dstLocal'.
func (d *Driver) CopyToLocal(ctx context.Context, src, dstLocal string) error {
	return d.track(func() error {
		client, bucket, scheme, err := d.snapshot()
		if err != nil {
			return err // Purposefully not wrapped
		}

		name, err := nameutil.Parse(src, scheme, bucket)
		if err != nil {
			return err // Purposefully not wrapped
		}

		reader, err := vfile.NewReader(ctx, client, name.Bucket, name.Object)
		if err != nil {
			return err // Purposefully not wrapped
		}

		local, err := os.Create(dstLocal)
		if err != nil {
			return objerr.Wrap(objerr.KindStore, err, "failed to create local destination file")
		}
		defer local.Close()

		buf := make([]byte, PreferredBufferSize)

		for {
			n, err := reader.Read(ctx, buf)
			if err != nil {
				return err // Purposefully not wrapped
			}

			if n == 0 {
				return nil
			}

			if _, err := local.Write(buf[:n]); err != nil {
				return objerr.Wrap(objerr.KindStore, err, "failed to write local destination file")
			}
		}
	})
}

// CopyFromLocal uploads the local file at 'srcLocal' to 'dst' in a single request.
func (d *Driver) CopyFromLocal(ctx context.Context, srcLocal, dst string) error {
	return d.track(func() error {
		client, bucket, scheme, err := d.snapshot()
		if err != nil {
			return err // Purposefully not wrapped
		}

		name, err := nameutil.Parse(dst, scheme, bucket)
		if err != nil {
			return err // Purposefully not wrapped
		}

		local, err := os.Open(srcLocal)
		if err != nil {
			return objerr.Wrap(objerr.KindStore, err, "failed to open local source file")
		}
		defer local.Close()

		return client.PutObject(ctx, name.Bucket, name.Object, local)
	})
}

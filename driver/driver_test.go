package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KhiopsML/khiopsdriver-s3/objerr"
	"github.com/KhiopsML/khiopsdriver-s3/objval"
)

func connected(t *testing.T, objects map[string][]byte) (*Driver, *memClient) {
	t.Helper()

	d := New()
	client := newMemClient(objects)
	require.NoError(t, d.Connect(client, "bucket"))

	return d, client
}

func TestOperationsFailWhenNotConnected(t *testing.T) {
	d := New()

	_, err := d.FileExists(context.Background(), "s3://bucket/a.csv")
	require.Error(t, err)
	assert.True(t, objerr.IsKind(err, objerr.KindNotConnected))
	assert.Equal(t, err.Error(), d.LastError())
}

func TestConnectIsIdempotent(t *testing.T) {
	d, client := connected(t, nil)

	other := newMemClient(nil)
	require.NoError(t, d.Connect(other, "other-bucket"))

	assert.True(t, d.IsConnected())
	assert.Same(t, client, d.client)
}

func TestExistPlainFile(t *testing.T) {
	d, _ := connected(t, map[string][]byte{"a.csv": []byte("data")})

	ok, err := d.Exist(context.Background(), "s3://bucket/a.csv")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.Exist(context.Background(), "s3://bucket/missing.csv")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExistDirectoryIntentAlwaysTrue(t *testing.T) {
	d, _ := connected(t, nil)

	ok, err := d.Exist(context.Background(), "s3://bucket/some/dir/")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExistMultifilePattern(t *testing.T) {
	d, _ := connected(t, map[string][]byte{
		"split/part-0.csv": []byte("a"),
		"split/part-1.csv": []byte("b"),
	})

	ok, err := d.Exist(context.Background(), "s3://bucket/split/part-*.csv")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGetFileSizeMultifileDeduplicatesHeader(t *testing.T) {
	header := "h,e,a,d\n"
	d, _ := connected(t, map[string][]byte{
		"split/part-0.csv": []byte(header + "row0\n"),
		"split/part-1.csv": []byte(header + "row1\n"),
	})

	size, err := d.GetFileSize(context.Background(), "s3://bucket/split/part-*.csv")
	require.NoError(t, err)
	assert.EqualValues(t, len(header)+len("row0\n")+len("row1\n"), size)
}

func TestReadAcrossFileBoundary(t *testing.T) {
	header := "h\n"
	d, _ := connected(t, map[string][]byte{
		"split/part-0.csv": []byte(header + "AAAA"),
		"split/part-1.csv": []byte(header + "BBBB"),
	})

	ctx := context.Background()

	h, err := d.Fopen(ctx, "s3://bucket/split/part-*.csv", 'r')
	require.NoError(t, err)

	_, err = d.Fseek(h, 2, 0)
	require.NoError(t, err)

	buf := make([]byte, 6)
	n, err := d.Fread(ctx, h, buf)
	require.NoError(t, err)
	assert.Equal(t, "AAAABB", string(buf[:n]))

	require.NoError(t, d.Fclose(ctx, h))
}

func TestSeekPastEndThenReadReturnsShortRead(t *testing.T) {
	d, _ := connected(t, map[string][]byte{"a.csv": []byte("hello")})
	ctx := context.Background()

	h, err := d.Fopen(ctx, "s3://bucket/a.csv", 'r')
	require.NoError(t, err)

	_, err = d.Fseek(h, 100, 0)
	require.NoError(t, err)

	buf := make([]byte, 10)
	n, err := d.Fread(ctx, h, buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, d.Fclose(ctx, h))
}

func TestWriteSmallFile(t *testing.T) {
	d, client := connected(t, nil)
	ctx := context.Background()

	h, err := d.Fopen(ctx, "s3://bucket/out.csv", 'w')
	require.NoError(t, err)

	n, err := d.Fwrite(ctx, h, []byte("hello"), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.NoError(t, d.Fclose(ctx, h))
	assert.Equal(t, "hello", string(client.objects["out.csv"]))
}

func TestWriteLargeFileSplitsParts(t *testing.T) {
	d, client := connected(t, nil)
	ctx := context.Background()

	h, err := d.Fopen(ctx, "s3://bucket/out.csv", 'w')
	require.NoError(t, err)

	data := make([]byte, 6*1024*1024)
	n, err := d.Fwrite(ctx, h, data, 1)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	require.NoError(t, d.Fclose(ctx, h))
	assert.Equal(t, data, client.objects["out.csv"])
}

func TestAppendToExistingFile(t *testing.T) {
	d, client := connected(t, map[string][]byte{"out.csv": []byte("existing")})
	ctx := context.Background()

	h, err := d.Fopen(ctx, "s3://bucket/out.csv", 'a')
	require.NoError(t, err)

	_, err = d.Fwrite(ctx, h, []byte(" more"), 5)
	require.NoError(t, err)

	require.NoError(t, d.Fclose(ctx, h))
	assert.Equal(t, "existing more", string(client.objects["out.csv"]))
}

func TestAppendToMissingFileFallsBackToFreshWrite(t *testing.T) {
	d, client := connected(t, nil)
	ctx := context.Background()

	h, err := d.Fopen(ctx, "s3://bucket/out.csv", 'a')
	require.NoError(t, err)

	_, err = d.Fwrite(ctx, h, []byte("new"), 3)
	require.NoError(t, err)

	require.NoError(t, d.Fclose(ctx, h))
	assert.Equal(t, "new", string(client.objects["out.csv"]))
}

func TestDisconnectAbortsOpenWriter(t *testing.T) {
	d, client := connected(t, nil)
	ctx := context.Background()

	h, err := d.Fopen(ctx, "s3://bucket/out.csv", 'w')
	require.NoError(t, err)

	_, err = d.Fwrite(ctx, h, []byte("partial"), 7)
	require.NoError(t, err)

	require.NoError(t, d.Disconnect(ctx))
	assert.False(t, d.IsConnected())
	assert.NotContains(t, client.objects, "out.csv")

	_, err = d.Fwrite(ctx, h, []byte("more"), 4)
	require.Error(t, err)
	assert.True(t, objerr.IsKind(err, objerr.KindUnknownHandle))
}

func TestInvalidURIMissingSchemeFails(t *testing.T) {
	d, _ := connected(t, nil)

	_, err := d.FileExists(context.Background(), "not-a-uri")
	require.Error(t, err)
	assert.True(t, objerr.IsKind(err, objerr.KindInvalidArgument))
}

func TestLastErrorTracksMostRecentFailureAndClearsOnSuccess(t *testing.T) {
	d, _ := connected(t, map[string][]byte{"a.csv": []byte("data")})
	ctx := context.Background()

	_, err := d.GetFileSize(ctx, "s3://bucket/missing.csv")
	require.Error(t, err)
	assert.Equal(t, err.Error(), d.LastError())

	_, err = d.GetFileSize(ctx, "s3://bucket/a.csv")
	require.NoError(t, err)
	assert.Empty(t, d.LastError())
}

func TestRemoveDeletesObject(t *testing.T) {
	d, client := connected(t, map[string][]byte{"a.csv": []byte("data")})

	require.NoError(t, d.Remove(context.Background(), "s3://bucket/a.csv"))
	assert.NotContains(t, client.objects, "a.csv")
}

func TestMkdirAndRmdirAreNoOps(t *testing.T) {
	d, _ := connected(t, nil)

	assert.NoError(t, d.Mkdir("s3://bucket/some/dir/"))
	assert.NoError(t, d.Rmdir("s3://bucket/some/dir/"))
}

func TestCopyToLocalWritesFullContent(t *testing.T) {
	d, _ := connected(t, map[string][]byte{"a.csv": []byte("hello world")})

	dst := filepath.Join(t.TempDir(), "local.csv")
	require.NoError(t, d.CopyToLocal(context.Background(), "s3://bucket/a.csv", dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
}

func TestCopyFromLocalUploadsContent(t *testing.T) {
	d, client := connected(t, nil)

	src := filepath.Join(t.TempDir(), "local.csv")
	require.NoError(t, os.WriteFile(src, []byte("uploaded"), 0o600))

	require.NoError(t, d.CopyFromLocal(context.Background(), src, "s3://bucket/remote.csv"))
	assert.Equal(t, "uploaded", string(client.objects["remote.csv"]))
}

func TestFflushIsNoOpForOpenHandles(t *testing.T) {
	d, _ := connected(t, nil)
	ctx := context.Background()

	h, err := d.Fopen(ctx, "s3://bucket/out.csv", 'w')
	require.NoError(t, err)

	assert.NoError(t, d.Fflush(h))
	require.NoError(t, d.Fclose(ctx, h))
}

func TestSchemeReflectsConnectedProvider(t *testing.T) {
	d := New()
	assert.Equal(t, "s3", d.Scheme())

	client := newMemClientWithProvider(nil, objval.ProviderGCP)
	require.NoError(t, d.Connect(client, "bucket"))
	assert.Equal(t, "gs", d.Scheme())
}

func TestGCSSchemeURIRoundTrips(t *testing.T) {
	d := New()
	client := newMemClientWithProvider(map[string][]byte{"a.csv": []byte("data")}, objval.ProviderGCP)
	require.NoError(t, d.Connect(client, "bucket"))

	ok, err := d.Exist(context.Background(), "gs://bucket/a.csv")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, d.CopyFromLocal(context.Background(), writeTempFile(t, "uploaded"), "gs://bucket/out.csv"))
	assert.Equal(t, "uploaded", string(client.objects["out.csv"]))

	_, err = d.FileExists(context.Background(), "s3://bucket/a.csv")
	require.Error(t, err)
	assert.True(t, objerr.IsKind(err, objerr.KindInvalidArgument))
}

func writeTempFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "local.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

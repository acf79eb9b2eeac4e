package config

import (
	"context"
	"net"
	"testing"

	"github.com/foxcpp/go-mockdns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KhiopsML/khiopsdriver-s3/objval"
)

func clearBucketEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"S3_BUCKET_NAME", "GCS_BUCKET_NAME", "S3_ENDPOINT", "AWS_ENDPOINT_URL", "AWS_DEFAULT_REGION",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "S3_DRIVER_LOGLEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadRequiresExactlyOneBucketVar(t *testing.T) {
	clearBucketEnv(t)

	_, err := Load(context.Background())
	require.Error(t, err)

	t.Setenv("S3_BUCKET_NAME", "bucket-a")
	t.Setenv("GCS_BUCKET_NAME", "bucket-b")

	_, err = Load(context.Background())
	require.Error(t, err)
}

func TestLoadAWSResolvesRegionAndEndpoint(t *testing.T) {
	clearBucketEnv(t)

	t.Setenv("S3_BUCKET_NAME", "my-bucket")
	t.Setenv("AWS_DEFAULT_REGION", "eu-west-1")
	t.Setenv("S3_ENDPOINT", "http://minio.internal:9000")
	t.Setenv("AWS_ACCESS_KEY_ID", "key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, objval.ProviderAWS, cfg.Provider)
	assert.Equal(t, "my-bucket", cfg.Bucket)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "http://minio.internal:9000", cfg.Endpoint)
}

func TestLoadAWSRejectsHalfSetCredentials(t *testing.T) {
	clearBucketEnv(t)

	t.Setenv("S3_BUCKET_NAME", "my-bucket")
	t.Setenv("AWS_ACCESS_KEY_ID", "key")

	_, err := Load(context.Background())
	require.Error(t, err)
}

func TestLoadUsesDefaultLogLevel(t *testing.T) {
	clearBucketEnv(t)

	t.Setenv("S3_BUCKET_NAME", "my-bucket")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)

	t.Setenv("S3_DRIVER_LOGLEVEL", "trace")

	cfg, err = Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "trace", cfg.LogLevel)
}

// TestCustomEndpointResolvesViaDNS exercises the DNS resolution path a self-hosted S3-compatible 'S3_ENDPOINT'
// relies on, using a fake DNS zone to stand in for a real one instead of depending on network access.
func TestCustomEndpointResolvesViaDNS(t *testing.T) {
	srv, err := mockdns.NewServer(map[string]mockdns.Zone{
		"minio.internal.": {
			A: []string{"127.0.0.1"},
		},
	}, false)
	require.NoError(t, err)
	defer srv.Close()

	srv.PatchNet(net.DefaultResolver)
	defer mockdns.UnpatchNet(net.DefaultResolver)

	addrs, err := net.DefaultResolver.LookupHost(context.Background(), "minio.internal")
	require.NoError(t, err)
	assert.Contains(t, addrs, "127.0.0.1")
}

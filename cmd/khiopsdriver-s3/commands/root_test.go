package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommandPrintsIdentity(t *testing.T) {
	t.Setenv("S3_BUCKET_NAME", "test-bucket")
	t.Setenv("GCS_BUCKET_NAME", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "scheme: s3")
}

func TestExistsRequiresExactlyOneArgument(t *testing.T) {
	rootCmd.SetArgs([]string{"exists"})
	assert.Error(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"exists", "a", "b"})
	assert.Error(t, rootCmd.Execute())
}

func TestCpRequiresExactlyTwoArguments(t *testing.T) {
	rootCmd.SetArgs([]string{"cp", "s3://bucket/a.csv"})
	assert.Error(t, rootCmd.Execute())
}

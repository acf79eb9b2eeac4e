package objgcp

import "github.com/google/uuid"

// partPrefix is the path prefix under which a multipart upload's intermediate objects are staged.
func partPrefix(id, key string) string {
	return ".multipart/" + id + "/" + key + "/"
}

// partKey returns a fresh intermediate object key for the given multipart upload.
func partKey(id, key string) string {
	return partPrefix(id, key) + uuid.NewString()
}

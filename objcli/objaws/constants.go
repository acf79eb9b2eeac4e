package objaws

// MinUploadSize is the smallest permitted size for any non-final part of an S3 multipart upload.
const MinUploadSize = 5 * 1024 * 1024

// MaxUploadSize is the largest permitted size for a single part of an S3 multipart upload.
const MaxUploadSize = 5 * 1024 * 1024 * 1024

// PageSize is the maximum number of keys accepted by a single 'DeleteObjects' request.
const PageSize = 1000

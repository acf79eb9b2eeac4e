package objval

import (
	"fmt"
)

// ByteRange represents an inclusive byte range; a nil '*ByteRange' always means "the whole object". An 'End' of -1
// means "open-ended" (i.e. through to the end of the object) and is only valid where the calling operation allows it.
type ByteRange struct {
	Start int64
	End   int64
}

// NewByteRange returns a closed byte range covering '[start, end]' (both inclusive).
func NewByteRange(start, end int64) *ByteRange {
	return &ByteRange{Start: start, End: end}
}

// NewOpenByteRange returns an open-ended byte range covering '[start, EOF)'.
func NewOpenByteRange(start int64) *ByteRange {
	return &ByteRange{Start: start, End: -1}
}

// open returns a boolean indicating whether this range is open-ended.
func (b *ByteRange) open() bool {
	return b.End == -1
}

// Valid returns an error if this byte range is malformed, or (when 'requireClosed' is set) open-ended; a nil range is
// always valid. Closed ranges are required by operations which don't support an open-ended HTTP 'Range' header, such
// as a server-side part copy.
func (b *ByteRange) Valid(requireClosed bool) error {
	if b == nil {
		return nil
	}

	if b.Start < 0 {
		return fmt.Errorf("invalid byte range: negative start %d", b.Start)
	}

	if !b.open() && b.End < b.Start {
		return fmt.Errorf("invalid byte range: end %d before start %d", b.End, b.Start)
	}

	if requireClosed && b.open() {
		return fmt.Errorf("invalid byte range: open-ended range not permitted here")
	}

	return nil
}

// String renders this range as an HTTP 'Range' header value body (without the 'bytes=' unit prefix stripped).
func (b *ByteRange) String() string {
	if b == nil {
		return ""
	}

	if b.open() {
		return fmt.Sprintf("bytes=%d-", b.Start)
	}

	return fmt.Sprintf("bytes=%d-%d", b.Start, b.End)
}

// ToOffsetLength converts this range into an '(offset, length)' pair as used by APIs which take an explicit length
// rather than an inclusive end (e.g. Google Cloud Storage's ranged reader). 'openLength' is returned verbatim when
// this range is open-ended.
func (b *ByteRange) ToOffsetLength(openLength int64) (int64, int64) {
	if b == nil {
		return 0, openLength
	}

	if b.open() {
		return b.Start, openLength
	}

	return b.Start, b.End - b.Start + 1
}

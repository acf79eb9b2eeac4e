// Package resolver expands a (possibly wildcarded) object key into an ordered list of concrete objects (component D,
// §4.4), backed by the object-store client's LIST operation and the glob matcher.
package resolver

import (
	"context"

	"github.com/KhiopsML/khiopsdriver-s3/glob"
	"github.com/KhiopsML/khiopsdriver-s3/objcli"
	"github.com/KhiopsML/khiopsdriver-s3/objerr"
	"github.com/KhiopsML/khiopsdriver-s3/pattern"
)

// Entry is one concrete object backing a (possibly multifile) pattern.
type Entry struct {
	Key  string
	Size int64
}

// Resolve expands 'pattern' (an object key, possibly containing glob metacharacters) into an ordered list of
// concrete objects. A plain pattern resolves via a single HEAD; a multifile pattern lists every object under its
// literal prefix and filters with the glob matcher, preserving list order. An empty result for a multifile pattern
// is a 'objerr.KindNotFound' error, matching the single-file HEAD-miss case.
func Resolve(ctx context.Context, client objcli.Client, bucket, pat string) ([]Entry, error) {
	classification := pattern.Classify(pat)

	if !classification.Multifile {
		attrs, err := client.GetObjectAttrs(ctx, bucket, pat)
		if err != nil {
			return nil, err // Purposefully not wrapped; already classified by the adapter
		}

		return []Entry{{Key: attrs.Key, Size: attrs.Size}}, nil
	}

	prefix := classification.Prefix(pat)

	var (
		entries      []Entry
		continuation string
	)

	for {
		page, err := client.ListObjects(ctx, bucket, prefix, continuation)
		if err != nil {
			return nil, err // Purposefully not wrapped
		}

		for i := range page.Objects {
			attrs := page.Objects[i]

			if !glob.Match(attrs.Key, pat) {
				continue
			}

			entries = append(entries, Entry{Key: attrs.Key, Size: attrs.Size})
		}

		if page.NextContinuation == "" {
			break
		}

		continuation = page.NextContinuation
	}

	if len(entries) == 0 {
		return nil, objerr.New(objerr.KindNotFound, "no objects match pattern \""+pat+"\"")
	}

	return entries, nil
}

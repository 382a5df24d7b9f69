package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseObjectURL resolves a stored file address into (bucket, key). Both
// forms found in file records are supported: the explicit s3://bucket/key
// scheme and virtual-host URLs like https://bucket.s3.region.amazonaws.com/key.
// Neither bucket nor key is validated; a malformed address surfaces as a
// failed downstream call.
func ParseObjectURL(raw string) (bucket, key string, err error) {
	if rest, ok := strings.CutPrefix(raw, "s3://"); ok {
		bucket, key, _ = strings.Cut(rest, "/")
		return bucket, key, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse object url: %w", err)
	}
	bucket, _, _ = strings.Cut(u.Host, ".")
	key = strings.TrimPrefix(u.Path, "/")
	return bucket, key, nil
}

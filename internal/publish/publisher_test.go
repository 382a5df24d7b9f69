package publish

import (
	"context"
	"errors"
	"testing"
)

type fakeStore struct {
	putKey     string
	putContent string
	putErr     error
}

func (f *fakeStore) PutText(ctx context.Context, key string, content []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.putKey = key
	f.putContent = string(content)
	return nil
}

func (f *fakeStore) ObjectURL(key string) string {
	return "https://bucket.s3.us-east-1.amazonaws.com/" + key
}

func TestOutputKey(t *testing.T) {
	cases := []struct {
		sourceKey string
		want      string
	}{
		{"uploads/2024/report.pdf", "pageContents/report.txt"},
		{"report.pdf", "pageContents/report.txt"},
		{"noext", "pageContents/noext.txt"},
		{"a/b/archive.tar.gz", "pageContents/archive.tar.txt"},
	}
	for _, tc := range cases {
		if got := OutputKey(tc.sourceKey); got != tc.want {
			t.Errorf("OutputKey(%q) = %q, want %q", tc.sourceKey, got, tc.want)
		}
	}
}

func TestPublish(t *testing.T) {
	store := &fakeStore{}
	res, err := NewPublisher(store).Publish(context.Background(), "docs/memo.pdf", "a b  c")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if store.putKey != "pageContents/memo.txt" {
		t.Errorf("put key = %q", store.putKey)
	}
	if store.putContent != "a b  c" {
		t.Errorf("put content = %q", store.putContent)
	}
	if res.PageContentURL != "https://bucket.s3.us-east-1.amazonaws.com/pageContents/memo.txt" {
		t.Errorf("url = %q", res.PageContentURL)
	}
	if res.WordCount != 3 || res.TokenCountEstimate != 3 {
		t.Errorf("counts = (%d, %d), want (3, 3)", res.WordCount, res.TokenCountEstimate)
	}
}

func TestPublishUploadError(t *testing.T) {
	boom := errors.New("access denied")
	store := &fakeStore{putErr: boom}
	_, err := NewPublisher(store).Publish(context.Background(), "docs/memo.pdf", "text")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped upload error", err)
	}
}

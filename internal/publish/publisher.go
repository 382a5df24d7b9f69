// Package publish writes assembled page text back to object storage and
// derives the metrics recorded on the file.
package publish

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/calebds/pagetext/internal/storage"
	"github.com/calebds/pagetext/pkg/tokenizer"
)

// KeyPrefix is the namespace all extracted-text objects live under.
const KeyPrefix = "pageContents/"

// Result describes a published extraction output.
type Result struct {
	PageContentURL     string
	WordCount          int
	TokenCountEstimate int
}

type Publisher struct {
	store storage.ObjectStore
}

func NewPublisher(store storage.ObjectStore) *Publisher {
	return &Publisher{store: store}
}

// Publish uploads content under a key derived from the source object key and
// returns the object address plus word and token counts. Uploads are not
// retried; a failed write aborts the attempt.
func (p *Publisher) Publish(ctx context.Context, sourceKey, content string) (*Result, error) {
	key := OutputKey(sourceKey)
	if err := p.store.PutText(ctx, key, []byte(content)); err != nil {
		return nil, fmt.Errorf("upload page content: %w", err)
	}
	return &Result{
		PageContentURL:     p.store.ObjectURL(key),
		WordCount:          tokenizer.CountWords(content),
		TokenCountEstimate: tokenizer.EstimateTokens(content),
	}, nil
}

// OutputKey maps a source object key to its extracted-text key: the base
// name with the extension swapped for .txt, under KeyPrefix.
func OutputKey(sourceKey string) string {
	base := path.Base(sourceKey)
	base = strings.TrimSuffix(base, path.Ext(base))
	return KeyPrefix + base + ".txt"
}

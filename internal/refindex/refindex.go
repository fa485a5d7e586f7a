// Package refindex provides an in-memory Bleve index over batch document text,
// used to narrow reference-detection candidates before exact substring checks.
package refindex

import (
	"context"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/hyperjump/kizuna/internal/models"
)

// indexDoc is the shape stored in the index.
type indexDoc struct {
	Text string `json:"text"`
}

// Index holds a per-batch in-memory text index. Build it fully with Add
// before detection starts; lookups are safe for concurrent use and memoized
// per token.
type Index struct {
	index bleve.Index
	size  int

	mu   sync.RWMutex
	memo map[string]map[string]bool
}

// New creates an empty in-memory index.
// The standard analyzer (lowercase + tokenize, no stemming) keeps identifier
// tokens like "PO-12345" searchable as the adjacent terms "po 12345".
func New() (*Index, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("text", textFieldMapping)
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create reference index: %w", err)
	}
	return &Index{
		index: index,
		memo:  make(map[string]map[string]bool),
	}, nil
}

// Add indexes one document's text content.
func (x *Index) Add(doc *models.Document) error {
	if err := x.index.Index(doc.ID, indexDoc{Text: doc.Text}); err != nil {
		return fmt.Errorf("failed to index document %s: %w", doc.ID, err)
	}
	x.size++
	return nil
}

// DocsContaining returns the ids of documents whose text contains the token
// as an adjacent term sequence. Results are candidates only; callers confirm
// with an exact substring check.
func (x *Index) DocsContaining(ctx context.Context, token string) (map[string]bool, error) {
	x.mu.RLock()
	if hits, ok := x.memo[token]; ok {
		x.mu.RUnlock()
		return hits, nil
	}
	x.mu.RUnlock()

	q := bleve.NewMatchPhraseQuery(token)
	q.SetField("text")
	req := bleve.NewSearchRequest(q)
	req.Size = x.size
	res, err := x.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("reference index search for %q failed: %w", token, err)
	}

	hits := make(map[string]bool, len(res.Hits))
	for _, hit := range res.Hits {
		hits[hit.ID] = true
	}
	x.mu.Lock()
	x.memo[token] = hits
	x.mu.Unlock()
	return hits, nil
}

// Size returns the number of indexed documents.
func (x *Index) Size() int {
	return x.size
}

// Close releases the index.
func (x *Index) Close() error {
	return x.index.Close()
}

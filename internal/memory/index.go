package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
)

// Index is a per-agent, in-memory BM25 index over read_memory snapshots.
// It lives only as long as the agent does — read_memory itself is never
// persisted across runs, so neither is its index.
type Index struct {
	mu  sync.Mutex
	idx bleve.Index
}

// NewIndex builds an empty index with Bleve's default text mapping.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create memory index: %w", err)
	}
	return &Index{idx: idx}, nil
}

// Put (re)indexes the snapshot at path, replacing any prior version.
func (m *Index) Put(path, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idx.Index(path, indexedDocument{Path: path, Content: content, IndexedAt: time.Now()})
}

// Search returns up to limit snapshots best matching query, ranked by
// Bleve's default BM25 scoring, most relevant first.
func (m *Index) Search(query string, limit int) ([]SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"content"}
	req.Highlight = bleve.NewHighlight()

	res, err := m.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("memory search failed: %w", err)
	}

	out := make([]SearchResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		excerpt := ""
		if frags, ok := hit.Fragments["content"]; ok && len(frags) > 0 {
			excerpt = frags[0]
		}
		out = append(out, SearchResult{Path: hit.ID, Score: hit.Score, Excerpt: excerpt})
	}
	return out, nil
}

// Close releases the underlying index.
func (m *Index) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idx.Close()
}

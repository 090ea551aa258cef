// Package memory provides full-text search over an agent's accumulated
// read_memory snapshots. It is not a semantic/vector store: read_memory is
// an exact path-to-content map populated by READ, and this package only
// adds BM25-ranked retrieval over that map for agents that have
// accumulated enough of it that dumping the whole thing into every prompt
// would waste the context window.
package memory

import "time"

// Snapshot is one read_memory entry: the path it was read from and its
// content at the time of the READ.
type Snapshot struct {
	Path    string
	Content string
}

// SearchResult is one ranked match from an Index.
type SearchResult struct {
	Path    string
	Score   float64
	Excerpt string
}

// indexedDocument is the shape Bleve indexes and returns fields for.
type indexedDocument struct {
	Path      string    `json:"path"`
	Content   string    `json:"content"`
	IndexedAt time.Time `json:"indexed_at"`
}

package search

import (
	"context"
	"time"

	"github.com/takatori/threadsearch/internal/query"
)

// Document is one posting as stored in the index. ID is the forum item id and
// doubles as the index key, so re-indexing an item overwrites it.
type Document struct {
	ID       string    `json:"id"`
	ThreadID string    `json:"thread_id"`
	Author   string    `json:"author,omitempty"`
	PostedAt time.Time `json:"posted_at"`
	Text     string    `json:"text"`
}

type Options struct {
	Limit  int
	Offset int
}

type Result struct {
	Total     int        `json:"total"`
	Documents []Document `json:"documents"`
}

type Engine interface {
	Index(ctx context.Context, collection string, docs []Document) error
	Search(ctx context.Context, collection string, q *query.Node, opts Options) (Result, error)
}

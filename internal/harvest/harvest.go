// Package harvest pulls a forum thread's replies into the search index.
package harvest

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/google/uuid"
	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
	"github.com/takatori/threadsearch/internal"
	"github.com/takatori/threadsearch/internal/errors"
	"github.com/takatori/threadsearch/internal/forum"
	"github.com/takatori/threadsearch/internal/search"
	"github.com/takatori/threadsearch/internal/store"
	"golang.org/x/sync/errgroup"
)

type ItemSource interface {
	Item(ctx context.Context, id int64) (forum.Item, error)
}

type ItemStore interface {
	Threads(ctx context.Context) ([]int64, error)
	KnownItems(ctx context.Context, threadID int64) (*roaring64.Bitmap, error)
	SaveItems(ctx context.Context, threadID int64, docs []search.Document) error
	RecordRun(ctx context.Context, run store.Run) error
}

type Harvester struct {
	source      ItemSource
	engine      search.Engine
	store       ItemStore
	collection  string
	concurrency int
	now         func() time.Time
}

type Report struct {
	RunID    string `json:"runId"`
	ThreadID int64  `json:"threadId"`
	Fetched  int    `json:"fetched"`
	Skipped  int    `json:"skipped"`
	Indexed  int    `json:"indexed"`
}

func NewHarvester(config *internal.Config, source ItemSource, engine search.Engine, st ItemStore) *Harvester {
	return &Harvester{
		source:      source,
		engine:      engine,
		store:       st,
		collection:  config.SolrCollection,
		concurrency: max(config.ForumConcurrency, 1),
		now:         time.Now,
	}
}

// Thread fetches every direct reply of threadID and returns the cleaned
// postings in reply order. Missing, removed and empty replies are dropped and
// duplicate ids are kept once. The first fetch error cancels the rest.
func (h *Harvester) Thread(ctx context.Context, threadID int64) ([]search.Document, error) {
	root, err := h.source.Item(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if root.Removed() {
		return nil, failure.New(
			errors.ErrNotFound,
			failure.Field(failure.Message("thread was removed")),
			failure.Context{
				"thread": root.Key(),
			},
		)
	}

	seen := roaring64.New()
	kids := lo.Filter(root.Kids, func(id int64, _ int) bool {
		return id > 0 && seen.CheckedAdd(uint64(id))
	})

	slog.DebugContext(ctx, "fetching replies", "thread", threadID, "replies", len(kids))

	results := make([]*search.Document, len(kids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)
	for i, id := range kids {
		i, id := i, id
		g.Go(func() error {
			item, err := h.source.Item(gctx, id)
			if failure.Is(err, errors.ErrNotFound) {
				slog.DebugContext(gctx, "reply is missing", "id", id)
				return nil
			}
			if err != nil {
				return err
			}
			if doc, ok := toDocument(threadID, item); ok {
				results[i] = &doc
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	docs := make([]search.Document, 0, len(results))
	for _, doc := range results {
		if doc != nil {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

// Run harvests threadID, indexes the postings not seen by an earlier run and
// records them together with a run summary.
func (h *Harvester) Run(ctx context.Context, threadID int64) (Report, error) {
	report := Report{
		RunID:    uuid.NewString(),
		ThreadID: threadID,
	}
	started := h.now()

	docs, err := h.Thread(ctx, threadID)
	if err != nil {
		return report, err
	}
	report.Fetched = len(docs)

	known, err := h.store.KnownItems(ctx, threadID)
	if err != nil {
		return report, err
	}
	fresh := lo.Filter(docs, func(doc search.Document, _ int) bool {
		id, err := strconv.ParseUint(doc.ID, 10, 64)
		return err != nil || !known.Contains(id)
	})
	report.Skipped = len(docs) - len(fresh)

	if len(fresh) > 0 {
		if err := h.engine.Index(ctx, h.collection, fresh); err != nil {
			return report, err
		}
		if err := h.store.SaveItems(ctx, threadID, fresh); err != nil {
			return report, err
		}
	}
	report.Indexed = len(fresh)

	err = h.store.RecordRun(ctx, store.Run{
		ID:        report.RunID,
		ThreadID:  threadID,
		StartedAt: started,
		Fetched:   report.Fetched,
		Skipped:   report.Skipped,
		Indexed:   report.Indexed,
	})
	if err != nil {
		return report, err
	}

	slog.InfoContext(ctx, "harvested thread",
		"run", report.RunID,
		"thread", threadID,
		"fetched", report.Fetched,
		"skipped", report.Skipped,
		"indexed", report.Indexed,
		"took", h.now().Sub(started).String(),
	)
	return report, nil
}

func toDocument(threadID int64, item forum.Item) (search.Document, bool) {
	if item.Removed() {
		return search.Document{}, false
	}
	text := forum.CleanText(item.Text)
	if text == "" {
		return search.Document{}, false
	}
	return search.Document{
		ID:       item.Key(),
		ThreadID: strconv.FormatInt(threadID, 10),
		Author:   item.By,
		PostedAt: item.PostedAt(),
		Text:     text,
	}, true
}

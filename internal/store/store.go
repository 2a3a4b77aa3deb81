// Package store keeps track of harvested threads and the postings already
// sent to the index, and holds their text for corpus export.
package store

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/morikuni/failure/v2"
	"github.com/takatori/threadsearch/internal/errors"
	"github.com/takatori/threadsearch/internal/search"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Run summarises one harvest of a thread.
type Run struct {
	ID        string
	ThreadID  int64
	StartedAt time.Time
	Fetched   int
	Skipped   int
	Indexed   int
}

// Open opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, translate(err, "failed to open database", path)
	}
	// one connection keeps ":memory:" databases shared and serialises writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, translate(err, "failed to apply schema", path)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) TrackThread(ctx context.Context, threadID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO threads (id, added_at) VALUES (?, ?)`,
		threadID, time.Now().Unix(),
	)
	if err != nil {
		return translate(err, "failed to track thread", strconv.FormatInt(threadID, 10))
	}
	return nil
}

// Threads returns every tracked thread in the order they were added.
func (s *Store) Threads(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM threads ORDER BY added_at, id`)
	if err != nil {
		return nil, translate(err, "failed to list threads", "")
	}
	defer rows.Close()

	var threads []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, translate(err, "failed to scan thread", "")
		}
		threads = append(threads, id)
	}
	return threads, rows.Err()
}

// KnownItems returns the ids of the items already stored for a thread.
func (s *Store) KnownItems(ctx context.Context, threadID int64) (*roaring64.Bitmap, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM items WHERE thread_id = ?`, threadID)
	if err != nil {
		return nil, translate(err, "failed to list items", strconv.FormatInt(threadID, 10))
	}
	defer rows.Close()

	known := roaring64.New()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, translate(err, "failed to scan item", strconv.FormatInt(threadID, 10))
		}
		known.Add(uint64(id))
	}
	return known, rows.Err()
}

// SaveItems upserts docs under threadID in a single transaction.
func (s *Store) SaveItems(ctx context.Context, threadID int64, docs []search.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return translate(err, "failed to begin transaction", "")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (id, thread_id, author, posted_at, text) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			thread_id = excluded.thread_id,
			author = excluded.author,
			posted_at = excluded.posted_at,
			text = excluded.text`)
	if err != nil {
		return translate(err, "failed to prepare insert", "")
	}
	defer stmt.Close()

	for _, doc := range docs {
		id, err := strconv.ParseInt(doc.ID, 10, 64)
		if err != nil {
			return failure.Translate(
				err,
				errors.ErrInvalidArgument,
				failure.Field(failure.Message("document id is not numeric")),
				failure.Context{
					"id": doc.ID,
				},
			)
		}
		if _, err := stmt.ExecContext(ctx, id, threadID, doc.Author, doc.PostedAt.Unix(), doc.Text); err != nil {
			return translate(err, "failed to save item", doc.ID)
		}
	}
	if err := tx.Commit(); err != nil {
		return translate(err, "failed to commit items", "")
	}
	return nil
}

func (s *Store) RecordRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, thread_id, started_at, fetched, skipped, indexed) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.ThreadID, run.StartedAt.Unix(), run.Fetched, run.Skipped, run.Indexed,
	)
	if err != nil {
		return translate(err, "failed to record run", run.ID)
	}
	return nil
}

// Runs returns the recorded runs of a thread, newest first.
func (s *Store) Runs(ctx context.Context, threadID int64) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, thread_id, started_at, fetched, skipped, indexed FROM runs
		WHERE thread_id = ? ORDER BY started_at DESC, rowid DESC`,
		threadID,
	)
	if err != nil {
		return nil, translate(err, "failed to list runs", strconv.FormatInt(threadID, 10))
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started int64
		if err := rows.Scan(&run.ID, &run.ThreadID, &started, &run.Fetched, &run.Skipped, &run.Indexed); err != nil {
			return nil, translate(err, "failed to scan run", "")
		}
		run.StartedAt = time.Unix(started, 0).UTC()
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Corpus returns the stored texts of a thread, oldest posting first.
func (s *Store) Corpus(ctx context.Context, threadID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT text FROM items WHERE thread_id = ? AND text != '' ORDER BY posted_at, id`,
		threadID,
	)
	if err != nil {
		return nil, translate(err, "failed to read corpus", strconv.FormatInt(threadID, 10))
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, translate(err, "failed to scan text", "")
		}
		texts = append(texts, text)
	}
	return texts, rows.Err()
}

func translate(err error, msg, key string) error {
	return failure.Translate(
		err,
		errors.ErrInternal,
		failure.Field(failure.Message(msg)),
		failure.Context{
			"key": key,
		},
	)
}

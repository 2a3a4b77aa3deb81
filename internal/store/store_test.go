package store

import (
	"context"
	"testing"
	"time"

	"github.com/morikuni/failure/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takatori/threadsearch/internal/errors"
	"github.com/takatori/threadsearch/internal/search"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTrackThread(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.TrackThread(ctx, 20))
	require.NoError(t, s.TrackThread(ctx, 10))
	require.NoError(t, s.TrackThread(ctx, 20))

	threads, err := s.Threads(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{10, 20}, threads)
}

func TestSaveItems(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	t0 := time.Date(2019, 5, 1, 15, 0, 0, 0, time.UTC)
	docs := []search.Document{
		{ID: "3", ThreadID: "1", Author: "c", PostedAt: t0.Add(2 * time.Minute), Text: "third"},
		{ID: "2", ThreadID: "1", Author: "b", PostedAt: t0, Text: "first"},
		{ID: "4", ThreadID: "1", PostedAt: t0.Add(time.Minute), Text: ""},
	}
	require.NoError(t, s.SaveItems(ctx, 1, docs))
	require.NoError(t, s.SaveItems(ctx, 9, []search.Document{{ID: "99", Text: "other thread"}}))

	known, err := s.KnownItems(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3, 4}, known.ToArray())

	corpus, err := s.Corpus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "third"}, corpus)

	// saving again overwrites instead of duplicating
	require.NoError(t, s.SaveItems(ctx, 1, []search.Document{{ID: "2", PostedAt: t0, Text: "edited"}}))
	corpus, err = s.Corpus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"edited", "third"}, corpus)
}

func TestSaveItemsRejectsBadID(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	err := s.SaveItems(ctx, 1, []search.Document{{ID: "5", Text: "ok"}, {ID: "abc", Text: "bad"}})
	require.Error(t, err)
	assert.True(t, failure.Is(err, errors.ErrInvalidArgument))

	// the transaction was rolled back
	known, err := s.KnownItems(ctx, 1)
	require.NoError(t, err)
	assert.True(t, known.IsEmpty())
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	t0 := time.Date(2019, 5, 1, 15, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordRun(ctx, Run{ID: "a", ThreadID: 1, StartedAt: t0, Fetched: 10, Indexed: 10}))
	require.NoError(t, s.RecordRun(ctx, Run{ID: "b", ThreadID: 1, StartedAt: t0.Add(time.Hour), Fetched: 12, Skipped: 10, Indexed: 2}))
	require.NoError(t, s.RecordRun(ctx, Run{ID: "c", ThreadID: 2, StartedAt: t0}))

	runs, err := s.Runs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, Run{ID: "b", ThreadID: 1, StartedAt: t0.Add(time.Hour), Fetched: 12, Skipped: 10, Indexed: 2}, runs[0])
	assert.Equal(t, "a", runs[1].ID)
}

func TestOpenBadPath(t *testing.T) {
	_, err := Open("/nonexistent-dir/sub/threadsearch.db")
	require.Error(t, err)
	assert.True(t, failure.Is(err, errors.ErrInternal))
}

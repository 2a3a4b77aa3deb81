package forum

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/morikuni/failure/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takatori/threadsearch/internal/errors"
)

func newTestClient(t *testing.T, items map[string]string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := items[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return NewClientWithOptions(ClientOptions{
		BaseUrl: srv.URL,
		Timeout: time.Second,
	})
}

func TestItem(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"/item/8863.json": `{"by":"dhouston","id":8863,"kids":[9224,8917],"time":1175714200,"title":"My YC app","type":"story"}`,
	})

	item, err := c.Item(context.Background(), 8863)
	require.NoError(t, err)
	assert.Equal(t, int64(8863), item.ID)
	assert.Equal(t, "8863", item.Key())
	assert.Equal(t, []int64{9224, 8917}, item.Kids)
	assert.Equal(t, time.Date(2007, 4, 4, 19, 16, 40, 0, time.UTC), item.PostedAt())
	assert.False(t, item.Removed())
}

func TestItemMissing(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"/item/1.json": `null`,
		"/item/2.json": `{}`,
		"/item/3.json": ``,
	})

	for _, id := range []int64{1, 2, 3} {
		_, err := c.Item(context.Background(), id)
		require.Error(t, err)
		assert.True(t, failure.Is(err, errors.ErrNotFound), "item %d: unexpected error: %v", id, err)
	}
}

func TestItemFailures(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"/item/4.json": `{"id":`,
	})

	_, err := c.Item(context.Background(), 4)
	require.Error(t, err)
	assert.True(t, failure.Is(err, errors.ErrInternal))

	_, err = c.Item(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, failure.Is(err, errors.ErrUnavailable))
}

func TestItemCanceledContext(t *testing.T) {
	c := NewClientWithOptions(ClientOptions{BaseUrl: "http://127.0.0.1:0", RequestsPerSecond: 0.001})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Item(ctx, 1)
	require.Error(t, err)
	assert.True(t, failure.Is(err, errors.ErrUnavailable))
}

func TestItemPostedAtZero(t *testing.T) {
	assert.True(t, Item{}.PostedAt().IsZero())
	assert.True(t, Item{Dead: true}.Removed())
	assert.True(t, Item{Deleted: true}.Removed())
}

package forum

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/morikuni/failure/v2"
	"github.com/takatori/threadsearch/internal"
	"github.com/takatori/threadsearch/internal/errors"
	"golang.org/x/time/rate"
)

// Client reads items from the forum's JSON item API. Requests are paced by a
// shared limiter and never retried.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
}

type ClientOptions struct {
	BaseUrl string
	Timeout time.Duration
	// RequestsPerSecond <= 0 disables pacing.
	RequestsPerSecond float64
}

func NewClient(config *internal.Config) *Client {
	return NewClientWithOptions(ClientOptions{
		BaseUrl:           config.ForumUrl,
		Timeout:           config.HttpTimeout,
		RequestsPerSecond: config.ForumRate,
	})
}

func NewClientWithOptions(opts ClientOptions) *Client {
	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetHeader("accept", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &Client{
		http:    client,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Item fetches one item. A null or empty body means the item does not exist
// and yields a NotFound error; any other failure is Unavailable.
func (c *Client) Item(ctx context.Context, id int64) (Item, error) {
	idStr := strconv.FormatInt(id, 10)
	if err := c.limiter.Wait(ctx); err != nil {
		return Item{}, failure.Translate(
			err,
			errors.ErrUnavailable,
			failure.Field(failure.Message("rate limiter wait aborted")),
			failure.Context{
				"id": idStr,
			},
		)
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", idStr).
		Get("/item/{id}.json")
	if err != nil {
		return Item{}, failure.Translate(
			err,
			errors.ErrUnavailable,
			failure.Field(failure.Message("failed to fetch item")),
			failure.Context{
				"id": idStr,
			},
		)
	}
	if !res.IsSuccess() {
		return Item{}, failure.New(
			errors.ErrUnavailable,
			failure.Field(failure.Message("unexpected status code")),
			failure.Context{
				"id":   idStr,
				"url":  res.Request.URL,
				"code": fmt.Sprintf("%d", res.StatusCode()),
			},
		)
	}

	body := bytes.TrimSpace(res.Body())
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return Item{}, notFound(idStr)
	}

	var item Item
	if err := json.Unmarshal(body, &item); err != nil {
		return Item{}, failure.Translate(
			err,
			errors.ErrInternal,
			failure.Field(failure.Message("failed to decode item")),
			failure.Context{
				"id": idStr,
			},
		)
	}
	if item.ID == 0 {
		return Item{}, notFound(idStr)
	}
	return item, nil
}

func notFound(id string) error {
	return failure.New(
		errors.ErrNotFound,
		failure.Field(failure.Message("item does not exist")),
		failure.Context{
			"id": id,
		},
	)
}

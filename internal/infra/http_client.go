package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/morikuni/failure/v2"
	"github.com/takatori/threadsearch/internal/errors"
)

// maxErrorBody bounds how much of a failed response is kept in error context.
const maxErrorBody = 512

type HttpClient struct {
	Client *http.Client
}

type Request struct {
	Url     string
	Headers map[string]string
	Cookies []http.Cookie
}

type PostRequest struct {
	Request
	Entity any
}

func NewHttpClient(timeout time.Duration) *HttpClient {

	dt := http.DefaultTransport
	transport := dt.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 10
	transport.IdleConnTimeout = time.Duration(30) * time.Second
	transport.MaxIdleConns = transport.MaxIdleConnsPerHost * 2
	return &HttpClient{
		Client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

func (c *HttpClient) Get(ctx context.Context, req Request, expected any) error {
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, req.Url, nil)
	if err != nil {
		return failure.Translate(
			err,
			errors.ErrInternal,
			failure.Field(failure.Message("failed to create request")),
			failure.Context{
				"url": req.Url,
			},
		)
	}
	return c.do(r, req, nil, expected)
}

func (c *HttpClient) Post(ctx context.Context, req PostRequest, expected any) error {
	encoded, err := json.Marshal(req.Entity)
	if err != nil {
		return failure.Translate(
			err,
			errors.ErrInternal,
			failure.Field(failure.Message("failed to encode request entity")),
			failure.Context{
				"url":    req.Url,
				"entity": fmt.Sprintf("%+v", req.Entity),
			},
		)
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Url, bytes.NewBuffer(encoded))
	if err != nil {
		return failure.Translate(
			err,
			errors.ErrInternal,
			failure.Field(failure.Message("failed to create request")),
			failure.Context{
				"url": req.Url,
				"req": string(encoded),
			},
		)
	}
	r.Header.Set("Content-Type", "application/json")
	return c.do(r, req.Request, encoded, expected)
}

// do sends r and decodes a 2xx JSON body into expected. A 404 is reported
// as NotFound, any other status or transport failure as Unavailable.
func (c *HttpClient) do(r *http.Request, req Request, encoded []byte, expected any) error {
	for k, v := range req.Headers {
		if v != "" {
			r.Header.Set(k, v)
		}
	}
	for _, cookie := range req.Cookies {
		if len(cookie.Value) > 0 {
			r.AddCookie(&cookie)
		}
	}

	reqCtx := failure.Context{
		"url": req.Url,
	}
	if encoded != nil {
		reqCtx["req"] = truncate(string(encoded))
	}

	res, err := c.Client.Do(r)
	if err != nil {
		return failure.Translate(
			err,
			errors.ErrUnavailable,
			failure.Field(failure.Message("failed to send request")),
			reqCtx,
		)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return failure.Translate(
			err,
			errors.ErrUnavailable,
			failure.Field(failure.Message("failed to read response body")),
			reqCtx,
		)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		code := errors.ErrUnavailable
		if res.StatusCode == http.StatusNotFound {
			code = errors.ErrNotFound
		}
		reqCtx["code"] = fmt.Sprintf("%d", res.StatusCode)
		reqCtx["body"] = truncate(string(body))
		return failure.New(
			code,
			failure.Field(failure.Message("unexpected status code")),
			reqCtx,
		)
	}

	if expected == nil {
		return nil
	}
	if err := json.Unmarshal(body, expected); err != nil {
		return failure.Translate(
			err,
			errors.ErrInternal,
			failure.Field(failure.Message("failed to decode response body")),
			reqCtx,
		)
	}

	return nil
}

func truncate(s string) string {
	if len(s) <= maxErrorBody {
		return s
	}
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

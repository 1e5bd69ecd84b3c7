// Package api is the HTTP client for the travel assistant backend.
//
// Every method maps to exactly one HTTP call. There is no retry, no caching
// and no client-side timeout; callers bound requests through the context.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/zhubert/travelchat/internal/errors"
	"github.com/zhubert/travelchat/internal/logger"
)

// RequestIDHeader carries a per-request UUID so client and server logs can be correlated.
const RequestIDHeader = "X-Request-ID"

// Client talks to the backend's /threads and /chat endpoints.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a client for the backend at baseURL. A trailing slash on
// baseURL is ignored.
func NewClient(baseURL, version string) *Client {
	return NewClientWithHTTP(baseURL, version, &http.Client{})
}

// NewClientWithHTTP creates a client that sends requests through httpClient.
func NewClientWithHTTP(baseURL, version string, httpClient *http.Client) *Client {
	if version == "" {
		version = "dev"
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "travelchat/" + version,
		httpClient: httpClient,
		log:        logger.WithComponent("api"),
	}
}

// BaseURL returns the normalized base URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateThread creates a thread titled title, or DefaultThreadTitle when
// title is empty. The server's thread_id is returned as Thread.ID.
func (c *Client) CreateThread(ctx context.Context, title string) (Thread, error) {
	const op = pkgerrors.Op("api.CreateThread")
	if title == "" {
		title = DefaultThreadTitle
	}

	var resp ThreadCreateResponse
	if err := c.doJSON(ctx, op, http.MethodPost, "/threads", ThreadCreate{Title: title}, &resp); err != nil {
		return Thread{}, err
	}
	return resp.Thread(), nil
}

// GetThreads returns every thread in the order the server sends them.
func (c *Client) GetThreads(ctx context.Context) ([]Thread, error) {
	const op = pkgerrors.Op("api.GetThreads")

	var threads []Thread
	if err := c.doJSON(ctx, op, http.MethodGet, "/threads", nil, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// GetThreadMessages fetches a thread's history. Messages is left nil when
// the server omits it.
func (c *Client) GetThreadMessages(ctx context.Context, threadID int64) (ThreadWithMessages, error) {
	const op = pkgerrors.Op("api.GetThreadMessages")

	var resp ThreadWithMessages
	if err := c.doJSON(ctx, op, http.MethodGet, threadPath(threadID), nil, &resp); err != nil {
		return ThreadWithMessages{}, err
	}
	return resp, nil
}

// SendMessage posts a question to a thread and returns the assistant's reply.
func (c *Client) SendMessage(ctx context.Context, req MessageRequest) (ChatResponse, error) {
	const op = pkgerrors.Op("api.SendMessage")

	var resp ChatResponse
	if err := c.doJSON(ctx, op, http.MethodPost, "/chat", req, &resp); err != nil {
		return ChatResponse{}, err
	}
	return resp, nil
}

// DeleteThread deletes a thread. A non-2xx status fails with an error that
// matches ErrDeleteFailed.
func (c *Client) DeleteThread(ctx context.Context, threadID int64) (DeleteResponse, error) {
	const op = pkgerrors.Op("api.DeleteThread")
	path := threadPath(threadID)

	status, body, err := c.do(ctx, op, http.MethodDelete, path, nil)
	if err != nil {
		return DeleteResponse{}, err
	}
	if status < 200 || status > 299 {
		c.log.Warn("delete rejected", "threadID", threadID, "status", status, "detail", errorDetail(body))
		return DeleteResponse{}, pkgerrors.DeleteFailed(threadID, status)
	}

	var resp DeleteResponse
	if err := decode(op, path, body, &resp); err != nil {
		return DeleteResponse{}, err
	}
	return resp, nil
}

func threadPath(threadID int64) string {
	return fmt.Sprintf("/threads/%d", threadID)
}

// doJSON sends one request and decodes the body into out. Only DeleteThread
// looks at the status; everything else decodes whatever arrives.
func (c *Client) doJSON(ctx context.Context, op pkgerrors.Op, method, path string, body, out any) error {
	_, data, err := c.do(ctx, op, method, path, body)
	if err != nil {
		return err
	}
	return decode(op, path, data, out)
}

// do sends one request and returns the status code and the raw body.
func (c *Client) do(ctx context.Context, op pkgerrors.Op, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, pkgerrors.E(op, pkgerrors.KindInvalid, "could not encode request body", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, pkgerrors.RequestFailed(op, path, err)
	}
	requestID := uuid.NewString()
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "requestID", requestID, "error", err)
		return 0, nil, pkgerrors.RequestFailed(op, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, pkgerrors.RequestFailed(op, path, err)
	}

	c.log.Debug("request complete",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"requestID", requestID,
		"duration", time.Since(start),
	)
	return resp.StatusCode, data, nil
}

func decode(op pkgerrors.Op, path string, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return pkgerrors.DecodeFailed(op, path, err)
	}
	return nil
}

// errorDetail extracts the backend's {"detail": ...} message, if any.
func errorDetail(body []byte) string {
	var e ErrorResponse
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	return e.Detail
}

// Package client talks to the diary API: REST calls, the change stream, and
// a synchronised local view of the calendar tables.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"diary-app/src/domain"
	"diary-app/src/usecase"

	"github.com/sirupsen/logrus"
)

// APIError is a non-2xx answer of the server
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Code)
}

// IsNotFound reports whether err is a 404 answer
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client calls the API on behalf of one owner
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	// stream has no timeout; the change stream stays open
	stream *http.Client
	logger *logrus.Logger
}

// New creates a client; token is the owner's bearer token
func New(baseURL, token string, timeout time.Duration, logger *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		stream:     &http.Client{},
		logger:     logger,
	}
}

type listEnvelope[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// ListDailyTodos fetches every daily todo
func (c *Client) ListDailyTodos(ctx context.Context) ([]domain.DailyTodo, error) {
	return getList[domain.DailyTodo](ctx, c, "/api/daily-todos")
}

// ListMonthlyTodos fetches every monthly todo
func (c *Client) ListMonthlyTodos(ctx context.Context) ([]domain.MonthlyTodo, error) {
	return getList[domain.MonthlyTodo](ctx, c, "/api/monthly-todos")
}

// ListDeadlineTasks fetches every deadline task
func (c *Client) ListDeadlineTasks(ctx context.Context) ([]domain.DeadlineTask, error) {
	return getList[domain.DeadlineTask](ctx, c, "/api/deadline-tasks")
}

// ListSchedules fetches every specific schedule
func (c *Client) ListSchedules(ctx context.Context) ([]domain.SpecificSchedule, error) {
	return getList[domain.SpecificSchedule](ctx, c, "/api/schedules")
}

// ListCompletions fetches every completion row
func (c *Client) ListCompletions(ctx context.Context) ([]domain.Completion, error) {
	return getList[domain.Completion](ctx, c, "/api/completions")
}

// ToggleCompletion flips the completion state of an item on date
func (c *Client) ToggleCompletion(ctx context.Context, itemType domain.ItemType, itemID string, date domain.Date) (*usecase.TogglePatch, error) {
	body := map[string]string{
		"item_id":   itemID,
		"item_type": string(itemType),
		"date":      date.String(),
	}
	var patch usecase.TogglePatch
	if err := c.do(ctx, http.MethodPost, "/api/completions/toggle", body, &patch); err != nil {
		return nil, err
	}
	return &patch, nil
}

// GetMemo fetches the memo of date
func (c *Client) GetMemo(ctx context.Context, date domain.Date) (*domain.Memo, error) {
	var memo domain.Memo
	if err := c.do(ctx, http.MethodGet, "/api/memos/"+url.PathEscape(date.String()), nil, &memo); err != nil {
		return nil, err
	}
	return &memo, nil
}

// SaveMemo replaces the memo of date
func (c *Client) SaveMemo(ctx context.Context, date domain.Date, content string) (*domain.Memo, error) {
	var memo domain.Memo
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPut, "/api/memos/"+url.PathEscape(date.String()), body, &memo); err != nil {
		return nil, err
	}
	return &memo, nil
}

func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var env listEnvelope[T]
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	if env.Items == nil {
		env.Items = []T{}
	}
	return env.Items, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		r = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp)
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Debug("APIがエラーを返しました")
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// Package client 邀请码共享板 HTTP API 客户端（invitectl 使用）。
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

	"promptshelf/internal/dto"
)

const defaultHTTPTimeout = 10 * time.Second

// APIError 服务端返回的业务失败
type APIError struct {
	Status int
	Code   string
	Reason string
}

func (e *APIError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("http %d %s", e.Status, e.Code)
	}
	return fmt.Sprintf("http %d %s: %s", e.Status, e.Code, e.Reason)
}

// IsCode 判断 err 是否为指定分类的 APIError
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// Client 共享板 API 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option 自定义客户端
type Option func(*Client)

// WithHTTPClient 替换默认 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New 创建客户端，baseURL 形如 http://localhost:8080
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Reason  string          `json:"reason"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// List 拉取排序后的共享板
func (c *Client) List(ctx context.Context) (*dto.InviteBoardResponse, error) {
	var out dto.InviteBoardResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/invite", nil, &out); err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	return &out, nil
}

// Submit 提交邀请码，返回服务端保存的行
func (c *Client) Submit(ctx context.Context, code string) (*dto.InviteView, error) {
	var out dto.InviteView
	if err := c.do(ctx, http.MethodPost, "/api/v1/invite", dto.SubmitInviteRequest{InviteCode: code}, &out); err != nil {
		return nil, fmt.Errorf("submit invite: %w", err)
	}
	return &out, nil
}

// Mark 标记槽位已使用，满足 board.Marker
func (c *Client) Mark(ctx context.Context, code string, slot int) error {
	req := dto.MarkInviteRequest{InviteCode: code, Slot: json.Number(fmt.Sprint(slot))}
	if err := c.do(ctx, http.MethodPost, "/api/v1/invite/mark", req, nil); err != nil {
		return fmt.Errorf("mark invite: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("build url: %w", err)
	}

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusMultipleChoices {
			return &APIError{Status: resp.StatusCode, Reason: strings.TrimSpace(string(raw))}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{Status: resp.StatusCode, Code: env.Error, Reason: env.Reason}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-jsongen/internal/command"
	"github.com/lwmacct/251207-go-pkg-jsongen/internal/config"
)

// retryDelay 两次重试之间的基础等待时间，按次数线性增长。
var retryDelay = 200 * time.Millisecond

// StatusError 服务器返回非 2xx 状态。
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	var resp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal([]byte(e.Body), &resp) == nil && resp.Error != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, resp.Error)
	}

	return fmt.Sprintf("server returned %d: %s", e.Status, strings.TrimSpace(e.Body))
}

// Client jsongen 服务端的 HTTP 客户端。
type Client struct {
	baseURL string
	retries int
	http    *http.Client
}

// New 根据客户端配置创建 Client。
func New(cfg config.ClientConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		retries: cfg.Retries,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Health 请求 GET /health。
func (c *Client) Health(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/health", nil)
}

// Expand 请求 POST /expand，返回文档数组。
func (c *Client) Expand(ctx context.Context, template string) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/expand", []byte(template))
}

// Inspect 请求 POST /inspect，返回变量表摘要。
func (c *Client) Inspect(ctx context.Context, template string) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/inspect", []byte(template))
}

// do 发送请求；网络错误与 5xx 会重试，4xx 直接返回 [StatusError]。
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			slog.Debug("Retrying request", "path", path, "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * retryDelay):
			}
		}

		data, err := c.once(ctx, method, path, body)
		if err == nil {
			return data, nil
		}
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Status < http.StatusInternalServerError {
			return nil, err
		}
	}

	return nil, fmt.Errorf("request %s failed after %d attempt(s): %w", path, c.retries+1, lastErr)
}

func (c *Client) once(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Status: resp.StatusCode, Body: string(data)}
	}

	return data, nil
}

func healthAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := command.LoadConfig(cmd)
	if err != nil {
		return err
	}

	data, err := New(cfg.Client).Health(ctx)
	if err != nil {
		return err
	}
	_, err = cmd.Root().Writer.Write(data)

	return err
}

func expandAction(ctx context.Context, cmd *cli.Command) error {
	return send(ctx, cmd, (*Client).Expand)
}

func inspectAction(ctx context.Context, cmd *cli.Command) error {
	return send(ctx, cmd, (*Client).Inspect)
}

func send(ctx context.Context, cmd *cli.Command, call func(*Client, context.Context, string) ([]byte, error)) error {
	cfg, err := command.LoadConfig(cmd)
	if err != nil {
		return err
	}

	content, _, err := command.ReadInput(cmd)
	if err != nil {
		return err
	}

	data, err := call(New(cfg.Client), ctx, content)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(data), "", "  "); err != nil {
		return fmt.Errorf("format response: %w", err)
	}
	out.WriteByte('\n')
	_, err = cmd.Root().Writer.Write(out.Bytes())

	return err
}

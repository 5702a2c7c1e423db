// Package rest is the single HTTP wrapper every resource client goes through.
// It attaches the session credentials, paces requests, logs traffic in debug
// mode, expires the session on 401 and normalizes failures into *Error.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"skillshare/internal/session"
)

const (
	HeaderUserID    = "User-ID"
	HeaderRequestID = "X-Request-ID"

	maxBodyLog = 2048
)

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Session    *session.Session
	Logger     *zap.Logger
	Debug      bool

	// RequestsPerSecond paces outgoing calls; 0 disables pacing.
	RequestsPerSecond float64

	// OnUnauthorized runs after the session was expired by a 401.
	OnUnauthorized func()
}

type Client struct {
	baseURL        string
	http           *http.Client
	session        *session.Session
	logger         *zap.Logger
	debug          bool
	limiter        *rate.Limiter
	onUnauthorized func()
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("rest: base url is required")
	}
	if opts.Session == nil {
		return nil, fmt.Errorf("rest: session is required")
	}

	c := &Client{
		baseURL:        base,
		http:           opts.HTTPClient,
		session:        opts.Session,
		logger:         opts.Logger,
		debug:          opts.Debug,
		onUnauthorized: opts.OnUnauthorized,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 15 * time.Second}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.Named("rest")
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c, nil
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *session.Session {
	return c.session
}

func (c *Client) Get(ctx context.Context, op, path string, out any) error {
	_, err := c.Do(ctx, op, http.MethodGet, path, nil, out)
	return err
}

func (c *Client) Post(ctx context.Context, op, path string, body, out any) (int, error) {
	return c.Do(ctx, op, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, op, path string, body, out any) error {
	_, err := c.Do(ctx, op, http.MethodPut, path, body, out)
	return err
}

func (c *Client) Delete(ctx context.Context, op, path string) error {
	_, err := c.Do(ctx, op, http.MethodDelete, path, nil, nil)
	return err
}

// Do sends one request and decodes a JSON response into out (if non-nil and
// the response has a body). op names the operation for the fallback message.
// The returned status is 0 when no response was received.
func (c *Client) Do(ctx context.Context, op, method, path string, body, out any) (int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, Normalize(op, err)
		}
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return 0, Normalize(op, fmt.Errorf("encode request: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, Normalize(op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if userID := c.session.UserID(); userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}

	if c.debug {
		c.logger.Debug("request",
			zap.String("method", method),
			zap.String("url", req.URL.String()),
			zap.Any("headers", redactHeaders(req.Header)),
			zap.String("body", truncate(payload)),
		)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("op", op), zap.String("method", method), zap.String("path", path), zap.Error(err))
		return 0, Normalize(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, Normalize(op, fmt.Errorf("read response: %w", err))
	}

	if c.debug {
		c.logger.Debug("response",
			zap.String("method", method),
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", time.Since(start)),
			zap.String("body", truncate(respBody)),
		)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.expire(ctx)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, statusError(op, resp.StatusCode, respBody)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, Normalize(op, fmt.Errorf("decode response: %w", err))
		}
	}
	return resp.StatusCode, nil
}

// expire clears the session once per rejected credential; calls that were
// already in flight with the same token do not re-run the hook.
func (c *Client) expire(ctx context.Context) {
	if c.session.Token() == "" && c.session.UserID() == "" {
		return
	}
	if err := c.session.Expire(context.WithoutCancel(ctx)); err != nil {
		c.logger.Warn("clear expired session", zap.Error(err))
	}
	c.logger.Info("session expired, login required")
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		if strings.EqualFold(k, "Authorization") {
			out[k] = "Bearer [redacted]"
			continue
		}
		out[k] = h.Get(k)
	}
	return out
}

func truncate(b []byte) string {
	if len(b) > maxBodyLog {
		return string(b[:maxBodyLog]) + "..."
	}
	return string(b)
}

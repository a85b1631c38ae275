package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"tableside/internal/feedback"
	"tableside/internal/localstore"
)

// HTTPDoer is the transport seam; *http.Client satisfies it and tests
// inject fakes.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Descriptor describes one API call. Body, when non-nil, is JSON-encoded.
// Timeout overrides the client default for this call only.
type Descriptor struct {
	Method  string
	Path    string
	Body    interface{}
	Timeout time.Duration
}

// envelope is the wire shape every endpoint responds with: {code, data}
// on success, {code, message} on business failure. Code 200 or 0 means
// success.
type envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
	defaultBaseDelay  = 500 * time.Millisecond
)

// Client is the single door to the network. It resolves paths against the
// base URL, attaches headers and the stored bearer credential, enforces a
// per-call timeout, classifies failures, and retries transient ones with a
// linearly growing delay.
//
// Retries are not idempotency-safe: a POST that times out after the server
// already applied it will be sent again. Accepted trade-off; fixing it
// properly needs server-side idempotency keys.
type Client struct {
	baseURL    string
	httpc      HTTPDoer
	storage    localstore.Store
	reporter   feedback.Reporter
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithRetries(max int, baseDelay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = max
		c.baseDelay = baseDelay
	}
}

func WithHTTPDoer(doer HTTPDoer) Option {
	return func(c *Client) { c.httpc = doer }
}

func NewClient(baseURL string, storage localstore.Store, reporter feedback.Reporter, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpc:      &http.Client{},
		storage:    storage,
		reporter:   reporter,
		timeout:    defaultTimeout,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		sleep:      sleepCtx,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Request performs one API call and returns the envelope's data payload.
// Transient failures are retried up to the budget; the delay before retry
// attempt n is baseDelay × n. Business errors and non-allow-listed HTTP
// errors fail on the first attempt.
func (c *Client) Request(ctx context.Context, d Descriptor) (json.RawMessage, error) {
	var body []byte
	if d.Body != nil {
		raw, err := json.Marshal(d.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = raw
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, c.baseDelay*time.Duration(attempt)); err != nil {
				break
			}
			log.Printf("[httpclient] retrying %s %s (attempt %d/%d)", d.Method, d.Path, attempt, c.maxRetries)
		}

		data, err := c.attempt(ctx, d, body)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if !Retryable(err) {
			return nil, err
		}
	}

	// Budget exhausted on a transient failure. Callers handle rollback.
	if c.reporter != nil {
		c.reporter.Report("Network error, please check your connection and try again", true)
	}
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, d Descriptor, body []byte) (json.RawMessage, error) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, c.resolve(d.Path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w (%w)", err, ErrProtocol)
	}
	req.Header.Set("Content-Type", "application/json")
	if token, err := c.storage.Get(localstore.KeyAuthToken); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || (ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)) {
			return nil, fmt.Errorf("%s %s: %w", d.Method, d.Path, ErrTimeout)
		}
		return nil, fmt.Errorf("%s %s: %w", d.Method, d.Path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.classifyHTTP(resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response envelope: %w (%w)", err, ErrProtocol)
	}
	if env.Code != 200 && env.Code != 0 {
		if c.reporter != nil {
			c.reporter.Report(env.Message, false)
		}
		return nil, &BusinessError{Code: env.Code, Msg: env.Message}
	}
	return env.Data, nil
}

func (c *Client) classifyHTTP(status int) error {
	msg := statusMessage(status)

	if status == http.StatusUnauthorized {
		// Credential is stale; drop it so the next sign-in starts clean.
		_ = c.storage.Delete(localstore.KeyAuthToken)
	}

	err := &HTTPError{Status: status, Msg: msg}
	if c.reporter != nil && !retryableStatus[status] {
		c.reporter.Report(msg, false)
	}
	return err
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

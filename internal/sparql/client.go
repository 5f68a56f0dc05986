// Package sparql posts queries to the authenticated query endpoint that
// produces the citation and faculty exports.
package sparql

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethgrid/pester"
	"golang.org/x/time/rate"

	"github.com/citefeed/citefeed/internal/logger"
)

const (
	// DefaultTimeout is the default per-attempt request timeout. CONSTRUCT
	// over the full citation graph is slow.
	DefaultTimeout = 5 * time.Minute

	// DefaultThrottle is the minimum spacing between requests.
	DefaultThrottle = time.Second

	// DefaultRetries is the number of retries after the first attempt.
	DefaultRetries = 3
)

// Client is a throttled, retrying client for the query endpoint.
type Client struct {
	endpoint string
	email    string
	password string

	httpClient *http.Client
	backoff    pester.BackoffStrategy
	retries    int
	timeout    time.Duration
	throttle   time.Duration
	log        *logger.Logger

	pc      *pester.Client
	limiter *rate.Limiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithCredentials sets the email and password sent with each query.
func WithCredentials(email, password string) ClientOption {
	return func(c *Client) {
		c.email = email
		c.password = password
	}
}

// WithThrottle sets the minimum interval between requests.
func WithThrottle(d time.Duration) ClientOption {
	return func(c *Client) {
		c.throttle = d
	}
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) ClientOption {
	return func(c *Client) {
		c.retries = n
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithBackoff replaces the exponential backoff (for testing).
func WithBackoff(b pester.BackoffStrategy) ClientOption {
	return func(c *Client) {
		c.backoff = b
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for retries and results.
func WithLogger(l *logger.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a client for endpoint.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		backoff:  pester.ExponentialBackoff,
		retries:  DefaultRetries,
		timeout:  DefaultTimeout,
		throttle: DefaultThrottle,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		c.pc = pester.NewExtendedClient(c.httpClient)
	} else {
		c.pc = pester.New()
	}
	c.pc.Concurrency = 1
	c.pc.MaxRetries = c.retries + 1
	c.pc.Backoff = c.backoff
	c.pc.Timeout = c.timeout
	c.pc.SetRetryOnHTTP429(true)
	c.pc.LogHook = func(e pester.ErrEntry) {
		c.log.Warn("query attempt failed", "attempt", e.Attempt, "method", e.Method, "error", e.Err)
	}

	if c.throttle > 0 {
		c.limiter = rate.NewLimiter(rate.Every(c.throttle), 1)
	} else {
		c.limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return c
}

// Do runs q and streams the response body into w. It returns the number
// of bytes written.
func (c *Client) Do(ctx context.Context, q Query, w io.Writer) (int64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter: %w", err)
	}

	form := url.Values{}
	form.Set("email", c.email)
	form.Set("password", c.password)
	form.Set("query", q.Text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", q.Accept)
	req.Header.Set("Accept-Charset", "utf-8")

	c.log.Info("submitting query", "query", q.Name, "endpoint", c.endpoint)
	resp, err := c.pc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp, q.Name); err != nil {
		return 0, err
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("reading %s response: %w", q.Name, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: query %s", ErrEmptyResponse, q.Name)
	}
	c.log.Info("query successful", "query", q.Name, "bytes", n)
	return n, nil
}

// FetchToFile runs q and atomically replaces path with the response.
func (c *Client) FetchToFile(ctx context.Context, q Query, path string) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("creating data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, err := c.Do(ctx, q, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing %s: %w", tmpName, cerr)
	}
	if err != nil {
		return n, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return n, fmt.Errorf("renaming %s: %w", path, err)
	}
	c.log.Info("export written", "query", q.Name, "path", path, "bytes", n)
	return n, nil
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response, query string) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Query: query, Message: msg}
}

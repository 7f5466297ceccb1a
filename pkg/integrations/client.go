package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/depaudit/pkg/cache"
	"github.com/matzehuels/depaudit/pkg/httputil"
	"github.com/matzehuels/depaudit/pkg/observability"
)

// Transport configures how a [Client] talks to its registry.
// The zero value uses a private HTTP client with the default timeout, no
// shared limiter and the default retry policy.
type Transport struct {
	// Limiter gates every outbound request. Share one Limiter across all
	// clients to enforce a global remote-call cap.
	Limiter *httputil.Limiter
	// Timeout bounds each HTTP call. Defaults to 15s.
	Timeout time.Duration
	// Attempts is the number of tries for retryable failures. Defaults to 3.
	Attempts int
	// RetryDelay is the initial backoff delay. Defaults to 1s.
	RetryDelay time.Duration
	// HTTPClient overrides the underlying client (tests).
	HTTPClient *http.Client
}

// Client provides shared HTTP functionality for all registry API clients.
// It handles caching, rate limiting, retry logic, and common request headers.
type Client struct {
	http       *http.Client
	cache      cache.Cache
	namespace  string
	ttl        time.Duration
	headers    map[string]string
	limiter    *httputil.Limiter
	attempts   int
	retryDelay time.Duration
}

// NewClient creates a Client with the given cache backend, key namespace,
// entry TTL and default headers. Headers are applied to all requests made
// through this client. Pass nil for headers if no default headers are needed.
func NewClient(backend cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	return &Client{
		http:       NewHTTPClient(),
		cache:      backend,
		namespace:  namespace,
		ttl:        ttl,
		headers:    headers,
		attempts:   defaultAttempts,
		retryDelay: time.Second,
	}
}

// WithTransport applies t to the client and returns it.
func (c *Client) WithTransport(t Transport) *Client {
	if t.HTTPClient != nil {
		c.http = t.HTTPClient
	} else if t.Timeout > 0 {
		c.http = &http.Client{Timeout: t.Timeout}
	}
	if t.Limiter != nil {
		c.limiter = t.Limiter
	}
	if t.Attempts > 0 {
		c.attempts = t.Attempts
	}
	if t.RetryDelay > 0 {
		c.retryDelay = t.RetryDelay
	}
	return c
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	fullKey := c.namespace + key
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, fullKey); ok {
			if json.Unmarshal(data, v) == nil {
				observability.Cache().OnCacheHit(ctx, c.namespace)
				return nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, c.namespace)
	}
	if err := httputil.Retry(ctx, c.attempts, c.retryDelay, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, fullKey, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, c.namespace, len(data))
		}
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	data, err := c.GetBytes(ctx, url, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrMalformed, url, err)
	}
	return nil
}

// GetText performs an HTTP GET request and returns the response body as a string.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	data, err := c.GetBytes(ctx, url, nil)
	return string(data), err
}

// GetBytes performs an HTTP GET and returns the raw response body.
// The request passes through the shared limiter if one is configured.
func (c *Client) GetBytes(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	var body []byte
	do := func(ctx context.Context) error {
		var err error
		body, err = c.doRequest(ctx, rawURL, headers)
		return err
	}
	if c.limiter == nil {
		return body, do(ctx)
	}
	if err := c.limiter.Do(ctx, do); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(rawURL)
	observability.HTTP().OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, host, path, err)
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrTimeout, err))
		}
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrRateLimited, code))
	case code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func hostPath(raw string) (string, string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", raw
	}
	return u.Host, u.Path
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

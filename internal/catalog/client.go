package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUpstream        = errors.New("catalog request failed")
)

const maxResponseBytes = 4 << 20

// ListOptions narrows a product listing. Zero values mean no restriction.
type ListOptions struct {
	Category string
	Limit    int
}

type cacheEntry struct {
	body    []byte
	expires time.Time
}

// Client reads products from a fakestoreapi-compatible REST API. Successful
// responses are cached by request path.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *lru.Cache
	ttl        time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithCache keeps up to size responses for ttl. A non-positive ttl disables
// caching.
func WithCache(size int, ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.ttl = ttl
		if size > 0 && ttl > 0 {
			c.cache, _ = lru.New(size)
		} else {
			c.cache = nil
		}
	}
}

func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.Named("catalog")
		}
	}
}

func withClock(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	WithCache(256, 5*time.Minute)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListProducts lists products, optionally in one category and capped at a limit
func (c *Client) ListProducts(ctx context.Context, opts ListOptions) ([]Product, error) {
	path := "/products"
	if opts.Category != "" {
		path += "/category/" + url.PathEscape(opts.Category)
	}
	if opts.Limit > 0 {
		path += "?limit=" + strconv.Itoa(opts.Limit)
	}

	var products []Product
	if err := c.getJSON(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one product. Upstream answers a missing id with either a
// 404 or an empty body; both map to ErrProductNotFound.
func (c *Client) GetProduct(ctx context.Context, id int) (Product, error) {
	body, err := c.get(ctx, "/products/"+strconv.Itoa(id))
	if errors.Is(err, errNotFound) {
		return Product{}, ErrProductNotFound
	}
	if err != nil {
		return Product{}, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Product{}, ErrProductNotFound
	}

	var p Product
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return Product{}, fmt.Errorf("%w: decode product %d: %v", ErrUpstream, id, err)
	}
	return p, nil
}

// Categories lists the category names
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

var errNotFound = errors.New("not found")

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.get(ctx, path)
	if errors.Is(err, errNotFound) {
		return fmt.Errorf("%w: %s returned 404", ErrUpstream, path)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUpstream, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if body, ok := c.cached(path); ok {
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUpstream, path, err)
	}

	c.logger.Debug("catalog request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", c.now().Sub(start)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %s returned %d", ErrUpstream, path, resp.StatusCode)
	}

	if c.cache != nil && len(bytes.TrimSpace(body)) > 0 {
		c.cache.Add(path, cacheEntry{body: body, expires: c.now().Add(c.ttl)})
	}
	return body, nil
}

func (c *Client) cached(path string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	v, ok := c.cache.Get(path)
	if !ok {
		return nil, false
	}
	entry := v.(cacheEntry)
	if !c.now().Before(entry.expires) {
		c.cache.Remove(path)
		return nil, false
	}
	return entry.body, true
}

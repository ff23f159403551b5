// Package fetch retrieves remote federation manifests over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/valorkin/mf-loadable-adapter/internal/ctxlog"
	"github.com/valorkin/mf-loadable-adapter/internal/manifest"
)

// DefaultMaxBytes caps the decoded size of a manifest response.
const DefaultMaxBytes = 8 << 20

// ErrStatus is returned for non-2xx responses.
var ErrStatus = errors.New("unexpected response status")

const acceptEncoding = "br, gzip, zstd"

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMaxBytes caps the decoded body size.
func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Client fetches manifests. It is safe for concurrent use.
type Client struct {
	http     *http.Client
	maxBytes int64
	logger   *slog.Logger
}

// New creates a Client with a pooled transport. Compressed responses are
// decoded here, so the transport's own gzip handling is disabled.
func New(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				DisableCompression:  true,
			},
		},
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = ctxlog.Default(c.logger).With("component", "fetch")
	return c
}

// Get returns the decoded body of url.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", acceptEncoding)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	c.logger.Info("GET "+url, "ok", ok, "status", resp.StatusCode)
	if !ok {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrStatus, url, resp.Status)
	}

	body, err := decodeBody(resp.Body, resp.Header.Get("Content-Encoding"), c.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body of %s: %w", url, err)
	}
	return body, nil
}

// Manifest fetches and decodes the manifest at url.
func (c *Client) Manifest(ctx context.Context, url string) (*manifest.Manifest, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	m, err := manifest.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return m, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func decodeBody(body io.Reader, contentEncoding string, maxBytes int64) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(contentEncoding)) {
	case "br":
		return io.ReadAll(io.LimitReader(brotli.NewReader(body), maxBytes))

	case "gzip":
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer func() { _ = gz.Close() }()
		return io.ReadAll(io.LimitReader(gz, maxBytes))

	case "zstd":
		zr, err := zstd.NewReader(body, zstd.WithDecoderMaxMemory(uint64(maxBytes)))
		if err != nil {
			return nil, fmt.Errorf("open zstd reader: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(io.LimitReader(zr, maxBytes))

	case "", "identity":
		return io.ReadAll(io.LimitReader(body, maxBytes))

	default:
		return nil, fmt.Errorf("unsupported Content-Encoding: %q", contentEncoding)
	}
}

package nhl

import (
	"net/http"

	"github.com/pucklab/puckrank/internal/domain/gamecache"
)

// Option applies a configuration option to the client.
type Option func(*client)

// WithBaseURL points the client at a different API host, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *client) {
		c.httpClient = h
	}
}

// WithMaxRetries sets how many attempts a single request gets.
func WithMaxRetries(n int) Option {
	return func(c *client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *client) {
		c.userAgent = ua
	}
}

// WithGameCache supplies a shared processed-game cache.
func WithGameCache(cache gamecache.Cache) Option {
	return func(c *client) {
		c.cache = cache
	}
}

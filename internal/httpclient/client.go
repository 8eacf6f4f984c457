// Package httpclient provides a centralized HTTP client factory with preset configurations.
package httpclient

import (
	"net/http"
	"time"
)

// DefaultTimeout is the standard timeout for most HTTP requests (30s).
const DefaultTimeout = 30 * time.Second

// Options configures an HTTP client.
type Options struct {
	Timeout   time.Duration
	Transport *http.Transport
}

// Option is a functional option for configuring HTTP clients.
type Option func(*Options)

// WithTimeout sets the client timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithTransport sets a custom transport.
func WithTransport(t *http.Transport) Option {
	return func(o *Options) {
		o.Transport = t
	}
}

// New creates a new HTTP client with the given options.
// If no timeout is specified, DefaultTimeout (30s) is used.
func New(opts ...Option) *http.Client {
	cfg := &Options{
		Timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if cfg.Transport != nil {
		client.Transport = cfg.Transport
	}

	return client
}

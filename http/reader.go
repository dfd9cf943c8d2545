// Package http provides an HTTP implementation of schemadex.SourceReader for
// dumps published by a static file server, and the JSON API server.
package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/schemadex"
	"golang.org/x/time/rate"
)

// DefaultFetchTimeout is the default timeout for one HTTP request.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Reader implements schemadex.SourceReader at compile time.
var _ schemadex.SourceReader = (*Reader)(nil)

// Reader retrieves dump files relative to a base URL.
type Reader struct {
	base    *url.URL
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter
	delays  []time.Duration
	logger  *slog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(r *Reader) {
		r.timeout = d
	}
}

// WithRateLimit paces requests to at most rps per second with no bursting.
// A non-positive rps disables pacing, which is the default.
func WithRateLimit(rps float64) Option {
	return func(r *Reader) {
		if rps <= 0 {
			r.limiter = nil
			return
		}
		r.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetryDelays sets the waits between attempts. Defaults to
// DefaultRetryDelays; an empty slice disables retries.
func WithRetryDelays(delays []time.Duration) Option {
	return func(r *Reader) {
		r.delays = delays
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

// NewReader creates a Reader resolving file names against base, which must be
// an absolute http(s) URL.
func NewReader(base string, opts ...Option) (*Reader, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, schemadex.Errorf(schemadex.EINVALID, "invalid base URL %q: %v", base, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, schemadex.Errorf(schemadex.EINVALID, "base URL must be absolute http(s): %q", base)
	}

	r := &Reader{
		base:    u,
		timeout: DefaultFetchTimeout,
		delays:  DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}

	r.client = &http.Client{
		Timeout: r.timeout,
	}

	return r, nil
}

// Base returns the base URL.
func (r *Reader) Base() string {
	return r.base.String()
}

// ReadFile retrieves the named file relative to the base URL.
func (r *Reader) ReadFile(ctx context.Context, name string) (string, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return "", schemadex.Errorf(schemadex.EUNAVAILABLE, "%s: %v", name, err)
	}
	return r.Fetch(ctx, r.resolve(ref).String())
}

// resolve treats the base as a directory even without a trailing slash.
func (r *Reader) resolve(ref *url.URL) *url.URL {
	base := *r.base
	if base.Path == "" || base.Path[len(base.Path)-1] != '/' {
		base.Path += "/"
		if base.RawPath != "" {
			base.RawPath += "/"
		}
	}
	return base.ResolveReference(ref)
}

// Fetch retrieves rawURL, retrying transient failures. Every failure is
// reported as EUNAVAILABLE.
func (r *Reader) Fetch(ctx context.Context, rawURL string) (string, error) {
	body, err := retry(ctx, rawURL, r.fetch, r.delays, r.logger)
	if err != nil {
		return "", schemadex.Errorf(schemadex.EUNAVAILABLE, "%s: %v", rawURL, err)
	}
	return body, nil
}

func (r *Reader) fetch(ctx context.Context, rawURL string) (string, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", permanent(err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", err
		}
		return "", permanent(err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

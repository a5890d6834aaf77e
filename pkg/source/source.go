// Package source opens guard logs from files, stdin or HTTP(S) URLs.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// maxBodySize caps downloaded logs.
const maxBodySize = 8 << 20

// Option configures Open.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	httpClient *http.Client
	stdin      io.Reader
	session    string
	attempts   uint
	delay      time.Duration
}

// WithLogger sets the logger for fetch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSession sends a session cookie with URL fetches.
func WithSession(session string) Option {
	return func(o *options) {
		o.session = session
	}
}

// WithHTTPClient overrides the client used for URL fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithRetry sets how many times a URL fetch is attempted and the initial backoff delay.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(o *options) {
		o.attempts = attempts
		o.delay = delay
	}
}

// WithStdin replaces os.Stdin for the "-" location.
func WithStdin(r io.Reader) Option {
	return func(o *options) {
		o.stdin = r
	}
}

// Open returns a reader for location: "-" for stdin, an http or https URL,
// or a local file path. The caller must close it.
func Open(ctx context.Context, location string, opts ...Option) (io.ReadCloser, error) {
	o := &options{
		logger:     slog.New(slog.DiscardHandler),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		stdin:      os.Stdin,
		attempts:   5,
		delay:      time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}

	switch {
	case location == "-":
		return io.NopCloser(o.stdin), nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		data, err := fetch(ctx, location, o)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	case location == "":
		return nil, errors.New("no input given")
	default:
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("opening log: %w", err)
		}
		return f, nil
	}
}

// fetch downloads url with exponential backoff and jitter.
// Rate limiting and server errors are retried; other failures are not.
func fetch(ctx context.Context, url string, o *options) ([]byte, error) {
	var (
		body   []byte
		status int
	)
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
			if err != nil {
				return err
			}
			req.Header.Set("User-Agent", "guardlog/1.0")
			if o.session != "" {
				req.AddCookie(&http.Cookie{Name: "session", Value: o.session})
			}

			resp, err := o.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer func() {
				if err := resp.Body.Close(); err != nil {
					o.logger.Debug("failed to close response body", "error", err)
				}
			}()

			status = resp.StatusCode
			data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
			if err != nil {
				return fmt.Errorf("reading response: %w", err)
			}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
				return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
			}
			body = data
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(o.attempts),
		retry.Delay(o.delay),
		retry.MaxDelay(2*time.Minute),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.OnRetry(func(n uint, err error) {
			o.logger.Debug("retrying log fetch", "attempt", n+1, "url", url, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP %d", url, status)
	}
	o.logger.Debug("fetched log", "url", url, "bytes", len(body))
	return body, nil
}

package recordclient

import (
	"errors"
	"net/http"
	"time"
)

// Option mutates the Client during New().
type Option func(*Client) error

// WithHTTPClient injects a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("nil http client")
		}
		c.http = hc
		return nil
	}
}

// WithHTTPTimeout sets the per-request timeout of the underlying client.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return errors.New("http timeout must be positive")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithBearerToken sends token in the Authorization header of every request.
func WithBearerToken(token string) Option {
	return func(c *Client) error {
		c.token = token
		return nil
	}
}

// WithRetry retries recoverable failures up to maxRetries times with
// exponential backoff starting at initial. Without it every call is a single
// attempt.
func WithRetry(maxRetries int, initial time.Duration) Option {
	return func(c *Client) error {
		if maxRetries < 0 {
			return errors.New("max retries must not be negative")
		}
		if initial <= 0 {
			initial = 200 * time.Millisecond
		}
		c.retry = &retryPolicy{maxRetries: uint64(maxRetries), initial: initial}
		return nil
	}
}

// WithDebugLogging wraps the transport so that every request and response is
// dumped at debug level.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			transport := c.http.Transport
			if transport == nil {
				transport = http.DefaultTransport
			}
			c.http.Transport = &debugTransport{base: transport}
		}
		return nil
	}
}

// Package recordclient talks to the remote health record service over HTTP.
package recordclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
)

const maxErrorBody = 4096

type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

type retryPolicy struct {
	maxRetries uint64
	initial    time.Duration
}

// Client fetches and stores health records through the record service.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	retry   *retryPolicy
}

var _ record.Source = (*Client)(nil)

// New constructs a Client for the service at base.
func New(base string, opts ...Option) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("record service url is required")
	}
	c := &Client{
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) recordURL(id int) string {
	return fmt.Sprintf("%s/health-records/%d", c.baseURL, id)
}

// GetHealthRecord loads record id. A 404 wraps record.ErrNotFound.
func (c *Client) GetHealthRecord(ctx context.Context, id int) (record.HealthRecord, error) {
	const op = "get health record"
	var rec record.HealthRecord

	err := c.withRetry(ctx, op, func() error {
		req, err := c.newRequest(ctx, http.MethodGet, id, nil)
		if err != nil {
			return err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return newNetworkError(op, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return statusError(resp, op, id)
		}

		var decoded record.HealthRecord
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return &ClassifiedError{
				Category:   Irrecoverable,
				Underlying: fmt.Errorf("decode health record %d: %w", id, err),
			}
		}
		rec = decoded
		return nil
	})
	if err != nil {
		return record.HealthRecord{}, err
	}
	return rec, nil
}

// SaveHealthRecord replaces record id on the service.
func (c *Client) SaveHealthRecord(ctx context.Context, id int, rec record.HealthRecord) error {
	const op = "save health record"
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode health record %d: %w", id, err)
	}

	return c.withRetry(ctx, op, func() error {
		req, err := c.newRequest(ctx, http.MethodPut, id, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.http.Do(req)
		if err != nil {
			return newNetworkError(op, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return statusError(resp, op, id)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	})
}

func (c *Client) newRequest(ctx context.Context, method string, id int, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.recordURL(id), body)
	if err != nil {
		return nil, &ClassifiedError{Category: Irrecoverable, Underlying: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func statusError(resp *http.Response, op string, id int) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	underlying := fmt.Errorf("%s failed: HTTP %d", op, resp.StatusCode)
	if resp.StatusCode == http.StatusNotFound {
		underlying = fmt.Errorf("%w: health record %d", record.ErrNotFound, id)
	}
	return newHTTPError(resp.StatusCode, string(raw), underlying)
}

// withRetry runs call once, or under exponential backoff when the client has
// a retry policy. Irrecoverable errors and cancellation stop immediately.
func (c *Client) withRetry(ctx context.Context, op string, call func() error) error {
	if c.retry == nil {
		return call()
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.retry.initial
	exp.Multiplier = 2
	exp.MaxInterval = 5 * time.Second
	exp.Reset()
	b := backoff.WithContext(backoff.WithMaxRetries(exp, c.retry.maxRetries), ctx)

	return backoff.RetryNotify(func() error {
		err := call()
		if err != nil && (IsIrrecoverable(err) || ctx.Err() != nil) {
			return backoff.Permanent(err)
		}
		return err
	}, b, func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("operation", op).Dur("retry_in", wait).Msg("record service call failed, retrying")
	})
}

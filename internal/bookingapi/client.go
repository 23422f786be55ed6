// Package bookingapi is the typed HTTP client for the hotel booking API.
// Every outbound call goes through one configured Client: base URL, bearer
// token, JSON content type, a client-side rate limit and GET retries.
package bookingapi

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

const maxAttempts = 4

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter

	mu    sync.RWMutex
	token string
}

func New(base string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("API base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// SetToken sets the bearer token sent with every request. Empty clears it.
func (c *Client) SetToken(tok string) {
	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// request describes one call. route is the templated path used as the
// metrics label.
type request struct {
	method      string
	route       string
	path        string
	body        []byte
	contentType string
}

func jsonRequest(method, route, path string, v any) (request, error) {
	r := request{method: method, route: route, path: path}
	if v == nil {
		return r, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return r, err
	}
	r.body, r.contentType = b, "application/json"
	return r, nil
}

type problem struct {
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Redirect string `json:"redirect"`
}

// StatusError carries a non-2xx response. It unwraps to the matching domain
// sentinel so callers can use errors.Is(err, domain.ErrNotFound) and friends.
type StatusError struct {
	Status   int
	Detail   string
	Redirect string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("remote %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("remote %d", e.Status)
}

func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return domain.ErrInvalidInput
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	}
	return nil
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// do sends req and decodes a JSON response into out (which may be nil).
// Only GETs are retried: on network errors, 429 and transient 5xx, honoring
// Retry-After when provided. Mutations fail on the first error.
func (c *Client) do(ctx context.Context, req request, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	attempts := 1
	if req.method == http.MethodGet {
		attempts = maxAttempts
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		last := i == attempts-1
		var body io.Reader
		if req.body != nil {
			body = bytes.NewReader(req.body)
		}
		hreq, err := http.NewRequestWithContext(ctx, req.method, c.base+req.path, body)
		if err != nil {
			return err
		}
		if req.contentType != "" {
			hreq.Header.Set("Content-Type", req.contentType)
		}
		if tok := c.Token(); tok != "" {
			hreq.Header.Set("Authorization", "Bearer "+tok)
		}
		hreq.Header.Set("Accept", "application/json")
		hreq.Header.Set("User-Agent", "hotel-booking-client/1.0")

		start := time.Now()
		resp, err := c.hc.Do(hreq)
		if err != nil {
			observability.ObserveExternal("bookingapi", req.route, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if !last && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("bookingapi", req.route, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusNoContent:
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			defer resp.Body.Close()
			if out == nil {
				_, _ = io.Copy(io.Discard, resp.Body)
				return nil
			}
			return json.NewDecoder(resp.Body).Decode(out)

		case retryable(resp.StatusCode):
			wait := retryAfter(resp)
			lastErr = statusError(resp)
			if wait == 0 {
				wait = backoff(i)
			}
			if !last && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			return statusError(resp)
		}
	}
	return lastErr
}

// statusError reads a small problem body for diagnostics and closes resp.
func statusError(resp *http.Response) error {
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	se := &StatusError{Status: resp.StatusCode}
	var p problem
	if json.Unmarshal(b, &p) == nil && (p.Detail != "" || p.Title != "") {
		se.Detail, se.Redirect = p.Detail, p.Redirect
		if se.Detail == "" {
			se.Detail = p.Title
		}
	} else {
		se.Detail = strings.TrimSpace(string(b))
	}
	return se
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}

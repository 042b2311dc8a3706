package aladhan

import (
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	dialTimeout     = 5 * time.Second
	clientTimeout   = 15 * time.Second
	idleConnTimeout = 30 * time.Second
	retryAttempts   = 2
	retryBackoff    = time.Second
)

func buildHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     idleConnTimeout,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{
		Timeout: clientTimeout,
		Transport: &retryTransport{
			base:       transport,
			maxRetries: retryAttempts,
			backoff:    retryBackoff,
		},
	}
}

// retryTransport retries idempotent GETs on transient network failures.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	attempts := t.maxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := base.RoundTrip(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !shouldRetry(err) || attempt == attempts {
			break
		}

		timer := time.NewTimer(t.backoff * time.Duration(attempt))
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

// shouldRetry reports whether a network error is a transient dial or
// timeout failure worth another attempt.
func shouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() || opErr.Op == "dial" {
			return true
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && !errors.Is(urlErr.Err, err) {
			return shouldRetry(urlErr.Err)
		}
	}
	return false
}

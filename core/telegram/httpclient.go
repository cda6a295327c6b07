package telegram

import (
	"net"
	"net/http"
	"time"

	"github.com/akhror/zavodbot/core/telegram/netutil"
)

const (
	apiClientTimeout  = 30 * time.Second
	apiDialTimeout    = 5 * time.Second
	apiHeaderTimeout  = 5 * time.Second
	apiIdleTimeout    = 30 * time.Second
	apiRetryAttempts  = 3
	apiRetryBaseDelay = 2 * time.Second
)

// BuildHTTPClient returns the client the bot uses for Telegram API calls:
// pooled HTTP/2 transport with short dial/header deadlines and linear-backoff
// retries for transient network failures.
func BuildHTTPClient() *http.Client {
	dialer := &net.Dialer{Timeout: apiDialTimeout, KeepAlive: 30 * time.Second}
	return &http.Client{
		Timeout: apiClientTimeout,
		Transport: &retryTransport{
			attempts: apiRetryAttempts,
			delay:    apiRetryBaseDelay,
			base: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           dialer.DialContext,
				ForceAttemptHTTP2:     true,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       apiIdleTimeout,
				TLSHandshakeTimeout:   apiDialTimeout,
				ResponseHeaderTimeout: apiHeaderTimeout,
				ExpectContinueTimeout: time.Second,
			},
		},
	}
}

// retryTransport retries requests that fail with a retryable network error.
// Requests whose body cannot be replayed are attempted exactly once.
type retryTransport struct {
	base     http.RoundTripper
	attempts int
	delay    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	var lastErr error
	for attempt := 0; attempt <= t.attempts; attempt++ {
		r, err := t.replay(req, attempt)
		if err != nil {
			return nil, err
		}
		if r == nil {
			// Body was consumed and cannot be rebuilt.
			return nil, lastErr
		}

		resp, err := base.RoundTrip(r)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !netutil.ShouldRetry(err) || attempt == t.attempts {
			break
		}
		if err := t.wait(r, attempt+1); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// replay returns the request to send on the given attempt, rebuilding the
// body for retries. A nil request with nil error means the retry must stop.
func (t *retryTransport) replay(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 0 {
		return req, nil
	}
	if req.Body != nil && req.GetBody == nil {
		return nil, nil
	}
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}

func (t *retryTransport) wait(req *http.Request, attempt int) error {
	delay := t.delay * time.Duration(attempt)
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-req.Context().Done():
		return req.Context().Err()
	case <-timer.C:
		return nil
	}
}

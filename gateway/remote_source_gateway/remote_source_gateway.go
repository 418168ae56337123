package remote_source_gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"thumbcache/domain"
	apperrors "thumbcache/utils/errors"
	"thumbcache/utils/logger"
	"thumbcache/utils/metrics"
	"thumbcache/utils/rate_limiter"
)

const (
	component = "RemoteSourceGateway"

	// DefaultMaxBodyBytes bounds a GET body when no limit is configured.
	DefaultMaxBodyBytes = 20 * 1024 * 1024
)

// Options configures the remote gateway.
type Options struct {
	UserAgent    string
	MaxBodyBytes int64
}

// RemoteSourceGateway implements RemoteSourcePort over a shared http.Client.
// The client is owned by the caller and reused across requests.
type RemoteSourceGateway struct {
	httpClient  *http.Client
	rateLimiter *rate_limiter.HostRateLimiter
	opts        Options
}

// NewRemoteSourceGateway creates a gateway. A nil client gets a 30s timeout
// client; a nil limiter disables per-host throttling.
func NewRemoteSourceGateway(httpClient *http.Client, rateLimiter *rate_limiter.HostRateLimiter, opts Options) *RemoteSourceGateway {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "thumbcache/1.0"
	}
	return &RemoteSourceGateway{
		httpClient:  httpClient,
		rateLimiter: rateLimiter,
		opts:        opts,
	}
}

func (g *RemoteSourceGateway) FetchHeaders(ctx context.Context, rawURL string) (*domain.RemoteHeaders, error) {
	resp, err := g.do(ctx, http.MethodHead, rawURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	return &domain.RemoteHeaders{
		URL:          rawURL,
		StatusCode:   resp.StatusCode,
		LastModified: resp.Header.Get("Last-Modified"),
		Header:       resp.Header.Clone(),
	}, nil
}

func (g *RemoteSourceGateway) FetchContent(ctx context.Context, rawURL string) (*domain.RemoteContent, error) {
	resp, err := g.do(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.ContentLength > g.opts.MaxBodyBytes {
		return nil, g.tooLarge(rawURL, resp.ContentLength)
	}

	// +1 to detect an oversized body without a Content-Length
	data, err := io.ReadAll(io.LimitReader(resp.Body, g.opts.MaxBodyBytes+1))
	if err != nil {
		return nil, apperrors.NewRemoteUnavailableError("failed to read response body",
			"gateway", component, "read_response", err, map[string]interface{}{"url": rawURL})
	}
	if int64(len(data)) > g.opts.MaxBodyBytes {
		return nil, g.tooLarge(rawURL, int64(len(data)))
	}

	return &domain.RemoteContent{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
		FetchedAt:   time.Now(),
	}, nil
}

// do sends the request and turns transport failures and non-2xx statuses
// into RemoteUnavailable errors. On success the caller owns resp.Body.
func (g *RemoteSourceGateway) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	if err := g.rateLimiter.WaitForHost(ctx, rawURL); err != nil {
		return nil, apperrors.NewRemoteUnavailableError("rate limiter wait failed",
			"gateway", component, "rate_limit", err, map[string]interface{}{"url": rawURL})
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, apperrors.NewRemoteUnavailableError("failed to create HTTP request",
			"gateway", component, "create_request", err, map[string]interface{}{"url": rawURL, "method": method})
	}
	req.Header.Set("User-Agent", g.opts.UserAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		metrics.RecordRemoteRequest(method, "error")
		return nil, apperrors.NewRemoteUnavailableError(fmt.Sprintf("URL %s doesn't exist", rawURL),
			"gateway", component, "http_request", err, map[string]interface{}{"url": rawURL, "method": method})
	}
	metrics.RecordRemoteRequest(method, strconv.Itoa(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		logger.Logger.DebugContext(ctx, "remote source returned non-success status",
			"url", rawURL, "method", method, "status", resp.StatusCode)
		return nil, apperrors.NewRemoteUnavailableError(fmt.Sprintf("URL %s doesn't exist", rawURL),
			"gateway", component, "http_response", fmt.Errorf("status code: %d", resp.StatusCode),
			map[string]interface{}{"url": rawURL, "method": method, "status_code": resp.StatusCode})
	}
	return resp, nil
}

func (g *RemoteSourceGateway) tooLarge(rawURL string, size int64) error {
	return apperrors.NewRemoteUnavailableError("remote image too large",
		"gateway", component, "validate_size", nil,
		map[string]interface{}{"url": rawURL, "size": size, "max_size": g.opts.MaxBodyBytes})
}

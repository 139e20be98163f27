package remote

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/domain"
	"storefront/internal/metrics"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// TokenSource yields the bearer token for the current session, or "" when logged out.
// It is consulted on every request so login/logout take effect immediately.
type TokenSource interface {
	Token() string
}

// Options configures a Client.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	ReadRetries   int
	RatePerSecond float64
	RateBurst     int
	Tokens        TokenSource
	Logger        zerolog.Logger
}

// Client talks HTTP/JSON to the catalog/order service. It keeps no state of its own
// besides connection pooling and the outbound rate limiter.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	tokens  TokenSource
	logger  zerolog.Logger
}

// New builds a Client. Only GET requests are retried; order submission and other
// writes are attempted exactly once.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	burst := opts.RateBurst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		limiter: rate.NewLimiter(limit, burst),
		tokens:  opts.Tokens,
		logger:  opts.Logger,
	}

	c.http = resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(max(opts.ReadRetries, 0)).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		AddRetryCondition(retryReads).
		OnBeforeRequest(c.beforeRequest)
	return c
}

func (c *Client) beforeRequest(_ *resty.Client, r *resty.Request) error {
	if err := c.limiter.Wait(r.Context()); err != nil {
		return err
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" && r.Token == "" {
			r.SetAuthToken(tok)
		}
	}
	if r.Header.Get("X-Request-ID") == "" {
		r.SetHeader("X-Request-ID", uuid.NewString())
	}
	return nil
}

func retryReads(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
		return false
	}
	if err != nil {
		return resp.Request.Context().Err() == nil
	}
	return resp.StatusCode() >= http.StatusInternalServerError
}

// do runs one logical call. out may be nil for calls without a response body.
func (c *Client) do(ctx context.Context, op, method, path string, build func(r *resty.Request), out any) error {
	var apiErr errorBody
	req := c.http.R().SetContext(ctx).SetError(&apiErr)
	if out != nil {
		req.SetResult(out)
	}
	if build != nil {
		build(req)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(op, "unavailable").Inc()
		c.logger.Warn().Err(err).Str("op", op).Dur("elapsed", time.Since(start)).Msg("remote call failed")
		return unavailable(err)
	}
	if resp.IsError() {
		metrics.RemoteRequestsTotal.WithLabelValues(op, "rejected").Inc()
		c.logger.Debug().Str("op", op).Int("status", resp.StatusCode()).Msg("remote call rejected")
		return &APIError{StatusCode: resp.StatusCode(), Detail: apiErr.message()}
	}
	metrics.RemoteRequestsTotal.WithLabelValues(op, "ok").Inc()
	return nil
}

// Ping reports whether the service answers. It looks up a product id that never exists,
// so any non-5xx answer means the service is up.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, "ping", http.MethodGet, "/products/{id}", func(r *resty.Request) {
		r.SetPathParam("id", "healthcheck")
	}, nil)
	if err == nil || !errors.Is(err, domain.ErrRemoteUnavailable) {
		return nil
	}
	return err
}

package api

import (
	"net/http"

	"ecocollect/internal/logger"
	"ecocollect/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TokenSource supplies the bearer token attached to every request.
// An empty token means the call goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// bearerTransport attaches the Authorization header and a request id.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.tokens != nil {
		if tok := t.tokens.Token(); tok != "" {
			clone.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	reqID := logger.RequestIDFrom(req.Context())
	if reqID == "" {
		reqID = uuid.New().String()
	}
	clone.Header.Set("X-Request-ID", reqID)

	return t.base.RoundTrip(clone)
}

// limitTransport throttles outgoing requests so a misbehaving UI loop
// cannot hammer the backend.
type limitTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *limitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// loggingTransport logs every outgoing call and feeds the request
// counters.
type loggingTransport struct {
	base    http.RoundTripper
	metrics *metrics.RequestMetrics
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	timer := metrics.StartTimer()
	t.metrics.Requests.Inc()

	resp, err := t.base.RoundTrip(req)

	log := logger.L().With(
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("request_id", req.Header.Get("X-Request-ID")),
		zap.Duration("duration", timer.Duration()),
	)

	if err != nil {
		t.metrics.Failures.Inc()
		log.Warn("api request failed", zap.Error(err))
		return nil, err
	}

	if resp.StatusCode >= 400 {
		t.metrics.Failures.Inc()
	}
	log.Debug("api request", zap.Int("status", resp.StatusCode))

	return resp, nil
}

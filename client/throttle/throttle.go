package throttle

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// New wraps next so that requests are sent at most cfg.RPS per second with
// bursts of cfg.Burst. logFn is resolved per request so the logger can be
// attached after construction; a nil logger disables the wait logs.
func New(cfg Config, logFn func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if next == nil {
		next = http.DefaultTransport
	}
	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	l := &limiter{
		bucket: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		cfg:    cfg,
		next:   next,
		logFn:  logFn,
	}

	return l, nil
}

func (l *limiter) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	reservation := l.bucket.Reserve()
	if !reservation.OK() {
		return nil, fmt.Errorf("%w: burst %d cannot grant a token", ErrWaitingFailed, l.cfg.Burst)
	}

	delay := reservation.Delay()
	if delay == 0 {
		return l.next.RoundTrip(r)
	}

	logger := l.logFn()
	if logger != nil {
		logger.Info("throttling booxtream request", "method", r.Method, "path", r.URL.Path, "wait", delay.String(), "rps", l.cfg.RPS, "burst", l.cfg.Burst)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		reservation.Cancel()
		return nil, fmt.Errorf("%w: %w: %w", ErrWaitingFailed, ErrContextEnded, ctx.Err())
	}

	return l.next.RoundTrip(r)
}

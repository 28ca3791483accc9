package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/booxtream/client/throttle"
)

// Option is a functional option for configuring a [Client] via [New].
type Option func(*clientOpts) error
type clientOpts struct {
	transport Transport
	baseURL   string
	logger    *slog.Logger
	tracer    trace.Tracer
	progress  bool
}

// WithTransport replaces the default [HTTPTransport].
func WithTransport(t Transport) Option {
	return func(o *clientOpts) error {
		if t == nil {
			return errors.New("transport must not be nil")
		}
		o.transport = t
		return nil
	}
}

// WithBaseURL points the client at another service root, e.g. a staging
// host. The default is [DefaultBaseURL].
func WithBaseURL(base string) Option {
	return func(o *clientOpts) error {
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("parsing base url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("base url %q must be an absolute http(s) url", base)
		}
		o.baseURL = strings.TrimRight(base, "/")
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOpts) error {
		o.logger = logger
		return nil
	}
}

// WithTracer injects the given tracer. A no-op tracer is used otherwise.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *clientOpts) error {
		o.tracer = tracer
		return nil
	}
}

// WithUploadProgress enables periodic progress logging while local files
// are uploaded by [Client.Send].
func WithUploadProgress() Option {
	return func(o *clientOpts) error {
		o.progress = true
		return nil
	}
}

// TransportOption is a functional option for [NewHTTPTransport].
type TransportOption func(*transportOpts) error
type transportOpts struct {
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
}

// WithHTTPClient replaces the [http.Client] used by the [HTTPTransport].
func WithHTTPClient(hc *http.Client) TransportOption {
	return func(o *transportOpts) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		o.client = hc
		return nil
	}
}

// WithRoundTripper sets a custom [http.RoundTripper] as the base transport.
func WithRoundTripper(rt http.RoundTripper) TransportOption {
	return func(o *transportOpts) error {
		if rt == nil {
			return errors.New("round tripper must not be nil")
		}
		o.rt = rt
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
// Uploads of large e-books need a generous value.
func WithTimeout(d time.Duration) TransportOption {
	return func(o *transportOpts) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		o.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) TransportOption {
	return func(o *transportOpts) error {
		o.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests
// per second and burst capacity.
func WithThrottle(rps, burst int) TransportOption {
	return func(o *transportOpts) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		o.throttle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithNoFollowRedirects prevents the [HTTPTransport] from following redirects.
func WithNoFollowRedirects() TransportOption {
	return func(o *transportOpts) error {
		o.noFollowRedirects = true
		return nil
	}
}

// WithTransportLogger injects a custom [slog.Logger] into the [HTTPTransport].
func WithTransportLogger(logger *slog.Logger) TransportOption {
	return func(o *transportOpts) error {
		o.logger = logger
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}

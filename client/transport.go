package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/adamwoolhether/booxtream/client/throttle"
)

// Credentials is the name and API key pair sent as basic auth on every request.
type Credentials struct {
	Username string
	APIKey   string
}

// Part is one field of a multipart request: a plain value, or a file
// stream when Content is set.
type Part struct {
	Name        string
	Value       string
	Filename    string
	ContentType string
	Content     io.Reader
}

// IsFile reports whether the part carries a file stream.
func (p Part) IsFile() bool {
	return p.Content != nil
}

// Transport sends authenticated requests to the service.
//
// Implementations report error statuses as a [*StatusError] so that service
// rejections can be told apart from connection failures. A returned error
// of any other type is treated as a failure to reach the service.
type Transport interface {
	Query(ctx context.Context, endpoint string, query url.Values, auth Credentials) (*Response, error)
	PostMultipart(ctx context.Context, endpoint string, parts []Part, auth Credentials) (*Response, error)
}

// errBodyAbandoned unblocks the multipart writer once the exchange is over.
var errBodyAbandoned = errors.New("request body abandoned")

// HTTPTransport is the default [Transport], built on [net/http].
type HTTPTransport struct {
	c      *http.Client
	logger *slog.Logger
}

// NewHTTPTransport builds an [HTTPTransport]. Unless overridden it uses a
// fresh [http.Client] over [http.DefaultTransport].
func NewHTTPTransport(optFns ...TransportOption) (*HTTPTransport, error) {
	t := &HTTPTransport{
		c:      &http.Client{},
		logger: slog.Default(),
	}

	var opts transportOpts
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying transport option: %w", err)
		}
	}

	if opts.client != nil {
		t.c = opts.client
	}

	if opts.logger != nil {
		t.logger = opts.logger
	}

	if opts.timeout != nil {
		t.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		t.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var rt http.RoundTripper
	switch {
	case opts.rt != nil:
		rt = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		rt = opts.client.Transport
	default:
		rt = http.DefaultTransport
	}
	if opts.userAgent != "" {
		rt = userAgent{value: opts.userAgent, base: rt}
	}
	if opts.throttle != nil {
		limited, err := throttle.New(*opts.throttle, func() *slog.Logger { return t.logger }, rt)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		rt = limited
	}
	t.c.Transport = rt

	return t, nil
}

// Query issues a GET request with the given query parameters. Empty values
// are sent as bare keys, e.g. "?exists".
func (t *HTTPTransport) Query(ctx context.Context, endpoint string, query url.Values, auth Credentials) (*Response, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	u.RawQuery = encodeQuery(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	return t.exec(req, auth)
}

// PostMultipart streams parts as a multipart/form-data body. File contents
// are read while the request is in flight and are not closed.
func (t *HTTPTransport) PostMultipart(ctx context.Context, endpoint string, parts []Part, auth Credentials) (*Response, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	done := make(chan error, 1)
	go func() {
		err := writeParts(mw, parts)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
		done <- err
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		pr.CloseWithError(errBodyAbandoned)
		<-done
		return nil, fmt.Errorf("instantiating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := t.exec(req, auth)

	// The service may answer before reading the whole body.
	pr.CloseWithError(errBodyAbandoned)
	werr := <-done

	switch {
	case err != nil:
		return nil, err
	case werr != nil && !errors.Is(werr, errBodyAbandoned) && !errors.Is(werr, io.ErrClosedPipe):
		return nil, fmt.Errorf("writing multipart body: %w", werr)
	}

	return resp, nil
}

// exec authenticates and sends req, reading the whole body. Error statuses
// come back as a *StatusError with the body capped at maxErrBodySize.
func (t *HTTPTransport) exec(req *http.Request, auth Credentials) (*Response, error) {
	req.SetBasicAuth(auth.Username, auth.APIKey)

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	otel.GetTextMapPropagator().Inject(req.Context(), propagation.HeaderCarrier(req.Header))

	t.logger.Debug("booxtream request", "method", req.Method, "endpoint", req.URL.Redacted(), "request_id", requestID)

	resp, err := t.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exec http do: %w", err)
	}

	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			t.logger.Error("failed to discard unused body", "error", err)
		}
		if err := resp.Body.Close(); err != nil {
			t.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}

		t.logger.Debug("booxtream error status", "status", resp.StatusCode, "request_id", requestID)

		return nil, newStatusError(resp.StatusCode, resp.Header, b)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func writeParts(mw *multipart.Writer, parts []Part) error {
	for _, p := range parts {
		if !p.IsFile() {
			if err := mw.WriteField(p.Name, p.Value); err != nil {
				return fmt.Errorf("writing field %s: %w", p.Name, err)
			}
			continue
		}

		contentType := p.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(p.Name), quoteEscaper.Replace(p.Filename)))
		h.Set("Content-Type", contentType)

		w, err := mw.CreatePart(h)
		if err != nil {
			return fmt.Errorf("creating file part %s: %w", p.Name, err)
		}
		if _, err := io.Copy(w, p.Content); err != nil {
			return fmt.Errorf("copying file part %s: %w", p.Name, err)
		}
	}

	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeQuery is url.Values.Encode, except that a key with a single empty
// value is written without "=".
func encodeQuery(v url.Values) string {
	if len(v) == 0 {
		return ""
	}

	var buf strings.Builder
	for _, k := range slices.Sorted(maps.Keys(v)) {
		key := url.QueryEscape(k)
		vs := v[k]
		if len(vs) == 0 || len(vs) == 1 && vs[0] == "" {
			if buf.Len() > 0 {
				buf.WriteByte('&')
			}
			buf.WriteString(key)
			continue
		}
		for _, val := range vs {
			if buf.Len() > 0 {
				buf.WriteByte('&')
			}
			buf.WriteString(key)
			buf.WriteByte('=')
			buf.WriteString(url.QueryEscape(val))
		}
	}

	return buf.String()
}

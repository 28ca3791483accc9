package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/booxtream/options"
)

// DefaultBaseURL is the production service root.
const DefaultBaseURL = "https://service.booxtream.com"

// OutputType selects what the service returns.
type OutputType string

// Output types.
const (
	// XML requests a metadata document with download links.
	XML OutputType = "xml"
	// EPUB requests the generated epub itself.
	EPUB OutputType = "epub"
	// MOBI requests the generated mobi itself.
	MOBI OutputType = "mobi"
)

// Valid reports whether o is a known output type.
func (o OutputType) Valid() bool {
	switch o {
	case XML, EPUB, MOBI:
		return true
	}
	return false
}

// ParseOutputType converts s into an OutputType.
func ParseOutputType(s string) (OutputType, error) {
	o := OutputType(strings.ToLower(strings.TrimSpace(s)))
	if !o.Valid() {
		return "", fmt.Errorf("%w: invalid type %q", ErrConfiguration, s)
	}
	return o, nil
}

// Client performs one exchange with the service: attach files, then Send.
// It holds open file handles until Send returns or Close is called.
//
// A Client is not safe for concurrent use.
type Client struct {
	output    OutputType
	options   *options.Set
	auth      Credentials
	transport Transport
	baseURL   string
	logger    *slog.Logger
	tracer    trace.Tracer
	progress  bool

	epub     attachment
	exlibris attachment
}

// New builds a Client for the given output type. A private copy of opts is
// validated for that output; its ValidationError is returned on failure.
func New(output OutputType, opts *options.Set, auth Credentials, optFns ...Option) (*Client, error) {
	if !output.Valid() {
		return nil, fmt.Errorf("%w: invalid type %q", ErrConfiguration, output)
	}
	if opts == nil {
		return nil, fmt.Errorf("%w: options must not be nil", ErrConfiguration)
	}
	if auth.Username == "" || auth.APIKey == "" {
		return nil, fmt.Errorf("%w: username and api key are required", ErrConfiguration)
	}

	var o clientOpts
	for _, opt := range optFns {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("%w: applying client option: %w", ErrConfiguration, err)
		}
	}

	set := opts.Clone()
	if err := set.Validate(output == XML); err != nil {
		return nil, fmt.Errorf("validating options: %w", err)
	}

	c := &Client{
		output:    output,
		options:   set,
		auth:      auth,
		transport: o.transport,
		baseURL:   o.baseURL,
		logger:    o.logger,
		tracer:    o.tracer,
		progress:  o.progress,
		epub:      attachment{field: fieldEpub},
		exlibris:  attachment{field: fieldExlibris},
	}

	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.tracer == nil {
		c.tracer = noop.NewTracerProvider().Tracer("no-op tracer")
	}
	if c.transport == nil {
		t, err := NewHTTPTransport(WithTransportLogger(c.logger))
		if err != nil {
			return nil, fmt.Errorf("%w: building transport: %w", ErrConfiguration, err)
		}
		c.transport = t
	}

	return c, nil
}

// Output returns the output type chosen at construction.
func (c *Client) Output() OutputType {
	return c.output
}

// SetEpubFile attaches a local e-book as the primary document.
func (c *Client) SetEpubFile(path string) error {
	if err := c.epub.vacant(); err != nil {
		return err
	}

	l, err := openLocal(fieldEpub, path)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(l.contentType, "application/epub+zip") {
		c.logger.Warn("epub file does not look like an epub", "path", path, "content_type", l.contentType)
	}

	c.epub.src = l

	return nil
}

// SetStoredEpubFile uses a file already stored at the service as the
// primary document. A trailing ".epub" is dropped from id, and the
// service is asked whether the file exists before it is accepted.
func (c *Client) SetStoredEpubFile(ctx context.Context, id string) error {
	if err := c.epub.vacant(); err != nil {
		return err
	}

	id = trimEpubExt(id)
	if err := c.checkStoredFile(ctx, id); err != nil {
		return err
	}

	c.epub.src = storedFile{id: id}

	return nil
}

// SetExlibrisFile attaches a local image used for the ex libris page.
func (c *Client) SetExlibrisFile(path string) error {
	if err := c.exlibris.vacant(); err != nil {
		return err
	}

	l, err := openLocal(fieldExlibris, path)
	if err != nil {
		return err
	}

	c.exlibris.src = l

	return nil
}

// SetStoredExlibrisFile uses an ex libris image already stored at the service.
func (c *Client) SetStoredExlibrisFile(ctx context.Context, id string) error {
	if err := c.exlibris.vacant(); err != nil {
		return err
	}

	if err := c.checkStoredFile(ctx, id); err != nil {
		return err
	}

	c.exlibris.src = storedFile{id: id}

	return nil
}

// Send posts the options and files to the service. A rejection by the
// service (4xx) is not an error: the Response is returned so its error
// document can be read, see [Response.Rejected]. Other failures are
// reported as ErrTransport.
//
// Local files are closed when Send returns, so a Client that uploaded a
// local file cannot send again.
func (c *Client) Send(ctx context.Context) (*Response, error) {
	if c.epub.src == nil {
		return nil, fmt.Errorf("%w: no primary document: storedfile or epubfile not set", ErrState)
	}

	parts, err := c.multipart()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := c.Close(); err != nil {
			c.logger.Error("failed to release files", "error", err)
		}
	}()

	endpoint := c.action()

	ctx, span := c.tracer.Start(ctx, "booxtream.send")
	defer span.End()
	span.SetAttributes(
		attribute.String("booxtream.output", string(c.output)),
		attribute.String("booxtream.endpoint", endpoint),
	)

	c.logger.Debug("sending to booxtream", "endpoint", endpoint, "parts", len(parts))

	resp, err := c.transport.PostMultipart(ctx, endpoint, parts, c.auth)
	if err != nil {
		var se *StatusError
		if !errors.As(err, &se) || !errors.Is(se, ErrClientStatus) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "send failed")
			return nil, fmt.Errorf("%w: sending to %s: %w", ErrTransport, endpoint, err)
		}
		resp = se.Response()
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusInternalServerError {
		err := newStatusError(resp.StatusCode, resp.Header, resp.Body)
		span.SetStatus(codes.Error, "send failed")
		return nil, fmt.Errorf("%w: sending to %s: %w", ErrTransport, endpoint, err)
	}

	if resp.Rejected() {
		c.logger.Info("booxtream rejected request", "endpoint", endpoint, "status", resp.StatusCode, "bytes", len(resp.Body))
		return resp, nil
	}

	c.logger.Info("booxtream request completed", "endpoint", endpoint, "status", resp.StatusCode, "bytes", len(resp.Body))

	return resp, nil
}

// Close releases any local files still held. It is safe to call more than
// once, and after Send.
func (c *Client) Close() error {
	return errors.Join(c.epub.release(), c.exlibris.release())
}

// multipart assembles the request fields: options first, then the stored
// ex libris id, then local file uploads.
func (c *Client) multipart() ([]Part, error) {
	pairs := c.options.Pairs()

	parts := make([]Part, 0, len(pairs)+2)
	for _, p := range pairs {
		parts = append(parts, Part{Name: p.Name, Value: p.Value})
	}

	if s, ok := c.exlibris.stored(); ok {
		parts = append(parts, Part{Name: fieldExlibris, Value: s.id})
	}

	for _, a := range []*attachment{&c.epub, &c.exlibris} {
		l, ok := a.local()
		if !ok {
			continue
		}
		if l.consumed {
			return nil, fmt.Errorf("%w: %s %s was already sent or closed", ErrState, a.field, l.filename)
		}
		var content io.Reader = l.file
		if c.progress {
			content = newProgressReader(l.file, c.logger, a.field, l.size)
		}
		parts = append(parts, Part{
			Name:        a.field,
			Filename:    l.filename,
			ContentType: l.contentType,
			Content:     content,
		})
	}

	return parts, nil
}

// action is the endpoint for Send: the upload endpoint for a local epub,
// or the stored file itself with the output type as extension.
func (c *Client) action() string {
	if s, ok := c.epub.stored(); ok {
		return c.storedFileURL(s.id) + "." + string(c.output)
	}
	return c.baseURL + "/booxtream." + string(c.output)
}

func (c *Client) storedFileURL(id string) string {
	return c.baseURL + "/storedfiles/" + url.PathEscape(id)
}

// checkStoredFile asks the service whether a stored file exists.
func (c *Client) checkStoredFile(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: storedfile id must not be empty", ErrConfiguration)
	}

	ctx, span := c.tracer.Start(ctx, "booxtream.exists")
	defer span.End()
	span.SetAttributes(attribute.String("booxtream.storedfile", id))

	resp, err := c.transport.Query(ctx, c.storedFileURL(id), url.Values{"exists": {""}}, c.auth)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			resp = se.Response()
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, "exists check failed")
			return fmt.Errorf("%w: checking storedfile %s: %w", ErrTransport, id, err)
		}
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: storedfile %s does not exist", ErrNotFound, id)
	default:
		span.SetStatus(codes.Error, "exists check failed")
		return fmt.Errorf("%w: unknown error occurred while checking storedfile %s: status %d", ErrTransport, id, resp.StatusCode)
	}
}

// trimEpubExt drops a trailing, case-insensitive ".epub" from a stored
// file id, keeping ids that would otherwise become empty.
func trimEpubExt(id string) string {
	const ext = ".epub"
	if len(id) > len(ext) && strings.EqualFold(id[len(id)-len(ext):], ext) {
		return id[:len(id)-len(ext)]
	}
	return id
}

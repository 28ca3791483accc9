package client

import (
	"errors"
	"fmt"
	"net/http"
)

// maxErrBodySize caps the amount of response body read when a request
// fails with an error status. Service error documents are small; this
// prevents unbounded memory use when something else answers.
const maxErrBodySize = 64 << 10 // 64KB

var (
	// ErrConfiguration reports bad arguments to [New] or a setter.
	ErrConfiguration = errors.New("configuration error")
	// ErrState reports a conflicting or missing file assignment, or an
	// operation called out of order.
	ErrState = errors.New("state error")
	// ErrNotFound reports a local file that is missing or unreadable, or a
	// stored file the service does not know.
	ErrNotFound = errors.New("not found")
	// ErrTransport reports a failed exchange that is not a service rejection.
	ErrTransport = errors.New("transport error")

	// ErrClientStatus is wrapped by [StatusError] for 4xx responses.
	ErrClientStatus = errors.New("client error status")
	// ErrServerStatus is wrapped by [StatusError] for any other error status.
	ErrServerStatus = errors.New("server error status")
)

// StatusError is returned by a [Transport] when the service answers
// with an error status. It carries the response so callers can read the
// service's diagnostic document.
type StatusError struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Err        error
}

func newStatusError(code int, header http.Header, body []byte) *StatusError {
	sentinel := ErrServerStatus
	if code >= 400 && code < 500 {
		sentinel = ErrClientStatus
	}

	return &StatusError{
		StatusCode: code,
		Header:     header,
		Body:       body,
		Err:        sentinel,
	}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// Response converts the error back into the service's response.
func (e *StatusError) Response() *Response {
	return &Response{
		StatusCode: e.StatusCode,
		Header:     e.Header,
		Body:       e.Body,
	}
}

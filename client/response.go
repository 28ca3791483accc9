package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// Response is the service's answer to an exchange. Body is returned as
// sent: an xml document, a generated e-book, or an error document when
// the service rejected the request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Rejected reports whether the service refused the request (4xx). The
// body then holds the service's diagnostic document.
func (r *Response) Rejected() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// ContentType returns the media type of the body without parameters.
func (r *Response) ContentType() string {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mediaType
}

// WriteTo writes the body to w.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	return io.Copy(w, bytes.NewReader(r.Body))
}

// Save writes the body to a temp file in the same directory as destPath
// and renames it into place on success. On any error the temp file is removed.
func (r *Response) Save(destPath string) (err error) {
	if destPath == "" {
		return errors.New("destPath must not be empty")
	}

	file, err := os.CreateTemp(filepath.Dir(destPath), ".booxtream-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	var successful bool
	defer func() {
		if cerr := file.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) {
			err = errors.Join(err, fmt.Errorf("closing temp file: %w", cerr))
		}
		if !successful {
			if rerr := os.Remove(file.Name()); rerr != nil {
				err = errors.Join(err, fmt.Errorf("removing temp file: %w", rerr))
			}
		}
	}()

	if _, err := r.WriteTo(file); err != nil {
		return fmt.Errorf("writing body: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(file.Name(), destPath); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	successful = true

	return nil
}

package client

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// Multipart field names for attached files.
const (
	fieldEpub     = "epubfile"
	fieldExlibris = "exlibrisfile"
)

// source is where an attachment's content comes from: a *localFile or a
// storedFile. The unexported method seals the set of variants.
type source interface {
	describe() string
}

// localFile is a file opened on this machine, uploaded with the request.
type localFile struct {
	file        *os.File
	filename    string
	contentType string
	size        int64
	consumed    bool
}

func (l *localFile) describe() string { return "local file " + l.filename }

// storedFile is a file previously uploaded to the service.
type storedFile struct {
	id string
}

func (s storedFile) describe() string { return "storedfile " + s.id }

// attachment is one file slot of an exchange. A nil src means unset.
type attachment struct {
	field string
	src   source
}

// vacant fails if the slot has already been filled, by either variant.
func (a *attachment) vacant() error {
	if a.src != nil {
		return fmt.Errorf("%w: conflicting file source for %s: %s already set", ErrState, a.field, a.src.describe())
	}
	return nil
}

func (a *attachment) local() (*localFile, bool) {
	l, ok := a.src.(*localFile)
	return l, ok
}

func (a *attachment) stored() (storedFile, bool) {
	s, ok := a.src.(storedFile)
	return s, ok
}

// release closes a local file. It is a no-op for other variants and for
// files already released.
func (a *attachment) release() error {
	l, ok := a.local()
	if !ok || l.consumed {
		return nil
	}

	l.consumed = true
	if err := l.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("closing %s: %w", a.field, err)
	}

	return nil
}

// openLocal opens path for upload under field and sniffs its content type.
// The handle is closed again on every failure.
func openLocal(field, path string) (*localFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: file %s not found or readable while setting %s: %w", ErrNotFound, path, field, err)
	}

	fail := func(err error) (*localFile, error) {
		_ = f.Close()
		return nil, fmt.Errorf("%w: file %s not readable while setting %s: %w", ErrNotFound, path, field, err)
	}

	info, err := f.Stat()
	if err != nil {
		return fail(err)
	}
	if info.IsDir() {
		return fail(errors.New("is a directory"))
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return fail(err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fail(err)
	}

	l := localFile{
		file:        f,
		filename:    filepath.Base(path),
		contentType: mtype.String(),
		size:        info.Size(),
	}

	return &l, nil
}

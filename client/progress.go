package client

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// progressReader is an io.Reader, logging upload progress of a file part
// at most once per second.
type progressReader struct {
	r           io.Reader
	logger      *slog.Logger
	field       string
	transferred int64
	total       int64
	startTime   time.Time
	lastLog     time.Time
}

func newProgressReader(r io.Reader, logger *slog.Logger, field string, total int64) *progressReader {
	now := time.Now()
	return &progressReader{
		r:         r,
		logger:    logger,
		field:     field,
		total:     total,
		startTime: now,
		lastLog:   now,
	}
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	pr.transferred += int64(n)

	if time.Since(pr.lastLog) >= time.Second {
		pr.lastLog = time.Now()
		pr.log("uploading")
	}

	if n > 0 && pr.transferred == pr.total {
		pr.log("upload complete")
	}

	return n, err
}

func (pr *progressReader) log(msg string) {
	elapsed := time.Since(pr.startTime)
	attrs := []any{
		"field", pr.field,
		"elapsed", elapsed.Round(time.Millisecond),
		"transferred", pr.transferred,
		"total", pr.total,
	}
	if pr.total > 0 {
		attrs = append(attrs, "progress", fmt.Sprintf("%.1f%%", float64(pr.transferred)/float64(pr.total)*100))
	}
	if secs := elapsed.Seconds(); secs > 0 {
		attrs = append(attrs, "mbps", fmt.Sprintf("%.2f", float64(pr.transferred)/secs/(1024*1024)))
	}
	pr.logger.Info(msg, attrs...)
}

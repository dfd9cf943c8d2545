// Package slog provides logging decorators for schemadex services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/schemadex"
)

// Ensure LoggingSourceReader implements schemadex.SourceReader.
var _ schemadex.SourceReader = (*LoggingSourceReader)(nil)

// LoggingSourceReader wraps a SourceReader with logging.
type LoggingSourceReader struct {
	next   schemadex.SourceReader
	logger *slog.Logger
}

// NewLoggingSourceReader creates a new LoggingSourceReader.
func NewLoggingSourceReader(next schemadex.SourceReader, logger *slog.Logger) *LoggingSourceReader {
	return &LoggingSourceReader{next: next, logger: logger}
}

// ReadFile reads the named file and logs the operation.
func (r *LoggingSourceReader) ReadFile(ctx context.Context, name string) (text string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("read",
			"file", name,
			"bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.ReadFile(ctx, name)
}

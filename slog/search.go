package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/schemadex"
)

// Ensure LoggingBrowser implements schemadex.Browser.
var _ schemadex.Browser = (*LoggingBrowser)(nil)

// LoggingBrowser wraps a Browser with debug logging of queries.
type LoggingBrowser struct {
	next   schemadex.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next schemadex.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// Search delegates to the wrapped browser and logs the result count.
func (b *LoggingBrowser) Search(query string) (names []string) {
	defer func(begin time.Time) {
		b.logger.Debug("search",
			"query", query,
			"count", len(names),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return b.next.Search(query)
}

// ListEntities delegates to the wrapped browser and logs the result count.
func (b *LoggingBrowser) ListEntities(query string) (items []schemadex.ListItem) {
	defer func(begin time.Time) {
		b.logger.Debug("list entities",
			"query", query,
			"count", len(items),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return b.next.ListEntities(query)
}

// GetEntity delegates to the wrapped browser.
func (b *LoggingBrowser) GetEntity(name string) *schemadex.Entity {
	e := b.next.GetEntity(name)
	if e == nil {
		b.logger.Debug("entity not found", "name", name)
	}
	return e
}

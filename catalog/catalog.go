// Package catalog builds a schemadex.Catalog from a list of dump files.
// Files may be retrieved concurrently, but their contents are always merged
// in list order so that later files deterministically win.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/schemadex"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of files retrieved in parallel.
const DefaultConcurrency = 4

// Builder turns source files into a catalog.
type Builder struct {
	Reader       schemadex.SourceReader
	Files        []schemadex.SourceFile
	SchemaEntity string
	Concurrency  int
	Logger       *slog.Logger
}

// NewBuilder returns a Builder for the files of a manifest.
func NewBuilder(reader schemadex.SourceReader, m *schemadex.Manifest, logger *slog.Logger) *Builder {
	return &Builder{
		Reader:       reader,
		Files:        m.Files,
		SchemaEntity: m.SchemaEntity,
		Concurrency:  m.Concurrency,
		Logger:       logger,
	}
}

// ProgressType indicates the outcome of one file.
type ProgressType int

const (
	FileLoaded ProgressType = iota
	FileFailed
)

// ProgressEvent reports the outcome of one file, in merge order.
type ProgressEvent struct {
	Type     ProgressType
	File     schemadex.SourceFile
	Position int
	Total    int
	Bytes    int
	Entities int    // entities written by this file
	Hash     string // xxhash of the raw text
	Error    error
}

// ProgressFunc is a callback for reporting build progress.
type ProgressFunc func(event ProgressEvent)

// fetchResult holds the raw text of one file.
type fetchResult struct {
	text string
	err  error
}

// Build retrieves, cleans, parses and merges every file. It never fails:
// files that cannot be read or parsed are logged, reported and skipped, and
// whatever earlier files contributed is kept.
func (b *Builder) Build(ctx context.Context, progress ProgressFunc) *schemadex.Catalog {
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	results := b.fetchAll(ctx)

	m := newMerger(b.SchemaEntity, logger)
	// The fingerprint covers everything that shapes the catalog: the schema
	// entity, then each merged file's name, role and content hash.
	fingerprint := xxhash.New()
	_, _ = fingerprint.WriteString(b.SchemaEntity + "\x00")
	total := len(b.Files)

	for i, file := range b.Files {
		event := ProgressEvent{File: file, Position: i, Total: total}

		res := results[i]
		if res.err != nil {
			event.Type = FileFailed
			event.Error = unavailable(file.Name, res.err)
			logger.Warn("source unavailable", "file", file.Name, "role", file.EffectiveRole(), "err", event.Error)
			notify(progress, event)
			continue
		}

		event.Bytes = len(res.text)
		event.Hash = hashString(res.text)

		doc, err := parseDocument(schemadex.StripComments(res.text))
		if err != nil {
			event.Type = FileFailed
			event.Error = err
			logger.Warn("parse failure", "file", file.Name, "role", file.EffectiveRole(), "err", err)
			notify(progress, event)
			continue
		}

		event.Type = FileLoaded
		event.Entities = m.apply(file, doc)
		_, _ = fingerprint.WriteString(file.Name + "\x00" + string(file.EffectiveRole()) + "\x00" + event.Hash + "\x00")
		logger.Debug("file merged", "file", file.Name, "role", file.EffectiveRole(), "entities", event.Entities, "bytes", event.Bytes)
		notify(progress, event)
	}

	c := m.catalog()
	c.Fingerprint = fmt.Sprintf("%016x", fingerprint.Sum64())
	logger.Info("catalog built", "entities", c.Len(), "files", total, "fingerprint", c.Fingerprint)
	return c
}

// fetchAll retrieves every file with bounded parallelism. Results are stored
// by position; per-file errors never cancel the other reads.
func (b *Builder) fetchAll(ctx context.Context) []fetchResult {
	results := make([]fetchResult, len(b.Files))

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, file := range b.Files {
		g.Go(func() error {
			text, err := b.Reader.ReadFile(ctx, file.Name)
			results[i] = fetchResult{text: text, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// unavailable classifies a read error as EUNAVAILABLE unless the reader already did.
func unavailable(name string, err error) error {
	if schemadex.ErrorCode(err) == schemadex.EUNAVAILABLE {
		return err
	}
	return schemadex.Errorf(schemadex.EUNAVAILABLE, "read %s: %v", name, err)
}

func hashString(s string) string {
	return strconv.FormatUint(xxhash.Sum64String(s), 16)
}

func notify(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}

package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/schemadex"
)

// Ensure LoggingSnapshotService implements schemadex.SnapshotService.
var _ schemadex.SnapshotService = (*LoggingSnapshotService)(nil)

// LoggingSnapshotService wraps a SnapshotService with logging of writes and loads.
type LoggingSnapshotService struct {
	next   schemadex.SnapshotService
	logger *slog.Logger
}

// NewLoggingSnapshotService creates a new LoggingSnapshotService.
func NewLoggingSnapshotService(next schemadex.SnapshotService, logger *slog.Logger) *LoggingSnapshotService {
	return &LoggingSnapshotService{next: next, logger: logger}
}

func (s *LoggingSnapshotService) CreateSnapshot(ctx context.Context, snap *schemadex.Snapshot) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create snapshot",
			"id", snap.ID,
			"fingerprint", snap.Fingerprint,
			"entities", snap.EntityCount,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateSnapshot(ctx, snap)
}

func (s *LoggingSnapshotService) FindSnapshotByID(ctx context.Context, id string) (snap *schemadex.Snapshot, err error) {
	defer func(begin time.Time) {
		var entities int
		if snap != nil {
			entities = snap.Catalog.Len()
		}
		s.logger.Info("load snapshot",
			"id", id,
			"entities", entities,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindSnapshotByID(ctx, id)
}

func (s *LoggingSnapshotService) FindSnapshots(ctx context.Context, filter schemadex.SnapshotFilter) ([]*schemadex.Snapshot, error) {
	return s.next.FindSnapshots(ctx, filter)
}

func (s *LoggingSnapshotService) DeleteSnapshot(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete snapshot", "id", id, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.DeleteSnapshot(ctx, id)
}

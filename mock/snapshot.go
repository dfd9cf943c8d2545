package mock

import (
	"context"

	"github.com/fwojciec/schemadex"
)

var _ schemadex.SnapshotService = (*SnapshotService)(nil)

// SnapshotService is a mock implementation of schemadex.SnapshotService.
type SnapshotService struct {
	CreateSnapshotFn   func(ctx context.Context, snap *schemadex.Snapshot) error
	FindSnapshotByIDFn func(ctx context.Context, id string) (*schemadex.Snapshot, error)
	FindSnapshotsFn    func(ctx context.Context, filter schemadex.SnapshotFilter) ([]*schemadex.Snapshot, error)
	DeleteSnapshotFn   func(ctx context.Context, id string) error
}

func (s *SnapshotService) CreateSnapshot(ctx context.Context, snap *schemadex.Snapshot) error {
	return s.CreateSnapshotFn(ctx, snap)
}

func (s *SnapshotService) FindSnapshotByID(ctx context.Context, id string) (*schemadex.Snapshot, error) {
	return s.FindSnapshotByIDFn(ctx, id)
}

func (s *SnapshotService) FindSnapshots(ctx context.Context, filter schemadex.SnapshotFilter) ([]*schemadex.Snapshot, error) {
	return s.FindSnapshotsFn(ctx, filter)
}

func (s *SnapshotService) DeleteSnapshot(ctx context.Context, id string) error {
	return s.DeleteSnapshotFn(ctx, id)
}

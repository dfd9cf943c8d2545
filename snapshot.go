package schemadex

import (
	"context"
	"time"
)

// Snapshot is a persisted build result.
type Snapshot struct {
	ID          string    `json:"id"`
	Base        string    `json:"base"`
	Fingerprint string    `json:"fingerprint"`
	EntityCount int       `json:"entityCount"`
	CreatedAt   time.Time `json:"createdAt"`

	// Catalog is only populated by FindSnapshotByID.
	Catalog *Catalog `json:"-"`
}

// Validate returns an error if the snapshot contains invalid fields.
func (s *Snapshot) Validate() error {
	if s.Catalog == nil {
		return Errorf(EINVALID, "snapshot catalog required")
	}
	if s.Fingerprint == "" {
		return Errorf(EINVALID, "snapshot fingerprint required")
	}
	return nil
}

// SnapshotService represents a service for managing snapshots.
type SnapshotService interface {
	// CreateSnapshot stores a snapshot and assigns its ID.
	// Returns ECONFLICT if a snapshot with the same fingerprint exists.
	CreateSnapshot(ctx context.Context, snap *Snapshot) error

	// FindSnapshotByID retrieves a snapshot including its catalog.
	// Returns ENOTFOUND if the snapshot does not exist.
	FindSnapshotByID(ctx context.Context, id string) (*Snapshot, error)

	// FindSnapshots retrieves snapshot metadata, newest first.
	FindSnapshots(ctx context.Context, filter SnapshotFilter) ([]*Snapshot, error)

	// DeleteSnapshot permanently removes a snapshot.
	// Returns ENOTFOUND if the snapshot does not exist.
	DeleteSnapshot(ctx context.Context, id string) error
}

// SnapshotFilter represents a filter for FindSnapshots.
type SnapshotFilter struct {
	ID          *string `json:"id"`
	Fingerprint *string `json:"fingerprint"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

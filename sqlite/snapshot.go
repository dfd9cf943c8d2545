package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/schemadex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ schemadex.SnapshotService = (*SnapshotService)(nil)

// SnapshotService implements schemadex.SnapshotService using SQLite.
// Each entity of a snapshot is stored as one JSON row.
type SnapshotService struct {
	db *DB
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *DB) *SnapshotService {
	return &SnapshotService{db: db}
}

// CreateSnapshot stores snap and its catalog in one transaction.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, snap *schemadex.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var existing string
	err = tx.QueryRowContext(ctx, "SELECT id FROM snapshots WHERE fingerprint = ?", snap.Fingerprint).Scan(&existing)
	if err == nil {
		return schemadex.Errorf(schemadex.ECONFLICT, "snapshot %s has the same fingerprint", existing)
	}
	if err != sql.ErrNoRows {
		return err
	}

	id := uuid.New().String()
	createdAt := time.Now().UTC().Truncate(time.Second)
	entities := snap.Catalog.Entities()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, base, fingerprint, entity_count, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, snap.Base, snap.Fingerprint, len(entities), createdAt.Format(time.RFC3339)); err != nil {
		return err
	}

	for i, e := range entities {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode entity %q: %w", e.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_entities (snapshot_id, position, name, data)
			VALUES (?, ?, ?, ?)
		`, id, i, e.Name, string(data)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	snap.ID = id
	snap.CreatedAt = createdAt
	snap.EntityCount = len(entities)
	return nil
}

// FindSnapshotByID retrieves a snapshot and rebuilds its catalog.
func (s *SnapshotService) FindSnapshotByID(ctx context.Context, id string) (*schemadex.Snapshot, error) {
	snaps, err := s.FindSnapshots(ctx, schemadex.SnapshotFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, schemadex.Errorf(schemadex.ENOTFOUND, "snapshot not found")
	}
	snap := snaps[0]

	rows, err := s.db.QueryContext(ctx, `
		SELECT data FROM snapshot_entities
		WHERE snapshot_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entities := make([]*schemadex.Entity, 0, snap.EntityCount)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var e schemadex.Entity
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, fmt.Errorf("decode entity: %w", err)
		}
		entities = append(entities, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	snap.Catalog = schemadex.NewCatalog(entities)
	snap.Catalog.Fingerprint = snap.Fingerprint
	return snap, nil
}

// FindSnapshots retrieves snapshot metadata matching the filter, newest first.
func (s *SnapshotService) FindSnapshots(ctx context.Context, filter schemadex.SnapshotFilter) ([]*schemadex.Snapshot, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, base, fingerprint, entity_count, created_at FROM snapshots WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Fingerprint != nil {
		query.WriteString(" AND fingerprint = ?")
		args = append(args, *filter.Fingerprint)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snaps := make([]*schemadex.Snapshot, 0)
	for rows.Next() {
		var snap schemadex.Snapshot
		var createdAt string
		if err := rows.Scan(&snap.ID, &snap.Base, &snap.Fingerprint, &snap.EntityCount, &createdAt); err != nil {
			return nil, err
		}
		if snap.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		snaps = append(snaps, &snap)
	}

	return snaps, rows.Err()
}

// DeleteSnapshot permanently removes a snapshot and its entities.
func (s *SnapshotService) DeleteSnapshot(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return schemadex.Errorf(schemadex.ENOTFOUND, "snapshot not found")
	}

	return nil
}

package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/schemadex"
	"github.com/fwojciec/schemadex/mock"
	schemadexslog "github.com/fwojciec/schemadex/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingSourceReader_ReadFile(t *testing.T) {
	t.Parallel()

	t.Run("logs read with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SourceReader{
			ReadFileFn: func(ctx context.Context, name string) (string, error) {
				return `{"a": {}}`, nil
			},
		}

		text, err := schemadexslog.NewLoggingSourceReader(inner, newLogger(&buf)).ReadFile(context.Background(), "offsets.json")

		require.NoError(t, err)
		assert.Equal(t, `{"a": {}}`, text)
		output := buf.String()
		assert.Contains(t, output, "msg=read")
		assert.Contains(t, output, "file=offsets.json")
		assert.Contains(t, output, "bytes=9")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SourceReader{
			ReadFileFn: func(ctx context.Context, name string) (string, error) {
				return "", schemadex.Errorf(schemadex.EUNAVAILABLE, "gone")
			},
		}

		_, err := schemadexslog.NewLoggingSourceReader(inner, newLogger(&buf)).ReadFile(context.Background(), "buttons.json")

		require.Error(t, err)
		assert.Equal(t, schemadex.EUNAVAILABLE, schemadex.ErrorCode(err))
		assert.Contains(t, buf.String(), "code=unavailable")
	})
}

func TestLoggingBrowser(t *testing.T) {
	t.Parallel()

	t.Run("logs queries at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Browser{
			SearchFn: func(query string) []string { return []string{"A", "B"} },
			ListEntitiesFn: func(query string) []schemadex.ListItem {
				return []schemadex.ListItem{{Name: "A"}}
			},
		}
		b := schemadexslog.NewLoggingBrowser(inner, newLogger(&buf))

		assert.Equal(t, []string{"A", "B"}, b.Search("class:a"))
		assert.Len(t, b.ListEntities("a"), 1)

		output := buf.String()
		assert.Contains(t, output, "msg=search query=class:a count=2")
		assert.Contains(t, output, `msg="list entities" query=a count=1`)
	})

	t.Run("logs missing entities", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Browser{
			GetEntityFn: func(name string) *schemadex.Entity {
				if name == "A" {
					return &schemadex.Entity{Name: "A"}
				}
				return nil
			},
		}
		b := schemadexslog.NewLoggingBrowser(inner, newLogger(&buf))

		require.NotNil(t, b.GetEntity("A"))
		assert.Empty(t, buf.String())
		assert.Nil(t, b.GetEntity("B"))
		assert.Contains(t, buf.String(), "name=B")
	})

	t.Run("quiet at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Browser{SearchFn: func(query string) []string { return nil }}
		b := schemadexslog.NewLoggingBrowser(inner, slog.New(slog.NewTextHandler(&buf, nil)))

		b.Search("x")

		assert.Empty(t, buf.String())
	})
}

func TestLoggingSnapshotService(t *testing.T) {
	t.Parallel()

	t.Run("logs created snapshot id", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SnapshotService{
			CreateSnapshotFn: func(ctx context.Context, snap *schemadex.Snapshot) error {
				snap.ID = "snap-1"
				snap.EntityCount = 3
				return nil
			},
		}

		err := schemadexslog.NewLoggingSnapshotService(inner, newLogger(&buf)).
			CreateSnapshot(context.Background(), &schemadex.Snapshot{Fingerprint: "abcd"})

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "id=snap-1 fingerprint=abcd entities=3")
	})

	t.Run("logs failed load without a snapshot", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SnapshotService{
			FindSnapshotByIDFn: func(ctx context.Context, id string) (*schemadex.Snapshot, error) {
				return nil, schemadex.Errorf(schemadex.ENOTFOUND, "snapshot not found")
			},
		}

		snap, err := schemadexslog.NewLoggingSnapshotService(inner, newLogger(&buf)).FindSnapshotByID(context.Background(), "nope")

		assert.Nil(t, snap)
		assert.Equal(t, schemadex.ENOTFOUND, schemadex.ErrorCode(err))
		assert.Contains(t, buf.String(), "id=nope entities=0")
	})

	t.Run("logs loaded entity count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SnapshotService{
			FindSnapshotByIDFn: func(ctx context.Context, id string) (*schemadex.Snapshot, error) {
				return &schemadex.Snapshot{ID: id, Catalog: schemadex.NewCatalog([]*schemadex.Entity{{Name: "A"}, {Name: "B"}})}, nil
			},
		}

		_, err := schemadexslog.NewLoggingSnapshotService(inner, newLogger(&buf)).FindSnapshotByID(context.Background(), "s1")

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "id=s1 entities=2")
	})

	t.Run("delegates listing and deletion", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		var deleted string
		inner := &mock.SnapshotService{
			FindSnapshotsFn: func(ctx context.Context, filter schemadex.SnapshotFilter) ([]*schemadex.Snapshot, error) {
				return []*schemadex.Snapshot{{ID: "s1"}}, nil
			},
			DeleteSnapshotFn: func(ctx context.Context, id string) error {
				deleted = id
				return nil
			},
		}
		svc := schemadexslog.NewLoggingSnapshotService(inner, newLogger(&buf))

		snaps, err := svc.FindSnapshots(context.Background(), schemadex.SnapshotFilter{})
		require.NoError(t, err)
		assert.Len(t, snaps, 1)
		require.NoError(t, svc.DeleteSnapshot(context.Background(), "s1"))
		assert.Equal(t, "s1", deleted)
		assert.Contains(t, buf.String(), `msg="delete snapshot" id=s1`)
	})
}

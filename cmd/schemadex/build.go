package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/schemadex"
	"github.com/fwojciec/schemadex/catalog"
	"github.com/fwojciec/schemadex/fs"
	"github.com/fwojciec/schemadex/lru"
	"github.com/fwojciec/schemadex/search"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	var loaded, failed int
	cat := buildCatalog(deps.Ctx, deps, func(e catalog.ProgressEvent) {
		switch e.Type {
		case catalog.FileLoaded:
			loaded++
			fmt.Fprintf(deps.Stdout, "[%d/%d] %-24s %-8s %6d entities  %9d bytes  %s\n",
				e.Position+1, e.Total, e.File.Name, e.File.EffectiveRole(), e.Entities, e.Bytes, e.Hash)
		case catalog.FileFailed:
			failed++
			fmt.Fprintf(deps.Stdout, "[%d/%d] %-24s %-8s skipped: %s\n",
				e.Position+1, e.Total, e.File.Name, e.File.EffectiveRole(), schemadex.ErrorMessage(e.Error))
		}
	})

	fmt.Fprintf(deps.Stdout, "\nBuilt catalog: %d entities from %d of %d files (fingerprint %s)\n",
		cat.Len(), loaded, loaded+failed, cat.Fingerprint)

	if c.Out != "" {
		if err := fs.ExportCatalog(c.Out, cat); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", schemadex.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %s\n", c.Out)
	}

	if c.Save {
		snap := &schemadex.Snapshot{
			Base:        deps.Manifest.Base,
			Fingerprint: cat.Fingerprint,
			Catalog:     cat,
		}
		err := deps.Snapshots.CreateSnapshot(deps.Ctx, snap)
		switch schemadex.ErrorCode(err) {
		case "":
			fmt.Fprintf(deps.Stdout, "Saved snapshot %s\n", snap.ID)
		case schemadex.ECONFLICT:
			fmt.Fprintf(deps.Stdout, "Not saved: %s\n", schemadex.ErrorMessage(err))
		default:
			fmt.Fprintf(deps.Stderr, "error: %s\n", schemadex.ErrorMessage(err))
			return err
		}
	}

	return nil
}

// buildCatalog runs one build against the configured sources.
func buildCatalog(ctx context.Context, deps *Dependencies, progress catalog.ProgressFunc) *schemadex.Catalog {
	builder := catalog.NewBuilder(deps.Reader, deps.Manifest, deps.Logger)
	cat := builder.Build(ctx, progress)
	deps.Metrics.ObserveCatalog(cat)
	return cat
}

// loadCatalog returns the saved snapshot with the given ID, or a fresh build
// when id is empty.
func loadCatalog(deps *Dependencies, id string) (*schemadex.Catalog, error) {
	if id == "" {
		return buildCatalog(deps.Ctx, deps, nil), nil
	}
	snap, err := deps.Snapshots.FindSnapshotByID(deps.Ctx, id)
	if err != nil {
		return nil, err
	}
	return snap.Catalog, nil
}

// newIndex indexes c with a cache of the configured size.
func newIndex(deps *Dependencies, c *schemadex.Catalog) *search.Index {
	return search.NewIndex(c, search.WithCache(lru.NewCache(deps.CacheSize)))
}

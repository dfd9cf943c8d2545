package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/schemadex"
)

// Run executes the snapshots command.
func (c *SnapshotsCmd) Run(deps *Dependencies) error {
	if c.Delete != "" {
		if err := deps.Snapshots.DeleteSnapshot(deps.Ctx, c.Delete); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", schemadex.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Deleted snapshot %s\n", c.Delete)
		return nil
	}

	snaps, err := deps.Snapshots.FindSnapshots(deps.Ctx, schemadex.SnapshotFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", schemadex.ErrorMessage(err))
		return err
	}

	if len(snaps) == 0 {
		fmt.Fprintln(deps.Stdout, "No snapshots found. Use 'schemadex build --save' to create one.")
		return nil
	}

	for _, s := range snaps {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %6d entities  %s\n",
			s.ID, s.CreatedAt.Local().Format(time.DateTime), s.Fingerprint, s.EntityCount, s.Base)
	}
	return nil
}

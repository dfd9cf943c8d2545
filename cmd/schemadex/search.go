package main

import (
	"fmt"

	"github.com/fwojciec/schemadex"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	cat, err := loadCatalog(deps, c.Snapshot)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", schemadex.ErrorMessage(err))
		return err
	}

	items := newIndex(deps, cat).ListEntities(c.Query)
	if len(items) == 0 {
		fmt.Fprintf(deps.Stdout, "No entities match %q.\n", c.Query)
		return nil
	}

	shown := items
	if c.Limit > 0 && len(shown) > c.Limit {
		shown = shown[:c.Limit]
	}

	width := 0
	for _, item := range shown {
		width = max(width, len(item.Name))
	}
	for _, item := range shown {
		if item.ParentLabel == "" {
			fmt.Fprintln(deps.Stdout, item.Name)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%-*s  %s\n", width, item.Name, item.ParentLabel)
	}

	if len(shown) < len(items) {
		fmt.Fprintf(deps.Stdout, "... %d more (%d total)\n", len(items)-len(shown), len(items))
	}
	return nil
}

package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/schemadex"
	"github.com/fwojciec/schemadex/fs"
	"github.com/fwojciec/schemadex/goquery"
	"github.com/fwojciec/schemadex/yaml"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	names, err := c.list(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", schemadex.ErrorMessage(err))
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no .json files listed at %s\n", c.URL)
		return schemadex.Errorf(schemadex.ENOTFOUND, "no .json files listed at %s", c.URL)
	}

	if !c.YAML && c.Out == "" {
		for _, name := range names {
			fmt.Fprintln(deps.Stdout, name)
		}
		return nil
	}

	// Roles are never inferred from names; every file starts as a class
	// dump and the manifest is edited by hand.
	base := c.URL
	if deps.Fetcher == nil {
		// Local bases are resolved against the manifest's directory on load.
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}
	manifest := &schemadex.Manifest{
		Base:         base,
		SchemaEntity: schemadex.DefaultSchemaEntity,
		Files:        make([]schemadex.SourceFile, len(names)),
	}
	for i, name := range names {
		manifest.Files[i] = schemadex.SourceFile{Name: name, Role: schemadex.RoleClasses}
	}

	if c.Out != "" {
		if err := yaml.SaveManifest(manifest, c.Out); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", schemadex.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %s (%d files)\n", c.Out, len(names))
		return nil
	}

	data, err := yaml.MarshalManifest(manifest)
	if err != nil {
		return err
	}
	_, err = deps.Stdout.Write(data)
	return err
}

// list returns the dump file names at c.URL. Remote bases are read from the
// server's directory listing, local ones from the directory itself.
func (c *DiscoverCmd) list(deps *Dependencies) ([]string, error) {
	if deps.Fetcher == nil {
		return fs.NewReader(c.URL).ListFiles()
	}
	html, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		return nil, err
	}
	return goquery.ParseListing(html, c.URL)
}

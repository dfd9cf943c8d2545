package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/schemadex"
	"github.com/fwojciec/schemadex/prometheus"
)

// Fetcher retrieves an arbitrary URL. Used by discover.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Manifest  *schemadex.Manifest
	Reader    schemadex.SourceReader
	Snapshots schemadex.SnapshotService
	Metrics   *prometheus.Metrics
	Fetcher   Fetcher
	CacheSize int
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Manifest    string  `short:"m" type:"existingfile" help:"YAML manifest listing the dump files and their roles"`
	Base        string  `short:"b" help:"Dump directory or http(s) URL (overrides the manifest base)"`
	DB          string  `name:"db" help:"Snapshot database path (default $SCHEMADEX_DB or ~/.schemadex/schemadex.db)"`
	Concurrency int     `short:"c" help:"Parallel file reads (overrides the manifest)"`
	RateLimit   float64 `name:"rate-limit" help:"Maximum HTTP requests per second (0 disables)"`
	CacheSize   int     `name:"cache-size" default:"256" help:"Distinct queries cached before the search cache is cleared"`
	Verbose     bool    `short:"v" help:"Enable debug logging"`

	Build     BuildCmd     `cmd:"" help:"Build the catalog and report per-file results"`
	Search    SearchCmd    `cmd:"" help:"List entities matching a query (class:, offset: and enum: prefixes select a mode)"`
	Show      ShowCmd      `cmd:"" help:"Show the fields and methods of one entity"`
	Serve     ServeCmd     `cmd:"" help:"Serve the catalog as a JSON API"`
	Discover  DiscoverCmd  `cmd:"" help:"List the JSON files of a dump directory or an HTTP directory listing"`
	Snapshots SnapshotsCmd `cmd:"" help:"List or delete saved snapshots"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Save bool   `short:"s" help:"Save the catalog as a snapshot"`
	Out  string `short:"o" type:"path" help:"Write the merged catalog as JSON to this file"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query    string `arg:"" optional:"" help:"Search query; empty lists every entity"`
	Snapshot string `help:"Search a saved snapshot instead of the sources"`
	Limit    int    `short:"n" help:"Show at most this many results (0 shows all)"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Name     string `arg:"" help:"Entity name"`
	Snapshot string `help:"Read a saved snapshot instead of the sources"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr     string        `default:"127.0.0.1:8080" help:"Listen address"`
	Watch    bool          `short:"w" help:"Rebuild when files in a local dump directory change"`
	Debounce time.Duration `default:"300ms" help:"Quiet period before a watched change triggers a rebuild"`
	Snapshot string        `help:"Serve a saved snapshot instead of the sources"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	URL  string `arg:"" help:"Directory listing URL or local dump directory"`
	YAML bool   `name:"yaml" help:"Print a manifest for the discovered files"`
	Out  string `short:"o" type:"path" help:"Write the manifest to this file instead of printing it"`
}

// SnapshotsCmd is the "snapshots" subcommand.
type SnapshotsCmd struct {
	Delete string `help:"Delete the snapshot with this ID"`
}

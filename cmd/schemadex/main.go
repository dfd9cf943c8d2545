package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/schemadex"
	"github.com/fwojciec/schemadex/fs"
	schemadexhttp "github.com/fwojciec/schemadex/http"
	"github.com/fwojciec/schemadex/prometheus"
	schemadexslog "github.com/fwojciec/schemadex/slog"
	"github.com/fwojciec/schemadex/sqlite"
	"github.com/fwojciec/schemadex/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by the snapshot service.
	DB *sqlite.DB

	// Services for end-to-end testing. When set they replace the defaults.
	Reader    schemadex.SourceReader
	Snapshots schemadex.SnapshotService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("schemadex"),
		kong.Description("Browse dumped class schemas and offsets."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'schemadex --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Metrics = prometheus.NewMetrics(nil)
	deps.CacheSize = cli.CacheSize

	// Discovery and snapshot listing need no manifest.
	if cmd != "discover" && cmd != "snapshots" {
		manifest, err := loadManifest(cli)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", schemadex.ErrorMessage(err))
			return err
		}
		deps.Manifest = manifest

		reader := m.Reader
		if reader == nil {
			if reader, err = newReader(manifest, cli.RateLimit, deps.Logger); err != nil {
				return err
			}
		}
		reader = schemadexslog.NewLoggingSourceReader(reader, deps.Logger)
		deps.Reader = prometheus.NewSourceReader(reader, deps.Metrics)
	}

	if needsDB(cmd, cli) {
		snapshots := m.Snapshots
		if snapshots == nil {
			path := m.DBPath
			if cli.DB != "" {
				path = cli.DB
			}
			m.DB = sqlite.NewDB(path)
			if err := m.DB.Open(); err != nil {
				fmt.Fprintf(stderr, "Hint: Set SCHEMADEX_DB or --db to use a different database path\n")
				return fmt.Errorf("failed to open database at %q: %w", path, err)
			}
			defer m.Close()
			snapshots = sqlite.NewSnapshotService(m.DB)
		}
		deps.Snapshots = schemadexslog.NewLoggingSnapshotService(snapshots, deps.Logger)
	}

	if cmd == "discover" && isRemote(cli.Discover.URL) {
		reader, err := schemadexhttp.NewReader(cli.Discover.URL,
			schemadexhttp.WithLogger(deps.Logger),
			schemadexhttp.WithRateLimit(cli.RateLimit))
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", schemadex.ErrorMessage(err))
			return err
		}
		deps.Fetcher = reader
	}

	return kongCtx.Run(deps)
}

// loadManifest reads --manifest or falls back to the default file list, then
// applies command-line overrides.
func loadManifest(cli *CLI) (*schemadex.Manifest, error) {
	manifest := schemadex.DefaultManifest()
	if cli.Manifest != "" {
		m, err := yaml.LoadManifest(cli.Manifest)
		if err != nil {
			return nil, err
		}
		manifest = m
	}
	if cli.Base != "" {
		manifest.Base = cli.Base
	}
	if cli.Concurrency > 0 {
		manifest.Concurrency = cli.Concurrency
	}
	return manifest, manifest.Validate()
}

func isRemote(base string) bool {
	return (&schemadex.Manifest{Base: base}).IsRemote()
}

func newReader(manifest *schemadex.Manifest, rps float64, logger *slog.Logger) (schemadex.SourceReader, error) {
	if manifest.IsRemote() {
		return schemadexhttp.NewReader(manifest.Base,
			schemadexhttp.WithLogger(logger),
			schemadexhttp.WithRateLimit(rps))
	}
	return fs.NewReader(manifest.Base), nil
}

// needsDB reports whether the parsed command touches saved snapshots.
func needsDB(cmd string, cli *CLI) bool {
	switch cmd {
	case "build":
		return cli.Build.Save
	case "search":
		return cli.Search.Snapshot != ""
	case "show":
		return cli.Show.Snapshot != ""
	case "serve":
		return cli.Serve.Snapshot != ""
	case "snapshots":
		return true
	}
	return false
}

func defaultDBPath() string {
	if path := os.Getenv("SCHEMADEX_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "schemadex.db"
	}
	dir := filepath.Join(home, ".schemadex")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "schemadex.db")
}

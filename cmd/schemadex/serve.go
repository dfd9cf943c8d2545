package main

import (
	"context"
	"fmt"
	"net"

	"github.com/fwojciec/schemadex"
	"github.com/fwojciec/schemadex/fsnotify"
	schemadexhttp "github.com/fwojciec/schemadex/http"
	"github.com/fwojciec/schemadex/prometheus"
	"github.com/fwojciec/schemadex/search"
	schemadexslog "github.com/fwojciec/schemadex/slog"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if c.Watch && (c.Snapshot != "" || deps.Manifest.IsRemote()) {
		err := schemadex.Errorf(schemadex.EINVALID, "--watch requires a local dump directory")
		fmt.Fprintf(deps.Stderr, "error: %s\n", schemadex.ErrorMessage(err))
		return err
	}

	cat, err := loadCatalog(deps, c.Snapshot)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", schemadex.ErrorMessage(err))
		return err
	}
	live := search.NewLive(newIndex(deps, cat))

	var browser schemadex.Browser = prometheus.NewBrowser(live, deps.Metrics)
	browser = schemadexslog.NewLoggingBrowser(browser, deps.Logger)
	server := schemadexhttp.NewServer(browser,
		schemadexhttp.WithMetricsHandler(deps.Metrics.Handler()),
		schemadexhttp.WithServerLogger(deps.Logger),
		schemadexhttp.WithMiddleware(deps.Metrics.Middleware),
	)

	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Serving %d entities on http://%s\n", cat.Len(), ln.Addr())

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(func() error {
		return server.Serve(ctx, ln)
	})

	if c.Watch {
		names := make([]string, len(deps.Manifest.Files))
		for i, f := range deps.Manifest.Files {
			names[i] = f.Name
		}
		watcher := fsnotify.NewWatcher(deps.Manifest.Base,
			fsnotify.WithNames(names...),
			fsnotify.WithDebounce(c.Debounce),
			fsnotify.WithLogger(deps.Logger),
		)
		g.Go(func() error {
			return watcher.Run(ctx, func(ctx context.Context) {
				rebuilt := buildCatalog(ctx, deps, nil)
				live.Store(newIndex(deps, rebuilt))
				deps.Logger.Info("catalog reloaded", "entities", rebuilt.Len(), "fingerprint", rebuilt.Fingerprint)
			})
		})
	}

	return g.Wait()
}

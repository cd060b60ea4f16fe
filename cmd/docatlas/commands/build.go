package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docatlas/internal/build"
	"git.home.luguber.info/inful/docatlas/internal/config"
	"git.home.luguber.info/inful/docatlas/internal/logfields"
	"git.home.luguber.info/inful/docatlas/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output     string        `short:"o" help:"Output directory; overrides output.dir"`
	CheckLinks bool          `name:"check-links" help:"Verify internal links of the generated pages"`
	Manifest   string        `help:"Record the build in this SQLite manifest; overrides output.manifest"`
	DryRun     bool          `name:"dry-run" help:"Convert pages without writing the site"`
	Watch      bool          `short:"w" help:"Rebuild when worktree sources change"`
	Every      time.Duration `help:"Rebuild on this interval in watch mode; overrides runtime.rebuild_interval"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	svc := build.NewService().
		WithLogger(g.Logger).
		WithRecorder(metrics.NewPrometheusRecorder(reg))
	req := build.Request{
		Config:    cfg,
		OutputDir: b.Output,
		Options: build.Options{
			CheckLinks:   b.CheckLinks,
			ManifestPath: b.Manifest,
			DryRun:       b.DryRun,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if b.Watch {
		return b.watch(ctx, g, cfg, svc, req, reg)
	}

	result, err := svc.Run(ctx, req)
	writeMetrics(g, cfg, reg)
	if err != nil {
		return err
	}
	printSummary(g, result)
	return nil
}

func (b *BuildCmd) watch(ctx context.Context, g *Global, cfg *config.Config, svc build.Service, req build.Request, reg *prometheus.Registry) error {
	interval := b.Every
	if interval == 0 {
		interval = cfg.RebuildEvery()
	}

	if addr := cfg.Runtime.MetricsListen; addr != "" {
		srv := serveMetrics(g.Logger, addr, reg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	w := build.NewWatcher(svc, req,
		build.WithInterval(interval),
		build.WithWatchLogger(g.Logger),
		build.WithResultHandler(func(result *build.Result, err error) {
			writeMetrics(g, cfg, reg)
			if err == nil {
				printSummary(g, result)
			}
		}),
	)
	return w.Watch(ctx)
}

func serveMetrics(logger *slog.Logger, addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("Serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	return srv
}

func writeMetrics(g *Global, cfg *config.Config, reg *prometheus.Registry) {
	if cfg.Runtime.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(cfg.Runtime.MetricsFile, reg); err != nil {
		g.Logger.Warn("Failed to write metrics file", logfields.Path(cfg.Runtime.MetricsFile), logfields.Error(err))
	}
}

func printSummary(g *Global, r *build.Result) {
	_, _ = fmt.Fprintf(g.Out, "Built %d component versions: %d pages, %d files, %d redirects written to %s in %s\n",
		r.ComponentVersions, r.PagesConverted, r.Published.Files, r.Published.Redirects, r.OutputPath,
		r.Duration.Round(time.Millisecond))
	for _, bl := range r.BrokenLinks {
		_, _ = fmt.Fprintf(g.Out, "broken link: %s -> %s (%s)\n", bl.PagePath, bl.Link.URL, bl.Target)
	}
}

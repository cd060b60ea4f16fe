// Package commands implements the docatlas command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/docatlas/internal/build"
	"git.home.luguber.info/inful/docatlas/internal/catalog"
	"git.home.luguber.info/inful/docatlas/internal/config"
	"git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/observability"
	"github.com/alecthomas/kong"
)

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
	// Out receives command output; log records go to stderr.
	Out io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Playbook path" default:"docatlas.yml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build the site from the configured content sources"`
	Catalog  CatalogCmd  `cmd:"" help:"List component versions and files of the content catalog"`
	Resolve  ResolveCmd  `cmd:"" help:"Resolve a page or resource ID against the content catalog"`
	Manifest ManifestCmd `cmd:"" help:"Inspect the build manifest"`
}

// AfterApply sets up logging once flags are parsed.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = observability.Logger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	slog.SetDefault(g.Logger)
	if g.Out == nil {
		g.Out = os.Stdout
	}
	return nil
}

// loadConfig reads the playbook and switches logging to its runtime.log
// settings unless --verbose was given.
func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	if !root.Verbose {
		g.Logger = newLogger(cfg.Runtime.Log)
		slog.SetDefault(g.Logger)
	}
	return cfg, nil
}

func newLogger(lc config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lc.Level.SlogLevel()}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if lc.Format == config.LogFormatJSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(observability.NewHandler(h))
}

// loadCatalog runs the pipeline up to conversion and returns the catalog.
func loadCatalog(ctx context.Context, g *Global, cfg *config.Config) (catalog.Reader, error) {
	result, err := build.NewService().
		WithLogger(g.Logger).
		Run(ctx, build.Request{Config: cfg, Options: build.Options{DryRun: true}})
	if err != nil {
		return nil, err
	}
	if result.Catalog == nil {
		return nil, errors.InternalError("build returned no catalog").Build()
	}
	return result.Catalog, nil
}

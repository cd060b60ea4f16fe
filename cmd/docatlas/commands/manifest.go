package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/manifest"
)

// ManifestCmd groups the manifest subcommands.
type ManifestCmd struct {
	Path string `short:"m" help:"Manifest database; defaults to output.manifest"`

	Runs    ManifestRunsCmd    `cmd:"" help:"List recorded builds"`
	Changes ManifestChangesCmd `cmd:"" help:"List files that changed between two builds"`
}

// ManifestRunsCmd implements 'manifest runs'.
type ManifestRunsCmd struct{}

// ManifestChangesCmd implements 'manifest changes'.
type ManifestChangesCmd struct {
	From string `arg:"" optional:"" help:"Earlier run ID; defaults to the second newest run"`
	To   string `arg:"" optional:"" help:"Later run ID; defaults to the newest run"`
}

func (m *ManifestCmd) open(g *Global, root *CLI) (*manifest.Store, error) {
	path := m.Path
	if path == "" {
		cfg, err := loadConfig(g, root)
		if err != nil {
			return nil, err
		}
		path = cfg.Output.Manifest
	}
	if path == "" {
		return nil, errors.ConfigError("no manifest configured").
			WithContext("hint", "set output.manifest or pass --path").
			Build()
	}
	return manifest.Open(path)
}

func (c *ManifestRunsCmd) Run(g *Global, root *CLI) error {
	store, err := root.Manifest.open(g, root)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.Runs(context.Background())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RUN\tSTARTED\tFILES")
	for _, r := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\n", r.ID, r.StartedAt.UTC().Format(time.RFC3339), r.Files)
	}
	return tw.Flush()
}

func (c *ManifestChangesCmd) Run(g *Global, root *CLI) error {
	store, err := root.Manifest.open(g, root)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	from, to := c.From, c.To
	if from == "" || to == "" {
		runs, err := store.Runs(ctx)
		if err != nil {
			return err
		}
		if len(runs) < 2 {
			return errors.ValidationError("at least two recorded runs are needed").
				WithContext("runs", len(runs)).
				Build()
		}
		from, to = runs[1].ID, runs[0].ID
	}

	changes, err := store.Changes(ctx, from, to)
	if err != nil {
		return err
	}
	for _, ch := range changes {
		_, _ = fmt.Fprintf(g.Out, "%s\t%s\n", ch.Kind, ch.Key)
	}
	return nil
}

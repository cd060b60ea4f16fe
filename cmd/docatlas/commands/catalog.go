package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/docatlas/internal/catalog"
	"git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

// CatalogCmd implements the 'catalog' command.
type CatalogCmd struct {
	Files     bool   `short:"f" help:"List files instead of component versions"`
	Component string `help:"Only list files of this component"`
	Version   string `help:"Only list files of this version"`
	Family    string `help:"Only list files of this family"`
}

func (c *CatalogCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	reader, err := loadCatalog(context.Background(), g, cfg)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	defer func() { _ = tw.Flush() }()

	if !c.Files {
		_, _ = fmt.Fprintln(tw, "COMPONENT\tVERSION\tTITLE\tURL")
		for _, comp := range reader.GetComponents() {
			for _, cv := range comp.Versions {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", comp.Name, cv.Version, cv.Title, cv.URL)
			}
		}
		return nil
	}

	q := catalog.Query{Component: c.Component, Version: c.Version}
	if c.Family != "" {
		f, ok := resourceid.ParseFamily(c.Family)
		if !ok {
			return errors.ValidationError(fmt.Sprintf("unknown family %q", c.Family)).
				WithContext("family", c.Family).
				Build()
		}
		q.Family = f
	}
	_, _ = fmt.Fprintln(tw, "KEY\tPATH\tURL")
	for _, f := range reader.FindBy(q) {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Key(), f.Path, f.URL())
	}
	return nil
}

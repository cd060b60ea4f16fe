package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/docatlas/internal/catalog"
	"git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/resolver"
	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

// ResolveCmd implements the 'resolve' command.
type ResolveCmd struct {
	Spec      string `arg:"" help:"Page or resource ID, e.g. 2.0@product:admin:install.adoc"`
	Component string `help:"Context component for IDs that name none"`
	Version   string `help:"Context version; the latest version of the context component when empty"`
	Module    string `help:"Context module" default:"ROOT"`
	Family    string `help:"Family assumed when the ID names none" default:"page"`
}

func (r *ResolveCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	reader, err := loadCatalog(context.Background(), g, cfg)
	if err != nil {
		return err
	}
	f, err := r.resolve(reader)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "%s\t%s\t%s\n", f.Key(), f.Path, f.URL())
	return nil
}

func (r *ResolveCmd) resolve(reader catalog.Reader) (*catalog.File, error) {
	family, ok := resourceid.ParseFamily(r.Family)
	if !ok {
		return nil, errors.ValidationError(fmt.Sprintf("unknown family %q", r.Family)).
			WithContext("family", r.Family).
			Build()
	}

	var ctx *resourceid.Coordinates
	if r.Component != "" {
		ctx = &resourceid.Coordinates{Component: r.Component, Version: r.Version, Module: r.Module}
	}
	res, err := resolver.Resolve(r.Spec, reader, ctx, resourceid.WithDefaultFamily(family))
	if err != nil {
		return nil, err
	}
	if !res.Found() {
		return nil, errors.NotFoundError(fmt.Sprintf("%q does not resolve", r.Spec)).
			WithSpec(r.Spec).
			WithContext("id", res.ID.String()).
			WithContext("reason", res.Miss.String()).
			Build()
	}
	return res.File, nil
}

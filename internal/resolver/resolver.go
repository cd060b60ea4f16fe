// Package resolver turns resource ID strings into catalog files.
//
// A resolution never fails because a resource is missing; misses are
// reported through Result.Miss and callers decide how to render them.
// Only a spec the grammar cannot read is an error.
package resolver

import (
	"fmt"
	"slices"

	"git.home.luguber.info/inful/docatlas/internal/catalog"
	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

// Lookup is the part of the catalog the resolver reads.
type Lookup interface {
	GetByID(c resourceid.Coordinates) *catalog.File
	GetComponent(name string) *catalog.Component
}

// Miss explains why a resolution found no file.
type Miss int

const (
	MissNone Miss = iota
	// MissFamilyNotPermitted means the family, named or defaulted, is one
	// the caller excluded.
	MissFamilyNotPermitted
	// MissUnknownComponent means the component has no registered version.
	MissUnknownComponent
	// MissNotFound means the coordinates are valid but nothing lives there.
	MissNotFound
	// MissNoFamily means the spec names no family and there is no default.
	MissNoFamily
)

func (m Miss) String() string {
	switch m {
	case MissNone:
		return "none"
	case MissFamilyNotPermitted:
		return "family_not_permitted"
	case MissUnknownComponent:
		return "unknown_component"
	case MissNotFound:
		return "not_found"
	case MissNoFamily:
		return "no_family"
	default:
		return fmt.Sprintf("miss(%d)", int(m))
	}
}

// Result is the outcome of a resolution.
type Result struct {
	// ID is the parsed spec with version and module filled in as far as
	// resolution got.
	ID   resourceid.ID
	File *catalog.File
	Miss Miss
}

// Found reports whether a file was resolved.
func (r Result) Found() bool { return r.File != nil }

// Resolve parses spec in ctx and looks the result up. A named component
// without a version resolves against its latest version; an unnamed module
// means ROOT.
func Resolve(spec string, lookup Lookup, ctx *resourceid.Coordinates, opts ...resourceid.Option) (Result, error) {
	return resolve("resource ID", spec, lookup, ctx, opts...)
}

// ResolveResource resolves spec within the permitted families, using
// defaultFamily when the spec names none. With FamilyNone the spec must
// name its family. It returns nil on a miss.
func ResolveResource(spec string, lookup Lookup, ctx *resourceid.Coordinates, defaultFamily resourceid.Family, permitted ...resourceid.Family) (*catalog.File, error) {
	res, err := resolve("resource ID", spec, lookup, ctx, resourceOptions(defaultFamily, permitted)...)
	return res.File, err
}

// ResolvePage resolves spec as a page ID. It returns nil on a miss.
func ResolvePage(spec string, lookup Lookup, ctx *resourceid.Coordinates) (*catalog.File, error) {
	res, err := resolve("page ID", spec, lookup, ctx, pageOptions()...)
	return res.File, err
}

func pageOptions() []resourceid.Option {
	return []resourceid.Option{
		resourceid.WithDefaultFamily(resourceid.FamilyPage),
		resourceid.WithPermittedFamilies(resourceid.FamilyPage),
	}
}

func resourceOptions(defaultFamily resourceid.Family, permitted []resourceid.Family) []resourceid.Option {
	opts := []resourceid.Option{resourceid.WithDefaultFamily(defaultFamily)}
	if len(permitted) > 0 {
		opts = append(opts, resourceid.WithPermittedFamilies(permitted...))
	}
	return opts
}

func resolve(kind, spec string, lookup Lookup, ctx *resourceid.Coordinates, opts ...resourceid.Option) (Result, error) {
	id, err := resourceid.Parse(spec, ctx, opts...)
	if err != nil {
		return Result{}, ferrors.WrapError(err, ferrors.CategorySyntax, fmt.Sprintf("invalid %s: %q", kind, spec)).
			WithSpec(spec).
			Build()
	}

	res := Result{ID: id}
	if id.Family == resourceid.FamilyNone {
		res.Miss = MissFamilyNotPermitted
		unrestricted := append(slices.Clone(opts), resourceid.WithPermittedFamilies())
		if bare, err := resourceid.Parse(spec, ctx, unrestricted...); err == nil && bare.Family == resourceid.FamilyNone {
			res.Miss = MissNoFamily
		}
		return res, nil
	}

	if res.ID.Version == "" {
		comp := lookup.GetComponent(res.ID.Component)
		if comp == nil || comp.Latest() == nil {
			res.Miss = MissUnknownComponent
			return res, nil
		}
		res.ID.Version = comp.Latest().Version
	}
	if res.ID.Module == "" {
		res.ID.Module = resourceid.RootModule
	}

	res.File = lookup.GetByID(res.ID.Coordinates)
	if res.File == nil {
		res.Miss = MissNotFound
	}
	return res, nil
}

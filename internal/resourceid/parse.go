// Package resourceid parses compact resource ID strings such as
// "1.0@the-component:the-module:partial$topic/snippet.adoc#anchor" into
// catalog coordinates, filling absent parts from an ambient context.
package resourceid

import (
	"fmt"
	"path"
	"regexp"
	"slices"
	"strings"
)

// DefaultPageExtension is appended to page references written without one.
const DefaultPageExtension = ".adoc"

// [version@][component:][module:][family$]relative
var idPattern = regexp.MustCompile(`^(?:([^@:$]+)@)?(?:(?:([^@:$]+):)?([^@:$]*):)?(?:([^@:$]+)\$)?([^:$][^@:$]*)$`)

const (
	groupVersion = iota + 1
	groupComponent
	groupModule
	groupFamily
	groupRelative
)

// ID is a parsed resource reference.
type ID struct {
	Coordinates
	Fragment string
}

// String renders the reference with its fragment.
func (id ID) String() string {
	if id.Fragment == "" {
		return id.Coordinates.String()
	}
	return id.Coordinates.String() + "#" + id.Fragment
}

type options struct {
	defaultFamily Family
	permitted     []Family
}

// Option configures Parse.
type Option func(*options)

// WithDefaultFamily sets the family used when the reference has no family$
// segment. The default is FamilyPage; FamilyNone requires an explicit family.
func WithDefaultFamily(f Family) Option {
	return func(o *options) { o.defaultFamily = f }
}

// WithPermittedFamilies restricts the families a reference may resolve to.
func WithPermittedFamilies(fs ...Family) Option {
	return func(o *options) { o.permitted = fs }
}

// Parse parses spec against ctx.
//
// Component, version and module absent from spec fall back to ctx; the
// family never does. When a component is named, an absent module means
// ROOT and an absent version stays empty so callers can pick the latest.
// Without a component an empty module, as in ":page.adoc", is the context's.
// A family outside the permitted set yields FamilyNone and a nil error.
func Parse(spec string, ctx *Coordinates, opts ...Option) (ID, error) {
	o := options{defaultFamily: FamilyPage}
	for _, opt := range opts {
		opt(&o)
	}

	var id ID
	raw := spec
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		id.Fragment = raw[i+1:]
		raw = raw[:i]
	}

	m := idPattern.FindStringSubmatchIndex(raw)
	if m == nil {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidSyntax, spec)
	}
	group := func(g int) (string, bool) {
		if m[2*g] < 0 {
			return "", false
		}
		return raw[m[2*g]:m[2*g+1]], true
	}

	version, _ := group(groupVersion)
	component, _ := group(groupComponent)
	module, _ := group(groupModule)
	familyName, familyGiven := group(groupFamily)
	relative, _ := group(groupRelative)

	family := o.defaultFamily
	if familyGiven {
		f, ok := ParseFamily(familyName)
		if !ok {
			return ID{}, fmt.Errorf("%w: unknown family %q in %q", ErrInvalidSyntax, familyName, spec)
		}
		family = f
	}
	if family == FamilyPage && path.Ext(path.Base(relative)) == "" {
		relative += DefaultPageExtension
	}
	if o.permitted != nil && !slices.Contains(o.permitted, family) {
		family = FamilyNone
	}

	switch {
	case component != "":
		if module == "" {
			module = RootModule
		}
	case ctx != nil:
		component = ctx.Component
		if version == "" {
			version = ctx.Version
		}
		if module == "" {
			module = ctx.Module
		}
	}

	id.Coordinates = Coordinates{
		Component: component,
		Version:   version,
		Module:    module,
		Family:    family,
		Relative:  relative,
	}
	return id, nil
}

// MustParse is like Parse but panics on a syntax error.
func MustParse(spec string, ctx *Coordinates, opts ...Option) ID {
	id, err := Parse(spec, ctx, opts...)
	if err != nil {
		panic(err)
	}
	return id
}

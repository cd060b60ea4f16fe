package resourceid

import (
	"fmt"
	"strings"
)

// RootModule is the module name that contributes no URL segment.
const RootModule = "ROOT"

// structural delimiters of the resource ID grammar; they may not appear in
// component, version or module names so that Key stays injective.
const delimiters = ":@$#"

// Coordinates is the universal key of a resource in the content catalog.
type Coordinates struct {
	Component string
	Version   string
	Module    string
	Family    Family
	Relative  string
}

// Key renders the catalog key: family:version@component:module:relative.
func (c Coordinates) Key() string {
	return string(c.Family) + ":" + c.Version + "@" + c.Component + ":" + c.Module + ":" + c.Relative
}

// WithFamily returns a copy of c in family f.
func (c Coordinates) WithFamily(f Family) Coordinates {
	c.Family = f
	return c
}

// IsSiteRoot reports whether c addresses the site root rather than a
// component version (used by the site start page alias).
func (c Coordinates) IsSiteRoot() bool {
	return c.Component == "" && c.Version == "" && c.Module == ""
}

// Validate checks that c is fully specified for its family.
func (c Coordinates) Validate() error {
	if !c.Family.Valid() {
		return fmt.Errorf("%w: unknown family %q", ErrInvalidCoordinates, c.Family)
	}
	if c.Relative == "" {
		return fmt.Errorf("%w: %s has no relative path", ErrInvalidCoordinates, c.Key())
	}
	if strings.HasPrefix(c.Relative, "/") {
		return fmt.Errorf("%w: relative path %q must not be absolute", ErrInvalidCoordinates, c.Relative)
	}
	if c.Family == FamilyAlias && c.IsSiteRoot() {
		return nil
	}
	for _, f := range []struct{ name, value string }{
		{"component", c.Component},
		{"version", c.Version},
		{"module", c.Module},
	} {
		if f.value == "" {
			return fmt.Errorf("%w: %s has no %s", ErrInvalidCoordinates, c.Key(), f.name)
		}
		if strings.ContainsAny(f.value, delimiters) {
			return fmt.Errorf("%w: %s %q contains one of %q", ErrInvalidCoordinates, f.name, f.value, delimiters)
		}
	}
	return nil
}

// String renders the fully qualified resource ID for c.
func (c Coordinates) String() string {
	var b strings.Builder
	if c.Version != "" {
		b.WriteString(c.Version)
		b.WriteByte('@')
	}
	if c.Component != "" {
		b.WriteString(c.Component)
		b.WriteByte(':')
		if c.Module != RootModule {
			b.WriteString(c.Module)
		}
		b.WriteByte(':')
	} else if c.Module != "" {
		b.WriteString(c.Module)
		b.WriteByte(':')
	}
	if c.Family != FamilyNone {
		b.WriteString(string(c.Family))
		b.WriteByte('$')
	}
	b.WriteString(c.Relative)
	return b.String()
}

package catalog

import (
	"slices"

	"git.home.luguber.info/inful/docatlas/internal/versioning"
)

// ComponentVersion is one version of a component.
type ComponentVersion struct {
	Version string
	Title   string
	URL     string
	// StartPage is the catalog key of the start page, empty when the URL is synthetic.
	StartPage string

	registered bool
}

// Component is a named documentation product. Versions are kept newest first.
type Component struct {
	Name     string
	Versions []*ComponentVersion
}

// Latest returns the newest version.
func (c *Component) Latest() *ComponentVersion {
	if len(c.Versions) == 0 {
		return nil
	}
	return c.Versions[0]
}

// Title returns the title of the latest version.
func (c *Component) Title() string {
	if latest := c.Latest(); latest != nil {
		return latest.Title
	}
	return c.Name
}

// URL returns the start page URL of the latest version.
func (c *Component) URL() string {
	if latest := c.Latest(); latest != nil {
		return latest.URL
	}
	return ""
}

// Version returns the named version or nil.
func (c *Component) Version(version string) *ComponentVersion {
	for _, cv := range c.Versions {
		if cv.Version == version {
			return cv
		}
	}
	return nil
}

func (c *Component) insert(cv *ComponentVersion) {
	idx, _ := slices.BinarySearchFunc(c.Versions, cv.Version, func(e *ComponentVersion, v string) int {
		return versioning.Compare(e.Version, v)
	})
	c.Versions = slices.Insert(c.Versions, idx, cv)
}

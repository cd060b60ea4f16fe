// Package aggregate collects documentation content from its sources into
// component version groups: one group per component name and version, with
// the files of every source that contributes to it.
package aggregate

import "strings"

// DescriptorFile names the component descriptor at the start path of a source.
const DescriptorFile = "component.yml"

// Origin describes where content was read from.
type Origin struct {
	URL       string
	Ref       string
	Commit    string
	StartPath string
	Worktree  bool
}

func (o Origin) String() string {
	var b strings.Builder
	b.WriteString(o.URL)
	if o.Worktree {
		b.WriteString(" (worktree)")
	} else if o.Ref != "" {
		b.WriteString("@")
		b.WriteString(o.Ref)
	}
	if o.StartPath != "" {
		b.WriteString(":")
		b.WriteString(o.StartPath)
	}
	return b.String()
}

// VirtualFile is a file read from a content source. Path is relative to
// the start path and uses forward slashes.
type VirtualFile struct {
	Path     string
	Contents []byte
	Origin   Origin
}

// Group is the content of one component version.
type Group struct {
	Name      string
	Title     string
	Version   string
	Nav       []string
	StartPage string
	Files     []VirtualFile
	Origins   []Origin
}

// Key identifies the component version of g.
func (g Group) Key() string {
	return g.Version + "@" + g.Name
}

package git

import (
	"path"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

const remotePrefix = "refs/remotes/origin/"

// Branch is a branch selected for reading.
type Branch struct {
	Name string
	Hash plumbing.Hash
}

// Branches returns the branches matching any of patterns, sorted by name.
// The pattern "HEAD" selects the branch HEAD points at.
func (r *Repository) Branches(patterns []string) ([]Branch, error) {
	refs, err := r.References()
	if err != nil {
		return nil, ClassifyGitError(err, "list references", r.URL)
	}
	defer refs.Close()

	var out []Branch
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name, ok := r.branchName(ref.Name())
		if !ok || name == "HEAD" {
			return nil
		}
		for _, p := range patterns {
			if matched, _ := path.Match(p, name); matched {
				out = append(out, Branch{Name: name, Hash: ref.Hash()})
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, ClassifyGitError(err, "list references", r.URL)
	}

	if slices.Contains(patterns, "HEAD") {
		if head, herr := r.Head(); herr == nil {
			name := head.Name().Short()
			if !slices.ContainsFunc(out, func(b Branch) bool { return b.Name == name }) {
				out = append(out, Branch{Name: name, Hash: head.Hash()})
			}
		}
	}

	slices.SortFunc(out, func(a, b Branch) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *Repository) branchName(ref plumbing.ReferenceName) (string, bool) {
	if r.Remote {
		return strings.CutPrefix(ref.String(), remotePrefix)
	}
	if ref.IsBranch() {
		return ref.Short(), true
	}
	return "", false
}

package aggregate

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docatlas/internal/config"
	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	gitpkg "git.home.luguber.info/inful/docatlas/internal/git"
	"git.home.luguber.info/inful/docatlas/internal/retry"
	"git.home.luguber.info/inful/docatlas/internal/testutil"
)

func TestLoadWorktree(t *testing.T) {
	fs := memfs.New()
	for name, content := range map[string]string{
		"docs/component.yml":                  "name: product\ntitle: Product\nversion: 1.0\nnav: [modules/ROOT/nav.adoc]\n",
		"docs/modules/ROOT/nav.adoc":          "* xref:index.adoc[]\n",
		"docs/modules/ROOT/pages/index.adoc":  "= Home\n",
		"docs/.hidden/secret.adoc":            "x",
		"docs/modules/ROOT/pages/.draft.adoc": "x",
		"README.md":                           "outside start path",
	} {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}

	g, err := LoadWorktree(fs, Origin{URL: "/srv/repo", StartPath: "docs", Worktree: true})
	require.NoError(t, err)
	assert.Equal(t, "product", g.Name)
	assert.Equal(t, "Product", g.Title)
	assert.Equal(t, "1.0", g.Version)
	assert.Equal(t, []string{"modules/ROOT/nav.adoc"}, g.Nav)

	paths := map[string]string{}
	for _, f := range g.Files {
		paths[f.Path] = string(f.Contents)
		assert.True(t, f.Origin.Worktree)
	}
	assert.Equal(t, map[string]string{
		"modules/ROOT/nav.adoc":         "* xref:index.adoc[]\n",
		"modules/ROOT/pages/index.adoc": "= Home\n",
	}, paths)
}

func TestLoadWorktreeNormalizesPaths(t *testing.T) {
	fs := memfs.New()
	decomposed := "modules/ROOT/pages/cafe\u0301.adoc"
	require.NoError(t, util.WriteFile(fs, "component.yml", []byte("name: c\nversion: '1'\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, decomposed, []byte("= Caf\u00e9\n"), 0o644))

	g, err := LoadWorktree(fs, Origin{URL: "mem", Worktree: true})
	require.NoError(t, err)
	require.Len(t, g.Files, 1)
	assert.Equal(t, "modules/ROOT/pages/caf\u00e9.adoc", g.Files[0].Path)
}

func TestLoadWorktreeDescriptorErrors(t *testing.T) {
	t.Run("missing descriptor", func(t *testing.T) {
		fs := memfs.New()
		require.NoError(t, util.WriteFile(fs, "modules/ROOT/pages/a.adoc", []byte("a"), 0o644))
		_, err := LoadWorktree(fs, Origin{URL: "mem"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDescriptorNotFound))
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	})

	for name, content := range map[string]string{
		"no name":    "version: '1.0'\n",
		"no version": "name: c\n",
		"bad yaml":   "name: [\n",
	} {
		t.Run(name, func(t *testing.T) {
			fs := memfs.New()
			require.NoError(t, util.WriteFile(fs, DescriptorFile, []byte(content), 0o644))
			_, err := LoadWorktree(fs, Origin{URL: "mem"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDescriptor))
			assert.Equal(t, ferrors.SeverityFatal, ferrors.GetSeverity(err))
		})
	}
}

func TestMerge(t *testing.T) {
	a := Group{Name: "c", Version: "1.0", Title: "C", Nav: []string{"a/nav.adoc"}, Files: []VirtualFile{{Path: "a"}}, Origins: []Origin{{URL: "one"}}}
	b := Group{Name: "d", Version: "1.0", Files: []VirtualFile{{Path: "x"}}}
	c := Group{Name: "c", Version: "1.0", StartPage: "guide:start.adoc", Nav: []string{"b/nav.adoc"}, Files: []VirtualFile{{Path: "b"}}, Origins: []Origin{{URL: "two"}}}
	d := Group{Name: "c", Version: "2.0"}

	merged := Merge([]Group{a, b, c, d})
	require.Len(t, merged, 3)
	assert.Equal(t, "1.0@c", merged[0].Key())
	assert.Equal(t, "C", merged[0].Title)
	assert.Equal(t, "guide:start.adoc", merged[0].StartPage)
	assert.Equal(t, []string{"a/nav.adoc", "b/nav.adoc"}, merged[0].Nav)
	assert.Len(t, merged[0].Files, 2)
	assert.Len(t, merged[0].Origins, 2)
	assert.Equal(t, "1.0@d", merged[1].Key())
	assert.Equal(t, "2.0@c", merged[2].Key())
}

func TestOriginString(t *testing.T) {
	assert.Equal(t, "/srv/repo (worktree):docs", Origin{URL: "/srv/repo", Worktree: true, StartPath: "docs"}.String())
	assert.Equal(t, "https://x.test/r.git@v1.0", Origin{URL: "https://x.test/r.git", Ref: "v1.0"}.String())
}

func TestAggregateBranchesAndWorktree(t *testing.T) {
	repoDir := filepath.Join(t.TempDir(), "product")
	testutil.CommitTree(t, repoDir, "v1.0", map[string]string{
		"docs/component.yml":             "name: product\nversion: '1.0'\n",
		"docs/modules/ROOT/pages/a.adoc": "= A 1.0\n",
	})
	testutil.CommitTree(t, repoDir, "v2.0", map[string]string{
		"docs/component.yml":             "name: product\nversion: '2.0'\n",
		"docs/modules/ROOT/pages/a.adoc": "= A 2.0\n",
	})

	extraDir := t.TempDir()
	testutil.WriteTree(t, extraDir, map[string]string{
		"component.yml":              "name: product\nversion: '2.0'\ntitle: Product Two\n",
		"modules/extra/pages/b.adoc": "= B\n",
	})

	agg := NewAggregator(gitpkg.NewClient(t.TempDir(), retry.DefaultPolicy()))
	groups, err := agg.Aggregate(context.Background(), []config.Source{
		{URL: repoDir, Branches: []string{"v*"}, StartPath: "docs"},
		{URL: extraDir, Worktree: true},
	})
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "1.0@product", groups[0].Key())
	require.Len(t, groups[0].Files, 1)
	assert.Equal(t, "= A 1.0\n", string(groups[0].Files[0].Contents))
	assert.Equal(t, "v1.0", groups[0].Files[0].Origin.Ref)

	assert.Equal(t, "2.0@product", groups[1].Key())
	assert.Equal(t, "Product Two", groups[1].Title)
	assert.Len(t, groups[1].Files, 2)
	assert.Len(t, groups[1].Origins, 2)
}

func TestAggregateNoMatchingBranches(t *testing.T) {
	repoDir := filepath.Join(t.TempDir(), "r")
	testutil.CommitTree(t, repoDir, "main", map[string]string{"component.yml": "name: c\nversion: '1'\n"})

	agg := NewAggregator(gitpkg.NewClient(t.TempDir(), retry.DefaultPolicy()))
	groups, err := agg.Aggregate(context.Background(), []config.Source{{URL: repoDir, Branches: []string{"release/*"}}})
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestAggregateMissingStartPath(t *testing.T) {
	repoDir := filepath.Join(t.TempDir(), "r")
	testutil.CommitTree(t, repoDir, "main", map[string]string{"component.yml": "name: c\nversion: '1'\n"})

	agg := NewAggregator(gitpkg.NewClient(t.TempDir(), retry.DefaultPolicy()))
	_, err := agg.Aggregate(context.Background(), []config.Source{{URL: repoDir, Branches: []string{"main"}, StartPath: "docs"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDescriptorNotFound))
}

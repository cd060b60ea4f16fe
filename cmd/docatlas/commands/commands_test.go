package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/testutil"
)

// newPlaybook writes two versions of one component as worktree sources and
// returns the playbook path and output directory.
func newPlaybook(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"v1/component.yml":                        "name: product\ntitle: Product\nversion: '1.0'\n",
		"v1/modules/ROOT/pages/index.adoc":        "= Home\n",
		"v2/component.yml":                        "name: product\ntitle: Product\nversion: '2.0'\n",
		"v2/modules/ROOT/pages/index.adoc":        "= Home\n",
		"v2/modules/admin/pages/install.md":       "# Install\n",
		"v2/modules/admin/assets/images/flow.png": "png",
	})
	out := filepath.Join(dir, "site")
	playbook := filepath.Join(dir, "docatlas.yml")
	testutil.WriteTree(t, dir, map[string]string{
		"docatlas.yml": "site:\n  title: Docs\ncontent:\n  sources:\n" +
			"    - url: " + filepath.Join(dir, "v1") + "\n      worktree: true\n" +
			"    - url: " + filepath.Join(dir, "v2") + "\n      worktree: true\n" +
			"output:\n  dir: " + out + "\n  manifest: " + filepath.Join(dir, "manifest.db") + "\n",
	})
	return playbook, out
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	var out bytes.Buffer
	g := &Global{Out: &out}
	parser, err := kong.New(&cli, kong.Bind(g), kong.Vars{"version": "test"})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	err = ctx.Run(g, &cli)
	return out.String(), err
}

func TestBuildCommand(t *testing.T) {
	playbook, out := newPlaybook(t)

	stdout, err := run(t, "--config", playbook, "build")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Built 2 component versions")
	testutil.NewFileAssertions(t, out).
		AssertFileExists("product/2.0/admin/install.html").
		AssertFileExists("product/2.0/admin/_images/flow.png").
		AssertFileExists("product/1.0/index.html")
}

func TestBuildCommandOutputOverride(t *testing.T) {
	playbook, _ := newPlaybook(t)
	override := filepath.Join(t.TempDir(), "elsewhere")

	_, err := run(t, "-c", playbook, "build", "-o", override)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(override, "product", "2.0", "index.html"))
}

func TestCatalogCommand(t *testing.T) {
	playbook, _ := newPlaybook(t)

	stdout, err := run(t, "-c", playbook, "catalog")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "2.0")
	assert.Contains(t, lines[2], "1.0")

	stdout, err = run(t, "-c", playbook, "catalog", "--files", "--family", "image")
	require.NoError(t, err)
	assert.Contains(t, stdout, "image:2.0@product:admin:flow.png")
	assert.NotContains(t, stdout, "install.md")

	_, err = run(t, "-c", playbook, "catalog", "--files", "--family", "picture")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestResolveCommand(t *testing.T) {
	playbook, _ := newPlaybook(t)

	stdout, err := run(t, "-c", playbook, "resolve", "product:admin:install.md")
	require.NoError(t, err)
	assert.Equal(t, "page:2.0@product:admin:install.md\tmodules/admin/pages/install.md\t/product/2.0/admin/install.html\n", stdout)

	stdout, err = run(t, "-c", playbook, "resolve", "--component", "product", "--version", "1.0", "index.adoc")
	require.NoError(t, err)
	assert.Contains(t, stdout, "/product/1.0/index.html")

	stdout, err = run(t, "-c", playbook, "resolve", "--component", "product", "--module", "admin", "--family", "image", "flow.png")
	require.NoError(t, err)
	assert.Contains(t, stdout, "/product/2.0/admin/_images/flow.png")

	_, err = run(t, "-c", playbook, "resolve", "1.0@product:admin:install.md")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	reason, _ := classified.Context().GetString("reason")
	assert.Equal(t, "not_found", reason)
}

func TestManifestCommands(t *testing.T) {
	playbook, _ := newPlaybook(t)

	_, err := run(t, "-c", playbook, "manifest", "changes")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	_, err = run(t, "-c", playbook, "build")
	require.NoError(t, err)
	_, err = run(t, "-c", playbook, "build")
	require.NoError(t, err)

	stdout, err := run(t, "-c", playbook, "manifest", "runs")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 3)

	stdout, err = run(t, "-c", playbook, "manifest", "changes")
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

package publish

import (
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docatlas/internal/catalog"
	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

func fixture(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat := catalog.New(catalog.Options{SiteURL: "https://docs.example.com"})
	add := func(family resourceid.Family, relative, contents string) *catalog.File {
		f, err := cat.AddFile(&catalog.File{
			Path:     "modules/ROOT/" + string(family) + "s/" + relative,
			Contents: []byte(contents),
			Src: catalog.Src{
				Coordinates: resourceid.Coordinates{Component: "p", Version: "1.0", Module: "ROOT", Family: family, Relative: relative},
				MediaType:   "text/asciidoc",
			},
		})
		require.NoError(t, err)
		return f
	}
	index := add(resourceid.FamilyPage, "index.adoc", "<h1>Home</h1>")
	add(resourceid.FamilyPage, "guide/install.adoc", "<h1>Install</h1>")
	add(resourceid.FamilyPartial, "note.adoc", "partial")
	_, err := cat.AddComponentVersion("p", "1.0", "P", "")
	require.NoError(t, err)
	_, err = cat.RegisterPageAlias("old/home.adoc", index)
	require.NoError(t, err)
	_, err = cat.RegisterSiteStartPage("p::index.adoc")
	require.NoError(t, err)
	return cat
}

func TestPublish(t *testing.T) {
	out := memfs.New()
	require.NoError(t, util.WriteFile(out, "stale.html", []byte("old"), 0o644))

	res, err := New(out, WithClean(true)).Publish(fixture(t).Freeze())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Files)
	assert.Equal(t, 2, res.Redirects)

	data, err := util.ReadFile(out, "p/1.0/guide/install.html")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Install</h1>", string(data))

	redirect, err := util.ReadFile(out, "p/1.0/old/home.html")
	require.NoError(t, err)
	assert.Contains(t, string(redirect), `<meta http-equiv="refresh" content="0; url=../index.html">`)
	assert.Contains(t, string(redirect), `<link rel="canonical" href="https://docs.example.com/p/1.0/index.html">`)

	root, err := util.ReadFile(out, "index.html")
	require.NoError(t, err)
	assert.Contains(t, string(root), "url=p/1.0/index.html")

	_, err = out.Stat("stale.html")
	assert.Error(t, err)
	_, err = out.Stat("p/1.0/note.adoc")
	assert.Error(t, err)
}

func TestPublishKeepsExistingWithoutClean(t *testing.T) {
	out := memfs.New()
	require.NoError(t, util.WriteFile(out, "keep.txt", []byte("x"), 0o644))

	_, err := New(out).Publish(fixture(t).Freeze())
	require.NoError(t, err)
	_, err = out.Stat("keep.txt")
	assert.NoError(t, err)
}

func TestWriteRejectsEscapingPaths(t *testing.T) {
	p := New(memfs.New())
	err := p.write("../outside.html", nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "escapes"))
}

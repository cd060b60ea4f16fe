package outpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

func page(component, version, module, relative string) Source {
	return Source{
		Coordinates: resourceid.Coordinates{
			Component: component,
			Version:   version,
			Module:    module,
			Family:    resourceid.FamilyPage,
			Relative:  relative,
		},
		MediaType: "text/asciidoc",
	}
}

func withFamily(src Source, f resourceid.Family, mediaType string) Source {
	src.Family = f
	src.MediaType = mediaType
	return src
}

func TestResolveOut_PageDepth(t *testing.T) {
	t.Run("page in topic directory", func(t *testing.T) {
		out := ResolveOut(page("the-component", "v1.2.3", "the-module", "the-topic/page-one.adoc"), StyleDefault)
		require.NotNil(t, out)
		assert.Equal(t, &Out{
			Path:           "the-component/v1.2.3/the-module/the-topic/page-one.html",
			Dirname:        "the-component/v1.2.3/the-module/the-topic",
			Basename:       "page-one.html",
			ModuleRootPath: "..",
			RootPath:       "../../../..",
		}, out)
	})

	t.Run("page at module root", func(t *testing.T) {
		out := ResolveOut(page("the-component", "v1.2.3", "the-module", "page-one.adoc"), StyleDefault)
		require.NotNil(t, out)
		assert.Equal(t, "the-component/v1.2.3/the-module/page-one.html", out.Path)
		assert.Equal(t, ".", out.ModuleRootPath)
		assert.Equal(t, "../../..", out.RootPath)
	})

	t.Run("master version and ROOT module add no segment", func(t *testing.T) {
		out := ResolveOut(page("the-component", "master", resourceid.RootModule, "index.adoc"), StyleDefault)
		require.NotNil(t, out)
		assert.Equal(t, "the-component/index.html", out.Path)
		assert.Equal(t, "the-component", out.Dirname)
		assert.Equal(t, ".", out.ModuleRootPath)
		assert.Equal(t, "..", out.RootPath)
	})

	t.Run("ROOT module keeps version", func(t *testing.T) {
		out := ResolveOut(page("c", "2.0", resourceid.RootModule, "a/b.adoc"), StyleDefault)
		require.NotNil(t, out)
		assert.Equal(t, "c/2.0/a/b.html", out.Path)
		assert.Equal(t, "..", out.ModuleRootPath)
		assert.Equal(t, "../../..", out.RootPath)
	})
}

func TestResolveOut_Families(t *testing.T) {
	base := page("c", "1.0", "m", "diagrams/a b.png")

	t.Run("image", func(t *testing.T) {
		out := ResolveOut(withFamily(base, resourceid.FamilyImage, "image/png"), StyleDefault)
		require.NotNil(t, out)
		assert.Equal(t, "c/1.0/m/_images/diagrams/a b.png", out.Path)
		assert.Equal(t, "c/1.0/m/_images/diagrams", out.Dirname)
		assert.Equal(t, "../..", out.ModuleRootPath)
		assert.Equal(t, "../../../../..", out.RootPath)
	})

	t.Run("attachment", func(t *testing.T) {
		src := withFamily(page("c", "1.0", "m", "report.pdf"), resourceid.FamilyAttachment, "application/pdf")
		out := ResolveOut(src, StyleIndexify)
		require.NotNil(t, out)
		assert.Equal(t, "c/1.0/m/_attachments/report.pdf", out.Path)
		assert.Equal(t, "..", out.ModuleRootPath)
	})

	t.Run("markup attachment becomes html", func(t *testing.T) {
		src := withFamily(page("c", "1.0", "m", "notes.adoc"), resourceid.FamilyAttachment, "text/asciidoc")
		out := ResolveOut(src, StyleDefault)
		require.NotNil(t, out)
		assert.Equal(t, "c/1.0/m/_attachments/notes.html", out.Path)
	})

	t.Run("underscore directories are skipped", func(t *testing.T) {
		src := withFamily(page("c", "1.0", "m", "_shared/logo.svg"), resourceid.FamilyImage, "image/svg+xml")
		out := ResolveOut(src, StyleDefault)
		require.NotNil(t, out)
		assert.Equal(t, "c/1.0/m/_images/logo.svg", out.Path)
	})

	for _, f := range []resourceid.Family{resourceid.FamilyPartial, resourceid.FamilyExample, resourceid.FamilyNavigation} {
		t.Run(string(f)+" is not written", func(t *testing.T) {
			src := withFamily(page("c", "1.0", "m", "x.adoc"), f, "text/asciidoc")
			assert.Nil(t, ResolveOut(src, StyleDefault))
			if f != resourceid.FamilyNavigation {
				assert.Nil(t, ResolvePub(src, nil, StyleDefault, ""))
			}
		})
	}

	t.Run("site root alias", func(t *testing.T) {
		src := Source{Coordinates: resourceid.Coordinates{Family: resourceid.FamilyAlias, Relative: "index.adoc"}}
		out := ResolveOut(src, StyleDefault)
		require.NotNil(t, out)
		assert.Equal(t, &Out{Path: "index.html", Basename: "index.html", ModuleRootPath: ".", RootPath: "."}, out)

		assert.Equal(t, "/index.html", ResolvePub(src, out, StyleDefault, "").URL)
		dropped := ResolveOut(src, StyleDrop)
		assert.Equal(t, "/", ResolvePub(src, dropped, StyleDrop, "").URL)
	})
}

func TestResolve_URLStyles(t *testing.T) {
	topic := page("c", "1.0", "m", "topic/page-one.adoc")
	index := page("c", "1.0", "m", "index.adoc")

	tests := []struct {
		name    string
		src     Source
		style   HTMLExtensionStyle
		outPath string
		url     string
		modRoot string
		root    string
	}{
		{"default page", topic, StyleDefault, "c/1.0/m/topic/page-one.html", "/c/1.0/m/topic/page-one.html", "..", "../../../.."},
		{"drop page", topic, StyleDrop, "c/1.0/m/topic/page-one.html", "/c/1.0/m/topic/page-one", "..", "../../../.."},
		{"indexify page", topic, StyleIndexify, "c/1.0/m/topic/page-one/index.html", "/c/1.0/m/topic/page-one/", "../..", "../../../../.."},
		{"default index", index, StyleDefault, "c/1.0/m/index.html", "/c/1.0/m/index.html", ".", "../../.."},
		{"drop index", index, StyleDrop, "c/1.0/m/index.html", "/c/1.0/m/", ".", "../../.."},
		{"indexify index", index, StyleIndexify, "c/1.0/m/index.html", "/c/1.0/m/", ".", "../../.."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ResolveOut(tt.src, tt.style)
			require.NotNil(t, out)
			assert.Equal(t, tt.outPath, out.Path)
			assert.Equal(t, tt.modRoot, out.ModuleRootPath)
			assert.Equal(t, tt.root, out.RootPath)

			pub := ResolvePub(tt.src, out, tt.style, "")
			require.NotNil(t, pub)
			assert.Equal(t, tt.url, pub.URL)
			assert.Equal(t, out.ModuleRootPath, pub.ModuleRootPath)
			assert.Equal(t, out.RootPath, pub.RootPath)
			assert.Empty(t, pub.AbsoluteURL)
		})
	}
}

func TestResolve_StyleSwitchRestoresDefault(t *testing.T) {
	src := page("c", "1.0", "m", "topic/page-one.adoc")
	out := ResolveOut(src, StyleDefault)
	pub := ResolvePub(src, out, StyleDefault, "https://docs.example.org")

	for _, style := range []HTMLExtensionStyle{StyleDrop, StyleIndexify, StyleDefault} {
		o := ResolveOut(src, style)
		ResolvePub(src, o, style, "https://docs.example.org")
	}

	out2 := ResolveOut(src, StyleDefault)
	pub2 := ResolvePub(src, out2, StyleDefault, "https://docs.example.org")
	assert.Equal(t, out, out2)
	assert.Equal(t, pub, pub2)
}

func TestResolvePub(t *testing.T) {
	t.Run("absolute url trims trailing slash of site url", func(t *testing.T) {
		src := page("c", "1.0", "m", "a.adoc")
		pub := ResolvePub(src, ResolveOut(src, StyleDefault), StyleDefault, "https://docs.example.org/")
		require.NotNil(t, pub)
		assert.Equal(t, "https://docs.example.org/c/1.0/m/a.html", pub.AbsoluteURL)
	})

	t.Run("spaces are escaped", func(t *testing.T) {
		src := withFamily(page("c", "1.0", "m", "a b.png"), resourceid.FamilyImage, "image/png")
		pub := ResolvePub(src, ResolveOut(src, StyleDrop), StyleDrop, "")
		require.NotNil(t, pub)
		assert.Equal(t, "/c/1.0/m/_images/a%20b.png", pub.URL)
	})

	t.Run("navigation gets module directory url", func(t *testing.T) {
		src := withFamily(page("c", "1.0", "m", "nav.adoc"), resourceid.FamilyNavigation, "text/asciidoc")
		pub := ResolvePub(src, nil, StyleDefault, "https://docs.example.org")
		require.NotNil(t, pub)
		assert.Equal(t, "/c/1.0/m/", pub.URL)
		assert.Equal(t, "https://docs.example.org/c/1.0/m/", pub.AbsoluteURL)
		assert.Equal(t, ".", pub.ModuleRootPath)
		assert.Equal(t, "../../..", pub.RootPath)
	})

	t.Run("navigation in ROOT module of master", func(t *testing.T) {
		src := withFamily(page("c", "master", resourceid.RootModule, "nav.adoc"), resourceid.FamilyNavigation, "text/asciidoc")
		pub := ResolvePub(src, nil, StyleDefault, "")
		require.NotNil(t, pub)
		assert.Equal(t, "/c/", pub.URL)
		assert.Equal(t, "..", pub.RootPath)
	})
}

func TestParseHTMLExtensionStyle(t *testing.T) {
	style, err := ParseHTMLExtensionStyle("")
	require.NoError(t, err)
	assert.Equal(t, StyleDefault, style)

	style, err = ParseHTMLExtensionStyle(" Indexify ")
	require.NoError(t, err)
	assert.Equal(t, StyleIndexify, style)

	_, err = ParseHTMLExtensionStyle("strip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drop")
}

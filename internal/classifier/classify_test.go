package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

func TestClassify(t *testing.T) {
	nav := []string{"modules/ROOT/nav.adoc", "modules/admin/partials/nav.adoc", "nav.adoc"}

	tests := []struct {
		path string
		want Classification
	}{
		{"modules/ROOT/pages/index.adoc", Classification{Module: "ROOT", Family: resourceid.FamilyPage, Relative: "index.adoc", MediaType: MediaTypeAsciiDoc, ModuleRootPath: "..", NavIndex: -1}},
		{"modules/admin/pages/install/linux.md", Classification{Module: "admin", Family: resourceid.FamilyPage, Relative: "install/linux.md", MediaType: MediaTypeMarkdown, ModuleRootPath: "../..", NavIndex: -1}},
		{"modules/ROOT/pages/_partials/note.adoc", Classification{Module: "ROOT", Family: resourceid.FamilyPartial, Relative: "note.adoc", MediaType: MediaTypeAsciiDoc, ModuleRootPath: "../..", NavIndex: -1}},
		{"modules/ROOT/pages/_partials/snippets/list.xml", Classification{Module: "ROOT", Family: resourceid.FamilyPartial, Relative: "snippets/list.xml", MediaType: "text/xml", ModuleRootPath: "../../..", NavIndex: -1}},
		{"modules/ROOT/assets/images/logo.png", Classification{Module: "ROOT", Family: resourceid.FamilyImage, Relative: "logo.png", MediaType: "image/png", ModuleRootPath: "../..", NavIndex: -1}},
		{"modules/ROOT/assets/attachments/guide.pdf", Classification{Module: "ROOT", Family: resourceid.FamilyAttachment, Relative: "guide.pdf", MediaType: "application/pdf", ModuleRootPath: "../..", NavIndex: -1}},
		{"modules/ROOT/examples/app.json", Classification{Module: "ROOT", Family: resourceid.FamilyExample, Relative: "app.json", MediaType: "application/json", ModuleRootPath: "..", NavIndex: -1}},
		{"modules/ROOT/nav.adoc", Classification{Module: "ROOT", Family: resourceid.FamilyNavigation, Relative: "nav.adoc", MediaType: MediaTypeAsciiDoc, ModuleRootPath: ".", NavIndex: 0}},
		{"modules/admin/partials/nav.adoc", Classification{Module: "admin", Family: resourceid.FamilyNavigation, Relative: "partials/nav.adoc", MediaType: MediaTypeAsciiDoc, ModuleRootPath: "..", NavIndex: 1}},
		{"nav.adoc", Classification{Module: "ROOT", Family: resourceid.FamilyNavigation, Relative: "nav.adoc", MediaType: MediaTypeAsciiDoc, ModuleRootPath: ".", NavIndex: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := Classify(tt.path, nav)
			require.True(t, ok)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestClassifyDropped(t *testing.T) {
	for _, p := range []string{
		"README.adoc",
		"component.yml",
		"modules/ROOT/nav.adoc",
		"modules/ROOT/pages/_attributes.adoc",
		"modules/ROOT/pages/image.png",
		"modules/ROOT/pages/.draft.adoc",
		"modules/ROOT/pages/Makefile",
		"modules/ROOT/assets/logo.png",
		"modules/ROOT/assets/fonts/a.woff",
		"modules/ROOT/misc/notes.adoc",
		"modules/ROOT/pages/_partials",
		"other/ROOT/pages/index.adoc",
	} {
		t.Run(p, func(t *testing.T) {
			_, ok := Classify(p, nil)
			assert.False(t, ok)
		})
	}
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, MediaTypeAsciiDoc, MediaType("a/b.adoc"))
	assert.Equal(t, MediaTypeMarkdown, MediaType("README.MD"))
	assert.Equal(t, "image/svg+xml", MediaType("x.svg"))
	assert.Equal(t, MediaTypeDefault, MediaType("Makefile"))
	assert.Equal(t, MediaTypeDefault, MediaType("x.unknownext"))
	assert.True(t, IsPageMarkup(MediaTypeMarkdown))
	assert.False(t, IsPageMarkup("text/html"))
}

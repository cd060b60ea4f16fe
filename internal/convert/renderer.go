package convert

import (
	"bytes"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docatlas/internal/catalog"
)

// Renderer renders preprocessed AsciiDoc source to HTML.
type Renderer interface {
	Render(f *catalog.File, source []byte) ([]byte, error)
}

// PreRenderer embeds the escaped source in a pre block. It stands in for
// an AsciiDoc processor.
type PreRenderer struct{}

func (PreRenderer) Render(_ *catalog.File, source []byte) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(`<pre class="asciidoc">`)
	b.WriteString(html.EscapeString(string(source)))
	b.WriteString("</pre>\n")
	return b.Bytes(), nil
}

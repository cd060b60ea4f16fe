package convert

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/docatlas/internal/catalog"
	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
)

var fileKey = parser.NewContextKey()

func newMarkdown(c *Converter) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(&referenceTransformer{conv: c}, 100)),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}

func (c *Converter) renderMarkdown(f *catalog.File, body []byte) ([]byte, error) {
	pc := parser.NewContext()
	pc.Set(fileKey, f)
	var buf bytes.Buffer
	if err := c.md.Convert(body, &buf, parser.WithContext(pc)); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryBuild, fmt.Sprintf("render %s", f.Path)).
			WithContext("file", f.Src.String()).
			Build()
	}
	return buf.Bytes(), nil
}

// referenceTransformer rewrites xref links and image destinations of the
// file stored in the parser context.
type referenceTransformer struct {
	conv *Converter
}

func (t *referenceTransformer) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	f, _ := pc.Get(fileKey).(*catalog.File)
	if f == nil {
		return
	}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			spec, ok := strings.CutPrefix(string(node.Destination), "xref:")
			if !ok {
				return ast.WalkContinue, nil
			}
			u, target, ok := t.conv.xrefURL(f, spec)
			if !ok {
				node.Destination = []byte("#")
				node.SetAttributeString("class", []byte("xref unresolved"))
				if node.ChildCount() == 0 {
					node.AppendChild(node, ast.NewString([]byte(spec)))
				}
				return ast.WalkContinue, nil
			}
			node.Destination = []byte(u)
			node.SetAttributeString("class", []byte("xref page"))
			if node.ChildCount() == 0 {
				node.AppendChild(node, ast.NewString([]byte(target.Title())))
			}
		case *ast.Image:
			dest := string(node.Destination)
			if isExternal(dest) {
				return ast.WalkContinue, nil
			}
			if u, ok := t.conv.imageURL(f, dest); ok {
				node.Destination = []byte(u)
			}
		}
		return ast.WalkContinue, nil
	})
}

// isExternal reports whether dest is a URL, a site-absolute path or a fragment.
func isExternal(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "#") {
		return true
	}
	u, err := url.Parse(dest)
	return err == nil && u.Scheme != ""
}

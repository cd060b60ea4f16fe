// Package convert turns the pages and navigation files of a frozen catalog
// into HTML. Include directives are expanded and cross references are
// rewritten to relative URLs before the markup is rendered.
package convert

import (
	"fmt"
	"log/slog"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/docatlas/internal/catalog"
	"git.home.luguber.info/inful/docatlas/internal/classifier"
	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/frontmatter"
	"git.home.luguber.info/inful/docatlas/internal/logfields"
	"git.home.luguber.info/inful/docatlas/internal/metrics"
	"git.home.luguber.info/inful/docatlas/internal/outpath"
	"git.home.luguber.info/inful/docatlas/internal/resolver"
	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

// Converter converts catalog files in place.
type Converter struct {
	res      *resolver.Cached
	renderer Renderer
	recorder metrics.Recorder
	md       goldmark.Markdown
	logger   *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithRenderer sets the renderer for AsciiDoc sources.
func WithRenderer(r Renderer) Option {
	return func(c *Converter) { c.renderer = r }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Converter) { c.recorder = metrics.OrNoop(r) }
}

// WithLogger sets the logger for unresolved references.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// New creates a converter that resolves references through res.
func New(res *resolver.Cached, opts ...Option) *Converter {
	c := &Converter{
		res:      res,
		renderer: PreRenderer{},
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.md = newMarkdown(c)
	return c
}

// ConvertAll converts every published page and every navigation file.
// Outputs are assigned after all files are converted so that includes
// always read source contents.
func (c *Converter) ConvertAll(files []*catalog.File) (int, error) {
	type result struct {
		f   *catalog.File
		out []byte
	}
	var results []result
	for _, f := range files {
		if !Convertible(f) {
			continue
		}
		out, err := c.Convert(f)
		if err != nil {
			return 0, err
		}
		results = append(results, result{f, out})
	}
	for _, r := range results {
		r.f.Contents = r.out
	}
	return len(results), nil
}

// Convertible reports whether f is a page with an output or a navigation file.
func Convertible(f *catalog.File) bool {
	switch f.Src.Family {
	case resourceid.FamilyPage:
		return f.Out != nil && classifier.IsPageMarkup(f.Src.MediaType)
	case resourceid.FamilyNavigation:
		return f.Pub != nil && classifier.IsPageMarkup(f.Src.MediaType)
	default:
		return false
	}
}

// Convert returns the HTML of f without modifying it.
func (c *Converter) Convert(f *catalog.File) ([]byte, error) {
	body := f.Contents
	if f.Src.MediaType == classifier.MediaTypeMarkdown {
		_, stripped, _, err := frontmatter.Split(body)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryValidation, fmt.Sprintf("invalid frontmatter in %s", f.Path)).
				WithContext("file", f.Src.String()).
				Build()
		}
		body = stripped
	}
	body = c.expandIncludes(f, body, 0)

	switch f.Src.MediaType {
	case classifier.MediaTypeMarkdown:
		return c.renderMarkdown(f, body)
	default:
		out, err := c.renderer.Render(f, c.rewriteXrefs(f, body))
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryBuild, fmt.Sprintf("render %s", f.Path)).
				WithContext("file", f.Src.String()).
				Build()
		}
		return out, nil
	}
}

// xrefURL resolves a page reference and returns its URL relative to f.
func (c *Converter) xrefURL(f *catalog.File, spec string) (string, *catalog.File, bool) {
	ctx := f.Src.Coordinates
	res, err := c.res.ResolvePage(spec, &ctx)
	if err != nil || res.File == nil || res.File.Pub == nil {
		c.unresolved(f, metrics.ReferenceXref, spec, res.Miss, err)
		return "", nil, false
	}
	return outpath.RelativeURL(fromURL(f), res.File.Pub.URL, res.ID.Fragment), res.File, true
}

// imageURL resolves an image target in the image family.
func (c *Converter) imageURL(f *catalog.File, spec string) (string, bool) {
	ctx := f.Src.Coordinates
	res, err := c.res.ResolveResource(spec, &ctx, resourceid.FamilyImage, resourceid.FamilyImage)
	if err != nil || res.File == nil || res.File.Pub == nil {
		c.unresolved(f, metrics.ReferenceImage, spec, res.Miss, err)
		return "", false
	}
	return outpath.RelativeURL(fromURL(f), res.File.Pub.URL, ""), true
}

func (c *Converter) unresolved(f *catalog.File, kind, spec string, miss resolver.Miss, err error) {
	c.recorder.IncUnresolvedReference(kind)
	attrs := []any{
		slog.String("kind", kind),
		logfields.Spec(spec),
		logfields.Path(f.Path),
		logfields.Component(f.Src.Component),
		logfields.Version(f.Src.Version),
		slog.String("miss", miss.String()),
	}
	if err != nil {
		attrs = append(attrs, logfields.Error(err))
	}
	c.logger.Warn("Unresolved reference", attrs...)
}

func fromURL(f *catalog.File) string {
	if f.Pub == nil {
		return "/"
	}
	return f.Pub.URL
}

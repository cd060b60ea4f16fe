package convert

import (
	"bytes"
	"path"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docatlas/internal/catalog"
	"git.home.luguber.info/inful/docatlas/internal/classifier"
	"git.home.luguber.info/inful/docatlas/internal/frontmatter"
	"git.home.luguber.info/inful/docatlas/internal/logfields"
	"git.home.luguber.info/inful/docatlas/internal/metrics"
	"git.home.luguber.info/inful/docatlas/internal/resolver"
	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

// MaxIncludeDepth bounds nested include expansion.
const MaxIncludeDepth = 64

var includePattern = regexp.MustCompile(`^include::([^\[\s]+)\[[^\]]*\]\s*$`)

// includeFamilies are the families an include may name explicitly.
var includeFamilies = []resourceid.Family{
	resourceid.FamilyPartial,
	resourceid.FamilyExample,
	resourceid.FamilyPage,
	resourceid.FamilyAttachment,
}

// expandIncludes replaces include directive lines with the contents of
// their targets. Unresolved directives are kept as written.
func (c *Converter) expandIncludes(f *catalog.File, body []byte, depth int) []byte {
	if !bytes.Contains(body, []byte("include::")) {
		return body
	}
	lines := bytes.Split(body, []byte("\n"))
	var out bytes.Buffer
	for i, line := range lines {
		if i > 0 {
			out.WriteByte('\n')
		}
		m := includePattern.FindSubmatch(bytes.TrimRight(line, "\r"))
		if m == nil {
			out.Write(line)
			continue
		}
		spec := string(m[1])
		if depth >= MaxIncludeDepth {
			c.logger.Warn("Include depth exceeded", logfields.Spec(spec), logfields.Path(f.Path), logfields.Count(depth))
			out.Write(line)
			continue
		}
		target := c.includeTarget(f, spec)
		if target == nil {
			c.unresolved(f, metrics.ReferenceInclude, spec, resolver.MissNotFound, nil)
			out.Write(line)
			continue
		}
		contents := target.Contents
		if target.Src.MediaType == classifier.MediaTypeMarkdown {
			if _, stripped, _, err := frontmatter.Split(contents); err == nil {
				contents = stripped
			}
		}
		contents = c.expandIncludes(target, contents, depth+1)
		out.Write(bytes.TrimSuffix(contents, []byte("\n")))
	}
	return out.Bytes()
}

// includeTarget resolves a resource ID naming a family, or a path
// relative to the physical path of f.
func (c *Converter) includeTarget(f *catalog.File, spec string) *catalog.File {
	if strings.Contains(spec, "$") {
		ctx := f.Src.Coordinates
		res, err := c.res.ResolveResource(spec, &ctx, resourceid.FamilyPartial, includeFamilies...)
		if err != nil {
			return nil
		}
		return res.File
	}
	p := path.Join(path.Dir(f.Path), spec)
	return c.res.Catalog().GetByPath(f.Src.Component, f.Src.Version, p)
}

// Package publish writes the published files of a frozen catalog to a
// filesystem. Page aliases become static redirect pages.
package publish

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"git.home.luguber.info/inful/docatlas/internal/catalog"
	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/logfields"
	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

// Result summarises a publish run.
type Result struct {
	Files     int
	Redirects int
	Bytes     int64
}

// Publisher writes files into a filesystem at their out path.
type Publisher struct {
	out   billy.Filesystem
	clean bool
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithClean removes existing contents of the output before writing.
func WithClean(clean bool) Option {
	return func(p *Publisher) { p.clean = clean }
}

// New creates a publisher writing into out.
func New(out billy.Filesystem, opts ...Option) *Publisher {
	p := &Publisher{out: out}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish writes every file of reader that has an out descriptor.
func (p *Publisher) Publish(reader catalog.Reader) (Result, error) {
	var res Result
	if p.clean {
		if err := p.cleanOutput(); err != nil {
			return res, err
		}
	}

	for _, f := range reader.GetFiles() {
		if f.Out == nil {
			continue
		}
		contents := f.Contents
		if f.Src.Family == resourceid.FamilyAlias {
			target := reader.AliasTarget(f)
			if target == nil || target.Pub == nil {
				slog.Warn("Skipping alias without published target", logfields.Path(f.Out.Path), slog.String("target", f.Rel))
				continue
			}
			page, err := RedirectPage(f, target)
			if err != nil {
				return res, err
			}
			contents = page
			res.Redirects++
		}
		if err := p.write(f.Out.Path, contents); err != nil {
			return res, err
		}
		res.Files++
		res.Bytes += int64(len(contents))
	}
	return res, nil
}

func (p *Publisher) write(outPath string, contents []byte) error {
	clean := path.Clean(outPath)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return ferrors.FileSystemError(fmt.Sprintf("output path %q escapes the output directory", outPath)).
			WithPath(outPath).
			Build()
	}
	if dir := path.Dir(clean); dir != "." {
		if err := p.out.MkdirAll(dir, 0o755); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create output directory").
				WithPath(dir).
				Build()
		}
	}
	if err := util.WriteFile(p.out, clean, contents, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write output file").
			WithPath(clean).
			Build()
	}
	return nil
}

func (p *Publisher) cleanOutput() error {
	entries, err := p.out.ReadDir("/")
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "read output directory").Build()
	}
	for _, e := range entries {
		if err := util.RemoveAll(p.out, e.Name()); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "clean output directory").
				WithPath(e.Name()).
				Build()
		}
	}
	return nil
}

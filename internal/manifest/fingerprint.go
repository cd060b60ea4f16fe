package manifest

import (
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/docatlas/internal/catalog"
	"git.home.luguber.info/inful/docatlas/internal/classifier"
	"git.home.luguber.info/inful/docatlas/internal/frontmatter"
)

// Fingerprint returns the content fingerprint of f. Markdown front matter is
// hashed separately from the body; other files hash their contents whole.
func Fingerprint(f *catalog.File) string {
	if f.Src.MediaType == classifier.MediaTypeMarkdown {
		fm, body, had, err := frontmatter.Split(f.Contents)
		if err == nil && had {
			return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(fm), "\n"), string(body))
		}
	}
	return mdfp.CalculateFingerprintFromParts("", string(f.Contents))
}

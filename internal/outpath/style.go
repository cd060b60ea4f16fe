package outpath

import "git.home.luguber.info/inful/docatlas/internal/foundation"

// HTMLExtensionStyle controls how page output paths and URLs are shaped.
type HTMLExtensionStyle string

const (
	// StyleDefault publishes page.html and links to page.html.
	StyleDefault HTMLExtensionStyle = "default"
	// StyleDrop publishes page.html but links to page (index.html to the directory).
	StyleDrop HTMLExtensionStyle = "drop"
	// StyleIndexify publishes page/index.html and links to page/.
	StyleIndexify HTMLExtensionStyle = "indexify"
)

var styles = foundation.NewEnum("html extension style", StyleDefault,
	StyleDefault, StyleDrop, StyleIndexify)

// ParseHTMLExtensionStyle parses a configured style; empty means default.
func ParseHTMLExtensionStyle(s string) (HTMLExtensionStyle, error) {
	return styles.Parse(s)
}

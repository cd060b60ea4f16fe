package classifier

import (
	"mime"
	"path"
	"strings"
)

const (
	// MediaTypeAsciiDoc is the media type of AsciiDoc pages.
	MediaTypeAsciiDoc = "text/asciidoc"
	// MediaTypeMarkdown is the media type of Markdown pages.
	MediaTypeMarkdown = "text/markdown"
	// MediaTypeDefault is used for files whose extension is unknown.
	MediaTypeDefault = "application/octet-stream"
)

var mediaTypes = map[string]string{
	".adoc":     MediaTypeAsciiDoc,
	".asciidoc": MediaTypeAsciiDoc,
	".asc":      MediaTypeAsciiDoc,
	".md":       MediaTypeMarkdown,
	".markdown": MediaTypeMarkdown,
	".html":     "text/html",
	".css":      "text/css",
	".js":       "text/javascript",
	".json":     "application/json",
	".yml":      "application/yaml",
	".yaml":     "application/yaml",
	".txt":      "text/plain",
	".svg":      "image/svg+xml",
	".png":      "image/png",
	".jpg":      "image/jpeg",
	".jpeg":     "image/jpeg",
	".gif":      "image/gif",
	".webp":     "image/webp",
	".pdf":      "application/pdf",
	".zip":      "application/zip",
}

// MediaType returns the media type for the extension of p.
func MediaType(p string) string {
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return MediaTypeDefault
	}
	if mt, ok := mediaTypes[ext]; ok {
		return mt
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		if base, _, err := mime.ParseMediaType(mt); err == nil {
			return base
		}
		return mt
	}
	return MediaTypeDefault
}

// IsPageMarkup reports whether files of mediaType can be pages.
func IsPageMarkup(mediaType string) bool {
	return mediaType == MediaTypeAsciiDoc || mediaType == MediaTypeMarkdown
}

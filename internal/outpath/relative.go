package outpath

import (
	"path"
	"strings"
)

// Relative returns the relative path from directory from to directory to.
// Both are slash-separated paths below the same root ("" is the root).
// The result is "." when they are the same directory.
func Relative(from, to string) string {
	fromSegs := segments(from)
	toSegs := segments(to)

	common := 0
	for common < len(fromSegs) && common < len(toSegs) && fromSegs[common] == toSegs[common] {
		common++
	}

	parts := make([]string, 0, len(fromSegs)-common+len(toSegs)-common)
	for i := common; i < len(fromSegs); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, toSegs[common:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

// RelativeURL returns the URL of to relative to the page published at from.
// URLs ending in "/" are directories. URLs that are not site-absolute,
// such as external links, are returned unchanged.
func RelativeURL(from, to, fragment string) string {
	hash := ""
	if fragment != "" {
		hash = "#" + fragment
	}
	if !strings.HasPrefix(to, "/") {
		return to + hash
	}
	toIsDir := strings.HasSuffix(to, "/")
	if from == to {
		switch {
		case hash != "":
			return hash
		case toIsDir:
			return "./"
		default:
			return path.Base(to)
		}
	}

	fromDir := from
	if !strings.HasSuffix(from, "/") {
		fromDir = path.Dir(from)
	}
	rel := Relative(fromDir, to)
	if toIsDir {
		return rel + "/" + hash
	}
	return rel + hash
}

func segments(p string) []string {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

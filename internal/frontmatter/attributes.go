package frontmatter

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

const (
	// TitleAttribute holds the document title.
	TitleAttribute = "doctitle"
	// AliasesAttribute lists page IDs that redirect to the page.
	AliasesAttribute = "page-aliases"
)

// Page is the parsed header of a page.
type Page struct {
	Title      string
	Attributes map[string]string
	// Body is the document without YAML frontmatter.
	Body []byte
}

// Aliases returns the entries of the page-aliases attribute.
func (p Page) Aliases() []string {
	return SplitList(p.Attributes[AliasesAttribute])
}

// SplitList splits a comma separated attribute value, dropping empty entries.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// PageAttributes reads the header of a page in the given media type.
// Unknown media types yield an empty header and the contents as body.
func PageAttributes(mediaType string, contents []byte) (Page, error) {
	switch mediaType {
	case "text/markdown":
		return markdownHeader(contents)
	case "text/asciidoc":
		return asciidocHeader(contents), nil
	default:
		return Page{Attributes: map[string]string{}, Body: contents}, nil
	}
}

func markdownHeader(contents []byte) (Page, error) {
	fm, body, _, err := Split(contents)
	if err != nil {
		return Page{}, err
	}
	fields, err := ParseYAML(fm)
	if err != nil {
		return Page{}, fmt.Errorf("parse frontmatter: %w", err)
	}

	page := Page{Attributes: make(map[string]string, len(fields)+1), Body: body}
	for k, v := range fields {
		page.Attributes[k] = attributeValue(v)
	}
	page.Title = page.Attributes["title"]
	if page.Title == "" {
		page.Title = firstHeading(body)
	}
	if page.Title != "" {
		page.Attributes[TitleAttribute] = page.Title
	}
	return page, nil
}

func attributeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, attributeValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}

func firstHeading(body []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if title, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(title)
		}
	}
	return ""
}

// asciidocHeader reads the document title and the attribute entries that
// follow it. The header ends at the first blank line.
func asciidocHeader(contents []byte) Page {
	page := Page{Attributes: map[string]string{}, Body: contents}
	scanner := bufio.NewScanner(bytes.NewReader(contents))

	inHeader := false
	lines := 0
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.HasPrefix(line, "//") {
			continue
		}
		if line == "" {
			if inHeader {
				break
			}
			continue
		}
		lines++

		if name, value, ok := attributeEntry(line); ok {
			inHeader = true
			if strings.HasSuffix(name, "!") || strings.HasPrefix(name, "!") {
				delete(page.Attributes, strings.Trim(name, "!"))
				continue
			}
			page.Attributes[name] = value
			continue
		}
		if title, ok := strings.CutPrefix(line, "= "); ok && page.Title == "" && !inHeader {
			page.Title = strings.TrimSpace(title)
			inHeader = true
			continue
		}
		// author and revision lines directly below the title
		if inHeader && page.Title != "" && lines <= 3 {
			continue
		}
		break
	}

	if page.Title != "" {
		page.Attributes[TitleAttribute] = page.Title
	}
	return page
}

func attributeEntry(line string) (name, value string, ok bool) {
	if !strings.HasPrefix(line, ":") {
		return "", "", false
	}
	end := strings.Index(line[1:], ":")
	if end <= 0 {
		return "", "", false
	}
	name = line[1 : end+1]
	if strings.ContainsAny(name, " \t") {
		return "", "", false
	}
	return name, strings.TrimSpace(line[end+2:]), true
}

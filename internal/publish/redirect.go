package publish

import (
	"bytes"
	"html/template"

	"git.home.luguber.info/inful/docatlas/internal/catalog"
	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/outpath"
)

var redirectTemplate = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<meta charset="utf-8">
<link rel="canonical" href="{{.Canonical}}">
<script>location="{{.Relative}}"</script>
<meta http-equiv="refresh" content="0; url={{.Relative}}">
<meta name="robots" content="noindex">
<title>Redirect Notice</title>
<h1>Redirect Notice</h1>
<p>The page you requested has been relocated to <a href="{{.Relative}}">{{.Canonical}}</a>.</p>
`))

// RedirectPage renders the static page that sends readers of alias to target.
func RedirectPage(alias, target *catalog.File) ([]byte, error) {
	data := struct {
		Canonical string
		Relative  string
	}{
		Canonical: target.Pub.URL,
		Relative:  outpath.RelativeURL(alias.Pub.URL, target.Pub.URL, ""),
	}
	if target.Pub.AbsoluteURL != "" {
		data.Canonical = target.Pub.AbsoluteURL
	}

	var buf bytes.Buffer
	if err := redirectTemplate.Execute(&buf, data); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "render redirect page").
			WithContext("alias", alias.Src.String()).
			Build()
	}
	return buf.Bytes(), nil
}

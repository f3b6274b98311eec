// Package export renders a reading session as a standalone HTML page.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/csheth/readease/internal/focus"
)

// Page is everything the reading view needs.
type Page struct {
	Title      string
	FontPath   string
	Simplified string
	Units      []focus.Unit
}

type pageView struct {
	Title      string
	FontURL    template.URL
	Paragraphs []string
	Units      []focus.Unit
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
{{- if .FontURL}}
@font-face {
  font-family: 'OpenDyslexic';
  src: url('{{.FontURL}}') format('opentype');
}
{{- end}}
body {
  background: #fbfbf7;
}
.open-dys {
  font-family: 'OpenDyslexic', Arial, sans-serif;
  font-size: 18px;
  line-height: 1.6;
}
.highlight {
  font-weight: bold;
  color: #000000;
}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<h3>Simplified Text</h3>
<div class="open-dys">
{{- range .Paragraphs}}
<p>{{.}}</p>
{{- end}}
</div>
{{- if .Units}}
<h3>Focus Reading Mode</h3>
{{- range .Units}}
<div class="open-dys{{if .Emphasized}} highlight{{end}}" data-index="{{.Index}}">{{.Text}}</div><br>
{{- end}}
{{- end}}
</body>
</html>
`))

// Render writes page as HTML. Text is escaped; the font is referenced by file URL.
func Render(w io.Writer, page Page) error {
	view := pageView{
		Title:      page.Title,
		Paragraphs: paragraphs(page.Simplified),
		Units:      page.Units,
	}
	if view.Title == "" {
		view.Title = "ReadEase"
	}
	if page.FontPath != "" {
		view.FontURL = template.URL(fileURL(page.FontPath))
	}
	return pageTemplate.Execute(w, view)
}

// WriteFile renders page to path, replacing any previous export.
func WriteFile(path string, page Page) error {
	var buf bytes.Buffer
	if err := Render(&buf, page); err != nil {
		return fmt.Errorf("render export: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func paragraphs(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func fileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

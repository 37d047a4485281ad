// Package render turns a roadmap and its progress into HTML pages. The same
// templates back the static exporter and the local web server.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer executes the page templates.
type Renderer struct {
	tmpl *template.Template
	md   goldmark.Markdown
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	r := &Renderer{
		md: goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps())),
	}
	tmpl, err := template.New("roadmap").Funcs(template.FuncMap{
		"md": r.markdown,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Template exposes the parsed set, one template per page named "<page>.html".
func (r *Renderer) Template() *template.Template { return r.tmpl }

// Render writes the page described by data.
func (r *Renderer) Render(w io.Writer, data PageData) error {
	if _, ok := ParsePage(string(data.Page)); !ok {
		return fmt.Errorf("unknown page %q", data.Page)
	}
	if err := r.tmpl.ExecuteTemplate(w, data.Page.TemplateName(), data); err != nil {
		return fmt.Errorf("rendering %s: %w", data.Page, err)
	}
	return nil
}

// markdown renders guidance text. Raw HTML in the source is not passed
// through. A lone paragraph is unwrapped so list items stay inline.
func (r *Renderer) markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	out := strings.TrimSpace(buf.String())
	if strings.Count(out, "<p>") == 1 && strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return template.HTML(out)
}

package handlers

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"slices"

	"prompt-library/internal/contextutil"
	"prompt-library/internal/export"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages renders the HTML views.
type Pages struct {
	tmpl *template.Template
}

// NewPages parses the embedded page templates.
func NewPages() *Pages {
	tmpl := template.Must(template.New("pages").Funcs(template.FuncMap{
		"stars":    export.Stars,
		"contains": slices.Contains[[]string, string],
	}).ParseFS(templateFS, "templates/*.html"))

	return &Pages{tmpl: tmpl}
}

// layout holds the data every page shares.
type layout struct {
	Title  string
	Active string
	User   string
	Theme  string
}

func newLayout(ctx context.Context, title, active string) layout {
	return layout{
		Title:  title,
		Active: active,
		User:   contextutil.UserFromContext(ctx),
		Theme:  contextutil.ThemeFromContext(ctx),
	}
}

// Render executes the named page into a buffer and writes it with status.
// Nothing is written to w if the template fails.
func (p *Pages) Render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	ctx := r.Context()

	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to execute page template", "page", name, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

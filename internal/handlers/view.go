package handlers

import (
	"html/template"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"prompt-library/internal/contextutil"
	"prompt-library/internal/export"
	"prompt-library/internal/service"
	"prompt-library/internal/storage"
)

// ViewHandler serves the filtered prompt list.
type ViewHandler struct {
	pages    *Pages
	library  service.LibraryService
	markdown *MarkdownRenderer
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(pages *Pages, library service.LibraryService, markdown *MarkdownRenderer) *ViewHandler {
	return &ViewHandler{
		pages:    pages,
		library:  library,
		markdown: markdown,
	}
}

type viewRecord struct {
	Title       string
	Application storage.Application
	Tags        string
	Version     string
	Stars       string
	PromptHTML  template.HTML
	NotesHTML   template.HTML
	ImageURL    string
}

type viewPage struct {
	layout
	Records            []viewRecord
	Total              int
	ApplicationOptions []string
	TypeOptions        []string
	Selected           service.ListRequest
}

// ServeHTTP lists the records matching the application, type and q query parameters.
func (h *ViewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	req := service.ListRequest{
		Applications: nonEmpty(query["application"]),
		Types:        nonEmpty(query["type"]),
		Query:        strings.TrimSpace(query.Get("q")),
	}

	res, err := h.library.List(ctx, req)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list prompts", "error", err)
		http.Error(w, "failed to load prompts", http.StatusInternalServerError)
		return
	}

	records := make([]viewRecord, 0, len(res.Records))
	for _, rec := range res.Records {
		vr, err := h.toViewRecord(rec)
		if err != nil {
			logger.ErrorContext(ctx, "failed to render prompt", "id", rec.ID, "error", err)
			http.Error(w, "failed to render prompts", http.StatusInternalServerError)
			return
		}
		records = append(records, vr)
	}

	h.pages.Render(w, r, http.StatusOK, "view", viewPage{
		layout:             newLayout(ctx, "View Prompts", "view"),
		Records:            records,
		Total:              res.Total,
		ApplicationOptions: res.ApplicationOptions,
		TypeOptions:        res.TypeOptions,
		Selected:           req,
	})
}

func (h *ViewHandler) toViewRecord(rec storage.Record) (viewRecord, error) {
	promptHTML, err := h.markdown.Render(rec.Prompt)
	if err != nil {
		return viewRecord{}, err
	}
	notesHTML, err := h.markdown.Render(rec.Notes)
	if err != nil {
		return viewRecord{}, err
	}

	vr := viewRecord{
		Title:       rec.Title,
		Application: rec.Application,
		Tags:        rec.Tags,
		Version:     rec.Version,
		Stars:       export.Stars(rec.Rating),
		PromptHTML:  promptHTML,
		NotesHTML:   notesHTML,
	}
	if storage.Exists(rec.ScreenshotPath) {
		vr.ImageURL = "/attachments/" + url.PathEscape(filepath.Base(rec.ScreenshotPath))
	}
	return vr, nil
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

package handlers

import (
	"net/http"

	"prompt-library/internal/contextutil"
	"prompt-library/internal/service"
)

// ExportHandler serves the Export view and the two downloads.
type ExportHandler struct {
	pages   *Pages
	library service.LibraryService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(pages *Pages, library service.LibraryService) *ExportHandler {
	return &ExportHandler{
		pages:   pages,
		library: library,
	}
}

type exportPage struct {
	layout
	Total int
}

// Page shows the download links.
func (h *ExportHandler) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.library.List(ctx, service.ListRequest{})
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load prompts", "error", err)
		http.Error(w, "failed to load prompts", http.StatusInternalServerError)
		return
	}

	h.pages.Render(w, r, http.StatusOK, "export", exportPage{
		layout: newLayout(ctx, "Export Prompts", "export"),
		Total:  res.Total,
	})
}

// Markdown downloads the library as prompts.md.
func (h *ExportHandler) Markdown(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	md, err := h.library.ExportMarkdown(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to export markdown", "error", err)
		http.Error(w, "failed to export prompts", http.StatusInternalServerError)
		return
	}

	writeDownload(w, "prompts.md", "text/markdown; charset=utf-8", []byte(md))
}

// JSON downloads the library as prompts.json.
func (h *ExportHandler) JSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := h.library.ExportJSON(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to export json", "error", err)
		http.Error(w, "failed to export prompts", http.StatusInternalServerError)
		return
	}

	writeDownload(w, "prompts.json", "application/json", data)
}

func writeDownload(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

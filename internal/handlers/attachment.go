package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"prompt-library/internal/contextutil"
	"prompt-library/internal/storage"
)

// AttachmentResolver maps an attachment name to a file on disk.
type AttachmentResolver interface {
	Resolve(name string) (string, error)
}

// AttachmentHandler serves stored screenshots.
type AttachmentHandler struct {
	attachments AttachmentResolver
}

// NewAttachmentHandler creates a new AttachmentHandler.
func NewAttachmentHandler(attachments AttachmentResolver) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments}
}

// ServeHTTP serves the attachment named by the {name} URL parameter.
func (h *AttachmentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	path, err := h.attachments.Resolve(name)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidAttachmentName):
			http.Error(w, "invalid attachment name", http.StatusBadRequest)
		case errors.Is(err, os.ErrNotExist):
			http.Error(w, "attachment not found", http.StatusNotFound)
		default:
			contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to resolve attachment", "name", name, "error", err)
			http.Error(w, "failed to read attachment", http.StatusInternalServerError)
		}
		return
	}

	http.ServeFile(w, r, path)
}

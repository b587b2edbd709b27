package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"prompt-library/internal/contextutil"
	"prompt-library/internal/service"
	"prompt-library/internal/storage"
)

// defaultRating is the initial position of the rating slider.
const defaultRating = 3

// AddHandler serves the Add view.
type AddHandler struct {
	pages          *Pages
	library        service.LibraryService
	maxUploadBytes int64
}

// NewAddHandler creates a new AddHandler. Request bodies larger than
// maxUploadBytes are rejected.
func NewAddHandler(pages *Pages, library service.LibraryService, maxUploadBytes int64) *AddHandler {
	return &AddHandler{
		pages:          pages,
		library:        library,
		maxUploadBytes: maxUploadBytes,
	}
}

// addForm echoes the submitted values back into the form.
type addForm struct {
	Title       string
	Prompt      string
	Application string
	Type        string
	Tags        string
	Version     string
	Notes       string
	Rating      int
}

type addPage struct {
	layout
	Applications []storage.Application
	Types        []storage.PromptType
	Form         addForm
	Success      string
	Error        string
}

func (h *AddHandler) page(r *http.Request, form addForm) addPage {
	return addPage{
		layout:       newLayout(r.Context(), "Add Prompt", "add"),
		Applications: storage.Applications,
		Types:        storage.PromptTypes,
		Form:         form,
	}
}

func emptyForm() addForm {
	return addForm{
		Application: string(storage.ApplicationChatGPT),
		Type:        string(storage.TypeWriting),
		Version:     storage.DefaultVersion,
		Rating:      defaultRating,
	}
}

// ServeHTTP shows the form on GET and stores a submission on POST.
func (h *AddHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	switch r.Method {
	case http.MethodGet:
		data := h.page(r, emptyForm())
		if r.URL.Query().Get("saved") != "" {
			data.Success = "Prompt saved successfully!"
		}
		h.pages.Render(w, r, http.StatusOK, "add", data)
	case http.MethodPost:
		h.handleSubmit(w, r)
	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *AddHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.ContentLength > h.maxUploadBytes {
		logger.WarnContext(ctx, "upload too large", "content_length", r.ContentLength)
		http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
				return
			}
			logger.WarnContext(ctx, "invalid add form", "error", err)
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		if err := r.ParseForm(); err != nil {
			logger.WarnContext(ctx, "invalid add form", "error", err)
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
	}
	if r.MultipartForm != nil {
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()
	}

	form := addForm{
		Title:       r.PostFormValue("title"),
		Prompt:      r.PostFormValue("prompt"),
		Application: r.PostFormValue("application"),
		Type:        r.PostFormValue("type"),
		Tags:        r.PostFormValue("tags"),
		Version:     r.PostFormValue("version"),
		Notes:       r.PostFormValue("notes"),
	}

	rating, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("rating")))
	if err != nil {
		form.Rating = defaultRating
		h.renderInvalid(w, r, form, &service.ValidationError{Field: "rating", Message: "must be a whole number"})
		return
	}
	form.Rating = rating

	req := service.AddRequest{
		Title:       form.Title,
		Prompt:      form.Prompt,
		Application: storage.Application(form.Application),
		Type:        storage.PromptType(form.Type),
		Tags:        form.Tags,
		Version:     form.Version,
		Notes:       form.Notes,
		Rating:      form.Rating,
	}

	file, header, err := formFile(r, "screenshot")
	if err != nil {
		logger.WarnContext(ctx, "invalid screenshot upload", "error", err)
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}
	if file != nil {
		defer func() {
			_ = file.Close()
		}()
		req.Attachment = &service.Attachment{Filename: header.Filename, Content: file}
	}

	rec, err := h.library.Add(ctx, req)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			h.renderInvalid(w, r, form, validationErr)
			return
		}
		logger.ErrorContext(ctx, "failed to add prompt", "error", err)
		http.Error(w, "failed to save prompt", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/add?saved="+url.QueryEscape(rec.ID), http.StatusSeeOther)
}

func (h *AddHandler) renderInvalid(w http.ResponseWriter, r *http.Request, form addForm, verr *service.ValidationError) {
	data := h.page(r, form)
	data.Error = verr.Field + " " + verr.Message
	h.pages.Render(w, r, http.StatusBadRequest, "add", data)
}

// formFile returns the uploaded file for key, or nil when none was sent.
func formFile(r *http.Request, key string) (multipart.File, *multipart.FileHeader, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}
	file, header, err := r.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if header.Filename == "" {
		_ = file.Close()
		return nil, nil, nil
	}
	return file, header, nil
}

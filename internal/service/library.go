package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_library_service.go -package=mocks prompt-library/internal/service LibraryService
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_attachment_saver.go -package=mocks prompt-library/internal/service AttachmentSaver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"prompt-library/internal/contextutil"
	"prompt-library/internal/export"
	"prompt-library/internal/filter"
	"prompt-library/internal/storage"
)

// AttachmentSaver stores an uploaded image and returns the path it was written to.
// This interface is defined from the service layer's perspective (consumer-first).
type AttachmentSaver interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Attachment is an uploaded image submitted with a new prompt.
type Attachment struct {
	Filename string
	Content  io.Reader
}

// AddRequest is a submission of the Add form.
type AddRequest struct {
	Title       string              `json:"title"`
	Prompt      string              `json:"prompt"`
	Application storage.Application `json:"application"`
	Type        storage.PromptType  `json:"type"`
	Tags        string              `json:"tags"`
	Version     string              `json:"version"`
	Notes       string              `json:"notes"`
	Rating      int                 `json:"rating"`
	Attachment  *Attachment         `json:"attachment"`
}

// ListRequest selects the records shown on the View page.
type ListRequest struct {
	Applications []string
	Types        []string
	Query        string
}

// ListResult holds the records matching a ListRequest and the filter options
// available across the whole library.
type ListResult struct {
	Records            []storage.Record
	Total              int
	ApplicationOptions []string
	TypeOptions        []string
}

// LibraryService provides the prompt library operations.
type LibraryService interface {
	// Add validates the request, stores its attachment and appends one record.
	Add(ctx context.Context, req AddRequest) (storage.Record, error)
	// List loads the library and returns the records matching req.
	List(ctx context.Context, req ListRequest) (ListResult, error)
	// ExportMarkdown renders the whole library as Markdown.
	ExportMarkdown(ctx context.Context) (string, error)
	// ExportJSON renders the whole library as indented JSON.
	ExportJSON(ctx context.Context) ([]byte, error)
}

// Option configures a LibraryService.
type Option func(*libraryService)

// WithClock overrides the time source used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *libraryService) {
		s.now = now
	}
}

// libraryService implements LibraryService.
type libraryService struct {
	store       storage.RecordStore
	attachments AttachmentSaver
	now         func() time.Time
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(store storage.RecordStore, attachments AttachmentSaver, opts ...Option) LibraryService {
	s := &libraryService{
		store:       store,
		attachments: attachments,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// validationOrder is the order in which field failures are reported.
var validationOrder = []string{"title", "application", "type", "rating", "attachment"}

func (r *AddRequest) validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, validation.By(notBlank)),
		validation.Field(&r.Application, validation.Required, validation.In(asAny(storage.Applications)...)),
		validation.Field(&r.Type, validation.Required, validation.In(asAny(storage.PromptTypes)...)),
		validation.Field(&r.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Attachment, validation.By(validateAttachment)),
	)
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, field := range validationOrder {
		if fieldErr, ok := fieldErrs[field]; ok {
			return &ValidationError{Field: field, Message: fieldErr.Error()}
		}
	}
	for field, fieldErr := range fieldErrs {
		return &ValidationError{Field: field, Message: fieldErr.Error()}
	}
	return nil
}

func notBlank(value any) error {
	if s, _ := value.(string); strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func validateAttachment(value any) error {
	att, _ := value.(*Attachment)
	if att == nil {
		return nil
	}
	if !storage.Supported(att.Filename) {
		return fmt.Errorf("must be one of %s", strings.Join(storage.AttachmentExtensions, ", "))
	}
	return nil
}

func asAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// Add validates and stores a new prompt record.
func (s *libraryService) Add(ctx context.Context, req AddRequest) (storage.Record, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Version) == "" {
		req.Version = storage.DefaultVersion
	}

	if err := req.validate(); err != nil {
		logger.WarnContext(ctx, "invalid prompt submission", "error", err)
		return storage.Record{}, err
	}

	today := s.now().Format(storage.DateLayout)
	rec := storage.Record{
		ID:          storage.RecordID(req.Title, req.Version),
		Title:       req.Title,
		Prompt:      req.Prompt,
		Application: req.Application,
		Type:        req.Type,
		Tags:        req.Tags,
		Version:     req.Version,
		CreatedAt:   today,
		UpdatedAt:   today,
		Notes:       req.Notes,
		Rating:      req.Rating,
	}
	rec = storage.NormalizeNewlines(rec)

	if req.Attachment != nil {
		path, err := s.attachments.Save(ctx, req.Attachment.Filename, req.Attachment.Content)
		if err != nil {
			logger.ErrorContext(ctx, "failed to save attachment", "filename", req.Attachment.Filename, "error", err)
			return storage.Record{}, WrapError(err, "failed to save attachment")
		}
		rec.ScreenshotPath = path
	}

	table, err := s.store.Append(ctx, rec)
	if err != nil {
		logger.ErrorContext(ctx, "failed to append prompt", "id", rec.ID, "error", err)
		return storage.Record{}, WrapError(err, "failed to save prompt")
	}

	logger.InfoContext(ctx, "prompt saved", "id", rec.ID, "records", len(table), "attachment", rec.ScreenshotPath != "")
	return rec, nil
}

// List returns the records matching the request's filters and search query.
func (s *libraryService) List(ctx context.Context, req ListRequest) (ListResult, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load prompts", "error", err)
		return ListResult{}, WrapError(err, "failed to load prompts")
	}

	matched := filter.Apply(records, filter.Criteria{
		"application": req.Applications,
		"type":        req.Types,
	})
	matched = filter.Search(matched, req.Query)

	return ListResult{
		Records:            matched,
		Total:              len(records),
		ApplicationOptions: filter.Options(records, "application"),
		TypeOptions:        filter.Options(records, "type"),
	}, nil
}

// ExportMarkdown renders every stored record as Markdown.
func (s *libraryService) ExportMarkdown(ctx context.Context) (string, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return "", WrapError(err, "failed to load prompts")
	}
	return export.Markdown(records), nil
}

// ExportJSON renders every stored record as JSON.
func (s *libraryService) ExportJSON(ctx context.Context) ([]byte, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to load prompts")
	}
	return export.JSON(records)
}

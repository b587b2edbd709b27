package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"prompt-library/internal/service"
	"prompt-library/internal/service/mocks"
	"prompt-library/internal/storage"
	storage_mocks "prompt-library/internal/storage/mocks"

	"go.uber.org/mock/gomock"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC)
}

func validRequest() service.AddRequest {
	return service.AddRequest{
		Title:       "Hello World",
		Prompt:      "Say hello",
		Application: storage.ApplicationChatGPT,
		Type:        storage.TypeWriting,
		Tags:        "greeting",
		Version:     "v1.0",
		Notes:       "demo",
		Rating:      3,
	}
}

func TestNewLibraryService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.NewLibraryService(storage_mocks.NewMockRecordStore(ctrl), mocks.NewMockAttachmentSaver(ctrl))
	if svc == nil {
		t.Fatal("NewLibraryService() returned nil")
	}
}

func TestLibraryService_Add(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := storage_mocks.NewMockRecordStore(ctrl)
	mockAttachments := mocks.NewMockAttachmentSaver(ctrl)
	svc := service.NewLibraryService(mockStore, mockAttachments, service.WithClock(fixedClock))

	tests := []struct {
		name       string
		req        func() service.AddRequest
		mockSetup  func()
		wantErr    bool
		wantField  string
		wantRecord storage.Record
	}{
		{
			name: "valid submission",
			req:  validRequest,
			mockSetup: func() {
				mockStore.EXPECT().
					Append(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec storage.Record) ([]storage.Record, error) {
						return []storage.Record{rec}, nil
					})
			},
			wantRecord: storage.Record{
				ID:          "hello_world_v1.0",
				Title:       "Hello World",
				Prompt:      "Say hello",
				Application: storage.ApplicationChatGPT,
				Type:        storage.TypeWriting,
				Tags:        "greeting",
				Version:     "v1.0",
				CreatedAt:   "2024-05-01",
				UpdatedAt:   "2024-05-01",
				Notes:       "demo",
				Rating:      3,
			},
		},
		{
			name: "blank version defaults",
			req: func() service.AddRequest {
				r := validRequest()
				r.Version = "  "
				return r
			},
			mockSetup: func() {
				mockStore.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantRecord: storage.Record{
				ID:          "hello_world_v1.0",
				Title:       "Hello World",
				Prompt:      "Say hello",
				Application: storage.ApplicationChatGPT,
				Type:        storage.TypeWriting,
				Tags:        "greeting",
				Version:     "v1.0",
				CreatedAt:   "2024-05-01",
				UpdatedAt:   "2024-05-01",
				Notes:       "demo",
				Rating:      3,
			},
		},
		{
			name: "title kept verbatim in id",
			req: func() service.AddRequest {
				r := validRequest()
				r.Title = " Hello World"
				return r
			},
			mockSetup: func() {
				mockStore.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantRecord: storage.Record{
				ID:          "_hello_world_v1.0",
				Title:       " Hello World",
				Prompt:      "Say hello",
				Application: storage.ApplicationChatGPT,
				Type:        storage.TypeWriting,
				Tags:        "greeting",
				Version:     "v1.0",
				CreatedAt:   "2024-05-01",
				UpdatedAt:   "2024-05-01",
				Notes:       "demo",
				Rating:      3,
			},
		},
		{
			name: "browser line endings normalised",
			req: func() service.AddRequest {
				r := validRequest()
				r.Prompt = "line one\r\nline two"
				r.Notes = "a\r\nb"
				return r
			},
			mockSetup: func() {
				mockStore.EXPECT().
					Append(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec storage.Record) ([]storage.Record, error) {
						if strings.Contains(rec.Prompt+rec.Notes, "\r") {
							t.Errorf("Append() received CRLF text: %q / %q", rec.Prompt, rec.Notes)
						}
						return []storage.Record{rec}, nil
					})
			},
			wantRecord: storage.Record{
				ID:          "hello_world_v1.0",
				Title:       "Hello World",
				Prompt:      "line one\nline two",
				Application: storage.ApplicationChatGPT,
				Type:        storage.TypeWriting,
				Tags:        "greeting",
				Version:     "v1.0",
				CreatedAt:   "2024-05-01",
				UpdatedAt:   "2024-05-01",
				Notes:       "a\nb",
				Rating:      3,
			},
		},
		{
			name: "with attachment",
			req: func() service.AddRequest {
				r := validRequest()
				r.Attachment = &service.Attachment{Filename: "shot.png", Content: strings.NewReader("png")}
				return r
			},
			mockSetup: func() {
				gomock.InOrder(
					mockAttachments.EXPECT().
						Save(gomock.Any(), "shot.png", gomock.Any()).
						Return("data/screenshots/shot.png", nil),
					mockStore.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil, nil),
				)
			},
			wantRecord: storage.Record{
				ID:             "hello_world_v1.0",
				Title:          "Hello World",
				Prompt:         "Say hello",
				Application:    storage.ApplicationChatGPT,
				Type:           storage.TypeWriting,
				Tags:           "greeting",
				Version:        "v1.0",
				CreatedAt:      "2024-05-01",
				UpdatedAt:      "2024-05-01",
				Notes:          "demo",
				ScreenshotPath: "data/screenshots/shot.png",
				Rating:         3,
			},
		},
		{
			name: "missing title",
			req: func() service.AddRequest {
				r := validRequest()
				r.Title = " "
				return r
			},
			mockSetup: func() {},
			wantErr:   true,
			wantField: "title",
		},
		{
			name: "unknown application",
			req: func() service.AddRequest {
				r := validRequest()
				r.Application = "Claude"
				return r
			},
			mockSetup: func() {},
			wantErr:   true,
			wantField: "application",
		},
		{
			name: "unknown type",
			req: func() service.AddRequest {
				r := validRequest()
				r.Type = "Music"
				return r
			},
			mockSetup: func() {},
			wantErr:   true,
			wantField: "type",
		},
		{
			name: "rating too high",
			req: func() service.AddRequest {
				r := validRequest()
				r.Rating = 6
				return r
			},
			mockSetup: func() {},
			wantErr:   true,
			wantField: "rating",
		},
		{
			name: "rating missing",
			req: func() service.AddRequest {
				r := validRequest()
				r.Rating = 0
				return r
			},
			mockSetup: func() {},
			wantErr:   true,
			wantField: "rating",
		},
		{
			name: "unsupported attachment",
			req: func() service.AddRequest {
				r := validRequest()
				r.Attachment = &service.Attachment{Filename: "notes.pdf", Content: strings.NewReader("pdf")}
				return r
			},
			mockSetup: func() {},
			wantErr:   true,
			wantField: "attachment",
		},
		{
			name: "attachment save fails",
			req: func() service.AddRequest {
				r := validRequest()
				r.Attachment = &service.Attachment{Filename: "shot.png", Content: strings.NewReader("png")}
				return r
			},
			mockSetup: func() {
				mockAttachments.EXPECT().
					Save(gomock.Any(), "shot.png", gomock.Any()).
					Return("", errors.New("disk full"))
			},
			wantErr: true,
		},
		{
			name: "store append fails",
			req:  validRequest,
			mockSetup: func() {
				mockStore.EXPECT().
					Append(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("read-only file system"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			rec, err := svc.Add(context.Background(), tt.req())

			if tt.wantErr {
				if err == nil {
					t.Fatal("Add() expected error, got nil")
				}
				var validationErr *service.ValidationError
				isValidation := errors.As(err, &validationErr)
				if tt.wantField != "" && (!isValidation || validationErr.Field != tt.wantField) {
					t.Errorf("Add() error = %v, want validation error on %s", err, tt.wantField)
				}
				if tt.wantField == "" && isValidation {
					t.Errorf("Add() error = %v, want non-validation error", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Add() unexpected error: %v", err)
			}
			if rec != tt.wantRecord {
				t.Errorf("Add() record = %+v, want %+v", rec, tt.wantRecord)
			}
		})
	}
}

func TestLibraryService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := storage_mocks.NewMockRecordStore(ctrl)
	svc := service.NewLibraryService(mockStore, mocks.NewMockAttachmentSaver(ctrl))

	table := []storage.Record{
		{ID: "a", Title: "Alpha", Application: storage.ApplicationChatGPT, Type: storage.TypeWriting, Rating: 1},
		{ID: "b", Title: "Beta", Application: storage.ApplicationGemini, Type: storage.TypeCoding, Rating: 2},
		{ID: "c", Title: "Gamma", Application: storage.ApplicationChatGPT, Type: storage.TypeCoding, Rating: 3},
	}

	tests := []struct {
		name    string
		req     service.ListRequest
		wantIDs []string
	}{
		{name: "no filters", req: service.ListRequest{}, wantIDs: []string{"a", "b", "c"}},
		{name: "application filter", req: service.ListRequest{Applications: []string{"ChatGPT"}}, wantIDs: []string{"a", "c"}},
		{name: "application and type", req: service.ListRequest{Applications: []string{"ChatGPT"}, Types: []string{"Coding"}}, wantIDs: []string{"c"}},
		{name: "search", req: service.ListRequest{Query: "Beta"}, wantIDs: []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore.EXPECT().Load(gomock.Any()).Return(table, nil)

			res, err := svc.List(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("List() unexpected error: %v", err)
			}

			var got []string
			for _, r := range res.Records {
				got = append(got, r.ID)
			}
			if strings.Join(got, ",") != strings.Join(tt.wantIDs, ",") {
				t.Errorf("List() ids = %v, want %v", got, tt.wantIDs)
			}
			if res.Total != len(table) {
				t.Errorf("List() total = %d, want %d", res.Total, len(table))
			}
			if strings.Join(res.ApplicationOptions, ",") != "ChatGPT,Gemini" {
				t.Errorf("List() application options = %v", res.ApplicationOptions)
			}
			if strings.Join(res.TypeOptions, ",") != "Writing,Coding" {
				t.Errorf("List() type options = %v", res.TypeOptions)
			}
		})
	}
}

func TestLibraryService_LoadErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := storage_mocks.NewMockRecordStore(ctrl)
	svc := service.NewLibraryService(mockStore, mocks.NewMockAttachmentSaver(ctrl))
	loadErr := errors.New("permission denied")
	mockStore.EXPECT().Load(gomock.Any()).Return(nil, loadErr).Times(3)

	ctx := context.Background()
	if _, err := svc.List(ctx, service.ListRequest{}); !errors.Is(err, loadErr) {
		t.Errorf("List() error = %v, want wrapped %v", err, loadErr)
	}
	if _, err := svc.ExportMarkdown(ctx); !errors.Is(err, loadErr) {
		t.Errorf("ExportMarkdown() error = %v, want wrapped %v", err, loadErr)
	}
	if _, err := svc.ExportJSON(ctx); !errors.Is(err, loadErr) {
		t.Errorf("ExportJSON() error = %v, want wrapped %v", err, loadErr)
	}
}

// TestLibraryService_EmptyStoreScenario runs the Add flow against a real backing file.
func TestLibraryService_EmptyStoreScenario(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewCSVStore(filepath.Join(dir, "prompt_library.csv"))
	attachments := storage.NewAttachmentStore(filepath.Join(dir, "screenshots"))
	svc := service.NewLibraryService(store, attachments, service.WithClock(fixedClock))
	ctx := context.Background()

	records, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("Load() on empty store = %d records, want 0", len(records))
	}

	req := validRequest()
	req.Prompt = "Say hello\r\nand wave"
	req.Attachment = &service.Attachment{Filename: "hello.png", Content: strings.NewReader("image bytes")}
	added, err := svc.Add(ctx, req)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if added.ID != "hello_world_v1.0" {
		t.Errorf("Add() id = %q, want hello_world_v1.0", added.ID)
	}
	if !storage.Exists(added.ScreenshotPath) {
		t.Errorf("attachment not stored at %q", added.ScreenshotPath)
	}

	records, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Load() = %d records, want 1", len(records))
	}
	if records[len(records)-1] != added {
		t.Errorf("last row = %+v, want %+v", records[len(records)-1], added)
	}

	md, err := svc.ExportMarkdown(ctx)
	if err != nil {
		t.Fatalf("ExportMarkdown() error = %v", err)
	}
	if !strings.HasPrefix(md, "# Hello World\n") {
		t.Errorf("ExportMarkdown() = %q", md)
	}

	js, err := svc.ExportJSON(ctx)
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	if !strings.Contains(string(js), `"id": "hello_world_v1.0"`) {
		t.Errorf("ExportJSON() = %s", js)
	}
}

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"prompt-library/internal/service"
	service_mocks "prompt-library/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func TestExportHandler_Downloads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLibrary := service_mocks.NewMockLibraryService(ctrl)
	mockLibrary.EXPECT().ExportMarkdown(gomock.Any()).Return("# Hello\n", nil).Times(1)
	mockLibrary.EXPECT().ExportJSON(gomock.Any()).Return([]byte("[]"), nil).Times(1)

	handler := NewExportHandler(NewPages(), mockLibrary)

	tests := []struct {
		name            string
		serve           http.HandlerFunc
		wantType        string
		wantDisposition string
		wantBody        string
	}{
		{
			name:            "markdown",
			serve:           handler.Markdown,
			wantType:        "text/markdown; charset=utf-8",
			wantDisposition: `attachment; filename="prompts.md"`,
			wantBody:        "# Hello\n",
		},
		{
			name:            "json",
			serve:           handler.JSON,
			wantType:        "application/json",
			wantDisposition: `attachment; filename="prompts.json"`,
			wantBody:        "[]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/export", nil)
			w := httptest.NewRecorder()

			tt.serve(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("status = %v, want %v", w.Code, http.StatusOK)
			}
			if got := w.Header().Get("Content-Type"); got != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", got, tt.wantType)
			}
			if got := w.Header().Get("Content-Disposition"); got != tt.wantDisposition {
				t.Errorf("Content-Disposition = %q, want %q", got, tt.wantDisposition)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestExportHandler_Page(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLibrary := service_mocks.NewMockLibraryService(ctrl)
	mockLibrary.EXPECT().
		List(gomock.Any(), service.ListRequest{}).
		Return(service.ListResult{Total: 7}, nil).
		Times(1)

	handler := NewExportHandler(NewPages(), mockLibrary)

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	w := httptest.NewRecorder()

	handler.Page(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Page() status = %v, want %v", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, "7 prompts in the library") {
		t.Errorf("Page() should show the record count, got %s", body)
	}
	if !strings.Contains(body, `href="/export/prompts.md"`) || !strings.Contains(body, `href="/export/prompts.json"`) {
		t.Error("Page() should link both downloads")
	}
}

func TestExportHandler_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	loadErr := errors.New("unreadable")
	mockLibrary := service_mocks.NewMockLibraryService(ctrl)
	mockLibrary.EXPECT().List(gomock.Any(), gomock.Any()).Return(service.ListResult{}, loadErr).Times(1)
	mockLibrary.EXPECT().ExportMarkdown(gomock.Any()).Return("", loadErr).Times(1)
	mockLibrary.EXPECT().ExportJSON(gomock.Any()).Return(nil, loadErr).Times(1)

	handler := NewExportHandler(NewPages(), mockLibrary)

	for name, serve := range map[string]http.HandlerFunc{
		"page":     handler.Page,
		"markdown": handler.Markdown,
		"json":     handler.JSON,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/export", nil)
			w := httptest.NewRecorder()

			serve(w, req)

			if w.Code != http.StatusInternalServerError {
				t.Errorf("status = %v, want %v", w.Code, http.StatusInternalServerError)
			}
			if w.Header().Get("Content-Disposition") != "" {
				t.Error("failed export should not be offered as a download")
			}
		})
	}
}

package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAttachmentStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "screenshots")
	store := NewAttachmentStore(dir)
	content := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}

	path, err := store.Save(context.Background(), "shot.png", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if path != filepath.Join(dir, "shot.png") {
		t.Errorf("Save() path = %q, want %q", path, filepath.Join(dir, "shot.png"))
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("stored bytes = %v, want %v", got, content)
	}
}

func TestAttachmentStore_SaveOverwritesSameName(t *testing.T) {
	store := NewAttachmentStore(t.TempDir())
	ctx := context.Background()

	if _, err := store.Save(ctx, "shot.jpg", strings.NewReader("first")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	path, err := store.Save(ctx, "shot.jpg", strings.NewReader("second"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "second" {
		t.Errorf("stored content = %q, want second", string(got))
	}
}

func TestAttachmentStore_SaveRejects(t *testing.T) {
	store := NewAttachmentStore(t.TempDir())

	tests := []struct {
		name     string
		filename string
		wantErr  error
	}{
		{name: "unsupported extension", filename: "notes.txt", wantErr: ErrUnsupportedAttachment},
		{name: "no extension", filename: "image", wantErr: ErrUnsupportedAttachment},
		{name: "empty name", filename: "", wantErr: ErrInvalidAttachmentName},
		{name: "dot dot", filename: "..", wantErr: ErrInvalidAttachmentName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save(context.Background(), tt.filename, strings.NewReader("x"))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Save(%q) error = %v, want %v", tt.filename, err, tt.wantErr)
			}
		})
	}
}

func TestAttachmentStore_SaveStripsClientPath(t *testing.T) {
	dir := t.TempDir()
	store := NewAttachmentStore(dir)

	path, err := store.Save(context.Background(), `C:\Users\me\..\shot.PNG`, strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if path != filepath.Join(dir, "shot.PNG") {
		t.Errorf("Save() path = %q, want %q", path, filepath.Join(dir, "shot.PNG"))
	}
}

func TestAttachmentStore_SaveKeepsNameVerbatim(t *testing.T) {
	dir := t.TempDir()
	store := NewAttachmentStore(dir)

	path, err := store.Save(context.Background(), " my shot .png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if path != filepath.Join(dir, " my shot .png") {
		t.Errorf("Save() path = %q, want the uploaded name unchanged", path)
	}
	if _, err := store.Resolve(" my shot .png"); err != nil {
		t.Errorf("Resolve() error = %v", err)
	}
}

func TestAttachmentStore_Resolve(t *testing.T) {
	dir := t.TempDir()
	store := NewAttachmentStore(dir)
	if _, err := store.Save(context.Background(), "shot.png", strings.NewReader("x")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	path, err := store.Resolve("shot.png")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if path != filepath.Join(dir, "shot.png") {
		t.Errorf("Resolve() = %q", path)
	}

	if _, err := store.Resolve("missing.png"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Resolve(missing) error = %v, want os.ErrNotExist", err)
	}
	if _, err := store.Resolve("../outside.png"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Resolve(../outside.png) error = %v, want os.ErrNotExist", err)
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"a.png", true},
		{"a.JPG", true},
		{"a.jpeg", true},
		{"a.gif", false},
		{"png", false},
	}
	for _, tt := range tests {
		if got := Supported(tt.filename); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.png")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if !Exists(file) {
		t.Error("Exists(file) = false, want true")
	}
	if Exists(dir) {
		t.Error("Exists(dir) = true, want false")
	}
	if Exists("") {
		t.Error("Exists(\"\") = true, want false")
	}
}

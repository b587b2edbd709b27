package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_record_store.go -package=mocks prompt-library/internal/storage RecordStore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// RecordStore defines the interface for prompt record storage.
type RecordStore interface {
	// Load returns every stored record in file order.
	// The backing file is created with only the header if it does not exist.
	Load(ctx context.Context) ([]Record, error)
	// Append adds one record to the end of the table, persists the full table
	// and returns it.
	Append(ctx context.Context, rec Record) ([]Record, error)
}

// RowError reports a backing file row that could not be decoded.
type RowError struct {
	Line   int // 1-based line in the file, the header is line 1
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d column %s: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// CSVStore keeps prompt records in a single CSV file.
// It implements the RecordStore interface.
//
// Calls within one process are serialised. Separate processes sharing the
// file are not coordinated and the last rewrite wins.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// NewCSVStore creates a store backed by the CSV file at path.
// The file is not touched until the first Load or Append.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the location of the backing file.
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads all records from the backing file.
func (s *CSVStore) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Append adds rec to the table and rewrites the backing file.
// No uniqueness check is made on rec.ID. Text fields are stored with
// NormalizeNewlines applied so the returned table matches a later Load.
func (s *CSVStore) Append(ctx context.Context, rec Record) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	records = append(records, NormalizeNewlines(rec))
	if err := s.write(records); err != nil {
		return nil, err
	}

	return records, nil
}

func (s *CSVStore) load() ([]Record, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		if err := s.write(nil); err != nil {
			return nil, err
		}
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open backing file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return decode(f)
}

// decode reads a CSV table. Columns are matched by header name so a file
// with reordered or missing columns still loads; missing columns read as empty.
func decode(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read backing file: %w", err)
	}

	records := make([]Record, 0, len(rows))
	if len(rows) == 0 {
		return records, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}

	for i, row := range rows[1:] {
		rec, err := decodeRow(index, row, i+2)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func decodeRow(index map[string]int, row []string, line int) (Record, error) {
	get := func(column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	app, err := ParseApplication(get("application"))
	if err != nil {
		return Record{}, &RowError{Line: line, Column: "application", Err: err}
	}
	pt, err := ParsePromptType(get("type"))
	if err != nil {
		return Record{}, &RowError{Line: line, Column: "type", Err: err}
	}
	rating, err := strconv.Atoi(strings.TrimSpace(get("rating")))
	if err != nil {
		return Record{}, &RowError{Line: line, Column: "rating", Err: err}
	}

	return Record{
		ID:             get("id"),
		Title:          get("title"),
		Prompt:         get("prompt"),
		Application:    app,
		Type:           pt,
		Tags:           get("tags"),
		Version:        get("version"),
		CreatedAt:      get("created_at"),
		UpdatedAt:      get("updated_at"),
		Notes:          get("notes"),
		ScreenshotPath: get("screenshot_path"),
		Rating:         rating,
	}, nil
}

// write replaces the backing file with the full table. The table is written
// to a temporary file in the same directory and renamed into place.
func (s *CSVStore) write(records []Record) (err error) {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := encode(tmp, records); err != nil {
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace backing file: %w", err)
	}

	return nil
}

func encode(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(Columns))
	for _, rec := range records {
		for i, column := range Columns {
			row[i], _ = rec.Field(column)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record %s: %w", rec.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush backing file: %w", err)
	}
	return nil
}

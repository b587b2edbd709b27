package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// Columns is the fixed header of the backing file, in file order.
var Columns = []string{
	"id",
	"title",
	"prompt",
	"application",
	"type",
	"tags",
	"version",
	"created_at",
	"updated_at",
	"notes",
	"screenshot_path",
	"rating",
}

// DateLayout is the format of created_at and updated_at.
const DateLayout = "2006-01-02"

// DefaultVersion is applied when a record is added without a version.
const DefaultVersion = "v1.0"

// Application is the AI tool a prompt is written for.
type Application string

const (
	ApplicationChatGPT Application = "ChatGPT"
	ApplicationCopilot Application = "Copilot"
	ApplicationGemini  Application = "Gemini"
)

// Applications lists every accepted Application in display order.
var Applications = []Application{ApplicationChatGPT, ApplicationCopilot, ApplicationGemini}

// ParseApplication returns the Application named s.
func ParseApplication(s string) (Application, error) {
	for _, a := range Applications {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown application %q", s)
}

// PromptType classifies what a prompt produces.
type PromptType string

const (
	TypeWriting         PromptType = "Writing"
	TypeCoding          PromptType = "Coding"
	TypeImageGeneration PromptType = "Image Generation"
)

// PromptTypes lists every accepted PromptType in display order.
var PromptTypes = []PromptType{TypeWriting, TypeCoding, TypeImageGeneration}

// ParsePromptType returns the PromptType named s.
func ParsePromptType(s string) (PromptType, error) {
	for _, pt := range PromptTypes {
		if string(pt) == s {
			return pt, nil
		}
	}
	return "", fmt.Errorf("unknown type %q", s)
}

// Record is one stored prompt with its metadata.
type Record struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Prompt         string      `json:"prompt"`
	Application    Application `json:"application"`
	Type           PromptType  `json:"type"`
	Tags           string      `json:"tags"`
	Version        string      `json:"version"`
	CreatedAt      string      `json:"created_at"`
	UpdatedAt      string      `json:"updated_at"`
	Notes          string      `json:"notes"`
	ScreenshotPath string      `json:"screenshot_path"`
	Rating         int         `json:"rating"`
}

// RecordID derives a record id from its title and version.
// Ids are not unique: the same title and version always yield the same id.
func RecordID(title, version string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "_") + "_" + version
}

// Field returns the value of the named column as it is written to the backing file.
// The second result is false for unknown column names.
func (r Record) Field(column string) (string, bool) {
	switch column {
	case "id":
		return r.ID, true
	case "title":
		return r.Title, true
	case "prompt":
		return r.Prompt, true
	case "application":
		return string(r.Application), true
	case "type":
		return string(r.Type), true
	case "tags":
		return r.Tags, true
	case "version":
		return r.Version, true
	case "created_at":
		return r.CreatedAt, true
	case "updated_at":
		return r.UpdatedAt, true
	case "notes":
		return r.Notes, true
	case "screenshot_path":
		return r.ScreenshotPath, true
	case "rating":
		return strconv.Itoa(r.Rating), true
	default:
		return "", false
	}
}

// NormalizeNewlines returns rec with every CRLF in its text fields replaced
// by LF. encoding/csv reads a CRLF inside a quoted field back as LF, and
// browsers submit textarea line breaks as CRLF.
func NormalizeNewlines(rec Record) Record {
	for _, field := range []*string{
		&rec.ID, &rec.Title, &rec.Prompt, &rec.Tags, &rec.Version,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.Notes, &rec.ScreenshotPath,
	} {
		*field = strings.ReplaceAll(*field, "\r\n", "\n")
	}
	return rec
}

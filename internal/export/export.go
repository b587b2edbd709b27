// Package export serialises the prompt library for download.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"prompt-library/internal/storage"
)

// Star is the glyph repeated once per rating point.
const Star = "⭐"

// Stars renders a rating as repeated star glyphs. Non-positive ratings render empty.
func Stars(rating int) string {
	if rating <= 0 {
		return ""
	}
	return strings.Repeat(Star, rating)
}

// Markdown renders one fixed-template section per record, in table order.
func Markdown(records []storage.Record) string {
	var b strings.Builder
	for _, rec := range records {
		writeSection(&b, rec)
	}
	return b.String()
}

func writeSection(b *strings.Builder, rec storage.Record) {
	fmt.Fprintf(b, "# %s\n", rec.Title)
	fmt.Fprintf(b, "**Application**: %s\n\n", rec.Application)
	fmt.Fprintf(b, "**Type**: %s\n\n", rec.Type)
	fmt.Fprintf(b, "**Tags**: %s\n\n", rec.Tags)
	fmt.Fprintf(b, "**Version**: %s\n\n", rec.Version)
	fmt.Fprintf(b, "**Prompt**:\n%s\n\n", blockquote(rec.Prompt))
	fmt.Fprintf(b, "**Notes**:\n%s\n\n", rec.Notes)
	fmt.Fprintf(b, "**Rating**: %s\n\n", Stars(rec.Rating))
	b.WriteString("---\n\n")
}

// blockquote prefixes every line of s so multi-line prompts stay inside the quote.
func blockquote(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

// JSON renders the records as an indented JSON array whose objects carry
// exactly the backing file columns.
func JSON(records []storage.Record) ([]byte, error) {
	if records == nil {
		records = []storage.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return data, nil
}

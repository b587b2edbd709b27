package handlers

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghhtml "github.com/yuin/goldmark/renderer/html"
)

// MarkdownRenderer converts user-entered markdown into safe HTML.
type MarkdownRenderer struct {
	parser goldmark.Markdown
	policy *bluemonday.Policy
}

// NewMarkdownRenderer creates a renderer with GitHub-flavoured extensions.
// Raw HTML in the source is passed through goldmark and then stripped down
// to the user-content policy.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		parser: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithUnsafe(),
				ghhtml.WithHardWraps(),
			),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts content to sanitized HTML.
func (m *MarkdownRenderer) Render(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := m.parser.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(m.policy.SanitizeBytes(buf.Bytes())), nil
}

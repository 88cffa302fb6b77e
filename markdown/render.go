package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	defaultWrap = 100
	minWrap     = 20
)

var (
	converter = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy    = bluemonday.UGCPolicy()

	mu        sync.Mutex
	renderers = map[int]*glamour.TermRenderer{}
)

// ToHTML converts a post body to HTML and sanitizes the result. The output is
// safe to insert into the console without further escaping.
func ToHTML(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := converter.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil //nolint:gosec // sanitized above
}

// RenderWidth styles md for the terminal, wrapping at width columns. Widths
// below minWrap use the default. On any renderer error md is returned as is.
func RenderWidth(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return md
	}
	if width < minWrap {
		width = defaultWrap
	}

	mu.Lock()
	defer mu.Unlock()
	r, err := rendererFor(width)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// rendererFor returns the cached renderer for width. mu must be held.
func rendererFor(width int) (*glamour.TermRenderer, error) {
	if r, ok := renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	renderers[width] = r
	return r, nil
}

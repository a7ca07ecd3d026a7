package generation

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// MarkdownRenderer turns generated Markdown into post HTML.
// Raw HTML in the source is not passed through.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	return &MarkdownRenderer{md: md}
}

func (r *MarkdownRenderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// splitTitle pulls the first level-one ATX heading out of src and returns it
// with the remaining Markdown. ok is false when there is no such heading.
func splitTitle(src string) (title, rest string, ok bool) {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "# ") {
			continue
		}
		title = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		title = strings.Trim(title, "*_\"")
		if title == "" {
			continue
		}
		rest = strings.Join(append(lines[:i:i], lines[i+1:]...), "\n")
		return title, strings.TrimSpace(rest), true
	}
	return "", strings.TrimSpace(src), false
}

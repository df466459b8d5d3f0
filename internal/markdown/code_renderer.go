package markdown

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

// CodeBlockRenderer renders excerpts as fenced code blocks through goldmark,
// so imported code gets the same markup as code written in the document.
type CodeBlockRenderer struct {
	opts ParseOptions
}

var _ interfaces.BlockRenderer = (*CodeBlockRenderer)(nil)

// NewCodeBlockRenderer constructs a renderer using opts for the engine.
func NewCodeBlockRenderer(opts ParseOptions) *CodeBlockRenderer {
	return &CodeBlockRenderer{opts: opts}
}

// RenderCode satisfies interfaces.BlockRenderer.
func (r *CodeBlockRenderer) RenderCode(ctx context.Context, language, text string, _ interfaces.RenderOptions) (template.HTML, error) {
	if err := ensureContext(ctx).Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	engine := newGoldmarkEngine(r.opts)
	if err := engine.Convert([]byte(FencedBlock(language, text)), &buf); err != nil {
		return "", fmt.Errorf("markdown render code block: %w", err)
	}
	return template.HTML(strings.TrimSuffix(buf.String(), "\n")), nil
}

// FencedBlock wraps text in a backtick fence longer than any backtick run it
// contains.
func FencedBlock(language, text string) string {
	fence := strings.Repeat("`", max(3, longestRun(text, '`')+1))

	var b strings.Builder
	b.WriteString(fence)
	b.WriteString(language)
	b.WriteByte('\n')
	b.WriteString(text)
	if text != "" && !strings.HasSuffix(text, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(fence)
	b.WriteByte('\n')
	return b.String()
}

func longestRun(text string, ch byte) int {
	longest, current := 0, 0
	for i := 0; i < len(text); i++ {
		if text[i] != ch {
			current = 0
			continue
		}
		current++
		longest = max(longest, current)
	}
	return longest
}

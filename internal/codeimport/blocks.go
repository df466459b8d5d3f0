package codeimport

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

const (
	containerClass = "code-import-container"
	wrapClass      = "code-import-wrap"
)

var blockTemplates = template.Must(template.New("codeimport").Parse(
	`{{define "code"}}<div class="{{.ContainerClass}}"><div class="code-import-block">` +
		`{{if .ShowHeader}}<div class="code-import-header"><span class="code-import-filename">{{.FilePath}}</span>` +
		`{{if .LineInfo}}<span class="code-import-line-info">{{.LineInfo}}</span>{{end}}</div>{{end}}` +
		`{{.Body}}</div></div>{{end}}` +
		`{{define "error"}}<div class="` + containerClass + `"><div class="code-import-error">` +
		`<div class="code-import-error-header">Import error</div>` +
		`<div class="code-import-error-details">{{.Message}}</div>` +
		`<div class="code-import-error-source">{{.Source}}</div>` +
		`</div></div>{{end}}` +
		`{{define "plain"}}<pre><code class="language-{{.Language}}">{{.Text}}</code></pre>{{end}}`,
))

type codeBlockData struct {
	ContainerClass string
	ShowHeader     bool
	FilePath       string
	LineInfo       string
	Body           template.HTML
}

type errorBlockData struct {
	Message string
	Source  string
}

// LineRangeLabel renders the 1-based label shown next to the file name, e.g.
// "L5-L14". The end bound is shown as written: a positive exclusive 0-based
// end is already the 1-based number of the last included line.
func LineRangeLabel(directive interfaces.ImportDirective) string {
	if !directive.HasRange() {
		return ""
	}
	var parts []string
	if directive.LineBegin != nil {
		parts = append(parts, fmt.Sprintf("L%d", *directive.LineBegin+1))
	}
	if directive.LineEnd != nil {
		parts = append(parts, fmt.Sprintf("L%d", *directive.LineEnd))
	}
	return strings.Join(parts, "-")
}

// RenderCodeContainer wraps rendered code in the import container, adding the
// file header when opts.ShowFileName is set.
func RenderCodeContainer(directive interfaces.ImportDirective, body template.HTML, opts interfaces.RenderOptions) (template.HTML, error) {
	class := containerClass
	if opts.WrapCode {
		class += " " + wrapClass
	}
	return executeBlock("code", codeBlockData{
		ContainerClass: class,
		ShowHeader:     opts.ShowFileName,
		FilePath:       directive.FilePath,
		LineInfo:       LineRangeLabel(directive),
		Body:           body,
	})
}

// RenderErrorContainer builds the inline error block reporting message for directive.
func RenderErrorContainer(message string, directive interfaces.ImportDirective) template.HTML {
	out, err := executeBlock("error", errorBlockData{
		Message: message,
		Source:  directive.Raw,
	})
	if err != nil {
		return template.HTML(template.HTMLEscapeString(message + ": " + directive.Raw))
	}
	return out
}

func executeBlock(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := blockTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("codeimport: render %s block: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// PlainRenderer emits an escaped <pre><code> block. It is the fallback used
// when no markdown-backed renderer is configured.
type PlainRenderer struct{}

// RenderCode satisfies interfaces.BlockRenderer.
func (PlainRenderer) RenderCode(_ context.Context, language, text string, _ interfaces.RenderOptions) (template.HTML, error) {
	return executeBlock("plain", struct {
		Language string
		Text     string
	}{Language: language, Text: text})
}

var _ interfaces.BlockRenderer = PlainRenderer{}

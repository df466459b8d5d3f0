package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-codeimport/internal/codeimport"
	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

type mapReader map[string]string

func (m mapReader) ReadPlainFile(_ context.Context, path string) (string, bool, error) {
	if path == "broken.md" {
		return "", false, errors.New("permission denied")
	}
	content, ok := m[path]
	return content, ok, nil
}

func newTestService(tb testing.TB, files mapReader) *Service {
	tb.Helper()
	cfg := Config{
		Render:      interfaces.DefaultRenderOptions(),
		Concurrency: 2,
	}
	imports := codeimport.NewService(files, NewCodeBlockRenderer(cfg.Parser))
	return NewService(cfg, files, imports)
}

func TestServiceRenderFileResolvesImports(t *testing.T) {
	svc := newTestService(t, mapReader{
		"notes/doc.md":       "# Title\n\nSee @import \"code/main.go\" {line_begin=1 line_end=2} here\n",
		"notes/code/main.go": "package main\nfunc main() {}\n",
	})

	result, err := svc.RenderFile(context.Background(), "notes/doc.md")
	if err != nil {
		t.Fatalf("RenderFile: %v", err)
	}

	html := string(result.HTML)
	for _, want := range []string{
		`<div class="code-import-container">`,
		`<span class="code-import-filename">code/main.go</span>`,
		`<span class="code-import-line-info">L2-L2</span>`,
		"<pre><code class=\"language-go\">func main() {}\n</code></pre>",
		"<p>See ",
		" here</p>",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
	if strings.Contains(html, "@import") {
		t.Fatalf("directive should have been replaced:\n%s", html)
	}
	if result.Report.Rendered != 1 || result.Report.Directives != 1 {
		t.Fatalf("unexpected report %+v", result.Report)
	}
}

func TestServiceRenderLeavesCodeUntouched(t *testing.T) {
	svc := newTestService(t, mapReader{"a.go": "package a"})

	src := "Inline `@import \"a.go\"` stays.\n\n```\n@import \"a.go\"\n```\n"
	result, err := svc.Render(context.Background(), []byte(src), "doc.md")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if result.Report.Directives != 0 {
		t.Fatalf("expected no directives to be processed, got %+v", result.Report)
	}
	if !strings.Contains(string(result.HTML), "<code>@import &quot;a.go&quot;</code>") {
		t.Fatalf("expected code span to be preserved:\n%s", result.HTML)
	}
}

func TestServiceRenderMissingImportEmitsErrorBlock(t *testing.T) {
	svc := newTestService(t, mapReader{})

	result, err := svc.Render(context.Background(), []byte(`Before @import "missing.go" after`), "doc.md")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(result.HTML)
	if !strings.Contains(html, "File not found: missing.go") || !strings.Contains(html, "Import error") {
		t.Fatalf("expected error block:\n%s", html)
	}
	if result.Report.NotFound != 1 {
		t.Fatalf("unexpected report %+v", result.Report)
	}
}

func TestServiceRenderResolvesEscapedPaths(t *testing.T) {
	svc := newTestService(t, mapReader{
		"a_b.go": "package ab",
		"a&b.go": "package amp",
	})

	src := "See @import \"a\\_b.go\" end\n\nAnd @import \"a&amp;b.go\" end\n"
	result, err := svc.Render(context.Background(), []byte(src), "doc.md")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if result.Report.Rendered != 2 || result.Report.NotFound != 0 {
		t.Fatalf("expected both imports to resolve, got %+v", result.Report)
	}
	html := string(result.HTML)
	for _, want := range []string{
		`<span class="code-import-filename">a_b.go</span>`,
		`<span class="code-import-filename">a&amp;b.go</span>`,
		"package amp",
		"<p>See ",
		" end</p>",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestServiceRenderMissingEscapedPathIsEscapedOnce(t *testing.T) {
	svc := newTestService(t, mapReader{})

	src := "Tom &amp; Jerry @import \"x&amp;y.go\"\n"
	result, err := svc.Render(context.Background(), []byte(src), "doc.md")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(result.HTML)
	if !strings.Contains(html, "File not found: x&amp;y.go") {
		t.Fatalf("expected single-escaped path in error block:\n%s", html)
	}
	if strings.Contains(html, "&amp;amp;") {
		t.Fatalf("text was escaped twice:\n%s", html)
	}
	if !strings.Contains(html, "<p>Tom &amp; Jerry ") {
		t.Fatalf("expected surrounding text to render once:\n%s", html)
	}
}

func TestServiceRenderFrontMatterOverridesOptions(t *testing.T) {
	svc := newTestService(t, mapReader{"a.go": "package a"})

	src := "---\ntitle: Demo\ncodeimport:\n  show_file_name: false\n  wrap_code: true\n---\n@import \"a.go\"\n"
	result, err := svc.Render(context.Background(), []byte(src), "doc.md")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if result.Options.ShowFileName || !result.Options.WrapCode {
		t.Fatalf("expected overrides to apply, got %+v", result.Options)
	}
	html := string(result.HTML)
	if strings.Contains(html, "code-import-header") {
		t.Fatalf("expected header to be hidden:\n%s", html)
	}
	if !strings.Contains(html, "code-import-container code-import-wrap") {
		t.Fatalf("expected wrap class:\n%s", html)
	}
	if result.FrontMatter.Title != "Demo" {
		t.Fatalf("expected title, got %q", result.FrontMatter.Title)
	}
}

func TestServiceRenderFileErrors(t *testing.T) {
	svc := newTestService(t, mapReader{})

	_, err := svc.RenderFile(context.Background(), "nope.md")
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", err)
	}

	_, err = svc.RenderFile(context.Background(), "broken.md")
	if !goerrors.IsCategory(err, goerrors.CategoryExternal) {
		t.Fatalf("expected external category, got %v", err)
	}
}

func TestServiceAcceptsNilContext(t *testing.T) {
	svc := newTestService(t, mapReader{
		"doc.md": "See @import \"a.go\"\n",
		"a.go":   "package a",
	})
	var ctx context.Context

	result, err := svc.RenderFile(ctx, "doc.md")
	if err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	if result.Report.Rendered != 1 {
		t.Fatalf("expected import to render, got %+v", result.Report)
	}
	if _, err := svc.RenderBatch(ctx, []string{"doc.md"}); err != nil {
		t.Fatalf("RenderBatch: %v", err)
	}
	if _, _, err := svc.ProcessHTML(ctx, `<p>@import "a.go"</p>`, "doc.md", interfaces.DefaultRenderOptions()); err != nil {
		t.Fatalf("ProcessHTML: %v", err)
	}
}

func TestServiceRenderBatchKeepsOrder(t *testing.T) {
	svc := newTestService(t, mapReader{
		"a.md":   "A @import \"x.go\"",
		"b.md":   "B",
		"c.md":   "C @import \"x.go\"",
		"x.go":   "package x",
		"bad.md": "---\ncodeimport: 3\n---\n",
	})

	results, err := svc.RenderBatch(context.Background(), []string{"c.md", "a.md", "b.md"})
	if err != nil {
		t.Fatalf("RenderBatch: %v", err)
	}
	if len(results) != 3 || results[0].Path != "c.md" || results[1].Path != "a.md" || results[2].Path != "b.md" {
		t.Fatalf("unexpected result order")
	}
	if results[0].Report.Rendered != 1 || results[2].Report.Directives != 0 {
		t.Fatalf("unexpected reports: %+v %+v", results[0].Report, results[2].Report)
	}

	if _, err := svc.RenderBatch(context.Background(), []string{"a.md", "bad.md"}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestServiceProcessHTML(t *testing.T) {
	svc := newTestService(t, mapReader{"docs/a.go": "package a"})

	out, report, err := svc.ProcessHTML(context.Background(),
		`<p>See @import &quot;a.go&quot;</p><pre><code>@import "a.go"</code></pre>`,
		"docs/page.md", interfaces.RenderOptions{ShowFileName: true})
	if err != nil {
		t.Fatalf("ProcessHTML: %v", err)
	}
	if report.Rendered != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if !strings.Contains(out, `<span class="code-import-filename">a.go</span>`) {
		t.Fatalf("expected import block:\n%s", out)
	}
	if !strings.Contains(out, `<pre><code>@import &#34;a.go&#34;</code></pre>`) {
		t.Fatalf("expected verbatim block to survive:\n%s", out)
	}
}

package codeimport_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	codeimport "github.com/goliatone/go-codeimport"
	"github.com/goliatone/go-codeimport/internal/vault"
)

func newModule(t *testing.T, files map[string]string, mutate func(*codeimport.Config)) *codeimport.Module {
	t.Helper()
	cfg := codeimport.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	module, err := codeimport.New(context.Background(), cfg, codeimport.WithFileReader(vault.NewMemoryReader(files)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module
}

func TestModuleRenderFileResolvesRelativeImport(t *testing.T) {
	module := newModule(t, map[string]string{
		"notes/guide.md": "# Guide\n\n@import \"../src/util.py\" {line_begin=1 line_end=-1}\n",
		"src/util.py":    "import os\ndef helper():\n    return 1\n# end",
	}, nil)

	result, err := module.RenderFile(context.Background(), "notes/guide.md")
	if err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	html := string(result.HTML)
	if !strings.Contains(html, "def helper():") || strings.Contains(html, "import os") || strings.Contains(html, "# end") {
		t.Fatalf("expected lines 1..3 of util.py, got %s", html)
	}
	if !strings.Contains(html, "src/util.py") {
		t.Fatalf("expected file name header, got %s", html)
	}
	if !strings.Contains(html, "language-python") {
		t.Fatalf("expected python language class, got %s", html)
	}
}

func TestModuleSpliceTextMissingFile(t *testing.T) {
	module := newModule(t, nil, nil)

	segments, err := module.SpliceText(context.Background(), "before @import \"nope.go\" after", "doc.md", codeimport.DefaultRenderOptions())
	if err != nil {
		t.Fatalf("SpliceText: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected three segments, got %d", len(segments))
	}
	if segments[0].Text != "before " || segments[2].Text != " after" {
		t.Fatalf("unexpected text segments %+v", segments)
	}
	if segments[1].Kind != codeimport.SegmentError {
		t.Fatalf("expected error segment, got %s", segments[1].Kind)
	}
}

func TestModuleProcessHTML(t *testing.T) {
	module := newModule(t, map[string]string{"main.go": "package main"}, func(cfg *codeimport.Config) {
		cfg.Render.ShowFileName = false
	})

	out, report, err := module.ProcessHTML(context.Background(), `<p>@import "main.go"</p><pre><code>@import "main.go"</code></pre>`, "index.md", codeimport.RenderOptions{})
	if err != nil {
		t.Fatalf("ProcessHTML: %v", err)
	}
	if report.Rendered != 1 {
		t.Fatalf("expected one rendered directive, got %+v", report)
	}
	if !strings.Contains(out, `<code>@import "main.go"</code>`) && !strings.Contains(out, `<code>@import &#34;main.go&#34;</code>`) {
		t.Fatalf("expected verbatim code to be untouched, got %s", out)
	}
}

func TestModuleWriteMetrics(t *testing.T) {
	module := newModule(t, map[string]string{"a.go": "a"}, func(cfg *codeimport.Config) {
		cfg.Features.Metrics = true
	})
	if _, err := module.SpliceText(context.Background(), `@import "a.go"`, "", codeimport.DefaultRenderOptions()); err != nil {
		t.Fatalf("SpliceText: %v", err)
	}

	var buf bytes.Buffer
	if err := module.WriteMetrics(&buf); err != nil {
		t.Fatalf("WriteMetrics: %v", err)
	}
	if !strings.Contains(buf.String(), `codeimport_directives_total{outcome="rendered"} 1`) {
		t.Fatalf("expected rendered counter, got %s", buf.String())
	}
}

func TestPureHelpers(t *testing.T) {
	results := codeimport.ParseImportDirectives(`@import "file.go" {line_begin=4 line_end=14}`)
	if len(results) != 1 || results[0].Directive.FilePath != "file.go" {
		t.Fatalf("unexpected parse results %+v", results)
	}
	if got := codeimport.ExtractLines("a\nb\nc", nil, nil); got != "a\nb\nc" {
		t.Fatalf("unexpected extract %q", got)
	}
	if got := codeimport.ExtensionToLanguage(codeimport.FileExtension("x/y.ts")); got != "typescript" {
		t.Fatalf("unexpected language %q", got)
	}
}

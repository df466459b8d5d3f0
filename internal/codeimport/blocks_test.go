package codeimport

import (
	"context"
	"html/template"
	"strings"
	"testing"

	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

func TestLineRangeLabel(t *testing.T) {
	cases := []struct {
		name      string
		directive interfaces.ImportDirective
		want      string
	}{
		{name: "none", directive: interfaces.ImportDirective{}, want: ""},
		{name: "begin", directive: interfaces.ImportDirective{LineBegin: intPtr(4)}, want: "L5"},
		{name: "end", directive: interfaces.ImportDirective{LineEnd: intPtr(14)}, want: "L14"},
		{name: "both", directive: interfaces.ImportDirective{LineBegin: intPtr(4), LineEnd: intPtr(14)}, want: "L5-L14"},
		{name: "negative end", directive: interfaces.ImportDirective{LineBegin: intPtr(0), LineEnd: intPtr(-2)}, want: "L1-L-2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LineRangeLabel(tc.directive); got != tc.want {
				t.Fatalf("LineRangeLabel() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRenderCodeContainerHeader(t *testing.T) {
	directive := interfaces.ImportDirective{FilePath: "src/<main>.go", LineBegin: intPtr(1), LineEnd: intPtr(3)}
	body := template.HTML("<pre><code>x</code></pre>")

	out, err := RenderCodeContainer(directive, body, interfaces.RenderOptions{ShowFileName: true, WrapCode: true})
	if err != nil {
		t.Fatalf("RenderCodeContainer: %v", err)
	}
	html := string(out)
	for _, want := range []string{
		`class="code-import-container code-import-wrap"`,
		`<span class="code-import-filename">src/&lt;main&gt;.go</span>`,
		`<span class="code-import-line-info">L2-L3</span>`,
		`<pre><code>x</code></pre>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in %s", want, html)
		}
	}

	out, err = RenderCodeContainer(directive, body, interfaces.RenderOptions{})
	if err != nil {
		t.Fatalf("RenderCodeContainer: %v", err)
	}
	if strings.Contains(string(out), "code-import-header") {
		t.Fatalf("expected header to be omitted when ShowFileName is false: %s", out)
	}
	if strings.Contains(string(out), wrapClass) {
		t.Fatalf("expected no wrap class: %s", out)
	}
}

func TestRenderErrorContainerEscapesInput(t *testing.T) {
	directive := interfaces.ImportDirective{FilePath: "x.go", Raw: `@import "<x>.go"`}
	out := string(RenderErrorContainer("File not found: <x>.go", directive))

	if !strings.Contains(out, "Import error") {
		t.Fatalf("missing header: %s", out)
	}
	if !strings.Contains(out, "File not found: &lt;x&gt;.go") {
		t.Fatalf("missing escaped message: %s", out)
	}
	if !strings.Contains(out, "@import &#34;&lt;x&gt;.go&#34;") {
		t.Fatalf("missing escaped source: %s", out)
	}
}

func TestPlainRendererEscapesCode(t *testing.T) {
	out, err := PlainRenderer{}.RenderCode(context.Background(), "go", "if a < b {}", interfaces.RenderOptions{})
	if err != nil {
		t.Fatalf("RenderCode: %v", err)
	}
	if string(out) != `<pre><code class="language-go">if a &lt; b {}</code></pre>` {
		t.Fatalf("unexpected output %s", out)
	}
}

package markdown

import (
	"context"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-codeimport/internal/doctree/mdtree"
	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

var passKey = parser.NewContextKey()

// pass carries per-document state from Convert into the AST transformer.
type pass struct {
	ctx        context.Context
	sourcePath string
	opts       interfaces.RenderOptions
	report     interfaces.ProcessReport
	err        error
}

// parserContext returns a parse option carrying the state for one document.
func parserContext(p *pass) parser.ParseOption {
	pc := parser.NewContext()
	pc.Set(passKey, p)
	return parser.WithContext(pc)
}

// Extension wires import resolution into a goldmark engine. Directives are
// resolved after inline parsing and spliced in as CodeImport nodes.
type Extension struct {
	imports interfaces.CodeImportService
}

var _ goldmark.Extender = (*Extension)(nil)

// NewExtension constructs the goldmark extender backed by imports.
func NewExtension(imports interfaces.CodeImportService) *Extension {
	return &Extension{imports: imports}
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&importTransformer{imports: e.imports}, 500),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&importRenderer{}, 500),
	))
}

type importTransformer struct {
	imports interfaces.CodeImportService
}

func (t *importTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	if t.imports == nil {
		return
	}
	state, _ := pc.Get(passKey).(*pass)
	if state == nil {
		state = &pass{ctx: context.Background(), opts: interfaces.DefaultRenderOptions()}
	}

	tree := mdtree.New(doc, reader.Source())
	state.report, state.err = t.imports.Process(state.ctx, tree, state.sourcePath, state.opts)
}

type importRenderer struct{}

func (r *importRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(mdtree.KindCodeImport, r.render)
}

func (r *importRenderer) render(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*mdtree.CodeImport)
	_, _ = w.WriteString(string(n.Segment.HTML))
	return ast.WalkSkipChildren, nil
}

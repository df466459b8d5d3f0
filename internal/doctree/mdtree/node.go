package mdtree

import (
	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

// KindCodeImport is the node kind of a spliced import block.
var KindCodeImport = ast.NewNodeKind("CodeImport")

// CodeImport is an inline node holding a resolved (or failed) import block.
// Renderers write Segment.HTML verbatim.
type CodeImport struct {
	ast.BaseInline
	Segment interfaces.Segment
}

// NewCodeImport wraps segment in a CodeImport node.
func NewCodeImport(segment interfaces.Segment) *CodeImport {
	return &CodeImport{Segment: segment}
}

// Kind implements ast.Node.
func (n *CodeImport) Kind() ast.NodeKind {
	return KindCodeImport
}

// Dump implements ast.Node.
func (n *CodeImport) Dump(source []byte, level int) {
	attrs := map[string]string{
		"Kind": string(n.Segment.Kind),
		"Path": n.Segment.ResolvedPath,
	}
	if n.Segment.Language != "" {
		attrs["Language"] = n.Segment.Language
	}
	ast.DumpHelper(n, source, level, attrs, nil)
}

// Package mdtree exposes the text of a goldmark document as replaceable leaves.
package mdtree

import (
	"errors"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

// ErrForeignLeaf is returned when Replace receives a leaf produced by another tree.
var ErrForeignLeaf = errors.New("mdtree: leaf does not belong to this tree")

// Tree adapts a parsed goldmark document to interfaces.DocumentTree.
type Tree struct {
	root   ast.Node
	source []byte
}

var _ interfaces.DocumentTree = (*Tree)(nil)

// New wraps root, whose text segments point into source.
func New(root ast.Node, source []byte) *Tree {
	return &Tree{root: root, source: source}
}

// Leaf is a maximal run of adjacent text nodes that share a parent and are not
// separated by a line break. goldmark splits text at delimiter characters
// (for example the "_" in line_begin), so a single directive usually spans
// several nodes.
type Leaf struct {
	tree     *Tree
	nodes    []*ast.Text
	text     string
	verbatim bool
}

// Text implements interfaces.TextLeaf.
func (l *Leaf) Text() string { return l.text }

// Verbatim implements interfaces.TextLeaf.
func (l *Leaf) Verbatim() bool { return l.verbatim }

// TextLeaves implements interfaces.DocumentTree. The tree is walked on every
// call so leaves reflect earlier replacements.
func (t *Tree) TextLeaves() []interfaces.TextLeaf {
	if t == nil || t.root == nil {
		return nil
	}
	var out []interfaces.TextLeaf
	t.collect(t.root, false, &out)
	return out
}

func (t *Tree) collect(parent ast.Node, verbatim bool, out *[]interfaces.TextLeaf) {
	verbatim = verbatim || isVerbatim(parent)

	var run []*ast.Text
	flush := func() {
		if len(run) == 0 {
			return
		}
		*out = append(*out, t.newLeaf(run, verbatim))
		run = nil
	}

	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if text, ok := child.(*ast.Text); ok {
			run = append(run, text)
			if text.SoftLineBreak() || text.HardLineBreak() {
				flush()
			}
			continue
		}
		flush()
		t.collect(child, verbatim, out)
	}
	flush()
}

func (t *Tree) newLeaf(nodes []*ast.Text, verbatim bool) *Leaf {
	var b strings.Builder
	for _, node := range nodes {
		b.Write(displayValue(node, t.source))
	}
	return &Leaf{
		tree:     t,
		nodes:    nodes,
		text:     b.String(),
		verbatim: verbatim,
	}
}

// displayValue returns the text a reader sees for node: backslash escapes and
// character references are resolved the same way the html renderer does.
func displayValue(node *ast.Text, source []byte) []byte {
	value := node.Segment.Value(source)
	if node.IsRaw() {
		return value
	}
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}

func isVerbatim(node ast.Node) bool {
	switch node.Kind() {
	case ast.KindCodeSpan, ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindHTMLBlock, ast.KindRawHTML:
		return true
	}
	return false
}

// Replace implements interfaces.DocumentTree. Text segments become raw string
// nodes, since leaf text is already decoded, and code and error segments
// become CodeImport nodes. A line break that ended the run is carried over to
// the replacement.
func (t *Tree) Replace(leaf interfaces.TextLeaf, segments []interfaces.Segment) error {
	l, ok := leaf.(*Leaf)
	if !ok || l.tree != t {
		return ErrForeignLeaf
	}
	if len(l.nodes) == 0 {
		return interfaces.ErrDetachedLeaf
	}

	anchor := l.nodes[0]
	parent := anchor.Parent()
	if parent == nil {
		return interfaces.ErrDetachedLeaf
	}
	for _, node := range l.nodes[1:] {
		if node.Parent() != parent {
			return interfaces.ErrDetachedLeaf
		}
	}

	for _, segment := range segments {
		parent.InsertBefore(parent, anchor, nodeFor(segment))
	}

	last := l.nodes[len(l.nodes)-1]
	if last.SoftLineBreak() || last.HardLineBreak() {
		br := ast.NewText()
		br.SetSoftLineBreak(last.SoftLineBreak())
		br.SetHardLineBreak(last.HardLineBreak())
		parent.InsertBefore(parent, anchor, br)
	}

	for _, node := range l.nodes {
		parent.RemoveChild(parent, node)
	}
	return nil
}

func nodeFor(segment interfaces.Segment) ast.Node {
	if segment.IsBlock() {
		return NewCodeImport(segment)
	}
	str := ast.NewString([]byte(segment.Text))
	str.SetRaw(true)
	return str
}

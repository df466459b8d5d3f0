// Package htmltree exposes the text nodes of an HTML fragment as replaceable
// leaves, for documents rendered by another engine.
package htmltree

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

// ErrForeignLeaf is returned when Replace receives a leaf produced by another tree.
var ErrForeignLeaf = errors.New("htmltree: leaf does not belong to this tree")

// Tree holds a parsed fragment under a synthetic <body> root.
type Tree struct {
	root *html.Node
}

var _ interfaces.DocumentTree = (*Tree)(nil)

func bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

// Parse reads src as the content of a <body> element.
func Parse(src string) (*Tree, error) {
	nodes, err := html.ParseFragment(strings.NewReader(src), bodyContext())
	if err != nil {
		return nil, fmt.Errorf("htmltree: parse fragment: %w", err)
	}
	root := bodyContext()
	for _, node := range nodes {
		root.AppendChild(node)
	}
	return &Tree{root: root}, nil
}

// Render serialises the fragment back to HTML.
func (t *Tree) Render() (string, error) {
	var buf bytes.Buffer
	for node := t.root.FirstChild; node != nil; node = node.NextSibling {
		if err := html.Render(&buf, node); err != nil {
			return "", fmt.Errorf("htmltree: render: %w", err)
		}
	}
	return buf.String(), nil
}

// Leaf is a single text node.
type Leaf struct {
	tree     *Tree
	node     *html.Node
	verbatim bool
}

// Text implements interfaces.TextLeaf.
func (l *Leaf) Text() string { return l.node.Data }

// Verbatim implements interfaces.TextLeaf.
func (l *Leaf) Verbatim() bool { return l.verbatim }

// TextLeaves implements interfaces.DocumentTree.
func (t *Tree) TextLeaves() []interfaces.TextLeaf {
	var out []interfaces.TextLeaf
	var walk func(node *html.Node, verbatim bool)
	walk = func(node *html.Node, verbatim bool) {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			switch child.Type {
			case html.TextNode:
				out = append(out, &Leaf{tree: t, node: child, verbatim: verbatim})
			case html.ElementNode:
				walk(child, verbatim || isVerbatim(child))
			}
		}
	}
	walk(t.root, false)
	return out
}

func isVerbatim(node *html.Node) bool {
	switch node.DataAtom {
	case atom.Code, atom.Pre, atom.Script, atom.Style, atom.Textarea:
		return true
	}
	return false
}

// Replace implements interfaces.DocumentTree. Block segments are parsed as
// body content and inserted in place of the text node.
func (t *Tree) Replace(leaf interfaces.TextLeaf, segments []interfaces.Segment) error {
	l, ok := leaf.(*Leaf)
	if !ok || l.tree != t {
		return ErrForeignLeaf
	}
	parent := l.node.Parent
	if parent == nil {
		return interfaces.ErrDetachedLeaf
	}

	for _, segment := range segments {
		if !segment.IsBlock() {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: segment.Text}, l.node)
			continue
		}
		nodes, err := html.ParseFragment(strings.NewReader(string(segment.HTML)), bodyContext())
		if err != nil {
			return fmt.Errorf("htmltree: parse import block: %w", err)
		}
		for _, node := range nodes {
			parent.InsertBefore(node, l.node)
		}
	}
	parent.RemoveChild(l.node)
	return nil
}

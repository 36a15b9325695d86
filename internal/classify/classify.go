// Package classify turns a parse tree into the flat list of searchable
// spans. The walk is table-driven: the grammar package supplies a
// ClassTable mapping node kinds to categories, and this package only
// decides where to stop descending and what byte range to capture.
package classify

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/sgrep/internal/grammar"
	"github.com/standardbeagle/sgrep/internal/types"
)

// Spans walks the tree in pre-order and returns every classified span in
// source order. A named node whose kind maps to a category is emitted when
// it is a leaf or marked atomic; atomic nodes stop the descent so a string
// literal or comment stays one searchable unit instead of splintering into
// delimiter and content tokens. Anonymous tokens are emitted only when the
// table tags them as keywords. Everything else, ERROR nodes included, is
// descended through, so partial parses still yield the well-formed spans.
func Spans(root *tree_sitter.Node, content []byte, table *grammar.ClassTable) []types.ClassifiedSpan {
	if root == nil || table == nil {
		return nil
	}

	spans := make([]types.ClassifiedSpan, 0, 64)
	stack := make([]*tree_sitter.Node, 0, 64)
	stack = append(stack, root)

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// Batch CGO: read the child count once per node.
		childCount := node.ChildCount()

		if !node.IsNamed() {
			// Anonymous nodes are the grammar's literal tokens ("fn", "{",
			// "=>"); only the keyword set among them is searchable.
			if cat, ok := table.ClassifyToken(node.Kind()); ok {
				spans = appendSpan(spans, node, content, cat)
			}
			continue
		}

		kind := node.Kind()
		if cat, ok := table.Classify(kind); ok {
			if childCount == 0 || table.IsAtomic(kind) {
				spans = appendSpan(spans, node, content, cat)
				continue
			}
		}

		// Push children in reverse so the pop order is left to right.
		for i := childCount; i > 0; i-- {
			if child := node.Child(i - 1); child != nil {
				stack = append(stack, child)
			}
		}
	}

	return spans
}

// appendSpan copies the node's byte range out of content. The text is
// copied, not aliased, so spans stay valid after the tree is closed.
// Zero-width nodes (error-recovery MISSING tokens) and ranges outside the
// buffer are dropped.
func appendSpan(spans []types.ClassifiedSpan, node *tree_sitter.Node, content []byte, cat types.Category) []types.ClassifiedSpan {
	start := int(node.StartByte())
	end := int(node.EndByte())
	if start < 0 || start >= end || end > len(content) {
		return spans
	}
	return append(spans, types.ClassifiedSpan{
		ByteStart: start,
		ByteEnd:   end,
		Category:  cat,
		Text:      string(content[start:end]),
	})
}

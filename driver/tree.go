package driver

import (
	"fmt"
	"io"
)

// Node is a node of a parse tree. A terminal node has no children; its Text and position are set when
// the parser matches a token against it. An epsilon node stands for the empty production.
type Node struct {
	ID       int
	KindName string
	Text     string
	Row      int
	Col      int
	Terminal bool
	Epsilon  bool
	Matched  bool
	Children []*Node
}

// Leaves returns the matched terminal nodes from left to right.
func Leaves(node *Node) []*Node {
	var leaves []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Terminal {
			if n.Matched {
				leaves = append(leaves, n)
			}
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(node)
	return leaves
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "", plainStyle)
}

// PrintColoredTree prints a tree like PrintTree but decorates it with ANSI escape sequences: non-terminals
// in bold red and lexemes in underlined blue.
func PrintColoredTree(w io.Writer, node *Node) {
	printTree(w, node, "", "", ansiStyle)
}

type treeStyle struct {
	kind   func(s string) string
	lexeme func(s string) string
}

var plainStyle = &treeStyle{
	kind:   func(s string) string { return s },
	lexeme: func(s string) string { return s },
}

var ansiStyle = &treeStyle{
	kind:   func(s string) string { return "\x1b[1;31m" + s + "\x1b[0m" },
	lexeme: func(s string) string { return "\x1b[4;34m" + s + "\x1b[0m" },
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string, style *treeStyle) {
	if node == nil {
		return
	}

	switch {
	case node.Epsilon:
		fmt.Fprintf(w, "%v#\n", ruledLine)
	case node.Terminal && node.Matched:
		fmt.Fprintf(w, "%v%v %v\n", ruledLine, node.KindName, style.lexeme(fmt.Sprintf("%#v", node.Text)))
	case node.Terminal:
		fmt.Fprintf(w, "%v!%v\n", ruledLine, node.KindName)
	default:
		fmt.Fprintf(w, "%v%v\n", ruledLine, style.kind(node.KindName))
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix, style)
	}
}

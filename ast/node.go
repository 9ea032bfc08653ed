// Package ast parses Python source code into a language-neutral node tree
// used by the docstring checker.
//
// The tree is deliberately shallow: the checker only needs to know where
// modules, classes, and functions begin, what their ordered body statements
// are, and which statements are bare string-literal expressions (docstring
// candidates). Everything else is carried as an opaque statement node so
// traversal still reaches definitions nested inside conditionals, loops,
// and other compound statements.
//
// Design principles:
//   - Lines are 1-based, columns are 0-based (tree-sitter convention)
//   - Nodes are read-only after Parse returns
//   - No language-specific types leak out of this package
package ast

import "strings"

// Kind identifies the structural role of a Node.
type Kind int

const (
	// KindUnknown indicates an unrecognized node.
	KindUnknown Kind = iota

	// KindModule is the root of a parsed file.
	KindModule

	// KindClass is a class definition (including decorated classes).
	KindClass

	// KindFunction is a function or method definition (including async
	// and decorated forms, at any nesting depth).
	KindFunction

	// KindString is an expression statement whose expression is a bare
	// string literal. The first such statement in a body is that scope's
	// docstring.
	KindString

	// KindStatement is any other statement or construct. Kept in the tree
	// so that definitions nested inside it are still reachable.
	KindStatement
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	case KindString:
		return "string"
	case KindStatement:
		return "statement"
	default:
		return "unknown"
	}
}

// Node is a node in the parsed tree.
//
// StartLine/StartCol locate the construct itself: for a decorated
// definition they point at the def/class keyword line, not the first
// decorator, matching how Python attributes positions to definitions.
type Node struct {
	// Kind is the structural role of this node.
	Kind Kind

	// Name is the declared name for classes and functions. Empty for the
	// module root and for non-definition nodes.
	Name string

	// StartLine is the 1-based line where the node begins.
	StartLine int

	// StartCol is the 0-based column where the node begins.
	StartCol int

	// EndLine is the 1-based line where the node ends. For KindString this
	// is the line of the literal's closing delimiter, which is the line
	// the checker anchors its backward position math on.
	EndLine int

	// Value is the raw literal content for KindString nodes: quotes and
	// string prefix removed, indentation untouched.
	Value string

	// Body holds the node's ordered child statements. For module, class,
	// and function nodes this is the statement list of their block.
	Body []*Node
}

// Docstring is a raw docstring extracted from a node's body.
type Docstring struct {
	// Raw is the literal text between the quotes, not dedented.
	Raw string

	// AnchorLine is the line the docstring statement is attributed to.
	// Multi-line string literals anchor at their closing line.
	AnchorLine int
}

// Docstring returns the node's docstring, if its first body statement is a
// bare string-literal expression. The boolean reports whether one exists.
func (n *Node) Docstring() (Docstring, bool) {
	if n == nil || len(n.Body) == 0 {
		return Docstring{}, false
	}
	first := n.Body[0]
	if first.Kind != KindString {
		return Docstring{}, false
	}
	return Docstring{Raw: first.Value, AnchorLine: first.EndLine}, true
}

// DisplayName returns the node's name, or its kind name when anonymous.
// Used in diagnostics that must name the enclosing scope.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.Kind.String()
}

// Walk traverses the tree rooted at n in pre-order, calling visit for
// every node before descending into its body. Traversal always recurses,
// so nested classes, methods, and inner functions are all visited.
func Walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, child := range n.Body {
		Walk(child, visit)
	}
}

// stripStringLiteral removes the prefix letters and quote delimiters from a
// Python string literal, returning the inner text untouched.
func stripStringLiteral(raw string) string {
	// Drop prefix letters (r, b, u, f in either case, possibly combined).
	s := strings.TrimLeft(raw, "rRbBuUfF")

	for _, q := range []string{`"""`, "'''"} {
		if strings.HasPrefix(s, q) {
			s = strings.TrimPrefix(s, q)
			s = strings.TrimSuffix(s, q)
			return s
		}
	}
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

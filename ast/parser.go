package ast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// DefaultMaxFileSize is the maximum source size Parse accepts by default.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024 // 10MB

// WarnFileSize is the size above which Parse logs a warning.
const WarnFileSize = 1 * 1024 * 1024 // 1MB

// Sentinel errors for the ast package.
var (
	// ErrFileTooLarge indicates the source exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidContent indicates the source is not valid UTF-8.
	ErrInvalidContent = errors.New("invalid content")
)

// ParserOption configures a Parser instance.
type ParserOption func(*Parser)

// WithMaxFileSize sets the maximum source size the parser will accept.
func WithMaxFileSize(bytes int64) ParserOption {
	return func(p *Parser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// Parser parses Python source files into a Node tree.
//
// Parser instances are safe for concurrent use: each Parse call creates
// its own tree-sitter parser internally.
type Parser struct {
	maxFileSize int64
}

// NewParser creates a Parser with the given options.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Language returns the canonical language name for this parser.
func (p *Parser) Language() string {
	return "python"
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".py", ".pyi"}
}

// Parse parses Python source into a Node tree rooted at a KindModule node.
//
// The parser is error-tolerant: syntactically invalid source still yields
// a tree covering whatever tree-sitter could recognize. Complete failures
// are limited to oversized input (ErrFileTooLarge), non-UTF-8 input
// (ErrInvalidContent), and context cancellation.
func (p *Parser) Parse(ctx context.Context, content []byte, filePath string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}

	if int64(len(content)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}
	if len(content) > WarnFileSize {
		slog.Warn("parsing large file",
			slog.String("file", filePath),
			slog.Int("size_bytes", len(content)))
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("tree-sitter returned nil root node for %s", filePath)
	}
	if root.HasError() {
		slog.Debug("source contains syntax errors",
			slog.String("file", filePath))
	}

	module := &Node{
		Kind:      KindModule,
		StartLine: int(root.StartPoint().Row + 1),
		StartCol:  int(root.StartPoint().Column),
		EndLine:   int(root.EndPoint().Row + 1),
		Body:      convertChildren(root, content),
	}
	return module, nil
}

// convertChildren converts every named child of a tree-sitter node.
func convertChildren(ts *sitter.Node, content []byte) []*Node {
	count := int(ts.NamedChildCount())
	if count == 0 {
		return nil
	}
	body := make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		if n := convert(ts.NamedChild(i), content); n != nil {
			body = append(body, n)
		}
	}
	return body
}

// convert maps one tree-sitter node to a Node. Comments are dropped;
// decorated definitions collapse to their inner definition so positions
// match the def/class line rather than the first decorator.
func convert(ts *sitter.Node, content []byte) *Node {
	switch ts.Type() {
	case "comment":
		return nil

	case "decorated_definition":
		for i := 0; i < int(ts.NamedChildCount()); i++ {
			child := ts.NamedChild(i)
			switch child.Type() {
			case "class_definition", "function_definition":
				return convert(child, content)
			}
		}
		return nil

	case "class_definition":
		return convertDefinition(ts, content, KindClass)

	case "function_definition":
		return convertDefinition(ts, content, KindFunction)

	case "expression_statement":
		if ts.NamedChildCount() > 0 {
			expr := ts.NamedChild(0)
			if expr.Type() == "string" {
				raw := string(content[expr.StartByte():expr.EndByte()])
				return &Node{
					Kind:      KindString,
					StartLine: int(ts.StartPoint().Row + 1),
					StartCol:  int(ts.StartPoint().Column),
					EndLine:   int(expr.EndPoint().Row + 1),
					Value:     stripStringLiteral(raw),
				}
			}
		}
		return statementNode(ts, content)

	default:
		return statementNode(ts, content)
	}
}

// convertDefinition builds a class or function node with its block
// statements as Body.
func convertDefinition(ts *sitter.Node, content []byte, kind Kind) *Node {
	n := &Node{
		Kind:      kind,
		StartLine: int(ts.StartPoint().Row + 1),
		StartCol:  int(ts.StartPoint().Column),
		EndLine:   int(ts.EndPoint().Row + 1),
	}
	for i := 0; i < int(ts.NamedChildCount()); i++ {
		child := ts.NamedChild(i)
		switch child.Type() {
		case "identifier":
			if n.Name == "" {
				n.Name = string(content[child.StartByte():child.EndByte()])
			}
		case "block":
			n.Body = convertChildren(child, content)
		}
	}
	return n
}

// statementNode wraps any other construct as an opaque statement,
// converting its children so nested definitions stay reachable.
func statementNode(ts *sitter.Node, content []byte) *Node {
	return &Node{
		Kind:      KindStatement,
		StartLine: int(ts.StartPoint().Row + 1),
		StartCol:  int(ts.StartPoint().Column),
		EndLine:   int(ts.EndPoint().Row + 1),
		Body:      convertChildren(ts, content),
	}
}

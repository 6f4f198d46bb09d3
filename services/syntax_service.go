package services

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// SyntaxIssue describes the first syntax defect found in a piece of code.
type SyntaxIssue struct {
	Message string
	Line    int // 1-based
}

func (i *SyntaxIssue) String() string {
	return fmt.Sprintf("Syntax error: %s at line %d", i.Message, i.Line)
}

// SyntaxValidator parses Python source with tree-sitter without ever
// executing it. A tree-sitter parser is not safe for concurrent use, so
// calls are serialized.
type SyntaxValidator struct {
	mu     sync.Mutex
	parser *sitter.Parser
}

func NewSyntaxValidator() *SyntaxValidator {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &SyntaxValidator{parser: parser}
}

// Validate returns nil when source parses cleanly. The empty string parses to
// an empty module and is therefore valid; rejecting empty input is the
// caller's job. Validate never fails outright: even an internal parser error
// is reported as an issue on line 1.
func (v *SyntaxValidator) Validate(source string) *SyntaxIssue {
	v.mu.Lock()
	defer v.mu.Unlock()

	tree, err := v.parser.ParseCtx(context.Background(), nil, []byte(source))
	if err != nil {
		return &SyntaxIssue{Message: err.Error(), Line: 1}
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}

	node := firstDefect(root)
	if node == nil {
		node = root
	}
	msg := "invalid syntax"
	if node.IsMissing() {
		msg = fmt.Sprintf("missing %q", node.Type())
	}
	return &SyntaxIssue{
		Message: msg,
		Line:    int(node.StartPoint().Row) + 1,
	}
}

// firstDefect walks the tree depth-first for the first ERROR or missing node.
func firstDefect(node *sitter.Node) *sitter.Node {
	if node.IsMissing() || node.Type() == "ERROR" {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstDefect(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

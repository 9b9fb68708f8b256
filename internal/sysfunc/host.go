// Package sysfunc implements the System Function Registry (spec.md
// §4.6, C6): a name→host-callback map invoked when a call is tagged
// "system" (parsed `@name(...)`). Callbacks receive the raw,
// un-evaluated argument nodes plus the call-site node so that
// macro-like primitives (reflection, `syntax`) can inspect syntax
// rather than only values.
package sysfunc

import (
	"github.com/hassan/script/internal/parser/ast"
	"github.com/hassan/script/internal/value"
)

// Host is the narrow view of the Evaluator that system callbacks are
// allowed to use. It deliberately does not expose the full evaluator
// API (memory manager, context internals) so that the registry can't
// reach past the call protocol described in spec.md §4.6.
type Host interface {
	// Eval evaluates a raw AST node to a value, the same way the
	// evaluator would for any ordinary expression.
	Eval(n *ast.Node) (*value.Value, error)
	// Position reports the current file/line/column for reflection
	// primitives (line, column, file).
	Position() (file string, line, col int)
	// FuncNames lists every user- and system-registered function
	// name currently bound in global scope, for func_lists.
	FuncNames() []string
	// AppendSyntax splices a user-defined syntax body onto the
	// current statement chain, for the `syntax` primitive.
	AppendSyntax(name string, body *ast.Node)
}

// Callback is one registered system function's implementation.
type Callback func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error)

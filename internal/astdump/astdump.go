// Package astdump renders a parsed program as the `--ast-file`
// diagnostic artifact: a flat, numbered instruction listing in the
// style of the teacher compiler's internal/ir package, where each
// line names an operation and references its operands by the line
// numbers that produced them, plus a machine-readable `.ast.json`
// sibling.
package astdump

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hassan/script/internal/parser/ast"
)

// entry is one numbered line of the listing: an operation name plus
// the line numbers of the operand entries it references, mirroring
// ir.Instruction's Operands()/Result() shape without needing a full
// three-address-code instruction set.
type entry struct {
	ID       int      `json:"id"`
	Op       string   `json:"op"`
	Detail   string   `json:"detail,omitempty"`
	Operands []int    `json:"operands,omitempty"`
	Line     int      `json:"source_line"`
	Column   int      `json:"source_column"`
}

// Dump is the full artifact: the numbered entries plus the filename
// they were produced from.
type Dump struct {
	File    string  `json:"file"`
	Entries []entry `json:"entries"`
}

type builder struct {
	entries []entry
}

// Build walks program's statement chain and produces a flat listing.
// Each node becomes one entry; nodes that refer to sub-expressions
// record the child entries' IDs as Operands, so the listing can be
// read bottom-up like the teacher's TAC dump.
func Build(filename string, program *ast.Node) *Dump {
	b := &builder{}
	for cur := program; cur != nil; cur = cur.Next {
		b.visit(cur)
	}
	return &Dump{File: filename, Entries: b.entries}
}

func (b *builder) visit(n *ast.Node) int {
	if n == nil {
		return -1
	}
	var operands []int
	detail := n.Name

	switch n.Kind {
	case ast.KindBinaryOp, ast.KindBitwiseOp, ast.KindCompareOp, ast.KindLogicalOp, ast.KindRangeOp:
		l := b.visit(n.Left)
		r := b.visit(n.Right)
		operands = appendValid(operands, l, r)
		detail = n.Operator.String()
	case ast.KindUnaryNot, ast.KindIncDec:
		operands = appendValid(operands, b.visit(n.Operand))
	case ast.KindVarDecl, ast.KindConstDecl:
		operands = appendValid(operands, b.visit(n.Init))
		detail = n.Name
	case ast.KindAssign:
		operands = appendValid(operands, b.visit(n.Target), b.visit(n.Init))
	case ast.KindCall:
		for _, a := range n.Args {
			operands = appendValid(operands, b.visit(a))
		}
		detail = n.Name
	case ast.KindIf, ast.KindElseIf:
		operands = appendValid(operands, b.visit(n.Cond), b.visit(n.Then))
	case ast.KindElse:
		operands = appendValid(operands, b.visit(n.Body))
	case ast.KindWhile:
		operands = appendValid(operands, b.visit(n.Cond), b.visit(n.Body))
	case ast.KindLoop:
		operands = appendValid(operands, b.visit(n.Body))
	case ast.KindFor:
		operands = appendValid(operands, b.visit(n.IterOf), b.visit(n.Body))
		detail = n.Name
	case ast.KindReturn:
		operands = appendValid(operands, b.visit(n.Result))
	case ast.KindBlock:
		for s := n.Statements; s != nil; s = s.Next {
			operands = appendValid(operands, b.visit(s))
		}
	case ast.KindFuncDecl, ast.KindCallbackFuncDecl:
		operands = appendValid(operands, b.visit(n.Body))
		detail = fmt.Sprintf("%s/%d", n.Name, len(n.Params))
	case ast.KindStructDecl:
		detail = n.Name
	case ast.KindImplDecl:
		detail = n.StructName
	case ast.KindStructInstance:
		for _, f := range n.Fields {
			operands = appendValid(operands, b.visit(f.Value))
		}
		detail = n.StructName
	case ast.KindArrayLiteral:
		for _, e := range n.Elements {
			operands = appendValid(operands, b.visit(e))
		}
	case ast.KindMemberAccess:
		operands = appendValid(operands, b.visit(n.Base))
		for _, a := range n.Args {
			operands = appendValid(operands, b.visit(a))
		}
		detail = n.Name
	case ast.KindScopeResolution:
		operands = appendValid(operands, b.visit(n.Base))
		for _, a := range n.Args {
			operands = appendValid(operands, b.visit(a))
		}
		detail = strings.Join(n.Path, "::")
	case ast.KindIndex:
		operands = appendValid(operands, b.visit(n.Base), b.visit(n.Index))
	case ast.KindLiteral:
		detail = n.Raw
	}

	e := entry{
		ID:       len(b.entries),
		Op:       kindName(n.Kind),
		Detail:   detail,
		Operands: operands,
		Line:     n.Line,
		Column:   n.Column,
	}
	b.entries = append(b.entries, e)
	return e.ID
}

func appendValid(dst []int, ids ...int) []int {
	for _, id := range ids {
		if id >= 0 {
			dst = append(dst, id)
		}
	}
	return dst
}

// Text renders the listing the way the teacher's ir package renders
// instructions: one line per entry, operands referenced by ID.
func (d *Dump) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; ast dump for %s\n", d.File)
	for _, e := range d.Entries {
		fmt.Fprintf(&sb, "%4d: %-18s", e.ID, e.Op)
		if e.Detail != "" {
			fmt.Fprintf(&sb, " %q", e.Detail)
		}
		if len(e.Operands) > 0 {
			parts := make([]string, len(e.Operands))
			for i, op := range e.Operands {
				parts[i] = fmt.Sprintf("#%d", op)
			}
			fmt.Fprintf(&sb, " <- %s", strings.Join(parts, ", "))
		}
		fmt.Fprintf(&sb, "  (%d:%d)\n", e.Line, e.Column)
	}
	return sb.String()
}

// JSON renders the machine-readable sibling artifact.
func (d *Dump) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

func kindName(k ast.Kind) string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

var kindNames = map[ast.Kind]string{
	ast.KindNull:             "null",
	ast.KindLiteral:          "literal",
	ast.KindArrayLiteral:     "array",
	ast.KindTypeName:         "type",
	ast.KindVariable:         "var_ref",
	ast.KindVarDecl:          "var_decl",
	ast.KindConstDecl:        "const_decl",
	ast.KindAssign:           "assign",
	ast.KindBinaryOp:         "binop",
	ast.KindBitwiseOp:        "bitop",
	ast.KindCompareOp:        "cmpop",
	ast.KindLogicalOp:        "logop",
	ast.KindRangeOp:          "range",
	ast.KindIncDec:           "incdec",
	ast.KindUnaryNot:         "unary",
	ast.KindIf:               "if",
	ast.KindElseIf:           "elseif",
	ast.KindElse:             "else",
	ast.KindLoop:             "loop",
	ast.KindWhile:            "while",
	ast.KindFor:              "for",
	ast.KindReturn:           "return",
	ast.KindBreak:            "break",
	ast.KindContinue:         "continue",
	ast.KindBlock:            "block",
	ast.KindCall:             "call",
	ast.KindFuncDecl:         "func_decl",
	ast.KindCallbackFuncDecl: "callback_decl",
	ast.KindStructDecl:       "struct_decl",
	ast.KindImplDecl:         "impl_decl",
	ast.KindStructInstance:   "struct_instance",
	ast.KindTypeAliasDecl:    "type_alias",
	ast.KindScopeResolution:  "scope_resolution",
	ast.KindMemberAccess:     "member_access",
	ast.KindIndex:            "index",
	ast.KindUse:              "use",
	ast.KindInclude:          "include",
	ast.KindUserSyntax:       "user_syntax",
}

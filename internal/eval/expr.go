package eval

import (
	"github.com/pkg/errors"

	"github.com/hassan/script/internal/diag"
	"github.com/hassan/script/internal/lexer"
	"github.com/hassan/script/internal/parser/ast"
	"github.com/hassan/script/internal/value"
)

func (ev *Evaluator) evalArrayLiteral(n *ast.Node) (signal, error) {
	elems := make([]*value.Value, 0, len(n.Elements))
	for _, e := range n.Elements {
		sig, err := ev.evalNode(e)
		if err != nil {
			return signal{}, err
		}
		elems = append(elems, sig.val)
	}
	return normal(value.NewArray(elems)), nil
}

func (ev *Evaluator) evalVariableRef(n *ast.Node) (signal, error) {
	v, ok := ev.ctx.Lookup(n.Name)
	if ok {
		ev.ctx.MarkUsed(n.Name)
		cell, err := ev.mem.Get(v.Address)
		if err != nil {
			return signal{}, ev.errf(diag.KindLookupError, n, "variable %q has no backing cell: %s", n.Name, err)
		}
		return normal(value.Unwrap(cell)), nil
	}
	// Fall back to a synthetic struct "type object" so bare struct
	// names can be used on the left of `::` without an instance
	// (static-style method calls).
	if st, ok := ev.structs[n.Name]; ok {
		return normal(ev.typeObject(st)), nil
	}
	return signal{}, ev.errf(diag.KindLookupError, n, "unknown name %q", n.Name)
}

func (ev *Evaluator) typeObject(st *structType) *value.Value {
	var members []*value.Value
	for methodName, methodNode := range st.methods {
		pair, _ := value.NewTuple([]*value.Value{value.Str(methodName), value.WrapNode(methodNode)})
		members = append(members, pair)
	}
	return value.NewStruct(st.name, members)
}

func kindOneLike(v *value.Value) *value.Value {
	switch v.Kind {
	case value.KindF32, value.KindF64:
		return &value.Value{Kind: v.Kind, F: 1}
	case value.KindI8, value.KindI16, value.KindI32, value.KindI64:
		return &value.Value{Kind: v.Kind, I: 1}
	default:
		return &value.Value{Kind: v.Kind, U: 1}
	}
}

func isIntegerKind(k value.Kind) bool {
	switch k {
	case value.KindI8, value.KindI16, value.KindI32, value.KindI64,
		value.KindU8, value.KindU16, value.KindU32, value.KindU64, value.KindUsize:
		return true
	}
	return false
}

func (ev *Evaluator) evalIncDec(n *ast.Node) (signal, error) {
	if n.Operand.Kind != ast.KindVariable {
		return signal{}, ev.errf(diag.KindStatementRequired, n, "++/-- target must be a variable")
	}
	v, ok := ev.ctx.Lookup(n.Operand.Name)
	if !ok {
		return signal{}, ev.errf(diag.KindLookupError, n, "unknown name %q", n.Operand.Name)
	}
	cur, err := ev.mem.Get(v.Address)
	if err != nil {
		return signal{}, ev.errf(diag.KindLookupError, n, "%s", err)
	}
	cur = value.Unwrap(cur)
	if !isIntegerKind(cur.Kind) {
		return signal{}, ev.errf(diag.KindTypeMismatch, n, "++/-- requires an integer variable")
	}
	one := kindOneLike(cur)
	var updated *value.Value
	if n.Operator == lexer.TokenPlusPlus {
		updated, err = cur.Add(one)
	} else {
		updated, err = cur.Sub(one)
	}
	if err != nil {
		return signal{}, ev.errf(diag.KindTypeMismatch, n, "%s", err)
	}
	if err := ev.mem.Update(v.Address, updated); err != nil {
		return signal{}, ev.errf(diag.KindLookupError, n, "%s", err)
	}
	if n.IsPostfix {
		return normal(cur), nil
	}
	return normal(updated), nil
}

func (ev *Evaluator) evalUnary(n *ast.Node) (signal, error) {
	sig, err := ev.evalNode(n.Operand)
	if err != nil {
		return signal{}, err
	}
	operand := value.Unwrap(sig.val)
	switch n.Operator {
	case lexer.TokenMinus:
		r, err := operand.Negate()
		if err != nil {
			return signal{}, ev.errf(diag.KindTypeMismatch, n, "%s", err)
		}
		return normal(r), nil
	case lexer.TokenNot:
		if operand.Kind != value.KindBool {
			return signal{}, ev.errf(diag.KindTypeMismatch, n, "'!' requires a bool operand")
		}
		return normal(value.Bool(!operand.B)), nil
	case lexer.TokenTilde:
		r, err := operand.Not()
		if err != nil {
			return signal{}, ev.errf(diag.KindTypeMismatch, n, "%s", err)
		}
		return normal(r), nil
	default:
		return signal{}, ev.errf(diag.KindEvaluatorBug, n, "unhandled unary operator")
	}
}

func (ev *Evaluator) evalBinaryOp(n *ast.Node) (signal, error) {
	left, right, err := ev.evalPair(n)
	if err != nil {
		return signal{}, err
	}
	var r *value.Value
	var oerr error
	switch n.Operator {
	case lexer.TokenPlus:
		r, oerr = left.Add(right)
	case lexer.TokenMinus:
		r, oerr = left.Sub(right)
	case lexer.TokenStar:
		r, oerr = left.Mul(right)
	case lexer.TokenSlash:
		r, oerr = left.Div(right)
	case lexer.TokenPercent:
		r, oerr = left.Mod(right)
	default:
		return signal{}, ev.errf(diag.KindEvaluatorBug, n, "unhandled binary operator")
	}
	if oerr != nil {
		return signal{}, ev.wrapArith(n, oerr)
	}
	return normal(r), nil
}

func (ev *Evaluator) evalBitwiseOp(n *ast.Node) (signal, error) {
	left, right, err := ev.evalPair(n)
	if err != nil {
		return signal{}, err
	}
	var r *value.Value
	var oerr error
	switch n.Operator {
	case lexer.TokenAmp:
		r, oerr = left.And(right)
	case lexer.TokenPipe:
		r, oerr = left.Or(right)
	case lexer.TokenCaret:
		r, oerr = left.Xor(right)
	case lexer.TokenShl:
		r, oerr = left.Shl(right)
	case lexer.TokenShr:
		r, oerr = left.Shr(right)
	default:
		return signal{}, ev.errf(diag.KindEvaluatorBug, n, "unhandled bitwise operator")
	}
	if oerr != nil {
		return signal{}, ev.wrapArith(n, oerr)
	}
	return normal(r), nil
}

func (ev *Evaluator) evalCompareOp(n *ast.Node) (signal, error) {
	left, right, err := ev.evalPair(n)
	if err != nil {
		return signal{}, err
	}
	var r *value.Value
	switch n.Operator {
	case lexer.TokenEq:
		r = left.Eq(right)
	case lexer.TokenNe:
		r = left.Ne(right)
	case lexer.TokenLt:
		r = left.Lt(right)
	case lexer.TokenGt:
		r = left.Gt(right)
	case lexer.TokenLe:
		r = left.Le(right)
	case lexer.TokenGe:
		r = left.Ge(right)
	default:
		return signal{}, ev.errf(diag.KindEvaluatorBug, n, "unhandled compare operator")
	}
	return normal(r), nil
}

func (ev *Evaluator) evalLogicalOp(n *ast.Node) (signal, error) {
	leftSig, err := ev.evalNode(n.Left)
	if err != nil {
		return signal{}, err
	}
	left := value.Unwrap(leftSig.val)
	if left.Kind != value.KindBool {
		return signal{}, ev.errf(diag.KindTypeMismatch, n, "logical operator requires bool operands")
	}
	if n.Operator == lexer.TokenAndAnd && !left.B {
		return normal(value.Bool(false)), nil
	}
	if n.Operator == lexer.TokenOrOr && left.B {
		return normal(value.Bool(true)), nil
	}
	rightSig, err := ev.evalNode(n.Right)
	if err != nil {
		return signal{}, err
	}
	right := value.Unwrap(rightSig.val)
	if right.Kind != value.KindBool {
		return signal{}, ev.errf(diag.KindTypeMismatch, n, "logical operator requires bool operands")
	}
	return normal(right), nil
}

// asInt64 extracts an int64 from any numeric value, used for range
// bounds ("signed accepted and cast", spec.md §4.5).
func asInt64(v *value.Value) (int64, bool) {
	switch v.Kind {
	case value.KindI8, value.KindI16, value.KindI32, value.KindI64:
		return v.I, true
	case value.KindU8, value.KindU16, value.KindU32, value.KindU64, value.KindUsize:
		return int64(v.U), true
	default:
		return 0, false
	}
}

func (ev *Evaluator) evalRangeOp(n *ast.Node) (signal, error) {
	left, right, err := ev.evalPair(n)
	if err != nil {
		return signal{}, err
	}
	a, ok := asInt64(left)
	if !ok {
		return signal{}, ev.errf(diag.KindTypeMismatch, n, "range bounds must be integers")
	}
	b, ok := asInt64(right)
	if !ok {
		return signal{}, ev.errf(diag.KindTypeMismatch, n, "range bounds must be integers")
	}
	// spec.md's prose describes `a..b` as inclusive, but its own seed
	// scenario (`for i in 0..2` running only i=0,1; `0..3` yielding
	// length 3) is exclusive of b. The worked example is the
	// authoritative, testable behavior; see DESIGN.md.
	var elems []*value.Value
	for i := a; i < b; i++ {
		elems = append(elems, value.Uint(64, uint64(i)))
	}
	return normal(value.NewArray(elems)), nil
}

func (ev *Evaluator) evalPair(n *ast.Node) (*value.Value, *value.Value, error) {
	lsig, err := ev.evalNode(n.Left)
	if err != nil {
		return nil, nil, err
	}
	rsig, err := ev.evalNode(n.Right)
	if err != nil {
		return nil, nil, err
	}
	return value.Unwrap(lsig.val), value.Unwrap(rsig.val), nil
}

func (ev *Evaluator) wrapArith(n *ast.Node, err error) error {
	switch {
	case errors.Is(err, value.ErrDivideByZero):
		return ev.errf(diag.KindDivideByZero, n, "division by zero")
	case errors.Is(err, value.ErrShiftNegative):
		return ev.errf(diag.KindShiftNegative, n, "negative shift count")
	default:
		return ev.errf(diag.KindTypeMismatch, n, "%s", err)
	}
}

package value

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/hassan/script/internal/parser/ast"
)

// FromLiteral converts an AST literal node into a Value using
// smallest-fitting-width selection (spec.md §4.1). This is the
// reimplementation's home for what the teacher's optimizer/constant.go
// did as an IR-level constant-fold pass: here folding happens once, at
// value-construction time, rather than as a post-hoc IR rewrite.
func FromLiteral(n *ast.Node) (*Value, error) {
	switch n.LiteralKind {
	case ast.LiteralString:
		return Str(n.Raw), nil
	case ast.LiteralBool:
		return Bool(n.Raw == "true"), nil
	case ast.LiteralNull:
		return Null(), nil
	case ast.LiteralFloat:
		f, err := strconv.ParseFloat(n.Raw, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid float literal %q", n.Raw)
		}
		return InferFloat(f), nil
	case ast.LiteralInt:
		u, err := strconv.ParseUint(n.Raw, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid integer literal %q", n.Raw)
		}
		return InferUnsigned(u), nil
	default:
		return nil, errors.Errorf("unknown literal kind %v", n.LiteralKind)
	}
}

// InferUnsigned picks the narrowest unsigned variant that holds u.
func InferUnsigned(u uint64) *Value {
	switch {
	case u <= 0xFF:
		return Uint(8, u)
	case u <= 0xFFFF:
		return Uint(16, u)
	case u <= 0xFFFFFFFF:
		return Uint(32, u)
	default:
		return Uint(64, u)
	}
}

// InferSigned picks the narrowest signed variant that holds i (i < 0).
func InferSigned(i int64) *Value {
	switch {
	case i >= -128 && i <= 127:
		return Int(8, i)
	case i >= -32768 && i <= 32767:
		return Int(16, i)
	case i >= -2147483648 && i <= 2147483647:
		return Int(32, i)
	default:
		return Int(64, i)
	}
}

// InferFloat picks F32 if f fits the 32-bit range without loss of the
// requested precision, else F64.
func InferFloat(f float64) *Value {
	if float64(float32(f)) == f {
		return Float(false, f)
	}
	return Float(true, f)
}

// Negate applies unary minus, re-inferring the narrowest signed/float
// width for the negated magnitude (numeric literals are always lexed
// non-negative; `-x` is a unary operator applied afterward).
func (v *Value) Negate() (*Value, error) {
	switch {
	case v.Kind.isFloat():
		return InferFloat(-v.F), nil
	case v.Kind.isSigned():
		return InferSigned(-v.I), nil
	case v.Kind.isInteger():
		return InferSigned(-int64(v.U)), nil
	default:
		return nil, ErrTypeMismatch
	}
}

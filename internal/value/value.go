// Package value implements the runtime value algebra (tagged union of
// scalar, composite, and host-handle values) plus its arithmetic,
// bitwise, shift, and comparison dispatch tables.
//
// Value imports ast (never the reverse) so that a function descriptor's
// body and return-type annotation can be embedded directly inside a
// value as a NodeBlock, per the single-recursive-algebra design in
// SPEC_FULL.md.
package value

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/hassan/script/internal/parser/ast"
)

// Kind tags which fields of a Value are meaningful.
type Kind int

const (
	KindI8 Kind = iota
	KindI16
	KindI32
	KindI64
	KindU8
	KindU16
	KindU32
	KindU64
	KindUsize
	KindF32
	KindF64
	KindString
	KindBool
	KindNull
	KindArray
	KindPointer
	KindTuple
	KindStruct
	KindSystem
	KindNodeBlock
)

func (k Kind) String() string {
	names := map[Kind]string{
		KindI8: "i8", KindI16: "i16", KindI32: "i32", KindI64: "i64",
		KindU8: "u8", KindU16: "u16", KindU32: "u32", KindU64: "u64",
		KindUsize: "usize", KindF32: "f32", KindF64: "f64",
		KindString: "string", KindBool: "bool", KindNull: "null",
		KindArray: "array", KindPointer: "pointer", KindTuple: "tuple",
		KindStruct: "struct", KindSystem: "system", KindNodeBlock: "nodeblock",
	}
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

func (k Kind) isInteger() bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64, KindU8, KindU16, KindU32, KindU64, KindUsize:
		return true
	}
	return false
}

func (k Kind) isSigned() bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64:
		return true
	}
	return false
}

func (k Kind) isFloat() bool { return k == KindF32 || k == KindF64 }

func (k Kind) isNumeric() bool { return k.isInteger() || k.isFloat() }

// SystemHandle is the opaque payload backing KindSystem values: file,
// path, TCP stream, timestamp, loaded library, C string. Shared-ownership
// via the pointer itself; single-threaded execution never contends on it
// (spec.md §9 "Ownership of host handles").
type SystemHandle struct {
	Tag     string // "file", "path", "tcpstream", "timestamp", "library", "cstring"
	Payload interface{}
}

// Value is the tagged union described in spec.md §3.
//
// DESIGN CHOICE: one flat struct with a Kind tag rather than an
// interface plus one concrete type per kind (IntValue, StringValue,
// StructValue, ...) because:
//   - arithmetic and comparison dispatch tables stay flat switch
//     statements over Kind instead of type switches over an interface
//   - a Value can be copied by value everywhere (memory.Manager
//     stores *Value, but the struct itself has no hidden indirection
//     beyond the slice/pointer fields a given Kind actually uses)
//   - it mirrors the teacher's fat-node ast.Node: a single shape that
//     every pipeline stage already knows how to switch on
//
// The tradeoff, same as the fat node: every Value carries fields it
// never uses for most Kinds (an i8 carries an unused Arr/Struct/Sys).
// That waste is acceptable here for the same reason it is in ast.Node
// — uniform shape beats per-kind types for a tree-walker this size.
type Value struct {
	Kind Kind

	I int64   // backs signed integer kinds
	U uint64  // backs unsigned integer kinds
	F float64 // backs F32/F64
	S string  // backs String
	B bool    // backs Bool

	Arr    []*Value // backs Array (elements Pointer-wrapped)
	Ptr    *Value   // backs Pointer (single level)
	Tup    []*Value // backs Tuple, arity 1..12
	Struct []*Value // backs Struct: [0]=String name, [1]=Array of Tuple2(name, value)
	Sys    *SystemHandle
	Nodes  []*ast.Node // backs NodeBlock
}

var (
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrDivideByZero   = errors.New("divide by zero")
	ErrShiftNegative  = errors.New("negative shift count")
	ErrArityMismatch  = errors.New("tuple arity must be between 1 and 12")
	ErrUnorderedKinds = errors.New("values are not ordered")
)

// Null returns the Null value.
func Null() *Value { return &Value{Kind: KindNull} }

// Bool constructs a Bool value.
func Bool(b bool) *Value { return &Value{Kind: KindBool, B: b} }

// Str constructs a String value.
func Str(s string) *Value { return &Value{Kind: KindString, S: s} }

// Int constructs a signed integer value of the given width (8/16/32/64).
func Int(width int, v int64) *Value {
	k := KindI64
	switch width {
	case 8:
		k = KindI8
	case 16:
		k = KindI16
	case 32:
		k = KindI32
	}
	return &Value{Kind: k, I: v}
}

// Uint constructs an unsigned integer value of the given width.
func Uint(width int, v uint64) *Value {
	k := KindU64
	switch width {
	case 8:
		k = KindU8
	case 16:
		k = KindU16
	case 32:
		k = KindU32
	}
	return &Value{Kind: k, U: v}
}

// Float constructs an F32 or F64 value.
func Float(is64 bool, v float64) *Value {
	k := KindF32
	if is64 {
		k = KindF64
	}
	return &Value{Kind: k, F: v}
}

// WrapPointer wraps v in a single level of Pointer indirection.
func WrapPointer(v *Value) *Value { return &Value{Kind: KindPointer, Ptr: v} }

// Unwrap removes exactly one level of Pointer indirection, if present.
func Unwrap(v *Value) *Value {
	if v != nil && v.Kind == KindPointer {
		return v.Ptr
	}
	return v
}

// NewArray wraps each element in Pointer, per spec.md §4.1 array
// conversion rules.
func NewArray(elems []*Value) *Value {
	wrapped := make([]*Value, len(elems))
	for i, e := range elems {
		wrapped[i] = WrapPointer(e)
	}
	return &Value{Kind: KindArray, Arr: wrapped}
}

// NewTuple validates arity 1..12 and builds a Tuple value.
func NewTuple(elems []*Value) (*Value, error) {
	if len(elems) < 1 || len(elems) > 12 {
		return nil, ErrArityMismatch
	}
	return &Value{Kind: KindTuple, Tup: elems}, nil
}

// NewStruct builds a Struct value: index 0 is the name, index 1 is the
// Array of (name,value) field/method tuples.
func NewStruct(name string, members []*Value) *Value {
	return &Value{Kind: KindStruct, Struct: []*Value{Str(name), NewArray(members)}}
}

// StructName returns the declared struct name of a Struct value.
func (v *Value) StructName() string {
	if v.Kind != KindStruct || len(v.Struct) == 0 {
		return ""
	}
	return v.Struct[0].S
}

// StructMembers returns the (name,value) tuple slice of a Struct value.
func (v *Value) StructMembers() []*Value {
	if v.Kind != KindStruct || len(v.Struct) < 2 {
		return nil
	}
	return Unwrap(v.Struct[1]).Arr
}

// FindMember looks up a field or method by name in a Struct value.
func (v *Value) FindMember(name string) (*Value, bool) {
	for _, m := range v.StructMembers() {
		t := Unwrap(m)
		if t.Kind != KindTuple || len(t.Tup) != 2 {
			continue
		}
		if Unwrap(t.Tup[0]).S == name {
			return t.Tup[1], true
		}
	}
	return nil, false
}

// SetMember replaces (or appends) a (name,value) tuple in a Struct value.
func (v *Value) SetMember(name string, val *Value) {
	members := v.StructMembers()
	pair, _ := NewTuple([]*Value{Str(name), val})
	for i, m := range members {
		t := Unwrap(m)
		if t.Kind == KindTuple && len(t.Tup) == 2 && Unwrap(t.Tup[0]).S == name {
			members[i] = WrapPointer(pair)
			return
		}
	}
	v.Struct[1].Arr = append(v.Struct[1].Arr, WrapPointer(pair))
}

// WrapNode embeds a single AST node as a __NodeBlock value, the
// mechanism spec.md §3/§9 uses to carry function bodies and type
// annotations through the value layer. Unlike the original's
// positional (params-array, body, return-type) triple, the whole
// FuncDecl node is embedded directly here: ast.Node already carries
// Params/Body/ReturnType together, so decomposing it into a second
// parallel representation would just be redundant bookkeeping.
func WrapNode(n *ast.Node) *Value {
	return &Value{Kind: KindNodeBlock, Nodes: []*ast.Node{n}}
}

// Node returns the single embedded node of a NodeBlock value, or nil.
func (v *Value) Node() *ast.Node {
	if v == nil || v.Kind != KindNodeBlock || len(v.Nodes) == 0 {
		return nil
	}
	return v.Nodes[0]
}

// Size reports the approximate byte footprint of v: fixed variant
// overhead plus the recursive size of any contained values. Observable
// only through diagnostics (spec.md §4.1).
func (v *Value) Size() int {
	if v == nil {
		return 0
	}
	const wordSize = 8
	switch v.Kind {
	case KindI8, KindU8:
		return 1
	case KindI16, KindU16:
		return 2
	case KindI32, KindU32, KindF32:
		return 4
	case KindI64, KindU64, KindUsize, KindF64:
		return 8
	case KindBool:
		return 1
	case KindNull:
		return 0
	case KindString:
		return len(v.S)
	case KindPointer:
		return wordSize + Unwrap(v).Size()
	case KindArray:
		total := 0
		for _, e := range v.Arr {
			total += e.Size()
		}
		return total
	case KindTuple:
		total := 0
		for _, e := range v.Tup {
			total += e.Size()
		}
		return total
	case KindStruct:
		total := 0
		for _, e := range v.Struct {
			total += e.Size()
		}
		return total
	case KindSystem:
		return wordSize
	case KindNodeBlock:
		return wordSize * len(v.Nodes)
	default:
		return 0
	}
}

// String renders v for diagnostics and the `to_string`/`str` primitives.
func (v *Value) String() string {
	if v == nil {
		return "null"
	}
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindNull:
		return "null"
	case KindString:
		return v.S
	case KindPointer:
		return Unwrap(v).String()
	case KindArray:
		s := "["
		for i, e := range v.Arr {
			if i > 0 {
				s += ", "
			}
			s += Unwrap(e).String()
		}
		return s + "]"
	case KindTuple:
		s := "("
		for i, e := range v.Tup {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + ")"
	case KindStruct:
		return v.StructName() + "{...}"
	case KindSystem:
		return fmt.Sprintf("<system:%s>", v.Sys.Tag)
	case KindNodeBlock:
		return fmt.Sprintf("<nodeblock:%d>", len(v.Nodes))
	default:
		if v.Kind.isFloat() {
			return strconv.FormatFloat(v.F, 'g', -1, 64)
		}
		if v.Kind.isSigned() {
			return strconv.FormatInt(v.I, 10)
		}
		if v.Kind.isInteger() {
			return strconv.FormatUint(v.U, 10)
		}
		return "<?>"
	}
}

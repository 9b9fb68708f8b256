package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferUnsignedNarrowestWidth(t *testing.T) {
	assert.Equal(t, KindU8, InferUnsigned(100).Kind)
	assert.Equal(t, KindU16, InferUnsigned(300).Kind)
	assert.Equal(t, KindU32, InferUnsigned(70000).Kind)
	assert.Equal(t, KindU64, InferUnsigned(1<<40).Kind)
}

func TestInferSignedNarrowestWidth(t *testing.T) {
	assert.Equal(t, KindI8, InferSigned(-5).Kind)
	assert.Equal(t, KindI16, InferSigned(-200).Kind)
	assert.Equal(t, KindI32, InferSigned(-100000).Kind)
}

func TestAddMatchingWidths(t *testing.T) {
	a := Uint(8, 2)
	b := Uint(8, 3)
	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), sum.U)
}

func TestAddMismatchedWidthsErrors(t *testing.T) {
	a := Uint(8, 2)
	b := Uint(16, 2)
	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestStringConcatAssociative(t *testing.T) {
	s, t2, u := Str("a"), Str("b"), Str("c")
	left, _ := s.Add(t2)
	left, _ = left.Add(u)
	right, _ := t2.Add(u)
	right, _ = s.Add(right)
	assert.Equal(t, left.S, right.S)
}

func TestDivideByZero(t *testing.T) {
	a := Uint(32, 10)
	z := Uint(32, 0)
	_, err := a.Div(z)
	assert.ErrorIs(t, err, ErrDivideByZero)
}

func TestModByZeroIsDivideByZero(t *testing.T) {
	a := Uint(32, 10)
	z := Uint(32, 0)
	_, err := a.Mod(z)
	assert.ErrorIs(t, err, ErrDivideByZero)
}

func TestShiftNegativeCountErrors(t *testing.T) {
	a := Uint(32, 1)
	neg := Int(32, -1)
	_, err := a.Shl(neg)
	assert.ErrorIs(t, err, ErrShiftNegative)
}

func TestComparisonCrossVariantIsFalseNotError(t *testing.T) {
	a := Uint(8, 1)
	b := Uint(16, 1)
	assert.False(t, a.Eq(b).B)
	assert.False(t, a.Lt(b).B)
}

func TestPointerSingleLevelUnwrap(t *testing.T) {
	inner := Uint(32, 42)
	wrapped := WrapPointer(inner)
	assert.Equal(t, inner, Unwrap(wrapped))
}

func TestArrayWrapsElementsInPointer(t *testing.T) {
	arr := NewArray([]*Value{Uint(8, 1), Uint(8, 2)})
	require.Len(t, arr.Arr, 2)
	assert.Equal(t, KindPointer, arr.Arr[0].Kind)
	assert.Equal(t, uint64(1), Unwrap(arr.Arr[0]).U)
}

func TestStructMemberLookupAndSet(t *testing.T) {
	s := NewStruct("P", []*Value{})
	pair, _ := NewTuple([]*Value{Str("x"), Uint(32, 3)})
	s.Struct[1].Arr = append(s.Struct[1].Arr, WrapPointer(pair))
	v, ok := s.FindMember("x")
	require.True(t, ok)
	assert.Equal(t, uint64(3), v.U)

	s.SetMember("x", Uint(32, 9))
	v, ok = s.FindMember("x")
	require.True(t, ok)
	assert.Equal(t, uint64(9), v.U)
}

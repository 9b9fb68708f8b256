package memory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/script/internal/value"
)

func TestAllocateGetUpdate(t *testing.T) {
	m := New()
	addr := m.Allocate(value.Uint(32, 1))
	v, err := m.Get(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v.U)

	require.NoError(t, m.Update(addr, value.Uint(32, 2)))
	v, err = m.Get(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v.U)
}

func TestGetMissingAddressErrors(t *testing.T) {
	m := New()
	addr := Address(uuid.Nil)
	_, err := m.Get(addr)
	assert.ErrorIs(t, err, ErrNoSuchAddress)
}

func TestFrameBalanceDeallocatesOwnedCells(t *testing.T) {
	m := New()
	m.PushFrame("add", 0)
	addr := m.Allocate(value.Uint(32, 5))
	m.AddToFrame(addr)
	assert.Equal(t, 1, m.HeapSize())
	m.PopFrame()
	assert.Equal(t, 0, m.HeapSize())
	assert.Equal(t, 0, m.Depth())
}

func TestNestedFramesAreLIFO(t *testing.T) {
	m := New()
	m.PushFrame("outer", 0)
	m.PushFrame("inner", 0)
	assert.Equal(t, 2, m.Depth())
	m.PopFrame()
	assert.Equal(t, 1, m.Depth())
	m.PopFrame()
	assert.Equal(t, 0, m.Depth())
}

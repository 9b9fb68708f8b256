package runctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/script/internal/memory"
)

func TestDeclareLookupLocalThenGlobal(t *testing.T) {
	c := New()
	require.NoError(t, c.Declare("x", false, &Variable{DeclaredType: "u8"}, 1, 1))
	require.NoError(t, c.Declare("x", true, &Variable{DeclaredType: "u8"}, 2, 1))

	v, ok := c.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "u8", v.DeclaredType)

	_, local, ok := c.LookupScope("x")
	require.True(t, ok)
	assert.True(t, local)
}

func TestRedeclarationErrors(t *testing.T) {
	c := New()
	require.NoError(t, c.Declare("x", false, &Variable{}, 1, 1))
	err := c.Declare("x", false, &Variable{}, 2, 1)
	assert.ErrorIs(t, err, ErrRedeclared)
}

func TestSnapshotRestoreLocalScope(t *testing.T) {
	c := New()
	require.NoError(t, c.Declare("outer", true, &Variable{}, 1, 1))
	snap := c.SnapshotLocal()

	require.NoError(t, c.Declare("inner", true, &Variable{}, 2, 1))
	_, ok := c.Lookup("inner")
	assert.True(t, ok)

	c.RestoreLocal(snap)
	_, ok = c.Lookup("inner")
	assert.False(t, ok)
	_, ok = c.Lookup("outer")
	assert.True(t, ok)
}

func TestUnusedLocalsReportsZeroRefcount(t *testing.T) {
	c := New()
	require.NoError(t, c.Declare("used", true, &Variable{}, 1, 1))
	require.NoError(t, c.Declare("unused", true, &Variable{}, 2, 1))
	c.MarkUsed("used")

	report := c.UnusedLocals()
	require.Len(t, report, 1)
	assert.Equal(t, "unused", report[0].Name)
}

func TestAliasResolution(t *testing.T) {
	c := New()
	c.DefineAlias("MyInt", "i32")
	assert.Equal(t, "i32", c.ResolveAlias("MyInt"))
	assert.Equal(t, "i32", c.ResolveAlias("i32"))
}

func TestVariableAddressIsMemoryAddress(t *testing.T) {
	m := memory.New()
	addr := m.Allocate(nil)
	v := &Variable{Address: addr}
	_, err := m.Get(v.Address)
	require.NoError(t, err)
}

// Package memory implements the Memory Manager (spec.md §3/§4.2): a heap
// of addressable cells plus a LIFO stack of named frames that group cells
// for bulk deallocation on function return.
package memory

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hassan/script/internal/value"
)

// Address is an opaque heap-cell identifier. The original Rust
// implementation keys Variable.address off uuid::Uuid; this keeps the
// same addressing scheme rather than a monotonic counter.
//
// DESIGN CHOICE: keep uuid.UUID rather than switch to a monotonic
// uint64 counter (the more obvious Go default) because:
//   - a counter makes addresses comparable by allocation order, which
//     nothing in this package or the evaluator relies on or should
//     start relying on by accident
//   - reference bindings (`let b = &a`) compare and copy Address values
//     directly; uuid.UUID's value semantics already do the right thing
//     here with no extra work
//   - it keeps Allocate() collision-free without the manager owning a
//     shared counter that every PushFrame/PopFrame would need to guard
type Address uuid.UUID

func (a Address) String() string { return uuid.UUID(a).String() }

// ErrNoSuchAddress is returned by Get/Update when the address is absent.
var ErrNoSuchAddress = errors.New("no cell at address")

// frame is a named group of cell addresses, pushed on non-system call
// entry and popped (with its cells freed) on return.
type frame struct {
	name string
	rec  int // recursion level, distinguishes nested self-calls
	cells map[Address]struct{}
}

// Manager owns the heap and the frame stack.
type Manager struct {
	heap   map[Address]*value.Value
	frames []*frame
}

// New creates an empty Manager.
func New() *Manager {
	return &Manager{heap: make(map[Address]*value.Value)}
}

// Allocate copies v into a fresh heap cell and returns its address.
func (m *Manager) Allocate(v *value.Value) Address {
	addr := Address(uuid.New())
	if v != nil {
		cp := *v
		if v.Kind == value.KindArray {
			cp.Arr = append([]*value.Value(nil), v.Arr...)
		}
		v = &cp
	}
	m.heap[addr] = v
	return addr
}

// Get returns the value stored at addr.
func (m *Manager) Get(addr Address) (*value.Value, error) {
	v, ok := m.heap[addr]
	if !ok {
		return nil, ErrNoSuchAddress
	}
	return v, nil
}

// Update overwrites the value stored at addr.
func (m *Manager) Update(addr Address, v *value.Value) error {
	if _, ok := m.heap[addr]; !ok {
		return ErrNoSuchAddress
	}
	m.heap[addr] = v
	return nil
}

// PushFrame starts a new frame for a call to name at the given recursion
// depth (depth distinguishes a function's own frames across recursive
// self-calls).
func (m *Manager) PushFrame(name string, depth int) {
	m.frames = append(m.frames, &frame{name: name, rec: depth, cells: make(map[Address]struct{})})
}

// AddToFrame records addr as owned by the current (top) frame, so a
// later PopFrame deallocates it.
func (m *Manager) AddToFrame(addr Address) {
	if len(m.frames) == 0 {
		return
	}
	top := m.frames[len(m.frames)-1]
	top.cells[addr] = struct{}{}
}

// PopFrame removes the top frame and frees every cell it owns.
func (m *Manager) PopFrame() {
	if len(m.frames) == 0 {
		return
	}
	top := m.frames[len(m.frames)-1]
	m.frames = m.frames[:len(m.frames)-1]
	for addr := range top.cells {
		delete(m.heap, addr)
	}
}

// Depth reports how many frames are currently pushed, used by tests that
// check frame-balance (spec.md §8 "Frame balance").
func (m *Manager) Depth() int { return len(m.frames) }

// HeapSize reports the number of live cells, for diagnostics.
func (m *Manager) HeapSize() int { return len(m.heap) }

// HeapBytes sums the Value Algebra's Size() over every live cell, for
// the --decode-time diagnostic's humanized heap footprint.
func (m *Manager) HeapBytes() int {
	total := 0
	for _, v := range m.heap {
		total += v.Size()
	}
	return total
}

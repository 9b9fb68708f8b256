// Package runctx implements the Context (spec.md §3/§4.3): local and
// global variable mappings, a type-alias table, a comment registry, and
// a usage tracker, plus lookup/declare/assign semantics shared by every
// evaluator operation that touches a name.
package runctx

import (
	"github.com/pkg/errors"

	"github.com/hassan/script/internal/memory"
)

// Variable is the (address, declared type, mutability, size) record from
// spec.md §3; the live value itself always lives in the Memory Manager
// at Address, so that reference bindings (two names, one address) stay
// consistent without a separate cache to keep in sync.
type Variable struct {
	DeclaredType string
	Address      memory.Address
	Mutable      bool
	Size         int
}

// CommentKey locates a comment by source position.
type CommentKey struct{ Line, Column int }

// Usage is a per-declaration reference count, keyed by name; the original
// implementation's used_context stores (line, col, count), not a simple
// boolean, so the "declared but never read" diagnostic can be precise.
type Usage struct {
	Line, Column int
	RefCount     int
}

// Context holds the three name mappings plus comment and usage tracking
// described in spec.md §3.
type Context struct {
	Local  map[string]*Variable
	Global map[string]*Variable
	Alias  map[string]string // type-alias name -> underlying type name

	Comments map[CommentKey][]string
	Usage    map[string]*Usage
}

var (
	ErrUnknownName    = errors.New("unknown name")
	ErrRedeclared     = errors.New("name already declared in this scope")
	ErrImmutable      = errors.New("cannot assign to immutable binding")
)

// New creates an empty Context.
func New() *Context {
	return &Context{
		Local:    make(map[string]*Variable),
		Global:   make(map[string]*Variable),
		Alias:    make(map[string]string),
		Comments: make(map[CommentKey][]string),
		Usage:    make(map[string]*Usage),
	}
}

// SnapshotLocal copies the current local bindings, for the block
// evaluator to restore on scope exit (spec.md §8 "Scope discipline").
func (c *Context) SnapshotLocal() map[string]*Variable {
	snap := make(map[string]*Variable, len(c.Local))
	for k, v := range c.Local {
		snap[k] = v
	}
	return snap
}

// RestoreLocal replaces the local bindings with a prior snapshot.
func (c *Context) RestoreLocal(snap map[string]*Variable) {
	c.Local = snap
}

// Declare inserts name into local or global scope, per isLocal (the
// parser's pre-computed brace-depth flag). Redeclaration in the same
// scope is an error. line/col seed the usage tracker entry at the
// declaration site, matching the original's (line, col, count) record.
func (c *Context) Declare(name string, isLocal bool, v *Variable, line, col int) error {
	target := c.Global
	if isLocal {
		target = c.Local
	}
	if _, exists := target[name]; exists {
		return errors.Wrapf(ErrRedeclared, "%q", name)
	}
	target[name] = v
	c.Usage[name] = &Usage{Line: line, Column: col}
	return nil
}

// Lookup finds name, local scope first then global, per spec.md §4.3.
func (c *Context) Lookup(name string) (*Variable, bool) {
	if v, ok := c.Local[name]; ok {
		return v, true
	}
	if v, ok := c.Global[name]; ok {
		return v, true
	}
	return nil, false
}

// LookupScope returns the variable and whether it lives in local scope
// (needed so Assign can write back into the mapping that actually holds
// the binding).
func (c *Context) LookupScope(name string) (v *Variable, local bool, ok bool) {
	if v, ok := c.Local[name]; ok {
		return v, true, true
	}
	if v, ok := c.Global[name]; ok {
		return v, false, true
	}
	return nil, false, false
}

// MarkUsed bumps the reference count for a read of name.
func (c *Context) MarkUsed(name string) {
	u, ok := c.Usage[name]
	if !ok {
		u = &Usage{}
		c.Usage[name] = u
	}
	u.RefCount++
}

// RegisterComment appends a comment's text to the registry entry for its
// source position, feeding the HTML doc emitter.
func (c *Context) RegisterComment(line, col int, text string) {
	key := CommentKey{line, col}
	c.Comments[key] = append(c.Comments[key], text)
}

// DefineAlias records a `type Name = Underlying;` declaration.
func (c *Context) DefineAlias(name, underlying string) {
	c.Alias[name] = underlying
}

// ResolveAlias follows the alias chain for name, returning name itself
// if it is not an alias.
func (c *Context) ResolveAlias(name string) string {
	seen := map[string]bool{}
	for {
		next, ok := c.Alias[name]
		if !ok || seen[name] {
			return name
		}
		seen[name] = true
		name = next
	}
}

package eval

import (
	"os"

	"github.com/hassan/script/internal/diag"
	"github.com/hassan/script/internal/lexer"
	"github.com/hassan/script/internal/parser"
	"github.com/hassan/script/internal/parser/ast"
	"github.com/hassan/script/internal/runctx"
	"github.com/hassan/script/internal/value"
)

func (ev *Evaluator) evalVarDecl(n *ast.Node) (signal, error) {
	if isReservedWord(n.Name) {
		return signal{}, ev.errf(diag.KindReservedWord, n, "%q is a reserved word", n.Name)
	}
	if n.IsReference {
		if n.Init.Kind != ast.KindVariable {
			return signal{}, ev.errf(diag.KindTypeMismatch, n, "reference initializer must name a variable")
		}
		target, ok := ev.ctx.Lookup(n.Init.Name)
		if !ok {
			return signal{}, ev.errf(diag.KindLookupError, n, "unknown name %q", n.Init.Name)
		}
		v := &runctx.Variable{DeclaredType: ev.declaredTypeName(n.DeclaredType), Address: target.Address, Mutable: n.IsMutable}
		if err := ev.ctx.Declare(n.Name, n.IsLocal, v, n.Line, n.Column); err != nil {
			return signal{}, ev.errf(diag.KindRedefinitionError, n, "%q is already declared", n.Name)
		}
		return normal(value.Null()), nil
	}

	sig, err := ev.evalNode(n.Init)
	if err != nil {
		return signal{}, err
	}
	initVal := sig.val
	addrv := ev.mem.Allocate(initVal)
	ev.mem.AddToFrame(addrv)
	v := &runctx.Variable{
		DeclaredType: ev.declaredTypeName(n.DeclaredType),
		Address:      addrv,
		Mutable:      n.IsMutable,
		Size:         initVal.Size(),
	}
	if err := ev.ctx.Declare(n.Name, n.IsLocal, v, n.Line, n.Column); err != nil {
		return signal{}, ev.errf(diag.KindRedefinitionError, n, "%q is already declared", n.Name)
	}
	return normal(value.Null()), nil
}

func (ev *Evaluator) evalAssign(n *ast.Node) (signal, error) {
	if n.Target.Kind != ast.KindVariable {
		return signal{}, ev.errf(diag.KindStatementRequired, n, "assignment target must be a variable")
	}
	v, ok := ev.ctx.Lookup(n.Target.Name)
	if !ok {
		return signal{}, ev.errf(diag.KindLookupError, n, "unknown name %q", n.Target.Name)
	}
	if !v.Mutable {
		return signal{}, ev.errf(diag.KindImmutableAssign, n, "cannot assign to immutable binding %q", n.Target.Name)
	}
	rhsSig, err := ev.evalNode(n.Init)
	if err != nil {
		return signal{}, err
	}
	newVal := rhsSig.val

	if n.Index != nil {
		cell, err := ev.mem.Get(v.Address)
		if err != nil {
			return signal{}, ev.errf(diag.KindLookupError, n, "%s", err)
		}
		arr := value.Unwrap(cell)
		if arr.Kind != value.KindArray {
			return signal{}, ev.errf(diag.KindTypeMismatch, n, "indexed assignment target is not an array")
		}
		idxSig, err := ev.evalNode(n.Index)
		if err != nil {
			return signal{}, err
		}
		idxVal := value.Unwrap(idxSig.val)
		idx, ok := asInt64(idxVal)
		if !ok {
			return signal{}, ev.errf(diag.KindIndexNotInteger, n, "array index must be an integer")
		}
		if idx < 0 || idx >= int64(len(arr.Arr)) {
			return signal{}, ev.errf(diag.KindIndexOutOfBounds, n, "index %d out of bounds (len %d)", idx, len(arr.Arr))
		}
		arr.Arr[idx] = value.WrapPointer(newVal)
		if err := ev.mem.Update(v.Address, arr); err != nil {
			return signal{}, ev.errf(diag.KindLookupError, n, "%s", err)
		}
		return normal(newVal), nil
	}

	if err := ev.mem.Update(v.Address, newVal); err != nil {
		return signal{}, ev.errf(diag.KindLookupError, n, "%s", err)
	}
	return normal(newVal), nil
}

func (ev *Evaluator) evalFuncDecl(n *ast.Node) (signal, error) {
	if _, exists := ev.funcs[n.Name]; exists {
		return signal{}, ev.errf(diag.KindRedefinitionError, n, "function %q is already declared", n.Name)
	}
	ev.funcs[n.Name] = n
	if n.Name == "main" || n.Name == "Main" {
		ev.entry = n
	}
	addr := ev.mem.Allocate(value.WrapNode(n))
	_ = ev.ctx.Declare(n.Name, false, &runctx.Variable{DeclaredType: "fn", Address: addr, Mutable: false}, n.Line, n.Column)
	return normal(value.Null()), nil
}

func (ev *Evaluator) evalStructDecl(n *ast.Node) (signal, error) {
	if _, exists := ev.structs[n.Name]; exists {
		return signal{}, ev.errf(diag.KindRedefinitionError, n, "struct %q is already declared", n.Name)
	}
	fields := make([]string, 0, len(n.Fields))
	for _, f := range n.Fields {
		fields = append(fields, f.Name)
	}
	ev.structs[n.Name] = &structType{name: n.Name, fields: fields, methods: make(map[string]*ast.Node)}
	return normal(value.Null()), nil
}

func (ev *Evaluator) evalImplDecl(n *ast.Node) (signal, error) {
	st, ok := ev.structs[n.StructName]
	if !ok {
		return signal{}, ev.errf(diag.KindLookupError, n, "no such struct %q", n.StructName)
	}
	for _, m := range n.Elements {
		st.methods[m.Name] = m
	}
	return normal(value.Null()), nil
}

func (ev *Evaluator) structHasField(st *structType, name string) bool {
	for _, f := range st.fields {
		if f == name {
			return true
		}
	}
	return false
}

func (ev *Evaluator) evalStructInstance(n *ast.Node) (signal, error) {
	st, ok := ev.structs[n.StructName]
	if !ok {
		return signal{}, ev.errf(diag.KindLookupError, n, "unknown struct %q", n.StructName)
	}
	var members []*value.Value
	given := make(map[string]bool, len(n.Fields))
	for _, f := range n.Fields {
		if !ev.structHasField(st, f.Name) {
			return signal{}, ev.errf(diag.KindLookupError, n, "struct %q has no field %q", n.StructName, f.Name)
		}
		sig, err := ev.evalNode(f.Value)
		if err != nil {
			return signal{}, err
		}
		pair, _ := value.NewTuple([]*value.Value{value.Str(f.Name), sig.val})
		members = append(members, pair)
		given[f.Name] = true
	}
	for name, method := range st.methods {
		pair, _ := value.NewTuple([]*value.Value{value.Str(name), value.WrapNode(method)})
		members = append(members, pair)
	}
	return normal(value.NewStruct(n.StructName, members)), nil
}

// resolveModule lexes+parses an imported file's contents and returns
// its statement chain.
func (ev *Evaluator) resolveModule(path string) (*ast.Node, error) {
	data, err := ev.readModuleFile(path)
	if err != nil {
		return nil, err
	}
	l := lexer.New(data, path)
	p := parser.New(l)
	chain, errs := p.ParseFile(path)
	if len(errs) > 0 {
		return nil, toDiag(errs[0], path, data)
	}
	return chain, nil
}

func (ev *Evaluator) evalInclude(n *ast.Node) (signal, error) {
	chain, err := ev.resolveModule(n.FilePath)
	if err != nil {
		return signal{}, ev.errf(diag.KindIOError, n, "include %q: %s", n.FilePath, err)
	}
	spliceAfter(n, chain)
	return normal(value.Null()), nil
}

func (ev *Evaluator) evalUse(n *ast.Node) (signal, error) {
	path := n.FilePath
	if path == "" && len(n.ModulePath) > 0 {
		path = n.ModulePath[len(n.ModulePath)-1]
	}
	if path == "" {
		return signal{}, ev.errf(diag.KindIOError, n, "use declaration has no resolvable path")
	}
	if !hasExt(path) {
		path += ".txt"
	}
	chain, err := ev.resolveModule(path)
	if err != nil {
		return signal{}, ev.errf(diag.KindIOError, n, "use %q: %s", path, err)
	}
	var head, tail *ast.Node
	for cur := chain; cur != nil; cur = cur.Next {
		if !cur.IsPublic {
			continue
		}
		clone := *cur
		clone.Next = nil
		if head == nil {
			head = &clone
		} else {
			tail.Next = &clone
		}
		tail = &clone
	}
	spliceAfter(n, head)
	return normal(value.Null()), nil
}

func hasExt(path string) bool {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return false
		}
		if path[i] == '.' {
			return true
		}
	}
	return false
}

// spliceAfter inserts imported (a node chain, possibly nil) between n
// and n's existing Next, so evalChain's for-loop walks straight into
// it on the following iteration.
func spliceAfter(n *ast.Node, imported *ast.Node) {
	if imported == nil {
		return
	}
	old := n.Next
	n.Next = imported
	tail := imported
	for tail.Next != nil {
		tail = tail.Next
	}
	tail.Next = old
}

// readFile is overridable by tests; readModuleFile reads through it,
// by default from disk against the evaluator's working directory.
var readFile = defaultReadFile

func (ev *Evaluator) readModuleFile(path string) (string, error) { return readFile(path) }

func defaultReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// isReservedWord re-exposes the lexer's reserved-word table for
// declaration-name validation at evaluation time. The parser already
// rejects these names, including in files loaded by `use`/`include`,
// so this is a second check behind it.
func isReservedWord(name string) bool { return lexer.ReservedWords[name] }

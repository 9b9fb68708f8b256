package eval

import (
	"strings"

	"github.com/hassan/script/internal/diag"
	"github.com/hassan/script/internal/parser/ast"
	"github.com/hassan/script/internal/runctx"
	"github.com/hassan/script/internal/value"
)

// evalCall implements the call protocol from spec.md §4.5: evaluate
// arguments left-to-right, then either dispatch to the System
// Function Registry (raw nodes, for `@name(...)`) or to a
// user-defined function (evaluated values, push/pop a memory frame).
func (ev *Evaluator) evalCall(n *ast.Node) (signal, error) {
	if n.IsSystem {
		v, err := ev.sys.Call(ev, n.Name, n.Args, n)
		if err != nil {
			return signal{}, ev.errf(diag.KindHostError, n, "%s", err)
		}
		return normal(v), nil
	}

	decl, ok := ev.funcs[n.Name]
	if !ok {
		return signal{}, ev.errf(diag.KindLookupError, n, "unknown function %q", n.Name)
	}
	args, err := ev.evalArgs(n.Args)
	if err != nil {
		return signal{}, err
	}
	return ev.callFunction(decl, args, nil)
}

func (ev *Evaluator) evalArgs(nodes []*ast.Node) ([]*value.Value, error) {
	out := make([]*value.Value, 0, len(nodes))
	for _, a := range nodes {
		sig, err := ev.evalNode(a)
		if err != nil {
			return nil, err
		}
		out = append(out, sig.val)
	}
	return out, nil
}

// callFunction implements the non-system branch of the call protocol:
// push a frame named for decl, bind parameters into a fresh local
// scope (implicitly binding a leading `self` parameter to recv for
// method calls), evaluate the body, pop the frame, and restore the
// caller's local scope.
//
// DESIGN CHOICE: ev.recDepth labels frames with (function name,
// recursion depth) rather than with a monotonic call-site counter because:
//   - the label only has to tell a function's own nested self-calls
//     apart; memory.Manager.PopFrame always pops the top frame and
//     does not consult the name or depth
//   - it mirrors the original's per-function recursion counter rather
//     than introducing a separate global call-stack id scheme
//
// Parameter binding always evaluates args before touching local scope
// (evalArgs runs in the caller's scope, callFunction only swaps scope
// after), so a default-valued or self-referential argument expression
// never sees the callee's half-initialized parameters.
func (ev *Evaluator) callFunction(decl *ast.Node, args []*value.Value, recv *value.Value) (signal, error) {
	depth := ev.recDepth[decl.Name]
	ev.recDepth[decl.Name] = depth + 1
	defer func() { ev.recDepth[decl.Name] = depth }()

	ev.mem.PushFrame(decl.Name, depth)
	defer ev.mem.PopFrame()

	params := decl.Params
	bindSelf := recv != nil && len(params) > 0 && params[0].Name == "self"
	want := len(params)
	if bindSelf {
		want--
	}
	if want != len(args) {
		return signal{}, ev.errf(diag.KindArityMismatch, decl, "function %q expects %d argument(s), got %d", decl.Name, want, len(args))
	}

	savedLocal := ev.ctx.SnapshotLocal()
	ev.ctx.RestoreLocal(make(map[string]*runctx.Variable))
	defer ev.ctx.RestoreLocal(savedLocal)

	argIdx := 0
	for i, p := range params {
		var pv *value.Value
		if bindSelf && i == 0 {
			pv = recv
		} else {
			pv = args[argIdx]
			argIdx++
		}
		addr := ev.mem.Allocate(pv)
		ev.mem.AddToFrame(addr)
		if err := ev.ctx.Declare(p.Name, true, &runctx.Variable{
			DeclaredType: ev.declaredTypeName(p.Type),
			Address:      addr,
			Mutable:      true,
			Size:         pv.Size(),
		}, decl.Line, decl.Column); err != nil {
			return signal{}, ev.errf(diag.KindRedefinitionError, decl, "duplicate parameter %q", p.Name)
		}
	}

	sig, err := ev.evalNode(decl.Body)
	if err != nil {
		return signal{}, err
	}
	if sig.kind == sigReturn {
		return normal(sig.val), nil
	}
	return normal(sig.val), nil
}

// memberLookup finds name among base's struct members, covering both
// the dotted member-access form and the `::` scope-resolution form.
func memberLookup(base *value.Value, name string) (*value.Value, bool) {
	if base.Kind != value.KindStruct {
		return nil, false
	}
	return base.FindMember(name)
}

// evalMemberAccess implements spec.md §4.5 "Member access `a.b`":
// the fixed built-in method set on primitives, plus struct field
// access and method dispatch. Unknown member names are a lookup-error
// (the Open Question in spec.md §9 is resolved that way here; see
// DESIGN.md).
func (ev *Evaluator) evalMemberAccess(n *ast.Node) (signal, error) {
	baseSig, err := ev.evalNode(n.Base)
	if err != nil {
		return signal{}, err
	}
	base := value.Unwrap(baseSig.val)

	if n.IsCall {
		if v, ok := ev.tryBuiltinMethod(n, base); ok {
			return v, nil
		}
		member, ok := memberLookup(base, n.Name)
		if !ok {
			return signal{}, ev.errf(diag.KindLookupError, n, "struct %q has no member %q", base.StructName(), n.Name)
		}
		fn := member.Node()
		if fn == nil {
			return signal{}, ev.errf(diag.KindTypeMismatch, n, "%q is not callable", n.Name)
		}
		args, err := ev.evalArgs(n.Args)
		if err != nil {
			return signal{}, err
		}
		return ev.callFunction(fn, args, base)
	}

	if base.Kind != value.KindStruct {
		return signal{}, ev.errf(diag.KindLookupError, n, "cannot access member %q of a %s", n.Name, base.Kind)
	}
	member, ok := base.FindMember(n.Name)
	if !ok {
		return signal{}, ev.errf(diag.KindLookupError, n, "struct %q has no field %q", base.StructName(), n.Name)
	}
	return normal(value.Unwrap(member)), nil
}

// tryBuiltinMethod implements the fixed primitive method set: max,
// min, to_string, split.
func (ev *Evaluator) tryBuiltinMethod(n *ast.Node, base *value.Value) (signal, bool) {
	switch n.Name {
	case "to_string":
		return normal(value.Str(base.String())), true
	case "max", "min":
		if len(n.Args) != 1 {
			return signal{}, false
		}
		argSig, err := ev.evalNode(n.Args[0])
		if err != nil {
			return signal{}, true
		}
		other := value.Unwrap(argSig.val)
		var pickOther bool
		if n.Name == "max" {
			pickOther = base.Lt(other).B
		} else {
			pickOther = base.Gt(other).B
		}
		if pickOther {
			return normal(other), true
		}
		return normal(base), true
	case "split":
		if base.Kind != value.KindString || len(n.Args) != 1 {
			return signal{}, false
		}
		argSig, err := ev.evalNode(n.Args[0])
		if err != nil {
			return signal{}, true
		}
		sep := value.Unwrap(argSig.val)
		if sep.Kind != value.KindString {
			return signal{}, false
		}
		parts := strings.Split(base.S, sep.S)
		elems := make([]*value.Value, len(parts))
		for i, p := range parts {
			elems[i] = value.Str(p)
		}
		return normal(value.NewArray(elems)), true
	default:
		return signal{}, false
	}
}

// evalScopeResolution implements spec.md §4.5 "Scope resolution
// `A::B::…`": evaluate the prefix expression, then treat the final
// path segment as a field access or, when parenthesized, a method
// call against the prefix value.
func (ev *Evaluator) evalScopeResolution(n *ast.Node) (signal, error) {
	baseSig, err := ev.evalNode(n.Base)
	if err != nil {
		return signal{}, err
	}
	base := value.Unwrap(baseSig.val)
	name := n.Path[len(n.Path)-1]

	member, ok := memberLookup(base, name)
	if !ok {
		return signal{}, ev.errf(diag.KindLookupError, n, "struct %q has no member %q", base.StructName(), name)
	}
	if n.IsCall {
		fn := member.Node()
		if fn == nil {
			return signal{}, ev.errf(diag.KindTypeMismatch, n, "%q is not callable", name)
		}
		args, err := ev.evalArgs(n.Args)
		if err != nil {
			return signal{}, err
		}
		return ev.callFunction(fn, args, base)
	}
	return normal(value.Unwrap(member)), nil
}

// evalIf evaluates a standalone If/ElseIf/Else node reached outside
// evalChain's chain-consuming fast path (e.g. nested directly as an
// expression's operand); evalChain is the normal entry point since it
// also consumes the trailing elseif/else siblings.
func (ev *Evaluator) evalIf(n *ast.Node) (signal, error) {
	sig, _, err := ev.evalIfChain(n)
	return sig, err
}

// evalIfChain evaluates the if/elseif*/else chain starting at n and
// returns the last node it consumed, so callers walking a Next chain
// can resume immediately after it.
//
// DESIGN CHOICE: this exists because the parser (parser.go's parseIf)
// links ElseIf/Else onto the If node's own Next pointer and then
// splices the whole chain into the enclosing block's statement list,
// rather than nesting ElseIf/Else under the If node as children. That
// flattening is why evalChain cannot just evaluate one node at a time:
// it has to hand the whole chain to evalIfChain and skip to the node
// this function says it consumed, or the ElseIf/Else siblings get
// re-evaluated a second time as independent top-level statements.
func (ev *Evaluator) evalIfChain(n *ast.Node) (signal, *ast.Node, error) {
	if n.Kind == ast.KindElse {
		sig, err := ev.evalNode(n.Body)
		return sig, n, err
	}

	condSig, err := ev.evalNode(n.Cond)
	if err != nil {
		return signal{}, n, err
	}
	cond := value.Unwrap(condSig.val)
	if cond.Kind != value.KindBool {
		return signal{}, n, ev.errf(diag.KindTypeMismatch, n, "if condition must be a bool")
	}

	alt := n.Next
	if cond.B {
		sig, err := ev.evalNode(n.Then)
		last := n
		for alt != nil && (alt.Kind == ast.KindElseIf || alt.Kind == ast.KindElse) {
			last = alt
			alt = alt.Next
		}
		return sig, last, err
	}

	if alt == nil || (alt.Kind != ast.KindElseIf && alt.Kind != ast.KindElse) {
		return normal(value.Null()), n, nil
	}
	return ev.evalIfChain(alt)
}

// evalWhile implements spec.md §4.5 "while": re-evaluate Cond each
// iteration, absorbing Break and propagating Return upward.
func (ev *Evaluator) evalWhile(n *ast.Node) (signal, error) {
	for {
		condSig, err := ev.evalNode(n.Cond)
		if err != nil {
			return signal{}, err
		}
		cond := value.Unwrap(condSig.val)
		if cond.Kind != value.KindBool {
			return signal{}, ev.errf(diag.KindTypeMismatch, n, "while condition must be a bool")
		}
		if !cond.B {
			return normal(value.Null()), nil
		}
		sig, err := ev.evalNode(n.Body)
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return normal(value.Null()), nil
		case sigReturn:
			return sig, nil
		}
	}
}

// evalLoop implements spec.md §4.5 "loop": an unconditional repeat,
// exited only by break or return.
func (ev *Evaluator) evalLoop(n *ast.Node) (signal, error) {
	for {
		sig, err := ev.evalNode(n.Body)
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return normal(value.Null()), nil
		case sigReturn:
			return sig, nil
		}
	}
}

// evalFor implements spec.md §4.5 "for v in iterable": iterable must
// evaluate to an array (range expressions already produce one), and
// the loop variable is freshly bound each iteration.
func (ev *Evaluator) evalFor(n *ast.Node) (signal, error) {
	iterSig, err := ev.evalNode(n.IterOf)
	if err != nil {
		return signal{}, err
	}
	iter := value.Unwrap(iterSig.val)
	if iter.Kind != value.KindArray {
		return signal{}, ev.errf(diag.KindTypeMismatch, n, "for-loop requires an array or range")
	}

	for _, elem := range iter.Arr {
		snap := ev.ctx.SnapshotLocal()
		addr := ev.mem.Allocate(value.Unwrap(elem))
		ev.mem.AddToFrame(addr)
		_ = ev.ctx.Declare(n.Name, true, &runctx.Variable{
			Address: addr,
			Mutable: true,
			Size:    value.Unwrap(elem).Size(),
		}, n.Line, n.Column)

		sig, err := ev.evalNode(n.Body)
		ev.ctx.RestoreLocal(snap)
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return normal(value.Null()), nil
		case sigReturn:
			return sig, nil
		}
	}
	return normal(value.Null()), nil
}

// evalIndex implements array indexing as an expression (as opposed to
// the assignment-target form handled in evalAssign).
func (ev *Evaluator) evalIndex(n *ast.Node) (signal, error) {
	baseSig, err := ev.evalNode(n.Base)
	if err != nil {
		return signal{}, err
	}
	base := value.Unwrap(baseSig.val)
	if base.Kind != value.KindArray {
		return signal{}, ev.errf(diag.KindTypeMismatch, n, "indexing requires an array")
	}
	idxSig, err := ev.evalNode(n.Index)
	if err != nil {
		return signal{}, err
	}
	idx, ok := asInt64(value.Unwrap(idxSig.val))
	if !ok {
		return signal{}, ev.errf(diag.KindIndexNotInteger, n, "array index must be an integer")
	}
	if idx < 0 || idx >= int64(len(base.Arr)) {
		return signal{}, ev.errf(diag.KindIndexOutOfBounds, n, "index %d out of bounds (len %d)", idx, len(base.Arr))
	}
	return normal(value.Unwrap(base.Arr[idx])), nil
}

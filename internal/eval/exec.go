package eval

import (
	"github.com/hassan/script/internal/diag"
	"github.com/hassan/script/internal/parser/ast"
	"github.com/hassan/script/internal/value"
)

// evalChain walks a sibling chain via Next, evaluating each node in
// order (spec.md §4.5 "Blocks"). EndStatement and comment nodes are
// skipped without affecting the running result; any other signal
// besides Normal aborts the remainder of the chain immediately.
func (ev *Evaluator) evalChain(head *ast.Node) (signal, error) {
	result := value.Null()
	for cur := head; cur != nil; cur = cur.Next {
		switch cur.Kind {
		case ast.KindSingleComment, ast.KindMultiComment:
			ev.ctx.RegisterComment(cur.Line, cur.Column, cur.Raw)
			continue
		case ast.KindEndStatement:
			continue
		case ast.KindUse, ast.KindInclude:
			sig, err := ev.evalNode(cur)
			if err != nil {
				return signal{}, err
			}
			result = sig.val
			continue
		case ast.KindIf:
			// The parser flattens an if/elseif*/else chain into
			// sibling statements linked by Next (see parseIf in
			// internal/parser); evaluating only the taken branch
			// means consuming the rest of that chain here so the
			// loop resumes at the real following statement instead
			// of a leftover elseif/else node.
			sig, last, err := ev.evalIfChain(cur)
			if err != nil {
				return signal{}, err
			}
			if sig.stopsBlock() {
				return sig, nil
			}
			result = sig.val
			cur = last
			continue
		}
		sig, err := ev.evalNode(cur)
		if err != nil {
			return signal{}, err
		}
		if sig.stopsBlock() {
			return sig, nil
		}
		result = sig.val
	}
	return normal(result), nil
}

// evalBlock saves the local scope, evaluates the block's statement
// chain, and restores the snapshot — spec.md §8's "Scope discipline"
// invariant.
func (ev *Evaluator) evalBlock(n *ast.Node) (signal, error) {
	snap := ev.ctx.SnapshotLocal()
	sig, err := ev.evalChain(n.Statements)
	ev.ctx.RestoreLocal(snap)
	return sig, err
}

// evalNode dispatches on n.Kind, implementing every evaluator family
// from spec.md §4.5. Unknown node kinds are a fatal evaluator-bug
// error per spec.md §7.
func (ev *Evaluator) evalNode(n *ast.Node) (signal, error) {
	if n == nil {
		return normal(value.Null()), nil
	}
	ev.trackPos(n)

	switch n.Kind {
	case ast.KindNull:
		return normal(value.Null()), nil
	case ast.KindLiteral:
		v, err := value.FromLiteral(n)
		if err != nil {
			return signal{}, ev.errf(diag.KindTypeMismatch, n, "%s", err)
		}
		return normal(v), nil
	case ast.KindArrayLiteral:
		return ev.evalArrayLiteral(n)
	case ast.KindVariable:
		return ev.evalVariableRef(n)
	case ast.KindVarDecl, ast.KindConstDecl:
		return ev.evalVarDecl(n)
	case ast.KindAssign:
		return ev.evalAssign(n)
	case ast.KindBinaryOp:
		return ev.evalBinaryOp(n)
	case ast.KindBitwiseOp:
		return ev.evalBitwiseOp(n)
	case ast.KindCompareOp:
		return ev.evalCompareOp(n)
	case ast.KindLogicalOp:
		return ev.evalLogicalOp(n)
	case ast.KindRangeOp:
		return ev.evalRangeOp(n)
	case ast.KindIncDec:
		return ev.evalIncDec(n)
	case ast.KindUnaryNot:
		return ev.evalUnary(n)
	case ast.KindIf:
		return ev.evalIf(n)
	case ast.KindElseIf, ast.KindElse:
		// evalChain and evalIfChain consume these as part of an if
		// chain; this case covers one dispatched on its own.
		return ev.evalIf(n)
	case ast.KindWhile:
		return ev.evalWhile(n)
	case ast.KindLoop:
		return ev.evalLoop(n)
	case ast.KindFor:
		return ev.evalFor(n)
	case ast.KindReturn:
		if n.Result == nil {
			return returnSignal(value.Null()), nil
		}
		sig, err := ev.evalNode(n.Result)
		if err != nil {
			return signal{}, err
		}
		return returnSignal(sig.val), nil
	case ast.KindBreak:
		return breakSignal, nil
	case ast.KindContinue:
		return continueSignal, nil
	case ast.KindBlock:
		return ev.evalBlock(n)
	case ast.KindCall:
		return ev.evalCall(n)
	case ast.KindFuncDecl, ast.KindCallbackFuncDecl:
		return ev.evalFuncDecl(n)
	case ast.KindStructDecl:
		return ev.evalStructDecl(n)
	case ast.KindImplDecl:
		return ev.evalImplDecl(n)
	case ast.KindStructInstance:
		return ev.evalStructInstance(n)
	case ast.KindTypeAliasDecl:
		ev.ctx.DefineAlias(n.Name, ev.declaredTypeName(n.DeclaredType))
		return normal(value.Null()), nil
	case ast.KindScopeResolution:
		return ev.evalScopeResolution(n)
	case ast.KindMemberAccess:
		return ev.evalMemberAccess(n)
	case ast.KindIndex:
		return ev.evalIndex(n)
	case ast.KindUse:
		return ev.evalUse(n)
	case ast.KindInclude:
		return ev.evalInclude(n)
	case ast.KindUserSyntax:
		return ev.evalNode(n.SyntaxBody)
	case ast.KindTypeName:
		return normal(value.Str(n.Name)), nil
	default:
		return signal{}, ev.errf(diag.KindEvaluatorBug, n, "unhandled node kind %v", n.Kind)
	}
}

func (ev *Evaluator) declaredTypeName(n *ast.Node) string {
	if n == nil {
		return ""
	}
	return n.Name
}

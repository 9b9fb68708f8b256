package eval

import "github.com/hassan/script/internal/value"

// signalKind distinguishes the ways evaluating a node or statement
// chain can exit besides falling off the end. spec.md §9 flags the
// source's sentinel-string break/continue as a weak point and
// recommends a proper sum type; this is that type, threaded through
// every evalNode return instead of smuggled through *value.Value.
type signalKind int

const (
	sigNormal signalKind = iota
	sigBreak
	sigContinue
	sigReturn
)

// signal is Normal(value) | Break | Continue | Return(value).
//
// DESIGN CHOICE: a struct with a kind tag rather than a Go error
// (returning a sentinel breakErr/continueErr/returnErr up the call
// stack) because:
//   - break/continue/return all carry along the "last value produced"
//     for tail-expression semantics; threading that through error
//     values would mean a custom error type anyway
//   - evalChain needs to distinguish "stop this block" (any non-normal
//     signal) from "stop this loop" (break/return only) in two
//     different call sites; two bool methods on a struct read clearer
//     than two different sentinel-error checks
//   - it keeps every evalNode signature at (signal, error), so a real
//     Go error still means "evaluation failed", never "control flow"
type signal struct {
	kind signalKind
	val  *value.Value
}

func normal(v *value.Value) signal { return signal{kind: sigNormal, val: v} }

var (
	breakSignal    = signal{kind: sigBreak}
	continueSignal = signal{kind: sigContinue}
)

func returnSignal(v *value.Value) signal { return signal{kind: sigReturn, val: v} }

// stopsLoop reports whether s should stop a while/loop/for iteration
// (a break always does; a return propagates through loops too).
func (s signal) stopsLoop() bool {
	return s.kind == sigBreak || s.kind == sigReturn
}

// stopsBlock reports whether s should abort the remainder of a
// statement chain (spec.md §4.5 "return... aborts further block
// evaluation"; break/continue also must not fall through to sibling
// statements inside the body they appear in).
func (s signal) stopsBlock() bool {
	return s.kind != sigNormal
}

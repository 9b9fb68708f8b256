// Package eval implements the Evaluator (spec.md §4.5, C5): a
// recursive walker dispatching on AST node kind, backed by the Value
// Algebra, Memory Manager, and Context packages, with host primitives
// delegated to the System Function Registry.
package eval

import (
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hassan/script/internal/diag"
	"github.com/hassan/script/internal/lexer"
	"github.com/hassan/script/internal/memory"
	"github.com/hassan/script/internal/parser"
	"github.com/hassan/script/internal/parser/ast"
	"github.com/hassan/script/internal/runctx"
	"github.com/hassan/script/internal/sysfunc"
	"github.com/hassan/script/internal/value"
)

// structType is the registry entry for a declared struct: its field
// names and the methods merged in by `impl` blocks.
type structType struct {
	name    string
	fields  []string
	methods map[string]*ast.Node
}

// Evaluator walks the parsed program and produces a final value. It
// exposes the fluent builder SPEC_FULL.md describes
// (eval.New(source, filename).WithDoc(...)...), adapted from the
// original Rust cli.rs's Decoder::load_script(...).generate_doc(...)
// chain.
type Evaluator struct {
	ctx *runctx.Context
	mem *memory.Manager
	sys *sysfunc.Registry

	source   string
	filename string
	program  *ast.Node

	structs map[string]*structType
	funcs   map[string]*ast.Node
	entry   *ast.Node

	recDepth map[string]int

	parseErr error

	curLine, curCol int

	withDoc          bool
	withASTFile      bool
	withErrorLogFile bool
	withDecodeTime   bool
	decodeElapsed    time.Duration
}

// New parses source (named filename for diagnostics) and returns a
// builder-ready Evaluator. Parse errors are retained and surfaced on
// the first Run() call, matching spec.md §7's "first error wins"
// policy.
func New(source, filename string) *Evaluator {
	ev := &Evaluator{
		ctx:      runctx.New(),
		mem:      memory.New(),
		sys:      sysfunc.New(),
		source:   source,
		filename: filename,
		structs:  make(map[string]*structType),
		funcs:    make(map[string]*ast.Node),
		recDepth: make(map[string]int),
	}
	l := lexer.New(source, filename)
	p := parser.New(l)
	program, errs := p.ParseFile(filename)
	ev.program = program
	for _, e := range errs {
		diag.Log.WithFields(diag.Fields{"file": filename}).Warn(e.Error())
	}
	if len(errs) > 0 {
		ev.parseErr = toDiag(errs[0], filename, source)
	}
	return ev
}

// WithDoc toggles HTML doc emission to ./script-doc/doc.html on Run.
func (ev *Evaluator) WithDoc(on bool) *Evaluator { ev.withDoc = on; return ev }

// WithASTFile toggles the --ast-file diagnostic artifact.
func (ev *Evaluator) WithASTFile(on bool) *Evaluator { ev.withASTFile = on; return ev }

// WithErrorLogFile redirects diag.Log to ./error.log for the duration
// of Run, restoring stderr afterward.
func (ev *Evaluator) WithErrorLogFile(on bool) *Evaluator { ev.withErrorLogFile = on; return ev }

// WithDecodeTime toggles elapsed-time measurement, retrievable via
// DecodeTime() after Run returns.
func (ev *Evaluator) WithDecodeTime(on bool) *Evaluator { ev.withDecodeTime = on; return ev }

// DecodeTime reports the duration of the most recent Run, when
// WithDecodeTime(true) was set; zero otherwise.
func (ev *Evaluator) DecodeTime() time.Duration { return ev.decodeElapsed }

// Program exposes the parsed AST for the --ast-file artifact writer.
func (ev *Evaluator) Program() *ast.Node { return ev.program }

// Context exposes the comment registry for the doc emitter.
func (ev *Evaluator) Context() *runctx.Context { return ev.ctx }

// toDiag converts a *parser.ParseError into the shared diagnostic
// type, so parse and evaluation failures render identically.
func toDiag(err error, filename, source string) error {
	pe, ok := err.(*parser.ParseError)
	if !ok {
		return diag.Wrap(diag.KindParseError, filename, 0, 0, source, err)
	}
	return diag.New(diag.KindParseError, filename, pe.Pos.Line, pe.Pos.Column, source, pe.Msg)
}

// Run evaluates the parsed program, auto-invoking a `main`/`Main`
// entry function if one was declared, then emits any artifacts the
// builder flags requested.
func (ev *Evaluator) Run() (*value.Value, error) {
	if ev.parseErr != nil {
		return nil, ev.parseErr
	}

	if ev.withErrorLogFile {
		f, err := os.Create("error.log")
		if err == nil {
			prev := diag.Log.Out
			diag.Configure(f, logrus.InfoLevel)
			defer func() { diag.Configure(prev, diag.Log.Level); f.Close() }()
		}
	}

	start := time.Now()
	sig, err := ev.evalChain(ev.program)
	if err == nil && ev.entry != nil {
		sig, err = ev.callFunction(ev.entry, nil, nil)
	}
	ev.decodeElapsed = time.Since(start)
	if ev.withDecodeTime {
		diag.Log.WithFields(diag.Fields{
			"elapsed":    ev.decodeElapsed.String(),
			"heap_bytes": humanize.Bytes(uint64(ev.mem.HeapBytes())),
		}).Info("decode finished")
	}
	if err != nil {
		return nil, err
	}

	if ev.withASTFile {
		if werr := writeASTFile(ev); werr != nil {
			diag.Log.WithError(werr).Warn("failed to write ast-file artifact")
		}
	}
	if ev.withDoc {
		if werr := writeDocFile(ev); werr != nil {
			diag.Log.WithError(werr).Warn("failed to write doc artifact")
		}
	}

	for _, report := range ev.ctx.UnusedLocals() {
		diag.Log.WithFields(diag.Fields{
			"file":   ev.filename,
			"line":   report.Line,
			"column": report.Column,
		}).Warnf("unused local %q", report.Name)
	}

	if sig.val == nil {
		return value.Null(), nil
	}
	return sig.val, nil
}

// EvalSource parses src as an additional chunk of the same program and
// evaluates it against the Evaluator's existing Context and Memory, so
// declarations persist across calls. This backs the `-i/--interactive-mode`
// REPL, which re-uses one Evaluator for every line instead of starting
// fresh each time.
func (ev *Evaluator) EvalSource(src string) (*value.Value, error) {
	l := lexer.New(src, ev.filename)
	p := parser.New(l)
	chain, errs := p.ParseFile(ev.filename)
	if len(errs) > 0 {
		return nil, toDiag(errs[0], ev.filename, src)
	}
	sig, err := ev.evalChain(chain)
	if err != nil {
		return nil, err
	}
	if ev.program == nil {
		ev.program = chain
	} else {
		tail := ev.program
		for tail.Next != nil {
			tail = tail.Next
		}
		tail.Next = chain
	}
	if sig.val == nil {
		return value.Null(), nil
	}
	return sig.val, nil
}

// Eval implements sysfunc.Host: system callbacks evaluate raw AST
// nodes through the same dispatcher ordinary expressions use.
func (ev *Evaluator) Eval(n *ast.Node) (*value.Value, error) {
	sig, err := ev.evalNode(n)
	if err != nil {
		return nil, err
	}
	return sig.val, nil
}

// Position implements sysfunc.Host.
func (ev *Evaluator) Position() (string, int, int) { return ev.filename, ev.curLine, ev.curCol }

// FuncNames implements sysfunc.Host.
func (ev *Evaluator) FuncNames() []string {
	names := make([]string, 0, len(ev.funcs)+len(ev.sys.Names()))
	for name := range ev.funcs {
		names = append(names, name)
	}
	names = append(names, ev.sys.Names()...)
	return names
}

// AppendSyntax implements sysfunc.Host: splices a UserSyntax node
// carrying body onto the tail of the current program chain, so the
// next top-level iteration will pick it up (spec.md §4.6 "syntax").
func (ev *Evaluator) AppendSyntax(name string, body *ast.Node) {
	n := &ast.Node{Kind: ast.KindUserSyntax, SyntaxName: name, SyntaxBody: body}
	if ev.program == nil {
		ev.program = n
		return
	}
	tail := ev.program
	for tail.Next != nil {
		tail = tail.Next
	}
	tail.Next = n
}

func (ev *Evaluator) errf(kind diag.Kind, n *ast.Node, format string, a ...interface{}) error {
	return diag.New(kind, ev.filename, n.Line, n.Column, ev.source, errors.Errorf(format, a...).Error())
}

func (ev *Evaluator) trackPos(n *ast.Node) {
	if n == nil {
		return
	}
	ev.curLine, ev.curCol = n.Line, n.Column
}

package sysfunc

import (
	"github.com/ebitengine/purego"
	"github.com/pkg/errors"

	"github.com/hassan/script/internal/parser/ast"
	"github.com/hassan/script/internal/value"
)

// dynlibState tracks libraries opened via load_library, keyed by the
// path they were opened with so a script can call_library against the
// same handle repeatedly without re-resolving it.
type dynlibState struct {
	handles map[string]uintptr
}

func newDynlibState() *dynlibState {
	return &dynlibState{handles: make(map[string]uintptr)}
}

// registerDynlib wires `load_library` and a sample `call_library`
// entrypoint invocation, backed by purego's dlopen/dlsym/syscall
// trio (spec.md §4.6 "Dynamic linkage"). purego lets this bind
// arbitrary C ABI symbols without a cgo toolchain.
func (r *Registry) registerDynlib() {
	r.register("load_library", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		path, err := argString(h, args, 0)
		if err != nil {
			return nil, err
		}
		if handle, ok := r.dyn.handles[path]; ok {
			return &value.Value{Kind: value.KindSystem, Sys: &value.SystemHandle{Tag: "library", Payload: handle}}, nil
		}
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			return nil, errors.Wrapf(err, "load_library %q", path)
		}
		r.dyn.handles[path] = handle
		return &value.Value{Kind: value.KindSystem, Sys: &value.SystemHandle{Tag: "library", Payload: handle}}, nil
	})

	// call_library(lib, "symbol", arg0, arg1, ...) invokes a resolved
	// symbol with up to purego's supported argument count, each
	// argument coerced to a machine word. This is the "sample
	// entrypoints for a specific native library" primitive family:
	// the script supplies the ABI knowledge, the registry supplies
	// the dlsym+syscall plumbing.
	r.register("call_library", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		vs, err := evalAll(h, args)
		if err != nil {
			return nil, err
		}
		if len(vs) < 2 {
			return nil, errors.New("call_library requires (library, symbol, ...)")
		}
		lib := value.Unwrap(vs[0])
		if lib.Kind != value.KindSystem || lib.Sys.Tag != "library" {
			return nil, errors.New("call_library: first argument must be a loaded library handle")
		}
		handle := lib.Sys.Payload.(uintptr)
		symbol := value.Unwrap(vs[1]).String()
		sym, err := purego.Dlsym(handle, symbol)
		if err != nil {
			return nil, errors.Wrapf(err, "call_library: symbol %q", symbol)
		}
		var callArgs []uintptr
		for _, v := range vs[2:] {
			callArgs = append(callArgs, wordOf(value.Unwrap(v)))
		}
		r1, _, errno := purego.SyscallN(sym, callArgs...)
		if errno != 0 {
			return nil, errors.Errorf("call_library: %q returned errno %d", symbol, errno)
		}
		return value.InferUnsigned(uint64(r1)), nil
	})
}

// wordOf coerces a value to the machine word purego.SyscallN expects.
// Only numeric values carry a word: strings pass as 0, and so do System
// handles, to_cstring results included.
func wordOf(v *value.Value) uintptr {
	switch {
	case v.Kind == value.KindString:
		return uintptr(0)
	case v.F != 0:
		return uintptr(int64(v.F))
	case v.I != 0:
		return uintptr(v.I)
	default:
		return uintptr(v.U)
	}
}

package sysfunc

import (
	"github.com/pkg/errors"

	"github.com/hassan/script/internal/parser/ast"
	"github.com/hassan/script/internal/value"
)

// Registry is the name→callback mapping populated at construction.
// Every primitive family is registered unconditionally; no build-time
// flag leaves any of them out.
type Registry struct {
	fns map[string]Callback
	dyn *dynlibState
}

// New builds a Registry with the full built-in set from spec.md §4.6
// registered. Registration is an explicit step, mirroring the
// teacher's explicit pass-registration in its compiler driver.
func New() *Registry {
	r := &Registry{fns: make(map[string]Callback), dyn: newDynlibState()}
	r.registerReflection()
	r.registerCoercion()
	r.registerMath()
	r.registerIO()
	r.registerProcess()
	r.registerMedia()
	r.registerDynlib()
	r.registerMeta()
	return r
}

// Call dispatches name to its registered callback. An unregistered
// name is a host-error, per spec.md §7.
func (r *Registry) Call(h Host, name string, args []*ast.Node, call *ast.Node) (*value.Value, error) {
	fn, ok := r.fns[name]
	if !ok {
		return nil, errors.Errorf("unknown system function %q", name)
	}
	return fn(h, args, call)
}

// Names lists every registered system function, for func_lists.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	return names
}

func (r *Registry) register(name string, fn Callback) { r.fns[name] = fn }

func evalAll(h Host, args []*ast.Node) ([]*value.Value, error) {
	out := make([]*value.Value, 0, len(args))
	for _, a := range args {
		v, err := h.Eval(a)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

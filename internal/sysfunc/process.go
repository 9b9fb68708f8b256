package sysfunc

import (
	"os"
	"os/exec"
	"time"

	"github.com/pkg/errors"

	"github.com/hassan/script/internal/parser/ast"
	"github.com/hassan/script/internal/value"
)

// registerProcess wires `cmd`, `args`, `exit`, `sleep`. These block
// the single evaluation thread synchronously, per spec.md §5.
func (r *Registry) registerProcess() {
	r.register("cmd", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		vs, err := evalAll(h, args)
		if err != nil {
			return nil, err
		}
		if len(vs) == 0 {
			return nil, errors.New("cmd requires a program name")
		}
		name := value.Unwrap(vs[0]).String()
		var extra []string
		for _, v := range vs[1:] {
			extra = append(extra, value.Unwrap(v).String())
		}
		out, err := exec.Command(name, extra...).CombinedOutput()
		if err != nil {
			return nil, errors.Wrapf(err, "cmd %q", name)
		}
		return value.Str(string(out)), nil
	})
	r.register("args", func(h Host, argNodes []*ast.Node, call *ast.Node) (*value.Value, error) {
		elems := make([]*value.Value, 0, len(os.Args)-1)
		for _, a := range os.Args[1:] {
			elems = append(elems, value.Str(a))
		}
		return value.NewArray(elems), nil
	})
	r.register("exit", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		vs, err := evalAll(h, args)
		if err != nil {
			return nil, err
		}
		code := 0
		if len(vs) > 0 {
			code = int(value.Unwrap(vs[0]).U)
		}
		os.Exit(code)
		return value.Null(), nil
	})
	r.register("sleep", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		vs, err := evalAll(h, args)
		if err != nil {
			return nil, err
		}
		if len(vs) == 0 {
			return nil, errors.New("sleep requires a millisecond count")
		}
		ms := value.Unwrap(vs[0]).U
		time.Sleep(time.Duration(ms) * time.Millisecond)
		return value.Null(), nil
	})
}

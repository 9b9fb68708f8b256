package sysfunc

import (
	"github.com/hassan/script/internal/parser/ast"
	"github.com/hassan/script/internal/value"
)

// registerReflection wires `line`, `column`, `file`, `func_lists`.
func (r *Registry) registerReflection() {
	r.register("line", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		_, line, _ := h.Position()
		return value.InferUnsigned(uint64(line)), nil
	})
	r.register("column", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		_, _, col := h.Position()
		return value.InferUnsigned(uint64(col)), nil
	})
	r.register("file", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		file, _, _ := h.Position()
		return value.Str(file), nil
	})
	r.register("func_lists", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		names := h.FuncNames()
		elems := make([]*value.Value, len(names))
		for i, n := range names {
			elems[i] = value.Str(n)
		}
		return value.NewArray(elems), nil
	})
}

package sysfunc

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/hassan/script/internal/parser/ast"
	"github.com/hassan/script/internal/value"
)

// registerMeta wires `syntax`, `print`, `printf`.
func (r *Registry) registerMeta() {
	r.register("syntax", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		if len(args) < 2 {
			return nil, errors.New("syntax requires (name, body)")
		}
		nameNode := args[0]
		name := nameNode.Name
		if name == "" {
			name = nameNode.Raw
		}
		h.AppendSyntax(name, args[1])
		return value.Null(), nil
	})
	r.register("print", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		vs, err := evalAll(h, args)
		if err != nil {
			return nil, err
		}
		parts := make([]interface{}, len(vs))
		for i, v := range vs {
			parts[i] = value.Unwrap(v).String()
		}
		fmt.Println(parts...)
		return value.Null(), nil
	})
	r.register("printf", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		vs, err := evalAll(h, args)
		if err != nil {
			return nil, err
		}
		if len(vs) == 0 {
			return nil, errors.New("printf requires a format string")
		}
		format := value.Unwrap(vs[0])
		if format.Kind != value.KindString {
			return nil, errors.New("printf: first argument must be a string")
		}
		rest := make([]interface{}, 0, len(vs)-1)
		for _, v := range vs[1:] {
			rest = append(rest, nativeOf(value.Unwrap(v)))
		}
		fmt.Printf(format.S, rest...)
		return value.Null(), nil
	})
}

func nativeOf(v *value.Value) interface{} {
	switch v.Kind {
	case value.KindString:
		return v.S
	case value.KindBool:
		return v.B
	case value.KindF32, value.KindF64:
		return v.F
	case value.KindI8, value.KindI16, value.KindI32, value.KindI64:
		return v.I
	default:
		return v.U
	}
}

package sysfunc

import (
	"github.com/pkg/errors"

	"github.com/hassan/script/internal/parser/ast"
	"github.com/hassan/script/internal/value"
)

// registerCoercion wires `str`, `to_cstring`, `as_ptr`, `as`, `to_path`.
func (r *Registry) registerCoercion() {
	r.register("str", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		vs, err := evalAll(h, args)
		if err != nil {
			return nil, err
		}
		if len(vs) == 0 {
			return value.Str(""), nil
		}
		return value.Str(value.Unwrap(vs[0]).String()), nil
	})
	r.register("to_cstring", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		vs, err := evalAll(h, args)
		if err != nil {
			return nil, err
		}
		if len(vs) == 0 {
			return nil, errors.New("to_cstring requires one argument")
		}
		return &value.Value{Kind: value.KindSystem, Sys: &value.SystemHandle{
			Tag:     "cstring",
			Payload: value.Unwrap(vs[0]).String(),
		}}, nil
	})
	r.register("as_ptr", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		vs, err := evalAll(h, args)
		if err != nil {
			return nil, err
		}
		if len(vs) == 0 {
			return nil, errors.New("as_ptr requires one argument")
		}
		return value.WrapPointer(vs[0]), nil
	})
	r.register("as", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		vs, err := evalAll(h, args)
		if err != nil {
			return nil, err
		}
		if len(vs) != 2 || value.Unwrap(vs[1]).Kind != value.KindString {
			return nil, errors.New("as requires (value, type-name string)")
		}
		return coerce(value.Unwrap(vs[0]), value.Unwrap(vs[1]).S)
	})
	r.register("to_path", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		vs, err := evalAll(h, args)
		if err != nil {
			return nil, err
		}
		if len(vs) == 0 {
			return nil, errors.New("to_path requires one argument")
		}
		return &value.Value{Kind: value.KindSystem, Sys: &value.SystemHandle{
			Tag:     "path",
			Payload: value.Unwrap(vs[0]).String(),
		}}, nil
	})
}

// coerce converts v into the numeric/string variant named by
// typeName, the runtime backing for the `as` primitive.
func coerce(v *value.Value, typeName string) (*value.Value, error) {
	asFloat := func() float64 {
		switch {
		case v.Kind == value.KindString:
			return 0
		case v.F != 0:
			return v.F
		case v.I != 0:
			return float64(v.I)
		default:
			return float64(v.U)
		}
	}
	switch typeName {
	case "i8":
		return value.Int(8, int64(asFloat())), nil
	case "i16":
		return value.Int(16, int64(asFloat())), nil
	case "i32":
		return value.Int(32, int64(asFloat())), nil
	case "i64":
		return value.Int(64, int64(asFloat())), nil
	case "u8":
		return value.Uint(8, uint64(asFloat())), nil
	case "u16":
		return value.Uint(16, uint64(asFloat())), nil
	case "u32":
		return value.Uint(32, uint64(asFloat())), nil
	case "u64", "usize":
		return value.Uint(64, uint64(asFloat())), nil
	case "f32":
		return value.Float(false, asFloat()), nil
	case "f64":
		return value.Float(true, asFloat()), nil
	case "string":
		return value.Str(v.String()), nil
	default:
		return nil, errors.Errorf("unknown target type %q for 'as'", typeName)
	}
}

package sysfunc

import (
	"math"

	"github.com/pkg/errors"

	"github.com/hassan/script/internal/parser/ast"
	"github.com/hassan/script/internal/value"
)

// registerMath wires `sin`, `cos`, `tan`. No third-party trig library
// appears anywhere in the retrieval pack (see DESIGN.md), so this is
// the one primitive family that stays on the standard library.
func (r *Registry) registerMath() {
	trig := func(f func(float64) float64) Callback {
		return func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
			vs, err := evalAll(h, args)
			if err != nil {
				return nil, err
			}
			if len(vs) != 1 {
				return nil, errors.New("expected exactly one argument")
			}
			x := value.Unwrap(vs[0])
			var f64 float64
			switch {
			case x.Kind == value.KindF32 || x.Kind == value.KindF64:
				f64 = x.F
			case x.F != 0:
				f64 = x.F
			case x.I != 0:
				f64 = float64(x.I)
			default:
				f64 = float64(x.U)
			}
			return value.Float(true, f(f64)), nil
		}
	}
	r.register("sin", trig(math.Sin))
	r.register("cos", trig(math.Cos))
	r.register("tan", trig(math.Tan))
}

package infer

import (
	"github.com/typefirst/goalsolve/ir"
	"github.com/typefirst/goalsolve/solve"
)

// Delegate is the reference implementation of the solver's inference
// boundary: a variable table plus the collaborators constant evaluation
// needs.
type Delegate struct {
	*Table
	Registry *Registry
	Consts   *ConstEvaluator
}

var _ solve.Delegate = (*Delegate)(nil)

func NewDelegate(registry *Registry) *Delegate {
	return &Delegate{
		Table:    NewTable(),
		Registry: registry,
		Consts:   NewConstEvaluator(),
	}
}

// TryConstEval attempts to reduce an unevaluated constant. It refuses while
// the constant's arguments still contain inference variables, and reports
// failure (not an error) when the body cannot be evaluated yet.
func (d *Delegate) TryConstEval(env *ir.Env, uv *ir.UnevaluatedConst) (ir.Const, bool) {
	for _, arg := range uv.Args {
		if _, isVar := inferKey(d.Resolve(arg)); isVar {
			return nil, false
		}
	}
	value, err := d.Consts.Eval(uv)
	if err != nil {
		d.Table.logger.Debug("const evaluation failed", "const", uv.String(), "err", err)
		return nil, false
	}
	return value, true
}

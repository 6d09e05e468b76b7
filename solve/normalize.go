package solve

import (
	"github.com/typefirst/goalsolve/ir"
)

// StructurallyNormalize forces ty into weak-head-normal form so the caller
// can match on its head constructor safely.
//
// Matching on a type anywhere it might still be an alias is incomplete and
// therefore unsound during coherence; call this first. For a type that is
// already alias-free this is the identity and evaluates nothing.
func (ec *EvalCtx) StructurallyNormalize(env *ir.Env, ty ir.Type) (ir.Type, error) {
	resolved := ec.delegate.Resolve(ty).(ir.Type)
	if _, isAlias := resolved.(*ir.AliasType); !isAlias {
		return resolved, nil
	}

	normalized := ec.delegate.FreshTypeVar()
	ec.AddGoal(ir.SourceNormalization, ir.NewGoal(env, &ir.AliasRelatePredicate{
		Lhs:       resolved,
		Rhs:       normalized,
		Direction: ir.Equate,
	}))
	if _, err := ec.tryEvaluateAddedGoals(); err != nil {
		return nil, err
	}
	return ec.delegate.Resolve(normalized).(ir.Type), nil
}

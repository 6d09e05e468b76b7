package infer

import (
	"github.com/pkg/errors"
	"github.com/typefirst/goalsolve/ir"
	"github.com/typefirst/goalsolve/solve"
	"github.com/typefirst/goalsolve/util"
)

// DefNever is the bottom type: it has no values, so it is a subtype of
// everything.
const DefNever ir.DefID = "never"

// unifier equates terms for one UnifyEq call. inFlight guards against
// re-entering the same pair through cyclic bounds.
type unifier struct {
	table    *Table
	inFlight util.MSet[util.Pair[uint64, uint64]]
}

// UnifyEq equates two terms, binding inference variables as needed, or
// returns an error satisfying errors.Is(err, solve.ErrNoSolution) when the
// terms are structurally incompatible.
func (t *Table) UnifyEq(env *ir.Env, a, b ir.Term) error {
	u := &unifier{table: t, inFlight: util.NewEmptySet[util.Pair[uint64, uint64]]()}
	return u.terms(a, b)
}

// SubtypeOf constrains a to be a subtype of b.
//
// The reference delegate keeps subtyping shallow: the bottom type is below
// everything, references are covariant in their region, and everything else
// collapses to equality. A production delegate would do variance-aware
// structural subtyping here.
func (t *Table) SubtypeOf(env *ir.Env, a, b ir.Type) error {
	ra := t.Resolve(a).(ir.Type)
	rb := t.Resolve(b).(ir.Type)
	if applied, ok := ra.(*ir.AppliedType); ok && applied.Def == DefNever {
		return nil
	}
	if _, ok := ra.(*ir.ErrorType); ok {
		return nil
	}
	if _, ok := rb.(*ir.ErrorType); ok {
		return nil
	}
	if refA, ok := ra.(*ir.RefType); ok {
		if refB, ok := rb.(*ir.RefType); ok {
			t.RegisterRegionOutlives(refA.Region, refB.Region)
			return t.SubtypeOf(env, refA.Elem, refB.Elem)
		}
	}
	return t.UnifyEq(env, ra, rb)
}

func (u *unifier) terms(a, b ir.Term) error {
	a = u.table.Resolve(a)
	b = u.table.Resolve(b)
	if a.Hash() == b.Hash() {
		return nil
	}
	pair := util.NewPair(a.Hash(), b.Hash())
	if u.inFlight.Contains(pair) {
		return nil
	}
	u.inFlight.Add(pair)

	// a variable on either side binds to the other side
	if key, ok := inferKey(a); ok {
		return u.bindVar(key, a, b)
	}
	if key, ok := inferKey(b); ok {
		return u.bindVar(key, b, a)
	}

	switch x := a.(type) {
	case *ir.ErrorType:
		return nil
	case *ir.AppliedType:
		if y, ok := b.(*ir.AppliedType); ok && y.Def == x.Def && len(y.Args) == len(x.Args) {
			return u.argLists(x.Args, y.Args)
		}
	case *ir.AliasType:
		// aliases reaching unification unrevealed only unify nominally;
		// structural questions go through the normalizer first
		if y, ok := b.(*ir.AliasType); ok && y.Def == x.Def && y.Opaque == x.Opaque && len(y.Args) == len(x.Args) {
			return u.argLists(x.Args, y.Args)
		}
	case *ir.RefType:
		if y, ok := b.(*ir.RefType); ok {
			if err := u.terms(x.Region, y.Region); err != nil {
				return err
			}
			return u.terms(x.Elem, y.Elem)
		}
	case *ir.ValueConst:
		if y, ok := b.(*ir.ValueConst); ok && y.Repr == x.Repr {
			return u.terms(x.Ty, y.Ty)
		}
	case *ir.UnevaluatedConst:
		if y, ok := b.(*ir.UnevaluatedConst); ok && y.Def == x.Def && len(y.Args) == len(x.Args) {
			return u.argLists(x.Args, y.Args)
		}
	case *ir.ErrorConst:
		return nil
	}
	if _, ok := b.(*ir.ErrorType); ok {
		return nil
	}
	if _, ok := b.(*ir.ErrorConst); ok {
		return nil
	}
	return errors.Wrapf(solve.ErrNoSolution, "cannot unify %s with %s", a, b)
}

func (u *unifier) argLists(xs, ys []ir.Term) error {
	for i := range xs {
		if err := u.terms(xs[i], ys[i]); err != nil {
			return err
		}
	}
	return nil
}

func (u *unifier) bindVar(key varKey, v, term ir.Term) error {
	if occursIn(key, term) {
		return errors.Wrapf(solve.ErrNoSolution, "%s occurs in %s", v, term)
	}
	u.table.bind(key, term)
	return nil
}

func inferKey(term ir.Term) (varKey, bool) {
	switch x := term.(type) {
	case *ir.InferType:
		return varKey{kind: ir.CanonicalTypeVar, id: uint64(x.ID)}, true
	case *ir.InferRegion:
		return varKey{kind: ir.CanonicalRegionVar, id: uint64(x.ID)}, true
	case *ir.InferConst:
		return varKey{kind: ir.CanonicalConstVar, id: uint64(x.ID)}, true
	default:
		return varKey{}, false
	}
}

func occursIn(key varKey, term ir.Term) bool {
	if k, ok := inferKey(term); ok {
		return k == key
	}
	switch x := term.(type) {
	case *ir.AppliedType:
		return occursInAny(key, x.Args)
	case *ir.AliasType:
		return occursInAny(key, x.Args)
	case *ir.RefType:
		return occursIn(key, x.Region) || occursIn(key, x.Elem)
	case *ir.ValueConst:
		return occursIn(key, x.Ty)
	case *ir.UnevaluatedConst:
		return occursInAny(key, x.Args)
	default:
		return false
	}
}

func occursInAny(key varKey, terms []ir.Term) bool {
	for _, term := range terms {
		if occursIn(key, term) {
			return true
		}
	}
	return false
}

package solve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/typefirst/goalsolve/infer"
	"github.com/typefirst/goalsolve/ir"
	"github.com/typefirst/goalsolve/solve"
)

type harness struct {
	registry *infer.Registry
	delegate *infer.Delegate
	codec    *infer.Codec
	recorder *solve.Recorder
}

func newHarness() *harness {
	registry := infer.NewRegistry()
	delegate := infer.NewDelegate(registry)
	return &harness{
		registry: registry,
		delegate: delegate,
		codec:    infer.NewCodec(delegate.Table),
		recorder: solve.NewRecorder(),
	}
}

func (h *harness) ctx() *solve.EvalCtx {
	assembler := infer.NewImplAssembler(h.delegate, h.codec)
	return solve.NewEvalCtx(h.delegate, h.registry, h.codec,
		solve.WithAssembler(assembler), solve.WithRecorder(h.recorder))
}

func (h *harness) evaluate(t *testing.T, p ir.Predicate) (solve.CanonicalResponse, error) {
	t.Helper()
	return h.ctx().Evaluate(ir.NewGoal(ir.EmptyEnv(), p))
}

// a subtype goal between one unresolved variable and itself is not knowable
// yet
func TestSubtypeBothSidesUnresolved(t *testing.T) {
	h := newHarness()
	x := h.delegate.FreshTypeVar()

	resp, err := h.evaluate(t, &ir.SubtypePredicate{A: x, B: x})
	require.NoError(t, err)
	assert.False(t, resp.Value.Certainty.IsYes())
	cause, ok := resp.Value.Certainty.AmbiguousCause()
	assert.True(t, ok)
	assert.Equal(t, solve.CauseUnknown, cause)
}

func TestSubtypeResolvesVariable(t *testing.T) {
	h := newHarness()
	x := h.delegate.FreshTypeVar()
	intTy := &ir.AppliedType{Def: "i32"}

	resp, err := h.evaluate(t, &ir.SubtypePredicate{A: x, B: intTy})
	require.NoError(t, err)
	assert.True(t, resp.Value.Certainty.IsYes())
	assert.False(t, resp.Value.VarValues.IsIdentity())
	assert.Equal(t, intTy.Hash(), h.delegate.Resolve(x).Hash())
}

func TestSubtypeNeverIsBottom(t *testing.T) {
	h := newHarness()
	resp, err := h.evaluate(t, &ir.SubtypePredicate{
		A: &ir.AppliedType{Def: infer.DefNever},
		B: &ir.AppliedType{Def: "str"},
	})
	require.NoError(t, err)
	assert.True(t, resp.Value.Certainty.IsYes())
}

func TestSubtypeMismatchIsNoSolution(t *testing.T) {
	h := newHarness()
	_, err := h.evaluate(t, &ir.SubtypePredicate{
		A: &ir.AppliedType{Def: "i32"},
		B: &ir.AppliedType{Def: "str"},
	})
	assert.ErrorIs(t, err, solve.ErrNoSolution)
}

func TestCoerceRewritesToSubtype(t *testing.T) {
	h := newHarness()
	x := h.delegate.FreshTypeVar()
	intTy := &ir.AppliedType{Def: "i32"}

	resp, err := h.evaluate(t, &ir.CoercePredicate{A: intTy, B: x})
	require.NoError(t, err)
	assert.True(t, resp.Value.Certainty.IsYes())
	assert.Equal(t, intTy.Hash(), h.delegate.Resolve(x).Hash())
}

func TestObjectSafety(t *testing.T) {
	h := newHarness()
	h.registry.RegisterTrait("Display", true)
	// a trait with a generic method cannot be object-safe
	h.registry.RegisterTrait("Sequence", false)

	resp, err := h.evaluate(t, &ir.ObjectSafePredicate{Trait: "Display"})
	require.NoError(t, err)
	assert.True(t, resp.Value.Certainty.IsYes())

	_, err = h.evaluate(t, &ir.ObjectSafePredicate{Trait: "Sequence"})
	assert.ErrorIs(t, err, solve.ErrNoSolution)
}

// proving an outlives goal always succeeds and surfaces the fact as an
// external constraint for the caller
func TestTypeOutlivesRecordsConstraint(t *testing.T) {
	h := newHarness()
	param := &ir.PlaceholderType{Name: "T"}

	resp, err := h.evaluate(t, &ir.TypeOutlivesPredicate{Ty: param, Region: ir.StaticRegion{}})
	require.NoError(t, err)
	assert.True(t, resp.Value.Certainty.IsYes())
	require.Len(t, resp.Value.External.RegionConstraints, 1)
	constraint := resp.Value.External.RegionConstraints[0]
	assert.Equal(t, param.Hash(), constraint.Term.Hash())
	assert.Equal(t, ir.StaticRegion{}.Hash(), constraint.Region.Hash())
}

func TestRegionOutlivesRecordsConstraint(t *testing.T) {
	h := newHarness()
	a := &ir.NamedRegion{Name: "a"}

	resp, err := h.evaluate(t, &ir.RegionOutlivesPredicate{A: a, B: ir.StaticRegion{}})
	require.NoError(t, err)
	assert.True(t, resp.Value.Certainty.IsYes())
	assert.Len(t, resp.Value.External.RegionConstraints, 1)
}

// a constant already reduced to a value is evaluatable with zero sub-goals
func TestConstEvaluatableValue(t *testing.T) {
	h := newHarness()
	ct := &ir.ValueConst{Ty: &ir.AppliedType{Def: "isize"}, Repr: "42"}

	resp, err := h.evaluate(t, &ir.ConstEvaluatablePredicate{Const: ct})
	require.NoError(t, err)
	assert.True(t, resp.Value.Certainty.IsYes())
	require.Len(t, h.recorder.Roots(), 1)
	assert.Empty(t, h.recorder.Roots()[0].Children, "no sub-goals may be staged")
}

func TestConstEvaluatableUnevaluated(t *testing.T) {
	h := newHarness()

	resp, err := h.evaluate(t, &ir.ConstEvaluatablePredicate{
		Const: &ir.UnevaluatedConst{Def: "MAX", Expr: "1 << 8"},
	})
	require.NoError(t, err)
	assert.True(t, resp.Value.Certainty.IsYes())

	// no body to evaluate: ambiguous with the const-specific cause
	resp, err = h.evaluate(t, &ir.ConstEvaluatablePredicate{
		Const: &ir.UnevaluatedConst{Def: "OPAQUE_MAX"},
	})
	require.NoError(t, err)
	cause, ok := resp.Value.Certainty.AmbiguousCause()
	assert.True(t, ok)
	assert.Equal(t, solve.CauseMaybeConst, cause)
}

func TestConstEvaluatableInferVar(t *testing.T) {
	h := newHarness()
	resp, err := h.evaluate(t, &ir.ConstEvaluatablePredicate{Const: h.delegate.FreshConstVar().(*ir.InferConst)})
	require.NoError(t, err)
	cause, ok := resp.Value.Certainty.AmbiguousCause()
	assert.True(t, ok)
	assert.Equal(t, solve.CauseUnknown, cause)
}

func TestConstHasType(t *testing.T) {
	isize := &ir.AppliedType{Def: "isize"}
	str := &ir.AppliedType{Def: "str"}

	t.Run("value const unifies its intrinsic type", func(t *testing.T) {
		h := newHarness()
		resp, err := h.evaluate(t, &ir.ConstHasTypePredicate{
			Const: &ir.ValueConst{Ty: isize, Repr: "1"},
			Ty:    isize,
		})
		require.NoError(t, err)
		assert.True(t, resp.Value.Certainty.IsYes())
	})

	t.Run("mismatched type is no solution", func(t *testing.T) {
		h := newHarness()
		_, err := h.evaluate(t, &ir.ConstHasTypePredicate{
			Const: &ir.ValueConst{Ty: isize, Repr: "1"},
			Ty:    str,
		})
		assert.ErrorIs(t, err, solve.ErrNoSolution)
	})

	t.Run("unevaluated const uses its declared type", func(t *testing.T) {
		h := newHarness()
		h.registry.RegisterConst("MAX", isize)
		resp, err := h.evaluate(t, &ir.ConstHasTypePredicate{
			Const: &ir.UnevaluatedConst{Def: "MAX"},
			Ty:    isize,
		})
		require.NoError(t, err)
		assert.True(t, resp.Value.Certainty.IsYes())
	})

	t.Run("placeholder uses its environment type", func(t *testing.T) {
		h := newHarness()
		env := ir.EmptyEnv().With(&ir.ConstParamTypeClause{Name: "N", Ty: isize})
		resp, err := h.ctx().Evaluate(ir.NewGoal(env, &ir.ConstHasTypePredicate{
			Const: &ir.PlaceholderConst{Name: "N"},
			Ty:    isize,
		}))
		require.NoError(t, err)
		assert.True(t, resp.Value.Certainty.IsYes())
	})

	t.Run("placeholder without environment type is fatal", func(t *testing.T) {
		h := newHarness()
		assert.Panics(t, func() {
			_, _ = h.evaluate(t, &ir.ConstHasTypePredicate{
				Const: &ir.PlaceholderConst{Name: "N"},
				Ty:    isize,
			})
		})
	})

	t.Run("infer const is ambiguous", func(t *testing.T) {
		h := newHarness()
		resp, err := h.evaluate(t, &ir.ConstHasTypePredicate{
			Const: h.delegate.FreshConstVar().(*ir.InferConst),
			Ty:    isize,
		})
		require.NoError(t, err)
		assert.False(t, resp.Value.Certainty.IsYes())
	})
}

func TestWellFormed(t *testing.T) {
	intTy := &ir.AppliedType{Def: "i32"}

	t.Run("reference implies elem outlives region", func(t *testing.T) {
		h := newHarness()
		resp, err := h.evaluate(t, &ir.WellFormedPredicate{
			Term: &ir.RefType{Region: ir.StaticRegion{}, Elem: intTy},
		})
		require.NoError(t, err)
		assert.True(t, resp.Value.Certainty.IsYes())
		assert.Len(t, resp.Value.External.RegionConstraints, 1)
	})

	t.Run("undecidable shape is ambiguous", func(t *testing.T) {
		h := newHarness()
		resp, err := h.evaluate(t, &ir.WellFormedPredicate{Term: h.delegate.FreshTypeVar()})
		require.NoError(t, err)
		assert.False(t, resp.Value.Certainty.IsYes())
	})
}

func TestTraitGoals(t *testing.T) {
	intTy := &ir.AppliedType{Def: "i32"}
	strTy := &ir.AppliedType{Def: "str"}

	t.Run("single matching impl proves the goal", func(t *testing.T) {
		h := newHarness()
		h.registry.RegisterImpl("Display", intTy)
		resp, err := h.evaluate(t, &ir.TraitPredicate{Trait: "Display", Self: intTy})
		require.NoError(t, err)
		assert.True(t, resp.Value.Certainty.IsYes())
	})

	t.Run("unique impl resolves the self variable", func(t *testing.T) {
		h := newHarness()
		h.registry.RegisterImpl("Display", intTy)
		x := h.delegate.FreshTypeVar()

		resp, err := h.evaluate(t, &ir.TraitPredicate{Trait: "Display", Self: x})
		require.NoError(t, err)
		assert.True(t, resp.Value.Certainty.IsYes())
		assert.Equal(t, intTy.Hash(), h.delegate.Resolve(x).Hash())
	})

	t.Run("no candidates is no solution", func(t *testing.T) {
		h := newHarness()
		_, err := h.evaluate(t, &ir.TraitPredicate{Trait: "Display", Self: intTy})
		assert.ErrorIs(t, err, solve.ErrNoSolution)
	})

	t.Run("environment assumption dominates impl candidates", func(t *testing.T) {
		h := newHarness()
		param := &ir.PlaceholderType{Name: "T"}
		h.registry.RegisterImpl("Display", intTy)
		env := ir.EmptyEnv().With(&ir.TraitClause{Trait: "Display", Self: param})

		resp, err := h.ctx().Evaluate(ir.NewGoal(env, &ir.TraitPredicate{Trait: "Display", Self: param}))
		require.NoError(t, err)
		assert.True(t, resp.Value.Certainty.IsYes())
		assert.True(t, solve.HasNoInferenceOrExternalConstraints(resp))
	})

	t.Run("disagreeing candidates flounder to ambiguity", func(t *testing.T) {
		h := newHarness()
		h.registry.RegisterImpl("Display", intTy)
		h.registry.RegisterImpl("Display", strTy)
		x := h.delegate.FreshTypeVar()

		resp, err := h.evaluate(t, &ir.TraitPredicate{Trait: "Display", Self: x})
		require.NoError(t, err)
		assert.False(t, resp.Value.Certainty.IsYes())
		// floundering commits to nothing
		assert.True(t, resp.Value.External.IsEmpty())
		_, stillVar := h.delegate.Resolve(x).(*ir.InferType)
		assert.True(t, stillVar, "no candidate may leak bindings")
	})
}

func TestAliasRelate(t *testing.T) {
	intTy := &ir.AppliedType{Def: "i32"}

	t.Run("revealed alias equates underlying", func(t *testing.T) {
		h := newHarness()
		h.registry.RegisterAlias("Output", intTy)
		x := h.delegate.FreshTypeVar()

		resp, err := h.evaluate(t, &ir.AliasRelatePredicate{
			Lhs:       &ir.AliasType{Def: "Output"},
			Rhs:       x,
			Direction: ir.Equate,
		})
		require.NoError(t, err)
		assert.True(t, resp.Value.Certainty.IsYes())
		assert.Equal(t, intTy.Hash(), h.delegate.Resolve(x).Hash())
	})

	t.Run("opaque defined by its proof", func(t *testing.T) {
		h := newHarness()
		resp, err := h.evaluate(t, &ir.AliasRelatePredicate{
			Lhs:       &ir.AliasType{Def: "Secret", Opaque: true},
			Rhs:       intTy,
			Direction: ir.Equate,
		})
		require.NoError(t, err)
		assert.True(t, resp.Value.Certainty.IsYes())
		require.Len(t, resp.Value.External.OpaqueTypes, 1)
		assert.Equal(t, ir.DefID("Secret"), resp.Value.External.OpaqueTypes[0].Def)
		assert.Equal(t, []ir.DefID{"Secret"}, resp.DefiningOpaques)
	})

	t.Run("cyclic alias chain gives up with overflow", func(t *testing.T) {
		h := newHarness()
		h.registry.RegisterAlias("Loop", &ir.AliasType{Def: "Loop"})

		resp, err := h.evaluate(t, &ir.AliasRelatePredicate{
			Lhs:       &ir.AliasType{Def: "Loop"},
			Rhs:       h.delegate.FreshTypeVar(),
			Direction: ir.Equate,
		})
		require.NoError(t, err)
		cause, ok := resp.Value.Certainty.AmbiguousCause()
		assert.True(t, ok)
		assert.Equal(t, solve.CauseOverflow, cause)
	})

	t.Run("unrevealed alias is ambiguous", func(t *testing.T) {
		h := newHarness()
		resp, err := h.evaluate(t, &ir.AliasRelatePredicate{
			Lhs:       &ir.AliasType{Def: "Unknown"},
			Rhs:       h.delegate.FreshTypeVar(),
			Direction: ir.Equate,
		})
		require.NoError(t, err)
		assert.False(t, resp.Value.Certainty.IsYes())
	})
}

func TestProjectionRewritesToAliasRelate(t *testing.T) {
	h := newHarness()
	intTy := &ir.AppliedType{Def: "i32"}
	h.registry.RegisterAlias("Output", intTy)

	resp, err := h.evaluate(t, &ir.ProjectionPredicate{
		Alias: &ir.AliasType{Def: "Output"},
		Term:  intTy,
	})
	require.NoError(t, err)
	assert.True(t, resp.Value.Certainty.IsYes())
}

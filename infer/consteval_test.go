package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/typefirst/goalsolve/ir"
)

func TestConstEvaluatorArithmetic(t *testing.T) {
	ev := NewConstEvaluator()

	got, err := ev.Eval(&ir.UnevaluatedConst{Def: "MAX", Expr: "1 << 8"})
	require.NoError(t, err)
	value, ok := got.(*ir.ValueConst)
	require.True(t, ok)
	assert.Equal(t, "256", value.Repr)
	assert.Equal(t, ir.DefID("isize"), value.Ty.(*ir.AppliedType).Def)
}

func TestConstEvaluatorBool(t *testing.T) {
	ev := NewConstEvaluator()

	got, err := ev.Eval(&ir.UnevaluatedConst{Def: "FLAG", Expr: "3 > 2"})
	require.NoError(t, err)
	value := got.(*ir.ValueConst)
	assert.Equal(t, "true", value.Repr)
	assert.Equal(t, ir.DefID("bool"), value.Ty.(*ir.AppliedType).Def)
}

func TestConstEvaluatorEmptyBody(t *testing.T) {
	ev := NewConstEvaluator()
	_, err := ev.Eval(&ir.UnevaluatedConst{Def: "OPAQUE"})
	assert.Error(t, err)
}

func TestConstEvaluatorBadExpression(t *testing.T) {
	ev := NewConstEvaluator()
	_, err := ev.Eval(&ir.UnevaluatedConst{Def: "BROKEN", Expr: "1 +"})
	assert.Error(t, err)
}

func TestDelegateRefusesUnresolvedArgs(t *testing.T) {
	d := NewDelegate(NewRegistry())
	n := d.FreshConstVar()

	_, ok := d.TryConstEval(ir.EmptyEnv(), &ir.UnevaluatedConst{
		Def:  "LEN",
		Expr: "4",
		Args: []ir.Term{n},
	})
	assert.False(t, ok, "evaluation must wait for the arguments to resolve")
}

func TestDelegateEvaluatesOnceArgsResolve(t *testing.T) {
	d := NewDelegate(NewRegistry())
	env := ir.EmptyEnv()
	n := d.FreshConstVar()
	require.NoError(t, d.UnifyEq(env, n, &ir.ValueConst{
		Ty:   &ir.AppliedType{Def: "isize"},
		Repr: "4",
	}))

	got, ok := d.TryConstEval(env, &ir.UnevaluatedConst{
		Def:  "LEN",
		Expr: "4",
		Args: []ir.Term{n},
	})
	require.True(t, ok)
	assert.Equal(t, "4", got.(*ir.ValueConst).Repr)
}

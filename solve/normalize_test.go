package solve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/typefirst/goalsolve/ir"
)

func TestNormalizeNonAliasIsIdentity(t *testing.T) {
	h := newHarness()
	intTy := &ir.AppliedType{Def: "i32"}

	got, err := h.ctx().StructurallyNormalize(ir.EmptyEnv(), intTy)
	require.NoError(t, err)
	assert.Equal(t, intTy.Hash(), got.Hash())
	assert.Empty(t, h.recorder.Roots(), "no goals may be staged for a rigid type")
}

func TestNormalizeRevealedAlias(t *testing.T) {
	h := newHarness()
	intTy := &ir.AppliedType{Def: "i32"}
	h.registry.RegisterAlias("Output", intTy)

	got, err := h.ctx().StructurallyNormalize(ir.EmptyEnv(), &ir.AliasType{Def: "Output"})
	require.NoError(t, err)
	assert.Equal(t, intTy.Hash(), got.Hash())
}

// normalizing twice changes nothing beyond the first pass
func TestNormalizeIsIdempotent(t *testing.T) {
	h := newHarness()
	intTy := &ir.AppliedType{Def: "i32"}
	h.registry.RegisterAlias("Output", intTy)

	once, err := h.ctx().StructurallyNormalize(ir.EmptyEnv(), &ir.AliasType{Def: "Output"})
	require.NoError(t, err)
	twice, err := h.ctx().StructurallyNormalize(ir.EmptyEnv(), once)
	require.NoError(t, err)
	assert.Equal(t, once.Hash(), twice.Hash())
}

func TestNormalizeChainedAliases(t *testing.T) {
	h := newHarness()
	intTy := &ir.AppliedType{Def: "i32"}
	h.registry.RegisterAlias("Inner", intTy)
	h.registry.RegisterAlias("Outer", &ir.AliasType{Def: "Inner"})

	got, err := h.ctx().StructurallyNormalize(ir.EmptyEnv(), &ir.AliasType{Def: "Outer"})
	require.NoError(t, err)
	assert.Equal(t, intTy.Hash(), got.Hash())
}

func TestNormalizeUnknownAliasStaysVariable(t *testing.T) {
	h := newHarness()

	got, err := h.ctx().StructurallyNormalize(ir.EmptyEnv(), &ir.AliasType{Def: "Mystery"})
	require.NoError(t, err)
	_, isVar := got.(*ir.InferType)
	assert.True(t, isVar, "an undecided alias normalizes to the fresh variable")
}

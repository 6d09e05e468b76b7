package solve

import (
	"github.com/typefirst/goalsolve/ir"
)

// fakeDelegate resolves nothing and accepts everything.
type fakeDelegate struct {
	freshCount ir.TypeVarID
}

func (d *fakeDelegate) FreshTypeVar() ir.Type {
	v := &ir.InferType{ID: d.freshCount}
	d.freshCount++
	return v
}
func (d *fakeDelegate) Resolve(t ir.Term) ir.Term                         { return t }
func (d *fakeDelegate) RegisterTypeOutlives(ty ir.Type, r ir.Region)      {}
func (d *fakeDelegate) RegisterRegionOutlives(a, b ir.Region)             {}
func (d *fakeDelegate) SubtypeOf(env *ir.Env, a, b ir.Type) error         { return nil }
func (d *fakeDelegate) UnifyEq(env *ir.Env, a, b ir.Term) error           { return nil }
func (d *fakeDelegate) DefineOpaque(ir.DefID, []ir.Term, ir.Type)         {}
func (d *fakeDelegate) TryConstEval(env *ir.Env, uv *ir.UnevaluatedConst) (ir.Const, bool) {
	return nil, false
}

// fakeRegistry knows nothing.
type fakeRegistry struct{}

func (fakeRegistry) IsObjectSafe(trait ir.DefID) bool { return false }
func (fakeRegistry) WellFormedGoals(env *ir.Env, term ir.Term) ([]ir.Goal, bool) {
	return nil, false
}
func (fakeRegistry) TypeOfConstDef(def ir.DefID, args []ir.Term) ir.Type { return &ir.ErrorType{} }
func (fakeRegistry) AliasUnderlying(env *ir.Env, alias *ir.AliasType) (ir.Type, bool) {
	return nil, false
}

// identityCodec always reports "nothing learned".
type identityCodec struct {
	responses int
}

func (c *identityCodec) PushScope() {}
func (c *identityCodec) PopScope()  {}
func (c *identityCodec) MakeCanonicalResponse(certainty Certainty) CanonicalResponse {
	c.responses++
	return ResponseNoConstraints(0, nil, certainty)
}
func (c *identityCodec) MakeAmbiguousResponseNoConstraints(cause Cause) CanonicalResponse {
	return ResponseNoConstraints(0, nil, Ambiguous(cause))
}
func (c *identityCodec) ApplyResponse(resp CanonicalResponse) error { return nil }

// progressCodec pretends every goal resolved a variable, so the fixpoint
// sees progress on every step.
type progressCodec struct {
	responses int
}

func (c *progressCodec) PushScope() {}
func (c *progressCodec) PopScope()  {}
func (c *progressCodec) MakeCanonicalResponse(certainty Certainty) CanonicalResponse {
	c.responses++
	return CanonicalResponse{
		Variables: []ir.CanonicalVar{{Kind: ir.CanonicalTypeVar}},
		Value: Response{
			VarValues: VarValues{Values: []ir.Term{&ir.AppliedType{Def: "i32"}}},
			Certainty: certainty,
		},
	}
}
func (c *progressCodec) MakeAmbiguousResponseNoConstraints(cause Cause) CanonicalResponse {
	return ResponseNoConstraints(0, nil, Ambiguous(cause))
}
func (c *progressCodec) ApplyResponse(resp CanonicalResponse) error { return nil }

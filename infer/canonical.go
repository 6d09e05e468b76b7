package infer

import (
	"github.com/typefirst/goalsolve/ir"
	"github.com/typefirst/goalsolve/solve"
	"github.com/typefirst/goalsolve/util"
)

// Codec is the canonicalization boundary over a Table: it abstracts the
// progress recorded in one evaluation scope into a context-free canonical
// response, and can re-apply such a response to the table.
//
// Scopes are journal positions; a nested scope's events remain visible to
// its enclosing scope after it pops, so a goal's response covers everything
// its nested goals did.
type Codec struct {
	table *Table
	marks util.Stack[int]

	// keys remembers, per produced response, which context variables each
	// canonical variable stood for, so ApplyResponse can reinstate a merged
	// candidate's bindings. Entries live only as long as the outermost scope:
	// a response cannot be applied after the query that produced it ends.
	keys map[uint64]responseKeys
}

type responseKeys struct {
	keys      []varKey
	certainty solve.Certainty
}

var _ solve.Codec = (*Codec)(nil)

func NewCodec(table *Table) *Codec {
	return &Codec{
		table: table,
		keys:  make(map[uint64]responseKeys),
	}
}

func (c *Codec) PushScope() {
	c.marks.Push(c.table.journalLen())
}

func (c *Codec) PopScope() {
	_, _ = c.marks.Pop()
	if c.marks.Len() == 0 {
		clear(c.keys)
	}
}

func (c *Codec) scopeStart() int {
	if start, ok := c.marks.Peek(); ok {
		return start
	}
	return 0
}

// scopeVars collects, in first-touch order, every variable created or bound
// since the scope started.
func (c *Codec) scopeVars() ([]ir.CanonicalVar, []varKey, ir.UniverseIndex) {
	var vars []ir.CanonicalVar
	var keys []varKey
	seen := util.NewEmptySet[varKey]()
	maxUniverse := ir.UniverseIndex(0)

	add := func(key varKey) {
		if seen.Contains(key) {
			return
		}
		seen.Add(key)
		universe := c.table.universes[key]
		if universe > maxUniverse {
			maxUniverse = universe
		}
		vars = append(vars, ir.CanonicalVar{Kind: key.kind, Universe: universe})
		keys = append(keys, key)
	}

	for _, ev := range c.table.journal[c.scopeStart():] {
		switch e := ev.(type) {
		case evNewVar:
			add(e.key)
		case evBind:
			add(e.key)
		}
	}
	return vars, keys, maxUniverse
}

// MakeCanonicalResponse snapshots the current scope into a canonical
// response: the variables the goal touched, their resolutions, and the
// external constraints accumulated along the way.
func (c *Codec) MakeCanonicalResponse(certainty solve.Certainty) solve.CanonicalResponse {
	vars, keys, maxUniverse := c.scopeVars()

	index := make(map[varKey]int, len(keys))
	for i, key := range keys {
		index[key] = i
	}

	values := make([]ir.Term, len(keys))
	for i, key := range keys {
		if bound, ok := c.table.binding(key); ok {
			values[i] = c.canonicalizeTerm(c.table.Resolve(bound), index)
		} else {
			values[i] = vars[i].BoundTerm(i)
		}
	}

	var external solve.ExternalConstraints
	var definingOpaques []ir.DefID
	for _, ev := range c.table.journal[c.scopeStart():] {
		switch e := ev.(type) {
		case evOutlives:
			external.RegionConstraints = append(external.RegionConstraints, solve.RegionConstraint{
				Term:   c.canonicalizeTerm(c.table.Resolve(e.constraint.Term), index),
				Region: c.canonicalizeTerm(c.table.Resolve(e.constraint.Region), index).(ir.Region),
			})
		case evOpaque:
			external.OpaqueTypes = append(external.OpaqueTypes, solve.OpaqueTypeAssignment{
				Def:      e.assignment.Def,
				Args:     c.canonicalizeAll(e.assignment.Args, index),
				Concrete: c.canonicalizeTerm(c.table.Resolve(e.assignment.Concrete), index).(ir.Type),
			})
			definingOpaques = append(definingOpaques, e.assignment.Def)
		}
	}
	external.RegionConstraints = solve.DedupeRegionConstraints(external.RegionConstraints)

	resp := solve.CanonicalResponse{
		MaxUniverse:     maxUniverse,
		Variables:       vars,
		DefiningOpaques: definingOpaques,
		Value: solve.Response{
			VarValues: solve.VarValues{Values: values},
			External:  external,
			Certainty: certainty,
		},
	}
	c.keys[resp.Hash()] = responseKeys{keys: keys, certainty: certainty}
	return resp
}

// MakeAmbiguousResponseNoConstraints keeps the scope's variables but asserts
// only ambiguity: identity values, nothing learned.
func (c *Codec) MakeAmbiguousResponseNoConstraints(cause solve.Cause) solve.CanonicalResponse {
	vars, keys, maxUniverse := c.scopeVars()
	resp := solve.ResponseNoConstraints(maxUniverse, vars, solve.Ambiguous(cause))
	c.keys[resp.Hash()] = responseKeys{keys: keys, certainty: solve.Ambiguous(cause)}
	return resp
}

// ApplyResponse reinstates a response's variable assignments on the table.
// Round-trip identity holds: applying a response produced while no inference
// progress occurred changes nothing.
func (c *Codec) ApplyResponse(resp solve.CanonicalResponse) error {
	rec, ok := c.keys[resp.Hash()]
	// the record must match the response beyond the hash, so a collision
	// cannot replay another response's bindings
	if !ok || len(rec.keys) != len(resp.Value.VarValues.Values) || rec.certainty != resp.Value.Certainty {
		// a response this codec did not produce cannot be mapped back
		return solve.ErrNoSolution
	}
	for i, value := range resp.Value.VarValues.Values {
		if isSelfBound(value, i) {
			continue
		}
		c.table.bind(rec.keys[i], c.instantiateTerm(value, rec.keys))
	}
	return nil
}

// canonicalizeTerm replaces the scope's inference variables with de Bruijn
// references so the result is context-free.
func (c *Codec) canonicalizeTerm(term ir.Term, index map[varKey]int) ir.Term {
	if key, ok := inferKey(term); ok {
		if i, scoped := index[key]; scoped {
			return ir.CanonicalVar{Kind: key.kind, Universe: c.table.universes[key]}.BoundTerm(i)
		}
		return term
	}
	switch x := term.(type) {
	case *ir.AppliedType:
		return &ir.AppliedType{Def: x.Def, Args: c.canonicalizeAll(x.Args, index)}
	case *ir.AliasType:
		return &ir.AliasType{Def: x.Def, Args: c.canonicalizeAll(x.Args, index), Opaque: x.Opaque}
	case *ir.RefType:
		return &ir.RefType{
			Region: c.canonicalizeTerm(x.Region, index).(ir.Region),
			Elem:   c.canonicalizeTerm(x.Elem, index).(ir.Type),
		}
	case *ir.ValueConst:
		return &ir.ValueConst{Ty: c.canonicalizeTerm(x.Ty, index).(ir.Type), Repr: x.Repr}
	case *ir.UnevaluatedConst:
		return &ir.UnevaluatedConst{Def: x.Def, Expr: x.Expr, Args: c.canonicalizeAll(x.Args, index)}
	default:
		return term
	}
}

func (c *Codec) canonicalizeAll(terms []ir.Term, index map[varKey]int) []ir.Term {
	out := make([]ir.Term, len(terms))
	for i, term := range terms {
		out[i] = c.canonicalizeTerm(term, index)
	}
	return out
}

// instantiateTerm maps de Bruijn references back to the context variables
// they stood for.
func (c *Codec) instantiateTerm(term ir.Term, keys []varKey) ir.Term {
	switch x := term.(type) {
	case *ir.BoundType:
		return &ir.InferType{ID: ir.TypeVarID(keys[x.Index].id)}
	case *ir.BoundRegion:
		return &ir.InferRegion{ID: ir.RegionVarID(keys[x.Index].id)}
	case *ir.BoundConst:
		return &ir.InferConst{ID: ir.ConstVarID(keys[x.Index].id)}
	case *ir.AppliedType:
		return &ir.AppliedType{Def: x.Def, Args: c.instantiateAll(x.Args, keys)}
	case *ir.AliasType:
		return &ir.AliasType{Def: x.Def, Args: c.instantiateAll(x.Args, keys), Opaque: x.Opaque}
	case *ir.RefType:
		return &ir.RefType{
			Region: c.instantiateTerm(x.Region, keys).(ir.Region),
			Elem:   c.instantiateTerm(x.Elem, keys).(ir.Type),
		}
	case *ir.ValueConst:
		return &ir.ValueConst{Ty: c.instantiateTerm(x.Ty, keys).(ir.Type), Repr: x.Repr}
	case *ir.UnevaluatedConst:
		return &ir.UnevaluatedConst{Def: x.Def, Expr: x.Expr, Args: c.instantiateAll(x.Args, keys)}
	default:
		return term
	}
}

func (c *Codec) instantiateAll(terms []ir.Term, keys []varKey) []ir.Term {
	out := make([]ir.Term, len(terms))
	for i, term := range terms {
		out[i] = c.instantiateTerm(term, keys)
	}
	return out
}

func isSelfBound(term ir.Term, index int) bool {
	switch x := term.(type) {
	case *ir.BoundType:
		return x.Index == index
	case *ir.BoundRegion:
		return x.Index == index
	case *ir.BoundConst:
		return x.Index == index
	default:
		return false
	}
}

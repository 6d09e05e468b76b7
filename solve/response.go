package solve

import (
	"sort"

	"github.com/typefirst/goalsolve/ir"
	"github.com/xtgo/set"
)

// VarValues is the substitution recovered for the canonical variables of a
// response, in binding order.
type VarValues struct {
	Values []ir.Term
}

// MakeIdentityVarValues assigns every canonical variable to itself.
func MakeIdentityVarValues(vars []ir.CanonicalVar) VarValues {
	values := make([]ir.Term, len(vars))
	for i, v := range vars {
		values[i] = v.BoundTerm(i)
	}
	return VarValues{Values: values}
}

// IsIdentity reports whether the substitution assigns each variable to
// itself, i.e. the proof resolved nothing.
func (v VarValues) IsIdentity() bool {
	for i, value := range v.Values {
		switch t := value.(type) {
		case *ir.BoundType:
			if t.Index != i {
				return false
			}
		case *ir.BoundRegion:
			if t.Index != i {
				return false
			}
		case *ir.BoundConst:
			if t.Index != i {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (v VarValues) Hash() uint64 {
	h := uint64(191)
	for _, value := range v.Values {
		h = 31*h ^ value.Hash()
	}
	return h
}

// RegionConstraint is an outlives obligation discovered during a proof that
// the caller must still propagate: Term outlives Region.
type RegionConstraint struct {
	Term   ir.Term
	Region ir.Region
}

func (c RegionConstraint) Hash() uint64 {
	return c.Term.Hash()*193 ^ c.Region.Hash()
}

// regionConstraints sorts by hash so constraint sets compare and dedupe
// structurally.
type regionConstraints []RegionConstraint

func (s regionConstraints) Len() int           { return len(s) }
func (s regionConstraints) Less(i, j int) bool { return s[i].Hash() < s[j].Hash() }
func (s regionConstraints) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// DedupeRegionConstraints sorts the constraints and drops structural
// duplicates.
func DedupeRegionConstraints(constraints []RegionConstraint) []RegionConstraint {
	data := regionConstraints(constraints)
	sort.Sort(data)
	n := set.Uniq(data)
	return data[:n]
}

// OpaqueTypeAssignment records the concrete identity a proof assigned to an
// opaque type.
type OpaqueTypeAssignment struct {
	Def      ir.DefID
	Args     []ir.Term
	Concrete ir.Type
}

func (a OpaqueTypeAssignment) Hash() uint64 {
	h := uint64(197)
	for _, arg := range a.Args {
		h = 31*h ^ arg.Hash()
	}
	return h ^ a.Concrete.Hash() ^ uint64(len(a.Def))
}

// ExternalConstraints are the side effects of a successful proof the caller
// must still satisfy.
type ExternalConstraints struct {
	RegionConstraints []RegionConstraint
	OpaqueTypes       []OpaqueTypeAssignment
}

func (e ExternalConstraints) IsEmpty() bool {
	return len(e.RegionConstraints) == 0 && len(e.OpaqueTypes) == 0
}

func (e ExternalConstraints) Hash() uint64 {
	h := uint64(199)
	for _, c := range e.RegionConstraints {
		h = 31*h ^ c.Hash()
	}
	for _, o := range e.OpaqueTypes {
		h = 31*h ^ o.Hash()
	}
	return h
}

// Response is the portable result of proving one goal.
type Response struct {
	VarValues VarValues
	External  ExternalConstraints
	Certainty Certainty
}

func (r Response) Hash() uint64 {
	return r.VarValues.Hash()*211 ^ r.External.Hash()*223 ^ uint64(r.Certainty)
}

// CanonicalResponse is a response abstracted over its free inference
// variables; it is what crosses goal boundaries and what the search graph
// caches.
type CanonicalResponse = ir.Canonical[Response]

// ResponsesEqual compares two canonical responses structurally. The cheap
// fields are compared outright so a hash collision alone cannot equate
// disagreeing responses.
func ResponsesEqual(a, b CanonicalResponse) bool {
	return a.Value.Certainty == b.Value.Certainty &&
		len(a.Variables) == len(b.Variables) &&
		len(a.Value.External.RegionConstraints) == len(b.Value.External.RegionConstraints) &&
		len(a.Value.External.OpaqueTypes) == len(b.Value.External.OpaqueTypes) &&
		a.Hash() == b.Hash()
}

// HasNoInferenceOrExternalConstraints reports whether accepting the response
// commits the caller to nothing beyond the goal holding: identity variable
// values and empty external constraints.
func HasNoInferenceOrExternalConstraints(r CanonicalResponse) bool {
	return r.Value.External.IsEmpty() && r.Value.VarValues.IsIdentity()
}

// ResponseNoConstraints builds the canonical "certainty only, nothing
// learned" response over the given variables: identity values, empty
// external constraints.
func ResponseNoConstraints(maxUniverse ir.UniverseIndex, vars []ir.CanonicalVar, certainty Certainty) CanonicalResponse {
	return CanonicalResponse{
		MaxUniverse: maxUniverse,
		Variables:   vars,
		Value: Response{
			VarValues: MakeIdentityVarValues(vars),
			Certainty: certainty,
		},
	}
}

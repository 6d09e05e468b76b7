package ir

// CanonicalVarKind tags which sort of inference variable a canonical
// variable abstracts.
type CanonicalVarKind uint8

const (
	CanonicalTypeVar CanonicalVarKind = iota
	CanonicalRegionVar
	CanonicalConstVar
)

func (k CanonicalVarKind) String() string {
	switch k {
	case CanonicalRegionVar:
		return "region"
	case CanonicalConstVar:
		return "const"
	default:
		return "type"
	}
}

// CanonicalVar describes one abstracted inference variable of a canonical
// value: its sort and the universe it lives in.
type CanonicalVar struct {
	Kind     CanonicalVarKind
	Universe UniverseIndex
}

// BoundTerm returns the de Bruijn term referring to the canonical variable at
// the given index.
func (v CanonicalVar) BoundTerm(index int) Term {
	switch v.Kind {
	case CanonicalRegionVar:
		return &BoundRegion{Index: index}
	case CanonicalConstVar:
		return &BoundConst{Index: index}
	default:
		return &BoundType{Index: index}
	}
}

// Hashable is anything with a structural hash; canonical values require it of
// their payload so two canonical values are comparable independent of the
// inference context that produced them.
type Hashable interface {
	Hash() uint64
}

// Canonical is a value abstracted over its free inference variables.
type Canonical[T Hashable] struct {
	MaxUniverse UniverseIndex
	// Variables lists the abstracted variables in binding order; index i is
	// referred to by the bound term with index i.
	Variables []CanonicalVar
	// DefiningOpaques names the opaque types whose concrete identity this
	// value defines, not merely uses.
	DefiningOpaques []DefID
	Value           T
}

func (c Canonical[T]) Hash() uint64 {
	h := uint64(c.MaxUniverse) * 181
	for i, v := range c.Variables {
		h = 31*h ^ uint64(v.Kind)<<32 ^ uint64(v.Universe)<<8 ^ uint64(i)
	}
	for _, def := range c.DefiningOpaques {
		h = 31*h ^ hashString(string(def))
	}
	return h ^ c.Value.Hash()
}

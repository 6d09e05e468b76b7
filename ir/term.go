package ir

import (
	"fmt"
	"hash/fnv"
)

// DefID names a definition (a trait, an alias, a constant, a nominal type
// constructor) in the program being checked.
type DefID string

// UniverseIndex is a scoping level bounding which placeholders a term may
// legally reference.
type UniverseIndex uint32

type TypeVarID uint64
type RegionVarID uint64
type ConstVarID uint64

// Term is a generic argument: a type, a region, or a constant.
//
// Terms are canonicalization-stable: they hold no pointers into a particular
// inference context, so two structurally equal terms hash equal regardless of
// where they were built.
type Term interface {
	fmt.Stringer
	Hash() uint64
}

// Type is the type half of the term sum.
type Type interface {
	Term
	isType()
}

// Region is a lifetime-like scope term.
type Region interface {
	Term
	isRegion()
}

// Const is a type-level constant.
type Const interface {
	Term
	isConst()
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func hashTerms(seed uint64, terms []Term) uint64 {
	h := seed
	for _, t := range terms {
		h = 31*h ^ t.Hash()
	}
	return h
}

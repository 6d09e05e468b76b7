package ir

import (
	"fmt"
	"strings"
)

var (
	_ Type = (*InferType)(nil)
	_ Type = (*BoundType)(nil)
	_ Type = (*PlaceholderType)(nil)
	_ Type = (*AppliedType)(nil)
	_ Type = (*RefType)(nil)
	_ Type = (*AliasType)(nil)
	_ Type = (*ErrorType)(nil)
)

// InferType is a not-yet-resolved type inference variable.
// Construct through the inference delegate so IDs stay unique.
type InferType struct {
	ID TypeVarID
}

func (t *InferType) isType()        {}
func (t *InferType) String() string { return fmt.Sprintf("?t%d", t.ID) }
func (t *InferType) Hash() uint64   { return 0x9e3779b97f4a7c15 ^ uint64(t.ID)*31 }

// BoundType is a de Bruijn reference to a canonical variable. It only appears
// inside Canonical values, never in a context-bound term.
type BoundType struct {
	Index int
}

func (t *BoundType) isType()        {}
func (t *BoundType) String() string { return fmt.Sprintf("^t%d", t.Index) }
func (t *BoundType) Hash() uint64   { return 0xc2b2ae3d27d4eb4f ^ uint64(t.Index)*37 }

// PlaceholderType is a rigid skolem introduced for a universally quantified
// type parameter. It unifies only with itself.
type PlaceholderType struct {
	Universe UniverseIndex
	Name     string
}

func (t *PlaceholderType) isType()        {}
func (t *PlaceholderType) String() string { return "!" + t.Name }
func (t *PlaceholderType) Hash() uint64 {
	return hashString(t.Name)*41 ^ uint64(t.Universe)
}

// AppliedType is a nominal type constructor applied to zero or more terms.
// Primitives are zero-argument applications ("i32", "bool", ...).
type AppliedType struct {
	Def  DefID
	Args []Term
}

func (t *AppliedType) isType() {}
func (t *AppliedType) String() string {
	if len(t.Args) == 0 {
		return string(t.Def)
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s[%s]", t.Def, strings.Join(args, ", "))
}
func (t *AppliedType) Hash() uint64 {
	return hashTerms(hashString(string(t.Def))*43, t.Args)
}

// RefType is a region-annotated reference to Elem. Its well-formedness
// implies Elem outlives Region.
type RefType struct {
	Region Region
	Elem   Type
}

func (t *RefType) isType()        {}
func (t *RefType) String() string { return fmt.Sprintf("&%s %s", t.Region, t.Elem) }
func (t *RefType) Hash() uint64   { return t.Region.Hash()*47 ^ t.Elem.Hash()*53 }

// AliasType hides its true head shape behind a type-level indirection: a
// projection or, when Opaque, an opaque type whose identity is only visible
// within its defining scope. Matching on an AliasType head directly is a bug;
// structurally normalize first.
type AliasType struct {
	Def    DefID
	Args   []Term
	Opaque bool
}

func (t *AliasType) isType() {}
func (t *AliasType) String() string {
	prefix := "alias "
	if t.Opaque {
		prefix = "opaque "
	}
	if len(t.Args) == 0 {
		return prefix + string(t.Def)
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s%s[%s]", prefix, t.Def, strings.Join(args, ", "))
}
func (t *AliasType) Hash() uint64 {
	h := hashTerms(hashString(string(t.Def))*59, t.Args)
	if t.Opaque {
		h ^= 0xff51afd7ed558ccd
	}
	return h
}

// ErrorType stands in for a type that already failed checking elsewhere.
// It absorbs every obligation so one error does not cascade.
type ErrorType struct{}

func (t *ErrorType) isType()        {}
func (t *ErrorType) String() string { return "{type error}" }
func (t *ErrorType) Hash() uint64   { return 0x2545f4914f6cdd1d }

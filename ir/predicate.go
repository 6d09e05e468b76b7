package ir

import (
	"fmt"
	"strings"
)

// Predicate is the closed sum of obligations the solver can be asked to
// prove. The dispatcher switches over every variant exhaustively; adding a
// variant here must break every such switch on purpose.
type Predicate interface {
	fmt.Stringer
	Hash() uint64
	isPredicate()
}

var (
	_ Predicate = (*TypeOutlivesPredicate)(nil)
	_ Predicate = (*RegionOutlivesPredicate)(nil)
	_ Predicate = (*CoercePredicate)(nil)
	_ Predicate = (*SubtypePredicate)(nil)
	_ Predicate = (*ObjectSafePredicate)(nil)
	_ Predicate = (*WellFormedPredicate)(nil)
	_ Predicate = (*ConstEvaluatablePredicate)(nil)
	_ Predicate = (*ConstHasTypePredicate)(nil)
	_ Predicate = (*TraitPredicate)(nil)
	_ Predicate = (*ProjectionPredicate)(nil)
	_ Predicate = (*AliasRelatePredicate)(nil)
)

// TypeOutlivesPredicate asserts Ty outlives Region.
type TypeOutlivesPredicate struct {
	Ty     Type
	Region Region
}

func (p *TypeOutlivesPredicate) isPredicate() {}
func (p *TypeOutlivesPredicate) String() string {
	return fmt.Sprintf("%s: %s", p.Ty, p.Region)
}
func (p *TypeOutlivesPredicate) Hash() uint64 { return p.Ty.Hash()*101 ^ p.Region.Hash() }

// RegionOutlivesPredicate asserts region A outlives region B.
type RegionOutlivesPredicate struct {
	A Region
	B Region
}

func (p *RegionOutlivesPredicate) isPredicate() {}
func (p *RegionOutlivesPredicate) String() string {
	return fmt.Sprintf("%s: %s", p.A, p.B)
}
func (p *RegionOutlivesPredicate) Hash() uint64 { return p.A.Hash()*103 ^ p.B.Hash() }

// CoercePredicate asserts A coerces to B. The solver rewrites it into a
// subtyping obligation.
type CoercePredicate struct {
	A Type
	B Type
}

func (p *CoercePredicate) isPredicate() {}
func (p *CoercePredicate) String() string {
	return fmt.Sprintf("coerce %s -> %s", p.A, p.B)
}
func (p *CoercePredicate) Hash() uint64 { return p.A.Hash()*107 ^ p.B.Hash() }

// SubtypePredicate asserts A is a subtype of B. AIsExpected records which
// side diagnostics should blame; it does not affect solving.
type SubtypePredicate struct {
	A           Type
	B           Type
	AIsExpected bool
}

func (p *SubtypePredicate) isPredicate() {}
func (p *SubtypePredicate) String() string {
	return fmt.Sprintf("%s <: %s", p.A, p.B)
}
func (p *SubtypePredicate) Hash() uint64 { return p.A.Hash()*109 ^ p.B.Hash() }

// ObjectSafePredicate asserts the trait can be used as a runtime object.
type ObjectSafePredicate struct {
	Trait DefID
}

func (p *ObjectSafePredicate) isPredicate() {}
func (p *ObjectSafePredicate) String() string {
	return fmt.Sprintf("object-safe %s", p.Trait)
}
func (p *ObjectSafePredicate) Hash() uint64 { return hashString(string(p.Trait)) * 113 }

// WellFormedPredicate asserts the term is well formed under the environment.
type WellFormedPredicate struct {
	Term Term
}

func (p *WellFormedPredicate) isPredicate() {}
func (p *WellFormedPredicate) String() string {
	return fmt.Sprintf("well-formed %s", p.Term)
}
func (p *WellFormedPredicate) Hash() uint64 { return p.Term.Hash() * 127 }

// ConstEvaluatablePredicate asserts the constant can be evaluated.
type ConstEvaluatablePredicate struct {
	Const Const
}

func (p *ConstEvaluatablePredicate) isPredicate() {}
func (p *ConstEvaluatablePredicate) String() string {
	return fmt.Sprintf("const-evaluatable %s", p.Const)
}
func (p *ConstEvaluatablePredicate) Hash() uint64 { return p.Const.Hash() * 131 }

// ConstHasTypePredicate asserts the constant's intrinsic type is Ty.
type ConstHasTypePredicate struct {
	Const Const
	Ty    Type
}

func (p *ConstHasTypePredicate) isPredicate() {}
func (p *ConstHasTypePredicate) String() string {
	return fmt.Sprintf("%s has type %s", p.Const, p.Ty)
}
func (p *ConstHasTypePredicate) Hash() uint64 { return p.Const.Hash()*137 ^ p.Ty.Hash() }

// TraitPredicate asserts Self implements Trait. Solved through the candidate
// assembler, not inline.
type TraitPredicate struct {
	Trait DefID
	Self  Type
	Args  []Term
}

func (p *TraitPredicate) isPredicate() {}
func (p *TraitPredicate) String() string {
	if len(p.Args) == 0 {
		return fmt.Sprintf("%s: %s", p.Self, p.Trait)
	}
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s: %s[%s]", p.Self, p.Trait, strings.Join(args, ", "))
}
func (p *TraitPredicate) Hash() uint64 {
	return hashTerms(hashString(string(p.Trait))*139^p.Self.Hash(), p.Args)
}

// ProjectionPredicate asserts the alias projects to Term. The dispatcher
// rewrites it into an AliasRelate obligation.
type ProjectionPredicate struct {
	Alias *AliasType
	Term  Term
}

func (p *ProjectionPredicate) isPredicate() {}
func (p *ProjectionPredicate) String() string {
	return fmt.Sprintf("%s == %s", p.Alias, p.Term)
}
func (p *ProjectionPredicate) Hash() uint64 { return p.Alias.Hash()*149 ^ p.Term.Hash() }

// AliasRelationDirection selects how the two sides of an AliasRelate
// obligation must relate once the alias is revealed.
type AliasRelationDirection uint8

const (
	Equate AliasRelationDirection = iota
	Subtype
)

func (d AliasRelationDirection) String() string {
	if d == Equate {
		return "=="
	}
	return "<:"
}

// AliasRelatePredicate relates a term containing an alias head with another
// term, revealing the alias in the process.
type AliasRelatePredicate struct {
	Lhs       Term
	Rhs       Term
	Direction AliasRelationDirection
}

func (p *AliasRelatePredicate) isPredicate() {}
func (p *AliasRelatePredicate) String() string {
	return fmt.Sprintf("%s %s %s", p.Lhs, p.Direction, p.Rhs)
}
func (p *AliasRelatePredicate) Hash() uint64 {
	return p.Lhs.Hash()*151 ^ p.Rhs.Hash()*157 ^ uint64(p.Direction)
}

// Goal is an environment-scoped predicate to be proved or refuted.
type Goal struct {
	Env       *Env
	Predicate Predicate
}

func NewGoal(env *Env, p Predicate) Goal {
	return Goal{Env: env, Predicate: p}
}

func (g Goal) String() string {
	return g.Predicate.String()
}

func (g Goal) Hash() uint64 {
	return g.Env.Hash()*163 ^ g.Predicate.Hash()
}

// GoalSource records why a nested goal was added.
type GoalSource uint8

const (
	SourceMisc GoalSource = iota
	SourceWellFormed
	SourceNormalization
)

func (s GoalSource) String() string {
	switch s {
	case SourceWellFormed:
		return "well-formed"
	case SourceNormalization:
		return "normalization"
	default:
		return "misc"
	}
}

package solve

import (
	"github.com/typefirst/goalsolve/ir"
)

// Delegate is the inference machinery the solver drives: variable allocation,
// resolution, unification and the fact stores it feeds. The solver has
// exclusive access to it for the duration of one goal's evaluation.
type Delegate interface {
	// FreshTypeVar allocates a type inference variable usable in later
	// goals.
	FreshTypeVar() ir.Type
	// Resolve returns the current best-known binding of a term, which may
	// still contain inference variables.
	Resolve(t ir.Term) ir.Term
	// RegisterTypeOutlives records that ty outlives r. Cannot fail;
	// consistency of the region graph is checked elsewhere.
	RegisterTypeOutlives(ty ir.Type, r ir.Region)
	// RegisterRegionOutlives records that a outlives b.
	RegisterRegionOutlives(a, b ir.Region)
	// SubtypeOf constrains a to be a subtype of b, recording constraints on
	// inference variables, or returns ErrNoSolution on inconsistency.
	SubtypeOf(env *ir.Env, a, b ir.Type) error
	// UnifyEq equates two terms, or returns ErrNoSolution.
	UnifyEq(env *ir.Env, a, b ir.Term) error
	// TryConstEval attempts to reduce an unevaluated constant to a value.
	// The second result is false when evaluation cannot happen yet.
	TryConstEval(env *ir.Env, uv *ir.UnevaluatedConst) (ir.Const, bool)
	// DefineOpaque commits a concrete identity for an opaque type within
	// the current proof.
	DefineOpaque(def ir.DefID, args []ir.Term, concrete ir.Type)
}

// Registry answers static, deterministic questions about the program's
// definitions. It is the solver's view of the interner.
type Registry interface {
	// IsObjectSafe reports whether a trait can be used as a runtime object.
	IsObjectSafe(trait ir.DefID) bool
	// WellFormedGoals derives the well-formedness obligations implied by the
	// term's immediate structure. The second result is false when the term's
	// shape does not admit a decidable rule.
	WellFormedGoals(env *ir.Env, term ir.Term) ([]ir.Goal, bool)
	// TypeOfConstDef returns the declared type of a constant definition.
	TypeOfConstDef(def ir.DefID, args []ir.Term) ir.Type
	// AliasUnderlying reveals what an alias head stands for, when that is
	// visible under the environment.
	AliasUnderlying(env *ir.Env, alias *ir.AliasType) (ir.Type, bool)
}

// Assembler discovers candidate proofs for trait goals. Candidate discovery
// and ranking is a separate subsystem; the solver only merges its output.
type Assembler interface {
	// AssembleCandidates returns one canonical response per independently
	// applicable candidate. Candidates must not leak inference progress
	// into the shared context.
	AssembleCandidates(goal ir.Goal) ([]CanonicalResponse, error)
}

// Codec is the canonicalization boundary: it snapshots the progress made
// while evaluating one goal into a context-free canonical response.
//
// Scopes nest with goal evaluation: PushScope marks goal entry, and the Make
// methods read everything recorded on the delegate since the innermost mark.
type Codec interface {
	PushScope()
	PopScope()
	// MakeCanonicalResponse snapshots the current scope: variables touched,
	// their resolutions, and accumulated external constraints.
	MakeCanonicalResponse(certainty Certainty) CanonicalResponse
	// MakeAmbiguousResponseNoConstraints builds a response over the current
	// scope's variables that asserts only ambiguity: identity values, no
	// constraints.
	MakeAmbiguousResponseNoConstraints(cause Cause) CanonicalResponse
	// ApplyResponse reinstates a response's variable assignments on the
	// delegate, so a merged candidate's progress rejoins the context.
	ApplyResponse(resp CanonicalResponse) error
}

package infer

import (
	"github.com/typefirst/goalsolve/ir"
	"github.com/typefirst/goalsolve/solve"
)

// Impl is one trait implementation the assembler can propose as a candidate.
type Impl struct {
	Trait ir.DefID
	Self  ir.Type
}

// Registry is the reference interner: the static facts about the program's
// definitions the solver may query. Populate it before solving; it is never
// mutated during a query.
type Registry struct {
	objectSafe map[ir.DefID]bool
	aliases    map[ir.DefID]ir.Type
	revealed   map[ir.DefID]ir.Type
	constTypes map[ir.DefID]ir.Type
	impls      map[ir.DefID][]Impl
}

var _ solve.Registry = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{
		objectSafe: make(map[ir.DefID]bool),
		aliases:    make(map[ir.DefID]ir.Type),
		revealed:   make(map[ir.DefID]ir.Type),
		constTypes: make(map[ir.DefID]ir.Type),
		impls:      make(map[ir.DefID][]Impl),
	}
}

// RegisterTrait declares a trait and whether it is object-safe.
func (r *Registry) RegisterTrait(def ir.DefID, objectSafe bool) {
	r.objectSafe[def] = objectSafe
}

// RegisterAlias declares what a (non-opaque) alias stands for.
func (r *Registry) RegisterAlias(def ir.DefID, underlying ir.Type) {
	r.aliases[def] = underlying
}

// RevealOpaque makes an opaque type's identity visible, as it is within the
// opaque's defining scope.
func (r *Registry) RevealOpaque(def ir.DefID, concrete ir.Type) {
	r.revealed[def] = concrete
}

// RegisterConst declares the type of a constant definition.
func (r *Registry) RegisterConst(def ir.DefID, ty ir.Type) {
	r.constTypes[def] = ty
}

func (r *Registry) RegisterImpl(trait ir.DefID, self ir.Type) {
	r.impls[trait] = append(r.impls[trait], Impl{Trait: trait, Self: self})
}

func (r *Registry) Impls(trait ir.DefID) []Impl {
	return r.impls[trait]
}

func (r *Registry) IsObjectSafe(trait ir.DefID) bool {
	return r.objectSafe[trait]
}

func (r *Registry) TypeOfConstDef(def ir.DefID, args []ir.Term) ir.Type {
	if ty, ok := r.constTypes[def]; ok {
		return ty
	}
	return &ir.ErrorType{}
}

func (r *Registry) AliasUnderlying(env *ir.Env, alias *ir.AliasType) (ir.Type, bool) {
	if alias.Opaque {
		ty, ok := r.revealed[alias.Def]
		return ty, ok
	}
	ty, ok := r.aliases[alias.Def]
	return ty, ok
}

// WellFormedGoals derives the obligations implied by the term's immediate
// structure. Terms whose head is still an inference variable have no
// decidable rule yet.
func (r *Registry) WellFormedGoals(env *ir.Env, term ir.Term) ([]ir.Goal, bool) {
	switch x := term.(type) {
	case *ir.InferType:
		return nil, false
	case *ir.RefType:
		return []ir.Goal{
			ir.NewGoal(env, &ir.TypeOutlivesPredicate{Ty: x.Elem, Region: x.Region}),
			ir.NewGoal(env, &ir.WellFormedPredicate{Term: x.Elem}),
		}, true
	case *ir.AppliedType:
		return argWellFormedGoals(env, x.Args), true
	case *ir.AliasType:
		return argWellFormedGoals(env, x.Args), true
	case *ir.InferConst:
		return nil, false
	case ir.Const:
		return []ir.Goal{
			ir.NewGoal(env, &ir.ConstEvaluatablePredicate{Const: x}),
		}, true
	case ir.Region:
		return nil, true
	case *ir.PlaceholderType, *ir.ErrorType:
		return nil, true
	default:
		return nil, false
	}
}

func argWellFormedGoals(env *ir.Env, args []ir.Term) []ir.Goal {
	goals := make([]ir.Goal, 0, len(args))
	for _, arg := range args {
		goals = append(goals, ir.NewGoal(env, &ir.WellFormedPredicate{Term: arg}))
	}
	return goals
}

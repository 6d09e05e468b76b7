package solve

import (
	"fmt"
	"log/slog"

	"github.com/typefirst/goalsolve/internal/log"
	"github.com/typefirst/goalsolve/ir"
)

var logger = log.DefaultLogger.With("section", "solve")

// fixpointStepLimit bounds how many times the nested-goal worklist is
// re-evaluated before bailing with overflow. Eight steps resolve ordinary
// mutual recursion between obligations; genuinely cyclic goal graphs are the
// search graph's problem, not ours.
const fixpointStepLimit = 8

// recursionDepthLimit bounds direct recursion between goals within one
// evaluation tree. Exceeded depth yields ambiguity with an overflow cause,
// never a crash.
const recursionDepthLimit = 64

type nestedGoal struct {
	source ir.GoalSource
	goal   ir.Goal
}

// EvalCtx evaluates one goal tree. It owns a worklist of nested goals and
// borrows the delegate exclusively for the duration of the evaluation.
type EvalCtx struct {
	*slog.Logger

	delegate  Delegate
	registry  Registry
	assembler Assembler
	codec     Codec
	recorder  *Recorder

	depth  int
	nested []nestedGoal
}

// Option configures an EvalCtx.
type Option func(*EvalCtx)

// WithRecorder attaches a proof-tree recorder.
func WithRecorder(r *Recorder) Option {
	return func(ec *EvalCtx) {
		ec.recorder = r
	}
}

// WithAssembler attaches a trait-candidate assembler. Without one, trait
// goals have no candidates and fail.
func WithAssembler(a Assembler) Option {
	return func(ec *EvalCtx) {
		ec.assembler = a
	}
}

func NewEvalCtx(delegate Delegate, registry Registry, codec Codec, opts ...Option) *EvalCtx {
	ec := &EvalCtx{
		Logger:   logger,
		delegate: delegate,
		registry: registry,
		codec:    codec,
	}
	for _, opt := range opts {
		opt(ec)
	}
	return ec
}

// Evaluate proves, refutes, or gives up on a single goal.
//
// A returned ErrNoSolution means the goal is definitely refuted. An ambiguous
// certainty on the response means the caller should retry once more inference
// progress has been made.
func (ec *EvalCtx) Evaluate(goal ir.Goal) (CanonicalResponse, error) {
	return ec.evaluateGoal(ir.SourceMisc, goal)
}

func (ec *EvalCtx) evaluateGoal(source ir.GoalSource, goal ir.Goal) (resp CanonicalResponse, err error) {
	if ec.depth > recursionDepthLimit {
		ec.Debug("recursion depth limit hit", "goal", goal.String())
		return ResponseNoConstraints(0, nil, Ambiguous(CauseOverflow)), nil
	}
	ec.codec.PushScope()
	defer ec.codec.PopScope()
	ec.recorder.enter(source, goal)
	resp, err = ec.dispatch(goal)
	ec.recorder.exit(resp, err)
	return resp, err
}

// dispatch routes a goal to the handler for its predicate's syntactic kind.
// The switch is exhaustive over the closed predicate sum; an unknown dynamic
// type means a collaborator broke the solver's invariants.
func (ec *EvalCtx) dispatch(goal ir.Goal) (CanonicalResponse, error) {
	switch p := goal.Predicate.(type) {
	case *ir.TypeOutlivesPredicate:
		return ec.computeTypeOutlivesGoal(goal.Env, p)
	case *ir.RegionOutlivesPredicate:
		return ec.computeRegionOutlivesGoal(goal.Env, p)
	case *ir.CoercePredicate:
		return ec.computeCoerceGoal(goal.Env, p)
	case *ir.SubtypePredicate:
		return ec.computeSubtypeGoal(goal.Env, p)
	case *ir.ObjectSafePredicate:
		return ec.computeObjectSafeGoal(p)
	case *ir.WellFormedPredicate:
		return ec.computeWellFormedGoal(goal.Env, p)
	case *ir.ConstEvaluatablePredicate:
		return ec.computeConstEvaluatableGoal(goal.Env, p)
	case *ir.ConstHasTypePredicate:
		return ec.computeConstHasTypeGoal(goal.Env, p)
	case *ir.TraitPredicate:
		return ec.computeTraitGoal(goal)
	case *ir.ProjectionPredicate:
		return ec.computeProjectionGoal(goal.Env, p)
	case *ir.AliasRelatePredicate:
		return ec.computeAliasRelateGoal(goal.Env, p)
	default:
		panic(fmt.Sprintf("solve: unknown predicate kind %T", goal.Predicate))
	}
}

func (ec *EvalCtx) computeTypeOutlivesGoal(env *ir.Env, p *ir.TypeOutlivesPredicate) (CanonicalResponse, error) {
	ec.delegate.RegisterTypeOutlives(p.Ty, p.Region)
	return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyYes)
}

func (ec *EvalCtx) computeRegionOutlivesGoal(env *ir.Env, p *ir.RegionOutlivesPredicate) (CanonicalResponse, error) {
	ec.delegate.RegisterRegionOutlives(p.A, p.B)
	return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyYes)
}

func (ec *EvalCtx) computeCoerceGoal(env *ir.Env, p *ir.CoercePredicate) (CanonicalResponse, error) {
	return ec.computeSubtypeGoal(env, &ir.SubtypePredicate{
		A:           p.A,
		B:           p.B,
		AIsExpected: false,
	})
}

func (ec *EvalCtx) computeSubtypeGoal(env *ir.Env, p *ir.SubtypePredicate) (CanonicalResponse, error) {
	a := ec.delegate.Resolve(p.A).(ir.Type)
	b := ec.delegate.Resolve(p.B).(ir.Type)
	_, aInfer := a.(*ir.InferType)
	_, bInfer := b.(*ir.InferType)
	if aInfer && bInfer {
		// nothing is knowable about two unresolved variables yet
		return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyAmbiguous)
	}
	if err := ec.delegate.SubtypeOf(env, a, b); err != nil {
		return CanonicalResponse{}, err
	}
	return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyYes)
}

func (ec *EvalCtx) computeObjectSafeGoal(p *ir.ObjectSafePredicate) (CanonicalResponse, error) {
	// object-safety is a static property of the trait: refutation here is
	// definite, not ambiguous
	if ec.registry.IsObjectSafe(p.Trait) {
		return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyYes)
	}
	return CanonicalResponse{}, ErrNoSolution
}

func (ec *EvalCtx) computeWellFormedGoal(env *ir.Env, p *ir.WellFormedPredicate) (CanonicalResponse, error) {
	goals, ok := ec.registry.WellFormedGoals(env, ec.delegate.Resolve(p.Term))
	if !ok {
		return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyAmbiguous)
	}
	ec.AddGoals(ir.SourceWellFormed, goals)
	return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyYes)
}

func (ec *EvalCtx) computeConstEvaluatableGoal(env *ir.Env, p *ir.ConstEvaluatablePredicate) (CanonicalResponse, error) {
	ct := ec.delegate.Resolve(p.Const).(ir.Const)
	switch c := ct.(type) {
	case *ir.UnevaluatedConst:
		if _, ok := ec.delegate.TryConstEval(env, c); ok {
			return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyYes)
		}
		return ec.evaluateAddedGoalsAndMakeCanonicalResponse(Ambiguous(CauseMaybeConst))
	case *ir.InferConst:
		return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyAmbiguous)
	case *ir.ValueConst, *ir.PlaceholderConst, *ir.ErrorConst:
		return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyYes)
	case *ir.ParamConst, *ir.BoundConst, *ir.ExprConst:
		// canonicalization replaces params with placeholders, bound vars
		// cannot escape their binder, and const expressions are
		// unimplemented: all three shapes are impossible here
		panic(fmt.Sprintf("solve: unexpected const kind %T in const-evaluatable goal: %s", ct, ct))
	default:
		panic(fmt.Sprintf("solve: unknown const kind %T", ct))
	}
}

func (ec *EvalCtx) computeConstHasTypeGoal(env *ir.Env, p *ir.ConstHasTypePredicate) (CanonicalResponse, error) {
	ct := ec.delegate.Resolve(p.Const).(ir.Const)

	var ctTy ir.Type
	switch c := ct.(type) {
	case *ir.InferConst:
		// resolving the variable first would also resolve its type; until
		// then nothing is knowable
		return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyAmbiguous)
	case *ir.ErrorConst:
		return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyYes)
	case *ir.UnevaluatedConst:
		ctTy = ec.registry.TypeOfConstDef(c.Def, c.Args)
	case *ir.ValueConst:
		ctTy = c.Ty
	case *ir.PlaceholderConst:
		envTy, ok := env.ConstTypeOf(c.Name)
		if !ok {
			panic(fmt.Sprintf("solve: const placeholder %s has no recorded environment type", c))
		}
		ctTy = envTy
	case *ir.ExprConst:
		panic("solve: const-generic expressions are not supported")
	case *ir.ParamConst:
		panic(fmt.Sprintf("solve: const param %s should have been canonicalized to a placeholder", c))
	case *ir.BoundConst:
		panic(fmt.Sprintf("solve: escaping bound const var %s", c))
	default:
		panic(fmt.Sprintf("solve: unknown const kind %T", ct))
	}

	if err := ec.delegate.UnifyEq(env, ctTy, p.Ty); err != nil {
		return CanonicalResponse{}, err
	}
	return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyYes)
}

func (ec *EvalCtx) computeTraitGoal(goal ir.Goal) (CanonicalResponse, error) {
	if ec.assembler == nil {
		return ec.flounder(nil)
	}
	responses, err := ec.assembler.AssembleCandidates(goal)
	if err != nil {
		return CanonicalResponse{}, err
	}
	if resp, ok := ec.tryMergeResponses(responses); ok {
		// the winning candidate was probed in a rolled-back snapshot; its
		// progress has to be replayed onto the live context
		if err := ec.codec.ApplyResponse(resp); err != nil {
			return CanonicalResponse{}, err
		}
		return resp, nil
	}
	return ec.flounder(responses)
}

func (ec *EvalCtx) computeProjectionGoal(env *ir.Env, p *ir.ProjectionPredicate) (CanonicalResponse, error) {
	return ec.computeAliasRelateGoal(env, &ir.AliasRelatePredicate{
		Lhs:       p.Alias,
		Rhs:       p.Term,
		Direction: ir.Equate,
	})
}

func (ec *EvalCtx) computeAliasRelateGoal(env *ir.Env, p *ir.AliasRelatePredicate) (CanonicalResponse, error) {
	lhs := ec.delegate.Resolve(p.Lhs)
	rhs := ec.delegate.Resolve(p.Rhs)

	alias, ok := lhs.(*ir.AliasType)
	other := rhs
	if !ok {
		alias, ok = rhs.(*ir.AliasType)
		other = lhs
	}
	if !ok {
		// both sides already have concrete heads
		if err := ec.relateResolved(env, lhs, rhs, p.Direction); err != nil {
			return CanonicalResponse{}, err
		}
		return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyYes)
	}

	if under, revealed := ec.registry.AliasUnderlying(env, alias); revealed {
		if _, stillAlias := under.(*ir.AliasType); stillAlias {
			// reveal one level per goal so the fixpoint keeps control
			ec.AddGoal(ir.SourceNormalization, ir.NewGoal(env, &ir.AliasRelatePredicate{
				Lhs:       under,
				Rhs:       other,
				Direction: p.Direction,
			}))
			return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyYes)
		}
		if err := ec.relateResolved(env, under, other, p.Direction); err != nil {
			return CanonicalResponse{}, err
		}
		return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyYes)
	}

	if alias.Opaque {
		if concrete, isTy := other.(ir.Type); isTy {
			if _, unresolved := concrete.(*ir.InferType); !unresolved {
				// this proof defines the opaque type's identity
				ec.delegate.DefineOpaque(alias.Def, alias.Args, concrete)
				return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyYes)
			}
		}
	}
	return ec.evaluateAddedGoalsAndMakeCanonicalResponse(CertaintyAmbiguous)
}

func (ec *EvalCtx) relateResolved(env *ir.Env, lhs, rhs ir.Term, direction ir.AliasRelationDirection) error {
	if direction == ir.Subtype {
		lty, lok := lhs.(ir.Type)
		rty, rok := rhs.(ir.Type)
		if lok && rok {
			return ec.delegate.SubtypeOf(env, lty, rty)
		}
	}
	return ec.delegate.UnifyEq(env, lhs, rhs)
}

// AddGoal appends a nested goal to the worklist. Goals are evaluated in
// insertion order by the bounded fixpoint.
func (ec *EvalCtx) AddGoal(source ir.GoalSource, goal ir.Goal) {
	ec.nested = append(ec.nested, nestedGoal{source: source, goal: goal})
}

func (ec *EvalCtx) AddGoals(source ir.GoalSource, goals []ir.Goal) {
	for _, goal := range goals {
		ec.AddGoal(source, goal)
	}
}

// evaluateAddedGoalsAndMakeCanonicalResponse drains the nested-goal worklist
// under the bounded fixpoint, joins every nested certainty into base, and
// snapshots the result through the canonicalization codec.
func (ec *EvalCtx) evaluateAddedGoalsAndMakeCanonicalResponse(base Certainty) (CanonicalResponse, error) {
	nested, err := ec.tryEvaluateAddedGoals()
	if err != nil {
		return CanonicalResponse{}, err
	}
	certainty := base.Join(nested)
	resp := ec.codec.MakeCanonicalResponse(certainty)
	ec.Debug("built canonical response", "certainty", certainty.String())
	return resp, nil
}

// tryEvaluateAddedGoals repeatedly re-evaluates all pending goals until the
// worklist is empty, no goal makes progress, or the step limit is reached.
// A definite NoSolution from any goal short-circuits the whole response.
func (ec *EvalCtx) tryEvaluateAddedGoals() (Certainty, error) {
	for step := 0; ; step++ {
		if len(ec.nested) == 0 {
			return CertaintyYes, nil
		}
		if step >= fixpointStepLimit {
			ec.Debug("fixpoint step limit reached", "pending", len(ec.nested))
			ec.nested = nil
			return Ambiguous(CauseOverflow), nil
		}

		goals := ec.nested
		ec.nested = nil
		unsolved := CertaintyYes
		hasChanged := false
		for _, ng := range goals {
			resp, err := ec.evaluateNested(ng)
			if err != nil {
				ec.nested = nil
				return CertaintyYes, err
			}
			if !resp.Value.VarValues.IsIdentity() {
				hasChanged = true
			}
			if !resp.Value.Certainty.IsYes() {
				unsolved = unsolved.Join(resp.Value.Certainty)
				ec.nested = append(ec.nested, ng)
			}
		}
		if len(ec.nested) == 0 {
			return CertaintyYes, nil
		}
		if !hasChanged {
			// stalled: re-running the same goals cannot decide them
			return unsolved, nil
		}
	}
}

func (ec *EvalCtx) evaluateNested(ng nestedGoal) (CanonicalResponse, error) {
	child := &EvalCtx{
		Logger:    ec.Logger,
		delegate:  ec.delegate,
		registry:  ec.registry,
		assembler: ec.assembler,
		codec:     ec.codec,
		recorder:  ec.recorder,
		depth:     ec.depth + 1,
	}
	return child.evaluateGoal(ng.source, ng.goal)
}

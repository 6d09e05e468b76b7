package infer

import (
	"log/slog"

	"github.com/typefirst/goalsolve/ir"
	"github.com/typefirst/goalsolve/solve"
)

// ImplAssembler is the reference candidate assembler: it proposes one
// candidate per matching environment assumption and one per matching
// registered implementation. Every candidate is probed in a snapshot so no
// single candidate's inference progress leaks into the shared context; the
// solver's merge step decides what the caller actually learns.
//
// Ranking and specialization between candidates belong to a richer assembler;
// this one only discovers them.
type ImplAssembler struct {
	logger   *slog.Logger
	delegate *Delegate
	codec    *Codec
}

var _ solve.Assembler = (*ImplAssembler)(nil)

func NewImplAssembler(delegate *Delegate, codec *Codec) *ImplAssembler {
	return &ImplAssembler{
		logger:   logger.With("section", "infer.assemble"),
		delegate: delegate,
		codec:    codec,
	}
}

func (a *ImplAssembler) AssembleCandidates(goal ir.Goal) ([]solve.CanonicalResponse, error) {
	trait, ok := goal.Predicate.(*ir.TraitPredicate)
	if !ok {
		return nil, nil
	}

	var responses []solve.CanonicalResponse
	for clause := range goal.Env.Clauses() {
		assumption, ok := clause.(*ir.TraitClause)
		if !ok || assumption.Trait != trait.Trait {
			continue
		}
		if resp, ok := a.probeCandidate(goal.Env, trait.Self, assumption.Self); ok {
			responses = append(responses, resp)
		}
	}
	for _, impl := range a.delegate.Registry.Impls(trait.Trait) {
		if resp, ok := a.probeCandidate(goal.Env, trait.Self, impl.Self); ok {
			responses = append(responses, resp)
		}
	}
	a.logger.Debug("assembled candidates", "goal", goal.String(), "count", len(responses))
	return responses, nil
}

// probeCandidate tries to apply one candidate inside a snapshot. The
// snapshot is always rolled back; only the canonical response escapes.
func (a *ImplAssembler) probeCandidate(env *ir.Env, self, candidate ir.Type) (solve.CanonicalResponse, bool) {
	snapshot := a.delegate.Snapshot()
	defer a.delegate.Rollback(snapshot)

	a.codec.PushScope()
	defer a.codec.PopScope()

	if err := a.delegate.UnifyEq(env, self, candidate); err != nil {
		return solve.CanonicalResponse{}, false
	}
	return a.codec.MakeCanonicalResponse(solve.CertaintyYes), true
}

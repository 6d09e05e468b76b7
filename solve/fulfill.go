package solve

import (
	"log/slog"

	set "github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"
	"github.com/typefirst/goalsolve/ir"
	"github.com/typefirst/goalsolve/solverr"
)

// defaultFulfillFuel bounds how many re-evaluation rounds fulfillment may
// spend before giving up on the remaining obligations as overflowed.
const defaultFulfillFuel = 128

// FulfillmentCtx holds the set of pending obligations for one inference
// context and drives them to quiescence: obligations are re-evaluated as
// long as inference keeps making progress, then the survivors become
// diagnostics.
type FulfillmentCtx struct {
	*slog.Logger

	delegate  Delegate
	registry  Registry
	codec     Codec
	assembler Assembler

	pending []pendingObligation
	seen    *set.HashSet[ir.Goal, uint64]
	errs    *solverr.Errors
}

// pendingObligation is an undecided goal plus the certainty its last
// evaluation reported, so stalling can tell overflow apart from plain
// ambiguity.
type pendingObligation struct {
	goal      ir.Goal
	certainty Certainty
}

func NewFulfillmentCtx(delegate Delegate, registry Registry, codec Codec, opts ...Option) *FulfillmentCtx {
	// reuse EvalCtx options to pick up an assembler or recorder
	probe := NewEvalCtx(delegate, registry, codec, opts...)
	return &FulfillmentCtx{
		Logger:    logger.With("section", "solve.fulfill"),
		delegate:  delegate,
		registry:  registry,
		codec:     codec,
		assembler: probe.assembler,
		seen:      set.NewHashSet[ir.Goal, uint64](0),
	}
}

// Register adds an obligation. Structurally identical goals are only tracked
// once.
func (fc *FulfillmentCtx) Register(goal ir.Goal) {
	if !fc.seen.Insert(goal) {
		return
	}
	fc.pending = append(fc.pending, pendingObligation{goal: goal, certainty: CertaintyAmbiguous})
}

// PendingCount reports how many obligations are still undecided.
func (fc *FulfillmentCtx) PendingCount() int {
	return len(fc.pending)
}

// SelectWherePossible evaluates every pending obligation, retrying ambiguous
// ones while any evaluation makes inference progress. Definite failures are
// converted to diagnostics immediately; ambiguous obligations stay pending.
func (fc *FulfillmentCtx) SelectWherePossible() *solverr.Errors {
	for fuel := defaultFulfillFuel; fuel > 0; fuel-- {
		if len(fc.pending) == 0 {
			return fc.errs
		}
		obligations := fc.pending
		fc.pending = nil
		hasChanged := false

		for _, ob := range obligations {
			goal := ob.goal
			ec := &EvalCtx{
				Logger:    fc.Logger,
				delegate:  fc.delegate,
				registry:  fc.registry,
				assembler: fc.assembler,
				codec:     fc.codec,
			}
			resp, err := ec.Evaluate(goal)
			// any evaluation that resolved a variable counts as progress,
			// proved ones included: an earlier obligation in this round may
			// have stalled on exactly that variable
			if err == nil && !resp.Value.VarValues.IsIdentity() {
				hasChanged = true
			}
			switch {
			case errors.Is(err, ErrNoSolution):
				fc.Debug("obligation refuted", "goal", goal.String())
				fc.errs = fc.errs.With(solverr.New(solverr.NewUnsatisfied{For: goal}))
			case err != nil:
				fc.errs = fc.errs.With(solverr.New(solverr.NewConstEval{For: goal, From: err}))
			case resp.Value.Certainty.IsYes():
				fc.Debug("obligation proved", "goal", goal.String())
			default:
				fc.pending = append(fc.pending, pendingObligation{goal: goal, certainty: resp.Value.Certainty})
			}
		}

		if !hasChanged {
			return fc.errs
		}
	}
	fc.Warn("fulfillment ran out of fuel", "pending", len(fc.pending))
	return fc.errs
}

// StalledErrors converts every still-pending obligation into a diagnostic:
// an overflow diagnostic when its last evaluation gave up at a solver bound,
// an ambiguity diagnostic otherwise. Call it only once the caller knows no
// further inference progress is possible.
func (fc *FulfillmentCtx) StalledErrors() *solverr.Errors {
	errs := fc.errs
	for _, ob := range fc.pending {
		if cause, ok := ob.certainty.AmbiguousCause(); ok && cause == CauseOverflow {
			errs = errs.With(solverr.New(solverr.NewOverflow{For: ob.goal}))
			continue
		}
		errs = errs.With(solverr.New(solverr.NewAmbiguous{For: ob.goal, Cause: "type annotations needed"}))
	}
	return errs
}

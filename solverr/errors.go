package solverr

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/typefirst/goalsolve/ir"
)

// enableDebugErrorPrinting makes errors include their stacktrace when printed
const enableDebugErrorPrinting bool = false
const enableDebugFullStacktrace bool = false

type ErrCode int

const (
	None ErrCode = iota
	Unsatisfied
	AmbiguousObligation
	OverflowObligation
	ConstEval
)

// SolveError is a checker-facing diagnostic produced when an obligation
// definitely fails or can no longer make progress.
type SolveError interface {
	Error() string
	Code() ErrCode
	Goal() ir.Goal

	withStack([]byte) SolveError
	getStack() []byte
}

func FormatWithCode(e SolveError) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			stack = strings.Split(stack, "\n")[6]
		}
		return fmt.Sprintf("%s:(E%03d) %s", stack, e.Code(), e.Error())
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

func New[E SolveError](err E) SolveError {
	return err.withStack(debug.Stack())
}

// NewUnsatisfied reports a goal that is definitely refuted under its
// environment.
type NewUnsatisfied struct {
	For   ir.Goal
	stack []byte
}

func (e NewUnsatisfied) Error() string {
	return fmt.Sprintf("obligation cannot be satisfied: %s", e.For)
}
func (e NewUnsatisfied) Code() ErrCode    { return Unsatisfied }
func (e NewUnsatisfied) Goal() ir.Goal    { return e.For }
func (e NewUnsatisfied) getStack() []byte { return e.stack }
func (e NewUnsatisfied) withStack(stack []byte) SolveError {
	e.stack = stack
	return e
}

// NewAmbiguous reports a goal that stayed ambiguous after inference stopped
// making progress.
type NewAmbiguous struct {
	For   ir.Goal
	Cause string
	stack []byte
}

func (e NewAmbiguous) Error() string {
	return fmt.Sprintf("cannot infer a unique solution for %s (%s)", e.For, e.Cause)
}
func (e NewAmbiguous) Code() ErrCode    { return AmbiguousObligation }
func (e NewAmbiguous) Goal() ir.Goal    { return e.For }
func (e NewAmbiguous) getStack() []byte { return e.stack }
func (e NewAmbiguous) withStack(stack []byte) SolveError {
	e.stack = stack
	return e
}

// NewOverflow reports a goal abandoned because its proof tree exceeded the
// solver's bounded fixpoint.
type NewOverflow struct {
	For   ir.Goal
	stack []byte
}

func (e NewOverflow) Error() string {
	return fmt.Sprintf("overflow while proving %s", e.For)
}
func (e NewOverflow) Code() ErrCode    { return OverflowObligation }
func (e NewOverflow) Goal() ir.Goal    { return e.For }
func (e NewOverflow) getStack() []byte { return e.stack }
func (e NewOverflow) withStack(stack []byte) SolveError {
	e.stack = stack
	return e
}

// NewConstEval reports a constant whose evaluation failed.
type NewConstEval struct {
	For   ir.Goal
	From  error
	stack []byte
}

func (e NewConstEval) Error() string {
	return fmt.Sprintf("could not evaluate constant in %s: %v", e.For, e.From)
}
func (e NewConstEval) Code() ErrCode    { return ConstEval }
func (e NewConstEval) Goal() ir.Goal    { return e.For }
func (e NewConstEval) getStack() []byte { return e.stack }
func (e NewConstEval) withStack(stack []byte) SolveError {
	e.stack = stack
	return e
}

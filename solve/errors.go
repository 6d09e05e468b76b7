package solve

import "github.com/pkg/errors"

// ErrNoSolution reports that a goal is definitely refuted under its
// environment. It is an expected outcome, not a defect: the caller must fail
// the containing obligation and may not retry.
//
// Broken solver invariants never travel on this channel; those panic at the
// violation site instead, since continuing could silently accept an unsound
// program.
var ErrNoSolution = errors.New("no solution")

package solve

// Cause explains why a goal is ambiguous rather than proved.
type Cause uint8

const (
	// CauseUnknown is plain ambiguity: some inference variable must be
	// resolved before the goal can be decided.
	CauseUnknown Cause = iota
	// CauseMaybeConst marks ambiguity blocked on a constant that could not
	// be evaluated yet.
	CauseMaybeConst
	// CauseOverflow marks a proof abandoned at the fixpoint or recursion
	// bound.
	CauseOverflow
)

func (c Cause) String() string {
	switch c {
	case CauseMaybeConst:
		return "maybe-const"
	case CauseOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// Certainty is the three-valued outcome of a proof attempt: proved
// (CertaintyYes) or ambiguous with a cause. Definite refutation travels on
// the error channel as ErrNoSolution, not here.
//
// Certainties form a join-semilattice ordered Yes < Ambiguous(Unknown) <
// Ambiguous(MaybeConst) < Ambiguous(Overflow); Join is max, which makes it
// commutative and associative with Yes as the identity.
type Certainty uint8

const (
	CertaintyYes Certainty = iota
	certaintyAmbiguousUnknown
	certaintyAmbiguousMaybeConst
	certaintyAmbiguousOverflow
)

// CertaintyAmbiguous is plain, cause-unknown ambiguity.
const CertaintyAmbiguous = certaintyAmbiguousUnknown

// Ambiguous builds the ambiguous certainty for a cause.
func Ambiguous(cause Cause) Certainty {
	switch cause {
	case CauseMaybeConst:
		return certaintyAmbiguousMaybeConst
	case CauseOverflow:
		return certaintyAmbiguousOverflow
	default:
		return certaintyAmbiguousUnknown
	}
}

func (c Certainty) IsYes() bool {
	return c == CertaintyYes
}

// AmbiguousCause returns the cause when c is ambiguous.
func (c Certainty) AmbiguousCause() (Cause, bool) {
	switch c {
	case certaintyAmbiguousUnknown:
		return CauseUnknown, true
	case certaintyAmbiguousMaybeConst:
		return CauseMaybeConst, true
	case certaintyAmbiguousOverflow:
		return CauseOverflow, true
	default:
		return CauseUnknown, false
	}
}

// Join merges the outcomes of two independent proof obligations that must
// both hold.
func (c Certainty) Join(other Certainty) Certainty {
	if other > c {
		return other
	}
	return c
}

func (c Certainty) String() string {
	if cause, ok := c.AmbiguousCause(); ok {
		return "ambiguous(" + cause.String() + ")"
	}
	return "yes"
}

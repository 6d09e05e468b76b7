package solve

// tryMergeResponses combines several independently-derived responses for the
// same goal into one, when that can be done without picking an arbitrary
// winner. The second result is false when the candidates genuinely disagree;
// the caller should then flounder.
func (ec *EvalCtx) tryMergeResponses(responses []CanonicalResponse) (CanonicalResponse, bool) {
	if len(responses) == 0 {
		return CanonicalResponse{}, false
	}

	one := responses[0]
	allEqual := true
	for _, resp := range responses[1:] {
		if !ResponsesEqual(resp, one) {
			allEqual = false
			break
		}
	}
	if allEqual {
		return one, true
	}

	// a proof that asserts truth and commits to nothing else dominates any
	// alternative: accepting it cannot conflict with whatever the caller
	// later decides
	for _, resp := range responses {
		if resp.Value.Certainty.IsYes() && HasNoInferenceOrExternalConstraints(resp) {
			return resp, true
		}
	}
	return CanonicalResponse{}, false
}

// flounder is the fallback when candidates cannot be merged: join their
// certainties and report ambiguity with no constraints. An empty candidate
// set means no proof exists at all, which is definite failure.
func (ec *EvalCtx) flounder(responses []CanonicalResponse) (CanonicalResponse, error) {
	if len(responses) == 0 {
		return CanonicalResponse{}, ErrNoSolution
	}

	certainty := CertaintyAmbiguous
	for _, resp := range responses {
		certainty = certainty.Join(resp.Value.Certainty)
	}
	cause, ok := certainty.AmbiguousCause()
	if !ok {
		panic("solve: floundered response joined to a definite certainty")
	}
	return ec.codec.MakeAmbiguousResponseNoConstraints(cause), nil
}

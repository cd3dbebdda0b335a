package services

// SelectRecipients bounds a sorted candidate list to at most max
// entries. Candidates arrive nearest first from the resolver, so the
// policy is "nearest max users", not scan-order truncation. Pure
// function; never mutates its input.
func SelectRecipients(candidates []Candidate, max int) []Candidate {
	if max <= 0 || len(candidates) == 0 {
		return nil
	}
	if len(candidates) > max {
		candidates = candidates[:max]
	}
	out := make([]Candidate, len(candidates))
	copy(out, candidates)
	return out
}

package bt

// blackboard is the state used by engine tests. Leaves record their calls in
// order so tests can assert both counts and short-circuiting.
type blackboard struct {
	calls []string
	value int
}

func (b *blackboard) count(label string) int {
	n := 0
	for _, c := range b.calls {
		if c == label {
			n++
		}
	}
	return n
}

// fixed returns an Action that records its call and returns result.
func fixed(label string, result bool) *Action[*blackboard] {
	return NewAction(label, func(b *blackboard) bool {
		b.calls = append(b.calls, label)
		return result
	})
}

// predicate returns a Check that records its call and returns result.
func predicate(label string, result bool) *Check[*blackboard] {
	return NewCheck(label, func(b *blackboard) bool {
		b.calls = append(b.calls, label)
		return result
	})
}

// scripted returns an Action whose nth call returns results[n-1] and whose
// calls beyond the script return false.
func scripted(label string, results ...bool) *Action[*blackboard] {
	n := 0
	return NewAction(label, func(b *blackboard) bool {
		b.calls = append(b.calls, label)
		n++
		if n > len(results) {
			return false
		}
		return results[n-1]
	})
}

package dispatch

// Causation describes the ordered ancestry of in-flight triggers that led to
// an event, with the event's own category last.
type Causation struct {
	chain []Category
}

// DirectCause returns the category of the trigger being dispatched, or
// CategoryRoot when the chain is empty.
func (c Causation) DirectCause() Category {
	if len(c.chain) == 0 {
		return CategoryRoot
	}
	return c.chain[len(c.chain)-1]
}

// IsIndirectCause reports whether category appears among the ancestors of
// the current trigger, i.e. the triggers that were already in flight when
// this one fired. The current trigger's own category is not an indirect
// cause of itself.
func (c Causation) IsIndirectCause(category Category) bool {
	if len(c.chain) < 2 {
		return false
	}
	for _, ancestor := range c.chain[:len(c.chain)-1] {
		if ancestor == category {
			return true
		}
	}
	return false
}

// Depth returns the length of the causation chain.
func (c Causation) Depth() int {
	return len(c.chain)
}

package edit

// Compound groups child edits into one atomic unit from the log's
// perspective: redo runs the children first to last, undo runs them last to
// first.
type Compound struct {
	description string
	children    []Edit
}

// NewCompound builds a compound edit over children in the given order.
func NewCompound(description string, children ...Edit) *Compound {
	return &Compound{description: description, children: children}
}

// CanUndo defers to the last child; an empty compound is vacuously undoable.
func (c *Compound) CanUndo() bool {
	if len(c.children) == 0 {
		return true
	}
	return c.children[len(c.children)-1].CanUndo()
}

// CanRedo defers to the first child; an empty compound is vacuously redoable.
func (c *Compound) CanRedo() bool {
	if len(c.children) == 0 {
		return true
	}
	return c.children[0].CanRedo()
}

// Undo reverses the children in reverse order, stopping at the first error.
func (c *Compound) Undo() error {
	for i := len(c.children) - 1; i >= 0; i-- {
		if err := c.children[i].Undo(); err != nil {
			return err
		}
	}
	return nil
}

// Redo performs the children in order, stopping at the first error.
func (c *Compound) Redo() error {
	for _, child := range c.children {
		if err := child.Redo(); err != nil {
			return err
		}
	}
	return nil
}

// Description labels the compound for display.
func (c *Compound) Description() string {
	return c.description
}

// IsSignificant is true iff at least one child is significant.
func (c *Compound) IsSignificant() bool {
	for _, child := range c.children {
		if child.IsSignificant() {
			return true
		}
	}
	return false
}

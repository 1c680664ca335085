// Package edit implements undoable edits over the combat state.
//
// An edit's viability is never cached: CanUndo and CanRedo re-check the live
// roster and timeline at call time, so an edit silently expires when the
// state it refers to is changed by any path, including one that bypassed the
// log entirely.
package edit

import (
	"fmt"

	"github.com/louvel/greatwheel/internal/combat/roster"
	"github.com/louvel/greatwheel/internal/combat/timeline"
	apperrors "github.com/louvel/greatwheel/internal/platform/errors"
)

// Edit is one reversible unit of combat-state change.
type Edit interface {
	// CanUndo reports whether undoing is still meaningful against the
	// current state.
	CanUndo() bool
	// CanRedo reports whether redoing is still meaningful against the
	// current state.
	CanRedo() bool
	// Undo reverses the edit. It fails when CanUndo is false.
	Undo() error
	// Redo performs the edit again. It fails when CanRedo is false.
	Redo() error
	// Description is a short human-readable label for the edit.
	Description() string
	// IsSignificant reports whether the edit counts as a user-visible
	// undo step on its own.
	IsSignificant() bool
}

func notUndoable(description string) error {
	return apperrors.WithMetadata(apperrors.CodeEditNotUndoable, "edit can no longer be undone", map[string]string{
		"edit": description,
	})
}

func notRedoable(description string) error {
	return apperrors.WithMetadata(apperrors.CodeEditNotRedoable, "edit can no longer be redone", map[string]string{
		"edit": description,
	})
}

// MoveEdit is a combatant's move between two ticks. Its liveness check is
// presence only: the move stays reversible while the combatant is in the
// roster, regardless of later actions.
type MoveEdit struct {
	roster    *roster.Roster
	timeline  *timeline.Timeline
	combatant string
	from      int
	to        int
	performed bool
}

// NewMoveEdit captures a move that has already happened, from the prior tick
// to the one the combatant now occupies.
func NewMoveEdit(r *roster.Roster, t *timeline.Timeline, combatant string, from, to int) *MoveEdit {
	return &MoveEdit{
		roster:    r,
		timeline:  t,
		combatant: combatant,
		from:      from,
		to:        to,
		performed: true,
	}
}

// CanUndo reports whether the move can be reversed: it has been performed
// and the combatant is still present.
func (e *MoveEdit) CanUndo() bool {
	return e.performed && e.roster.Contains(e.combatant)
}

// CanRedo reports whether the move can be re-applied: it is currently undone
// and the combatant is still present.
func (e *MoveEdit) CanRedo() bool {
	return !e.performed && e.roster.Contains(e.combatant)
}

// Undo moves the combatant back to its prior tick.
func (e *MoveEdit) Undo() error {
	if !e.CanUndo() {
		return notUndoable(e.Description())
	}
	if _, _, err := e.timeline.MoveToTick(e.combatant, e.from); err != nil {
		return err
	}
	e.performed = false
	return nil
}

// Redo moves the combatant forward to the destination tick again.
func (e *MoveEdit) Redo() error {
	if !e.CanRedo() {
		return notRedoable(e.Description())
	}
	if _, _, err := e.timeline.MoveToTick(e.combatant, e.to); err != nil {
		return err
	}
	e.performed = true
	return nil
}

// Description labels the move for display.
func (e *MoveEdit) Description() string {
	return fmt.Sprintf("move %s from tick %d to tick %d", e.combatant, e.from, e.to)
}

// IsSignificant is true: a move is a user-visible undo step.
func (e *MoveEdit) IsSignificant() bool {
	return true
}

// ActionEdit is the history record of a combatant's action. Its liveness
// check is strict: undoing requires that the action is still the combatant's
// most recently recorded one, so out-of-order undo is refused.
type ActionEdit struct {
	roster    *roster.Roster
	action    roster.Action
	performed bool
}

// NewActionEdit captures an action that has already been recorded in the
// roster's history.
func NewActionEdit(r *roster.Roster, action roster.Action) *ActionEdit {
	return &ActionEdit{
		roster:    r,
		action:    action,
		performed: true,
	}
}

// CanUndo reports whether the record can be removed: it is performed, the
// combatant is still present, and no later action has superseded it.
func (e *ActionEdit) CanUndo() bool {
	if !e.performed || !e.roster.Contains(e.action.Combatant) {
		return false
	}
	last, ok := e.roster.LastAction(e.action.Combatant)
	return ok && last.ID == e.action.ID
}

// CanRedo reports whether the record can be re-appended: it is currently
// undone and the combatant is still present.
func (e *ActionEdit) CanRedo() bool {
	return !e.performed && e.roster.Contains(e.action.Combatant)
}

// Undo removes the action from the combatant's history.
func (e *ActionEdit) Undo() error {
	if !e.CanUndo() {
		return notUndoable(e.Description())
	}
	e.roster.RemoveLastAction(e.action.Combatant)
	e.performed = false
	return nil
}

// Redo re-appends the action to the combatant's history.
func (e *ActionEdit) Redo() error {
	if !e.CanRedo() {
		return notRedoable(e.Description())
	}
	if err := e.roster.RecordAction(e.action); err != nil {
		return err
	}
	e.performed = true
	return nil
}

// Description labels the action for display.
func (e *ActionEdit) Description() string {
	return fmt.Sprintf("%s by %s on tick %d", e.action.Kind, e.action.Combatant, e.action.Tick)
}

// IsSignificant is false: the history record rides along with the move it
// belongs to rather than forming its own undo step.
func (e *ActionEdit) IsSignificant() bool {
	return false
}

// Package roster tracks combat participants and their recorded actions.
//
// The edit log decides whether an undo is still meaningful by asking the
// roster two questions at the moment of the attempt: is the combatant still
// present, and is this edit's action still the combatant's most recent one.
// The roster therefore keeps a per-combatant action history rather than a
// single flag.
package roster

import (
	"slices"

	"github.com/louvel/greatwheel/internal/core/dice"
	apperrors "github.com/louvel/greatwheel/internal/platform/errors"
	"github.com/louvel/greatwheel/internal/platform/id"
)

// Combatant is a participant tracked by the roster.
type Combatant struct {
	ID   string
	Name string
}

// Action is one recorded combatant action.
type Action struct {
	// ID uniquely identifies the action for undo bookkeeping.
	ID string
	// Combatant is the acting combatant's ID.
	Combatant string
	// Kind is a short label for the action ("attack", "guard", ...).
	Kind string
	// Tick is the tick the action was taken on.
	Tick int
	// Speed is the tick cost until the combatant's next turn.
	Speed int
	// Outcome is the dice outcome of the action, when one was rolled.
	Outcome *dice.Outcome
}

// Roster is the ordered set of combatants in a session, with their action
// histories. It holds no locks; it is confined to a single actor.
type Roster struct {
	order   []string
	byID    map[string]Combatant
	history map[string][]Action

	idGenerator func() (string, error)
}

// New creates an empty roster.
func New() *Roster {
	return &Roster{
		byID:        make(map[string]Combatant),
		history:     make(map[string][]Action),
		idGenerator: id.NewID,
	}
}

// Add creates a combatant with a generated ID and appends it in join order.
func (r *Roster) Add(name string) (Combatant, error) {
	if name == "" {
		return Combatant{}, apperrors.New(apperrors.CodeRosterEmptyName, "combatant name is required")
	}
	combatantID, err := r.idGenerator()
	if err != nil {
		return Combatant{}, err
	}
	return r.add(Combatant{ID: combatantID, Name: name})
}

// Restore re-adds a combatant under its previous identity, e.g. when
// loading a snapshot.
func (r *Roster) Restore(combatant Combatant) (Combatant, error) {
	if combatant.Name == "" {
		return Combatant{}, apperrors.New(apperrors.CodeRosterEmptyName, "combatant name is required")
	}
	if combatant.ID == "" {
		return r.Add(combatant.Name)
	}
	return r.add(combatant)
}

func (r *Roster) add(combatant Combatant) (Combatant, error) {
	if _, exists := r.byID[combatant.ID]; !exists {
		r.order = append(r.order, combatant.ID)
	}
	r.byID[combatant.ID] = combatant
	return combatant, nil
}

// Remove drops a combatant and its action history.
// Removing an unknown combatant is a no-op.
func (r *Roster) Remove(combatantID string) bool {
	if _, exists := r.byID[combatantID]; !exists {
		return false
	}
	delete(r.byID, combatantID)
	delete(r.history, combatantID)
	if i := slices.Index(r.order, combatantID); i >= 0 {
		r.order = append(r.order[:i:i], r.order[i+1:]...)
	}
	return true
}

// Clear drops every combatant and all action history.
func (r *Roster) Clear() {
	r.order = nil
	r.byID = make(map[string]Combatant)
	r.history = make(map[string][]Action)
}

// Contains reports whether the combatant is present.
func (r *Roster) Contains(combatantID string) bool {
	_, exists := r.byID[combatantID]
	return exists
}

// Get returns the combatant with the given ID.
func (r *Roster) Get(combatantID string) (Combatant, bool) {
	combatant, exists := r.byID[combatantID]
	return combatant, exists
}

// Combatants returns the combatants in join order.
func (r *Roster) Combatants() []Combatant {
	combatants := make([]Combatant, 0, len(r.order))
	for _, combatantID := range r.order {
		combatants = append(combatants, r.byID[combatantID])
	}
	return combatants
}

// Len returns the number of combatants present.
func (r *Roster) Len() int {
	return len(r.byID)
}

// RecordAction appends an action to its combatant's history.
func (r *Roster) RecordAction(action Action) error {
	if !r.Contains(action.Combatant) {
		return apperrors.New(apperrors.CodeRosterCombatantMissing, "combatant is not in the roster")
	}
	r.history[action.Combatant] = append(r.history[action.Combatant], action)
	return nil
}

// LastAction returns the combatant's most recently recorded action.
func (r *Roster) LastAction(combatantID string) (Action, bool) {
	actions := r.history[combatantID]
	if len(actions) == 0 {
		return Action{}, false
	}
	return actions[len(actions)-1], true
}

// RemoveLastAction pops the combatant's most recently recorded action,
// typically while undoing it.
func (r *Roster) RemoveLastAction(combatantID string) (Action, bool) {
	actions := r.history[combatantID]
	if len(actions) == 0 {
		return Action{}, false
	}
	last := actions[len(actions)-1]
	r.history[combatantID] = actions[:len(actions)-1]
	return last, true
}

// Actions returns a copy of the combatant's action history, oldest first.
func (r *Roster) Actions(combatantID string) []Action {
	return slices.Clone(r.history[combatantID])
}

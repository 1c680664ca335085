// Package session owns the state of one combat: a roster, a timeline, a
// dispatcher, and an edit log, wired together behind the client operations.
//
// There are no package-level singletons; every session is an explicitly
// constructed value. A session is confined to a single actor: operations are
// synchronous, run to completion, and must not be invoked concurrently.
package session

import (
	"fmt"

	"github.com/louvel/greatwheel/internal/combat/dispatch"
	"github.com/louvel/greatwheel/internal/combat/edit"
	"github.com/louvel/greatwheel/internal/combat/event"
	"github.com/louvel/greatwheel/internal/combat/roster"
	"github.com/louvel/greatwheel/internal/combat/timeline"
	"github.com/louvel/greatwheel/internal/core/dice"
	apperrors "github.com/louvel/greatwheel/internal/platform/errors"
	"github.com/louvel/greatwheel/internal/platform/id"
	"github.com/louvel/greatwheel/internal/storage"
)

// Options configures a session.
type Options struct {
	// MaxEventDepth caps nested event trigger chains. Values below one fall
	// back to dispatch.DefaultMaxDepth.
	MaxEventDepth int
}

// Session is one combat in progress.
type Session struct {
	dispatcher *dispatch.Dispatcher
	roster     *roster.Roster
	timeline   *timeline.Timeline
	log        *edit.Log

	// pendingAction, when set, marks the in-flight move as part of an
	// action, so the recorder folds the history record into the same edit.
	pendingAction *roster.Action
}

// Turn is one occupied tick with its combatants resolved to roster entries.
type Turn struct {
	Tick       int
	Combatants []roster.Combatant
}

// New creates an empty session and wires the edit recorder.
func New(opts Options) *Session {
	dispatcher := dispatch.New(opts.MaxEventDepth)
	s := &Session{
		dispatcher: dispatcher,
		roster:     roster.New(),
		timeline:   timeline.New(dispatcher),
		log:        edit.NewLog(),
	}
	// Registration with constant arguments cannot fail.
	if _, err := dispatcher.Register(event.CategoryMoved, s.recordMove); err != nil {
		panic(err)
	}
	return s
}

// recordMove is the edit recorder: it observes committed moves and records
// the matching undoable edit. Moves replayed by the log itself are ignored
// by Record, so undo and redo do not re-record their own effects.
func (s *Session) recordMove(_ dispatch.Causation, payload any) error {
	moved, ok := payload.(event.MovedPayload)
	if !ok {
		return nil
	}
	move := edit.NewMoveEdit(s.roster, s.timeline, moved.Combatant, moved.From, moved.To)
	if action := s.pendingAction; action != nil {
		s.log.Record(edit.NewCompound(
			fmt.Sprintf("%s by %s", action.Kind, action.Combatant),
			move,
			edit.NewActionEdit(s.roster, *action),
		))
		return nil
	}
	s.log.Record(move)
	return nil
}

// JoinBattle adds a named combatant to the roster and places it on the
// timeline at tick.
func (s *Session) JoinBattle(name string, tick int) (roster.Combatant, error) {
	if tick < 0 {
		return roster.Combatant{}, apperrors.New(apperrors.CodeTimelineNegativeTick, "tick must be non-negative")
	}
	combatant, err := s.roster.Add(name)
	if err != nil {
		return roster.Combatant{}, err
	}
	if _, _, err := s.timeline.MoveToTick(combatant.ID, tick); err != nil {
		s.roster.Remove(combatant.ID)
		return roster.Combatant{}, err
	}
	return combatant, nil
}

// ActRequest describes one combatant action.
type ActRequest struct {
	// Combatant is the acting combatant's ID.
	Combatant string
	// Kind labels the action ("attack", "guard", ...).
	Kind string
	// Speed is the tick cost: the combatant's next turn lands Speed ticks
	// after its current one.
	Speed int
	// Pool, when positive, rolls a d10 success pool of that size.
	Pool int
	// Seed drives the pool roll deterministically.
	Seed int64
}

// Act records an action for a combatant and advances it by the action's
// speed. The move and the history record form one undo step.
func (s *Session) Act(req ActRequest) (roster.Action, error) {
	if !s.roster.Contains(req.Combatant) {
		return roster.Action{}, apperrors.New(apperrors.CodeRosterCombatantMissing, "combatant is not in the battle")
	}
	tick, onTimeline := s.timeline.TickOf(req.Combatant)
	if !onTimeline {
		return roster.Action{}, apperrors.New(apperrors.CodeRosterCombatantMissing, "combatant is not in the battle")
	}
	if req.Speed < 1 {
		return roster.Action{}, apperrors.New(apperrors.CodeActionInvalidSpeed, "action speed must be at least one tick")
	}

	var outcome *dice.Outcome
	if req.Pool > 0 {
		result, err := dice.RollPool(dice.PoolRequest{Dice: req.Pool, Seed: req.Seed})
		if err != nil {
			return roster.Action{}, apperrors.Wrap(apperrors.CodeDiceInvalidPool, "roll action pool", err)
		}
		outcome = &result.Outcome
	}

	actionID, err := id.NewID()
	if err != nil {
		return roster.Action{}, err
	}
	action := roster.Action{
		ID:        actionID,
		Combatant: req.Combatant,
		Kind:      req.Kind,
		Tick:      tick,
		Speed:     req.Speed,
		Outcome:   outcome,
	}

	// Record first so the edit built from the move event sees the action
	// as the combatant's latest.
	if err := s.roster.RecordAction(action); err != nil {
		return roster.Action{}, err
	}
	s.pendingAction = &action
	defer func() { s.pendingAction = nil }()

	if _, _, err := s.timeline.MoveToTick(req.Combatant, tick+req.Speed); err != nil {
		s.roster.RemoveLastAction(req.Combatant)
		return roster.Action{}, err
	}
	return action, nil
}

// Reposition moves a combatant to an arbitrary tick without recording an
// action, e.g. for corrections by the table.
func (s *Session) Reposition(combatantID string, tick int) error {
	if !s.roster.Contains(combatantID) {
		return apperrors.New(apperrors.CodeRosterCombatantMissing, "combatant is not in the battle")
	}
	_, _, err := s.timeline.MoveToTick(combatantID, tick)
	return err
}

// Leave removes a combatant from the battle. Edits touching the combatant
// expire through their own liveness checks; the log is left in place.
func (s *Session) Leave(combatantID string) (bool, error) {
	if !s.roster.Contains(combatantID) {
		return false, nil
	}
	if _, _, err := s.timeline.Remove(combatantID); err != nil {
		return false, err
	}
	s.roster.Remove(combatantID)
	return true, nil
}

// Wipe ends the combat: everyone leaves in one event, the roster empties,
// and the edit log is cleared. The current tick stays sticky.
func (s *Session) Wipe() error {
	if err := s.timeline.RemoveAll(); err != nil {
		return err
	}
	s.roster.Clear()
	s.log.Clear()
	return nil
}

// Undo reverses the most recent undoable edit.
func (s *Session) Undo() error {
	return s.log.Undo()
}

// Redo re-performs the most recently undone edit.
func (s *Session) Redo() error {
	return s.log.Redo()
}

// CanUndo reports whether Undo would succeed right now.
func (s *Session) CanUndo() bool {
	return s.log.CanUndo()
}

// CanRedo reports whether Redo would succeed right now.
func (s *Session) CanRedo() bool {
	return s.log.CanRedo()
}

// NextUndoDescription labels the edit Undo would reverse, or empty.
func (s *Session) NextUndoDescription() string {
	if next, ok := s.log.NextUndo(); ok {
		return next.Description()
	}
	return ""
}

// NextRedoDescription labels the edit Redo would perform, or empty.
func (s *Session) NextRedoDescription() string {
	if next, ok := s.log.NextRedo(); ok {
		return next.Description()
	}
	return ""
}

// CurrentTick returns the timeline's current tick.
func (s *Session) CurrentTick() int {
	return s.timeline.CurrentTick()
}

// Combatants returns the roster in join order.
func (s *Session) Combatants() []roster.Combatant {
	return s.roster.Combatants()
}

// Combatant returns the roster entry with the given ID.
func (s *Session) Combatant(combatantID string) (roster.Combatant, bool) {
	return s.roster.Get(combatantID)
}

// Actions returns a combatant's recorded actions, oldest first.
func (s *Session) Actions(combatantID string) []roster.Action {
	return s.roster.Actions(combatantID)
}

// Order returns the turn order: every occupied tick ascending, combatants
// resolved to their roster entries in placement order.
func (s *Session) Order() []Turn {
	entries := s.timeline.Entries()
	turns := make([]Turn, 0, len(entries))
	for _, entry := range entries {
		turn := Turn{Tick: entry.Tick, Combatants: make([]roster.Combatant, 0, len(entry.Combatants))}
		for _, combatantID := range entry.Combatants {
			combatant, ok := s.roster.Get(combatantID)
			if !ok {
				combatant = roster.Combatant{ID: combatantID}
			}
			turn.Combatants = append(turn.Combatants, combatant)
		}
		turns = append(turns, turn)
	}
	return turns
}

// Snapshot converts the live state into its persisted form.
func (s *Session) Snapshot(name string) (storage.Snapshot, error) {
	if name == "" {
		return storage.Snapshot{}, apperrors.New(apperrors.CodeSnapshotEmptyName, "snapshot name is required")
	}
	snapshot := storage.Snapshot{
		Name:        name,
		CurrentTick: s.timeline.CurrentTick(),
	}
	for _, entry := range s.timeline.Entries() {
		for _, combatantID := range entry.Combatants {
			combatant, ok := s.roster.Get(combatantID)
			if !ok {
				combatant = roster.Combatant{ID: combatantID}
			}
			snapshot.Entries = append(snapshot.Entries, storage.SnapshotEntry{
				CombatantID: combatant.ID,
				Name:        combatant.Name,
				Tick:        entry.Tick,
			})
		}
	}
	return snapshot, nil
}

// Restore replaces the live state with a snapshot's. The edit log and any
// in-progress combat are discarded; restored placements emit entered events.
func (s *Session) Restore(snapshot storage.Snapshot) error {
	if err := s.Wipe(); err != nil {
		return err
	}
	for _, entry := range snapshot.Entries {
		combatant, err := s.roster.Restore(roster.Combatant{ID: entry.CombatantID, Name: entry.Name})
		if err != nil {
			return err
		}
		if _, _, err := s.timeline.MoveToTick(combatant.ID, entry.Tick); err != nil {
			return err
		}
	}
	return nil
}

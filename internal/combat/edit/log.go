package edit

import apperrors "github.com/louvel/greatwheel/internal/platform/errors"

// Log is an undo stack with a cursor. Edits left of the cursor are
// performed; edits at and right of it have been undone. Recording a new edit
// truncates the undone tail, the classic truncate-on-new-edit rule.
//
// The log holds no locks; it is confined to a single actor.
type Log struct {
	edits  []Edit
	cursor int

	// replay is set while the log itself drives an undo or redo, so that
	// event listeners recording edits can tell replayed mutations from
	// fresh ones.
	replay bool
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Record pushes a performed edit, discarding any edits that were undone but
// not redone. Recording during replay is ignored: replayed mutations
// re-enact an edit already in the log.
func (l *Log) Record(e Edit) {
	if l.replay {
		return
	}
	l.edits = append(l.edits[:l.cursor], e)
	l.cursor = len(l.edits)
}

// CanUndo reports whether an undo would succeed right now.
func (l *Log) CanUndo() bool {
	return l.cursor > 0 && l.edits[l.cursor-1].CanUndo()
}

// CanRedo reports whether a redo would succeed right now.
func (l *Log) CanRedo() bool {
	return l.cursor < len(l.edits) && l.edits[l.cursor].CanRedo()
}

// Undo reverses the most recent performed edit. It fails when the log is
// empty or the edit itself refuses.
func (l *Log) Undo() error {
	if l.cursor == 0 {
		return apperrors.New(apperrors.CodeEditNotUndoable, "nothing to undo")
	}
	e := l.edits[l.cursor-1]

	l.replay = true
	defer func() { l.replay = false }()
	if err := e.Undo(); err != nil {
		return err
	}
	l.cursor--
	return nil
}

// Redo re-performs the most recently undone edit. It fails when no edit has
// been undone or the edit itself refuses.
func (l *Log) Redo() error {
	if l.cursor >= len(l.edits) {
		return apperrors.New(apperrors.CodeEditNotRedoable, "nothing to redo")
	}
	e := l.edits[l.cursor]

	l.replay = true
	defer func() { l.replay = false }()
	if err := e.Redo(); err != nil {
		return err
	}
	l.cursor++
	return nil
}

// NextUndo returns the edit Undo would reverse.
func (l *Log) NextUndo() (Edit, bool) {
	if l.cursor == 0 {
		return nil, false
	}
	return l.edits[l.cursor-1], true
}

// NextRedo returns the edit Redo would perform.
func (l *Log) NextRedo() (Edit, bool) {
	if l.cursor >= len(l.edits) {
		return nil, false
	}
	return l.edits[l.cursor], true
}

// InReplay reports whether an undo or redo is currently executing.
func (l *Log) InReplay() bool {
	return l.replay
}

// Len returns the number of edits held, performed or undone.
func (l *Log) Len() int {
	return len(l.edits)
}

// Clear drops every edit.
func (l *Log) Clear() {
	l.edits = nil
	l.cursor = 0
}

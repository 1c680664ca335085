// Package errors provides structured error handling for greatwheel.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Timeline errors
	CodeTimelineNegativeTick   Code = "TIMELINE_NEGATIVE_TICK"
	CodeTimelineEmptyCombatant Code = "TIMELINE_EMPTY_COMBATANT"

	// Dispatch errors
	CodeDispatchEmptyCategory Code = "DISPATCH_EMPTY_CATEGORY"
	CodeDispatchNilListener   Code = "DISPATCH_NIL_LISTENER"

	// Edit log errors
	CodeEditNotUndoable Code = "EDIT_NOT_UNDOABLE"
	CodeEditNotRedoable Code = "EDIT_NOT_REDOABLE"

	// Roster errors
	CodeRosterEmptyName        Code = "ROSTER_EMPTY_NAME"
	CodeRosterCombatantMissing Code = "ROSTER_COMBATANT_MISSING"

	// Action errors
	CodeActionInvalidSpeed Code = "ACTION_INVALID_SPEED"

	// Dice/mechanics errors
	CodeDiceMissing     Code = "DICE_MISSING"
	CodeDiceInvalidSpec Code = "DICE_INVALID_SPEC"
	CodeDiceInvalidPool Code = "DICE_INVALID_POOL"

	// Storage errors
	CodeNotFound          Code = "NOT_FOUND"
	CodeSnapshotEmptyName Code = "SNAPSHOT_EMPTY_NAME"
)

// Class groups error codes by caller contract.
type Class int

const (
	// ClassInternal covers unexpected failures.
	ClassInternal Class = iota
	// ClassInvalidArgument covers validation failures and bad input.
	ClassInvalidArgument
	// ClassFailedPrecondition covers operations the current state disallows.
	ClassFailedPrecondition
	// ClassNotFound covers missing resources.
	ClassNotFound
)

// Class maps domain codes to caller-contract classes.
func (c Code) Class() Class {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeTimelineNegativeTick,
		CodeTimelineEmptyCombatant,
		CodeDispatchEmptyCategory,
		CodeDispatchNilListener,
		CodeRosterEmptyName,
		CodeActionInvalidSpeed,
		CodeDiceMissing,
		CodeDiceInvalidSpec,
		CodeDiceInvalidPool,
		CodeSnapshotEmptyName:
		return ClassInvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeEditNotUndoable,
		CodeEditNotRedoable:
		return ClassFailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodeRosterCombatantMissing:
		return ClassNotFound

	default:
		return ClassInternal
	}
}

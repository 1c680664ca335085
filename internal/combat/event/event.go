// Package event defines the combat event categories and their payloads.
//
// Events are ephemeral: they are created at the moment a timeline mutation
// commits, dispatched synchronously to registered listeners, and discarded.
// They are never queued or persisted.
package event

import "github.com/louvel/greatwheel/internal/combat/dispatch"

// Combat timeline events.
const (
	// CategoryEntered records a combatant entering the timeline.
	CategoryEntered dispatch.Category = "combat.entered"
	// CategoryMoved records a combatant moving between ticks.
	CategoryMoved dispatch.Category = "combat.moved"
	// CategoryLeft records one or more combatants leaving the timeline.
	CategoryLeft dispatch.Category = "combat.left"
)

// EnteredPayload captures the payload for combat.entered events.
type EnteredPayload struct {
	Combatant string `json:"combatant"`
	Tick      int    `json:"tick"`
}

// MovedPayload captures the payload for combat.moved events.
type MovedPayload struct {
	Combatant string `json:"combatant"`
	From      int    `json:"from"`
	To        int    `json:"to"`
}

// LeftPayload captures the payload for combat.left events.
// Combatants preserves timeline order at the moment of removal.
type LeftPayload struct {
	Combatants []string `json:"combatants"`
}

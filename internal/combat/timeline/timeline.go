// Package timeline positions combatants along the tick axis of a combat.
//
// Ticks are sparse: most integers carry no combatants, so the timeline is a
// map keyed by tick rather than a dense array. A tick key is only present
// while at least one combatant occupies it, and every combatant occupies
// exactly one tick at a time.
package timeline

import (
	"iter"
	"slices"
	"sort"

	"github.com/louvel/greatwheel/internal/combat/dispatch"
	"github.com/louvel/greatwheel/internal/combat/event"
	apperrors "github.com/louvel/greatwheel/internal/platform/errors"
)

// Entry is one non-empty tick in a timeline snapshot.
type Entry struct {
	Tick       int
	Combatants []string
}

// Timeline maps combatants to ticks and reports whose turn it is.
//
// Every mutation commits before the corresponding event is emitted, so
// listeners always observe fully-updated state. The timeline holds no locks;
// it is confined to a single actor.
type Timeline struct {
	dispatcher *dispatch.Dispatcher
	ticks      map[int][]string
	index      map[string]int

	// current is the minimum occupied tick. It is sticky: when the last
	// combatant leaves, it keeps its final value so iteration resumed after
	// a wipe does not rewind to tick zero.
	current int
}

// New creates an empty timeline emitting through dispatcher.
func New(dispatcher *dispatch.Dispatcher) *Timeline {
	return &Timeline{
		dispatcher: dispatcher,
		ticks:      make(map[int][]string),
		index:      make(map[string]int),
	}
}

// MoveToTick places combatant at tick, removing it from any prior tick.
// It returns the tick the combatant occupied before the call and whether it
// was present at all. A first placement emits combat.entered; a move emits
// combat.moved. Moving a combatant to the tick it already occupies is a
// no-op and emits nothing. Listener errors propagate unchanged.
func (t *Timeline) MoveToTick(combatant string, tick int) (prev int, present bool, err error) {
	if combatant == "" {
		return 0, false, apperrors.New(apperrors.CodeTimelineEmptyCombatant, "combatant is required")
	}
	if tick < 0 {
		return 0, false, apperrors.New(apperrors.CodeTimelineNegativeTick, "tick must be non-negative")
	}

	if prev, present = t.index[combatant]; present && prev == tick {
		return prev, true, nil
	}

	t.unlink(combatant)
	t.ticks[tick] = append(t.ticks[tick], combatant)
	t.index[combatant] = tick
	t.refreshCurrent()

	if !present {
		err = t.dispatcher.Trigger(event.CategoryEntered, event.EnteredPayload{
			Combatant: combatant,
			Tick:      tick,
		})
		return 0, false, err
	}
	err = t.dispatcher.Trigger(event.CategoryMoved, event.MovedPayload{
		Combatant: combatant,
		From:      prev,
		To:        tick,
	})
	return prev, true, err
}

// Remove takes combatant off the timeline. Removing an absent combatant is
// a no-op. A removal emits combat.left with a single-element list.
func (t *Timeline) Remove(combatant string) (prev int, present bool, err error) {
	prev, present = t.index[combatant]
	if !present {
		return 0, false, nil
	}
	t.unlink(combatant)
	t.refreshCurrent()
	err = t.dispatcher.Trigger(event.CategoryLeft, event.LeftPayload{
		Combatants: []string{combatant},
	})
	return prev, true, err
}

// RemoveAll clears the timeline, emitting one combat.left event carrying
// everyone present in tick order. An already-empty timeline emits nothing.
// The current tick keeps its last value.
func (t *Timeline) RemoveAll() error {
	if len(t.ticks) == 0 {
		return nil
	}

	var all []string
	for _, entry := range t.Entries() {
		all = append(all, entry.Combatants...)
	}
	t.ticks = make(map[int][]string)
	t.index = make(map[string]int)

	return t.dispatcher.Trigger(event.CategoryLeft, event.LeftPayload{
		Combatants: all,
	})
}

// Entries returns a snapshot of all non-empty ticks ordered by tick,
// independent of subsequent mutation.
func (t *Timeline) Entries() []Entry {
	keys := make([]int, 0, len(t.ticks))
	for tick := range t.ticks {
		keys = append(keys, tick)
	}
	sort.Ints(keys)

	entries := make([]Entry, 0, len(keys))
	for _, tick := range keys {
		entries = append(entries, Entry{
			Tick:       tick,
			Combatants: slices.Clone(t.ticks[tick]),
		})
	}
	return entries
}

// At returns the combatants on tick in placement order, or an empty slice
// when the tick is unoccupied.
func (t *Timeline) At(tick int) []string {
	return slices.Clone(t.ticks[tick])
}

// Ticks returns TicksFrom starting at the current tick.
func (t *Timeline) Ticks() iter.Seq2[int, []string] {
	return t.TicksFrom(t.current)
}

// TicksFrom returns an infinite sequence of per-tick combatant lists
// beginning at start and advancing one tick per step; unoccupied ticks yield
// empty lists rather than being skipped. The sequence is a live view: each
// step reads the timeline at the moment it is consumed, so mutations between
// steps are visible for the remainder of the iteration. That is intentional.
// Each call produces a fresh sequence restarting at start.
func (t *Timeline) TicksFrom(start int) iter.Seq2[int, []string] {
	return func(yield func(int, []string) bool) {
		for tick := start; ; tick++ {
			if !yield(tick, t.At(tick)) {
				return
			}
		}
	}
}

// CurrentTick returns the minimum occupied tick. When the timeline is empty
// it returns the last value held before it emptied, or zero if it was never
// occupied.
func (t *Timeline) CurrentTick() int {
	return t.current
}

// TickOf returns the tick combatant occupies.
func (t *Timeline) TickOf(combatant string) (int, bool) {
	tick, ok := t.index[combatant]
	return tick, ok
}

// Contains reports whether combatant is on the timeline.
func (t *Timeline) Contains(combatant string) bool {
	_, ok := t.index[combatant]
	return ok
}

// Len returns the number of combatants on the timeline.
func (t *Timeline) Len() int {
	return len(t.index)
}

// unlink removes combatant from its tick, dropping the key when the tick
// empties, without emitting events or touching the current tick.
func (t *Timeline) unlink(combatant string) {
	tick, ok := t.index[combatant]
	if !ok {
		return
	}
	delete(t.index, combatant)

	combatants := t.ticks[tick]
	i := slices.Index(combatants, combatant)
	if i < 0 {
		return
	}
	if len(combatants) == 1 {
		delete(t.ticks, tick)
		return
	}
	t.ticks[tick] = append(combatants[:i:i], combatants[i+1:]...)
}

// refreshCurrent recomputes the minimum occupied tick, leaving the sticky
// value untouched when the timeline is empty.
func (t *Timeline) refreshCurrent() {
	first := true
	for tick := range t.ticks {
		if first || tick < t.current {
			t.current = tick
			first = false
		}
	}
}

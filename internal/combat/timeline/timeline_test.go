package timeline

import (
	"slices"
	"testing"

	"github.com/louvel/greatwheel/internal/combat/dispatch"
	"github.com/louvel/greatwheel/internal/combat/event"
	apperrors "github.com/louvel/greatwheel/internal/platform/errors"
)

func newTimeline() *Timeline {
	return New(dispatch.New(dispatch.DefaultMaxDepth))
}

func mustMove(t *testing.T, tl *Timeline, combatant string, tick int) {
	t.Helper()
	if _, _, err := tl.MoveToTick(combatant, tick); err != nil {
		t.Fatalf("move %s to %d: %v", combatant, tick, err)
	}
}

func TestMoveToTickRejectsBadArguments(t *testing.T) {
	tl := newTimeline()

	if _, _, err := tl.MoveToTick("alba", -1); !apperrors.IsCode(err, apperrors.CodeTimelineNegativeTick) {
		t.Fatalf("expected negative tick error, got %v", err)
	}
	if _, _, err := tl.MoveToTick("", 3); !apperrors.IsCode(err, apperrors.CodeTimelineEmptyCombatant) {
		t.Fatalf("expected empty combatant error, got %v", err)
	}
	if tl.Len() != 0 {
		t.Fatalf("rejected moves must not mutate, got %d combatants", tl.Len())
	}
}

func TestCombatScenario(t *testing.T) {
	tl := newTimeline()

	mustMove(t, tl, "alba", 3)
	mustMove(t, tl, "brand", 5)
	if got := tl.CurrentTick(); got != 3 {
		t.Fatalf("current tick = %d, want 3", got)
	}

	prev, present, err := tl.MoveToTick("alba", 7)
	if err != nil {
		t.Fatalf("move alba: %v", err)
	}
	if !present || prev != 3 {
		t.Fatalf("previous tick = (%d, %v), want (3, true)", prev, present)
	}
	if tick, ok := tl.TickOf("alba"); !ok || tick != 7 {
		t.Fatalf("tick of alba = (%d, %v), want (7, true)", tick, ok)
	}
	if got := tl.At(3); len(got) != 0 {
		t.Fatalf("tick 3 should be empty, got %v", got)
	}
	if got := tl.CurrentTick(); got != 5 {
		t.Fatalf("current tick = %d, want 5", got)
	}

	if err := tl.RemoveAll(); err != nil {
		t.Fatalf("remove all: %v", err)
	}
	if got := tl.Len(); got != 0 {
		t.Fatalf("combatants remaining = %d, want 0", got)
	}
	if got := tl.CurrentTick(); got != 5 {
		t.Fatalf("current tick must stay sticky at 5, got %d", got)
	}
}

func TestCurrentTickTracksMinimum(t *testing.T) {
	tl := newTimeline()

	mustMove(t, tl, "alba", 9)
	mustMove(t, tl, "brand", 4)
	mustMove(t, tl, "cato", 6)
	if got := tl.CurrentTick(); got != 4 {
		t.Fatalf("current tick = %d, want 4", got)
	}

	if _, _, err := tl.Remove("brand"); err != nil {
		t.Fatalf("remove brand: %v", err)
	}
	if got := tl.CurrentTick(); got != 6 {
		t.Fatalf("current tick = %d, want 6", got)
	}

	if _, _, err := tl.Remove("cato"); err != nil {
		t.Fatalf("remove cato: %v", err)
	}
	if _, _, err := tl.Remove("alba"); err != nil {
		t.Fatalf("remove alba: %v", err)
	}
	if got := tl.CurrentTick(); got != 9 {
		t.Fatalf("current tick must stick at last minimum 9, got %d", got)
	}

	// New entrants resume from their own ticks, not zero.
	mustMove(t, tl, "dara", 12)
	if got := tl.CurrentTick(); got != 12 {
		t.Fatalf("current tick = %d, want 12", got)
	}
}

func TestEntriesNeverContainEmptyTicks(t *testing.T) {
	tl := newTimeline()

	mustMove(t, tl, "alba", 2)
	mustMove(t, tl, "brand", 2)
	mustMove(t, tl, "cato", 5)
	mustMove(t, tl, "alba", 8)
	if _, _, err := tl.Remove("cato"); err != nil {
		t.Fatalf("remove cato: %v", err)
	}

	entries := tl.Entries()
	for _, entry := range entries {
		if len(entry.Combatants) == 0 {
			t.Fatalf("tick %d has no combatants but is present", entry.Tick)
		}
	}
	if len(entries) != 2 || entries[0].Tick != 2 || entries[1].Tick != 8 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if !slices.Equal(entries[0].Combatants, []string{"brand"}) {
		t.Fatalf("tick 2 combatants = %v, want [brand]", entries[0].Combatants)
	}
}

func TestMovePlacesCombatantOnExactlyOneTick(t *testing.T) {
	tl := newTimeline()

	mustMove(t, tl, "alba", 2)
	mustMove(t, tl, "brand", 2)
	mustMove(t, tl, "alba", 6)

	occurrences := 0
	for _, entry := range tl.Entries() {
		for _, combatant := range entry.Combatants {
			if combatant == "alba" {
				occurrences++
			}
		}
	}
	if occurrences != 1 {
		t.Fatalf("alba appears on %d ticks, want 1", occurrences)
	}
	if got := tl.At(2); !slices.Equal(got, []string{"brand"}) {
		t.Fatalf("tick 2 = %v, want [brand]", got)
	}
}

func TestEntriesSnapshotIsIndependent(t *testing.T) {
	tl := newTimeline()

	mustMove(t, tl, "alba", 1)
	snapshot := tl.Entries()
	mustMove(t, tl, "alba", 4)

	if snapshot[0].Tick != 1 || !slices.Equal(snapshot[0].Combatants, []string{"alba"}) {
		t.Fatalf("snapshot changed after mutation: %+v", snapshot)
	}
}

func TestTicksMatchesPerTickQueries(t *testing.T) {
	tl := newTimeline()

	mustMove(t, tl, "alba", 3)
	mustMove(t, tl, "brand", 5)
	mustMove(t, tl, "cato", 5)

	const steps = 8
	start := tl.CurrentTick()
	step := 0
	for tick, combatants := range tl.TicksFrom(start) {
		if tick != start+step {
			t.Fatalf("step %d yielded tick %d, want %d", step, tick, start+step)
		}
		if want := tl.At(tick); !slices.Equal(combatants, want) {
			t.Fatalf("tick %d yielded %v, want %v", tick, combatants, want)
		}
		step++
		if step == steps {
			break
		}
	}
	if step != steps {
		t.Fatalf("iterator stopped after %d steps", step)
	}
}

func TestTicksIsLiveView(t *testing.T) {
	tl := newTimeline()

	mustMove(t, tl, "alba", 1)

	seen := make(map[int][]string)
	for tick, combatants := range tl.TicksFrom(1) {
		seen[tick] = combatants
		if tick == 1 {
			// Mutate mid-iteration: the remaining steps must observe it.
			mustMove(t, tl, "alba", 2)
		}
		if tick == 2 {
			break
		}
	}

	if !slices.Equal(seen[1], []string{"alba"}) {
		t.Fatalf("tick 1 = %v, want [alba]", seen[1])
	}
	if !slices.Equal(seen[2], []string{"alba"}) {
		t.Fatalf("tick 2 = %v, want [alba] after mid-iteration move", seen[2])
	}
}

func TestTicksRestartsOnRecall(t *testing.T) {
	tl := newTimeline()
	mustMove(t, tl, "alba", 2)

	for range 2 {
		for tick, combatants := range tl.Ticks() {
			if tick != 2 || !slices.Equal(combatants, []string{"alba"}) {
				t.Fatalf("sequence did not restart at current tick: (%d, %v)", tick, combatants)
			}
			break
		}
	}
}

func TestEventEmission(t *testing.T) {
	d := dispatch.New(dispatch.DefaultMaxDepth)
	tl := New(d)

	var entered []event.EnteredPayload
	var moved []event.MovedPayload
	var left []event.LeftPayload
	if _, err := d.Register(event.CategoryEntered, func(_ dispatch.Causation, payload any) error {
		entered = append(entered, payload.(event.EnteredPayload))
		return nil
	}); err != nil {
		t.Fatalf("register entered: %v", err)
	}
	if _, err := d.Register(event.CategoryMoved, func(_ dispatch.Causation, payload any) error {
		moved = append(moved, payload.(event.MovedPayload))
		return nil
	}); err != nil {
		t.Fatalf("register moved: %v", err)
	}
	if _, err := d.Register(event.CategoryLeft, func(_ dispatch.Causation, payload any) error {
		left = append(left, payload.(event.LeftPayload))
		return nil
	}); err != nil {
		t.Fatalf("register left: %v", err)
	}

	mustMove(t, tl, "alba", 3)
	if len(entered) != 1 || entered[0] != (event.EnteredPayload{Combatant: "alba", Tick: 3}) {
		t.Fatalf("unexpected entered events: %+v", entered)
	}

	mustMove(t, tl, "alba", 7)
	if len(moved) != 1 || moved[0] != (event.MovedPayload{Combatant: "alba", From: 3, To: 7}) {
		t.Fatalf("unexpected moved events: %+v", moved)
	}

	// Same-tick move is a no-op and emits nothing.
	mustMove(t, tl, "alba", 7)
	if len(moved) != 1 || len(entered) != 1 {
		t.Fatalf("same-tick move emitted events: moved=%d entered=%d", len(moved), len(entered))
	}

	mustMove(t, tl, "brand", 9)
	if err := tl.RemoveAll(); err != nil {
		t.Fatalf("remove all: %v", err)
	}
	if len(left) != 1 || !slices.Equal(left[0].Combatants, []string{"alba", "brand"}) {
		t.Fatalf("unexpected left events: %+v", left)
	}

	// Emptied timeline: RemoveAll is a no-op with no event.
	if err := tl.RemoveAll(); err != nil {
		t.Fatalf("remove all on empty: %v", err)
	}
	if len(left) != 1 {
		t.Fatalf("empty wipe emitted an event: %+v", left)
	}
}

func TestListenersObserveCommittedState(t *testing.T) {
	d := dispatch.New(dispatch.DefaultMaxDepth)
	tl := New(d)

	var observedTick int
	var observedOK bool
	if _, err := d.Register(event.CategoryMoved, func(_ dispatch.Causation, payload any) error {
		moved := payload.(event.MovedPayload)
		observedTick, observedOK = tl.TickOf(moved.Combatant)
		return nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	mustMove(t, tl, "alba", 1)
	mustMove(t, tl, "alba", 6)
	if !observedOK || observedTick != 6 {
		t.Fatalf("listener observed (%d, %v), want committed tick 6", observedTick, observedOK)
	}
}

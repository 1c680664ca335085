package dispatch

import (
	"errors"
	"testing"

	apperrors "github.com/louvel/greatwheel/internal/platform/errors"
)

const (
	categoryMoved   Category = "test.moved"
	categoryEntered Category = "test.entered"
	categoryOther   Category = "test.other"
)

func TestTriggerInvokesListenersInRegistrationOrder(t *testing.T) {
	d := New(4)

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		if _, err := d.Register(categoryMoved, func(Causation, any) error {
			order = append(order, i)
			return nil
		}); err != nil {
			t.Fatalf("register listener %d: %v", i, err)
		}
	}

	if err := d.Trigger(categoryMoved, nil); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("unexpected invocation order: %v", order)
	}
}

func TestTriggerIgnoresOtherCategories(t *testing.T) {
	d := New(4)

	invoked := false
	if _, err := d.Register(categoryMoved, func(Causation, any) error {
		invoked = true
		return nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := d.Trigger(categoryEntered, nil); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if invoked {
		t.Fatal("listener for another category must not be invoked")
	}
}

func TestTopLevelCausation(t *testing.T) {
	d := New(4)

	var cause Causation
	if _, err := d.Register(categoryMoved, func(c Causation, _ any) error {
		cause = c
		return nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := d.Trigger(categoryMoved, nil); err != nil {
		t.Fatalf("trigger: %v", err)
	}

	if got := cause.DirectCause(); got != categoryMoved {
		t.Fatalf("direct cause = %q, want %q", got, categoryMoved)
	}
	for _, category := range []Category{categoryMoved, categoryEntered, categoryOther} {
		if cause.IsIndirectCause(category) {
			t.Fatalf("top-level trigger must have no indirect cause, got %q", category)
		}
	}
}

func TestNestedCausationChain(t *testing.T) {
	d := New(8)

	var nestedCause Causation
	if _, err := d.Register(categoryMoved, func(Causation, any) error {
		return d.Trigger(categoryEntered, nil)
	}); err != nil {
		t.Fatalf("register moved: %v", err)
	}
	if _, err := d.Register(categoryEntered, func(c Causation, _ any) error {
		nestedCause = c
		return nil
	}); err != nil {
		t.Fatalf("register entered: %v", err)
	}

	if err := d.Trigger(categoryMoved, nil); err != nil {
		t.Fatalf("trigger: %v", err)
	}

	if got := nestedCause.DirectCause(); got != categoryEntered {
		t.Fatalf("direct cause = %q, want %q", got, categoryEntered)
	}
	if !nestedCause.IsIndirectCause(categoryMoved) {
		t.Fatal("expected the outer trigger to be an indirect cause")
	}
	if nestedCause.IsIndirectCause(categoryEntered) {
		t.Fatal("a trigger must not be an indirect cause of itself")
	}
	if nestedCause.IsIndirectCause(categoryOther) {
		t.Fatal("unrelated category must not be an indirect cause")
	}
}

func TestRecursiveTriggerStopsAtMaxDepth(t *testing.T) {
	const maxDepth = 5
	d := New(maxDepth)

	invocations := 0
	if _, err := d.Register(categoryMoved, func(Causation, any) error {
		invocations++
		return d.Trigger(categoryMoved, nil)
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := d.Trigger(categoryMoved, nil); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if invocations != maxDepth {
		t.Fatalf("expected %d invocations before suppression, got %d", maxDepth, invocations)
	}
	if d.Depth() != 0 {
		t.Fatalf("expected no in-flight triggers after return, got %d", d.Depth())
	}
}

func TestTopLevelTriggerAlwaysProceeds(t *testing.T) {
	d := New(1)

	invocations := 0
	if _, err := d.Register(categoryMoved, func(Causation, any) error {
		invocations++
		return nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	for range 3 {
		if err := d.Trigger(categoryMoved, nil); err != nil {
			t.Fatalf("trigger: %v", err)
		}
	}
	if invocations != 3 {
		t.Fatalf("expected 3 top-level invocations, got %d", invocations)
	}
}

func TestListenerErrorPropagatesToTriggerCaller(t *testing.T) {
	d := New(4)

	boom := errors.New("listener failure")
	if _, err := d.Register(categoryMoved, func(Causation, any) error {
		return boom
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	invoked := false
	if _, err := d.Register(categoryMoved, func(Causation, any) error {
		invoked = true
		return nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := d.Trigger(categoryMoved, nil); !errors.Is(err, boom) {
		t.Fatalf("expected listener error to propagate unchanged, got %v", err)
	}
	if invoked {
		t.Fatal("listeners after a failing one must not run")
	}
}

func TestRemoveListenerIsIdempotent(t *testing.T) {
	d := New(4)

	invocations := 0
	handle, err := d.Register(categoryMoved, func(Causation, any) error {
		invocations++
		return nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	d.Remove(handle)
	d.Remove(handle) // second removal is a no-op

	if err := d.Trigger(categoryMoved, nil); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if invocations != 0 {
		t.Fatalf("removed listener invoked %d times", invocations)
	}
}

func TestRegisterValidation(t *testing.T) {
	d := New(4)

	if _, err := d.Register("", func(Causation, any) error { return nil }); !apperrors.IsCode(err, apperrors.CodeDispatchEmptyCategory) {
		t.Fatalf("expected empty category error, got %v", err)
	}
	if _, err := d.Register(categoryMoved, nil); !apperrors.IsCode(err, apperrors.CodeDispatchNilListener) {
		t.Fatalf("expected nil listener error, got %v", err)
	}
	if err := d.Trigger("", nil); !apperrors.IsCode(err, apperrors.CodeDispatchEmptyCategory) {
		t.Fatalf("expected empty category trigger error, got %v", err)
	}
}

func TestListenerRegisteredDuringDispatchRunsNextTrigger(t *testing.T) {
	d := New(4)

	lateInvocations := 0
	if _, err := d.Register(categoryMoved, func(Causation, any) error {
		_, err := d.Register(categoryMoved, func(Causation, any) error {
			lateInvocations++
			return nil
		})
		return err
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := d.Trigger(categoryMoved, nil); err != nil {
		t.Fatalf("first trigger: %v", err)
	}
	if lateInvocations != 0 {
		t.Fatal("listener registered mid-dispatch must not observe the in-flight trigger")
	}
}

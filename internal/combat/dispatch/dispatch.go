// Package dispatch implements the synchronous combat event dispatcher.
//
// Listeners are invoked in registration order, and a trigger runs to
// completion (including any nested triggers raised from listeners) before
// returning. The dispatcher tracks the chain of in-flight categories so a
// listener can inspect what caused the event it is handling, and it
// suppresses nested triggers past a configurable depth so a listener
// feedback loop truncates instead of recursing forever.
package dispatch

import (
	"slices"

	apperrors "github.com/louvel/greatwheel/internal/platform/errors"
)

// Category identifies a kind of event.
type Category string

// CategoryRoot marks the causation chain origin when no trigger is in flight.
const CategoryRoot Category = "dispatch.root"

// DefaultMaxDepth bounds nested trigger chains when no depth is configured.
const DefaultMaxDepth = 16

// Listener observes every trigger of the category it was registered for.
// A non-nil return value aborts the trigger and propagates to its caller.
type Listener func(cause Causation, payload any) error

// Handle identifies a registered listener for later removal.
type Handle struct {
	category Category
	seq      uint64
}

type registration struct {
	seq      uint64
	listener Listener
}

// Dispatcher fires categorized events to registered listeners.
// It is confined to a single actor and holds no locks; see the session
// package for the ownership rules.
type Dispatcher struct {
	maxDepth  int
	nextSeq   uint64
	listeners map[Category][]registration
	inFlight  []Category
}

// New creates a dispatcher whose nested trigger chains are capped at
// maxDepth. Values below one fall back to DefaultMaxDepth.
func New(maxDepth int) *Dispatcher {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	return &Dispatcher{
		maxDepth:  maxDepth,
		listeners: make(map[Category][]registration),
	}
}

// Register subscribes listener to every future trigger of category.
func (d *Dispatcher) Register(category Category, listener Listener) (Handle, error) {
	if category == "" {
		return Handle{}, apperrors.New(apperrors.CodeDispatchEmptyCategory, "event category is required")
	}
	if listener == nil {
		return Handle{}, apperrors.New(apperrors.CodeDispatchNilListener, "event listener is required")
	}

	d.nextSeq++
	d.listeners[category] = append(d.listeners[category], registration{
		seq:      d.nextSeq,
		listener: listener,
	})
	return Handle{category: category, seq: d.nextSeq}, nil
}

// Remove unsubscribes the listener identified by handle.
// Removing an unknown or already-removed handle is a no-op.
func (d *Dispatcher) Remove(handle Handle) {
	regs := d.listeners[handle.category]
	for i, reg := range regs {
		if reg.seq == handle.seq {
			d.listeners[handle.category] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Trigger synchronously invokes every listener registered for category, in
// registration order, passing each the causation context and payload.
//
// A trigger raised from within a listener extends the in-flight chain by
// one; when that would exceed the configured depth the nested trigger is
// silently suppressed rather than failing, because a runaway chain is a
// listener feedback loop and truncation keeps the session interactive.
// Top-level triggers always proceed.
//
// Listener errors are returned unchanged: a failing listener is a
// programming error, not a condition the dispatcher recovers from.
func (d *Dispatcher) Trigger(category Category, payload any) error {
	if category == "" {
		return apperrors.New(apperrors.CodeDispatchEmptyCategory, "event category is required")
	}

	if len(d.inFlight) > 0 && len(d.inFlight) >= d.maxDepth {
		return nil
	}

	d.inFlight = append(d.inFlight, category)
	defer func() {
		d.inFlight = d.inFlight[:len(d.inFlight)-1]
	}()

	cause := Causation{chain: slices.Clone(d.inFlight)}

	// Snapshot so listeners can register or remove during dispatch without
	// affecting the current trigger.
	regs := slices.Clone(d.listeners[category])
	for _, reg := range regs {
		if err := reg.listener(cause, payload); err != nil {
			return err
		}
	}
	return nil
}

// Depth returns the number of triggers currently in flight.
func (d *Dispatcher) Depth() int {
	return len(d.inFlight)
}

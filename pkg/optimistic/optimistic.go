// Package optimistic models a counter/flag pair that is updated locally
// before the server confirms the action, such as a post's like or bookmark
// state.
//
// Each interactive pair is an explicit state machine
//
//	Idle -> Pending -> Confirmed | RolledBack
//
// instead of ad hoc booleans: the flag and its counter always move together,
// a pending toggle cannot be stacked on another pending toggle, and a failed
// request restores exactly the pre-toggle snapshot. Confirmed and RolledBack
// both permit the next toggle.
package optimistic

import (
	"errors"
	"sync"
)

// State is the lifecycle position of a Counter.
type State int

const (
	// Idle means no toggle has happened yet.
	Idle State = iota
	// Pending means the optimistic value is applied locally and the server
	// round trip is in flight.
	Pending
	// Confirmed means the server accepted the last toggle.
	Confirmed
	// RolledBack means the last toggle failed and the snapshot was restored.
	RolledBack
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case RolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// ErrPending is returned by Begin while a previous toggle is still awaiting
// its outcome.
var ErrPending = errors.New("optimistic: toggle already pending")

// ErrNotPending is returned by Confirm and Rollback when no toggle is in
// flight.
var ErrNotPending = errors.New("optimistic: no pending toggle")

// Counter is a count plus an "is active for the current user" flag under
// optimistic toggling. Safe for concurrent use.
type Counter struct {
	mu     sync.Mutex
	state  State
	count  int
	active bool

	// snapshot taken at Begin, restored by Rollback.
	prevCount  int
	prevActive bool
}

// NewCounter seeds the pair with server-provided values.
func NewCounter(count int, active bool) *Counter {
	return &Counter{count: count, active: active}
}

// Begin applies the optimistic toggle: the flag flips to activate and the
// count moves by one in the same step. Fails with ErrPending if a previous
// toggle has not been confirmed or rolled back. When the flag already has
// the requested value nothing changes and Begin reports toggled=false.
func (c *Counter) Begin(activate bool) (toggled bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Pending {
		return false, ErrPending
	}
	if c.active == activate {
		return false, nil
	}
	c.prevCount, c.prevActive = c.count, c.active
	c.active = activate
	if activate {
		c.count++
	} else {
		c.count--
	}
	c.state = Pending
	return true, nil
}

// Confirm settles the pending toggle, keeping the optimistic value.
func (c *Counter) Confirm() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Pending {
		return ErrNotPending
	}
	c.state = Confirmed
	return nil
}

// Reconcile settles the pending toggle with the authoritative values from
// the server response, overriding the optimistic guess if it was wrong.
func (c *Counter) Reconcile(count int, active bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Pending {
		return ErrNotPending
	}
	c.count, c.active = count, active
	c.state = Confirmed
	return nil
}

// Rollback restores the snapshot taken at Begin.
func (c *Counter) Rollback() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Pending {
		return ErrNotPending
	}
	c.count, c.active = c.prevCount, c.prevActive
	c.state = RolledBack
	return nil
}

// Value returns the current count and flag.
func (c *Counter) Value() (count int, active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count, c.active
}

// State returns the lifecycle position.
func (c *Counter) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

package telnet

import (
	"context"
	"sync"
)

// Condition is one clause of a wait_for predicate: the named option
// must be enabled (or disabled) on the given side, or have no
// negotiation pending.
type Condition struct {
	Option byte
	Local  bool // true: local_option[Option]; false: remote_option[Option]

	// WantPending selects the "pending cleared" predicate instead of
	// the enabled-state predicate; WantEnabled is only meaningful when
	// WantPending is false.
	WantEnabled bool
	WantPending bool
}

// EnabledCondition builds a Condition asserting local/remote_option[opt] == enabled.
func EnabledCondition(opt byte, local, enabled bool) Condition {
	return Condition{Option: opt, Local: local, WantEnabled: enabled}
}

// PendingClearedCondition builds a Condition asserting no negotiation
// is outstanding for opt on the given side.
func PendingClearedCondition(opt byte, local bool) Condition {
	return Condition{Option: opt, Local: local, WantPending: true}
}

// Waiter implements wait_for as a subscription list rather than a poll
// loop: each blocked Wait registers one wake channel, the connection
// task calls Signal after every ProcessVerb, and each woken Wait
// re-evaluates its conditions against the supplied machine. Every
// blocked Wait is woken on each Signal, whichever option changed.
type Waiter struct {
	mu      sync.Mutex
	options *OptionMachine
	subs    map[chan struct{}]struct{}
}

// NewWaiter creates a waiter observing options.
func NewWaiter(options *OptionMachine) *Waiter {
	return &Waiter{options: options, subs: make(map[chan struct{}]struct{})}
}

// Signal wakes every blocked Wait to re-check its conditions. Called
// by the connection task after each ProcessVerb; requests started
// through Writer.Negotiate do not call it.
func (w *Waiter) Signal() {
	w.mu.Lock()
	for ch := range w.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	w.mu.Unlock()
}

// Wait blocks until every condition holds or ctx is done (canceled or
// past its deadline). A nil condition list is satisfied immediately.
// Returns *Error{Kind: ErrTimeout} once ctx is done and
// *Error{Kind: ErrNameError} if a Condition names an unknown option.
func (w *Waiter) Wait(ctx context.Context, conditions []Condition) error {
	for _, c := range conditions {
		if !validOption(c.Option) {
			return newError(ErrNameError, "unknown option in wait_for predicate", nil)
		}
	}
	if w.satisfied(conditions) {
		return nil
	}

	ch := make(chan struct{}, 1)
	w.mu.Lock()
	w.subs[ch] = struct{}{}
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		delete(w.subs, ch)
		w.mu.Unlock()
	}()

	for {
		select {
		case <-ch:
			if w.satisfied(conditions) {
				return nil
			}
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return newError(ErrTimeout, "wait_for timed out", nil)
			}
			return newError(ErrTimeout, "wait_for canceled", ctx.Err())
		}
	}
}

func (w *Waiter) satisfied(conditions []Condition) bool {
	for _, c := range conditions {
		if c.WantPending {
			var pending bool
			if c.Local {
				pending = w.options.LocalPending(c.Option)
			} else {
				pending = w.options.RemotePending(c.Option)
			}
			if pending {
				return false
			}
			continue
		}
		var enabled bool
		if c.Local {
			enabled = w.options.LocalEnabled(c.Option)
		} else {
			enabled = w.options.RemoteEnabled(c.Option)
		}
		if enabled != c.WantEnabled {
			return false
		}
	}
	return true
}

// validOption reports whether opt is one of the exposed option names
// (the options wait_for/config may name).
func validOption(opt byte) bool {
	_, ok := optionName[opt]
	return ok
}

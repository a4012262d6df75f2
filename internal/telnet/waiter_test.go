package telnet

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaiterResolvesImmediatelyWhenAlreadySatisfied(t *testing.T) {
	m := NewOptionMachine(acceptAllPolicy())
	w := NewWaiter(m)
	err := w.Wait(context.Background(), []Condition{EnabledCondition(OptECHO, true, false)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaiterUnblocksOnSignal(t *testing.T) {
	m := NewOptionMachine(acceptAllPolicy())
	w := NewWaiter(m)

	done := make(chan error, 1)
	go func() {
		done <- w.Wait(context.Background(), []Condition{EnabledCondition(OptSGA, false, true)})
	}()

	time.Sleep(10 * time.Millisecond)
	m.ProcessVerb(WILL, OptSGA)
	w.Signal()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not unblock after Signal")
	}
}

func TestWaiterTimesOut(t *testing.T) {
	m := NewOptionMachine(acceptAllPolicy())
	w := NewWaiter(m)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := w.Wait(ctx, []Condition{EnabledCondition(OptSGA, false, true)})
	var telErr *Error
	if !errors.As(err, &telErr) || telErr.Kind != ErrTimeout {
		t.Fatalf("expected TIMEOUT, got %v", err)
	}
}

func TestWaiterNameErrorOnUnknownOption(t *testing.T) {
	m := NewOptionMachine(acceptAllPolicy())
	w := NewWaiter(m)
	err := w.Wait(context.Background(), []Condition{EnabledCondition(OptCOM_PORT, true, true)})
	var telErr *Error
	if !errors.As(err, &telErr) || telErr.Kind != ErrNameError {
		t.Fatalf("expected NAME_ERROR for an option outside the exposed set, got %v", err)
	}
}

func TestWaiterPendingClearedCondition(t *testing.T) {
	m := NewOptionMachine(acceptAllPolicy())
	w := NewWaiter(m)
	m.InitiateRemote(OptNAWS, true)

	done := make(chan error, 1)
	go func() {
		done <- w.Wait(context.Background(), []Condition{PendingClearedCondition(OptNAWS, false)})
	}()

	time.Sleep(10 * time.Millisecond)
	m.ProcessVerb(WILL, OptNAWS)
	w.Signal()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not unblock once pending cleared")
	}
}

package syncutil

import "testing"

func TestManualResetEventStaysSet(t *testing.T) {
	e := NewManualResetEvent()
	if e.IsSet() {
		t.Fatalf("expected new event to be unset")
	}
	e.Set()
	if !e.Wait(0) {
		t.Fatalf("expected Wait(0) to see set event")
	}
	if !e.Wait(0) {
		t.Fatalf("expected manual-reset event to remain set across Wait calls")
	}
	e.Reset()
	if e.Wait(0) {
		t.Fatalf("expected event to be unset after Reset")
	}
}

func TestAutoResetEventWakesOnce(t *testing.T) {
	e := NewAutoResetEvent()
	e.Set()
	if !e.Wait(0) {
		t.Fatalf("expected first Wait to consume the Set")
	}
	if e.Wait(0) {
		t.Fatalf("expected auto-reset event to be consumed after first Wait")
	}
}

func TestWaitTimesOutWhenUnset(t *testing.T) {
	e := NewManualResetEvent()
	if e.Wait(20) {
		t.Fatalf("expected Wait to time out on an unset event")
	}
}

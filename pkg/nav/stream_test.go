// pkg/nav/stream_test.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"testing"
)

func TestStateStream(t *testing.T) {
	s := NewStateStream(testLogger())

	var a, b []NavigationStatus
	subA := s.Subscribe(func(st NavigationState) { a = append(a, st.Status) })
	subB := s.Subscribe(func(st NavigationState) { b = append(b, st.Status) })

	s.Post(NavigationState{Status: StatusNavigating})
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("after first post: a %d b %d, expected 1 each", len(a), len(b))
	}

	subA.Unsubscribe()
	s.Post(NavigationState{Status: StatusArrived})
	if len(a) != 1 {
		t.Errorf("unsubscribed observer still notified: %v", a)
	}
	if len(b) != 2 || b[1] != StatusArrived {
		t.Errorf("remaining observer got %v, expected [Navigating Arrived]", b)
	}

	subB.Unsubscribe()
	s.Post(NavigationState{Status: StatusIdle})
	if len(b) != 2 {
		t.Errorf("observer notified after unsubscribe: %v", b)
	}
}

func TestStateStreamPanicIsolation(t *testing.T) {
	s := NewStateStream(testLogger())

	notified := 0
	bad := s.Subscribe(func(st NavigationState) { panic("subscriber bug") })
	defer bad.Unsubscribe()
	good := s.Subscribe(func(st NavigationState) { notified++ })
	defer good.Unsubscribe()

	s.Post(NavigationState{Status: StatusNavigating})
	s.Post(NavigationState{Status: StatusNavigating})

	if notified != 2 {
		t.Errorf("surviving observer notified %d times, expected 2", notified)
	}
}

func TestStateStreamReentrantCallback(t *testing.T) {
	s := NewStateStream(testLogger())

	// A callback that unsubscribes itself must not deadlock.
	calls := 0
	var sub *StateSubscription
	sub = s.Subscribe(func(st NavigationState) {
		calls++
		sub.Unsubscribe()
	})

	s.Post(NavigationState{Status: StatusNavigating})
	s.Post(NavigationState{Status: StatusNavigating})

	if calls != 1 {
		t.Errorf("self-unsubscribing observer called %d times, expected 1", calls)
	}
}

// pkg/gps/sim_test.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gps

import (
	"sync"
	"testing"
	"time"

	"github.com/ombhojane/safemaps-sub000/pkg/math"
)

func TestSimulatedSourceWalksPolyline(t *testing.T) {
	// 200m leg north; at 50 m/s with 10ms fixes this finishes quickly.
	src := &SimulatedSource{
		Points:   []math.Point2LL{{0, 0}, {0, 200.0 / math.MetersPerLatitude}},
		SpeedMPS: 50,
		Interval: 10 * time.Millisecond,
	}

	var mu sync.Mutex
	var fixes []Fix
	done := make(chan struct{})
	stop := src.Watch(func(f Fix) {
		mu.Lock()
		fixes = append(fixes, f)
		last := f.Position == src.Points[1]
		mu.Unlock()
		if last {
			close(done)
		}
	}, func(err error) {
		t.Errorf("unexpected error: %v", err)
	})
	defer stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("simulated drive did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(fixes) < 2 {
		t.Fatalf("got %d fixes, expected several", len(fixes))
	}
	if fixes[0].Position != src.Points[0] {
		t.Errorf("first fix at %v, expected start point", fixes[0].Position)
	}
	// Progress along the route is monotonic: distance from the start never
	// decreases.
	prev := -1.0
	for i, f := range fixes {
		d := math.DistanceMeters(src.Points[0], f.Position)
		if d < prev-0.01 {
			t.Errorf("fix %d moved backwards: %f < %f", i, d, prev)
		}
		prev = d
	}
}

func TestSimulatedSourceStop(t *testing.T) {
	src := &SimulatedSource{
		Points:   []math.Point2LL{{0, 0}, {0, 1}},
		SpeedMPS: 1,
		Interval: 5 * time.Millisecond,
	}

	var mu sync.Mutex
	count := 0
	stop := src.Watch(func(f Fix) {
		mu.Lock()
		count++
		mu.Unlock()
	}, nil)

	time.Sleep(25 * time.Millisecond)
	stop()
	stop() // idempotent

	mu.Lock()
	after := count
	mu.Unlock()
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	final := count
	mu.Unlock()

	// One in-flight callback may race the stop; beyond that the source
	// must go quiet.
	if final > after+1 {
		t.Errorf("fixes kept arriving after stop: %d -> %d", after, final)
	}
}

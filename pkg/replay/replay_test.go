// pkg/replay/replay_test.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package replay

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ombhojane/safemaps-sub000/pkg/gps"
	"github.com/ombhojane/safemaps-sub000/pkg/math"
)

func TestRecordAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trip.strace")

	r, err := Create(path, "route-42")
	if err != nil {
		t.Fatal(err)
	}

	fixes := []gps.Fix{
		{Position: math.Point2LL{0, 0}, Accuracy: 5},
		{Position: math.Point2LL{0.001, 0}, Accuracy: 5},
		{Position: math.Point2LL{0.002, 0.001}, Accuracy: 12},
	}
	for _, f := range fixes {
		if err := r.RecordFix(f); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.RecordStatus("Navigating"); err != nil {
		t.Fatal(err)
	}
	if err := r.RecordStatus("Navigating"); err != nil { // dropped repeat
		t.Fatal(err)
	}
	if err := r.RecordStatus("Arrived"); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	tr, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Header.RouteID != "route-42" {
		t.Errorf("route ID %q, expected route-42", tr.Header.RouteID)
	}
	if tr.Header.Version != traceVersion {
		t.Errorf("version %d, expected %d", tr.Header.Version, traceVersion)
	}

	got := tr.Fixes()
	if len(got) != len(fixes) {
		t.Fatalf("loaded %d fixes, expected %d", len(got), len(fixes))
	}
	for i, f := range got {
		if f.Position != fixes[i].Position || f.Accuracy != fixes[i].Accuracy {
			t.Errorf("fix %d: got %v/%f, expected %v/%f", i, f.Position, f.Accuracy,
				fixes[i].Position, fixes[i].Accuracy)
		}
	}

	var statuses []string
	for _, e := range tr.Entries {
		if e.Kind == StatusEntry {
			statuses = append(statuses, e.Status)
		}
	}
	if len(statuses) != 2 || statuses[0] != "Navigating" || statuses[1] != "Arrived" {
		t.Errorf("statuses %v, expected [Navigating Arrived]", statuses)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.strace")); err == nil {
		t.Error("expected an error loading a missing trace")
	}
}

func TestTraceSourceReplay(t *testing.T) {
	start := time.Now()
	tr := &Trace{
		Header: Header{Version: traceVersion, Start: start},
		Entries: []Entry{
			{Elapsed: 0, Kind: FixEntry, Position: math.Point2LL{0, 0}},
			{Elapsed: 10 * time.Millisecond, Kind: FixEntry, Position: math.Point2LL{0.001, 0}},
			{Elapsed: 20 * time.Millisecond, Kind: FixEntry, Position: math.Point2LL{0.002, 0}},
		},
	}

	var mu sync.Mutex
	var got []math.Point2LL
	done := make(chan struct{})
	src := &TraceSource{Trace: tr, Speed: 10}
	stop := src.Watch(func(f gps.Fix) {
		mu.Lock()
		got = append(got, f.Position)
		if len(got) == 3 {
			close(done)
		}
		mu.Unlock()
	}, func(err error) { t.Errorf("unexpected watch error: %v", err) })
	defer stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("replay did not deliver all fixes")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, p := range got {
		if p != tr.Entries[i].Position {
			t.Errorf("fix %d at %v, expected %v", i, p, tr.Entries[i].Position)
		}
	}
}

func TestTraceSourceEmpty(t *testing.T) {
	src := &TraceSource{Trace: &Trace{Header: Header{Version: traceVersion}}}

	errc := make(chan error, 1)
	stop := src.Watch(func(gps.Fix) { t.Error("fix from an empty trace") },
		func(err error) { errc <- err })
	defer stop()

	select {
	case err := <-errc:
		if err != gps.ErrUnavailable {
			t.Errorf("got %v, expected ErrUnavailable", err)
		}
	case <-time.After(time.Second):
		t.Fatal("no error from empty trace")
	}
}

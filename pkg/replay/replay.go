// pkg/replay/replay.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package replay records navigation sessions to compact trace files and
// plays them back, including as a live position source. Traces are
// msgpack streams inside a zstd envelope, so an hour of one-second fixes
// is a few kilobytes on disk.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ombhojane/safemaps-sub000/pkg/gps"
	"github.com/ombhojane/safemaps-sub000/pkg/math"
)

const traceVersion = 1

// Header opens every trace file.
type Header struct {
	Version int
	RouteID string
	Start   time.Time
}

type EntryKind int

const (
	FixEntry EntryKind = iota
	StatusEntry
)

// Entry is one recorded moment: either a position fix or a navigation
// status transition, stamped with the elapsed time since the trace
// started.
type Entry struct {
	Elapsed time.Duration
	Kind    EntryKind

	// FixEntry fields.
	Position math.Point2LL
	Accuracy float64

	// StatusEntry field; the engine's status enum is stored by name so
	// traces survive renumbering.
	Status string
}

// Trace is a fully-loaded recording.
type Trace struct {
	Header  Header
	Entries []Entry
}

// Fixes returns the position fixes in the trace, with times rebased onto
// the trace's start.
func (t *Trace) Fixes() []gps.Fix {
	var fixes []gps.Fix
	for _, e := range t.Entries {
		if e.Kind == FixEntry {
			fixes = append(fixes, gps.Fix{
				Position: e.Position,
				Accuracy: e.Accuracy,
				Time:     t.Header.Start.Add(e.Elapsed),
			})
		}
	}
	return fixes
}

// Recorder streams entries to a trace file as they happen. It is safe
// for concurrent use; fixes arrive on the position source's goroutine
// while status transitions come from an engine observer.
type Recorder struct {
	mu    sync.Mutex
	f     *os.File
	zw    *zstd.Encoder
	enc   *msgpack.Encoder
	start time.Time

	lastStatus string
}

// Create opens a trace file for writing and records the header.
func Create(path string, routeID string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	zw, err := zstd.NewWriter(f, zstd.WithEncoderConcurrency(1))
	if err != nil {
		f.Close()
		return nil, err
	}

	r := &Recorder{
		f:     f,
		zw:    zw,
		enc:   msgpack.NewEncoder(zw),
		start: time.Now(),
	}
	if err := r.enc.Encode(Header{Version: traceVersion, RouteID: routeID, Start: r.start}); err != nil {
		zw.Close()
		f.Close()
		return nil, err
	}
	return r, nil
}

// RecordFix appends a position fix to the trace.
func (r *Recorder) RecordFix(f gps.Fix) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.Encode(Entry{
		Elapsed:  time.Since(r.start),
		Kind:     FixEntry,
		Position: f.Position,
		Accuracy: f.Accuracy,
	})
}

// RecordStatus appends a status transition; repeats of the previous
// status are dropped, so it can be fed every committed state snapshot.
func (r *Recorder) RecordStatus(status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if status == r.lastStatus {
		return nil
	}
	r.lastStatus = status
	return r.enc.Encode(Entry{
		Elapsed: time.Since(r.start),
		Kind:    StatusEntry,
		Status:  status,
	})
}

// Close flushes the compressed stream and closes the file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.zw.Close()
	if err2 := r.f.Close(); err == nil {
		err = err2
	}
	return err
}

// Load reads a complete trace file back into memory.
func Load(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	dec := msgpack.NewDecoder(zr)

	var t Trace
	if err := dec.Decode(&t.Header); err != nil {
		return nil, fmt.Errorf("%s: reading trace header: %w", path, err)
	}
	if t.Header.Version != traceVersion {
		return nil, fmt.Errorf("%s: unsupported trace version %d", path, t.Header.Version)
	}

	for {
		var e Entry
		if err := dec.Decode(&e); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%s: reading trace entry: %w", path, err)
		}
		t.Entries = append(t.Entries, e)
	}
	return &t, nil
}

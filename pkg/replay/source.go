// pkg/replay/source.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package replay

import (
	"sync"
	"time"

	"github.com/ombhojane/safemaps-sub000/pkg/gps"
)

// TraceSource replays the fixes from a recorded trace as a live position
// source, honoring the recorded inter-fix timing. Speed scales playback:
// 2 plays a trace back twice as fast as it was recorded; zero or negative
// means real time.
type TraceSource struct {
	Trace *Trace
	Speed float64
}

func (t *TraceSource) Watch(onFix func(gps.Fix), onError func(error)) (stop func()) {
	speed := t.Speed
	if speed <= 0 {
		speed = 1
	}

	quit := make(chan struct{})
	var once sync.Once

	go func() {
		fixes := t.Trace.Fixes()
		if len(fixes) == 0 {
			onError(gps.ErrUnavailable)
			return
		}

		start := t.Trace.Header.Start
		for _, f := range fixes {
			wait := time.Duration(float64(f.Time.Sub(start)) / speed)
			start = f.Time

			select {
			case <-quit:
				return
			case <-time.After(wait):
			}
			f.Time = time.Now()
			onFix(f)
		}
	}()

	return func() { once.Do(func() { close(quit) }) }
}

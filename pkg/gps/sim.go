// pkg/gps/sim.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gps

import (
	"math/rand"
	"sync"
	"time"

	"github.com/ombhojane/safemaps-sub000/pkg/math"
)

// SimulatedSource replays a polyline as if a vehicle were driving it at a
// fixed ground speed, emitting interpolated fixes at a regular interval.
// It is used by the demo driver and for exercising the engine without a
// device.
type SimulatedSource struct {
	// Points is the polyline to drive, in order. At least two points are
	// required for any movement; with fewer the source just repeats the
	// single point (or nothing at all if empty).
	Points []math.Point2LL

	// SpeedMPS is the simulated ground speed in meters per second.
	SpeedMPS float64

	// Interval between emitted fixes.
	Interval time.Duration

	// JitterMeters, if nonzero, randomly perturbs each fix by up to this
	// many meters to mimic receiver noise.
	JitterMeters float64
}

// Watch starts a goroutine that walks the polyline and delivers fixes
// until stop is called or the end of the polyline is reached. After the
// final point is delivered the source goes quiet; it does not call
// onError.
func (s *SimulatedSource) Watch(onFix func(Fix), onError func(error)) (stop func()) {
	quit := make(chan struct{})
	var once sync.Once

	interval := s.Interval
	if interval <= 0 {
		interval = time.Second
	}
	speed := s.SpeedMPS
	if speed <= 0 {
		speed = 10
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		traveled := 0.0
		for {
			pos, done := s.position(traveled)

			if s.JitterMeters > 0 {
				pos = math.Offset2LL(pos, rand.Float64()*360, rand.Float64()*s.JitterMeters)
			}

			select {
			case <-quit:
				return
			default:
			}
			onFix(Fix{Position: pos, Accuracy: s.JitterMeters, Time: time.Now()})
			if done {
				return
			}

			select {
			case <-quit:
				return
			case <-ticker.C:
				traveled += speed * interval.Seconds()
			}
		}
	}()

	return func() {
		once.Do(func() { close(quit) })
	}
}

// position returns the point at the given distance along the polyline and
// whether the end has been reached.
func (s *SimulatedSource) position(traveled float64) (math.Point2LL, bool) {
	if len(s.Points) == 0 {
		return math.Point2LL{}, true
	}

	remain := traveled
	for i := 1; i < len(s.Points); i++ {
		seg := math.DistanceMeters(s.Points[i-1], s.Points[i])
		if remain <= seg && seg > 0 {
			t := remain / seg
			a, b := s.Points[i-1], s.Points[i]
			return math.Point2LL{math.Lerp(t, a[0], b[0]), math.Lerp(t, a[1], b[1])}, false
		}
		remain -= seg
	}
	return s.Points[len(s.Points)-1], true
}

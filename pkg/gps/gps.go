// pkg/gps/gps.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gps

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ombhojane/safemaps-sub000/pkg/math"
)

// Fix is a single reported device position.
type Fix struct {
	Position math.Point2LL `json:"position"`
	// Accuracy is the estimated position error in meters; zero means the
	// platform didn't report one.
	Accuracy float64   `json:"accuracy,omitempty"`
	Time     time.Time `json:"time"`
}

func (f Fix) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("position", f.Position.DDString()),
		slog.Float64("accuracy", f.Accuracy),
		slog.Time("time", f.Time))
}

// Coarse failure reasons reported by position sources; platform-specific
// detail is wrapped around these so callers can match with errors.Is.
var (
	ErrPermissionDenied = errors.New("position permission denied")
	ErrUnavailable      = errors.New("position unavailable")
	ErrTimeout          = errors.New("position request timed out")
)

// Source is the capability the navigation engine subscribes to for
// position updates. Watch delivers fixes in order, at a platform-controlled
// and generally irregular rate, until the returned stop function is called.
// stop must be idempotent; a callback already in flight when stop is
// called may still complete, so callers are expected to gate on their own
// lifetime state. onError reports a terminal failure of the watch
// (wrapping one of the reasons above); no further fixes follow it.
type Source interface {
	Watch(onFix func(Fix), onError func(error)) (stop func())
}

// pkg/nav/state.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"log/slog"
	"time"

	"github.com/ombhojane/safemaps-sub000/pkg/math"
	"github.com/ombhojane/safemaps-sub000/pkg/route"
)

type NavigationStatus int

const (
	StatusIdle NavigationStatus = iota
	StatusNavigating
	StatusRerouting
	StatusArrived
	StatusError
)

func (s NavigationStatus) String() string {
	return [...]string{"Idle", "Navigating", "Rerouting", "Arrived", "Error"}[s]
}

// statusTransitionOk encodes the legal status transitions; everything else
// is rejected (and logged) by the engine rather than applied.
//
//	Idle -> Navigating
//	Navigating <-> Rerouting
//	Navigating -> Arrived | Error
//	Rerouting -> Error
//	any -> Idle (stop)
func statusTransitionOk(from, to NavigationStatus) bool {
	if to == StatusIdle || from == to {
		return true
	}
	switch from {
	case StatusIdle:
		return to == StatusNavigating
	case StatusNavigating:
		return to == StatusRerouting || to == StatusArrived || to == StatusError
	case StatusRerouting:
		return to == StatusNavigating || to == StatusError
	default: // Arrived and Error are terminal until stop/start
		return false
	}
}

// NavigationState is the single mutable entity of the engine. The engine
// alone writes it; observers receive value copies. The Route pointer and
// the steps it refers to are immutable for the duration of a session, so
// sharing them in snapshots is safe.
type NavigationState struct {
	Status                NavigationStatus `json:"status"`
	Route                 *route.Route     `json:"route,omitempty"`
	Position              math.Point2LL    `json:"position"`
	CurrentStep           *NavigationStep  `json:"currentStep,omitempty"`
	NextStep              *NavigationStep  `json:"nextStep,omitempty"`
	DistanceToNextTurn    float64          `json:"distanceToNextTurn"`    // meters
	DistanceToDestination float64          `json:"distanceToDestination"` // meters
	EstimatedArrival      time.Time        `json:"estimatedArrival"`
	RemainingDuration     time.Duration    `json:"remainingDuration"`
	OffRoute              bool             `json:"offRoute"`
	Progress              float64          `json:"progress"` // percent, 0-100
	LastRerouteAt         time.Time        `json:"lastRerouteAt"`
}

func (s NavigationState) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("status", s.Status.String()),
		slog.String("position", s.Position.DDString()),
		slog.Float64("distance_to_next_turn", s.DistanceToNextTurn),
		slog.Float64("distance_to_destination", s.DistanceToDestination),
		slog.Float64("progress", s.Progress),
		slog.Bool("off_route", s.OffRoute),
	}
	if s.CurrentStep != nil {
		attrs = append(attrs, slog.String("current_step", s.CurrentStep.Instruction))
	}
	if s.NextStep != nil {
		attrs = append(attrs, slog.String("next_step", s.NextStep.Instruction))
	}
	return slog.GroupValue(attrs...)
}

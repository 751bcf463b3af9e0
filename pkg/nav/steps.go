// pkg/nav/steps.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ombhojane/safemaps-sub000/pkg/math"
	"github.com/ombhojane/safemaps-sub000/pkg/route"
)

// Maneuver is the discrete driving action a step represents.
type Maneuver int

const (
	Straight Maneuver = iota
	TurnRight
	TurnLeft
	SlightRight
	SlightLeft
	SharpRight
	SharpLeft
	UTurn
	Merge
	Roundabout
	Exit
	Ramp
	Continue
	Arrive
)

func (m Maneuver) String() string {
	return [...]string{"Straight", "TurnRight", "TurnLeft", "SlightRight", "SlightLeft",
		"SharpRight", "SharpLeft", "UTurn", "Merge", "Roundabout", "Exit", "Ramp",
		"Continue", "Arrive"}[m]
}

// IsStraight reports whether the maneuver is one that guidance skips
// distance announcements for.
func (m Maneuver) IsStraight() bool {
	return m == Straight || m == Continue
}

type DrivingSide int

const (
	DriveRight DrivingSide = iota
	DriveLeft
)

func (d DrivingSide) String() string {
	if d == DriveLeft {
		return "Left"
	}
	return "Right"
}

// NavigationStep is one maneuver along the route, produced once per
// session by ExtractSteps and immutable thereafter. Steps are contiguous
// and non-overlapping along the route; the final step is always Arrive
// with zero distance and duration.
type NavigationStep struct {
	Index        int           `json:"index"`
	Instruction  string        `json:"instruction"`
	Maneuver     Maneuver      `json:"maneuver"`
	Distance     float64       `json:"distance"` // meters
	Duration     time.Duration `json:"duration"`
	StartPoint   math.Point2LL `json:"startPoint"`
	EndPoint     math.Point2LL `json:"endPoint"`
	StreetName   string        `json:"streetName"`
	IsRoundabout bool          `json:"isRoundabout"`
	DrivingSide  DrivingSide   `json:"drivingSide"`
}

func (s *NavigationStep) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("index", s.Index),
		slog.String("maneuver", s.Maneuver.String()),
		slog.String("instruction", s.Instruction),
		slog.Float64("distance", s.Distance),
		slog.String("street", s.StreetName))
}

// Heading discontinuities above this many degrees close the current
// segment and start a new step.
const turnThresholdDegrees = 30

// AssumedUrbanSpeedMPS is the fixed speed used to estimate step durations
// from their distances; it is a placeholder policy, not measured travel
// time. 30 km/h.
const AssumedUrbanSpeedMPS = 8.33

// classifyManeuver maps a heading change at a turn point to a maneuver.
func classifyManeuver(delta float64, right bool) Maneuver {
	switch {
	case delta < 20:
		return Continue
	case delta < 45:
		if right {
			return SlightRight
		}
		return SlightLeft
	case delta < 120:
		if right {
			return TurnRight
		}
		return TurnLeft
	case delta < 170:
		if right {
			return SharpRight
		}
		return SharpLeft
	default:
		return UTurn
	}
}

func instructionText(m Maneuver, street string) string {
	switch m {
	case Continue, Straight:
		return "Continue on " + street
	case TurnRight:
		return "Turn right onto " + street
	case TurnLeft:
		return "Turn left onto " + street
	case SlightRight:
		return "Slight right onto " + street
	case SlightLeft:
		return "Slight left onto " + street
	case SharpRight:
		return "Sharp right onto " + street
	case SharpLeft:
		return "Sharp left onto " + street
	case UTurn:
		return "Make a U-turn onto " + street
	case Arrive:
		return "You have arrived at your destination"
	default:
		return "Continue on " + street
	}
}

// ExtractSteps derives the ordered maneuver list for a route by walking
// its polyline and detecting heading discontinuities. The resolver
// provides street names at turn points; it may be nil, in which case every
// step is on an unknown road.
func ExtractSteps(r *route.Route, resolver *StreetResolver, side DrivingSide) []NavigationStep {
	pts := r.Points
	if len(pts) == 0 {
		return nil
	}
	if len(pts) == 1 {
		return []NavigationStep{{
			Index:       0,
			Instruction: instructionText(Arrive, ""),
			Maneuver:    Arrive,
			StartPoint:  pts[0].Position,
			EndPoint:    pts[0].Position,
			DrivingSide: side,
		}}
	}

	street := resolver.Resolve(pts[0].Position)

	// The first step heads out from the start; phrase it with the initial
	// compass direction rather than as a turn.
	initialHeading := math.Heading2LL(pts[0].Position, pts[1].Position)
	steps := []NavigationStep{{
		Index:       0,
		Instruction: fmt.Sprintf("Head %s on %s", math.Compass(initialHeading), street),
		Maneuver:    Continue,
		StartPoint:  pts[0].Position,
		StreetName:  street,
		DrivingSide: side,
	}}

	segDistance := 0.0
	lastHeading := initialHeading

	closeStep := func(end math.Point2LL, m Maneuver, nextStreet string) {
		cur := &steps[len(steps)-1]
		cur.EndPoint = end
		cur.Distance = segDistance
		cur.Duration = time.Duration(segDistance / AssumedUrbanSpeedMPS * float64(time.Second))

		steps = append(steps, NavigationStep{
			Index:       len(steps),
			Instruction: instructionText(m, nextStreet),
			Maneuver:    m,
			StartPoint:  end,
			StreetName:  nextStreet,
			DrivingSide: side,
		})
		segDistance = 0
	}

	for i := 1; i < len(pts); i++ {
		prev, cur := pts[i-1].Position, pts[i].Position

		// Skip turn evaluation for the very first pair; two headings are
		// needed before there's a turn to evaluate.
		if i >= 2 {
			heading := math.Heading2LL(prev, cur)
			delta := math.HeadingDifference(lastHeading, heading)
			if delta > turnThresholdDegrees {
				// Re-resolve the street at the turn point; instructions
				// use it until the next turn updates it.
				street = resolver.Resolve(prev)
				closeStep(prev, classifyManeuver(delta, math.IsRightTurn(lastHeading, heading)), street)
			}
			lastHeading = heading
		}

		segDistance += math.DistanceMeters(prev, cur)
	}

	// Close the final driving segment at the last point and append the
	// terminal Arrive step with zero distance and duration.
	last := pts[len(pts)-1].Position
	closeStep(last, Arrive, street)
	steps[len(steps)-1].EndPoint = last

	return steps
}

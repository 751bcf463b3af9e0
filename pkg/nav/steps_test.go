// pkg/nav/steps_test.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"strings"
	"testing"

	"github.com/ombhojane/safemaps-sub000/pkg/math"
	"github.com/ombhojane/safemaps-sub000/pkg/route"
)

func routeFromPoints(pts ...math.Point2LL) *route.Route {
	r := &route.Route{ID: "test", Duration: "10 min"}
	for _, p := range pts {
		r.Points = append(r.Points, route.RoutePoint{Position: p})
	}
	if len(pts) > 0 {
		r.Destination = route.Location{Name: "Destination", Position: pts[len(pts)-1]}
	}
	return r
}

func TestExtractStepsTwoPoints(t *testing.T) {
	r := routeFromPoints(math.Point2LL{0, 0}, math.Point2LL{0, 0.01})
	steps := ExtractSteps(r, nil, DriveRight)

	if len(steps) != 2 {
		t.Fatalf("two-point route yielded %d steps, expected 2", len(steps))
	}
	if steps[0].Maneuver != Continue {
		t.Errorf("first step maneuver %s, expected Continue", steps[0].Maneuver)
	}
	if steps[1].Maneuver != Arrive {
		t.Errorf("last step maneuver %s, expected Arrive", steps[1].Maneuver)
	}
	if steps[1].Distance != 0 || steps[1].Duration != 0 {
		t.Errorf("Arrive step has distance %f duration %s, expected zero", steps[1].Distance, steps[1].Duration)
	}

	expected := 0.01 * math.MetersPerLatitude
	if math.Abs(steps[0].Distance-expected) > 5 {
		t.Errorf("first step distance %f, expected ~%f", steps[0].Distance, expected)
	}
	if steps[0].Duration <= 0 {
		t.Errorf("first step duration %s, expected positive estimate", steps[0].Duration)
	}
	if !strings.HasPrefix(steps[0].Instruction, "Head North") {
		t.Errorf("first step instruction %q, expected to head North", steps[0].Instruction)
	}
}

func TestExtractStepsSingleTurn(t *testing.T) {
	type tc struct {
		name     string
		mid, end math.Point2LL
		expected Maneuver
	}
	// All start at the origin heading east along the equator to mid.
	cases := []tc{
		{name: "left turn to north", mid: math.Point2LL{0.02, 0}, end: math.Point2LL{0.02, 0.02}, expected: TurnLeft},
		{name: "right turn to south", mid: math.Point2LL{0.02, 0}, end: math.Point2LL{0.02, -0.02}, expected: TurnRight},
	}
	for _, c := range cases {
		r := routeFromPoints(math.Point2LL{0, 0}, c.mid, c.end)
		steps := ExtractSteps(r, nil, DriveRight)

		if len(steps) != 3 {
			t.Fatalf("%s: got %d steps, expected 3", c.name, len(steps))
		}
		if steps[1].Maneuver != c.expected {
			t.Errorf("%s: middle maneuver %s, expected %s", c.name, steps[1].Maneuver, c.expected)
		}
		if steps[2].Maneuver != Arrive {
			t.Errorf("%s: final maneuver %s, expected Arrive", c.name, steps[2].Maneuver)
		}
		if steps[1].StartPoint != c.mid {
			t.Errorf("%s: turn step starts at %v, expected the turn point %v", c.name, steps[1].StartPoint, c.mid)
		}
	}
}

func TestExtractStepsGentleCurveDoesNotSplit(t *testing.T) {
	// Headings drift 10 degrees per point, always under the turn
	// threshold, so the route yields exactly start + arrive.
	pts := []math.Point2LL{{0, 0}}
	p, hdg := math.Point2LL{0, 0}, 90.0
	for i := 0; i < 8; i++ {
		p = math.Offset2LL(p, hdg, 500)
		pts = append(pts, p)
		hdg += 10
	}
	r := routeFromPoints(pts...)
	steps := ExtractSteps(r, nil, DriveRight)

	if len(steps) != 2 {
		t.Fatalf("gentle curve yielded %d steps, expected 2", len(steps))
	}
	if steps[len(steps)-1].Maneuver != Arrive {
		t.Errorf("final step is %s, expected Arrive", steps[len(steps)-1].Maneuver)
	}
}

func TestExtractStepsDegenerate(t *testing.T) {
	if steps := ExtractSteps(&route.Route{}, nil, DriveRight); steps != nil {
		t.Errorf("empty route yielded %d steps, expected none", len(steps))
	}

	r := routeFromPoints(math.Point2LL{1, 1})
	steps := ExtractSteps(r, nil, DriveRight)
	if len(steps) != 1 || steps[0].Maneuver != Arrive {
		t.Errorf("single-point route: %+v, expected a lone Arrive step", steps)
	}
}

func TestExtractStepsStreetNames(t *testing.T) {
	mid := math.Point2LL{0.02, 0}
	r := routeFromPoints(math.Point2LL{0, 0}, mid, math.Point2LL{0.02, 0.02})
	r.StreetViewLocations = []route.StreetViewLocation{
		{Position: math.Point2LL{0.001, 0}, StreetName: "Equator Ave"},
		{Position: math.Point2LL{0.02, 0.001}, StreetName: "Meridian St"},
	}

	steps := ExtractSteps(r, NewStreetResolver(r.StreetViewLocations), DriveRight)
	if len(steps) != 3 {
		t.Fatalf("got %d steps, expected 3", len(steps))
	}
	if steps[0].StreetName != "Equator Ave" {
		t.Errorf("first step street %q, expected Equator Ave", steps[0].StreetName)
	}
	if steps[1].StreetName != "Meridian St" {
		t.Errorf("turn step street %q, expected Meridian St", steps[1].StreetName)
	}
	if !strings.Contains(steps[1].Instruction, "Meridian St") {
		t.Errorf("turn instruction %q doesn't name the street", steps[1].Instruction)
	}
}

func TestClassifyManeuver(t *testing.T) {
	type tc struct {
		delta    float64
		right    bool
		expected Maneuver
	}
	cases := []tc{
		{10, true, Continue},
		{19.9, false, Continue},
		{30, true, SlightRight},
		{30, false, SlightLeft},
		{90, true, TurnRight},
		{90, false, TurnLeft},
		{150, true, SharpRight},
		{150, false, SharpLeft},
		{175, true, UTurn},
		{180, false, UTurn},
	}
	for _, c := range cases {
		if m := classifyManeuver(c.delta, c.right); m != c.expected {
			t.Errorf("classifyManeuver(%f, %v) = %s, expected %s", c.delta, c.right, m, c.expected)
		}
	}
}

func TestStreetResolver(t *testing.T) {
	hints := []route.StreetViewLocation{
		{Position: math.Point2LL{0, 0}, StreetName: "First St"},
		{Position: math.Point2LL{0.01, 0}, StreetName: "Second St"},
		{Position: math.Point2LL{0.02, 0}}, // unnamed; never returned
	}
	res := NewStreetResolver(hints)

	if s := res.Resolve(math.Point2LL{0.0001, 0}); s != "First St" {
		t.Errorf("got %q, expected First St", s)
	}
	if s := res.Resolve(math.Point2LL{0.0199, 0}); s != "Second St" {
		t.Errorf("got %q, expected Second St (nearest named hint)", s)
	}
	// Cached result for a nearby (same quantized cell) query.
	if s := res.Resolve(math.Point2LL{0.00012, 0}); s != "First St" {
		t.Errorf("cached lookup got %q, expected First St", s)
	}

	var nilRes *StreetResolver
	if s := nilRes.Resolve(math.Point2LL{0, 0}); s != UnknownRoad {
		t.Errorf("nil resolver got %q, expected %q", s, UnknownRoad)
	}
}

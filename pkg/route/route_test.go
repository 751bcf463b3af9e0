// pkg/route/route_test.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"testing"
	"time"

	"github.com/ombhojane/safemaps-sub000/pkg/math"
	"github.com/ombhojane/safemaps-sub000/pkg/util"
)

func TestParseDurationText(t *testing.T) {
	type tc struct {
		text     string
		expected time.Duration
	}
	cases := []tc{
		{"1 hr 30 min", 90 * time.Minute},
		{"45 min", 45 * time.Minute},
		{"2 hr", 2 * time.Hour},
		{"1hr 5min", 65 * time.Minute},
		{"", 0},
		{"soon", 0},
		{"90", 0},
	}
	for _, c := range cases {
		if d := ParseDurationText(c.text); d != c.expected {
			t.Errorf("ParseDurationText(%q) = %s, expected %s", c.text, d, c.expected)
		}
	}
}

func TestTotalDistanceMeters(t *testing.T) {
	r := Route{
		Points: []RoutePoint{
			{Position: math.Point2LL{0, 0}},
			{Position: math.Point2LL{0, 0.01}},
			{Position: math.Point2LL{0, 0.02}},
		},
	}
	expected := 0.02 * math.MetersPerLatitude
	if d := r.TotalDistanceMeters(); math.Abs(d-expected) > 5 {
		t.Errorf("TotalDistanceMeters() = %f, expected ~%f", d, expected)
	}

	var empty Route
	if d := empty.TotalDistanceMeters(); d != 0 {
		t.Errorf("empty route distance %f, expected 0", d)
	}
}

func TestValidate(t *testing.T) {
	bad := -1.0
	type tc struct {
		name      string
		route     Route
		wantError bool
	}
	cases := []tc{
		{
			name: "valid",
			route: Route{
				ID:          "r0",
				Destination: Location{Name: "Home", Position: math.Point2LL{0, 0.01}},
				Points: []RoutePoint{
					{Position: math.Point2LL{0, 0}},
					{Position: math.Point2LL{0, 0.01}},
				},
				Duration: "45 min",
			},
			wantError: false,
		},
		{name: "empty", route: Route{ID: "r1", Duration: "5 min"}, wantError: true},
		{
			name: "bad risk score",
			route: Route{
				ID:          "r2",
				Destination: Location{Position: math.Point2LL{0, 0.01}},
				Points: []RoutePoint{
					{Position: math.Point2LL{0, 0}},
					{Position: math.Point2LL{0, 0.01}, RiskScore: &bad},
				},
				Duration: "5 min",
			},
			wantError: true,
		},
		{
			name: "unparsable duration",
			route: Route{
				ID:          "r3",
				Destination: Location{Position: math.Point2LL{0, 0.01}},
				Points: []RoutePoint{
					{Position: math.Point2LL{0, 0}},
					{Position: math.Point2LL{0, 0.01}},
				},
				Duration: "a while",
			},
			wantError: true,
		},
	}
	for _, c := range cases {
		var e util.ErrorLogger
		c.route.Validate(&e)
		if e.HaveErrors() != c.wantError {
			t.Errorf("%s: HaveErrors() = %v, expected %v: %s", c.name, e.HaveErrors(), c.wantError, e.String())
		}
	}
}

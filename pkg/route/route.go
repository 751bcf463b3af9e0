// pkg/route/route.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/ombhojane/safemaps-sub000/pkg/math"
	"github.com/ombhojane/safemaps-sub000/pkg/util"
)

// Location is a named position, e.g. a geocoded source or destination.
type Location struct {
	Name     string       `json:"name"`
	Position math.Point2LL `json:"position"`
}

// RoutePoint is one vertex of a route's physical path, optionally carrying
// the risk score computed for it by the image-analysis backend.
type RoutePoint struct {
	Position  math.Point2LL `json:"position"`
	RiskScore *float64      `json:"riskScore,omitempty"`
}

// StreetViewLocation names the street at a sampled point along the route;
// the step extractor uses these as hints when naming maneuvers.
type StreetViewLocation struct {
	Position   math.Point2LL `json:"coordinates"`
	StreetName string        `json:"streetName,omitempty"`
}

// Route is a previously computed route as handed over by the route-search
// backend. The navigation engine treats it as read-only; Duration and
// Distance are backend-provided display text ("1 hr 5 min", "12.3 km"),
// not machine-precise values.
type Route struct {
	ID                  string               `json:"id"`
	Source              Location             `json:"source"`
	Destination         Location             `json:"destination"`
	Points              []RoutePoint         `json:"points"`
	Duration            string               `json:"duration"`
	Distance            string               `json:"distance"`
	StreetViewLocations []StreetViewLocation `json:"streetViewLocations,omitempty"`
}

// TotalDistanceMeters returns the length of the route polyline, the sum of
// the distances between consecutive points.
func (r *Route) TotalDistanceMeters() float64 {
	var total float64
	for i := 1; i < len(r.Points); i++ {
		total += math.DistanceMeters(r.Points[i-1].Position, r.Points[i].Position)
	}
	return total
}

// Validate accumulates problems with the route; malformed routes degrade
// to defaults at navigation time rather than failing the session, but we
// still want them surfaced.
func (r *Route) Validate(e *util.ErrorLogger) {
	e.Push("Route " + r.ID)
	defer e.Pop()

	if len(r.Points) == 0 {
		e.ErrorString("route has no points")
	}
	if len(r.Points) == 1 {
		e.ErrorString("route has a single point; navigation will immediately arrive")
	}
	if r.Destination.Position.IsZero() && len(r.Points) > 0 {
		e.ErrorString("destination position is unset")
	}
	if _, ok := tryParseDurationText(r.Duration); !ok {
		e.ErrorString("%q: unparsable duration text", r.Duration)
	}
	for i, p := range r.Points {
		if p.RiskScore != nil && (*p.RiskScore < 0 || *p.RiskScore > 100) {
			e.ErrorString("point %d: risk score %f outside [0,100]", i, *p.RiskScore)
		}
	}
}

func (r *Route) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", r.ID),
		slog.String("source", r.Source.Name),
		slog.String("destination", r.Destination.Name),
		slog.Int("points", len(r.Points)),
		slog.String("duration", r.Duration),
		slog.String("distance", r.Distance))
}

var reDurationText = regexp.MustCompile(`^\s*(?:(\d+)\s*hr)?\s*(?:(\d+)\s*min)?\s*$`)

// ParseDurationText parses backend duration display text of the form
// "H hr M min" or "M min" into a time.Duration. Unparsable text yields
// zero; the engine then falls back to its own estimates.
func ParseDurationText(s string) time.Duration {
	d, _ := tryParseDurationText(s)
	return d
}

func tryParseDurationText(s string) (time.Duration, bool) {
	m := reDurationText.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, false
	}
	var d time.Duration
	if m[1] != "" {
		hr, _ := strconv.Atoi(m[1])
		d += time.Duration(hr) * time.Hour
	}
	if m[2] != "" {
		min, _ := strconv.Atoi(m[2])
		d += time.Duration(min) * time.Minute
	}
	return d, true
}

// pkg/math/latlong.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"encoding/json"
	"fmt"
	gomath "math"
)

// MetersPerLatitude is the distance covered by one degree of latitude (60
// nautical miles).
const MetersPerLatitude = 60 * 1852

// Point2LL represents a 2D point on the Earth in latitude-longitude.
// Important: 0 (x) is longitude, 1 (y) is latitude
type Point2LL [2]float64

func (p Point2LL) Longitude() float64 {
	return p[0]
}

func (p Point2LL) Latitude() float64 {
	return p[1]
}

func (p Point2LL) IsZero() bool {
	return p[0] == 0 && p[1] == 0
}

// DDString returns the position in decimal degrees, e.g.:
// (39.860901, -75.274864)
func (p Point2LL) DDString() string {
	return fmt.Sprintf("(%f, %f)", p[1], p[0]) // latitude, longitude
}

// MetersPerLongitude returns the distance covered by one degree of
// longitude at the given latitude; longitude lines converge toward the
// poles.
func MetersPerLongitude(latitude float64) float64 {
	return MetersPerLatitude * gomath.Cos(Radians(latitude))
}

// DistanceMeters returns the haversine great-circle distance in meters
// between two provided lat-long coordinates.
func DistanceMeters(a Point2LL, b Point2LL) float64 {
	// https://www.movable-type.co.uk/scripts/latlong.html
	const R = 6371000 // metres
	lat1, lon1 := Radians(a[1]), Radians(a[0])
	lat2, lon2 := Radians(b[1]), Radians(b[0])
	dlat, dlon := lat2-lat1, lon2-lon1

	x := Sqr(gomath.Sin(dlat/2)) + gomath.Cos(lat1)*gomath.Cos(lat2)*Sqr(gomath.Sin(dlon/2))
	c := 2 * gomath.Atan2(gomath.Sqrt(x), gomath.Sqrt(1-x))
	return R * c
}

// LL2M converts a point expressed in latitude-longitude coordinates to
// meter coordinates relative to the given reference point; this is useful
// for example for reasoning about distances, since both axes then have the
// same measure. It assumes a (locally) flat earth.
func LL2M(p Point2LL, ref Point2LL) [2]float64 {
	return [2]float64{
		(p[0] - ref[0]) * MetersPerLongitude(ref[1]),
		(p[1] - ref[1]) * MetersPerLatitude,
	}
}

// Offset2LL returns the point at distance dist meters along the vector
// with heading hdg from the given point, again assuming a locally flat
// earth.
func Offset2LL(p Point2LL, hdg float64, dist float64) Point2LL {
	h := Radians(hdg)
	return Point2LL{
		p[0] + dist*gomath.Sin(h)/MetersPerLongitude(p[1]),
		p[1] + dist*gomath.Cos(h)/MetersPerLatitude,
	}
}

// Points are exchanged with mapping backends as {"lat": ..., "lng": ...}
// objects, so marshal that way rather than as a two-element array.
type jsonLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Point2LL) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonLatLng{Lat: p[1], Lng: p[0]})
}

func (p *Point2LL) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		// Backwards compatibility for arrays of two floats...
		var pt [2]float64
		err := json.Unmarshal(b, &pt)
		if err == nil {
			*p = pt
		}
		return err
	}

	var ll jsonLatLng
	if err := json.Unmarshal(b, &ll); err != nil {
		return err
	}
	*p = Point2LL{ll.Lng, ll.Lat}
	return nil
}

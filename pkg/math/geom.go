// pkg/math/geom.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
)

///////////////////////////////////////////////////////////////////////////
// Geometry

func Add2(a, b [2]float64) [2]float64 {
	return [2]float64{a[0] + b[0], a[1] + b[1]}
}

func Sub2(a, b [2]float64) [2]float64 {
	return [2]float64{a[0] - b[0], a[1] - b[1]}
}

func Scale2(v [2]float64, s float64) [2]float64 {
	return [2]float64{v[0] * s, v[1] * s}
}

func Dot(a, b [2]float64) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

func Length2(v [2]float64) float64 {
	return gomath.Sqrt(Dot(v, v))
}

func Distance2(a, b [2]float64) float64 {
	return Length2(Sub2(a, b))
}

// Return minimum distance between line segment vw and point p
// https://stackoverflow.com/a/1501725
func PointSegmentDistance(p, v, w [2]float64) float64 {
	l := Sub2(v, w)
	l2 := Dot(l, l)
	if l2 == 0 {
		return Length2(Sub2(p, v))
	}
	t := Clamp(Dot(Sub2(p, v), Sub2(w, v))/l2, 0, 1)
	proj := Add2(v, Scale2(Sub2(w, v), t))
	return Distance2(p, proj)
}

// PointSegmentDistanceMeters returns the minimum distance in meters from
// the lat-long point p to the segment from v to w. The points are first
// projected into a flat meter coordinate system around v; for the segment
// lengths involved in road navigation the error from ignoring the Earth's
// curvature is negligible.
func PointSegmentDistanceMeters(p, v, w Point2LL) float64 {
	if v == w {
		return DistanceMeters(p, v)
	}
	return PointSegmentDistance(LL2M(p, v), [2]float64{0, 0}, LL2M(w, v))
}

// pkg/nav/resolver.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ombhojane/safemaps-sub000/pkg/math"
	"github.com/ombhojane/safemaps-sub000/pkg/route"
)

// UnknownRoad is the street name used when no hint is close enough (or
// there are no hints at all).
const UnknownRoad = "Unknown Road"

// StreetResolver names the street at a point by nearest-neighbor lookup
// against the route's street-view location hints, ties broken by first
// match. Lookups are cached by quantized coordinate since step extraction
// and rerouting tend to ask about the same turn points repeatedly.
type StreetResolver struct {
	hints []route.StreetViewLocation
	cache *lru.Cache[string, string]
}

func NewStreetResolver(hints []route.StreetViewLocation) *StreetResolver {
	// Errors only for non-positive sizes.
	cache, _ := lru.New[string, string](512)
	return &StreetResolver{hints: hints, cache: cache}
}

// Quantize to ~10m so that jittered queries near the same turn share a
// cache entry.
func cacheKey(p math.Point2LL) string {
	return fmt.Sprintf("%.4f,%.4f", p[0], p[1])
}

// Resolve returns the name of the street nearest to p. A nil resolver (no
// hints were provided) always reports an unknown road.
func (r *StreetResolver) Resolve(p math.Point2LL) string {
	if r == nil || len(r.hints) == 0 {
		return UnknownRoad
	}

	key := cacheKey(p)
	if name, ok := r.cache.Get(key); ok {
		return name
	}

	name := UnknownRoad
	best := -1.0
	for _, h := range r.hints {
		if h.StreetName == "" {
			continue
		}
		if d := math.DistanceMeters(p, h.Position); best < 0 || d < best {
			best = d
			name = h.StreetName
		}
	}

	r.cache.Add(key, name)
	return name
}

// pkg/nav/config.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"time"
)

// Config collects the engine's tuning thresholds. DefaultConfig gives the
// stock values; zero-valued fields passed to NewEngine are replaced with
// the defaults so callers can override selectively.
type Config struct {
	// ArrivalRadiusMeters is how close to the destination counts as
	// arrived.
	ArrivalRadiusMeters float64 `json:"arrivalRadiusMeters"`

	// StepAdvanceMeters is how close to the current step's end point the
	// step cursor advances.
	StepAdvanceMeters float64 `json:"stepAdvanceMeters"`

	// OffRouteMeters is the distance from the current step's segment
	// beyond which the traveler is considered off route.
	OffRouteMeters float64 `json:"offRouteMeters"`

	// RerouteCooldown is the minimum interval between triggered reroutes.
	RerouteCooldown time.Duration `json:"rerouteCooldown"`

	// RerouteRecoveryDelay is how long a triggered reroute stays in the
	// Rerouting status before navigation resumes.
	RerouteRecoveryDelay time.Duration `json:"rerouteRecoveryDelay"`

	// MaxRerouteAttempts bounds consecutive reroutes; one more off-route
	// excursion after this many puts the engine in the Error status rather
	// than looping forever.
	MaxRerouteAttempts int `json:"maxRerouteAttempts"`

	// ArrivalGracePeriod is how long after arrival the position watch and
	// ticker are kept alive so the UI can settle.
	ArrivalGracePeriod time.Duration `json:"arrivalGracePeriod"`

	// WelcomeDelay is how long after start the welcome announcement is
	// spoken.
	WelcomeDelay time.Duration `json:"welcomeDelay"`

	// TickInterval drives ETA updates; it's a second outside of tests.
	TickInterval time.Duration `json:"tickInterval"`

	// DrivingSide applies to all extracted steps.
	DrivingSide DrivingSide `json:"drivingSide"`
}

func DefaultConfig() Config {
	return Config{
		ArrivalRadiusMeters:  50,
		StepAdvanceMeters:    30,
		OffRouteMeters:       50,
		RerouteCooldown:      10 * time.Second,
		RerouteRecoveryDelay: 3 * time.Second,
		MaxRerouteAttempts:   3,
		ArrivalGracePeriod:   5 * time.Second,
		WelcomeDelay:         500 * time.Millisecond,
		TickInterval:         time.Second,
		DrivingSide:          DriveRight,
	}
}

// withDefaults fills zero fields in from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ArrivalRadiusMeters <= 0 {
		c.ArrivalRadiusMeters = def.ArrivalRadiusMeters
	}
	if c.StepAdvanceMeters <= 0 {
		c.StepAdvanceMeters = def.StepAdvanceMeters
	}
	if c.OffRouteMeters <= 0 {
		c.OffRouteMeters = def.OffRouteMeters
	}
	if c.RerouteCooldown <= 0 {
		c.RerouteCooldown = def.RerouteCooldown
	}
	if c.RerouteRecoveryDelay <= 0 {
		c.RerouteRecoveryDelay = def.RerouteRecoveryDelay
	}
	if c.MaxRerouteAttempts <= 0 {
		c.MaxRerouteAttempts = def.MaxRerouteAttempts
	}
	if c.ArrivalGracePeriod <= 0 {
		c.ArrivalGracePeriod = def.ArrivalGracePeriod
	}
	if c.WelcomeDelay <= 0 {
		c.WelcomeDelay = def.WelcomeDelay
	}
	if c.TickInterval <= 0 {
		c.TickInterval = def.TickInterval
	}
	return c
}

// pkg/nav/errors.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"errors"
)

var (
	// ErrNoRoute: the route has no usable geometry to navigate.
	ErrNoRoute = errors.New("no route geometry")

	// ErrTooManyReroutes: consecutive reroutes exceeded the configured
	// maximum and the engine gave up.
	ErrTooManyReroutes = errors.New("too many consecutive reroutes")
)

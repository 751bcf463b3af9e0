// pkg/nav/export_test.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"github.com/ombhojane/safemaps-sub000/pkg/gps"
)

// Synchronous event injection for deterministic tests; exported only to
// _test files via Go's export_test.go convention. These call the same
// handlers the session goroutine does.

func (e *Engine) ProcessFix(f gps.Fix) {
	if s := e.testSession(); s != nil {
		e.handleFix(s, f)
	}
}

func (e *Engine) ProcessTick() {
	if s := e.testSession(); s != nil {
		e.handleTick(s)
	}
}

func (e *Engine) ProcessWatchError(err error) {
	if s := e.testSession(); s != nil {
		e.handleWatchError(s, err)
	}
}

func (e *Engine) ProcessRerouteResume() {
	if s := e.testSession(); s != nil {
		e.handleRerouteResume(s)
	}
}

func (e *Engine) testSession() *session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

func BandIndex(distance float64) int { return bandIndex(distance) }

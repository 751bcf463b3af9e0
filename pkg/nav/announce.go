// pkg/nav/announce.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"fmt"
)

// announcementBand is a window of distance-to-next-turn, (Near, Far] in
// meters, inside which one guidance announcement is made. Label is the
// distance spoken ("In 500 meters, ..."); zero means the bare instruction
// is spoken instead.
type announcementBand struct {
	Far, Near float64
	Label     int
}

// The bands guidance fires in as the turn approaches. Deliberately
// non-contiguous: the gaps keep a fix landing just past one band from
// immediately triggering the next.
var announcementBands = [...]announcementBand{
	{Far: 500, Near: 400, Label: 500},
	{Far: 200, Near: 150, Label: 200},
	{Far: 100, Near: 50, Label: 100},
	{Far: 30, Near: 20, Label: 0},
}

// bandIndex returns the index of the band containing the distance, or -1.
func bandIndex(distance float64) int {
	for i, b := range announcementBands {
		if distance > b.Near && distance <= b.Far {
			return i
		}
	}
	return -1
}

// announceGuidance fires the banded turn announcements. Each band fires
// at most once per step (the fired set resets when the step cursor
// advances), so dense fixes or accuracy jitter that moves the computed
// distance back across a threshold can't repeat an announcement.
func (e *Engine) announceGuidance(s *session, distanceToTurn float64) {
	step := e.state.CurrentStep
	if step == nil || step.Maneuver.IsStraight() {
		return
	}

	i := bandIndex(distanceToTurn)
	if i < 0 || s.bandFired[i] {
		return
	}
	s.bandFired[i] = true

	b := announcementBands[i]
	if b.Label == 0 {
		e.speak(step.Instruction)
	} else {
		e.speak(fmt.Sprintf("In %d meters, %s", b.Label, lowerFirst(step.Instruction)))
	}
}

// lowerFirst downcases the leading letter so instructions read naturally
// after the "In N meters," prefix.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'A' && c <= 'Z' {
		return string(c+'a'-'A') + s[1:]
	}
	return s
}

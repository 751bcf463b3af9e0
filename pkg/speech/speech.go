// pkg/speech/speech.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package speech

import (
	"github.com/ombhojane/safemaps-sub000/pkg/log"
)

// Speaker is the capability the navigation engine talks through. Speak is
// fire-and-forget; a new call supersedes (cancels) any utterance still in
// flight. Muting is handled by the engine, which simply stops calling
// Speak, so implementations don't need their own mute state.
type Speaker interface {
	Speak(text string)
}

// NullSpeaker drops everything; useful in tests and headless runs.
type NullSpeaker struct{}

func (NullSpeaker) Speak(text string) {}

// LogSpeaker writes utterances to the log instead of synthesizing them.
type LogSpeaker struct {
	Logger *log.Logger
}

func (s LogSpeaker) Speak(text string) {
	s.Logger.Infof("SPEAK: %s", text)
}

// pkg/nav/stream.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/ombhojane/safemaps-sub000/pkg/log"
)

// StateStream fans committed state snapshots out to subscribed observers.
// It is the backbone for communicating navigation progress to the UI layer
// and anything else that cares.
type StateStream struct {
	mu            sync.Mutex
	lg            *log.Logger
	subscriptions map[*StateSubscription]interface{}
}

type StateSubscription struct {
	stream   *StateStream
	callback func(NavigationState)
	// source records the subscriber's callsite, so that we can more easily
	// debug subscribers that are misbehaving.
	source string
}

func (s *StateSubscription) LogValue() slog.Value {
	return slog.GroupValue(slog.String("source", s.source))
}

func NewStateStream(lg *log.Logger) *StateStream {
	return &StateStream{
		lg:            lg,
		subscriptions: make(map[*StateSubscription]interface{}),
	}
}

// Subscribe registers a new observer; its callback is invoked once for
// every snapshot subsequently posted to the stream. The returned
// subscription's Unsubscribe method deregisters it.
func (s *StateStream) Subscribe(callback func(NavigationState)) *StateSubscription {
	_, fn, line, _ := runtime.Caller(1)
	sub := &StateSubscription{
		stream:   s,
		callback: callback,
		source:   fmt.Sprintf("%s:%d", fn, line),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscriptions[sub] = nil
	return sub
}

// Unsubscribe removes a subscriber from the subscriber list. A callback
// already being dispatched may still be delivered once afterward.
func (s *StateSubscription) Unsubscribe() {
	s.stream.mu.Lock()
	defer s.stream.mu.Unlock()

	if _, ok := s.stream.subscriptions[s]; !ok {
		s.stream.lg.Errorf("Attempted to unsubscribe invalid subscription: %+v", s)
	}
	delete(s.stream.subscriptions, s)
}

// Post delivers a snapshot to all current subscribers. Callbacks are
// invoked outside the stream lock (so a callback may itself subscribe,
// unsubscribe, or call back into the engine) and a panicking observer is
// isolated rather than taking the engine down.
func (s *StateStream) Post(state NavigationState) {
	s.mu.Lock()
	subs := make([]*StateSubscription, 0, len(s.subscriptions))
	for sub := range s.subscriptions {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	s.lg.Debug("posted state", slog.Any("state", state))

	for _, sub := range subs {
		func() {
			defer s.lg.CatchAndReportCrash()
			sub.callback(state)
		}()
	}
}

// implements slog.LogValuer
func (s *StateStream) LogValue() slog.Value {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := []slog.Attr{slog.Int("subscribers", len(s.subscriptions))}
	for sub := range s.subscriptions {
		items = append(items, slog.Any(fmt.Sprintf("subscriber_%p", sub), sub))
	}
	return slog.GroupValue(items...)
}

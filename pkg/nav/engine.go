// pkg/nav/engine.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ombhojane/safemaps-sub000/pkg/gps"
	"github.com/ombhojane/safemaps-sub000/pkg/log"
	"github.com/ombhojane/safemaps-sub000/pkg/math"
	"github.com/ombhojane/safemaps-sub000/pkg/route"
	"github.com/ombhojane/safemaps-sub000/pkg/speech"
	"github.com/ombhojane/safemaps-sub000/pkg/util"
)

// RerouteFunc is the hook back into the route-computation collaborator,
// called when the engine decides a reroute is warranted. The engine owns
// only the detect/announce/resume protocol; whatever new route geometry
// the collaborator produces arrives via a fresh Start call.
type RerouteFunc func(from math.Point2LL, to route.Location) error

// Engine drives turn-by-turn navigation for one route at a time: it
// derives maneuver steps from the route geometry, tracks progress against
// a live stream of position fixes, detects off-route excursions, computes
// ETA, and decides when and what the speech capability should say.
//
// All state mutation happens on a single per-session goroutine; fixes are
// processed in arrival order and each one's handling runs to completion
// before the next. Observers subscribed via Subscribe receive a snapshot
// after every committed change.
type Engine struct {
	config    Config
	source    gps.Source
	speaker   speech.Speaker
	rerouteFn RerouteFunc
	lg        *log.Logger

	stream *StateStream
	// Concurrent off-route signals collapse into one collaborator call.
	rerouteGroup singleflight.Group

	mu      sync.Mutex
	session *session
	state   NavigationState
	muted   bool
}

// session holds the per-Start lifetime state: the extracted steps, the
// event queue feeding the session goroutine, and the handles that Stop
// must cancel.
type session struct {
	steps         []NavigationStep
	totalDistance float64

	events chan sessionEvent
	quit   chan struct{}

	stopped  atomic.Bool
	shutdown sync.Once

	stopWatch func()
	ticker    *time.Ticker
	timers    []*time.Timer
	timersMu  sync.Mutex

	bandFired       [len(announcementBands)]bool
	rerouteAttempts int
}

type eventKind int

const (
	fixEvent eventKind = iota
	watchErrorEvent
	welcomeEvent
	rerouteResumeEvent
	arrivalExpireEvent
)

type sessionEvent struct {
	kind eventKind
	fix  gps.Fix
	err  error
}

// post queues an event for the session goroutine, giving up if the
// session has been stopped.
func (s *session) post(ev sessionEvent) {
	if s.stopped.Load() {
		return
	}
	select {
	case s.events <- ev:
	case <-s.quit:
	}
}

// afterFunc is time.AfterFunc with the timer registered for cancellation
// at session teardown.
func (s *session) afterFunc(d time.Duration, f func()) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	s.timers = append(s.timers, time.AfterFunc(d, f))
}

// stop cancels the position watch, the ticker, and any pending timers,
// and releases the session goroutine. Idempotent.
func (s *session) stop() {
	s.shutdown.Do(func() {
		s.stopped.Store(true)
		if s.stopWatch != nil {
			s.stopWatch()
		}
		s.ticker.Stop()
		s.timersMu.Lock()
		for _, t := range s.timers {
			t.Stop()
		}
		s.timersMu.Unlock()
		close(s.quit)
	})
}

// NewEngine returns an idle engine wired to the given position source and
// speaker. rerouteFn may be nil, in which case off-route recovery is a
// pure announce-and-resume protocol. Zero-valued Config fields take their
// defaults.
func NewEngine(config Config, source gps.Source, speaker speech.Speaker, rerouteFn RerouteFunc, lg *log.Logger) *Engine {
	return &Engine{
		config:    config.withDefaults(),
		source:    source,
		speaker:   speaker,
		rerouteFn: rerouteFn,
		lg:        lg,
		stream:    NewStateStream(lg),
		state:     NavigationState{Status: StatusIdle},
	}
}

// Start begins navigating the given route, implicitly stopping any prior
// session first, and returns the initial state snapshot. Malformed route
// input (no points, unparsable duration text) degrades to defaults rather
// than failing.
func (e *Engine) Start(r *route.Route) NavigationState {
	e.Stop()

	var errors util.ErrorLogger
	r.Validate(&errors)
	if errors.HaveErrors() {
		e.lg.Warn("route validation problems", slog.String("errors", errors.String()))
	}

	resolver := NewStreetResolver(r.StreetViewLocations)
	steps := ExtractSteps(r, resolver, e.config.DrivingSide)
	if len(steps) == 0 {
		e.lg.Warnf("%v: route %s; navigating degraded", ErrNoRoute, r.ID)
	}

	s := &session{
		steps:         steps,
		totalDistance: r.TotalDistanceMeters(),
		events:        make(chan sessionEvent, 64),
		quit:          make(chan struct{}),
		ticker:        time.NewTicker(e.config.TickInterval),
	}

	remaining := route.ParseDurationText(r.Duration)

	// The watch is started and its stop handle stored before the session is
	// published or its goroutine runs, so every later reader of stopWatch
	// sees it; a source that delivers a fix or error synchronously just
	// queues it in the buffered event channel until the loop starts.
	s.stopWatch = e.source.Watch(
		func(f gps.Fix) { s.post(sessionEvent{kind: fixEvent, fix: f}) },
		func(err error) { s.post(sessionEvent{kind: watchErrorEvent, err: err}) })
	s.afterFunc(e.config.WelcomeDelay, func() { s.post(sessionEvent{kind: welcomeEvent}) })

	e.mu.Lock()
	e.session = s
	e.state = NavigationState{
		Status:                StatusNavigating,
		Route:                 r,
		DistanceToDestination: s.totalDistance,
		RemainingDuration:     remaining,
		EstimatedArrival:      time.Now().Add(remaining),
	}
	if len(steps) > 0 {
		e.state.CurrentStep = &steps[0]
		e.state.DistanceToNextTurn = steps[0].Distance
	}
	if len(steps) > 1 {
		e.state.NextStep = &steps[1]
	}
	snap := e.state
	e.mu.Unlock()

	e.lg.Info("starting navigation", slog.Any("route", r), slog.Int("steps", len(steps)))

	// Observers get the initial snapshot before the event loop can commit
	// any fix-updated one.
	e.stream.Post(snap)
	go e.run(s)
	return snap
}

// Stop tears the current session down: it cancels the position watch and
// the ticker, resets the state to idle, and notifies observers. Safe to
// call when already idle (no-op) and from within an observer callback; a
// notification already being dispatched on another goroutine may complete
// after Stop returns.
func (e *Engine) Stop() {
	e.mu.Lock()
	s := e.session
	if s == nil {
		e.mu.Unlock()
		return
	}
	e.session = nil
	e.state = NavigationState{Status: StatusIdle}
	snap := e.state
	e.mu.Unlock()

	s.stop()
	e.lg.Info("navigation stopped")
	e.stream.Post(snap)
}

// Subscribe registers an observer that is called with a state snapshot
// after every committed change.
func (e *Engine) Subscribe(callback func(NavigationState)) *StateSubscription {
	return e.stream.Subscribe(callback)
}

// State returns a point-in-time snapshot.
func (e *Engine) State() NavigationState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Steps returns the maneuver list for the active session, or nil when
// idle.
func (e *Engine) Steps() []NavigationStep {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	return append([]NavigationStep(nil), e.session.steps...)
}

// ToggleVoiceGuidance flips guidance muting and returns the new muted
// state. Muting drops announcements silently; state transitions are
// unaffected.
func (e *Engine) ToggleVoiceGuidance() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = !e.muted
	return e.muted
}

// speak hands text to the speech capability unless guidance is muted.
// Callers hold e.mu.
func (e *Engine) speak(text string) {
	if e.muted {
		e.lg.Debugf("muted announcement: %s", text)
		return
	}
	e.lg.Info("announce", slog.String("text", text))
	e.speaker.Speak(text)
}

// run is the session goroutine: the single place where fixes, ticks, and
// internal timer events mutate navigation state, so each event's handling
// is atomic with respect to the others.
func (e *Engine) run(s *session) {
	defer e.lg.CatchAndReportCrash()

	for {
		select {
		case <-s.quit:
			return
		case ev := <-s.events:
			if s.stopped.Load() {
				continue
			}
			e.dispatch(s, ev)
		case <-s.ticker.C:
			if s.stopped.Load() {
				continue
			}
			e.handleTick(s)
		}
	}
}

func (e *Engine) dispatch(s *session, ev sessionEvent) {
	switch ev.kind {
	case fixEvent:
		e.handleFix(s, ev.fix)
	case watchErrorEvent:
		e.handleWatchError(s, ev.err)
	case welcomeEvent:
		e.handleWelcome(s)
	case rerouteResumeEvent:
		e.handleRerouteResume(s)
	case arrivalExpireEvent:
		// Grace period over; go quiet but stay observable as arrived
		// until Stop is called explicitly.
		if s.stopWatch != nil {
			s.stopWatch()
		}
		s.ticker.Stop()
	}
}

// commit publishes the already-mutated state; callers hold e.mu and it is
// released here so observers run unlocked.
func (e *Engine) commit(s *session) {
	snap := e.state
	e.mu.Unlock()
	if !s.stopped.Load() {
		e.stream.Post(snap)
	}
}

func (e *Engine) setStatus(to NavigationStatus) {
	from := e.state.Status
	if !statusTransitionOk(from, to) {
		e.lg.Errorf("illegal navigation status transition %s -> %s", from, to)
		return
	}
	if from != to {
		e.lg.Info("navigation status", slog.String("from", from.String()), slog.String("to", to.String()))
		e.state.Status = to
	}
}

func (e *Engine) handleFix(s *session, f gps.Fix) {
	e.mu.Lock()
	if e.session != s {
		e.mu.Unlock()
		return
	}
	st := &e.state

	st.Position = f.Position
	if st.CurrentStep != nil {
		st.DistanceToNextTurn = math.DistanceMeters(f.Position, st.CurrentStep.EndPoint)
	}
	st.DistanceToDestination = math.DistanceMeters(f.Position, st.Route.Destination.Position)
	if s.totalDistance > 0 {
		st.Progress = math.Clamp(100*(s.totalDistance-st.DistanceToDestination)/s.totalDistance, 0, 100)
	}

	if st.Status != StatusNavigating {
		// Arrived/Error are terminal until stop; during a reroute we keep
		// distances fresh but hold off on maneuver and off-route logic
		// until navigation resumes.
		e.commit(s)
		return
	}

	switch {
	case st.DistanceToDestination < e.config.ArrivalRadiusMeters:
		e.setStatus(StatusArrived)
		e.speak(instructionText(Arrive, ""))
		s.afterFunc(e.config.ArrivalGracePeriod, func() { s.post(sessionEvent{kind: arrivalExpireEvent}) })

	case st.DistanceToNextTurn < e.config.StepAdvanceMeters && st.NextStep != nil:
		e.advanceStep(s, st, f.Position)

	default:
		e.checkOffRoute(s, st, f.Position)
	}

	if st.Status == StatusNavigating {
		e.announceGuidance(s, st.DistanceToNextTurn)
	}

	e.commit(s)
}

// advanceStep moves the step cursor forward and announces the new
// instruction.
func (e *Engine) advanceStep(s *session, st *NavigationState, pos math.Point2LL) {
	st.CurrentStep = st.NextStep
	if i := st.CurrentStep.Index + 1; i < len(s.steps) {
		st.NextStep = &s.steps[i]
	} else {
		st.NextStep = nil
	}
	st.DistanceToNextTurn = math.DistanceMeters(pos, st.CurrentStep.EndPoint)

	// A fresh step gets a fresh set of announcement bands.
	for i := range s.bandFired {
		s.bandFired[i] = false
	}

	e.lg.Info("advanced step", slog.Any("step", st.CurrentStep))
	e.speak(st.CurrentStep.Instruction)
}

// checkOffRoute flips the off-route flag on change and triggers a
// debounced reroute.
func (e *Engine) checkOffRoute(s *session, st *NavigationState, pos math.Point2LL) {
	if st.CurrentStep == nil {
		return
	}

	d := math.PointSegmentDistanceMeters(pos, st.CurrentStep.StartPoint, st.CurrentStep.EndPoint)
	off := d > e.config.OffRouteMeters
	if off != st.OffRoute {
		st.OffRoute = off
		e.lg.Info("off-route change", slog.Bool("off_route", off), slog.Float64("distance", d))
	}
	if !off {
		s.rerouteAttempts = 0
		return
	}

	if !st.LastRerouteAt.IsZero() && time.Since(st.LastRerouteAt) < e.config.RerouteCooldown {
		return
	}
	e.triggerReroute(s, st, pos)
}

func (e *Engine) triggerReroute(s *session, st *NavigationState, pos math.Point2LL) {
	s.rerouteAttempts++
	if s.rerouteAttempts > e.config.MaxRerouteAttempts {
		e.lg.Errorf("%v: %d attempts", ErrTooManyReroutes, s.rerouteAttempts-1)
		e.setStatus(StatusError)
		if s.stopWatch != nil {
			s.stopWatch()
		}
		s.ticker.Stop()
		return
	}

	e.setStatus(StatusRerouting)
	st.LastRerouteAt = time.Now()
	e.speak("Recalculating route")

	if e.rerouteFn != nil {
		from, to := pos, st.Route.Destination
		go func() {
			defer e.lg.CatchAndReportCrash()
			if _, err, _ := e.rerouteGroup.Do("reroute", func() (interface{}, error) {
				return nil, e.rerouteFn(from, to)
			}); err != nil {
				e.lg.Errorf("reroute request failed: %v", err)
			}
		}()
	}

	s.afterFunc(e.config.RerouteRecoveryDelay, func() { s.post(sessionEvent{kind: rerouteResumeEvent}) })
}

func (e *Engine) handleRerouteResume(s *session) {
	e.mu.Lock()
	if e.session != s || e.state.Status != StatusRerouting {
		e.mu.Unlock()
		return
	}
	e.setStatus(StatusNavigating)
	e.commit(s)
}

func (e *Engine) handleWatchError(s *session, err error) {
	e.mu.Lock()
	if e.session != s {
		e.mu.Unlock()
		return
	}
	e.lg.Errorf("position watch failed: %v", err)
	e.setStatus(StatusError)
	if s.stopWatch != nil {
		s.stopWatch()
	}
	s.ticker.Stop()
	e.commit(s)
}

func (e *Engine) handleWelcome(s *session) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != s || e.state.Status != StatusNavigating {
		return
	}

	text := "Starting navigation"
	if dest := e.state.Route.Destination.Name; dest != "" {
		text += " to " + dest
	}
	if cur := e.state.CurrentStep; cur != nil {
		text = fmt.Sprintf("%s. %s", text, cur.Instruction)
	}
	e.speak(text)
}

// handleTick counts the remaining duration down once per second and keeps
// the ETA pinned to now + remaining.
func (e *Engine) handleTick(s *session) {
	e.mu.Lock()
	if e.session != s || e.state.Status != StatusNavigating {
		e.mu.Unlock()
		return
	}

	if e.state.RemainingDuration > time.Second {
		e.state.RemainingDuration -= time.Second
	} else {
		e.state.RemainingDuration = 0
	}
	e.state.EstimatedArrival = time.Now().Add(e.state.RemainingDuration)

	e.commit(s)
}

// cmd/navdemo/main.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// navdemo drives the navigation engine against a route file, either with
// a simulated vehicle or by replaying a recorded trace, printing guidance
// and state transitions as they happen.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ombhojane/safemaps-sub000/pkg/gps"
	"github.com/ombhojane/safemaps-sub000/pkg/log"
	"github.com/ombhojane/safemaps-sub000/pkg/math"
	"github.com/ombhojane/safemaps-sub000/pkg/nav"
	"github.com/ombhojane/safemaps-sub000/pkg/replay"
	"github.com/ombhojane/safemaps-sub000/pkg/route"
	"github.com/ombhojane/safemaps-sub000/pkg/speech"
	"github.com/ombhojane/safemaps-sub000/pkg/util"
)

func main() {
	routeFile := flag.String("route", "", "route JSON file to navigate (required)")
	logLevel := flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir := flag.String("logdir", "", "directory for log files (default: user config dir)")
	speed := flag.Float64("speed", 15, "simulated vehicle speed in m/s")
	jitter := flag.Float64("jitter", 0, "simulated position noise in meters")
	recordFile := flag.String("record", "", "record the session to a trace file")
	replayFile := flag.String("replay", "", "replay a recorded trace instead of simulating")
	playback := flag.Float64("playback", 1, "trace playback speed factor")
	mute := flag.Bool("mute", false, "start with voice guidance muted")
	flag.Parse()

	if *routeFile == "" {
		fmt.Fprintf(os.Stderr, "usage: navdemo -route <route.json> [options]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	lg := log.New(*logLevel, *logDir)

	r, err := loadRoute(*routeFile, lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	var source gps.Source
	if *replayFile != "" {
		trace, err := replay.Load(*replayFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		source = &replay.TraceSource{Trace: trace, Speed: *playback}
	} else {
		var pts []math.Point2LL
		for _, p := range r.Points {
			pts = append(pts, p.Position)
		}
		source = &gps.SimulatedSource{
			Points:       pts,
			SpeedMPS:     *speed,
			Interval:     time.Second,
			JitterMeters: *jitter,
		}
	}

	var recorder *replay.Recorder
	if *recordFile != "" {
		if recorder, err = replay.Create(*recordFile, r.ID); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		defer recorder.Close()

		source = recordingSource{Source: source, recorder: recorder, lg: lg}
	}

	engine := nav.NewEngine(nav.DefaultConfig(), source, consoleSpeaker{lg: lg}, nil, lg)
	if *mute {
		engine.ToggleVoiceGuidance()
	}

	terminal := make(chan nav.NavigationStatus, 1)
	sub := engine.Subscribe(func(s nav.NavigationState) {
		if recorder != nil {
			if err := recorder.RecordStatus(s.Status.String()); err != nil {
				lg.Errorf("trace record failed: %v", err)
			}
		}
		if s.Status == nav.StatusArrived || s.Status == nav.StatusError {
			select {
			case terminal <- s.Status:
			default:
			}
		}
	})
	defer sub.Unsubscribe()

	engine.Start(r)
	defer engine.Stop()

	eg, ctx := errgroup.WithContext(context.Background())
	eg.Go(func() error {
		select {
		case status := <-terminal:
			if status == nav.StatusError {
				return fmt.Errorf("navigation failed; see %s", lg.LogFile)
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	eg.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				printProgress(engine.State())
			}
		}
	})

	if err := eg.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\narrived at %s\n", r.Destination.Name)
}

func loadRoute(path string, lg *log.Logger) (*route.Route, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r route.Route
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var e util.ErrorLogger
	r.Validate(&e)
	if e.HaveErrors() {
		e.PrintErrors(lg)
		return nil, fmt.Errorf("%s: invalid route", path)
	}
	return &r, nil
}

func printProgress(s nav.NavigationState) {
	if s.Status != nav.StatusNavigating && s.Status != nav.StatusRerouting {
		return
	}
	instr := ""
	if s.CurrentStep != nil {
		instr = s.CurrentStep.Instruction
	}
	fmt.Printf("[%s] %3.0f%%  next turn %.0fm  dest %.0fm  eta %s  %s\n",
		s.Status, s.Progress, s.DistanceToNextTurn, s.DistanceToDestination,
		s.EstimatedArrival.Format("15:04:05"), instr)
}

// consoleSpeaker prints guidance to stdout and mirrors it to the log.
type consoleSpeaker struct {
	lg *log.Logger
}

func (c consoleSpeaker) Speak(text string) {
	fmt.Printf(">> %s\n", text)
	speech.LogSpeaker{Logger: c.lg}.Speak(text)
}

// recordingSource tees fixes from the underlying source into the trace
// recorder on their way to the engine.
type recordingSource struct {
	gps.Source
	recorder *replay.Recorder
	lg       *log.Logger
}

func (r recordingSource) Watch(onFix func(gps.Fix), onError func(error)) (stop func()) {
	return r.Source.Watch(func(f gps.Fix) {
		if err := r.recorder.RecordFix(f); err != nil {
			r.lg.Errorf("trace record failed: %v", err)
		}
		onFix(f)
	}, onError)
}

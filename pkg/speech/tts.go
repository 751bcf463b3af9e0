// pkg/speech/tts.go
// Copyright(c) 2026 SafeMaps contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package speech

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ombhojane/safemaps-sub000/pkg/log"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

var ErrTTSUnavailable = errors.New("TTS service unavailable")

// Synthesizer turns guidance text into MP3 audio using the Google Cloud
// text-to-speech service.
type Synthesizer struct {
	client *texttospeech.Client
	voice  string
	lg     *log.Logger
}

func NewSynthesizer(ctx context.Context, voice string, lg *log.Logger) (*Synthesizer, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if voice == "" {
		voice = "en-US-Neural2-C"
	}
	return &Synthesizer{client: client, voice: voice, lg: lg}, nil
}

// Synthesize requests synthesis of the provided text. If successful, it
// returns a chan that provides the MP3 of the synthesized voice when it is
// available; the chan is closed without a value on error or cancellation.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (<-chan []byte, error) {
	if s == nil || s.client == nil {
		return nil, ErrTTSUnavailable
	}
	ch := make(chan []byte)
	start := time.Now()

	go func() {
		defer close(ch)

		req := texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
			},
			Voice: &texttospeechpb.VoiceSelectionParams{
				LanguageCode: "en-US",
				Name:         s.voice,
			},
			AudioConfig: &texttospeechpb.AudioConfig{
				SpeakingRate:    1.1,
				SampleRateHertz: 24000,
				AudioEncoding:   texttospeechpb.AudioEncoding_MP3,
			},
		}

		resp, err := s.client.SynthesizeSpeech(ctx, &req)
		if err != nil {
			s.lg.Errorf("TTS: speech %q error %v", text, err)
			return
		}
		s.lg.Infof("Synthesized speech %q latency %s result size %d", text, time.Since(start), len(resp.AudioContent))

		select {
		case ch <- resp.AudioContent:
		case <-ctx.Done():
		}
	}()

	return ch, nil
}

func (s *Synthesizer) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// CloudSpeaker is a Speaker backed by a Synthesizer. Audio playback is the
// platform's business, so synthesized MP3s are handed to the provided
// sink; a Speak call cancels the synthesis of any utterance still in
// flight first.
type CloudSpeaker struct {
	Synth *Synthesizer
	Sink  func(mp3 []byte)
	lg    *log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewCloudSpeaker(synth *Synthesizer, sink func(mp3 []byte), lg *log.Logger) *CloudSpeaker {
	return &CloudSpeaker{Synth: synth, Sink: sink, lg: lg}
}

func (s *CloudSpeaker) Speak(text string) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	ch, err := s.Synth.Synthesize(ctx, text)
	if err != nil {
		s.lg.Warnf("TTS unavailable for %q: %v", text, err)
		cancel()
		return
	}

	go func() {
		defer s.lg.CatchAndReportCrash()
		if mp3, ok := <-ch; ok && s.Sink != nil {
			s.Sink(mp3)
		}
	}()
}

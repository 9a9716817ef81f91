package main

import (
	"context"
	"errors"
	"image"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"looks/internal/capture"
	"looks/internal/infra"
	"looks/internal/session"
	"looks/internal/tryon"
)

// flakySource serves one good frame, then fails every advance.
type flakySource struct {
	served bool
}

func (f *flakySource) NextFrame(context.Context) (image.Image, error) {
	if f.served {
		return nil, errors.New("stream stalled")
	}
	f.served = true
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

func TestCaptureFallsBackToLastGoodFrame(t *testing.T) {
	var logger infra.Logger = zerolog.New(io.Discard)
	s := &shell{
		machine: session.New(session.Config{Policy: session.RetakePolicy{KeepStyle: true}}),
		adapter: capture.NewAdapter(&flakySource{}),
		relay:   tryon.NewRelay("http://127.0.0.1:0", "session_test", nil, logger),
		logger:  logger,
	}
	defer s.relay.Flush()

	s.machine.SelectStyle("pixie cut", "change the hairstyle to a pixie cut")
	s.startCamera(context.Background())
	if got := s.machine.State(); got != session.StateCameraLive {
		t.Fatalf("state = %v, want CAMERA_LIVE", got)
	}

	// Advance fails here; the frozen frame is the one from Start.
	s.captureFrame(context.Background())
	if got := s.machine.State(); got != session.StateCaptured {
		t.Fatalf("state = %v, want PHOTO_CAPTURED", got)
	}
	if s.still == nil || len(s.still.Data) == 0 {
		t.Fatal("no still captured")
	}
}

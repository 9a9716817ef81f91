package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"looks/internal/domain"
)

type deniedSource struct{}

func (deniedSource) NextFrame(context.Context) (image.Image, error) {
	return nil, domain.ErrPermissionDenied
}

type stalledSource struct{}

func (stalledSource) NextFrame(context.Context) (image.Image, error) {
	return nil, domain.ErrNotReady
}

func TestCaptureProducesDecodableJPEG(t *testing.T) {
	adapter := NewAdapter(&SyntheticSource{Seed: "selfie", Width: 320, Height: 240})
	feed, err := adapter.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	still, err := adapter.Capture(feed)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if still.Width != 320 || still.Height != 240 {
		t.Fatalf("unexpected dimensions %dx%d", still.Width, still.Height)
	}
	img, err := jpeg.Decode(bytes.NewReader(still.Data))
	if err != nil {
		t.Fatalf("still is not a valid jpeg: %v", err)
	}
	if img.Bounds().Dx() != 320 {
		t.Fatalf("decoded width = %d, want 320", img.Bounds().Dx())
	}
	if still.Base64() == "" {
		t.Fatal("expected non-empty base64 payload")
	}
}

func TestStartReportsPermissionDenied(t *testing.T) {
	adapter := NewAdapter(deniedSource{})
	if _, err := adapter.Start(context.Background()); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestCaptureBeforeFirstFrameNotReady(t *testing.T) {
	adapter := NewAdapter(stalledSource{})
	feed, err := adapter.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := adapter.Capture(feed); !errors.Is(err, domain.ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}
}

func TestSyntheticSourceIsDeterministic(t *testing.T) {
	a := &SyntheticSource{Seed: "booth-1", Width: 64, Height: 64}
	b := &SyntheticSource{Seed: "booth-1", Width: 64, Height: 64}
	fa, err := a.NextFrame(context.Background())
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	fb, err := b.NextFrame(context.Background())
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	if fa.At(10, 10) != fb.At(10, 10) {
		t.Fatal("same seed produced different frames")
	}
}

func TestDirSourceLoops(t *testing.T) {
	dir := t.TempDir()
	src := &SyntheticSource{Seed: "frames", Width: 32, Height: 32}
	for i := 0; i < 2; i++ {
		frame, err := src.NextFrame(context.Background())
		if err != nil {
			t.Fatalf("frame: %v", err)
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, frame, nil); err != nil {
			t.Fatalf("encode: %v", err)
		}
		name := filepath.Join(dir, string(rune('a'+i))+".jpg")
		if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	ds, err := NewDirSource(dir)
	if err != nil {
		t.Fatalf("new dir source: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := ds.NextFrame(context.Background()); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
}

func TestDirSourceRequiresFrames(t *testing.T) {
	if _, err := NewDirSource(t.TempDir()); err == nil {
		t.Fatal("expected error for empty directory")
	}
}

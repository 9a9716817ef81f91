// Package capture is the media capture boundary: it turns a live frame
// source into frozen JPEG stills. It owns no session state and touches no
// display; the session machine consumes what it returns.
package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"sync"

	"looks/internal/domain"
)

// FrameSource produces live frames. Implementations model the camera
// device: acquiring the first frame may suspend on a permission prompt,
// and a denied prompt surfaces as domain.ErrPermissionDenied.
type FrameSource interface {
	NextFrame(ctx context.Context) (image.Image, error)
}

// jpegQuality matches the fixed capture quality of the frontend (0.9).
const jpegQuality = 90

// Still is a frozen, encoded selfie frame.
type Still struct {
	Data   []byte
	Width  int
	Height int
}

// Base64 returns the still as a raw base64 string, the wire shape the
// generation proxy accepts.
func (s *Still) Base64() string {
	return base64.StdEncoding.EncodeToString(s.Data)
}

// Feed is a live camera acquisition. It remembers the most recent frame
// so a capture freezes exactly what was last displayed.
type Feed struct {
	source FrameSource

	mu   sync.Mutex
	last image.Image
}

// Advance pulls the next live frame into the feed.
func (f *Feed) Advance(ctx context.Context) error {
	frame, err := f.source.NextFrame(ctx)
	if err != nil {
		return fmt.Errorf("capture: advance: %w", err)
	}
	f.mu.Lock()
	f.last = frame
	f.mu.Unlock()
	return nil
}

// Adapter wraps a frame source behind the start/capture contract.
type Adapter struct {
	source FrameSource
}

// NewAdapter constructs an adapter over the given source.
func NewAdapter(source FrameSource) *Adapter {
	return &Adapter{source: source}
}

// Start acquires the camera. It suspends until the source resolves its
// permission prompt and produces the first frame; denial is reported as
// domain.ErrPermissionDenied. A source that is granted but not yet
// streaming yields a feed with no frame, on which Capture reports
// domain.ErrNotReady.
func (a *Adapter) Start(ctx context.Context) (*Feed, error) {
	feed := &Feed{source: a.source}
	frame, err := a.source.NextFrame(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotReady) {
			return feed, nil
		}
		return nil, fmt.Errorf("capture: start camera: %w", err)
	}
	feed.last = frame
	return feed, nil
}

// Capture freezes the most recent frame into a JPEG still. The feed keeps
// running; callers decide what to do with the still.
func (a *Adapter) Capture(feed *Feed) (*Still, error) {
	feed.mu.Lock()
	frame := feed.last
	feed.mu.Unlock()
	if frame == nil {
		return nil, domain.ErrNotReady
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("capture: encode frame: %w", err)
	}
	bounds := frame.Bounds()
	return &Still{
		Data:   buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

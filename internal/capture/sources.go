package capture

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// SyntheticSource renders deterministic gradient frames. It stands in for
// a camera in kiosk demos and in tests, keyed by a seed so the same seed
// always yields the same footage.
type SyntheticSource struct {
	Seed   string
	Width  int
	Height int

	mu    sync.Mutex
	frame int
}

// NextFrame renders the next frame in the synthetic stream.
func (s *SyntheticSource) NextFrame(_ context.Context) (image.Image, error) {
	s.mu.Lock()
	n := s.frame
	s.frame++
	s.mu.Unlock()

	width, height := s.Width, s.Height
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 480
	}

	seed := frameSeed(s.Seed, n)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	base := colorFromSeed(seed, 0)
	accent := colorFromSeed(seed, 1)
	draw.Draw(img, img.Bounds(), &image.Uniform{base}, image.Point{}, draw.Src)

	stripeHeight := maxInt(16, height/12)
	for y := 0; y < height; y += stripeHeight * 2 {
		stripe := image.Rect(0, y, width, minInt(height, y+stripeHeight))
		draw.Draw(img, stripe, &image.Uniform{accent}, image.Point{}, draw.Over)
	}
	return img, nil
}

func frameSeed(seed string, frame int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", seed, frame)))
	return hex.EncodeToString(sum[:6])
}

func colorFromSeed(seed string, shift int) color.RGBA {
	if seed == "" {
		seed = "000000"
	}
	doubled := seed + seed
	start := (shift * 4) % len(seed)
	segment := doubled[start : start+6]
	r := mustParseHexByte(segment[0:2])
	g := mustParseHexByte(segment[2:4])
	b := mustParseHexByte(segment[4:6])
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func mustParseHexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// DirSource loops over image files in a directory, serving each as a
// frame. It lets the kiosk run against recorded footage.
type DirSource struct {
	paths []string

	mu  sync.Mutex
	idx int
}

// NewDirSource scans dir for jpeg and png files.
func NewDirSource(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("capture: read frame dir: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("capture: no frames in %s", dir)
	}
	sort.Strings(paths)
	return &DirSource{paths: paths}, nil
}

// NextFrame decodes the next file in the loop.
func (d *DirSource) NextFrame(_ context.Context) (image.Image, error) {
	d.mu.Lock()
	path := d.paths[d.idx%len(d.paths)]
	d.idx++
	d.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("capture: open frame: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("capture: decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

package image

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"
)

// SyntheticGenerator renders a deterministic placeholder portrait from the
// prompt. It is an explicitly selected provider for demos and offline
// development, never a silent substitute for a real vendor.
type SyntheticGenerator struct {
	Width  int
	Height int
}

func NewSyntheticGenerator() *SyntheticGenerator {
	return &SyntheticGenerator{Width: 512, Height: 512}
}

func (g *SyntheticGenerator) Generate(_ context.Context, req GenerateRequest) (*Result, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("synthetic: prompt is required")
	}
	if len(req.BaseImage) == 0 {
		return nil, errors.New("synthetic: base image is required")
	}

	width, height := g.Width, g.Height
	if width <= 0 {
		width = 512
	}
	if height <= 0 {
		height = 512
	}

	seed := syntheticSeed(prompt, req.BaseImage)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	base := syntheticColor(seed, 0)
	accent := syntheticColor(seed, 1)
	draw.Draw(img, img.Bounds(), &image.Uniform{base}, image.Point{}, draw.Src)

	stripeHeight := maxInt(32, height/12)
	for y := 0; y < height; y += stripeHeight * 2 {
		stripe := image.Rect(0, y, width, minInt(height, y+stripeHeight))
		draw.Draw(img, stripe, &image.Uniform{accent}, image.Point{}, draw.Over)
	}

	diagonal := syntheticColor(seed, 2)
	step := maxInt(16, width/32)
	for i := 0; i < maxInt(width, height); i += step {
		for y := 0; y < height; y++ {
			x := i + y
			if x >= width {
				break
			}
			img.Set(x, y, diagonal)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("synthetic: encode image: %w", err)
	}
	return &Result{Data: buf.Bytes(), Format: "image/png"}, nil
}

var _ Generator = (*SyntheticGenerator)(nil)

func syntheticSeed(prompt string, baseImage []byte) string {
	h := sha256.New()
	h.Write([]byte(prompt))
	h.Write([]byte{0})
	h.Write(baseImage)
	return hex.EncodeToString(h.Sum(nil)[:8])
}

func syntheticColor(seed string, shift int) color.RGBA {
	if seed == "" {
		seed = "000000"
	}
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	r := parseHexByte(segment[0:2])
	g := parseHexByte(segment[2:4])
	b := parseHexByte(segment[4:6])
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func parseHexByte(s string) uint8 {
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

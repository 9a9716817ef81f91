package image

import (
	"bytes"
	"context"
	"image/png"
	"testing"
)

func TestSyntheticGeneratorIsDeterministic(t *testing.T) {
	gen := NewSyntheticGenerator()
	req := GenerateRequest{BaseImage: []byte("selfie"), Prompt: "silver pixie cut"}

	first, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.Equal(first.Data, second.Data) {
		t.Fatal("same inputs produced different images")
	}
	if first.Format != "image/png" {
		t.Fatalf("format = %q", first.Format)
	}
	img, err := png.Decode(bytes.NewReader(first.Data))
	if err != nil {
		t.Fatalf("output is not valid png: %v", err)
	}
	if img.Bounds().Dx() != 512 || img.Bounds().Dy() != 512 {
		t.Fatalf("unexpected dimensions %v", img.Bounds())
	}
}

func TestSyntheticGeneratorVariesByPrompt(t *testing.T) {
	gen := NewSyntheticGenerator()
	a, err := gen.Generate(context.Background(), GenerateRequest{BaseImage: []byte("selfie"), Prompt: "buzz cut"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := gen.Generate(context.Background(), GenerateRequest{BaseImage: []byte("selfie"), Prompt: "long waves"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if bytes.Equal(a.Data, b.Data) {
		t.Fatal("different prompts produced identical images")
	}
}

func TestSyntheticGeneratorValidatesInputs(t *testing.T) {
	gen := NewSyntheticGenerator()
	if _, err := gen.Generate(context.Background(), GenerateRequest{BaseImage: []byte("selfie")}); err == nil {
		t.Fatal("expected error for missing prompt")
	}
	if _, err := gen.Generate(context.Background(), GenerateRequest{Prompt: "p"}); err == nil {
		t.Fatal("expected error for missing base image")
	}
}

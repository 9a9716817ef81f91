// Package image defines the provider-neutral generation contract the HTTP
// layer depends on, plus thin adapters binding each vendor client to it.
package image

import (
	"context"
)

// GenerateRequest carries one hairstyle edit: the captured selfie plus the
// prompt of the selected style.
type GenerateRequest struct {
	BaseImage      []byte
	Prompt         string
	NegativePrompt string
	RequestID      string
}

// Result is the generated portrait.
type Result struct {
	Data   []byte
	Format string
}

// Generator produces an edited portrait from a selfie and a prompt.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Result, error)
}

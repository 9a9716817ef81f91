package image

import (
	"context"

	"looks/internal/providers/genai"
	"looks/internal/providers/replicate"
)

// ReplicateGenerator binds the Replicate predictions client to the
// Generator contract.
type ReplicateGenerator struct {
	client *replicate.Client
}

func NewReplicateGenerator(client *replicate.Client) *ReplicateGenerator {
	return &ReplicateGenerator{client: client}
}

func (g *ReplicateGenerator) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	edited, err := g.client.Edit(ctx, replicate.EditRequest{
		BaseImage:      req.BaseImage,
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		RequestID:      req.RequestID,
	})
	if err != nil {
		return nil, err
	}
	return &Result{Data: edited.Data, Format: edited.Format}, nil
}

var _ Generator = (*ReplicateGenerator)(nil)

// GeminiGenerator binds the Gemini generateContent client to the
// Generator contract.
type GeminiGenerator struct {
	client *genai.Client
}

func NewGeminiGenerator(client *genai.Client) *GeminiGenerator {
	return &GeminiGenerator{client: client}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	edited, err := g.client.Edit(ctx, genai.EditRequest{
		BaseImage: req.BaseImage,
		Prompt:    req.Prompt,
		RequestID: req.RequestID,
	})
	if err != nil {
		return nil, err
	}
	return &Result{Data: edited.Data, Format: edited.Format}, nil
}

var _ Generator = (*GeminiGenerator)(nil)

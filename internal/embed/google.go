// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package embed

import (
	"context"

	"google.golang.org/genai"

	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

// GoogleConfig holds Google Gemini embedding model configuration.
type GoogleConfig struct {
	APIKey     string
	Model      string // defaults to gemini-embedding-001
	Dimensions int    // defaults to 768
	Batch      int    // preferred batch size; defaults to DefaultBatchSize
}

// Google implements Model using the Gemini embedContent API.
// Text-only.
type Google struct {
	client *genai.Client
	config GoogleConfig
}

var _ Model = (*Google)(nil)

// NewGoogle creates a Gemini embedding model. Returns an error if the
// API key is missing.
func NewGoogle(cfg GoogleConfig) (*Google, error) {
	if cfg.APIKey == "" {
		return nil, quiverr.New(quiverr.CodeEmbedRequestInvalid,
			"google: missing api_key in config", quiverr.FieldModel(cfg.Model))
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-embedding-001"
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = 768
	}
	if cfg.Batch <= 0 {
		cfg.Batch = DefaultBatchSize
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, quiverr.Wrapf(err, quiverr.CodeEmbedUpstreamFailure, "google: creating client")
	}

	return &Google{client: client, config: cfg}, nil
}

func (g *Google) ID() string           { return g.config.Model }
func (g *Google) Dimensions() int      { return g.config.Dimensions }
func (g *Google) BatchSize() int       { return g.config.Batch }
func (g *Google) SupportsText() bool   { return true }
func (g *Google) SupportsBinary() bool { return false }

// Embed returns the vector for a single text input.
func (g *Google) Embed(ctx context.Context, in Input) ([]float32, error) {
	vecs, err := g.EmbedBatch(ctx, []Input{in})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one embedContent call, preserving order.
func (g *Google) EmbedBatch(ctx context.Context, ins []Input) ([][]float32, error) {
	if len(ins) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(ins))
	for i, in := range ins {
		if err := CheckInput(g, in); err != nil {
			return nil, err
		}
		contents[i] = genai.NewContentFromText(in.Text, genai.RoleUser)
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.config.Model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: genai.Ptr(int32(g.config.Dimensions)),
	})
	if err != nil {
		return nil, quiverr.Wrapf(err, quiverr.CodeEmbedUpstreamFailure,
			"google: embedding %d inputs", len(ins))
	}
	if len(resp.Embeddings) != len(ins) {
		return nil, quiverr.Errorf(quiverr.CodeEmbedUpstreamFailure,
			"google: got %d embeddings for %d inputs", len(resp.Embeddings), len(ins))
	}

	vecs := make([][]float32, len(ins))
	for i, e := range resp.Embeddings {
		vecs[i] = e.Values
	}
	return vecs, nil
}

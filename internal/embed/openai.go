// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package embed

import (
	"context"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

// OpenAIConfig holds OpenAI embedding model configuration.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string // optional, useful for testing against a mock server
	Model      string // defaults to text-embedding-3-small
	Dimensions int    // defaults to 1536
	Batch      int    // preferred batch size; defaults to DefaultBatchSize
}

// OpenAI implements Model using the OpenAI Embeddings API. It is
// text-only: binary input must be rejected before dispatch.
type OpenAI struct {
	client openaisdk.Client
	config OpenAIConfig
}

var _ Model = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI embedding model. Returns an error if the
// API key is missing.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, quiverr.New(quiverr.CodeEmbedRequestInvalid,
			"openai: missing api_key in config", quiverr.FieldModel(cfg.Model))
	}
	if cfg.Model == "" {
		cfg.Model = string(openaisdk.EmbeddingModelTextEmbedding3Small)
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = 1536
	}
	if cfg.Batch <= 0 {
		cfg.Batch = DefaultBatchSize
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAI{client: openaisdk.NewClient(opts...), config: cfg}, nil
}

func (o *OpenAI) ID() string           { return o.config.Model }
func (o *OpenAI) Dimensions() int      { return o.config.Dimensions }
func (o *OpenAI) BatchSize() int       { return o.config.Batch }
func (o *OpenAI) SupportsText() bool   { return true }
func (o *OpenAI) SupportsBinary() bool { return false }

// Embed returns the vector for a single text input.
func (o *OpenAI) Embed(ctx context.Context, in Input) ([]float32, error) {
	vecs, err := o.EmbedBatch(ctx, []Input{in})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds up to one API call's worth of texts, preserving
// input order.
func (o *OpenAI) EmbedBatch(ctx context.Context, ins []Input) ([][]float32, error) {
	if len(ins) == 0 {
		return nil, nil
	}

	texts := make([]string, len(ins))
	for i, in := range ins {
		if err := CheckInput(o, in); err != nil {
			return nil, err
		}
		texts[i] = in.Text
	}

	params := openaisdk.EmbeddingNewParams{
		Model: openaisdk.EmbeddingModel(o.config.Model),
		Input: openaisdk.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Dimensions: openaisdk.Int(int64(o.config.Dimensions)),
	}

	resp, err := o.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, quiverr.Wrapf(err, quiverr.CodeEmbedUpstreamFailure,
			"openai: embedding %d inputs", len(ins))
	}
	if len(resp.Data) != len(ins) {
		return nil, quiverr.Errorf(quiverr.CodeEmbedUpstreamFailure,
			"openai: got %d embeddings for %d inputs", len(resp.Data), len(ins))
	}

	vecs := make([][]float32, len(ins))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(vecs) {
			return nil, quiverr.Errorf(quiverr.CodeEmbedUpstreamFailure,
				"openai: embedding index %d out of range", d.Index)
		}
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vecs[d.Index] = vec
	}
	return vecs, nil
}

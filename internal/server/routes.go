// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quiver-dev/quiver/internal/embed"
	"github.com/quiver-dev/quiver/internal/store"
)

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-collections",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections",
		Summary:     "List collections",
		Tags:        []string{"collections"},
	}, s.handleListCollections)

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-collection",
		Method:      http.MethodDelete,
		Path:        "/api/v1/collections/{name}",
		Summary:     "Delete a collection and all its records",
		Tags:        []string{"collections"},
	}, s.handleDeleteCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "count-collection",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/{name}/count",
		Summary:     "Count records in a collection",
		Tags:        []string{"collections"},
	}, s.handleCountCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "embed-record",
		Method:      http.MethodPost,
		Path:        "/api/v1/collections/{name}/embed",
		Summary:     "Embed content and store it under an ID",
		Tags:        []string{"embeddings"},
	}, s.handleEmbed)

	huma.Register(s.api, huma.Operation{
		OperationID: "similar",
		Method:      http.MethodPost,
		Path:        "/api/v1/collections/{name}/similar",
		Summary:     "Rank stored records against a query",
		Tags:        []string{"search"},
	}, s.handleSimilar)
}

// CollectionInfo describes one collection in API responses.
type CollectionInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Count int    `json:"count"`
}

type listCollectionsOutput struct {
	Body struct {
		Collections []CollectionInfo `json:"collections"`
	}
}

func (s *Server) handleListCollections(ctx context.Context, _ *struct{}) (*listCollectionsOutput, error) {
	cols, err := s.store.List(ctx)
	if err != nil {
		return nil, httpError(err)
	}

	out := &listCollectionsOutput{}
	out.Body.Collections = make([]CollectionInfo, 0, len(cols))
	for _, col := range cols {
		n, err := s.store.Count(ctx, col.Name)
		if err != nil {
			return nil, httpError(err)
		}
		out.Body.Collections = append(out.Body.Collections, CollectionInfo{
			Name:  col.Name,
			Model: col.ModelID,
			Count: n,
		})
	}
	return out, nil
}

type collectionPathInput struct {
	Name string `path:"name" doc:"Collection name"`
}

func (s *Server) handleDeleteCollection(ctx context.Context, in *collectionPathInput) (*struct{}, error) {
	if err := s.store.Delete(ctx, in.Name); err != nil {
		return nil, httpError(err)
	}
	return &struct{}{}, nil
}

type countOutput struct {
	Body struct {
		Count int `json:"count"`
	}
}

func (s *Server) handleCountCollection(ctx context.Context, in *collectionPathInput) (*countOutput, error) {
	n, err := s.store.Count(ctx, in.Name)
	if err != nil {
		return nil, httpError(err)
	}
	out := &countOutput{}
	out.Body.Count = n
	return out, nil
}

type embedInput struct {
	Name string `path:"name" doc:"Collection name"`
	Body struct {
		ID           string         `json:"id" doc:"Record ID, unique within the collection"`
		Content      string         `json:"content" doc:"Text to embed"`
		Metadata     map[string]any `json:"metadata,omitempty"`
		StoreContent bool           `json:"store_content,omitempty" doc:"Persist the content alongside the vector"`
		Model        string         `json:"model,omitempty" doc:"Model ID used when the collection is created by this call"`
	}
}

type embedOutput struct {
	Body struct {
		Collection string `json:"collection"`
		ID         string `json:"id"`
	}
}

func (s *Server) handleEmbed(ctx context.Context, in *embedInput) (*embedOutput, error) {
	if in.Body.ID == "" {
		return nil, huma.Error422UnprocessableEntity("id is required")
	}

	modelID := in.Body.Model
	if modelID == "" {
		modelID = s.cfg.DefaultModel
	}
	if _, err := s.store.GetOrCreate(ctx, in.Name, modelID); err != nil {
		return nil, httpError(err)
	}

	err := s.store.Embed(ctx, in.Name, in.Body.ID, embed.TextInput(in.Body.Content),
		in.Body.Metadata, store.EmbedOptions{StoreContent: in.Body.StoreContent})
	if err != nil {
		return nil, httpError(err)
	}

	out := &embedOutput{}
	out.Body.Collection = in.Name
	out.Body.ID = in.Body.ID
	return out, nil
}

type similarInput struct {
	Name string `path:"name" doc:"Collection name"`
	Body struct {
		Text   string    `json:"text,omitempty" doc:"Query text, embedded with the collection's model"`
		ID     string    `json:"id,omitempty" doc:"Rank against the stored vector of this record"`
		Vector []float32 `json:"vector,omitempty" doc:"Raw query vector"`
		Number int       `json:"number,omitempty" doc:"Max results (default 10)"`
	}
}

// SearchResult is one similarity hit in API responses.
type SearchResult struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Content  *string        `json:"content,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type similarOutput struct {
	Body struct {
		Results []SearchResult `json:"results"`
	}
}

func (s *Server) handleSimilar(ctx context.Context, in *similarInput) (*similarOutput, error) {
	set := 0
	if in.Body.Text != "" {
		set++
	}
	if in.Body.ID != "" {
		set++
	}
	if len(in.Body.Vector) > 0 {
		set++
	}
	if set != 1 {
		return nil, huma.Error422UnprocessableEntity("exactly one of text, id, or vector is required")
	}

	var (
		results []store.Result
		err     error
	)
	switch {
	case in.Body.Text != "":
		results, err = s.store.Similar(ctx, in.Name, in.Body.Text, in.Body.Number)
	case in.Body.ID != "":
		results, err = s.store.SimilarByID(ctx, in.Name, in.Body.ID, in.Body.Number)
	default:
		results, err = s.store.SimilarByVector(ctx, in.Name, in.Body.Vector, in.Body.Number, "")
	}
	if err != nil {
		return nil, httpError(err)
	}

	out := &similarOutput{}
	out.Body.Results = make([]SearchResult, 0, len(results))
	for _, r := range results {
		out.Body.Results = append(out.Body.Results, SearchResult{
			ID:       r.ID,
			Score:    r.Score,
			Content:  r.Content,
			Metadata: r.Metadata,
		})
	}
	return out, nil
}

package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	grouped, err := h.ds.CategorizedExercises(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, grouped)
}

func (h *handlers) categories(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	categories, err := h.ds.ExerciseCategories(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, categories)
}

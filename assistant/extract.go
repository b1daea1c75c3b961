package assistant

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

//go:embed template/extract_search.txt
var extractPromptRaw string

// SearchParams are the structured search arguments extracted from a
// free-text query. Omitted fields stay off the wire so the server applies
// its own defaults.
type SearchParams struct {
	Location    string   `json:"location"`
	CuisineType string   `json:"cuisine_type,omitempty"`
	MinRating   *float64 `json:"min_rating,omitempty"`
	MaxResults  int      `json:"max_results,omitempty"`
}

// Extractor turns a free-text restaurant query into search arguments.
type Extractor interface {
	ExtractSearchParams(ctx context.Context, query string) (SearchParams, error)
}

// Completer is the single-turn prompt interface the extractor needs from a
// language model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GeminiExtractor extracts search parameters with a language model.
type GeminiExtractor struct {
	model Completer
}

var _ Extractor = (*GeminiExtractor)(nil)

func NewGeminiExtractor(model Completer) *GeminiExtractor {
	return &GeminiExtractor{model: model}
}

func (g *GeminiExtractor) ExtractSearchParams(ctx context.Context, query string) (SearchParams, error) {
	prompt := fmt.Sprintf(strings.TrimSpace(extractPromptRaw), query)
	text, err := g.model.Complete(ctx, prompt)
	if err != nil {
		return SearchParams{}, err
	}
	return parseSearchParams(text)
}

// parseSearchParams tolerates a fenced code block around the JSON object.
func parseSearchParams(text string) (SearchParams, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var params SearchParams
	if err := json.Unmarshal([]byte(cleaned), &params); err != nil {
		return SearchParams{}, fmt.Errorf("parse extracted search params: %w", err)
	}
	if strings.TrimSpace(params.Location) == "" {
		return SearchParams{}, errors.New("extracted search params carry no location")
	}
	return params, nil
}

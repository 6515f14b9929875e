package pipeline

import (
	"ideaspark-be/internal/entity"
)

func stringProp() map[string]interface{} {
	return map[string]interface{}{"type": "string"}
}

var competitorSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"name":            stringProp(),
		"url":             stringProp(),
		"similarityScore": map[string]interface{}{"type": "number", "minimum": 0, "maximum": 10},
		"problem":         stringProp(),
		"solution":        stringProp(),
		"mainFeatures":    map[string]interface{}{"type": "array", "items": stringProp()},
		"relationToIdea":  stringProp(),
	},
	"required":             []string{"name", "url", "similarityScore", "problem", "solution", "mainFeatures", "relationToIdea"},
	"additionalProperties": false,
}

// RefinedIdeaSchema is the JSON schema Analyze asks the model to follow.
var RefinedIdeaSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"title":    stringProp(),
		"problem":  stringProp(),
		"solution": stringProp(),
		"analysis": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"competitors":           map[string]interface{}{"type": "array", "items": competitorSchema},
				"summary":               stringProp(),
				"differentiationFactor": stringProp(),
			},
			"required":             []string{"competitors", "summary", "differentiationFactor"},
			"additionalProperties": false,
		},
	},
	"required":             []string{"title", "problem", "solution", "analysis"},
	"additionalProperties": false,
}

// ImprovementsSchema wraps the list in an object because strict structured
// output needs an object at the root.
var ImprovementsSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"suggestions": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":                stringProp(),
					"type":              map[string]interface{}{"type": "string", "enum": []string{"feature", "strategic", "technical"}},
					"title":             stringProp(),
					"description":       stringProp(),
					"sourceInspiration": stringProp(),
				},
				"required":             []string{"id", "type", "title", "description", "sourceInspiration"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"suggestions"},
	"additionalProperties": false,
}

// Wire types mirror the schemas. Pointers let the validator tell a missing
// field from a zero value.

type refinedIdeaWire struct {
	Title    *string       `json:"title" validate:"required"`
	Problem  *string       `json:"problem" validate:"required"`
	Solution *string       `json:"solution" validate:"required"`
	Analysis *analysisWire `json:"analysis" validate:"required"`
}

type analysisWire struct {
	Competitors           []competitorWire `json:"competitors" validate:"required,dive"`
	Summary               *string          `json:"summary" validate:"required"`
	DifferentiationFactor *string          `json:"differentiationFactor" validate:"required"`
}

type competitorWire struct {
	Name            *string  `json:"name" validate:"required"`
	Url             *string  `json:"url" validate:"required"`
	SimilarityScore *float64 `json:"similarityScore" validate:"required,gte=0,lte=10"`
	Problem         *string  `json:"problem" validate:"required"`
	Solution        *string  `json:"solution" validate:"required"`
	MainFeatures    []string `json:"mainFeatures" validate:"required"`
	RelationToIdea  *string  `json:"relationToIdea" validate:"required"`
}

type suggestionsWire struct {
	Suggestions []suggestionWire `json:"suggestions" validate:"required,dive"`
}

type suggestionWire struct {
	Id                *string `json:"id" validate:"required,min=1"`
	Type              *string `json:"type" validate:"required,oneof=feature strategic technical"`
	Title             *string `json:"title" validate:"required,min=1"`
	Description       *string `json:"description" validate:"required"`
	SourceInspiration *string `json:"sourceInspiration"`
}

func (w *refinedIdeaWire) toResult() *AnalysisResult {
	competitors := make([]entity.Competitor, 0, len(w.Analysis.Competitors))
	for _, c := range w.Analysis.Competitors {
		competitors = append(competitors, entity.Competitor{
			Name:            *c.Name,
			Url:             *c.Url,
			SimilarityScore: *c.SimilarityScore,
			Problem:         *c.Problem,
			Solution:        *c.Solution,
			MainFeatures:    c.MainFeatures,
			RelationToIdea:  *c.RelationToIdea,
		})
	}
	return &AnalysisResult{
		Title:    *w.Title,
		Problem:  *w.Problem,
		Solution: *w.Solution,
		Analysis: &entity.SimilarityAnalysis{
			Competitors:           competitors,
			Summary:               *w.Analysis.Summary,
			DifferentiationFactor: *w.Analysis.DifferentiationFactor,
		},
	}
}

func (w *suggestionsWire) toEntities() []entity.ImprovementSuggestion {
	out := make([]entity.ImprovementSuggestion, 0, len(w.Suggestions))
	for _, s := range w.Suggestions {
		suggestion := entity.ImprovementSuggestion{
			Id:          *s.Id,
			Type:        entity.ImprovementType(*s.Type),
			Title:       *s.Title,
			Description: *s.Description,
		}
		if s.SourceInspiration != nil {
			suggestion.SourceInspiration = *s.SourceInspiration
		}
		out = append(out, suggestion)
	}
	return out
}

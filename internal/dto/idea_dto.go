package dto

import "ideaspark-be/internal/entity"

type CreateIdeaRequest struct {
	RawIdea  string   `json:"raw_idea" validate:"required,max=20000"`
	Features []string `json:"features" validate:"omitempty,max=100,dive,max=500"`
	// FeaturesText is one feature per line, as typed in the create form.
	FeaturesText string `json:"features_text" validate:"max=50000"`
}

type ToggleImprovementRequest struct {
	Title string `json:"title" validate:"required"`
}

type EditSrsRequest struct {
	Srs string `json:"srs" validate:"required"`
}

type IdeaResponse struct {
	Id                   string                         `json:"id"`
	DisplayTitle         string                         `json:"display_title"`
	Title                string                         `json:"title"`
	RawIdea              string                         `json:"raw_idea"`
	Problem              string                         `json:"problem"`
	Solution             string                         `json:"solution"`
	Features             []string                       `json:"features"`
	CreatedAt            int64                          `json:"created_at"`
	Status               entity.IdeaStatus              `json:"status"`
	Analysis             *entity.SimilarityAnalysis     `json:"analysis,omitempty"`
	Improvements         []entity.ImprovementSuggestion `json:"improvements,omitempty"`
	AcceptedImprovements []string                       `json:"accepted_improvements"`
	FinalFeatures        []string                       `json:"final_features"`
	Srs                  *string                        `json:"srs,omitempty"`
}

type DeleteIdeaResponse struct {
	Id string `json:"id"`
}

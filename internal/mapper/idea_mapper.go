package mapper

import (
	"encoding/json"
	"fmt"
	"time"

	"ideaspark-be/internal/dto"
	"ideaspark-be/internal/entity"
	"ideaspark-be/internal/model"

	"gorm.io/datatypes"
)

type IdeaMapper struct{}

func NewIdeaMapper() *IdeaMapper {
	return &IdeaMapper{}
}

func (m *IdeaMapper) ToEntity(i *model.Idea) (*entity.ProductIdea, error) {
	if i == nil {
		return nil, nil
	}

	idea := &entity.ProductIdea{
		Id:                   i.Id,
		OwnerId:              i.UserId,
		RawIdea:              i.RawIdea,
		Title:                i.Title,
		Problem:              i.Problem,
		Solution:             i.Solution,
		Features:             nonNil(i.Features),
		CreatedAt:            i.CreatedAt.UnixMilli(),
		Status:               entity.IdeaStatus(i.Status),
		AcceptedImprovements: nonNil(i.AcceptedImprovements),
		Srs:                  i.Srs,
	}

	if len(i.Analysis) > 0 && string(i.Analysis) != "null" {
		var analysis entity.SimilarityAnalysis
		if err := json.Unmarshal(i.Analysis, &analysis); err != nil {
			return nil, fmt.Errorf("decode analysis of idea %s: %w", i.Id, err)
		}
		idea.Analysis = &analysis
	}

	if len(i.Improvements) > 0 && string(i.Improvements) != "null" {
		var improvements []entity.ImprovementSuggestion
		if err := json.Unmarshal(i.Improvements, &improvements); err != nil {
			return nil, fmt.Errorf("decode improvements of idea %s: %w", i.Id, err)
		}
		idea.Improvements = improvements
	}

	return idea, nil
}

func (m *IdeaMapper) ToModel(i *entity.ProductIdea) (*model.Idea, error) {
	if i == nil {
		return nil, nil
	}

	out := &model.Idea{
		Id:                   i.Id,
		UserId:               i.OwnerId,
		Title:                i.Title,
		RawIdea:              i.RawIdea,
		Problem:              i.Problem,
		Solution:             i.Solution,
		Features:             nonNil(i.Features),
		Status:               string(i.Status),
		CreatedAt:            time.UnixMilli(i.CreatedAt).UTC(),
		AcceptedImprovements: nonNil(i.AcceptedImprovements),
		Srs:                  i.Srs,
	}

	if i.Analysis != nil {
		raw, err := json.Marshal(i.Analysis)
		if err != nil {
			return nil, fmt.Errorf("encode analysis of idea %s: %w", i.Id, err)
		}
		out.Analysis = datatypes.JSON(raw)
	}

	if i.Improvements != nil {
		raw, err := json.Marshal(i.Improvements)
		if err != nil {
			return nil, fmt.Errorf("encode improvements of idea %s: %w", i.Id, err)
		}
		out.Improvements = datatypes.JSON(raw)
	}

	return out, nil
}

func (m *IdeaMapper) ToEntities(ideas []*model.Idea) ([]*entity.ProductIdea, error) {
	entities := make([]*entity.ProductIdea, 0, len(ideas))
	for _, i := range ideas {
		e, err := m.ToEntity(i)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// UpdateColumns lists the mutable columns sent on update. id, user_id,
// raw_idea and created_at never change after creation.
func (m *IdeaMapper) UpdateColumns(i *model.Idea) map[string]interface{} {
	return map[string]interface{}{
		"title":                 i.Title,
		"problem":               i.Problem,
		"solution":              i.Solution,
		"features":              i.Features,
		"status":                i.Status,
		"analysis":              i.Analysis,
		"improvements":          i.Improvements,
		"accepted_improvements": i.AcceptedImprovements,
		"srs":                   i.Srs,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (m *IdeaMapper) ToResponse(i *entity.ProductIdea) *dto.IdeaResponse {
	if i == nil {
		return nil
	}
	return &dto.IdeaResponse{
		Id:                   i.Id,
		DisplayTitle:         i.DisplayTitle(),
		Title:                i.Title,
		RawIdea:              i.RawIdea,
		Problem:              i.Problem,
		Solution:             i.Solution,
		Features:             nonNil(i.Features),
		CreatedAt:            i.CreatedAt,
		Status:               i.Status,
		Analysis:             i.Analysis,
		Improvements:         i.Improvements,
		AcceptedImprovements: nonNil(i.AcceptedImprovements),
		FinalFeatures:        i.FinalFeatures(),
		Srs:                  i.Srs,
	}
}

func (m *IdeaMapper) ToResponses(ideas []*entity.ProductIdea) []*dto.IdeaResponse {
	out := make([]*dto.IdeaResponse, 0, len(ideas))
	for _, i := range ideas {
		out = append(out, m.ToResponse(i))
	}
	return out
}

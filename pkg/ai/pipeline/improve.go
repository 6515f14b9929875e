package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ideaspark-be/internal/constant"
	"ideaspark-be/internal/entity"
	"ideaspark-be/pkg/llm"
)

// Improve asks for suggestions informed by the competitors in analysis.
// Output that does not match the schema fails with ErrMalformedResponse.
func (p *Pipeline) Improve(ctx context.Context, idea *entity.ProductIdea, analysis *entity.SimilarityAnalysis) ([]entity.ImprovementSuggestion, error) {
	if analysis == nil {
		return nil, fmt.Errorf("%w: improve needs an analysis", ErrPrerequisite)
	}

	release, err := p.lease(ctx, "improve", idea.Id)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	p.logger.Info(module, "Generating improvement suggestions", map[string]interface{}{"idea_id": idea.Id})

	competitors, err := json.Marshal(analysis.Competitors)
	if err != nil {
		return nil, fmt.Errorf("encode competitors: %w", err)
	}
	prompt := fmt.Sprintf(constant.IdeaImprovementPromptV1, idea.Title, idea.Problem, idea.Solution, analysis.Summary, string(competitors))

	opts := append(modelOption(p.config.Models.Improvement), llm.WithJSONSchema("improvement_suggestions", ImprovementsSchema))
	raw, err := p.provider.Chat(ctx, []llm.Message{
		{Role: constant.MessageRoleSystem, Content: constant.IdeaImprovementSystemPromptV1},
		{Role: constant.MessageRoleUser, Content: prompt},
	}, opts...)
	if err != nil {
		p.observe("improve", "unavailable", start)
		p.logger.Error(module, "Improvement request failed", map[string]interface{}{"idea_id": idea.Id, "error": err})
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	wire, err := decodeSuggestions(raw)
	if err != nil {
		p.observe("improve", "malformed", start)
		p.logger.Error(module, "Failed to parse improvement suggestions", map[string]interface{}{"idea_id": idea.Id, "error": err})
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	suggestions := wire.toEntities()
	p.observe("improve", "ok", start)
	p.logger.Info(module, "Improvement suggestions generated", map[string]interface{}{
		"idea_id": idea.Id,
		"count":   len(suggestions),
	})
	return suggestions, nil
}

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ideaspark-be/internal/constant"
	"ideaspark-be/internal/entity"
	"ideaspark-be/pkg/llm"
)

// GenerateSpecification writes a Markdown SRS from the idea's refined text
// and its final feature list.
func (p *Pipeline) GenerateSpecification(ctx context.Context, idea *entity.ProductIdea) (string, error) {
	release, err := p.lease(ctx, "specification", idea.Id)
	if err != nil {
		return "", err
	}
	defer release()

	start := time.Now()
	p.logger.Info(module, "Generating SRS document", map[string]interface{}{"idea_id": idea.Id})

	prompt := fmt.Sprintf(constant.IdeaSpecificationPromptV1,
		idea.Title, idea.Problem, idea.Solution, strings.Join(idea.FinalFeatures(), ", "))

	opts := modelOption(p.config.Models.Spec)
	if p.config.SpecReasoningEffort != "" {
		opts = append(opts, llm.WithReasoningEffort(p.config.SpecReasoningEffort))
	}

	srs, err := p.provider.Chat(ctx, []llm.Message{
		{Role: constant.MessageRoleDeveloper, Content: constant.IdeaSpecificationSystemPromptV1},
		{Role: constant.MessageRoleUser, Content: prompt},
	}, opts...)
	if err != nil {
		p.observe("specification", "unavailable", start)
		p.logger.Error(module, "SRS request failed", map[string]interface{}{"idea_id": idea.Id, "error": err})
		return "", fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	if strings.TrimSpace(srs) == "" {
		p.observe("specification", "empty", start)
		p.logger.Error(module, "SRS generation returned empty content", map[string]interface{}{"idea_id": idea.Id})
		return "", ErrSpecGenerationFailed
	}

	p.observe("specification", "ok", start)
	p.logger.Info(module, "SRS generated", map[string]interface{}{
		"idea_id": idea.Id,
		"length":  len(srs),
	})
	return srs, nil
}

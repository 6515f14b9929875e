package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ideaspark-be/internal/constant"
	"ideaspark-be/internal/entity"
	"ideaspark-be/pkg/llm"
)

// Phase is a step of Analyze. Research feeds Structure; a failure in
// either moves to Fallback, and a Fallback failure ends in Failed.
type Phase string

const (
	PhaseResearch  Phase = "research"
	PhaseStructure Phase = "structure"
	PhaseFallback  Phase = "fallback"
	PhaseDone      Phase = "done"
	PhaseFailed    Phase = "failed"
)

type AnalysisResult struct {
	Title    string
	Problem  string
	Solution string
	Analysis *entity.SimilarityAnalysis
	// Grounded is true when the competitors come from live web research.
	Grounded bool
}

var errUngrounded = errors.New("structured analysis lost facts from the research")

// Analyze refines the idea and researches its competitors.
func (p *Pipeline) Analyze(ctx context.Context, idea *entity.ProductIdea) (*AnalysisResult, error) {
	release, err := p.lease(ctx, "analyze", idea.Id)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	p.logger.Info(module, "Starting idea analysis", map[string]interface{}{"idea_id": idea.Id})

	var (
		research string
		result   *AnalysisResult
		lastErr  error
	)

	phase := PhaseResearch
	for phase != PhaseDone && phase != PhaseFailed {
		current := phase
		switch current {
		case PhaseResearch:
			research, lastErr = p.research(ctx, idea)
			phase = nextPhase(lastErr, PhaseStructure, PhaseFallback)
		case PhaseStructure:
			result, lastErr = p.structure(ctx, idea, research)
			phase = nextPhase(lastErr, PhaseDone, PhaseFallback)
		case PhaseFallback:
			result, lastErr = p.fallback(ctx, idea)
			phase = nextPhase(lastErr, PhaseDone, PhaseFailed)
		}

		details := map[string]interface{}{
			"idea_id": idea.Id,
			"phase":   string(current),
			"next":    string(phase),
		}
		if lastErr != nil {
			details["error"] = lastErr
			p.logger.Warn(module, "Analysis phase failed", details)
		} else {
			p.logger.Debug(module, "Analysis phase completed", details)
		}
	}

	if phase == PhaseFailed {
		p.observe("analyze", "failed", start)
		p.logger.Error(module, "Idea analysis failed", map[string]interface{}{
			"idea_id": idea.Id,
			"error":   lastErr,
		})
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, lastErr)
	}

	outcome := "fallback"
	if result.Grounded {
		outcome = "web_grounded"
	}
	p.observe("analyze", outcome, start)
	p.logger.Info(module, "Idea analysis completed", map[string]interface{}{
		"idea_id":          idea.Id,
		"title":            result.Title,
		"competitor_count": len(result.Analysis.Competitors),
		"grounded":         result.Grounded,
	})
	return result, nil
}

func nextPhase(err error, onSuccess, onFailure Phase) Phase {
	if err != nil {
		return onFailure
	}
	return onSuccess
}

func (p *Pipeline) research(ctx context.Context, idea *entity.ProductIdea) (string, error) {
	prompt := fmt.Sprintf(constant.IdeaResearchPromptV1, idea.RawIdea, strings.Join(idea.Features, ", "))
	text, err := p.provider.Research(ctx, prompt, modelOption(p.config.Models.Research)...)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

func (p *Pipeline) structure(ctx context.Context, idea *entity.ProductIdea, research string) (*AnalysisResult, error) {
	prompt := fmt.Sprintf(constant.IdeaStructurePromptV1, idea.RawIdea, strings.Join(idea.Features, ", "), research)
	result, err := p.structured(ctx, constant.IdeaStructureSystemPromptV1, prompt, p.config.Models.Structure)
	if err != nil {
		return nil, err
	}
	if err := checkGrounded(result.Analysis, research); err != nil {
		return nil, err
	}
	result.Grounded = true
	return result, nil
}

func (p *Pipeline) fallback(ctx context.Context, idea *entity.ProductIdea) (*AnalysisResult, error) {
	prompt := fmt.Sprintf(constant.IdeaFallbackPromptV1, idea.RawIdea, strings.Join(idea.Features, ", "))
	return p.structured(ctx, constant.IdeaFallbackSystemPromptV1, prompt, p.config.Models.Structure)
}

func (p *Pipeline) structured(ctx context.Context, system, prompt, model string) (*AnalysisResult, error) {
	opts := append(modelOption(model), llm.WithJSONSchema("refined_idea_analysis", RefinedIdeaSchema))
	raw, err := p.provider.Chat(ctx, []llm.Message{
		{Role: constant.MessageRoleSystem, Content: system},
		{Role: constant.MessageRoleUser, Content: prompt},
	}, opts...)
	if err != nil {
		return nil, err
	}

	var wire refinedIdeaWire
	if err := decodeStrict(raw, &wire); err != nil {
		return nil, err
	}
	return wire.toResult(), nil
}

// checkGrounded requires every competitor name and URL to appear verbatim
// in the research text.
func checkGrounded(analysis *entity.SimilarityAnalysis, research string) error {
	text := strings.ToLower(research)
	for _, c := range analysis.Competitors {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" || !strings.Contains(text, name) {
			return fmt.Errorf("%w: competitor %q", errUngrounded, c.Name)
		}
		url := strings.ToLower(strings.TrimRight(strings.TrimSpace(c.Url), "/"))
		if url != "" && !strings.Contains(text, url) {
			return fmt.Errorf("%w: url %q", errUngrounded, c.Url)
		}
	}
	return nil
}

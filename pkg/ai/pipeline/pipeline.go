// Package pipeline runs the three AI steps of the idea workflow: Analyze,
// Improve and GenerateSpecification. It keeps no state between calls.
package pipeline

import (
	"context"
	"time"

	"ideaspark-be/internal/pkg/logger"
	"ideaspark-be/internal/pkg/metrics"
	"ideaspark-be/pkg/inflight"
	"ideaspark-be/pkg/llm"
)

const module = "AIPipeline"

type Models struct {
	Research    string
	Structure   string
	Improvement string
	Spec        string
}

type Config struct {
	Models Models
	// SpecReasoningEffort is sent with the specification request when set.
	SpecReasoningEffort string
}

type Pipeline struct {
	provider llm.LLMProvider
	guard    inflight.Guard
	config   Config
	logger   logger.ILogger
	metrics  *metrics.Collector
}

func NewPipeline(provider llm.LLMProvider, guard inflight.Guard, config Config, logger logger.ILogger, metrics *metrics.Collector) *Pipeline {
	return &Pipeline{
		provider: provider,
		guard:    guard,
		config:   config,
		logger:   logger,
		metrics:  metrics,
	}
}

// lease rejects the call while another AI operation runs for ideaId.
func (p *Pipeline) lease(ctx context.Context, op, ideaId string) (func(), error) {
	release, err := p.guard.Acquire(ctx, ideaId)
	if err != nil {
		p.logger.Warn(module, "AI operation rejected", map[string]interface{}{
			"operation": op,
			"idea_id":   ideaId,
			"error":     err,
		})
		p.metrics.ObserveAI(op, "rejected", 0)
		return nil, err
	}
	return release, nil
}

func (p *Pipeline) observe(op, outcome string, start time.Time) {
	p.metrics.ObserveAI(op, outcome, time.Since(start))
}

func modelOption(model string) []llm.Option {
	if model == "" {
		return nil
	}
	return []llm.Option{llm.WithModel(model)}
}

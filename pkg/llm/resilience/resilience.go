// Package resilience wraps an llm.LLMProvider with client-side rate limiting
// and a circuit breaker.
package resilience

import (
	"context"
	"errors"
	"time"

	"ideaspark-be/internal/pkg/logger"
	"ideaspark-be/pkg/llm"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const module = "LLMResilience"

// RateLimited waits for the limiter before every outbound call.
type RateLimited struct {
	next    llm.LLMProvider
	limiter *rate.Limiter
}

var _ llm.LLMProvider = (*RateLimited)(nil)

// NewRateLimited allows perMinute calls per minute with a burst of one.
func NewRateLimited(next llm.LLMProvider, perMinute int) *RateLimited {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(limit, 1)}
}

func (r *RateLimited) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.next.Chat(ctx, history, options...)
}

func (r *RateLimited) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.next.Generate(ctx, prompt, options...)
}

func (r *RateLimited) Research(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.next.Research(ctx, prompt, options...)
}

type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// Breaker stops calling a provider that keeps failing.
type Breaker struct {
	next llm.LLMProvider
	cb   *gobreaker.CircuitBreaker
}

var _ llm.LLMProvider = (*Breaker)(nil)

func NewBreaker(next llm.LLMProvider, config BreakerConfig, log logger.ILogger) *Breaker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn(module, "Circuit breaker state changed", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
		// A missing capability or a cancelled request says nothing about
		// the provider's health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, llm.ErrResearchUnsupported) ||
				errors.Is(err, context.Canceled)
		},
	})
	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) execute(call func() (string, error)) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return call()
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (b *Breaker) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return b.execute(func() (string, error) {
		return b.next.Chat(ctx, history, options...)
	})
}

func (b *Breaker) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return b.execute(func() (string, error) {
		return b.next.Generate(ctx, prompt, options...)
	})
}

func (b *Breaker) Research(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return b.execute(func() (string, error) {
		return b.next.Research(ctx, prompt, options...)
	})
}

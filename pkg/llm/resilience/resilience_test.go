package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"ideaspark-be/internal/pkg/logger"
	"ideaspark-be/pkg/llm"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	err   error
	calls int
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.calls++
	return "ok", s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.calls++
	return "ok", s.err
}

func (s *stubProvider) Research(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.calls++
	return "research", s.err
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	inner := &stubProvider{err: errors.New("503")}
	cfg := DefaultBreakerConfig("test")
	cfg.MinRequests = 3
	b := NewBreaker(inner, cfg, logger.NewNopLogger())

	for i := 0; i < 3; i++ {
		_, err := b.Generate(context.Background(), "x")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, inner.calls)
}

func TestBreakerIgnoresUnsupportedResearch(t *testing.T) {
	inner := &stubProvider{err: llm.ErrResearchUnsupported}
	cfg := DefaultBreakerConfig("test")
	cfg.MinRequests = 1
	b := NewBreaker(inner, cfg, logger.NewNopLogger())

	for i := 0; i < 5; i++ {
		_, err := b.Research(context.Background(), "x")
		assert.ErrorIs(t, err, llm.ErrResearchUnsupported)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerPassesResult(t *testing.T) {
	b := NewBreaker(&stubProvider{}, DefaultBreakerConfig("test"), logger.NewNopLogger())
	out, err := b.Research(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "research", out)
}

func TestRateLimitedHonorsContext(t *testing.T) {
	inner := &stubProvider{}
	r := NewRateLimited(inner, 1)

	_, err := r.Generate(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = r.Chat(ctx, nil)
	assert.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestRateLimitedUnlimited(t *testing.T) {
	inner := &stubProvider{}
	r := NewRateLimited(inner, 0)
	for i := 0; i < 10; i++ {
		_, err := r.Generate(context.Background(), "x")
		require.NoError(t, err)
	}
	assert.Equal(t, 10, inner.calls)
}

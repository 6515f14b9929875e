package llm

import (
	"context"
	"errors"
)

var (
	// ErrResearchUnsupported is returned by providers without a web-grounded
	// search tool.
	ErrResearchUnsupported = errors.New("llm provider does not support web research")
	ErrEmptyResponse       = errors.New("llm provider returned an empty response")
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature     float64
	MaxTokens       int
	Model           string // Override default model
	Schema          *Schema
	ReasoningEffort string
}

// Schema asks the provider for JSON output conforming to Definition.
type Schema struct {
	Name       string
	Definition map[string]interface{}
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithJSONSchema(name string, definition map[string]interface{}) Option {
	return func(o *Options) {
		o.Schema = &Schema{Name: name, Definition: definition}
	}
}

// WithReasoningEffort is honored by reasoning models only ("low", "medium", "high").
func WithReasoningEffort(effort string) Option {
	return func(o *Options) {
		o.ReasoningEffort = effort
	}
}

func ApplyOptions(defaults Options, opts ...Option) *Options {
	options := defaults
	for _, opt := range opts {
		opt(&options)
	}
	return &options
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// Research answers prompt using the provider's live web search and
	// returns free text. Providers without one return ErrResearchUnsupported.
	Research(ctx context.Context, prompt string, options ...Option) (string, error)
}

package workflow

import "errors"

var (
	ErrConfirmationRequired = errors.New("deleting an idea needs explicit confirmation")
	ErrUnknownImprovement   = errors.New("improvement is not part of this idea")
	ErrInvalidView          = errors.New("unknown view")
)

// Inline messages shown on the idea view when an AI step fails.
const (
	MessageAnalysisFailed      = "Failed to analyze. Please ensure your API Key is valid."
	MessageImprovementsFailed  = "Failed to generate improvements."
	MessageSpecificationFailed = "Failed to generate SRS."
)

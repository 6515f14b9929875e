package pipeline

import (
	"errors"

	"ideaspark-be/pkg/inflight"
)

var (
	// ErrAnalysisFailed means every Analyze phase failed; no partial result
	// is returned.
	ErrAnalysisFailed = errors.New("idea analysis failed")
	// ErrMalformedResponse means Improve got output that does not match the
	// suggestion schema.
	ErrMalformedResponse    = errors.New("ai response does not match the expected schema")
	ErrSpecGenerationFailed = errors.New("specification generation failed")
	// ErrAIUnavailable wraps transport failures of Improve and
	// GenerateSpecification.
	ErrAIUnavailable = errors.New("ai backend unavailable")
	// ErrPrerequisite means the idea has not reached the step the
	// operation builds on.
	ErrPrerequisite        = errors.New("idea is missing the input this step needs")
	ErrOperationInProgress = inflight.ErrOperationInProgress
)

package workflow

import "context"

// ConfirmationProvider asks the user before a destructive action.
type ConfirmationProvider interface {
	Confirm(ctx context.Context, prompt string) bool
}

type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Confirmed answers every prompt with a fixed value, e.g. a confirm=true
// query parameter.
type Confirmed bool

func (c Confirmed) Confirm(ctx context.Context, prompt string) bool {
	return bool(c)
}

const DeletePrompt = "Are you sure you want to delete this project?"

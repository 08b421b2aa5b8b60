package llm

import (
	"context"
	"encoding/json"
)

// PromptHook observes a single model call. WithHooks invokes it around
// GenerateJSON when one is attached to the context.
type PromptHook interface {
	Before(ctx context.Context, phase, prompt string, input any)
	After(ctx context.Context, phase string, raw json.RawMessage, err error)
}

// HookFuncs adapts plain functions to PromptHook. Nil fields are skipped.
type HookFuncs struct {
	OnBefore func(ctx context.Context, phase, prompt string, input any)
	OnAfter  func(ctx context.Context, phase string, raw json.RawMessage, err error)
}

func (h HookFuncs) Before(ctx context.Context, phase, prompt string, input any) {
	if h.OnBefore != nil {
		h.OnBefore(ctx, phase, prompt, input)
	}
}

func (h HookFuncs) After(ctx context.Context, phase string, raw json.RawMessage, err error) {
	if h.OnAfter != nil {
		h.OnAfter(ctx, phase, raw, err)
	}
}

type (
	hookKey  struct{}
	phaseKey struct{}
)

// WithHook attaches hook to ctx for the WithHooks middleware. A nil hook
// leaves ctx unchanged.
func WithHook(ctx context.Context, hook PromptHook) context.Context {
	if hook == nil {
		return ctx
	}
	return context.WithValue(ctx, hookKey{}, hook)
}

// WithPhase tags ctx with the caller's phase for hooks and logging.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, phaseKey{}, phase)
}

func HookFrom(ctx context.Context) PromptHook {
	h, _ := ctx.Value(hookKey{}).(PromptHook)
	return h
}

func PhaseFrom(ctx context.Context) string {
	if s, ok := ctx.Value(phaseKey{}).(string); ok && s != "" {
		return s
	}
	return "unknown"
}

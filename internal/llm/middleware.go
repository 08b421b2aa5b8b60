package llm

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"songframe/internal/llmclient"
)

// Middleware decorates an LLMClient to inject cross-cutting concerns
// (rate limiting, retries, logging, hooks, etc.).
type Middleware func(llmclient.LLMClient) llmclient.LLMClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner llmclient.LLMClient, mws ...Middleware) llmclient.LLMClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		out = mws[i](out)
	}
	return out
}

// -------- Logging & Hooks --------

// WithLogging logs request size, latency and errors. A nil logger is a no-op.
func WithLogging(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &logging{next: next, log: logger.Named("llm")}
	}
}

type logging struct {
	next llmclient.LLMClient
	log  *zap.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }
func (l *logging) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	start := time.Now()
	raw, err := l.next.GenerateJSON(ctx, prompt, input)
	fields := []zap.Field{
		zap.String("client", l.next.Name()),
		zap.String("phase", PhaseFrom(ctx)),
		zap.Int("prompt_bytes", len(prompt)),
		zap.Int("response_bytes", len(raw)),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		l.log.Warn("llm request failed", append(fields, zap.Error(err))...)
		return raw, err
	}
	l.log.Debug("llm request", fields...)
	return raw, nil
}

// WithHooks calls HookFrom(ctx).Before/After around GenerateJSON.
// If no hook is present in the context, it is a no-op.
func WithHooks() Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &hooked{next: next}
	}
}

type hooked struct{ next llmclient.LLMClient }

func (h *hooked) Name() string { return h.next.Name() }
func (h *hooked) Close() error { return h.next.Close() }
func (h *hooked) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	hook := HookFrom(ctx)
	if hook != nil {
		hook.Before(ctx, PhaseFrom(ctx), prompt, input)
	}
	raw, err := h.next.GenerateJSON(ctx, prompt, input)
	if hook != nil {
		hook.After(ctx, PhaseFrom(ctx), raw, err)
	}
	return raw, err
}

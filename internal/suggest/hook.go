package suggest

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"songframe/internal/llm"
)

// traceHook logs every prompt and raw model answer at debug level. It is the
// default hook of a Suggester.
type traceHook struct {
	log *zap.Logger
}

func (h traceHook) Before(_ context.Context, phase, prompt string, _ any) {
	h.log.Debug("model prompt", zap.String("phase", phase), zap.String("prompt", prompt))
}

func (h traceHook) After(_ context.Context, phase string, raw json.RawMessage, err error) {
	if err != nil {
		h.log.Debug("model call failed", zap.String("phase", phase), zap.Error(err))
		return
	}
	h.log.Debug("model answer", zap.String("phase", phase), zap.ByteString("raw", raw))
}

// WithHook replaces the default debug trace around model calls. It only
// fires when the client is wrapped with llm.WithHooks.
func WithHook(h llm.PromptHook) Option {
	return func(s *Suggester) {
		if h != nil {
			s.hook = h
		}
	}
}

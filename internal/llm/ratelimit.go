package llm

import (
	"context"
	"encoding/json"

	"golang.org/x/time/rate"

	"songframe/internal/llmclient"
)

// RateLimit limits request rate with a token bucket allowing rps requests
// per second and the given burst. If rps <= 0, the limiter is disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		if rps <= 0 {
			return next
		}
		if burst <= 0 {
			burst = 1
		}
		return &rateLimited{next: next, rl: rate.NewLimiter(rate.Limit(rps), burst)}
	}
}

type rateLimited struct {
	next llmclient.LLMClient
	rl   *rate.Limiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error { return c.next.Close() }
func (c *rateLimited) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}
	return c.next.GenerateJSON(ctx, prompt, input)
}

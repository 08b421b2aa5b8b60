package llm

import (
	"context"
	"encoding/json"
	"sync/atomic"
)

// FakeModel selects FakeClient instead of Gemini.
const FakeModel = "fake"

// FakeClient returns deterministic payloads per phase for offline runs and
// tests. Response and Err, when set, override the canned output.
type FakeClient struct {
	Response json.RawMessage
	Err      error

	calls atomic.Int64
}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

// Calls reports how many times GenerateJSON was invoked.
func (f *FakeClient) Calls() int64 { return f.calls.Load() }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Response != nil {
		return f.Response, nil
	}
	var obj any
	switch PhaseFrom(ctx) {
	case "suggest":
		obj = map[string]any{
			"link":  "https://www.youtube.com/watch?v=7wtfhZwyrcc",
			"genre": "pop",
		}
	default:
		// generic empty JSON object
		obj = map[string]any{}
	}
	b, _ := json.Marshal(obj)
	return json.RawMessage(b), nil
}

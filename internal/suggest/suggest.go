// Package suggest asks the language model for one song recommendation
// based on the songs a user liked.
package suggest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"songframe/internal/gateway/repository/suggestion"
	"songframe/internal/llm"
	"songframe/internal/llmclient"
	"songframe/internal/songs"
)

// Phase tags suggestion calls for llm hooks and logging.
const Phase = "suggest"

const DefaultTimeout = 10 * time.Second

// Suggestion is a validated model answer.
type Suggestion struct {
	Link  string      `json:"link"`
	Genre songs.Genre `json:"genre"`
}

var ErrUnavailable = errors.New("suggestion unavailable")

// UnavailableError wraps whatever kept a suggestion from being produced.
// It matches ErrUnavailable under errors.Is.
type UnavailableError struct {
	Reason string
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return "suggestion unavailable: " + e.Reason
	}
	return fmt.Sprintf("suggestion unavailable: %s: %v", e.Reason, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

func unavailable(reason string, err error) error {
	return &UnavailableError{Reason: reason, Err: err}
}

type Option func(*Suggester)

func WithTimeout(d time.Duration) Option {
	return func(s *Suggester) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Suggester) {
		if l != nil {
			s.log = l
		}
	}
}

// WithStore caches validated suggestions keyed by the liked list.
func WithStore(st suggestion.Store) Option {
	return func(s *Suggester) { s.store = st }
}

type Suggester struct {
	client  llmclient.LLMClient
	timeout time.Duration
	log     *zap.Logger
	store   suggestion.Store
	hook    llm.PromptHook
	group   singleflight.Group
}

func New(client llmclient.LLMClient, opts ...Option) *Suggester {
	s := &Suggester{
		client:  client,
		timeout: DefaultTimeout,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hook == nil {
		s.hook = traceHook{log: s.log}
	}
	return s
}

// Suggest returns nil, nil when nothing was liked. Every other failure is an
// *UnavailableError.
func (s *Suggester) Suggest(ctx context.Context, liked []string) (*Suggestion, error) {
	liked = normalize(liked)
	if len(liked) == 0 {
		return nil, nil
	}
	if s == nil || s.client == nil {
		return nil, unavailable("no model client", nil)
	}
	key := Key(liked)

	if s.store != nil {
		rec, ok, err := s.store.Get(ctx, key)
		switch {
		case err != nil:
			s.log.Warn("suggestion store read failed", zap.Error(err))
		case ok:
			if sug, err := fromRecord(rec); err == nil {
				return sug, nil
			}
		}
	}

	// The shared call outlives a single caller's cancellation; it is still
	// bounded by s.timeout.
	ch := s.group.DoChan(key, func() (any, error) {
		return s.generate(context.WithoutCancel(ctx), key, liked)
	})
	select {
	case <-ctx.Done():
		return nil, unavailable("canceled", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		sug := *res.Val.(*Suggestion)
		return &sug, nil
	}
}

func (s *Suggester) generate(ctx context.Context, key string, liked []string) (*Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	callCtx := llm.WithHook(llm.WithPhase(ctx, Phase), s.hook)
	raw, err := s.client.GenerateJSON(callCtx, BuildPrompt(liked), nil)
	if err != nil {
		return nil, unavailable("generate", err)
	}
	sug, err := Parse(raw)
	if err != nil {
		s.log.Debug("unusable model answer", zap.ByteString("raw", raw), zap.Error(err))
		return nil, unavailable("parse", err)
	}
	if s.store != nil {
		rec := suggestion.Record{Link: sug.Link, Genre: string(sug.Genre), CreatedAt: time.Now()}
		if err := s.store.Put(ctx, key, rec); err != nil {
			s.log.Warn("suggestion store write failed", zap.Error(err))
		}
	}
	return sug, nil
}

// Key identifies a liked list for caching. Order matters.
func Key(liked []string) string {
	h := sha256.Sum256([]byte(strings.Join(normalize(liked), "\n")))
	return hex.EncodeToString(h[:])
}

func normalize(liked []string) []string {
	out := make([]string, 0, len(liked))
	for _, s := range liked {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func fromRecord(rec suggestion.Record) (*Suggestion, error) {
	return validate(rec.Link, rec.Genre)
}

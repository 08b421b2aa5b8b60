package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"songframe/internal/frame"
	"songframe/internal/gateway/config"
	"songframe/internal/gateway/handler"
	"songframe/internal/gateway/middleware"
	"songframe/internal/gateway/repository/suggestion"
	"songframe/internal/gateway/server"
	"songframe/internal/llm"
	"songframe/internal/llmclient"
	"songframe/internal/songs"
	"songframe/internal/suggest"
)

type App struct {
	server *server.Server
	log    *zap.Logger

	llm   llmclient.LLMClient
	store suggestion.Store
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Dependencies
	verifier, err := newVerifier(cfg, log)
	if err != nil {
		return nil, err
	}
	client, err := newLLMClient(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	store := newSuggestionStore(ctx, cfg, log)
	suggester := suggest.New(client,
		suggest.WithTimeout(cfg.Gemini.Timeout),
		suggest.WithLogger(log.Named("suggest")),
		suggest.WithStore(store),
	)

	deps := &handler.Deps{
		Verifier:  verifier,
		Codec:     frame.NewStateCodec(cfg.Frame.StateSecret),
		Suggester: suggester,
		Images: handler.Images{
			NothingLiked: cfg.Images.NothingLiked,
			Unavailable:  cfg.Images.Unavailable,
		},
		PublicURL:   cfg.PublicURL,
		DebuggerURL: cfg.Frame.DebuggerURL,
		Log:         log.Named("handler"),
	}
	if !deps.Codec.Signed() {
		log.Warn("FRAME_STATE_SECRET not set; frame state is not signed")
	}

	rateLimit, err := middleware.RateLimit(cfg.HTTP.RPS, cfg.HTTP.Burst, middleware.DefaultMaxTrackedIPs)
	if err != nil {
		_ = client.Close()
		_ = store.Close()
		return nil, err
	}

	// Routing & Server
	mux := server.NewMux(
		handler.NewSongsHandler(deps, songs.DefaultCatalog()),
		handler.NewCounterHandler(deps),
		rateLimit,
		log.Named("access"),
	)
	return &App{
		server: server.New(cfg.Port, mux, log),
		log:    log,
		llm:    client,
		store:  store,
	}, nil
}

func newVerifier(cfg *config.Config, log *zap.Logger) (frame.Verifier, error) {
	if !cfg.Frame.Verify {
		log.Warn("frame verification is off; trusting untrustedData")
		return frame.InsecureVerifier{}, nil
	}
	v, err := frame.NewHubVerifier(frame.HubConfig{BaseURL: cfg.Frame.HubURL})
	if err != nil {
		return nil, fmt.Errorf("failed to init hub verifier: %w", err)
	}
	log.Info("frame verification", zap.String("hub", cfg.Frame.HubURL))
	return v, nil
}

func newLLMClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (llmclient.LLMClient, error) {
	var base llmclient.LLMClient
	if cfg.Gemini.Model == llm.FakeModel {
		base = llm.NewFakeClient()
	} else {
		g, err := llmclient.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to init gemini client: %w", err)
		}
		base = g
	}
	log.Info("llm client", zap.String("client", base.Name()))
	return llm.Wrap(base,
		llm.WithLogging(log),
		llm.WithHooks(),
		llm.Retry(cfg.Gemini.Retries+1, 300*time.Millisecond),
		llm.RateLimit(cfg.Gemini.RPS, cfg.Gemini.Burst),
	), nil
}

// newSuggestionStore falls back to memory when Postgres cannot be reached;
// suggestions are a cache and never block startup.
func newSuggestionStore(ctx context.Context, cfg *config.Config, log *zap.Logger) suggestion.Store {
	scfg := suggestion.Config{
		PostgresDSN: cfg.Suggestion.PostgresDSN,
		TTL:         cfg.Suggestion.CacheTTL,
		MaxBytes:    cfg.Suggestion.CacheMaxBytes,
	}
	store, err := suggestion.Open(ctx, scfg)
	if err == nil {
		if scfg.PostgresDSN != "" {
			log.Info("suggestion store: postgres")
		}
		return store
	}
	log.Warn("suggestion store: using in-memory fallback", zap.Error(err))
	scfg.PostgresDSN = ""
	store, _ = suggestion.Open(ctx, scfg)
	return store
}

func (a *App) Start() error {
	return a.server.Start()
}

// Serve runs the app on an existing listener.
func (a *App) Serve(ln net.Listener) error {
	return a.server.Serve(ln)
}

func (a *App) Shutdown(ctx context.Context) error {
	return errors.Join(
		a.server.Shutdown(ctx),
		a.llm.Close(),
		a.store.Close(),
	)
}

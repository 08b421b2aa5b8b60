package server

import (
	"net/http"

	"go.uber.org/zap"

	"songframe/internal/gateway/handler"
	"songframe/internal/gateway/middleware"
)

func NewMux(
	songsHandler *handler.SongsHandler,
	counterHandler *handler.CounterHandler,
	rateLimit func(http.Handler) http.Handler,
	log *zap.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Frame pages
	mux.Handle("GET /{$}", songsHandler)
	mux.Handle("POST /{$}", songsHandler)
	mux.Handle("GET "+handler.CounterPath, counterHandler)
	mux.Handle("POST "+handler.CounterPath, counterHandler)

	mux.HandleFunc("GET /healthz", handler.Health)

	// Middleware, outermost first
	var h http.Handler = mux
	if rateLimit != nil {
		h = rateLimit(h)
	}
	h = middleware.CORS(h)
	h = middleware.AccessLog(log)(h)
	return middleware.RequestID(h)
}

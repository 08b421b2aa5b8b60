package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"songframe/internal/frame"
	"songframe/internal/gateway/middleware"
	"songframe/internal/suggest"
)

// SongSuggester produces the result-page recommendation.
type SongSuggester interface {
	Suggest(ctx context.Context, liked []string) (*suggest.Suggestion, error)
}

type Images struct {
	NothingLiked string
	Unavailable  string
}

// Deps is shared by the page handlers.
type Deps struct {
	Verifier  frame.Verifier
	Codec     *frame.StateCodec
	Suggester SongSuggester
	Images    Images
	// PublicURL is the externally visible base URL; post_url is built on it.
	PublicURL   string
	DebuggerURL string
	Log         *zap.Logger
}

func (d *Deps) logger(r *http.Request) *zap.Logger {
	l := d.Log
	if l == nil {
		l = zap.NewNop()
	}
	return l.With(zap.String("request_id", middleware.RequestIDFrom(r.Context())))
}

func (d *Deps) pageURL(path string) string {
	return strings.TrimRight(d.PublicURL, "/") + path
}

// readAction returns the verified message of a POST, or nil when there is
// nothing to apply (GET, or an empty body).
func (d *Deps) readAction(r *http.Request) (*frame.Message, error) {
	if r.Method != http.MethodPost {
		return nil, nil
	}
	p, err := frame.ParseActionPayload(r.Body)
	if err != nil || p == nil {
		return nil, err
	}
	msg, err := d.Verifier.Verify(r.Context(), p)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// decodeState fills v from token. It reports false, leaving v untouched,
// when the token is missing or rejected.
func decodeState[T any](d *Deps, r *http.Request, token string, v *T) bool {
	if strings.TrimSpace(token) == "" {
		return false
	}
	var decoded T
	if err := d.Codec.Decode(token, &decoded); err != nil {
		d.logger(r).Warn("discarding previous frame state", zap.Error(err))
		return false
	}
	*v = decoded
	return true
}

func (d *Deps) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, frame.ErrInvalidPayload):
		status, msg = http.StatusBadRequest, "invalid frame payload"
	case errors.Is(err, frame.ErrHubUnavailable):
		status, msg = http.StatusBadGateway, "frame verification unavailable"
	}
	log := d.logger(r)
	if status >= 500 {
		log.Error("frame request failed", zap.Int("status", status), zap.Error(err))
	} else {
		log.Info("frame request rejected", zap.Int("status", status), zap.Error(err))
	}
	http.Error(w, msg, status)
}

func (d *Deps) writePage(w http.ResponseWriter, r *http.Request, title, path string, f frame.Frame) {
	f.PostURL = d.pageURL(path)
	page := frame.Page{
		Title:    title,
		Frame:    f,
		DebugURL: frame.DebugURL(d.DebuggerURL, d.pageURL(path)),
	}
	var buf bytes.Buffer
	if err := frame.Render(&buf, page); err != nil {
		d.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

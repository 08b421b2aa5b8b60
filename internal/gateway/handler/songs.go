package handler

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"songframe/internal/frame"
	"songframe/internal/songs"
	"songframe/internal/suggest"
)

const (
	SongsPath  = "/"
	songsTitle = "Song picker"

	labelLove     = "Love it! ❤"
	labelMusic    = "Music Link"
	labelNah      = "Naahh! 👎"
	labelPlaylist = "Go to playlist!"
	labelRetry    = "Try again"

	songsMusicLink = "https://www.youtube.com/watch?v=7wtfhZwyrcc"
)

var errNoSuggester = errors.New("no suggester configured")

type SongsHandler struct {
	deps    *Deps
	catalog *songs.Catalog
	reducer *songs.Reducer
}

func NewSongsHandler(deps *Deps, catalog *songs.Catalog) *SongsHandler {
	if catalog == nil {
		catalog = songs.DefaultCatalog()
	}
	return &SongsHandler{deps: deps, catalog: catalog, reducer: songs.NewReducer(catalog)}
}

func (h *SongsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	msg, err := h.deps.readAction(r)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	state := songs.Initial()
	if msg != nil {
		prev := songs.Initial()
		decodeState(h.deps, r, msg.State, &prev)
		state = h.reducer.Reduce(prev, msg.Action)
	}
	h.deps.logger(r).Debug("state", zap.String("page", "songs"), zap.Any("state", state))

	f, err := h.frame(r.Context(), r, state)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	h.deps.writePage(w, r, songsTitle, SongsPath, f)
}

func (h *SongsHandler) frame(ctx context.Context, r *http.Request, state songs.State) (frame.Frame, error) {
	token, err := h.deps.Codec.Encode(state)
	if err != nil {
		return frame.Frame{}, err
	}
	f := frame.Frame{State: token}

	if !state.ActivePage.IsResult() {
		genre, _ := state.ActivePage.Genre()
		song, _ := h.catalog.Song(genre)
		f.Image = song.Image
		f.Buttons = []frame.Button{
			frame.PostButton(labelLove),
			frame.LinkButton(labelMusic, songsMusicLink),
			frame.PostButton(labelNah),
		}
		return f, nil
	}

	sug, err := h.lookupSuggestion(ctx, state.LikedSongs)
	switch {
	case err != nil:
		h.deps.logger(r).Warn("suggestion unavailable", zap.Error(err))
		f.Image = h.deps.Images.Unavailable
		f.Buttons = []frame.Button{frame.PostButton(labelRetry)}
	case sug == nil:
		f.Image = h.deps.Images.NothingLiked
		f.Buttons = []frame.Button{frame.LinkButton(labelMusic, songsMusicLink)}
	default:
		f.Image = h.catalog.SuggestionImage(sug.Genre)
		f.Buttons = []frame.Button{frame.LinkButton(labelPlaylist, sug.Link)}
	}
	return f, nil
}

func (h *SongsHandler) lookupSuggestion(ctx context.Context, liked []string) (*suggest.Suggestion, error) {
	if len(liked) == 0 {
		return nil, nil
	}
	if h.deps.Suggester == nil {
		return nil, errNoSuggester
	}
	return h.deps.Suggester.Suggest(ctx, liked)
}

package handler

import (
	"net/http"

	"go.uber.org/zap"

	"songframe/internal/counter"
	"songframe/internal/frame"
)

const (
	CounterPath  = "/third"
	counterTitle = "Click counter"

	counterImage     = "https://i.ytimg.com/vi/y9-wRGRbJyw/maxresdefault.jpg"
	counterMusicLink = "https://www.youtube.com/watch?v=S9bCLPwzSC0"

	activeMarker = "● "
)

type CounterHandler struct {
	deps *Deps
}

func NewCounterHandler(deps *Deps) *CounterHandler {
	return &CounterHandler{deps: deps}
}

func (h *CounterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	msg, err := h.deps.readAction(r)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	state := counter.Initial()
	if msg != nil {
		prev := counter.Initial()
		if decodeState(h.deps, r, msg.State, &prev) && !prev.Valid() {
			h.deps.logger(r).Warn("discarding invalid counter state", zap.Int("total_button_presses", prev.TotalButtonPresses))
			prev = counter.Initial()
		}
		state = counter.Reduce(prev, msg.Action)
	}
	h.deps.logger(r).Debug("state", zap.String("page", "counter"), zap.Any("state", state))

	token, err := h.deps.Codec.Encode(state)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	h.deps.writePage(w, r, counterTitle, CounterPath, frame.Frame{
		Image:   counterImage,
		Buttons: markActive(counterButtons(), state.Active),
		State:   token,
	})
}

func counterButtons() []frame.Button {
	return []frame.Button{
		frame.PostButton(labelLove),
		frame.LinkButton(labelMusic, counterMusicLink),
		frame.PostButton(labelNah),
	}
}

// markActive prefixes the label of the active post button. Link buttons
// never post back, so they are never marked.
func markActive(buttons []frame.Button, active string) []frame.Button {
	for i := range buttons {
		idx := frame.ButtonIndex(i + 1)
		if idx.String() == active && buttons[i].Action != frame.ActionLink {
			buttons[i].Label = activeMarker + buttons[i].Label
		}
	}
	return buttons
}

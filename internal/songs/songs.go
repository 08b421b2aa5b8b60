// Package songs implements the genre page: three songs shown in order,
// each liked or skipped, ending on a result page that carries the
// accumulated likes.
package songs

import (
	"encoding/json"
	"fmt"
	"strings"

	"songframe/internal/frame"
)

// Page is a step of the genre walk. The zero value is not a valid page.
type Page string

const (
	PagePop    Page = "pop"
	PageRock   Page = "rock"
	PageRap    Page = "rap"
	PageResult Page = "result"
)

// order is the fixed walk; index i advances to i+1 and the last entry is sticky.
var order = []Page{PagePop, PageRock, PageRap, PageResult}

// LikeButton is the post button that records a like.
const LikeButton frame.ButtonIndex = 1

// ParsePage maps a raw page name onto the enum.
func ParsePage(raw string) (Page, bool) {
	p := Page(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range order {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// Rank returns the position of p in the walk, or -1 for unknown pages.
func (p Page) Rank() int {
	for i, known := range order {
		if p == known {
			return i
		}
	}
	return -1
}

// Next returns the page after p, clamped at PageResult.
func (p Page) Next() Page {
	i := p.Rank()
	if i < 0 {
		return PagePop
	}
	if i+1 >= len(order) {
		return PageResult
	}
	return order[i+1]
}

// IsResult reports whether p is the terminal page.
func (p Page) IsResult() bool { return p == PageResult }

// Genre returns the catalog genre shown on p. The result page has none.
func (p Page) Genre() (Genre, bool) {
	if p.IsResult() {
		return "", false
	}
	return ParseGenre(string(p))
}

// State is the per-frame state of the genre page.
type State struct {
	ActivePage Page     `json:"activePage"`
	LikedSongs []string `json:"likedSongs"`
}

// Initial is the state rendered before any button was pressed.
func Initial() State {
	return State{ActivePage: PagePop, LikedSongs: []string{}}
}

// UnmarshalJSON accepts only known pages so a forged state token cannot
// place the walk outside the enum.
func (s *State) UnmarshalJSON(b []byte) error {
	var raw struct {
		ActivePage string   `json:"activePage"`
		LikedSongs []string `json:"likedSongs"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	page, ok := ParsePage(raw.ActivePage)
	if !ok {
		return fmt.Errorf("songs: unknown page %q", raw.ActivePage)
	}
	if raw.LikedSongs == nil {
		raw.LikedSongs = []string{}
	}
	s.ActivePage = page
	s.LikedSongs = raw.LikedSongs
	return nil
}

// Reducer advances the genre walk and records likes. It is pure; the
// liked list of the input state is never mutated.
type Reducer struct {
	catalog *Catalog
}

func NewReducer(catalog *Catalog) *Reducer {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Reducer{catalog: catalog}
}

// Reduce applies one verified action to state.
func (r *Reducer) Reduce(state State, action frame.Action) State {
	if _, ok := ParsePage(string(state.ActivePage)); !ok {
		state = Initial()
	}
	liked := state.LikedSongs
	if action.Button == LikeButton && !state.ActivePage.IsResult() {
		if genre, ok := state.ActivePage.Genre(); ok {
			if song, ok := r.catalog.Song(genre); ok {
				liked = append(append(make([]string, 0, len(liked)+1), liked...), song.Name)
			}
		}
	}
	if liked == nil {
		liked = []string{}
	}
	return State{
		ActivePage: state.ActivePage.Next(),
		LikedSongs: liked,
	}
}

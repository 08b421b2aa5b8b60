package suggest

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"songframe/internal/llmclient"
	"songframe/internal/songs"
	"songframe/internal/util/jsonutil"
)

var ErrContract = errors.New("answer violates output contract")

// Parse reads a model answer. Code fences, surrounding prose and
// double-escaped unicode are tolerated; the genre and link are not.
func Parse(raw []byte) (*Suggestion, error) {
	obj, err := jsonutil.ExtractObject(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", llmclient.ErrInvalidJSON, err)
	}
	var wire struct {
		Link  string `json:"link"`
		Genre string `json:"genre"`
	}
	if err := jsonutil.UnmarshalFlex(obj, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", llmclient.ErrInvalidJSON, err)
	}
	return validate(wire.Link, wire.Genre)
}

func validate(link, genre string) (*Suggestion, error) {
	g, ok := songs.ParseGenre(genre)
	if !ok {
		return nil, fmt.Errorf("%w: genre %q", ErrContract, genre)
	}
	link = strings.TrimSpace(link)
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: link %q", ErrContract, link)
	}
	return &Suggestion{Link: link, Genre: g}, nil
}

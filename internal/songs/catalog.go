package songs

import (
	_ "embed"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Genre is one of the three music genres the app knows about.
type Genre string

const (
	GenrePop  Genre = "pop"
	GenreRock Genre = "rock"
	GenreRap  Genre = "rap"
)

// Genres lists the genres in page order.
func Genres() []Genre { return []Genre{GenrePop, GenreRock, GenreRap} }

// ParseGenre maps raw text onto the enum, case-insensitively.
func ParseGenre(raw string) (Genre, bool) {
	g := Genre(strings.ToLower(strings.TrimSpace(raw)))
	switch g {
	case GenrePop, GenreRock, GenreRap:
		return g, true
	}
	return "", false
}

// Song is a catalog entry.
type Song struct {
	Genre           Genre  `yaml:"genre"`
	Name            string `yaml:"name"`
	Image           string `yaml:"image"`
	SuggestionImage string `yaml:"suggestion_image"`
}

// Catalog is the fixed genre to song table.
type Catalog struct {
	byGenre map[Genre]Song
}

//go:embed catalog.yaml
var catalogYAML []byte

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := ParseCatalog(catalogYAML)
	if err != nil {
		panic(fmt.Sprintf("songs: embedded catalog: %v", err))
	}
	return c
})

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() *Catalog { return defaultCatalog() }

// ParseCatalog decodes and validates a YAML catalog. Every genre must be
// present exactly once with a name and absolute image URLs.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var doc struct {
		Songs []Song `yaml:"songs"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c := &Catalog{byGenre: make(map[Genre]Song, len(doc.Songs))}
	for i, s := range doc.Songs {
		g, ok := ParseGenre(string(s.Genre))
		if !ok {
			return nil, fmt.Errorf("song %d: unknown genre %q", i, s.Genre)
		}
		if _, dup := c.byGenre[g]; dup {
			return nil, fmt.Errorf("song %d: duplicate genre %q", i, g)
		}
		s.Genre = g
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			return nil, fmt.Errorf("song %d: name is required", i)
		}
		if !absoluteURL(s.Image) {
			return nil, fmt.Errorf("song %d: image must be an absolute url", i)
		}
		if !absoluteURL(s.SuggestionImage) {
			return nil, fmt.Errorf("song %d: suggestion_image must be an absolute url", i)
		}
		c.byGenre[g] = s
	}
	for _, g := range Genres() {
		if _, ok := c.byGenre[g]; !ok {
			return nil, fmt.Errorf("genre %q missing from catalog", g)
		}
	}
	return c, nil
}

// Song returns the entry for g.
func (c *Catalog) Song(g Genre) (Song, bool) {
	if c == nil {
		return Song{}, false
	}
	s, ok := c.byGenre[g]
	return s, ok
}

// SuggestionImage returns the banner shown on the result page for g.
func (c *Catalog) SuggestionImage(g Genre) string {
	s, ok := c.Song(g)
	if !ok {
		return ""
	}
	return s.SuggestionImage
}

func absoluteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

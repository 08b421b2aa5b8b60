package songs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	want := map[Genre]string{
		GenrePop:  "Houdini - Dua Lipa",
		GenreRock: "Believer - Imagine Dragons",
		GenreRap:  "Mockingbird - Eminem",
	}
	for g, name := range want {
		s, ok := c.Song(g)
		require.True(t, ok, g)
		assert.Equal(t, name, s.Name)
		assert.NotEmpty(t, s.Image)
		assert.NotEmpty(t, c.SuggestionImage(g))
	}
	assert.Equal(t, "", c.SuggestionImage("jazz"))
}

func TestParseCatalogValidation(t *testing.T) {
	cases := map[string]string{
		"unknown genre": `
songs:
  - {genre: jazz, name: x, image: "https://a/b", suggestion_image: "https://a/c"}`,
		"missing genre": `
songs:
  - {genre: pop, name: x, image: "https://a/b", suggestion_image: "https://a/c"}
  - {genre: rock, name: y, image: "https://a/b", suggestion_image: "https://a/c"}`,
		"duplicate": `
songs:
  - {genre: pop, name: x, image: "https://a/b", suggestion_image: "https://a/c"}
  - {genre: POP, name: y, image: "https://a/b", suggestion_image: "https://a/c"}`,
		"relative image": `
songs:
  - {genre: pop, name: x, image: "/b.png", suggestion_image: "https://a/c"}`,
		"no name": `
songs:
  - {genre: pop, name: " ", image: "https://a/b", suggestion_image: "https://a/c"}`,
		"not yaml": `songs: [`,
	}
	for name, raw := range cases {
		_, err := ParseCatalog([]byte(raw))
		assert.Error(t, err, name)
	}
}

func TestParseGenre(t *testing.T) {
	g, ok := ParseGenre(" Rock ")
	assert.True(t, ok)
	assert.Equal(t, GenreRock, g)
	_, ok = ParseGenre("result")
	assert.False(t, ok)
}

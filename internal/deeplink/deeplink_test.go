package deeplink

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/transcheck/internal/record"
)

func TestFromValues(t *testing.T) {
	v, err := url.ParseQuery("id=1700000000000&lang=de")
	require.NoError(t, err)
	assert.Equal(t, Params{ID: "1700000000000", Lang: "de"}, FromValues(v))
	assert.True(t, FromValues(url.Values{}).Empty())
}

func TestResolve(t *testing.T) {
	first := record.New("Hello", 1700000000000, map[string]string{"da": "Hej", "sv": "Hej"})
	second := record.New("Bye", 1690000000000, map[string]string{"de": "Tschüss"})
	view := []*record.TranslationRecord{first, second}

	tests := []struct {
		name   string
		params Params
		index  int
		ok     bool
	}{
		{"no params", Params{}, -1, false},
		{"id only", Params{ID: "1690000000000"}, 1, true},
		{"id and present language", Params{ID: "1700000000000", Lang: "sv"}, 0, true},
		{"language not on record", Params{ID: "1700000000000", Lang: "de"}, -1, false},
		{"unknown id", Params{ID: "42"}, -1, false},
		{"lang without id", Params{Lang: "de"}, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, ok := Resolve(view, tt.params)
			assert.Equal(t, tt.index, index)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestResolve_OutsideFilteredView(t *testing.T) {
	hidden := record.New("Hello", 1700000000000, map[string]string{"de": "Hallo"})
	shown := record.New("Bye", 1690000000000, map[string]string{"da": "Farvel"})

	_, ok := Resolve([]*record.TranslationRecord{shown}, Params{ID: hidden.ID()})
	assert.False(t, ok)
}

func TestLink(t *testing.T) {
	rec := record.New("Hello", 1700000000000, map[string]string{"da": "Hej"})

	link, err := Link("http://localhost:8080/review", rec, "da")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/review?id=1700000000000&lang=da", link)

	link, err = Link("http://localhost:8080/review?lang=sv", rec, "")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/review?id=1700000000000", link)

	u, err := url.Parse(link)
	require.NoError(t, err)
	index, ok := Resolve([]*record.TranslationRecord{rec}, FromValues(u.Query()))
	assert.True(t, ok)
	assert.Equal(t, 0, index)
}

package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardscan-dev/cardboard/pkg/api"
	"github.com/cardscan-dev/cardboard/pkg/board"
)

func TestNormalizeCountry(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	assert.Equal("United States", board.NormalizeCountry("US"))
	assert.Equal("India", board.NormalizeCountry("in"))
	assert.Equal("Japan", board.NormalizeCountry(" jp "))

	assert.Equal(board.UnknownCountry, board.NormalizeCountry(""))
	assert.Equal(board.UnknownCountry, board.NormalizeCountry("UNKNOWN"))
	assert.Equal(board.UnknownCountry, board.NormalizeCountry("unknown"))
	assert.Equal(board.UnknownCountry, board.NormalizeCountry("XX"))
}

func TestCountryFlag(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	assert.Equal("🇮🇳", board.CountryFlag("IN"))
	assert.Equal("🇺🇸", board.CountryFlag("us"))
	assert.Equal("🌍", board.CountryFlag("XX"))
	assert.Equal("🌍", board.CountryFlag(""))
}

func TestFallbackCountries(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	pairs := board.FallbackCountries()
	assert.Equal(11, len(pairs))
	assert.Equal(api.Country{Code: "US", Flag: "🇺🇸"}, pairs[0])
	assert.Equal(api.Country{Code: "UNKNOWN", Flag: "🌍"}, pairs[len(pairs)-1])
}

func TestCountryOptions(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	options := board.CountryOptions([]api.Country{
		{Code: "US", Flag: "🇺🇸"},
		{Code: "IN", Flag: "🇮🇳"},
		{Code: "XX"},
		{Code: "UNKNOWN", Flag: "🌍"},
		{Code: "US", Flag: "🇺🇸"},
	})

	// unmapped codes collapse into Unknown, duplicates drop
	assert.Equal([]string{"United States", "India", "Unknown"}, options)
}

func TestCountryOptionsFromFallback(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	options := board.CountryOptions(board.FallbackCountries())
	assert.Equal(11, len(options))
	assert.Equal("United States", options[0])
	assert.Equal("Unknown", options[len(options)-1])
}

package board_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardscan-dev/cardboard/pkg/board"
)

func withLabel(id int64, name string) (*int64, *string) {
	return &id, &name
}

func sampleCards() []board.Card {
	clientsID, clientsName := withLabel(1, "Clients")
	vendorsID, vendorsName := withLabel(2, "Vendors")

	return []board.Card{
		{ID: 1, Name: "Priya Sharma", Company: "Wipro", Email: "priya@wipro.com", Country: "IN"},
		{ID: 2, Name: "Dana Whitfield", Company: "Acme Corp", Email: "dana@acme.example", Country: "US", LabelID: clientsID, LabelName: clientsName},
		{ID: 3, Name: "Kenji Tanaka", Company: "Sakura KK", Country: "JP", LabelID: clientsID, LabelName: clientsName},
		{ID: 4, Name: "Ravi Patel", Company: "Infosys", Phone: "+91 12345", Country: "IN", LabelID: vendorsID, LabelName: vendorsName},
		{ID: 5, Name: "Lena Braun", Company: "Siemens", Designation: "Engineer", Country: "DE"},
	}
}

func visibleIDs(b *board.Board) []int64 {
	var ids []int64

	for _, e := range b.Unsorted() {
		if e.Visible {
			ids = append(ids, e.Card.ID)
		}
	}

	for _, g := range b.Groups() {
		for _, e := range g.Entries {
			if e.Visible {
				ids = append(ids, e.Card.ID)
			}
		}
	}

	return ids
}

func TestNewAllVisible(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	b := board.New(sampleCards())

	unsorted, labeled := b.Counts()
	assert.Equal(2, unsorted)
	assert.Equal(3, labeled)
	assert.ElementsMatch([]int64{1, 2, 3, 4, 5}, visibleIDs(b))
}

func TestSearchMatchesAcrossFields(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	b := board.New(sampleCards())

	// company, case-insensitive
	b.Search("ACME")
	assert.ElementsMatch([]int64{2}, visibleIDs(b))

	// phone substring
	b.Search("12345")
	assert.ElementsMatch([]int64{4}, visibleIDs(b))

	// designation
	b.Search("engineer")
	assert.ElementsMatch([]int64{5}, visibleIDs(b))

	// no match hides everything
	b.Search("zzz")
	assert.Empty(visibleIDs(b))

	// empty query restores full visibility
	b.Search("")
	assert.ElementsMatch([]int64{1, 2, 3, 4, 5}, visibleIDs(b))
}

func TestSearchHighlightsMatches(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	b := board.New(sampleCards())

	b.Search("priya")

	entry := b.Find(1)
	assert.True(entry.Visible)
	assert.True(entry.Highlight)

	b.Search("")
	assert.False(entry.Highlight)
}

func TestFilterByLabel(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	b := board.New(sampleCards())

	b.Filter(1, "")
	assert.ElementsMatch([]int64{2, 3}, visibleIDs(b))

	unsorted, labeled := b.Counts()
	assert.Equal(0, unsorted)
	assert.Equal(2, labeled)
}

func TestFilterByCountry(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	b := board.New(sampleCards())

	b.Filter(0, "India")
	assert.ElementsMatch([]int64{1, 4}, visibleIDs(b))
}

func TestSearchAndFilterCombine(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	b := board.New(sampleCards())

	b.Filter(0, "India")
	b.Search("wipro")
	assert.ElementsMatch([]int64{1}, visibleIDs(b))

	// clearing the query keeps the filter
	b.Search("")
	assert.ElementsMatch([]int64{1, 4}, visibleIDs(b))
}

func TestResetIsIdempotent(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	b := board.New(sampleCards())

	b.Search("wipro")
	b.Filter(1, "India")

	b.Reset()
	assert.ElementsMatch([]int64{1, 2, 3, 4, 5}, visibleIDs(b))
	assert.Equal("", b.Query())

	b.Reset()
	assert.ElementsMatch([]int64{1, 2, 3, 4, 5}, visibleIDs(b))
}

func TestGroupsKeepSnapshotOrder(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	b := board.New(sampleCards())

	groups := b.Groups()
	assert.Equal(2, len(groups))
	assert.Equal("Clients", groups[0].LabelName)
	assert.Equal("Vendors", groups[1].LabelName)
	assert.Equal(2, len(groups[0].Entries))
	assert.Equal(1, len(groups[1].Entries))
}

func TestRemove(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	b := board.New(sampleCards())

	b.Remove(3)
	assert.Nil(b.Find(3))
	assert.ElementsMatch([]int64{1, 2, 4, 5}, visibleIDs(b))

	// removing an unknown id is a no-op
	b.Remove(99)
	assert.ElementsMatch([]int64{1, 2, 4, 5}, visibleIDs(b))
}

func TestCountries(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	b := board.New(sampleCards())

	assert.ElementsMatch([]string{"India", "United States", "Japan", "Germany"}, b.Countries())
}

func TestCountryFilterScenario(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	cards := make([]board.Card, 0, 10)
	for i := 1; i <= 10; i++ {
		country := "US"
		if i <= 3 {
			country = "IN"
		}

		cards = append(cards, board.Card{ID: int64(i), Name: fmt.Sprintf("Card %d", i), Country: country})
	}

	b := board.New(cards)

	b.Filter(0, "India")
	assert.Equal(3, len(visibleIDs(b)))

	unsorted, _ := b.Counts()
	assert.Equal(3, unsorted)
}

func TestExtractSnapshot(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	page := `<html><body>
		<div class="card" data-card-data='{"id":1,"name":"Priya Sharma","country":"IN","label_id":null,"label_name":null}'></div>
		<div class="card" data-card-data='{"id":2,"name":"Dana Whitfield","country":"US","label_id":5,"label_name":"Clients"}'></div>
	</body></html>`

	cards, err := board.ExtractSnapshot(strings.NewReader(page))
	assert.Nil(err)
	assert.Equal(2, len(cards))
	assert.Equal("Priya Sharma", cards[0].Name)
	assert.Nil(cards[0].LabelID)
	assert.NotNil(cards[1].LabelID)
	assert.Equal(int64(5), *cards[1].LabelID)
	assert.Equal("Clients", *cards[1].LabelName)
}

func TestExtractSnapshotSkipsMalformedCard(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	page := `<html><body>
		<div data-card-data='{"id":1,"name":"Good Card"}'></div>
		<div data-card-data='{not json at all'></div>
		<div data-card-data='{"id":3,"name":"Another Good Card"}'></div>
	</body></html>`

	cards, err := board.ExtractSnapshot(strings.NewReader(page))
	assert.Nil(err)
	assert.Equal(2, len(cards))
	assert.Equal("Good Card", cards[0].Name)
	assert.Equal("Another Good Card", cards[1].Name)
}

func TestExtractSnapshotEmptyPage(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	cards, err := board.ExtractSnapshot(strings.NewReader("<html><body></body></html>"))
	assert.Nil(err)
	assert.Empty(cards)
}

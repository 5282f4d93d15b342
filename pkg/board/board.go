// Package board holds the client-side card board model: cards grouped into
// unsorted and per-label groups, with free-text search, label and country
// filtering, and the visible-card counters the header displays. The board is
// transient; it is discarded and rebuilt from a fresh server snapshot after
// every mutation, so it never reconciles state incrementally.
package board

import (
	"strings"
)

// Entry is one card on the board together with its presentation state.
type Entry struct {
	Card      Card
	Visible   bool
	Highlight bool
}

// Group is a label and the board entries assigned to it.
type Group struct {
	LabelID   int64
	LabelName string
	Entries   []*Entry
}

// Board groups cards and applies the current search query and filters.
type Board struct {
	entries []*Entry

	query         string
	labelFilter   int64 // 0 means unset
	countryFilter string
}

// New builds a board from a card snapshot. All cards start visible.
func New(cards []Card) *Board {
	b := &Board{entries: make([]*Entry, 0, len(cards))}

	for _, card := range cards {
		b.entries = append(b.entries, &Entry{Card: card, Visible: true})
	}

	return b
}

// searchText concatenates the fields the search contract covers.
func searchText(c Card) string {
	return strings.ToLower(strings.Join([]string{
		c.Name, c.Company, c.Email, c.Phone, c.Country, c.Designation,
	}, " "))
}

// Search applies a case-insensitive substring match of query against each
// card's searchable fields. Matching cards become visible and highlighted;
// the rest are hidden. An empty query shows everything and clears highlights.
// Filters remain in effect.
func (b *Board) Search(query string) {
	b.query = strings.TrimSpace(query)
	b.apply()
}

// Filter restricts visibility to cards matching the label and the normalized
// country name. A zero labelID or empty country leaves that dimension
// unconstrained.
func (b *Board) Filter(labelID int64, country string) {
	b.labelFilter = labelID
	b.countryFilter = country
	b.apply()
}

// Reset restores full visibility and clears the query and both filters. It is
// idempotent.
func (b *Board) Reset() {
	b.query = ""
	b.labelFilter = 0
	b.countryFilter = ""
	b.apply()
}

// Query returns the active search query.
func (b *Board) Query() string {
	return b.query
}

func (b *Board) apply() {
	query := strings.ToLower(b.query)

	for _, e := range b.entries {
		e.Visible = b.matches(e.Card, query)
		e.Highlight = e.Visible && query != ""
	}
}

func (b *Board) matches(c Card, query string) bool {
	if query != "" && !strings.Contains(searchText(c), query) {
		return false
	}

	if b.labelFilter != 0 {
		if c.LabelID == nil || *c.LabelID != b.labelFilter {
			return false
		}
	}

	if b.countryFilter != "" && NormalizeCountry(c.Country) != b.countryFilter {
		return false
	}

	return true
}

// Unsorted returns the entries with no label assignment, in snapshot order.
func (b *Board) Unsorted() []*Entry {
	var entries []*Entry

	for _, e := range b.entries {
		if e.Card.LabelID == nil {
			entries = append(entries, e)
		}
	}

	return entries
}

// Groups returns one group per label that has cards, in snapshot order.
func (b *Board) Groups() []Group {
	var groups []Group

	index := map[int64]int{}

	for _, e := range b.entries {
		if e.Card.LabelID == nil {
			continue
		}

		id := *e.Card.LabelID

		i, ok := index[id]
		if !ok {
			name := ""
			if e.Card.LabelName != nil {
				name = *e.Card.LabelName
			}

			groups = append(groups, Group{LabelID: id, LabelName: name})
			i = len(groups) - 1
			index[id] = i
		}

		groups[i].Entries = append(groups[i].Entries, e)
	}

	return groups
}

// Counts returns the number of visible unsorted and visible labeled cards.
func (b *Board) Counts() (unsorted, labeled int) {
	for _, e := range b.entries {
		if !e.Visible {
			continue
		}

		if e.Card.LabelID == nil {
			unsorted++
		} else {
			labeled++
		}
	}

	return unsorted, labeled
}

// Find returns the entry for a card id, or nil.
func (b *Board) Find(cardID int64) *Entry {
	for _, e := range b.entries {
		if e.Card.ID == cardID {
			return e
		}
	}

	return nil
}

// Remove drops a card from the board in place. This is the one incremental
// update the client performs (preview delete); everything else rebuilds from
// a fresh snapshot.
func (b *Board) Remove(cardID int64) {
	for i, e := range b.entries {
		if e.Card.ID == cardID {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)

			return
		}
	}
}

// Countries returns the distinct normalized country names present on the
// board, for the country filter options.
func (b *Board) Countries() []string {
	seen := map[string]bool{}

	var names []string

	for _, e := range b.entries {
		name := NormalizeCountry(e.Card.Country)
		if !seen[name] {
			seen[name] = true

			names = append(names, name)
		}
	}

	return names
}

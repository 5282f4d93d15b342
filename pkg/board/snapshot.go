package board

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"github.com/cardscan-dev/cardboard/pkg/api"
)

// Card is the record the board operates on; it is the backend's card shape.
type Card = api.Card

// ParseCard decodes one embedded card JSON blob.
func ParseCard(raw string) (Card, error) {
	var card Card

	if err := json.Unmarshal([]byte(raw), &card); err != nil {
		return Card{}, fmt.Errorf("error parsing embedded card data: %w", err)
	}

	return card, nil
}

// ExtractSnapshot walks the server-rendered manage page and collects every
// data-card-data attribute. A card whose blob fails to parse is skipped so
// the board degrades per-card instead of failing outright.
func ExtractSnapshot(r io.Reader) ([]Card, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing manage page: %w", err)
	}

	var cards []Card

	var walk func(*html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key != "data-card-data" {
					continue
				}

				card, err := ParseCard(attr.Val)
				if err != nil {
					log.Warn().Err(err).Msg("skipping card with malformed embedded data")

					continue
				}

				cards = append(cards, card)
			}
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}

	walk(doc)

	return cards, nil
}

// Package preview models the preview panel: a fetched card snapshot with a
// two-state View/Edit machine over its editable fields.
package preview

import (
	"context"
	"fmt"

	"github.com/cardscan-dev/cardboard/pkg/api"
	"github.com/cardscan-dev/cardboard/pkg/board"
)

// NotAvailable is the literal shown for absent card values.
const NotAvailable = "N/A"

// Fields is the editable field set shown in the panel.
type Fields struct {
	Name        string
	Designation string
	Company     string
	Email       string
	Phone       string
	Website     string
	Country     string
}

// Session is one open preview. Cancel always restores the last-fetched
// snapshot without a network call; Save pushes the drafts and updates the
// snapshot in place.
type Session struct {
	client *api.Client

	card    *api.Card
	drafts  Fields
	editing bool
}

// Open fetches the card's full detail and returns a session in View mode.
func Open(ctx context.Context, client *api.Client, cardID int64) (*Session, error) {
	card, err := client.Preview(ctx, cardID)
	if err != nil {
		return nil, err
	}

	s := &Session{client: client, card: card}
	s.drafts = s.snapshotFields()

	return s, nil
}

func orNA(value string) string {
	if value == "" {
		return NotAvailable
	}

	return value
}

func (s *Session) snapshotFields() Fields {
	return Fields{
		Name:        orNA(s.card.Name),
		Designation: orNA(s.card.Designation),
		Company:     orNA(s.card.Company),
		Email:       orNA(s.card.Email),
		Phone:       orNA(s.card.Phone),
		Website:     orNA(s.card.Website),
		Country:     s.card.Country,
	}
}

// Card returns the last-fetched snapshot.
func (s *Session) Card() *api.Card {
	return s.card
}

// Fields returns the current drafts (equal to the snapshot in View mode).
func (s *Session) Fields() Fields {
	return s.drafts
}

// Flag returns the snapshot's flag emoji, falling back to the country table.
func (s *Session) Flag() string {
	if s.card.Flag != "" {
		return s.card.Flag
	}

	return board.CountryFlag(s.card.Country)
}

// Filename returns the snapshot's source filename or a placeholder.
func (s *Session) Filename() string {
	if s.card.Filename == "" {
		return "Unknown file"
	}

	return s.card.Filename
}

// Editing reports whether the session is in Edit mode.
func (s *Session) Editing() bool {
	return s.editing
}

// Edit switches View → Edit; the drafts become writable.
func (s *Session) Edit() {
	s.editing = true
}

// SetFields replaces the drafts. Only meaningful in Edit mode.
func (s *Session) SetFields(f Fields) {
	if s.editing {
		s.drafts = f
	}
}

// Cancel switches Edit → View, repopulating every field from the snapshot.
// No network call is made.
func (s *Session) Cancel() {
	s.drafts = s.snapshotFields()
	s.editing = false
}

// Save pushes the drafts through the preview edit endpoint. On success the
// snapshot is updated in place and the session returns to View mode.
func (s *Session) Save(ctx context.Context) error {
	if !s.editing {
		return fmt.Errorf("preview is not in edit mode")
	}

	fields := api.CardFields{
		Name:        cleared(s.drafts.Name),
		Designation: cleared(s.drafts.Designation),
		Company:     cleared(s.drafts.Company),
		Email:       cleared(s.drafts.Email),
		Phone:       cleared(s.drafts.Phone),
		Website:     cleared(s.drafts.Website),
		Country:     s.drafts.Country,
	}

	if err := s.client.EditCard(ctx, s.card.ID, fields); err != nil {
		return err
	}

	s.card.Name = fields.Name
	s.card.Designation = fields.Designation
	s.card.Company = fields.Company
	s.card.Email = fields.Email
	s.card.Phone = fields.Phone
	s.card.Website = fields.Website
	s.card.Country = fields.Country
	s.card.Flag = board.CountryFlag(fields.Country)

	s.drafts = s.snapshotFields()
	s.editing = false

	return nil
}

// Delete removes the card. The confirmation step is the caller's.
func (s *Session) Delete(ctx context.Context) error {
	return s.client.DeleteCard(ctx, s.card.ID)
}

// cleared maps the N/A placeholder back to empty before sending.
func cleared(value string) string {
	if value == NotAvailable {
		return ""
	}

	return value
}

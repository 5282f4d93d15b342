package controller

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/cardscan-dev/cardboard/pkg/approval"
)

// initEvents registers every board shortcut exactly once; there is a single
// dispatch map per mode, no per-widget handler registration.
func (c *Controller) initEvents() {
	c.events = map[tcell.Key]KeyEvent{}
	c.formEvents = map[tcell.Key]KeyEvent{}

	c.events[KeySlash] = KeyEvent{Description: "Search", Action: c.focusSearch}
	c.events[KeyL] = KeyEvent{Description: "Label filter", Action: c.cycleLabelFilter}
	c.events[KeyC] = KeyEvent{Description: "Country filter", Action: c.cycleCountryFilter}
	c.events[KeyR] = KeyEvent{Description: "Reset filters", Action: c.resetFilters}
	c.events[KeyT] = KeyEvent{Description: "Cycle approval", Action: c.cycleApproval}
	c.events[KeyM] = KeyEvent{Description: "Move card", Action: c.moveCard}
	c.events[KeyX] = KeyEvent{Description: "Remove label", Action: c.removeLabel}
	c.events[KeyP] = KeyEvent{Description: "Preview", Action: c.openPreview}
	c.events[KeyE] = KeyEvent{Description: "Edit card", Action: c.editCard}
	c.events[KeyD] = KeyEvent{Description: "Delete card", Action: c.deleteCard}
	c.events[KeyN] = KeyEvent{Description: "New label", Action: c.newLabel}
	c.events[KeyShiftL] = KeyEvent{Description: "Edit label", Action: c.editLabel}
	c.events[KeyU] = KeyEvent{Description: "Upload", Action: c.showUpload}
	c.events[KeyShiftE] = KeyEvent{Description: "Export", Action: c.exportExcel}
	c.events[KeyK] = KeyEvent{Description: "API key", Action: c.openAPIKeyForm}
	c.events[KeyQ] = KeyEvent{Description: "Quit", Action: c.quit}

	c.formEvents[tcell.KeyEscape] = KeyEvent{Description: "Back", Action: c.backToBoard}
}

func (c *Controller) handleFormKeys(evt *tcell.EventKey) *tcell.EventKey {
	if k, ok := c.formEvents[AsKey(evt)]; ok {
		return k.Action(evt)
	}

	return evt
}

func (c *Controller) quit(key *tcell.EventKey) *tcell.EventKey {
	log.Info().Msg("terminating application")

	c.app.Stop()

	return nil
}

func (c *Controller) backToBoard(key *tcell.EventKey) *tcell.EventKey {
	c.showBoard()

	return nil
}

func (c *Controller) focusSearch(key *tcell.EventKey) *tcell.EventKey {
	c.app.SetFocus(c.searchField)

	return nil
}

// cycleLabelFilter steps through "all labels" and each label group in turn.
func (c *Controller) cycleLabelFilter(key *tcell.EventKey) *tcell.EventKey {
	groups := c.board.Groups()

	next := int64(0)

	for i, g := range groups {
		if g.LabelID == c.labelFilter {
			if i+1 < len(groups) {
				next = groups[i+1].LabelID
			}

			break
		}

		if c.labelFilter == 0 && i == 0 {
			next = g.LabelID

			break
		}
	}

	c.labelFilter = next
	c.board.Filter(c.labelFilter, c.countryFilter)
	c.refreshBoard()

	if next == 0 {
		c.toast("Showing all labels", "info")
	} else {
		for _, g := range groups {
			if g.LabelID == next {
				c.toast(fmt.Sprintf("Filtered by: %s", g.LabelName), "success")

				break
			}
		}
	}

	return nil
}

// cycleCountryFilter steps through "all countries" and each option from the
// countries endpoint, or the countries present on the board while the
// options are still loading.
func (c *Controller) cycleCountryFilter(key *tcell.EventKey) *tcell.EventKey {
	countries := c.countryOptions
	if len(countries) == 0 {
		countries = c.board.Countries()
	}

	next := ""

	for i, name := range countries {
		if name == c.countryFilter {
			if i+1 < len(countries) {
				next = countries[i+1]
			}

			break
		}

		if c.countryFilter == "" && i == 0 {
			next = name

			break
		}
	}

	c.countryFilter = next
	c.board.Filter(c.labelFilter, c.countryFilter)
	c.refreshBoard()

	if next == "" {
		c.toast("Showing all countries", "info")
	} else {
		c.toast(fmt.Sprintf("Filtered by: %s", next), "success")
	}

	return nil
}

func (c *Controller) resetFilters(key *tcell.EventKey) *tcell.EventKey {
	c.labelFilter = 0
	c.countryFilter = ""
	c.searchField.SetText("")
	c.board.Reset()
	c.refreshBoard()
	c.toast("All filters reset successfully!", "success")

	return nil
}

// cycleApproval advances the selected card's local approval status. The
// status never leaves the machine.
func (c *Controller) cycleApproval(key *tcell.EventKey) *tcell.EventKey {
	entry := c.selectedEntry
	if entry == nil {
		return nil
	}

	status, err := c.store.Cycle(c.ctx, entry.Card.ID)
	if err != nil {
		c.toast(err.Error(), "error")

		return nil
	}

	c.refreshBoard()
	c.toast(fmt.Sprintf("%s is now %s", entry.Card.Name, status), "info")

	return nil
}

// moveCard is the drag-reassignment analog: it reassigns the selected card to
// another group. Cards whose approval status is not "approved" are refused up
// front, before any network call, and the board is re-fetched to revert.
func (c *Controller) moveCard(key *tcell.EventKey) *tcell.EventKey {
	entry := c.selectedEntry
	if entry == nil {
		return nil
	}

	approval.GateMove(c.store, entry.Card.ID, func() {
		c.switchToMoveForm(entry)
	}, func() {
		c.toast("Card must be approved before it can be moved", "warning")
		c.reload()
	})

	return nil
}

func (c *Controller) removeLabel(key *tcell.EventKey) *tcell.EventKey {
	entry := c.selectedEntry
	if entry == nil || entry.Card.LabelID == nil {
		return nil
	}

	cardID := entry.Card.ID

	c.confirm("Remove this card from its label?", func() {
		c.mutate("Label removed successfully!", func(ctx context.Context) error {
			return c.client.RemoveLabel(ctx, cardID)
		})
	})

	return nil
}

func (c *Controller) deleteCard(key *tcell.EventKey) *tcell.EventKey {
	entry := c.selectedEntry
	if entry == nil {
		return nil
	}

	card := entry.Card

	c.confirm(
		fmt.Sprintf("Delete the business card for %q?\n\nThis action cannot be undone.", card.Name),
		func() {
			go func() {
				err := c.client.DeleteCard(c.ctx, card.ID)

				c.app.QueueUpdateDraw(func() {
					if err != nil {
						c.toast(err.Error(), "error")

						return
					}

					// delete patches the board in place instead of reloading
					c.board.Remove(card.ID)
					c.refreshBoard()
					c.toast("Card deleted successfully!", "success")
				})
			}()
		},
	)

	return nil
}

func (c *Controller) exportExcel(key *tcell.EventKey) *tcell.EventKey {
	go func() {
		path, err := c.downloadExcel()

		c.app.QueueUpdateDraw(func() {
			if err != nil {
				c.toast(fmt.Sprintf("Export failed: %s", err), "error")

				return
			}

			c.toast(fmt.Sprintf("Export saved to %s", path), "success")
		})
	}()

	return nil
}

// confirm swaps in a yes/no modal; every destructive action funnels through here.
func (c *Controller) confirm(message string, onYes func()) {
	const pageName = "confirm"

	modal := c.newModal(message, []string{"Cancel", "Confirm"}, func(idx int, label string) {
		c.pages.RemovePage(pageName)
		c.showBoard()

		if label == "Confirm" {
			onYes()
		}
	})

	c.pages.AddPage(pageName, modal, true, true)
	c.app.SetInputCapture(nil)
	c.app.SetFocus(modal)
}

func (c *Controller) openPreview(key *tcell.EventKey) *tcell.EventKey {
	entry := c.selectedEntry
	if entry == nil {
		return nil
	}

	c.showPreview(entry.Card.ID)

	return nil
}

package controller

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/cardscan-dev/cardboard/pkg/board"
	"github.com/cardscan-dev/cardboard/pkg/preview"
)

func (c *Controller) getPreviewGrid() *tview.Grid {
	c.previewView = tview.NewTextView().SetDynamicColors(true)
	c.previewView.SetBorder(true).SetTitle(" Card Preview ")

	const fieldMax = 100

	c.previewForm = tview.NewForm().
		AddInputField("Name", "", fieldMax, nil, nil).
		AddInputField("Designation", "", fieldMax, nil, nil).
		AddInputField("Company", "", fieldMax, nil, nil).
		AddInputField("Email", "", fieldMax, nil, nil).
		AddInputField("Phone", "", fieldMax, nil, nil).
		AddInputField("Website", "", fieldMax, nil, nil).
		AddInputField("Country", "", fieldMax, nil, nil)

	c.previewForm.AddButton("Save", c.savePreview)
	c.previewForm.AddButton("Cancel", c.cancelPreviewEdit)
	c.previewForm.SetBorder(true).SetTitle(" Edit Card ")

	header := tview.NewTextView().SetDynamicColors(true)
	header.SetText("[yellow]Card Preview\n[orange]<e>[white] Edit  [orange]<d>[white] Delete  [orange]<Esc>[white] Back")

	grid := tview.NewGrid().SetBorders(false).SetRows(3, 0)
	grid.AddItem(header, 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.previewView, 1, 0, 1, 1, 0, 0, true)

	return grid
}

// showPreview fetches the card detail off the event loop, then opens the panel.
func (c *Controller) showPreview(cardID int64) {
	go func() {
		session, err := preview.Open(c.ctx, c.client, cardID)

		c.app.QueueUpdateDraw(func() {
			if err != nil {
				c.toast(fmt.Sprintf("Failed to load card preview: %s", err), "error")

				return
			}

			c.session = session
			c.renderPreview()
			c.pages.SwitchToPage("preview")
			c.app.SetInputCapture(c.handlePreviewKeys)
			c.app.SetFocus(c.previewView)
		})
	}()
}

func (c *Controller) renderPreview() {
	s := c.session
	fields := s.Fields()

	var b strings.Builder

	fmt.Fprintf(&b, "[yellow]%s[white]\n\n", s.Filename())
	fmt.Fprintf(&b, "[blue]Name:[white]        %s\n", fields.Name)
	fmt.Fprintf(&b, "[blue]Designation:[white] %s\n", fields.Designation)
	fmt.Fprintf(&b, "[blue]Company:[white]     %s\n", fields.Company)
	fmt.Fprintf(&b, "[blue]Email:[white]       %s\n", fields.Email)
	fmt.Fprintf(&b, "[blue]Phone:[white]       %s\n", fields.Phone)
	fmt.Fprintf(&b, "[blue]Website:[white]     %s\n", fields.Website)
	fmt.Fprintf(&b, "[blue]Country:[white]     %s %s\n", s.Flag(), board.NormalizeCountry(fields.Country))

	c.previewView.SetText(b.String())
}

func (c *Controller) handlePreviewKeys(evt *tcell.EventKey) *tcell.EventKey {
	if c.session != nil && c.session.Editing() {
		if evt.Key() == tcell.KeyEscape {
			c.cancelPreviewEdit()

			return nil
		}

		return evt
	}

	switch AsKey(evt) {
	case tcell.KeyEscape:
		c.closePreview()

		return nil
	case KeyE:
		c.editPreview()

		return nil
	case KeyD:
		c.deletePreview()

		return nil
	}

	return evt
}

func (c *Controller) closePreview() {
	c.session = nil
	c.showBoard()
}

// editPreview swaps the read-only panel for the form, seeded from the drafts.
func (c *Controller) editPreview() {
	s := c.session
	s.Edit()

	fields := s.Fields()
	c.setPreviewFormField("Name", fields.Name)
	c.setPreviewFormField("Designation", fields.Designation)
	c.setPreviewFormField("Company", fields.Company)
	c.setPreviewFormField("Email", fields.Email)
	c.setPreviewFormField("Phone", fields.Phone)
	c.setPreviewFormField("Website", fields.Website)
	c.setPreviewFormField("Country", fields.Country)

	c.pages.AddPage("previewEdit", c.previewForm, true, true)
	c.app.SetFocus(c.previewForm)
}

func (c *Controller) setPreviewFormField(label, value string) {
	if field, ok := c.previewForm.GetFormItemByLabel(label).(*tview.InputField); ok {
		field.SetText(value)
	}
}

func (c *Controller) previewFormField(label string) string {
	if field, ok := c.previewForm.GetFormItemByLabel(label).(*tview.InputField); ok {
		return field.GetText()
	}

	return ""
}

func (c *Controller) savePreview() {
	s := c.session

	s.SetFields(preview.Fields{
		Name:        c.previewFormField("Name"),
		Designation: c.previewFormField("Designation"),
		Company:     c.previewFormField("Company"),
		Email:       c.previewFormField("Email"),
		Phone:       c.previewFormField("Phone"),
		Website:     c.previewFormField("Website"),
		Country:     c.previewFormField("Country"),
	})

	go func() {
		err := s.Save(c.ctx)

		c.app.QueueUpdateDraw(func() {
			if err != nil {
				c.toast(err.Error(), "error")

				return
			}

			c.pages.RemovePage("previewEdit")
			c.renderPreview()
			c.app.SetFocus(c.previewView)
			c.toast("Card updated successfully!", "success")
			c.reloadAfterDelay()
		})
	}()
}

// cancelPreviewEdit discards the drafts and returns to View mode without
// touching the server.
func (c *Controller) cancelPreviewEdit() {
	c.session.Cancel()
	c.pages.RemovePage("previewEdit")
	c.renderPreview()
	c.app.SetFocus(c.previewView)
}

// deletePreview removes the card, closes the panel, and patches the board in
// place rather than waiting on a reload.
func (c *Controller) deletePreview() {
	s := c.session
	cardID := s.Card().ID

	c.confirm(
		"Are you sure you want to delete this card? This action cannot be undone.",
		func() {
			go func() {
				err := s.Delete(c.ctx)

				c.app.QueueUpdateDraw(func() {
					if err != nil {
						c.toast(err.Error(), "error")

						return
					}

					c.session = nil
					c.board.Remove(cardID)
					c.refreshBoard()
					c.toast("Card deleted successfully!", "success")
				})
			}()
		},
	)
}

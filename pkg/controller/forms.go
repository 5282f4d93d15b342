package controller

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/cardscan-dev/cardboard/pkg/api"
	"github.com/cardscan-dev/cardboard/pkg/board"
)

// labelColorPresets mirrors the color swatches the label dialog offers.
var labelColorPresets = []string{"#0891b2", "#059669", "#dc2626", "#d97706", "#7c3aed", "#db2777"}

type moveTarget struct {
	labelID   int64 // 0 means unsorted
	labelName string
}

func (c *Controller) newModal(message string, buttons []string, done func(int, string)) *tview.Modal {
	return tview.NewModal().SetText(message).AddButtons(buttons).SetDoneFunc(done)
}

func formGrid(title string, form *tview.Form) *tview.Grid {
	header := tview.NewTextView().SetDynamicColors(true)
	header.SetText(fmt.Sprintf("[yellow]%s\n[orange]<Esc>[white] Back", title))

	grid := tview.NewGrid().SetBorders(true).SetRows(2, 0)
	grid.AddItem(header, 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(form, 1, 0, 1, 1, 0, 0, true)

	return grid
}

func (c *Controller) switchToForm(page string, form *tview.Form) {
	form.SetFocus(0)
	c.pages.SwitchToPage(page)
	c.app.SetInputCapture(c.handleFormKeys)
	c.app.SetFocus(form)
}

// --- label form (create + edit + delete) ---

func (c *Controller) getLabelFormGrid() *tview.Grid {
	const nameMax = 50

	c.labelForm = tview.NewForm().
		AddInputField("Name", "", nameMax, nil, nil).
		AddDropDown("Color", labelColorPresets, 0, nil)

	c.labelForm.AddButton("Save", c.saveLabel)
	c.labelForm.AddButton("Delete", c.deleteLabelFromForm)
	c.labelForm.AddButton("Cancel", func() { c.showBoard() })

	return formGrid("Label", c.labelForm)
}

func (c *Controller) newLabel(key *tcell.EventKey) *tcell.EventKey {
	c.editingLabel = nil

	c.labelFormName().SetText("")
	c.switchToForm("labelForm", c.labelForm)

	return nil
}

// editLabel opens the label form for the selected card's group.
func (c *Controller) editLabel(key *tcell.EventKey) *tcell.EventKey {
	entry := c.selectedEntry
	if entry == nil || entry.Card.LabelID == nil {
		c.toast("Select a labeled card first", "warning")

		return nil
	}

	name := ""
	if entry.Card.LabelName != nil {
		name = *entry.Card.LabelName
	}

	c.editingLabel = &api.Label{ID: *entry.Card.LabelID, Name: name}

	c.labelFormName().SetText(name)
	c.switchToForm("labelForm", c.labelForm)

	return nil
}

func (c *Controller) labelFormName() *tview.InputField {
	field, _ := c.labelForm.GetFormItemByLabel("Name").(*tview.InputField)

	return field
}

func (c *Controller) labelFormColor() string {
	dropdown, _ := c.labelForm.GetFormItemByLabel("Color").(*tview.DropDown)

	idx, _ := dropdown.GetCurrentOption()
	if idx < 0 || idx >= len(labelColorPresets) {
		return labelColorPresets[0]
	}

	return labelColorPresets[idx]
}

func (c *Controller) saveLabel() {
	name := c.labelFormName().GetText()
	if name == "" {
		c.toast("Please enter a label name", "error")

		return
	}

	color := c.labelFormColor()
	editing := c.editingLabel

	c.showBoard()

	if editing == nil {
		c.mutate("Label created successfully!", func(ctx context.Context) error {
			return c.client.CreateLabel(ctx, name, color)
		})
	} else {
		c.mutate("Label updated successfully!", func(ctx context.Context) error {
			return c.client.UpdateLabel(ctx, editing.ID, name, color)
		})
	}
}

func (c *Controller) deleteLabelFromForm() {
	editing := c.editingLabel
	if editing == nil {
		c.toast("Only existing labels can be deleted", "warning")

		return
	}

	c.confirm(
		fmt.Sprintf("Delete label %q?\n\nThis will remove the label from all cards and move them to unsorted. "+
			"This action cannot be undone.", editing.Name),
		func() {
			c.mutate("Label deleted successfully!", func(ctx context.Context) error {
				return c.client.DeleteLabel(ctx, editing.ID)
			})
		},
	)
}

// --- card edit form (the board's edit modal) ---

func (c *Controller) getCardFormGrid() *tview.Grid {
	const fieldMax = 100

	c.cardForm = tview.NewForm().
		AddInputField("Name", "", fieldMax, nil, nil).
		AddInputField("Designation", "", fieldMax, nil, nil).
		AddInputField("Company", "", fieldMax, nil, nil).
		AddInputField("Email", "", fieldMax, nil, nil).
		AddInputField("Phone", "", fieldMax, nil, nil).
		AddInputField("Website", "", fieldMax, nil, nil)

	c.cardForm.AddButton("Save", c.saveCard)
	c.cardForm.AddButton("Cancel", func() { c.showBoard() })

	return formGrid("Edit Card", c.cardForm)
}

func (c *Controller) editCard(key *tcell.EventKey) *tcell.EventKey {
	entry := c.selectedEntry
	if entry == nil {
		return nil
	}

	card := entry.Card
	c.editingCardID = card.ID

	c.setCardFormField("Name", card.Name)
	c.setCardFormField("Designation", card.Designation)
	c.setCardFormField("Company", card.Company)
	c.setCardFormField("Email", card.Email)
	c.setCardFormField("Phone", card.Phone)
	c.setCardFormField("Website", card.Website)

	c.switchToForm("cardForm", c.cardForm)

	return nil
}

func (c *Controller) setCardFormField(label, value string) {
	if field, ok := c.cardForm.GetFormItemByLabel(label).(*tview.InputField); ok {
		field.SetText(value)
	}
}

func (c *Controller) cardFormField(label string) string {
	if field, ok := c.cardForm.GetFormItemByLabel(label).(*tview.InputField); ok {
		return field.GetText()
	}

	return ""
}

func (c *Controller) saveCard() {
	cardID := c.editingCardID

	fields := api.CardFields{
		Name:        c.cardFormField("Name"),
		Designation: c.cardFormField("Designation"),
		Company:     c.cardFormField("Company"),
		Email:       c.cardFormField("Email"),
		Phone:       c.cardFormField("Phone"),
		Website:     c.cardFormField("Website"),
	}

	c.showBoard()

	c.mutate("Card updated successfully!", func(ctx context.Context) error {
		return c.client.UpdateCard(ctx, cardID, fields)
	})
}

// --- move form (the drag-reassignment analog) ---

func (c *Controller) getMoveFormGrid() *tview.Grid {
	c.moveForm = tview.NewForm().
		AddDropDown("Move to", []string{}, -1, nil)

	c.moveDropDown, _ = c.moveForm.GetFormItemByLabel("Move to").(*tview.DropDown)

	c.moveForm.AddButton("Move", c.saveMove)
	c.moveForm.AddButton("Cancel", func() { c.showBoard() })

	return formGrid("Move Card", c.moveForm)
}

func (c *Controller) switchToMoveForm(entry *board.Entry) {
	c.editingCardID = entry.Card.ID
	c.moveTargets = c.moveTargets[:0]

	options := []string{}

	if entry.Card.LabelID != nil {
		c.moveTargets = append(c.moveTargets, moveTarget{})
		options = append(options, "Unsorted")
	}

	for _, group := range c.board.Groups() {
		if entry.Card.LabelID != nil && *entry.Card.LabelID == group.LabelID {
			continue
		}

		c.moveTargets = append(c.moveTargets, moveTarget{labelID: group.LabelID, labelName: group.LabelName})
		options = append(options, group.LabelName)
	}

	c.moveDropDown.SetOptions(options, nil)
	c.moveDropDown.SetCurrentOption(-1)

	c.switchToForm("moveForm", c.moveForm)
}

func (c *Controller) saveMove() {
	idx, _ := c.moveDropDown.GetCurrentOption()
	if idx < 0 || idx >= len(c.moveTargets) {
		c.toast("Please select a label first", "error")

		return
	}

	target := c.moveTargets[idx]
	cardID := c.editingCardID

	c.showBoard()

	if target.labelID == 0 {
		c.mutate("Card moved to unsorted!", func(ctx context.Context) error {
			return c.client.RemoveLabel(ctx, cardID)
		})
	} else {
		c.mutate("Card moved successfully!", func(ctx context.Context) error {
			return c.client.AssignLabel(ctx, cardID, target.labelID, target.labelName)
		})
	}
}

// --- API key form ---

func (c *Controller) getAPIKeyFormGrid() *tview.Grid {
	const fieldMax = 100

	c.apiKeyForm = tview.NewForm().
		AddInputField("Username", "", fieldMax, nil, nil).
		AddInputField("Email", "", fieldMax, nil, nil).
		AddPasswordField("Password", "", fieldMax, '*', nil).
		AddInputField("Usage", "", fieldMax, nil, nil)

	c.apiKeyForm.AddButton("Generate", c.generateAPIKey)
	c.apiKeyForm.AddButton("Cancel", func() { c.showBoard() })

	return formGrid("Get API Key", c.apiKeyForm)
}

func (c *Controller) openAPIKeyForm(key *tcell.EventKey) *tcell.EventKey {
	for _, label := range []string{"Username", "Email", "Usage"} {
		if field, ok := c.apiKeyForm.GetFormItemByLabel(label).(*tview.InputField); ok {
			field.SetText("")
		}
	}

	c.switchToForm("apiKeyForm", c.apiKeyForm)

	return nil
}

func (c *Controller) apiKeyFormField(label string) string {
	if field, ok := c.apiKeyForm.GetFormItemByLabel(label).(*tview.InputField); ok {
		return field.GetText()
	}

	return ""
}

func (c *Controller) generateAPIKey() {
	username := c.apiKeyFormField("Username")
	email := c.apiKeyFormField("Email")
	usage := c.apiKeyFormField("Usage")

	password := ""
	if field, ok := c.apiKeyForm.GetFormItemByLabel("Password").(*tview.InputField); ok {
		password = field.GetText()
	}

	if username == "" || email == "" || password == "" {
		c.toast("Username, email, and password are required", "error")

		return
	}

	go func() {
		key, err := c.client.Register(c.ctx, username, email, password, usage)

		c.app.QueueUpdateDraw(func() {
			if err != nil {
				c.toast(fmt.Sprintf("Failed to generate API key: %s", err), "error")

				return
			}

			c.showBoard()
			c.toast(fmt.Sprintf("API key: %s", key), "success")
		})
	}()
}

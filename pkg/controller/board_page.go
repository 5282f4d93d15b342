package controller

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/cardscan-dev/cardboard/pkg/approval"
	"github.com/cardscan-dev/cardboard/pkg/board"
)

const boardColumns = 6

// boardRow is one selectable table row: either a group divider or a card.
type boardRow struct {
	group string
	entry *board.Entry
}

// BoardContent implements tview.TableContent over the flattened visible
// board: the unsorted group first, then one section per label.
type BoardContent struct {
	tview.TableContentReadOnly

	rows   []boardRow
	status func(cardID int64) approval.Status
}

// rebuild flattens the board's visible entries.
func (bc *BoardContent) rebuild(b *board.Board) {
	bc.rows = bc.rows[:0]

	bc.appendGroup("Unsorted", b.Unsorted())

	for _, group := range b.Groups() {
		bc.appendGroup(group.LabelName, group.Entries)
	}
}

func (bc *BoardContent) appendGroup(name string, entries []*board.Entry) {
	visible := make([]*board.Entry, 0, len(entries))

	for _, e := range entries {
		if e.Visible {
			visible = append(visible, e)
		}
	}

	if len(visible) == 0 {
		return
	}

	bc.rows = append(bc.rows, boardRow{group: fmt.Sprintf("%s (%d)", name, len(visible))})

	for _, e := range visible {
		bc.rows = append(bc.rows, boardRow{entry: e})
	}
}

func (bc *BoardContent) rowAt(row int) *boardRow {
	// adjust for the header row
	if idx := row - 1; idx >= 0 && idx < len(bc.rows) {
		return &bc.rows[idx]
	}

	return nil
}

// GetCell returns the cell at the given position or nil if no cell.
func (bc *BoardContent) GetCell(row, col int) *tview.TableCell {
	if row == 0 {
		headers := []string{"name", "company", "designation", "country", "email", "status"}

		return tview.NewTableCell(headers[col]).SetExpansion(1).
			SetTextColor(tcell.ColorYellow).SetSelectable(false)
	}

	r := bc.rowAt(row)
	if r == nil {
		return nil
	}

	if r.entry == nil {
		if col == 0 {
			return tview.NewTableCell(fmt.Sprintf("[::b][aqua]%s", r.group)).
				SetExpansion(1).SetSelectable(false)
		}

		return tview.NewTableCell("").SetSelectable(false)
	}

	card := r.entry.Card

	text := ""

	switch col {
	case 0:
		text = card.Name
	case 1:
		text = card.Company
	case 2:
		text = card.Designation
	case 3:
		text = fmt.Sprintf("%s %s", board.CountryFlag(card.Country), board.NormalizeCountry(card.Country))
	case 4:
		text = card.Email
	case 5:
		return tview.NewTableCell(string(bc.status(card.ID))).SetExpansion(1).
			SetTextColor(statusColor(bc.status(card.ID)))
	}

	cell := tview.NewTableCell(text).SetExpansion(1).SetReference(r.entry)

	if r.entry.Highlight {
		cell.SetTextColor(tcell.ColorGreen)
	}

	return cell
}

// GetRowCount returns the number of rows in the table.
func (bc *BoardContent) GetRowCount() int {
	return len(bc.rows) + 1
}

// GetColumnCount returns the number of columns in the table.
func (bc *BoardContent) GetColumnCount() int {
	return boardColumns
}

func statusColor(status approval.Status) tcell.Color {
	switch status {
	case approval.StatusApproved:
		return tcell.ColorGreen
	case approval.StatusRejected:
		return tcell.ColorRed
	case approval.StatusIssue:
		return tcell.ColorOrange
	default:
		return tcell.ColorGray
	}
}

func (c *Controller) getBoardGrid() *tview.Grid {
	c.headerView = tview.NewTextView().SetDynamicColors(true)
	c.headerView.SetScrollable(false)

	c.statusView = tview.NewTextView().SetDynamicColors(true)

	c.searchField = tview.NewInputField().SetLabel("Search: ")
	c.searchField.SetChangedFunc(func(text string) {
		c.board.Search(text)
		c.refreshBoard()
	})
	c.searchField.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			c.searchField.SetText("")
			c.board.Search("")
			c.refreshBoard()
		}

		c.app.SetFocus(c.boardTable)
	})

	c.boardContent = &BoardContent{status: c.store.Get}
	c.boardTable = tview.NewTable().SetBorders(false)
	c.boardTable.SetContent(c.boardContent)
	c.boardTable.SetSelectable(true, false)
	c.boardTable.SetSelectionChangedFunc(c.setCurrentRow)

	grid := tview.NewGrid().SetBorders(true).SetRows(4, 1, 0, 1)

	grid.AddItem(c.headerView, 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.searchField, 1, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.boardTable, 2, 0, 1, 1, 0, 0, true)
	grid.AddItem(c.statusView, 3, 0, 1, 1, 0, 0, false)

	return grid
}

// when the row selection changes, update the selected card entry.
func (c *Controller) setCurrentRow(row, col int) {
	if r := c.boardContent.rowAt(row); r != nil {
		c.selectedEntry = r.entry
	} else {
		c.selectedEntry = nil
	}
}

func (c *Controller) showBoard() {
	c.app.SetInputCapture(c.keyboard)
	c.refreshBoard()
	c.pages.SwitchToPage("board")
	c.app.SetFocus(c.boardTable)
}

func (c *Controller) refreshBoard() {
	c.boardContent.rebuild(c.board)
	c.updateHeader()

	row, _ := c.boardTable.GetSelection()
	if row >= c.boardContent.GetRowCount() {
		row = c.boardContent.GetRowCount() - 1
		c.boardTable.Select(row, 0)
	}

	// the rebuild invalidates entry pointers, so re-derive the selection
	c.setCurrentRow(row, 0)
}

// updateHeader redraws the counters and active filters; every search and
// filter operation funnels through here.
func (c *Controller) updateHeader() {
	unsorted, labeled := c.board.Counts()

	labelText := "all"
	if c.labelFilter != 0 {
		for _, g := range c.board.Groups() {
			if g.LabelID == c.labelFilter {
				labelText = g.LabelName

				break
			}
		}
	}

	countryText := c.countryFilter
	if countryText == "" {
		countryText = "all"
	}

	c.headerView.SetText(fmt.Sprintf(
		"[yellow]Card Board[white]  unsorted: [::b]%d[::-]  labeled: [::b]%d[::-]\n"+
			"label: %s  country: %s\n%s",
		unsorted, labeled, labelText, countryText, c.shortcutLine(),
	))
}

func (c *Controller) shortcutLine() string {
	shortcuts := make([]string, 0, len(c.events))

	for key, event := range c.events {
		shortcuts = append(shortcuts, fmt.Sprintf("[orange]<%s>[white] %s", keyName(key), event.Description))
	}

	sort.Strings(shortcuts)

	line := ""

	for i, s := range shortcuts {
		if i > 0 {
			line += "  "
		}

		line += s
	}

	return line
}

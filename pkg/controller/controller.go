// Package controller wires the card board, preview panel, forms, and upload
// intake into a terminal UI. All server state is re-fetched wholesale after
// every mutation; the controller never merges incremental updates.
package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"github.com/cardscan-dev/cardboard/pkg/api"
	"github.com/cardscan-dev/cardboard/pkg/approval"
	"github.com/cardscan-dev/cardboard/pkg/board"
	"github.com/cardscan-dev/cardboard/pkg/preview"
	"github.com/cardscan-dev/cardboard/pkg/staging"
)

// reloadDelay leaves the success toast on screen before the board refresh.
const reloadDelay = time.Second

// Controller mediates between the backend, the local stores, and the view.
type Controller struct {
	ctx    context.Context
	client *api.Client
	store  *approval.Store
	intake *staging.Intake

	board         *board.Board
	selectedEntry *board.Entry

	app   *tview.Application
	pages *tview.Pages

	boardContent *BoardContent
	boardTable   *tview.Table
	headerView   *tview.TextView
	statusView   *tview.TextView
	searchField  *tview.InputField

	labelFilter    int64
	countryFilter  string
	countryOptions []string

	events     map[tcell.Key]KeyEvent
	formEvents map[tcell.Key]KeyEvent

	labelForm     *tview.Form
	cardForm      *tview.Form
	apiKeyForm    *tview.Form
	moveForm      *tview.Form
	moveDropDown  *tview.DropDown
	moveTargets   []moveTarget
	editingLabel  *api.Label
	editingCardID int64

	session     *preview.Session
	previewView *tview.TextView
	previewForm *tview.Form

	uploadList   *tview.TextView
	uploadInput  *tview.InputField
	recentView   *tview.TextView
	progressView *tview.TextView

	downloadDir string
}

// KeyEvent defines an event associated with a keypress.
type KeyEvent struct {
	Description string
	Action      func(*tcell.EventKey) *tcell.EventKey
}

// NewController creates a Controller over an initial board snapshot.
func NewController(
	ctx context.Context,
	client *api.Client,
	store *approval.Store,
	intake *staging.Intake,
	cards []board.Card,
	downloadDir string,
) (*Controller, error) {
	c := Controller{
		ctx:         ctx,
		client:      client,
		store:       store,
		intake:      intake,
		board:       board.New(cards),
		app:         tview.NewApplication(),
		pages:       tview.NewPages(),
		downloadDir: downloadDir,
	}

	initKeys()
	c.initEvents()

	return &c, nil
}

// Go builds the pages and runs the app until exit.
func (c *Controller) Go() error {
	c.pages.AddPage("board", c.getBoardGrid(), true, true)
	c.pages.AddPage("preview", c.getPreviewGrid(), true, false)
	c.pages.AddPage("labelForm", c.getLabelFormGrid(), true, false)
	c.pages.AddPage("cardForm", c.getCardFormGrid(), true, false)
	c.pages.AddPage("apiKeyForm", c.getAPIKeyFormGrid(), true, false)
	c.pages.AddPage("moveForm", c.getMoveFormGrid(), true, false)
	c.pages.AddPage("upload", c.getUploadGrid(), true, false)

	c.showBoard()
	c.loadCountryOptions()

	if err := c.app.SetRoot(c.pages, true).SetFocus(c.pages).Run(); err != nil {
		return fmt.Errorf("error running application: %w", err)
	}

	return nil
}

func (c *Controller) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	// typing in the search box must not trigger shortcuts
	if c.app.GetFocus() == c.searchField {
		return evt
	}

	key := AsKey(evt)
	if k, ok := c.events[key]; ok {
		return k.Action(evt)
	}

	return evt
}

// toast shows a transient message on the status line.
func (c *Controller) toast(message, level string) {
	color := "green"

	switch level {
	case "error":
		color = "red"
	case "warning":
		color = "orange"
	case "info":
		color = "blue"
	}

	c.statusView.SetText(fmt.Sprintf("[%s]%s", color, message))

	log.Info().Str("level", level).Msg(message)
}

// reload re-fetches the board snapshot from the server and re-renders. All
// intermediate state collapses into whatever the server reports.
func (c *Controller) reload() {
	go func() {
		body, err := c.client.ManagePage(c.ctx)
		if err != nil {
			c.app.QueueUpdateDraw(func() {
				c.toast(fmt.Sprintf("Error refreshing board: %s", err), "error")
			})

			return
		}
		defer body.Close()

		cards, err := board.ExtractSnapshot(body)
		if err != nil {
			c.app.QueueUpdateDraw(func() {
				c.toast(fmt.Sprintf("Error reading board: %s", err), "error")
			})

			return
		}

		c.app.QueueUpdateDraw(func() {
			c.board = board.New(cards)
			c.board.Search(c.searchField.GetText())
			c.board.Filter(c.labelFilter, c.countryFilter)
			c.refreshBoard()
		})
	}()
}

// loadCountryOptions populates the country filter from the backend, falling
// back to the local table when the endpoint fails.
func (c *Controller) loadCountryOptions() {
	go func() {
		countries, err := c.client.Countries(c.ctx)
		if err != nil {
			log.Warn().Err(err).Msg("countries endpoint failed, using local fallback")

			countries = board.FallbackCountries()
		}

		options := board.CountryOptions(countries)

		c.app.QueueUpdateDraw(func() {
			c.countryOptions = options
		})
	}()
}

// reloadAfterDelay schedules a reload once the success toast has been seen.
func (c *Controller) reloadAfterDelay() {
	time.AfterFunc(reloadDelay, c.reload)
}

// mutate runs a backend call off the event loop, then either toasts the
// failure or toasts success and schedules the reload.
func (c *Controller) mutate(success string, call func(context.Context) error) {
	go func() {
		err := call(c.ctx)

		c.app.QueueUpdateDraw(func() {
			if err != nil {
				c.toast(err.Error(), "error")

				return
			}

			c.toast(success, "success")
			c.reloadAfterDelay()
		})
	}()
}

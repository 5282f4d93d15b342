package controller

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"github.com/cardscan-dev/cardboard/pkg/staging"
)

const progressInterval = 300 * time.Millisecond

func (c *Controller) getUploadGrid() *tview.Grid {
	header := tview.NewTextView().SetDynamicColors(true)
	header.SetText("[yellow]Upload Cards\n" +
		"[orange]<Enter>[white] Stage file  [orange]<Ctrl-U>[white] Upload  " +
		"[orange]<Ctrl-X>[white] Clear  [orange]<Esc>[white] Back")

	c.uploadInput = tview.NewInputField().SetLabel("File path: ").SetFieldWidth(60)
	c.uploadInput.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			c.stageFile()
		}
	})

	c.uploadList = tview.NewTextView().SetDynamicColors(true)
	c.uploadList.SetBorder(true).SetTitle(" Staged Files ")

	c.progressView = tview.NewTextView().SetDynamicColors(true)

	c.recentView = tview.NewTextView().SetDynamicColors(true)
	c.recentView.SetBorder(true).SetTitle(" Recent Extractions ")

	grid := tview.NewGrid().SetBorders(false).SetRows(3, 1, 0, 1, 8)
	grid.AddItem(header, 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.uploadInput, 1, 0, 1, 1, 0, 0, true)
	grid.AddItem(c.uploadList, 2, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.progressView, 3, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.recentView, 4, 0, 1, 1, 0, 0, false)

	return grid
}

func (c *Controller) showUpload(key *tcell.EventKey) *tcell.EventKey {
	c.renderStaged()
	c.progressView.SetText("")

	c.pages.SwitchToPage("upload")
	c.app.SetInputCapture(c.handleUploadKeys)
	c.app.SetFocus(c.uploadInput)

	c.fetchRecent()

	return nil
}

func (c *Controller) handleUploadKeys(evt *tcell.EventKey) *tcell.EventKey {
	switch evt.Key() {
	case tcell.KeyEscape:
		if c.intake.InProgress() {
			return nil
		}

		return c.backToBoard(evt)
	case tcell.KeyCtrlU:
		c.submitUpload()

		return nil
	case tcell.KeyCtrlX:
		c.intake.Clear()
		c.renderStaged()

		return nil
	}

	return evt
}

// stageFile validates and stages the path in the input field.
func (c *Controller) stageFile() {
	path := strings.TrimSpace(c.uploadInput.GetText())
	if path == "" {
		return
	}

	if _, err := c.intake.Add(path); err != nil {
		c.toast(err.Error(), "error")

		return
	}

	c.uploadInput.SetText("")
	c.renderStaged()
}

func (c *Controller) renderStaged() {
	files := c.intake.Files()
	if len(files) == 0 {
		c.uploadList.SetText("[gray]No files selected")

		return
	}

	var b strings.Builder

	fmt.Fprintf(&b, "[yellow]%s selected[white]\n\n", c.intake.CountLabel())
	for _, f := range files {
		fmt.Fprintf(&b, "  %s [gray](%d bytes)[white]\n", f.Name, f.Size)
	}

	c.uploadList.SetText(b.String())
}

// submitUpload ships the staged batch, mirrors the returned flash messages,
// and re-fetches the board and recent feed.
func (c *Controller) submitUpload() {
	if err := c.intake.Begin(); err != nil {
		c.toast(err.Error(), "warning")

		return
	}

	batch, closeAll, err := c.intake.Batch()
	if err != nil {
		c.intake.Finish()
		c.toast(err.Error(), "error")

		return
	}

	stop := staging.SyntheticProgress(progressInterval, func(pct int) {
		c.app.QueueUpdateDraw(func() {
			c.progressView.SetText(fmt.Sprintf("[blue]Uploading... %d%%", pct))
		})
	})

	go func() {
		fragment, err := c.client.Upload(c.ctx, batch)

		stop()
		closeAll()

		c.app.QueueUpdateDraw(func() {
			c.intake.Finish()
			c.progressView.SetText("")

			if err != nil {
				c.toast(fmt.Sprintf("Upload failed: %s", err), "error")

				return
			}

			c.intake.Clear()
			c.renderStaged()
			c.showFlashes(fragment)
			c.fetchRecent()
			c.reload()
		})
	}()
}

// showFlashes redisplays the server's flash messages from the response
// fragment, most recent last on the status line.
func (c *Controller) showFlashes(fragment string) {
	flashes := staging.ExtractFlashes(fragment)
	if len(flashes) == 0 {
		c.toast("Upload complete", "success")

		return
	}

	for _, flash := range flashes {
		c.toast(flash.Message, flash.Level)
	}
}

// fetchRecent refreshes the recent-extractions feed.
func (c *Controller) fetchRecent() {
	go func() {
		extractions, err := c.client.Recent(c.ctx)

		c.app.QueueUpdateDraw(func() {
			if err != nil {
				log.Error().Err(err).Msg("failed to fetch recent extractions")
				c.recentView.SetText("[gray]Recent extractions unavailable")

				return
			}

			if len(extractions) == 0 {
				c.recentView.SetText("[gray]No extractions yet")

				return
			}

			var b strings.Builder

			for _, e := range extractions {
				fmt.Fprintf(&b, "[green]%s[white]  %s  [gray]%s[white]\n", e.Name, e.Company, e.Filename)
			}

			c.recentView.SetText(b.String())
		})
	}()
}

// downloadExcel streams the export into the download directory and returns
// the written path.
func (c *Controller) downloadExcel() (string, error) {
	if err := os.MkdirAll(c.downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("error creating download directory: %w", err)
	}

	path := filepath.Join(c.downloadDir, fmt.Sprintf("cards_%s.xlsx", time.Now().Format("20060102_150405")))

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating export file: %w", err)
	}

	if err := c.client.DownloadExcel(c.ctx, out); err != nil {
		out.Close()
		os.Remove(path)

		return "", err
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("error writing export file: %w", err)
	}

	return path, nil
}

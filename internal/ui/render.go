package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/pixhub/internal/gallery"
	"github.com/ytget/pixhub/internal/model"
)

// render brings the widgets in line with st. Runs on the UI goroutine.
func (ui *RootUI) render(st gallery.State) {
	first := !ui.renderedOnce
	if first {
		ui.setSearchText(st.SearchText)
	}

	ui.renderStatus(st)
	ui.renderGrid(st, first)
	ui.renderSaved(st, first)
	ui.renderDownloads(st, first)
	ui.upload.Render(st)

	if st.BackToTopVisible {
		ui.backToTop.Show()
	} else {
		ui.backToTop.Hide()
	}

	ui.rendered = st
	ui.renderedOnce = true
}

func (ui *RootUI) renderStatus(st gallery.State) {
	if st.ContentType == model.MediaTypeVideo {
		ui.imagesBtn.Importance = widget.LowImportance
		ui.videosBtn.Importance = widget.HighImportance
	} else {
		ui.imagesBtn.Importance = widget.HighImportance
		ui.videosBtn.Importance = widget.LowImportance
	}
	ui.imagesBtn.Refresh()
	ui.videosBtn.Refresh()

	if st.Loading {
		ui.spinner.Show()
		ui.spinner.Start()
	} else {
		ui.spinner.Stop()
		ui.spinner.Hide()
	}

	switch {
	case st.Error != "":
		ui.statusLabel.Importance = widget.DangerImportance
		ui.statusLabel.SetText(st.Error)
	case st.Loading:
		ui.statusLabel.Importance = widget.MediumImportance
		ui.statusLabel.SetText(ui.localization.GetText(KeyLoading))
	case len(st.Items) == 0:
		ui.statusLabel.Importance = widget.MediumImportance
		ui.statusLabel.SetText(ui.localization.GetText(KeyNothingFound))
	default:
		ui.statusLabel.Importance = widget.MediumImportance
		ui.statusLabel.SetText("")
	}
}

// renderGrid rebuilds the cards when the listing changed and otherwise only
// flips their save toggles.
func (ui *RootUI) renderGrid(st gallery.State, force bool) {
	if force || !sameItems(st.Items, ui.rendered.Items) {
		cards := make(map[model.ItemID]*MediaCard, len(st.Items))
		objects := make([]fyne.CanvasObject, 0, len(st.Items))
		for _, item := range st.Items {
			card := NewMediaCard(item, st.IsSaved(item.ID), ui.assetURL(item), ui.thumbs, ui.cardActions(), ui.localization)
			cards[item.ID] = card
			objects = append(objects, card)
		}
		ui.cards = cards
		ui.grid.Objects = objects
		ui.grid.Refresh()
		if !force {
			ui.scroll.ScrollToTop()
		}
		return
	}

	if !st.Saved.SameIDs(ui.rendered.Saved) {
		for id, card := range ui.cards {
			card.SetSaved(st.IsSaved(id))
		}
	}
}

func (ui *RootUI) renderSaved(st gallery.State, force bool) {
	if !force && st.Saved.SameIDs(ui.rendered.Saved) {
		return
	}
	items := st.Saved.Items()
	objects := make([]fyne.CanvasObject, 0, len(items))
	for _, item := range items {
		objects = append(objects, NewMediaCard(item, true, ui.assetURL(item), ui.thumbs, ui.cardActions(), ui.localization))
	}
	ui.savedGrid.Objects = objects
	ui.savedGrid.Refresh()

	if len(items) == 0 {
		ui.savedEmpty.Show()
	} else {
		ui.savedEmpty.Hide()
	}
}

// renderDownloads reuses rows by task id so progress updates do not
// rebuild the list.
func (ui *RootUI) renderDownloads(st gallery.State, force bool) {
	rows := make(map[string]*TaskRow, len(st.Downloads))
	objects := make([]fyne.CanvasObject, 0, len(st.Downloads))
	changed := force || len(st.Downloads) != len(ui.rows)

	// newest first
	for i := len(st.Downloads) - 1; i >= 0; i-- {
		task := st.Downloads[i]
		row, ok := ui.rows[task.ID]
		if ok && !force {
			row.UpdateTask(task)
		} else {
			row = NewTaskRow(task, ui.localization)
			row.SetCallbacks(ui.session.StopDownload, ui.onOpenFile, ui.onRevealFile, ui.session.RemoveDownload)
			changed = true
		}
		rows[task.ID] = row
		objects = append(objects, row)
	}
	ui.rows = rows

	if changed {
		ui.downloadsBox.Objects = objects
		ui.downloadsBox.Refresh()
	}
	if len(objects) == 0 {
		ui.downloadsEmpty.Show()
	} else {
		ui.downloadsEmpty.Hide()
	}
}

func sameItems(a, b []model.MediaItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

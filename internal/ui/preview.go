package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/pixhub/internal/model"
)

// showPreview opens a larger view of item with its description and the
// same save and download actions as the card.
func (ui *RootUI) showPreview(item model.MediaItem) {
	img := canvas.NewImageFromResource(placeholderFor(item.IsVideo()))
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(PreviewWidth-40, PreviewHeight-180))

	assetURL := ui.assetURL(item)
	if !item.IsVideo() && assetURL != "" {
		ui.thumbs.Load(assetURL, func(res fyne.Resource) {
			img.Resource = res
			img.Refresh()
		})
	}

	desc := widget.NewLabel(item.Description)
	desc.Wrapping = fyne.TextWrapWord
	if item.Description == "" {
		desc.Hide()
	}

	saveBtn := widget.NewButtonWithIcon(ui.localization.GetText(KeySave), theme.ContentAddIcon(), func() {
		ui.session.Save(item)
	})
	saveBtn.Importance = widget.HighImportance
	downloadBtn := widget.NewButtonWithIcon(ui.localization.GetText(KeyDownload), theme.DownloadIcon(), func() {
		ui.session.Download(item)
	})

	var actions *fyne.Container
	if item.IsVideo() && assetURL != "" {
		// Videos are played by the system player straight from the catalog.
		playBtn := widget.NewButtonWithIcon(ui.localization.GetText(KeyOpen), theme.MediaPlayIcon(), func() {
			ui.openURL(assetURL)
		})
		actions = container.NewHBox(saveBtn, downloadBtn, playBtn)
	} else {
		actions = container.NewHBox(saveBtn, downloadBtn)
	}

	content := container.NewBorder(nil, container.NewVBox(desc, actions), nil, nil, img)
	d := dialog.NewCustom(item.DisplayTitle(), IconClose, content, ui.window)
	d.Resize(fyne.NewSize(PreviewWidth, PreviewHeight))
	d.Show()
}

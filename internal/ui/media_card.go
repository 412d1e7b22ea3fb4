package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/pixhub/internal/model"
)

// CardActions are the callbacks a MediaCard triggers
type CardActions struct {
	OnSave     func(model.MediaItem)
	OnRemove   func(model.ItemID)
	OnDownload func(model.MediaItem)
	OnPreview  func(model.MediaItem)
}

// MediaCard shows one catalog item in the grid
type MediaCard struct {
	widget.BaseWidget

	item    model.MediaItem
	saved   bool
	actions CardActions
	loc     *Localization

	image       *canvas.Image
	titleLabel  *widget.Label
	saveBtn     *widget.Button
	downloadBtn *widget.Button
	previewBtn  *widget.Button
}

// NewMediaCard creates a card for item. thumbURL is the resolved asset URL;
// videos keep their placeholder icon.
func NewMediaCard(item model.MediaItem, saved bool, thumbURL string, thumbs *ThumbnailLoader, actions CardActions, loc *Localization) *MediaCard {
	c := &MediaCard{item: item, saved: saved, actions: actions, loc: loc}
	c.ExtendBaseWidget(c)
	c.createUI()
	c.update()

	if !item.IsVideo() && thumbURL != "" && thumbs != nil {
		thumbs.Load(thumbURL, func(res fyne.Resource) {
			c.image.Resource = res
			c.image.Refresh()
		})
	}
	return c
}

func (c *MediaCard) createUI() {
	c.image = canvas.NewImageFromResource(placeholderFor(c.item.IsVideo()))
	c.image.FillMode = canvas.ImageFillContain
	c.image.SetMinSize(fyne.NewSize(CardWidth, ThumbHeight))

	c.titleLabel = widget.NewLabel("")
	c.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	c.titleLabel.Truncation = fyne.TextTruncateEllipsis

	c.saveBtn = widget.NewButton("", func() {
		if c.saved {
			if c.actions.OnRemove != nil {
				c.actions.OnRemove(c.item.ID)
			}
			return
		}
		if c.actions.OnSave != nil {
			c.actions.OnSave(c.item)
		}
	})

	c.downloadBtn = widget.NewButtonWithIcon("", theme.DownloadIcon(), func() {
		if c.actions.OnDownload != nil {
			c.actions.OnDownload(c.item)
		}
	})

	c.previewBtn = widget.NewButtonWithIcon("", theme.VisibilityIcon(), func() {
		if c.actions.OnPreview != nil {
			c.actions.OnPreview(c.item)
		}
	})
	c.previewBtn.Importance = widget.LowImportance
}

// SetSaved updates the save toggle
func (c *MediaCard) SetSaved(saved bool) {
	if c.saved == saved {
		return
	}
	c.saved = saved
	c.update()
}

func (c *MediaCard) update() {
	title := c.item.DisplayTitle()
	if c.item.IsVideo() {
		title = IconVideo + " " + title
	}
	c.titleLabel.SetText(title)

	if c.saved {
		c.saveBtn.SetText(IconSaved + " " + c.loc.GetText(KeyRemove))
		c.saveBtn.Importance = widget.DangerImportance
	} else {
		c.saveBtn.SetText(c.loc.GetText(KeySave))
		c.saveBtn.Importance = widget.HighImportance
	}
	c.saveBtn.Refresh()
}

// CreateRenderer implements fyne.Widget
func (c *MediaCard) CreateRenderer() fyne.WidgetRenderer {
	actions := container.NewHBox(c.saveBtn, c.downloadBtn, c.previewBtn)
	body := container.NewBorder(nil, container.NewVBox(c.titleLabel, actions), nil, nil, c.image)
	return widget.NewSimpleRenderer(body)
}

package ui

import (
	"slices"
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/pixhub/internal/gallery"
	"github.com/ytget/pixhub/internal/model"
	"github.com/ytget/pixhub/internal/upload"
)

// UploadPanel is the upload tab
type UploadPanel struct {
	session      *gallery.Session
	window       fyne.Window
	localization *Localization

	titleEntry    *widget.Entry
	fileEntry     *widget.Entry
	typeSelect    *widget.Select
	categorySel   *widget.Select
	descEntry     *widget.Entry
	submitBtn     *widget.Button
	errorLabel    *widget.Label
	spinner       *widget.ProgressBarInfinite
	form          *widget.Form
	content       fyne.CanvasObject
	categoryIDs   map[string]int64 // name -> id
	categoryNames []string
}

// NewUploadPanel creates the upload tab content
func NewUploadPanel(session *gallery.Session, window fyne.Window, localization *Localization) *UploadPanel {
	p := &UploadPanel{
		session:      session,
		window:       window,
		localization: localization,
		categoryIDs:  make(map[string]int64),
	}
	p.createUI()
	return p
}

// Content returns the panel's root object
func (p *UploadPanel) Content() fyne.CanvasObject {
	return p.content
}

func (p *UploadPanel) createUI() {
	p.titleEntry = widget.NewEntry()

	p.fileEntry = widget.NewEntry()
	browseBtn := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), p.onBrowseFile)
	fileRow := container.NewBorder(nil, nil, nil, browseBtn, p.fileEntry)

	p.typeSelect = widget.NewSelect(nil, nil)
	p.categorySel = widget.NewSelect(nil, nil)

	p.descEntry = widget.NewMultiLineEntry()
	p.descEntry.SetMinRowsVisible(3)

	p.errorLabel = widget.NewLabel("")
	p.errorLabel.Importance = widget.DangerImportance
	p.errorLabel.Wrapping = fyne.TextWrapWord
	p.errorLabel.Hide()

	p.spinner = widget.NewProgressBarInfinite()
	p.spinner.Hide()

	p.submitBtn = widget.NewButtonWithIcon("", theme.UploadIcon(), p.onSubmit)
	p.submitBtn.Importance = widget.HighImportance

	p.form = widget.NewForm(
		widget.NewFormItem("", p.titleEntry),
		widget.NewFormItem("", fileRow),
		widget.NewFormItem("", p.typeSelect),
		widget.NewFormItem("", p.categorySel),
		widget.NewFormItem("", p.descEntry),
	)

	body := container.NewVBox(p.form, p.errorLabel, p.spinner, container.NewHBox(p.submitBtn))
	p.content = container.NewCenter(container.NewGridWrap(fyne.NewSize(UploadFormWide, body.MinSize().Height+40), body))
	p.RefreshTexts()
}

// RefreshTexts applies the current language
func (p *UploadPanel) RefreshTexts() {
	t := p.localization.GetText
	p.form.Items[0].Text = t(KeyTitle)
	p.form.Items[1].Text = t(KeyFile)
	p.form.Items[2].Text = t(KeyMediaType)
	p.form.Items[3].Text = t(KeyCategory)
	p.form.Items[4].Text = t(KeyDescription)
	p.form.Refresh()

	selected := p.typeSelect.SelectedIndex()
	p.typeSelect.Options = []string{t(KeyAutoDetect), t(KeyImages), t(KeyVideos)}
	if selected < 0 {
		selected = 0
	}
	p.typeSelect.SetSelectedIndex(selected)
	p.submitBtn.SetText(t(KeySubmit))
}

// Render updates the panel from the gallery state
func (p *UploadPanel) Render(st gallery.State) {
	p.setCategories(st.Categories)

	if st.UploadError != "" {
		p.errorLabel.SetText(st.UploadError)
		p.errorLabel.Show()
	} else {
		p.errorLabel.Hide()
	}

	if st.Uploading {
		p.spinner.Show()
		p.submitBtn.Disable()
	} else {
		p.spinner.Hide()
		p.submitBtn.Enable()
	}
}

func (p *UploadPanel) setCategories(cats []model.Category) {
	names := make([]string, 0, len(cats))
	ids := make(map[string]int64, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
		ids[c.Name] = c.ID
	}
	sort.Strings(names)
	if slices.Equal(names, p.categoryNames) {
		return
	}
	p.categoryNames = names
	p.categoryIDs = ids
	p.categorySel.Options = names
	if _, ok := ids[p.categorySel.Selected]; !ok {
		p.categorySel.ClearSelected()
	}
	p.categorySel.Refresh()
}

func (p *UploadPanel) onBrowseFile() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		p.fileEntry.SetText(reader.URI().Path())
	}, p.window)
}

func (p *UploadPanel) formValue() upload.Form {
	form := upload.Form{
		Title:       p.titleEntry.Text,
		FilePath:    p.fileEntry.Text,
		Description: p.descEntry.Text,
	}
	switch p.typeSelect.SelectedIndex() {
	case 1:
		form.MediaType = model.MediaTypeImage
	case 2:
		form.MediaType = model.MediaTypeVideo
	}
	if id, ok := p.categoryIDs[p.categorySel.Selected]; ok {
		form.Category = strconv.FormatInt(id, 10)
	}
	return form
}

func (p *UploadPanel) onSubmit() {
	result := p.session.Upload(p.formValue())
	go func() {
		if err := <-result; err == nil {
			fyne.Do(p.reset)
		}
	}()
}

func (p *UploadPanel) reset() {
	p.titleEntry.SetText("")
	p.fileEntry.SetText("")
	p.descEntry.SetText("")
	p.typeSelect.SetSelectedIndex(0)
	p.categorySel.ClearSelected()
}

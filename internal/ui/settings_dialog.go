package ui

import (
	"sort"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/ytget/pixhub/internal/config"
	"github.com/ytget/pixhub/internal/store"
)

// SettingsDialog edits the persisted user settings and the API token
type SettingsDialog struct {
	settings     *config.Settings
	tokens       store.Store
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	downloadDirEntry *widget.Entry
	maxParallelEntry *widget.Entry
	languageSelect   *widget.Select
	tokenEntry       *widget.Entry

	languageCodes map[string]string // label -> code
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after the
// values have been written.
func NewSettingsDialog(settings *config.Settings, tokens store.Store, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		tokens:       tokens,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(t(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.maxParallelEntry = widget.NewEntry()
	sd.maxParallelEntry.SetPlaceHolder(strconv.Itoa(config.MinParallel) + "-" + strconv.Itoa(config.MaxParallel))

	sd.languageCodes = make(map[string]string)
	var labels []string
	for code, label := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[label] = code
		labels = append(labels, label)
	}
	sort.Strings(labels)
	sd.languageSelect = widget.NewSelect(labels, nil)

	sd.tokenEntry = widget.NewPasswordEntry()

	form := widget.NewForm(
		widget.NewFormItem(t(KeyDownloadDirectory), downloadDirRow),
		widget.NewFormItem(t(KeyMaxParallel), sd.maxParallelEntry),
		widget.NewFormItem(t(KeyLanguage), sd.languageSelect),
		widget.NewFormItem(t(KeyAPIToken), sd.tokenEntry),
	)

	sd.dialog = dialog.NewCustomConfirm(
		t(KeySettings),
		t(KeySave),
		t(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(520, 320))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.maxParallelEntry.SetText(strconv.Itoa(sd.settings.GetMaxParallelDownloads()))
	sd.languageSelect.SetSelected(sd.settings.GetLanguageOptions()[sd.settings.GetLanguage()])
	token, _ := sd.tokens.Get(store.KeyAuthToken)
	sd.tokenEntry.SetText(token)
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if dir := strings.TrimSpace(sd.downloadDirEntry.Text); dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}

	if n, err := strconv.Atoi(strings.TrimSpace(sd.maxParallelEntry.Text)); err == nil {
		sd.settings.SetMaxParallelDownloads(n)
	}

	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}

	if err := sd.tokens.Set(store.KeyAuthToken, strings.TrimSpace(sd.tokenEntry.Text)); err != nil {
		logrus.WithError(err).Warn("API token not saved")
	}

	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

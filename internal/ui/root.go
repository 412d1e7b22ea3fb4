package ui

import (
	"net/url"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/ytget/pixhub/internal/catalog"
	"github.com/ytget/pixhub/internal/config"
	"github.com/ytget/pixhub/internal/download"
	"github.com/ytget/pixhub/internal/gallery"
	"github.com/ytget/pixhub/internal/model"
	"github.com/ytget/pixhub/internal/notify"
	"github.com/ytget/pixhub/internal/platform"
	"github.com/ytget/pixhub/internal/store"
)

// Deps are the services the window talks to
type Deps struct {
	Session   *gallery.Session
	Bus       *notify.Bus
	Client    *catalog.Client
	Downloads download.Downloader
	Settings  *config.Settings
	Tokens    store.Store
}

// RootUI represents the main window
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	session      *gallery.Session
	bus          *notify.Bus
	client       *catalog.Client
	downloads    download.Downloader
	settings     *config.Settings
	tokens       store.Store
	localization *Localization
	thumbs       *ThumbnailLoader
	log          *logrus.Entry

	tabs         *container.AppTabs
	homeTab      *container.TabItem
	savedTab     *container.TabItem
	downloadsTab *container.TabItem
	uploadTab    *container.TabItem

	searchEntry *widget.Entry
	speakBtn    *widget.Button
	imagesBtn   *widget.Button
	videosBtn   *widget.Button
	refreshBtn  *widget.Button
	statusLabel *widget.Label
	spinner     *widget.ProgressBarInfinite
	grid        *fyne.Container
	scroll      *container.Scroll
	backToTop   *widget.Button

	savedGrid      *fyne.Container
	savedEmpty     *widget.Label
	downloadsBox   *fyne.Container
	downloadsEmpty *widget.Label
	upload         *UploadPanel

	// UI goroutine only
	cards         map[model.ItemID]*MediaCard
	rows          map[string]*TaskRow
	rendered      gallery.State
	renderedOnce  bool
	syncingSearch bool
	toasts        []*widget.PopUp
	unsubscribe   func()
}

// NewRootUI creates and initializes the main window content. Call Close
// when the window goes away.
func NewRootUI(window fyne.Window, app fyne.App, deps Deps) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(deps.Settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		app:          app,
		session:      deps.Session,
		bus:          deps.Bus,
		client:       deps.Client,
		downloads:    deps.Downloads,
		settings:     deps.Settings,
		tokens:       deps.Tokens,
		localization: localization,
		thumbs:       NewThumbnailLoader(ThumbnailCacheTTL),
		log:          logrus.WithField("component", "ui"),
		cards:        make(map[model.ItemID]*MediaCard),
		rows:         make(map[string]*TaskRow),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	window.SetIcon(LoadLogoResource())
	ui.setupUI()

	ui.unsubscribe = ui.bus.Subscribe(func(n notify.Notification) {
		fyne.Do(func() { ui.showToast(n) })
	})
	ui.session.OnChange(func(st gallery.State) {
		fyne.Do(func() { ui.render(st) })
	})
	return ui
}

// Close detaches the window from the notification bus
func (ui *RootUI) Close() {
	if ui.unsubscribe != nil {
		ui.unsubscribe()
	}
}

func (ui *RootUI) setupUI() {
	ui.createMenu()

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	logo := canvas.NewImageFromResource(LoadLogoResource())
	logo.SetMinSize(fyne.NewSize(32, 32))
	logo.FillMode = canvas.ImageFillContain

	ui.searchEntry = widget.NewEntry()
	ui.searchEntry.OnChanged = ui.onSearchChanged
	ui.searchEntry.OnSubmitted = func(text string) { ui.session.OnTranscript(text) }
	ui.searchEntry.ActionItem = widget.NewButtonWithIcon("", theme.ContentClearIcon(), func() {
		ui.setSearchText("")
		ui.session.ClearSearch()
	})

	ui.speakBtn = widget.NewButtonWithIcon("", theme.MediaRecordIcon(), ui.onSpeak)
	ui.refreshBtn = widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), ui.session.Refresh)

	topRow := container.NewBorder(nil, nil,
		container.NewHBox(logo, settingsBtn),
		container.NewHBox(ui.speakBtn, ui.refreshBtn),
		ui.searchEntry)

	chips := container.NewHBox()
	for _, topic := range gallery.Topics() {
		chip := widget.NewButton(topic, func() {
			ui.setSearchText(topic)
			ui.settings.SetLastSearch(topic)
			ui.session.SearchTopic(topic)
		})
		chip.Importance = widget.LowImportance
		chips.Add(chip)
	}

	ui.imagesBtn = widget.NewButtonWithIcon("", theme.FileImageIcon(), func() { ui.setContentType(model.MediaTypeImage) })
	ui.videosBtn = widget.NewButtonWithIcon("", theme.FileVideoIcon(), func() { ui.setContentType(model.MediaTypeVideo) })

	ui.statusLabel = widget.NewLabel("")
	ui.spinner = widget.NewProgressBarInfinite()
	ui.spinner.Hide()

	filterRow := container.NewBorder(nil, nil, container.NewHBox(ui.imagesBtn, ui.videosBtn), nil, ui.statusLabel)
	header := container.NewVBox(topRow, container.NewHScroll(chips), filterRow, ui.spinner)

	ui.grid = container.NewGridWrap(fyne.NewSize(CardWidth, CardHeight))
	ui.scroll = container.NewVScroll(ui.grid)
	ui.scroll.OnScrolled = func(pos fyne.Position) { ui.session.OnScroll(pos.Y) }

	ui.backToTop = widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() {
		ui.scroll.ScrollToTop()
		ui.session.OnScrollThreshold(false)
	})
	ui.backToTop.Importance = widget.HighImportance
	ui.backToTop.Hide()
	floating := container.NewVBox(layout.NewSpacer(), container.NewHBox(layout.NewSpacer(), ui.backToTop))

	home := container.NewBorder(header, nil, nil, nil, container.NewStack(ui.scroll, container.NewPadded(floating)))

	ui.savedGrid = container.NewGridWrap(fyne.NewSize(CardWidth, CardHeight))
	ui.savedEmpty = widget.NewLabel("")
	saved := container.NewBorder(ui.savedEmpty, nil, nil, nil, container.NewVScroll(ui.savedGrid))

	ui.downloadsBox = container.NewVBox()
	ui.downloadsEmpty = widget.NewLabel("")
	downloads := container.NewBorder(ui.downloadsEmpty, nil, nil, nil, container.NewVScroll(ui.downloadsBox))

	ui.upload = NewUploadPanel(ui.session, ui.window, ui.localization)

	ui.homeTab = container.NewTabItemWithIcon("", theme.HomeIcon(), home)
	ui.savedTab = container.NewTabItemWithIcon("", theme.ContentAddIcon(), saved)
	ui.downloadsTab = container.NewTabItemWithIcon("", theme.DownloadIcon(), downloads)
	ui.uploadTab = container.NewTabItemWithIcon("", theme.UploadIcon(), ui.upload.Content())
	ui.tabs = container.NewAppTabs(ui.homeTab, ui.savedTab, ui.downloadsTab, ui.uploadTab)

	ui.refreshUITexts()
	ui.window.SetContent(ui.tabs)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	t := ui.localization.GetText

	settingsItem := fyne.NewMenuItem(t(KeySettings), ui.onShowSettings)
	refreshItem := fyne.NewMenuItem(t(KeyRefresh), ui.session.Refresh)

	imagesItem := fyne.NewMenuItem(t(KeyImages), func() { ui.setContentType(model.MediaTypeImage) })
	videosItem := fyne.NewMenuItem(t(KeyVideos), func() { ui.setContentType(model.MediaTypeVideo) })
	current := ui.settings.GetContentType()
	imagesItem.Checked = current == model.MediaTypeImage
	videosItem.Checked = current == model.MediaTypeVideo

	languageMenu := fyne.NewMenu(t(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langItem := fyne.NewMenuItem(name, func() { ui.onLanguageChange(code) })
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(t(KeyFile), settingsItem, refreshItem),
		fyne.NewMenu(t(KeyView), imagesItem, videosItem),
		languageMenu,
	))
}

func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	t := ui.localization.GetText
	ui.window.SetTitle(t(KeyAppTitle))

	ui.searchEntry.SetPlaceHolder(t(KeySearch))
	ui.speakBtn.SetText(t(KeySpeak))
	ui.imagesBtn.SetText(t(KeyImages))
	ui.videosBtn.SetText(t(KeyVideos))
	ui.backToTop.SetText(t(KeyBackToTop))
	ui.savedEmpty.SetText(t(KeyNothingSaved))
	ui.downloadsEmpty.SetText(t(KeyNoDownloads))

	ui.homeTab.Text = t(KeyHome)
	ui.savedTab.Text = t(KeySaved)
	ui.downloadsTab.Text = t(KeyDownloads)
	ui.uploadTab.Text = t(KeyUpload)
	ui.tabs.Refresh()

	ui.upload.RefreshTexts()
	for _, card := range ui.cards {
		card.update()
	}
	if ui.renderedOnce {
		ui.renderStatus(ui.rendered)
		ui.renderSaved(ui.rendered, true)
		ui.renderDownloads(ui.rendered, true)
	}
}

func (ui *RootUI) onSearchChanged(text string) {
	if ui.syncingSearch {
		return
	}
	ui.settings.SetLastSearch(text)
	ui.session.Search(text)
}

// setSearchText changes the entry without triggering a debounced search
func (ui *RootUI) setSearchText(text string) {
	ui.syncingSearch = true
	ui.searchEntry.SetText(text)
	ui.syncingSearch = false
}

// onSpeak takes a dictated query. The OS dictation feature types into the
// focused entry; submitting runs the search at once.
func (ui *RootUI) onSpeak() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder(ui.localization.GetText(KeySearch))
	items := []*widget.FormItem{widget.NewFormItem("", entry)}
	dialog.ShowForm(ui.localization.GetText(KeySpeak), ui.localization.GetText(KeySearch), ui.localization.GetText(KeyCancel), items, func(ok bool) {
		text := strings.TrimSpace(entry.Text)
		if !ok || text == "" {
			return
		}
		ui.setSearchText(text)
		ui.session.OnTranscript(text)
	}, ui.window)
	ui.window.Canvas().Focus(entry)
}

func (ui *RootUI) setContentType(mt model.MediaType) {
	ui.settings.SetContentType(mt)
	ui.session.SetContentType(mt)
	ui.createMenu()
}

func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.tokens, ui.localization, ui.window, ui.onSettingsSaved).Show()
}

func (ui *RootUI) onSettingsSaved() {
	dir := ui.settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		ui.log.WithError(err).WithField("dir", dir).Warn("Download directory not created")
	}
	ui.downloads.SetDownloadDirectory(dir)
	ui.downloads.SetMaxParallelDownloads(ui.settings.GetMaxParallelDownloads())

	if lang := ui.settings.GetLanguage(); lang != ui.localization.GetCurrentLanguage() {
		ui.onLanguageChange(lang)
	}

	// The token may have changed what the catalog returns.
	ui.client.InvalidateCategories()
	ui.session.LoadCategories()
	ui.session.Refresh()
}

func (ui *RootUI) cardActions() CardActions {
	return CardActions{
		OnSave:     ui.session.Save,
		OnRemove:   ui.session.Remove,
		OnDownload: ui.session.Download,
		OnPreview:  ui.showPreview,
	}
}

func (ui *RootUI) assetURL(item model.MediaItem) string {
	if item.AssetURL() == "" {
		return ""
	}
	resolved, err := catalog.ResolveURL(ui.client.BaseURL(), item.AssetURL())
	if err != nil {
		ui.log.WithError(err).WithField("item", item.ID.String()).Debug("Bad asset url")
		return ""
	}
	return resolved
}

func (ui *RootUI) openURL(raw string) {
	u, err := url.Parse(raw)
	if err == nil {
		err = ui.app.OpenURL(u)
	}
	if err != nil {
		ui.log.WithError(err).WithField("url", raw).Warn("Cannot open url")
		ui.bus.Publish(notify.Error, ui.localization.GetText(KeyErrorOpeningFile))
	}
}

func (ui *RootUI) onOpenFile(filePath string) {
	if err := platform.OpenFileWithDefaultApp(filePath); err != nil {
		ui.log.WithError(err).WithField("path", filePath).Warn("Cannot open file")
		ui.bus.Publish(notify.Error, ui.localization.GetText(KeyErrorOpeningFile))
	}
}

func (ui *RootUI) onRevealFile(filePath string) {
	if err := platform.RevealDirectory(filePath); err != nil {
		ui.log.WithError(err).WithField("path", filePath).Warn("Cannot reveal file")
		ui.bus.Publish(notify.Error, ui.localization.GetText(KeyErrorOpeningFile))
	}
}

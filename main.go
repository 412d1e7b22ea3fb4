package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"

	"github.com/ytget/pixhub/internal/catalog"
	"github.com/ytget/pixhub/internal/collection"
	"github.com/ytget/pixhub/internal/config"
	"github.com/ytget/pixhub/internal/download"
	"github.com/ytget/pixhub/internal/events"
	"github.com/ytget/pixhub/internal/gallery"
	"github.com/ytget/pixhub/internal/logging"
	"github.com/ytget/pixhub/internal/notify"
	"github.com/ytget/pixhub/internal/platform"
	"github.com/ytget/pixhub/internal/store"
	"github.com/ytget/pixhub/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.pixhub"
	AppName = "Pixhub"

	DefaultConfigFile = "pixhub.yaml"

	WindowWidth  = 1024
	WindowHeight = 720
)

func main() {
	configPath := os.Getenv(config.EnvPrefix + "CONFIG")
	if configPath == "" {
		configPath = DefaultConfigFile
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := logging.Setup(cfg.Logging.Dir, cfg.Logging.JSON, cfg.Logging.Level); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	logrus.WithFields(logrus.Fields{"version": version, "api": cfg.API.URL}).Info("Pixhub starting")

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewGalleryTheme())

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	prefs := store.NewPreferences(myApp)
	settings := config.NewSettings(myApp)

	// Environment and config file override the stored download settings.
	if cfg.Downloads.Dir != "" {
		settings.SetDownloadDirectory(cfg.Downloads.Dir)
	}
	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		logrus.WithError(err).WithField("dir", downloadsDir).Warn("Failed to ensure downloads dir")
	}

	catalog.UserAgent = "pixhub/" + version
	client := catalog.NewClient(cfg.API.URL, prefs, catalog.WithCategoryCache(cfg.API.CategoryCacheTTL))
	downloadSvc := download.NewService(downloadsDir, settings.GetMaxParallelDownloads(), cfg.API.URL)

	loop := events.NewLoop()
	defer loop.Stop()
	bus := notify.NewBus()

	session := gallery.NewSession(gallery.Options{
		Loop:           loop,
		Catalog:        client,
		Manager:        collection.NewManager(prefs),
		Notifier:       bus,
		Downloads:      downloadSvc,
		InitialSearch:  settings.GetLastSearch(cfg.Gallery.InitialSearch),
		ContentType:    settings.GetContentType(),
		SearchDebounce: cfg.Gallery.SearchDebounce,
	})

	root := ui.NewRootUI(myWindow, myApp, ui.Deps{
		Session:   session,
		Bus:       bus,
		Client:    client,
		Downloads: downloadSvc,
		Settings:  settings,
		Tokens:    prefs,
	})
	defer root.Close()

	session.Start()
	myWindow.ShowAndRun()
}

// Command pixhub-shell is a line-oriented client of the media catalog. It
// shares the gallery session with the desktop app and keeps the saved
// collection and API token in a JSON state file.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
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
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pixhub-shell: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv(config.EnvPrefix + "CONFIG"))
	if err != nil {
		return err
	}
	// The prompt owns the terminal; only warnings go to stdout.
	level := cfg.Logging.Level
	if level == config.DefaultLogLevel {
		level = "warn"
	}
	if err := logging.Setup(cfg.Logging.Dir, cfg.Logging.JSON, level); err != nil {
		return err
	}

	state, err := store.OpenFile(cfg.StateFile)
	if err != nil {
		return err
	}
	logrus.WithField("state", state.Path()).Debug("State file opened")

	downloadsDir := cfg.Downloads.Dir
	if downloadsDir == "" {
		if downloadsDir, err = platform.GetHomeDownloadsDir(); err != nil {
			downloadsDir = platform.FallbackDownloadsDir()
		}
	}

	catalog.UserAgent = "pixhub-shell/" + version
	client := catalog.NewClient(cfg.API.URL, state, catalog.WithCategoryCache(cfg.API.CategoryCacheTTL))

	loop := events.NewLoop()
	defer loop.Stop()
	bus := notify.NewBus()

	session := gallery.NewSession(gallery.Options{
		Loop:           loop,
		Catalog:        client,
		Manager:        collection.NewManager(state),
		Notifier:       bus,
		Downloads:      download.NewService(downloadsDir, cfg.Downloads.MaxParallel, cfg.API.URL),
		InitialSearch:  cfg.Gallery.InitialSearch,
		SearchDebounce: cfg.Gallery.SearchDebounce,
	})

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "pixhub> ",
		HistoryFile:     filepath.Join(filepath.Dir(cfg.StateFile), "shell_history"),
		HistoryLimit:    500,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sh := newShell(session, state, rl.Stdout(), cfg.Gallery.SearchDebounce)
	cancel := bus.Subscribe(func(n notify.Notification) {
		fmt.Fprintf(rl.Stdout(), "[%s] %s\n", n.Level, n.Message)
	})
	defer cancel()
	session.OnChange(sh.onChange)

	fmt.Fprintf(rl.Stdout(), "pixhub %s, catalog %s. Type help for commands.\n", version, cfg.API.URL)
	session.Start()
	sh.waitIdle()
	sh.list()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if quit := sh.exec(line); quit {
			return nil
		}
	}
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("search"),
		readline.PcItem("say"),
		readline.PcItem("topics"),
		readline.PcItem("type", readline.PcItem("image"), readline.PcItem("video")),
		readline.PcItem("list"),
		readline.PcItem("refresh"),
		readline.PcItem("save"),
		readline.PcItem("remove"),
		readline.PcItem("saved"),
		readline.PcItem("download"),
		readline.PcItem("downloads"),
		readline.PcItem("upload"),
		readline.PcItem("categories"),
		readline.PcItem("token"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// Package config holds the bootstrap configuration (file and environment)
// and the user settings persisted in fyne preferences.
package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/pixhub/internal/model"
	"github.com/ytget/pixhub/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir = "download_directory"
	KeyMaxParallel = "max_parallel_downloads"
	KeyLanguage    = "app_language"
	KeyContentType = "content_type"
	KeyLastSearch  = "last_search"
)

// Default values
const (
	DefaultMaxParallel = 2
	DefaultLanguage    = "system"
	DefaultContentType = model.MediaTypeImage

	MinParallel = 1
	MaxParallel = 10
)

// Settings manages user preferences
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = platform.FallbackDownloadsDir()
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelDownloads(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	s.app.Preferences().SetInt(KeyMaxParallel, clampParallel(count))
}

// GetContentType returns the gallery tab shown at start
func (s *Settings) GetContentType() model.MediaType {
	mt, err := model.ParseMediaType(s.app.Preferences().String(KeyContentType))
	if err != nil {
		return DefaultContentType
	}
	return mt
}

// SetContentType remembers the gallery tab
func (s *Settings) SetContentType(mt model.MediaType) {
	s.app.Preferences().SetString(KeyContentType, string(mt))
}

// GetLastSearch returns the last search text, or fallback when none was stored
func (s *Settings) GetLastSearch(fallback string) string {
	return s.app.Preferences().StringWithFallback(KeyLastSearch, fallback)
}

// SetLastSearch remembers the search text
func (s *Settings) SetLastSearch(text string) {
	s.app.Preferences().SetString(KeyLastSearch, text)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
	}
}

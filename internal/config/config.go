package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable Config reads.
const EnvPrefix = "PIXHUB_"

// Defaults
const (
	DefaultAPIURL           = "http://127.0.0.1:8000/api"
	DefaultLogLevel         = "info"
	DefaultCategoryCacheTTL = 5 * time.Minute
	DefaultSearchDebounce   = 300 * time.Millisecond
	DefaultSearch           = "Animals"
)

// Config is the bootstrap configuration read once at start. User-editable
// preferences live in Settings instead.
type Config struct {
	API struct {
		URL              string        `yaml:"url" env:"API_URL"`
		CategoryCacheTTL time.Duration `yaml:"category_cache_ttl" env:"CATEGORY_CACHE_TTL"`
	} `yaml:"api"`

	Logging struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
		Dir   string `yaml:"dir" env:"LOG_DIR"`
		JSON  bool   `yaml:"json" env:"LOG_JSON"`
	} `yaml:"logging"`

	Downloads struct {
		Dir         string `yaml:"dir" env:"DOWNLOAD_DIR"`
		MaxParallel int    `yaml:"max_parallel" env:"MAX_PARALLEL_DOWNLOADS"`
	} `yaml:"downloads"`

	Gallery struct {
		InitialSearch  string        `yaml:"initial_search" env:"INITIAL_SEARCH"`
		SearchDebounce time.Duration `yaml:"search_debounce" env:"SEARCH_DEBOUNCE"`
	} `yaml:"gallery"`

	// StateFile backs the key-value store of the shell, which has no fyne app.
	StateFile string `yaml:"state_file" env:"STATE_FILE"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	var c Config
	c.API.URL = DefaultAPIURL
	c.API.CategoryCacheTTL = DefaultCategoryCacheTTL
	c.Logging.Level = DefaultLogLevel
	c.Downloads.MaxParallel = DefaultMaxParallel
	c.Gallery.InitialSearch = DefaultSearch
	c.Gallery.SearchDebounce = DefaultSearchDebounce
	if dir, err := os.UserConfigDir(); err == nil {
		c.StateFile = filepath.Join(dir, "pixhub", "state.json")
	} else {
		c.StateFile = "pixhub-state.json"
	}
	return c
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty or the file does not exist), then a .env file
// in the working directory, then PIXHUB_* environment variables.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &c); err != nil {
				return c, errors.Wrapf(err, "parse config %s", path)
			}
		case !os.IsNotExist(err):
			return c, errors.Wrapf(err, "read config %s", path)
		}
	}

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return c, errors.Wrap(err, "load .env")
	}

	if err := env.ParseWithOptions(&c, env.Options{Prefix: EnvPrefix}); err != nil {
		return c, errors.Wrap(err, "parse environment")
	}

	c.normalize()
	return c, nil
}

func (c *Config) normalize() {
	if c.API.URL == "" {
		c.API.URL = DefaultAPIURL
	}
	if c.API.CategoryCacheTTL < 0 {
		c.API.CategoryCacheTTL = 0
	}
	c.Downloads.MaxParallel = clampParallel(c.Downloads.MaxParallel)
	if c.Gallery.SearchDebounce < 0 {
		c.Gallery.SearchDebounce = 0
	}
}

func clampParallel(n int) int {
	if n < MinParallel {
		return MinParallel
	}
	if n > MaxParallel {
		return MaxParallel
	}
	return n
}

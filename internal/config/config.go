package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/buscar-app/buscar/internal/common"
)

// Config holds the resolved application settings.
type Config struct {
	APIBaseURL string
	DataDir    string
	APITimeout time.Duration
	PerPage    int
}

// Defaults applied when the config file and environment are silent.
const (
	DefaultAPIBaseURL = "http://localhost:8000/api"
	DefaultAPITimeout = 10 * time.Second
	DefaultPerPage    = 12
)

// SetDefaults registers the default values with viper. Called once from the
// root command before any config is read.
func SetDefaults() {
	viper.SetDefault("api.base_url", DefaultAPIBaseURL)
	viper.SetDefault("api.timeout", DefaultAPITimeout.String())
	viper.SetDefault("search.per_page", DefaultPerPage)
	viper.SetDefault("data.dir", DefaultDataDir())
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
}

// Load builds a validated Config from the current viper state.
func Load() (*Config, error) {
	baseURL := strings.TrimRight(viper.GetString("api.base_url"), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: api.base_url", common.ErrMissingConfig)
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("%w: api.base_url must be an http(s) URL, got %q", common.ErrInvalidConfig, baseURL)
	}

	timeout := viper.GetDuration("api.timeout")
	if timeout <= 0 {
		timeout = DefaultAPITimeout
	}

	perPage := viper.GetInt("search.per_page")
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	dataDir := viper.GetString("data.dir")
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}

	return &Config{
		APIBaseURL: baseURL,
		APITimeout: timeout,
		PerPage:    perPage,
		DataDir:    dataDir,
	}, nil
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DefaultFile = "collab.yaml"
	apiPort     = "8082"
	androidHost = "10.0.2.2"
)

// Config holds the client configuration. Values come from an optional YAML
// file; environment variables (and a .env file) override them.
type Config struct {
	Env string `yaml:"env" env:"COLLAB_ENV" env-default:"development"`

	// APIURL is the backend base url including the /api prefix.
	// When empty it is derived from Platform and APIHost.
	APIURL   string `yaml:"api_url" env:"COLLAB_API_URL" env-default:""`
	Platform string `yaml:"platform" env:"COLLAB_PLATFORM" env-default:""`
	APIHost  string `yaml:"api_host" env:"COLLAB_API_HOST" env-default:"localhost"`

	// DataFile is the sqlite file holding the persisted session token.
	DataFile string `yaml:"data_file" env:"COLLAB_DATA_FILE" env-default:"collab.db"`

	RequestTimeout time.Duration `yaml:"request_timeout" env:"COLLAB_REQUEST_TIMEOUT" env-default:"10s"`
	UploadTimeout  time.Duration `yaml:"upload_timeout" env:"COLLAB_UPLOAD_TIMEOUT" env-default:"30s"`
}

// Load reads the configuration. A missing file at path is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if cfg.APIURL == "" {
		cfg.APIURL = BaseURLFor(cfg.Platform, cfg.APIHost)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BaseURLFor picks the backend url for a runtime platform. The Android
// emulator reaches the host machine through a fixed alias address.
func BaseURLFor(platform, host string) string {
	if strings.EqualFold(platform, "android") {
		host = androidHost
	}
	if host == "" {
		host = "localhost"
	}
	return (&url.URL{
		Scheme: "http",
		Host:   host + ":" + apiPort,
		Path:   "/api",
	}).String()
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url %q", c.APIURL)
	}
	if c.DataFile == "" {
		return fmt.Errorf("data_file is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.UploadTimeout <= 0 {
		return fmt.Errorf("upload_timeout must be positive")
	}
	return nil
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"tscatalog/internal/domain"
	"tscatalog/internal/infrastructure/logging"
)

type Config struct {
	ResourceDir       string        `env:"CATALOG_RESOURCE_DIR" envDefault:"resources"`
	DefaultLocale     string        `env:"CATALOG_DEFAULT_LOCALE" envDefault:"en"`
	Languages         []string      `env:"CATALOG_LANGUAGES" envSeparator:","`
	Translators       []string      `env:"CATALOG_TRANSLATORS" envSeparator:"|"`
	Prefixes          []string      `env:"CATALOG_PREFIXES" envSeparator:","`
	AppName           string        `env:"CATALOG_APP_NAME" envDefault:"SALOME"`
	AppNameOverride   string        `env:"CATALOG_APP_NAME_OVERRIDE"`
	IncludeUnfinished bool          `env:"CATALOG_INCLUDE_UNFINISHED" envDefault:"true"`
	DatabaseURL       string        `env:"DATABASE_URL"`
	HTTPAddr          string        `env:"CATALOG_HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout   time.Duration `env:"CATALOG_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	LogNoColor        bool          `env:"LOG_NO_COLOR" envDefault:"false"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment (Docker, CI).
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate normalizes list values and checks the loaded configuration.
func (c *Config) validate() error {
	if strings.TrimSpace(c.ResourceDir) == "" {
		return fmt.Errorf("config: CATALOG_RESOURCE_DIR must not be empty")
	}

	def, ok := domain.NormalizeLocale(c.DefaultLocale)
	if !ok {
		return fmt.Errorf("config: CATALOG_DEFAULT_LOCALE is not a valid locale (%q)", c.DefaultLocale)
	}
	c.DefaultLocale = def

	var langs []string
	for _, l := range trimAll(c.Languages) {
		base, ok := domain.NormalizeLocale(l)
		if !ok {
			return fmt.Errorf("config: CATALOG_LANGUAGES contains an invalid locale (%q)", l)
		}
		langs = append(langs, base)
	}
	c.Languages = langs
	c.Translators = trimAll(c.Translators)
	c.Prefixes = trimAll(c.Prefixes)
	c.AppNameOverride = strings.TrimSpace(c.AppNameOverride)

	if len(c.Translators) > 0 && len(c.Prefixes) == 0 {
		return fmt.Errorf("config: CATALOG_TRANSLATORS requires CATALOG_PREFIXES")
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: LOG_LEVEL: %w", err)
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: CATALOG_SHUTDOWN_TIMEOUT must be positive (%s)", c.ShutdownTimeout)
	}

	if strings.TrimSpace(c.DatabaseURL) != "" {
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.DatabaseURL)
		}
	}

	return nil
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

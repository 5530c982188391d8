// Package config loads qmc settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/rgonek/quill-md-converter/converter"
	"github.com/rgonek/quill-md-converter/internal/logging"
	"github.com/rgonek/quill-md-converter/renderer"
)

// MaxFileSize limits configuration files to 1MB.
const MaxFileSize = 1 << 20

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("config parse error")
	ErrConfigInvalid  = errors.New("invalid config")
)

// Config is the full qmc configuration.
type Config struct {
	Converter converter.Config `yaml:"converter"`
	Renderer  RendererConfig   `yaml:"renderer"`
	Server    ServerConfig     `yaml:"server"`
	Store     StoreConfig      `yaml:"store"`
	Resolver  ResolverConfig   `yaml:"resolver"`
	Log       logging.Options  `yaml:"log"`
}

// RendererConfig holds the serializable renderer settings.
type RendererConfig struct {
	ResolutionMode renderer.ResolutionMode `yaml:"resolutionMode" validate:"omitempty,oneof=best_effort strict"`
	LoadingText    string                  `yaml:"loadingText"`
	NotFoundText   string                  `yaml:"notFoundText"`
	HighlightStyle string                  `yaml:"highlightStyle"`
	RenderTimeout  time.Duration           `yaml:"renderTimeout" validate:"gte=0"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `yaml:"addr" validate:"required"`
	BaseURL      string   `yaml:"baseURL" validate:"required,url"`
	AllowOrigins []string `yaml:"allowOrigins"`
	BodyLimit    int      `yaml:"bodyLimit" validate:"gt=0"`
}

// StoreConfig selects and configures the Markdown store.
type StoreConfig struct {
	Backend     string        `yaml:"backend" validate:"oneof=file redis http"`
	Dir         string        `yaml:"dir" validate:"required_if=Backend file"`
	RedisURL    string        `yaml:"redisURL" validate:"required_if=Backend redis"`
	RedisPrefix string        `yaml:"redisPrefix"`
	TTL         time.Duration `yaml:"ttl" validate:"gte=0"`
	BaseURL     string        `yaml:"baseURL" validate:"required_if=Backend http"`
}

// ResolverConfig selects and configures the image resolver.
type ResolverConfig struct {
	Backend       string            `yaml:"backend" validate:"oneof=local http static"`
	AssetsDir     string            `yaml:"assetsDir" validate:"required_if=Backend local"`
	BaseURL       string            `yaml:"baseURL" validate:"required_if=Backend http"`
	SigningSecret string            `yaml:"signingSecret"`
	SignatureTTL  time.Duration     `yaml:"signatureTTL" validate:"gte=0"`
	CacheTTL      time.Duration     `yaml:"cacheTTL" validate:"gte=0"`
	URLs          map[string]string `yaml:"urls"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Renderer: RendererConfig{
			ResolutionMode: renderer.ResolutionBestEffort,
			RenderTimeout:  30 * time.Second,
		},
		Server: ServerConfig{
			Addr:      ":8080",
			BaseURL:   "http://localhost:8080",
			BodyLimit: 4 << 20,
		},
		Store: StoreConfig{
			Backend: "file",
			Dir:     "data",
		},
		Resolver: ResolverConfig{
			Backend:      "local",
			AssetsDir:    "data/uploads",
			SignatureTTL: 15 * time.Minute,
			CacheTTL:     10 * time.Minute,
		},
		Log: logging.Options{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path on top of Default, then applies environment overrides.
// An empty path skips the file. A .env file in the working directory is
// loaded into the environment first when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if len(data) > MaxFileSize {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrConfigParse, path, MaxFileSize)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

// applyEnv overrides settings from QMC_* environment variables.
func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrConfigInvalid, key, err)
		}
		*dst = d
		return nil
	}

	str("QMC_ADDR", &cfg.Server.Addr)
	str("QMC_BASE_URL", &cfg.Server.BaseURL)
	if v, ok := lookup("QMC_ALLOW_ORIGINS"); ok {
		cfg.Server.AllowOrigins = splitList(v)
	}
	if v, ok := lookup("QMC_BODY_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: QMC_BODY_LIMIT: %v", ErrConfigInvalid, err)
		}
		cfg.Server.BodyLimit = n
	}

	str("QMC_STORE_BACKEND", &cfg.Store.Backend)
	str("QMC_STORE_DIR", &cfg.Store.Dir)
	str("QMC_REDIS_URL", &cfg.Store.RedisURL)
	str("QMC_STORE_BASE_URL", &cfg.Store.BaseURL)

	str("QMC_RESOLVER_BACKEND", &cfg.Resolver.Backend)
	str("QMC_ASSETS_DIR", &cfg.Resolver.AssetsDir)
	str("QMC_RESOLVER_BASE_URL", &cfg.Resolver.BaseURL)
	str("QMC_SIGNING_SECRET", &cfg.Resolver.SigningSecret)

	str("QMC_LOG_LEVEL", &cfg.Log.Level)
	str("QMC_LOG_FORMAT", &cfg.Log.Format)
	str("QMC_LOG_FILE", &cfg.Log.File)

	for key, dst := range map[string]*time.Duration{
		"QMC_STORE_TTL":      &cfg.Store.TTL,
		"QMC_SIGNATURE_TTL":  &cfg.Resolver.SignatureTTL,
		"QMC_CACHE_TTL":      &cfg.Resolver.CacheTTL,
		"QMC_RENDER_TIMEOUT": &cfg.Renderer.RenderTimeout,
	} {
		if err := dur(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if _, err := converter.New(c.Converter); err != nil {
		return fmt.Errorf("%w: converter: %v", ErrConfigInvalid, err)
	}
	return nil
}

// RendererFor returns renderer settings using resolver.
func (c Config) RendererFor(resolver renderer.Resolver) renderer.Config {
	return renderer.Config{
		Resolver:       resolver,
		ResolutionMode: c.Renderer.ResolutionMode,
		LoadingText:    c.Renderer.LoadingText,
		NotFoundText:   c.Renderer.NotFoundText,
		HighlightStyle: c.Renderer.HighlightStyle,
	}
}

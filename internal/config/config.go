package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile      = ".env"
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 15 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	defaultCMSBaseURL   = "http://localhost:1337"
	defaultCMSTimeout   = 5 * time.Second
	defaultCMSPageSize  = 100
	defaultSiteName     = "Store"
	defaultLang         = "en"
	defaultLogLevel     = "info"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server ServerConfig
	CMS    CMSConfig
	Site   SiteConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// DevMode reparses templates from TemplatesDir on every request.
	DevMode      bool
	TemplatesDir string
	LogLevel     string
}

// Addr returns the listen address for the configured port.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

// CMSConfig points the storefront at the content API.
type CMSConfig struct {
	BaseURL  string
	Timeout  time.Duration
	PageSize int
}

// SiteConfig holds presentation defaults.
type SiteConfig struct {
	Name        string
	DefaultLang string
	// BaseURL is the public origin used for canonical links and structured data.
	BaseURL         string
	GAMeasurementID string
	AnalyticsDebug  bool
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.LookupEnv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the application configuration by combining defaults, .env overrides,
// environment variables and explicit overrides.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}
	p := &parser{lookup: lookup}

	// Cloud Run style PORT is honoured when the prefixed key is absent.
	port := p.string("STOREFRONT_PORT", "")
	if port == "" {
		port = p.string("PORT", defaultPort)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         port,
			ReadTimeout:  p.duration("STOREFRONT_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: p.duration("STOREFRONT_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  p.duration("STOREFRONT_IDLE_TIMEOUT", defaultIdleTimeout),
			DevMode:      p.bool("STOREFRONT_DEV", false),
			TemplatesDir: p.string("STOREFRONT_TEMPLATES_DIR", ""),
			LogLevel:     strings.ToLower(p.string("STOREFRONT_LOG_LEVEL", defaultLogLevel)),
		},
		CMS: CMSConfig{
			BaseURL:  strings.TrimRight(p.string("STOREFRONT_CMS_BASE_URL", defaultCMSBaseURL), "/"),
			Timeout:  p.duration("STOREFRONT_CMS_TIMEOUT", defaultCMSTimeout),
			PageSize: p.int("STOREFRONT_CMS_PAGE_SIZE", defaultCMSPageSize),
		},
		Site: SiteConfig{
			Name:            p.string("STOREFRONT_SITE_NAME", defaultSiteName),
			DefaultLang:     strings.ToLower(p.string("STOREFRONT_DEFAULT_LANG", defaultLang)),
			BaseURL:         strings.TrimRight(p.string("STOREFRONT_PUBLIC_URL", ""), "/"),
			GAMeasurementID: p.string("STOREFRONT_GA_MEASUREMENT_ID", ""),
			AnalyticsDebug:  p.bool("STOREFRONT_ANALYTICS_DEBUG", false),
		},
	}

	if err := validateConfig(cfg, p.invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config, invalid []string) error {
	missing := append([]string(nil), invalid...)

	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		missing = append(missing, "Server.Port")
	}
	if cfg.Server.ReadTimeout <= 0 {
		missing = append(missing, "Server.ReadTimeout")
	}
	if cfg.Server.WriteTimeout <= 0 {
		missing = append(missing, "Server.WriteTimeout")
	}
	if cfg.Server.IdleTimeout <= 0 {
		missing = append(missing, "Server.IdleTimeout")
	}
	switch cfg.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		missing = append(missing, "Server.LogLevel")
	}
	if cfg.Server.DevMode && cfg.Server.TemplatesDir == "" {
		missing = append(missing, "Server.TemplatesDir")
	}
	if u, err := url.Parse(cfg.CMS.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		missing = append(missing, "CMS.BaseURL")
	}
	if cfg.Site.BaseURL != "" {
		if u, err := url.Parse(cfg.Site.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			missing = append(missing, "Site.BaseURL")
		}
	}
	if cfg.CMS.Timeout <= 0 {
		missing = append(missing, "CMS.Timeout")
	}
	if cfg.CMS.PageSize <= 0 {
		missing = append(missing, "CMS.PageSize")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: dedupe(missing)}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	values, err := godotenv.Read(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

// parser reads typed values and remembers the keys that failed to parse.
type parser struct {
	lookup  func(string) (string, bool)
	invalid []string
}

func (p *parser) string(key, fallback string) string {
	if value, ok := p.lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	value := p.string(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return d
}

func (p *parser) int(key string, fallback int) int {
	value := p.string(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return parsed
}

func (p *parser) bool(key string, fallback bool) bool {
	value := p.string(key, "")
	if value == "" {
		return fallback
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	p.invalid = append(p.invalid, key)
	return fallback
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

package runtimeconfig

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-codeimport/internal/markdown"
)

var (
	ErrVaultProviderUnknown       = errors.New("codeimport config: vault provider is invalid")
	ErrVaultRootRequired          = errors.New("codeimport config: vault root is required for the fs provider")
	ErrVaultDSNRequired           = errors.New("codeimport config: vault dsn is required for the bun provider")
	ErrVaultDriverUnknown         = errors.New("codeimport config: vault driver is invalid")
	ErrMarkdownConcurrencyInvalid = errors.New("codeimport config: markdown concurrency must be zero or positive")
	ErrMarkdownPatternInvalid     = errors.New("codeimport config: markdown pattern is invalid")
	ErrMarkdownExtensionUnknown   = errors.New("codeimport config: markdown parser extension is unknown")
	ErrLoggingProviderRequired    = errors.New("codeimport config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown     = errors.New("codeimport config: logging provider is invalid")
	ErrLoggingLevelInvalid        = errors.New("codeimport config: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("codeimport config: logging format is invalid")
)

// Config aggregates the settings of a code import deployment. Tags follow the
// snake_case keys used in codeimport.yaml.
type Config struct {
	Render   RenderConfig   `mapstructure:"render"`
	Vault    VaultConfig    `mapstructure:"vault"`
	Markdown MarkdownConfig `mapstructure:"markdown"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Features Features       `mapstructure:"features"`
}

// RenderConfig holds the default presentation options for import blocks.
type RenderConfig struct {
	ShowFileName bool `mapstructure:"show_file_name"`
	WrapCode     bool `mapstructure:"wrap_code"`
}

// VaultConfig selects where import targets are read from.
type VaultConfig struct {
	Provider    string `mapstructure:"provider"`
	Root        string `mapstructure:"root"`
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
	Debug       bool   `mapstructure:"debug"`
}

// MarkdownConfig captures discovery and parser behaviour for documents.
type MarkdownConfig struct {
	Pattern     string               `mapstructure:"pattern"`
	Recursive   bool                 `mapstructure:"recursive"`
	Concurrency int                  `mapstructure:"concurrency"`
	Parser      MarkdownParserConfig `mapstructure:"parser"`
}

// MarkdownParserConfig mirrors markdown.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string `mapstructure:"extensions"`
	HardWraps  bool     `mapstructure:"hard_wraps"`
	SafeMode   bool     `mapstructure:"safe_mode"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// Features toggles optional functionality.
type Features struct {
	Logger bool `mapstructure:"logger"`
	// Metrics records directive outcomes with Prometheus collectors.
	Metrics bool `mapstructure:"metrics"`
}

// DefaultConfig returns the defaults: file names shown, no wrapping, the
// current directory as vault.
func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{
			ShowFileName: true,
			WrapCode:     false,
		},
		Vault: VaultConfig{
			Provider: "fs",
			Root:     ".",
			Driver:   "sqlite3",
		},
		Markdown: MarkdownConfig{
			Pattern:     "*.md",
			Recursive:   true,
			Concurrency: 4,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch normalizeProvider(cfg.Vault.Provider) {
	case "", "fs":
		if strings.TrimSpace(cfg.Vault.Root) == "" {
			return ErrVaultRootRequired
		}
	case "memory":
	case "bun":
		if strings.TrimSpace(cfg.Vault.DSN) == "" {
			return ErrVaultDSNRequired
		}
		if driver := normalizeProvider(cfg.Vault.Driver); driver != "" && !isSupportedDriver(driver) {
			return fmt.Errorf("%w: %s", ErrVaultDriverUnknown, driver)
		}
	default:
		return fmt.Errorf("%w: %s", ErrVaultProviderUnknown, cfg.Vault.Provider)
	}
	if cfg.Markdown.Concurrency < 0 {
		return ErrMarkdownConcurrencyInvalid
	}
	if pattern := strings.TrimSpace(cfg.Markdown.Pattern); pattern != "" && !isValidPattern(pattern) {
		return fmt.Errorf("%w: %s", ErrMarkdownPatternInvalid, pattern)
	}
	for _, name := range cfg.Markdown.Parser.Extensions {
		if strings.TrimSpace(name) != "" && !markdown.KnownExtension(name) {
			return fmt.Errorf("%w: %s", ErrMarkdownExtensionUnknown, name)
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedDriver(driver string) bool {
	switch driver {
	case "sqlite3", "postgres":
		return true
	default:
		return false
	}
}

func isValidPattern(pattern string) bool {
	_, err := path.Match(strings.ReplaceAll(pattern, "**/", ""), "")
	return err == nil
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

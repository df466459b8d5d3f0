package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	codeimport "github.com/goliatone/go-codeimport"
)

const (
	configName = "codeimport"
	envPrefix  = "CODEIMPORT"
)

// flagBindings maps persistent flags onto config keys.
var flagBindings = map[string]string{
	"vault":          "vault.root",
	"provider":       "vault.provider",
	"dsn":            "vault.dsn",
	"show-file-name": "render.show_file_name",
	"wrap-code":      "render.wrap_code",
	"metrics":        "features.metrics",
	"verbose":        "features.logger",
	"log-level":      "logging.level",
	"log-format":     "logging.format",
}

func setDefaults(v *viper.Viper, cfg codeimport.Config) {
	v.SetDefault("render.show_file_name", cfg.Render.ShowFileName)
	v.SetDefault("render.wrap_code", cfg.Render.WrapCode)
	v.SetDefault("vault.provider", cfg.Vault.Provider)
	v.SetDefault("vault.root", cfg.Vault.Root)
	v.SetDefault("vault.driver", cfg.Vault.Driver)
	v.SetDefault("vault.dsn", cfg.Vault.DSN)
	v.SetDefault("vault.auto_migrate", true)
	v.SetDefault("vault.debug", cfg.Vault.Debug)
	v.SetDefault("markdown.pattern", cfg.Markdown.Pattern)
	v.SetDefault("markdown.recursive", cfg.Markdown.Recursive)
	v.SetDefault("markdown.concurrency", cfg.Markdown.Concurrency)
	v.SetDefault("markdown.parser.extensions", cfg.Markdown.Parser.Extensions)
	v.SetDefault("markdown.parser.hard_wraps", cfg.Markdown.Parser.HardWraps)
	v.SetDefault("markdown.parser.safe_mode", cfg.Markdown.Parser.SafeMode)
	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
	v.SetDefault("features.logger", cfg.Features.Logger)
	v.SetDefault("features.metrics", cfg.Features.Metrics)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagBindings {
		if flag := flags.Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadConfig layers defaults, codeimport.yaml, CODEIMPORT_* environment
// variables and flags, in that order of precedence.
func loadConfig(v *viper.Viper, configFile string) (codeimport.Config, error) {
	cfg := codeimport.DefaultConfig()
	setDefaults(v, cfg)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

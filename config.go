package codeimport

import "github.com/goliatone/go-codeimport/internal/runtimeconfig"

var (
	ErrVaultProviderUnknown       = runtimeconfig.ErrVaultProviderUnknown
	ErrVaultRootRequired          = runtimeconfig.ErrVaultRootRequired
	ErrVaultDSNRequired           = runtimeconfig.ErrVaultDSNRequired
	ErrVaultDriverUnknown         = runtimeconfig.ErrVaultDriverUnknown
	ErrMarkdownConcurrencyInvalid = runtimeconfig.ErrMarkdownConcurrencyInvalid
	ErrMarkdownPatternInvalid     = runtimeconfig.ErrMarkdownPatternInvalid
	ErrMarkdownExtensionUnknown   = runtimeconfig.ErrMarkdownExtensionUnknown
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	RenderConfig         = runtimeconfig.RenderConfig
	VaultConfig          = runtimeconfig.VaultConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
	Features             = runtimeconfig.Features
)

// DefaultConfig returns the baseline configuration: file names shown, no
// wrapping, the working directory as an fs vault.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

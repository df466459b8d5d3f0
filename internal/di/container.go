package di

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-codeimport/internal/codeimport"
	"github.com/goliatone/go-codeimport/internal/codeimport/prommetrics"
	rendercmd "github.com/goliatone/go-codeimport/internal/commands/render"
	"github.com/goliatone/go-codeimport/internal/logging"
	"github.com/goliatone/go-codeimport/internal/logging/gologger"
	"github.com/goliatone/go-codeimport/internal/markdown"
	"github.com/goliatone/go-codeimport/internal/runtimeconfig"
	"github.com/goliatone/go-codeimport/internal/vault"
	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

// Container wires the import services described by a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	vault          *vault.Vault
	reader         interfaces.FileReader
	blockRenderer  interfaces.BlockRenderer
	normalizer     interfaces.PathNormalizer
	registry       *prometheus.Registry
	metrics        *prommetrics.Metrics
	commandReg     rendercmd.CommandRegistry
	output         rendercmd.OutputWriter

	importSvc   *codeimport.Service
	markdownSvc *markdown.Service
	finder      rendercmd.DocumentFinder
	commands    *rendercmd.HandlerSet
}

// Option mutates the container before services are built.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithFileReader replaces the configured vault reader.
func WithFileReader(reader interfaces.FileReader) Option {
	return func(c *Container) {
		c.reader = reader
	}
}

// WithBlockRenderer replaces the goldmark code block renderer.
func WithBlockRenderer(renderer interfaces.BlockRenderer) Option {
	return func(c *Container) {
		c.blockRenderer = renderer
	}
}

// WithNormalizer replaces the vault path normalizer.
func WithNormalizer(normalizer interfaces.PathNormalizer) Option {
	return func(c *Container) {
		c.normalizer = normalizer
	}
}

// WithPrometheusRegistry registers the import collectors on reg instead of a
// private registry. Only used when the metrics feature is enabled.
func WithPrometheusRegistry(reg *prometheus.Registry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// WithCommandRegistry registers the render command handlers with reg.
func WithCommandRegistry(reg rendercmd.CommandRegistry) Option {
	return func(c *Container) {
		c.commandReg = reg
	}
}

// WithOutputWriter overrides where render commands write documents.
func WithOutputWriter(output rendercmd.OutputWriter) Option {
	return func(c *Container) {
		c.output = output
	}
}

// NewContainer validates cfg and builds the services it describes.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureVault(ctx); err != nil {
		return nil, err
	}
	if err := c.configureMetrics(); err != nil {
		_ = c.Close()
		return nil, err
	}

	parseOpts := markdown.ParseOptions{
		Extensions: cfg.Markdown.Parser.Extensions,
		HardWraps:  cfg.Markdown.Parser.HardWraps,
		SafeMode:   cfg.Markdown.Parser.SafeMode,
	}
	if c.blockRenderer == nil {
		c.blockRenderer = markdown.NewCodeBlockRenderer(parseOpts)
	}
	if c.normalizer == nil {
		c.normalizer = vault.Normalizer
	}

	importOpts := []codeimport.ServiceOption{
		codeimport.WithNormalizer(c.normalizer),
		codeimport.WithLogger(logging.ResolverLogger(c.loggerProvider)),
	}
	if c.metrics != nil {
		importOpts = append(importOpts, codeimport.WithMetrics(c.metrics))
	}
	c.importSvc = codeimport.NewService(c.reader, c.blockRenderer, importOpts...)

	c.markdownSvc = markdown.NewService(markdown.Config{
		Parser: parseOpts,
		Render: interfaces.RenderOptions{
			ShowFileName: cfg.Render.ShowFileName,
			WrapCode:     cfg.Render.WrapCode,
		},
		Concurrency: cfg.Markdown.Concurrency,
	}, c.reader, c.importSvc, markdown.WithLogger(logging.MarkdownLogger(c.loggerProvider)))

	c.configureFinder()

	commands, err := rendercmd.RegisterRenderCommands(c.commandReg, c.markdownSvc, c.finder, c.output, c.loggerProvider)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.commands = commands

	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		return nil
	}

	provider := strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider))
	switch provider {
	case "noop":
		return nil
	case "console", "gologger":
		format := c.Config.Logging.Format
		if provider == "console" && strings.TrimSpace(format) == "" {
			format = "console"
		}
		p, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("configure logger provider: %w", err)
		}
		c.loggerProvider = p
		return nil
	default:
		return fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, provider)
	}
}

func (c *Container) configureVault(ctx context.Context) error {
	if c.reader != nil {
		return nil
	}
	v, err := vault.Open(ctx, vault.Config{
		Provider:    c.Config.Vault.Provider,
		Root:        c.Config.Vault.Root,
		Driver:      c.Config.Vault.Driver,
		DSN:         c.Config.Vault.DSN,
		AutoMigrate: c.Config.Vault.AutoMigrate,
		Debug:       c.Config.Vault.Debug,
	}, vault.WithLogger(logging.VaultLogger(c.loggerProvider)))
	if err != nil {
		return err
	}
	c.vault = v
	c.reader = v.Reader
	return nil
}

func (c *Container) configureMetrics() error {
	if !c.Config.Features.Metrics {
		return nil
	}
	if c.registry == nil {
		c.registry = prometheus.NewRegistry()
	}
	metrics, err := prommetrics.New(c.registry)
	if err != nil {
		return err
	}
	c.metrics = metrics
	return nil
}

func (c *Container) configureFinder() {
	loaderCfg := markdown.LoaderConfig{
		Pattern:   c.Config.Markdown.Pattern,
		Recursive: c.Config.Markdown.Recursive,
	}
	switch {
	case c.vault != nil && c.vault.FS != nil:
		c.finder = markdown.NewLoader(c.vault.FS, loaderCfg)
	case c.vault != nil && c.vault.Lister != nil:
		c.finder = markdown.NewListLoader(c.vault.Lister, loaderCfg)
	default:
		if lister, ok := c.reader.(markdown.DocumentLister); ok {
			c.finder = markdown.NewListLoader(lister, loaderCfg)
			return
		}
		c.finder = markdown.NewListLoader(emptyLister{}, loaderCfg)
	}
}

type emptyLister struct{}

func (emptyLister) List(context.Context) ([]string, error) { return nil, nil }

// LoggerProvider returns the active logger provider, which may be nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// FileReader returns the vault reader.
func (c *Container) FileReader() interfaces.FileReader {
	return c.reader
}

// Vault returns the opened vault, or nil when a reader was injected.
func (c *Container) Vault() *vault.Vault {
	return c.vault
}

// ImportService returns the directive resolver.
func (c *Container) ImportService() *codeimport.Service {
	return c.importSvc
}

// MarkdownService returns the document renderer.
func (c *Container) MarkdownService() *markdown.Service {
	return c.markdownSvc
}

// DocumentFinder returns the document discovery strategy for the configured vault.
func (c *Container) DocumentFinder() rendercmd.DocumentFinder {
	return c.finder
}

// Commands returns the render command handlers.
func (c *Container) Commands() *rendercmd.HandlerSet {
	return c.commands
}

// Gatherer returns the registry holding the import collectors, or nil when
// the metrics feature is disabled.
func (c *Container) Gatherer() prometheus.Gatherer {
	if c.metrics == nil {
		return nil
	}
	return c.registry
}

// Close releases the vault.
func (c *Container) Close() error {
	if c == nil || c.vault == nil {
		return nil
	}
	return c.vault.Close()
}

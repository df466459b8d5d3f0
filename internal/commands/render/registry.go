package rendercmd

import (
	"errors"

	"github.com/goliatone/go-codeimport/internal/commands"
	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the handlers produced by RegisterRenderCommands.
type HandlerSet struct {
	Document  *RenderDocumentHandler
	Directory *RenderDirectoryHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	documentHandlerOpts  []commands.HandlerOption[RenderDocumentCommand]
	directoryHandlerOpts []commands.HandlerOption[RenderDirectoryCommand]
}

// WithDocumentHandlerOptions forwards options to the RenderDocumentHandler constructor.
func WithDocumentHandlerOptions(opts ...commands.HandlerOption[RenderDocumentCommand]) Option {
	return func(cfg *options) {
		cfg.documentHandlerOpts = append(cfg.documentHandlerOpts, opts...)
	}
}

// WithDirectoryHandlerOptions forwards options to the RenderDirectoryHandler constructor.
func WithDirectoryHandlerOptions(opts ...commands.HandlerOption[RenderDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.directoryHandlerOpts = append(cfg.directoryHandlerOpts, opts...)
	}
}

// RegisterRenderCommands builds the render handlers and registers them with reg
// when one is supplied. The handlers are returned so callers can execute them directly.
func RegisterRenderCommands(reg CommandRegistry, renderer DocumentRenderer, finder DocumentFinder, output OutputWriter, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if renderer == nil {
		return nil, errors.New("render command registration: renderer is nil")
	}
	if finder == nil {
		return nil, errors.New("render command registration: finder is nil")
	}
	if output == nil {
		output = NewFileOutput(nil)
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "render")

	documentHandler := NewRenderDocumentHandler(renderer, output, logger, cfg.documentHandlerOpts...)
	directoryHandler := NewRenderDirectoryHandler(renderer, finder, output, logger, cfg.directoryHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(documentHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(directoryHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Document:  documentHandler,
		Directory: directoryHandler,
	}, nil
}

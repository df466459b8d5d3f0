// Package codeimport resolves `@import "path" {line_begin=N line_end=M}`
// directives in markdown notes, replacing each with a rendered excerpt of the
// referenced vault file.
package codeimport

import (
	"context"
	"io"

	"github.com/goliatone/go-codeimport/internal/codeimport"
	"github.com/goliatone/go-codeimport/internal/codeimport/parser"
	"github.com/goliatone/go-codeimport/internal/codeimport/prommetrics"
	rendercmd "github.com/goliatone/go-codeimport/internal/commands/render"
	"github.com/goliatone/go-codeimport/internal/di"
	"github.com/goliatone/go-codeimport/internal/markdown"
	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

type (
	ImportDirective = interfaces.ImportDirective
	ParseResult     = interfaces.ParseResult
	RenderOptions   = interfaces.RenderOptions
	Segment         = interfaces.Segment
	SegmentKind     = interfaces.SegmentKind
	ProcessReport   = interfaces.ProcessReport
	FileReader      = interfaces.FileReader
	BlockRenderer   = interfaces.BlockRenderer
	PathNormalizer  = interfaces.PathNormalizer
	DocumentTree    = interfaces.DocumentTree
	TextLeaf        = interfaces.TextLeaf
	LoggerProvider  = interfaces.LoggerProvider

	// ImportService exports the directive resolver.
	ImportService = *codeimport.Service
	// MarkdownService exports the document renderer.
	MarkdownService = *markdown.Service
	// RenderResult is a rendered document.
	RenderResult = markdown.Result

	RenderDocumentCommand  = rendercmd.RenderDocumentCommand
	RenderDirectoryCommand = rendercmd.RenderDirectoryCommand

	// Option customises the wiring performed by New.
	Option = di.Option
)

const (
	SegmentText  = interfaces.SegmentText
	SegmentCode  = interfaces.SegmentCode
	SegmentError = interfaces.SegmentError
)

var (
	// ErrFileNotFound marks directives whose target is absent from the vault.
	ErrFileNotFound = codeimport.ErrFileNotFound
	// ErrDetachedLeaf is returned when a leaf can no longer be replaced.
	ErrDetachedLeaf = interfaces.ErrDetachedLeaf

	WithLoggerProvider     = di.WithLoggerProvider
	WithFileReader         = di.WithFileReader
	WithBlockRenderer      = di.WithBlockRenderer
	WithNormalizer         = di.WithNormalizer
	WithPrometheusRegistry = di.WithPrometheusRegistry
	WithCommandRegistry    = di.WithCommandRegistry
	WithOutputWriter       = di.WithOutputWriter
	DefaultRenderOptions   = interfaces.DefaultRenderOptions
	ParseImportDirectives  = parser.ParseImportDirectives
	ExtractLines           = codeimport.ExtractLines
	FileExtension          = codeimport.FileExtension
	ExtensionToLanguage    = codeimport.ExtensionToLanguage
	JoinPath               = codeimport.JoinPath
	LineRangeLabel         = codeimport.LineRangeLabel
)

// Module is the top level runtime facade.
type Module struct {
	container *di.Container
}

// New validates cfg and wires the vault, resolver and markdown services it describes.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Imports returns the directive resolver.
func (m *Module) Imports() ImportService {
	return m.container.ImportService()
}

// Markdown returns the document renderer.
func (m *Module) Markdown() MarkdownService {
	return m.container.MarkdownService()
}

// RenderFile renders a vault document with its imports resolved.
func (m *Module) RenderFile(ctx context.Context, path string) (*RenderResult, error) {
	return m.container.MarkdownService().RenderFile(ctx, path)
}

// ProcessHTML resolves directives in HTML produced by another renderer.
func (m *Module) ProcessHTML(ctx context.Context, html, sourcePath string, opts RenderOptions) (string, ProcessReport, error) {
	return m.container.MarkdownService().ProcessHTML(ctx, html, sourcePath, opts)
}

// SpliceText resolves the directives in a single run of text.
func (m *Module) SpliceText(ctx context.Context, text, sourcePath string, opts RenderOptions) ([]Segment, error) {
	return m.container.ImportService().SpliceText(ctx, text, sourcePath, opts)
}

// RenderDocument executes a RenderDocumentCommand.
func (m *Module) RenderDocument(ctx context.Context, cmd RenderDocumentCommand) error {
	return m.container.Commands().Document.Execute(ctx, cmd)
}

// RenderDirectory executes a RenderDirectoryCommand.
func (m *Module) RenderDirectory(ctx context.Context, cmd RenderDirectoryCommand) error {
	return m.container.Commands().Directory.Execute(ctx, cmd)
}

// WriteMetrics writes the Prometheus text exposition of the import collectors.
// It writes nothing when the metrics feature is disabled.
func (m *Module) WriteMetrics(w io.Writer) error {
	gatherer := m.container.Gatherer()
	if gatherer == nil {
		return nil
	}
	return prommetrics.WriteText(w, gatherer)
}

// Close releases the vault.
func (m *Module) Close() error {
	if m == nil {
		return nil
	}
	return m.container.Close()
}

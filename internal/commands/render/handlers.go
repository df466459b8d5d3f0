package rendercmd

import (
	"context"

	"github.com/goliatone/go-codeimport/internal/commands"
	"github.com/goliatone/go-codeimport/internal/logging"
	"github.com/goliatone/go-codeimport/internal/markdown"
	"github.com/goliatone/go-codeimport/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	documentOperation  = "render.document"
	directoryOperation = "render.directory"
)

var (
	_ command.Commander[RenderDocumentCommand]  = (*RenderDocumentHandler)(nil)
	_ command.Commander[RenderDirectoryCommand] = (*RenderDirectoryHandler)(nil)
)

// DocumentRenderer is the subset of markdown.Service the handlers depend on.
type DocumentRenderer interface {
	RenderFile(ctx context.Context, path string) (*markdown.Result, error)
	RenderBatch(ctx context.Context, paths []string) ([]*markdown.Result, error)
}

// DocumentFinder lists the documents below a vault directory.
type DocumentFinder interface {
	Discover(ctx context.Context, dir string) ([]string, error)
}

// RenderDocumentHandler renders one document via the shared command handler foundation.
type RenderDocumentHandler struct {
	inner *commands.Handler[RenderDocumentCommand]
}

// NewRenderDocumentHandler creates a handler bound to the supplied renderer and output.
func NewRenderDocumentHandler(renderer DocumentRenderer, output OutputWriter, logger interfaces.Logger, opts ...commands.HandlerOption[RenderDocumentCommand]) *RenderDocumentHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg RenderDocumentCommand) error {
		result, err := renderer.RenderFile(ctx, msg.Path)
		if err != nil {
			return err
		}
		if err := output.WriteOutput(ctx, msg.Output, result); err != nil {
			return err
		}
		logging.WithFields(baseLogger, reportFields(result)).Info("codeimport.command.render_document.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenderDocumentCommand]{
		commands.WithLogger[RenderDocumentCommand](baseLogger),
		commands.WithOperation[RenderDocumentCommand](documentOperation),
		commands.WithMessageFields(func(msg RenderDocumentCommand) map[string]any {
			fields := map[string]any{"path": msg.Path}
			if msg.Output != "" {
				fields["output"] = msg.Output
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenderDocumentCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderDocumentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RenderDocumentCommand].
func (h *RenderDocumentHandler) Execute(ctx context.Context, msg RenderDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RenderDirectoryHandler renders every document found below a directory.
type RenderDirectoryHandler struct {
	inner *commands.Handler[RenderDirectoryCommand]
}

// NewRenderDirectoryHandler creates a handler that discovers documents with finder
// and renders them as one batch.
func NewRenderDirectoryHandler(renderer DocumentRenderer, finder DocumentFinder, output OutputWriter, logger interfaces.Logger, opts ...commands.HandlerOption[RenderDirectoryCommand]) *RenderDirectoryHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg RenderDirectoryCommand) error {
		paths, err := finder.Discover(ctx, msg.Directory)
		if err != nil {
			return err
		}
		results, err := renderer.RenderBatch(ctx, paths)
		if err != nil {
			return err
		}

		var total interfaces.ProcessReport
		for _, result := range results {
			if err := output.WriteOutput(ctx, htmlTarget(msg.OutputDir, result.Path), result); err != nil {
				return err
			}
			total.Add(result.Report)
		}

		logging.WithFields(baseLogger, map[string]any{
			"documents":  len(results),
			"directives": total.Directives,
			"rendered":   total.Rendered,
			"not_found":  total.NotFound,
			"failed":     total.Failed,
		}).Info("codeimport.command.render_directory.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenderDirectoryCommand]{
		commands.WithLogger[RenderDirectoryCommand](baseLogger),
		commands.WithOperation[RenderDirectoryCommand](directoryOperation),
		commands.WithMessageFields(func(msg RenderDirectoryCommand) map[string]any {
			fields := map[string]any{"directory": msg.Directory}
			if msg.OutputDir != "" {
				fields["output_dir"] = msg.OutputDir
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenderDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RenderDirectoryCommand].
func (h *RenderDirectoryHandler) Execute(ctx context.Context, msg RenderDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

func reportFields(result *markdown.Result) map[string]any {
	if result == nil {
		return nil
	}
	return map[string]any{
		"path":       result.Path,
		"directives": result.Report.Directives,
		"rendered":   result.Report.Rendered,
		"not_found":  result.Report.NotFound,
		"failed":     result.Report.Failed,
	}
}

package markdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-codeimport/internal/doctree/htmltree"
	"github.com/goliatone/go-codeimport/internal/logging"
	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

// ErrDocumentNotFound is returned when a document path does not exist in the vault.
var ErrDocumentNotFound = errors.New("markdown: document not found")

const (
	documentNotFoundCode = "MARKDOWN_DOCUMENT_NOT_FOUND"
	documentReadCode     = "MARKDOWN_DOCUMENT_READ_FAILED"
	defaultConcurrency   = 4
)

// Config controls how the service renders documents.
type Config struct {
	Parser ParseOptions
	// Render holds the default options applied to import blocks.
	Render interfaces.RenderOptions
	// Concurrency caps the number of documents RenderBatch renders at once.
	Concurrency int
}

// Result is a rendered document.
type Result struct {
	Path        string
	HTML        []byte
	FrontMatter FrontMatter
	Options     interfaces.RenderOptions
	Report      interfaces.ProcessReport
}

// Service renders vault documents to HTML with imports resolved.
type Service struct {
	cfg     Config
	reader  interfaces.FileReader
	imports interfaces.CodeImportService
	logger  interfaces.Logger
}

// Option customises the service.
type Option func(*Service)

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a Markdown service reading documents through reader
// and resolving directives through imports.
func NewService(cfg Config, reader interfaces.FileReader, imports interfaces.CodeImportService, opts ...Option) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	svc := &Service{
		cfg:     cfg,
		reader:  reader,
		imports: imports,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// RenderFile reads path from the vault and renders it.
func (s *Service) RenderFile(ctx context.Context, path string) (*Result, error) {
	if s.reader == nil {
		return nil, errors.New("markdown service: file reader is nil")
	}
	ctx = ensureContext(ctx)
	source, found, err := s.reader.ReadPlainFile(ctx, path)
	if err != nil {
		if goerrors.IsWrapped(err) {
			return nil, err
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "document could not be read: "+path).
			WithTextCode(documentReadCode)
	}
	if !found {
		return nil, goerrors.Wrap(ErrDocumentNotFound, goerrors.CategoryNotFound, "document not found: "+path).
			WithTextCode(documentNotFoundCode)
	}
	return s.Render(ctx, []byte(source), path)
}

// Render converts source to HTML. sourcePath anchors relative import paths.
// Front matter overrides the configured render options for this document.
func (s *Service) Render(ctx context.Context, source []byte, sourcePath string) (*Result, error) {
	ctx = ensureContext(ctx)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	state := &pass{
		ctx:        ctx,
		sourcePath: sourcePath,
		opts:       meta.CodeImport.Apply(s.cfg.Render),
	}

	var buf bytes.Buffer
	engine := newGoldmarkEngine(s.cfg.Parser, NewExtension(s.imports))
	if err := engine.Convert(body, &buf, parserContext(state)); err != nil {
		return nil, fmt.Errorf("markdown render %s: %w", sourcePath, err)
	}
	if state.err != nil {
		return nil, state.err
	}

	logging.WithFields(s.logger, reportFields(sourcePath, state.report)).
		Debug("codeimport.markdown.document_rendered")

	return &Result{
		Path:        sourcePath,
		HTML:        buf.Bytes(),
		FrontMatter: meta,
		Options:     state.opts,
		Report:      state.report,
	}, nil
}

// ProcessHTML resolves directives in HTML rendered by another engine. Text
// inside <code> and <pre> is left untouched.
func (s *Service) ProcessHTML(ctx context.Context, html, sourcePath string, opts interfaces.RenderOptions) (string, interfaces.ProcessReport, error) {
	if s.imports == nil {
		return "", interfaces.ProcessReport{}, errors.New("markdown service: import service is nil")
	}
	tree, err := htmltree.Parse(html)
	if err != nil {
		return "", interfaces.ProcessReport{}, err
	}
	report, err := s.imports.Process(ensureContext(ctx), tree, sourcePath, opts)
	if err != nil {
		return "", report, err
	}
	out, err := tree.Render()
	if err != nil {
		return "", report, err
	}

	logging.WithFields(s.logger, reportFields(sourcePath, report)).
		Debug("codeimport.markdown.html_processed")
	return out, report, nil
}

// RenderBatch renders independent documents concurrently. Results keep the
// order of paths; the first failure cancels the remaining work.
func (s *Service) RenderBatch(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))

	g, gctx := errgroup.WithContext(ensureContext(ctx))
	g.SetLimit(s.cfg.Concurrency)

	for i, path := range paths {
		g.Go(func() error {
			result, err := s.RenderFile(gctx, path)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func reportFields(sourcePath string, report interfaces.ProcessReport) map[string]any {
	return map[string]any{
		"source_path": sourcePath,
		"leaves":      report.Leaves,
		"directives":  report.Directives,
		"rendered":    report.Rendered,
		"not_found":   report.NotFound,
		"failed":      report.Failed,
		"skipped":     report.Skipped,
	}
}

// ensureContext lets callers pass a nil context.
func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

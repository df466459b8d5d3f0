// Package codeimport resolves `@import` directives found in rendered document
// text and splices the imported code back in their place.
package codeimport

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-codeimport/internal/codeimport/parser"
	"github.com/goliatone/go-codeimport/internal/logging"
	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

// Service resolves directives against a vault and produces replacement
// streams. It holds no per-pass state, so one instance can serve concurrent
// passes over different documents.
type Service struct {
	reader     interfaces.FileReader
	renderer   interfaces.BlockRenderer
	parser     interfaces.DirectiveParser
	normalizer interfaces.PathNormalizer
	logger     interfaces.Logger
	metrics    interfaces.ImportMetrics
	passID     func() string
}

// ServiceOption customises service behaviour.
type ServiceOption func(*Service)

// WithParser overrides the directive parser.
func WithParser(p interfaces.DirectiveParser) ServiceOption {
	return func(s *Service) {
		if p != nil {
			s.parser = p
		}
	}
}

// WithNormalizer sets the path normaliser applied to every resolved path.
func WithNormalizer(n interfaces.PathNormalizer) ServiceOption {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics wires the metrics recorder used for telemetry.
func WithMetrics(metrics interfaces.ImportMetrics) ServiceOption {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithPassIDGenerator overrides how render pass identifiers are minted.
func WithPassIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.passID = fn
		}
	}
}

// NewService constructs a service reading files through reader and rendering
// excerpts through renderer. A nil renderer falls back to PlainRenderer.
func NewService(reader interfaces.FileReader, renderer interfaces.BlockRenderer, opts ...ServiceOption) *Service {
	service := &Service{
		reader:     reader,
		renderer:   renderer,
		parser:     parser.NewDirectiveParser(),
		normalizer: interfaces.PathNormalizerFunc(func(path string) string { return path }),
		logger:     logging.NoOp(),
		metrics:    NoOpMetrics(),
		passID:     uuid.NewString,
	}
	if service.renderer == nil {
		service.renderer = PlainRenderer{}
	}

	for _, opt := range opts {
		opt(service)
	}
	return service
}

var _ interfaces.CodeImportService = (*Service)(nil)

// ResolvePath maps a directive path to a vault path relative to sourcePath and
// runs it through the configured normaliser.
func (s *Service) ResolvePath(filePath, sourcePath string) string {
	return s.normalizer.Normalize(JoinPath(filePath, sourcePath))
}

// ResolveDirective fetches, extracts and renders a single directive. Failures
// never escape as errors: a missing file or a failed read yields an error
// segment carrying the cause.
func (s *Service) ResolveDirective(ctx context.Context, directive interfaces.ImportDirective, sourcePath string, opts interfaces.RenderOptions) interfaces.Segment {
	ctx = ensureContext(ctx)
	segment, _ := s.resolve(ctx, s.baseLogger(ctx), directive, sourcePath, opts)
	return segment
}

func (s *Service) resolve(ctx context.Context, logger interfaces.Logger, directive interfaces.ImportDirective, sourcePath string, opts interfaces.RenderOptions) (interfaces.Segment, interfaces.ImportOutcome) {
	resolved := s.ResolvePath(directive.FilePath, sourcePath)
	segment := interfaces.Segment{
		Kind:         interfaces.SegmentError,
		Directive:    &directive,
		ResolvedPath: resolved,
	}

	fields := map[string]any{
		"file_path":     directive.FilePath,
		"resolved_path": resolved,
	}

	if s.reader == nil {
		segment.Err = ErrServiceNotInitialised
		segment.HTML = RenderErrorContainer("Error reading file: "+ErrServiceNotInitialised.Error(), directive)
		s.record(logger, fields, interfaces.ImportOutcomeFailed, 0, segment.Err)
		return segment, interfaces.ImportOutcomeFailed
	}

	start := time.Now()
	content, found, err := s.reader.ReadPlainFile(ctx, resolved)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		segment.Err = readError(err)
		segment.HTML = RenderErrorContainer("Error reading file: "+err.Error(), directive)
		s.record(logger, fields, interfaces.ImportOutcomeFailed, elapsed, segment.Err)
		return segment, interfaces.ImportOutcomeFailed
	case !found:
		segment.Err = notFoundError(resolved)
		segment.HTML = RenderErrorContainer("File not found: "+directive.FilePath, directive)
		s.record(logger, fields, interfaces.ImportOutcomeNotFound, elapsed, nil)
		return segment, interfaces.ImportOutcomeNotFound
	}

	language := ExtensionToLanguage(FileExtension(directive.FilePath))
	extracted := ExtractLines(content, directive.LineBegin, directive.LineEnd)

	body, err := s.renderer.RenderCode(ctx, language, extracted, opts)
	if err == nil {
		segment.HTML, err = RenderCodeContainer(directive, body, opts)
	}
	if err != nil {
		segment.Err = renderError(err)
		segment.HTML = RenderErrorContainer(fmt.Sprintf("Error rendering file: %v", err), directive)
		s.record(logger, fields, interfaces.ImportOutcomeFailed, elapsed, segment.Err)
		return segment, interfaces.ImportOutcomeFailed
	}

	segment.Kind = interfaces.SegmentCode
	segment.Language = language
	segment.Content = extracted
	fields["language"] = language
	s.record(logger, fields, interfaces.ImportOutcomeRendered, elapsed, nil)
	return segment, interfaces.ImportOutcomeRendered
}

func (s *Service) record(logger interfaces.Logger, fields map[string]any, outcome interfaces.ImportOutcome, elapsed time.Duration, err error) {
	s.metrics.IncrementDirective(outcome)
	if elapsed > 0 {
		s.metrics.ObserveFetchDuration(outcome, elapsed)
	}

	fields["outcome"] = string(outcome)
	fields["duration_ms"] = elapsed.Milliseconds()
	entry := logging.WithFields(logger, fields)

	switch outcome {
	case interfaces.ImportOutcomeRendered:
		entry.Debug("codeimport.resolver.directive_rendered")
	case interfaces.ImportOutcomeNotFound:
		entry.Warn("codeimport.resolver.file_not_found")
	default:
		entry.Error("codeimport.resolver.read_failed", "error", err)
	}
}

func (s *Service) baseLogger(ctx context.Context) interfaces.Logger {
	logger := logging.Ensure(s.logger)
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

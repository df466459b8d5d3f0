package interfaces

import (
	"context"
	"errors"
	"html/template"
	"time"
)

// ErrDetachedLeaf is returned by DocumentTree.Replace when a leaf no longer has
// an attachment point in the tree. Callers skip the leaf and keep going.
var ErrDetachedLeaf = errors.New("codeimport: text leaf has no parent")

// ImportDirective captures a single `@import "path" {options}` occurrence.
// LineBegin and LineEnd are nil when the corresponding option is absent.
type ImportDirective struct {
	// FilePath is the path exactly as written between the quotes.
	FilePath string
	// LineBegin is the 0-based inclusive first line.
	LineBegin *int
	// LineEnd is the 0-based exclusive end line. Negative values count from the end of the file.
	LineEnd *int
	// Raw holds the matched source text, from `@import` through the closing brace or quote.
	Raw string
}

// HasRange reports whether either line bound was supplied.
func (d ImportDirective) HasRange() bool {
	return d.LineBegin != nil || d.LineEnd != nil
}

// ParseResult pairs a directive with the half-open byte span [StartIndex, EndIndex)
// it occupies in the scanned text.
type ParseResult struct {
	Directive  ImportDirective
	StartIndex int
	EndIndex   int
}

// DirectiveParser scans text for import directives.
type DirectiveParser interface {
	Parse(text string) []ParseResult
}

// RenderOptions carries the presentation settings applied to every imported block.
type RenderOptions struct {
	// ShowFileName attaches a header with the imported path (and line range) to each block.
	ShowFileName bool `json:"show_file_name" yaml:"show_file_name" mapstructure:"show_file_name"`
	// WrapCode asks the renderer to soft-wrap long lines instead of scrolling.
	WrapCode bool `json:"wrap_code" yaml:"wrap_code" mapstructure:"wrap_code"`
}

// DefaultRenderOptions returns the options applied when nothing is configured.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		ShowFileName: true,
		WrapCode:     false,
	}
}

// SegmentKind identifies the type of a replacement segment.
type SegmentKind string

const (
	// SegmentText is literal text copied from the original leaf.
	SegmentText SegmentKind = "text"
	// SegmentCode is a rendered code block for a resolved directive.
	SegmentCode SegmentKind = "code"
	// SegmentError is an inline error block for a directive that could not be resolved.
	SegmentError SegmentKind = "error"
)

// Segment is one element of the ordered replacement stream produced for a text leaf.
type Segment struct {
	Kind SegmentKind
	// Text is set for SegmentText.
	Text string
	// Directive is set for SegmentCode and SegmentError.
	Directive    *ImportDirective
	ResolvedPath string
	Language     string
	// Content is the extracted file excerpt for SegmentCode.
	Content string
	// HTML is the rendered container for SegmentCode and SegmentError.
	HTML template.HTML
	// Err is the cause recorded for SegmentError.
	Err error
}

// IsBlock reports whether the segment renders as a container rather than plain text.
func (s Segment) IsBlock() bool {
	return s.Kind == SegmentCode || s.Kind == SegmentError
}

// PathNormalizer canonicalises a vault-relative path according to host conventions.
type PathNormalizer interface {
	Normalize(path string) string
}

// PathNormalizerFunc adapts a plain function to PathNormalizer.
type PathNormalizerFunc func(path string) string

// Normalize satisfies PathNormalizer.
func (f PathNormalizerFunc) Normalize(path string) string {
	return f(path)
}

// FileReader reads plain files from the vault. found is false when the path does
// not exist or is not a regular file; err is reserved for genuine I/O failures.
type FileReader interface {
	ReadPlainFile(ctx context.Context, path string) (content string, found bool, err error)
}

// BlockRenderer turns an extracted excerpt into displayable markup.
type BlockRenderer interface {
	RenderCode(ctx context.Context, language, text string, opts RenderOptions) (template.HTML, error)
}

// TextLeaf is a text-bearing leaf of a rendered document.
type TextLeaf interface {
	// Text returns the full text content of the leaf.
	Text() string
	// Verbatim reports whether the leaf sits inside a region already rendered as code.
	Verbatim() bool
}

// DocumentTree exposes the text leaves of a rendered region and lets callers
// substitute a leaf with an ordered replacement stream.
type DocumentTree interface {
	// TextLeaves returns every text-bearing leaf in document order.
	TextLeaves() []TextLeaf
	// Replace substitutes leaf with segments, in order. It returns ErrDetachedLeaf
	// when the leaf has no attachment point.
	Replace(leaf TextLeaf, segments []Segment) error
}

// ProcessReport summarises a single render pass over a document tree.
type ProcessReport struct {
	Leaves     int
	Directives int
	Rendered   int
	NotFound   int
	Failed     int
	Skipped    int
}

// Add folds other into r.
func (r *ProcessReport) Add(other ProcessReport) {
	r.Leaves += other.Leaves
	r.Directives += other.Directives
	r.Rendered += other.Rendered
	r.NotFound += other.NotFound
	r.Failed += other.Failed
	r.Skipped += other.Skipped
}

// ImportOutcome labels how a directive was resolved.
type ImportOutcome string

const (
	ImportOutcomeRendered ImportOutcome = "rendered"
	ImportOutcomeNotFound ImportOutcome = "not_found"
	ImportOutcomeFailed   ImportOutcome = "failed"
)

// ImportMetrics records directive resolution telemetry.
type ImportMetrics interface {
	ObserveFetchDuration(outcome ImportOutcome, duration time.Duration)
	IncrementDirective(outcome ImportOutcome)
}

// CodeImportService is the contract exposed by the resolver/splicer.
type CodeImportService interface {
	SpliceText(ctx context.Context, text, sourcePath string, opts RenderOptions) ([]Segment, error)
	Process(ctx context.Context, tree DocumentTree, sourcePath string, opts RenderOptions) (ProcessReport, error)
}

package codeimport

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-codeimport/internal/logging"
	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

const directiveMarker = "@import"

// CandidateLeaves returns the leaves of tree worth parsing: those outside
// verbatim regions whose text contains the directive marker.
func CandidateLeaves(tree interfaces.DocumentTree) []interfaces.TextLeaf {
	if tree == nil {
		return nil
	}
	var out []interfaces.TextLeaf
	for _, leaf := range tree.TextLeaves() {
		if leaf == nil || leaf.Verbatim() {
			continue
		}
		if strings.Contains(leaf.Text(), directiveMarker) {
			out = append(out, leaf)
		}
	}
	return out
}

// SpliceText parses text and returns its replacement stream: literal text
// between directives plus one block segment per directive, in source order.
// Text without directives comes back as a single text segment. The only
// error returned is the context's.
func (s *Service) SpliceText(ctx context.Context, text, sourcePath string, opts interfaces.RenderOptions) ([]interfaces.Segment, error) {
	ctx = ensureContext(ctx)
	logger := logging.WithPassContext(s.baseLogger(ctx), sourcePath, s.passID())

	results := s.parser.Parse(text)
	if len(results) == 0 {
		if text == "" {
			return nil, nil
		}
		return []interfaces.Segment{{Kind: interfaces.SegmentText, Text: text}}, nil
	}

	var report interfaces.ProcessReport
	return s.splice(ctx, logger, text, results, sourcePath, opts, &report)
}

// splice builds the replacement stream for text. Offsets in results refer to
// the unmodified text and directives are resolved one at a time, left to right.
func (s *Service) splice(ctx context.Context, logger interfaces.Logger, text string, results []interfaces.ParseResult, sourcePath string, opts interfaces.RenderOptions, report *interfaces.ProcessReport) ([]interfaces.Segment, error) {
	segments := make([]interfaces.Segment, 0, len(results)*2+1)
	cursor := 0

	for _, result := range results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if result.StartIndex > cursor {
			segments = append(segments, interfaces.Segment{
				Kind: interfaces.SegmentText,
				Text: text[cursor:result.StartIndex],
			})
		}

		segment, outcome := s.resolve(ctx, logger, result.Directive, sourcePath, opts)
		segments = append(segments, segment)
		tally(report, outcome)

		cursor = result.EndIndex
	}

	if cursor < len(text) {
		segments = append(segments, interfaces.Segment{
			Kind: interfaces.SegmentText,
			Text: text[cursor:],
		})
	}
	return segments, nil
}

func tally(report *interfaces.ProcessReport, outcome interfaces.ImportOutcome) {
	report.Directives++
	switch outcome {
	case interfaces.ImportOutcomeRendered:
		report.Rendered++
	case interfaces.ImportOutcomeNotFound:
		report.NotFound++
	default:
		report.Failed++
	}
}

// Process rewrites every directive found in the non-verbatim text of tree.
// Leaves are handled one at a time in document order. A directive that fails
// to resolve becomes an inline error block and a leaf that cannot be replaced
// is skipped; only context cancellation aborts the pass.
func (s *Service) Process(ctx context.Context, tree interfaces.DocumentTree, sourcePath string, opts interfaces.RenderOptions) (interfaces.ProcessReport, error) {
	var report interfaces.ProcessReport
	if tree == nil {
		return report, nil
	}
	ctx = ensureContext(ctx)

	logger := logging.WithPassContext(s.baseLogger(ctx), sourcePath, s.passID())

	for _, leaf := range CandidateLeaves(tree) {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		text := leaf.Text()
		results := s.parser.Parse(text)
		if len(results) == 0 {
			continue
		}
		report.Leaves++

		segments, err := s.splice(ctx, logger, text, results, sourcePath, opts, &report)
		if err != nil {
			return report, err
		}

		if err := tree.Replace(leaf, segments); err != nil {
			report.Skipped++
			entry := logging.WithFields(logger, map[string]any{
				"directives": len(results),
			})
			if errors.Is(err, interfaces.ErrDetachedLeaf) {
				entry.Warn("codeimport.resolver.leaf_detached")
			} else {
				entry.Error("codeimport.resolver.replace_failed", "error", err)
			}
		}
	}

	logging.WithFields(logger, map[string]any{
		"leaves":     report.Leaves,
		"directives": report.Directives,
		"rendered":   report.Rendered,
		"not_found":  report.NotFound,
		"failed":     report.Failed,
		"skipped":    report.Skipped,
	}).Debug("codeimport.resolver.pass_completed")

	return report, nil
}

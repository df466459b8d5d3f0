package rendercmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-codeimport/internal/markdown"
)

// OutputWriter persists a rendered document. An empty target means the
// writer's default destination.
type OutputWriter interface {
	WriteOutput(ctx context.Context, target string, result *markdown.Result) error
}

// FileOutput writes rendered documents to the local filesystem, or to Stream
// when no target is given.
type FileOutput struct {
	Stream io.Writer
}

// NewFileOutput returns a FileOutput streaming to stream, or os.Stdout when nil.
func NewFileOutput(stream io.Writer) *FileOutput {
	if stream == nil {
		stream = os.Stdout
	}
	return &FileOutput{Stream: stream}
}

// WriteOutput satisfies OutputWriter.
func (o *FileOutput) WriteOutput(ctx context.Context, target string, result *markdown.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if strings.TrimSpace(target) == "" {
		if _, err := o.Stream.Write(result.HTML); err != nil {
			return fmt.Errorf("write %s: %w", result.Path, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return os.WriteFile(target, result.HTML, 0o644)
}

// htmlTarget maps a vault document path onto outputDir, swapping its extension for .html.
func htmlTarget(outputDir, docPath string) string {
	if strings.TrimSpace(outputDir) == "" {
		return ""
	}
	rel := filepath.FromSlash(strings.TrimPrefix(docPath, "/"))
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
	return filepath.Join(outputDir, rel)
}

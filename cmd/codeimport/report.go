package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	codeimport "github.com/goliatone/go-codeimport"
	rendercmd "github.com/goliatone/go-codeimport/internal/commands/render"
	"github.com/goliatone/go-codeimport/internal/markdown"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
)

// tallyOutput wraps an OutputWriter and accumulates the reports of every
// document it writes.
type tallyOutput struct {
	inner rendercmd.OutputWriter

	mu        sync.Mutex
	documents int
	total     codeimport.ProcessReport
}

func (t *tallyOutput) WriteOutput(ctx context.Context, target string, result *markdown.Result) error {
	if err := t.inner.WriteOutput(ctx, target, result); err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	t.mu.Lock()
	t.documents++
	t.total.Add(result.Report)
	t.mu.Unlock()
	return nil
}

func (t *tallyOutput) summary() (int, codeimport.ProcessReport) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.documents, t.total
}

func writeSummary(w io.Writer, documents int, report codeimport.ProcessReport) {
	fmt.Fprintf(w, "%d document(s), %d directive(s): ", documents, report.Directives)
	okColor.Fprintf(w, "%d rendered", report.Rendered)
	fmt.Fprint(w, ", ")
	notFound := okColor
	if report.NotFound > 0 {
		notFound = warnColor
	}
	notFound.Fprintf(w, "%d not found", report.NotFound)
	fmt.Fprint(w, ", ")
	failed := okColor
	if report.Failed > 0 {
		failed = failColor
	}
	failed.Fprintf(w, "%d failed", report.Failed)
	if report.Skipped > 0 {
		fmt.Fprintf(w, ", %d skipped", report.Skipped)
	}
	fmt.Fprintln(w)
}

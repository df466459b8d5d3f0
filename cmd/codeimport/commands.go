package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	codeimport "github.com/goliatone/go-codeimport"
	rendercmd "github.com/goliatone/go-codeimport/internal/commands/render"
	"github.com/goliatone/go-codeimport/internal/vault"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		output string
		dir    string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "render [file...]",
		Short: "Render vault documents to HTML with imports resolved",
		Example: `  codeimport render notes/guide.md
  codeimport render notes/guide.md -o site/guide.html
  codeimport render --dir notes --out-dir site`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" && len(args) == 0 {
				return fmt.Errorf("render: pass at least one file or --dir")
			}
			if output != "" && len(args) != 1 {
				return fmt.Errorf("render: --output needs exactly one file")
			}

			ctx := cmd.Context()
			tally := &tallyOutput{inner: rendercmd.NewFileOutput(cmd.OutOrStdout())}
			module, err := a.module(ctx, cmd, codeimport.WithOutputWriter(tally))
			if err != nil {
				return err
			}
			defer module.Close()

			for _, path := range args {
				if err := module.RenderDocument(ctx, codeimport.RenderDocumentCommand{Path: path, Output: output}); err != nil {
					return err
				}
			}
			if dir != "" {
				if err := module.RenderDirectory(ctx, codeimport.RenderDirectoryCommand{Directory: dir, OutputDir: outDir}); err != nil {
					return err
				}
			}

			documents, report := tally.summary()
			writeSummary(cmd.ErrOrStderr(), documents, report)
			return a.finish(cmd, module)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the rendered HTML to this file")
	cmd.Flags().StringVar(&dir, "dir", "", "Render every document below this vault directory")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory receiving documents rendered with --dir")
	return cmd
}

func newHTMLCommand(a *app) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "html <file>",
		Short: "Resolve imports in HTML already rendered by another engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if source == "" {
				source = args[0]
			}

			ctx := cmd.Context()
			module, err := a.module(ctx, cmd)
			if err != nil {
				return err
			}
			defer module.Close()

			opts := codeimport.RenderOptions{
				ShowFileName: a.cfg.Render.ShowFileName,
				WrapCode:     a.cfg.Render.WrapCode,
			}
			out, report, err := module.ProcessHTML(ctx, string(data), source, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			writeSummary(cmd.ErrOrStderr(), 1, report)
			return a.finish(cmd, module)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Vault path of the document, used to resolve relative imports")
	return cmd
}

type directiveJSON struct {
	FilePath  string `json:"file_path"`
	LineBegin *int   `json:"line_begin,omitempty"`
	LineEnd   *int   `json:"line_end,omitempty"`
	Raw       string `json:"raw"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
}

func newParseCommand(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "List the import directives found in a file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			results := codeimport.ParseImportDirectives(string(data))
			out := make([]directiveJSON, 0, len(results))
			for _, result := range results {
				out = append(out, directiveJSON{
					FilePath:  result.Directive.FilePath,
					LineBegin: result.Directive.LineBegin,
					LineEnd:   result.Directive.LineEnd,
					Raw:       result.Directive.Raw,
					Start:     result.StartIndex,
					End:       result.EndIndex,
				})
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func newExtractCommand(_ *app) *cobra.Command {
	var begin, end int

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Print a line range of a file using import range semantics",
		Long: `Prints lines [begin, end) of a file. Lines are 0-based, the end is
exclusive and a negative end counts back from the end of the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var lineBegin, lineEnd *int
			if cmd.Flags().Changed("begin") {
				lineBegin = &begin
			}
			if cmd.Flags().Changed("end") {
				lineEnd = &end
			}
			fmt.Fprintln(cmd.OutOrStdout(), codeimport.ExtractLines(string(data), lineBegin, lineEnd))
			return nil
		},
	}

	cmd.Flags().IntVar(&begin, "begin", 0, "First line (0-based, inclusive)")
	cmd.Flags().IntVar(&end, "end", 0, "End line (0-based, exclusive; negative counts from the end)")
	return cmd
}

func newSyncCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <dir>",
		Short: "Copy a local directory into the bun vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Vault.Provider != vault.ProviderBun {
				return fmt.Errorf("sync: vault provider must be %q, got %q", vault.ProviderBun, a.cfg.Vault.Provider)
			}

			ctx := cmd.Context()
			module, err := a.module(ctx, cmd)
			if err != nil {
				return err
			}
			defer module.Close()

			reader, ok := module.Container().FileReader().(*vault.BunReader)
			if !ok {
				return fmt.Errorf("sync: vault reader is %T, not a bun reader", module.Container().FileReader())
			}
			count, err := reader.ImportFS(ctx, os.DirFS(args[0]), ".")
			if err != nil {
				return err
			}
			okColor.Fprintf(cmd.ErrOrStderr(), "synced %d file(s) from %s\n", count, args[0])
			return nil
		},
	}
}

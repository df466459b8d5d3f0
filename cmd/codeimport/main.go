// Command codeimport renders markdown notes with their @import directives
// replaced by excerpts of the referenced vault files.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	codeimport "github.com/goliatone/go-codeimport"
	rendercmd "github.com/goliatone/go-codeimport/internal/commands/render"
)

type app struct {
	v          *viper.Viper
	configFile string
	cfg        codeimport.Config
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failColor.Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "codeimport",
		Short: "Render markdown notes with @import directives resolved",
		Long: `Resolves @import "path" {line_begin=N line_end=M} directives against a vault
and replaces each with a rendered excerpt of the referenced file.

Configuration is read from codeimport.yaml, CODEIMPORT_* environment
variables and flags, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindFlags(a.v, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := loadConfig(a.v, a.configFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (default ./codeimport.yaml)")
	flags.String("vault", ".", "Vault root directory for the fs provider")
	flags.String("provider", "fs", "Vault provider: fs, memory or bun")
	flags.String("dsn", "", "Database DSN for the bun provider")
	flags.Bool("show-file-name", true, "Show the imported file name above each block")
	flags.Bool("wrap-code", false, "Wrap long lines in imported blocks")
	flags.Bool("metrics", false, "Print Prometheus metrics to stderr when done")
	flags.BoolP("verbose", "v", false, "Enable structured logging")
	flags.String("log-level", "info", "Log level")
	flags.String("log-format", "", "Log format: console, json or pretty")

	root.AddCommand(
		newRenderCommand(a),
		newHTMLCommand(a),
		newParseCommand(a),
		newExtractCommand(a),
		newSyncCommand(a),
	)
	return root
}

func (a *app) module(ctx context.Context, cmd *cobra.Command, opts ...codeimport.Option) (*codeimport.Module, error) {
	opts = append([]codeimport.Option{
		codeimport.WithOutputWriter(rendercmd.NewFileOutput(cmd.OutOrStdout())),
	}, opts...)
	return codeimport.New(ctx, a.cfg, opts...)
}

func (a *app) finish(cmd *cobra.Command, module *codeimport.Module) error {
	if !a.cfg.Features.Metrics {
		return nil
	}
	return module.WriteMetrics(cmd.ErrOrStderr())
}

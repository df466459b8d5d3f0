package di

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-codeimport/internal/commands/fixtures"
	rendercmd "github.com/goliatone/go-codeimport/internal/commands/render"
	"github.com/goliatone/go-codeimport/internal/logging/gologger"
	"github.com/goliatone/go-codeimport/internal/markdown"
	"github.com/goliatone/go-codeimport/internal/runtimeconfig"
	"github.com/goliatone/go-codeimport/internal/vault"
)

func writeVault(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func TestNewContainerRendersFromFSVault(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Vault.Root = writeVault(t, map[string]string{
		"notes/doc.md":  "Intro\n\n@import \"main.go\" {line_begin=1 line_end=2}\n",
		"notes/main.go": "package main\nfunc main() {}\n",
	})
	cfg.Features.Metrics = true

	container, err := NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	defer container.Close()

	result, err := container.MarkdownService().RenderFile(context.Background(), "notes/doc.md")
	if err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	if !strings.Contains(string(result.HTML), "func main() {}") {
		t.Fatalf("expected imported excerpt in output, got %s", result.HTML)
	}
	if result.Report.Rendered != 1 {
		t.Fatalf("expected one rendered directive, got %+v", result.Report)
	}

	if _, ok := container.DocumentFinder().(*markdown.Loader); !ok {
		t.Fatalf("expected fs loader, got %T", container.DocumentFinder())
	}
	families, err := container.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected import metrics to be gathered")
	}
}

func TestNewContainerUsesListLoaderForMemoryVault(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Vault.Provider = "memory"

	container, err := NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if _, ok := container.DocumentFinder().(*markdown.ListLoader); !ok {
		t.Fatalf("expected list loader, got %T", container.DocumentFinder())
	}
	if container.Gatherer() != nil {
		t.Fatal("expected no gatherer when metrics are disabled")
	}
}

func TestNewContainerInjectedReaderAndRegistry(t *testing.T) {
	reader := vault.NewMemoryReader(map[string]string{
		"a.md": "@import \"missing.go\"",
	})
	reg := fixtures.NewRecordingRegistry()
	promReg := prometheus.NewRegistry()

	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Metrics = true

	container, err := NewContainer(context.Background(), cfg,
		WithFileReader(reader),
		WithCommandRegistry(reg),
		WithPrometheusRegistry(promReg),
		WithOutputWriter(rendercmd.NewFileOutput(&strings.Builder{})),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if container.Vault() != nil {
		t.Fatal("expected no vault when a reader is injected")
	}
	if len(reg.Handlers) != 2 {
		t.Fatalf("expected render handlers registered, got %d", len(reg.Handlers))
	}
	if _, ok := container.DocumentFinder().(*markdown.ListLoader); !ok {
		t.Fatalf("expected list loader over injected reader, got %T", container.DocumentFinder())
	}

	cmd := rendercmd.RenderDirectoryCommand{Directory: "."}
	if err := container.Commands().Directory.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("render directory: %v", err)
	}
	if got := container.Gatherer(); got != promReg {
		t.Fatalf("expected injected registry, got %v", got)
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Vault.Provider = "memory"
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	provider, ok := container.LoggerProvider().(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
	if logger := provider.GetLogger("codeimport.test"); logger == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestConfigureLoggerProviderDisabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Vault.Provider = "memory"

	container, err := NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.LoggerProvider() != nil {
		t.Fatalf("expected no provider when the logger feature is off, got %T", container.LoggerProvider())
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Vault.Provider = "s3"

	if _, err := NewContainer(context.Background(), cfg); !errors.Is(err, runtimeconfig.ErrVaultProviderUnknown) {
		t.Fatalf("expected ErrVaultProviderUnknown, got %v", err)
	}
}

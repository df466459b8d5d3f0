package vault

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

const (
	ProviderFS     = "fs"
	ProviderMemory = "memory"
	ProviderBun    = "bun"

	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config selects and configures the vault backend.
type Config struct {
	Provider string
	// Root is the vault directory for the fs provider.
	Root string
	// Driver and DSN configure the bun provider.
	Driver string
	DSN    string
	// AutoMigrate creates the vault_files table on open.
	AutoMigrate bool
	// Debug logs every query through bundebug.
	Debug bool
}

// Lister enumerates the paths stored in a non-filesystem vault.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

// Vault is an opened backend.
type Vault struct {
	Reader interfaces.FileReader
	// FS is set for the fs provider.
	FS fs.FS
	// Lister is set for the memory and bun providers.
	Lister Lister
	// DB is set for the bun provider.
	DB *bun.DB
}

// Close releases the database handle, if any.
func (v *Vault) Close() error {
	if v == nil || v.DB == nil {
		return nil
	}
	return v.DB.Close()
}

// Open builds the reader described by cfg.
func Open(ctx context.Context, cfg Config, opts ...ReaderOption) (*Vault, error) {
	ctx = ensureContext(ctx)
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderFS:
		root := cfg.Root
		if strings.TrimSpace(root) == "" {
			root = "."
		}
		fsys := os.DirFS(root)
		return &Vault{Reader: NewFSReader(fsys, opts...), FS: fsys}, nil
	case ProviderMemory:
		reader := NewMemoryReader(nil)
		return &Vault{Reader: reader, Lister: reader}, nil
	case ProviderBun:
		db, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		reader := NewBunReader(db, opts...)
		if cfg.AutoMigrate {
			if err := reader.CreateSchema(ctx); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		return &Vault{Reader: reader, Lister: reader, DB: db}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

func openDB(cfg Config) (*bun.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverSQLite
	}

	var db *bun.DB
	switch driver {
	case DriverSQLite:
		sqldb, err := sql.Open(DriverSQLite, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("vault: open sqlite: %w", err)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case DriverPostgres:
		sqldb, err := sql.Open(DriverPostgres, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("vault: open postgres: %w", err)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db, nil
}

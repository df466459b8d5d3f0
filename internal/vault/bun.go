package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-codeimport/internal/logging"
	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

// BunReader serves vault files stored in a database table.
type BunReader struct {
	db     *bun.DB
	repo   repository.Repository[*fileModel]
	logger interfaces.Logger
}

var _ interfaces.FileReader = (*BunReader)(nil)

// NewBunReader constructs a Bun-backed reader.
func NewBunReader(db *bun.DB, opts ...ReaderOption) *BunReader {
	o := collectOptions(opts)
	reader := &BunReader{db: db, logger: o.logger}
	if db != nil {
		reader.repo = newFileRepository(db)
	}
	return reader
}

type fileModel struct {
	bun.BaseModel `bun:"table:vault_files"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Path      string    `bun:"path,notnull,unique"`
	Content   string    `bun:"content,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func newFileRepository(db *bun.DB) repository.Repository[*fileModel] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*fileModel]{
		NewRecord: func() *fileModel { return &fileModel{} },
		GetID: func(f *fileModel) uuid.UUID {
			return f.ID
		},
		SetID: func(f *fileModel, id uuid.UUID) {
			f.ID = id
		},
		GetIdentifier: func() string {
			return "path"
		},
		GetIdentifierValue: func(f *fileModel) string {
			return f.Path
		},
	})
}

// CreateSchema creates the vault_files table when it does not exist.
func (r *BunReader) CreateSchema(ctx context.Context) error {
	if r.db == nil {
		return ErrDatabaseRequired
	}
	if _, err := r.db.NewCreateTable().Model((*fileModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("vault: create schema: %w", err)
	}
	return nil
}

// ReadPlainFile implements interfaces.FileReader.
func (r *BunReader) ReadPlainFile(ctx context.Context, path string) (string, bool, error) {
	if r.repo == nil {
		return "", false, ErrDatabaseRequired
	}
	ctx = ensureContext(ctx)
	record, found, err := r.lookup(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", false, ctxErr
		}
		logging.WithFields(r.logger, map[string]any{"path": path}).
			Error("codeimport.vault.read_failed", "error", err)
		return "", false, readFailed(err, path)
	}
	if !found {
		return "", false, nil
	}
	return record.Content, true, nil
}

func (r *BunReader) lookup(ctx context.Context, path string) (*fileModel, bool, error) {
	record, err := r.repo.GetByIdentifier(ctx, path)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return record, true, nil
}

func isNotFound(err error) bool {
	return goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) || errors.Is(err, sql.ErrNoRows)
}

// Put creates or replaces the file at path.
func (r *BunReader) Put(ctx context.Context, path, content string) error {
	if r.repo == nil {
		return ErrDatabaseRequired
	}
	key := Normalize(path)
	if key == "/" {
		return ErrPathRequired
	}
	ctx = ensureContext(ctx)

	existing, found, err := r.lookup(ctx, key)
	if err != nil {
		return fmt.Errorf("vault: put %s: %w", key, err)
	}
	now := time.Now().UTC()
	if found {
		existing.Content = content
		existing.UpdatedAt = now
		_, err = r.repo.Update(ctx, existing)
	} else {
		_, err = r.repo.Create(ctx, &fileModel{
			ID:        uuid.New(),
			Path:      key,
			Content:   content,
			UpdatedAt: now,
		})
	}
	if err != nil {
		return fmt.Errorf("vault: put %s: %w", key, err)
	}
	return nil
}

// Delete removes path. Removing a missing path is not an error.
func (r *BunReader) Delete(ctx context.Context, path string) error {
	if r.repo == nil {
		return ErrDatabaseRequired
	}
	ctx = ensureContext(ctx)
	key := Normalize(path)
	existing, found, err := r.lookup(ctx, key)
	if err != nil {
		return fmt.Errorf("vault: delete %s: %w", key, err)
	}
	if !found {
		return nil
	}
	if err := r.repo.Delete(ctx, existing); err != nil {
		return fmt.Errorf("vault: delete %s: %w", key, err)
	}
	return nil
}

// List returns every stored path in order.
func (r *BunReader) List(ctx context.Context) ([]string, error) {
	if r.repo == nil {
		return nil, ErrDatabaseRequired
	}
	records, _, err := r.repo.List(ensureContext(ctx), repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("path ASC")
	}))
	if err != nil {
		return nil, fmt.Errorf("vault: list: %w", err)
	}
	paths := make([]string, 0, len(records))
	for _, record := range records {
		paths = append(paths, record.Path)
	}
	return paths, nil
}

// ImportFS copies every regular file under root in fsys into the table and
// returns the number of files written.
func (r *BunReader) ImportFS(ctx context.Context, fsys fs.FS, root string) (int, error) {
	if r.repo == nil {
		return 0, ErrDatabaseRequired
	}
	ctx = ensureContext(ctx)
	if root == "" {
		root = "."
	}

	count := 0
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		if err := r.Put(ctx, path, string(data)); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("vault: import %s: %w", root, err)
	}

	logging.WithFields(r.logger, map[string]any{"root": root, "files": count}).
		Info("codeimport.vault.imported")
	return count, nil
}

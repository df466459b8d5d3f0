package vault

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite3", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = sqldb.Close()
	})

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func newTestReader(t *testing.T) *BunReader {
	t.Helper()
	reader := NewBunReader(newTestDB(t))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := reader.CreateSchema(ctx); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}
	return reader
}

func TestBunReaderPutAndRead(t *testing.T) {
	reader := newTestReader(t)
	ctx := context.Background()

	if err := reader.Put(ctx, "/notes//a.go", "v1"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := reader.Put(ctx, "notes/a.go", "v2"); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}

	content, found, err := reader.ReadPlainFile(ctx, "notes/a.go")
	if err != nil || !found || content != "v2" {
		t.Fatalf("expected v2, got %q %v %v", content, found, err)
	}

	if _, found, err := reader.ReadPlainFile(ctx, "notes/missing.go"); err != nil || found {
		t.Fatalf("expected missing file, got found=%v err=%v", found, err)
	}
}

func TestBunReaderDeleteAndList(t *testing.T) {
	reader := newTestReader(t)
	ctx := context.Background()

	for _, path := range []string{"b.go", "a.go", "c/d.go"} {
		if err := reader.Put(ctx, path, path); err != nil {
			t.Fatalf("Put %s: %v", path, err)
		}
	}
	if err := reader.Delete(ctx, "b.go"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	paths, err := reader.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 2 || paths[0] != "a.go" || paths[1] != "c/d.go" {
		t.Fatalf("unexpected paths %v", paths)
	}
}

func TestBunReaderImportFS(t *testing.T) {
	reader := newTestReader(t)
	ctx := context.Background()

	count, err := reader.ImportFS(ctx, fstest.MapFS{
		"notes/today.md":  {Data: []byte(`@import "code/a.go"`)},
		"notes/code/a.go": {Data: []byte("package a")},
	}, ".")
	if err != nil {
		t.Fatalf("ImportFS: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 files, got %d", count)
	}
	if content, found, _ := reader.ReadPlainFile(ctx, "notes/code/a.go"); !found || content != "package a" {
		t.Fatalf("expected imported file, got %q %v", content, found)
	}
}

func TestBunReaderRequiresDatabase(t *testing.T) {
	reader := NewBunReader(nil)
	ctx := context.Background()

	if _, _, err := reader.ReadPlainFile(ctx, "a.go"); !errors.Is(err, ErrDatabaseRequired) {
		t.Fatalf("expected ErrDatabaseRequired, got %v", err)
	}
	if err := reader.Put(ctx, "a.go", ""); !errors.Is(err, ErrDatabaseRequired) {
		t.Fatalf("expected ErrDatabaseRequired, got %v", err)
	}
	if err := reader.CreateSchema(ctx); !errors.Is(err, ErrDatabaseRequired) {
		t.Fatalf("expected ErrDatabaseRequired, got %v", err)
	}
}

func TestBunReaderPutRequiresPath(t *testing.T) {
	reader := newTestReader(t)
	if err := reader.Put(context.Background(), "/", "x"); !errors.Is(err, ErrPathRequired) {
		t.Fatalf("expected ErrPathRequired, got %v", err)
	}
}

func TestBunReaderOverwriteKeepsRecordIdentity(t *testing.T) {
	reader := newTestReader(t)
	ctx := context.Background()

	if err := reader.Put(ctx, "a.go", "v1"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	first, found, err := reader.lookup(ctx, "a.go")
	if err != nil || !found {
		t.Fatalf("lookup: found=%v err=%v", found, err)
	}
	if first.ID == uuid.Nil {
		t.Fatalf("expected an id to be assigned")
	}

	if err := reader.Put(ctx, "a.go", "v2"); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	var rows []fileModel
	if err := reader.db.NewSelect().Model(&rows).Scan(ctx); err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != first.ID || rows[0].Content != "v2" {
		t.Fatalf("expected one updated row with id %s, got %+v", first.ID, rows)
	}

	if err := reader.Delete(ctx, "missing.go"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestBunReaderAcceptsNilContext(t *testing.T) {
	reader := newTestReader(t)
	var ctx context.Context

	if err := reader.Put(ctx, "a.go", "package a"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if content, found, err := reader.ReadPlainFile(ctx, "a.go"); err != nil || !found || content != "package a" {
		t.Fatalf("expected file, got %q %v %v", content, found, err)
	}
	if paths, err := reader.List(ctx); err != nil || len(paths) != 1 {
		t.Fatalf("expected one path, got %v %v", paths, err)
	}
}

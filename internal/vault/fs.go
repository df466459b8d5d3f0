package vault

import (
	"context"
	"errors"
	"io/fs"

	"github.com/goliatone/go-codeimport/internal/logging"
	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

// FSReader reads plain files from an fs.FS.
type FSReader struct {
	fsys   fs.FS
	logger interfaces.Logger
}

var _ interfaces.FileReader = (*FSReader)(nil)

// ReaderOption customises a reader.
type ReaderOption func(*readerOptions)

type readerOptions struct {
	logger interfaces.Logger
}

// WithLogger attaches a logger to the reader.
func WithLogger(logger interfaces.Logger) ReaderOption {
	return func(o *readerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func collectOptions(opts []ReaderOption) readerOptions {
	o := readerOptions{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewFSReader constructs a reader over fsys.
func NewFSReader(fsys fs.FS, opts ...ReaderOption) *FSReader {
	o := collectOptions(opts)
	return &FSReader{fsys: fsys, logger: o.logger}
}

// ReadPlainFile implements interfaces.FileReader. Missing paths, paths that
// are not valid fs paths and non-regular files report found=false.
func (r *FSReader) ReadPlainFile(ctx context.Context, path string) (string, bool, error) {
	if err := ensureContext(ctx).Err(); err != nil {
		return "", false, err
	}
	if !fs.ValidPath(path) || path == "." {
		return "", false, nil
	}

	info, err := fs.Stat(r.fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return "", false, nil
		}
		return "", false, r.fail(err, path)
	}
	if !info.Mode().IsRegular() {
		return "", false, nil
	}

	data, err := fs.ReadFile(r.fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, r.fail(err, path)
	}
	return string(data), true, nil
}

func (r *FSReader) fail(err error, path string) error {
	logging.WithFields(r.logger, map[string]any{"path": path}).
		Error("codeimport.vault.read_failed", "error", err)
	return readFailed(err, path)
}

// ensureContext lets callers pass a nil context.
func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

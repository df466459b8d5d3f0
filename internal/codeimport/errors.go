package codeimport

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrFileNotFound is the cause recorded on error segments whose file does not exist.
	ErrFileNotFound = errors.New("codeimport: file not found")
	// ErrServiceNotInitialised is returned when the service lacks a file reader.
	ErrServiceNotInitialised = errors.New("codeimport: service not initialised")
)

const (
	textCodeFileNotFound = "CODE_IMPORT_FILE_NOT_FOUND"
	textCodeReadFailed   = "CODE_IMPORT_READ_FAILED"
	textCodeRenderFailed = "CODE_IMPORT_RENDER_FAILED"
)

func notFoundError(resolvedPath string) error {
	return goerrors.Wrap(ErrFileNotFound, goerrors.CategoryNotFound, "import target not found: "+resolvedPath).
		WithTextCode(textCodeFileNotFound)
}

func readError(err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryExternal, "import target could not be read").
		WithTextCode(textCodeReadFailed)
}

func renderError(err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "import block could not be rendered").
		WithTextCode(textCodeRenderFailed)
}

package vault

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrPathRequired is returned when writing a file without a usable path.
	ErrPathRequired = errors.New("vault: path required")
	// ErrDatabaseRequired is returned by BunReader methods when no database is configured.
	ErrDatabaseRequired = errors.New("vault: bun reader requires a database")
	// ErrUnknownProvider is returned by Open for unsupported providers.
	ErrUnknownProvider = errors.New("vault: unknown provider")
	// ErrUnknownDriver is returned by Open for unsupported database drivers.
	ErrUnknownDriver = errors.New("vault: unknown database driver")
)

const vaultReadFailedCode = "VAULT_READ_FAILED"

func readFailed(err error, path string) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryExternal, "vault read failed: "+path).
		WithTextCode(vaultReadFailedCode)
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/roach88/hyperpipe/internal/store"
)

// writeFile creates path and fills it with write. The file is closed before
// returning and a close error is reported.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &CommandError{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("create %s: %v", path, err), Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &CommandError{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("close %s: %v", path, cerr), Err: cerr}
		}
	}()

	if err := write(f); err != nil {
		return &CommandError{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("write %s: %v", path, err), Err: err}
	}
	return nil
}

// openExistingStore opens a run database that must already exist. Unlike
// store.Open it never creates the file, so a mistyped path is reported
// instead of yielding an empty database.
func openExistingStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, &CommandError{Code: ErrCodeNotFound, Message: fmt.Sprintf("database not found: %s", path), Err: err}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, &CommandError{Code: ErrCodeStoreFailed, Message: fmt.Sprintf("open database: %v", err), Err: err}
	}
	return st, nil
}

// closeStore closes st and logs a close failure.
func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/roach88/hyperpipe/internal/config"
	"github.com/roach88/hyperpipe/internal/ingest"
	"github.com/roach88/hyperpipe/internal/ir"
)

// stdinPath selects standard input as the log source.
const stdinPath = "-"

// LoadResult is a parsed and grouped pass-dump log.
type LoadResult struct {
	Source string
	Buffer *ir.Buffer
	Stats  ingest.Stats
}

// LoadLog reads, parses and groups one log file. path "-" reads stdin.
// All failures are returned as *CommandError.
func LoadLog(path string, stdin io.Reader, cfg config.Config) (*LoadResult, error) {
	var r io.Reader
	if path == stdinPath {
		r = stdin
	} else {
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &CommandError{Code: ErrCodeNotFound, Message: fmt.Sprintf("log file not found: %s", path), Err: err}
		}
		if err != nil {
			return nil, &CommandError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("error opening log: %v", err), Err: err}
		}
		defer f.Close()
		r = f
	}

	records, err := ingest.ParseLog(r)
	if err != nil {
		if ingest.IsMalformed(err) {
			return nil, &CommandError{Code: ErrCodeMalformed, Message: err.Error(), Err: err}
		}
		return nil, &CommandError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("error reading log: %v", err), Err: err}
	}
	slog.Debug("log parsed", "source", path, "records", len(records))

	buf, stats, err := ingest.Group(records, ingest.GroupOptions{ExcludePrefixes: cfg.ExcludePrefixes})
	if err != nil {
		return nil, &CommandError{Code: ErrCodeMalformed, Message: err.Error(), Err: err}
	}

	return &LoadResult{Source: path, Buffer: buf, Stats: stats}, nil
}

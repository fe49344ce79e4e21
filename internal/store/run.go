package store

import (
	"errors"

	"github.com/roach88/hyperpipe/internal/ir"
)

// ErrRunNotFound is returned when a requested run does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run is one stored alignment result.
type Run struct {
	ID          string       `json:"id"`
	Source      string       `json:"source"`
	Digest      string       `json:"digest"`
	Seq         int64        `json:"seq"`
	ToolVersion string       `json:"tool_version"`
	Format      string       `json:"format"`
	Pipeline    *ir.Pipeline `json:"pipeline"`
}

// RunSummary is a run without its cells, as listed by ListRuns.
type RunSummary struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Digest   string `json:"digest"`
	Entities int    `json:"entities"`
	Stages   int    `json:"stages"`
	Seq      int64  `json:"seq"`
}

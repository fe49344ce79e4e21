package ingest

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/roach88/hyperpipe/internal/ir"
)

// DefaultExcludePrefixes lists entity-name prefixes that never reach the buffer.
// Lifetime-marker intrinsics are no-ops for every pass.
var DefaultExcludePrefixes = []string{"llvm.lifetime."}

// GroupOptions controls record grouping.
type GroupOptions struct {
	// ExcludePrefixes drops records whose entity starts with any prefix.
	// Nil means DefaultExcludePrefixes; an empty non-nil slice excludes nothing.
	ExcludePrefixes []string
}

// Stats summarizes one grouping pass.
type Stats struct {
	Records  int `json:"records"`
	Excluded int `json:"excluded"`
	Entities int `json:"entities"`
	Missing  int `json:"missing"` // Records with an empty property block
}

// Group decodes every record and groups the survivors by entity in log order.
// The first decoding error aborts grouping; no partial buffer is returned.
func Group(records []ir.Record, opts GroupOptions) (*ir.Buffer, Stats, error) {
	prefixes := opts.ExcludePrefixes
	if prefixes == nil {
		prefixes = DefaultExcludePrefixes
	}

	buf := ir.NewBuffer()
	stats := Stats{Records: len(records)}
	for i, rec := range records {
		if excluded(rec.Entity, prefixes) {
			stats.Excluded++
			continue
		}
		snap, err := DecodeSnapshot(rec.Block)
		if err != nil {
			var me *MalformedRecordError
			if errors.As(err, &me) {
				me.Index = i
				me.Entity = string(rec.Entity)
			}
			return nil, Stats{}, err
		}
		if snap.IsMissing() {
			stats.Missing++
		}
		buf.Add(rec.Entity, rec.Stage, snap)
	}
	stats.Entities = buf.Len()

	slog.Debug("records grouped",
		"records", stats.Records,
		"excluded", stats.Excluded,
		"entities", stats.Entities)
	return buf, stats, nil
}

func excluded(id ir.EntityID, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(string(id), p) {
			return true
		}
	}
	return false
}

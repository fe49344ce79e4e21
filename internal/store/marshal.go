package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/hyperpipe/internal/ir"
)

// marshalSnapshot converts a snapshot to its column values.
// Missing snapshots store NULL properties; observed ones store canonical JSON.
func marshalSnapshot(s ir.Snapshot) (missing int, props sql.NullString, err error) {
	if s.IsMissing() {
		return 1, sql.NullString{}, nil
	}
	data, err := ir.MarshalCanonical(s.Properties())
	if err != nil {
		return 0, sql.NullString{}, fmt.Errorf("marshal snapshot: %w", err)
	}
	return 0, sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalSnapshot is the inverse of marshalSnapshot.
func unmarshalSnapshot(missing int, props sql.NullString) (ir.Snapshot, error) {
	if missing != 0 {
		return ir.Missing(), nil
	}
	if !props.Valid {
		return ir.Snapshot{}, fmt.Errorf("unmarshal snapshot: observed cell has NULL properties")
	}
	var p ir.Properties
	if err := json.Unmarshal([]byte(props.String), &p); err != nil {
		return ir.Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return ir.Observed(p), nil
}

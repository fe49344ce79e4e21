package ingest

import (
	"errors"
	"fmt"
)

// MalformedRecordError reports a record or property block that cannot be decoded.
type MalformedRecordError struct {
	// Index is the zero-based position among non-empty records, matching the
	// record slice ParseLog returns. -1 when unknown.
	Index int

	// Entity is the record's entity name, if it was parsed.
	Entity string

	// Line is the offending property-block line, if any.
	Line string

	// Reason describes what is wrong.
	Reason string
}

func (e *MalformedRecordError) Error() string {
	var b []byte
	b = fmt.Appendf(b, "malformed record")
	if e.Index >= 0 {
		b = fmt.Appendf(b, " %d", e.Index)
	}
	if e.Entity != "" {
		b = fmt.Appendf(b, " (entity %q)", e.Entity)
	}
	b = fmt.Appendf(b, ": %s", e.Reason)
	if e.Line != "" {
		b = fmt.Appendf(b, ": %q", e.Line)
	}
	return string(b)
}

// IsMalformed returns true if err is, or wraps, a MalformedRecordError.
func IsMalformed(err error) bool {
	var me *MalformedRecordError
	return errors.As(err, &me)
}

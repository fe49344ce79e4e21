package ingest

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/hyperpipe/internal/ir"
)

const (
	recordSeparator = "***"
	fieldSeparator  = "#"
)

// ParseLog reads a whole pass-dump log and splits it into records in log order.
//
// Text before the first "***" is ignored, as are empty records. A record with
// fewer than three fields is malformed. A record without a fourth field has an
// absent property block.
func ParseLog(r io.Reader) ([]ir.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return ParseString(string(data))
}

// ParseString is ParseLog over an in-memory log.
func ParseString(log string) ([]ir.Record, error) {
	chunks := strings.Split(strings.TrimSpace(log), recordSeparator)
	if len(chunks) <= 1 {
		return []ir.Record{}, nil
	}

	records := make([]ir.Record, 0, len(chunks)-1)
	for _, chunk := range chunks[1:] {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		rec, err := parseRecord(chunk)
		if err != nil {
			err.Index = len(records)
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRecord(chunk string) (ir.Record, *MalformedRecordError) {
	fields := strings.SplitN(chunk, fieldSeparator, 4)
	if len(fields) < 3 {
		return ir.Record{}, &MalformedRecordError{
			Reason: fmt.Sprintf("expected at least 3 %q-separated fields, got %d", fieldSeparator, len(fields)),
		}
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	rec := ir.Record{
		Header: fields[0],
		Stage:  ir.Stage(norm.NFC.String(fields[1])),
		Entity: ir.EntityID(norm.NFC.String(fields[2])),
	}
	if rec.Stage == "" {
		return ir.Record{}, &MalformedRecordError{Entity: string(rec.Entity), Reason: "empty stage name"}
	}
	if rec.Entity == "" {
		return ir.Record{}, &MalformedRecordError{Reason: "empty entity name"}
	}
	if len(fields) == 4 {
		rec.Block = fields[3]
	}
	return rec, nil
}

package table

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Header labels of the identity column, matching the pandas MultiIndex layout.
const (
	identityTop    = "Pass Number"
	identityBottom = "Function Name"
)

// CSVOptions controls CSV export.
type CSVOptions struct {
	// NA is written for missing cells.
	NA string
}

// WriteCSV writes the table in the two-header-row layout of a pandas
// MultiIndex frame: an unnamed index column, the identity column, then one
// column per (position, property).
//
//	,Pass Number,0,0,...
//	,Function Name,BasicBlockCount,Uses,...
//	0,main,3,1,...
func WriteCSV(w io.Writer, t *Table, opts CSVOptions) error {
	cw := csv.NewWriter(w)

	width := 2 + len(t.Stages)*len(t.Properties)
	top := make([]string, 0, width)
	bottom := make([]string, 0, width)
	top = append(top, "", identityTop)
	bottom = append(bottom, "", identityBottom)
	for pos := range t.Stages {
		for _, prop := range t.Properties {
			top = append(top, strconv.Itoa(pos))
			bottom = append(bottom, prop)
		}
	}
	if err := cw.Write(top); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.Write(bottom); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, 0, width)
	for i, row := range t.Rows {
		record = append(record[:0], strconv.Itoa(i), string(row.Entity))
		for _, v := range row.Cells {
			if v.Valid {
				record = append(record, v.Text)
			} else {
				record = append(record, opts.NA)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteStageList writes the master stage sequence, one stage per line.
func WriteStageList(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	for _, s := range t.Stages {
		if _, err := fmt.Fprintln(bw, s); err != nil {
			return fmt.Errorf("write stage list: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write stage list: %w", err)
	}
	return nil
}

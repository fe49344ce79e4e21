package table

import (
	"fmt"
	"strconv"

	pretty "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Alignment selects a column's horizontal alignment in RenderGrid.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// RenderGrid renders headers and rows as a rounded box table.
// Short rows are padded with empty cells.
func RenderGrid(headers []string, rows [][]string, aligns []Alignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := pretty.NewWriter()
	tw.SetStyle(pretty.StyleRounded)

	header := make(pretty.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(pretty.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]pretty.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		configs = append(configs, pretty.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// PreviewOptions controls Render.
type PreviewOptions struct {
	// Property is shown per entity; empty means the first property.
	Property string

	// MaxPositions and MaxEntities cap the preview; zero means no cap.
	MaxPositions int
	MaxEntities  int

	// Missing is shown for missing cells.
	Missing string
}

// Render draws a position-major preview: one line per master position, one
// column per entity, showing a single property.
func Render(t *Table, opts PreviewOptions) (string, error) {
	prop := 0
	if opts.Property != "" {
		prop = -1
		for i, p := range t.Properties {
			if p == opts.Property {
				prop = i
				break
			}
		}
		if prop < 0 {
			return "", fmt.Errorf("unknown property %q", opts.Property)
		}
	}
	missing := opts.Missing
	if missing == "" {
		missing = "-"
	}

	entities := len(t.Rows)
	if opts.MaxEntities > 0 {
		entities = min(entities, opts.MaxEntities)
	}
	positions := len(t.Stages)
	if opts.MaxPositions > 0 {
		positions = min(positions, opts.MaxPositions)
	}

	headers := []string{"#", "Stage"}
	aligns := []Alignment{AlignRight, AlignLeft}
	for r := 0; r < entities; r++ {
		headers = append(headers, string(t.Rows[r].Entity))
		aligns = append(aligns, AlignRight)
	}

	rows := make([][]string, 0, positions)
	for pos := 0; pos < positions; pos++ {
		line := []string{strconv.Itoa(pos), string(t.Stages[pos])}
		for r := 0; r < entities; r++ {
			v := t.Cell(r, pos, prop)
			if v.Valid {
				line = append(line, v.Text)
			} else {
				line = append(line, missing)
			}
		}
		rows = append(rows, line)
	}

	return RenderGrid(headers, rows, aligns), nil
}

package table

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/roach88/hyperpipe/internal/ir"
)

// DefaultProperties are the function properties recorded by the pass dump.
var DefaultProperties = []string{
	"BasicBlockCount",
	"BlocksReachedFromConditionalInstruction",
	"Uses",
	"DirectCallsToDefinedFunctions",
	"LoadInstCount",
	"StoreInstCount",
	"MaxLoopDepth",
	"TopLevelLoopCount",
}

// Value is one table cell. Valid is false for missing cells.
type Value struct {
	Text  string
	Valid bool
}

// Int parses the cell as an integer.
func (v Value) Int() (int64, bool) {
	if !v.Valid {
		return 0, false
	}
	n, err := strconv.ParseInt(v.Text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MarshalJSON encodes missing cells as null and integers as numbers.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	if n, ok := v.Int(); ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(v.Text)
}

// Row holds one entity's cells, position-major: cell (pos, prop) is at
// pos*len(Properties)+prop.
type Row struct {
	Entity ir.EntityID `json:"entity"`
	Cells  []Value     `json:"cells"`
}

// Table is the assembled per-entity property table.
type Table struct {
	Properties []string   `json:"properties"`
	Stages     []ir.Stage `json:"stages"`
	Rows       []Row      `json:"rows"`
}

// Cell returns one entity's value for a property at a master position.
func (t *Table) Cell(row, pos, prop int) Value {
	return t.Rows[row].Cells[pos*len(t.Properties)+prop]
}

// Lookup finds the row index of an entity.
func (t *Table) Lookup(id ir.EntityID) (int, bool) {
	for i, r := range t.Rows {
		if r.Entity == id {
			return i, true
		}
	}
	return -1, false
}

// Assemble builds the table for a pipeline.
//
// Rows follow the entity order of position 0. A pipeline with no positions
// yields a table with no rows.
func Assemble(p *ir.Pipeline, properties []string) (*Table, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("assemble table: %w", err)
	}
	if len(properties) == 0 {
		return nil, fmt.Errorf("assemble table: no property names")
	}

	t := &Table{
		Properties: append([]string(nil), properties...),
		Stages:     append([]ir.Stage(nil), p.Stages...),
		Rows:       []Row{},
	}
	if p.Len() == 0 {
		return t, nil
	}

	width := p.Len() * len(properties)
	t.Rows = make([]Row, len(p.Entities))
	for col, id := range p.Entities {
		t.Rows[col] = Row{Entity: id, Cells: make([]Value, 0, width)}
	}

	for _, cells := range p.Cells {
		for col, snap := range cells {
			row := &t.Rows[col]
			for _, name := range properties {
				text, ok := snap.Get(name)
				row.Cells = append(row.Cells, Value{Text: text, Valid: ok})
			}
		}
	}
	return t, nil
}

package render

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/table"
)

type ColumnPayload struct {
	Name string           `json:"name"`
	Type table.ColumnType `json:"type"`
}

// TablePayload is the JSON form of a table, row major.
type TablePayload struct {
	Columns   []ColumnPayload `json:"columns"`
	Rows      [][]table.Value `json:"rows"`
	TotalRows int             `json:"total_rows"`
}

// NewTablePayload keeps the first limit rows of t, or all of them when limit is not positive.
func NewTablePayload(t *table.Table, limit int) TablePayload {
	n := t.NumRows()
	if limit > 0 && limit < n {
		n = limit
	}

	p := TablePayload{
		Columns:   make([]ColumnPayload, 0, t.NumCols()),
		Rows:      make([][]table.Value, n),
		TotalRows: t.NumRows(),
	}
	for _, col := range t.Columns() {
		p.Columns = append(p.Columns, ColumnPayload{Name: col.Name, Type: col.Type})
	}
	for i := range n {
		p.Rows[i] = t.Row(i)
	}

	return p
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return errors.Wrap(enc.Encode(v), "unable to encode json")
}

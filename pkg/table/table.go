package table

import (
	"github.com/pkg/errors"
)

var (
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrColumnLength    = errors.New("columns have different lengths")
	ErrRowMask         = errors.New("row mask length does not match the table")
)

// Table is an ordered collection of named columns.
type Table struct {
	columns []*Column
	index   map[string]int
}

// New creates a table from columns. Column names must be unique and every column must hold
// the same number of rows.
func New(columns ...*Column) (*Table, error) {
	tbl := &Table{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, col := range columns {
		if _, ok := tbl.index[col.Name]; ok {
			return nil, errors.Wrapf(ErrDuplicateColumn, "column %q", col.Name)
		}
		if len(tbl.columns) > 0 && col.Len() != tbl.columns[0].Len() {
			return nil, errors.Wrapf(ErrColumnLength, "column %q has %d rows, expected %d", col.Name, col.Len(), tbl.columns[0].Len())
		}
		tbl.index[col.Name] = len(tbl.columns)
		tbl.columns = append(tbl.columns, col)
	}

	return tbl, nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if len(t.columns) == 0 {
		return 0
	}

	return t.columns[0].Len()
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.columns)
}

// Columns returns the columns in order. The slice must not be modified.
func (t *Table) Columns() []*Column {
	return t.columns
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}

	return names
}

// Column returns the column called name.
func (t *Table) Column(name string) (*Column, bool) {
	idx, ok := t.index[name]
	if !ok {
		return nil, false
	}

	return t.columns[idx], true
}

// Row returns a copy of the i-th row.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for c, col := range t.columns {
		row[c] = col.Values[i]
	}

	return row
}

// Missing returns the number of missing cells of the table.
func (t *Table) Missing() int {
	n := 0
	for _, col := range t.columns {
		n += col.Missing()
	}

	return n
}

// RowHasMissing reports whether any cell of the i-th row is missing.
func (t *Table) RowHasMissing(i int) bool {
	for _, col := range t.columns {
		if col.Values[i].IsMissing() {
			return true
		}
	}

	return false
}

// RowKey returns a key identifying the values of the i-th row over the given column indexes.
// Two rows have the same key when they hold equal values in those columns.
func (t *Table) RowKey(i int, columns []int) string {
	var b []byte
	for _, c := range columns {
		b = t.columns[c].Values[i].appendKey(b)
	}

	return string(b)
}

// ColumnIndex returns the position of the column called name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	idx, ok := t.index[name]

	return idx, ok
}

// Filter keeps the rows whose mask entry is true, preserving their order. It returns the
// number of removed rows.
func (t *Table) Filter(keep []bool) (int, error) {
	if len(keep) != t.NumRows() {
		return 0, errors.Wrapf(ErrRowMask, "mask has %d entries, table has %d rows", len(keep), t.NumRows())
	}

	removed := 0
	for _, k := range keep {
		if !k {
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}

	for _, col := range t.columns {
		kept := col.Values[:0]
		for i, v := range col.Values {
			if keep[i] {
				kept = append(kept, v)
			}
		}
		col.Values = kept
	}

	return removed, nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cols := make([]*Column, len(t.columns))
	for i, col := range t.columns {
		cols[i] = col.clone()
	}
	index := make(map[string]int, len(t.index))
	for k, v := range t.index {
		index[k] = v
	}

	return &Table{columns: cols, index: index}
}

package render

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/table"
)

// WriteCSV writes the header and every row of t. Missing values are written as empty fields.
func WriteCSV(w io.Writer, t *table.Table, delimiter rune) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}

	if err := cw.Write(t.ColumnNames()); err != nil {
		return errors.Wrap(err, "unable to write header")
	}

	columns := t.Columns()
	record := make([]string, len(columns))
	for i := 0; i < t.NumRows(); i++ {
		for j, col := range columns {
			record[j] = col.Format(i)
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "unable to write row %d", i)
		}
	}
	cw.Flush()

	return errors.Wrap(cw.Error(), "unable to flush csv")
}

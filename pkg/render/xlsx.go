package render

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/stats"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/table"
)

const (
	SheetCleaned = "cleaned"
	SheetSummary = "summary"
)

// WriteXLSX writes a workbook holding t on the cleaned sheet and sum on the summary sheet.
// Numbers are stored as numbers; missing values leave the cell empty.
func WriteXLSX(w io.Writer, t *table.Table, sum stats.Summary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetCleaned); err != nil {
		return errors.Wrap(err, "unable to name sheet")
	}

	header := make([]any, 0, t.NumCols())
	for _, name := range t.ColumnNames() {
		header = append(header, name)
	}
	if err := setRow(f, SheetCleaned, 1, header); err != nil {
		return err
	}
	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = cellValue(v)
		}
		if err := setRow(f, SheetCleaned, i+2, cells); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return errors.Wrap(err, "unable to create summary sheet")
	}
	summaryCells := make([]any, len(summaryHeader))
	for i, h := range summaryHeader {
		summaryCells[i] = h
	}
	if err := setRow(f, SheetSummary, 1, summaryCells); err != nil {
		return err
	}
	for i, c := range columnSummaries(sum) {
		if err := setRow(f, SheetSummary, i+2, c.cells()); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)

	return errors.Wrap(err, "unable to write workbook")
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrapf(err, "row %d", row)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return errors.Wrapf(err, "unable to write row %d of sheet %s", row, sheet)
	}

	return nil
}

func cellValue(v table.Value) any {
	if f, ok := v.Float(); ok {
		return f
	}
	if s, ok := v.Str(); ok {
		return s
	}

	return nil
}

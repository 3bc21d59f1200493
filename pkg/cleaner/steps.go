package cleaner

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/stats"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/table"
)

// resolveSelection returns the positions of the selected columns. Every name must exist in t.
func resolveSelection(t *table.Table, subset []string) ([]int, error) {
	if len(subset) == 0 {
		return nil, &SelectionError{Err: ErrEmptySelection}
	}

	var unknown []string
	seen := make(map[string]struct{}, len(subset))
	columns := make([]int, 0, len(subset))
	for _, name := range subset {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		idx, ok := t.ColumnIndex(name)
		if !ok {
			unknown = append(unknown, name)

			continue
		}
		columns = append(columns, idx)
	}
	if len(unknown) > 0 {
		return nil, &SelectionError{Columns: unknown, Err: ErrUnknownColumn}
	}

	return columns, nil
}

// DropDuplicates removes the rows whose values over the subset columns repeat an earlier row.
// The first occurrence is kept and the row order is preserved. Missing values are equal to
// each other. It returns the number of removed rows.
func DropDuplicates(t *table.Table, subset []string) (int, error) {
	columns, err := resolveSelection(t, subset)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, t.NumRows())
	keep := make([]bool, t.NumRows())
	for i := range keep {
		key := t.RowKey(i, columns)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep[i] = true
	}

	return t.Filter(keep)
}

// ApplyPolicy handles the missing values of t. It returns the number of dropped rows or
// filled cells.
func ApplyPolicy(t *table.Table, policy Policy) (int, error) {
	switch policy {
	case PolicyNone:
		return 0, nil
	case PolicyDropRows:
		return DropMissingRows(t)
	case PolicyFillMean:
		return FillMean(t), nil
	case PolicyFillZero:
		return FillZero(t), nil
	default:
		return 0, errors.Wrapf(ErrUnknownPolicy, "%d", int(policy))
	}
}

// DropMissingRows removes every row holding at least one missing value.
func DropMissingRows(t *table.Table) (int, error) {
	keep := make([]bool, t.NumRows())
	for i := range keep {
		keep[i] = !t.RowHasMissing(i)
	}

	return t.Filter(keep)
}

// FillMean replaces the missing values of every int64 and float64 column with the mean of the
// values present in that column. Columns without any value are left alone.
func FillMean(t *table.Table) int {
	filled := 0
	for _, col := range t.Columns() {
		if !col.Type.IsNumeric() {
			continue
		}
		nums := col.Numbers()
		if len(nums) == 0 || len(nums) == col.Len() {
			continue
		}
		mean := table.Number(stats.Mean(nums))
		if mean.IsMissing() {
			continue
		}
		for i, v := range col.Values {
			if v.IsMissing() {
				col.Values[i] = mean
				filled++
			}
		}
	}

	return filled
}

// FillZero replaces every missing value with the number zero, whatever the column type. An
// object column ends up holding a numeric zero, not an empty or "0" text.
func FillZero(t *table.Table) int {
	filled := 0
	zero := table.Number(0)
	for _, col := range t.Columns() {
		for i, v := range col.Values {
			if v.IsMissing() {
				col.Values[i] = zero
				filled++
			}
		}
	}

	return filled
}

// TrimWhitespace strips leading and trailing whitespace from the texts of object columns.
// Missing values, numbers and numeric columns are untouched. It returns the number of
// modified cells.
func TrimWhitespace(t *table.Table) int {
	trimmed := 0
	for _, col := range t.Columns() {
		if col.Type != table.Object {
			continue
		}
		for i, v := range col.Values {
			s, ok := v.Str()
			if !ok {
				continue
			}
			if ts := strings.TrimSpace(s); ts != s {
				col.Values[i] = table.Text(ts)
				trimmed++
			}
		}
	}

	return trimmed
}

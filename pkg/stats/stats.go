// Package stats computes descriptive statistics of a table.
package stats

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/table"
)

// Stat is a statistic that may be undefined. Undefined statistics are NaN and encode as null.
type Stat float64

func (s Stat) Valid() bool {
	return !math.IsNaN(float64(s)) && !math.IsInf(float64(s), 0)
}

func (s Stat) String() string {
	if math.IsNaN(float64(s)) {
		return "NaN"
	}

	return strconv.FormatFloat(float64(s), 'f', 6, 64)
}

func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return []byte("null"), nil
	}

	return strconv.AppendFloat(nil, float64(s), 'g', -1, 64), nil
}

// NumericSummary describes a numeric column.
type NumericSummary struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Mean   Stat   `json:"mean"`
	Std    Stat   `json:"std"`
	Min    Stat   `json:"min"`
	P25    Stat   `json:"25%"`
	P50    Stat   `json:"50%"`
	P75    Stat   `json:"75%"`
	Max    Stat   `json:"max"`
}

// ObjectSummary describes a non numeric column.
type ObjectSummary struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Unique int    `json:"unique"`
	Top    string `json:"top"`
	Freq   int    `json:"freq"`
}

// ColumnInfo gives the type and the number of missing values of a column.
type ColumnInfo struct {
	Column  string `json:"column"`
	Type    string `json:"type"`
	Missing int    `json:"missing"`
}

// Summary is a snapshot of a table. It is not updated when the table changes.
type Summary struct {
	Rows    int              `json:"rows"`
	Columns int              `json:"columns"`
	Info    []ColumnInfo     `json:"info"`
	Numeric []NumericSummary `json:"numeric"`
	Object  []ObjectSummary  `json:"object"`
}

// Describe summarises every column of t.
func Describe(t *table.Table) Summary {
	sum := Summary{
		Rows:    t.NumRows(),
		Columns: t.NumCols(),
		Info:    make([]ColumnInfo, 0, t.NumCols()),
	}
	for _, col := range t.Columns() {
		sum.Info = append(sum.Info, ColumnInfo{
			Column:  col.Name,
			Type:    col.Type.String(),
			Missing: col.Missing(),
		})
		if col.Type.IsNumeric() {
			sum.Numeric = append(sum.Numeric, DescribeNumeric(col.Name, col.Numbers()))

			continue
		}
		sum.Object = append(sum.Object, DescribeObject(col))
	}

	return sum
}

// DescribeNumeric summarises xs. The standard deviation is the sample one (n-1).
func DescribeNumeric(name string, xs []float64) NumericSummary {
	nan := Stat(math.NaN())
	summary := NumericSummary{
		Column: name,
		Count:  len(xs),
		Mean:   nan,
		Std:    nan,
		Min:    nan,
		P25:    nan,
		P50:    nan,
		P75:    nan,
		Max:    nan,
	}
	if len(xs) == 0 {
		return summary
	}

	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	summary.Mean = Stat(Mean(xs))
	if len(xs) > 1 {
		summary.Std = Stat(stat.StdDev(xs, nil))
	}
	summary.Min = Stat(sorted[0])
	summary.P25 = Stat(Percentile(sorted, 25))
	summary.P50 = Stat(Percentile(sorted, 50))
	summary.P75 = Stat(Percentile(sorted, 75))
	summary.Max = Stat(sorted[len(sorted)-1])

	return summary
}

// DescribeObject counts the present values of col. Top is the most frequent value, the first
// one seen wins ties.
func DescribeObject(col *table.Column) ObjectSummary {
	summary := ObjectSummary{Column: col.Name}

	counts := make(map[string]int)
	var order []string
	formatted := make(map[string]string)
	for i, v := range col.Values {
		if v.IsMissing() {
			continue
		}
		summary.Count++
		key := v.Kind().String() + ":" + v.String()
		if _, ok := counts[key]; !ok {
			order = append(order, key)
			formatted[key] = col.Format(i)
		}
		counts[key]++
	}

	summary.Unique = len(order)
	for _, key := range order {
		if counts[key] > summary.Freq {
			summary.Freq = counts[key]
			summary.Top = formatted[key]
		}
	}

	return summary
}

// Mean returns the arithmetic mean of xs, NaN when xs is empty.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}

	return stat.Mean(xs, nil)
}

// Percentile returns the p-th percentile (0 <= p <= 100) of sorted, interpolating linearly
// between the two closest ranks.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	pos := p / 100 * float64(n-1)
	lower := int(math.Floor(pos))
	if lower >= n-1 {
		return sorted[n-1]
	}
	if lower < 0 {
		return sorted[0]
	}
	frac := pos - float64(lower)

	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

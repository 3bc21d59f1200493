package render

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/stats"
)

var summaryHeader = []string{
	"column", "type", "missing", "count", "mean", "std", "min", "25%", "50%", "75%", "max", "unique", "top", "freq",
}

// columnSummary joins the info and the description of one column.
type columnSummary struct {
	info    stats.ColumnInfo
	numeric *stats.NumericSummary
	object  *stats.ObjectSummary
}

func columnSummaries(sum stats.Summary) []columnSummary {
	numeric := make(map[string]*stats.NumericSummary, len(sum.Numeric))
	for i := range sum.Numeric {
		numeric[sum.Numeric[i].Column] = &sum.Numeric[i]
	}
	object := make(map[string]*stats.ObjectSummary, len(sum.Object))
	for i := range sum.Object {
		object[sum.Object[i].Column] = &sum.Object[i]
	}

	out := make([]columnSummary, 0, len(sum.Info))
	for _, info := range sum.Info {
		out = append(out, columnSummary{
			info:    info,
			numeric: numeric[info.Column],
			object:  object[info.Column],
		})
	}

	return out
}

// cells returns the summary of the column laid out as summaryHeader. Blank statistics are nil.
func (c columnSummary) cells() []any {
	row := make([]any, len(summaryHeader))
	row[0], row[1], row[2] = c.info.Column, c.info.Type, c.info.Missing
	if n := c.numeric; n != nil {
		row[3] = n.Count
		for i, s := range []stats.Stat{n.Mean, n.Std, n.Min, n.P25, n.P50, n.P75, n.Max} {
			if s.Valid() {
				row[4+i] = float64(s)
			}
		}
	}
	if o := c.object; o != nil {
		row[3], row[11] = o.Count, o.Unique
		if o.Count > 0 {
			row[12], row[13] = o.Top, o.Freq
		}
	}

	return row
}

func formatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', 6, 64)
	default:
		return fmt.Sprint(v)
	}
}

// WriteSummary prints the shape and the per column statistics of a table as aligned text.
func WriteSummary(w io.Writer, title string, sum stats.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s: %d rows x %d columns\n", title, sum.Rows, sum.Columns)
	for i, h := range summaryHeader {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)

	for _, c := range columnSummaries(sum) {
		for i, v := range c.cells() {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, formatCell(v))
		}
		fmt.Fprintln(tw)
	}

	return errors.Wrap(tw.Flush(), "unable to write summary")
}

package render_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/cleaner"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/render"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/stats"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/table"
)

func sample(t *testing.T) *table.Table {
	t.Helper()

	tbl, err := table.New(
		table.NewColumn("id", table.Int, table.Number(1), table.Number(2), table.Number(3)),
		table.NewColumn("name", table.Object, table.Text("Al"), table.Text("Bo, Jr"), table.Missing()),
		table.NewColumn("score", table.Float, table.Number(5), table.Missing(), table.Number(6.5)),
	)
	require.NoError(t, err)

	return tbl
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	require.NoError(t, render.WriteCSV(buf, sample(t), ','))

	want := "id,name,score\n1,Al,5.0\n2,\"Bo, Jr\",\n3,,6.5\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVDelimiter(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	require.NoError(t, render.WriteCSV(buf, sample(t), ';'))
	assert.True(t, strings.HasPrefix(buf.String(), "id;name;score\n1;Al;5.0\n2;Bo, Jr;\n"))
}

func TestNewTablePayload(t *testing.T) {
	t.Parallel()

	payload := render.NewTablePayload(sample(t), 2)
	assert.Equal(t, 3, payload.TotalRows)
	require.Len(t, payload.Rows, 2)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"columns": [
			{"name": "id", "type": "int64"},
			{"name": "name", "type": "object"},
			{"name": "score", "type": "float64"}
		],
		"rows": [[1, "Al", 5], [2, "Bo, Jr", null]],
		"total_rows": 3
	}`, string(raw))

	assert.Len(t, render.NewTablePayload(sample(t), 0).Rows, 3)
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	tbl := sample(t)
	buf := &bytes.Buffer{}
	require.NoError(t, render.WriteXLSX(buf, tbl, stats.Describe(tbl)))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, []string{render.SheetCleaned, render.SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(render.SheetCleaned)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"id", "name", "score"}, rows[0])
	assert.Equal(t, []string{"1", "Al", "5"}, rows[1])
	assert.Equal(t, []string{"3", "", "6.5"}, rows[3])

	summary, err := f.GetRows(render.SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 4)
	assert.Equal(t, "column", summary[0][0])
	assert.Equal(t, []string{"id", "int64", "0", "3"}, summary[1][:4])
	assert.Equal(t, []string{"name", "object", "1", "2"}, summary[2][:4])
}

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	tbl := sample(t)
	buf := &bytes.Buffer{}
	require.NoError(t, render.WriteSummary(buf, "cleaned", stats.Describe(tbl)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "cleaned: 3 rows x 3 columns", strings.TrimSpace(lines[0]))
	assert.True(t, strings.HasPrefix(lines[1], "column"))
	assert.Contains(t, lines[2], "2.000000")
	assert.Contains(t, lines[4], "5.750000")
}

func TestExport(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		format     render.Format
		wantPrefix string
		wantErr    error
	}{
		"csv":     {format: render.FormatCSV, wantPrefix: "id,name,score"},
		"json":    {format: render.FormatJSON, wantPrefix: "{"},
		"xlsx":    {format: render.FormatXLSX, wantPrefix: "PK"},
		"unknown": {format: render.Format("pdf"), wantErr: render.ErrUnknownFormat},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tbl := sample(t)
			buf := &bytes.Buffer{}
			err := render.Export(buf, tc.format, tbl, stats.Describe(tbl))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)

				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(buf.String(), tc.wantPrefix))
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := render.ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, render.FormatXLSX, f)
	assert.Equal(t, "data_cleaned.xlsx", f.FileName("data.csv"))

	f, err = render.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, render.FormatCSV, f)
	assert.Equal(t, "text/csv; charset=utf-8", f.ContentType())

	_, err = render.ParseFormat("parquet")
	assert.ErrorIs(t, err, render.ErrUnknownFormat)
}

func TestRenderPage(t *testing.T) {
	t.Parallel()

	tbl := sample(t)
	page := render.NewPage("Data cleaner", cleaner.PolicyFillMean)
	page.FileName = "people.csv"
	page.Dedupe = true
	page.SelectColumns(tbl, []string{"name"})
	page.Original = render.NewSection(tbl, stats.Describe(tbl), 2)
	page.Cleaned = render.NewSection(tbl, stats.Describe(tbl), 0)
	page.Notices = []cleaner.Notice{{Level: cleaner.LevelWarning, Message: "Please select at least one column."}}

	buf := &bytes.Buffer{}
	require.NoError(t, render.RenderPage(buf, page))

	out := buf.String()
	assert.Contains(t, out, "Original data (people.csv)")
	assert.Contains(t, out, "Shape: 3 rows, 3 columns, showing the first 2")
	assert.Contains(t, out, "Shape: 3 rows, 3 columns</p>")
	assert.Contains(t, out, `<option value="mean" selected>Fill missing numeric values with mean</option>`)
	assert.Contains(t, out, `value="name" checked`)
	assert.NotContains(t, out, `value="id" checked`)
	assert.Contains(t, out, `<div class="notice warning">Please select at least one column.</div>`)
	assert.Contains(t, out, "Bo, Jr")
}

func TestRenderPageEscapes(t *testing.T) {
	t.Parallel()

	tbl, err := table.New(table.NewColumn("<b>", table.Object, table.Text("<script>")))
	require.NoError(t, err)

	page := render.NewPage("x", cleaner.PolicyNone)
	page.Original = render.NewSection(tbl, stats.Describe(tbl), 10)

	buf := &bytes.Buffer{}
	require.NoError(t, render.RenderPage(buf, page))
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

package render

import (
	"embed"
	"html/template"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/cleaner"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/stats"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/table"
)

//go:embed templates/page.html.tmpl
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/page.html.tmpl"))

// Page is the single page of the web interface.
type Page struct {
	Title    string
	Error    string
	FileName string
	Dedupe   bool
	Columns  []ColumnOption
	Policies []PolicyOption
	Original *Section
	Cleaned  *Section
	Notices  []cleaner.Notice
}

type ColumnOption struct {
	Name     string
	Selected bool
}

type PolicyOption struct {
	Value    string
	Label    string
	Selected bool
}

// NewPage returns an empty page with the policy choices filled in.
func NewPage(title string, selected cleaner.Policy) *Page {
	p := &Page{Title: title}
	for _, policy := range cleaner.Policies() {
		p.Policies = append(p.Policies, PolicyOption{
			Value:    policy.String(),
			Label:    policy.Label(),
			Selected: policy == selected,
		})
	}

	return p
}

// SelectColumns lists the columns of t as duplicate removal choices. A nil selection checks
// every column.
func (p *Page) SelectColumns(t *table.Table, selection []string) {
	chosen := make(map[string]struct{}, len(selection))
	for _, name := range selection {
		chosen[name] = struct{}{}
	}

	p.Columns = p.Columns[:0]
	for _, name := range t.ColumnNames() {
		_, ok := chosen[name]
		p.Columns = append(p.Columns, ColumnOption{Name: name, Selected: selection == nil || ok})
	}
}

// Section shows a table preview and its statistics.
type Section struct {
	Preview *TableView
	Summary stats.Summary
}

func NewSection(t *table.Table, sum stats.Summary, previewRows int) *Section {
	return &Section{Preview: NewTableView(t, previewRows), Summary: sum}
}

func (s *Section) SummaryHeader() []string {
	return summaryHeader
}

func (s *Section) SummaryRows() [][]string {
	var rows [][]string
	for _, c := range columnSummaries(s.Summary) {
		cells := c.cells()
		row := make([]string, len(cells))
		for i, v := range cells {
			row[i] = cast.ToString(v)
			if f, ok := v.(float64); ok {
				row[i] = formatCell(f)
			}
		}
		rows = append(rows, row)
	}

	return rows
}

type ViewCell struct {
	Value string
	Text  bool
}

// TableView is the first rows of a table, formatted for display.
type TableView struct {
	Columns []string
	Rows    [][]ViewCell
	Shown   int
	Total   int
}

// NewTableView formats the first limit rows of t, every row when limit is not positive.
func NewTableView(t *table.Table, limit int) *TableView {
	n := t.NumRows()
	if limit > 0 && limit < n {
		n = limit
	}

	v := &TableView{
		Columns: t.ColumnNames(),
		Rows:    make([][]ViewCell, n),
		Shown:   n,
		Total:   t.NumRows(),
	}
	columns := t.Columns()
	for i := range n {
		row := make([]ViewCell, len(columns))
		for j, col := range columns {
			_, text := col.Values[i].Str()
			row[j] = ViewCell{Value: col.Format(i), Text: text}
		}
		v.Rows[i] = row
	}

	return v
}

func RenderPage(w io.Writer, p *Page) error {
	return errors.Wrap(pageTemplate.Execute(w, p), "unable to render page")
}

package render

import (
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/stats"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/table"
)

// Format is an export format of a cleaned table.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("unknown export format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatJSON:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	default:
		return "text/csv; charset=utf-8"
	}
}

// FileName returns the download name of an export of the file called base.
func (f Format) FileName(base string) string {
	name := strings.TrimSuffix(base, ".csv")
	if name == "" {
		name = "data"
	}

	return name + "_cleaned." + string(f)
}

// Export writes t in the given format. The summary is only used by XLSX, which carries it on
// its own sheet.
func Export(w io.Writer, f Format, t *table.Table, sum stats.Summary) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, t, ',')
	case FormatXLSX:
		return WriteXLSX(w, t, sum)
	case FormatJSON:
		return WriteJSON(w, NewTablePayload(t, 0))
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", string(f))
	}
}

package ingest

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/table"
)

// naValues are the tokens read as missing values.
var naValues = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

type cell struct {
	raw     string
	missing bool
	numeric bool
	integer bool
	num     float64
}

func parseCell(raw string) cell {
	if _, ok := naValues[raw]; ok {
		return cell{raw: raw, missing: true}
	}

	trimmed := strings.TrimSpace(raw)
	if !plainNumber(trimmed) {
		return cell{raw: raw}
	}
	num, err := cast.ToFloat64E(trimmed)
	if err != nil {
		return cell{raw: raw}
	}

	return cell{
		raw:     raw,
		numeric: true,
		integer: isIntegerToken(trimmed),
		num:     num,
	}
}

// plainNumber rejects the Go literal forms a decimal reader would keep as text: digit
// separators and hexadecimal mantissas.
func plainNumber(s string) bool {
	if s == "" || strings.ContainsRune(s, '_') {
		return false
	}
	unsigned := strings.TrimLeft(s, "+-")

	return !strings.HasPrefix(unsigned, "0x") && !strings.HasPrefix(unsigned, "0X")
}

// isIntegerToken reports whether s is an optionally signed run of decimal digits.
func isIntegerToken(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// buildColumn infers the type of a column from its cells.
func buildColumn(name string, cells []cell) *table.Column {
	allNumeric, allInteger, anyMissing := true, true, false
	for _, c := range cells {
		if c.missing {
			anyMissing = true

			continue
		}
		if !c.numeric {
			allNumeric = false

			break
		}
		if !c.integer {
			allInteger = false
		}
	}

	values := make([]table.Value, len(cells))
	if !allNumeric || len(cells) == 0 {
		for i, c := range cells {
			if !c.missing {
				values[i] = table.Text(c.raw)
			}
		}

		return table.NewColumn(name, table.Object, values...)
	}

	for i, c := range cells {
		if !c.missing {
			values[i] = table.Number(c.num)
		}
	}
	typ := table.Float
	if allInteger && !anyMissing && len(cells) > 0 {
		typ = table.Int
	}

	return table.NewColumn(name, typ, values...)
}

// Package render presents tables and their statistics: an HTML page, CSV, XLSX and JSON
// exports, and a plain text summary for terminals.
package render

// Package ingest parses delimited text into a table.
//
// The first record is the header. Records stream through a pipeline: a root step reads them,
// a concurrent step classifies every cell as missing, numeric or textual, and a sink puts the
// rows back in input order. Column types are inferred once every row is known: int64 when all
// present cells are integers and none is missing, float64 when all present cells are numeric,
// object otherwise.
package ingest

// Package table holds an in-memory table: ordered, named columns whose rows are positionally
// aligned. Every cell is a Value which is either missing, a number or a text.
package table

// Package cleaner applies a fixed sequence of cleaning steps to a table.
//
// The steps always run in this order, each one seeing the effects of the previous ones:
//
//  1. duplicate removal over a column selection, when requested;
//  2. the missing value policy: do nothing, drop rows, fill numeric columns with their mean
//     or fill every column with zero;
//  3. trimming of leading and trailing whitespace in object columns.
//
// Clean works on a copy of its input and reports descriptive statistics of the table before
// and after cleaning, together with user facing notices for every step.
package cleaner

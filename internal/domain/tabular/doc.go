// Package tabular converts clipboard text and spreadsheet cells into visit
// records. It holds the parsing, header detection, fuzzy column mapping and
// date normalization rules and performs no I/O.
package tabular

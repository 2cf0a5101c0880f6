package model

// Sheet is one worksheet of a spreadsheet file: a name plus rows of cells.
// The first row is the header row by convention.
type Sheet struct {
	Name string
	Rows [][]string
}

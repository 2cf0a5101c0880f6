package tabular

import "strings"

// headerKeywords mark a first row as a header row when any cell contains one.
var headerKeywords = []string{
	"company", "visit", "date", "type", "location",
	"contact", "person", "number", "mail", "remark",
}

// DetectHeader reports whether the first row of matrix is a header row.
func DetectHeader(matrix [][]string) bool {
	if len(matrix) == 0 {
		return false
	}
	for _, cell := range matrix[0] {
		lower := strings.ToLower(cell)
		for _, kw := range headerKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

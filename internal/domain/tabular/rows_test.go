package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecords_WithHeader(t *testing.T) {
	matrix := [][]string{
		{"Visit Type", "Date", "Company"},
		{"On Campus", "15.01.2024", "Acme"},
	}

	recs, err := Records(matrix, DetectHeader(matrix))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "On Campus", recs[0].VisitType)
	assert.Equal(t, "2024-01-15", recs[0].DateOfVisit)
	assert.Equal(t, "Acme", recs[0].CompanyName)
}

func TestRecords_Positional(t *testing.T) {
	matrix := [][]string{
		{"On Campus", "2024-01-01", "Acme", "1 Main Rd", "Chennai"},
		{"Virtual", "2024-02-01", "Globex"},
	}
	require.False(t, DetectHeader(matrix))

	recs, err := Records(matrix, false)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Chennai", recs[0].Location)
	assert.Equal(t, "Globex", recs[1].CompanyName)
	assert.Equal(t, "", recs[1].Location)
}

func TestRecords_HeaderOnly(t *testing.T) {
	_, err := Records([][]string{{"Company Name", "Location"}}, true)
	assert.ErrorIs(t, err, ErrNoDataRows)
}

func TestRows_SkipsBlankRows(t *testing.T) {
	rows, err := Rows([][]string{{"Company"}, {""}, {"Acme"}}, true)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

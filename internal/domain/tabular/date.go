package tabular

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	isoDate = "2006-01-02"

	// spreadsheetEpochOffset is the serial number of 1970-01-01.
	spreadsheetEpochOffset = 25569
	secondsPerDay          = 86400

	// Serials outside [minSerial, maxSerial] are not dates (maxSerial is
	// 9999-12-31); long digit runs such as phone numbers are kept verbatim.
	minSerial = 1
	maxSerial = 2958465
)

var (
	integerSerial    = regexp.MustCompile(`^\d+$`)
	fractionalSerial = regexp.MustCompile(`^\d{5,}\.\d+$`)
	dateSeparators   = regexp.MustCompile(`[./-]`)
	andConjunction   = regexp.MustCompile(`(?i)\band\b`)
)

// genericLayouts are tried after the numeric d-m-y form. Values with more than
// two space-separated tokens never reach them.
var genericLayouts = []string{
	"2-Jan-2006",
	"2-Jan-06",
	"Jan-2-2006",
	"2-January-2006",
	"2.Jan.2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"Jan 2006",
}

// NormalizeDate rewrites a date cell as YYYY-MM-DD when it can, and otherwise
// returns the input unchanged. It never rejects a value.
//
// Spreadsheet serials are days since 1899-12-30 (serial 25569 is 1970-01-01)
// and are converted only between 1 and 9999-12-31.
// Values joining several dates ("&", "and", commas, more than two words) are
// kept verbatim. Three numeric parts separated by '.', '/' or '-' are read as
// day-month-year, two-digit years as 20yy, and a four-digit leading part as
// year-month-day.
func NormalizeDate(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return value
	}

	if integerSerial.MatchString(v) || fractionalSerial.MatchString(v) {
		if s, ok := fromSerial(v); ok {
			return s
		}
		return value
	}

	if isCompound(v) {
		return value
	}

	if parts := dateSeparators.Split(v, -1); len(parts) == 3 {
		if s, ok := fromParts(parts); ok {
			return s
		}
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(isoDate)
		}
	}

	return value
}

func fromSerial(v string) (string, bool) {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil || serial < minSerial || serial >= maxSerial+1 {
		return "", false
	}
	days := int64(math.Floor(serial)) - spreadsheetEpochOffset
	return time.Unix(days*secondsPerDay, 0).UTC().Format(isoDate), true
}

func isCompound(v string) bool {
	if strings.Contains(v, "&") || strings.Contains(v, ",") {
		return true
	}
	if andConjunction.MatchString(v) {
		return true
	}
	return len(strings.Fields(v)) > 2
}

func fromParts(parts []string) (string, bool) {
	nums := make([]int, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || !integerSerial.MatchString(p) {
			return "", false
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", false
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	if len(strings.TrimSpace(parts[0])) == 4 {
		year, month, day = nums[0], nums[1], nums[2]
	}
	if year < 100 {
		year += 2000
	}

	if month < 1 || month > 12 || day < 1 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

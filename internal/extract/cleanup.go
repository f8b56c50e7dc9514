package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"conversor/domain/datalogger"

	"github.com/xuri/excelize/v2"
)

var numericNoise = regexp.MustCompile(`[^0-9.,\-]`)

// Date parts in the order they are tried. Slash, dash and dot dates are day
// first; month first is only tried once every day-first layout failed.
var (
	dayFirstDates   = []string{"2006-1-2", "2/1/2006", "2/1/06", "2-1-2006", "2.1.2006", "2006/1/2"}
	monthFirstDates = []string{"1/2/2006", "1/2/06", "1-2-2006"}
	clockLayouts    = []string{" 15:04:05", " 15:04", " 3:04:05 PM", " 3:04 PM", ""}
)

var timestampLayouts = buildTimestampLayouts()

func buildTimestampLayouts() []string {
	layouts := []string{"2006-1-2T15:04:05", "2006-1-2T15:04", time.RFC3339}
	for _, dates := range [][]string{dayFirstDates, monthFirstDates} {
		for _, date := range dates {
			for _, clock := range clockLayouts {
				layouts = append(layouts, date+clock)
			}
		}
	}
	return layouts
}

// Excel serial range accepted for bare numbers in a timestamp column
// (1900-01-01 through 9999-12-31).
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// ParseNumber strips everything but digits, '.', ',' and '-', turns the
// decimal comma into a dot and parses the rest.
func ParseNumber(s string) (float64, bool) {
	cleaned := strings.ReplaceAll(numericNoise.ReplaceAllString(s, ""), ",", ".")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseCellNumber(c datalogger.Cell) (float64, bool) {
	if c.Kind == datalogger.CellNumber {
		if v, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
			return v, true
		}
	}
	return ParseNumber(c.Text)
}

// ParseTimestamp parses date or date+time text in the accepted layouts. A
// bare number is read as an Excel serial date.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.ToUpper(strings.Join(strings.Fields(s), " "))
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Round(time.Second), true
		}
	}
	return time.Time{}, false
}

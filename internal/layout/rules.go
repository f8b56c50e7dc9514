package layout

import "strings"

// Scan limits for header search.
const (
	HeaderScanRows = 50
	MarkerScanRows = 20
	MinColumns     = 3
)

// ProbeOffsets is the order in which leading-row skips are tried for
// generic time series sheets. Changing it changes which header wins on
// ambiguous inputs.
var ProbeOffsets = []int{3, 2, 1, 0, 4, 5}

// GenericPatterns are exact header sets accepted for generic time series,
// in priority order.
var GenericPatterns = [][]string{
	{"sn", "date", "time", "oc", "%rh"},
	{"date", "oc", "%rh"},
	{"date", "time", "oc", "%rh"},
	{"sn", "date", "oc", "%rh"},
}

// Keyword groups for the loose generic rule: every group must hit the
// joined header text at least once.
var (
	dateKeywords        = []string{"date", "data"}
	temperatureKeywords = []string{"oc", "temp"}
	humidityKeywords    = []string{"%rh", "rh", "humid"}
)

var reportOrdinalTokens = []string{"n°.", "nº.", "n°"}

// tokenTest is a predicate over one normalized header row.
type tokenTest func(row []string) bool

func hasExact(row []string, token string) bool {
	for _, v := range row {
		if v == token {
			return true
		}
	}
	return false
}

func hasAnyExact(row []string, tokens ...string) bool {
	for _, t := range tokens {
		if hasExact(row, t) {
			return true
		}
	}
	return false
}

// hasContaining reports whether one cell contains every sub.
func hasContaining(row []string, subs ...string) bool {
	for _, v := range row {
		if containsAll(v, subs...) {
			return true
		}
	}
	return false
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// IsDataloggerHeader matches the "id | Data/Hora | Temperatura | Umidade" row.
func IsDataloggerHeader(row []string) bool {
	return hasExact(row, "id") &&
		hasContaining(row, "data", "hora") &&
		hasContaining(row, "temperatura") &&
		hasContaining(row, "umidade")
}

// IsReportHeader matches the "N°. | Temp | UR | Tempo" row.
func IsReportHeader(row []string) bool {
	return hasAnyExact(row, reportOrdinalTokens...) &&
		hasExact(row, "temp") &&
		hasExact(row, "ur") &&
		hasExact(row, "tempo")
}

// IsReportMarker matches preamble text printed above report tables.
func IsReportMarker(text string) bool {
	return strings.Contains(text, "relatório") ||
		containsAll(text, "início:", "fim:") ||
		strings.Contains(text, "tax amostr.:") ||
		strings.Contains(text, "dado n°.:")
}

// MatchGenericPattern returns the index of the first GenericPatterns entry
// fully present in header, or -1.
func MatchGenericPattern(header []string) int {
	for i, pattern := range GenericPatterns {
		ok := true
		for _, col := range pattern {
			if !hasExact(header, col) {
				ok = false
				break
			}
		}
		if ok {
			return i
		}
	}
	return -1
}

// MatchGenericKeywords applies the loose keyword rule to the joined header.
func MatchGenericKeywords(header []string) bool {
	joined := strings.Join(header, " ")
	return containsAny(joined, dateKeywords...) &&
		containsAny(joined, temperatureKeywords...) &&
		containsAny(joined, humidityKeywords...)
}

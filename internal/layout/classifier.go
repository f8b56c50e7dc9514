package layout

import (
	"conversor/domain/datalogger"
	"conversor/internal/logger"
)

// Rule names recorded on a Detection.
const (
	RuleDataloggerHeader = "datalogger_header"
	RuleReportHeader     = "report_header"
	RuleReportMarker     = "report_marker"
	RuleGenericPattern   = "generic_pattern"
	RuleGenericKeywords  = "generic_keywords"
	RuleDefault          = "default"
)

// Detection is the outcome of classifying a sheet.
type Detection struct {
	Layout datalogger.LayoutTag
	// HeaderRow is the 0-based header row when the rule located one. For the
	// generic layout it is the winning skip offset.
	HeaderRow int
	Rule      string
}

// Classify returns the layout of sheet. It never fails; sheets matching
// nothing are generic time series.
func Classify(sheet *datalogger.RawSheet) datalogger.LayoutTag {
	return Detect(sheet).Layout
}

// Detect runs the ordered classification checks and reports which rule won.
func Detect(sheet *datalogger.RawSheet) Detection {
	if row, ok := FindDataloggerHeader(sheet); ok {
		logger.Debugf("[Classifier] datalogger header at row %d", row)
		return Detection{Layout: datalogger.LayoutDataloggerExport, HeaderRow: row, Rule: RuleDataloggerHeader}
	}

	if row, ok := FindReportHeader(sheet); ok {
		logger.Debugf("[Classifier] report header at row %d", row)
		return Detection{Layout: datalogger.LayoutSummaryReport, HeaderRow: row, Rule: RuleReportHeader}
	}

	if row, ok := findReportMarker(sheet); ok {
		logger.Debugf("[Classifier] report marker at row %d", row)
		return Detection{Layout: datalogger.LayoutSummaryReport, HeaderRow: -1, Rule: RuleReportMarker}
	}

	if probe, ok := ProbeGeneric(sheet); ok {
		rule := RuleGenericKeywords
		if probe.Pattern >= 0 {
			rule = RuleGenericPattern
		}
		logger.Debugf("[Classifier] generic header with offset %d (%s)", probe.Offset, rule)
		return Detection{Layout: datalogger.LayoutGenericTimeSeries, HeaderRow: probe.HeaderRow, Rule: rule}
	}

	logger.Debugf("[Classifier] no header recognised, defaulting to generic with offset 0")
	return Detection{Layout: datalogger.LayoutGenericTimeSeries, HeaderRow: 0, Rule: RuleDefault}
}

// FindDataloggerHeader returns the first row within the scan window that
// looks like a datalogger export header.
func FindDataloggerHeader(sheet *datalogger.RawSheet) (int, bool) {
	return scanRows(sheet, IsDataloggerHeader)
}

// FindReportHeader returns the first row within the scan window that looks
// like a summary report table header.
func FindReportHeader(sheet *datalogger.RawSheet) (int, bool) {
	return scanRows(sheet, IsReportHeader)
}

func scanRows(sheet *datalogger.RawSheet, test tokenTest) (int, bool) {
	limit := min(HeaderScanRows, sheet.NumRows())
	for i := 0; i < limit; i++ {
		if test(sheet.NormalizedRow(i)) {
			return i, true
		}
	}
	return -1, false
}

// findReportMarker looks at text cells only.
func findReportMarker(sheet *datalogger.RawSheet) (int, bool) {
	limit := min(MarkerScanRows, sheet.NumRows())
	for i := 0; i < limit; i++ {
		for _, cell := range sheet.Row(i) {
			if cell.Kind == datalogger.CellText && IsReportMarker(cell.Normalized()) {
				return i, true
			}
		}
	}
	return -1, false
}

// Probe is a generic header candidate.
type Probe struct {
	Offset    int
	HeaderRow int // first non-blank row at or after Offset
	Pattern   int // index into GenericPatterns, -1 for the keyword rule
}

// ProbeGeneric tries every skip offset in ProbeOffsets order and returns
// the first whose header satisfies a pattern or the keyword rule.
func ProbeGeneric(sheet *datalogger.RawSheet) (Probe, bool) {
	for _, offset := range ProbeOffsets {
		frame := sheet.FrameAt(offset)
		if frame.Empty() || frame.Columns() < MinColumns {
			continue
		}
		if p := MatchGenericPattern(frame.Header); p >= 0 {
			return Probe{Offset: offset, HeaderRow: frame.HeaderRow, Pattern: p}, true
		}
		if MatchGenericKeywords(frame.Header) {
			return Probe{Offset: offset, HeaderRow: frame.HeaderRow, Pattern: -1}, true
		}
	}
	return Probe{}, false
}

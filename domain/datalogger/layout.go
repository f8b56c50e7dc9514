package datalogger

import "fmt"

// LayoutTag identifies one of the known datalogger export layouts.
type LayoutTag string

const (
	LayoutDataloggerExport  LayoutTag = "datalogger_export"
	LayoutSummaryReport     LayoutTag = "summary_report"
	LayoutGenericTimeSeries LayoutTag = "generic_timeseries"
)

// Layouts lists every tag in classification priority order.
var Layouts = []LayoutTag{
	LayoutDataloggerExport,
	LayoutSummaryReport,
	LayoutGenericTimeSeries,
}

func (t LayoutTag) String() string { return string(t) }

// Label is the human readable name shown in the UI.
func (t LayoutTag) Label() string {
	switch t {
	case LayoutDataloggerExport:
		return "Exportação do datalogger"
	case LayoutSummaryReport:
		return "Relatório"
	case LayoutGenericTimeSeries:
		return "Série temporal"
	default:
		return string(t)
	}
}

// ParseLayoutTag accepts the canonical tag names.
func ParseLayoutTag(s string) (LayoutTag, error) {
	for _, t := range Layouts {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown layout %q", s)
}

package datalogger

import (
	"strconv"
	"time"
)

// DateFormat is the display format of aggregate dates (DD/MM/YYYY).
const DateFormat = "02/01/2006"

// Display column names of a ResultTable, in row order.
const (
	ColumnDate        = "Data"
	ColumnTempMax     = "Temperatura Máxima (°C)"
	ColumnTempMin     = "Temperatura Mínima (°C)"
	ColumnHumidityMax = "Umidade Máxima (%)"
	ColumnHumidityMin = "Umidade Mínima (%)"
)

// Columns is the fixed header of every ResultTable.
var Columns = []string{ColumnDate, ColumnTempMax, ColumnTempMin, ColumnHumidityMax, ColumnHumidityMin}

// Reading is one valid sample extracted from a sheet.
type Reading struct {
	Timestamp   time.Time
	Temperature float64
	Humidity    float64
}

// DailyAggregate holds the extremes of one calendar day.
type DailyAggregate struct {
	Date        time.Time
	TempMax     float64
	TempMin     float64
	HumidityMax float64
	HumidityMin float64
}

// ResultRow is one display row: (Data, TempMax, TempMin, UmidMax, UmidMin).
type ResultRow struct {
	Date        string  `json:"data"`
	TempMax     float64 `json:"temp_max"`
	TempMin     float64 `json:"temp_min"`
	HumidityMax float64 `json:"umid_max"`
	HumidityMin float64 `json:"umid_min"`
}

// Values renders the row as five display strings.
func (r ResultRow) Values() []string {
	return []string{
		r.Date,
		FormatValue(r.TempMax),
		FormatValue(r.TempMin),
		FormatValue(r.HumidityMax),
		FormatValue(r.HumidityMin),
	}
}

// ResultTable is the daily aggregate formatted for display and printing.
type ResultTable struct {
	Columns []string    `json:"columns"`
	Rows    []ResultRow `json:"rows"`
}

// NewResultTable formats aggregates in the order given.
func NewResultTable(days []DailyAggregate) *ResultTable {
	table := &ResultTable{
		Columns: append([]string(nil), Columns...),
		Rows:    make([]ResultRow, len(days)),
	}
	for i, d := range days {
		table.Rows[i] = ResultRow{
			Date:        d.Date.Format(DateFormat),
			TempMax:     d.TempMax,
			TempMin:     d.TempMin,
			HumidityMax: d.HumidityMax,
			HumidityMin: d.HumidityMin,
		}
	}
	return table
}

// Len returns the number of days in the table.
func (t *ResultTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Records returns the header followed by every row as display strings.
func (t *ResultTable) Records() [][]string {
	out := make([][]string, 0, t.Len()+1)
	out = append(out, append([]string(nil), t.Columns...))
	for _, r := range t.Rows {
		out = append(out, r.Values())
	}
	return out
}

// FormatValue prints the shortest decimal form of v.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

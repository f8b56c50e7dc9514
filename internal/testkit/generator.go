package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"conversor/domain/datalogger"
)

// SampleGeneratorConfig configures the synthetic datalogger generator
type SampleGeneratorConfig struct {
	Start        time.Time `json:"start"`
	Days         int       `json:"days"`
	PerDay       int       `json:"per_day"`
	BaseTemp     float64   `json:"base_temp"`
	BaseHumidity float64   `json:"base_humidity"`
	Seed         int64     `json:"seed"`
	SerialNumber string    `json:"serial_number"`
}

// DefaultSampleConfig returns a week of hourly samples
func DefaultSampleConfig() SampleGeneratorConfig {
	return SampleGeneratorConfig{
		Start:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:         7,
		PerDay:       24,
		BaseTemp:     22.0,
		BaseHumidity: 55.0,
		Seed:         42,
		SerialNumber: "EL-21-0042",
	}
}

// SampleGenerator produces deterministic temperature/humidity series and
// renders them in each known export layout.
type SampleGenerator struct {
	config SampleGeneratorConfig
	rng    *rand.Rand
}

// NewSampleGenerator creates a new generator
func NewSampleGenerator(config SampleGeneratorConfig) *SampleGenerator {
	if config.PerDay <= 0 {
		config.PerDay = 1
	}
	return &SampleGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateReadings returns Days*PerDay readings spread evenly over each day.
// Values have one decimal place so their text renderings are exact.
func (g *SampleGenerator) GenerateReadings() []datalogger.Reading {
	step := 24 * time.Hour / time.Duration(g.config.PerDay)
	readings := make([]datalogger.Reading, 0, g.config.Days*g.config.PerDay)
	for day := 0; day < g.config.Days; day++ {
		for k := 0; k < g.config.PerDay; k++ {
			ts := g.config.Start.AddDate(0, 0, day).Add(time.Duration(k) * step)
			phase := 2 * math.Pi * float64(k) / float64(g.config.PerDay)
			temp := g.config.BaseTemp + 3*math.Sin(phase) + g.rng.NormFloat64()*0.5
			humid := g.config.BaseHumidity - 8*math.Sin(phase) + g.rng.NormFloat64()*1.5
			readings = append(readings, datalogger.Reading{
				Timestamp:   ts,
				Temperature: round1(temp),
				Humidity:    round1(math.Max(0, math.Min(100, humid))),
			})
		}
	}
	return readings
}

// Rows renders readings as a cell grid in the given layout. Cell values are
// strings, float64 or time.Time so they can be written to a workbook as-is.
func (g *SampleGenerator) Rows(layout datalogger.LayoutTag, readings []datalogger.Reading) ([][]interface{}, error) {
	switch layout {
	case datalogger.LayoutDataloggerExport:
		return g.dataloggerRows(readings), nil
	case datalogger.LayoutSummaryReport:
		return g.reportRows(readings), nil
	case datalogger.LayoutGenericTimeSeries:
		return g.genericRows(readings), nil
	default:
		return nil, fmt.Errorf("unknown layout %q", layout)
	}
}

// ReportHeaderRow is the 0-based header row of generated summary reports.
const ReportHeaderRow = 12

// DataloggerHeaderRow is the 0-based header row of generated datalogger exports.
const DataloggerHeaderRow = 3

// GenericHeaderRow is the 0-based header row of generated generic series.
const GenericHeaderRow = 3

func (g *SampleGenerator) dataloggerRows(readings []datalogger.Reading) [][]interface{} {
	rows := [][]interface{}{
		{"Exportação de dados"},
		{"Equipamento: " + g.config.SerialNumber},
		{},
		{"id", "Data/Hora", "Temperatura[°C]", "Umidade[%Hr]"},
	}
	for i, r := range readings {
		rows = append(rows, []interface{}{float64(i + 1), r.Timestamp, DecimalComma(r.Temperature), r.Humidity})
	}
	return rows
}

func (g *SampleGenerator) reportRows(readings []datalogger.Reading) [][]interface{} {
	var first, last time.Time
	if len(readings) > 0 {
		first, last = readings[0].Timestamp, readings[len(readings)-1].Timestamp
	}
	rows := [][]interface{}{
		{"Relatório de Dados"},
		{"Modelo:", "TH-20"},
		{"Série:", g.config.SerialNumber},
		{"Início: " + first.Format("02/01/2006 15:04") + " Fim: " + last.Format("02/01/2006 15:04")},
		{"Tax Amostr.: 01:00:00"},
		{"Dado N°.: " + strconv.Itoa(len(readings))},
	}
	for len(rows) < ReportHeaderRow {
		rows = append(rows, []interface{}{})
	}
	rows = append(rows, []interface{}{"N°.", "Temp", "UR", "Tempo"})
	for i, r := range readings {
		rows = append(rows, []interface{}{
			float64(i + 1),
			DecimalComma(r.Temperature) + "°C",
			DecimalComma(r.Humidity) + "%",
			r.Timestamp,
		})
	}
	return rows
}

func (g *SampleGenerator) genericRows(readings []datalogger.Reading) [][]interface{} {
	rows := [][]interface{}{
		{"Logger", g.config.SerialNumber},
		{"Exported", g.config.Start.Format("2006-01-02")},
		{},
		{"SN", "DATE", "TIME", "oC", "%RH"},
	}
	for _, r := range readings {
		rows = append(rows, []interface{}{
			g.config.SerialNumber,
			r.Timestamp.Format("2006-01-02"),
			r.Timestamp.Format("15:04:05"),
			r.Temperature,
			r.Humidity,
		})
	}
	return rows
}

// DecimalComma formats v with one decimal and a comma separator.
func DecimalComma(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 1, 64), ".", ",", 1)
}

// StringRows converts a generated grid to plain text rows the way a CSV
// export would print them.
func StringRows(rows [][]interface{}) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			switch t := v.(type) {
			case time.Time:
				out[i][j] = t.Format("02/01/2006 15:04:05")
			case float64:
				out[i][j] = strconv.FormatFloat(t, 'f', -1, 64)
			default:
				out[i][j] = fmt.Sprint(t)
			}
		}
	}
	return out
}

// Sheet builds a RawSheet from generated rows.
func Sheet(rows [][]interface{}) *datalogger.RawSheet {
	return datalogger.NewRawSheet("Sheet1", StringRows(rows))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

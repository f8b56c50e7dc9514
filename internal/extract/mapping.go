package extract

import (
	"fmt"
	"strings"

	"conversor/domain/datalogger"
	"conversor/internal/layout"
)

// Field is a canonical quantity a sheet column can map to.
type Field int

const (
	FieldIgnored Field = iota
	FieldTimestamp
	FieldTime
	FieldTemperature
	FieldHumidity
)

func (f Field) String() string {
	switch f {
	case FieldTimestamp:
		return "data/hora"
	case FieldTime:
		return "hora"
	case FieldTemperature:
		return "temperatura"
	case FieldHumidity:
		return "umidade"
	default:
		return "ignorada"
	}
}

// FieldRule claims a header for a field when Match accepts it.
type FieldRule struct {
	Field    Field
	Key      string
	Match    func(header string) bool
	Optional bool
}

// ColumnMapping is an ordered rule list. Each header is claimed by the first
// rule that matches it.
type ColumnMapping struct {
	Name  string
	Rules []FieldRule
	// Unique rejects a field claimed by more than one column.
	Unique bool
}

// Columns holds resolved column positions; -1 means absent.
type Columns struct {
	Timestamp   int
	Time        int
	Temperature int
	Humidity    int
}

// LayoutConfig drives the shared extraction algorithm for one layout.
type LayoutConfig struct {
	Layout datalogger.LayoutTag
	// HeaderRows lists candidate header rows in the order they are tried.
	HeaderRows func(sheet *datalogger.RawSheet) []int
	// MissingHeader is reported when HeaderRows finds nothing.
	MissingHeader string
	Mappings      []ColumnMapping
}

func exact(field Field, name string) FieldRule {
	return FieldRule{Field: field, Key: name, Match: func(h string) bool { return h == name }}
}

func optionalExact(field Field, name string) FieldRule {
	r := exact(field, name)
	r.Optional = true
	return r
}

func containing(field Field, key string, subs ...string) FieldRule {
	return FieldRule{Field: field, Key: key, Match: func(h string) bool {
		for _, s := range subs {
			if !strings.Contains(h, s) {
				return false
			}
		}
		return true
	}}
}

func singleRow(find func(*datalogger.RawSheet) (int, bool)) func(*datalogger.RawSheet) []int {
	return func(sheet *datalogger.RawSheet) []int {
		if row, ok := find(sheet); ok {
			return []int{row}
		}
		return nil
	}
}

func probeRows(sheet *datalogger.RawSheet) []int {
	rows := make([]int, 0, len(layout.ProbeOffsets))
	for _, offset := range layout.ProbeOffsets {
		if offset < sheet.NumRows() {
			rows = append(rows, offset)
		}
	}
	return rows
}

var dataloggerConfig = LayoutConfig{
	Layout:        datalogger.LayoutDataloggerExport,
	HeaderRows:    singleRow(layout.FindDataloggerHeader),
	MissingHeader: "Não foi possível encontrar os cabeçalhos corretos (id, Data/Hora, Temperatura, Umidade)",
	Mappings: []ColumnMapping{{
		Name: "datalogger",
		Rules: []FieldRule{
			exact(FieldIgnored, "id"),
			containing(FieldTimestamp, "data/hora", "data", "hora"),
			containing(FieldTemperature, "temperatura", "temperatura"),
			containing(FieldHumidity, "umidade", "umidade"),
		},
	}},
}

var reportConfig = LayoutConfig{
	Layout:        datalogger.LayoutSummaryReport,
	HeaderRows:    singleRow(layout.FindReportHeader),
	MissingHeader: "Não foi possível encontrar os cabeçalhos da tabela de dados",
	Mappings: []ColumnMapping{{
		Name: "report",
		Rules: []FieldRule{
			{Field: FieldTemperature, Key: "temp", Match: func(h string) bool {
				return strings.Contains(h, "temp") && !strings.Contains(h, "tempo")
			}},
			containing(FieldHumidity, "ur", "ur"),
			containing(FieldTimestamp, "tempo", "tempo"),
		},
		Unique: true,
	}},
}

var genericConfig = LayoutConfig{
	Layout:        datalogger.LayoutGenericTimeSeries,
	HeaderRows:    probeRows,
	MissingHeader: "Não foi possível identificar as colunas necessárias no arquivo. Verifique se o arquivo contém colunas de data, temperatura e umidade.",
	Mappings: []ColumnMapping{
		{Name: "date+time/oc/%rh", Rules: []FieldRule{
			exact(FieldTimestamp, "date"), exact(FieldTemperature, "oc"), exact(FieldHumidity, "%rh"), optionalExact(FieldTime, "time"),
		}},
		{Name: "date/oc/%rh", Rules: []FieldRule{
			exact(FieldTimestamp, "date"), exact(FieldTemperature, "oc"), exact(FieldHumidity, "%rh"),
		}},
		{Name: "date/temp/rh", Rules: []FieldRule{
			exact(FieldTimestamp, "date"), exact(FieldTemperature, "temp"), exact(FieldHumidity, "rh"),
		}},
		{Name: "data/temperatura/umidade", Rules: []FieldRule{
			exact(FieldTimestamp, "data"), exact(FieldTemperature, "temperatura"), exact(FieldHumidity, "umidade"),
		}},
	},
}

// ConfigFor returns the extraction configuration of a layout.
func ConfigFor(tag datalogger.LayoutTag) (LayoutConfig, bool) {
	switch tag {
	case datalogger.LayoutDataloggerExport:
		return dataloggerConfig, true
	case datalogger.LayoutSummaryReport:
		return reportConfig, true
	case datalogger.LayoutGenericTimeSeries:
		return genericConfig, true
	default:
		return LayoutConfig{}, false
	}
}

// Resolve maps header positions to canonical fields.
func (m ColumnMapping) Resolve(header []string) (Columns, error) {
	claims := make(map[Field][]int)
	for idx, h := range header {
		for _, rule := range m.Rules {
			if rule.Match(h) {
				if rule.Field != FieldIgnored {
					claims[rule.Field] = append(claims[rule.Field], idx)
				}
				break
			}
		}
	}

	cols := Columns{Timestamp: -1, Time: -1, Temperature: -1, Humidity: -1}
	for _, rule := range m.Rules {
		if rule.Field == FieldIgnored {
			continue
		}
		matched := claims[rule.Field]
		switch {
		case len(matched) == 0 && rule.Optional:
			continue
		case len(matched) == 0:
			return cols, fmt.Errorf("coluna %q (%s) não encontrada", rule.Key, rule.Field)
		case len(matched) > 1 && m.Unique:
			names := make([]string, len(matched))
			for i, idx := range matched {
				names[i] = header[idx]
			}
			return cols, fmt.Errorf("coluna %s ambígua: %s", rule.Field, strings.Join(names, ", "))
		}
		cols.set(rule.Field, matched[0])
	}
	return cols, nil
}

func (c *Columns) set(field Field, idx int) {
	switch field {
	case FieldTimestamp:
		c.Timestamp = idx
	case FieldTime:
		c.Time = idx
	case FieldTemperature:
		c.Temperature = idx
	case FieldHumidity:
		c.Humidity = idx
	}
}

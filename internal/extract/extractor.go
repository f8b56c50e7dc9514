package extract

import (
	"strings"

	"conversor/domain/datalogger"
	"conversor/internal/logger"
)

// Result is a successful extraction with the details of how it was found.
type Result struct {
	Layout    datalogger.LayoutTag
	HeaderRow int
	Mapping   string
	Readings  []datalogger.Reading
	Dropped   int
	Table     *datalogger.ResultTable
}

// Extract turns sheet into the daily aggregate table for layout.
func Extract(sheet *datalogger.RawSheet, tag datalogger.LayoutTag) (*datalogger.ResultTable, error) {
	res, err := Run(sheet, tag)
	if err != nil {
		return nil, err
	}
	return res.Table, nil
}

// Run locates the header, maps columns, converts rows and aggregates them.
// Candidate header rows and mappings are tried in configuration order; the
// first pair yielding at least one valid reading wins.
func Run(sheet *datalogger.RawSheet, tag datalogger.LayoutTag) (*Result, error) {
	cfg, ok := ConfigFor(tag)
	if !ok {
		return nil, datalogger.NewExtractionError(datalogger.UnrecognizedFormat, tag, "layout desconhecido: %s", tag)
	}

	rows := cfg.HeaderRows(sheet)
	if len(rows) == 0 {
		return nil, datalogger.NewExtractionError(datalogger.UnrecognizedFormat, tag, "%s", cfg.MissingHeader)
	}

	// Failures are reported by how far the best candidate got: columns
	// mapped but no valid rows, then unmappable columns, then empty frames.
	var dataErr, mappingErr, emptyErr *datalogger.ExtractionError
	for _, headerRow := range rows {
		frame := sheet.FrameAt(headerRow)
		if frame.Empty() {
			if emptyErr == nil {
				emptyErr = datalogger.NewExtractionError(datalogger.NoValidData, tag,
					"Arquivo vazio após o cabeçalho na linha %d", frame.HeaderRow+1)
			}
			continue
		}

		for _, mapping := range cfg.Mappings {
			cols, err := mapping.Resolve(frame.Header)
			if err != nil {
				mappingErr = &datalogger.ExtractionError{
					Kind:    datalogger.UnrecognizedFormat,
					Layout:  tag,
					Message: "Colunas necessárias não encontradas. Encontradas: [" + strings.Join(frame.Header, ", ") + "]",
					Err:     err,
				}
				continue
			}

			readings, dropped := convertRows(frame, cols)
			logger.Debugf("[Extractor] %s header row %d mapping %s: %d valid, %d dropped",
				tag, frame.HeaderRow, mapping.Name, len(readings), dropped)
			if len(readings) == 0 {
				dataErr = datalogger.NewExtractionError(datalogger.NoValidData, tag,
					"Nenhum dado válido encontrado após conversão")
				continue
			}

			return &Result{
				Layout:    tag,
				HeaderRow: frame.HeaderRow,
				Mapping:   mapping.Name,
				Readings:  readings,
				Dropped:   dropped,
				Table:     datalogger.NewResultTable(Aggregate(readings)),
			}, nil
		}
	}

	if dataErr != nil {
		return nil, dataErr
	}
	if mappingErr != nil {
		return nil, mappingErr
	}
	if emptyErr != nil {
		return nil, emptyErr
	}
	return nil, datalogger.NewExtractionError(datalogger.UnrecognizedFormat, tag, "%s", cfg.MissingHeader)
}

// convertRows parses every data row, dropping rows with any malformed cell.
func convertRows(frame datalogger.Frame, cols Columns) ([]datalogger.Reading, int) {
	readings := make([]datalogger.Reading, 0, len(frame.Rows))
	dropped := 0
	for _, row := range frame.Rows {
		if r, ok := convertRow(row, cols); ok {
			readings = append(readings, r)
		} else {
			dropped++
		}
	}
	return readings, dropped
}

func convertRow(row []datalogger.Cell, cols Columns) (datalogger.Reading, bool) {
	stamp := row[cols.Timestamp].Text
	if cols.Time >= 0 {
		stamp = strings.TrimSpace(stamp) + " " + strings.TrimSpace(row[cols.Time].Text)
	}
	ts, ok := ParseTimestamp(stamp)
	if !ok {
		return datalogger.Reading{}, false
	}
	temp, ok := parseCellNumber(row[cols.Temperature])
	if !ok {
		return datalogger.Reading{}, false
	}
	humid, ok := parseCellNumber(row[cols.Humidity])
	if !ok {
		return datalogger.Reading{}, false
	}
	return datalogger.Reading{Timestamp: ts, Temperature: temp, Humidity: humid}, true
}

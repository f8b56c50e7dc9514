package testkit

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"conversor/domain/datalogger"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// SheetName is the worksheet name of generated workbooks.
const SheetName = "Sheet1"

// WriteWorkbook writes rows to a new xlsx file at path.
func WriteWorkbook(path string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	return f.SaveAs(path)
}

// WriteSample generates readings and writes them as an xlsx file in layout.
func (g *SampleGenerator) WriteSample(path string, layout datalogger.LayoutTag) ([]datalogger.Reading, error) {
	readings := g.GenerateReadings()
	rows, err := g.Rows(layout, readings)
	if err != nil {
		return nil, err
	}
	if err := WriteWorkbook(path, rows); err != nil {
		return nil, err
	}
	return readings, nil
}

// WriteCSV writes rows as a ';'-separated file, optionally ISO-8859-1 encoded.
func WriteCSV(path string, rows [][]interface{}, latin1 bool) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'
	if err := w.WriteAll(StringRows(rows)); err != nil {
		return err
	}

	data := buf.Bytes()
	if latin1 {
		encoded, err := charmap.ISO8859_1.NewEncoder().Bytes(data)
		if err != nil {
			return err
		}
		data = encoded
	}
	return os.WriteFile(path, data, 0o644)
}

package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"conversor/domain/datalogger"
	"conversor/internal/logger"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// Text forms given to date-formatted workbook cells.
const (
	CanonicalTimestamp = "2006-01-02 15:04:05"
	CanonicalDate      = "2006-01-02"
)

var dateLikeFormat = regexp.MustCompile(`\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}|\d{1,2}:\d{2}|[A-Za-z]{3,}`)

// DataReader reads workbook and CSV files into raw sheets.
type DataReader struct {
	config ReaderConfig
}

// NewDataReader creates a reader with the given configuration
func NewDataReader(config ReaderConfig) *DataReader {
	return &DataReader{config: config}
}

// Read loads the file at path.
func (r *DataReader) Read(ctx context.Context, path string) (*datalogger.RawSheet, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return r.ReadFrom(ctx, filepath.Base(path), file)
}

// ReadFrom reads a spreadsheet stream whose kind is decided by name's extension.
func (r *DataReader) ReadFrom(ctx context.Context, name string, src io.Reader) (*datalogger.RawSheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fileType := FileType(name)
	logger.Debugf("[DataReader] Starting to read %s file: %s", fileType, name)

	startTime := time.Now()
	var sheet *datalogger.RawSheet
	var err error
	switch fileType {
	case FileTypeCSV:
		sheet, err = r.readCSV(name, src)
	case FileTypeWorkbook:
		sheet, err = r.readWorkbook(src)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(name))
	}
	if err != nil {
		return nil, err
	}

	logger.Infof("[DataReader] %s read in %.2fms (%d rows)", name,
		float64(time.Since(startTime).Nanoseconds())/1e6, sheet.NumRows())
	return sheet, nil
}

func (r *DataReader) readWorkbook(src io.Reader) (*datalogger.RawSheet, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if r.config.SheetIndex < 0 || r.config.SheetIndex >= len(sheets) {
		return nil, fmt.Errorf("workbook has no sheet at position %d", r.config.SheetIndex)
	}
	name := sheets[r.config.SheetIndex]

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	formatted, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	raw = r.limitRows(raw)
	sheet := &datalogger.RawSheet{Name: name, Rows: make([][]datalogger.Cell, len(raw))}
	for i, row := range raw {
		cells := make([]datalogger.Cell, len(row))
		for j, value := range row {
			display := value
			if i < len(formatted) && j < len(formatted[i]) {
				display = formatted[i][j]
			}
			cells[j] = convertCell(value, display, date1904)
		}
		sheet.Rows[i] = cells
	}
	return sheet, nil
}

// convertCell types a workbook cell from its raw value and its formatted
// display. Numbers whose display looks like a date or clock are Excel serials.
func convertCell(raw, display string, date1904 bool) datalogger.Cell {
	if strings.TrimSpace(raw) == "" {
		return datalogger.Cell{Kind: datalogger.CellEmpty}
	}

	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return datalogger.Cell{Kind: datalogger.CellText, Text: raw}
	}
	if display == raw || !dateLikeFormat.MatchString(display) || serial < 0 {
		return datalogger.Cell{Kind: datalogger.CellNumber, Text: raw}
	}

	if serial < 1 {
		return datalogger.Cell{Kind: datalogger.CellDate, Text: clockFromFraction(serial)}
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return datalogger.Cell{Kind: datalogger.CellNumber, Text: raw}
	}
	if serial == math.Trunc(serial) {
		return datalogger.Cell{Kind: datalogger.CellDate, Text: t.Format(CanonicalDate)}
	}
	return datalogger.Cell{Kind: datalogger.CellDate, Text: t.Round(time.Second).Format(CanonicalTimestamp)}
}

func clockFromFraction(fraction float64) string {
	secs := int(math.Round(fraction * 86400))
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600%24, secs/60%60, secs%60)
}

func (r *DataReader) readCSV(name string, src io.Reader) (*datalogger.RawSheet, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode CSV as ISO-8859-1: %w", err)
		}
		logger.Debugf("[DataReader] %s decoded as ISO-8859-1", name)
		data = decoded
	}

	delimiter := r.config.CSVDelimiter
	if delimiter == 0 {
		delimiter = sniffDelimiter(data)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	return datalogger.NewRawSheet(strings.TrimSuffix(name, filepath.Ext(name)), r.limitRows(records)), nil
}

// sniffLines is how many leading lines sniffDelimiter looks at.
const sniffLines = 20

// sniffDelimiter picks the candidate that splits the most lines into the
// same number of fields (at least two). A preamble line full of commas
// counts once, so it cannot outvote the table below it. Ties favour ';'
// then ','.
func sniffDelimiter(data []byte) rune {
	lines := strings.SplitN(string(data), "\n", sniffLines+1)
	if len(lines) > sniffLines {
		lines = lines[:sniffLines]
	}

	best, bestScore := ';', 0
	for _, c := range []rune{';', ',', '\t'} {
		counts := make(map[int]int)
		for _, line := range lines {
			if n := strings.Count(line, string(c)); n > 0 {
				counts[n]++
			}
		}
		score := 0
		for _, lineCount := range counts {
			if lineCount > score {
				score = lineCount
			}
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

func (r *DataReader) limitRows(rows [][]string) [][]string {
	if r.config.MaxRows > 0 && len(rows) > r.config.MaxRows {
		return rows[:r.config.MaxRows]
	}
	return rows
}

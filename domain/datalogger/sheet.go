package datalogger

import "strings"

// CellKind is the value type a spreadsheet cell carried in the source file.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellDate:
		return "date"
	default:
		return "empty"
	}
}

// Cell is one grid value. Date cells carry canonical "2006-01-02 15:04:05",
// "2006-01-02" or "15:04:05" text so downstream code works on text alone.
type Cell struct {
	Kind CellKind
	Text string
}

// TextCell builds a cell from raw text, inferring empty/number/text.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{Kind: CellEmpty}
	}
	if looksNumeric(s) {
		return Cell{Kind: CellNumber, Text: s}
	}
	return Cell{Kind: CellText, Text: s}
}

// Normalized returns the lower-cased, trimmed cell text used by every
// header test.
func (c Cell) Normalized() string {
	return NormalizeHeader(c.Text)
}

// NormalizeHeader lower-cases and trims a header token.
func NormalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RawSheet is the ordered cell grid of one worksheet. It is read-only once
// built by a reader.
type RawSheet struct {
	Name string
	Rows [][]Cell
}

// NewRawSheet builds a sheet from plain text rows.
func NewRawSheet(name string, rows [][]string) *RawSheet {
	sheet := &RawSheet{Name: name, Rows: make([][]Cell, len(rows))}
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, v := range row {
			cells[j] = TextCell(v)
		}
		sheet.Rows[i] = cells
	}
	return sheet
}

// NumRows returns the number of rows in the grid, including empty ones.
func (s *RawSheet) NumRows() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

// Row returns row i or nil when it is out of range.
func (s *RawSheet) Row(i int) []Cell {
	if s == nil || i < 0 || i >= len(s.Rows) {
		return nil
	}
	return s.Rows[i]
}

// NormalizedRow returns the normalized text of every cell in row i.
func (s *RawSheet) NormalizedRow(i int) []string {
	row := s.Row(i)
	out := make([]string, len(row))
	for j, c := range row {
		out[j] = c.Normalized()
	}
	return out
}

// Width returns the widest row length from row start onwards.
func (s *RawSheet) Width(start int) int {
	width := 0
	for i := start; i < s.NumRows(); i++ {
		if n := len(s.Rows[i]); n > width {
			width = n
		}
	}
	return width
}

// Frame is a view of the sheet that treats one row as the header and every
// following non-blank row as data.
type Frame struct {
	HeaderRow int
	Header    []string
	Rows      [][]Cell
}

// FrameAt reads the sheet as if headerRow leading rows were skipped. Blank
// rows left at the top are skipped too, so the header is the first non-blank
// row at or after headerRow.
func (s *RawSheet) FrameAt(headerRow int) Frame {
	frame := Frame{HeaderRow: headerRow}
	if headerRow < 0 {
		return frame
	}
	for headerRow < s.NumRows() && blankRow(s.Rows[headerRow]) {
		headerRow++
	}
	if headerRow >= s.NumRows() {
		return frame
	}
	frame.HeaderRow = headerRow

	width := s.Width(headerRow)
	frame.Header = make([]string, width)
	for j, c := range s.Rows[headerRow] {
		frame.Header[j] = c.Normalized()
	}

	for i := headerRow + 1; i < s.NumRows(); i++ {
		row := s.Rows[i]
		if blankRow(row) {
			continue
		}
		padded := make([]Cell, width)
		copy(padded, row)
		frame.Rows = append(frame.Rows, padded)
	}
	return frame
}

// Empty reports whether the frame has no data rows.
func (f Frame) Empty() bool {
	return len(f.Rows) == 0
}

// Columns returns the number of header columns.
func (f Frame) Columns() int {
	return len(f.Header)
}

// Index returns the position of the header equal to name, or -1.
func (f Frame) Index(name string) int {
	for i, h := range f.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Has reports whether every name is present as an exact header.
func (f Frame) Has(names ...string) bool {
	for _, n := range names {
		if f.Index(n) < 0 {
			return false
		}
	}
	return true
}

func blankRow(row []Cell) bool {
	for _, c := range row {
		if c.Kind != CellEmpty {
			return false
		}
	}
	return true
}

func looksNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == ',':
		case (r == '-' || r == '+') && i == 0:
		default:
			return false
		}
	}
	return digits > 0
}

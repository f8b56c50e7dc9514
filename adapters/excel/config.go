package excel

// ReaderConfig controls how spreadsheets are turned into raw sheets.
type ReaderConfig struct {
	SheetIndex   int  `json:"sheet_index"`   // worksheet position in the workbook
	MaxRows      int  `json:"max_rows"`      // 0 reads every row
	CSVDelimiter rune `json:"csv_delimiter"` // 0 sniffs ';', ',' or tab
}

// DefaultReaderConfig reads the first worksheet in full.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{}
}

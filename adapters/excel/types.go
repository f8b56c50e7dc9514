package excel

import (
	"path/filepath"
	"strings"
)

// File kinds understood by DataReader.
const (
	FileTypeWorkbook = "xlsx"
	FileTypeCSV      = "csv"
)

// SupportedExtensions lists the upload extensions DataReader accepts.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".xltx", ".xltm", ".csv"}

// FileType returns the reader kind for a file name, or "" when unsupported.
func FileType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".csv":
		return FileTypeCSV
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FileTypeWorkbook
	default:
		return ""
	}
}

// Supported reports whether name has an accepted extension.
func Supported(name string) bool {
	return FileType(name) != ""
}

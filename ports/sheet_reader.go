package ports

import (
	"context"
	"io"

	"conversor/domain/datalogger"
)

// SheetReader loads the first worksheet of a spreadsheet file as a raw cell grid.
type SheetReader interface {
	Read(ctx context.Context, path string) (*datalogger.RawSheet, error)
	ReadFrom(ctx context.Context, name string, src io.Reader) (*datalogger.RawSheet, error)
}

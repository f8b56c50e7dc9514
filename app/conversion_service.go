package app

import (
	"context"
	"io"
	"time"

	"conversor/domain/datalogger"
	"conversor/internal/errors"
	"conversor/internal/extract"
	"conversor/internal/layout"
	"conversor/internal/logger"
	"conversor/internal/report"
	"conversor/ports"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// ConversionService runs the read, classify, extract pipeline and keeps the
// results for the web session that asked for them.
type ConversionService struct {
	reader   ports.SheetReader
	store    ports.ResultStore
	renderer *report.Renderer
	sem      *semaphore.Weighted
}

// Outcome is one pipeline run before it is stored.
type Outcome struct {
	Detection layout.Detection
	Result    *extract.Result
	Duration  time.Duration
}

// NewConversionService creates the service. maxConcurrent bounds how many
// files are parsed at the same time; values below 1 mean 1.
func NewConversionService(reader ports.SheetReader, store ports.ResultStore, renderer *report.Renderer, maxConcurrent int64) *ConversionService {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &ConversionService{
		reader:   reader,
		store:    store,
		renderer: renderer,
		sem:      semaphore.NewWeighted(maxConcurrent),
	}
}

// Process reads the file at path and extracts its daily table.
func (s *ConversionService) Process(ctx context.Context, path string) (*Outcome, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.Busy("conversão cancelada enquanto aguardava vaga")
	}
	defer s.sem.Release(1)

	startTime := time.Now()
	sheet, err := s.reader.Read(ctx, path)
	if err != nil {
		return nil, errors.InvalidFile(err)
	}

	detection := layout.Detect(sheet)
	logger.Infof("[Conversion] %s classified as %s (rule %s, header row %d)",
		sheet.Name, detection.Layout, detection.Rule, detection.HeaderRow)

	res, err := extract.Run(sheet, detection.Layout)
	if err != nil {
		logger.Warnf("[Conversion] Extraction failed for %s: %v", sheet.Name, err)
		return nil, errors.ExtractionFailed(err)
	}
	if res.Dropped > 0 {
		logger.Debugf("[Conversion] %s: %d rows dropped as malformed", sheet.Name, res.Dropped)
	}

	return &Outcome{Detection: detection, Result: res, Duration: time.Since(startTime)}, nil
}

// ConvertFile processes path and stores the table under a new session ID.
// filename is the name the user uploaded and is kept for display.
func (s *ConversionService) ConvertFile(ctx context.Context, path, filename string) (*datalogger.Conversion, error) {
	outcome, err := s.Process(ctx, path)
	if err != nil {
		return nil, err
	}

	conv := &datalogger.Conversion{
		Filename: filename,
		Layout:   outcome.Result.Layout,
		Table:    outcome.Result.Table,
	}
	id, err := s.store.Save(ctx, conv)
	if err != nil {
		return nil, errors.Wrap(err, "failed to store conversion")
	}

	stored, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload conversion")
	}
	logger.Infof("[Conversion] %s stored as %s: %d days in %.2fms", filename, id, stored.Table.Len(),
		float64(outcome.Duration.Nanoseconds())/1e6)
	return stored, nil
}

// Lookup returns the conversion stored under the session ID text.
func (s *ConversionService) Lookup(ctx context.Context, sessionID string) (*datalogger.Conversion, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, errors.NotFound("result")
	}
	conv, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// RenderReport prints the stored table of sessionID as a PDF to w.
func (s *ConversionService) RenderReport(ctx context.Context, w io.Writer, sessionID string, meta datalogger.ReportMetadata) error {
	conv, err := s.Lookup(ctx, sessionID)
	if err != nil || conv.Table.Len() == 0 {
		return errors.NoResult("Erro: Nenhum dado disponível para gerar o PDF.")
	}
	if err := s.renderer.Render(w, conv.Table, meta); err != nil {
		return errors.Wrap(err, "failed to render PDF")
	}
	return nil
}

// Discard removes the stored result of sessionID, if any.
func (s *ConversionService) Discard(ctx context.Context, sessionID string) error {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil
	}
	return s.store.Delete(ctx, id)
}

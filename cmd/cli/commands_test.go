package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"conversor/adapters/excel"
	"conversor/app"
	"conversor/domain/datalogger"
	"conversor/internal/report"
	"conversor/internal/session"
	"conversor/internal/testkit"
	"conversor/ports"

	"github.com/google/uuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func writeSample(t *testing.T, tag datalogger.LayoutTag, days int) string {
	t.Helper()
	cfg := testkit.DefaultSampleConfig()
	cfg.Days = days
	cfg.PerDay = 4
	path := filepath.Join(t.TempDir(), string(tag)+".xlsx")
	var out bytes.Buffer
	require.NoError(t, runSample(&out, tag, path, cfg))
	assert.Contains(t, out.String(), "Wrote")
	return path
}

func TestRunClassify(t *testing.T) {
	path := writeSample(t, datalogger.LayoutSummaryReport, 1)

	var out bytes.Buffer
	require.NoError(t, runClassify(context.Background(), &out, path, false))
	assert.Equal(t, "summary_report\n", out.String())

	out.Reset()
	require.NoError(t, runClassify(context.Background(), &out, path, true))
	assert.Contains(t, out.String(), "header_row=12")
}

func TestRunConvertKeepsArgumentOrder(t *testing.T) {
	first := writeSample(t, datalogger.LayoutGenericTimeSeries, 2)
	second := writeSample(t, datalogger.LayoutDataloggerExport, 3)

	var out bytes.Buffer
	require.NoError(t, runConvert(context.Background(), &out, newService(), []string{first, second}, true))

	body := out.String()
	assert.Equal(t, int64(2), gjson.Get(body, "#").Int())
	assert.Equal(t, first, gjson.Get(body, "0.file").String())
	assert.Equal(t, "generic_timeseries", gjson.Get(body, "0.layout").String())
	assert.Equal(t, int64(2), gjson.Get(body, "0.table.rows.#").Int())
	assert.Equal(t, "datalogger_export", gjson.Get(body, "1.layout").String())
	assert.Equal(t, int64(3), gjson.Get(body, "1.table.rows.#").Int())
}

func TestRunConvertText(t *testing.T) {
	path := writeSample(t, datalogger.LayoutSummaryReport, 2)

	var out bytes.Buffer
	require.NoError(t, runConvert(context.Background(), &out, newService(), []string{path}, false))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "Data")
	assert.True(t, strings.HasPrefix(lines[2], "01/01/2024"))
}

func TestRunConvertFailsOnBadFile(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("a;b;c\n"), 0o644))

	err := runConvert(context.Background(), &bytes.Buffer{}, newService(), []string{bad}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.csv")
}

func TestRunPDF(t *testing.T) {
	path := writeSample(t, datalogger.LayoutDataloggerExport, 2)
	output := filepath.Join(t.TempDir(), "out.pdf")

	require.NoError(t, runPDF(context.Background(), newService(), path, output, datalogger.ReportMetadata{StudyNumber: "EST-01"}))
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

// oneShotStore hands out each stored conversion once, then forgets it.
type oneShotStore struct {
	*session.MemoryStore
	served map[uuid.UUID]bool
}

func (s *oneShotStore) Get(ctx context.Context, id uuid.UUID) (*datalogger.Conversion, error) {
	if s.served[id] {
		return nil, ports.ErrResultNotFound
	}
	s.served[id] = true
	return s.MemoryStore.Get(ctx, id)
}

func TestRunPDFRemovesOutputOnRenderFailure(t *testing.T) {
	path := writeSample(t, datalogger.LayoutDataloggerExport, 2)
	output := filepath.Join(t.TempDir(), "out.pdf")

	store := &oneShotStore{MemoryStore: session.NewMemoryStore(0), served: map[uuid.UUID]bool{}}
	svc := app.NewConversionService(
		excel.NewDataReader(excel.DefaultReaderConfig()),
		store,
		report.NewRenderer(nil, report.DefaultLetterhead),
		1,
	)

	err := runPDF(context.Background(), svc, path, output, datalogger.ReportMetadata{})
	require.Error(t, err)
	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "partial PDF left on disk")
}

func TestSampleCommandRejectsUnknownLayout(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"sample", "report_mode", "-o", filepath.Join(t.TempDir(), "x.xlsx")})
	cmd.SetOut(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

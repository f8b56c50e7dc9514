package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"conversor/domain/datalogger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableOf(days int) *datalogger.ResultTable {
	aggs := make([]datalogger.DailyAggregate, days)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range aggs {
		aggs[i] = datalogger.DailyAggregate{
			Date: start.AddDate(0, 0, i), TempMax: 25.5, TempMin: 18.25, HumidityMax: 60, HumidityMin: 41.5,
		}
	}
	return datalogger.NewResultTable(aggs)
}

func testRenderer() *Renderer {
	r := NewRenderer(nil, DefaultLetterhead)
	r.compress = false
	r.now = func() time.Time { return time.Date(2025, 3, 24, 10, 0, 0, 0, time.UTC) }
	return r
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		rows, want int
	}{
		{0, 1}, {1, 1}, {30, 1}, {31, 2}, {60, 2}, {61, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.rows), "rows=%d", tt.rows)
	}
}

func TestMetadataForcesLetterhead(t *testing.T) {
	meta := testRenderer().Metadata(datalogger.ReportMetadata{
		Formulation: "X", Revision: "Y", Status: "Reprovado", StudyNumber: "E-1",
	})

	assert.Equal(t, "FOR.2.031", meta.Formulation)
	assert.Equal(t, "Rev. 00", meta.Revision)
	assert.Equal(t, "Aprovado", meta.Status)
	assert.Equal(t, "24/03/2025", meta.ReportDate)
	assert.Equal(t, "E-1", meta.StudyNumber)
}

func TestMetadataKeepsGivenDate(t *testing.T) {
	meta := testRenderer().Metadata(datalogger.ReportMetadata{ReportDate: "01/02/2024"})
	assert.Equal(t, "01/02/2024", meta.ReportDate)
}

func TestRenderPaginates(t *testing.T) {
	var buf bytes.Buffer
	err := testRenderer().Render(&buf, tableOf(31), datalogger.ReportMetadata{StudyNumber: "EST-7"})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "%PDF-"))
	assert.Contains(t, out, "/Count 2")
	assert.Contains(t, out, "(1 / 2)")
	assert.Contains(t, out, "(2 / 2)")
	assert.Contains(t, out, Title)
	assert.Contains(t, out, "EST-7")
	assert.Contains(t, out, "(25.5)")
	assert.Contains(t, out, "(18.25)")
	assert.Contains(t, out, "31/01/2024")
}

func TestRenderEmptyTableHasOnePage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testRenderer().Render(&buf, tableOf(0), datalogger.ReportMetadata{}))

	out := buf.String()
	assert.Contains(t, out, "/Count 1")
	assert.Contains(t, out, "(1 / 1)")
}

func TestRenderRejectsNilTable(t *testing.T) {
	assert.Error(t, testRenderer().Render(&bytes.Buffer{}, nil, datalogger.ReportMetadata{}))
}

func TestRenderIgnoresBrokenLogo(t *testing.T) {
	r := testRenderer()
	r.Logo = []byte("not a png")

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, tableOf(2), datalogger.ReportMetadata{}))
	assert.Contains(t, buf.String(), "/Count 1")
}

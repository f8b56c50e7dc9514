package ui

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"conversor/adapters/excel"
	"conversor/app"
	"conversor/domain/datalogger"
	"conversor/internal/lifecycle"
	"conversor/internal/report"
	"conversor/internal/session"
	"conversor/internal/testkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type testEnv struct {
	server  *Server
	uploads string
	tracker *lifecycle.ActivityTracker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	uploads := filepath.Join(t.TempDir(), "uploads")
	service := app.NewConversionService(
		excel.NewDataReader(excel.DefaultReaderConfig()),
		session.NewMemoryStore(time.Minute),
		report.NewRenderer(nil, report.DefaultLetterhead),
		2,
	)
	tracker := lifecycle.NewActivityTracker()
	server, err := NewServer(service, tracker, Options{
		UploadFolder:   uploads,
		MaxUploadBytes: 1 << 20,
		Letterhead:     report.DefaultLetterhead,
	})
	require.NoError(t, err)
	return &testEnv{server: server, uploads: uploads, tracker: tracker}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func sampleWorkbook(t *testing.T, tag datalogger.LayoutTag) []byte {
	t.Helper()
	cfg := testkit.DefaultSampleConfig()
	cfg.Days = 2
	cfg.PerDay = 6
	path := filepath.Join(t.TempDir(), "sample.xlsx")
	_, err := testkit.NewSampleGenerator(cfg).WriteSample(path, tag)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

// uploadSample posts a generated workbook and returns the result path.
func (e *testEnv) uploadSample(t *testing.T, tag datalogger.LayoutTag) string {
	t.Helper()
	w := e.do(uploadRequest(t, "file", "Relatório 01.xlsx", sampleWorkbook(t, tag)))
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/resultado/"))
	return location
}

func TestIndex(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `action="/upload"`)
	assert.Contains(t, body, `name="file"`)
	assert.Contains(t, body, ".xlsx,.xlsm")
	assert.Contains(t, body, "<h2 id=\"como-usar\">Como usar</h2>")
}

func TestHealthz(t *testing.T) {
	w := newTestEnv(t).do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", gjson.Get(w.Body.String(), "status").String())
}

func TestStaticLogo(t *testing.T) {
	w := newTestEnv(t).do(httptest.NewRequest(http.MethodGet, "/static/images/logo.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}

func TestUploadAndShowResult(t *testing.T) {
	env := newTestEnv(t)
	location := env.uploadSample(t, datalogger.LayoutSummaryReport)

	w := env.do(httptest.NewRequest(http.MethodGet, location, nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `class="table table-striped table-bordered"`)
	assert.Contains(t, body, "Temperatura Máxima (°C)")
	assert.Contains(t, body, "01/01/2024")
	assert.Contains(t, body, "02/01/2024")
	assert.Contains(t, body, "Relatório 01.xlsx")
	assert.Contains(t, body, `name="session_id"`)

	entries, err := os.ReadDir(env.uploads)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), "_Relat_rio_01.xlsx"))
}

func TestResultJSON(t *testing.T) {
	env := newTestEnv(t)
	location := env.uploadSample(t, datalogger.LayoutDataloggerExport)
	id := strings.TrimPrefix(location, "/resultado/")

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/resultado/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, id, gjson.Get(body, "id").String())
	assert.Equal(t, "datalogger_export", gjson.Get(body, "layout").String())
	assert.Equal(t, int64(5), gjson.Get(body, "columns.#").Int())
	assert.Equal(t, int64(2), gjson.Get(body, "rows.#").Int())
	assert.Equal(t, "01/01/2024", gjson.Get(body, "rows.0.data").String())
	assert.True(t, gjson.Get(body, "rows.0.temp_max").Exists())
}

func TestResultUnknown(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusNotFound, env.do(httptest.NewRequest(http.MethodGet, "/resultado/abc", nil)).Code)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/resultado/0190f5a4-7c1e-7000-8000-000000000000", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", gjson.Get(w.Body.String(), "code").String())
}

func TestUploadMissingFile(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(uploadRequest(t, "other", "a.xlsx", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Erro: Nenhum arquivo enviado", w.Body.String())
}

func TestUploadNoSelection(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(uploadRequest(t, "file", "", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Erro: Nenhum arquivo selecionado", w.Body.String())
}

func TestUploadUnsupportedExtension(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(uploadRequest(t, "file", "dados.txt", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Formato não suportado")
}

func TestUploadTooLarge(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(uploadRequest(t, "file", "big.csv", bytes.Repeat([]byte("a;b;c\n"), 400000)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadUnprocessable(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(uploadRequest(t, "file", "dados.csv", []byte("when;t;h\nx;y;z\n")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "Erro: Não foi possível processar o arquivo. "))
	assert.Contains(t, w.Body.String(), "Colunas necessárias não encontradas")
}

func TestGeneratePDF(t *testing.T) {
	env := newTestEnv(t)
	location := env.uploadSample(t, datalogger.LayoutGenericTimeSeries)
	id := strings.TrimPrefix(location, "/resultado/")

	form := url.Values{"session_id": {id}, "param5": {"EST-01"}, "param6": {"DL-9"}}
	req := httptest.NewRequest(http.MethodPost, "/gerar_pdf", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="Resultado Final.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = env.do(httptest.NewRequest(http.MethodGet, "/gerar_pdf?session_id="+id, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGeneratePDFWithoutResult(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(httptest.NewRequest(http.MethodPost, "/gerar_pdf", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Erro: Nenhum dado disponível para gerar o PDF.", w.Body.String())
}

func TestCleanupUploads(t *testing.T) {
	env := newTestEnv(t)
	env.uploadSample(t, datalogger.LayoutSummaryReport)

	w := env.do(httptest.NewRequest(http.MethodPost, "/cleanup-uploads", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	entries, err := os.ReadDir(env.uploads)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRequestsTouchTracker(t *testing.T) {
	env := newTestEnv(t)
	before := env.tracker.LastActivity()
	time.Sleep(5 * time.Millisecond)

	env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.True(t, env.tracker.LastActivity().After(before))
}

func TestStoredUploadName(t *testing.T) {
	name := storedUploadName(`C:\Users\ana\Relatório final.xlsx`)
	assert.Regexp(t, `^[0-9a-f]{8}_Relat_rio_final\.xlsx$`, name)
	assert.Regexp(t, `^[0-9a-f]{8}_upload$`, storedUploadName("../"))
}

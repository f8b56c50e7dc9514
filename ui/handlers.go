package ui

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"conversor/adapters/excel"
	"conversor/domain/datalogger"
	"conversor/internal/errors"
	"conversor/internal/lifecycle"
	"conversor/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response texts shown to the user.
const (
	msgNoFile       = "Erro: Nenhum arquivo enviado"
	msgNoSelection  = "Erro: Nenhum arquivo selecionado"
	msgProcessError = "Erro: Não foi possível processar o arquivo."
	msgNoPDFData    = "Erro: Nenhum dado disponível para gerar o PDF."
	pdfFilename     = "Resultado Final.pdf"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, indexTemplate, gin.H{
		"Accept":       acceptedExtensions(),
		"MaxUploadMB":  s.options.MaxUploadBytes >> 20,
		"Instructions": s.instructions,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleUpload(c *gin.Context) {
	if s.options.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.options.MaxUploadBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			c.String(http.StatusBadRequest, "Erro: Arquivo maior que %d MB", s.options.MaxUploadBytes>>20)
		case s.emptySelection(c):
			c.String(http.StatusBadRequest, msgNoSelection)
		default:
			c.String(http.StatusBadRequest, msgNoFile)
		}
		return
	}
	if header.Filename == "" {
		c.String(http.StatusBadRequest, msgNoSelection)
		return
	}
	if !excel.Supported(header.Filename) {
		c.String(http.StatusBadRequest, "%s Formato não suportado: %s", msgProcessError, filepath.Ext(header.Filename))
		return
	}

	dst := filepath.Join(s.options.UploadFolder, storedUploadName(header.Filename))
	if err := c.SaveUploadedFile(header, dst); err != nil {
		logger.Errorf("[Upload] Failed to save %s: %v", header.Filename, err)
		c.String(http.StatusInternalServerError, "%s %v", msgProcessError, err)
		return
	}
	logger.Infof("[Upload] Received %s (%d bytes)", header.Filename, header.Size)

	conv, err := s.service.ConvertFile(c.Request.Context(), dst, header.Filename)
	if err != nil {
		c.String(errors.HTTPStatus(err), "%s %s", msgProcessError, userMessage(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/resultado/"+conv.ID.String())
}

// emptySelection reports whether the form carried a file field with no file,
// which is what browsers send when nothing was chosen.
func (s *Server) emptySelection(c *gin.Context) bool {
	form := c.Request.MultipartForm
	if form == nil {
		return false
	}
	_, ok := form.Value["file"]
	return ok
}

func (s *Server) handleResult(c *gin.Context) {
	conv, err := s.service.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.String(errors.HTTPStatus(err), "Erro: Resultado não encontrado ou expirado.")
		return
	}

	records := conv.Table.Records()
	s.renderTemplate(c, resultTemplate, gin.H{
		"SessionID":   conv.ID.String(),
		"Filename":    conv.Filename,
		"Layout":      conv.Layout,
		"LayoutLabel": conv.Layout.Label(),
		"Columns":     records[0],
		"Rows":        records[1:],
		"Letterhead":  s.options.Letterhead,
		"Today":       time.Now().Format(datalogger.DateFormat),
	})
}

func (s *Server) handleResultJSON(c *gin.Context) {
	conv, err := s.service.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(errors.HTTPStatus(err), gin.H{"error": err.Error(), "code": errors.GetCode(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         conv.ID,
		"filename":   conv.Filename,
		"layout":     conv.Layout,
		"columns":    conv.Table.Columns,
		"rows":       conv.Table.Rows,
		"created_at": conv.CreatedAt,
		"expires_at": conv.ExpiresAt,
	})
}

func (s *Server) handleGeneratePDF(c *gin.Context) {
	var meta datalogger.ReportMetadata
	if err := c.ShouldBind(&meta); err != nil {
		c.String(http.StatusBadRequest, "Erro: Formulário inválido: %v", err)
		return
	}
	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		sessionID = c.Query("session_id")
	}

	var buf bytes.Buffer
	if err := s.service.RenderReport(c.Request.Context(), &buf, sessionID, meta); err != nil {
		if errors.GetCode(err) == errors.CodeNoResult {
			c.String(http.StatusBadRequest, msgNoPDFData)
			return
		}
		logger.Errorf("[Report] PDF generation failed: %v", err)
		c.String(http.StatusInternalServerError, "Erro ao gerar o PDF: %v", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", pdfFilename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (s *Server) handleCleanupUploads(c *gin.Context) {
	if _, err := lifecycle.CleanupUploads(s.options.UploadFolder); err != nil {
		logger.Errorf("[Upload] Cleanup failed: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

// storedUploadName prefixes a sanitized form of name with a short unique ID.
func storedUploadName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.Trim(unsafeFilenameChars.ReplaceAllString(base, "_"), "._")
	if base == "" {
		base = "upload"
	}
	return uuid.NewString()[:8] + "_" + base
}

// userMessage is the part of err worth showing on the error page.
func userMessage(err error) string {
	if extErr, ok := datalogger.AsExtractionError(err); ok {
		return extErr.Error()
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && appErr.Cause != nil {
		return appErr.Cause.Error()
	}
	return err.Error()
}

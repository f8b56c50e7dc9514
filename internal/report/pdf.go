package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"conversor/domain/datalogger"
	"conversor/internal/logger"

	"github.com/go-pdf/fpdf"
)

// Title is printed in the letterhead of every page.
const Title = "DADOS DE TEMPERATURA E/OU UMIDADE"

// RowsPerPage is the number of body rows printed on one page.
const RowsPerPage = 30

// Letter portrait in points.
const pageHeight = 792

var (
	bodyWidths = []float64{102, 123, 123, 123, 123}
	infoWidths = []float64{100, 169, 155, 169}
)

const (
	marginLeft     = 9
	infoTop        = 82
	infoRowHeight  = 20
	bodyTop        = 126
	bodyHeaderRow  = 24
	bodyRowHeight  = 18
	footerSignY    = 50
	footerDateY    = 30
	footerLineText = "________________________________________________"
)

// Letterhead holds the fixed document control fields. When set they replace
// whatever the caller passed in ReportMetadata.
type Letterhead struct {
	Formulation string
	Revision    string
	Status      string
}

// DefaultLetterhead is the approved document control block.
var DefaultLetterhead = Letterhead{
	Formulation: "FOR.2.031",
	Revision:    "Rev. 00",
	Status:      "Aprovado",
}

// Renderer prints result tables as paginated Letter PDFs.
type Renderer struct {
	Logo       []byte
	Letterhead Letterhead
	now        func() time.Time
	compress   bool
}

// NewRenderer creates a renderer. logo is a PNG and may be nil.
func NewRenderer(logo []byte, letterhead Letterhead) *Renderer {
	return &Renderer{
		Logo:       logo,
		Letterhead: letterhead,
		now:        time.Now,
		compress:   true,
	}
}

// TotalPages returns the page count for a table of n rows, at least one.
func TotalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + RowsPerPage - 1) / RowsPerPage
}

// Metadata applies the letterhead and the default report date to meta.
func (r *Renderer) Metadata(meta datalogger.ReportMetadata) datalogger.ReportMetadata {
	if r.Letterhead.Formulation != "" {
		meta.Formulation = r.Letterhead.Formulation
	}
	if r.Letterhead.Revision != "" {
		meta.Revision = r.Letterhead.Revision
	}
	if r.Letterhead.Status != "" {
		meta.Status = r.Letterhead.Status
	}
	if meta.ReportDate == "" {
		meta.ReportDate = r.now().Format(datalogger.DateFormat)
	}
	return meta
}

// Render writes table as a PDF report to w.
func (r *Renderer) Render(w io.Writer, table *datalogger.ResultTable, meta datalogger.ReportMetadata) error {
	if table == nil {
		return fmt.Errorf("no table to render")
	}
	meta = r.Metadata(meta)
	total := TotalPages(table.Len())

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(r.compress)
	pdf.SetMargins(marginLeft, bodyTop, marginLeft)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(Title, true)
	pdf.SetCreator("conversor", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	logoName := ""
	if len(r.Logo) > 0 {
		logoName = "logo"
		pdf.RegisterImageOptionsReader(logoName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(r.Logo))
		if pdf.Err() {
			logger.Warnf("[Report] Logo ignored: %v", pdf.Error())
			pdf.ClearError()
			logoName = ""
		}
	}

	for page := 1; page <= total; page++ {
		pdf.AddPage()
		r.drawHeader(pdf, tr, logoName, meta, page, total)
		r.drawFooter(pdf, tr)

		start := (page - 1) * RowsPerPage
		end := start + RowsPerPage
		if end > table.Len() {
			end = table.Len()
		}
		drawBody(pdf, tr, table.Columns, table.Rows[start:end])
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	logger.Debugf("[Report] Rendered %d rows on %d pages", table.Len(), total)
	return nil
}

func (r *Renderer) drawHeader(pdf *fpdf.Fpdf, tr func(string) string, logo string, meta datalogger.ReportMetadata, page, total int) {
	pdf.SetLineWidth(1)
	pdf.Rect(9, pageHeight-780, 592, 60, "D")
	if logo != "" {
		pdf.ImageOptions(logo, 35, pageHeight-730-40, 100, 40, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}
	pdf.Line(150, pageHeight-780, 150, pageHeight-720)
	pdf.Line(450, pageHeight-780, 450, pageHeight-720)
	pdf.Line(450, pageHeight-750, 601, pageHeight-750)
	pdf.Line(523, pageHeight-780, 523, pageHeight-720)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Text(160, pageHeight-745, tr(Title))
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(455, pageHeight-760, tr(meta.Formulation))
	pdf.Text(550, pageHeight-760, fmt.Sprintf("%d / %d", page, total))
	pdf.Text(470, pageHeight-730, tr(meta.Revision))
	pdf.Text(540, pageHeight-737, tr(meta.Status))
	pdf.Text(535, pageHeight-725, tr(meta.ReportDate))

	info := [][]string{
		{"Número do estudo:", meta.StudyNumber, "Código do equipamento:", meta.EquipmentCode},
		{"Número do ensaio:", meta.TestNumber, "Local de leitura do equipamento:", meta.ReadingLocation},
	}
	pdf.SetXY(marginLeft, infoTop)
	for _, row := range info {
		for i, text := range row {
			pdf.CellFormat(infoWidths[i], infoRowHeight, tr(text), "1", 0, "LM", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetX(marginLeft)
	}
}

func (r *Renderer) drawFooter(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(40, pageHeight-footerSignY, tr("Rubrica: "+footerLineText))
	pdf.Text(40, pageHeight-footerDateY, tr("Data: "+footerLineText))
}

func drawBody(pdf *fpdf.Fpdf, tr func(string) string, columns []string, rows []datalogger.ResultRow) {
	var tableWidth float64
	for _, w := range bodyWidths {
		tableWidth += w
	}
	pageWidth, _ := pdf.GetPageSize()
	left := (pageWidth - tableWidth) / 2

	pdf.SetLineWidth(1)
	pdf.SetXY(left, bodyTop)
	pdf.SetFont("Helvetica", "B", 8)
	for i, col := range columns {
		if i >= len(bodyWidths) {
			break
		}
		pdf.CellFormat(bodyWidths[i], bodyHeaderRow, tr(col), "1", 0, "CM", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.SetX(left)
		for i, v := range row.Values() {
			pdf.CellFormat(bodyWidths[i], bodyRowHeight, tr(v), "1", 0, "CM", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

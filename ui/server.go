package ui

import (
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"conversor/adapters/excel"
	"conversor/app"
	"conversor/internal/logger"
	"conversor/internal/report"
	"conversor/ui/middleware"

	"github.com/gin-gonic/gin"
)

// Options configures the web server.
type Options struct {
	UploadFolder   string
	MaxUploadBytes int64
	GinMode        string
	Letterhead     report.Letterhead
}

// Server represents the web server of the converter UI
type Server struct {
	router       *gin.Engine
	service      *app.ConversionService
	tracker      middleware.Toucher
	templates    *template.Template
	instructions template.HTML
	options      Options
}

// NewServer creates the server and registers every route.
func NewServer(service *app.ConversionService, tracker middleware.Toucher, options Options) (*Server, error) {
	if options.GinMode != "" {
		gin.SetMode(options.GinMode)
	}
	if options.UploadFolder == "" {
		options.UploadFolder = "uploads"
	}
	if err := os.MkdirAll(options.UploadFolder, 0o755); err != nil {
		return nil, err
	}

	templates, err := parseTemplates(assets)
	if err != nil {
		return nil, err
	}
	instructions, err := renderMarkdown(assets, "content/instructions.md")
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:       gin.New(),
		service:      service,
		tracker:      tracker,
		templates:    templates,
		instructions: instructions,
		options:      options,
	}
	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() error {
	s.router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.TrackActivity(s.tracker))
	s.router.MaxMultipartMemory = s.options.MaxUploadBytes

	staticFS, err := fs.Sub(assets, "static")
	if err != nil {
		return err
	}
	logger.Debugf("[Static] Serving static files from embedded FS at /static")
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)
	s.router.POST("/upload", s.handleUpload)
	s.router.GET("/resultado/:id", s.handleResult)
	s.router.GET("/gerar_pdf", s.handleGeneratePDF)
	s.router.POST("/gerar_pdf", s.handleGeneratePDF)
	s.router.POST("/cleanup-uploads", s.handleCleanupUploads)
	s.router.GET("/api/resultado/:id", s.handleResultJSON)
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

func acceptedExtensions() string {
	return strings.Join(excel.SupportedExtensions, ",")
}

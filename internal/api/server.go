package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/config"
	"github.com/david/scholarship-finder/internal/logging"
)

type Server struct {
	Catalog  *catalog.Service
	Saved    catalog.SavedScholarships
	Echo     *echo.Echo
	Logger   *zap.Logger
	PageSize int
	Now      func() time.Time
}

func NewServer(svc *catalog.Service, cfg *config.Config, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	allowedOrigins := []string{"http://localhost:5173"}
	if cfg != nil && len(cfg.Server.CORSOrigins) > 0 {
		allowedOrigins = cfg.Server.CORSOrigins
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))

	pageSize := config.ClampPageSize(0)
	if cfg != nil {
		pageSize = config.ClampPageSize(cfg.Query.PageSize)
	}

	s := &Server{
		Catalog:  svc,
		Saved:    catalog.UnimplementedSaved{},
		Echo:     e,
		Logger:   logging.OrNop(logger).Named("api"),
		PageSize: pageSize,
		Now:      time.Now,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")
	api.GET("/scholarships", s.handleListScholarships)
	api.GET("/scholarships/:id", s.handleGetScholarship)
	api.GET("/dashboard", s.handleDashboard)
	api.GET("/employment-programs", s.handleEmploymentPrograms)
	api.POST("/recommendations", s.handleRecommend)

	// Résumé
	api.GET("/students/:id/resume", s.handleGetResume)
	api.POST("/students/:id/resume/upload", s.handleUploadResume)
	api.POST("/students/:id/resume/write", s.handleWriteResume)

	// Saved items have no backend yet
	api.GET("/saved", s.handleGetSaved)
	api.POST("/saved/:id", s.handleSave)
	api.DELETE("/saved/:id", s.handleUnsave)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

// splitCSV accepts both repeated parameters and comma-separated values.
func splitCSV(values ...string) []string {
	var result []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}

package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/david/scholarship-finder/internal/catalog"
)

func (s *Server) savedError(c echo.Context, err error) error {
	if errors.Is(err, catalog.ErrNotImplemented) {
		return c.JSON(http.StatusNotImplemented, map[string]string{"error": "not implemented"})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
}

func (s *Server) handleGetSaved(c echo.Context) error {
	items, err := s.Saved.List(c.Request().Context(), c.QueryParam("student_id"))
	if err != nil {
		return s.savedError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (s *Server) handleSave(c echo.Context) error {
	if err := s.Saved.Save(c.Request().Context(), c.QueryParam("student_id"), c.Param("id")); err != nil {
		return s.savedError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) handleUnsave(c echo.Context) error {
	if err := s.Saved.Remove(c.Request().Context(), c.QueryParam("student_id"), c.Param("id")); err != nil {
		return s.savedError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "unsaved"})
}

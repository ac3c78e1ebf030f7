package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/models"
	"github.com/david/scholarship-finder/internal/transport"
)

const maxResumeBytes = 10 << 20

// upstreamError maps a résumé call failure to a status and the message the
// student should see.
func upstreamError(err error) (int, string) {
	if errors.Is(err, catalog.ErrInvalidRequest) {
		return http.StatusBadRequest, err.Error()
	}
	if apiErr, ok := transport.IsAPIError(err); ok {
		return http.StatusBadGateway, apiErr.Message
	}
	return http.StatusBadGateway, "Upstream service unavailable"
}

func (s *Server) handleUploadResume(c echo.Context) error {
	studentID := c.Param("id")
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
	}
	if fh.Size > maxResumeBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large"})
	}

	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is unreadable"})
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxResumeBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is unreadable"})
	}
	if _, err := catalog.ValidatePDF(content); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := s.Catalog.UploadResume(c.Request().Context(), studentID, fh.Filename, bytes.NewReader(content))
	if err != nil {
		status, msg := upstreamError(err)
		s.Logger.Error("resume upload failed", zap.String("student_id", studentID), zap.Error(err))
		return c.JSON(status, map[string]string{"error": msg})
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleWriteResume(c echo.Context) error {
	studentID := c.Param("id")
	var req models.ResumeWriteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	resp, err := s.Catalog.WriteResume(c.Request().Context(), studentID, req)
	if err != nil {
		status, msg := upstreamError(err)
		s.Logger.Error("resume write failed", zap.String("student_id", studentID), zap.Error(err))
		return c.JSON(status, map[string]string{"error": msg})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetResume(c echo.Context) error {
	studentID := c.Param("id")
	resp, err := s.Catalog.GetResume(c.Request().Context(), studentID)
	if err != nil {
		if apiErr, ok := transport.IsAPIError(err); ok && apiErr.StatusCode == http.StatusNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		status, msg := upstreamError(err)
		return c.JSON(status, map[string]string{"error": msg})
	}
	return c.JSON(http.StatusOK, resp)
}

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/config"
	"github.com/david/scholarship-finder/internal/models"
	"github.com/david/scholarship-finder/internal/query"
)

type listResponse struct {
	Items  []models.Scholarship    `json:"items"`
	Total  int                     `json:"total"`
	Counts map[models.Category]int `json:"counts"`
}

type recommendationResponse struct {
	Count       int                  `json:"count"`
	Items       []models.Scholarship `json:"items"`
	TotalAmount int64                `json:"total_amount"`
}

// fetchList returns an empty list when the backend fails; the failure is
// only logged.
func (s *Server) fetchList(c echo.Context, p catalog.ListParams) []models.Scholarship {
	items, err := s.Catalog.List(c.Request().Context(), p)
	if err != nil {
		s.Logger.Error("failed to list scholarships",
			zap.String("category", string(p.Category)),
			zap.String("search", p.Search),
			zap.Error(err),
		)
		return []models.Scholarship{}
	}
	return items
}

func (s *Server) handleListScholarships(c echo.Context) error {
	params := c.QueryParams()
	st := query.State{
		Search:   c.QueryParam("search"),
		Category: query.ParseCategory(c.QueryParam("category")),
		Grades:   splitCSV(params["grade"]...),
		Majors:   splitCSV(params["major"]...),
		Sort:     query.ParseSortMode(c.QueryParam("sort")),
	}

	items := query.Apply(s.fetchList(c, st.ListParams()), st)
	return c.JSON(http.StatusOK, listResponse{
		Items:  items,
		Total:  len(items),
		Counts: query.CategoryCounts(items),
	})
}

func (s *Server) handleGetScholarship(c echo.Context) error {
	id := c.Param("id")
	detail, err := s.Catalog.Detail(c.Request().Context(), id)
	if err != nil {
		s.Logger.Warn("failed to get scholarship", zap.String("id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	return c.JSON(http.StatusOK, detail)
}

func (s *Server) handleDashboard(c echo.Context) error {
	pageSize := s.PageSize
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil {
		pageSize = config.ClampPageSize(v)
	}

	items := s.fetchList(c, catalog.ListParams{Category: models.CategoryAll})
	return c.JSON(http.StatusOK, query.Dashboard(items, s.Now(), pageSize))
}

func (s *Server) handleEmploymentPrograms(c echo.Context) error {
	items := s.fetchList(c, catalog.ListParams{
		Category: models.CategoryAll,
		Search:   c.QueryParam("search"),
	})
	programs := query.EmploymentPrograms(items)
	return c.JSON(http.StatusOK, listResponse{
		Items:  programs,
		Total:  len(programs),
		Counts: query.CategoryCounts(programs),
	})
}

func (s *Server) handleRecommend(c echo.Context) error {
	var req models.RecommendationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	items, err := s.Catalog.Recommend(c.Request().Context(), req.Major, req.Grade, req.Certificates)
	if errors.Is(err, catalog.ErrInvalidRequest) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err != nil {
		s.Logger.Error("failed to fetch recommendations", zap.Error(err))
		items = []models.Scholarship{}
	}

	return c.JSON(http.StatusOK, recommendationResponse{
		Count:       len(items),
		Items:       items,
		TotalAmount: query.TotalAmount(items),
	})
}

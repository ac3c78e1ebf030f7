// Package catalog is the typed client for the university scholarship backend.
// Every record it returns has been through ingest normalization.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/david/scholarship-finder/internal/ingest"
	"github.com/david/scholarship-finder/internal/logging"
	"github.com/david/scholarship-finder/internal/models"
	"github.com/david/scholarship-finder/internal/transport"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotImplemented = errors.New("not implemented")
)

// ListParams selects a remote list. Search is sent only when non-empty.
type ListParams struct {
	Category models.Category
	Search   string
}

type Service struct {
	client *transport.Client
	logger *zap.Logger
	now    func() time.Time
}

type ServiceOption func(*Service)

// WithClock overrides the clock used for novelty.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(client *transport.Client, logger *zap.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		client: client,
		logger: logging.OrNop(logger).Named("catalog"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List fetches one category of the catalog, optionally narrowed by search.
func (s *Service) List(ctx context.Context, p ListParams) ([]models.Scholarship, error) {
	q := url.Values{}
	category := p.Category
	if category == "" {
		category = models.CategoryAll
	}
	q.Set("category", string(category))
	if p.Search != "" {
		q.Set("search", p.Search)
	}

	resp, err := transport.Request[models.RawScholarshipList](ctx, s.client, "/api/scholarships", transport.RequestOptions{
		Method: http.MethodGet,
		Query:  q,
	})
	if err != nil {
		return nil, fmt.Errorf("list scholarships: %w", err)
	}
	return ingest.FromRawList(resp.Items, s.now()), nil
}

// Detail fetches a single record by id.
func (s *Service) Detail(ctx context.Context, id string) (models.ScholarshipDetail, error) {
	if strings.TrimSpace(id) == "" {
		return models.ScholarshipDetail{}, fmt.Errorf("%w: id is required", ErrInvalidRequest)
	}
	raw, err := transport.Request[models.RawScholarship](ctx, s.client, "/api/scholarships/"+url.PathEscape(id), transport.RequestOptions{
		Method: http.MethodGet,
	})
	if err != nil {
		return models.ScholarshipDetail{}, fmt.Errorf("get scholarship %s: %w", id, err)
	}
	return ingest.DetailFromRaw(raw, s.now()), nil
}

// All fetches the unfiltered catalog.
func (s *Service) All(ctx context.Context) ([]models.Scholarship, error) {
	raws, err := transport.Request[[]models.RawScholarship](ctx, s.client, "/api/list", transport.RequestOptions{
		Method: http.MethodGet,
	})
	if err != nil {
		return nil, fmt.Errorf("list all scholarships: %w", err)
	}
	return ingest.FromRawList(raws, s.now()), nil
}

// Recommend asks the backend for matches to a student profile. Results are
// returned in backend order.
func (s *Service) Recommend(ctx context.Context, major, grade string, certificates []string) ([]models.Scholarship, error) {
	req, err := NewRecommendationRequest(major, grade, certificates)
	if err != nil {
		return nil, err
	}

	resp, err := transport.Request[models.RawRecommendationResponse](ctx, s.client, "/api/resumes", transport.RequestOptions{
		Method: http.MethodPost,
		JSON:   req,
	})
	if err != nil {
		return nil, fmt.Errorf("recommend scholarships: %w", err)
	}

	s.logger.Debug("recommendations received",
		zap.String("major", req.Major),
		zap.String("grade", req.Grade),
		zap.Int("count", len(resp.Results)),
	)
	return ingest.FromRawList(resp.Results, s.now()), nil
}

// NewRecommendationRequest validates a profile. Major and grade are required;
// certificates is never nil.
func NewRecommendationRequest(major, grade string, certificates []string) (models.RecommendationRequest, error) {
	major = strings.TrimSpace(major)
	grade = strings.TrimSpace(grade)
	if major == "" {
		return models.RecommendationRequest{}, fmt.Errorf("%w: major is required", ErrInvalidRequest)
	}
	if grade == "" {
		return models.RecommendationRequest{}, fmt.Errorf("%w: grade is required", ErrInvalidRequest)
	}

	certs := make([]string, 0, len(certificates))
	for _, c := range certificates {
		if c = strings.TrimSpace(c); c != "" {
			certs = append(certs, c)
		}
	}
	return models.RecommendationRequest{Major: major, Grade: grade, Certificates: certs}, nil
}

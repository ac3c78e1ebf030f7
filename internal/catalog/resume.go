package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	rpdf "rsc.io/pdf"

	"github.com/david/scholarship-finder/internal/ingest"
	"github.com/david/scholarship-finder/internal/models"
	"github.com/david/scholarship-finder/internal/transport"
)

const resumeField = "file"

// UploadResume sends a PDF résumé and returns the extracted profile with the
// backend's recommendations.
func (s *Service) UploadResume(ctx context.Context, studentID, fileName string, r io.Reader) (models.UploadResult, error) {
	if fileName == "" {
		return models.UploadResult{}, fmt.Errorf("%w: file name is required", ErrInvalidRequest)
	}

	resp, err := transport.Request[models.RawUploadPDFResponse](ctx, s.client, "/upload-pdf", transport.RequestOptions{
		Method: http.MethodPost,
		Multipart: &transport.Multipart{
			Files: []transport.FilePart{{
				FieldName:   resumeField,
				FileName:    fileName,
				ContentType: "application/pdf",
				Content:     r,
			}},
		},
	})
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("upload resume: %w", err)
	}

	s.logger.Info("resume uploaded",
		zap.String("student_id", studentID),
		zap.String("file", fileName),
		zap.Int("recommended", len(resp.Recommended)),
	)
	return models.UploadResult{
		ResumeData:  resp.ResumeData,
		Recommended: ingest.FromRawList(resp.Recommended, s.now()),
	}, nil
}

// WriteResume submits a résumé typed in by the student.
func (s *Service) WriteResume(ctx context.Context, studentID string, req models.ResumeWriteRequest) (models.ResumeResponse, error) {
	if strings.TrimSpace(studentID) == "" {
		return models.ResumeResponse{}, fmt.Errorf("%w: student id is required", ErrInvalidRequest)
	}
	path := "/api/students/" + url.PathEscape(studentID) + "/resume/write"
	resp, err := transport.Request[models.ResumeResponse](ctx, s.client, path, transport.RequestOptions{
		Method: http.MethodPost,
		JSON:   req,
	})
	if err != nil {
		return models.ResumeResponse{}, fmt.Errorf("write resume: %w", err)
	}
	return resp, nil
}

// GetResume fetches the stored résumé metadata for a student.
func (s *Service) GetResume(ctx context.Context, studentID string) (models.ResumeResponse, error) {
	if strings.TrimSpace(studentID) == "" {
		return models.ResumeResponse{}, fmt.Errorf("%w: student id is required", ErrInvalidRequest)
	}
	path := "/api/students/" + url.PathEscape(studentID) + "/resume"
	resp, err := transport.Request[models.ResumeResponse](ctx, s.client, path, transport.RequestOptions{
		Method: http.MethodGet,
	})
	if err != nil {
		return models.ResumeResponse{}, fmt.Errorf("get resume: %w", err)
	}
	return resp, nil
}

// ValidatePDF checks that content parses as a PDF with at least one page.
func ValidatePDF(content []byte) (pages int, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			pages = 0
			err = fmt.Errorf("%w: pdf parser panic: %v", ErrInvalidRequest, recovered)
		}
	}()

	reader, err := rpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("%w: not a readable pdf: %v", ErrInvalidRequest, err)
	}
	pages = reader.NumPage()
	if pages == 0 {
		return 0, fmt.Errorf("%w: pdf has no pages", ErrInvalidRequest)
	}
	return pages, nil
}

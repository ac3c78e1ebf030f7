package catalog

import (
	"context"

	"github.com/david/scholarship-finder/internal/models"
)

// SavedScholarships is the bookmark store. The backend has no endpoints for
// it yet.
type SavedScholarships interface {
	List(ctx context.Context, studentID string) ([]models.Scholarship, error)
	Save(ctx context.Context, studentID, scholarshipID string) error
	Remove(ctx context.Context, studentID, scholarshipID string) error
}

// UnimplementedSaved fails every call with ErrNotImplemented.
type UnimplementedSaved struct{}

var _ SavedScholarships = UnimplementedSaved{}

func (UnimplementedSaved) List(context.Context, string) ([]models.Scholarship, error) {
	return nil, ErrNotImplemented
}

func (UnimplementedSaved) Save(context.Context, string, string) error {
	return ErrNotImplemented
}

func (UnimplementedSaved) Remove(context.Context, string, string) error {
	return ErrNotImplemented
}

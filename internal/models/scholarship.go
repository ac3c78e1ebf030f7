package models

import "encoding/json"

type Category string

const (
	CategoryScholarship Category = "scholarship"
	CategoryCompetition Category = "competition"
	// CategoryAll is a selector value, never an entity category.
	CategoryAll Category = "all"
)

// Conditions holds the eligibility facets of a scholarship. A facet that the
// backend did not supply is nil, never an empty slice.
type Conditions struct {
	Grade        []string `json:"grade,omitempty"`
	Major        []string `json:"major,omitempty"`
	GPA          *float64 `json:"gpa,omitempty"`
	Income       *string  `json:"income,omitempty"`
	Certificates []string `json:"certificates,omitempty"`
}

// Scholarship is the canonical record every view works with.
type Scholarship struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Summary         string     `json:"summary"`
	Organization    string     `json:"organization"`
	Amount          string     `json:"amount"`
	Deadline        string     `json:"deadline"` // empty means unknown
	ApplicationLink string     `json:"applicationLink"`
	Conditions      Conditions `json:"conditions"`
	Category        Category   `json:"category"`
	Source          string     `json:"source"`
	IsNew           bool       `json:"isNew"`
	ViewCount       int        `json:"viewCount"`
}

// ScholarshipDetail extends the canonical record with what the detail screen shows.
type ScholarshipDetail struct {
	Scholarship
	StartAt     string   `json:"startAt,omitempty"`
	Content     string   `json:"content,omitempty"`     // sanitized HTML
	ContentText string   `json:"contentText,omitempty"` // plain text
	Etc         string   `json:"etc,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// RawScholarship is a record as returned by the university backend.
// Only ID and Title are guaranteed.
type RawScholarship struct {
	ID           json.Number `json:"id"`
	Board        string      `json:"board,omitempty"`
	URL          string      `json:"url,omitempty"`
	Title        string      `json:"title"`
	Type         string      `json:"type,omitempty"`
	Major        string      `json:"major,omitempty"`
	Grade        string      `json:"grade,omitempty"`
	Price        string      `json:"price,omitempty"`
	StartAt      string      `json:"start_at,omitempty"`
	EndAt        string      `json:"end_at,omitempty"`
	Content      string      `json:"content,omitempty"`
	Etc          string      `json:"etc,omitempty"`
	Images       []string    `json:"images,omitempty"`
	Summary      string      `json:"summary,omitempty"`
	CreatedAt    string      `json:"created_at,omitempty"`
	Certificates []string    `json:"certificates,omitempty"`
}

type RawScholarshipList struct {
	Count int              `json:"count"`
	Items []RawScholarship `json:"items"`
}

type RecommendationRequest struct {
	Major        string   `json:"major"`
	Grade        string   `json:"grade"`
	Certificates []string `json:"certificates"`
}

type RawRecommendationResponse struct {
	Count   int              `json:"count"`
	Results []RawScholarship `json:"results"`
}

// ResumeData is the profile the backend extracted from an uploaded PDF.
// Certificates arrives as a single free-form string.
type ResumeData struct {
	Major        string         `json:"major,omitempty"`
	Grade        string         `json:"grade,omitempty"`
	Certificates string         `json:"certificates,omitempty"`
	Extra        map[string]any `json:"-"`
}

func (d *ResumeData) UnmarshalJSON(b []byte) error {
	var all map[string]any
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	d.Major, _ = all["major"].(string)
	d.Grade, _ = all["grade"].(string)
	d.Certificates, _ = all["certificates"].(string)
	delete(all, "major")
	delete(all, "grade")
	delete(all, "certificates")
	if len(all) > 0 {
		d.Extra = all
	}
	return nil
}

type RawUploadPDFResponse struct {
	ResumeData  ResumeData       `json:"resume_data"`
	Recommended []RawScholarship `json:"recommended"`
}

// UploadResult is the normalized outcome of a résumé upload.
type UploadResult struct {
	ResumeData  ResumeData    `json:"resume_data"`
	Recommended []Scholarship `json:"recommended"`
}

type ResumeWriteRequest struct {
	Name         string `json:"name"`
	Major        string `json:"major"`
	Grade        string `json:"grade"`
	Certificates string `json:"certificates"`
}

type ResumeResponse struct {
	ResumeID string `json:"resumeId"`
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}

package ingest

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/david/scholarship-finder/internal/models"
)

const (
	DefaultTitle           = "제목 없음"
	DefaultSummary         = "요약 정보 없음"
	DefaultOrganization    = "강원대학교"
	DefaultSource          = "강원대 공지사항"
	DefaultAmount          = "정보 없음"
	DefaultApplicationLink = "#"

	summaryMaxRunes = 100
	newWindowDays   = 7
)

var htmlTagRegex = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)

// TruncateText cuts a string to at most maxRunes characters.
func TruncateText(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes])
}

// HTMLToText converts HTML to plain text, collapsing whitespace.
func HTMLToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html // Fallback to original if parsing fails
	}
	doc.Find("script, style").Remove()
	return cleanText(doc.Text())
}

func looksLikeHTML(s string) bool {
	return htmlTagRegex.MatchString(s)
}

// bodyText returns the display text of an upstream body, stripping markup only
// when there is markup to strip.
func bodyText(content string) string {
	if looksLikeHTML(content) {
		return HTMLToText(content)
	}
	return content
}

// sanitizeHTML uses bluemonday to strip unsafe tags and attributes from HTML.
func sanitizeHTML(s string) string {
	p := bluemonday.UGCPolicy()
	return p.Sanitize(s)
}

// FromRaw converts a backend record into the canonical Scholarship.
// It never fails: every absent field falls back to a fixed default.
func FromRaw(raw models.RawScholarship, now time.Time) models.Scholarship {
	s := models.Scholarship{
		ID:              raw.ID.String(),
		Title:           firstNonEmpty(raw.Title, DefaultTitle),
		Organization:    firstNonEmpty(raw.Board, DefaultOrganization),
		Source:          firstNonEmpty(raw.Board, DefaultSource),
		Amount:          firstNonEmpty(raw.Price, DefaultAmount),
		Deadline:        firstNonEmpty(raw.EndAt, raw.StartAt),
		ApplicationLink: firstNonEmpty(raw.URL, DefaultApplicationLink),
		Category:        categoryOf(raw.Type),
		ViewCount:       0, // not supplied by the backend
	}

	s.Summary = raw.Summary
	if s.Summary == "" && raw.Content != "" {
		s.Summary = TruncateText(bodyText(raw.Content), summaryMaxRunes)
	}
	if s.Summary == "" {
		s.Summary = DefaultSummary
	}

	if raw.Grade != "" {
		s.Conditions.Grade = []string{raw.Grade}
	}
	if raw.Major != "" {
		s.Conditions.Major = []string{raw.Major}
	}
	if len(raw.Certificates) > 0 {
		s.Conditions.Certificates = append([]string(nil), raw.Certificates...)
	}

	if raw.CreatedAt != "" {
		s.IsNew = isRecent(raw.CreatedAt, now)
	}

	return s
}

// FromRawList normalizes every record; a nil input yields an empty slice.
func FromRawList(raws []models.RawScholarship, now time.Time) []models.Scholarship {
	out := make([]models.Scholarship, 0, len(raws))
	for _, raw := range raws {
		out = append(out, FromRaw(raw, now))
	}
	return out
}

// DetailFromRaw builds the detail view of a record.
func DetailFromRaw(raw models.RawScholarship, now time.Time) models.ScholarshipDetail {
	d := models.ScholarshipDetail{
		Scholarship: FromRaw(raw, now),
		StartAt:     raw.StartAt,
		Etc:         raw.Etc,
		Images:      sanitizeStringSlice(raw.Images),
	}
	if raw.Content != "" {
		d.Content = sanitizeHTML(raw.Content)
		d.ContentText = strings.TrimSpace(bodyText(d.Content))
	}
	return d
}

func categoryOf(rawType string) models.Category {
	if rawType == string(models.CategoryCompetition) {
		return models.CategoryCompetition
	}
	return models.CategoryScholarship
}

// isRecent reports whether createdAt lies within newWindowDays of now, in
// either direction. Whole days are rounded up, so 6d1h counts as 7 days.
func isRecent(createdAt string, now time.Time) bool {
	t, ok := ParseDate(createdAt, now.Location())
	if !ok {
		return false
	}
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}
	days := math.Ceil(diff.Hours() / 24)
	return days <= newWindowDays
}

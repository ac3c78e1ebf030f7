package query

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/david/scholarship-finder/internal/models"
)

const (
	deadlineSoonDays  = 7
	employmentKeyword = "취업"
	DefaultPageSize   = 6
)

// NewItems keeps items flagged as new, in input order.
func NewItems(items []models.Scholarship) []models.Scholarship {
	out := make([]models.Scholarship, 0)
	for _, item := range items {
		if item.IsNew {
			out = append(out, item)
		}
	}
	return out
}

// DeadlineSoon returns items whose deadline day is between today and seven
// days from today inclusive, soonest first. A limit <= 0 means no limit.
// Empty or unparseable deadlines never qualify.
func DeadlineSoon(items []models.Scholarship, now time.Time, limit int) []models.Scholarship {
	today := startOfDay(now)

	type candidate struct {
		item models.Scholarship
		day  time.Time
	}
	var found []candidate
	for _, item := range items {
		key := newDeadlineKey(item.Deadline, now.Location())
		if !key.valid {
			continue
		}
		day := startOfDay(key.at.In(now.Location()))
		days := daysBetween(today, day)
		if days < 0 || days > deadlineSoonDays {
			continue
		}
		found = append(found, candidate{item: item, day: key.at})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].day.Before(found[j].day)
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}

	out := make([]models.Scholarship, 0, len(found))
	for _, c := range found {
		out = append(out, c.item)
	}
	return out
}

// CategoryCounts counts items per category. Both categories are always present.
func CategoryCounts(items []models.Scholarship) map[models.Category]int {
	counts := map[models.Category]int{
		models.CategoryScholarship: 0,
		models.CategoryCompetition: 0,
	}
	for _, item := range items {
		counts[item.Category]++
	}
	return counts
}

// EmploymentPrograms keeps items that mention employment in the title,
// summary or organization.
func EmploymentPrograms(items []models.Scholarship) []models.Scholarship {
	out := make([]models.Scholarship, 0)
	for _, item := range items {
		if strings.Contains(item.Title, employmentKeyword) ||
			strings.Contains(item.Summary, employmentKeyword) ||
			strings.Contains(item.Organization, employmentKeyword) {
			out = append(out, item)
		}
	}
	return out
}

// TotalAmount sums the digits found in each amount string ("100만원" is 100,
// "500,000원" is 500000). Amounts without digits count as zero.
func TotalAmount(items []models.Scholarship) int64 {
	var total int64
	for _, item := range items {
		total += amountValue(item.Amount)
	}
	return total
}

func amountValue(amount string) int64 {
	var digits strings.Builder
	for _, r := range amount {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	v, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// DashboardView is the home screen summary.
type DashboardView struct {
	NewItems          []models.Scholarship    `json:"new_items"`
	DeadlineSoon      []models.Scholarship    `json:"deadline_soon"`
	Counts            map[models.Category]int `json:"counts"`
	NewCount          int                     `json:"new_count"`
	DeadlineSoonCount int                     `json:"deadline_soon_count"`
	Total             int                     `json:"total"`
}

// Dashboard builds the home view. Each list holds at most pageSize entries;
// the counts cover the whole input.
func Dashboard(items []models.Scholarship, now time.Time, pageSize int) DashboardView {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	fresh := NewItems(items)
	soon := DeadlineSoon(items, now, 0)

	view := DashboardView{
		NewItems:          fresh,
		DeadlineSoon:      soon,
		Counts:            CategoryCounts(items),
		NewCount:          len(fresh),
		DeadlineSoonCount: len(soon),
		Total:             len(items),
	}
	if len(view.NewItems) > pageSize {
		view.NewItems = view.NewItems[:pageSize]
	}
	if len(view.DeadlineSoon) > pageSize {
		view.DeadlineSoon = view.DeadlineSoon[:pageSize]
	}
	return view
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, both at midnight in the same
// location. Rounding absorbs DST shifts.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// Package query filters, sorts and summarizes canonical scholarship lists.
// Every function is pure: inputs are never modified and nothing is cached.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/ingest"
	"github.com/david/scholarship-finder/internal/models"
)

type SortMode string

const (
	SortRecent   SortMode = "recent"
	SortDeadline SortMode = "deadline"
	// SortPopular orders by viewCount, which the backend never supplies.
	SortPopular SortMode = "popular"
)

// State is the per-view query a caller builds from user input.
type State struct {
	Search   string
	Category models.Category
	Grades   []string
	Majors   []string
	Sort     SortMode
}

// ListParams returns the remote list request for this state. Search is
// delegated to the backend untouched.
func (s State) ListParams() catalog.ListParams {
	return catalog.ListParams{Category: s.Category, Search: s.Search}
}

// Apply runs category, grade and major filters, then sorts. The result is a
// new slice; items is left untouched.
func Apply(items []models.Scholarship, st State) []models.Scholarship {
	out := make([]models.Scholarship, 0, len(items))
	for _, item := range items {
		if !matchesCategory(item, st.Category) {
			continue
		}
		if !intersects(item.Conditions.Grade, st.Grades) {
			continue
		}
		if !intersects(item.Conditions.Major, st.Majors) {
			continue
		}
		out = append(out, item)
	}
	Sort(out, st.Sort)
	return out
}

// Sort orders items in place. Unknown modes leave the order unchanged.
func Sort(items []models.Scholarship, mode SortMode) {
	switch mode {
	case SortRecent:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].IsNew && !items[j].IsNew
		})
	case SortDeadline:
		keys := make([]deadlineKey, len(items))
		for i, item := range items {
			keys[i] = newDeadlineKey(item.Deadline, time.UTC)
		}
		sort.Stable(byDeadline{items: items, keys: keys})
	case SortPopular:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].ViewCount > items[j].ViewCount
		})
	}
}

// ParseSortMode maps user input to a SortMode, defaulting to recent.
func ParseSortMode(s string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortDeadline:
		return SortDeadline
	case SortPopular:
		return SortPopular
	default:
		return SortRecent
	}
}

// ParseCategory maps user input to a category selector, defaulting to all.
func ParseCategory(s string) models.Category {
	switch models.Category(strings.ToLower(strings.TrimSpace(s))) {
	case models.CategoryScholarship:
		return models.CategoryScholarship
	case models.CategoryCompetition:
		return models.CategoryCompetition
	default:
		return models.CategoryAll
	}
}

func matchesCategory(item models.Scholarship, c models.Category) bool {
	if c == "" || c == models.CategoryAll {
		return true
	}
	return item.Category == c
}

// intersects is true when selected is empty, or when facet shares a value
// with it. A missing facet never matches a non-empty selection.
func intersects(facet, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, v := range facet {
		for _, s := range selected {
			if v == s {
				return true
			}
		}
	}
	return false
}

type deadlineKey struct {
	at    time.Time
	valid bool
}

func newDeadlineKey(deadline string, loc *time.Location) deadlineKey {
	if deadline == "" {
		return deadlineKey{}
	}
	t, ok := ingest.ParseDate(deadline, loc)
	return deadlineKey{at: t, valid: ok}
}

// byDeadline sorts ascending; invalid deadlines go after every valid one.
type byDeadline struct {
	items []models.Scholarship
	keys  []deadlineKey
}

func (b byDeadline) Len() int { return len(b.items) }

func (b byDeadline) Swap(i, j int) {
	b.items[i], b.items[j] = b.items[j], b.items[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

func (b byDeadline) Less(i, j int) bool {
	ki, kj := b.keys[i], b.keys[j]
	if ki.valid != kj.valid {
		return ki.valid
	}
	if !ki.valid {
		return false
	}
	return ki.at.Before(kj.at)
}

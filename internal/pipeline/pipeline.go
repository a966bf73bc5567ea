// Package pipeline derives the displayed task list from the full collection
// and the current search, filter and sort choices.
package pipeline

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tgienger/tasktracker/internal/models"
)

// Filter restricts the list by status.
type Filter string

const (
	FilterAll     Filter = "ALL"
	FilterPending Filter = "PENDING"
	FilterDone    Filter = "DONE"
)

var filters = []Filter{FilterAll, FilterPending, FilterDone}

// Next cycles ALL -> PENDING -> DONE -> ALL.
func (f Filter) Next() Filter {
	return filters[(slices.Index(filters, f)+1)%len(filters)]
}

func (f Filter) Label() string {
	switch f {
	case FilterPending:
		return "Pending"
	case FilterDone:
		return "Finished"
	}
	return "All Status"
}

// Matches reports whether a task with status s passes the filter.
func (f Filter) Matches(s models.Status) bool {
	return f == FilterAll || f == "" || models.Status(f) == s
}

// ParseFilter returns the filter named s, or FilterAll.
func ParseFilter(s string) Filter {
	if f := Filter(s); slices.Contains(filters, f) {
		return f
	}
	return FilterAll
}

// SortKey orders tasks within a status group.
type SortKey string

const (
	SortDate     SortKey = "DATE"
	SortTitle    SortKey = "TITLE"
	SortPriority SortKey = "PRIORITY"
)

var sortKeys = []SortKey{SortDate, SortTitle, SortPriority}

// Next cycles DATE -> TITLE -> PRIORITY -> DATE.
func (k SortKey) Next() SortKey {
	return sortKeys[(slices.Index(sortKeys, k)+1)%len(sortKeys)]
}

func (k SortKey) Label() string {
	switch k {
	case SortTitle:
		return "By Name"
	case SortPriority:
		return "By Priority"
	}
	return "By Date"
}

// ParseSortKey returns the key named s, or SortDate.
func ParseSortKey(s string) SortKey {
	if k := SortKey(s); slices.Contains(sortKeys, k) {
		return k
	}
	return SortDate
}

// Query is the user's current view selection.
type Query struct {
	Search string
	Filter Filter
	Sort   SortKey
}

// Pipeline applies queries. It is not safe for concurrent use.
type Pipeline struct {
	collator *collate.Collator
}

// New creates a Pipeline collating titles for tag.
func New(tag language.Tag) *Pipeline {
	return &Pipeline{collator: collate.New(tag)}
}

// Apply filters and sorts tasks. The input slice is not modified.
func (p *Pipeline) Apply(tasks []models.Task, q Query) []models.Task {
	needle := strings.ToLower(q.Search)
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !q.Filter.Matches(t.Status) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		out = append(out, t)
	}

	slices.SortStableFunc(out, func(a, b models.Task) int {
		if a.Status != b.Status {
			if a.Status == models.StatusPending {
				return -1
			}
			if b.Status == models.StatusPending {
				return 1
			}
		}
		switch q.Sort {
		case SortTitle:
			return p.collator.CompareString(a.Title, b.Title)
		case SortPriority:
			return cmp.Compare(b.Priority.Weight(), a.Priority.Weight())
		default:
			return a.DueDate.Compare(b.DueDate.Time)
		}
	})
	return out
}

// Progress is the rounded percentage of done tasks, 0 for an empty list.
func Progress(tasks []models.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Done() {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(tasks))))
}

// Overdue reports whether an unfinished task is past its due date.
func Overdue(t models.Task, today models.Date) bool {
	return !t.Done() && t.DueDate.Before(today.Time)
}

// Package resolver decides which todos apply to a calendar day and whether they are done.
// Everything here is pure: callers pass the current collections and get fresh results back.
package resolver

import (
	"sort"
	"time"

	"diary-app/src/domain"
)

// Collections is the owner's current set of rows the resolver works on
type Collections struct {
	DailyTodos        []domain.DailyTodo
	MonthlyTodos      []domain.MonthlyTodo
	DeadlineTasks     []domain.DeadlineTask
	SpecificSchedules []domain.SpecificSchedule
	Completions       []domain.Completion
}

// Item is one entry of a day's list
type Item struct {
	ID           string          `json:"id"`
	Type         domain.ItemType `json:"type"`
	Category     domain.Category `json:"category"`
	Text         string          `json:"text"`
	DeadlineDate domain.Date     `json:"deadline_date,omitempty"`
	IsOverdue    bool            `json:"is_overdue,omitempty"`
}

// ResolvedItem is an Item with its completion state for the day
type ResolvedItem struct {
	Item
	Completed bool `json:"completed"`
}

// Summary counts a day's items
type Summary struct {
	Total      int `json:"total_count"`
	Completed  int `json:"completed_count"`
	Incomplete int `json:"incomplete_count"`
}

// Day is the full resolution of one date
type Day struct {
	Date    domain.Date    `json:"date"`
	Items   []ResolvedItem `json:"items"`
	Summary Summary        `json:"summary"`
}

// DayCell is the per-cell badge data of a month grid
type DayCell struct {
	Date    domain.Date `json:"date"`
	Summary Summary     `json:"summary"`
}

// ApplicableItems lists the items that apply to date in category order
// (daily, monthly, deadline, specific), keeping input order inside each category.
func ApplicableItems(date domain.Date, c Collections) []Item {
	items := make([]Item, 0, len(c.DailyTodos))

	for _, t := range c.DailyTodos {
		items = append(items, Item{ID: t.ID, Type: domain.ItemTypeDaily, Category: domain.CategoryDaily, Text: t.Text})
	}

	day := date.Day()
	for _, t := range c.MonthlyTodos {
		if day != 0 && t.RepeatDate == day {
			items = append(items, Item{ID: t.ID, Type: domain.ItemTypeMonthly, Category: domain.CategoryMonthly, Text: t.Text})
		}
	}

	for _, t := range c.DeadlineTasks {
		if date.Between(t.CreatedDate, t.DeadlineDate) {
			items = append(items, Item{
				ID:           t.ID,
				Type:         domain.ItemTypeDeadline,
				Category:     domain.CategoryDeadline,
				Text:         t.Text,
				DeadlineDate: t.DeadlineDate,
			})
		}
	}

	for _, s := range c.SpecificSchedules {
		if s.ScheduleDate == date {
			items = append(items, Item{ID: s.ID, Type: domain.ItemTypeSpecific, Category: domain.CategorySpecific, Text: s.Text})
		}
	}

	return items
}

// IsApplicable reports whether the item identified by (itemType, itemID) applies to date
func IsApplicable(date domain.Date, itemType domain.ItemType, itemID string, c Collections) bool {
	for _, it := range ApplicableItems(date, c) {
		if it.ID == itemID && it.Type == itemType {
			return true
		}
	}
	return false
}

// IsCompleted applies the completion rule to a flat list of completion rows.
// deadline is only consulted for deadline tasks.
func IsCompleted(completions []domain.Completion, itemID string, itemType domain.ItemType, deadline, date domain.Date) bool {
	return NewIndex(completions).IsCompleted(itemID, itemType, deadline, date)
}

type key struct {
	id  string
	typ domain.ItemType
}

// Index groups completion dates by item for repeated lookups
type Index struct {
	dates map[key][]domain.Date
}

// NewIndex builds an Index; dates are kept sorted ascending
func NewIndex(completions []domain.Completion) *Index {
	ix := &Index{dates: make(map[key][]domain.Date)}
	for _, c := range completions {
		k := key{c.ItemID, c.ItemType}
		ix.dates[k] = append(ix.dates[k], c.CompletionDate)
	}
	for k := range ix.dates {
		sort.Slice(ix.dates[k], func(i, j int) bool { return ix.dates[k][i] < ix.dates[k][j] })
	}
	return ix
}

// FirstCompleted returns the earliest completion date of the item
func (ix *Index) FirstCompleted(itemID string, itemType domain.ItemType) (domain.Date, bool) {
	dates := ix.dates[key{itemID, itemType}]
	if len(dates) == 0 {
		return "", false
	}
	return dates[0], true
}

// HasAny reports whether any completion row exists for the item
func (ix *Index) HasAny(itemID string, itemType domain.ItemType) bool {
	return len(ix.dates[key{itemID, itemType}]) > 0
}

// CompletedOn reports whether a row dated exactly date exists
func (ix *Index) CompletedOn(itemID string, itemType domain.ItemType, date domain.Date) bool {
	dates := ix.dates[key{itemID, itemType}]
	i := sort.Search(len(dates), func(i int) bool { return dates[i] >= date })
	return i < len(dates) && dates[i] == date
}

// IsCompleted returns the completion state of the item on date.
// Deadline tasks count as done from their first completion date through the deadline.
func (ix *Index) IsCompleted(itemID string, itemType domain.ItemType, deadline, date domain.Date) bool {
	if itemType != domain.ItemTypeDeadline {
		return ix.CompletedOn(itemID, itemType, date)
	}
	first, ok := ix.FirstCompleted(itemID, itemType)
	if !ok {
		return false
	}
	return first <= date && date <= deadline
}

// ResolveDay returns the day's items with their completion flags and counts
func ResolveDay(date domain.Date, c Collections) Day {
	ix := NewIndex(c.Completions)
	return resolveDay(date, c, ix)
}

func resolveDay(date domain.Date, c Collections, ix *Index) Day {
	items := ApplicableItems(date, c)
	day := Day{Date: date, Items: make([]ResolvedItem, len(items))}
	for i, it := range items {
		done := ix.IsCompleted(it.ID, it.Type, it.DeadlineDate, date)
		day.Items[i] = ResolvedItem{Item: it, Completed: done}
		if done {
			day.Summary.Completed++
		}
	}
	day.Summary.Total = len(items)
	day.Summary.Incomplete = day.Summary.Total - day.Summary.Completed
	return day
}

// DaySummary counts the items of date and how many of them are completed
func DaySummary(date domain.Date, c Collections) Summary {
	return ResolveDay(date, c).Summary
}

// MonthSummaries returns one cell per day of the month
func MonthSummaries(year int, month time.Month, c Collections) []DayCell {
	ix := NewIndex(c.Completions)
	n := domain.DaysInMonth(year, month)
	cells := make([]DayCell, 0, n)
	for d := 1; d <= n; d++ {
		date := domain.NewDate(year, month, d)
		cells = append(cells, DayCell{Date: date, Summary: resolveDay(date, c, ix).Summary})
	}
	return cells
}

// PendingDeadlines lists deadline tasks that have never been completed,
// flagging the ones whose deadline is already behind date.
func PendingDeadlines(tasks []domain.DeadlineTask, completions []domain.Completion, date domain.Date) []Item {
	ix := NewIndex(completions)
	var pending []Item
	for _, t := range tasks {
		if ix.HasAny(t.ID, domain.ItemTypeDeadline) {
			continue
		}
		pending = append(pending, Item{
			ID:           t.ID,
			Type:         domain.ItemTypeDeadline,
			Category:     domain.CategoryDeadline,
			Text:         t.Text,
			DeadlineDate: t.DeadlineDate,
			IsOverdue:    t.DeadlineDate < date,
		})
	}
	return pending
}

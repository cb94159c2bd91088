package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"diary-app/src/domain"
	"diary-app/src/feed"
	"diary-app/src/logger"
	"diary-app/src/resolver"

	"github.com/sirupsen/logrus"
)

// TogglePatch is the change a toggle made, in the shape a client cache applies
type TogglePatch struct {
	ItemID    string              `json:"item_id"`
	ItemType  domain.ItemType     `json:"item_type"`
	Date      domain.Date         `json:"date"`
	Completed bool                `json:"completed"`
	Inserted  []domain.Completion `json:"inserted"`
	Removed   []domain.Completion `json:"removed"`
}

// CalendarUsecase resolves days and toggles completions
type CalendarUsecase interface {
	Collections(ctx context.Context, owner string) (resolver.Collections, error)
	Day(ctx context.Context, owner, date string) (*resolver.Day, error)
	Month(ctx context.Context, owner string, year, month int) ([]resolver.DayCell, error)
	PendingDeadlines(ctx context.Context, owner, date string) ([]resolver.Item, error)
	ListCompletions(ctx context.Context, owner string) ([]domain.Completion, error)
	ToggleCompletion(ctx context.Context, owner string, itemType domain.ItemType, itemID, date string) (*TogglePatch, error)
}

type calendarUsecase struct {
	store *domain.Store
	pub   feed.Publisher
	clock Clock
}

// NewCalendarUsecase creates a new calendar usecase
func NewCalendarUsecase(store *domain.Store, pub feed.Publisher, clock Clock) CalendarUsecase {
	return &calendarUsecase{store: store, pub: pub, clock: clock}
}

// Collections loads every row the resolver needs
func (u *calendarUsecase) Collections(ctx context.Context, owner string) (resolver.Collections, error) {
	var c resolver.Collections
	var err error
	if c.DailyTodos, err = u.store.DailyTodos.List(ctx, owner); err != nil {
		return c, fmt.Errorf("load daily todos: %w", err)
	}
	if c.MonthlyTodos, err = u.store.MonthlyTodos.List(ctx, owner); err != nil {
		return c, fmt.Errorf("load monthly todos: %w", err)
	}
	if c.DeadlineTasks, err = u.store.DeadlineTasks.List(ctx, owner); err != nil {
		return c, fmt.Errorf("load deadline tasks: %w", err)
	}
	if c.SpecificSchedules, err = u.store.SpecificSchedules.List(ctx, owner); err != nil {
		return c, fmt.Errorf("load schedules: %w", err)
	}
	if c.Completions, err = u.store.Completions.List(ctx, owner); err != nil {
		return c, fmt.Errorf("load completions: %w", err)
	}
	return c, nil
}

func (u *calendarUsecase) Day(ctx context.Context, owner, date string) (*resolver.Day, error) {
	d, err := u.dateOrToday(date)
	if err != nil {
		return nil, err
	}
	c, err := u.Collections(ctx, owner)
	if err != nil {
		return nil, err
	}
	day := resolver.ResolveDay(d, c)
	return &day, nil
}

func (u *calendarUsecase) Month(ctx context.Context, owner string, year, month int) ([]resolver.DayCell, error) {
	if year < 1 || year > 9999 {
		return nil, ErrInvalidYear
	}
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	c, err := u.Collections(ctx, owner)
	if err != nil {
		return nil, err
	}
	return resolver.MonthSummaries(year, time.Month(month), c), nil
}

func (u *calendarUsecase) PendingDeadlines(ctx context.Context, owner, date string) ([]resolver.Item, error) {
	d, err := u.dateOrToday(date)
	if err != nil {
		return nil, err
	}
	tasks, err := u.store.DeadlineTasks.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	completions, err := u.store.Completions.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	pending := resolver.PendingDeadlines(tasks, completions, d)
	if pending == nil {
		pending = []resolver.Item{}
	}
	return pending, nil
}

func (u *calendarUsecase) ListCompletions(ctx context.Context, owner string) ([]domain.Completion, error) {
	return u.store.Completions.List(ctx, owner)
}

func (u *calendarUsecase) dateOrToday(date string) (domain.Date, error) {
	if date == "" {
		return u.clock.Today(), nil
	}
	return parseDate(date)
}

// ToggleCompletion flips the completion state of one item on one date.
//
// Deadline tasks use an inferred window: a single row dated D marks the task
// done from D through its deadline. Toggling a task that is done as of date
// deletes every row of the task; otherwise a row for date is inserted.
func (u *calendarUsecase) ToggleCompletion(ctx context.Context, owner string, itemType domain.ItemType, itemID, date string) (*TogglePatch, error) {
	if !itemType.IsValid() {
		return nil, ErrInvalidItemType
	}
	d, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	deadline, err := u.checkApplicable(ctx, owner, itemType, itemID, d)
	if err != nil {
		return nil, err
	}

	rows, err := u.store.Completions.ListByItem(ctx, owner, itemID, itemType)
	if err != nil {
		return nil, err
	}
	ix := resolver.NewIndex(rows)

	patch := &TogglePatch{
		ItemID:   itemID,
		ItemType: itemType,
		Date:     d,
		Inserted: []domain.Completion{},
		Removed:  []domain.Completion{},
	}

	var remove []domain.Completion
	if itemType == domain.ItemTypeDeadline {
		if ix.IsCompleted(itemID, itemType, deadline, d) {
			remove = rows
		}
	} else {
		for _, r := range rows {
			if r.CompletionDate == d {
				remove = append(remove, r)
			}
		}
	}

	if len(remove) > 0 {
		for _, r := range remove {
			if err := u.store.Completions.Delete(ctx, owner, r.ID); err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
				return nil, err
			}
			emit(u.pub, feed.EventDelete, domain.TableCompletions, owner, r)
			patch.Removed = append(patch.Removed, r)
		}
		patch.Completed = false
	} else {
		stored, err := u.store.Completions.Upsert(ctx, owner, &domain.Completion{
			ItemID:         itemID,
			ItemType:       itemType,
			CompletionDate: d,
		})
		if err != nil {
			return nil, err
		}
		emit(u.pub, feed.EventInsert, domain.TableCompletions, owner, stored)
		patch.Inserted = append(patch.Inserted, *stored)
		patch.Completed = true
	}

	logger.WithFields(logrus.Fields{
		"owner_id":  owner,
		"item_id":   itemID,
		"item_type": itemType,
		"date":      d,
		"completed": patch.Completed,
		"removed":   len(patch.Removed),
	}).Info("完了状態を切り替えました")
	return patch, nil
}

// checkApplicable loads the item and verifies it applies to date.
// For deadline tasks it returns the deadline.
func (u *calendarUsecase) checkApplicable(ctx context.Context, owner string, itemType domain.ItemType, itemID string, d domain.Date) (domain.Date, error) {
	var c resolver.Collections
	var deadline domain.Date

	switch itemType {
	case domain.ItemTypeDaily:
		t, err := u.store.DailyTodos.GetByID(ctx, owner, itemID)
		if err != nil {
			return "", translate(err)
		}
		c.DailyTodos = []domain.DailyTodo{*t}
	case domain.ItemTypeMonthly:
		t, err := u.store.MonthlyTodos.GetByID(ctx, owner, itemID)
		if err != nil {
			return "", translate(err)
		}
		c.MonthlyTodos = []domain.MonthlyTodo{*t}
	case domain.ItemTypeDeadline:
		t, err := u.store.DeadlineTasks.GetByID(ctx, owner, itemID)
		if err != nil {
			return "", translate(err)
		}
		c.DeadlineTasks = []domain.DeadlineTask{*t}
		deadline = t.DeadlineDate
	case domain.ItemTypeSpecific:
		s, err := u.store.SpecificSchedules.GetByID(ctx, owner, itemID)
		if err != nil {
			return "", translate(err)
		}
		c.SpecificSchedules = []domain.SpecificSchedule{*s}
	}

	if !resolver.IsApplicable(d, itemType, itemID, c) {
		return "", ErrNotApplicable
	}
	return deadline, nil
}

package domain

import (
	"context"
	"errors"
)

// ErrRecordNotFound is returned by stores when no owner-scoped row matches
var ErrRecordNotFound = errors.New("record not found")

// Repository defines owner-scoped CRUD over one table
type Repository[T any] interface {
	Create(ctx context.Context, owner string, rec *T) (*T, error)
	GetByID(ctx context.Context, owner, id string) (*T, error)
	List(ctx context.Context, owner string) ([]T, error)
	Update(ctx context.Context, owner string, rec *T) (*T, error)
	Delete(ctx context.Context, owner, id string) error
}

type DailyTodoRepository = Repository[DailyTodo]

type MonthlyTodoRepository = Repository[MonthlyTodo]

type DeadlineTaskRepository = Repository[DeadlineTask]

type TaxRepository = Repository[Tax]

type ApprovalRepository = Repository[Approval]

// SpecificScheduleRepository lists schedules ordered by schedule date
type SpecificScheduleRepository = Repository[SpecificSchedule]

// CompletionRepository defines the interface for completion rows
type CompletionRepository interface {
	List(ctx context.Context, owner string) ([]Completion, error)
	ListByItem(ctx context.Context, owner, itemID string, itemType ItemType) ([]Completion, error)
	// Upsert inserts on the natural key (item_id, item_type, completion_date) and returns the stored row
	Upsert(ctx context.Context, owner string, c *Completion) (*Completion, error)
	Delete(ctx context.Context, owner, id string) error
}

// MemoRepository defines the interface for daily memos
type MemoRepository interface {
	// Upsert inserts or replaces the memo keyed on (owner, memo_date)
	Upsert(ctx context.Context, owner string, memo *Memo) (*Memo, error)
	GetByDate(ctx context.Context, owner string, date Date) (*Memo, error)
	ListRange(ctx context.Context, owner string, from, to Date) ([]Memo, error)
	Delete(ctx context.Context, owner, id string) error
}

// Store bundles every repository of one backend
type Store struct {
	DailyTodos        DailyTodoRepository
	MonthlyTodos      MonthlyTodoRepository
	DeadlineTasks     DeadlineTaskRepository
	SpecificSchedules SpecificScheduleRepository
	Completions       CompletionRepository
	Memos             MemoRepository
	Taxes             TaxRepository
	Approvals         ApprovalRepository
}

package usecase_test

import (
	"context"
	"sync"
	"time"

	"diary-app/src/domain"
	"diary-app/src/feed"
	"diary-app/src/usecase"

	"github.com/stretchr/testify/mock"
)

// MockRepository は domain.Repository[T] のモック実装
type MockRepository[T any] struct {
	mock.Mock
}

func (m *MockRepository[T]) Create(ctx context.Context, owner string, rec *T) (*T, error) {
	args := m.Called(ctx, owner, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRepository[T]) GetByID(ctx context.Context, owner, id string) (*T, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRepository[T]) List(ctx context.Context, owner string) ([]T, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRepository[T]) Update(ctx context.Context, owner string, rec *T) (*T, error) {
	args := m.Called(ctx, owner, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRepository[T]) Delete(ctx context.Context, owner, id string) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

// MockCompletionRepository は domain.CompletionRepository のモック実装
type MockCompletionRepository struct {
	mock.Mock
}

func (m *MockCompletionRepository) List(ctx context.Context, owner string) ([]domain.Completion, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]domain.Completion), args.Error(1)
}

func (m *MockCompletionRepository) ListByItem(ctx context.Context, owner, itemID string, itemType domain.ItemType) ([]domain.Completion, error) {
	args := m.Called(ctx, owner, itemID, itemType)
	return args.Get(0).([]domain.Completion), args.Error(1)
}

func (m *MockCompletionRepository) Upsert(ctx context.Context, owner string, c *domain.Completion) (*domain.Completion, error) {
	args := m.Called(ctx, owner, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Completion), args.Error(1)
}

func (m *MockCompletionRepository) Delete(ctx context.Context, owner, id string) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

// MockMemoRepository は domain.MemoRepository のモック実装
type MockMemoRepository struct {
	mock.Mock
}

func (m *MockMemoRepository) Upsert(ctx context.Context, owner string, memo *domain.Memo) (*domain.Memo, error) {
	args := m.Called(ctx, owner, memo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Memo), args.Error(1)
}

func (m *MockMemoRepository) GetByDate(ctx context.Context, owner string, date domain.Date) (*domain.Memo, error) {
	args := m.Called(ctx, owner, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Memo), args.Error(1)
}

func (m *MockMemoRepository) ListRange(ctx context.Context, owner string, from, to domain.Date) ([]domain.Memo, error) {
	args := m.Called(ctx, owner, from, to)
	return args.Get(0).([]domain.Memo), args.Error(1)
}

func (m *MockMemoRepository) Delete(ctx context.Context, owner, id string) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

// recordingPublisher は発行されたイベントを記録する
type recordingPublisher struct {
	mu     sync.Mutex
	events []feed.Event
}

func (p *recordingPublisher) Publish(e feed.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Events() []feed.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]feed.Event(nil), p.events...)
}

type mockStore struct {
	daily       *MockRepository[domain.DailyTodo]
	monthly     *MockRepository[domain.MonthlyTodo]
	deadline    *MockRepository[domain.DeadlineTask]
	schedules   *MockRepository[domain.SpecificSchedule]
	completions *MockCompletionRepository
	memos       *MockMemoRepository
	taxes       *MockRepository[domain.Tax]
	approvals   *MockRepository[domain.Approval]
}

func newMockStore() (*mockStore, *domain.Store) {
	m := &mockStore{
		daily:       &MockRepository[domain.DailyTodo]{},
		monthly:     &MockRepository[domain.MonthlyTodo]{},
		deadline:    &MockRepository[domain.DeadlineTask]{},
		schedules:   &MockRepository[domain.SpecificSchedule]{},
		completions: &MockCompletionRepository{},
		memos:       &MockMemoRepository{},
		taxes:       &MockRepository[domain.Tax]{},
		approvals:   &MockRepository[domain.Approval]{},
	}
	return m, &domain.Store{
		DailyTodos:        m.daily,
		MonthlyTodos:      m.monthly,
		DeadlineTasks:     m.deadline,
		SpecificSchedules: m.schedules,
		Completions:       m.completions,
		Memos:             m.memos,
		Taxes:             m.taxes,
		Approvals:         m.approvals,
	}
}

// 2024-03-15 12:00 UTC 固定の時計
func testClock() usecase.Clock {
	return usecase.FixedClock(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), time.UTC)
}

package handler_test

import (
	"context"

	"diary-app/src/domain"
	"diary-app/src/resolver"
	"diary-app/src/usecase"
	"diary-app/src/weather"

	"github.com/stretchr/testify/mock"
)

// ret returns the first mocked value as *T, nil when unset
func ret[T any](args mock.Arguments) *T {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*T)
}

func list[T any](args mock.Arguments) []T {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]T)
}

// MockTodoUsecase は TodoUsecase のモック実装
type MockTodoUsecase struct {
	mock.Mock
}

func (m *MockTodoUsecase) ListDailyTodos(ctx context.Context, owner string) ([]domain.DailyTodo, error) {
	args := m.Called(ctx, owner)
	return list[domain.DailyTodo](args), args.Error(1)
}

func (m *MockTodoUsecase) CreateDailyTodo(ctx context.Context, owner, text string) (*domain.DailyTodo, error) {
	args := m.Called(ctx, owner, text)
	return ret[domain.DailyTodo](args), args.Error(1)
}

func (m *MockTodoUsecase) UpdateDailyTodo(ctx context.Context, owner, id string, req usecase.UpdateDailyTodoRequest) (*domain.DailyTodo, error) {
	args := m.Called(ctx, owner, id, req)
	return ret[domain.DailyTodo](args), args.Error(1)
}

func (m *MockTodoUsecase) DeleteDailyTodo(ctx context.Context, owner, id string) error {
	return m.Called(ctx, owner, id).Error(0)
}

func (m *MockTodoUsecase) ListMonthlyTodos(ctx context.Context, owner string) ([]domain.MonthlyTodo, error) {
	args := m.Called(ctx, owner)
	return list[domain.MonthlyTodo](args), args.Error(1)
}

func (m *MockTodoUsecase) CreateMonthlyTodo(ctx context.Context, owner, text string, repeatDate int) (*domain.MonthlyTodo, error) {
	args := m.Called(ctx, owner, text, repeatDate)
	return ret[domain.MonthlyTodo](args), args.Error(1)
}

func (m *MockTodoUsecase) UpdateMonthlyTodo(ctx context.Context, owner, id string, req usecase.UpdateMonthlyTodoRequest) (*domain.MonthlyTodo, error) {
	args := m.Called(ctx, owner, id, req)
	return ret[domain.MonthlyTodo](args), args.Error(1)
}

func (m *MockTodoUsecase) DeleteMonthlyTodo(ctx context.Context, owner, id string) error {
	return m.Called(ctx, owner, id).Error(0)
}

func (m *MockTodoUsecase) ListDeadlineTasks(ctx context.Context, owner string) ([]domain.DeadlineTask, error) {
	args := m.Called(ctx, owner)
	return list[domain.DeadlineTask](args), args.Error(1)
}

func (m *MockTodoUsecase) CreateDeadlineTask(ctx context.Context, owner string, req usecase.CreateDeadlineTaskRequest) (*domain.DeadlineTask, error) {
	args := m.Called(ctx, owner, req)
	return ret[domain.DeadlineTask](args), args.Error(1)
}

func (m *MockTodoUsecase) UpdateDeadlineTask(ctx context.Context, owner, id string, req usecase.UpdateDeadlineTaskRequest) (*domain.DeadlineTask, error) {
	args := m.Called(ctx, owner, id, req)
	return ret[domain.DeadlineTask](args), args.Error(1)
}

func (m *MockTodoUsecase) DeleteDeadlineTask(ctx context.Context, owner, id string) error {
	return m.Called(ctx, owner, id).Error(0)
}

func (m *MockTodoUsecase) ListSchedules(ctx context.Context, owner string) ([]domain.SpecificSchedule, error) {
	args := m.Called(ctx, owner)
	return list[domain.SpecificSchedule](args), args.Error(1)
}

func (m *MockTodoUsecase) CreateSchedule(ctx context.Context, owner, text, date string) (*domain.SpecificSchedule, error) {
	args := m.Called(ctx, owner, text, date)
	return ret[domain.SpecificSchedule](args), args.Error(1)
}

func (m *MockTodoUsecase) UpdateSchedule(ctx context.Context, owner, id string, req usecase.UpdateScheduleRequest) (*domain.SpecificSchedule, error) {
	args := m.Called(ctx, owner, id, req)
	return ret[domain.SpecificSchedule](args), args.Error(1)
}

func (m *MockTodoUsecase) DeleteSchedule(ctx context.Context, owner, id string) error {
	return m.Called(ctx, owner, id).Error(0)
}

// MockCalendarUsecase は CalendarUsecase のモック実装
type MockCalendarUsecase struct {
	mock.Mock
}

func (m *MockCalendarUsecase) Collections(ctx context.Context, owner string) (resolver.Collections, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(resolver.Collections), args.Error(1)
}

func (m *MockCalendarUsecase) Day(ctx context.Context, owner, date string) (*resolver.Day, error) {
	args := m.Called(ctx, owner, date)
	return ret[resolver.Day](args), args.Error(1)
}

func (m *MockCalendarUsecase) Month(ctx context.Context, owner string, year, month int) ([]resolver.DayCell, error) {
	args := m.Called(ctx, owner, year, month)
	return list[resolver.DayCell](args), args.Error(1)
}

func (m *MockCalendarUsecase) PendingDeadlines(ctx context.Context, owner, date string) ([]resolver.Item, error) {
	args := m.Called(ctx, owner, date)
	return list[resolver.Item](args), args.Error(1)
}

func (m *MockCalendarUsecase) ListCompletions(ctx context.Context, owner string) ([]domain.Completion, error) {
	args := m.Called(ctx, owner)
	return list[domain.Completion](args), args.Error(1)
}

func (m *MockCalendarUsecase) ToggleCompletion(ctx context.Context, owner string, itemType domain.ItemType, itemID, date string) (*usecase.TogglePatch, error) {
	args := m.Called(ctx, owner, itemType, itemID, date)
	return ret[usecase.TogglePatch](args), args.Error(1)
}

// MockMemoUsecase は MemoUsecase のモック実装
type MockMemoUsecase struct {
	mock.Mock
}

func (m *MockMemoUsecase) SaveMemo(ctx context.Context, owner, date, content string) (*domain.Memo, error) {
	args := m.Called(ctx, owner, date, content)
	return ret[domain.Memo](args), args.Error(1)
}

func (m *MockMemoUsecase) GetMemo(ctx context.Context, owner, date string) (*domain.Memo, error) {
	args := m.Called(ctx, owner, date)
	return ret[domain.Memo](args), args.Error(1)
}

func (m *MockMemoUsecase) ListMemos(ctx context.Context, owner string, year, month int) ([]domain.Memo, error) {
	args := m.Called(ctx, owner, year, month)
	return list[domain.Memo](args), args.Error(1)
}

func (m *MockMemoUsecase) DeleteMemo(ctx context.Context, owner, date string) error {
	return m.Called(ctx, owner, date).Error(0)
}

// MockLedgerUsecase は LedgerUsecase のモック実装
type MockLedgerUsecase struct {
	mock.Mock
}

func (m *MockLedgerUsecase) ListTaxes(ctx context.Context, owner string, year int) ([]domain.Tax, error) {
	args := m.Called(ctx, owner, year)
	return list[domain.Tax](args), args.Error(1)
}

func (m *MockLedgerUsecase) CreateTax(ctx context.Context, owner string, in usecase.TaxInput) (*domain.Tax, error) {
	args := m.Called(ctx, owner, in)
	return ret[domain.Tax](args), args.Error(1)
}

func (m *MockLedgerUsecase) UpdateTax(ctx context.Context, owner, id string, in usecase.TaxInput) (*domain.Tax, error) {
	args := m.Called(ctx, owner, id, in)
	return ret[domain.Tax](args), args.Error(1)
}

func (m *MockLedgerUsecase) DeleteTax(ctx context.Context, owner, id string) error {
	return m.Called(ctx, owner, id).Error(0)
}

func (m *MockLedgerUsecase) TogglePaid(ctx context.Context, owner, id string) (*domain.Tax, error) {
	args := m.Called(ctx, owner, id)
	return ret[domain.Tax](args), args.Error(1)
}

func (m *MockLedgerUsecase) ListApprovals(ctx context.Context, owner string, year int) ([]domain.Approval, error) {
	args := m.Called(ctx, owner, year)
	return list[domain.Approval](args), args.Error(1)
}

func (m *MockLedgerUsecase) CreateApproval(ctx context.Context, owner string, in usecase.ApprovalInput) (*domain.Approval, error) {
	args := m.Called(ctx, owner, in)
	return ret[domain.Approval](args), args.Error(1)
}

func (m *MockLedgerUsecase) UpdateApproval(ctx context.Context, owner, id string, in usecase.ApprovalInput) (*domain.Approval, error) {
	args := m.Called(ctx, owner, id, in)
	return ret[domain.Approval](args), args.Error(1)
}

func (m *MockLedgerUsecase) DeleteApproval(ctx context.Context, owner, id string) error {
	return m.Called(ctx, owner, id).Error(0)
}

func (m *MockLedgerUsecase) ToggleInvoice(ctx context.Context, owner, id string) (*domain.Approval, error) {
	args := m.Called(ctx, owner, id)
	return ret[domain.Approval](args), args.Error(1)
}

// MockReportUsecase は ReportUsecase のモック実装
type MockReportUsecase struct {
	mock.Mock
}

func (m *MockReportUsecase) Generate(ctx context.Context, owner string, kind usecase.ReportKind, year int) (*usecase.ReportFile, error) {
	args := m.Called(ctx, owner, kind, year)
	return ret[usecase.ReportFile](args), args.Error(1)
}

// MockWeatherProvider は WeatherProvider のモック実装
type MockWeatherProvider struct {
	mock.Mock
}

func (m *MockWeatherProvider) Current(ctx context.Context, lat, lon float64) (*weather.Conditions, error) {
	args := m.Called(ctx, lat, lon)
	return ret[weather.Conditions](args), args.Error(1)
}

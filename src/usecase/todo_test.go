package usecase_test

import (
	"context"
	"strings"
	"testing"

	"diary-app/src/domain"
	"diary-app/src/feed"
	"diary-app/src/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTodoUsecase_CreateDailyTodo(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		text          string
		expectedError error
	}{
		{name: "正常作成", text: "  日記を書く  "},
		{name: "空文字", text: "   ", expectedError: usecase.ErrInvalidText},
		{name: "長すぎる", text: strings.Repeat("あ", 501), expectedError: usecase.ErrInvalidText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store := newMockStore()
			pub := &recordingPublisher{}
			uc := usecase.NewTodoUsecase(store, pub, testClock())

			if tt.expectedError == nil {
				m.daily.On("Create", ctx, owner, mock.MatchedBy(func(d *domain.DailyTodo) bool {
					return d.Text == "日記を書く" && d.IsActive
				})).Return(&domain.DailyTodo{ID: "d1", UserID: owner, Text: "日記を書く", IsActive: true}, nil)
			}

			todo, err := uc.CreateDailyTodo(ctx, owner, tt.text)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, pub.Events())
				m.daily.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "d1", todo.ID)
			require.Len(t, pub.Events(), 1)
			assert.Equal(t, feed.EventInsert, pub.Events()[0].Type)
		})
	}
}

func TestTodoUsecase_MonthlyRepeatDate(t *testing.T) {
	ctx := context.Background()
	m, store := newMockStore()
	uc := usecase.NewTodoUsecase(store, feed.NopPublisher{}, testClock())

	for _, d := range []int{0, 32, -1} {
		_, err := uc.CreateMonthlyTodo(ctx, owner, "家賃", d)
		assert.ErrorIs(t, err, usecase.ErrInvalidRepeatDate)
	}

	m.monthly.On("Create", ctx, owner, mock.Anything).Return(&domain.MonthlyTodo{ID: "m1", RepeatDate: 31}, nil)
	created, err := uc.CreateMonthlyTodo(ctx, owner, "月末処理", 31)
	require.NoError(t, err)
	assert.Equal(t, 31, created.RepeatDate)
}

func TestTodoUsecase_CreateDeadlineTask(t *testing.T) {
	ctx := context.Background()

	t.Run("作成日省略時は今日", func(t *testing.T) {
		m, store := newMockStore()
		uc := usecase.NewTodoUsecase(store, feed.NopPublisher{}, testClock())
		m.deadline.On("Create", ctx, owner, mock.MatchedBy(func(d *domain.DeadlineTask) bool {
			return d.CreatedDate == "2024-03-15" && d.DeadlineDate == "2024-03-31"
		})).Return(&domain.DeadlineTask{ID: "t1"}, nil)

		_, err := uc.CreateDeadlineTask(ctx, owner, usecase.CreateDeadlineTaskRequest{Text: "確定申告", DeadlineDate: "2024-03-31"})
		require.NoError(t, err)
		m.deadline.AssertExpectations(t)
	})

	t.Run("期限が作成日より前", func(t *testing.T) {
		_, store := newMockStore()
		uc := usecase.NewTodoUsecase(store, feed.NopPublisher{}, testClock())
		_, err := uc.CreateDeadlineTask(ctx, owner, usecase.CreateDeadlineTaskRequest{
			Text: "確定申告", CreatedDate: "2024-03-10", DeadlineDate: "2024-03-01",
		})
		assert.ErrorIs(t, err, usecase.ErrInvalidDateRange)
	})

	t.Run("不正な期限", func(t *testing.T) {
		_, store := newMockStore()
		uc := usecase.NewTodoUsecase(store, feed.NopPublisher{}, testClock())
		_, err := uc.CreateDeadlineTask(ctx, owner, usecase.CreateDeadlineTaskRequest{Text: "x", DeadlineDate: "03/31/2024"})
		assert.ErrorIs(t, err, usecase.ErrInvalidDate)
	})
}

func TestTodoUsecase_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("部分更新", func(t *testing.T) {
		m, store := newMockStore()
		pub := &recordingPublisher{}
		uc := usecase.NewTodoUsecase(store, pub, testClock())

		m.daily.On("GetByID", ctx, owner, "d1").Return(&domain.DailyTodo{ID: "d1", Text: "旧", IsActive: true}, nil)
		m.daily.On("Update", ctx, owner, mock.MatchedBy(func(d *domain.DailyTodo) bool {
			return d.Text == "旧" && !d.IsActive
		})).Return(&domain.DailyTodo{ID: "d1", Text: "旧", IsActive: false}, nil)

		inactive := false
		updated, err := uc.UpdateDailyTodo(ctx, owner, "d1", usecase.UpdateDailyTodoRequest{IsActive: &inactive})
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
		assert.Equal(t, feed.EventUpdate, pub.Events()[0].Type)
	})

	t.Run("存在しない予定の削除", func(t *testing.T) {
		m, store := newMockStore()
		uc := usecase.NewTodoUsecase(store, feed.NopPublisher{}, testClock())
		m.schedules.On("GetByID", ctx, owner, "s1").Return(nil, domain.ErrRecordNotFound)

		err := uc.DeleteSchedule(ctx, owner, "s1")
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})

	t.Run("削除は削除前の行を通知", func(t *testing.T) {
		m, store := newMockStore()
		pub := &recordingPublisher{}
		uc := usecase.NewTodoUsecase(store, pub, testClock())

		m.schedules.On("GetByID", ctx, owner, "s1").Return(&domain.SpecificSchedule{ID: "s1", UserID: owner, ScheduleDate: "2024-04-01"}, nil)
		m.schedules.On("Delete", ctx, owner, "s1").Return(nil)

		require.NoError(t, uc.DeleteSchedule(ctx, owner, "s1"))
		events := pub.Events()
		require.Len(t, events, 1)
		assert.Equal(t, feed.EventDelete, events[0].Type)

		var removed domain.SpecificSchedule
		require.NoError(t, events[0].Decode(&removed))
		assert.Equal(t, "s1", removed.ID)
	})
}

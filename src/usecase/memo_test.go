package usecase_test

import (
	"context"
	"testing"

	"diary-app/src/domain"
	"diary-app/src/feed"
	"diary-app/src/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMemoUsecase_SaveMemo(t *testing.T) {
	ctx := context.Background()

	t.Run("新規は insert イベント", func(t *testing.T) {
		repo := &MockMemoRepository{}
		pub := &recordingPublisher{}
		uc := usecase.NewMemoUsecase(repo, pub)

		repo.On("GetByDate", ctx, owner, domain.Date("2024-03-15")).Return(nil, domain.ErrRecordNotFound)
		repo.On("Upsert", ctx, owner, mock.MatchedBy(func(m *domain.Memo) bool {
			return m.MemoDate == "2024-03-15" && m.Content == "晴れ"
		})).Return(&domain.Memo{ID: "memo-1", MemoDate: "2024-03-15", Content: "晴れ"}, nil)

		saved, err := uc.SaveMemo(ctx, owner, "2024-03-15", "晴れ")
		require.NoError(t, err)
		assert.Equal(t, "memo-1", saved.ID)
		assert.Equal(t, feed.EventInsert, pub.Events()[0].Type)
	})

	t.Run("既存は update イベント", func(t *testing.T) {
		repo := &MockMemoRepository{}
		pub := &recordingPublisher{}
		uc := usecase.NewMemoUsecase(repo, pub)

		repo.On("GetByDate", ctx, owner, domain.Date("2024-03-15")).Return(&domain.Memo{ID: "memo-1"}, nil)
		repo.On("Upsert", ctx, owner, mock.Anything).Return(&domain.Memo{ID: "memo-1", Content: "雨"}, nil)

		_, err := uc.SaveMemo(ctx, owner, "2024-03-15", "雨")
		require.NoError(t, err)
		assert.Equal(t, feed.EventUpdate, pub.Events()[0].Type)
	})

	t.Run("不正な日付", func(t *testing.T) {
		uc := usecase.NewMemoUsecase(&MockMemoRepository{}, feed.NopPublisher{})
		_, err := uc.SaveMemo(ctx, owner, "2024-3-15", "x")
		assert.ErrorIs(t, err, usecase.ErrInvalidDate)
	})
}

func TestMemoUsecase_ListAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("月の範囲で一覧", func(t *testing.T) {
		repo := &MockMemoRepository{}
		uc := usecase.NewMemoUsecase(repo, feed.NopPublisher{})
		repo.On("ListRange", ctx, owner, domain.Date("2024-02-01"), domain.Date("2024-02-29")).Return([]domain.Memo{}, nil)

		_, err := uc.ListMemos(ctx, owner, 2024, 2)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("存在しないメモの削除", func(t *testing.T) {
		repo := &MockMemoRepository{}
		uc := usecase.NewMemoUsecase(repo, feed.NopPublisher{})
		repo.On("GetByDate", ctx, owner, domain.Date("2024-02-01")).Return(nil, domain.ErrRecordNotFound)

		err := uc.DeleteMemo(ctx, owner, "2024-02-01")
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})

	t.Run("日付で削除", func(t *testing.T) {
		repo := &MockMemoRepository{}
		pub := &recordingPublisher{}
		uc := usecase.NewMemoUsecase(repo, pub)
		repo.On("GetByDate", ctx, owner, domain.Date("2024-02-01")).Return(&domain.Memo{ID: "memo-9"}, nil)
		repo.On("Delete", ctx, owner, "memo-9").Return(nil)

		require.NoError(t, uc.DeleteMemo(ctx, owner, "2024-02-01"))
		assert.Equal(t, feed.EventDelete, pub.Events()[0].Type)
	})
}

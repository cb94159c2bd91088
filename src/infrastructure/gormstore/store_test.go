package gormstore_test

import (
	"context"
	"io"
	"testing"

	"diary-app/src/domain"
	"diary-app/src/infrastructure/gormstore"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *domain.Store {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := gormstore.NewDB("file::memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gormstore.NewStore(db, logger)
}

func TestTableCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("作成と取得", func(t *testing.T) {
		created, err := store.DailyTodos.Create(ctx, "owner-1", &domain.DailyTodo{Text: "水を飲む", IsActive: true})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "owner-1", created.UserID)
		assert.False(t, created.CreatedAt.IsZero())

		got, err := store.DailyTodos.GetByID(ctx, "owner-1", created.ID)
		require.NoError(t, err)
		assert.Equal(t, "水を飲む", got.Text)
	})

	t.Run("他のオーナーからは見えない", func(t *testing.T) {
		created, err := store.MonthlyTodos.Create(ctx, "owner-1", &domain.MonthlyTodo{Text: "家賃", RepeatDate: 25})
		require.NoError(t, err)

		_, err = store.MonthlyTodos.GetByID(ctx, "owner-2", created.ID)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)

		list, err := store.MonthlyTodos.List(ctx, "owner-2")
		require.NoError(t, err)
		assert.Empty(t, list)

		assert.ErrorIs(t, store.MonthlyTodos.Delete(ctx, "owner-2", created.ID), domain.ErrRecordNotFound)
	})

	t.Run("更新", func(t *testing.T) {
		created, err := store.DeadlineTasks.Create(ctx, "owner-1", &domain.DeadlineTask{
			Text: "申告書", CreatedDate: "2024-03-01", DeadlineDate: "2024-03-10",
		})
		require.NoError(t, err)

		created.Text = "申告書を提出"
		created.DeadlineDate = "2024-03-15"
		updated, err := store.DeadlineTasks.Update(ctx, "owner-1", created)
		require.NoError(t, err)
		assert.Equal(t, "申告書を提出", updated.Text)
		assert.Equal(t, domain.Date("2024-03-15"), updated.DeadlineDate)
		assert.Equal(t, created.UserID, updated.UserID)

		_, err = store.DeadlineTasks.Update(ctx, "owner-2", created)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("予定は日付順", func(t *testing.T) {
		for _, d := range []domain.Date{"2024-05-03", "2024-05-01", "2024-05-02"} {
			_, err := store.SpecificSchedules.Create(ctx, "owner-3", &domain.SpecificSchedule{Text: "予定", ScheduleDate: d})
			require.NoError(t, err)
		}
		list, err := store.SpecificSchedules.List(ctx, "owner-3")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, domain.Date("2024-05-01"), list[0].ScheduleDate)
		assert.Equal(t, domain.Date("2024-05-03"), list[2].ScheduleDate)
	})

	t.Run("削除", func(t *testing.T) {
		created, err := store.DailyTodos.Create(ctx, "owner-1", &domain.DailyTodo{Text: "消す"})
		require.NoError(t, err)
		require.NoError(t, store.DailyTodos.Delete(ctx, "owner-1", created.ID))

		_, err = store.DailyTodos.GetByID(ctx, "owner-1", created.ID)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}

func TestTaxNullableDates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	due := domain.Date("2024-05-31")
	withDue, err := store.Taxes.Create(ctx, "owner-1", &domain.Tax{TaxType: "所得税", TaxAmount: 120000, DueDate: &due})
	require.NoError(t, err)
	_, err = store.Taxes.Create(ctx, "owner-1", &domain.Tax{TaxType: "住民税", TaxAmount: 50000})
	require.NoError(t, err)

	list, err := store.Taxes.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, withDue.ID, list[0].ID)
	require.NotNil(t, list[0].DueDate)
	assert.Equal(t, due, *list[0].DueDate)
	assert.Nil(t, list[1].DueDate)
	assert.Nil(t, list[1].PaidDate)
}

func TestCompletionUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := &domain.Completion{ItemID: "todo-1", ItemType: domain.ItemTypeDaily, CompletionDate: "2024-01-15"}

	first, err := store.Completions.Upsert(ctx, "owner-1", c)
	require.NoError(t, err)
	second, err := store.Completions.Upsert(ctx, "owner-1", c)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	rows, err := store.Completions.ListByItem(ctx, "owner-1", "todo-1", domain.ItemTypeDaily)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	// 別の日付は別の行
	_, err = store.Completions.Upsert(ctx, "owner-1", &domain.Completion{
		ItemID: "todo-1", ItemType: domain.ItemTypeDaily, CompletionDate: "2024-01-16",
	})
	require.NoError(t, err)

	all, err := store.Completions.List(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, store.Completions.Delete(ctx, "owner-1", first.ID))
	assert.ErrorIs(t, store.Completions.Delete(ctx, "owner-1", first.ID), domain.ErrRecordNotFound)
}

func TestMemoUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Memos.Upsert(ctx, "owner-1", &domain.Memo{MemoDate: "2024-02-01", Content: "初稿"})
	require.NoError(t, err)
	saved, err := store.Memos.Upsert(ctx, "owner-1", &domain.Memo{MemoDate: "2024-02-01", Content: "改稿"})
	require.NoError(t, err)
	assert.Equal(t, "改稿", saved.Content)

	list, err := store.Memos.ListRange(ctx, "owner-1", "2024-02-01", "2024-02-29")
	require.NoError(t, err)
	require.Len(t, list, 1, "同じ日付のメモは1行だけ")
	assert.Equal(t, "改稿", list[0].Content)

	// 他のオーナーの同じ日付は別の行
	_, err = store.Memos.Upsert(ctx, "owner-2", &domain.Memo{MemoDate: "2024-02-01", Content: "別人"})
	require.NoError(t, err)
	got, err := store.Memos.GetByDate(ctx, "owner-1", "2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, "改稿", got.Content)

	require.NoError(t, store.Memos.Delete(ctx, "owner-1", got.ID))
	_, err = store.Memos.GetByDate(ctx, "owner-1", "2024-02-01")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestStoreLogsFailures(t *testing.T) {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	db, err := gormstore.NewDB("file::memory:", quiet)
	require.NoError(t, err)

	logger, hook := test.NewNullLogger()
	store := gormstore.NewStore(db, logger)
	ctx := context.Background()

	t.Run("見つからないだけならログに出さない", func(t *testing.T) {
		_, err := store.DailyTodos.GetByID(ctx, "owner-1", "missing")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
		_, err = store.Memos.GetByDate(ctx, "owner-1", "2024-02-01")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
		assert.Empty(t, hook.AllEntries())
	})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	t.Run("失敗はテーブル名付きでエラーログに出す", func(t *testing.T) {
		hook.Reset()
		_, err := store.DailyTodos.Create(ctx, "owner-1", &domain.DailyTodo{Text: "水を飲む", IsActive: true})
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrRecordNotFound)

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.ErrorLevel, entry.Level)
		assert.Equal(t, domain.TableDailyTodos, entry.Data["table"])
		assert.Equal(t, "create", entry.Data["op"])
	})

	t.Run("完了記録とメモも同様", func(t *testing.T) {
		hook.Reset()
		_, err := store.Completions.List(ctx, "owner-1")
		require.Error(t, err)
		_, err = store.Memos.ListRange(ctx, "owner-1", "2024-02-01", "2024-02-29")
		require.Error(t, err)

		entries := hook.AllEntries()
		require.Len(t, entries, 2)
		assert.Equal(t, domain.TableCompletions, entries[0].Data["table"])
		assert.Equal(t, domain.TableDailyMemos, entries[1].Data["table"])
	})
}

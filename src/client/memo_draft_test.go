package client_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"diary-app/src/client"
	"diary-app/src/domain"
	"diary-app/src/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoDraft_SavesAfterTypingPauses(t *testing.T) {
	srv := startServer(t)
	ctx := context.Background()
	api := client.New(srv.url, srv.token, 5*time.Second, quietLogger())
	date := domain.NewDate(2024, time.March, 15)

	var saves atomic.Int32
	draft := client.NewMemoDraft(ctx, api, date, 100*time.Millisecond, func(_ *domain.Memo, err error) {
		if err == nil {
			saves.Add(1)
		}
	})
	defer draft.Close()
	require.NoError(t, draft.Load(ctx), "メモがない日は空で開く")
	assert.Empty(t, draft.Content())

	draft.Edit("今")
	draft.Edit("今日は")
	draft.Edit("今日は晴れ")
	assert.True(t, draft.Dirty())

	assert.Eventually(t, func() bool { return saves.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	assert.False(t, draft.Dirty())
	require.NoError(t, draft.Err())
	require.NotNil(t, draft.Saved())
	assert.Equal(t, "今日は晴れ", draft.Saved().Content)

	stored, err := srv.memos.GetMemo(ctx, owner, date.String())
	require.NoError(t, err)
	assert.Equal(t, "今日は晴れ", stored.Content)

	t.Run("再度開くと保存済みの内容", func(t *testing.T) {
		reopened := client.NewMemoDraft(ctx, api, date, time.Hour, nil)
		defer reopened.Close()
		require.NoError(t, reopened.Load(ctx))
		assert.Equal(t, "今日は晴れ", reopened.Content())
	})
}

func TestMemoDraft_CloseDiscardsPendingEdit(t *testing.T) {
	srv := startServer(t)
	ctx := context.Background()
	api := client.New(srv.url, srv.token, 5*time.Second, quietLogger())
	date := domain.NewDate(2024, time.April, 1)

	draft := client.NewMemoDraft(ctx, api, date, 50*time.Millisecond, nil)
	draft.Edit("保存されない")
	draft.Close()

	time.Sleep(200 * time.Millisecond)
	_, err := srv.memos.GetMemo(ctx, owner, date.String())
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestMemoDraft_Flush(t *testing.T) {
	srv := startServer(t)
	ctx := context.Background()
	api := client.New(srv.url, srv.token, 5*time.Second, quietLogger())
	date := domain.NewDate(2024, time.April, 2)

	draft := client.NewMemoDraft(ctx, api, date, time.Hour, nil)
	defer draft.Close()

	assert.False(t, draft.Flush())
	draft.Edit("すぐ保存")
	assert.True(t, draft.Flush())
	require.NoError(t, draft.Err())

	stored, err := srv.memos.GetMemo(ctx, owner, date.String())
	require.NoError(t, err)
	assert.Equal(t, "すぐ保存", stored.Content)
}

package client_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"diary-app/src/client"
	"diary-app/src/config"
	"diary-app/src/domain"
	"diary-app/src/feed"
	"diary-app/src/infrastructure/gormstore"
	"diary-app/src/interface/handler"
	"diary-app/src/middleware"
	"diary-app/src/routes"
	"diary-app/src/service"
	"diary-app/src/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "owner-1"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// testServer is the whole API on an SQLite file
type testServer struct {
	url   string
	token string
	todos usecase.TodoUsecase
	memos usecase.MemoUsecase
}

func startServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := quietLogger()

	db, err := gormstore.NewDB(filepath.Join(t.TempDir(), "diary.db"), log)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	store := gormstore.NewStore(db, log)
	broker := feed.NewBroker(16, log)
	clock := usecase.NewClock(time.UTC)
	todos := usecase.NewTodoUsecase(store, broker, clock)
	memos := usecase.NewMemoUsecase(store.Memos, broker)

	tokens := service.NewTokenService(config.AuthConfig{JWTSecret: "test-secret", JWTExpiresIn: time.Hour})
	token, err := tokens.GenerateToken(owner)
	require.NoError(t, err)

	r := gin.New()
	routes.SetupRoutes(r, routes.Handlers{
		Health:   handler.NewHealthHandler("sqlite", nil, log),
		Todo:     handler.NewTodoHandler(todos, nil, log),
		Calendar: handler.NewCalendarHandler(usecase.NewCalendarUsecase(store, broker, clock), nil, log),
		Memo:     handler.NewMemoHandler(memos, nil, log),
		Ledger:   handler.NewLedgerHandler(nil, nil, log),
		Report:   handler.NewReportHandler(nil, nil, log),
		Weather:  handler.NewWeatherHandler(nil, 0, 0, nil, log),
		Feed:     handler.NewFeedHandler(broker, time.Hour, log),
	}, middleware.OwnerMiddleware(tokens))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{url: srv.URL, token: token, todos: todos, memos: memos}
}

func TestClient_ToggleRoundTrip(t *testing.T) {
	srv := startServer(t)
	ctx := context.Background()
	api := client.New(srv.url, srv.token, 5*time.Second, quietLogger())

	todo, err := srv.todos.CreateDailyTodo(ctx, owner, "水を飲む")
	require.NoError(t, err)

	todos, err := api.ListDailyTodos(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, todo.ID, todos[0].ID)

	date := domain.NewDate(2024, time.March, 15)
	patch, err := api.ToggleCompletion(ctx, domain.ItemTypeDaily, todo.ID, date)
	require.NoError(t, err)
	assert.True(t, patch.Completed)
	require.Len(t, patch.Inserted, 1)

	completions, err := api.ListCompletions(ctx)
	require.NoError(t, err)
	assert.Len(t, completions, 1)

	patch, err = api.ToggleCompletion(ctx, domain.ItemTypeDaily, todo.ID, date)
	require.NoError(t, err)
	assert.False(t, patch.Completed)
	assert.Len(t, patch.Removed, 1)

	completions, err = api.ListCompletions(ctx)
	require.NoError(t, err)
	assert.Empty(t, completions)
}

func TestClient_Errors(t *testing.T) {
	srv := startServer(t)
	ctx := context.Background()

	t.Run("メモがない日は404", func(t *testing.T) {
		api := client.New(srv.url, srv.token, 5*time.Second, quietLogger())
		_, err := api.GetMemo(ctx, domain.NewDate(2024, time.January, 1))
		require.Error(t, err)
		assert.True(t, client.IsNotFound(err))
	})

	t.Run("不正なトークンは401", func(t *testing.T) {
		api := client.New(srv.url, "invalid", 5*time.Second, quietLogger())
		_, err := api.ListDailyTodos(ctx)
		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.False(t, client.IsNotFound(err))

		_, err = api.Subscribe(ctx, domain.TableDailyTodos)
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	})
}

func TestClient_Subscribe(t *testing.T) {
	srv := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	api := client.New(srv.url, srv.token, 5*time.Second, quietLogger())

	stream, err := api.Subscribe(ctx, domain.TableDailyTodos)
	require.NoError(t, err)
	defer stream.Close()

	// Subscribe が返った時点で購読済みなので、この作成は必ず届く
	todo, err := srv.todos.CreateDailyTodo(ctx, owner, "散歩")
	require.NoError(t, err)

	select {
	case ev := <-stream.C:
		assert.Equal(t, feed.EventInsert, ev.Type)
		assert.Equal(t, domain.TableDailyTodos, ev.Table)
		var got domain.DailyTodo
		require.NoError(t, ev.Decode(&got))
		assert.Equal(t, todo.ID, got.ID)
	case <-ctx.Done():
		t.Fatal("変更イベントが届かない")
	}
}

func TestStream_ParsesServerSentEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, ": comment\n\n")
		io.WriteString(w, "event: ping\ndata: {}\n\n")
		io.WriteString(w, "event:ready\ndata:{\"table\":\"daily_todos\"}\n\n")
		io.WriteString(w, "event:insert\ndata:{\"type\":\"insert\",\"table\":\"daily_todos\",\"owner_id\":\"owner-1\",\"record\":{\"id\":\"t1\"}}\n\n")
		io.WriteString(w, "event:insert\ndata:not json\n\n")
		io.WriteString(w, "event:reset\ndata:{}\n\n")
	}))
	defer srv.Close()

	api := client.New(srv.URL, "", time.Second, quietLogger())
	stream, err := api.Subscribe(context.Background(), domain.TableDailyTodos)
	require.NoError(t, err)

	var events []feed.Event
	for ev := range stream.C {
		events = append(events, ev)
	}
	require.Len(t, events, 1, "壊れたイベントは読み飛ばす")
	assert.Equal(t, feed.EventInsert, events[0].Type)
	assert.ErrorIs(t, stream.Err(), client.ErrStreamReset)
}

func TestStream_RequiresReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "event:insert\ndata:{}\n\n")
	}))
	defer srv.Close()

	api := client.New(srv.URL, "", time.Second, quietLogger())
	_, err := api.Subscribe(context.Background(), domain.TableDailyTodos)
	assert.Error(t, err)
}

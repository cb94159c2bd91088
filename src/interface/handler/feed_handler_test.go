package handler_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"diary-app/src/domain"
	"diary-app/src/feed"
	"diary-app/src/interface/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sseEvent struct {
	name string
	data string
}

// readEvent reads one "event:/data:" block
func readEvent(t *testing.T, r *bufio.Reader) sseEvent {
	t.Helper()
	var ev sseEvent
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if ev.name != "" || ev.data != "" {
				return ev
			}
		case strings.HasPrefix(line, "event:"):
			ev.name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			ev.data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
}

func TestFeedHandler_Stream(t *testing.T) {
	broker := feed.NewBroker(4, quietLogger())
	h := handler.NewFeedHandler(broker, time.Hour, quietLogger())
	srv := httptest.NewServer(newRouter(func(api *gin.RouterGroup) {
		api.GET("/feed/:table", h.Stream)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/feed/"+domain.TableDailyTodos, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	r := bufio.NewReader(resp.Body)
	ready := readEvent(t, r)
	assert.Equal(t, handler.EventReady, ready.name)

	// 別の所有者の変更は届かない
	other, err := feed.NewEvent(feed.EventInsert, domain.TableDailyTodos, "someone-else", domain.DailyTodo{ID: "x"})
	require.NoError(t, err)
	broker.Publish(other)

	ev, err := feed.NewEvent(feed.EventInsert, domain.TableDailyTodos, owner, domain.DailyTodo{ID: "t1", Text: "牛乳"})
	require.NoError(t, err)
	broker.Publish(ev)

	got := readEvent(t, r)
	assert.Equal(t, "insert", got.name)
	assert.Contains(t, got.data, `"id":"t1"`)
	assert.Contains(t, got.data, `"owner_id":"owner-1"`)

	cancel()
	assert.Eventually(t, func() bool { return broker.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestFeedHandler_UnknownTable(t *testing.T) {
	h := handler.NewFeedHandler(feed.NewBroker(4, quietLogger()), time.Hour, quietLogger())
	r := newRouter(func(api *gin.RouterGroup) {
		api.GET("/feed/:table", h.Stream)
	})

	w := doRequest(r, http.MethodGet, "/api/feed/users", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// droppingSubscriber hands out subscriptions that the broker has already dropped
type droppingSubscriber struct {
	broker *feed.Broker
}

func (d droppingSubscriber) Subscribe(owner, table string) *feed.Subscription {
	sub := d.broker.Subscribe(owner, table)
	sub.Close()
	return sub
}

func TestFeedHandler_ResetWhenSubscriptionDropped(t *testing.T) {
	broker := feed.NewBroker(1, quietLogger())
	h := handler.NewFeedHandler(droppingSubscriber{broker: broker}, time.Hour, quietLogger())
	srv := httptest.NewServer(newRouter(func(api *gin.RouterGroup) {
		api.GET("/feed/:table", h.Stream)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/feed/"+domain.TableDailyMemos, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	r := bufio.NewReader(resp.Body)
	assert.Equal(t, handler.EventReady, readEvent(t, r).name)
	reset := readEvent(t, r)
	assert.Equal(t, handler.EventReset, reset.name)
	assert.Contains(t, reset.data, domain.TableDailyMemos)
	assert.Equal(t, 0, broker.Subscribers())
}

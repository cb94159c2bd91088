package feed

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRows serves rows from a map keyed by table/id
type stubRows struct {
	rows map[string]string
	err  error
}

func (s *stubRows) FetchRow(_ context.Context, table, _, id string) (json.RawMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	row, ok := s.rows[table+"/"+id]
	if !ok {
		return nil, nil
	}
	return json.RawMessage(row), nil
}

// startListener runs a PGListener on a hand-fed notification channel
func startListener(t *testing.T, rows RowFetcher) (*Broker, chan<- *pq.Notification) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	broker := NewBroker(8, logger)
	notify := make(chan *pq.Notification)
	l := &PGListener{
		listener: &pq.Listener{Notify: notify},
		rows:     rows,
		broker:   broker,
		logger:   logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go l.Run(ctx)
	return broker, notify
}

func receive(t *testing.T, sub *Subscription) (Event, bool) {
	t.Helper()
	select {
	case e, ok := <-sub.C:
		return e, ok
	case <-time.After(2 * time.Second):
		t.Fatal("イベントが届かない")
		return Event{}, false
	}
}

func TestPGListener_PublishesFetchedRows(t *testing.T) {
	memo := `{"id":"m1","user_id":"o1","memo_date":"2024-03-15","content":"` + strings.Repeat("가", 4000) + `"}`
	broker, notify := startListener(t, &stubRows{rows: map[string]string{"daily_memos/m1": memo}})
	sub := broker.Subscribe("o1", "daily_memos")

	notify <- &pq.Notification{Extra: `{"op":"INSERT","table":"daily_memos","owner_id":"o1","id":"m1"}`}
	e, ok := receive(t, sub)
	require.True(t, ok)
	assert.Equal(t, EventInsert, e.Type)
	assert.JSONEq(t, memo, string(e.Record), "NOTIFYの上限を超える行も読み直して配信する")

	t.Run("削除はIDだけを配信", func(t *testing.T) {
		notify <- &pq.Notification{Extra: `{"op":"DELETE","table":"daily_memos","owner_id":"o1","id":"m1"}`}
		e, ok := receive(t, sub)
		require.True(t, ok)
		assert.Equal(t, EventDelete, e.Type)
		assert.JSONEq(t, `{"id":"m1","user_id":"o1"}`, string(e.Record))
	})

	t.Run("既に消えた行の更新は読み飛ばす", func(t *testing.T) {
		notify <- &pq.Notification{Extra: `{"op":"UPDATE","table":"daily_memos","owner_id":"o1","id":"gone"}`}
		notify <- &pq.Notification{Extra: `{"op":"DELETE","table":"daily_memos","owner_id":"o1","id":"gone"}`}
		e, ok := receive(t, sub)
		require.True(t, ok)
		assert.Equal(t, EventDelete, e.Type)
	})
}

func TestPGListener_ReconnectResetsSubscribers(t *testing.T) {
	broker, notify := startListener(t, &stubRows{})
	sub := broker.Subscribe("o1", "completions")

	// 再接続の通知
	notify <- nil

	_, ok := receive(t, sub)
	assert.False(t, ok, "購読が閉じられ、クライアントは再読込する")
	assert.Equal(t, 0, broker.Subscribers())
}

func TestPGListener_FetchFailureResetsSubscribers(t *testing.T) {
	broker, notify := startListener(t, &stubRows{err: errors.New("connection reset")})
	sub := broker.Subscribe("o1", "daily_todos")

	notify <- &pq.Notification{Extra: `{"op":"UPDATE","table":"daily_todos","owner_id":"o1","id":"t1"}`}

	_, ok := receive(t, sub)
	assert.False(t, ok)
}

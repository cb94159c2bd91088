package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Channel is the NOTIFY channel the schema triggers write to
const Channel = "diary_changes"

// Notification is the row reference sent by the notify_diary_change() trigger.
// It carries no row data: NOTIFY payloads are limited to 8000 bytes.
type Notification struct {
	Type    EventType
	Table   string
	OwnerID string
	ID      string
}

type notificationPayload struct {
	Op      string `json:"op"`
	Table   string `json:"table"`
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// RowFetcher reads the current JSON of a row; a nil result means the row is gone
type RowFetcher interface {
	FetchRow(ctx context.Context, table, owner, id string) (json.RawMessage, error)
}

// PGListener turns PostgreSQL notifications into broker events
type PGListener struct {
	listener *pq.Listener
	rows     RowFetcher
	broker   *Broker
	logger   *logrus.Logger
}

// NewPGListener connects a pq.Listener to Channel
func NewPGListener(dsn string, rows RowFetcher, broker *Broker, logger *logrus.Logger) (*PGListener, error) {
	report := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.WithError(err).WithField("event", ev).Warn("LISTEN接続の状態が変化しました")
		}
	}

	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, report)
	if err := listener.Listen(Channel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", Channel, err)
	}

	return &PGListener{
		listener: listener,
		rows:     rows,
		broker:   broker,
		logger:   logger,
	}, nil
}

// Run forwards notifications until ctx is cancelled
func (l *PGListener) Run(ctx context.Context) {
	l.logger.WithField("channel", Channel).Info("変更フィードの受信を開始しました")
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-l.listener.Notify:
			l.handle(ctx, n)
		case <-time.After(90 * time.Second):
			go func() {
				if err := l.listener.Ping(); err != nil {
					l.logger.WithError(err).Warn("LISTEN接続のpingに失敗")
				}
			}()
		}
	}
}

func (l *PGListener) handle(ctx context.Context, n *pq.Notification) {
	// nil は再接続を意味する。切断中の変更は届かないので全購読者に再読込させる
	if n == nil {
		dropped := l.broker.ResetAll()
		l.logger.WithField("subscribers", dropped).Warn("LISTEN接続が再確立されたため購読をリセットしました")
		return
	}

	ref, err := ParseNotification(n.Extra)
	if err != nil {
		l.logger.WithError(err).Error("通知のデコードに失敗")
		return
	}

	e, ok, err := l.event(ctx, ref)
	if err != nil {
		l.logger.WithError(err).WithFields(logrus.Fields{
			"table": ref.Table,
			"id":    ref.ID,
		}).Error("変更された行を読み込めないため購読をリセットします")
		l.broker.ResetAll()
		return
	}
	if ok {
		l.broker.Publish(e)
	}
}

// event builds the broker event of ref. Inserts and updates carry the current row;
// when it is already gone the change is skipped, its delete notification follows.
func (l *PGListener) event(ctx context.Context, ref Notification) (Event, bool, error) {
	if ref.Type == EventDelete {
		e, err := NewEvent(ref.Type, ref.Table, ref.OwnerID, map[string]string{
			"id":      ref.ID,
			"user_id": ref.OwnerID,
		})
		return e, err == nil, err
	}

	record, err := l.rows.FetchRow(ctx, ref.Table, ref.OwnerID, ref.ID)
	if err != nil || record == nil {
		return Event{}, false, err
	}
	return Event{Type: ref.Type, Table: ref.Table, OwnerID: ref.OwnerID, Record: record}, true, nil
}

// Close closes the underlying connection
func (l *PGListener) Close() error {
	return l.listener.Close()
}

// ParseNotification parses a trigger payload
func ParseNotification(payload string) (Notification, error) {
	var p notificationPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return Notification{}, fmt.Errorf("invalid notification payload: %w", err)
	}
	if p.ID == "" || p.Table == "" {
		return Notification{}, fmt.Errorf("notification without table or id: %q", payload)
	}

	var typ EventType
	switch p.Op {
	case "INSERT":
		typ = EventInsert
	case "UPDATE":
		typ = EventUpdate
	case "DELETE":
		typ = EventDelete
	default:
		return Notification{}, fmt.Errorf("unknown operation %q", p.Op)
	}

	return Notification{Type: typ, Table: p.Table, OwnerID: p.OwnerID, ID: p.ID}, nil
}

package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"diary-app/src/cache"
	"diary-app/src/domain"
	"diary-app/src/feed"
	"diary-app/src/resolver"
	"diary-app/src/usecase"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// pendingPrefix marks completion rows that exist only locally
const pendingPrefix = "pending-"

// syncedTable is one cached table kept current by the change stream
type syncedTable interface {
	name() string
	load(ctx context.Context) error
	apply(ev feed.Event) error
}

type tableCache[T any] struct {
	table string
	list  *cache.List[T]
	fetch func(ctx context.Context) ([]T, error)
}

func newTableCache[T any](table string, key func(T) string, fetch func(ctx context.Context) ([]T, error)) *tableCache[T] {
	return &tableCache[T]{table: table, list: cache.NewList(key), fetch: fetch}
}

func (t *tableCache[T]) name() string { return t.table }

func (t *tableCache[T]) load(ctx context.Context) error {
	rows, err := t.fetch(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", t.table, err)
	}
	t.list.Load(rows)
	return nil
}

func (t *tableCache[T]) apply(ev feed.Event) error {
	var row T
	if err := ev.Decode(&row); err != nil {
		return err
	}
	switch ev.Type {
	case feed.EventInsert:
		t.list.ApplyRemote(cache.Patch[T]{Inserts: []T{row}})
	case feed.EventUpdate:
		t.list.ApplyRemote(cache.Patch[T]{Updates: []T{row}})
	case feed.EventDelete:
		t.list.ApplyRemote(cache.Patch[T]{Deletes: []string{t.list.Key(row)}})
	}
	return nil
}

// Session holds the owner's calendar tables and keeps them in sync with the server
type Session struct {
	client *Client
	logger *logrus.Logger

	dailyTodos    *tableCache[domain.DailyTodo]
	monthlyTodos  *tableCache[domain.MonthlyTodo]
	deadlineTasks *tableCache[domain.DeadlineTask]
	schedules     *tableCache[domain.SpecificSchedule]
	completions   *tableCache[domain.Completion]

	// トグルは一度に一つだけ送る
	toggleMu sync.Mutex
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	retry    time.Duration
}

// NewSession creates a session; call Start before reading from it
func NewSession(client *Client, logger *logrus.Logger) *Session {
	return &Session{
		client:        client,
		logger:        logger,
		dailyTodos:    newTableCache(domain.TableDailyTodos, func(r domain.DailyTodo) string { return r.ID }, client.ListDailyTodos),
		monthlyTodos:  newTableCache(domain.TableMonthlyTodos, func(r domain.MonthlyTodo) string { return r.ID }, client.ListMonthlyTodos),
		deadlineTasks: newTableCache(domain.TableDeadlineTasks, func(r domain.DeadlineTask) string { return r.ID }, client.ListDeadlineTasks),
		schedules:     newTableCache(domain.TableSpecificSchedules, func(r domain.SpecificSchedule) string { return r.ID }, client.ListSchedules),
		completions:   newTableCache(domain.TableCompletions, func(r domain.Completion) string { return r.ID }, client.ListCompletions),
		retry:         time.Second,
	}
}

func (s *Session) tables() []syncedTable {
	return []syncedTable{s.dailyTodos, s.monthlyTodos, s.deadlineTasks, s.schedules, s.completions}
}

// Start subscribes to every table, loads the snapshots and follows the streams
// until ctx ends or Close is called.
func (s *Session) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	// 購読してからスナップショットを読むので、その間の変更も失われない
	tables := s.tables()
	streams := make([]*Stream, 0, len(tables))
	for _, t := range tables {
		stream, err := s.client.Subscribe(ctx, t.name())
		if err != nil {
			cancel()
			closeAll(streams)
			return err
		}
		streams = append(streams, stream)
	}

	for _, t := range tables {
		if err := t.load(ctx); err != nil {
			cancel()
			closeAll(streams)
			return err
		}
	}

	s.cancel = cancel
	for i, t := range tables {
		s.wg.Add(1)
		go s.follow(ctx, t, streams[i])
	}
	s.logger.WithField("tables", len(tables)).Info("同期を開始しました")
	return nil
}

// Close stops following the streams
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// follow applies the stream to t and resubscribes with a fresh snapshot when it ends
func (s *Session) follow(ctx context.Context, t syncedTable, stream *Stream) {
	defer s.wg.Done()
	limiter := rate.NewLimiter(rate.Every(s.retry), 1)
	entry := s.logger.WithField("table", t.name())

	for {
		for ev := range stream.C {
			if err := t.apply(ev); err != nil {
				entry.WithError(err).Warn("変更イベントの適用に失敗")
			}
		}
		if ctx.Err() != nil {
			return
		}
		entry.WithError(stream.Err()).Warn("変更フィードが切断されました。再購読します")

		for {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			next, err := s.client.Subscribe(ctx, t.name())
			if err != nil {
				entry.WithError(err).Warn("再購読に失敗")
				continue
			}
			if err := t.load(ctx); err != nil {
				entry.WithError(err).Warn("スナップショットの再取得に失敗")
				next.Close()
				continue
			}
			stream = next
			break
		}
	}
}

func closeAll(streams []*Stream) {
	for _, st := range streams {
		st.Close()
	}
}

// Collections returns the current local view, optimistic edits included
func (s *Session) Collections() resolver.Collections {
	return resolver.Collections{
		DailyTodos:        s.dailyTodos.list.Items(),
		MonthlyTodos:      s.monthlyTodos.list.Items(),
		DeadlineTasks:     s.deadlineTasks.list.Items(),
		SpecificSchedules: s.schedules.list.Items(),
		Completions:       s.completions.list.Items(),
	}
}

// Day resolves date against the local view
func (s *Session) Day(date domain.Date) resolver.Day {
	return resolver.ResolveDay(date, s.Collections())
}

// Month returns the per-day counts of a month from the local view
func (s *Session) Month(year int, month time.Month) []resolver.DayCell {
	return resolver.MonthSummaries(year, month, s.Collections())
}

// Toggle flips the completion of an item on date.
//
// The expected change shows up in the local view at once. When the request
// fails the completions fall back to the last confirmed snapshot; when it
// succeeds the server's patch replaces the guess.
func (s *Session) Toggle(ctx context.Context, itemType domain.ItemType, itemID string, date domain.Date) (*usecase.TogglePatch, error) {
	if !itemType.IsValid() {
		return nil, usecase.ErrInvalidItemType
	}
	s.toggleMu.Lock()
	defer s.toggleMu.Unlock()

	list := s.completions.list
	list.ApplyOptimistic(s.expectedToggle(itemType, itemID, date))

	patch, err := s.client.ToggleCompletion(ctx, itemType, itemID, date)
	if err != nil {
		list.Revert()
		s.logger.WithError(err).WithFields(logrus.Fields{
			"item_id":   itemID,
			"item_type": itemType,
			"date":      date,
		}).Warn("完了状態の切り替えに失敗したため元に戻しました")
		return nil, err
	}

	list.Revert()
	list.ApplyOptimistic(cache.Patch[domain.Completion]{
		Inserts: patch.Inserted,
		Deletes: completionIDs(patch.Removed),
	})
	list.Confirm()
	return patch, nil
}

// expectedToggle guesses the server's answer from the local view
func (s *Session) expectedToggle(itemType domain.ItemType, itemID string, date domain.Date) cache.Patch[domain.Completion] {
	rows := s.completions.list.Items()
	ix := resolver.NewIndex(rows)

	completed := ix.CompletedOn(itemID, itemType, date)
	if itemType == domain.ItemTypeDeadline {
		task, ok := s.deadlineTasks.list.Get(itemID)
		if !ok {
			return cache.Patch[domain.Completion]{}
		}
		completed = ix.IsCompleted(itemID, itemType, task.DeadlineDate, date)
	}

	if !completed {
		return cache.Patch[domain.Completion]{Inserts: []domain.Completion{{
			ID:             pendingPrefix + uuid.NewString(),
			ItemID:         itemID,
			ItemType:       itemType,
			CompletionDate: date,
		}}}
	}

	// 期限付きタスクは完了行をすべて消す
	var patch cache.Patch[domain.Completion]
	for _, r := range rows {
		if r.ItemID != itemID || r.ItemType != itemType {
			continue
		}
		if itemType == domain.ItemTypeDeadline || r.CompletionDate == date {
			patch.Deletes = append(patch.Deletes, r.ID)
		}
	}
	return patch
}

// IsPending reports whether a completion row is a local guess not yet confirmed
func IsPending(c domain.Completion) bool {
	return strings.HasPrefix(c.ID, pendingPrefix)
}

func completionIDs(rows []domain.Completion) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

package handler

import (
	"io"
	"net/http"
	"time"

	"diary-app/src/domain"
	"diary-app/src/feed"
	"diary-app/src/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Subscriber opens change subscriptions for one owner and table
type Subscriber interface {
	Subscribe(owner, table string) *feed.Subscription
}

// SSE event names besides insert/update/delete
const (
	EventReady = feed.StreamReady
	EventReset = feed.StreamReset
	EventPing  = feed.StreamPing
)

// FeedHandler streams table changes as server-sent events
type FeedHandler struct {
	subscriber Subscriber
	heartbeat  time.Duration
	logger     *logrus.Logger
}

// NewFeedHandler creates a feed handler sending a ping every heartbeat
func NewFeedHandler(subscriber Subscriber, heartbeat time.Duration, logger *logrus.Logger) *FeedHandler {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return &FeedHandler{subscriber: subscriber, heartbeat: heartbeat, logger: logger}
}

// Stream subscribes to :table and writes every change until the client leaves.
//
// The first event is "ready"; clients load their snapshot after it so no change
// is missed. A "reset" event means the stream fell behind and the snapshot must be reloaded.
func (h *FeedHandler) Stream(c *gin.Context) {
	table := c.Param("table")
	if !domain.IsTable(table) {
		c.JSON(http.StatusNotFound, ErrorResponseDTO{
			Error:   "Unknown table",
			Message: table,
		})
		return
	}

	owner := middleware.OwnerID(c)
	sub := h.subscriber.Subscribe(owner, table)
	defer sub.Close()

	entry := h.logger.WithFields(logrus.Fields{
		"owner_id": owner,
		"table":    table,
	})
	entry.Info("変更フィードの購読を開始しました")
	defer entry.Info("変更フィードの購読を終了しました")

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent(EventReady, gin.H{"table": table})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	ctx := c.Request.Context()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-sub.C:
			if !ok {
				c.SSEvent(EventReset, gin.H{"table": table})
				return false
			}
			c.SSEvent(string(ev.Type), ev)
			return true
		case <-ticker.C:
			c.SSEvent(EventPing, gin.H{"time": time.Now().Unix()})
			return true
		}
	})
}

package middleware

import (
	"strings"
	"time"

	"diary-app/src/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the id that ties a request to its log lines
const RequestIDHeader = "X-Request-ID"

// LoggerMiddleware logs one line per request with its latency and owner.
// Change-feed streams are logged when they end, with how long they stayed open.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		path := c.Request.URL.Path
		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       path,
			"status":     status,
			"client_ip":  c.ClientIP(),
			"latency_ms": time.Since(start).Milliseconds(),
			"size":       c.Writer.Size(),
		}
		if route := c.FullPath(); route != "" {
			fields["route"] = route
		}
		if owner := c.GetString(OwnerIDKey); owner != "" {
			fields["owner_id"] = owner
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		entry := logger.WithFields(fields)

		switch {
		case status >= 500:
			entry.Error("リクエスト完了 - サーバーエラー")
		case status >= 400:
			entry.Warn("リクエスト完了 - クライアントエラー")
		case path == "/health":
			// ヘルスチェックは頻繁なのでデバッグのみ
			entry.Debug("リクエスト完了")
		case strings.HasPrefix(path, "/api/feed/"):
			entry.Info("変更フィードの接続が終了しました")
		default:
			entry.Info("リクエスト完了")
		}
	}
}

package middleware

import (
	"net/http"
	"strings"

	"diary-app/src/logger"
	"diary-app/src/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// OwnerIDKey is the gin context key holding the authenticated owner id
const OwnerIDKey = "owner_id"

// OwnerMiddleware 所有者トークンを検証し、所有者IDをコンテキストに設定する
//
// EventSource はヘッダーを付けられないため、access_token クエリも受け付ける。
func OwnerMiddleware(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			logger.WithField("client_ip", c.ClientIP()).Warn("認証失敗: トークンがありません")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		ownerID, err := tokens.ValidateToken(token)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"client_ip": c.ClientIP(),
				"error":     err.Error(),
			}).Warn("認証失敗: 無効なトークン")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(OwnerIDKey, ownerID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", false
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		return token, token != ""
	}
	if token := c.Query("access_token"); token != "" {
		return token, true
	}
	return "", false
}

// OwnerID returns the owner id set by OwnerMiddleware
func OwnerID(c *gin.Context) string {
	return c.GetString(OwnerIDKey)
}

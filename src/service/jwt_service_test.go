package service_test

import (
	"testing"
	"time"

	"diary-app/src/config"
	"diary-app/src/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService(t *testing.T) {
	svc := service.NewTokenService(config.AuthConfig{JWTSecret: "test-secret", JWTExpiresIn: time.Hour})

	t.Run("発行と検証", func(t *testing.T) {
		token, err := svc.GenerateToken("owner-42")
		require.NoError(t, err)

		owner, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "owner-42", owner)
	})

	t.Run("空の所有者IDは拒否", func(t *testing.T) {
		_, err := svc.GenerateToken(" ")
		assert.Error(t, err)
	})

	t.Run("別の秘密鍵で署名されたトークン", func(t *testing.T) {
		other := service.NewTokenService(config.AuthConfig{JWTSecret: "other", JWTExpiresIn: time.Hour})
		token, err := other.GenerateToken("owner-42")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("期限切れ", func(t *testing.T) {
		expired := service.NewTokenService(config.AuthConfig{JWTSecret: "test-secret", JWTExpiresIn: -time.Minute})
		token, err := expired.GenerateToken("owner-42")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("署名方式none", func(t *testing.T) {
		claims := &service.OwnerClaims{
			OwnerID:          "owner-42",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "diary-app"},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("不正な文字列", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-jwt")
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})
}

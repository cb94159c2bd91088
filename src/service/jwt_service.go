package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"diary-app/src/config"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "diary-app"

var ErrInvalidToken = errors.New("invalid token")

// OwnerClaims JWT内のカスタムクレーム
type OwnerClaims struct {
	OwnerID string `json:"owner_id"`
	jwt.RegisteredClaims
}

// TokenService 所有者トークンの発行と検証
type TokenService interface {
	GenerateToken(ownerID string) (string, error)
	ValidateToken(tokenString string) (string, error)
}

type jwtService struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

// NewTokenService 設定から所有者トークンサービスを作成
func NewTokenService(cfg config.AuthConfig) TokenService {
	return &jwtService{
		secret:    []byte(cfg.JWTSecret),
		expiresIn: cfg.JWTExpiresIn,
		now:       time.Now,
	}
}

// GenerateToken 所有者IDを埋め込んだアクセストークンを生成
func (s *jwtService) GenerateToken(ownerID string) (string, error) {
	if strings.TrimSpace(ownerID) == "" {
		return "", fmt.Errorf("owner id is required")
	}
	now := s.now()
	claims := &OwnerClaims{
		OwnerID: ownerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   "owner:" + ownerID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken トークンを検証して所有者IDを返す
func (s *jwtService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OwnerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*OwnerClaims); ok && token.Valid && claims.OwnerID != "" {
		return claims.OwnerID, nil
	}

	return "", ErrInvalidToken
}

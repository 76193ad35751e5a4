package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const tokenIssuer = "qrscan"

// signingKeyInfo контекст HKDF для ключа подписи токенов сессий
var signingKeyInfo = []byte("qrscan session token v1")

// SessionClaims представляет JWT claims токена сессии
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenConfig содержит конфигурацию токенов сессий
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// DeriveSigningKey выводит 32-байтовый ключ подписи из секрета конфигурации.
// Пустой секрет дает случайный ключ: токены перестают быть валидны после рестарта,
// как и сама история.
func DeriveSigningKey(secret string) ([]byte, error) {
	key := make([]byte, 32)

	if secret == "" {
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
		return key, nil
	}

	kdf := hkdf.New(sha256.New, []byte(secret), nil, signingKeyInfo)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}

	return key, nil
}

// GenerateSessionToken создает JWT токен для сессии
func GenerateSessionToken(cfg TokenConfig, sessionID string) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(cfg.TTL)

	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, int64(cfg.TTL.Seconds()), nil
}

// ValidateSessionToken валидирует и парсит JWT токен сессии
func ValidateSessionToken(cfg TokenConfig, tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.Secret, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

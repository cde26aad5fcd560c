package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims identify the POS terminal a token was issued to.
type Claims struct {
	TerminalID uuid.UUID `json:"terminal_id"`
	Terminal   string    `json:"terminal"`
	Role       string    `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, terminalID uuid.UUID, terminal, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TerminalID: terminalID,
		Terminal:   terminal,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   terminalID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

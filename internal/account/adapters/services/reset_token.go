package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"portfolio/internal/account/domain/services"
	svc "portfolio/internal/account/ports/services"
)

const (
	resetTokenBytes = 20

	errCtxResetToken = "generating reset token"
)

// ResetTokens создает токены сброса: случайные 20 байт в hex, хранится SHA-256 в hex.
type ResetTokens struct {
	ttl     time.Duration
	now     func() time.Time
	entropy io.Reader
}

// NewResetTokens создает генератор токенов со сроком действия ttl.
func NewResetTokens(ttl time.Duration, now func() time.Time) svc.ResetTokenGenerator {
	if now == nil {
		now = time.Now
	}
	return &ResetTokens{ttl: ttl, now: now, entropy: rand.Reader}
}

// Generate возвращает новый токен и его хеш.
func (g *ResetTokens) Generate(_ context.Context) (*services.ResetToken, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := io.ReadFull(g.entropy, buf); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxResetToken, err)
	}

	raw := hex.EncodeToString(buf)
	return &services.ResetToken{
		Raw:       raw,
		Hash:      g.Hash(raw),
		ExpiresAt: g.now().Add(g.ttl),
	}, nil
}

// Hash возвращает SHA-256 токена в hex.
func (g *ResetTokens) Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

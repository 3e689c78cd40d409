package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type Claims struct {
	UserID      uuid.UUID
	IsStaff     bool
	IsSuperuser bool
	TokenID     string
	Exp         time.Time
}

type TokenProvider interface {
	SignAccess(ctx context.Context, sub uuid.UUID, isStaff, isSuperuser bool, ttl time.Duration) (token, jti string, exp time.Time, err error)
	ParseAndValidateAccess(ctx context.Context, token string) (*Claims, error)
}

type CacheClient interface {
	// Rate limiting
	SetRateLimit(ctx context.Context, key string, ttl time.Duration) error
	CheckRateLimit(ctx context.Context, key string) (bool, error)
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Blacklist токенов
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, jti string) (bool, error)

	Del(ctx context.Context, keys ...string) error
}

type MediaStore interface {
	Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error)
}

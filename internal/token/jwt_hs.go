package token

import (
	"context"
	"errors"
	"time"

	"fender-store/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type HSProvider struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewHSProvider(secret, issuer string) *HSProvider {
	return &HSProvider{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

type customClaims struct {
	Staff     bool `json:"staff,omitempty"`
	Superuser bool `json:"superuser,omitempty"`
	jwt.RegisteredClaims
}

func (p *HSProvider) SignAccess(ctx context.Context, sub uuid.UUID, isStaff, isSuperuser bool, ttl time.Duration) (string, string, time.Time, error) {
	now := p.now()
	exp := now.Add(ttl)
	jti := uuid.NewString()

	claims := customClaims{
		Staff:     isStaff,
		Superuser: isSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    p.issuer,
			Subject:   sub.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(p.secret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return signed, jti, exp, nil
}

func (p *HSProvider) ParseAndValidateAccess(ctx context.Context, token string) (*service.Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &customClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwt.WithIssuer(p.issuer), jwt.WithTimeFunc(p.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	cc, ok := parsed.Claims.(*customClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	uid, err := uuid.Parse(cc.Subject)
	if err != nil {
		return nil, err
	}
	return &service.Claims{
		UserID:      uid,
		IsStaff:     cc.Staff,
		IsSuperuser: cc.Superuser,
		TokenID:     cc.ID,
		Exp:         cc.ExpiresAt.Time,
	}, nil
}

var _ service.TokenProvider = (*HSProvider)(nil)

package service_test

import (
	"context"
	"io"
	"time"

	"fender-store/internal/models"
	"fender-store/internal/service"

	"github.com/google/uuid"
)

// Моки зависимостей сервисов

// MockUserRepo
type MockUserRepo struct {
	CreateFunc          func(ctx context.Context, u *models.User) error
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmailFunc      func(ctx context.Context, email string) (*models.User, error)
	ListFunc            func(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	UpdateFieldsFunc    func(ctx context.Context, id uuid.UUID, fields map[string]any) error
	UpdateLastLoginFunc func(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteFunc          func(ctx context.Context, id uuid.UUID) (bool, error)
	CountFunc           func(ctx context.Context) (int64, error)
}

func (m *MockUserRepo) Create(ctx context.Context, u *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepo) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []models.User{}, 0, nil
}

func (m *MockUserRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil
}

func (m *MockUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, id, at)
	}
	return nil
}

func (m *MockUserRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return true, nil
}

func (m *MockUserRepo) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// MockOrderRepo
type MockOrderRepo struct {
	CreateFunc         func(ctx context.Context, o *models.Order) error
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForUserFunc func(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	ListByUserFunc     func(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListFunc           func(ctx context.Context, limit, offset int) ([]models.Order, int64, error)
	UpdateFieldsFunc   func(ctx context.Context, id uuid.UUID, fields map[string]any) error
	DeleteFunc         func(ctx context.Context, id uuid.UUID) (bool, error)
	CountFunc          func(ctx context.Context) (int64, error)
}

func (m *MockOrderRepo) Create(ctx context.Context, o *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	return nil
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	if m.GetByIDForUserFunc != nil {
		return m.GetByIDForUserFunc(ctx, id, userID)
	}
	return nil, nil
}

func (m *MockOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []models.Order{}, nil
}

func (m *MockOrderRepo) List(ctx context.Context, limit, offset int) ([]models.Order, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []models.Order{}, 0, nil
}

func (m *MockOrderRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil
}

func (m *MockOrderRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return true, nil
}

func (m *MockOrderRepo) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// MockPasswordHasher
type MockPasswordHasher struct {
	HashFunc    func(password string) (string, error)
	CompareFunc func(hash, password string) bool
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *MockPasswordHasher) Compare(hash, password string) bool {
	if m.CompareFunc != nil {
		return m.CompareFunc(hash, password)
	}
	return hash == "hashed_"+password
}

// MockTokenProvider
type MockTokenProvider struct {
	SignAccessFunc             func(ctx context.Context, sub uuid.UUID, isStaff, isSuperuser bool, ttl time.Duration) (string, string, time.Time, error)
	ParseAndValidateAccessFunc func(ctx context.Context, token string) (*service.Claims, error)
}

func (m *MockTokenProvider) SignAccess(ctx context.Context, sub uuid.UUID, isStaff, isSuperuser bool, ttl time.Duration) (string, string, time.Time, error) {
	if m.SignAccessFunc != nil {
		return m.SignAccessFunc(ctx, sub, isStaff, isSuperuser, ttl)
	}
	return "access_token", "jti", time.Now().Add(ttl), nil
}

func (m *MockTokenProvider) ParseAndValidateAccess(ctx context.Context, token string) (*service.Claims, error) {
	if m.ParseAndValidateAccessFunc != nil {
		return m.ParseAndValidateAccessFunc(ctx, token)
	}
	return &service.Claims{UserID: uuid.New(), TokenID: "jti", Exp: time.Now().Add(time.Hour)}, nil
}

// MockCacheClient
type MockCacheClient struct {
	SetRateLimitFunc       func(ctx context.Context, key string, ttl time.Duration) error
	CheckRateLimitFunc     func(ctx context.Context, key string) (bool, error)
	IncrWithTTLFunc        func(ctx context.Context, key string, ttl time.Duration) (int64, error)
	BlacklistTokenFunc     func(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenBlacklistedFunc func(ctx context.Context, jti string) (bool, error)
	DelFunc                func(ctx context.Context, keys ...string) error
}

func (m *MockCacheClient) SetRateLimit(ctx context.Context, key string, ttl time.Duration) error {
	if m.SetRateLimitFunc != nil {
		return m.SetRateLimitFunc(ctx, key, ttl)
	}
	return nil
}

func (m *MockCacheClient) CheckRateLimit(ctx context.Context, key string) (bool, error) {
	if m.CheckRateLimitFunc != nil {
		return m.CheckRateLimitFunc(ctx, key)
	}
	return false, nil
}

func (m *MockCacheClient) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if m.IncrWithTTLFunc != nil {
		return m.IncrWithTTLFunc(ctx, key, ttl)
	}
	return 1, nil
}

func (m *MockCacheClient) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if m.BlacklistTokenFunc != nil {
		return m.BlacklistTokenFunc(ctx, jti, ttl)
	}
	return nil
}

func (m *MockCacheClient) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	if m.IsTokenBlacklistedFunc != nil {
		return m.IsTokenBlacklistedFunc(ctx, jti)
	}
	return false, nil
}

func (m *MockCacheClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}

// MockMediaStore
type MockMediaStore struct {
	UploadFunc func(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error)
}

func (m *MockMediaStore) Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, objectName, r, size, contentType)
	}
	return objectName, nil
}

// MockEventBus
type MockEventBus struct {
	PublishOrderPlacedFunc func(ctx context.Context, e service.OrderPlacedEvent) error
}

func (m *MockEventBus) PublishOrderPlaced(ctx context.Context, e service.OrderPlacedEvent) error {
	if m.PublishOrderPlacedFunc != nil {
		return m.PublishOrderPlacedFunc(ctx, e)
	}
	return nil
}

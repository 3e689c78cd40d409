package repository

import (
	"context"
	"errors"
	"time"

	"fender-store/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	// GetOrCreateForUser/GetOrCreateForSession возвращают единственную корзину владельца,
	// создавая её при отсутствии; bool = корзина создана этим вызовом
	GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*models.Cart, bool, error)
	GetOrCreateForSession(ctx context.Context, sessionKey string) (*models.Cart, bool, error)
	// DeleteStaleAnonymous удаляет анонимные корзины, созданные раньше before
	DeleteStaleAnonymous(ctx context.Context, before time.Time) (int64, error)
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) CartRepo { return &cartRepo{db: db} }

func (r *cartRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var c models.Cart
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *cartRepo) GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*models.Cart, bool, error) {
	uid := userID
	return r.getOrCreate(ctx, &models.Cart{UserID: &uid}, "user_id = ?", userID)
}

func (r *cartRepo) GetOrCreateForSession(ctx context.Context, sessionKey string) (*models.Cart, bool, error) {
	key := sessionKey
	return r.getOrCreate(ctx, &models.Cart{SessionKey: &key}, "session_key = ? AND user_id IS NULL", sessionKey)
}

// getOrCreate: find -> INSERT ON CONFLICT DO NOTHING -> find.
// Параллельный запрос мог создать корзину между find и insert, тогда уникальный индекс
// отбрасывает вставку и корзина перечитывается.
func (r *cartRepo) getOrCreate(ctx context.Context, fresh *models.Cart, where string, arg any) (*models.Cart, bool, error) {
	found, err := r.find(ctx, where, arg)
	if err != nil || found != nil {
		return found, false, err
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(fresh)
	if tx.Error != nil {
		return nil, false, tx.Error
	}
	if tx.RowsAffected > 0 {
		return fresh, true, nil
	}

	found, err = r.find(ctx, where, arg)
	if err != nil {
		return nil, false, err
	}
	if found == nil {
		return nil, false, gorm.ErrRecordNotFound
	}
	return found, false, nil
}

func (r *cartRepo) find(ctx context.Context, where string, arg any) (*models.Cart, error) {
	var c models.Cart
	err := r.db.WithContext(ctx).Where(where, arg).Order("created_at ASC").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cartRepo) DeleteStaleAnonymous(ctx context.Context, before time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("user_id IS NULL AND created_at < ?", before).
		Delete(&models.Cart{})
	return tx.RowsAffected, tx.Error
}

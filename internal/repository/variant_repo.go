package repository

import (
	"context"
	"errors"

	"fender-store/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VariantRepo interface {
	Create(ctx context.Context, v *models.ProductVariant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductVariant, error)
	List(ctx context.Context, limit, offset int) ([]models.ProductVariant, int64, error)
	Update(ctx context.Context, v *models.ProductVariant) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByProductExcept(ctx context.Context, productID uuid.UUID, keep []uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)

	// DecrementStock: stock -= qty без проверки (остаток может уйти в минус)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int32) (bool, error)
	// TryDecrementStock: stock -= qty только если stock >= qty
	TryDecrementStock(ctx context.Context, id uuid.UUID, qty int32) (bool, error)
}

type variantRepo struct{ db *gorm.DB }

func NewVariantRepo(db *gorm.DB) VariantRepo { return &variantRepo{db: db} }

func (r *variantRepo) Create(ctx context.Context, v *models.ProductVariant) error {
	return r.db.WithContext(ctx).Omit("Product").Create(v).Error
}

func (r *variantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var v models.ProductVariant
	err := r.db.WithContext(ctx).Preload("Product").First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &v, err
}

func (r *variantRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductVariant, error) {
	var list []models.ProductVariant
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("color ASC").Find(&list).Error
	return list, err
}

func (r *variantRepo) List(ctx context.Context, limit, offset int) ([]models.ProductVariant, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.ProductVariant{}).
		Joins("JOIN products ON products.id = product_variants.product_id")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var list []models.ProductVariant
	err := q.Preload("Product").
		Order("products.name ASC, product_variants.color ASC").
		Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

func (r *variantRepo) Update(ctx context.Context, v *models.ProductVariant) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(v).Error
}

func (r *variantRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.ProductVariant{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}

func (r *variantRepo) DeleteByProductExcept(ctx context.Context, productID uuid.UUID, keep []uuid.UUID) (int64, error) {
	q := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	tx := q.Delete(&models.ProductVariant{})
	return tx.RowsAffected, tx.Error
}

func (r *variantRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ProductVariant{}).Count(&n).Error
	return n, err
}

func (r *variantRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE product_variants
SET stock = stock - @q,
    updated_at = now()
WHERE id = @id
`, map[string]any{
		"id": id,
		"q":  qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *variantRepo) TryDecrementStock(ctx context.Context, id uuid.UUID, qty int32) (bool, error) {
	// атомарно: stock -= qty, если хватает
	tx := r.db.WithContext(ctx).Exec(`
UPDATE product_variants
SET stock = stock - @q,
    updated_at = now()
WHERE id = @id
  AND stock >= @q
`, map[string]any{
		"id": id,
		"q":  qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

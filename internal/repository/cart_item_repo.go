package repository

import (
	"context"
	"errors"
	"math"

	"fender-store/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemRepo interface {
	// AddQuantity: новая позиция с qty или quantity += qty для существующей (cart, variant).
	// (nil, nil), если сумма вышла бы за MaxLineQuantity; строка при этом не меняется
	AddQuantity(ctx context.Context, cartID, variantID uuid.UUID, qty int32) (*models.CartItem, error)
	GetForCart(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	GetByCartAndVariant(ctx context.Context, cartID, variantID uuid.UUID) (*models.CartItem, error)
	// ListByCart подгружает Variant и Variant.Product
	ListByCart(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	// DecrementQuantity: quantity -= 1 только если quantity > 1
	DecrementQuantity(ctx context.Context, cartID, itemID uuid.UUID) (bool, error)
	Delete(ctx context.Context, cartID, itemID uuid.UUID) (bool, error)
	// DeleteByIDs удаляет только перечисленные позиции корзины
	DeleteByIDs(ctx context.Context, cartID uuid.UUID, itemIDs []uuid.UUID) (int64, error)
	CountByCart(ctx context.Context, cartID uuid.UUID) (int64, error)
}

// MaxLineQuantity верхняя граница quantity (колонка int4)
const MaxLineQuantity int32 = math.MaxInt32

type cartItemRepo struct{ db *gorm.DB }

func NewCartItemRepo(db *gorm.DB) CartItemRepo { return &cartItemRepo{db: db} }

func (r *cartItemRepo) AddQuantity(ctx context.Context, cartID, variantID uuid.UUID, qty int32) (*models.CartItem, error) {
	item := &models.CartItem{CartID: cartID, VariantID: variantID, Quantity: qty}
	tx := r.db.WithContext(ctx).
		Omit("Variant").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "variant_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_items.quantity + EXCLUDED.quantity"),
			}),
			// сумма считается в bigint, чтобы не ловить integer out of range
			Where: clause.Where{Exprs: []clause.Expression{
				gorm.Expr("cart_items.quantity::bigint + EXCLUDED.quantity <= ?", MaxLineQuantity),
			}},
		}).
		Create(item)
	if err := tx.Error; err != nil {
		return nil, err
	}
	if tx.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByCartAndVariant(ctx, cartID, variantID)
}

func (r *cartItemRepo) GetForCart(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	var it models.CartItem
	err := r.db.WithContext(ctx).First(&it, "id = ? AND cart_id = ?", itemID, cartID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &it, err
}

func (r *cartItemRepo) GetByCartAndVariant(ctx context.Context, cartID, variantID uuid.UUID) (*models.CartItem, error) {
	var it models.CartItem
	err := r.db.WithContext(ctx).First(&it, "cart_id = ? AND variant_id = ?", cartID, variantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &it, err
}

func (r *cartItemRepo) ListByCart(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Variant.Product").
		Where("cart_id = ?", cartID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *cartItemRepo) DecrementQuantity(ctx context.Context, cartID, itemID uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE cart_items
SET quantity = quantity - 1
WHERE id = @id
  AND cart_id = @cart
  AND quantity > 1
`, map[string]any{
		"id":   itemID,
		"cart": cartID,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *cartItemRepo) Delete(ctx context.Context, cartID, itemID uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ? AND cart_id = ?", itemID, cartID)
	return tx.RowsAffected > 0, tx.Error
}

func (r *cartItemRepo) DeleteByIDs(ctx context.Context, cartID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).
		Where("cart_id = ? AND id IN ?", cartID, itemIDs).
		Delete(&models.CartItem{})
	return tx.RowsAffected, tx.Error
}

func (r *cartItemRepo) CountByCart(ctx context.Context, cartID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.CartItem{}).Where("cart_id = ?", cartID).Count(&n).Error
	return n, err
}

package repository

import (
	"context"
	"errors"
	"strings"

	"fender-store/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductListFilter struct {
	Query      string // по name/description/category.name
	CategoryID *uuid.UUID
	OrderBy    string // "created" (по умолчанию) или "name"
	Limit      int
	Offset     int
}

type ProductRepo interface {
	// Create сохраняет товар вместе с p.Variants
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error)
	// Search ищет по имени и описанию; пустой term даёт пустой результат без запроса
	Search(ctx context.Context, term string, limit, offset int) ([]models.Product, int64, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) ProductRepo { return &productRepo{db: db} }

func orderedVariants(db *gorm.DB) *gorm.DB { return db.Order("product_variants.color ASC") }

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category").Create(p).Error
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants", orderedVariants).
		First(&p, "products.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants", orderedVariants).
		First(&p, "products.slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{}).
		Joins("LEFT JOIN categories ON categories.id = products.category_id")

	if f.CategoryID != nil {
		q = q.Where("products.category_id = ?", *f.CategoryID)
	}

	// belongs-to join даёт не больше одной строки на товар, DISTINCT не нужен
	if s := strings.TrimSpace(f.Query); s != "" {
		q = q.Where(`(products.name ILIKE @q ESCAPE '\' OR products.description ILIKE @q ESCAPE '\' OR categories.name ILIKE @q ESCAPE '\')`,
			map[string]any{"q": containsPattern(s)})
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	order := "products.created_at ASC, products.id ASC"
	if f.OrderBy == "name" {
		order = "products.name ASC"
	}

	var list []models.Product
	err := q.Preload("Category").Preload("Variants", orderedVariants).
		Order(order).Limit(f.Limit).Offset(f.Offset).Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *productRepo) Search(ctx context.Context, term string, limit, offset int) ([]models.Product, int64, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.Product{}, 0, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&models.Product{}).
		Where(`(name ILIKE @q ESCAPE '\' OR description ILIKE @q ESCAPE '\')`, map[string]any{"q": containsPattern(term)})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Product
	err := q.Preload("Variants", orderedVariants).
		Order("name ASC").Limit(limit).Offset(offset).Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

// Delete каскадно удаляет варианты товара
func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern строит шаблон ILIKE "содержит", где % и _ из ввода ищутся буквально
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

package service

import (
	"context"
	"strings"

	"fender-store/internal/models"
	"fender-store/internal/repository"

	"github.com/google/uuid"
)

const (
	homeProductsLimit = 5
	shopPageLimit     = 100
)

type ShopFilter struct {
	Query        string
	CategorySlug string
	Limit        int
	Offset       int
}

type ShopPage struct {
	Products   []models.Product  `json:"products"`
	Total      int64             `json:"total"`
	Categories []models.Category `json:"categories"`
	Category   *models.Category  `json:"category,omitempty"`
	Query      string            `json:"query,omitempty"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
}

type SearchPage struct {
	Query    string           `json:"query"`
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

type ProductDetail struct {
	Product     *models.Product         `json:"product"`
	Variants    []models.ProductVariant `json:"variants"`
	MainVariant *models.ProductVariant  `json:"main_variant,omitempty"`
}

type CatalogService struct {
	categories repository.CategoryRepo
	products   repository.ProductRepo
}

func NewCatalogService(repo *repository.Repository) *CatalogService {
	return &CatalogService{categories: repo.Categories, products: repo.Products}
}

func (s *CatalogService) Home(ctx context.Context) ([]models.Product, error) {
	list, _, err := s.products.List(ctx, repository.ProductListFilter{Limit: homeProductsLimit})
	return list, err
}

func (s *CatalogService) Shop(ctx context.Context, f ShopFilter) (*ShopPage, error) {
	limit, offset := pageBounds(f.Limit, f.Offset)
	page := &ShopPage{Query: strings.TrimSpace(f.Query), Limit: limit, Offset: offset}
	lf := repository.ProductListFilter{Query: page.Query, Limit: limit, Offset: offset}

	if slug := strings.TrimSpace(f.CategorySlug); slug != "" {
		cat, err := s.categories.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, ErrCategoryNotFound
		}
		page.Category = cat
		lf.CategoryID = &cat.ID
	}

	list, total, err := s.products.List(ctx, lf)
	if err != nil {
		return nil, err
	}
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	page.Products, page.Total, page.Categories = list, total, cats
	return page, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// ProductDetail returns the product with variants sorted by color. The main
// variant is variantID when it belongs to the product, otherwise the first.
func (s *CatalogService) ProductDetail(ctx context.Context, slug string, variantID *uuid.UUID) (*ProductDetail, error) {
	p, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	d := &ProductDetail{Product: p, Variants: p.Variants}
	if d.Variants == nil {
		d.Variants = []models.ProductVariant{}
	}
	if len(d.Variants) == 0 {
		return d, nil
	}

	d.MainVariant = &d.Variants[0]
	if variantID != nil {
		for i := range d.Variants {
			if d.Variants[i].ID == *variantID {
				d.MainVariant = &d.Variants[i]
				break
			}
		}
	}
	return d, nil
}

// Search отдаёт страницу совпадений и общее число, чтобы клиент мог листать дальше
func (s *CatalogService) Search(ctx context.Context, term string, p ListParams) (*SearchPage, error) {
	limit, offset := pageBounds(p.Limit, p.Offset)
	list, total, err := s.products.Search(ctx, term, limit, offset)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Product{}
	}
	return &SearchPage{Query: term, Products: list, Total: total, Limit: limit, Offset: offset}, nil
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 || limit > shopPageLimit {
		limit = shopPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

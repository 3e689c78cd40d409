package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"fender-store/internal/models"
	"fender-store/internal/repository"
	"fender-store/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCatalogService_ProductDetailMainVariant(t *testing.T) {
	repo := repository.New(setupDB(t))
	svc := service.NewCatalogService(repo)
	ctx := context.Background()

	p := &models.Product{
		Name:        "Stratocaster",
		Description: "Three single coils",
		Variants: []models.ProductVariant{
			{Color: "Sunburst", Price: decimal.NewFromInt(1500), Stock: 1, Image: "s.jpg"},
			{Color: "Black", Price: decimal.NewFromInt(1400), Stock: 1, Image: "b.jpg"},
		},
	}
	if err := repo.Products.Create(ctx, p); err != nil {
		t.Fatalf("create product: %v", err)
	}

	d, err := svc.ProductDetail(ctx, "stratocaster", nil)
	if err != nil {
		t.Fatalf("ProductDetail: %v", err)
	}
	if d.MainVariant == nil || d.MainVariant.Color != "Black" {
		t.Fatalf("expected first variant by color as main, got %+v", d.MainVariant)
	}

	sunburst := d.Variants[1].ID
	d, _ = svc.ProductDetail(ctx, "stratocaster", &sunburst)
	if d.MainVariant.ID != sunburst {
		t.Fatalf("expected selected variant, got %s", d.MainVariant.Color)
	}

	unknown := uuid.New()
	d, _ = svc.ProductDetail(ctx, "stratocaster", &unknown)
	if d.MainVariant.Color != "Black" {
		t.Fatalf("expected fallback to first variant, got %s", d.MainVariant.Color)
	}

	bare := &models.Product{Name: "Empty Body", Description: "no variants"}
	if err := repo.Products.Create(ctx, bare); err != nil {
		t.Fatalf("create product: %v", err)
	}
	d, err = svc.ProductDetail(ctx, bare.Slug, nil)
	if err != nil {
		t.Fatalf("ProductDetail: %v", err)
	}
	if d.Variants == nil || len(d.Variants) != 0 || d.MainVariant != nil {
		t.Fatalf("expected empty variant list, got %+v", d)
	}

	if _, err := svc.ProductDetail(ctx, "missing", nil); !errors.Is(err, service.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCatalogService_ShopFilters(t *testing.T) {
	repo := repository.New(setupDB(t))
	svc := service.NewCatalogService(repo)
	ctx := context.Background()

	amps := &models.Category{Name: "Amplifiers"}
	if err := repo.Categories.Create(ctx, amps); err != nil {
		t.Fatalf("create category: %v", err)
	}
	twin := &models.Product{Name: "Twin Reverb", Description: "85 watts", CategoryID: &amps.ID}
	if err := repo.Products.Create(ctx, twin); err != nil {
		t.Fatalf("create product: %v", err)
	}
	seedVariant(t, repo, "Telecaster", "Blonde", "999.00", 1)

	page, err := svc.Shop(ctx, service.ShopFilter{CategorySlug: "amplifiers"})
	if err != nil {
		t.Fatalf("Shop: %v", err)
	}
	if page.Total != 1 || page.Products[0].ID != twin.ID || page.Category == nil {
		t.Fatalf("unexpected category page: %+v", page)
	}

	page, err = svc.Shop(ctx, service.ShopFilter{Query: "AMPLI"})
	if err != nil {
		t.Fatalf("Shop: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected match on category name, got %d", page.Total)
	}

	if _, err := svc.Shop(ctx, service.ShopFilter{CategorySlug: "drums"}); !errors.Is(err, service.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	home, err := svc.Home(ctx)
	if err != nil || len(home) != 2 {
		t.Fatalf("Home: %d products, %v", len(home), err)
	}

	found, err := svc.Search(ctx, "reverb", service.ListParams{})
	if err != nil || len(found.Products) != 1 || found.Total != 1 {
		t.Fatalf("Search: %+v, %v", found, err)
	}
	found, err = svc.Search(ctx, "", service.ListParams{})
	if err != nil || len(found.Products) != 0 || found.Total != 0 {
		t.Fatalf("empty search must return nothing: %+v, %v", found, err)
	}
}

func TestCatalogService_ShopPagesPastDefaultLimit(t *testing.T) {
	repo := repository.New(setupDB(t))
	svc := service.NewCatalogService(repo)
	ctx := context.Background()

	const n = 105
	for i := 0; i < n; i++ {
		p := &models.Product{Name: fmt.Sprintf("Player %03d", i), Description: "strat"}
		if err := repo.Products.Create(ctx, p); err != nil {
			t.Fatalf("create product: %v", err)
		}
	}

	first, err := svc.Shop(ctx, service.ShopFilter{})
	if err != nil {
		t.Fatalf("Shop: %v", err)
	}
	if first.Total != n || len(first.Products) != 100 || first.Limit != 100 || first.Offset != 0 {
		t.Fatalf("first page: total=%d len=%d limit=%d", first.Total, len(first.Products), first.Limit)
	}
	rest, err := svc.Shop(ctx, service.ShopFilter{Offset: 100})
	if err != nil {
		t.Fatalf("Shop offset: %v", err)
	}
	if rest.Total != n || len(rest.Products) != n-100 {
		t.Fatalf("second page: total=%d len=%d", rest.Total, len(rest.Products))
	}

	found, err := svc.Search(ctx, "player", service.ListParams{Limit: 10, Offset: 100})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if found.Total != n || len(found.Products) != 5 || found.Products[0].Name != "Player 100" {
		t.Fatalf("search page: total=%d len=%d", found.Total, len(found.Products))
	}
}

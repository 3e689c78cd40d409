package service_test

import (
	"context"
	"testing"

	"fender-store/internal/migrate"
	"fender-store/internal/models"
	"fender-store/internal/repository"
	"fender-store/pkg/testutil"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.MigrateStoreDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, repo *repository.Repository, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "x", FirstName: "Leo", LastName: "Fender", IsActive: true}
	if err := repo.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedVariant(t *testing.T, repo *repository.Repository, product, color, price string, stock int32) *models.ProductVariant {
	t.Helper()
	p := &models.Product{
		Name:        product,
		Description: product + " description",
		Variants: []models.ProductVariant{
			{Color: color, Price: decimal.RequireFromString(price), Stock: stock, Image: "img.jpg"},
		},
	}
	if err := repo.Products.Create(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return &p.Variants[0]
}

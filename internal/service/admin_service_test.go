package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"fender-store/internal/models"
	"fender-store/internal/repository"
	"fender-store/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newAdminService(t *testing.T) (*service.AdminService, *repository.Repository) {
	t.Helper()
	repo := repository.New(setupDB(t))
	return service.NewAdminService(repo, &MockPasswordHasher{}, nil, zap.NewNop()), repo
}

func variantInput(color, price string, stock int32) service.VariantInput {
	return service.VariantInput{
		Color: color,
		Price: decimal.RequireFromString(price),
		Stock: stock,
		Image: "variants/" + strings.ToLower(color) + ".jpg",
	}
}

func TestAdminService_ProductWithVariants(t *testing.T) {
	svc, _ := newAdminService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, service.CategoryInput{Name: "Basses"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	p, err := svc.CreateProduct(ctx, service.ProductInput{
		Name:        "Jazz Bass",
		Description: "Offset waist",
		CategoryID:  &cat.ID,
		Variants: []service.VariantInput{
			variantInput("Sunburst", "1299.00", 2),
			variantInput("Black", "1199.00", 1),
		},
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if p.Slug != "jazz-bass" || len(p.Variants) != 2 {
		t.Fatalf("unexpected product: slug %q, %d variants", p.Slug, len(p.Variants))
	}
	if p.Variants[0].Color != "Black" {
		t.Fatalf("variants must be ordered by color, got %s first", p.Variants[0].Color)
	}

	// Black обновляется, Sunburst удаляется, Fiesta Red добавляется
	black := p.Variants[0]
	upd := variantInput("Black", "1249.00", 4)
	upd.ID = &black.ID
	p, err = svc.UpdateProduct(ctx, p.ID, service.ProductInput{
		Name:       "Jazz Bass",
		CategoryID: &cat.ID,
		Variants:   []service.VariantInput{upd, variantInput("Fiesta Red", "1399.00", 1)},
	})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if len(p.Variants) != 2 {
		t.Fatalf("expected 2 variants after sync, got %d", len(p.Variants))
	}
	if p.Variants[0].ID != black.ID || !p.Variants[0].Price.Equal(decimal.RequireFromString("1249.00")) || p.Variants[0].Stock != 4 {
		t.Fatalf("black variant not updated in place: %+v", p.Variants[0])
	}
	if p.Variants[1].Color != "Fiesta Red" {
		t.Fatalf("expected new Fiesta Red variant, got %s", p.Variants[1].Color)
	}

	// без variants варианты остаются как есть
	p, err = svc.UpdateProduct(ctx, p.ID, service.ProductInput{Name: "Jazz Bass V", CategoryID: &cat.ID})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if p.Name != "Jazz Bass V" || len(p.Variants) != 2 {
		t.Fatalf("unexpected product after plain update: %q, %d variants", p.Name, len(p.Variants))
	}

	dash, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if dash.Products != 1 || dash.Variants != 2 || dash.Categories != 1 {
		t.Fatalf("unexpected dashboard: %+v", dash)
	}
}

func TestAdminService_UpdateProductRollsBack(t *testing.T) {
	svc, _ := newAdminService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, service.ProductInput{
		Name:     "Telecaster",
		Variants: []service.VariantInput{variantInput("Butterscotch", "999.00", 1)},
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	foreign := uuid.New()
	bad := variantInput("Butterscotch", "1.00", 1)
	bad.ID = &foreign
	_, err = svc.UpdateProduct(ctx, p.ID, service.ProductInput{Name: "Renamed", Variants: []service.VariantInput{bad}})
	if !errors.Is(err, service.ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}

	after, _ := svc.GetProduct(ctx, p.ID)
	if after.Name != "Telecaster" || len(after.Variants) != 1 || !after.Variants[0].Price.Equal(decimal.RequireFromString("999.00")) {
		t.Fatalf("product must be unchanged: %+v", after)
	}
}

func TestAdminService_ValidationAndConflicts(t *testing.T) {
	svc, _ := newAdminService(t)
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, service.CategoryInput{Name: "Guitars"}); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if _, err := svc.CreateCategory(ctx, service.CategoryInput{Name: "Guitars"}); !errors.Is(err, service.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	missing := uuid.New()
	_, err := svc.CreateProduct(ctx, service.ProductInput{Name: "Orphan", CategoryID: &missing})
	var verr *service.ValidationError
	if !errors.As(err, &verr) || verr.Fields[0].Field != "category_id" {
		t.Fatalf("expected category_id error, got %v", err)
	}

	neg := variantInput("Red", "-1.00", 1)
	_, err = svc.CreateProduct(ctx, service.ProductInput{Name: "Cheap", Variants: []service.VariantInput{neg}})
	if !errors.As(err, &verr) || verr.Fields[0].Field != "variants[0].price" {
		t.Fatalf("expected variants[0].price error, got %v", err)
	}

	_, err = svc.CreateVariant(ctx, service.VariantInput{ProductID: uuid.New(), Color: "Red", Price: decimal.NewFromInt(1), Image: "x.jpg"})
	if !errors.As(err, &verr) || verr.Fields[0].Field != "product_id" {
		t.Fatalf("expected product_id error, got %v", err)
	}
}

func TestAdminService_Users(t *testing.T) {
	svc, _ := newAdminService(t)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, service.CreateUserInput{Email: "staff@example.com", Password: "password123", IsActive: true, IsStaff: true})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Password != "hashed_password123" || !u.IsStaff || u.IsSuperuser {
		t.Fatalf("unexpected user: %+v", u)
	}
	if _, err := svc.CreateUser(ctx, service.CreateUserInput{Email: "STAFF@example.com", Password: "password123"}); !errors.Is(err, service.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	inactive := false
	name := "Clarence"
	u, err = svc.UpdateUser(ctx, u.ID, service.UpdateUserInput{IsActive: &inactive, FirstName: &name})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if u.IsActive || u.FirstName != "Clarence" || !u.IsStaff {
		t.Fatalf("unexpected user after update: %+v", u)
	}

	if err := svc.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if err := svc.DeleteUser(ctx, u.ID); !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAdminService_OrdersKeepTotal(t *testing.T) {
	svc, repo := newAdminService(t)
	ctx := context.Background()
	staff := seedUser(t, repo, "staff@example.com")

	in := service.AdminOrderInput{Status: "pending", Shipping: validShipping()}
	o, err := svc.CreateOrder(ctx, staff.ID, in)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !o.TotalAmount.IsZero() || o.UserID == nil || *o.UserID != staff.ID {
		t.Fatalf("unexpected staff order: total %s user %v", o.TotalAmount, o.UserID)
	}

	// сумма задаётся только при checkout
	if err := repo.Orders.UpdateFields(ctx, o.ID, map[string]any{"total_amount": decimal.RequireFromString("45.00")}); err != nil {
		t.Fatalf("seed total: %v", err)
	}

	in.Status = string(models.OrderStatusSending)
	in.IsPaid = true
	in.Shipping.City = "Corona"
	o, err = svc.UpdateOrder(ctx, o.ID, in)
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}
	if o.Status != models.OrderStatusSending || !o.IsPaid || o.Shipping.City != "Corona" {
		t.Fatalf("order not updated: %+v", o)
	}
	if !o.TotalAmount.Equal(decimal.RequireFromString("45.00")) {
		t.Fatalf("total must not change, got %s", o.TotalAmount)
	}

	in.Status = "lost"
	var verr *service.ValidationError
	if _, err := svc.UpdateOrder(ctx, o.ID, in); !errors.As(err, &verr) || verr.Fields[0].Field != "status" {
		t.Fatalf("expected status validation error, got %v", err)
	}

	if err := svc.DeleteOrder(ctx, o.ID); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}
	if _, err := svc.GetOrder(ctx, o.ID); !errors.Is(err, service.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestAdminService_UploadMedia(t *testing.T) {
	ctx := context.Background()

	disabled := service.NewAdminService(&repository.Repository{}, &MockPasswordHasher{}, nil, zap.NewNop())
	if _, err := disabled.UploadMedia(ctx, "variants", "a.jpg", bytes.NewReader(nil), 0); !errors.Is(err, service.ErrStorageDisabled) {
		t.Fatalf("expected ErrStorageDisabled, got %v", err)
	}

	var gotType string
	media := &MockMediaStore{}
	media.UploadFunc = func(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
		gotType = contentType
		return objectName, nil
	}
	svc := service.NewAdminService(&repository.Repository{}, &MockPasswordHasher{}, media, zap.NewNop())

	path, err := svc.UploadMedia(ctx, "variants", "Strat.PNG", strings.NewReader("png"), 3)
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	if !strings.HasPrefix(path, "variants/") || !strings.HasSuffix(path, ".png") {
		t.Fatalf("unexpected object path %q", path)
	}
	if gotType != "image/png" {
		t.Fatalf("expected image/png, got %s", gotType)
	}

	if _, err := svc.UploadMedia(ctx, "../etc", "x.gif", strings.NewReader("gif"), 3); err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	var verr *service.ValidationError
	if _, err := svc.UploadMedia(ctx, "variants", "script.sh", strings.NewReader("#!"), 2); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for non-image, got %v", err)
	}
}

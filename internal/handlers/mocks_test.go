package handlers_test

import (
	"context"
	"io"

	"fender-store/internal/models"
	"fender-store/internal/service"

	"github.com/google/uuid"
)

// ---- cart ----

type mockCart struct {
	GetCartFn    func(ctx context.Context, req service.Requester) (*service.ResolvedCart, *service.CartView, error)
	AddToCartFn  func(ctx context.Context, req service.Requester, variantID uuid.UUID, qty int) (*service.ResolvedCart, *models.CartItem, error)
	RemoveItemFn func(ctx context.Context, req service.Requester, itemID uuid.UUID) (*service.ResolvedCart, error)
	RemoveOneFn  func(ctx context.Context, req service.Requester, itemID uuid.UUID) (*service.ResolvedCart, *models.CartItem, error)
}

func (m *mockCart) GetCart(ctx context.Context, req service.Requester) (*service.ResolvedCart, *service.CartView, error) {
	return m.GetCartFn(ctx, req)
}
func (m *mockCart) AddToCart(ctx context.Context, req service.Requester, variantID uuid.UUID, qty int) (*service.ResolvedCart, *models.CartItem, error) {
	return m.AddToCartFn(ctx, req, variantID, qty)
}
func (m *mockCart) RemoveItem(ctx context.Context, req service.Requester, itemID uuid.UUID) (*service.ResolvedCart, error) {
	return m.RemoveItemFn(ctx, req, itemID)
}
func (m *mockCart) RemoveOne(ctx context.Context, req service.Requester, itemID uuid.UUID) (*service.ResolvedCart, *models.CartItem, error) {
	return m.RemoveOneFn(ctx, req, itemID)
}

// ---- catalog ----

type mockCatalog struct {
	HomeFn          func(ctx context.Context) ([]models.Product, error)
	ShopFn          func(ctx context.Context, f service.ShopFilter) (*service.ShopPage, error)
	CategoriesFn    func(ctx context.Context) ([]models.Category, error)
	ProductDetailFn func(ctx context.Context, slug string, variantID *uuid.UUID) (*service.ProductDetail, error)
	SearchFn        func(ctx context.Context, term string, p service.ListParams) (*service.SearchPage, error)
}

func (m *mockCatalog) Home(ctx context.Context) ([]models.Product, error) { return m.HomeFn(ctx) }
func (m *mockCatalog) Shop(ctx context.Context, f service.ShopFilter) (*service.ShopPage, error) {
	return m.ShopFn(ctx, f)
}
func (m *mockCatalog) Categories(ctx context.Context) ([]models.Category, error) {
	return m.CategoriesFn(ctx)
}
func (m *mockCatalog) ProductDetail(ctx context.Context, slug string, variantID *uuid.UUID) (*service.ProductDetail, error) {
	return m.ProductDetailFn(ctx, slug, variantID)
}
func (m *mockCatalog) Search(ctx context.Context, term string, p service.ListParams) (*service.SearchPage, error) {
	return m.SearchFn(ctx, term, p)
}

// ---- checkout ----

type mockCheckout struct {
	PrepareFn         func(ctx context.Context, req service.Requester) (*service.CheckoutSummary, error)
	CheckoutFn        func(ctx context.Context, req service.Requester, in service.ShippingInput) (*models.Order, error)
	GetConfirmationFn func(ctx context.Context, req service.Requester, orderID uuid.UUID) (*models.Order, error)
}

func (m *mockCheckout) Prepare(ctx context.Context, req service.Requester) (*service.CheckoutSummary, error) {
	return m.PrepareFn(ctx, req)
}
func (m *mockCheckout) Checkout(ctx context.Context, req service.Requester, in service.ShippingInput) (*models.Order, error) {
	return m.CheckoutFn(ctx, req, in)
}
func (m *mockCheckout) GetConfirmation(ctx context.Context, req service.Requester, orderID uuid.UUID) (*models.Order, error) {
	return m.GetConfirmationFn(ctx, req, orderID)
}

// ---- auth ----

type mockAuth struct {
	RegisterFn     func(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	LoginFn        func(ctx context.Context, in service.LoginInput) (*service.AuthResult, error)
	LogoutFn       func(ctx context.Context, token string) error
	AuthenticateFn func(ctx context.Context, token string) (*service.Claims, error)
	ProfileFn      func(ctx context.Context, userID uuid.UUID) (*models.User, []models.Order, error)
}

func (m *mockAuth) Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error) {
	return m.RegisterFn(ctx, in)
}
func (m *mockAuth) Login(ctx context.Context, in service.LoginInput) (*service.AuthResult, error) {
	return m.LoginFn(ctx, in)
}
func (m *mockAuth) Logout(ctx context.Context, token string) error { return m.LogoutFn(ctx, token) }
func (m *mockAuth) Authenticate(ctx context.Context, token string) (*service.Claims, error) {
	return m.AuthenticateFn(ctx, token)
}
func (m *mockAuth) CreateSuperuser(ctx context.Context, in service.CreateUserInput) (*models.User, error) {
	panic("not used")
}
func (m *mockAuth) Profile(ctx context.Context, userID uuid.UUID) (*models.User, []models.Order, error) {
	return m.ProfileFn(ctx, userID)
}

// ---- admin ----

// mockAdmin реализует AdminUseCase; неиспользуемые методы паникуют
type mockAdmin struct {
	CreateProductFn func(ctx context.Context, in service.ProductInput) (*models.Product, error)
	DeleteUserFn    func(ctx context.Context, id uuid.UUID) error
	ListOrdersFn    func(ctx context.Context, p service.ListParams) ([]models.Order, int64, error)
	UploadMediaFn   func(ctx context.Context, folder, filename string, r io.Reader, size int64) (string, error)
}

func (m *mockAdmin) Dashboard(ctx context.Context) (*service.Dashboard, error) {
	return &service.Dashboard{Users: 1, Products: 2}, nil
}
func (m *mockAdmin) ListUsers(ctx context.Context, p service.ListParams) ([]models.User, int64, error) {
	panic("not used")
}
func (m *mockAdmin) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	panic("not used")
}
func (m *mockAdmin) CreateUser(ctx context.Context, in service.CreateUserInput) (*models.User, error) {
	panic("not used")
}
func (m *mockAdmin) UpdateUser(ctx context.Context, id uuid.UUID, in service.UpdateUserInput) (*models.User, error) {
	panic("not used")
}
func (m *mockAdmin) DeleteUser(ctx context.Context, id uuid.UUID) error { return m.DeleteUserFn(ctx, id) }
func (m *mockAdmin) ListCategories(ctx context.Context) ([]models.Category, error) {
	panic("not used")
}
func (m *mockAdmin) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	panic("not used")
}
func (m *mockAdmin) CreateCategory(ctx context.Context, in service.CategoryInput) (*models.Category, error) {
	panic("not used")
}
func (m *mockAdmin) UpdateCategory(ctx context.Context, id uuid.UUID, in service.CategoryInput) (*models.Category, error) {
	panic("not used")
}
func (m *mockAdmin) DeleteCategory(ctx context.Context, id uuid.UUID) error { panic("not used") }
func (m *mockAdmin) ListProducts(ctx context.Context, categoryID *uuid.UUID, p service.ListParams) ([]models.Product, int64, error) {
	panic("not used")
}
func (m *mockAdmin) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	panic("not used")
}
func (m *mockAdmin) CreateProduct(ctx context.Context, in service.ProductInput) (*models.Product, error) {
	return m.CreateProductFn(ctx, in)
}
func (m *mockAdmin) UpdateProduct(ctx context.Context, id uuid.UUID, in service.ProductInput) (*models.Product, error) {
	panic("not used")
}
func (m *mockAdmin) DeleteProduct(ctx context.Context, id uuid.UUID) error { panic("not used") }
func (m *mockAdmin) ListVariants(ctx context.Context, p service.ListParams) ([]models.ProductVariant, int64, error) {
	panic("not used")
}
func (m *mockAdmin) GetVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	panic("not used")
}
func (m *mockAdmin) CreateVariant(ctx context.Context, in service.VariantInput) (*models.ProductVariant, error) {
	panic("not used")
}
func (m *mockAdmin) UpdateVariant(ctx context.Context, id uuid.UUID, in service.VariantInput) (*models.ProductVariant, error) {
	panic("not used")
}
func (m *mockAdmin) DeleteVariant(ctx context.Context, id uuid.UUID) error { panic("not used") }
func (m *mockAdmin) ListOrders(ctx context.Context, p service.ListParams) ([]models.Order, int64, error) {
	return m.ListOrdersFn(ctx, p)
}
func (m *mockAdmin) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	panic("not used")
}
func (m *mockAdmin) CreateOrder(ctx context.Context, staffID uuid.UUID, in service.AdminOrderInput) (*models.Order, error) {
	panic("not used")
}
func (m *mockAdmin) UpdateOrder(ctx context.Context, id uuid.UUID, in service.AdminOrderInput) (*models.Order, error) {
	panic("not used")
}
func (m *mockAdmin) DeleteOrder(ctx context.Context, id uuid.UUID) error { panic("not used") }
func (m *mockAdmin) UploadMedia(ctx context.Context, folder, filename string, r io.Reader, size int64) (string, error) {
	return m.UploadMediaFn(ctx, folder, filename, r, size)
}

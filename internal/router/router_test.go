package router_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fender-store/internal/models"
	"fender-store/internal/router"
	"fender-store/internal/service"
	"fender-store/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type homeOnly struct{}

func (homeOnly) Home(ctx context.Context) ([]models.Product, error) {
	return []models.Product{{Name: "Stratocaster"}}, nil
}
func (homeOnly) Shop(ctx context.Context, f service.ShopFilter) (*service.ShopPage, error) {
	return nil, service.ErrCategoryNotFound
}
func (homeOnly) Categories(ctx context.Context) ([]models.Category, error) { return nil, nil }
func (homeOnly) ProductDetail(ctx context.Context, slug string, variantID *uuid.UUID) (*service.ProductDetail, error) {
	return nil, service.ErrProductNotFound
}
func (homeOnly) Search(ctx context.Context, term string, p service.ListParams) (*service.SearchPage, error) {
	return nil, nil
}

func setup(ping func(context.Context) error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return router.Router(router.Deps{
		Catalog:  homeOnly{},
		Sessions: session.NewStore("0123456789abcdef0123456789abcdef", time.Hour, false),
		Ping:     ping,
	}, zap.NewNop())
}

func get(r http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	assert.Equal(t, http.StatusOK, get(setup(nil), http.MethodGet, "/health").Code)

	down := setup(func(context.Context) error { return errors.New("db down") })
	assert.Equal(t, http.StatusServiceUnavailable, get(down, http.MethodGet, "/health").Code)
}

func TestPublicCatalogRoutes(t *testing.T) {
	r := setup(nil)

	w := get(r, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Stratocaster")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusNotFound, get(r, http.MethodGet, "/shop?category=missing").Code)
	assert.Equal(t, http.StatusNotFound, get(r, http.MethodGet, "/product/nope").Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := setup(nil)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/profile"},
		{http.MethodGet, "/checkout"},
		{http.MethodPost, "/checkout"},
		{http.MethodGet, "/order/00000000-0000-0000-0000-000000000000/confirmation"},
		{http.MethodGet, "/admin-panel"},
		{http.MethodGet, "/admin-panel/products"},
		{http.MethodDelete, "/admin-panel/orders/00000000-0000-0000-0000-000000000000"},
		{http.MethodPost, "/admin-panel/media"},
	} {
		assert.Equal(t, http.StatusUnauthorized, get(r, tc.method, tc.path).Code, tc.method+" "+tc.path)
	}
}

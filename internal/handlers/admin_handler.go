package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"fender-store/internal/dto"
	"fender-store/internal/middleware"
	"fender-store/internal/models"
	"fender-store/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxListLimit   = 200
	maxUploadBytes = 10 << 20
)

type AdminUseCase interface {
	Dashboard(ctx context.Context) (*service.Dashboard, error)

	ListUsers(ctx context.Context, p service.ListParams) ([]models.User, int64, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, in service.CreateUserInput) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, in service.UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, in service.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in service.CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context, categoryID *uuid.UUID, p service.ListParams) ([]models.Product, int64, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, in service.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in service.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListVariants(ctx context.Context, p service.ListParams) ([]models.ProductVariant, int64, error)
	GetVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	CreateVariant(ctx context.Context, in service.VariantInput) (*models.ProductVariant, error)
	UpdateVariant(ctx context.Context, id uuid.UUID, in service.VariantInput) (*models.ProductVariant, error)
	DeleteVariant(ctx context.Context, id uuid.UUID) error

	ListOrders(ctx context.Context, p service.ListParams) ([]models.Order, int64, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	CreateOrder(ctx context.Context, staffID uuid.UUID, in service.AdminOrderInput) (*models.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, in service.AdminOrderInput) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error

	UploadMedia(ctx context.Context, folder, filename string, r io.Reader, size int64) (string, error)
}

type AdminHandler struct {
	admin AdminUseCase
	log   *zap.Logger
}

func NewAdminHandler(admin AdminUseCase, log *zap.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, log: log}
}

func listParams(c *gin.Context) service.ListParams {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return service.ListParams{Limit: limit, Offset: offset}
}

func listResponse[T any](c *gin.Context, items []T, total int64, p service.ListParams) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, dto.ListResponse[T]{Items: items, Total: total, Limit: p.Limit, Offset: p.Offset})
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	d, err := h.admin.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Users

func (h *AdminHandler) ListUsers(c *gin.Context) {
	p := listParams(c)
	list, total, err := h.admin.ListUsers(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	listResponse(c, list, total, p)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	u, err := h.admin.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var in service.CreateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	u, err := h.admin.CreateUser(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in service.UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	u, err := h.admin.UpdateUser(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Categories

func (h *AdminHandler) ListCategories(c *gin.Context) {
	list, err := h.admin.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	listResponse(c, list, int64(len(list)), service.ListParams{})
}

func (h *AdminHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cat, err := h.admin.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var in service.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	cat, err := h.admin.CreateCategory(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in service.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	cat, err := h.admin.UpdateCategory(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Products

func (h *AdminHandler) ListProducts(c *gin.Context) {
	p := listParams(c)
	// неизвестная или битая категория игнорируется
	var categoryID *uuid.UUID
	if raw := c.Query("category"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			categoryID = &id
		}
	}
	list, total, err := h.admin.ListProducts(c.Request.Context(), categoryID, p)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	listResponse(c, list, total, p)
}

func (h *AdminHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.admin.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	p, err := h.admin.CreateProduct(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	p, err := h.admin.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Variants

func (h *AdminHandler) ListVariants(c *gin.Context) {
	p := listParams(c)
	list, total, err := h.admin.ListVariants(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	listResponse(c, list, total, p)
}

func (h *AdminHandler) GetVariant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	v, err := h.admin.GetVariant(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *AdminHandler) CreateVariant(c *gin.Context) {
	var in service.VariantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	v, err := h.admin.CreateVariant(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *AdminHandler) UpdateVariant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in service.VariantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	v, err := h.admin.UpdateVariant(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *AdminHandler) DeleteVariant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteVariant(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Orders

func (h *AdminHandler) ListOrders(c *gin.Context) {
	p := listParams(c)
	list, total, err := h.admin.ListOrders(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	listResponse(c, list, total, p)
}

func (h *AdminHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	o, err := h.admin.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *AdminHandler) CreateOrder(c *gin.Context) {
	var in service.AdminOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	staffID, _ := middleware.UserID(c)
	o, err := h.admin.CreateOrder(c.Request.Context(), staffID, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *AdminHandler) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in service.AdminOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	o, err := h.admin.UpdateOrder(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Media

func (h *AdminHandler) UploadMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		h.log.Warn("Invalid media upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("file is required", []dto.FieldError{
			{Field: "file", Message: "required", Tag: "required"},
		}))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer f.Close()

	stored, err := h.admin.UploadMedia(c.Request.Context(), c.PostForm("folder"), fh.Filename, f, fh.Size)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MediaResponse{Path: stored})
}

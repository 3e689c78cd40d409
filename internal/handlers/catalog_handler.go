package handlers

import (
	"context"
	"net/http"

	"fender-store/internal/models"
	"fender-store/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogUseCase interface {
	Home(ctx context.Context) ([]models.Product, error)
	Shop(ctx context.Context, f service.ShopFilter) (*service.ShopPage, error)
	Categories(ctx context.Context) ([]models.Category, error)
	ProductDetail(ctx context.Context, slug string, variantID *uuid.UUID) (*service.ProductDetail, error)
	Search(ctx context.Context, term string, p service.ListParams) (*service.SearchPage, error)
}

type CatalogHandler struct {
	catalog CatalogUseCase
	log     *zap.Logger
}

func NewCatalogHandler(catalog CatalogUseCase, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log}
}

func (h *CatalogHandler) Home(c *gin.Context) {
	products, err := h.catalog.Home(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *CatalogHandler) Shop(c *gin.Context) {
	p := listParams(c)
	page, err := h.catalog.Shop(c.Request.Context(), service.ShopFilter{
		Query:        c.Query("query"),
		CategorySlug: c.Query("category"),
		Limit:        p.Limit,
		Offset:       p.Offset,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	cats, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

func (h *CatalogHandler) ProductDetail(c *gin.Context) {
	// неизвестный или битый variant_id просто даёт первый вариант
	var variantID *uuid.UUID
	if raw := c.Query("variant_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			variantID = &id
		}
	}

	detail, err := h.catalog.ProductDetail(c.Request.Context(), c.Param("slug"), variantID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *CatalogHandler) Search(c *gin.Context) {
	page, err := h.catalog.Search(c.Request.Context(), c.Query("search"), listParams(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

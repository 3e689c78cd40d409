package handlers

import (
	"context"
	"net/http"

	"fender-store/internal/dto"
	"fender-store/internal/middleware"
	"fender-store/internal/models"
	"fender-store/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartUseCase interface {
	GetCart(ctx context.Context, req service.Requester) (*service.ResolvedCart, *service.CartView, error)
	AddToCart(ctx context.Context, req service.Requester, variantID uuid.UUID, qty int) (*service.ResolvedCart, *models.CartItem, error)
	RemoveItem(ctx context.Context, req service.Requester, itemID uuid.UUID) (*service.ResolvedCart, error)
	RemoveOne(ctx context.Context, req service.Requester, itemID uuid.UUID) (*service.ResolvedCart, *models.CartItem, error)
}

type CartHandler struct {
	carts    CartUseCase
	sessions middleware.SessionStore
	log      *zap.Logger
}

func NewCartHandler(carts CartUseCase, sessions middleware.SessionStore, log *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, sessions: sessions, log: log}
}

// persistSession отправляет браузеру только что выпущенный ключ сессии
func (h *CartHandler) persistSession(c *gin.Context, rc *service.ResolvedCart) {
	if rc == nil || !rc.SessionCreated {
		return
	}
	if err := h.sessions.Save(c.Writer, c.Request, rc.SessionKey); err != nil {
		h.log.Error("Failed to save session cookie", zap.Error(err))
	}
}

func (h *CartHandler) Detail(c *gin.Context) {
	rc, view, err := h.carts.GetCart(c.Request.Context(), middleware.RequesterFrom(c))
	h.persistSession(c, rc)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartResponse(view))
}

// rawQuantity читает quantity из JSON тела, формы или query
func rawQuantity(c *gin.Context) string {
	if c.ContentType() == gin.MIMEJSON {
		var req dto.AddToCartRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			return req.Raw()
		}
		return ""
	}
	return c.PostForm("quantity")
}

func (h *CartHandler) Add(c *gin.Context) {
	variantID, ok := parseID(c, "variant_id")
	if !ok {
		return
	}
	qty := service.ParseQuantity(rawQuantity(c))

	rc, item, err := h.carts.AddToCart(c.Request.Context(), middleware.RequesterFrom(c), variantID, qty)
	h.persistSession(c, rc)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart_id": rc.Cart.ID, "item": item})
}

func (h *CartHandler) Remove(c *gin.Context) {
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}
	rc, err := h.carts.RemoveItem(c.Request.Context(), middleware.RequesterFrom(c), itemID)
	h.persistSession(c, rc)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("item removed"))
}

func (h *CartHandler) RemoveOne(c *gin.Context) {
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}
	rc, item, err := h.carts.RemoveOne(c.Request.Context(), middleware.RequesterFrom(c), itemID)
	h.persistSession(c, rc)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart_id": rc.Cart.ID, "item": item, "removed": item == nil})
}

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

type CheckoutUseCase interface {
	Prepare(ctx context.Context, req service.Requester) (*service.CheckoutSummary, error)
	Checkout(ctx context.Context, req service.Requester, in service.ShippingInput) (*models.Order, error)
	GetConfirmation(ctx context.Context, req service.Requester, orderID uuid.UUID) (*models.Order, error)
}

type CheckoutHandler struct {
	checkout CheckoutUseCase
	log      *zap.Logger
}

func NewCheckoutHandler(checkout CheckoutUseCase, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, log: log}
}

func (h *CheckoutHandler) Summary(c *gin.Context) {
	summary, err := h.checkout.Prepare(c.Request.Context(), middleware.RequesterFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCheckoutSummary(summary))
}

// Place оформляет заказ. Форма с ошибками возвращается вместе с введёнными
// данными и суммой, сбой транзакции отдаёт 503 с предложением повторить.
func (h *CheckoutHandler) Place(c *gin.Context) {
	var in service.ShippingInput
	if c.ContentType() == gin.MIMEJSON {
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequestBody(c, h.log, err)
			return
		}
	} else if err := c.ShouldBind(&in); err != nil {
		badRequestBody(c, h.log, err)
		return
	}

	order, err := h.checkout.Checkout(c.Request.Context(), middleware.RequesterFrom(c), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Header("Location", "/order/"+order.ID.String()+"/confirmation")
	c.JSON(http.StatusCreated, order)
}

func (h *CheckoutHandler) Confirmation(c *gin.Context) {
	orderID, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	order, err := h.checkout.GetConfirmation(c.Request.Context(), middleware.RequesterFrom(c), orderID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItemEvent struct {
	VariantID   uuid.UUID       `json:"variant_id"`
	ProductName string          `json:"product_name"`
	Color       string          `json:"color"`
	Quantity    int32           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type OrderPlacedEvent struct {
	OrderID   uuid.UUID        `json:"order_id"`
	UserID    uuid.UUID        `json:"user_id"`
	Email     string           `json:"email"`
	FullName  string           `json:"full_name"`
	Items     []OrderItemEvent `json:"items"`
	Total     decimal.Decimal  `json:"total"`
	CreatedAt time.Time        `json:"created_at"`
}

// EventBus публикует доменные события; nil отключает публикацию.
type EventBus interface {
	PublishOrderPlaced(ctx context.Context, e OrderPlacedEvent) error
}

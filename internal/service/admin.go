package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Dashboard struct {
	Users      int64 `json:"users"`
	Categories int64 `json:"categories"`
	Products   int64 `json:"products"`
	Variants   int64 `json:"variants"`
	Orders     int64 `json:"orders"`
}

type UpdateUserInput struct {
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	FirstName   *string `json:"first_name" validate:"omitempty,max=150"`
	LastName    *string `json:"last_name" validate:"omitempty,max=150"`
	IsActive    *bool   `json:"is_active"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
}

type CategoryInput struct {
	Name  string  `json:"name" validate:"required,max=255"`
	Slug  string  `json:"slug" validate:"omitempty,max=255"`
	Image *string `json:"image" validate:"omitempty,max=1024"`
}

type VariantInput struct {
	ID             *uuid.UUID      `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Color          string          `json:"color" validate:"required,max=100"`
	ModelNumber    *string         `json:"model_number" validate:"omitempty,max=100"`
	Price          decimal.Decimal `json:"price"`
	Stock          int32           `json:"stock" validate:"gte=0"`
	Image          string          `json:"image" validate:"required,max=1024"`
	SecondaryImage *string         `json:"secondary_image" validate:"omitempty,max=1024"`
	VideoURL       *string         `json:"video_url" validate:"omitempty,url,max=1024"`
}

type ProductInput struct {
	Name        string     `json:"name" validate:"required,max=255"`
	Description string     `json:"description" validate:"max=10000"`
	Slug        string     `json:"slug" validate:"omitempty,max=255"`
	CategoryID  *uuid.UUID `json:"category_id"`
	// nil при обновлении оставляет варианты как есть
	Variants []VariantInput `json:"variants" validate:"omitempty,dive"`
}

type AdminOrderInput struct {
	Status   string        `json:"status" validate:"required,oneof=pending paid sending completed"`
	IsPaid   bool          `json:"is_paid"`
	Shipping ShippingInput `json:"shipping"`
}

type ListParams struct {
	Limit  int
	Offset int
}

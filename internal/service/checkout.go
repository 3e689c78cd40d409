package service

import (
	"fender-store/internal/models"

	"github.com/shopspring/decimal"
)

type StockPolicy string

const (
	// StockPolicyReject отклоняет заказ, если остатка не хватает
	StockPolicyReject StockPolicy = "reject"
	// StockPolicyBackorder списывает без проверки, остаток может стать отрицательным
	StockPolicyBackorder StockPolicy = "backorder"
)

// ShippingInput is the checkout shipping form. Every field except
// AddressLine2 is required.
type ShippingInput struct {
	FullName     string `json:"full_name" form:"full_name" validate:"required,max=255"`
	AddressLine1 string `json:"address_line1" form:"address_line1" validate:"required,max=255"`
	AddressLine2 string `json:"address_line2" form:"address_line2" validate:"omitempty,max=255"`
	City         string `json:"city" form:"city" validate:"required,max=100"`
	State        string `json:"state" form:"state" validate:"required,max=100"`
	PostalCode   string `json:"postal_code" form:"postal_code" validate:"required,max=20"`
	Country      string `json:"country" form:"country" validate:"required,max=100"`
	Phone        string `json:"phone" form:"phone" validate:"required,max=20"`
}

func (in ShippingInput) address() models.ShippingAddress {
	return models.ShippingAddress{
		FullName:     in.FullName,
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		City:         in.City,
		State:        in.State,
		PostalCode:   in.PostalCode,
		Country:      in.Country,
		Phone:        in.Phone,
	}
}

// CheckoutSummary is what the checkout page shows before submission.
type CheckoutSummary struct {
	Lines    []CartLine      `json:"lines"`
	Total    decimal.Decimal `json:"total"`
	Shipping ShippingInput   `json:"shipping"`
}

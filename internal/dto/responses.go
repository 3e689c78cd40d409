package dto

import (
	"encoding/json"
	"strings"

	"fender-store/internal/models"
	"fender-store/internal/service"

	"github.com/shopspring/decimal"
)

type SuccessResponse struct {
	Message string `json:"message"`
}

func NewSuccessResponse(msg string) SuccessResponse {
	return SuccessResponse{Message: msg}
}

type ListResponse[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// AddToCartRequest принимает quantity числом или строкой
type AddToCartRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

func (r AddToCartRequest) Raw() string {
	return strings.Trim(strings.TrimSpace(string(r.Quantity)), `"`)
}

type CartLineResponse struct {
	ID        string          `json:"id"`
	VariantID string          `json:"variant_id"`
	Product   string          `json:"product"`
	Slug      string          `json:"slug"`
	Color     string          `json:"color"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int32           `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartResponse struct {
	ID    string             `json:"id"`
	Lines []CartLineResponse `json:"lines"`
	Total decimal.Decimal    `json:"total"`
}

func NewCartLine(l service.CartLine) CartLineResponse {
	out := CartLineResponse{
		ID:        l.Item.ID.String(),
		VariantID: l.Item.VariantID.String(),
		Quantity:  l.Item.Quantity,
		LineTotal: l.LineTotal,
	}
	if v := l.Item.Variant; v != nil {
		out.Color, out.Image, out.Price = v.Color, v.Image, v.Price
		if v.Product != nil {
			out.Product, out.Slug = v.Product.Name, v.Product.Slug
		}
	}
	return out
}

func NewCartResponse(v *service.CartView) CartResponse {
	out := CartResponse{ID: v.Cart.ID.String(), Total: v.Total, Lines: make([]CartLineResponse, 0, len(v.Lines))}
	for _, l := range v.Lines {
		out.Lines = append(out.Lines, NewCartLine(l))
	}
	return out
}

type CheckoutSummaryResponse struct {
	Lines    []CartLineResponse    `json:"lines"`
	Total    decimal.Decimal       `json:"total"`
	Shipping service.ShippingInput `json:"shipping"`
}

func NewCheckoutSummary(s *service.CheckoutSummary) CheckoutSummaryResponse {
	out := CheckoutSummaryResponse{Total: s.Total, Shipping: s.Shipping, Lines: make([]CartLineResponse, 0, len(s.Lines))}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, NewCartLine(l))
	}
	return out
}

// CheckoutFormErrorResponse 400: ошибки формы доставки вместе с введёнными данными и суммой
type CheckoutFormErrorResponse struct {
	BaseError
	Shipping service.ShippingInput `json:"shipping"`
	Total    decimal.Decimal       `json:"total"`
}

type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   int64        `json:"expires_at"`
}

func NewAuthResponse(r *service.AuthResult) AuthResponse {
	return AuthResponse{User: r.User, AccessToken: r.Token.Token, ExpiresAt: r.Token.ExpiresAt.Unix()}
}

type ProfileResponse struct {
	User   *models.User   `json:"user"`
	Orders []models.Order `json:"orders"`
}

type MediaResponse struct {
	Path string `json:"path"`
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrVariantNotFound    = errors.New("variant not found")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrQuantityInvalid    = errors.New("quantity must be >= 1")
	ErrQuantityTooLarge   = errors.New("quantity is too large")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrEmailExists        = errors.New("email already exists")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrTooManyRequests    = errors.New("too many requests")
	ErrStorageDisabled    = errors.New("media storage is not configured")
)

// FieldError описывает нарушение по одному полю входных данных.
type FieldError struct {
	Field   string
	Message string
	Tag     string
}

// ValidationError is returned when input fails validation; no state has been changed.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// CheckoutFormError is a shipping form validation failure. It carries the
// submitted input and the cart total so the form can be shown again.
type CheckoutFormError struct {
	Validation *ValidationError
	Input      ShippingInput
	Total      decimal.Decimal
}

func (e *CheckoutFormError) Error() string { return e.Validation.Error() }

func (e *CheckoutFormError) Unwrap() error { return e.Validation }

// CheckoutError is a failure inside the order transaction. Nothing was
// written and the cart is unchanged.
type CheckoutError struct {
	Err error
}

func (e *CheckoutError) Error() string { return fmt.Sprintf("checkout failed: %v", e.Err) }

func (e *CheckoutError) Unwrap() error { return e.Err }

// Retryable is false when the request itself was cancelled.
func (e *CheckoutError) Retryable() bool {
	return !errors.Is(e.Err, context.Canceled) && !errors.Is(e.Err, context.DeadlineExceeded)
}

// IsNotFound сообщает, относится ли ошибка к классу "не найдено".
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrUserNotFound, ErrCategoryNotFound, ErrProductNotFound,
		ErrVariantNotFound, ErrCartItemNotFound, ErrOrderNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

package handlers

import (
	"errors"
	"net/http"

	"fender-store/internal/dto"
	"fender-store/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// cartPath куда отправляем клиента, когда оформлять нечего
const cartPath = "/cart"

func toFieldErrors(verr *service.ValidationError) []dto.FieldError {
	out := make([]dto.FieldError, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		out = append(out, dto.FieldError{Field: f.Field, Message: f.Message, Tag: f.Tag})
	}
	return out
}

func badRequestBody(c *gin.Context, log *zap.Logger, err error) {
	log.Warn("Invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
}

// parseID читает uuid из параметра пути; неверный формат считается "не найдено"
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("not found"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError переводит ошибку сервиса в единый JSON конверт
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var (
		formErr     *service.CheckoutFormError
		verr        *service.ValidationError
		checkoutErr *service.CheckoutError
	)

	switch {
	case errors.As(err, &formErr):
		c.JSON(http.StatusBadRequest, dto.CheckoutFormErrorResponse{
			BaseError: dto.BaseError(dto.NewValidationError("invalid shipping details", toFieldErrors(formErr.Validation))),
			Shipping:  formErr.Input,
			Total:     formErr.Total,
		})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.NewValidationError("validation failed", toFieldErrors(verr)))
	case errors.As(err, &checkoutErr):
		c.JSON(http.StatusServiceUnavailable, dto.NewCheckoutFailedError(checkoutErr.Retryable()))
	case errors.Is(err, service.ErrQuantityInvalid):
		c.JSON(http.StatusBadRequest, dto.NewValidationError("validation failed", []dto.FieldError{
			{Field: "quantity", Message: "must be a whole number >= 1", Tag: "min"},
		}))
	case errors.Is(err, service.ErrQuantityTooLarge):
		c.JSON(http.StatusBadRequest, dto.NewValidationError("validation failed", []dto.FieldError{
			{Field: "quantity", Message: "must be <= 2147483647", Tag: "max"},
		}))
	case errors.Is(err, service.ErrEmptyCart):
		c.Header("Location", cartPath)
		c.JSON(http.StatusSeeOther, dto.BaseError{Code: "empty_cart", Message: "your cart is empty"})
	case service.IsNotFound(err):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))
	case errors.Is(err, service.ErrInsufficientStock):
		c.JSON(http.StatusConflict, dto.NewConflictError("not enough stock for one of the items in your cart"))
	case errors.Is(err, service.ErrEmailExists):
		c.JSON(http.StatusConflict, dto.NewConflictError("user with this email already exists"))
	case errors.Is(err, service.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.NewConflictError("resource already exists"))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid email or password"))
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrTokenRevoked):
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("authentication required"))
	case errors.Is(err, service.ErrInactiveUser):
		c.JSON(http.StatusForbidden, dto.NewForbiddenError("user is inactive"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.NewForbiddenError("forbidden"))
	case errors.Is(err, service.ErrTooManyRequests):
		c.JSON(http.StatusTooManyRequests, dto.NewRateLimitedError("too many attempts, try again later"))
	case errors.Is(err, service.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, dto.BaseError{Code: "storage_disabled", Message: err.Error()})
	default:
		log.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
	}
}

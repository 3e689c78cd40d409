package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"fender-store/internal/models"
	"fender-store/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutService struct {
	repo   *repository.Repository
	events EventBus
	policy StockPolicy
	now    func() time.Time
	log    *zap.Logger
}

func NewCheckoutService(repo *repository.Repository, events EventBus, policy StockPolicy, log *zap.Logger) *CheckoutService {
	if policy == "" {
		policy = StockPolicyReject
	}
	return &CheckoutService{
		repo:   repo,
		events: events,
		policy: policy,
		now:    time.Now,
		log:    log,
	}
}

func (s *CheckoutService) requireUser(ctx context.Context, req Requester) (*models.User, error) {
	if req.UserID == nil {
		return nil, ErrUnauthorized
	}
	u, err := s.repo.Users.GetByID(ctx, *req.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, ErrUnauthorized
	}
	return u, nil
}

func (s *CheckoutService) loadCart(ctx context.Context, userID uuid.UUID) (*models.Cart, []models.CartItem, error) {
	cart, _, err := s.repo.Carts.GetOrCreateForUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve user cart: %w", err)
	}
	items, err := s.repo.CartItems.ListByCart(ctx, cart.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list cart items: %w", err)
	}
	if len(items) == 0 {
		return cart, nil, ErrEmptyCart
	}
	return cart, items, nil
}

// Prepare returns the cart lines, the total and a shipping form prefilled
// with the user's name.
func (s *CheckoutService) Prepare(ctx context.Context, req Requester) (*CheckoutSummary, error) {
	u, err := s.requireUser(ctx, req)
	if err != nil {
		return nil, err
	}
	_, items, err := s.loadCart(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	total, lines := cartTotal(items)
	return &CheckoutSummary{
		Lines:    lines,
		Total:    total,
		Shipping: ShippingInput{FullName: strings.TrimSpace(u.FirstName + " " + u.LastName)},
	}, nil
}

// Checkout turns the requester's cart into a paid pending order. Order,
// order items, stock decrements and cart clearing run in one transaction.
func (s *CheckoutService) Checkout(ctx context.Context, req Requester, in ShippingInput) (*models.Order, error) {
	u, err := s.requireUser(ctx, req)
	if err != nil {
		return nil, err
	}
	cart, items, err := s.loadCart(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	// Цены берутся из только что прочитанных вариантов
	total, _ := cartTotal(items)

	if err := Validate(in); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, &CheckoutFormError{Validation: verr, Input: in, Total: total}
		}
		return nil, err
	}

	now := s.now()
	order := &models.Order{
		UserID:      &u.ID,
		TotalAmount: total,
		IsPaid:      true,
		Status:      models.OrderStatusPending,
		Shipping:    in.address(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var orderItems []models.OrderItem
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		orderItems = make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			vid := it.VariantID
			orderItems = append(orderItems, models.OrderItem{
				OrderID:   order.ID,
				VariantID: &vid,
				Quantity:  it.Quantity,
				Price:     it.Variant.Price,
				CreatedAt: now,
			})
		}
		if err := tx.OrderItems.BulkCreate(ctx, orderItems); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		// единый порядок блокировки строк вариантов между параллельными checkout
		byVariant := slices.Clone(items)
		sort.Slice(byVariant, func(i, j int) bool {
			return byVariant[i].VariantID.String() < byVariant[j].VariantID.String()
		})
		for _, it := range byVariant {
			if err := s.decrementStock(ctx, tx.Variants, it); err != nil {
				return err
			}
		}

		// удаляем только оформленные строки, добавленные параллельно остаются в корзине
		consumed := make([]uuid.UUID, 0, len(items))
		for _, it := range items {
			consumed = append(consumed, it.ID)
		}
		if _, err := tx.CartItems.DeleteByIDs(ctx, cart.ID, consumed); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrVariantNotFound) {
			s.log.Warn("Checkout rejected",
				zap.String("cart_id", cart.ID.String()),
				zap.String("user_id", u.ID.String()),
				zap.Error(err))
			return nil, err
		}
		s.log.Error("Checkout transaction failed",
			zap.String("cart_id", cart.ID.String()),
			zap.String("user_id", u.ID.String()),
			zap.Error(err))
		return nil, &CheckoutError{Err: err}
	}

	order.Items = orderItems
	s.log.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", u.ID.String()),
		zap.String("total", total.StringFixed(2)),
		zap.Int("items", len(orderItems)))

	s.publishOrderPlaced(ctx, u, order, items)
	return order, nil
}

func (s *CheckoutService) decrementStock(ctx context.Context, variants repository.VariantRepo, it models.CartItem) error {
	var (
		ok  bool
		err error
	)
	switch s.policy {
	case StockPolicyBackorder:
		ok, err = variants.DecrementStock(ctx, it.VariantID, it.Quantity)
	default:
		ok, err = variants.TryDecrementStock(ctx, it.VariantID, it.Quantity)
	}
	if err != nil {
		return fmt.Errorf("decrement stock %s: %w", it.VariantID, err)
	}
	if ok {
		return nil
	}
	if s.policy == StockPolicyBackorder {
		return fmt.Errorf("%w: %s", ErrVariantNotFound, it.VariantID)
	}
	return fmt.Errorf("%w: variant %s, requested %d", ErrInsufficientStock, it.VariantID, it.Quantity)
}

func (s *CheckoutService) publishOrderPlaced(ctx context.Context, u *models.User, order *models.Order, items []models.CartItem) {
	if s.events == nil {
		return
	}

	evItems := make([]OrderItemEvent, 0, len(items))
	for _, it := range items {
		ev := OrderItemEvent{
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			Price:     it.Variant.Price,
			LineTotal: it.LineTotal(),
			Color:     it.Variant.Color,
		}
		if it.Variant.Product != nil {
			ev.ProductName = it.Variant.Product.Name
		}
		evItems = append(evItems, ev)
	}

	// заказ уже зафиксирован, ошибка публикации его не откатывает
	if err := s.events.PublishOrderPlaced(ctx, OrderPlacedEvent{
		OrderID:   order.ID,
		UserID:    u.ID,
		Email:     u.Email,
		FullName:  order.Shipping.FullName,
		Items:     evItems,
		Total:     order.TotalAmount,
		CreatedAt: order.CreatedAt,
	}); err != nil {
		s.log.Warn("Failed to publish order placed event",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}
}

// GetConfirmation returns the order only when it belongs to the requester.
func (s *CheckoutService) GetConfirmation(ctx context.Context, req Requester, orderID uuid.UUID) (*models.Order, error) {
	if req.UserID == nil {
		return nil, ErrUnauthorized
	}
	ord, err := s.repo.Orders.GetByIDForUser(ctx, orderID, *req.UserID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

package service

import (
	"context"
	"fmt"

	"fender-store/internal/models"
	"fender-store/internal/repository"

	"github.com/google/uuid"
	"github.com/nanorand/nanorand"
	"go.uber.org/zap"
)

const sessionKeyLength = 32

type CartService struct {
	carts    repository.CartRepo
	items    repository.CartItemRepo
	variants repository.VariantRepo

	newSessionKey func() (string, error)
	log           *zap.Logger
}

func NewCartService(repo *repository.Repository, log *zap.Logger) *CartService {
	return &CartService{
		carts:    repo.Carts,
		items:    repo.CartItems,
		variants: repo.Variants,
		newSessionKey: func() (string, error) {
			return nanorand.Gen(sessionKeyLength)
		},
		log: log,
	}
}

// ResolveCart returns the single cart of the requester, creating the cart
// and, for an anonymous visitor without one, the session key.
func (s *CartService) ResolveCart(ctx context.Context, req Requester) (*ResolvedCart, error) {
	if req.UserID != nil {
		cart, created, err := s.carts.GetOrCreateForUser(ctx, *req.UserID)
		if err != nil {
			return nil, fmt.Errorf("resolve user cart: %w", err)
		}
		return &ResolvedCart{Cart: cart, CartCreated: created}, nil
	}

	res := &ResolvedCart{SessionKey: req.SessionKey}
	if res.SessionKey == "" {
		key, err := s.newSessionKey()
		if err != nil {
			return nil, fmt.Errorf("generate session key: %w", err)
		}
		res.SessionKey = key
		res.SessionCreated = true
	}

	cart, created, err := s.carts.GetOrCreateForSession(ctx, res.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("resolve session cart: %w", err)
	}
	res.Cart = cart
	res.CartCreated = created
	return res, nil
}

// AddToCart adds qty units of the variant. Re-adding a variant increments the
// existing line. Stock is not checked here.
func (s *CartService) AddToCart(ctx context.Context, req Requester, variantID uuid.UUID, qty int) (*ResolvedCart, *models.CartItem, error) {
	v, err := s.variants.GetByID(ctx, variantID)
	if err != nil {
		return nil, nil, err
	}
	if v == nil {
		return nil, nil, ErrVariantNotFound
	}
	if qty < 1 {
		return nil, nil, ErrQuantityInvalid
	}
	if qty > int(repository.MaxLineQuantity) {
		return nil, nil, ErrQuantityTooLarge
	}

	rc, err := s.ResolveCart(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	item, err := s.items.AddQuantity(ctx, rc.Cart.ID, v.ID, int32(qty))
	if err != nil {
		return nil, nil, fmt.Errorf("add cart item: %w", err)
	}
	if item == nil {
		// строка осталась прежней, сумма не влезла в int32
		return rc, nil, ErrQuantityTooLarge
	}
	s.log.Debug("Item added to cart",
		zap.String("cart_id", rc.Cart.ID.String()),
		zap.String("variant_id", v.ID.String()),
		zap.Int("quantity", qty))
	return rc, item, nil
}

// RemoveItem deletes the line regardless of its quantity.
func (s *CartService) RemoveItem(ctx context.Context, req Requester, itemID uuid.UUID) (*ResolvedCart, error) {
	rc, err := s.ResolveCart(ctx, req)
	if err != nil {
		return nil, err
	}
	ok, err := s.items.Delete(ctx, rc.Cart.ID, itemID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return rc, ErrCartItemNotFound
	}
	return rc, nil
}

// RemoveOne decrements the line by one and deletes it when it reaches one.
// It returns the remaining line or nil when the line was removed.
func (s *CartService) RemoveOne(ctx context.Context, req Requester, itemID uuid.UUID) (*ResolvedCart, *models.CartItem, error) {
	rc, err := s.ResolveCart(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	item, err := s.items.GetForCart(ctx, rc.Cart.ID, itemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return rc, nil, ErrCartItemNotFound
	}

	decremented, err := s.items.DecrementQuantity(ctx, rc.Cart.ID, itemID)
	if err != nil {
		return nil, nil, err
	}
	if decremented {
		item.Quantity--
		return rc, item, nil
	}

	if _, err := s.items.Delete(ctx, rc.Cart.ID, itemID); err != nil {
		return nil, nil, err
	}
	return rc, nil, nil
}

func (s *CartService) GetCart(ctx context.Context, req Requester) (*ResolvedCart, *CartView, error) {
	rc, err := s.ResolveCart(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.items.ListByCart(ctx, rc.Cart.ID)
	if err != nil {
		return nil, nil, err
	}
	total, lines := cartTotal(items)
	return rc, &CartView{Cart: rc.Cart, Lines: lines, Total: total}, nil
}

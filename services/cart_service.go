package services

import (
	"context"
	"errors"

	"github.com/mmhmddd/PowerEV-Server/models"
	"github.com/mmhmddd/PowerEV-Server/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CartRepository persists session carts.
type CartRepository interface {
	FindBySession(ctx context.Context, sessionID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
}

// Catalog is the only view of the product stores the cart/order core
// needs: a lookup and the stock mutations.
type Catalog interface {
	FindProduct(ctx context.Context, t models.ProductType, id primitive.ObjectID) (*models.Product, error)
	DecrementStock(ctx context.Context, t models.ProductType, id primitive.ObjectID, qty int) error
	IncrementStock(ctx context.Context, t models.ProductType, id primitive.ObjectID, qty int) error
}

type CartService struct {
	carts   CartRepository
	catalog Catalog
	log     *zap.Logger
}

func NewCartService(carts CartRepository, catalog Catalog, log *zap.Logger) *CartService {
	return &CartService{carts: carts, catalog: catalog, log: log}
}

// validSessionID rejects the sentinel strings browsers send when the
// frontend never initialised its session storage.
func validSessionID(sessionID string) bool {
	return sessionID != "" && sessionID != "undefined" && sessionID != "null"
}

// GetOrCreate returns the cart for the session, creating an empty one if
// none exists. "Not found" is never an error here.
func (s *CartService) GetOrCreate(ctx context.Context, sessionID string) (*models.Cart, error) {
	if !validSessionID(sessionID) {
		return nil, ErrInvalidSession
	}

	cart, err := s.carts.FindBySession(ctx, sessionID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	cart = &models.Cart{
		SessionID:   sessionID,
		Items:       []models.CartItem{},
		TotalAmount: 0,
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.log.Info("new cart created", zap.String("sessionId", sessionID))
	return cart, nil
}

// AddItem appends a line snapshotting the product's name, effective
// price and first image, or merges quantities when the same
// (productId, productType) pair is already in the cart.
func (s *CartService) AddItem(ctx context.Context, sessionID string, productID primitive.ObjectID, productType models.ProductType, quantity int) (*models.Cart, error) {
	if !validSessionID(sessionID) {
		return nil, ErrInvalidSession
	}
	if !productType.Valid() {
		return nil, validationErrorf("invalid product type %q", productType)
	}
	if quantity < 1 {
		return nil, validationErrorf("quantity must be at least 1")
	}

	product, err := s.catalog.FindProduct(ctx, productType, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.Stock < quantity {
		return nil, insufficientStockErrorf("available: %d", product.Stock)
	}

	cart, err := s.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	price := product.EffectivePrice()
	if idx := cart.FindItem(productID, productType); idx >= 0 {
		newQuantity := cart.Items[idx].Quantity + quantity
		if product.Stock < newQuantity {
			return nil, insufficientStockErrorf("you have %d in cart, available: %d",
				cart.Items[idx].Quantity, product.Stock)
		}
		cart.Items[idx].Quantity = newQuantity
		// Refresh the snapshot in case an offer changed since add time.
		cart.Items[idx].Price = price
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID:   productID,
			ProductType: productType,
			Name:        product.Name,
			Price:       price,
			Quantity:    quantity,
			Image:       product.FirstImage(),
		})
	}

	cart.Recalculate()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItem replaces the quantity of an existing line. Unlike AddItem it
// fails when the cart or the line is missing.
func (s *CartService) UpdateItem(ctx context.Context, sessionID string, productID primitive.ObjectID, productType models.ProductType, quantity int) (*models.Cart, error) {
	if !validSessionID(sessionID) {
		return nil, ErrInvalidSession
	}
	if quantity < 1 {
		return nil, validationErrorf("quantity must be at least 1")
	}

	cart, err := s.carts.FindBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	idx := cart.FindItem(productID, productType)
	if idx < 0 {
		return nil, ErrItemNotFound
	}

	product, err := s.catalog.FindProduct(ctx, productType, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.Stock < quantity {
		return nil, insufficientStockErrorf("available: %d", product.Stock)
	}

	cart.Items[idx].Quantity = quantity
	cart.Items[idx].Price = product.EffectivePrice()

	cart.Recalculate()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID primitive.ObjectID, productType models.ProductType) (*models.Cart, error) {
	if !validSessionID(sessionID) {
		return nil, ErrInvalidSession
	}

	cart, err := s.carts.FindBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	idx := cart.FindItem(productID, productType)
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	cart.Recalculate()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, sessionID string) (*models.Cart, error) {
	if !validSessionID(sessionID) {
		return nil, ErrInvalidSession
	}

	cart, err := s.carts.FindBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	cart.Items = []models.CartItem{}
	cart.TotalAmount = 0
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

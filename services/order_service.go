package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mmhmddd/PowerEV-Server/models"
	"github.com/mmhmddd/PowerEV-Server/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// orderNumberAttempts bounds the regenerate-on-collision loop.
const orderNumberAttempts = 5

type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type OrderService struct {
	orders  OrderRepository
	carts   CartRepository
	catalog Catalog
	log     *zap.Logger
}

func NewOrderService(orders OrderRepository, carts CartRepository, catalog Catalog, log *zap.Logger) *OrderService {
	return &OrderService{orders: orders, carts: carts, catalog: catalog, log: log}
}

// OrderItemInput is one line of a direct (cart-less) checkout.
type OrderItemInput struct {
	ProductID   primitive.ObjectID
	ProductType models.ProductType
	Name        string
	Price       float64
	Quantity    int
	Image       string
}

type CreateOrderInput struct {
	Name          string
	Phone         string
	Email         string
	Address       string
	Notes         string
	PaymentMethod string
	SessionID     string
	Items         []OrderItemInput
	UserID        *primitive.ObjectID
}

// Create runs the checkout pipeline: validate customer info, resolve
// items from the cart or the request, verify live stock for every line,
// persist the order, then decrement stock and clear the cart best-effort.
// Everything before persistence hard-fails with no side effects;
// everything after is logged and skipped on failure, because the order
// record must never be lost to bookkeeping.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	name := strings.TrimSpace(in.Name)
	phone := models.NormalizePhone(in.Phone)
	address := strings.TrimSpace(in.Address)

	if name == "" || phone == "" || address == "" {
		return nil, validationErrorf("please provide name, phone, and address")
	}
	if !models.ValidPhone(phone) {
		return nil, validationErrorf("invalid phone number, must be Egyptian format (01XXXXXXXXX)")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email != "" && !models.ValidEmail(email) {
		return nil, validationErrorf("invalid email format")
	}

	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentCash
	}
	if !models.ValidPaymentMethod(paymentMethod) {
		return nil, validationErrorf("invalid payment method, choose: cash, instapay, or vodafonecash")
	}

	items, fromCart, err := s.resolveItems(ctx, in)
	if err != nil {
		return nil, err
	}

	totalAmount := 0.0
	for _, item := range items {
		totalAmount += item.Price * float64(item.Quantity)
	}
	if totalAmount <= 0 {
		return nil, validationErrorf("order total amount must be greater than 0")
	}

	// Optimistic pre-check. The conditional decrement below is the real
	// guard; this pass rejects the whole order before anything persists.
	for _, item := range items {
		product, err := s.catalog.FindProduct(ctx, item.ProductType, item.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		if product.Stock < item.Quantity {
			return nil, insufficientStockErrorf("%s: available %d, requested %d",
				product.Name, product.Stock, item.Quantity)
		}
	}

	order := &models.Order{
		Name:          name,
		Phone:         phone,
		Email:         email,
		Address:       address,
		Items:         items,
		TotalAmount:   totalAmount,
		PaymentMethod: paymentMethod,
		PaymentStatus: models.PaymentStatusPending,
		Status:        models.StatusPending,
		UserID:        in.UserID,
		Notes:         strings.TrimSpace(in.Notes),
	}

	if err := s.insertWithUniqueNumber(ctx, order); err != nil {
		return nil, err
	}
	s.log.Info("order created",
		zap.String("orderNumber", order.OrderNumber),
		zap.Float64("totalAmount", order.TotalAmount),
		zap.Int("items", len(order.Items)))

	// Best-effort from here on. Failures drift the stock figures, which
	// reconciliation tooling has to correct; they never void the order.
	for _, item := range order.Items {
		if err := s.catalog.DecrementStock(ctx, item.ProductType, item.ProductID, item.Quantity); err != nil {
			s.log.Error("stock decrement failed",
				zap.String("orderNumber", order.OrderNumber),
				zap.String("productId", item.ProductID.Hex()),
				zap.String("productType", string(item.ProductType)),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}

	if fromCart {
		if _, err := s.clearCart(ctx, in.SessionID); err != nil {
			s.log.Error("cart clear after checkout failed",
				zap.String("orderNumber", order.OrderNumber),
				zap.String("sessionId", in.SessionID),
				zap.Error(err))
		}
	}

	return order, nil
}

// resolveItems picks the source of the order lines: the session cart when
// a sessionId was sent, otherwise the explicit item list.
func (s *OrderService) resolveItems(ctx context.Context, in CreateOrderInput) ([]models.OrderItem, bool, error) {
	if validSessionID(in.SessionID) {
		cart, err := s.carts.FindBySession(ctx, in.SessionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, false, ErrEmptyCart
			}
			return nil, false, err
		}
		if len(cart.Items) == 0 {
			return nil, false, ErrEmptyCart
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			items = append(items, models.OrderItem{
				ProductID:   item.ProductID,
				ProductType: orDefaultType(item.ProductType),
				Name:        orDefaultName(item.Name),
				Price:       item.Price,
				Quantity:    item.Quantity,
				Image:       item.Image,
			})
		}
		return items, true, nil
	}

	if len(in.Items) == 0 {
		return nil, false, validationErrorf("please provide items or sessionId")
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		if item.ProductID.IsZero() || item.ProductType == "" || item.Price <= 0 || item.Quantity < 1 {
			return nil, false, validationErrorf("each item must have productId, productType, price, and quantity")
		}
		if !item.ProductType.Valid() {
			return nil, false, validationErrorf("invalid product type %q", item.ProductType)
		}
		items = append(items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductType: item.ProductType,
			Name:        orDefaultName(item.Name),
			Price:       item.Price,
			Quantity:    item.Quantity,
			Image:       item.Image,
		})
	}
	return items, false, nil
}

func orDefaultType(t models.ProductType) models.ProductType {
	if t == "" {
		return models.TypeOther
	}
	return t
}

func orDefaultName(name string) string {
	if name == "" {
		return "Product"
	}
	return name
}

// insertWithUniqueNumber regenerates the order number on duplicate-key
// collisions. The timestamp+random format makes collisions rare but not
// impossible; the unique index turns them into retries.
func (s *OrderService) insertWithUniqueNumber(ctx context.Context, order *models.Order) error {
	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = models.NewOrderNumber()
		err = s.orders.Insert(ctx, order)
		if !errors.Is(err, store.ErrDuplicateKey) {
			return err
		}
		s.log.Warn("order number collision, retrying",
			zap.String("orderNumber", order.OrderNumber))
	}
	return err
}

func (s *OrderService) clearCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	cart, err := s.carts.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.Items = []models.CartItem{}
	cart.TotalAmount = 0
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *OrderService) Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// Track is the public lookup by orderNumber.
func (s *OrderService) Track(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.orders.List(ctx)
}

func (s *OrderService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// UpdateStatus sets the fulfilment status. Any known status may be set
// from any other; there is no transition guard.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, validationErrorf("invalid status %q", status)
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Status = status
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, paymentStatus string) (*models.Order, error) {
	if !models.ValidPaymentStatus(paymentStatus) {
		return nil, validationErrorf("invalid payment status %q", paymentStatus)
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	order.PaymentStatus = paymentStatus
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrderInput is the admin patch: nil fields are left untouched.
type UpdateOrderInput struct {
	Name          *string
	Phone         *string
	Email         *string
	Address       *string
	Notes         *string
	Status        *string
	PaymentMethod *string
	PaymentStatus *string
}

func (s *OrderService) Update(ctx context.Context, id primitive.ObjectID, in UpdateOrderInput) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		order.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		order.Phone = models.NormalizePhone(*in.Phone)
	}
	if in.Email != nil {
		order.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Address != nil {
		order.Address = strings.TrimSpace(*in.Address)
	}
	if in.Notes != nil {
		order.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Status != nil {
		if !models.ValidOrderStatus(*in.Status) {
			return nil, validationErrorf("invalid status %q", *in.Status)
		}
		order.Status = *in.Status
	}
	if in.PaymentMethod != nil {
		if !models.ValidPaymentMethod(*in.PaymentMethod) {
			return nil, validationErrorf("invalid payment method %q", *in.PaymentMethod)
		}
		order.PaymentMethod = *in.PaymentMethod
	}
	if in.PaymentStatus != nil {
		if !models.ValidPaymentStatus(*in.PaymentStatus) {
			return nil, validationErrorf("invalid payment status %q", *in.PaymentStatus)
		}
		order.PaymentStatus = *in.PaymentStatus
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete restores stock for every line best-effort, then removes the
// order. Restore failures are logged and skipped, mirroring the
// decrement policy on creation.
func (s *OrderService) Delete(ctx context.Context, id primitive.ObjectID) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		if err := s.catalog.IncrementStock(ctx, item.ProductType, item.ProductID, item.Quantity); err != nil {
			s.log.Error("stock restore failed",
				zap.String("orderNumber", order.OrderNumber),
				zap.String("productId", item.ProductID.Hex()),
				zap.String("productType", string(item.ProductType)),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	s.log.Info("order deleted", zap.String("orderNumber", order.OrderNumber))
	return nil
}

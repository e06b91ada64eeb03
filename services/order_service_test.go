package services_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/mmhmddd/PowerEV-Server/models"
	"github.com/mmhmddd/PowerEV-Server/services"
	"github.com/mmhmddd/PowerEV-Server/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{8}-\d{3}$`)

type orderFixture struct {
	svc     *services.OrderService
	orders  *fakeOrderRepo
	carts   *fakeCartRepo
	catalog *fakeCatalog
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:  newFakeOrderRepo(),
		carts:   newFakeCartRepo(),
		catalog: newFakeCatalog(),
	}
	f.svc = services.NewOrderService(f.orders, f.carts, f.catalog, zap.NewNop())
	return f
}

func customerInput() services.CreateOrderInput {
	return services.CreateOrderInput{
		Name:    "Ahmed Hassan",
		Phone:   "01012345678",
		Address: "12 Tahrir St, Cairo",
	}
}

func (f *orderFixture) seedCart(t *testing.T, sessionID string) (*models.Product, *models.Product) {
	t.Helper()
	box := &models.Product{Name: "Wall Box", Price: 100, Stock: 5}
	cable := &models.Product{Name: "Cable", Price: 50, Stock: 10}
	f.catalog.add(models.TypeBox, box)
	f.catalog.add(models.TypeCable, cable)

	f.carts.carts[sessionID] = &models.Cart{
		SessionID: sessionID,
		Items: []models.CartItem{
			{ProductID: box.ID, ProductType: models.TypeBox, Name: box.Name, Price: 100, Quantity: 2},
			{ProductID: cable.ID, ProductType: models.TypeCable, Name: cable.Name, Price: 50, Quantity: 1},
		},
		TotalAmount: 250,
	}
	return box, cable
}

func TestOrderService_Create_FromCart(t *testing.T) {
	f := newOrderFixture()
	box, cable := f.seedCart(t, "s1")

	in := customerInput()
	in.SessionID = "s1"

	order, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Regexp(t, orderNumberPattern, order.OrderNumber)
	assert.Equal(t, 250.0, order.TotalAmount)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, models.PaymentCash, order.PaymentMethod)
	require.Len(t, order.Items, 2)

	// Stock decremented per line.
	require.Len(t, f.catalog.decremented, 2)
	assert.Equal(t, stockCall{models.TypeBox, box.ID, 2}, f.catalog.decremented[0])
	assert.Equal(t, stockCall{models.TypeCable, cable.ID, 1}, f.catalog.decremented[1])

	// Source cart cleared.
	cart := f.carts.carts["s1"]
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.TotalAmount)
}

func TestOrderService_Create_EmptyOrMissingCart(t *testing.T) {
	f := newOrderFixture()
	f.carts.carts["empty"] = &models.Cart{SessionID: "empty", Items: []models.CartItem{}}

	for _, sessionID := range []string{"empty", "missing"} {
		in := customerInput()
		in.SessionID = sessionID
		_, err := f.svc.Create(context.Background(), in)
		assert.ErrorIs(t, err, services.ErrEmptyCart, "sessionId %q", sessionID)
	}
	assert.Empty(t, f.orders.inserted)
}

func TestOrderService_Create_InsufficientStock(t *testing.T) {
	f := newOrderFixture()
	box, _ := f.seedCart(t, "s1")
	f.catalog.products[catalogKey(models.TypeBox, box.ID)].Stock = 1

	in := customerInput()
	in.SessionID = "s1"

	_, err := f.svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, services.ErrInsufficientStock)
	assert.Empty(t, f.orders.inserted, "failed verification must not persist an order")
	assert.Empty(t, f.catalog.decremented)
	assert.NotEmpty(t, f.carts.carts["s1"].Items, "cart must survive a failed checkout")
}

func TestOrderService_Create_UnknownProduct(t *testing.T) {
	f := newOrderFixture()

	in := customerInput()
	in.Items = []services.OrderItemInput{{
		ProductID:   primitive.NewObjectID(),
		ProductType: models.TypeCharger,
		Price:       100,
		Quantity:    1,
	}}

	_, err := f.svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
	assert.Empty(t, f.orders.inserted)
}

func TestOrderService_Create_PhoneValidation(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"01012345678", true},
		{"010 1234-5678", true}, // spaces and hyphens are stripped
		{"0123456789", false},   // 10 digits
		{"1012345678", false},   // missing leading 0
		{"01112345678", true},
		{"02012345678", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			f := newOrderFixture()
			f.seedCart(t, "s1")

			in := customerInput()
			in.SessionID = "s1"
			in.Phone = tt.phone

			_, err := f.svc.Create(context.Background(), in)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, services.ErrValidation)
			}
		})
	}
}

func TestOrderService_Create_CustomerValidation(t *testing.T) {
	f := newOrderFixture()
	f.seedCart(t, "s1")
	ctx := context.Background()

	in := customerInput()
	in.SessionID = "s1"
	in.Name = "  "
	_, err := f.svc.Create(ctx, in)
	assert.ErrorIs(t, err, services.ErrValidation)

	in = customerInput()
	in.SessionID = "s1"
	in.Email = "not-an-email"
	_, err = f.svc.Create(ctx, in)
	assert.ErrorIs(t, err, services.ErrValidation)

	in = customerInput()
	in.SessionID = "s1"
	in.PaymentMethod = "bitcoin"
	_, err = f.svc.Create(ctx, in)
	assert.ErrorIs(t, err, services.ErrValidation)

	in = customerInput()
	in.SessionID = "s1"
	in.PaymentMethod = models.PaymentInstapay
	order, err := f.svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentInstapay, order.PaymentMethod)
}

func TestOrderService_Create_DirectItems(t *testing.T) {
	f := newOrderFixture()
	station := &models.Product{Name: "DC Station", Price: 5000, Stock: 2}
	f.catalog.add(models.TypeStation, station)

	in := customerInput()
	in.Items = []services.OrderItemInput{{
		ProductID:   station.ID,
		ProductType: models.TypeStation,
		Name:        station.Name,
		Price:       5000,
		Quantity:    2,
	}}

	order, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, order.TotalAmount)
	require.Len(t, f.catalog.decremented, 1)
	assert.Equal(t, stockCall{models.TypeStation, station.ID, 2}, f.catalog.decremented[0])
}

func TestOrderService_Create_DirectItemsValidation(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	// Neither sessionId nor items.
	_, err := f.svc.Create(ctx, customerInput())
	assert.ErrorIs(t, err, services.ErrValidation)

	// Item missing its price.
	in := customerInput()
	in.Items = []services.OrderItemInput{{
		ProductID:   primitive.NewObjectID(),
		ProductType: models.TypeWire,
		Quantity:    1,
	}}
	_, err = f.svc.Create(ctx, in)
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Empty(t, f.orders.inserted)
}

func TestOrderService_Create_ZeroTotalRejected(t *testing.T) {
	f := newOrderFixture()
	free := &models.Product{Name: "Sticker", Price: 0, Stock: 100}
	f.catalog.add(models.TypeOther, free)

	f.carts.carts["s1"] = &models.Cart{
		SessionID: "s1",
		Items: []models.CartItem{
			{ProductID: free.ID, ProductType: models.TypeOther, Name: free.Name, Price: 0, Quantity: 3},
		},
	}

	in := customerInput()
	in.SessionID = "s1"
	_, err := f.svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Empty(t, f.orders.inserted)
}

func TestOrderService_Create_OrderNumberRetry(t *testing.T) {
	f := newOrderFixture()
	f.seedCart(t, "s1")
	f.orders.insertErrs = []error{store.ErrDuplicateKey, nil}

	in := customerInput()
	in.SessionID = "s1"

	order, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Regexp(t, orderNumberPattern, order.OrderNumber)
	assert.Len(t, f.orders.inserted, 1)
}

func TestOrderService_Create_DecrementFailureIsBestEffort(t *testing.T) {
	f := newOrderFixture()
	f.seedCart(t, "s1")
	f.catalog.decErr = assert.AnError

	in := customerInput()
	in.SessionID = "s1"

	order, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err, "a bookkeeping failure must not void the order")
	assert.Len(t, f.orders.inserted, 1)
	assert.Regexp(t, orderNumberPattern, order.OrderNumber)
}

func TestOrderService_Delete_RestoresStock(t *testing.T) {
	f := newOrderFixture()
	boxID := primitive.NewObjectID()
	wireID := primitive.NewObjectID()

	order := &models.Order{
		OrderNumber: models.NewOrderNumber(),
		Items: []models.OrderItem{
			{ProductID: boxID, ProductType: models.TypeBox, Quantity: 2},
			{ProductID: wireID, ProductType: models.TypeWire, Quantity: 5},
		},
	}
	require.NoError(t, f.orders.Insert(context.Background(), order))

	require.NoError(t, f.svc.Delete(context.Background(), order.ID))

	require.Len(t, f.catalog.incremented, 2)
	assert.Equal(t, stockCall{models.TypeBox, boxID, 2}, f.catalog.incremented[0])
	assert.Equal(t, stockCall{models.TypeWire, wireID, 5}, f.catalog.incremented[1])
	assert.Len(t, f.orders.deleted, 1)
}

func TestOrderService_Delete_RestoreFailureIsBestEffort(t *testing.T) {
	f := newOrderFixture()
	order := &models.Order{
		OrderNumber: models.NewOrderNumber(),
		Items: []models.OrderItem{
			{ProductID: primitive.NewObjectID(), ProductType: models.TypeBox, Quantity: 1},
		},
	}
	require.NoError(t, f.orders.Insert(context.Background(), order))
	f.catalog.incErr = assert.AnError

	require.NoError(t, f.svc.Delete(context.Background(), order.ID))
	assert.Len(t, f.orders.deleted, 1, "restore failure must not block deletion")
}

func TestOrderService_Delete_NotFound(t *testing.T) {
	f := newOrderFixture()
	err := f.svc.Delete(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}

func TestOrderService_StatusUpdates(t *testing.T) {
	f := newOrderFixture()
	order := &models.Order{OrderNumber: models.NewOrderNumber(), Status: models.StatusPending}
	require.NoError(t, f.orders.Insert(context.Background(), order))
	ctx := context.Background()

	// No transition guard: delivered straight from pending, and back.
	updated, err := f.svc.UpdateStatus(ctx, order.ID, models.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, updated.Status)

	updated, err = f.svc.UpdateStatus(ctx, order.ID, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)

	_, err = f.svc.UpdateStatus(ctx, order.ID, "misplaced")
	assert.ErrorIs(t, err, services.ErrValidation)

	updated, err = f.svc.UpdatePaymentStatus(ctx, order.ID, models.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)

	_, err = f.svc.UpdatePaymentStatus(ctx, order.ID, "refunded")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestOrderService_Update(t *testing.T) {
	f := newOrderFixture()
	order := &models.Order{
		OrderNumber: models.NewOrderNumber(),
		Name:        "Ahmed",
		Phone:       "01012345678",
		Status:      models.StatusPending,
	}
	require.NoError(t, f.orders.Insert(context.Background(), order))

	name := "  Mona Said "
	phone := "011-2345-6789"
	status := models.StatusConfirmed
	updated, err := f.svc.Update(context.Background(), order.ID, services.UpdateOrderInput{
		Name:   &name,
		Phone:  &phone,
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "Mona Said", updated.Name)
	assert.Equal(t, "01123456789", updated.Phone)
	assert.Equal(t, models.StatusConfirmed, updated.Status)

	bad := "teleported"
	_, err = f.svc.Update(context.Background(), order.ID, services.UpdateOrderInput{Status: &bad})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestOrderService_Track(t *testing.T) {
	f := newOrderFixture()
	order := &models.Order{OrderNumber: "ORD-12345678-042"}
	require.NoError(t, f.orders.Insert(context.Background(), order))

	found, err := f.svc.Track(context.Background(), "ORD-12345678-042")
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)

	_, err = f.svc.Track(context.Background(), "ORD-00000000-000")
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}

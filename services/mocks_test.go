package services_test

import (
	"context"
	"fmt"

	"github.com/mmhmddd/PowerEV-Server/models"
	"github.com/mmhmddd/PowerEV-Server/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeCartRepo keeps carts in a map and deep-copies on both directions
// so a rejected service call cannot leak partial mutations into storage.
type fakeCartRepo struct {
	carts   map[string]*models.Cart
	findErr error
	saveErr error
	saves   int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string]*models.Cart{}}
}

func copyCart(c *models.Cart) *models.Cart {
	cp := *c
	cp.Items = append([]models.CartItem{}, c.Items...)
	return &cp
}

func (f *fakeCartRepo) FindBySession(_ context.Context, sessionID string) (*models.Cart, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	cart, ok := f.carts[sessionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyCart(cart), nil
}

func (f *fakeCartRepo) Save(_ context.Context, cart *models.Cart) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.carts[cart.SessionID] = copyCart(cart)
	return nil
}

type stockCall struct {
	ProductType models.ProductType
	ProductID   primitive.ObjectID
	Quantity    int
}

type fakeCatalog struct {
	products    map[string]*models.Product
	decremented []stockCall
	incremented []stockCall
	decErr      error
	incErr      error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]*models.Product{}}
}

func catalogKey(t models.ProductType, id primitive.ObjectID) string {
	return fmt.Sprintf("%s/%s", t, id.Hex())
}

func (f *fakeCatalog) add(t models.ProductType, p *models.Product) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.products[catalogKey(t, p.ID)] = p
}

func (f *fakeCatalog) FindProduct(_ context.Context, t models.ProductType, id primitive.ObjectID) (*models.Product, error) {
	p, ok := f.products[catalogKey(t, id)]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeCatalog) DecrementStock(_ context.Context, t models.ProductType, id primitive.ObjectID, qty int) error {
	if f.decErr != nil {
		return f.decErr
	}
	f.decremented = append(f.decremented, stockCall{t, id, qty})
	if p, ok := f.products[catalogKey(t, id)]; ok {
		p.Stock -= qty
		if p.Stock < 0 {
			p.Stock = 0
		}
	}
	return nil
}

func (f *fakeCatalog) IncrementStock(_ context.Context, t models.ProductType, id primitive.ObjectID, qty int) error {
	if f.incErr != nil {
		return f.incErr
	}
	f.incremented = append(f.incremented, stockCall{t, id, qty})
	if p, ok := f.products[catalogKey(t, id)]; ok {
		p.Stock += qty
	}
	return nil
}

// fakeOrderRepo records inserts; insertErrs is consumed one error per
// Insert call to simulate duplicate-key collisions.
type fakeOrderRepo struct {
	orders     map[primitive.ObjectID]*models.Order
	inserted   []*models.Order
	insertErrs []error
	deleted    []primitive.ObjectID
	updated    []*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[primitive.ObjectID]*models.Order{}}
}

func (f *fakeOrderRepo) Insert(_ context.Context, order *models.Order) error {
	if len(f.insertErrs) > 0 {
		err := f.insertErrs[0]
		f.insertErrs = f.insertErrs[1:]
		if err != nil {
			return err
		}
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	cp := *order
	f.inserted = append(f.inserted, &cp)
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (f *fakeOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*models.Order, error) {
	for _, order := range f.orders {
		if order.OrderNumber == orderNumber {
			cp := *order
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeOrderRepo) List(_ context.Context) ([]models.Order, error) {
	out := []models.Order{}
	for _, order := range f.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	out := []models.Order{}
	for _, order := range f.orders {
		if order.UserID != nil && *order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) Update(_ context.Context, order *models.Order) error {
	if _, ok := f.orders[order.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *order
	f.orders[order.ID] = &cp
	f.updated = append(f.updated, &cp)
	return nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.orders[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.orders, id)
	f.deleted = append(f.deleted, id)
	return nil
}

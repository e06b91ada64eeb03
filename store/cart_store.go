package store

import (
	"context"
	"fmt"
	"time"

	"github.com/mmhmddd/PowerEV-Server/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CartStore struct {
	col *mongo.Collection
}

func NewCartStore(col *mongo.Collection) *CartStore {
	return &CartStore{col: col}
}

func (s *CartStore) FindBySession(ctx context.Context, sessionID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.col.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&cart)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return &cart, nil
}

// Save upserts the whole cart document keyed by sessionId. Last write
// wins between concurrent mutations on the same session.
func (s *CartStore) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.col.ReplaceOne(ctx, bson.M{"sessionId": cart.SessionID}, cart, opts); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

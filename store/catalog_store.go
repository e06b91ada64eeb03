package store

import (
	"context"
	"fmt"
	"time"

	"github.com/mmhmddd/PowerEV-Server/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CatalogStore reads products and mutates stock across the nine
// per-category collections.
type CatalogStore struct {
	cols map[models.ProductType]*mongo.Collection
}

func NewCatalogStore(cols map[models.ProductType]*mongo.Collection) *CatalogStore {
	return &CatalogStore{cols: cols}
}

func (s *CatalogStore) collection(t models.ProductType) (*mongo.Collection, error) {
	col, ok := s.cols[t]
	if !ok {
		return nil, fmt.Errorf("no collection for product type %q", t)
	}
	return col, nil
}

func (s *CatalogStore) FindProduct(ctx context.Context, t models.ProductType, id primitive.ObjectID) (*models.Product, error) {
	col, err := s.collection(t)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

// DecrementStock subtracts qty conditionally: the $gte filter makes the
// check-and-decrement a single atomic update so concurrent orders cannot
// drive stock negative. If stock has already fallen below qty the value
// is floored at zero instead.
func (s *CatalogStore) DecrementStock(ctx context.Context, t models.ProductType, id primitive.ObjectID, qty int) error {
	col, err := s.collection(t)
	if err != nil {
		return err
	}

	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}},
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	res, err = col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"stock": 0}},
	)
	if err != nil {
		return fmt.Errorf("floor stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementStock adds qty back, with no upper bound. Used when an order
// is deleted and its stock restored.
func (s *CatalogStore) IncrementStock(ctx context.Context, t models.ProductType, id primitive.ObjectID, qty int) error {
	col, err := s.collection(t)
	if err != nil {
		return err
	}

	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stock": qty}},
	)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CatalogStore) SetStock(ctx context.Context, t models.ProductType, id primitive.ObjectID, stock int) error {
	col, err := s.collection(t)
	if err != nil {
		return err
	}

	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"stock": stock, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// The catalog CRUD below backs the thin per-category admin handlers.

func (s *CatalogStore) ListProducts(ctx context.Context, t models.ProductType) ([]models.Product, error) {
	col, err := s.collection(t)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (s *CatalogStore) InsertProduct(ctx context.Context, t models.ProductType, product *models.Product) error {
	col, err := s.collection(t)
	if err != nil {
		return err
	}

	now := time.Now()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Images == nil {
		product.Images = []string{}
	}

	if _, err := col.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *CatalogStore) UpdateProduct(ctx context.Context, t models.ProductType, id primitive.ObjectID, set bson.M) (*models.Product, error) {
	col, err := s.collection(t)
	if err != nil {
		return nil, err
	}

	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Product
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &updated, nil
}

func (s *CatalogStore) DeleteProduct(ctx context.Context, t models.ProductType, id primitive.ObjectID) error {
	col, err := s.collection(t)
	if err != nil {
		return err
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem snapshots name, price and image at add/update time. Catalog
// changes do not move the line until it is touched again.
type CartItem struct {
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	ProductType ProductType        `bson:"productType" json:"productType"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Image       string             `bson:"image,omitempty" json:"image"`
}

// Cart is a singleton per sessionId, enforced by a unique index.
type Cart struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	SessionID   string              `bson:"sessionId" json:"sessionId"`
	UserID      *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Items       []CartItem          `bson:"items" json:"items"`
	TotalAmount float64             `bson:"totalAmount" json:"totalAmount"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Recalculate recomputes the total from the full item list. Every save
// goes through this; the total is never adjusted incrementally.
func (c *Cart) Recalculate() {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	c.TotalAmount = total
}

// FindItem returns the index of the (productId, productType) line, or -1.
func (c *Cart) FindItem(productID primitive.ObjectID, productType ProductType) int {
	for i, item := range c.Items {
		if item.ProductID == productID && item.ProductType == productType {
			return i
		}
	}
	return -1
}

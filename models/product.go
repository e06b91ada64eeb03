package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductType tags which of the nine catalogs a product lives in.
type ProductType string

const (
	TypeCharger ProductType = "Charger"
	TypeCable   ProductType = "Cable"
	TypeStation ProductType = "Station"
	TypeAdapter ProductType = "Adapter"
	TypeBox     ProductType = "Box"
	TypeBreaker ProductType = "Breaker"
	TypePlug    ProductType = "Plug"
	TypeWire    ProductType = "Wire"
	TypeOther   ProductType = "Other"
)

var ProductTypes = []ProductType{
	TypeCharger, TypeCable, TypeStation, TypeAdapter,
	TypeBox, TypeBreaker, TypePlug, TypeWire, TypeOther,
}

func (t ProductType) Valid() bool {
	switch t {
	case TypeCharger, TypeCable, TypeStation, TypeAdapter,
		TypeBox, TypeBreaker, TypePlug, TypeWire, TypeOther:
		return true
	}
	return false
}

type Offer struct {
	Enabled            bool    `bson:"enabled" json:"enabled"`
	DiscountPercentage float64 `bson:"discountPercentage" json:"discountPercentage"`
}

// Product is the shared shape across all nine catalogs. Category-specific
// electrical fields are optional and omitted when unset.
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Brand         string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	Stock         int                `bson:"stock" json:"stock"`
	Quantity      string             `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Voltage       *float64           `bson:"voltage,omitempty" json:"voltage,omitempty"`
	Amperage      *float64           `bson:"amperage,omitempty" json:"amperage,omitempty"`
	ConnectorType string             `bson:"connectorType,omitempty" json:"connectorType,omitempty"`
	Phase         string             `bson:"phase,omitempty" json:"phase,omitempty"`
	Efficiency    *float64           `bson:"efficiency,omitempty" json:"efficiency,omitempty"`
	Size          string             `bson:"size,omitempty" json:"size,omitempty"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Images        []string           `bson:"images" json:"images"`
	Offer         Offer              `bson:"offer" json:"offer"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EffectivePrice is the price after an active percentage discount.
func (p *Product) EffectivePrice() float64 {
	if p.Offer.Enabled && p.Offer.DiscountPercentage > 0 {
		return p.Price - (p.Price*p.Offer.DiscountPercentage)/100
	}
	return p.Price
}

func (p *Product) FirstImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

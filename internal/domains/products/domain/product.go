package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNegativePrice guards the only hard invariant the catalog enforces.
var ErrNegativePrice = errors.New("product price must not be negative")

// Product is the catalog aggregate persisted in the products collection.
type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Category  string             `bson:"category" json:"category"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if p.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Ref is the projection of a product embedded in resolved order reads.
type Ref struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	Category string             `bson:"category" json:"category"`
}

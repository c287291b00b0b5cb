package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentMethod enumerates the supported checkout providers.
type PaymentMethod string

const (
	PaymentPayme PaymentMethod = "Payme"
	PaymentClick PaymentMethod = "Click"
	PaymentUzum  PaymentMethod = "Uzum"
)

var (
	ErrEmptyProducts  = errors.New("order must reference at least one product")
	ErrInvalidPayment = errors.New("payment method is invalid")
	ErrEmptyCustomer  = errors.New("customer name is required")
)

// Order models a customer purchase referencing catalog products.
// ProductIDs keeps caller order and duplicates; each id must resolve to an
// existing product at write time, but nothing re-checks the references later,
// so a deleted product leaves a dangling id behind.
type Order struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ProductIDs    []primitive.ObjectID `bson:"product_ids" json:"product_ids"`
	TotalPrice    float64              `bson:"total_price" json:"total_price"`
	CustomerName  string               `bson:"customer_name" json:"customer_name"`
	PaymentMethod PaymentMethod        `bson:"payment_method" json:"payment_method"`
	CreatedAt     time.Time            `bson:"created_at" json:"created_at"`
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if len(o.ProductIDs) == 0 {
		return ErrEmptyProducts
	}
	if o.CustomerName == "" {
		return ErrEmptyCustomer
	}
	if !o.PaymentMethod.IsValid() {
		return ErrInvalidPayment
	}
	return nil
}

// IsValid reports whether the method belongs to the closed enumeration.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentPayme, PaymentClick, PaymentUzum:
		return true
	default:
		return false
	}
}

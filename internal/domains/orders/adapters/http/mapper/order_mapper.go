// Package mapper translates order wire payloads into application inputs.
package mapper

import (
	"github.com/Dostonlv/uLab3/internal/domains/orders/ports"
)

// MutationOrder is the JSON payload accepted by order create and update.
// Pointer fields preserve presence so creation can reject missing fields
// and partial updates leave unset fields untouched.
type MutationOrder struct {
	ProductIDs    *[]string `json:"product_ids"`
	TotalPrice    *float64  `json:"total_price"`
	CustomerName  *string   `json:"customer_name"`
	PaymentMethod *string   `json:"payment_method"`
}

// ToCreateInput converts the wire payload to the creation command.
func ToCreateInput(payload MutationOrder) ports.CreateOrderInput {
	return ports.CreateOrderInput{
		ProductIDs:    payload.ProductIDs,
		TotalPrice:    payload.TotalPrice,
		CustomerName:  payload.CustomerName,
		PaymentMethod: payload.PaymentMethod,
	}
}

// ToUpdateInput converts the wire payload to a partial update addressed
// by the raw path identifier.
func ToUpdateInput(id string, payload MutationOrder) ports.UpdateOrderInput {
	return ports.UpdateOrderInput{
		ID:            id,
		ProductIDs:    payload.ProductIDs,
		TotalPrice:    payload.TotalPrice,
		CustomerName:  payload.CustomerName,
		PaymentMethod: payload.PaymentMethod,
	}
}

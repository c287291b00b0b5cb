package application

import (
	"errors"
	"fmt"

	"github.com/Dostonlv/uLab3/internal/domains/orders/domain"
	apierrors "github.com/Dostonlv/uLab3/internal/shared/errors"
)

func errMissingFields() error {
	return apierrors.BadRequest("Missing required fields")
}

func errInvalidProductID(cause error) error {
	return apierrors.BadRequest("Invalid product ID format").
		WithExtra("error", cause.Error())
}

func errUnknownProducts(ids []string) error {
	return apierrors.BadRequest("Some product IDs do not exist in the database").
		WithExtra("invalid_ids", ids)
}

func errUnsupportedPayment(value string) error {
	return apierrors.BadRequest(fmt.Sprintf("Unsupported payment method: %s", value))
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyProducts) ||
		errors.Is(err, domain.ErrEmptyCustomer) ||
		errors.Is(err, domain.ErrInvalidPayment) {
		return apierrors.BadRequest(err.Error())
	}
	return err
}

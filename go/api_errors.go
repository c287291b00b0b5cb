package marketserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	ordersports "github.com/Dostonlv/uLab3/internal/domains/orders/ports"
	productsports "github.com/Dostonlv/uLab3/internal/domains/products/ports"
	apierrors "github.com/Dostonlv/uLab3/internal/shared/errors"
	"github.com/Dostonlv/uLab3/internal/shared/timerange"
)

// respondError wraps a transport-level failure in the shared envelope.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	apierrors.Respond(c, apierrors.New(status, err.Error()))
}

func respondProductServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	var fieldErr *timerange.FieldError
	switch {
	case errors.Is(err, productsports.ErrNotFound):
		apierrors.Respond(c, apierrors.NotFound("Product not found"))
	case errors.As(err, &fieldErr):
		apierrors.Respond(c, apierrors.BadRequest(fieldErr.Error()))
	default:
		apierrors.RespondError(c, err)
	}
}

func respondOrderServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	var fieldErr *timerange.FieldError
	switch {
	case errors.Is(err, ordersports.ErrNotFound):
		apierrors.Respond(c, apierrors.NotFound("Order not found"))
	case errors.As(err, &fieldErr):
		apierrors.Respond(c, apierrors.BadRequest(fieldErr.Error()))
	default:
		apierrors.RespondError(c, err)
	}
}

// internal/handlers/checkout.go
package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/phelcone/phelcone-backend/internal/models"
	"github.com/phelcone/phelcone-backend/internal/services"
	"github.com/phelcone/phelcone-backend/internal/utils"
)

type checkoutRunner interface {
	Checkout(ctx context.Context, req *services.CheckoutRequest) (*models.Transaction, error)
}

type CheckoutHandler struct {
	checkout checkoutRunner
}

func NewCheckoutHandler(checkout checkoutRunner) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// POST /v1/checkout
//
// The 201 body is a flat object (not the standard envelope): the storefront
// client reads transactionId and receiptData off the top level and
// substring-matches error messages, so the shape here is a wire contract.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	txn, err := h.checkout.Checkout(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAddressRequired):
			utils.BadRequestResponse(c, models.AddressRequiredMessage, nil)
		case errors.Is(err, models.ErrEmptyCart):
			utils.BadRequestResponse(c, "Cart is empty", nil)
		case errors.Is(err, models.ErrUserNotFound):
			utils.NotFoundResponse(c, "User")
		case isValidationError(err):
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(errors.Unwrap(err)))
		default:
			utils.InternalErrorResponse(c, "Internal server error")
		}
		return
	}

	c.JSON(201, gin.H{
		"success":       true,
		"transactionId": txn.ID,
		"receiptData":   txn.Receipt,
	})
}

func isValidationError(err error) bool {
	return err != nil && errors.Unwrap(err) != nil &&
		len(utils.GetValidationErrors(errors.Unwrap(err))) > 0
}

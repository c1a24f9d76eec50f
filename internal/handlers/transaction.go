// internal/handlers/transaction.go
package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phelcone/phelcone-backend/internal/models"
	"github.com/phelcone/phelcone-backend/internal/utils"
)

type transactionStore interface {
	SetStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus) error
	Get(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, params utils.PaginationParams) ([]models.Transaction, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
}

type TransactionHandler struct {
	transactions transactionStore
}

type UpdateStatusRequest struct {
	TransactionID uuid.UUID `json:"transactionId" validate:"required"`
	Status        string    `json:"status" validate:"required"`
}

func NewTransactionHandler(transactions transactionStore) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// POST /v1/transactions (admin)
func (h *TransactionHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	err := h.transactions.SetStatus(c.Request.Context(), req.TransactionID, models.TransactionStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidStatus):
			utils.BadRequestResponse(c, "Invalid status value", nil)
		case errors.Is(err, models.ErrTransactionNotFound):
			utils.NotFoundResponse(c, "Transaction")
		default:
			utils.InternalErrorResponse(c, "Internal server error")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Transaction status updated",
	})
}

// GET /v1/transactions
//
// With ?userId= it returns that buyer's history (owner or admin only);
// without it the full paginated list is admin-only.
func (h *TransactionHandler) List(c *gin.Context) {
	requesterID, _ := utils.GetUserIDFromContext(c)
	requesterType, _ := utils.GetUserTypeFromContext(c)
	isAdmin := requesterType == string(models.UserTypeAdmin)

	if userIDStr := c.Query("userId"); userIDStr != "" {
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid user ID", nil)
			return
		}

		if !isAdmin && requesterID != userID.String() {
			utils.ForbiddenResponse(c, "")
			return
		}

		transactions, err := h.transactions.ListByUser(c.Request.Context(), userID)
		if err != nil {
			utils.InternalErrorResponse(c, "Internal server error")
			return
		}

		utils.SuccessResponse(c, gin.H{
			"transactions": transactions,
		})
		return
	}

	if !isAdmin {
		utils.ForbiddenResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	transactions, total, err := h.transactions.List(c.Request.Context(), params)
	if err != nil {
		utils.InternalErrorResponse(c, "Internal server error")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(transactions, total, params))
}

// GET /v1/transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction ID", nil)
		return
	}

	txn, err := h.transactions.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrTransactionNotFound) {
			utils.NotFoundResponse(c, "Transaction")
			return
		}
		utils.InternalErrorResponse(c, "Internal server error")
		return
	}

	requesterID, _ := utils.GetUserIDFromContext(c)
	requesterType, _ := utils.GetUserTypeFromContext(c)
	if requesterType != string(models.UserTypeAdmin) && requesterID != txn.UserID.String() {
		utils.ForbiddenResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"transaction": txn,
	})
}

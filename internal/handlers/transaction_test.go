// internal/handlers/transaction_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phelcone/phelcone-backend/internal/models"
	"github.com/phelcone/phelcone-backend/internal/utils"
)

type stubTransactions struct {
	setStatusErr error
	lastStatus   models.TransactionStatus
	byUser       []models.Transaction
}

func (s *stubTransactions) SetStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus) error {
	if s.setStatusErr != nil {
		return s.setStatusErr
	}
	s.lastStatus = status
	return nil
}

func (s *stubTransactions) Get(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	return nil, models.ErrTransactionNotFound
}

func (s *stubTransactions) List(ctx context.Context, params utils.PaginationParams) ([]models.Transaction, int64, error) {
	return nil, 0, nil
}

func (s *stubTransactions) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	return s.byUser, nil
}

func transactionRouter(stub *stubTransactions, userID string, userType models.UserType) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_type", string(userType))
	})
	h := NewTransactionHandler(stub)
	r.POST("/v1/transactions", h.UpdateStatus)
	r.GET("/v1/transactions", h.List)
	return r
}

func statusBody(t *testing.T, status string) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"transactionId": uuid.New(),
		"status":        status,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestUpdateStatusSuccess(t *testing.T) {
	stub := &stubTransactions{}
	r := transactionRouter(stub, uuid.NewString(), models.UserTypeAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/transactions", statusBody(t, "In-Transit"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TransactionStatus("In-Transit"), stub.lastStatus)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	stub := &stubTransactions{setStatusErr: models.ErrInvalidStatus}
	r := transactionRouter(stub, uuid.NewString(), models.UserTypeAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/transactions", statusBody(t, "Delivered"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatusUnknownTransaction(t *testing.T) {
	stub := &stubTransactions{setStatusErr: models.ErrTransactionNotFound}
	r := transactionRouter(stub, uuid.NewString(), models.UserTypeAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/transactions", statusBody(t, "Completed"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTransactionsOwnHistory(t *testing.T) {
	userID := uuid.New()
	stub := &stubTransactions{byUser: []models.Transaction{
		{UserID: userID, Status: models.TransactionStatusShipped},
	}}
	r := transactionRouter(stub, userID.String(), models.UserTypeBuyer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/transactions?userId="+userID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Shipped")
}

func TestListTransactionsForeignHistoryForbidden(t *testing.T) {
	stub := &stubTransactions{}
	r := transactionRouter(stub, uuid.NewString(), models.UserTypeBuyer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/transactions?userId="+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListTransactionsAllRequiresAdmin(t *testing.T) {
	stub := &stubTransactions{}
	r := transactionRouter(stub, uuid.NewString(), models.UserTypeBuyer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/transactions", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

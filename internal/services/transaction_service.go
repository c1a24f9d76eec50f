// internal/services/transaction_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phelcone/phelcone-backend/internal/models"
	"github.com/phelcone/phelcone-backend/internal/utils"
)

// TransactionService is the durable store of completed purchases. A record
// is appended exactly once per checkout and stays visible to the status
// board and the buyer's purchase history immediately after.
type TransactionService struct {
	db *gorm.DB
}

func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{db: db}
}

// Record appends one transaction row. The single insert is the atomic
// boundary of checkout: on failure no partial record remains.
func (s *TransactionService) Record(ctx context.Context, txn *models.Transaction) error {
	if len(txn.Orders) == 0 {
		return models.ErrEmptyCart
	}

	if err := s.db.WithContext(ctx).Create(txn).Error; err != nil {
		return fmt.Errorf("failed to store transaction: %w", err)
	}

	return nil
}

// SetStatus moves a transaction to any of the three admin statuses. No
// transition ordering is enforced; the status board may move a record back
// and forth freely.
func (s *TransactionService) SetStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus) error {
	if !models.ValidTransactionStatus(status) {
		return models.ErrInvalidStatus
	}

	var txn models.Transaction
	if err := s.db.WithContext(ctx).First(&txn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrTransactionNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&txn).Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	return nil
}

func (s *TransactionService) Get(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.WithContext(ctx).Preload("User").First(&txn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &txn, nil
}

// List returns all transactions for the admin board.
func (s *TransactionService) List(ctx context.Context, params utils.PaginationParams) ([]models.Transaction, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Transaction{}).Preload("User")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	allowedSortFields := []string{"created_at", "order_date", "total_amount", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return transactions, total, nil
}

// ListByUser returns the buyer's purchase history, newest first.
func (s *TransactionService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch user transactions: %w", err)
	}

	return transactions, nil
}

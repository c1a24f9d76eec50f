// internal/inventory/ledger.go

// Package inventory owns the per-color stock counters stored on
// gadget_details. Decrements clamp at zero rather than rejecting: a sale is
// never blocked by inventory bookkeeping, only floored.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/phelcone/phelcone-backend/internal/models"
)

// Ledger is the authoritative view of per-color stock.
type Ledger interface {
	GetStock(ctx context.Context, gadgetID uuid.UUID, color string) (int, error)
	Decrement(ctx context.Context, gadgetID uuid.UUID, color string, quantity int) (int, error)
}

// SQLLedger keeps stock in the colors JSONB collection on gadget_details.
// Each decrement runs in its own transaction holding a row lock on the
// gadget's detail row, so concurrent purchases of the same color serialize
// instead of losing updates.
type SQLLedger struct {
	db *gorm.DB
}

func NewSQLLedger(db *gorm.DB) *SQLLedger {
	return &SQLLedger{db: db}
}

func (l *SQLLedger) GetStock(ctx context.Context, gadgetID uuid.UUID, color string) (int, error) {
	var detail models.GadgetDetail
	if err := l.db.WithContext(ctx).
		Where("gadget_id = ?", gadgetID).
		First(&detail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, models.ErrGadgetNotFound
		}
		return 0, fmt.Errorf("database error: %w", err)
	}

	idx := detail.Colors.Index(color)
	if idx < 0 {
		return 0, models.ErrColorNotFound
	}

	return detail.Colors[idx].Stock, nil
}

func (l *SQLLedger) Decrement(ctx context.Context, gadgetID uuid.UUID, color string, quantity int) (int, error) {
	var newStock int

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var detail models.GadgetDetail
		if err := l.lockDetail(tx, gadgetID).First(&detail).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrGadgetNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		idx := detail.Colors.Index(color)
		if idx < 0 {
			return models.ErrColorNotFound
		}

		detail.Colors[idx].Stock = ClampDecrement(detail.Colors[idx].Stock, quantity)
		newStock = detail.Colors[idx].Stock

		if err := tx.Model(&detail).Update("colors", detail.Colors).Error; err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return newStock, nil
}

// lockDetail selects the gadget's detail row under FOR UPDATE so concurrent
// decrements of the same gadget serialize on the row lock.
func (l *SQLLedger) lockDetail(tx *gorm.DB, gadgetID uuid.UUID) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("gadget_id = ?", gadgetID)
}

// ClampDecrement applies the non-negative floor: stock never drops below
// zero, even when the purchased quantity exceeds what is on hand.
func ClampDecrement(stock, quantity int) int {
	remaining := stock - quantity
	if remaining < 0 {
		return 0
	}
	return remaining
}

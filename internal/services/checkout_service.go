// internal/services/checkout_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/phelcone/phelcone-backend/internal/inventory"
	"github.com/phelcone/phelcone-backend/internal/models"
	"github.com/phelcone/phelcone-backend/internal/pricing"
	"github.com/phelcone/phelcone-backend/internal/utils"
)

// CheckoutService sequences a purchase: precondition checks, authoritative
// pricing, the durable transaction write, then best-effort stock decrements.
// Everything before the transaction write aborts with no side effects;
// everything after it never unwinds the sale.
type CheckoutService struct {
	profiles     profileStore
	transactions transactionRecorder
	ledger       inventory.Ledger
	log          *logrus.Logger
}

type profileStore interface {
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
}

type transactionRecorder interface {
	Record(ctx context.Context, txn *models.Transaction) error
}

type CheckoutRequest struct {
	UserID      uuid.UUID         `json:"userId" validate:"required"`
	CartItems   []CartItemRequest `json:"cartItems" validate:"required,min=1,dive"`
	TotalAmount float64           `json:"totalAmount" validate:"required,gt=0"`
}

// CartItemRequest is one client-held cart line. Price is the unit-price
// snapshot taken when the item entered the cart; checkout sums these
// snapshots and does not re-check them against the current catalog price
// (price-lock at add-to-cart time).
type CartItemRequest struct {
	ID            uuid.UUID `json:"id" validate:"required"`
	Brand         string    `json:"brand"`
	Name          string    `json:"name"`
	Price         float64   `json:"price" validate:"gte=0"`
	Quantity      int       `json:"quantity" validate:"required,min=1"`
	SelectedColor string    `json:"selectedColor"`
}

func NewCheckoutService(profiles profileStore, transactions transactionRecorder, ledger inventory.Ledger, log *logrus.Logger) *CheckoutService {
	return &CheckoutService{
		profiles:     profiles,
		transactions: transactions,
		ledger:       ledger,
		log:          log,
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, req *CheckoutRequest) (*models.Transaction, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if len(req.CartItems) == 0 {
		return nil, models.ErrEmptyCart
	}

	// Load buyer and gate on shipping address before any write.
	profile, err := s.profiles.GetProfileByUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if !profile.HasShippingAddress() {
		return nil, models.ErrAddressRequired
	}

	// The cart-line snapshots are authoritative; the client's claimed total
	// is only checked for drift, never substituted.
	subtotal := decimal.Zero
	for _, item := range req.CartItems {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}

	claimed := decimal.NewFromFloat(req.TotalAmount)
	if !subtotal.Equal(claimed) {
		s.log.WithFields(logrus.Fields{
			"user_id":  req.UserID,
			"claimed":  claimed.StringFixed(2),
			"computed": subtotal.StringFixed(2),
		}).Warn("Claimed cart total differs from line-item sum; using line-item sum")
	}

	now := time.Now()
	eligible, discountType := pricing.Eligibility(profile.Birthday, profile.IsPWD, now)
	totals := pricing.ComputeTotals(subtotal, eligible, discountType)

	receipt := buildReceipt(profile, totals, req.CartItems, now)
	orders := make(models.OrderLines, 0, len(req.CartItems))
	for _, item := range req.CartItems {
		orders = append(orders, models.OrderLine{
			GadgetID: item.ID,
			Color:    colorOrPlaceholder(item.SelectedColor),
			Qty:      item.Quantity,
		})
	}

	finalTotal, _ := totals.FinalTotal.Round(2).Float64()
	txn := &models.Transaction{
		UserID:      req.UserID,
		OrderDate:   now,
		TotalAmount: finalTotal,
		Status:      models.TransactionStatusShipped,
		Receipt:     receipt,
		Orders:      orders,
	}

	if err := s.transactions.Record(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	// The sale is durable; decrements are applied per line and never roll it
	// back. A line whose gadget or color no longer exists is skipped.
	for _, line := range orders {
		if _, err := s.ledger.Decrement(ctx, line.GadgetID, line.Color, line.Qty); err != nil {
			fields := logrus.Fields{
				"transaction_id": txn.ID,
				"gadget_id":      line.GadgetID,
				"color":          line.Color,
				"quantity":       line.Qty,
			}
			if errors.Is(err, models.ErrGadgetNotFound) || errors.Is(err, models.ErrColorNotFound) {
				s.log.WithFields(fields).Warn("Skipping stock decrement for unknown gadget or color")
				continue
			}
			s.log.WithError(err).WithFields(fields).Error("Stock decrement failed; transaction kept")
		}
	}

	return txn, nil
}

func buildReceipt(profile *models.UserProfile, totals pricing.Totals, items []CartItemRequest, now time.Time) models.Receipt {
	receiptItems := make([]models.ReceiptItem, 0, len(items))
	for _, item := range items {
		lineTotal := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		receiptItems = append(receiptItems, models.ReceiptItem{
			Name:     item.Name,
			Brand:    item.Brand,
			Color:    colorOrPlaceholder(item.SelectedColor),
			Quantity: item.Quantity,
			Price:    item.Price,
			Total:    lineTotal.StringFixed(2),
		})
	}

	address := profile.Address
	if address == "" {
		address = models.NoAddressSentinel
	}

	return models.Receipt{
		BuyerName:       profile.BuyerName(),
		Address:         address,
		Timestamp:       now.Format("1/2/2006, 3:04:05 PM"),
		DiscountApplied: totals.DiscountApplied,
		DiscountType:    totals.DiscountType,
		DiscountAmount:  totals.DiscountAmount.StringFixed(2),
		TaxAmount:       totals.TaxAmount.StringFixed(2),
		Subtotal:        totals.Subtotal.StringFixed(2),
		DiscountedTotal: totals.DiscountedTotal.StringFixed(2),
		FinalTotal:      totals.FinalTotal.StringFixed(2),
		Items:           receiptItems,
	}
}

func colorOrPlaceholder(color string) string {
	if color == "" {
		return "N/A"
	}
	return color
}

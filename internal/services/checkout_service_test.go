// internal/services/checkout_service_test.go
package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phelcone/phelcone-backend/internal/models"
)

type stubProfiles struct {
	profile *models.UserProfile
	err     error
}

func (s *stubProfiles) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

type stubRecorder struct {
	mu       sync.Mutex
	recorded []*models.Transaction
	err      error
}

func (s *stubRecorder) Record(ctx context.Context, txn *models.Transaction) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded = append(s.recorded, txn)
	return nil
}

func (s *stubRecorder) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recorded)
}

// stubLedger mirrors the ledger contract: clamp at zero, NotFound for
// unknown targets, safe under concurrent use.
type stubLedger struct {
	mu    sync.Mutex
	stock map[string]int
	calls int
}

func newStubLedger() *stubLedger {
	return &stubLedger{stock: make(map[string]int)}
}

func ledgerKey(gadgetID uuid.UUID, color string) string {
	return gadgetID.String() + "/" + color
}

func (s *stubLedger) GetStock(ctx context.Context, gadgetID uuid.UUID, color string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stock, ok := s.stock[ledgerKey(gadgetID, color)]
	if !ok {
		return 0, models.ErrColorNotFound
	}
	return stock, nil
}

func (s *stubLedger) Decrement(ctx context.Context, gadgetID uuid.UUID, color string, quantity int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	key := ledgerKey(gadgetID, color)
	stock, ok := s.stock[key]
	if !ok {
		return 0, models.ErrColorNotFound
	}
	remaining := stock - quantity
	if remaining < 0 {
		remaining = 0
	}
	s.stock[key] = remaining
	return remaining, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func profileWithAddress(address string) *models.UserProfile {
	return &models.UserProfile{
		UserID:  uuid.New(),
		Name:    "Maria Santos",
		Address: address,
	}
}

func cartRequest(userID uuid.UUID, items ...CartItemRequest) *CheckoutRequest {
	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return &CheckoutRequest{
		UserID:      userID,
		CartItems:   items,
		TotalAmount: total,
	}
}

func TestCheckoutMissingAddressHasNoSideEffects(t *testing.T) {
	profiles := &stubProfiles{profile: profileWithAddress("")}
	recorder := &stubRecorder{}
	ledger := newStubLedger()

	svc := NewCheckoutService(profiles, recorder, ledger, quietLogger())

	gadgetID := uuid.New()
	ledger.stock[ledgerKey(gadgetID, "Black")] = 10

	req := cartRequest(uuid.New(), CartItemRequest{
		ID: gadgetID, Name: "Axion 9", Brand: "Axion", Price: 1120, Quantity: 1, SelectedColor: "Black",
	})

	_, err := svc.Checkout(context.Background(), req)
	require.ErrorIs(t, err, models.ErrAddressRequired)
	assert.Contains(t, err.Error(), "No address provided. Please add or edit your address in settings")
	assert.Equal(t, 0, recorder.count())
	assert.Equal(t, 0, ledger.calls)
	assert.Equal(t, 10, ledger.stock[ledgerKey(gadgetID, "Black")])
}

func TestCheckoutRejectsAddressSentinel(t *testing.T) {
	profiles := &stubProfiles{profile: profileWithAddress(models.NoAddressSentinel)}
	svc := NewCheckoutService(profiles, &stubRecorder{}, newStubLedger(), quietLogger())

	req := cartRequest(uuid.New(), CartItemRequest{
		ID: uuid.New(), Name: "Axion 9", Price: 100, Quantity: 1,
	})

	_, err := svc.Checkout(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrAddressRequired)
}

func TestCheckoutBuyerNotFound(t *testing.T) {
	profiles := &stubProfiles{err: models.ErrUserNotFound}
	svc := NewCheckoutService(profiles, &stubRecorder{}, newStubLedger(), quietLogger())

	req := cartRequest(uuid.New(), CartItemRequest{
		ID: uuid.New(), Name: "Axion 9", Price: 100, Quantity: 1,
	})

	_, err := svc.Checkout(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestCheckoutSeniorReceipt(t *testing.T) {
	birthday := time.Now().AddDate(-65, 0, 0)
	profile := profileWithAddress("123 Rizal St, Quezon City")
	profile.Birthday = &birthday

	recorder := &stubRecorder{}
	ledger := newStubLedger()
	svc := NewCheckoutService(&stubProfiles{profile: profile}, recorder, ledger, quietLogger())

	gadgetID := uuid.New()
	ledger.stock[ledgerKey(gadgetID, "Black")] = 5

	req := cartRequest(profile.UserID, CartItemRequest{
		ID: gadgetID, Name: "Axion 9", Brand: "Axion", Price: 1120, Quantity: 1, SelectedColor: "Black",
	})

	txn, err := svc.Checkout(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, recorder.count())

	receipt := txn.Receipt
	assert.True(t, receipt.DiscountApplied)
	assert.Equal(t, "Senior", receipt.DiscountType)
	assert.Equal(t, "1120.00", receipt.Subtotal)
	assert.Equal(t, "200.00", receipt.DiscountAmount)
	assert.Equal(t, "0.00", receipt.TaxAmount)
	assert.Equal(t, "800.00", receipt.DiscountedTotal)
	assert.Equal(t, "800.00", receipt.FinalTotal)
	assert.Equal(t, "Maria Santos", receipt.BuyerName)
	assert.Equal(t, "123 Rizal St, Quezon City", receipt.Address)

	assert.Equal(t, models.TransactionStatusShipped, txn.Status)
	assert.InDelta(t, 800.0, txn.TotalAmount, 0.001)
	assert.Equal(t, 4, ledger.stock[ledgerKey(gadgetID, "Black")])
}

func TestCheckoutStandardTaxReceipt(t *testing.T) {
	profile := profileWithAddress("456 Mabini St, Makati")

	recorder := &stubRecorder{}
	ledger := newStubLedger()
	svc := NewCheckoutService(&stubProfiles{profile: profile}, recorder, ledger, quietLogger())

	gadgetID := uuid.New()
	ledger.stock[ledgerKey(gadgetID, "White")] = 3

	req := cartRequest(profile.UserID, CartItemRequest{
		ID: gadgetID, Name: "Axion 9", Brand: "Axion", Price: 500, Quantity: 2, SelectedColor: "White",
	})

	txn, err := svc.Checkout(context.Background(), req)
	require.NoError(t, err)

	receipt := txn.Receipt
	assert.False(t, receipt.DiscountApplied)
	assert.Equal(t, "None", receipt.DiscountType)
	assert.Equal(t, "1000.00", receipt.Subtotal)
	assert.Equal(t, "0.00", receipt.DiscountAmount)
	assert.Equal(t, "120.00", receipt.TaxAmount)
	assert.Equal(t, "1120.00", receipt.FinalTotal)
	require.Len(t, receipt.Items, 1)
	assert.Equal(t, "1000.00", receipt.Items[0].Total)
	assert.Equal(t, 1, ledger.stock[ledgerKey(gadgetID, "White")])
}

func TestCheckoutSkipsUnknownColorLine(t *testing.T) {
	profile := profileWithAddress("789 Bonifacio Ave")

	recorder := &stubRecorder{}
	ledger := newStubLedger()
	svc := NewCheckoutService(&stubProfiles{profile: profile}, recorder, ledger, quietLogger())

	knownID := uuid.New()
	ledger.stock[ledgerKey(knownID, "Black")] = 5

	req := cartRequest(profile.UserID,
		CartItemRequest{ID: knownID, Name: "Axion 9", Price: 100, Quantity: 2, SelectedColor: "Black"},
		CartItemRequest{ID: uuid.New(), Name: "Retired Model", Price: 50, Quantity: 1, SelectedColor: "Gold"},
	)

	txn, err := svc.Checkout(context.Background(), req)
	require.NoError(t, err)

	// Sale wins: the transaction stands with both lines on the receipt even
	// though one decrement was skipped.
	assert.Equal(t, 1, recorder.count())
	assert.Len(t, txn.Receipt.Items, 2)
	assert.Equal(t, 3, ledger.stock[ledgerKey(knownID, "Black")])
}

func TestCheckoutRecordFailureLeavesStockUntouched(t *testing.T) {
	profile := profileWithAddress("12 Session Rd, Baguio")

	recorder := &stubRecorder{err: errors.New("connection reset")}
	ledger := newStubLedger()
	svc := NewCheckoutService(&stubProfiles{profile: profile}, recorder, ledger, quietLogger())

	gadgetID := uuid.New()
	ledger.stock[ledgerKey(gadgetID, "Black")] = 5

	req := cartRequest(profile.UserID, CartItemRequest{
		ID: gadgetID, Name: "Axion 9", Price: 100, Quantity: 1, SelectedColor: "Black",
	})

	_, err := svc.Checkout(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record transaction")
	assert.Equal(t, 0, ledger.calls)
	assert.Equal(t, 5, ledger.stock[ledgerKey(gadgetID, "Black")])
}

func TestCheckoutToleratesClaimedTotalMismatch(t *testing.T) {
	profile := profileWithAddress("34 Luna St, Vigan")

	recorder := &stubRecorder{}
	ledger := newStubLedger()
	svc := NewCheckoutService(&stubProfiles{profile: profile}, recorder, ledger, quietLogger())

	gadgetID := uuid.New()
	ledger.stock[ledgerKey(gadgetID, "Black")] = 5

	req := &CheckoutRequest{
		UserID: profile.UserID,
		CartItems: []CartItemRequest{
			{ID: gadgetID, Name: "Axion 9", Price: 500, Quantity: 2, SelectedColor: "Black"},
		},
		TotalAmount: 1.00, // stale client total
	}

	txn, err := svc.Checkout(context.Background(), req)
	require.NoError(t, err)
	// Line-item sum is authoritative
	assert.Equal(t, "1000.00", txn.Receipt.Subtotal)
}

func TestCheckoutEmptyColorBecomesPlaceholder(t *testing.T) {
	profile := profileWithAddress("56 Osmena Blvd, Cebu")

	recorder := &stubRecorder{}
	svc := NewCheckoutService(&stubProfiles{profile: profile}, recorder, newStubLedger(), quietLogger())

	req := cartRequest(profile.UserID, CartItemRequest{
		ID: uuid.New(), Name: "Axion 9", Price: 100, Quantity: 1,
	})

	txn, err := svc.Checkout(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, txn.Receipt.Items, 1)
	assert.Equal(t, "N/A", txn.Receipt.Items[0].Color)
	require.Len(t, txn.Orders, 1)
	assert.Equal(t, "N/A", txn.Orders[0].Color)
}

func TestCheckoutConcurrentLastUnits(t *testing.T) {
	profile := profileWithAddress("78 Magsaysay Dr, Olongapo")

	recorder := &stubRecorder{}
	ledger := newStubLedger()
	svc := NewCheckoutService(&stubProfiles{profile: profile}, recorder, ledger, quietLogger())

	gadgetID := uuid.New()
	ledger.stock[ledgerKey(gadgetID, "Black")] = 1

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := cartRequest(profile.UserID, CartItemRequest{
				ID: gadgetID, Name: "Axion 9", Price: 100, Quantity: 1, SelectedColor: "Black",
			})
			_, err := svc.Checkout(context.Background(), req)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Both sales recorded; stock floored at zero rather than going negative.
	assert.Equal(t, 2, recorder.count())
	assert.Equal(t, 0, ledger.stock[ledgerKey(gadgetID, "Black")])
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	profile := profileWithAddress("90 Roxas Blvd, Manila")
	svc := NewCheckoutService(&stubProfiles{profile: profile}, &stubRecorder{}, newStubLedger(), quietLogger())

	_, err := svc.Checkout(context.Background(), &CheckoutRequest{
		UserID:      profile.UserID,
		CartItems:   nil,
		TotalAmount: 100,
	})
	require.Error(t, err)
}

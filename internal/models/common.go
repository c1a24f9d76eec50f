// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserType string

const (
	UserTypeBuyer UserType = "buyer"
	UserTypeAdmin UserType = "admin"
)

type TransactionStatus string

const (
	TransactionStatusShipped   TransactionStatus = "Shipped"
	TransactionStatusInTransit TransactionStatus = "In-Transit"
	TransactionStatusCompleted TransactionStatus = "Completed"
)

// ValidTransactionStatus reports whether s is one of the three wire statuses.
// Transitions between them are intentionally unconstrained: the admin board
// may set any status from any other.
func ValidTransactionStatus(s TransactionStatus) bool {
	switch s {
	case TransactionStatusShipped, TransactionStatusInTransit, TransactionStatusCompleted:
		return true
	}
	return false
}

// NoAddressSentinel is the placeholder the storefront writes when a profile
// has no shipping address yet. Checkout treats it the same as an empty string.
const NoAddressSentinel = "No Address Provided"

// AddressRequiredMessage is matched by substring on the client to trigger the
// address-entry redirect. Do not reword it.
const AddressRequiredMessage = "No address provided. Please add or edit your address in settings before proceeding with the purchase."

// Sentinel errors shared by services and handlers.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrGadgetNotFound      = errors.New("gadget not found")
	ErrColorNotFound       = errors.New("color variant not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAddressRequired     = errors.New(AddressRequiredMessage)
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidStatus       = errors.New("invalid transaction status")
)

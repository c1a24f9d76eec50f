// internal/models/transaction.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Transaction is the immutable record of one completed purchase. Only Status
// mutates after insertion; the receipt and line items are frozen snapshots,
// independent of later catalog changes.
type Transaction struct {
	BaseModel
	UserID      uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	OrderDate   time.Time         `json:"order_date" gorm:"not null;index"`
	TotalAmount float64           `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Status      TransactionStatus `json:"status" gorm:"type:varchar(20);default:'Shipped';index"`
	Receipt     Receipt           `json:"receipts" gorm:"column:receipts;type:jsonb"`
	Orders      OrderLines        `json:"orders" gorm:"type:jsonb"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Receipt is the denormalized snapshot handed back to the buyer at checkout
// and embedded in the transaction row. All money fields are strings rounded
// to two decimals at snapshot time; the field names are part of the wire
// contract with the storefront.
type Receipt struct {
	BuyerName       string        `json:"buyerName"`
	Address         string        `json:"address"`
	Timestamp       string        `json:"timestamp"`
	DiscountApplied bool          `json:"discountApplied"`
	DiscountType    string        `json:"discountType"`
	DiscountAmount  string        `json:"discountAmount"`
	TaxAmount       string        `json:"taxAmount"`
	Subtotal        string        `json:"subtotal"`
	DiscountedTotal string        `json:"discountedTotal"`
	FinalTotal      string        `json:"finalTotal"`
	Items           []ReceiptItem `json:"items"`
}

type ReceiptItem struct {
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Color    string  `json:"color"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Total    string  `json:"total"`
}

func (r Receipt) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *Receipt) Scan(value interface{}) error {
	if value == nil {
		*r = Receipt{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// OrderLine is one frozen cart line: which gadget, which color, how many.
type OrderLine struct {
	GadgetID uuid.UUID `json:"id"`
	Color    string    `json:"color"`
	Qty      int       `json:"qty"`
}

type OrderLines []OrderLine

func (o OrderLines) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

func (o *OrderLines) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// internal/models/gadget.go
package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Gadget struct {
	BaseModel
	Brand  string         `json:"brand" gorm:"size:100;not null;index"`
	Name   string         `json:"name" gorm:"size:255;not null"`
	Price  float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Images pq.StringArray `json:"images" gorm:"type:text[]"`

	// Relationships
	Detail *GadgetDetail `json:"detail,omitempty" gorm:"foreignKey:GadgetID"`
}

// GadgetDetail holds the spec sheet plus the per-color stock collection.
// Colors is the authoritative inventory for the gadget; stock counts are
// mutated only by the inventory ledger.
type GadgetDetail struct {
	BaseModel
	GadgetID  uuid.UUID     `json:"gadget_id" gorm:"type:uuid;uniqueIndex;not null"`
	OS        string        `json:"os" gorm:"size:100"`
	Storage   string        `json:"storage" gorm:"size:100"`
	RAM       string        `json:"ram" gorm:"size:100"`
	Battery   string        `json:"battery" gorm:"size:100"`
	Display   string        `json:"display" gorm:"size:255"`
	Processor string        `json:"processor" gorm:"size:255"`
	Camera    string        `json:"camera" gorm:"size:255"`
	Colors    ColorVariants `json:"colors" gorm:"type:jsonb"`
}

// ColorVariant is the smallest inventory-tracked unit: one color of one
// gadget. Stock is never negative.
type ColorVariant struct {
	Color string `json:"color"`
	Stock int    `json:"stock"`
}

// ColorVariants is stored as a JSONB array on gadget_details, unique by color
// within a gadget.
type ColorVariants []ColorVariant

func (c ColorVariants) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

func (c *ColorVariants) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// Index returns the position of the named color, or -1.
func (c ColorVariants) Index(color string) int {
	for i := range c {
		if c[i].Color == color {
			return i
		}
	}
	return -1
}

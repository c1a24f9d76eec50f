// internal/models/user.go
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username     string   `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string   `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string   `json:"-" gorm:"size:255;not null"`
	UserType     UserType `json:"user_type" gorm:"type:varchar(20);default:'buyer';not null"`

	// Relationships
	Profile      *UserProfile  `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	Transactions []Transaction `json:"transactions,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// UserProfile carries the shipping and discount-eligibility fields shown on
// the settings page. Birthday and IsPWD feed the pricing engine; Address
// gates checkout.
type UserProfile struct {
	BaseModel
	UserID   uuid.UUID      `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	Name     string         `json:"name" gorm:"size:255"`
	Phone    string         `json:"phone" gorm:"size:50"`
	Address  string         `json:"address" gorm:"type:text"`
	Avatar   string         `json:"avatar" gorm:"size:512"`
	Birthday *time.Time     `json:"birthday"`
	IsPWD    bool           `json:"is_pwd" gorm:"default:false"`
	Wishlist pq.StringArray `json:"wishlist" gorm:"type:text[]"`
}

func (UserProfile) TableName() string {
	return "user_details"
}

// HasShippingAddress reports whether checkout may proceed for this profile.
func (p *UserProfile) HasShippingAddress() bool {
	addr := strings.TrimSpace(p.Address)
	return addr != "" && addr != NoAddressSentinel
}

// BuyerName is the display name frozen into receipts.
func (p *UserProfile) BuyerName() string {
	if p.Name == "" {
		return "Unknown User"
	}
	return p.Name
}

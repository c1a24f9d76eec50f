// internal/pricing/pricing.go

// Package pricing computes order totals from a VAT-inclusive cart subtotal
// and the buyer's discount eligibility. Everything here is pure: no I/O, no
// clock access except through explicit parameters.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount labels frozen into receipts. Senior takes precedence over PWD
// when a buyer qualifies for both.
const (
	DiscountNone   = "None"
	DiscountSenior = "Senior"
	DiscountPWD    = "PWD"
)

// SeniorAge is the age at which the senior-citizen discount applies.
const SeniorAge = 60

var (
	vatDivisor   = decimal.RequireFromString("1.12")
	vatRate      = decimal.RequireFromString("0.12")
	discountRate = decimal.RequireFromString("0.20")
)

// Totals carries every money figure of one order. Fields stay unrounded;
// rounding happens only when a figure is formatted for a receipt or stored,
// so intermediate steps never compound rounding error.
type Totals struct {
	Subtotal        decimal.Decimal
	DiscountApplied bool
	DiscountType    string
	DiscountAmount  decimal.Decimal
	TaxAmount       decimal.Decimal
	DiscountedTotal decimal.Decimal
	FinalTotal      decimal.Decimal
}

// ComputeTotals derives all money fields from a VAT-inclusive subtotal.
//
// An eligible buyer pays the VAT-exempt amount (subtotal / 1.12) less a 20%
// discount, with no tax. Everyone else pays the subtotal plus 12% VAT on top.
func ComputeTotals(subtotal decimal.Decimal, eligible bool, discountType string) Totals {
	vatExemptSale := subtotal.Div(vatDivisor)

	if eligible {
		discountAmount := vatExemptSale.Mul(discountRate)
		discountedTotal := vatExemptSale.Sub(discountAmount)
		return Totals{
			Subtotal:        subtotal,
			DiscountApplied: true,
			DiscountType:    discountType,
			DiscountAmount:  discountAmount,
			TaxAmount:       decimal.Zero,
			DiscountedTotal: discountedTotal,
			FinalTotal:      discountedTotal,
		}
	}

	taxAmount := subtotal.Mul(vatRate)
	return Totals{
		Subtotal:        subtotal,
		DiscountApplied: false,
		DiscountType:    DiscountNone,
		DiscountAmount:  decimal.Zero,
		TaxAmount:       taxAmount,
		DiscountedTotal: subtotal,
		FinalTotal:      subtotal.Add(taxAmount),
	}
}

// Eligibility resolves the buyer's discount standing at the given instant.
// A missing birthday counts as age 0.
func Eligibility(birthday *time.Time, isPWD bool, now time.Time) (bool, string) {
	senior := AgeYears(birthday, now) >= SeniorAge

	switch {
	case senior:
		return true, DiscountSenior
	case isPWD:
		return true, DiscountPWD
	default:
		return false, DiscountNone
	}
}

// AgeYears is the floor of full years between birthday and now.
func AgeYears(birthday *time.Time, now time.Time) int {
	if birthday == nil {
		return 0
	}

	age := now.Year() - birthday.Year()
	if now.Month() < birthday.Month() ||
		(now.Month() == birthday.Month() && now.Day() < birthday.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

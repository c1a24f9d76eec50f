// internal/pricing/pricing_test.go
package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotalsSeniorScenario(t *testing.T) {
	// 1,120.00 cart, eligible buyer: VAT removed, then 20% off.
	totals := ComputeTotals(decimal.RequireFromString("1120.00"), true, DiscountSenior)

	assert.True(t, totals.DiscountApplied)
	assert.Equal(t, DiscountSenior, totals.DiscountType)
	assert.Equal(t, "1120.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "200.00", totals.DiscountAmount.StringFixed(2))
	assert.Equal(t, "800.00", totals.DiscountedTotal.StringFixed(2))
	assert.Equal(t, "0.00", totals.TaxAmount.StringFixed(2))
	assert.Equal(t, "800.00", totals.FinalTotal.StringFixed(2))
}

func TestComputeTotalsStandardTaxScenario(t *testing.T) {
	// 1,000.00 cart, no discount: 12% VAT added on top.
	totals := ComputeTotals(decimal.RequireFromString("1000.00"), false, DiscountNone)

	assert.False(t, totals.DiscountApplied)
	assert.Equal(t, DiscountNone, totals.DiscountType)
	assert.Equal(t, "0.00", totals.DiscountAmount.StringFixed(2))
	assert.Equal(t, "120.00", totals.TaxAmount.StringFixed(2))
	assert.Equal(t, "1120.00", totals.FinalTotal.StringFixed(2))
}

func TestComputeTotalsDiscountProperty(t *testing.T) {
	// finalTotal == (S/1.12)*0.8 within a centavo for any eligible subtotal.
	subtotals := []string{"0.01", "1.00", "599.99", "1120.00", "45999.50", "123456.78"}

	for _, s := range subtotals {
		subtotal := decimal.RequireFromString(s)
		totals := ComputeTotals(subtotal, true, DiscountPWD)

		expected := subtotal.
			Div(decimal.RequireFromString("1.12")).
			Mul(decimal.RequireFromString("0.8"))
		diff := totals.FinalTotal.Sub(expected).Abs()

		assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.01")),
			"subtotal %s: final %s, expected %s", s, totals.FinalTotal, expected)
		assert.Equal(t, "0.00", totals.TaxAmount.StringFixed(2))
	}
}

func TestComputeTotalsNonDiscountProperty(t *testing.T) {
	subtotals := []string{"0.01", "1.00", "999.99", "1000.00", "88000.25"}

	for _, s := range subtotals {
		subtotal := decimal.RequireFromString(s)
		totals := ComputeTotals(subtotal, false, DiscountNone)

		expected := subtotal.Mul(decimal.RequireFromString("1.12"))
		assert.True(t, totals.FinalTotal.Equal(expected),
			"subtotal %s: final %s, expected %s", s, totals.FinalTotal, expected)
		assert.True(t, totals.DiscountAmount.IsZero())
	}
}

func TestComputeTotalsDeterministic(t *testing.T) {
	subtotal := decimal.RequireFromString("1337.42")

	first := ComputeTotals(subtotal, true, DiscountSenior)
	second := ComputeTotals(subtotal, true, DiscountSenior)

	assert.Equal(t, first.FinalTotal.String(), second.FinalTotal.String())
	assert.Equal(t, first.DiscountAmount.String(), second.DiscountAmount.String())
	assert.Equal(t, first.TaxAmount.String(), second.TaxAmount.String())
}

func TestEligibilityAgeBoundary(t *testing.T) {
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

	exactlySixty := time.Date(1965, time.June, 15, 0, 0, 0, 0, time.UTC)
	dayBefore := time.Date(1965, time.June, 16, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 60, AgeYears(&exactlySixty, now))
	assert.Equal(t, 59, AgeYears(&dayBefore, now))

	eligible, discountType := Eligibility(&exactlySixty, false, now)
	assert.True(t, eligible)
	assert.Equal(t, DiscountSenior, discountType)

	eligible, discountType = Eligibility(&dayBefore, false, now)
	assert.False(t, eligible)
	assert.Equal(t, DiscountNone, discountType)
}

func TestEligibilityPWD(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	young := time.Date(1995, time.January, 1, 0, 0, 0, 0, time.UTC)

	eligible, discountType := Eligibility(&young, true, now)
	assert.True(t, eligible)
	assert.Equal(t, DiscountPWD, discountType)

	// Senior wins the label when both apply.
	old := time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)
	eligible, discountType = Eligibility(&old, true, now)
	assert.True(t, eligible)
	assert.Equal(t, DiscountSenior, discountType)
}

func TestEligibilityMissingBirthday(t *testing.T) {
	now := time.Now()

	assert.Equal(t, 0, AgeYears(nil, now))

	eligible, discountType := Eligibility(nil, false, now)
	assert.False(t, eligible)
	assert.Equal(t, DiscountNone, discountType)

	// PWD flag is independent of age.
	eligible, discountType = Eligibility(nil, true, now)
	assert.True(t, eligible)
	assert.Equal(t, DiscountPWD, discountType)
}

func TestAgeYearsFutureBirthday(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	future := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, AgeYears(&future, now))
}

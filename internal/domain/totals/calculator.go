// Package totals computes line sub-totals and document footer amounts.
//
// All money values are shopspring decimals rounded half-away-from-zero
// to 2 decimal places. The calculator never fails: missing inputs are
// zero decimals and a zero base short-circuits percentage derivation.
package totals

import (
	"github.com/shopspring/decimal"

	"pharmacore/internal/core/types"
)

// EditedField tells the calculator which of the two linked fields the
// caller just edited, so the other one can be derived from it.
type EditedField string

const (
	// FieldPercent means the percentage was edited, derive the amount.
	FieldPercent EditedField = "pct"
	// FieldAmount means the amount was edited, derive the percentage.
	FieldAmount EditedField = "amt"
	// FieldNone means neither is known to be fresh. The calculator
	// prefers a non-zero percentage, otherwise derives it from the amount.
	FieldNone EditedField = ""
)

// Source describes which footer fields were just edited.
type Source struct {
	Discount EditedField
	Tax      EditedField
}

// Footer holds the header-level money fields of a document.
type Footer struct {
	GrossTotal      types.Money
	DiscountPercent types.Money
	DiscountAmount  types.Money
	TaxPercent      types.Money
	TaxAmount       types.Money
	Total           types.Money
}

var hundred = decimal.NewFromInt(100)

// SubTotal computes a line sub-total: quantity times unit price less the
// line discount, rounded to 2dp.
func SubTotal(quantity types.Quantity, unitPrice, discountPercent types.Money) types.Money {
	gross := quantity.Decimal().Mul(unitPrice)
	discount := gross.Mul(discountPercent).Div(hundred)
	return types.Round2(gross.Sub(discount))
}

// resolve derives the missing half of a percent/amount pair against base.
// Returns the resolved (percent, amount).
func resolve(base, percent, amount types.Money, edited EditedField) (types.Money, types.Money) {
	switch edited {
	case FieldPercent:
		return percent, types.Round2(base.Mul(percent).Div(hundred))
	case FieldAmount:
		if base.IsZero() {
			return decimal.Zero, amount
		}
		return types.Round2(amount.Div(base).Mul(hundred)), amount
	default:
		if !percent.IsZero() {
			return percent, types.Round2(base.Mul(percent).Div(hundred))
		}
		if base.IsZero() {
			return decimal.Zero, amount
		}
		return types.Round2(amount.Div(base).Mul(hundred)), amount
	}
}

// RecalcFooter recomputes the footer from line sub-totals and the
// edited-field source. The computation is idempotent: re-running it with
// the same inputs and source yields the same footer.
func RecalcFooter(subTotals []types.Money, f Footer, src Source) Footer {
	gross := decimal.Zero
	for _, st := range subTotals {
		gross = gross.Add(st)
	}
	f.GrossTotal = types.Round2(gross)

	f.DiscountPercent, f.DiscountAmount = resolve(f.GrossTotal, f.DiscountPercent, f.DiscountAmount, src.Discount)

	taxable := f.GrossTotal.Sub(f.DiscountAmount)
	f.TaxPercent, f.TaxAmount = resolve(taxable, f.TaxPercent, f.TaxAmount, src.Tax)

	f.Total = types.Round2(taxable.Add(f.TaxAmount))
	return f
}

package totals

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacore/internal/core/types"
)

func money(s string) types.Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSubTotal(t *testing.T) {
	tests := []struct {
		name     string
		qty      types.Quantity
		price    string
		discount string
		want     string
	}{
		{"no discount", 2, "10.00", "0", "20.00"},
		{"ten percent off", 4, "25.00", "10", "90.00"},
		{"half away from zero rounding", 3, "33.335", "0", "100.01"},
		{"zero quantity", 0, "99.99", "0", "0.00"},
		{"fractional price", 7, "1.115", "0", "7.81"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SubTotal(tt.qty, money(tt.price), money(tt.discount))
			assert.True(t, got.Equal(money(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestRecalcFooter_DiscountFromPercent(t *testing.T) {
	f := RecalcFooter(
		[]types.Money{money("600"), money("400")},
		Footer{DiscountPercent: money("10")},
		Source{Discount: FieldPercent},
	)

	assert.True(t, f.GrossTotal.Equal(money("1000")))
	assert.True(t, f.DiscountAmount.Equal(money("100.00")))
	assert.True(t, f.Total.Equal(money("900.00")))
}

func TestRecalcFooter_DiscountFromAmount(t *testing.T) {
	f := RecalcFooter(
		[]types.Money{money("1000")},
		Footer{DiscountAmount: money("50")},
		Source{Discount: FieldAmount},
	)

	assert.True(t, f.DiscountPercent.Equal(money("5.00")))
	assert.True(t, f.Total.Equal(money("950.00")))
}

func TestRecalcFooter_TaxOnTaxableBase(t *testing.T) {
	// Tax percentage applies to gross minus discount, not gross.
	f := RecalcFooter(
		[]types.Money{money("1000")},
		Footer{DiscountPercent: money("10"), TaxPercent: money("20")},
		Source{Discount: FieldPercent, Tax: FieldPercent},
	)

	assert.True(t, f.DiscountAmount.Equal(money("100.00")))
	assert.True(t, f.TaxAmount.Equal(money("180.00")), "tax base should be 900, got tax %s", f.TaxAmount)
	assert.True(t, f.Total.Equal(money("1080.00")))
}

func TestRecalcFooter_UnsetSourcePrefersPercent(t *testing.T) {
	// Both fields populated, no source given: the percentage wins and
	// the amount is re-derived from it.
	f := RecalcFooter(
		[]types.Money{money("200")},
		Footer{DiscountPercent: money("10"), DiscountAmount: money("999")},
		Source{},
	)

	assert.True(t, f.DiscountAmount.Equal(money("20.00")))
}

func TestRecalcFooter_UnsetSourceDerivesPercentFromAmount(t *testing.T) {
	f := RecalcFooter(
		[]types.Money{money("200")},
		Footer{DiscountAmount: money("50")},
		Source{},
	)

	assert.True(t, f.DiscountPercent.Equal(money("25.00")))
	assert.True(t, f.Total.Equal(money("150.00")))
}

func TestRecalcFooter_ZeroGrossNoDivision(t *testing.T) {
	f := RecalcFooter(
		nil,
		Footer{DiscountAmount: money("50"), TaxAmount: money("10")},
		Source{Discount: FieldAmount, Tax: FieldAmount},
	)

	assert.True(t, f.DiscountPercent.IsZero())
	assert.True(t, f.TaxPercent.IsZero())
	// Amounts are kept as entered even when the base is zero.
	assert.True(t, f.Total.Equal(money("-40.00")))
}

func TestRecalcFooter_Idempotent(t *testing.T) {
	subs := []types.Money{money("123.45"), money("678.90")}
	src := Source{Discount: FieldPercent, Tax: FieldAmount}
	first := RecalcFooter(subs, Footer{DiscountPercent: money("7.5"), TaxAmount: money("33.33")}, src)
	second := RecalcFooter(subs, first, src)

	require.True(t, first.GrossTotal.Equal(second.GrossTotal))
	require.True(t, first.DiscountPercent.Equal(second.DiscountPercent))
	require.True(t, first.DiscountAmount.Equal(second.DiscountAmount))
	require.True(t, first.TaxPercent.Equal(second.TaxPercent))
	require.True(t, first.TaxAmount.Equal(second.TaxAmount))
	require.True(t, first.Total.Equal(second.Total))
}

func TestRecalcFooter_SourceSwitchRederives(t *testing.T) {
	subs := []types.Money{money("1000")}

	// User first edits the percentage.
	f := RecalcFooter(subs, Footer{DiscountPercent: money("10")}, Source{Discount: FieldPercent})
	require.True(t, f.DiscountAmount.Equal(money("100.00")))

	// Then overrides the amount; the percentage must follow the new amount.
	f.DiscountAmount = money("250")
	f = RecalcFooter(subs, f, Source{Discount: FieldAmount})
	assert.True(t, f.DiscountPercent.Equal(money("25.00")))
	assert.True(t, f.Total.Equal(money("750.00")))
}

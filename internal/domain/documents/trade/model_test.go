package trade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacore/internal/core/id"
	"pharmacore/internal/core/types"
	"pharmacore/internal/domain/totals"
)

func TestKind_StockSign(t *testing.T) {
	tests := []struct {
		kind Kind
		sign types.Quantity
	}{
		{KindSaleInvoice, -1},
		{KindSaleReturn, 1},
		{KindPurchaseInvoice, 1},
		{KindPurchaseReturn, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.sign, tt.kind.StockSign(), string(tt.kind))
	}
}

func TestKind_NumberPrefix(t *testing.T) {
	assert.Equal(t, "SI", KindSaleInvoice.NumberPrefix())
	assert.Equal(t, "SR", KindSaleReturn.NumberPrefix())
	assert.Equal(t, "PI", KindPurchaseInvoice.NumberPrefix())
	assert.Equal(t, "PR", KindPurchaseReturn.NumberPrefix())
}

func TestLine_StockDelta(t *testing.T) {
	line := Line{Quantity: 5}
	assert.Equal(t, types.Quantity(-5), line.StockDelta(KindSaleInvoice))
	assert.Equal(t, types.Quantity(5), line.StockDelta(KindSaleReturn))
	assert.Equal(t, types.Quantity(5), line.StockDelta(KindPurchaseInvoice))
	assert.Equal(t, types.Quantity(-5), line.StockDelta(KindPurchaseReturn))
}

func TestDocument_Recalc(t *testing.T) {
	doc := New(KindSaleInvoice, id.New())
	doc.AddLine(id.New(), "B1", 5, types.MustMoney("10"), types.MustMoney("0"))
	doc.AddLine(id.New(), "", 3, types.MustMoney("33.335"), types.MustMoney("0"))
	doc.Recalc(totals.Source{})

	assert.True(t, doc.Lines[0].SubTotal.Equal(types.MustMoney("50.00")))
	assert.True(t, doc.Lines[1].SubTotal.Equal(types.MustMoney("100.01")))
	assert.True(t, doc.GrossTotal.Equal(types.MustMoney("150.01")))
	assert.True(t, doc.Total.Equal(types.MustMoney("150.01")))
}

func TestDocument_Validate(t *testing.T) {
	counterpartyID := id.New()

	t.Run("valid", func(t *testing.T) {
		doc := New(KindSaleInvoice, counterpartyID)
		doc.AddLine(id.New(), "B1", 2, types.MustMoney("5"), types.MustMoney("0"))
		require.NoError(t, doc.Validate(context.Background()))
	})

	t.Run("no lines", func(t *testing.T) {
		doc := New(KindSaleInvoice, counterpartyID)
		assert.Error(t, doc.Validate(context.Background()))
	})

	t.Run("missing counterparty", func(t *testing.T) {
		doc := New(KindSaleInvoice, id.Nil())
		doc.AddLine(id.New(), "", 1, types.MustMoney("5"), types.MustMoney("0"))
		assert.Error(t, doc.Validate(context.Background()))
	})

	t.Run("zero quantity", func(t *testing.T) {
		doc := New(KindPurchaseInvoice, counterpartyID)
		doc.AddLine(id.New(), "", 0, types.MustMoney("5"), types.MustMoney("0"))
		assert.Error(t, doc.Validate(context.Background()))
	})

	t.Run("bad kind", func(t *testing.T) {
		doc := New(Kind("mystery"), counterpartyID)
		doc.AddLine(id.New(), "", 1, types.MustMoney("5"), types.MustMoney("0"))
		assert.Error(t, doc.Validate(context.Background()))
	})
}

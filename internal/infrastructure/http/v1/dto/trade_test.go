package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacore/internal/core/apperror"
	"pharmacore/internal/core/id"
	"pharmacore/internal/domain/documents/trade"
)

func TestCreateTradeRequest_ToEntity(t *testing.T) {
	cpID := id.New()
	productID := id.New()

	req := CreateTradeRequest{
		CounterpartyID: cpID.String(),
		Lines: []TradeLineRequest{
			{ProductID: productID.String(), Quantity: 5, UnitPrice: decimal.NewFromInt(10)},
		},
	}

	doc, err := req.ToEntity(trade.KindSaleInvoice)
	require.NoError(t, err)

	assert.Equal(t, trade.KindSaleInvoice, doc.Kind)
	assert.Equal(t, cpID, doc.CounterpartyID)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, productID, doc.Lines[0].ProductID)
	assert.Equal(t, "50", doc.Lines[0].SubTotal.String())
}

func TestCreateTradeRequest_ToEntity_BadCounterpartyID(t *testing.T) {
	req := CreateTradeRequest{
		CounterpartyID: "not-a-uuid",
		Lines: []TradeLineRequest{
			{ProductID: id.New().String(), Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		},
	}

	doc, err := req.ToEntity(trade.KindSaleInvoice)
	require.Error(t, err)
	assert.Nil(t, doc)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "not-a-uuid", appErr.Details["counterpartyId"])
}

func TestCreateTradeRequest_ToEntity_BadProductID(t *testing.T) {
	req := CreateTradeRequest{
		CounterpartyID: id.New().String(),
		Lines: []TradeLineRequest{
			{ProductID: id.New().String(), Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
			{ProductID: "garbage", Quantity: 2, UnitPrice: decimal.NewFromInt(5)},
		},
	}

	_, err := req.ToEntity(trade.KindSaleInvoice)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, 2, appErr.Details["lineNo"])
}

func TestUpdateTradeRequest_ApplyTo_BadIDs(t *testing.T) {
	doc := trade.New(trade.KindSaleInvoice, id.New())

	badCp := UpdateTradeRequest{
		CounterpartyID: "not-a-uuid",
		Lines: []TradeLineRequest{
			{ProductID: id.New().String(), Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		},
	}
	err := badCp.ApplyTo(doc)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	badLine := UpdateTradeRequest{
		CounterpartyID: id.New().String(),
		Lines: []TradeLineRequest{
			{ProductID: "garbage", Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		},
	}
	err = badLine.ApplyTo(doc)
	require.Error(t, err)

	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 1, appErr.Details["lineNo"])
}

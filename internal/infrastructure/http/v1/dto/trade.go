package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"pharmacore/internal/core/apperror"
	"pharmacore/internal/core/id"
	"pharmacore/internal/core/types"
	"pharmacore/internal/domain/documents/trade"
	"pharmacore/internal/domain/totals"
)

// --- Request DTOs ---

// TradeLineRequest represents a line in create/update requests.
type TradeLineRequest struct {
	ProductID       string          `json:"productId" binding:"required"`
	BatchNumber     string          `json:"batchNumber,omitempty"`
	Expiry          *time.Time      `json:"expiry,omitempty"`
	Quantity        types.Quantity  `json:"quantity" binding:"required,gt=0"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
}

// CreateTradeRequest is the request body for creating a trade document.
// The kind comes from the route, not the body.
type CreateTradeRequest struct {
	Date           *time.Time         `json:"date,omitempty"`
	CounterpartyID string             `json:"counterpartyId" binding:"required"`
	Comment        string             `json:"comment,omitempty"`
	Lines          []TradeLineRequest `json:"lines" binding:"required,min=1,dive"`

	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	TaxPercent      decimal.Decimal `json:"taxPercent"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`

	// DiscountEdited and TaxEdited name the field the user last touched
	// ("pct" or "amt"), so the server knows which one to derive.
	DiscountEdited string `json:"discountEdited,omitempty" binding:"omitempty,oneof=pct amt"`
	TaxEdited      string `json:"taxEdited,omitempty" binding:"omitempty,oneof=pct amt"`
}

// ToEntity converts request to domain entity.
func (r *CreateTradeRequest) ToEntity(kind trade.Kind) (*trade.Document, error) {
	counterpartyID, err := id.Parse(r.CounterpartyID)
	if err != nil {
		return nil, apperror.NewValidation("invalid counterparty id").
			WithDetail("counterpartyId", r.CounterpartyID)
	}

	doc := trade.New(kind, counterpartyID)
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.Comment = r.Comment
	doc.DiscountPercent = r.DiscountPercent
	doc.DiscountAmount = r.DiscountAmount
	doc.TaxPercent = r.TaxPercent
	doc.TaxAmount = r.TaxAmount

	for i, line := range r.Lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return nil, apperror.NewValidation("invalid product id").
				WithDetail("lineNo", i+1).
				WithDetail("productId", line.ProductID)
		}
		doc.AddLine(productID, line.BatchNumber, line.Quantity, line.UnitPrice, line.DiscountPercent)
		doc.Lines[len(doc.Lines)-1].Expiry = line.Expiry
	}

	return doc, nil
}

// Source maps the edited-field hints to a totals source.
func (r *CreateTradeRequest) Source() totals.Source {
	return totals.Source{
		Discount: totals.EditedField(r.DiscountEdited),
		Tax:      totals.EditedField(r.TaxEdited),
	}
}

// UpdateTradeRequest is the request body for updating a trade document.
type UpdateTradeRequest struct {
	Date           *time.Time         `json:"date,omitempty"`
	CounterpartyID string             `json:"counterpartyId" binding:"required"`
	Comment        string             `json:"comment,omitempty"`
	Version        int                `json:"version" binding:"required"`
	Lines          []TradeLineRequest `json:"lines" binding:"required,min=1,dive"`

	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	TaxPercent      decimal.Decimal `json:"taxPercent"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`

	DiscountEdited string `json:"discountEdited,omitempty" binding:"omitempty,oneof=pct amt"`
	TaxEdited      string `json:"taxEdited,omitempty" binding:"omitempty,oneof=pct amt"`
}

// ApplyTo applies updates to an existing document. Number and Kind are
// preserved by the service; lines are always replaced wholesale.
func (r *UpdateTradeRequest) ApplyTo(doc *trade.Document) error {
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.CounterpartyID != "" {
		counterpartyID, err := id.Parse(r.CounterpartyID)
		if err != nil {
			return apperror.NewValidation("invalid counterparty id").
				WithDetail("counterpartyId", r.CounterpartyID)
		}
		doc.CounterpartyID = counterpartyID
	}
	doc.Comment = r.Comment
	doc.Version = r.Version
	doc.DiscountPercent = r.DiscountPercent
	doc.DiscountAmount = r.DiscountAmount
	doc.TaxPercent = r.TaxPercent
	doc.TaxAmount = r.TaxAmount

	doc.Lines = doc.Lines[:0]
	for i, line := range r.Lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return apperror.NewValidation("invalid product id").
				WithDetail("lineNo", i+1).
				WithDetail("productId", line.ProductID)
		}
		doc.AddLine(productID, line.BatchNumber, line.Quantity, line.UnitPrice, line.DiscountPercent)
		doc.Lines[len(doc.Lines)-1].Expiry = line.Expiry
	}

	return nil
}

// Source maps the edited-field hints to a totals source.
func (r *UpdateTradeRequest) Source() totals.Source {
	return totals.Source{
		Discount: totals.EditedField(r.DiscountEdited),
		Tax:      totals.EditedField(r.TaxEdited),
	}
}

// TradeListQuery contains trade document list parameters.
type TradeListQuery struct {
	ListQuery
	CounterpartyID string     `form:"counterpartyId"`
	DateFrom       *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo         *time.Time `form:"dateTo" time_format:"2006-01-02"`
}

// ToTradeFilter converts query parameters to a trade list filter.
func (q *TradeListQuery) ToTradeFilter(kind trade.Kind) trade.ListFilter {
	f := trade.ListFilter{
		ListFilter: q.ToFilter(),
		Kind:       kind,
		DateFrom:   q.DateFrom,
		DateTo:     q.DateTo,
	}
	if q.CounterpartyID != "" {
		if cpID, err := id.Parse(q.CounterpartyID); err == nil {
			f.CounterpartyID = &cpID
		}
	}
	return f
}

// --- Response DTOs ---

// TradeLineResponse represents a document line in API responses.
type TradeLineResponse struct {
	LineID          string          `json:"lineId"`
	LineNo          int             `json:"lineNo"`
	ProductID       string          `json:"productId"`
	BatchNumber     string          `json:"batchNumber,omitempty"`
	Expiry          *time.Time      `json:"expiry,omitempty"`
	Quantity        types.Quantity  `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	SubTotal        decimal.Decimal `json:"subTotal"`
}

// TradeResponse represents a trade document in API responses.
type TradeResponse struct {
	ID             string     `json:"id"`
	Kind           trade.Kind `json:"kind"`
	Number         string     `json:"number"`
	Date           time.Time  `json:"date"`
	CounterpartyID string     `json:"counterpartyId"`
	Comment        string     `json:"comment,omitempty"`
	Version        int        `json:"version"`
	DeletionMark   bool       `json:"deletionMark"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	GrossTotal      decimal.Decimal `json:"grossTotal"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	TaxPercent      decimal.Decimal `json:"taxPercent"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	Total           decimal.Decimal `json:"total"`

	Lines []TradeLineResponse `json:"lines,omitempty"`
}

// FromTrade converts domain entity to response DTO.
func FromTrade(doc *trade.Document) TradeResponse {
	resp := TradeResponse{
		ID:              doc.ID.String(),
		Kind:            doc.Kind,
		Number:          doc.Number,
		Date:            doc.Date,
		CounterpartyID:  doc.CounterpartyID.String(),
		Comment:         doc.Comment,
		Version:         doc.Version,
		DeletionMark:    doc.DeletionMark,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
		GrossTotal:      doc.GrossTotal,
		DiscountPercent: doc.DiscountPercent,
		DiscountAmount:  doc.DiscountAmount,
		TaxPercent:      doc.TaxPercent,
		TaxAmount:       doc.TaxAmount,
		Total:           doc.Total,
	}

	if len(doc.Lines) > 0 {
		resp.Lines = make([]TradeLineResponse, len(doc.Lines))
		for i, line := range doc.Lines {
			resp.Lines[i] = TradeLineResponse{
				LineID:          line.LineID.String(),
				LineNo:          line.LineNo,
				ProductID:       line.ProductID.String(),
				BatchNumber:     line.BatchNumber,
				Expiry:          line.Expiry,
				Quantity:        line.Quantity,
				UnitPrice:       line.UnitPrice,
				DiscountPercent: line.DiscountPercent,
				SubTotal:        line.SubTotal,
			}
		}
	}

	return resp
}

// FromTrades converts a slice of documents (headers only).
func FromTrades(docs []*trade.Document) []TradeResponse {
	out := make([]TradeResponse, len(docs))
	for i, doc := range docs {
		out[i] = FromTrade(doc)
	}
	return out
}

// Package trade provides the four trade documents: sale invoice, sale
// return, purchase invoice, purchase return. They share one model; the
// Kind drives the posted-number prefix and the stock sign convention.
package trade

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"pharmacore/internal/core/apperror"
	"pharmacore/internal/core/entity"
	"pharmacore/internal/core/id"
	"pharmacore/internal/core/types"
	"pharmacore/internal/domain/totals"
)

// Kind identifies the trade document variant.
type Kind string

const (
	KindSaleInvoice     Kind = "sale_invoice"
	KindSaleReturn      Kind = "sale_return"
	KindPurchaseInvoice Kind = "purchase_invoice"
	KindPurchaseReturn  Kind = "purchase_return"
)

// Valid reports whether the kind is one of the four trade variants.
func (k Kind) Valid() bool {
	switch k {
	case KindSaleInvoice, KindSaleReturn, KindPurchaseInvoice, KindPurchaseReturn:
		return true
	}
	return false
}

// NumberPrefix returns the posted-number prefix for the kind.
func (k Kind) NumberPrefix() string {
	switch k {
	case KindSaleInvoice:
		return "SI"
	case KindSaleReturn:
		return "SR"
	case KindPurchaseInvoice:
		return "PI"
	case KindPurchaseReturn:
		return "PR"
	}
	return "DOC"
}

// StockSign is the multiplier applied to line quantities when the
// document is created. Sales and purchase returns take stock out;
// purchases and sale returns bring it back in. Reverting negates it.
func (k Kind) StockSign() types.Quantity {
	switch k {
	case KindSaleInvoice, KindPurchaseReturn:
		return -1
	case KindSaleReturn, KindPurchaseInvoice:
		return 1
	}
	return 0
}

// Document is a trade document header with its lines.
type Document struct {
	entity.Document

	// Kind determines numbering and stock direction
	Kind Kind `db:"kind" json:"kind"`

	// CounterpartyID is the customer or supplier
	CounterpartyID id.ID `db:"counterparty_id" json:"counterpartyId"`

	// Footer totals
	GrossTotal      types.Money `db:"gross_total" json:"grossTotal"`
	DiscountPercent types.Money `db:"discount_percent" json:"discountPercent"`
	DiscountAmount  types.Money `db:"discount_amount" json:"discountAmount"`
	TaxPercent      types.Money `db:"tax_percent" json:"taxPercent"`
	TaxAmount       types.Money `db:"tax_amount" json:"taxAmount"`
	Total           types.Money `db:"total" json:"total"`

	// Table part
	Lines []Line `db:"-" json:"lines"`
}

// Line is one row of a trade document.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID   id.ID      `db:"product_id" json:"productId"`
	BatchNumber string     `db:"batch_number" json:"batchNumber,omitempty"`
	Expiry      *time.Time `db:"expiry" json:"expiry,omitempty"`

	Quantity        types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice       types.Money    `db:"unit_price" json:"unitPrice"`
	DiscountPercent types.Money    `db:"discount_percent" json:"discountPercent"`
	SubTotal        types.Money    `db:"sub_total" json:"subTotal"`
}

// StockDelta is the signed delta this line applies on document creation.
func (l Line) StockDelta(kind Kind) types.Quantity {
	return l.Quantity * kind.StockSign()
}

// New creates a trade document of the given kind.
func New(kind Kind, counterpartyID id.ID) *Document {
	return &Document{
		Document:        entity.NewDocument(),
		Kind:            kind,
		CounterpartyID:  counterpartyID,
		GrossTotal:      decimal.Zero,
		DiscountPercent: decimal.Zero,
		DiscountAmount:  decimal.Zero,
		TaxPercent:      decimal.Zero,
		TaxAmount:       decimal.Zero,
		Total:           decimal.Zero,
		Lines:           make([]Line, 0),
	}
}

// AddLine appends a line and recomputes its sub-total.
func (d *Document) AddLine(productID id.ID, batchNumber string, qty types.Quantity, unitPrice, discountPercent types.Money) {
	line := Line{
		LineID:          id.New(),
		LineNo:          len(d.Lines) + 1,
		ProductID:       productID,
		BatchNumber:     batchNumber,
		Quantity:        qty,
		UnitPrice:       unitPrice,
		DiscountPercent: discountPercent,
		SubTotal:        totals.SubTotal(qty, unitPrice, discountPercent),
	}
	d.Lines = append(d.Lines, line)
}

// Recalc recomputes every line sub-total and the footer.
func (d *Document) Recalc(src totals.Source) {
	subs := make([]types.Money, len(d.Lines))
	for i := range d.Lines {
		d.Lines[i].SubTotal = totals.SubTotal(d.Lines[i].Quantity, d.Lines[i].UnitPrice, d.Lines[i].DiscountPercent)
		d.Lines[i].LineNo = i + 1
		subs[i] = d.Lines[i].SubTotal
	}

	f := totals.RecalcFooter(subs, totals.Footer{
		DiscountPercent: d.DiscountPercent,
		DiscountAmount:  d.DiscountAmount,
		TaxPercent:      d.TaxPercent,
		TaxAmount:       d.TaxAmount,
	}, src)

	d.GrossTotal = f.GrossTotal
	d.DiscountPercent = f.DiscountPercent
	d.DiscountAmount = f.DiscountAmount
	d.TaxPercent = f.TaxPercent
	d.TaxAmount = f.TaxAmount
	d.Total = f.Total
}

// Validate implements entity.Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}

	if !d.Kind.Valid() {
		return apperror.NewValidation("invalid document kind").
			WithDetail("field", "kind").
			WithDetail("value", string(d.Kind))
	}

	if id.IsNil(d.CounterpartyID) {
		return apperror.NewValidation("counterparty is required").
			WithDetail("field", "counterpartyId")
	}

	if len(d.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range d.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.DiscountPercent.IsNegative() || line.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
			return apperror.NewValidation("line discount must be between 0 and 100").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

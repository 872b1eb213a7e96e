// Package product provides the Product catalog: pharmacy items with
// pack/unit pricing and on-hand stock.
package product

import (
	"context"

	"github.com/shopspring/decimal"

	"pharmacore/internal/core/apperror"
	"pharmacore/internal/core/entity"
	"pharmacore/internal/core/types"
)

// Product represents a pharmacy item. Stock is held in whole units;
// PackSize tells how many units make up one pack for pack pricing.
type Product struct {
	entity.Catalog

	// Barcode is the item barcode (EAN-13, etc.)
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// PackSize is the number of units per pack
	PackSize int64 `db:"pack_size" json:"packSize"`

	// Purchase prices
	PackPurchasePrice types.Money `db:"pack_purchase_price" json:"packPurchasePrice"`
	UnitPurchasePrice types.Money `db:"unit_purchase_price" json:"unitPurchasePrice"`

	// Sale prices
	PackSalePrice types.Money `db:"pack_sale_price" json:"packSalePrice"`
	UnitSalePrice types.Money `db:"unit_sale_price" json:"unitSalePrice"`

	// AvgCost is the moving average cost per unit
	AvgCost types.Money `db:"avg_cost" json:"avgCost"`

	// Quantity is the on-hand stock in units. Mutated only through the
	// reconciliation engine or an administrative edit.
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// MinQuantity is the reorder threshold
	MinQuantity types.Quantity `db:"min_quantity" json:"minQuantity"`
}

// New creates a Product with required fields.
func New(code, name string) *Product {
	return &Product{
		Catalog:           entity.NewCatalog(code, name),
		PackSize:          1,
		PackPurchasePrice: decimal.Zero,
		UnitPurchasePrice: decimal.Zero,
		PackSalePrice:     decimal.Zero,
		UnitSalePrice:     decimal.Zero,
		AvgCost:           decimal.Zero,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.PackSize < 1 {
		return apperror.NewValidation("pack size must be at least 1").
			WithDetail("field", "packSize")
	}

	if p.Quantity.IsNegative() {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity")
	}

	for field, price := range map[string]types.Money{
		"packPurchasePrice": p.PackPurchasePrice,
		"unitPurchasePrice": p.UnitPurchasePrice,
		"packSalePrice":     p.PackSalePrice,
		"unitSalePrice":     p.UnitSalePrice,
		"avgCost":           p.AvgCost,
	} {
		if price.IsNegative() {
			return apperror.NewValidation("price cannot be negative").
				WithDetail("field", field)
		}
	}

	return nil
}

// IsLowStock reports whether stock fell to or below the reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.MinQuantity > 0 && p.Quantity <= p.MinQuantity
}

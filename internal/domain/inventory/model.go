// Package inventory implements the stock reconciliation engine.
package inventory

import (
	"time"

	"pharmacore/internal/core/id"
	"pharmacore/internal/core/types"
)

// Batch is a dated lot of a product. Stock is tracked per batch and
// mirrored onto the owning product.
type Batch struct {
	ID          id.ID          `db:"id" json:"id"`
	ProductID   id.ID          `db:"product_id" json:"productId"`
	BatchNumber string         `db:"batch_number" json:"batchNumber"`
	Expiry      *time.Time     `db:"expiry" json:"expiry,omitempty"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// ProductStock is the stock-relevant slice of a product row.
type ProductStock struct {
	ProductID id.ID          `db:"id"`
	Quantity  types.Quantity `db:"quantity"`
}

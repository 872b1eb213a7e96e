package inventory

import (
	"context"
	"time"

	"pharmacore/internal/core/id"
	"pharmacore/internal/core/types"
)

// Repository is the storage surface the reconciliation engine needs.
// Implementations must take row locks on the *ForUpdate reads so the
// read-modify-write in the engine is safe under concurrent requests.
type Repository interface {
	// GetProductForUpdate loads and locks the product's stock row.
	// Returns (nil, nil) when the product does not exist.
	GetProductForUpdate(ctx context.Context, productID id.ID) (*ProductStock, error)

	// UpdateProductQuantity persists the product's on-hand quantity.
	UpdateProductQuantity(ctx context.Context, productID id.ID, quantity types.Quantity) error

	// FindBatchForUpdate loads and locks a batch by product and batch
	// number, narrowing by expiry when given. Returns (nil, nil) when
	// no batch matches.
	FindBatchForUpdate(ctx context.Context, productID id.ID, batchNumber string, expiry *time.Time) (*Batch, error)

	// UpdateBatchQuantity persists a batch's quantity.
	UpdateBatchQuantity(ctx context.Context, batchID id.ID, quantity types.Quantity) error

	// CreateBatch inserts a new batch row.
	CreateBatch(ctx context.Context, batch *Batch) error

	// ListBatchesByProduct returns all batches of a product ordered by expiry.
	ListBatchesByProduct(ctx context.Context, productID id.ID) ([]Batch, error)
}

package inventory

import (
	"context"
	"fmt"
	"time"

	"pharmacore/internal/core/id"
	"pharmacore/internal/core/types"
	"pharmacore/pkg/logger"
)

// Outcome classifies what a delta application actually touched.
type Outcome string

const (
	// OutcomeApplied means a batch matched; the clamped delta was
	// applied to the batch and mirrored onto the product.
	OutcomeApplied Outcome = "applied"

	// OutcomeAppliedToProduct means no batch matched (or none was
	// named); the full requested delta went to the product only.
	OutcomeAppliedToProduct Outcome = "applied_to_product"

	// OutcomeProductNotFound means the product row is gone. Nothing
	// was written; callers decide whether that is fatal.
	OutcomeProductNotFound Outcome = "product_not_found"
)

// AdjustmentRequest is a single signed stock delta against a product,
// optionally narrowed to a batch.
type AdjustmentRequest struct {
	ProductID   id.ID
	BatchNumber string
	Expiry      *time.Time
	Delta       types.Quantity
}

// Adjustment reports what was actually applied. Requested and applied
// deltas can differ when clamping at zero kicked in.
type Adjustment struct {
	Outcome         Outcome
	Requested       types.Quantity
	BatchApplied    types.Quantity
	ProductApplied  types.Quantity
	BatchQuantity   types.Quantity
	ProductQuantity types.Quantity
}

// Engine applies signed stock deltas with clamp-at-zero semantics.
// It must run inside the caller's transaction: the repository locks the
// rows it reads and the engine writes them back.
type Engine struct {
	repo Repository
}

// NewEngine creates a reconciliation engine over the given repository.
func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// ApplyDelta applies one signed delta.
//
// When a batch matches, the batch quantity is clamped at zero and the
// delta that actually landed on the batch, not the requested one, is
// mirrored onto the product (again clamped). Without a batch match the
// full requested delta goes straight to the product. Clamping never
// raises; the returned Adjustment carries requested vs applied values
// so callers can log the discrepancy.
func (e *Engine) ApplyDelta(ctx context.Context, req AdjustmentRequest) (Adjustment, error) {
	adj := Adjustment{Requested: req.Delta}

	product, err := e.repo.GetProductForUpdate(ctx, req.ProductID)
	if err != nil {
		return adj, fmt.Errorf("load product %s: %w", req.ProductID, err)
	}
	if product == nil {
		adj.Outcome = OutcomeProductNotFound
		return adj, nil
	}

	effective := req.Delta

	if req.BatchNumber != "" {
		batch, err := e.repo.FindBatchForUpdate(ctx, req.ProductID, req.BatchNumber, req.Expiry)
		if err != nil {
			return adj, fmt.Errorf("load batch %q: %w", req.BatchNumber, err)
		}
		if batch != nil {
			before := batch.Quantity
			after := (before + req.Delta).ClampNonNegative()
			if err := e.repo.UpdateBatchQuantity(ctx, batch.ID, after); err != nil {
				return adj, fmt.Errorf("update batch %s: %w", batch.ID, err)
			}

			applied := after - before
			if applied != req.Delta {
				logger.Warn(ctx, "batch delta clamped at zero",
					"product_id", req.ProductID,
					"batch_number", req.BatchNumber,
					"requested", req.Delta,
					"applied", applied,
				)
			}

			adj.Outcome = OutcomeApplied
			adj.BatchApplied = applied
			adj.BatchQuantity = after
			effective = applied
		} else {
			adj.Outcome = OutcomeAppliedToProduct
		}
	} else {
		adj.Outcome = OutcomeAppliedToProduct
	}

	before := product.Quantity
	after := (before + effective).ClampNonNegative()
	if err := e.repo.UpdateProductQuantity(ctx, req.ProductID, after); err != nil {
		return adj, fmt.Errorf("update product %s: %w", req.ProductID, err)
	}

	applied := after - before
	if applied != effective {
		logger.Warn(ctx, "product delta clamped at zero",
			"product_id", req.ProductID,
			"requested", effective,
			"applied", applied,
		)
	}

	adj.ProductApplied = applied
	adj.ProductQuantity = after
	return adj, nil
}

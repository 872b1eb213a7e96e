// Package inventory_repo provides the PostgreSQL stock repository used
// by the reconciliation engine.
package inventory_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pharmacore/internal/core/id"
	"pharmacore/internal/core/types"
	"pharmacore/internal/domain/inventory"
	"pharmacore/internal/infrastructure/storage/postgres"
)

const (
	productTable = "cat_products"
	batchTable   = "inv_batches"
)

// StockRepo implements inventory.Repository. The *ForUpdate reads take
// row locks, so it must be used inside a transaction.
type StockRepo struct {
	txManager *postgres.TxManager
}

// NewStockRepo creates a new stock repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{txManager: txManager}
}

func (r *StockRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetProductForUpdate loads and locks the product's stock row.
// Returns (nil, nil) when the product does not exist.
func (r *StockRepo) GetProductForUpdate(ctx context.Context, productID id.ID) (*inventory.ProductStock, error) {
	q := r.builder().
		Select("id", "quantity").
		From(productTable).
		Where(squirrel.Eq{"id": productID}).
		Suffix("FOR UPDATE")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	stock := &inventory.ProductStock{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), stock, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock product: %w", err)
	}

	return stock, nil
}

// UpdateProductQuantity persists the product's on-hand quantity.
func (r *StockRepo) UpdateProductQuantity(ctx context.Context, productID id.ID, quantity types.Quantity) error {
	q := r.builder().
		Update(productTable).
		Set("quantity", quantity).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update product quantity: %w", err)
	}

	return nil
}

// FindBatchForUpdate loads and locks a batch by product and batch
// number, narrowing by expiry when given. If the expiry-narrowed lookup
// matches nothing, the lookup retries on number alone, so a document
// carrying a stale expiry date still finds its lot.
// Returns (nil, nil) when no batch matches.
func (r *StockRepo) FindBatchForUpdate(ctx context.Context, productID id.ID, batchNumber string, expiry *time.Time) (*inventory.Batch, error) {
	if expiry != nil {
		batch, err := r.lockBatch(ctx, productID, batchNumber, expiry)
		if err != nil || batch != nil {
			return batch, err
		}
	}
	return r.lockBatch(ctx, productID, batchNumber, nil)
}

func (r *StockRepo) lockBatch(ctx context.Context, productID id.ID, batchNumber string, expiry *time.Time) (*inventory.Batch, error) {
	q := r.builder().
		Select("id", "product_id", "batch_number", "expiry", "quantity", "created_at", "updated_at").
		From(batchTable).
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.Eq{"batch_number": batchNumber})

	if expiry != nil {
		q = q.Where(squirrel.Eq{"expiry": *expiry})
	}

	q = q.OrderBy("expiry ASC NULLS LAST").
		Limit(1).
		Suffix("FOR UPDATE")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	batch := &inventory.Batch{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), batch, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock batch: %w", err)
	}

	return batch, nil
}

// UpdateBatchQuantity persists a batch's quantity.
func (r *StockRepo) UpdateBatchQuantity(ctx context.Context, batchID id.ID, quantity types.Quantity) error {
	q := r.builder().
		Update(batchTable).
		Set("quantity", quantity).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": batchID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update batch quantity: %w", err)
	}

	return nil
}

// CreateBatch inserts a new batch row.
func (r *StockRepo) CreateBatch(ctx context.Context, batch *inventory.Batch) error {
	if id.IsNil(batch.ID) {
		batch.ID = id.New()
	}
	now := time.Now().UTC()
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = now
	}
	batch.UpdatedAt = now

	q := r.builder().
		Insert(batchTable).
		Columns("id", "product_id", "batch_number", "expiry", "quantity", "created_at", "updated_at").
		Values(batch.ID, batch.ProductID, batch.BatchNumber, batch.Expiry, batch.Quantity, batch.CreatedAt, batch.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	return nil
}

// ListBatchesByProduct returns all batches of a product ordered by expiry.
func (r *StockRepo) ListBatchesByProduct(ctx context.Context, productID id.ID) ([]inventory.Batch, error) {
	q := r.builder().
		Select("id", "product_id", "batch_number", "expiry", "quantity", "created_at", "updated_at").
		From(batchTable).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("expiry ASC NULLS LAST", "batch_number ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var batches []inventory.Batch
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &batches, sql, args...); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}

	return batches, nil
}

var _ inventory.Repository = (*StockRepo)(nil)

package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacore/internal/core/id"
	"pharmacore/internal/core/types"
)

// fakeRepo holds stock state in memory.
type fakeRepo struct {
	products map[id.ID]types.Quantity
	batches  []*Batch
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[id.ID]types.Quantity)}
}

func (r *fakeRepo) GetProductForUpdate(_ context.Context, productID id.ID) (*ProductStock, error) {
	qty, ok := r.products[productID]
	if !ok {
		return nil, nil
	}
	return &ProductStock{ProductID: productID, Quantity: qty}, nil
}

func (r *fakeRepo) UpdateProductQuantity(_ context.Context, productID id.ID, quantity types.Quantity) error {
	r.products[productID] = quantity
	return nil
}

func (r *fakeRepo) FindBatchForUpdate(_ context.Context, productID id.ID, batchNumber string, expiry *time.Time) (*Batch, error) {
	for _, b := range r.batches {
		if b.ProductID != productID || b.BatchNumber != batchNumber {
			continue
		}
		if expiry != nil && b.Expiry != nil && !b.Expiry.Equal(*expiry) {
			continue
		}
		return b, nil
	}
	return nil, nil
}

func (r *fakeRepo) UpdateBatchQuantity(_ context.Context, batchID id.ID, quantity types.Quantity) error {
	for _, b := range r.batches {
		if b.ID == batchID {
			b.Quantity = quantity
			return nil
		}
	}
	return nil
}

func (r *fakeRepo) CreateBatch(_ context.Context, batch *Batch) error {
	r.batches = append(r.batches, batch)
	return nil
}

func (r *fakeRepo) ListBatchesByProduct(_ context.Context, productID id.ID) ([]Batch, error) {
	var out []Batch
	for _, b := range r.batches {
		if b.ProductID == productID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) addBatch(productID id.ID, number string, qty types.Quantity) *Batch {
	b := &Batch{ID: id.New(), ProductID: productID, BatchNumber: number, Quantity: qty}
	r.batches = append(r.batches, b)
	return b
}

func TestApplyDelta_BatchMatch(t *testing.T) {
	repo := newFakeRepo()
	productID := id.New()
	repo.products[productID] = 20
	repo.addBatch(productID, "B1", 8)

	engine := NewEngine(repo)
	adj, err := engine.ApplyDelta(context.Background(), AdjustmentRequest{
		ProductID:   productID,
		BatchNumber: "B1",
		Delta:       -5,
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeApplied, adj.Outcome)
	assert.Equal(t, types.Quantity(-5), adj.BatchApplied)
	assert.Equal(t, types.Quantity(-5), adj.ProductApplied)
	assert.Equal(t, types.Quantity(3), adj.BatchQuantity)
	assert.Equal(t, types.Quantity(15), adj.ProductQuantity)
}

func TestApplyDelta_ClampMirrorsAppliedDelta(t *testing.T) {
	// Batch has 3 units; a delta of -10 clamps to -3, and only -3 may
	// reach the product.
	repo := newFakeRepo()
	productID := id.New()
	repo.products[productID] = 50
	repo.addBatch(productID, "B1", 3)

	engine := NewEngine(repo)
	adj, err := engine.ApplyDelta(context.Background(), AdjustmentRequest{
		ProductID:   productID,
		BatchNumber: "B1",
		Delta:       -10,
	})
	require.NoError(t, err)

	assert.Equal(t, types.Quantity(-10), adj.Requested)
	assert.Equal(t, types.Quantity(-3), adj.BatchApplied)
	assert.Equal(t, types.Quantity(0), adj.BatchQuantity)
	assert.Equal(t, types.Quantity(-3), adj.ProductApplied)
	assert.Equal(t, types.Quantity(47), adj.ProductQuantity)
}

func TestApplyDelta_NoNegativeStock(t *testing.T) {
	repo := newFakeRepo()
	productID := id.New()
	repo.products[productID] = 4
	batch := repo.addBatch(productID, "B1", 2)

	engine := NewEngine(repo)
	deltas := []types.Quantity{-3, -5, 4, -100, 7, -2}
	for _, d := range deltas {
		_, err := engine.ApplyDelta(context.Background(), AdjustmentRequest{
			ProductID:   productID,
			BatchNumber: "B1",
			Delta:       d,
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, repo.products[productID].Int64(), int64(0))
		assert.GreaterOrEqual(t, batch.Quantity.Int64(), int64(0))
	}
}

func TestApplyDelta_RevertRestoresQuantities(t *testing.T) {
	repo := newFakeRepo()
	productID := id.New()
	repo.products[productID] = 20
	batch := repo.addBatch(productID, "B1", 8)

	engine := NewEngine(repo)
	ctx := context.Background()

	_, err := engine.ApplyDelta(ctx, AdjustmentRequest{ProductID: productID, BatchNumber: "B1", Delta: -5})
	require.NoError(t, err)
	_, err = engine.ApplyDelta(ctx, AdjustmentRequest{ProductID: productID, BatchNumber: "B1", Delta: 5})
	require.NoError(t, err)

	assert.Equal(t, types.Quantity(20), repo.products[productID])
	assert.Equal(t, types.Quantity(8), batch.Quantity)
}

func TestApplyDelta_NoBatchMatchFallsBackToProduct(t *testing.T) {
	repo := newFakeRepo()
	productID := id.New()
	repo.products[productID] = 10

	engine := NewEngine(repo)
	adj, err := engine.ApplyDelta(context.Background(), AdjustmentRequest{
		ProductID:   productID,
		BatchNumber: "MISSING",
		Delta:       -4,
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeAppliedToProduct, adj.Outcome)
	assert.Equal(t, types.Quantity(-4), adj.ProductApplied)
	assert.Equal(t, types.Quantity(6), repo.products[productID])
}

func TestApplyDelta_NoBatchNumberGoesToProduct(t *testing.T) {
	repo := newFakeRepo()
	productID := id.New()
	repo.products[productID] = 10

	engine := NewEngine(repo)
	adj, err := engine.ApplyDelta(context.Background(), AdjustmentRequest{
		ProductID: productID,
		Delta:     3,
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeAppliedToProduct, adj.Outcome)
	assert.Equal(t, types.Quantity(13), repo.products[productID])
}

func TestApplyDelta_ProductNotFound(t *testing.T) {
	repo := newFakeRepo()
	engine := NewEngine(repo)

	adj, err := engine.ApplyDelta(context.Background(), AdjustmentRequest{
		ProductID: id.New(),
		Delta:     -5,
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeProductNotFound, adj.Outcome)
	assert.Zero(t, adj.ProductApplied)
	assert.Zero(t, adj.BatchApplied)
}

func TestApplyDelta_ExpiryNarrowsMatch(t *testing.T) {
	repo := newFakeRepo()
	productID := id.New()
	repo.products[productID] = 30

	exp1 := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	exp2 := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	b1 := repo.addBatch(productID, "B1", 10)
	b1.Expiry = &exp1
	b2 := repo.addBatch(productID, "B1", 10)
	b2.Expiry = &exp2

	engine := NewEngine(repo)
	adj, err := engine.ApplyDelta(context.Background(), AdjustmentRequest{
		ProductID:   productID,
		BatchNumber: "B1",
		Expiry:      &exp2,
		Delta:       -6,
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeApplied, adj.Outcome)
	assert.Equal(t, types.Quantity(10), b1.Quantity)
	assert.Equal(t, types.Quantity(4), b2.Quantity)
}

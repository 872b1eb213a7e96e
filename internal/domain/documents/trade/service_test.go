package trade

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacore/internal/core/apperror"
	"pharmacore/internal/core/id"
	"pharmacore/internal/core/types"
	"pharmacore/internal/domain"
	"pharmacore/internal/domain/inventory"
	"pharmacore/internal/domain/totals"
	"pharmacore/pkg/numerator"
)

// --- Fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAudit struct {
	entries []string
}

func (a *fakeAudit) LogCreate(_ context.Context, entityType string, entityID id.ID, _ any) error {
	a.entries = append(a.entries, "create:"+entityType)
	return nil
}

func (a *fakeAudit) LogUpdate(_ context.Context, entityType string, entityID id.ID, _, _ any) error {
	a.entries = append(a.entries, "update:"+entityType)
	return nil
}

func (a *fakeAudit) LogDelete(_ context.Context, entityType string, entityID id.ID, _ any) error {
	a.entries = append(a.entries, "delete:"+entityType)
	return nil
}

type fakeNumerator struct {
	next int64
}

func (n *fakeNumerator) GetNextNumber(_ context.Context, cfg numerator.Config, _ *numerator.Options, _ time.Time) (string, error) {
	n.next++
	return fmt.Sprintf("%s-%06d", cfg.Prefix, n.next), nil
}

// fakeStockRepo backs the inventory engine with in-memory state.
type fakeStockRepo struct {
	products map[id.ID]types.Quantity
	batches  []*inventory.Batch
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{products: make(map[id.ID]types.Quantity)}
}

func (r *fakeStockRepo) GetProductForUpdate(_ context.Context, productID id.ID) (*inventory.ProductStock, error) {
	qty, ok := r.products[productID]
	if !ok {
		return nil, nil
	}
	return &inventory.ProductStock{ProductID: productID, Quantity: qty}, nil
}

func (r *fakeStockRepo) UpdateProductQuantity(_ context.Context, productID id.ID, quantity types.Quantity) error {
	r.products[productID] = quantity
	return nil
}

func (r *fakeStockRepo) FindBatchForUpdate(_ context.Context, productID id.ID, batchNumber string, expiry *time.Time) (*inventory.Batch, error) {
	for _, b := range r.batches {
		if b.ProductID == productID && b.BatchNumber == batchNumber {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeStockRepo) UpdateBatchQuantity(_ context.Context, batchID id.ID, quantity types.Quantity) error {
	for _, b := range r.batches {
		if b.ID == batchID {
			b.Quantity = quantity
			return nil
		}
	}
	return nil
}

func (r *fakeStockRepo) CreateBatch(_ context.Context, batch *inventory.Batch) error {
	r.batches = append(r.batches, batch)
	return nil
}

func (r *fakeStockRepo) ListBatchesByProduct(_ context.Context, productID id.ID) ([]inventory.Batch, error) {
	var out []inventory.Batch
	for _, b := range r.batches {
		if b.ProductID == productID {
			out = append(out, *b)
		}
	}
	return out, nil
}

// fakeDocRepo stores documents and lines in memory.
type fakeDocRepo struct {
	docs  map[id.ID]*Document
	lines map[id.ID][]Line
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{
		docs:  make(map[id.ID]*Document),
		lines: make(map[id.ID][]Line),
	}
}

func (r *fakeDocRepo) Create(_ context.Context, doc *Document) error {
	cp := *doc
	cp.Lines = nil
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocRepo) GetByID(_ context.Context, docID id.ID) (*Document, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("document", docID.String())
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeDocRepo) Update(_ context.Context, doc *Document) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("document", doc.ID.String())
	}
	cp := *doc
	cp.Lines = nil
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocRepo) Delete(_ context.Context, docID id.ID) error {
	delete(r.docs, docID)
	return nil
}

func (r *fakeDocRepo) GetLines(_ context.Context, docID id.ID) ([]Line, error) {
	return append([]Line(nil), r.lines[docID]...), nil
}

func (r *fakeDocRepo) ReplaceLines(_ context.Context, docID id.ID, lines []Line) error {
	r.lines[docID] = append([]Line(nil), lines...)
	return nil
}

func (r *fakeDocRepo) DeleteLines(_ context.Context, docID id.ID) error {
	delete(r.lines, docID)
	return nil
}

func (r *fakeDocRepo) List(_ context.Context, filter ListFilter) (domain.ListResult[*Document], error) {
	var items []*Document
	for _, d := range r.docs {
		if filter.Kind != "" && d.Kind != filter.Kind {
			continue
		}
		items = append(items, d)
	}
	return domain.ListResult[*Document]{Items: items, TotalCount: int64(len(items))}, nil
}

func newTestService(stock *fakeStockRepo, docs *fakeDocRepo) (*Service, *fakeAudit) {
	audit := &fakeAudit{}
	svc := NewService(
		docs,
		inventory.NewEngine(stock),
		&fakeNumerator{},
		fakeTxManager{},
		audit,
	)
	return svc, audit
}

// --- Tests ---

func TestCreate_SaleInvoiceAdjustsStock(t *testing.T) {
	stock := newFakeStockRepo()
	docs := newFakeDocRepo()
	svc, audit := newTestService(stock, docs)
	ctx := context.Background()

	productID := id.New()
	stock.products[productID] = 20
	batch := &inventory.Batch{ID: id.New(), ProductID: productID, BatchNumber: "B1", Quantity: 8}
	stock.batches = append(stock.batches, batch)

	doc := New(KindSaleInvoice, id.New())
	doc.AddLine(productID, "B1", 5, types.MustMoney("10"), types.MustMoney("0"))

	require.NoError(t, svc.Create(ctx, doc, totals.Source{}))

	assert.Equal(t, types.Quantity(3), batch.Quantity)
	assert.Equal(t, types.Quantity(15), stock.products[productID])
	assert.True(t, doc.Lines[0].SubTotal.Equal(types.MustMoney("50.00")))
	assert.True(t, doc.Total.Equal(types.MustMoney("50.00")))
	assert.Equal(t, "SI-000001", doc.Number)
	assert.Equal(t, []string{"create:sale_invoice"}, audit.entries)
}

func TestUpdate_RevertsThenApplies(t *testing.T) {
	stock := newFakeStockRepo()
	docs := newFakeDocRepo()
	svc, _ := newTestService(stock, docs)
	ctx := context.Background()

	productID := id.New()
	stock.products[productID] = 20
	batch := &inventory.Batch{ID: id.New(), ProductID: productID, BatchNumber: "B1", Quantity: 8}
	stock.batches = append(stock.batches, batch)

	doc := New(KindSaleInvoice, id.New())
	doc.AddLine(productID, "B1", 5, types.MustMoney("10"), types.MustMoney("0"))
	require.NoError(t, svc.Create(ctx, doc, totals.Source{}))
	require.Equal(t, types.Quantity(3), batch.Quantity)
	require.Equal(t, types.Quantity(15), stock.products[productID])

	// Change quantity from 5 to 2: revert +5 (batch 8, product 20),
	// then apply -2 (batch 6, product 18).
	updated := New(KindSaleInvoice, doc.CounterpartyID)
	updated.ID = doc.ID
	updated.AddLine(productID, "B1", 2, types.MustMoney("10"), types.MustMoney("0"))

	require.NoError(t, svc.Update(ctx, updated, totals.Source{}))

	assert.Equal(t, types.Quantity(6), batch.Quantity)
	assert.Equal(t, types.Quantity(18), stock.products[productID])
	assert.True(t, updated.Total.Equal(types.MustMoney("20.00")))
	assert.Equal(t, doc.Number, updated.Number, "posted number survives updates")
}

func TestDelete_RevertsStock(t *testing.T) {
	stock := newFakeStockRepo()
	docs := newFakeDocRepo()
	svc, audit := newTestService(stock, docs)
	ctx := context.Background()

	productID := id.New()
	stock.products[productID] = 10

	doc := New(KindPurchaseInvoice, id.New())
	doc.AddLine(productID, "", 4, types.MustMoney("7"), types.MustMoney("0"))
	require.NoError(t, svc.Create(ctx, doc, totals.Source{}))
	require.Equal(t, types.Quantity(14), stock.products[productID])

	require.NoError(t, svc.Delete(ctx, doc.ID))

	assert.Equal(t, types.Quantity(10), stock.products[productID])
	_, err := svc.GetByID(ctx, doc.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.Contains(t, audit.entries, "delete:purchase_invoice")
}

func TestCreate_ProductNotFoundFails(t *testing.T) {
	stock := newFakeStockRepo()
	docs := newFakeDocRepo()
	svc, _ := newTestService(stock, docs)

	doc := New(KindSaleInvoice, id.New())
	doc.AddLine(id.New(), "", 1, types.MustMoney("10"), types.MustMoney("0"))

	err := svc.Create(context.Background(), doc, totals.Source{})
	assert.True(t, apperror.IsStockNotFound(err))
}

func TestDelete_SkipsRevertForMissingProduct(t *testing.T) {
	stock := newFakeStockRepo()
	docs := newFakeDocRepo()
	svc, _ := newTestService(stock, docs)
	ctx := context.Background()

	productID := id.New()
	stock.products[productID] = 10

	doc := New(KindSaleInvoice, id.New())
	doc.AddLine(productID, "", 2, types.MustMoney("10"), types.MustMoney("0"))
	require.NoError(t, svc.Create(ctx, doc, totals.Source{}))

	// Product is gone by the time the document is deleted.
	delete(stock.products, productID)

	require.NoError(t, svc.Delete(ctx, doc.ID))
	_, err := svc.GetByID(ctx, doc.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdate_KindCannotChange(t *testing.T) {
	stock := newFakeStockRepo()
	docs := newFakeDocRepo()
	svc, _ := newTestService(stock, docs)
	ctx := context.Background()

	productID := id.New()
	stock.products[productID] = 10

	doc := New(KindSaleInvoice, id.New())
	doc.AddLine(productID, "", 1, types.MustMoney("10"), types.MustMoney("0"))
	require.NoError(t, svc.Create(ctx, doc, totals.Source{}))

	changed := New(KindSaleReturn, doc.CounterpartyID)
	changed.ID = doc.ID
	changed.AddLine(productID, "", 1, types.MustMoney("10"), types.MustMoney("0"))

	err := svc.Update(ctx, changed, totals.Source{})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreate_PurchaseReturnDecreasesStock(t *testing.T) {
	stock := newFakeStockRepo()
	docs := newFakeDocRepo()
	svc, _ := newTestService(stock, docs)
	ctx := context.Background()

	productID := id.New()
	stock.products[productID] = 10

	doc := New(KindPurchaseReturn, id.New())
	doc.AddLine(productID, "", 3, types.MustMoney("5"), types.MustMoney("0"))
	require.NoError(t, svc.Create(ctx, doc, totals.Source{}))

	assert.Equal(t, types.Quantity(7), stock.products[productID])
	assert.Equal(t, "PR-000001", doc.Number)
}

func TestCreate_FooterWithDiscountAndTax(t *testing.T) {
	stock := newFakeStockRepo()
	docs := newFakeDocRepo()
	svc, _ := newTestService(stock, docs)
	ctx := context.Background()

	productID := id.New()
	stock.products[productID] = 100

	doc := New(KindSaleInvoice, id.New())
	doc.AddLine(productID, "", 10, types.MustMoney("100"), types.MustMoney("0"))
	doc.DiscountPercent = types.MustMoney("10")
	doc.TaxPercent = types.MustMoney("20")

	require.NoError(t, svc.Create(ctx, doc, totals.Source{
		Discount: totals.FieldPercent,
		Tax:      totals.FieldPercent,
	}))

	assert.True(t, doc.GrossTotal.Equal(types.MustMoney("1000.00")))
	assert.True(t, doc.DiscountAmount.Equal(types.MustMoney("100.00")))
	assert.True(t, doc.TaxAmount.Equal(types.MustMoney("180.00")))
	assert.True(t, doc.Total.Equal(types.MustMoney("1080.00")))
}

type readOnlyTxManager struct {
	fakeTxManager
	readOnlyCalls int
}

func (m *readOnlyTxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.readOnlyCalls++
	return fn(ctx)
}

func TestList_UsesReadOnlyTransaction(t *testing.T) {
	stock := newFakeStockRepo()
	docs := newFakeDocRepo()
	txm := &readOnlyTxManager{}
	svc := NewService(docs, inventory.NewEngine(stock), &fakeNumerator{}, txm, &fakeAudit{})

	result, err := svc.List(context.Background(), ListFilter{Kind: KindSaleInvoice})
	require.NoError(t, err)

	assert.Zero(t, result.TotalCount)
	assert.Equal(t, 1, txm.readOnlyCalls)
}

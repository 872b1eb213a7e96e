package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacore/internal/core/entity"
	"pharmacore/internal/core/id"
)

type testItem struct {
	entity.Catalog
}

// --- Fakes ---

type fakeCatalogRepo struct {
	items []*testItem
}

func (r *fakeCatalogRepo) Create(_ context.Context, item *testItem) error {
	r.items = append(r.items, item)
	return nil
}

func (r *fakeCatalogRepo) GetByID(_ context.Context, entityID id.ID) (*testItem, error) {
	for _, item := range r.items {
		if item.ID == entityID {
			return item, nil
		}
	}
	return nil, nil
}

func (r *fakeCatalogRepo) GetByCode(_ context.Context, code string) (*testItem, error) {
	for _, item := range r.items {
		if item.Code == code {
			return item, nil
		}
	}
	return nil, nil
}

func (r *fakeCatalogRepo) Update(_ context.Context, _ *testItem) error { return nil }

func (r *fakeCatalogRepo) Delete(_ context.Context, _ id.ID) error { return nil }

func (r *fakeCatalogRepo) SetDeletionMark(_ context.Context, _ id.ID, _ bool) error { return nil }

func (r *fakeCatalogRepo) List(_ context.Context, _ ListFilter) (ListResult[*testItem], error) {
	return ListResult[*testItem]{Items: r.items, TotalCount: int64(len(r.items))}, nil
}

func (r *fakeCatalogRepo) Exists(_ context.Context, _ id.ID) (bool, error) { return false, nil }

func (r *fakeCatalogRepo) ExistsByCode(_ context.Context, _ string) (bool, error) {
	return false, nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeReadOnlyManager also supports read-only transactions and counts them.
type fakeReadOnlyManager struct {
	fakeTxManager
	readOnlyCalls int
}

func (m *fakeReadOnlyManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.readOnlyCalls++
	return fn(ctx)
}

// --- Tests ---

func TestCatalogService_ListUsesReadOnlyTransaction(t *testing.T) {
	repo := &fakeCatalogRepo{items: []*testItem{
		{Catalog: entity.NewCatalog("T-001", "first")},
		{Catalog: entity.NewCatalog("T-002", "second")},
	}}
	txm := &fakeReadOnlyManager{}

	svc := NewCatalogService(CatalogServiceConfig[*testItem]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "test item",
	})

	result, err := svc.List(context.Background(), DefaultListFilter())
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.TotalCount)
	assert.Equal(t, 1, txm.readOnlyCalls)
}

func TestCatalogService_ListWithPlainManager(t *testing.T) {
	repo := &fakeCatalogRepo{items: []*testItem{
		{Catalog: entity.NewCatalog("T-001", "first")},
	}}

	svc := NewCatalogService(CatalogServiceConfig[*testItem]{
		Repo:       repo,
		TxManager:  fakeTxManager{},
		EntityName: "test item",
	})

	result, err := svc.List(context.Background(), DefaultListFilter())
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.TotalCount)
}

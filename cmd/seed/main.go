// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"pharmacore/internal/config"
	"pharmacore/internal/core/types"
	"pharmacore/internal/domain/catalogs/counterparty"
	"pharmacore/internal/domain/catalogs/product"
	"pharmacore/internal/domain/inventory"
	"pharmacore/internal/infrastructure/storage/postgres"
	"pharmacore/internal/infrastructure/storage/postgres/catalog_repo"
	"pharmacore/internal/infrastructure/storage/postgres/inventory_repo"
	"pharmacore/pkg/logger"
	"pharmacore/pkg/numerator"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	numeratorService := numerator.New(pool.Unwrap())

	if err := seedCounterparties(ctx, txManager, numeratorService, log); err != nil {
		log.Fatalw("failed to seed counterparties", "error", err)
	}

	if err := seedProducts(ctx, txManager, numeratorService, log); err != nil {
		log.Fatalw("failed to seed products", "error", err)
	}

	log.Info("seeding completed successfully")
}

func seedCounterparties(ctx context.Context, txManager *postgres.TxManager, gen numerator.Generator, log *logger.Logger) error {
	repo := catalog_repo.NewCounterpartyRepo(txManager)
	svc := counterparty.NewService(repo, txManager, gen)

	seeds := []struct {
		name string
		kind counterparty.Kind
	}{
		{"City Hospital Pharmacy", counterparty.KindCustomer},
		{"Walk-in Retail", counterparty.KindCustomer},
		{"MediSupply Wholesale Ltd", counterparty.KindSupplier},
		{"PharmaDirect Distribution", counterparty.KindSupplier},
		{"Regional Health Network", counterparty.KindBoth},
	}

	for _, seed := range seeds {
		item := counterparty.New("", seed.name, seed.kind)

		if err := svc.Create(ctx, item); err != nil {
			return fmt.Errorf("create counterparty %q: %w", seed.name, err)
		}
		log.Infow("counterparty created", "code", item.Code, "name", item.Name)
	}

	return nil
}

func seedProducts(ctx context.Context, txManager *postgres.TxManager, gen numerator.Generator, log *logger.Logger) error {
	repo := catalog_repo.NewProductRepo(txManager)
	svc := product.NewService(repo, txManager, gen)
	stockRepo := inventory_repo.NewStockRepo(txManager)

	expiry := func(months int) *time.Time {
		t := time.Now().UTC().AddDate(0, months, 0).Truncate(24 * time.Hour)
		return &t
	}

	seeds := []struct {
		name      string
		barcode   string
		packSize  int64
		salePrice string
		quantity  types.Quantity
		minQty    types.Quantity
		batch     string
		expiry    *time.Time
	}{
		{"Paracetamol 500mg x20", "4870001000011", 20, "3.50", 240, 50, "PCM-2603", expiry(18)},
		{"Ibuprofen 400mg x30", "4870001000028", 30, "5.20", 180, 40, "IBU-2611", expiry(24)},
		{"Amoxicillin 250mg x16", "4870001000035", 16, "8.75", 96, 20, "AMX-2601", expiry(12)},
		{"Vitamin C 1000mg x10", "4870001000042", 10, "2.10", 500, 100, "VTC-2705", expiry(30)},
		{"Insulin Glargine 100IU", "4870001000059", 1, "42.00", 35, 10, "INS-2602", expiry(9)},
	}

	for _, seed := range seeds {
		item := product.New("", seed.name)
		barcode := seed.barcode
		item.Barcode = &barcode
		item.PackSize = seed.packSize
		item.UnitSalePrice = decimal.RequireFromString(seed.salePrice)
		item.Quantity = seed.quantity
		item.MinQuantity = seed.minQty

		err := txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			if err := svc.Create(ctx, item); err != nil {
				return err
			}
			return stockRepo.CreateBatch(ctx, &inventory.Batch{
				ProductID:   item.ID,
				BatchNumber: seed.batch,
				Expiry:      seed.expiry,
				Quantity:    seed.quantity,
			})
		})
		if err != nil {
			return fmt.Errorf("create product %q: %w", seed.name, err)
		}
		log.Infow("product created", "code", item.Code, "name", item.Name, "batch", seed.batch)
	}

	return nil
}

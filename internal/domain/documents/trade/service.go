package trade

import (
	"context"
	"fmt"
	"time"

	"pharmacore/internal/core/apperror"
	"pharmacore/internal/core/id"
	"pharmacore/internal/core/tx"
	"pharmacore/internal/domain"
	"pharmacore/internal/domain/inventory"
	"pharmacore/internal/domain/totals"
	"pharmacore/pkg/logger"
	"pharmacore/pkg/numerator"
)

// AuditLogger records document mutations. Implemented by the postgres
// audit store; a no-op implementation is fine for tests.
type AuditLogger interface {
	LogCreate(ctx context.Context, entityType string, entityID id.ID, after any) error
	LogUpdate(ctx context.Context, entityType string, entityID id.ID, before, after any) error
	LogDelete(ctx context.Context, entityType string, entityID id.ID, before any) error
}

// Service provides the trade document lifecycle. Every mutation runs the
// stock reconciliation protocol inside one transaction: create applies
// forward deltas, update reverts the old lines before applying the new
// ones, delete reverts and removes.
type Service struct {
	repo      Repository
	engine    *inventory.Engine
	numerator numerator.Generator
	txManager tx.Manager
	audit     AuditLogger
	hooks     *domain.HookRegistry[*Document]
}

// NewService creates a trade document service.
func NewService(
	repo Repository,
	engine *inventory.Engine,
	gen numerator.Generator,
	txManager tx.Manager,
	audit AuditLogger,
) *Service {
	return &Service{
		repo:      repo,
		engine:    engine,
		numerator: gen,
		txManager: txManager,
		audit:     audit,
		hooks:     domain.NewHookRegistry[*Document](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Document] {
	return s.hooks
}

// Create validates, numbers, recalculates and persists a new document,
// applying each line's forward stock delta.
func (s *Service) Create(ctx context.Context, doc *Document, src totals.Source) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		cfg := numerator.DefaultConfig(doc.Kind.NumberPrefix())
		number, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	doc.Recalc(src)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}

		if err := s.repo.ReplaceLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		if err := s.applyLines(ctx, doc.Kind, doc.Lines, false); err != nil {
			return err
		}

		if err := s.audit.LogCreate(ctx, string(doc.Kind), doc.ID, doc); err != nil {
			return fmt.Errorf("audit: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "trade document created",
		"kind", doc.Kind,
		"id", doc.ID,
		"number", doc.Number)

	return nil
}

// Update replaces the document's lines and header. Inside one
// transaction the old lines' stock effects are reverted first, then the
// new lines are applied, so running stock never double-counts an edit.
func (s *Service) Update(ctx context.Context, doc *Document, src totals.Source) error {
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}

	if doc.Kind != existing.Kind {
		return apperror.NewValidation("document kind cannot be changed").
			WithDetail("field", "kind")
	}
	doc.Number = existing.Number

	doc.Recalc(src)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.applyLines(ctx, existing.Kind, existing.Lines, true); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}

		if err := s.repo.ReplaceLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("replace lines: %w", err)
		}

		if err := s.applyLines(ctx, doc.Kind, doc.Lines, false); err != nil {
			return err
		}

		if err := s.audit.LogUpdate(ctx, string(doc.Kind), doc.ID, existing, doc); err != nil {
			return fmt.Errorf("audit: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterUpdate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}

	return nil
}

// Delete reverts the document's stock effects and removes it.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := s.hooks.RunBeforeDelete(ctx, doc); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.applyLines(ctx, doc.Kind, doc.Lines, true); err != nil {
			return err
		}

		if err := s.repo.DeleteLines(ctx, docID); err != nil {
			return fmt.Errorf("delete lines: %w", err)
		}

		if err := s.repo.Delete(ctx, docID); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}

		if err := s.audit.LogDelete(ctx, string(doc.Kind), docID, doc); err != nil {
			return fmt.Errorf("audit: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterDelete(ctx, doc); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "error", err)
	}

	logger.Info(ctx, "trade document deleted",
		"kind", doc.Kind,
		"id", docID,
		"number", doc.Number)

	return nil
}

// applyLines runs each line's stock delta through the engine.
//
// On forward application a vanished product fails the transaction. On
// revert it is logged and skipped: a document referencing a since-deleted
// product must still be editable and deletable.
func (s *Service) applyLines(ctx context.Context, kind Kind, lines []Line, revert bool) error {
	for _, line := range lines {
		delta := line.StockDelta(kind)
		if revert {
			delta = delta.Neg()
		}

		adj, err := s.engine.ApplyDelta(ctx, inventory.AdjustmentRequest{
			ProductID:   line.ProductID,
			BatchNumber: line.BatchNumber,
			Expiry:      line.Expiry,
			Delta:       delta,
		})
		if err != nil {
			return fmt.Errorf("apply stock delta line %d: %w", line.LineNo, err)
		}

		if adj.Outcome == inventory.OutcomeProductNotFound {
			if revert {
				logger.Warn(ctx, "skipping stock revert for missing product",
					"product_id", line.ProductID,
					"line_no", line.LineNo)
				continue
			}
			return apperror.NewStockNotFound(line.ProductID.String()).
				WithDetail("lineNo", line.LineNo)
		}
	}
	return nil
}

// GetByID retrieves a document with its lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Document, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// List retrieves document headers with filtering. Runs in a read-only
// transaction when the manager supports one.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Document], error) {
	var result domain.ListResult[*Document]
	err := s.readOnly(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.repo.List(ctx, filter)
		return err
	})
	return result, err
}

func (s *Service) readOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if ro, ok := s.txManager.(tx.ReadOnlyManager); ok {
		return ro.ReadOnly(ctx, fn)
	}
	return fn(ctx)
}

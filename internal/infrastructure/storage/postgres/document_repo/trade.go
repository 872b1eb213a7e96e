// Package document_repo provides PostgreSQL repositories for documents.
package document_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"pharmacore/internal/core/apperror"
	"pharmacore/internal/core/id"
	"pharmacore/internal/domain"
	"pharmacore/internal/domain/documents/trade"
	"pharmacore/internal/infrastructure/storage/postgres"
)

const (
	tradeDocsTable  = "doc_trade"
	tradeLinesTable = "doc_trade_lines"

	// Above this many lines the insert switches to the COPY protocol.
	copyThreshold = 50
)

var tradeLineCols = []string{
	"line_id", "document_id", "line_no", "product_id", "batch_number",
	"expiry", "quantity", "unit_price", "discount_percent", "sub_total",
}

// TradeRepo implements trade.Repository for all four document kinds.
type TradeRepo struct {
	txManager  *postgres.TxManager
	inserter   *postgres.BatchInserter
	selectCols []string
}

// NewTradeRepo creates a new trade document repository.
func NewTradeRepo(txManager *postgres.TxManager) *TradeRepo {
	return &TradeRepo{
		txManager:  txManager,
		inserter:   postgres.NewBatchInserter(txManager),
		selectCols: postgres.ExtractDBColumns[trade.Document](),
	}
}

func (r *TradeRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *TradeRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(tradeDocsTable)
}

// Create inserts the document header.
func (r *TradeRepo) Create(ctx context.Context, doc *trade.Document) error {
	data := postgres.StructToMap(doc)

	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder().
		Insert(tradeDocsTable).
		SetMap(filtered)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	_, err = r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("document", "number", doc.Number).WithCause(err)
		}
		return fmt.Errorf("insert document: %w", err)
	}

	return nil
}

// GetByID retrieves the header (without lines).
func (r *TradeRepo) GetByID(ctx context.Context, docID id.ID) (*trade.Document, error) {
	doc := &trade.Document{}

	q := r.baseSelect().
		Where(squirrel.Eq{"id": docID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("document", docID.String())
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// Update modifies the header with optimistic locking.
func (r *TradeRepo) Update(ctx context.Context, doc *trade.Document) error {
	data := postgres.StructToMap(doc)

	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" || col == "version" || col == "created_at" || col == "created_by" {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder().
		Update(tradeDocsTable).
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": doc.ID}).
		Where(squirrel.Eq{"version": doc.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("document", doc.ID.String())
	}

	return nil
}

// Delete removes the header permanently.
func (r *TradeRepo) Delete(ctx context.Context, docID id.ID) error {
	q := r.builder().
		Delete(tradeDocsTable).
		Where(squirrel.Eq{"id": docID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("document", docID.String())
	}

	return nil
}

// GetLines retrieves lines ordered by line_no.
func (r *TradeRepo) GetLines(ctx context.Context, docID id.ID) ([]trade.Line, error) {
	q := r.builder().
		Select(
			"line_id", "line_no", "product_id", "batch_number", "expiry",
			"quantity", "unit_price", "discount_percent", "sub_total",
		).
		From(tradeLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []trade.Line
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// ReplaceLines deletes all lines of the document and inserts new ones.
func (r *TradeRepo) ReplaceLines(ctx context.Context, docID id.ID, lines []trade.Line) error {
	if err := r.DeleteLines(ctx, docID); err != nil {
		return err
	}

	if len(lines) == 0 {
		return nil
	}

	if len(lines) >= copyThreshold {
		return r.copyLines(ctx, docID, lines)
	}

	q := r.builder().
		Insert(tradeLinesTable).
		Columns(tradeLineCols...)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.ProductID, line.BatchNumber,
			line.Expiry, line.Quantity, line.UnitPrice, line.DiscountPercent, line.SubTotal,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// copyLines bulk-inserts lines via the COPY protocol.
func (r *TradeRepo) copyLines(ctx context.Context, docID id.ID, lines []trade.Line) error {
	rows := make([][]any, len(lines))
	for i, line := range lines {
		rows[i] = []any{
			line.LineID, docID, line.LineNo, line.ProductID, line.BatchNumber,
			line.Expiry, line.Quantity, line.UnitPrice, line.DiscountPercent, line.SubTotal,
		}
	}

	if _, err := r.inserter.CopyFromSlice(ctx, tradeLinesTable, tradeLineCols, rows); err != nil {
		return fmt.Errorf("copy lines: %w", err)
	}
	return nil
}

// DeleteLines removes all lines of the document.
func (r *TradeRepo) DeleteLines(ctx context.Context, docID id.ID) error {
	deleteSQL := "DELETE FROM " + tradeLinesTable + " WHERE document_id = $1"
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}
	return nil
}

// List retrieves headers with filtering and pagination.
func (r *TradeRepo) List(ctx context.Context, filter trade.ListFilter) (domain.ListResult[*trade.Document], error) {
	result := domain.ListResult[*trade.Document]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.Kind != "" {
		q = q.Where(squirrel.Eq{"kind": filter.Kind})
	}

	if filter.CounterpartyID != nil {
		q = q.Where(squirrel.Eq{"counterparty_id": *filter.CounterpartyID})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}

	countQ := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy := "date DESC, number DESC"
	if filter.OrderBy == "number" {
		orderBy = "number ASC"
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list documents: %w", err)
	}

	return result, nil
}

var _ trade.Repository = (*TradeRepo)(nil)

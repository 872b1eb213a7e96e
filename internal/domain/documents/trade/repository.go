package trade

import (
	"context"
	"time"

	"pharmacore/internal/core/id"
	"pharmacore/internal/domain"
)

// ListFilter narrows trade document listings.
type ListFilter struct {
	domain.ListFilter

	// Kind restricts to one document variant
	Kind Kind

	// CounterpartyID restricts to one customer/supplier
	CounterpartyID *id.ID

	// Date range (inclusive)
	DateFrom *time.Time
	DateTo   *time.Time
}

// Repository defines persistence for trade documents.
type Repository interface {
	// Create inserts the header.
	Create(ctx context.Context, doc *Document) error

	// GetByID retrieves the header (without lines).
	GetByID(ctx context.Context, docID id.ID) (*Document, error)

	// Update modifies the header (with optimistic locking).
	Update(ctx context.Context, doc *Document) error

	// Delete removes the header permanently.
	Delete(ctx context.Context, docID id.ID) error

	// GetLines retrieves lines ordered by line_no.
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)

	// ReplaceLines deletes all lines of the document and inserts new ones.
	ReplaceLines(ctx context.Context, docID id.ID, lines []Line) error

	// DeleteLines removes all lines of the document.
	DeleteLines(ctx context.Context, docID id.ID) error

	// List retrieves headers with filtering and pagination.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Document], error)
}

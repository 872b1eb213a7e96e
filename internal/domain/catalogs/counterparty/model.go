// Package counterparty provides the Counterparty catalog: customers and
// suppliers the trade documents reference.
package counterparty

import (
	"context"
	"regexp"

	"pharmacore/internal/core/apperror"
	"pharmacore/internal/core/entity"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Kind defines whether the counterparty buys from us or sells to us.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindSupplier Kind = "supplier"
	KindBoth     Kind = "both"
)

// Counterparty represents a business partner.
type Counterparty struct {
	entity.Catalog

	// Kind defines whether this is a customer, supplier, or both
	Kind Kind `db:"kind" json:"kind"`

	// TaxID is the counterparty's tax identification number
	TaxID *string `db:"tax_id" json:"taxId,omitempty"`

	// Address is the contact address
	Address *string `db:"address" json:"address,omitempty"`

	// Phone is the primary contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Email is the primary contact email
	Email *string `db:"email" json:"email,omitempty"`

	// ContactPerson is the primary contact name
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	// Comment is a free-form note
	Comment *string `db:"comment" json:"comment,omitempty"`
}

// New creates a Counterparty with required fields.
func New(code, name string, kind Kind) *Counterparty {
	return &Counterparty{
		Catalog: entity.NewCatalog(code, name),
		Kind:    kind,
	}
}

// Validate implements entity.Validatable.
func (c *Counterparty) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	switch c.Kind {
	case KindCustomer, KindSupplier, KindBoth:
	default:
		return apperror.NewValidation("invalid counterparty kind").
			WithDetail("field", "kind").
			WithDetail("value", string(c.Kind))
	}

	if c.Email != nil && *c.Email != "" && !emailRE.MatchString(*c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}

// IsCustomer reports whether the counterparty can appear on sale documents.
func (c *Counterparty) IsCustomer() bool {
	return c.Kind == KindCustomer || c.Kind == KindBoth
}

// IsSupplier reports whether the counterparty can appear on purchase documents.
func (c *Counterparty) IsSupplier() bool {
	return c.Kind == KindSupplier || c.Kind == KindBoth
}

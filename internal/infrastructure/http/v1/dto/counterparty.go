package dto

import (
	"pharmacore/internal/core/entity"
	"pharmacore/internal/domain/catalogs/counterparty"
)

// --- Request DTOs ---

// CreateCounterpartyRequest is the request body for creating a counterparty.
type CreateCounterpartyRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	Kind          counterparty.Kind `json:"kind" binding:"required"`
	TaxID         *string           `json:"taxId"`
	Address       *string           `json:"address"`
	Phone         *string           `json:"phone"`
	Email         *string           `json:"email"`
	ContactPerson *string           `json:"contactPerson"`
	Comment       *string           `json:"comment"`
	Attributes    entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCounterpartyRequest) ToEntity() *counterparty.Counterparty {
	item := counterparty.New(r.Code, r.Name, r.Kind)
	item.TaxID = r.TaxID
	item.Address = r.Address
	item.Phone = r.Phone
	item.Email = r.Email
	item.ContactPerson = r.ContactPerson
	item.Comment = r.Comment
	item.Attributes = r.Attributes
	return item
}

// UpdateCounterpartyRequest is the request body for updating a counterparty.
type UpdateCounterpartyRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	Kind          counterparty.Kind `json:"kind" binding:"required"`
	TaxID         *string           `json:"taxId"`
	Address       *string           `json:"address"`
	Phone         *string           `json:"phone"`
	Email         *string           `json:"email"`
	ContactPerson *string           `json:"contactPerson"`
	Comment       *string           `json:"comment"`
	Attributes    entity.Attributes `json:"attributes"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateCounterpartyRequest) ApplyTo(item *counterparty.Counterparty) {
	if r.Code != "" {
		item.Code = r.Code
	}
	item.Name = r.Name
	item.Kind = r.Kind
	item.TaxID = r.TaxID
	item.Address = r.Address
	item.Phone = r.Phone
	item.Email = r.Email
	item.ContactPerson = r.ContactPerson
	item.Comment = r.Comment
	if r.Attributes != nil {
		item.Attributes = r.Attributes
	}
}

// --- Response DTOs ---

// CounterpartyResponse represents a counterparty in API responses.
type CounterpartyResponse struct {
	BaseResponse
	Code          string            `json:"code"`
	Name          string            `json:"name"`
	Kind          counterparty.Kind `json:"kind"`
	TaxID         *string           `json:"taxId,omitempty"`
	Address       *string           `json:"address,omitempty"`
	Phone         *string           `json:"phone,omitempty"`
	Email         *string           `json:"email,omitempty"`
	ContactPerson *string           `json:"contactPerson,omitempty"`
	Comment       *string           `json:"comment,omitempty"`
}

// FromCounterparty converts domain entity to response DTO.
func FromCounterparty(item *counterparty.Counterparty) CounterpartyResponse {
	return CounterpartyResponse{
		BaseResponse:  FromBaseCatalog(item.BaseCatalog),
		Code:          item.Code,
		Name:          item.Name,
		Kind:          item.Kind,
		TaxID:         item.TaxID,
		Address:       item.Address,
		Phone:         item.Phone,
		Email:         item.Email,
		ContactPerson: item.ContactPerson,
		Comment:       item.Comment,
	}
}

// FromCounterparties converts a slice of counterparties.
func FromCounterparties(items []*counterparty.Counterparty) []CounterpartyResponse {
	out := make([]CounterpartyResponse, len(items))
	for i, item := range items {
		out[i] = FromCounterparty(item)
	}
	return out
}

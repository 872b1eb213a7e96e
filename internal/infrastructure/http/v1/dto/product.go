package dto

import (
	"github.com/shopspring/decimal"

	"pharmacore/internal/core/entity"
	"pharmacore/internal/core/types"
	"pharmacore/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Code              string            `json:"code"`
	Name              string            `json:"name" binding:"required"`
	Barcode           *string           `json:"barcode"`
	PackSize          int64             `json:"packSize"`
	PackPurchasePrice decimal.Decimal   `json:"packPurchasePrice"`
	UnitPurchasePrice decimal.Decimal   `json:"unitPurchasePrice"`
	PackSalePrice     decimal.Decimal   `json:"packSalePrice"`
	UnitSalePrice     decimal.Decimal   `json:"unitSalePrice"`
	Quantity          types.Quantity    `json:"quantity"`
	MinQuantity       types.Quantity    `json:"minQuantity"`
	Attributes        entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	item := product.New(r.Code, r.Name)
	item.Barcode = r.Barcode
	if r.PackSize > 0 {
		item.PackSize = r.PackSize
	}
	item.PackPurchasePrice = r.PackPurchasePrice
	item.UnitPurchasePrice = r.UnitPurchasePrice
	item.PackSalePrice = r.PackSalePrice
	item.UnitSalePrice = r.UnitSalePrice
	item.Quantity = r.Quantity
	item.MinQuantity = r.MinQuantity
	item.Attributes = r.Attributes
	return item
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Code              string            `json:"code"`
	Name              string            `json:"name" binding:"required"`
	Barcode           *string           `json:"barcode"`
	PackSize          int64             `json:"packSize"`
	PackPurchasePrice decimal.Decimal   `json:"packPurchasePrice"`
	UnitPurchasePrice decimal.Decimal   `json:"unitPurchasePrice"`
	PackSalePrice     decimal.Decimal   `json:"packSalePrice"`
	UnitSalePrice     decimal.Decimal   `json:"unitSalePrice"`
	MinQuantity       types.Quantity    `json:"minQuantity"`
	Attributes        entity.Attributes `json:"attributes"`
}

// ApplyTo applies updates to an existing entity.
// Stock quantity is intentionally not editable here.
func (r *UpdateProductRequest) ApplyTo(item *product.Product) {
	if r.Code != "" {
		item.Code = r.Code
	}
	item.Name = r.Name
	item.Barcode = r.Barcode
	if r.PackSize > 0 {
		item.PackSize = r.PackSize
	}
	item.PackPurchasePrice = r.PackPurchasePrice
	item.UnitPurchasePrice = r.UnitPurchasePrice
	item.PackSalePrice = r.PackSalePrice
	item.UnitSalePrice = r.UnitSalePrice
	item.MinQuantity = r.MinQuantity
	if r.Attributes != nil {
		item.Attributes = r.Attributes
	}
}

// --- Response DTOs ---

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	BaseResponse
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Barcode           *string         `json:"barcode,omitempty"`
	PackSize          int64           `json:"packSize"`
	PackPurchasePrice decimal.Decimal `json:"packPurchasePrice"`
	UnitPurchasePrice decimal.Decimal `json:"unitPurchasePrice"`
	PackSalePrice     decimal.Decimal `json:"packSalePrice"`
	UnitSalePrice     decimal.Decimal `json:"unitSalePrice"`
	AvgCost           decimal.Decimal `json:"avgCost"`
	Quantity          types.Quantity  `json:"quantity"`
	MinQuantity       types.Quantity  `json:"minQuantity"`
	LowStock          bool            `json:"lowStock"`
}

// FromProduct converts domain entity to response DTO.
func FromProduct(item *product.Product) ProductResponse {
	return ProductResponse{
		BaseResponse:      FromBaseCatalog(item.BaseCatalog),
		Code:              item.Code,
		Name:              item.Name,
		Barcode:           item.Barcode,
		PackSize:          item.PackSize,
		PackPurchasePrice: item.PackPurchasePrice,
		UnitPurchasePrice: item.UnitPurchasePrice,
		PackSalePrice:     item.PackSalePrice,
		UnitSalePrice:     item.UnitSalePrice,
		AvgCost:           item.AvgCost,
		Quantity:          item.Quantity,
		MinQuantity:       item.MinQuantity,
		LowStock:          item.IsLowStock(),
	}
}

// FromProducts converts a slice of products.
func FromProducts(items []*product.Product) []ProductResponse {
	out := make([]ProductResponse, len(items))
	for i, item := range items {
		out[i] = FromProduct(item)
	}
	return out
}

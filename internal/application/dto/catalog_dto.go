package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// CreateFacilityRequest body para POST /api/facilities.
type CreateFacilityRequest struct {
	Name         string `json:"name" validate:"required"`
	LocationType string `json:"location_type" validate:"omitempty,oneof=main_store facility"`
	Address      string `json:"address"`
}

// FacilityResponse representación de un establecimiento.
type FacilityResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LocationType string    `json:"location_type"`
	Address      string    `json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToFacilityResponse mapea la entidad a su representación API.
func ToFacilityResponse(f *entity.Facility) FacilityResponse {
	return FacilityResponse{
		ID:           f.ID,
		Name:         f.Name,
		LocationType: f.LocationType,
		Address:      f.Address,
		CreatedAt:    f.CreatedAt,
	}
}

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	SKU          string          `json:"sku" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Unit         string          `json:"unit"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ReorderLevel int64           `json:"reorder_level" validate:"gte=0"`
}

// ItemResponse representación de un artículo del catálogo.
type ItemResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ReorderLevel int64           `json:"reorder_level"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToItemResponse mapea la entidad a su representación API.
func ToItemResponse(it *entity.Item) ItemResponse {
	return ItemResponse{
		ID:           it.ID,
		SKU:          it.SKU,
		Name:         it.Name,
		Unit:         it.Unit,
		UnitPrice:    it.UnitPrice,
		ReorderLevel: it.ReorderLevel,
		CreatedAt:    it.CreatedAt,
	}
}

package dto

import (
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// AdjustStockRequest body para POST /api/stock/adjust.
type AdjustStockRequest struct {
	ItemID       string `json:"item_id" validate:"required,uuid"`
	LocationID   string `json:"location_id" validate:"required,uuid"`
	LocationType string `json:"location_type" validate:"omitempty,oneof=main_store facility"`
	Delta        int64  `json:"delta" validate:"required"`
	Reason       string `json:"reason" validate:"required"`
	Reference    string `json:"reference"`
	Override     bool   `json:"override"`
	// Kind: on_hand ajusta existencias; reserved mueve cantidad reservada.
	Kind string `json:"kind" validate:"omitempty,oneof=on_hand reserved"`
}

// StockLevelResponse nivel de stock con disponibilidad derivada.
type StockLevelResponse struct {
	ItemID       string    `json:"item_id"`
	LocationID   string    `json:"location_id"`
	LocationType string    `json:"location_type"`
	OnHand       int64     `json:"quantity_on_hand"`
	Reserved     int64     `json:"quantity_reserved"`
	Available    int64     `json:"available"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToStockLevelResponse mapea la entidad a su representación API.
func ToStockLevelResponse(s *entity.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ItemID:       s.ItemID,
		LocationID:   s.LocationID,
		LocationType: s.LocationType,
		OnHand:       s.OnHand,
		Reserved:     s.Reserved,
		Available:    s.Available(),
		UpdatedAt:    s.UpdatedAt,
	}
}

// StockMovementResponse un movimiento de la traza del ledger.
type StockMovementResponse struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"item_id"`
	LocationID   string    `json:"location_id"`
	LocationType string    `json:"location_type"`
	Type         string    `json:"type"`
	Quantity     int64     `json:"quantity"`
	Reason       string    `json:"reason"`
	Reference    string    `json:"reference,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	CreatedBy    string    `json:"created_by,omitempty"`
}

// ToStockMovementResponse mapea la entidad a su representación API.
func ToStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:           m.ID,
		ItemID:       m.ItemID,
		LocationID:   m.LocationID,
		LocationType: m.LocationType,
		Type:         m.Type,
		Quantity:     m.Quantity,
		Reason:       m.Reason,
		Reference:    m.Reference,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}

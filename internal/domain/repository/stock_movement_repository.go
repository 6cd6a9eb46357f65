package repository

import "github.com/jhoicas/Suministros-api/internal/domain/entity"

// StockMovementRepository define el puerto de la traza append-only del ledger.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByItemLocation(itemID, locationID string, limit, offset int) ([]*entity.StockMovement, error)
	// ListByReference devuelve los movimientos ligados a una solicitud o traslado.
	ListByReference(reference string) ([]*entity.StockMovement, error)
}

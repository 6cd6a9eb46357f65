package repository

import "github.com/jhoicas/Suministros-api/internal/domain/entity"

// StockTransferRepository define el puerto de persistencia de traslados directos.
type StockTransferRepository interface {
	Create(transfer *entity.StockTransfer) error
	GetByID(id string) (*entity.StockTransfer, error)
	// GetForUpdate bloquea la cabecera y carga líneas (recepciones concurrentes serializadas).
	GetForUpdate(id string) (*entity.StockTransfer, error)
	UpdateItems(items []*entity.StockTransferItem) error
	ListByLocation(locationID string, limit, offset int) ([]*entity.StockTransfer, error)
}

package repository

import "github.com/jhoicas/Suministros-api/internal/domain/entity"

// StockLevelRepository define el puerto del ledger de existencias por (artículo, ubicación).
// Toda mutación pasa por aquí dentro de una transacción; nunca por escritura directa.
type StockLevelRepository interface {
	// Get devuelve el nivel actual; si la fila no existe devuelve un nivel en cero.
	Get(itemID, locationID string) (*entity.StockLevel, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para la secuencia leer-verificar-escribir.
	GetForUpdate(itemID, locationID string) (*entity.StockLevel, error)
	// GetMany devuelve los niveles de varios artículos en una ubicación en una sola
	// consulta (snapshot consistente para el cálculo de disponibilidad).
	GetMany(locationID string, itemIDs []string) ([]*entity.StockLevel, error)
	Upsert(level *entity.StockLevel) error
	ListByLocation(locationID string, limit, offset int) ([]*entity.StockLevel, error)
	// ListLowStock devuelve los niveles cuya existencia está en o bajo el punto de reorden del artículo.
	ListLowStock(locationID string) ([]*entity.StockLevel, error)
}

package repository

import "github.com/jhoicas/Suministros-api/internal/domain/entity"

// ItemRepository define el puerto de persistencia del catálogo de artículos (DIP).
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetBySKU(sku string) (*entity.Item, error)
	// GetByIDs devuelve los artículos pedidos en una sola consulta (validación de líneas).
	GetByIDs(ids []string) ([]*entity.Item, error)
	List(limit, offset int) ([]*entity.Item, error)
}

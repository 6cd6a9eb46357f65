package repository

import "github.com/jhoicas/Suministros-api/internal/domain/entity"

// StockRequestRepository define el puerto de persistencia de solicitudes y sus líneas.
type StockRequestRepository interface {
	// Create inserta cabecera y líneas juntas (estado inicial pending).
	Create(req *entity.StockRequest) error
	GetByID(id string) (*entity.StockRequest, error)
	GetByNumber(number string) (*entity.StockRequest, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) y carga las líneas,
	// serializando las transiciones de estado de una misma solicitud.
	GetForUpdate(id string) (*entity.StockRequest, error)
	// UpdateStatus escribe estado + campos de auditoría con verificación optimista:
	// WHERE version = $n. Cero filas afectadas => domain.ErrConcurrentModification.
	UpdateStatus(req *entity.StockRequest) error
	// UpdateItems persiste las cantidades approved/dispatched/received de las líneas.
	UpdateItems(items []*entity.StockRequestItem) error
	ListByFacility(facilityID, status string, limit, offset int) ([]*entity.StockRequest, error)
	ListByStatus(status string, limit, offset int) ([]*entity.StockRequest, error)
}

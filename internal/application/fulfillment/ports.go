package fulfillment

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que solicitud y ledger se confirman juntos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		reqRepo repository.StockRequestRepository,
		levelRepo repository.StockLevelRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// Authorizer es el colaborador externo de autorización. El procesador lo consulta
// antes de cada transición; la decisión de roles vive fuera del motor.
type Authorizer interface {
	CanBeApprovedBy(user *entity.User, req *entity.StockRequest) bool
	CanBeDispatchedBy(user *entity.User, req *entity.StockRequest) bool
	CanBeReceivedBy(user *entity.User, req *entity.StockRequest) bool
}

// Notifier es el sumidero de notificaciones (fire-and-forget). El procesador lo
// invoca tras cada transición confirmada; sus fallos nunca afectan la operación.
type Notifier interface {
	RequestTransitioned(ctx context.Context, event string, req *entity.StockRequest)
}

// StockLevelCache cachea disponibilidad por (ubicación, artículo) para lecturas.
// Los misses y fallos del caché degradan a lectura directa, nunca a error.
type StockLevelCache interface {
	GetAvailable(ctx context.Context, locationID, itemID string) (qty int64, ok bool)
	SetAvailable(ctx context.Context, locationID, itemID string, qty int64)
	Invalidate(ctx context.Context, locationID string, itemIDs ...string)
}

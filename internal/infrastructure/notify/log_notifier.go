// Package notify implementa el sumidero de notificaciones de transición.
// Hoy publica al log estructurado; el puerto admite reemplazarlo por un
// broker o un servicio de correo sin tocar los casos de uso.
package notify

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/application/fulfillment"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/pkg/logger"
)

var _ fulfillment.Notifier = (*LogNotifier)(nil)

// LogNotifier publica cada transición confirmada como evento de log.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) RequestTransitioned(_ context.Context, event string, req *entity.StockRequest) {
	n.log.Info().
		Str("event", event).
		Str("request_id", req.ID).
		Str("request_number", req.RequestNumber).
		Str("status", req.Status).
		Str("facility_id", req.RequestingFacility).
		Msg("transición de solicitud")
}

package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("...: %w", err) para añadir detalle;
// la capa HTTP los distingue con errors.Is.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// ErrInsufficientStock: un decremento del ledger dejaría el stock en negativo.
	// El caller puede re-consultar disponibilidad y reintentar con menor cantidad.
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrInvalidStateTransition: operación sobre una solicitud cuyo estado no la permite
	// (ej. despachar dos veces). No se reintenta automáticamente.
	ErrInvalidStateTransition = errors.New("transición de estado inválida")

	// ErrApprovalQuantity: una cantidad aprobada viola 0 <= q <= min(solicitada, disponible).
	// La aprobación completa se rechaza; nunca se confirma parcialmente por línea.
	ErrApprovalQuantity = errors.New("cantidad de aprobación inválida")

	// ErrConcurrentModification: conflicto de versión optimista sobre la solicitud.
	// El caller debe re-consultar el estado y reintentar.
	ErrConcurrentModification = errors.New("modificación concurrente detectada")

	// ErrDispatchPending: la aprobación rápida quedó confirmada pero el despacho
	// inmediato no pudo completarse (el stock cambió entre chequeo y commit).
	// La solicitud queda aprobada y despachable más tarde.
	ErrDispatchPending = errors.New("aprobación confirmada, despacho pendiente")

	// ErrRejectionReason: rechazar una solicitud exige un motivo no vacío.
	ErrRejectionReason = errors.New("motivo de rechazo requerido")
)

// Package request contiene la máquina de estados del ciclo de vida de una
// solicitud de stock (servicio de dominio, sin dependencias de infraestructura).
//
// Transiciones legales (solo hacia adelante, nunca repetidas):
//
//	pending ──→ approved ───────────┐
//	   │    ──→ partially_approved ─┼─→ dispatched ──→ received (terminal)
//	   └────→ rejected (terminal)   ┘
package request

import (
	"fmt"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// transitions es la tabla de transiciones permitidas por estado origen.
var transitions = map[string][]string{
	entity.RequestStatusPending: {
		entity.RequestStatusApproved,
		entity.RequestStatusPartiallyApproved,
		entity.RequestStatusRejected,
	},
	entity.RequestStatusApproved:          {entity.RequestStatusDispatched},
	entity.RequestStatusPartiallyApproved: {entity.RequestStatusDispatched},
	entity.RequestStatusDispatched:        {entity.RequestStatusReceived},
	// rejected y received son terminales
}

// CanTransition indica si el paso from → to está permitido.
func CanTransition(from, to string) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// EnsureTransition valida el paso from → to y devuelve ErrInvalidStateTransition
// con detalle si no está permitido. Reaplicar una transición (from == to) también falla.
func EnsureTransition(from, to string) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidStateTransition, from, to)
	}
	return nil
}

// ApprovalStatus decide el estado resultante de una aprobación: approved si toda
// línea quedó con approved == requested, partially_approved en cualquier otro caso.
func ApprovalStatus(items []*entity.StockRequestItem) string {
	for _, it := range items {
		if it.QuantityApproved != it.QuantityRequested {
			return entity.RequestStatusPartiallyApproved
		}
	}
	return entity.RequestStatusApproved
}

// ValidateApprovalQuantity valida 0 <= aprobada <= min(solicitada, disponible).
func ValidateApprovalQuantity(approved, requested, available int64) error {
	if approved < 0 {
		return fmt.Errorf("%w: %d es negativa", domain.ErrApprovalQuantity, approved)
	}
	max := requested
	if available < max {
		max = available
	}
	if approved > max {
		return fmt.Errorf("%w: %d supera el máximo aprobable %d (solicitado %d, disponible %d)",
			domain.ErrApprovalQuantity, approved, max, requested, available)
	}
	return nil
}

// ValidateRejection exige motivo no vacío para rechazar.
func ValidateRejection(reason string) error {
	if reason == "" {
		return domain.ErrRejectionReason
	}
	return nil
}

// ValidateDispatchQuantities exige quantity_dispatched <= quantity_approved por línea.
func ValidateDispatchQuantities(items []*entity.StockRequestItem) error {
	for _, it := range items {
		if it.QuantityDispatched > it.QuantityApproved {
			return fmt.Errorf("%w: línea %s despacharía %d con solo %d aprobadas",
				domain.ErrInvalidStateTransition, it.ItemID, it.QuantityDispatched, it.QuantityApproved)
		}
	}
	return nil
}

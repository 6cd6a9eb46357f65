package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una solicitud de stock.
const (
	RequestStatusPending           = "pending"
	RequestStatusApproved          = "approved"
	RequestStatusPartiallyApproved = "partially_approved"
	RequestStatusRejected          = "rejected"
	RequestStatusDispatched        = "dispatched"
	RequestStatusReceived          = "received"
)

// Prioridades de solicitud.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ValidPriority indica si s es una prioridad conocida.
func ValidPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// StockRequest representa una solicitud de suministro de un establecimiento
// contra el almacén central. El estado y los campos de auditoría los escribe
// únicamente el procesador de despachos; una vez fuera de pending la solicitud
// es inmutable salvo lo que cada transición permite fijar.
type StockRequest struct {
	ID                  string
	RequestNumber       string // único, ej. SR-20260901-A1B2C3
	RequestingFacility  string
	CentralStoreID      string
	RequestedBy         string
	RequestDate         time.Time
	Priority            string
	Status              string
	Notes               string
	RejectionReason     string // solo cuando Status == rejected
	RejectedBy          string
	RejectedDate        *time.Time
	ApprovedBy          string
	ApprovedDate        *time.Time
	DispatchedBy        string
	DispatchDate        *time.Time
	ReceivedBy          string
	ReceivedDate        *time.Time
	Version             int64 // control de concurrencia optimista
	Items               []*StockRequestItem
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ItemByID busca la línea para un artículo; nil si no existe.
func (r *StockRequest) ItemByID(itemID string) *StockRequestItem {
	for _, it := range r.Items {
		if it.ItemID == itemID {
			return it
		}
	}
	return nil
}

// IsTerminal indica si la solicitud ya no admite transiciones.
func (r *StockRequest) IsTerminal() bool {
	return r.Status == RequestStatusRejected || r.Status == RequestStatusReceived
}

// StockRequestItem es una línea de la solicitud. QuantityRequested y UnitPrice
// quedan fijos al crearla; approved/dispatched/received los fija cada transición.
type StockRequestItem struct {
	ID                 string
	RequestID          string
	ItemID             string
	QuantityRequested  int64
	QuantityApproved   int64 // 0 <= approved <= requested
	QuantityDispatched int64 // <= approved
	QuantityReceived   int64 // puede superar dispatched: se registra como varianza
	UnitPrice          decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// QuantityPending devuelve lo aprobado aún sin despachar; antes de la aprobación,
// lo solicitado aún sin aprobar.
func (i *StockRequestItem) QuantityPending(requestStatus string) int64 {
	if requestStatus == RequestStatusPending {
		return i.QuantityRequested - i.QuantityApproved
	}
	return i.QuantityApproved - i.QuantityDispatched
}

// VarianceQuantity es la diferencia con signo entre lo recibido y lo despachado.
func (i *StockRequestItem) VarianceQuantity() int64 {
	return i.QuantityReceived - i.QuantityDispatched
}

// TotalRequestedValue devuelve cantidad solicitada por precio unitario congelado.
func (i *StockRequestItem) TotalRequestedValue() decimal.Decimal {
	return decimal.NewFromInt(i.QuantityRequested).Mul(i.UnitPrice)
}

// Package transfer implementa la conciliación de líneas de traslado
// (servicio de dominio puro: todo se deriva de cantidad enviada vs recibida).
package transfer

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// Reconciliation agrupa los campos derivados de una línea de traslado.
type Reconciliation struct {
	ItemID              string
	Quantity            int64
	QuantityReceived    int64
	QuantityPending     int64           // max(0, enviada - recibida)
	VarianceQuantity    int64           // recibida - enviada (con signo)
	ReceiptPercentage   decimal.Decimal // recibida/enviada*100; 0 si enviada = 0
	IsFullyReceived     bool
	IsPartiallyReceived bool
	Status              string // pending | partially_received | received
}

// Reconcile deriva el estado de conciliación de una línea.
func Reconcile(it *entity.StockTransferItem) Reconciliation {
	r := Reconciliation{
		ItemID:           it.ItemID,
		Quantity:         it.Quantity,
		QuantityReceived: it.QuantityReceived,
		VarianceQuantity: it.QuantityReceived - it.Quantity,
	}
	if pending := it.Quantity - it.QuantityReceived; pending > 0 {
		r.QuantityPending = pending
	}
	if it.Quantity > 0 {
		r.ReceiptPercentage = decimal.NewFromInt(it.QuantityReceived).
			Div(decimal.NewFromInt(it.Quantity)).
			Mul(decimal.NewFromInt(100))
	} else {
		r.ReceiptPercentage = decimal.Zero
	}

	r.IsFullyReceived = it.QuantityReceived >= it.Quantity
	r.IsPartiallyReceived = it.QuantityReceived > 0 && it.QuantityReceived < it.Quantity

	switch {
	case r.IsFullyReceived:
		r.Status = entity.TransferStatusReceived
	case r.IsPartiallyReceived:
		r.Status = entity.TransferStatusPartiallyReceived
	default:
		r.Status = entity.TransferStatusPending
	}
	return r
}

// StatusLabel devuelve la etiqueta legible del estado derivado.
func StatusLabel(status string) string {
	switch status {
	case entity.TransferStatusReceived:
		return "Recibido"
	case entity.TransferStatusPartiallyReceived:
		return "Recibido parcial"
	default:
		return "Pendiente"
	}
}

// StatusColor devuelve el color de badge que usa el portal para el estado.
func StatusColor(status string) string {
	switch status {
	case entity.TransferStatusReceived:
		return "success"
	case entity.TransferStatusPartiallyReceived:
		return "warning"
	default:
		return "secondary"
	}
}

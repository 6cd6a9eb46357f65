package entity

import "time"

// Estados derivados de una línea de traslado (ver transfer.Reconcile).
const (
	TransferStatusPending           = "pending"
	TransferStatusPartiallyReceived = "partially_received"
	TransferStatusReceived          = "received"
)

// StockTransfer representa un traslado directo entre ubicaciones
// (establecimiento↔establecimiento o almacén↔establecimiento), fuera de la
// vía de solicitudes. El stock sale del origen al crearse y entra al destino
// al registrar recepciones.
type StockTransfer struct {
	ID             string
	TransferNumber string
	FromLocationID string
	FromType       string
	ToLocationID   string
	ToType         string
	TransferredBy  string
	TransferDate   time.Time
	Notes          string
	Items          []*StockTransferItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StockTransferItem es una línea de traslado: cantidad enviada vs recibida.
// Todo lo demás (estado, varianza, porcentaje) se deriva; ver transfer.Reconcile.
type StockTransferItem struct {
	ID               string
	TransferID       string
	ItemID           string
	Quantity         int64
	QuantityReceived int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

package entity

import "time"

// Tipos de movimiento del ledger de stock.
const (
	MovementTypeDISPATCH   = "DISPATCH"   // salida del almacén central por despacho de solicitud
	MovementTypeRECEIPT    = "RECEIPT"    // entrada al establecimiento por recepción
	MovementTypeTRANSFER   = "TRANSFER"   // traslado directo entre ubicaciones
	MovementTypeADJUSTMENT = "ADJUSTMENT" // corrección manual
	MovementTypeRESERVE    = "RESERVE"    // ajuste de cantidad reservada
)

// StockMovement es la traza append-only de todo ajuste del ledger.
// Nunca se edita ni se borra; Reference enlaza la solicitud o traslado origen.
type StockMovement struct {
	ID           string
	ItemID       string
	LocationID   string
	LocationType string
	Type         string
	Quantity     int64 // con signo: positivo entrada, negativo salida
	Reason       string
	Reference    string // número de solicitud, ID de traslado o nota de ajuste
	CreatedAt    time.Time
	CreatedBy    string
}

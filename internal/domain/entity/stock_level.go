package entity

import "time"

// StockLevel representa la existencia de un artículo en una ubicación
// (almacén central o establecimiento). Incluye columna version para
// control de concurrencia optimista además del bloqueo de fila.
type StockLevel struct {
	ItemID       string
	LocationID   string
	LocationType string // main_store | facility
	OnHand       int64  // cantidad física en la ubicación
	Reserved     int64  // comprometida por solicitudes aprobadas sin despachar
	Version      int64
	UpdatedAt    time.Time
}

// Available devuelve la cantidad disponible para nuevas solicitudes.
func (s *StockLevel) Available() int64 {
	return s.OnHand - s.Reserved
}

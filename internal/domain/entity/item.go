package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo de inventario del catálogo.
// UnitPrice es el precio vigente; cada línea de solicitud congela el suyo al crearse.
type Item struct {
	ID           string
	SKU          string
	Name         string
	Unit         string // unidad de medida: und, caja, kg...
	UnitPrice    decimal.Decimal
	ReorderLevel int64 // umbral de stock bajo para reportes
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

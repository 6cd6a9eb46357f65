package entity

import "time"

// Tipos de ubicación de stock. El almacén central abastece a los establecimientos.
const (
	LocationTypeMainStore = "main_store"
	LocationTypeFacility  = "facility"
)

// Facility representa un establecimiento (centro de formación, sede) o el almacén central.
type Facility struct {
	ID           string
	Name         string
	LocationType string // main_store | facility
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsMainStore indica si el establecimiento actúa como almacén central (fuente de suministro).
func (f *Facility) IsMainStore() bool {
	return f.LocationType == LocationTypeMainStore
}

package repository

import "github.com/jhoicas/Suministros-api/internal/domain/entity"

// FacilityRepository define el puerto de persistencia de establecimientos (DIP).
type FacilityRepository interface {
	Create(facility *entity.Facility) error
	GetByID(id string) (*entity.Facility, error)
	List(limit, offset int) ([]*entity.Facility, error)
}

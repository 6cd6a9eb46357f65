// Package catalog gestiona los maestros del portal: establecimientos y
// artículos. Son la referencia de todo el flujo de solicitudes; el stock
// vive aparte, en el ledger.
package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

// FacilityUseCase CRUD de establecimientos y almacén central.
type FacilityUseCase struct {
	repo repository.FacilityRepository
}

func NewFacilityUseCase(repo repository.FacilityRepository) *FacilityUseCase {
	return &FacilityUseCase{repo: repo}
}

// CreateFacilityInput entrada para crear un establecimiento.
type CreateFacilityInput struct {
	Name         string
	LocationType string
	Address      string
}

func (uc *FacilityUseCase) Create(in CreateFacilityInput) (*entity.Facility, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	locationType := in.LocationType
	if locationType == "" {
		locationType = entity.LocationTypeFacility
	}
	if locationType != entity.LocationTypeMainStore && locationType != entity.LocationTypeFacility {
		return nil, fmt.Errorf("%w: tipo de ubicación %q desconocido", domain.ErrInvalidInput, in.LocationType)
	}

	now := time.Now().UTC()
	facility := &entity.Facility{
		ID:           uuid.NewString(),
		Name:         name,
		LocationType: locationType,
		Address:      strings.TrimSpace(in.Address),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(facility); err != nil {
		return nil, err
	}
	return facility, nil
}

func (uc *FacilityUseCase) GetByID(id string) (*entity.Facility, error) {
	facility, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if facility == nil {
		return nil, fmt.Errorf("%w: establecimiento %s", domain.ErrNotFound, id)
	}
	return facility, nil
}

func (uc *FacilityUseCase) List(limit, offset int) ([]*entity.Facility, error) {
	return uc.repo.List(limit, offset)
}

// ItemUseCase CRUD del catálogo de artículos.
type ItemUseCase struct {
	repo repository.ItemRepository
}

func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// CreateItemInput entrada para crear un artículo.
type CreateItemInput struct {
	SKU          string
	Name         string
	Unit         string
	UnitPrice    decimal.Decimal
	ReorderLevel int64
}

func (uc *ItemUseCase) Create(in CreateItemInput) (*entity.Item, error) {
	sku := strings.ToUpper(strings.TrimSpace(in.SKU))
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, fmt.Errorf("%w: sku y nombre requeridos", domain.ErrInvalidInput)
	}
	if in.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: el precio unitario no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.ReorderLevel < 0 {
		return nil, fmt.Errorf("%w: el punto de reorden no puede ser negativo", domain.ErrInvalidInput)
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = "und"
	}

	now := time.Now().UTC()
	item := &entity.Item{
		ID:           uuid.NewString(),
		SKU:          sku,
		Name:         name,
		Unit:         unit,
		UnitPrice:    in.UnitPrice,
		ReorderLevel: in.ReorderLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *ItemUseCase) GetByID(id string) (*entity.Item, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
	}
	return item, nil
}

func (uc *ItemUseCase) GetBySKU(sku string) (*entity.Item, error) {
	item, err := uc.repo.GetBySKU(strings.ToUpper(strings.TrimSpace(sku)))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: SKU %s", domain.ErrNotFound, sku)
	}
	return item, nil
}

func (uc *ItemUseCase) List(limit, offset int) ([]*entity.Item, error) {
	return uc.repo.List(limit, offset)
}

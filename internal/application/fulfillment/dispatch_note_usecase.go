package fulfillment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

// DispatchNoteLine es una línea resuelta (con catálogo) para la remisión PDF.
type DispatchNoteLine struct {
	SKU        string
	ItemName   string
	Unit       string
	Approved   int64
	Dispatched int64
	Received   int64
	Variance   int64
	UnitPrice  decimal.Decimal
	LineValue  decimal.Decimal // despachado * precio unitario
}

// DispatchNotePDFGenerator es el puerto del generador de la remisión de despacho.
type DispatchNotePDFGenerator interface {
	GenerateDispatchNote(ctx context.Context, req *entity.StockRequest, from, to *entity.Facility, lines []DispatchNoteLine) ([]byte, error)
}

// DispatchNoteUseCase arma y genera la remisión PDF de una solicitud despachada.
type DispatchNoteUseCase struct {
	reqRepo      repository.StockRequestRepository
	itemRepo     repository.ItemRepository
	facilityRepo repository.FacilityRepository
	generator    DispatchNotePDFGenerator
}

// NewDispatchNoteUseCase construye el caso de uso.
func NewDispatchNoteUseCase(
	reqRepo repository.StockRequestRepository,
	itemRepo repository.ItemRepository,
	facilityRepo repository.FacilityRepository,
	generator DispatchNotePDFGenerator,
) *DispatchNoteUseCase {
	return &DispatchNoteUseCase{reqRepo: reqRepo, itemRepo: itemRepo, facilityRepo: facilityRepo, generator: generator}
}

// Generate genera la remisión de una solicitud ya despachada (o recibida, con
// columna de varianza diligenciada).
func (uc *DispatchNoteUseCase) Generate(ctx context.Context, requestID string) ([]byte, error) {
	req, err := uc.reqRepo.GetByID(requestID)
	if err != nil {
		return nil, fmt.Errorf("consultar solicitud: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, requestID)
	}
	if req.Status != entity.RequestStatusDispatched && req.Status != entity.RequestStatusReceived {
		return nil, fmt.Errorf("%w: la remisión exige una solicitud despachada (estado %s)",
			domain.ErrInvalidStateTransition, req.Status)
	}

	from, err := uc.facilityRepo.GetByID(req.CentralStoreID)
	if err != nil {
		return nil, fmt.Errorf("consultar almacén central: %w", err)
	}
	to, err := uc.facilityRepo.GetByID(req.RequestingFacility)
	if err != nil {
		return nil, fmt.Errorf("consultar establecimiento: %w", err)
	}
	if from == nil || to == nil {
		return nil, fmt.Errorf("%w: ubicaciones de la solicitud", domain.ErrNotFound)
	}

	itemIDs := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		itemIDs = append(itemIDs, it.ItemID)
	}
	items, err := uc.itemRepo.GetByIDs(itemIDs)
	if err != nil {
		return nil, fmt.Errorf("consultar artículos: %w", err)
	}
	catalog := make(map[string]*entity.Item, len(items))
	for _, it := range items {
		catalog[it.ID] = it
	}

	lines := make([]DispatchNoteLine, 0, len(req.Items))
	for _, it := range req.Items {
		line := DispatchNoteLine{
			Approved:   it.QuantityApproved,
			Dispatched: it.QuantityDispatched,
			Received:   it.QuantityReceived,
			Variance:   it.VarianceQuantity(),
			UnitPrice:  it.UnitPrice,
			LineValue:  decimal.NewFromInt(it.QuantityDispatched).Mul(it.UnitPrice),
		}
		if item := catalog[it.ItemID]; item != nil {
			line.SKU = item.SKU
			line.ItemName = item.Name
			line.Unit = item.Unit
		}
		lines = append(lines, line)
	}

	return uc.generator.GenerateDispatchNote(ctx, req, from, to, lines)
}

package fulfillment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

// CreateRequestInput entrada para crear una solicitud de stock.
type CreateRequestInput struct {
	RequesterID        string
	RequestingFacility string
	CentralStoreID     string
	Priority           string
	Notes              string
	Lines              []LineInput
}

// CreateRequestUseCase crea solicitudes en estado pending, congelando el precio
// unitario de cada línea al momento de la creación.
type CreateRequestUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	facilityRepo repository.FacilityRepository
}

// NewCreateRequestUseCase construye el caso de uso.
func NewCreateRequestUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, facilityRepo repository.FacilityRepository) *CreateRequestUseCase {
	return &CreateRequestUseCase{txRunner: txRunner, itemRepo: itemRepo, facilityRepo: facilityRepo}
}

// CreateRequest valida destino, origen y líneas, y persiste cabecera + líneas
// juntas en una transacción. Estado inicial: pending, cantidades en cero.
func (uc *CreateRequestUseCase) CreateRequest(ctx context.Context, input CreateRequestInput) (*entity.StockRequest, error) {
	if input.RequesterID == "" || input.RequestingFacility == "" || input.CentralStoreID == "" {
		return nil, fmt.Errorf("%w: solicitante, establecimiento y almacén requeridos", domain.ErrInvalidInput)
	}
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: la solicitud necesita al menos una línea", domain.ErrInvalidInput)
	}
	priority := input.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	if !entity.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: prioridad %q desconocida", domain.ErrInvalidInput, input.Priority)
	}

	facility, err := uc.facilityRepo.GetByID(input.RequestingFacility)
	if err != nil {
		return nil, fmt.Errorf("consultar establecimiento: %w", err)
	}
	if facility == nil {
		return nil, fmt.Errorf("%w: establecimiento %s", domain.ErrNotFound, input.RequestingFacility)
	}
	store, err := uc.facilityRepo.GetByID(input.CentralStoreID)
	if err != nil {
		return nil, fmt.Errorf("consultar almacén central: %w", err)
	}
	if store == nil || !store.IsMainStore() {
		return nil, fmt.Errorf("%w: %s no es un almacén central", domain.ErrInvalidInput, input.CentralStoreID)
	}

	itemIDs := make([]string, 0, len(input.Lines))
	seen := make(map[string]bool, len(input.Lines))
	for _, l := range input.Lines {
		if l.ItemID == "" || l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cantidad solicitada debe ser positiva", domain.ErrInvalidInput)
		}
		if seen[l.ItemID] {
			return nil, fmt.Errorf("%w: artículo %s repetido en las líneas", domain.ErrInvalidInput, l.ItemID)
		}
		seen[l.ItemID] = true
		itemIDs = append(itemIDs, l.ItemID)
	}
	items, err := uc.itemRepo.GetByIDs(itemIDs)
	if err != nil {
		return nil, fmt.Errorf("consultar artículos: %w", err)
	}
	itemsByID := make(map[string]*entity.Item, len(items))
	for _, it := range items {
		itemsByID[it.ID] = it
	}

	now := time.Now()
	req := &entity.StockRequest{
		ID:                 uuid.New().String(),
		RequestNumber:      newRequestNumber(now),
		RequestingFacility: input.RequestingFacility,
		CentralStoreID:     input.CentralStoreID,
		RequestedBy:        input.RequesterID,
		RequestDate:        now,
		Priority:           priority,
		Status:             entity.RequestStatusPending,
		Notes:              input.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, l := range input.Lines {
		item, ok := itemsByID[l.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, l.ItemID)
		}
		req.Items = append(req.Items, &entity.StockRequestItem{
			ID:                uuid.New().String(),
			RequestID:         req.ID,
			ItemID:            l.ItemID,
			QuantityRequested: l.Quantity,
			UnitPrice:         item.UnitPrice, // congelado al crear
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	err = uc.txRunner.Run(ctx, func(
		reqRepo repository.StockRequestRepository,
		_ repository.StockLevelRepository,
		_ repository.StockMovementRepository,
	) error {
		return reqRepo.Create(req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// newRequestNumber genera un número único legible: SR-YYYYMMDD-XXXXXX.
func newRequestNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6]
	return fmt.Sprintf("SR-%s-%s", now.Format("20060102"), suffix)
}

// Package transfer implementa los traslados directos entre ubicaciones
// (fuera de la vía de solicitudes) y su conciliación.
package transfer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	domaintransfer "github.com/jhoicas/Suministros-api/internal/domain/transfer"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios
// que los traslados necesitan.
type TxRunner interface {
	RunTransfer(ctx context.Context, fn func(
		transferRepo repository.StockTransferRepository,
		levelRepo repository.StockLevelRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// LineInput es una línea (artículo, cantidad) a trasladar.
type LineInput struct {
	ItemID   string
	Quantity int64
}

// CreateTransferInput entrada para crear un traslado.
type CreateTransferInput struct {
	FromLocationID string
	FromType       string
	ToLocationID   string
	ToType         string
	ActorID        string
	Notes          string
	Lines          []LineInput
}

// LineReport es la conciliación de una línea con etiqueta y color para el portal.
type LineReport struct {
	domaintransfer.Reconciliation
	StatusLabel string
	StatusColor string
}

// Report es la conciliación completa de un traslado.
type Report struct {
	TransferID     string
	TransferNumber string
	Lines          []LineReport
	Status         string // derivado del conjunto de líneas
}

// UseCase gestiona traslados: creación (salida del origen), recepción masiva
// (entrada al destino) y conciliación derivada.
type UseCase struct {
	txRunner     TxRunner
	transferRepo repository.StockTransferRepository // lecturas fuera de transacción
	facilityRepo repository.FacilityRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, transferRepo repository.StockTransferRepository, facilityRepo repository.FacilityRepository) *UseCase {
	return &UseCase{txRunner: txRunner, transferRepo: transferRepo, facilityRepo: facilityRepo}
}

// Create descuenta el stock del origen línea a línea (con bloqueo de fila) y
// persiste el traslado en la misma transacción: si una línea no alcanza,
// ninguna sale.
func (uc *UseCase) Create(ctx context.Context, input CreateTransferInput) (*entity.StockTransfer, error) {
	if input.FromLocationID == "" || input.ToLocationID == "" || input.ActorID == "" {
		return nil, fmt.Errorf("%w: origen, destino y usuario requeridos", domain.ErrInvalidInput)
	}
	if input.FromLocationID == input.ToLocationID {
		return nil, fmt.Errorf("%w: origen y destino no pueden coincidir", domain.ErrInvalidInput)
	}
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: el traslado necesita al menos una línea", domain.ErrInvalidInput)
	}
	for _, l := range input.Lines {
		if l.ItemID == "" || l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cantidad a trasladar debe ser positiva", domain.ErrInvalidInput)
		}
	}
	for _, id := range []string{input.FromLocationID, input.ToLocationID} {
		f, err := uc.facilityRepo.GetByID(id)
		if err != nil {
			return nil, fmt.Errorf("consultar ubicación: %w", err)
		}
		if f == nil {
			return nil, fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, id)
		}
	}

	now := time.Now()
	tr := &entity.StockTransfer{
		ID:             uuid.New().String(),
		TransferNumber: newTransferNumber(now),
		FromLocationID: input.FromLocationID,
		FromType:       input.FromType,
		ToLocationID:   input.ToLocationID,
		ToType:         input.ToType,
		TransferredBy:  input.ActorID,
		TransferDate:   now,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, l := range input.Lines {
		tr.Items = append(tr.Items, &entity.StockTransferItem{
			ID:         uuid.New().String(),
			TransferID: tr.ID,
			ItemID:     l.ItemID,
			Quantity:   l.Quantity,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.StockTransferRepository,
		levelRepo repository.StockLevelRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// Orden estable de bloqueo por artículo.
		lines := make([]*entity.StockTransferItem, len(tr.Items))
		copy(lines, tr.Items)
		sort.Slice(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })

		for _, it := range lines {
			level, err := levelRepo.GetForUpdate(it.ItemID, tr.FromLocationID)
			if err != nil {
				return err
			}
			if level.Available() < it.Quantity {
				return fmt.Errorf("%w: artículo %s traslada %d y hay %d disponible",
					domain.ErrInsufficientStock, it.ItemID, it.Quantity, level.Available())
			}
			level.OnHand -= it.Quantity
			if input.FromType != "" {
				level.LocationType = input.FromType
			}
			level.Version++
			level.UpdatedAt = now
			if err := levelRepo.Upsert(level); err != nil {
				return err
			}
			if err := movRepo.Create(&entity.StockMovement{
				ItemID:       it.ItemID,
				LocationID:   tr.FromLocationID,
				LocationType: level.LocationType,
				Type:         entity.MovementTypeTRANSFER,
				Quantity:     -it.Quantity,
				Reason:       "salida por traslado",
				Reference:    tr.TransferNumber,
				CreatedAt:    now,
				CreatedBy:    input.ActorID,
			}); err != nil {
				return err
			}
		}
		return transferRepo.Create(tr)
	})
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// BulkReceive registra recepciones de varias líneas en una sola transacción,
// incrementando el destino por cada cantidad recibida. La sobre-recepción se
// acepta y queda como varianza en la conciliación.
func (uc *UseCase) BulkReceive(ctx context.Context, transferID, receiverID string, receipts map[string]int64) (*entity.StockTransfer, error) {
	if transferID == "" || receiverID == "" {
		return nil, fmt.Errorf("%w: traslado y usuario requeridos", domain.ErrInvalidInput)
	}
	if len(receipts) == 0 {
		return nil, fmt.Errorf("%w: sin recepciones que registrar", domain.ErrInvalidInput)
	}

	var tr *entity.StockTransfer
	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.StockTransferRepository,
		levelRepo repository.StockLevelRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var err error
		tr, err = transferRepo.GetForUpdate(transferID)
		if err != nil {
			return fmt.Errorf("bloquear traslado: %w", err)
		}
		if tr == nil {
			return fmt.Errorf("%w: traslado %s", domain.ErrNotFound, transferID)
		}

		byItem := make(map[string]*entity.StockTransferItem, len(tr.Items))
		for _, it := range tr.Items {
			byItem[it.ItemID] = it
		}
		for itemID, q := range receipts {
			if byItem[itemID] == nil {
				return fmt.Errorf("%w: el artículo %s no pertenece al traslado", domain.ErrInvalidInput, itemID)
			}
			if q <= 0 {
				return fmt.Errorf("%w: recepción no positiva para %s", domain.ErrInvalidInput, itemID)
			}
		}

		now := time.Now()
		itemIDs := make([]string, 0, len(receipts))
		for itemID := range receipts {
			itemIDs = append(itemIDs, itemID)
		}
		sort.Strings(itemIDs) // orden estable de bloqueo

		var updated []*entity.StockTransferItem
		for _, itemID := range itemIDs {
			q := receipts[itemID]
			it := byItem[itemID]
			it.QuantityReceived += q
			it.UpdatedAt = now
			updated = append(updated, it)

			level, err := levelRepo.GetForUpdate(itemID, tr.ToLocationID)
			if err != nil {
				return err
			}
			level.OnHand += q
			if tr.ToType != "" {
				level.LocationType = tr.ToType
			}
			level.Version++
			level.UpdatedAt = now
			if err := levelRepo.Upsert(level); err != nil {
				return err
			}
			if err := movRepo.Create(&entity.StockMovement{
				ItemID:       itemID,
				LocationID:   tr.ToLocationID,
				LocationType: level.LocationType,
				Type:         entity.MovementTypeTRANSFER,
				Quantity:     q,
				Reason:       "entrada por traslado",
				Reference:    tr.TransferNumber,
				CreatedAt:    now,
				CreatedBy:    receiverID,
			}); err != nil {
				return err
			}
		}
		return transferRepo.UpdateItems(updated)
	})
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// Get devuelve un traslado con sus líneas.
func (uc *UseCase) Get(ctx context.Context, transferID string) (*entity.StockTransfer, error) {
	tr, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return nil, fmt.Errorf("consultar traslado: %w", err)
	}
	if tr == nil {
		return nil, fmt.Errorf("%w: traslado %s", domain.ErrNotFound, transferID)
	}
	return tr, nil
}

// ListByLocation lista los traslados que tocan una ubicación (origen o destino).
func (uc *UseCase) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.StockTransfer, error) {
	return uc.transferRepo.ListByLocation(locationID, limit, offset)
}

// Reconcile deriva la conciliación de todas las líneas del traslado.
func (uc *UseCase) Reconcile(ctx context.Context, transferID string) (*Report, error) {
	tr, err := uc.Get(ctx, transferID)
	if err != nil {
		return nil, err
	}
	report := &Report{
		TransferID:     tr.ID,
		TransferNumber: tr.TransferNumber,
		Status:         entity.TransferStatusReceived,
	}
	anyReceived := false
	allReceived := true
	for _, it := range tr.Items {
		rec := domaintransfer.Reconcile(it)
		report.Lines = append(report.Lines, LineReport{
			Reconciliation: rec,
			StatusLabel:    domaintransfer.StatusLabel(rec.Status),
			StatusColor:    domaintransfer.StatusColor(rec.Status),
		})
		if rec.QuantityReceived > 0 {
			anyReceived = true
		}
		if !rec.IsFullyReceived {
			allReceived = false
		}
	}
	switch {
	case allReceived:
		report.Status = entity.TransferStatusReceived
	case anyReceived:
		report.Status = entity.TransferStatusPartiallyReceived
	default:
		report.Status = entity.TransferStatusPending
	}
	return report, nil
}

// newTransferNumber genera un número único legible: TR-YYYYMMDD-XXXXXX.
func newTransferNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6]
	return fmt.Sprintf("TR-%s-%s", now.Format("20060102"), suffix)
}

package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

// AdjustStockInput entrada para un ajuste directo del ledger.
type AdjustStockInput struct {
	ItemID       string
	LocationID   string
	LocationType string
	Delta        int64  // con signo
	Reason       string // obligatorio: queda en la traza append-only
	Reference    string // opcional: documento que origina el ajuste
	Override     bool   // permite dejar on_hand bajo lo reservado en correcciones manuales
	ActorID      string
}

// LedgerUseCase expone los ajustes directos del ledger (recepciones externas,
// correcciones manuales, reservas) y sus consultas. Toda mutación pasa por aquí
// o por el Processor; nunca por escritura directa de campos.
type LedgerUseCase struct {
	txRunner  TxRunner
	levelRepo repository.StockLevelRepository
	movRepo   repository.StockMovementRepository
	cache     StockLevelCache
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, levelRepo repository.StockLevelRepository, movRepo repository.StockMovementRepository, cache StockLevelCache) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, levelRepo: levelRepo, movRepo: movRepo, cache: cache}
}

// Adjust aplica un delta con bloqueo de fila. Un decremento que dejaría on_hand
// bajo lo reservado (disponible negativo) falla con ErrInsufficientStock salvo
// que venga marcado Override; on_hand nunca queda negativo, con o sin override.
// Nunca se recorta en silencio. Devuelve el nivel resultante.
func (uc *LedgerUseCase) Adjust(ctx context.Context, input AdjustStockInput) (*entity.StockLevel, error) {
	if input.ItemID == "" || input.LocationID == "" {
		return nil, fmt.Errorf("%w: artículo y ubicación requeridos", domain.ErrInvalidInput)
	}
	if input.Delta == 0 {
		return nil, fmt.Errorf("%w: delta cero", domain.ErrInvalidInput)
	}
	if input.Reason == "" {
		return nil, fmt.Errorf("%w: todo ajuste exige un motivo auditable", domain.ErrInvalidInput)
	}

	var result *entity.StockLevel
	err := uc.txRunner.Run(ctx, func(
		_ repository.StockRequestRepository,
		levelRepo repository.StockLevelRepository,
		movRepo repository.StockMovementRepository,
	) error {
		level, err := levelRepo.GetForUpdate(input.ItemID, input.LocationID)
		if err != nil {
			return err
		}
		newOnHand := level.OnHand + input.Delta
		if newOnHand < level.Reserved && !input.Override {
			// Sin override el decremento no puede comerse lo reservado:
			// disponible (on_hand - reserved) nunca queda negativo.
			return fmt.Errorf("%w: on_hand quedaría en %d con %d reservado",
				domain.ErrInsufficientStock, newOnHand, level.Reserved)
		}
		if newOnHand < 0 {
			// Incluso con override el ledger no registra existencias negativas.
			return fmt.Errorf("%w: on_hand no puede ser negativo (%d)", domain.ErrInvalidInput, newOnHand)
		}

		now := time.Now()
		level.OnHand = newOnHand
		if input.LocationType != "" {
			level.LocationType = input.LocationType
		}
		level.Version++
		level.UpdatedAt = now
		if err := levelRepo.Upsert(level); err != nil {
			return err
		}
		if err := movRepo.Create(&entity.StockMovement{
			ItemID:       input.ItemID,
			LocationID:   input.LocationID,
			LocationType: level.LocationType,
			Type:         entity.MovementTypeADJUSTMENT,
			Quantity:     input.Delta,
			Reason:       input.Reason,
			Reference:    input.Reference,
			CreatedAt:    now,
			CreatedBy:    input.ActorID,
		}); err != nil {
			return err
		}
		result = level
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, input.LocationID, input.ItemID)
	}
	return result, nil
}

// AdjustReserved mueve cantidad entre disponible y reservado (delta con signo
// sobre reserved). La reserva nunca puede ser negativa ni superar on_hand.
func (uc *LedgerUseCase) AdjustReserved(ctx context.Context, input AdjustStockInput) (*entity.StockLevel, error) {
	if input.ItemID == "" || input.LocationID == "" {
		return nil, fmt.Errorf("%w: artículo y ubicación requeridos", domain.ErrInvalidInput)
	}
	if input.Delta == 0 {
		return nil, fmt.Errorf("%w: delta cero", domain.ErrInvalidInput)
	}
	if input.Reason == "" {
		return nil, fmt.Errorf("%w: todo ajuste exige un motivo auditable", domain.ErrInvalidInput)
	}

	var result *entity.StockLevel
	err := uc.txRunner.Run(ctx, func(
		_ repository.StockRequestRepository,
		levelRepo repository.StockLevelRepository,
		movRepo repository.StockMovementRepository,
	) error {
		level, err := levelRepo.GetForUpdate(input.ItemID, input.LocationID)
		if err != nil {
			return err
		}
		newReserved := level.Reserved + input.Delta
		if newReserved < 0 || newReserved > level.OnHand {
			return fmt.Errorf("%w: reservado quedaría en %d con %d en existencia",
				domain.ErrInsufficientStock, newReserved, level.OnHand)
		}

		now := time.Now()
		level.Reserved = newReserved
		level.Version++
		level.UpdatedAt = now
		if err := levelRepo.Upsert(level); err != nil {
			return err
		}
		if err := movRepo.Create(&entity.StockMovement{
			ItemID:       input.ItemID,
			LocationID:   input.LocationID,
			LocationType: level.LocationType,
			Type:         entity.MovementTypeRESERVE,
			Quantity:     input.Delta,
			Reason:       input.Reason,
			Reference:    input.Reference,
			CreatedAt:    now,
			CreatedBy:    input.ActorID,
		}); err != nil {
			return err
		}
		result = level
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, input.LocationID, input.ItemID)
	}
	return result, nil
}

// ListByLocation devuelve los niveles de una ubicación (pantalla de existencias).
func (uc *LedgerUseCase) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.StockLevel, error) {
	return uc.levelRepo.ListByLocation(locationID, limit, offset)
}

// ListLowStock devuelve los artículos en o bajo su punto de reorden.
func (uc *LedgerUseCase) ListLowStock(ctx context.Context, locationID string) ([]*entity.StockLevel, error) {
	return uc.levelRepo.ListLowStock(locationID)
}

// ListMovements devuelve la traza de movimientos de un artículo en una ubicación.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, itemID, locationID string, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movRepo.ListByItemLocation(itemID, locationID, limit, offset)
}

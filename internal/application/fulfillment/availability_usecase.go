package fulfillment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

// LineInput es una línea (artículo, cantidad) solicitada.
type LineInput struct {
	ItemID   string
	Quantity int64
}

// AvailabilityLine es el resultado del cálculo para una línea.
type AvailabilityLine struct {
	ItemID     string
	SKU        string
	ItemName   string
	Requested  int64
	Available  int64
	CanFulfill bool
	Shortage   int64 // max(0, solicitado - disponible)
	UnitPrice  decimal.Decimal
	TotalValue decimal.Decimal // solicitado * precio unitario
}

// AvailabilityReport es el reporte de disponibilidad para una ubicación origen.
type AvailabilityReport struct {
	LocationID   string
	Lines        []AvailabilityLine
	AllAvailable bool
}

// AvailabilityUseCase calcula disponibilidad en tiempo real contra el ledger.
// Lectura pura: los niveles se leen en una sola consulta (snapshot consistente,
// nunca observa una escritura concurrente a medias).
type AvailabilityUseCase struct {
	levelRepo repository.StockLevelRepository
	itemRepo  repository.ItemRepository
	cache     StockLevelCache
}

// NewAvailabilityUseCase construye el caso de uso.
func NewAvailabilityUseCase(levelRepo repository.StockLevelRepository, itemRepo repository.ItemRepository, cache StockLevelCache) *AvailabilityUseCase {
	return &AvailabilityUseCase{levelRepo: levelRepo, itemRepo: itemRepo, cache: cache}
}

// CheckAvailability calcula, para cada línea, cuánto hay disponible ahora en la
// ubicación origen. Se usa antes de mostrar la pantalla de decisión al revisor
// y antes de la aprobación rápida.
func (uc *AvailabilityUseCase) CheckAvailability(ctx context.Context, locationID string, lines []LineInput) (*AvailabilityReport, error) {
	if locationID == "" || len(lines) == 0 {
		return nil, fmt.Errorf("%w: ubicación y líneas requeridas", domain.ErrInvalidInput)
	}

	itemIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.ItemID == "" || l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: línea con artículo vacío o cantidad no positiva", domain.ErrInvalidInput)
		}
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
	for _, id := range itemIDs {
		if _, ok := itemsByID[id]; !ok {
			return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
		}
	}

	// Una sola consulta para todos los niveles: snapshot consistente del ledger.
	levels, err := uc.levelRepo.GetMany(locationID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("consultar niveles de stock: %w", err)
	}
	availableByItem := make(map[string]int64, len(levels))
	for _, lv := range levels {
		availableByItem[lv.ItemID] = lv.Available()
	}

	report := &AvailabilityReport{LocationID: locationID, AllAvailable: true}
	for _, l := range lines {
		item := itemsByID[l.ItemID]
		available := availableByItem[l.ItemID] // 0 si no hay fila

		line := AvailabilityLine{
			ItemID:     l.ItemID,
			SKU:        item.SKU,
			ItemName:   item.Name,
			Requested:  l.Quantity,
			Available:  available,
			CanFulfill: available >= l.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalValue: decimal.NewFromInt(l.Quantity).Mul(item.UnitPrice),
		}
		if shortage := l.Quantity - available; shortage > 0 {
			line.Shortage = shortage
		}
		if !line.CanFulfill {
			report.AllAvailable = false
		}
		report.Lines = append(report.Lines, line)

		// Refrescar el caché de lecturas puntuales con el valor recién leído.
		if uc.cache != nil {
			uc.cache.SetAvailable(ctx, locationID, l.ItemID, available)
		}
	}
	return report, nil
}

// GetAvailable devuelve la disponibilidad puntual de un artículo en una ubicación,
// sirviéndola del caché cuando hay hit (consulta ligera para el portal).
func (uc *AvailabilityUseCase) GetAvailable(ctx context.Context, locationID, itemID string) (int64, error) {
	if locationID == "" || itemID == "" {
		return 0, fmt.Errorf("%w: ubicación y artículo requeridos", domain.ErrInvalidInput)
	}
	if uc.cache != nil {
		if qty, ok := uc.cache.GetAvailable(ctx, locationID, itemID); ok {
			return qty, nil
		}
	}
	level, err := uc.levelRepo.Get(itemID, locationID)
	if err != nil {
		return 0, fmt.Errorf("consultar nivel de stock: %w", err)
	}
	available := level.Available()
	if uc.cache != nil {
		uc.cache.SetAvailable(ctx, locationID, itemID, available)
	}
	return available, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

const stockLevelColumns = `item_id, location_id, location_type, quantity_on_hand, quantity_reserved, version, updated_at`

func scanStockLevel(row pgx.Row) (*entity.StockLevel, error) {
	var s entity.StockLevel
	err := row.Scan(&s.ItemID, &s.LocationID, &s.LocationType, &s.OnHand, &s.Reserved, &s.Version, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get obtiene el nivel actual; fila inexistente equivale a nivel en cero.
func (r *StockLevelRepo) Get(itemID, locationID string) (*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE item_id = $1 AND location_id = $2`
	s, err := scanStockLevel(r.q.QueryRow(context.Background(), query, itemID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLevel{ItemID: itemID, LocationID: locationID}, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene el nivel y bloquea la fila (SELECT FOR UPDATE) para la
// secuencia leer-verificar-escribir del ajuste. Si el par (artículo, ubicación)
// aún no tiene fila, la materializa en cero y la bloquea: dos primeros
// escritores concurrentes se serializan sobre la misma fila en vez de pisarse
// con upserts absolutos.
func (r *StockLevelRepo) GetForUpdate(itemID, locationID string) (*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE item_id = $1 AND location_id = $2
		FOR UPDATE`
	s, err := scanStockLevel(r.q.QueryRow(context.Background(), query, itemID, locationID))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get stock level for update: %w", err)
	}

	// El tipo de ubicación definitivo lo escribe el Upsert del caller en la
	// misma transacción.
	insert := `
		INSERT INTO stock_levels (item_id, location_id, location_type, quantity_on_hand, quantity_reserved, version, updated_at)
		VALUES ($1, $2, $3, 0, 0, 0, now())
		ON CONFLICT (item_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, itemID, locationID, entity.LocationTypeFacility); err != nil {
		return nil, fmt.Errorf("init stock level: %w", err)
	}
	s, err = scanStockLevel(r.q.QueryRow(context.Background(), query, itemID, locationID))
	if err != nil {
		return nil, fmt.Errorf("get stock level for update: %w", err)
	}
	return s, nil
}

// GetMany devuelve los niveles de varios artículos en una ubicación en una sola
// consulta (snapshot consistente).
func (r *StockLevelRepo) GetMany(locationID string, itemIDs []string) ([]*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE location_id = $1 AND item_id = ANY($2)`
	rows, err := r.q.Query(context.Background(), query, locationID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("get stock levels: %w", err)
	}
	defer rows.Close()

	var levels []*entity.StockLevel
	for rows.Next() {
		s, err := scanStockLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		levels = append(levels, s)
	}
	return levels, rows.Err()
}

// Upsert inserta o actualiza el nivel por (artículo, ubicación).
func (r *StockLevelRepo) Upsert(level *entity.StockLevel) error {
	query := `
		INSERT INTO stock_levels (item_id, location_id, location_type, quantity_on_hand, quantity_reserved, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET location_type = EXCLUDED.location_type,
		              quantity_on_hand = EXCLUDED.quantity_on_hand,
		              quantity_reserved = EXCLUDED.quantity_reserved,
		              version = EXCLUDED.version,
		              updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		level.ItemID, level.LocationID, level.LocationType, level.OnHand, level.Reserved, level.Version,
	)
	if err != nil {
		return fmt.Errorf("upsert stock level: %w", err)
	}
	return nil
}

// ListByLocation devuelve los niveles de una ubicación, paginados.
func (r *StockLevelRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.StockLevel, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE location_id = $1
		ORDER BY item_id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()

	var levels []*entity.StockLevel
	for rows.Next() {
		s, err := scanStockLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		levels = append(levels, s)
	}
	return levels, rows.Err()
}

// ListLowStock devuelve los niveles en o bajo el punto de reorden del artículo.
func (r *StockLevelRepo) ListLowStock(locationID string) ([]*entity.StockLevel, error) {
	query := `
		SELECT sl.item_id, sl.location_id, sl.location_type, sl.quantity_on_hand, sl.quantity_reserved, sl.version, sl.updated_at
		FROM stock_levels sl
		JOIN items i ON i.id = sl.item_id
		WHERE sl.location_id = $1 AND sl.quantity_on_hand - sl.quantity_reserved <= i.reorder_level
		ORDER BY sl.quantity_on_hand - sl.quantity_reserved ASC`
	rows, err := r.q.Query(context.Background(), query, locationID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var levels []*entity.StockLevel
	for rows.Next() {
		s, err := scanStockLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		levels = append(levels, s)
	}
	return levels, rows.Err()
}

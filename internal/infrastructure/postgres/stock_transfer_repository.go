package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo implementación de traslados directos sobre PostgreSQL.
type StockTransferRepo struct {
	q Querier
}

func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: q}
}

// Create inserta cabecera y líneas del traslado.
func (r *StockTransferRepo) Create(transfer *entity.StockTransfer) error {
	headerQuery := `
		INSERT INTO stock_transfers (
			id, transfer_number, from_location_id, from_type, to_location_id, to_type,
			transferred_by, transfer_date, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), headerQuery,
		transfer.ID, transfer.TransferNumber, transfer.FromLocationID, transfer.FromType,
		transfer.ToLocationID, transfer.ToType, transfer.TransferredBy, transfer.TransferDate,
		transfer.Notes, transfer.CreatedAt, transfer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de traslado %s", domain.ErrDuplicate, transfer.TransferNumber)
		}
		return fmt.Errorf("insert stock transfer: %w", err)
	}

	itemQuery := `
		INSERT INTO stock_transfer_items (
			id, transfer_id, item_id, quantity, quantity_received, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, it := range transfer.Items {
		_, err := r.q.Exec(context.Background(), itemQuery,
			it.ID, it.TransferID, it.ItemID, it.Quantity, it.QuantityReceived, it.CreatedAt, it.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert stock transfer item: %w", err)
		}
	}
	return nil
}

const stockTransferColumns = `
	id, transfer_number, from_location_id, from_type, to_location_id, to_type,
	transferred_by, transfer_date, COALESCE(notes, ''), created_at, updated_at`

func scanStockTransfer(row pgx.Row) (*entity.StockTransfer, error) {
	var t entity.StockTransfer
	err := row.Scan(
		&t.ID, &t.TransferNumber, &t.FromLocationID, &t.FromType, &t.ToLocationID, &t.ToType,
		&t.TransferredBy, &t.TransferDate, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID obtiene un traslado con sus líneas; nil si no existe.
func (r *StockTransferRepo) GetByID(id string) (*entity.StockTransfer, error) {
	return r.getOne(id, false)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) y carga las líneas.
func (r *StockTransferRepo) GetForUpdate(id string) (*entity.StockTransfer, error) {
	return r.getOne(id, true)
}

func (r *StockTransferRepo) getOne(id string, lock bool) (*entity.StockTransfer, error) {
	query := `SELECT ` + stockTransferColumns + ` FROM stock_transfers WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	transfer, err := scanStockTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}
	if err := r.loadItems(transfer); err != nil {
		return nil, err
	}
	return transfer, nil
}

func (r *StockTransferRepo) loadItems(transfer *entity.StockTransfer) error {
	query := `
		SELECT id, transfer_id, item_id, quantity, quantity_received, created_at, updated_at
		FROM stock_transfer_items
		WHERE transfer_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, transfer.ID)
	if err != nil {
		return fmt.Errorf("load transfer items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it entity.StockTransferItem
		err := rows.Scan(&it.ID, &it.TransferID, &it.ItemID, &it.Quantity, &it.QuantityReceived,
			&it.CreatedAt, &it.UpdatedAt)
		if err != nil {
			return fmt.Errorf("scan transfer item: %w", err)
		}
		transfer.Items = append(transfer.Items, &it)
	}
	return rows.Err()
}

// UpdateItems persiste las cantidades recibidas de las líneas.
func (r *StockTransferRepo) UpdateItems(items []*entity.StockTransferItem) error {
	query := `
		UPDATE stock_transfer_items SET
			quantity_received = $2,
			updated_at = now()
		WHERE id = $1`
	for _, it := range items {
		cmd, err := r.q.Exec(context.Background(), query, it.ID, it.QuantityReceived)
		if err != nil {
			return fmt.Errorf("update transfer item: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("%w: línea %s", domain.ErrNotFound, it.ID)
		}
	}
	return nil
}

// ListByLocation lista traslados donde la ubicación es origen o destino.
func (r *StockTransferRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.StockTransfer, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + stockTransferColumns + `
		FROM stock_transfers
		WHERE from_location_id = $1 OR to_location_id = $1
		ORDER BY transfer_date DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*entity.StockTransfer
	for rows.Next() {
		t, err := scanStockTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock transfer: %w", err)
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range transfers {
		if err := r.loadItems(t); err != nil {
			return nil, err
		}
	}
	return transfers, nil
}

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

var _ repository.StockRequestRepository = (*StockRequestRepo)(nil)

// StockRequestRepo implementación de solicitudes sobre PostgreSQL (usable con pool o tx).
type StockRequestRepo struct {
	q Querier
}

// NewStockRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRequestRepository(q Querier) *StockRequestRepo {
	return &StockRequestRepo{q: q}
}

// Create inserta cabecera y líneas juntas (estado inicial pending).
func (r *StockRequestRepo) Create(req *entity.StockRequest) error {
	headerQuery := `
		INSERT INTO stock_requests (
			id, request_number, requesting_facility_id, central_store_id, requested_by,
			request_date, priority, status, notes, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), headerQuery,
		req.ID, req.RequestNumber, req.RequestingFacility, req.CentralStoreID, req.RequestedBy,
		req.RequestDate, req.Priority, req.Status, req.Notes, req.Version, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de solicitud %s", domain.ErrDuplicate, req.RequestNumber)
		}
		return fmt.Errorf("insert stock request: %w", err)
	}

	itemQuery := `
		INSERT INTO stock_request_items (
			id, request_id, item_id, quantity_requested, quantity_approved,
			quantity_dispatched, quantity_received, unit_price, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for _, it := range req.Items {
		_, err := r.q.Exec(context.Background(), itemQuery,
			it.ID, it.RequestID, it.ItemID, it.QuantityRequested, it.QuantityApproved,
			it.QuantityDispatched, it.QuantityReceived, it.UnitPrice, it.CreatedAt, it.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert stock request item: %w", err)
		}
	}
	return nil
}

const stockRequestColumns = `
	id, request_number, requesting_facility_id, central_store_id, requested_by,
	request_date, priority, status, COALESCE(notes, ''), COALESCE(rejection_reason, ''),
	COALESCE(rejected_by, ''), rejected_date, COALESCE(approved_by, ''), approved_date,
	COALESCE(dispatched_by, ''), dispatch_date, COALESCE(received_by, ''), received_date,
	version, created_at, updated_at`

func scanStockRequest(row pgx.Row) (*entity.StockRequest, error) {
	var req entity.StockRequest
	err := row.Scan(
		&req.ID, &req.RequestNumber, &req.RequestingFacility, &req.CentralStoreID, &req.RequestedBy,
		&req.RequestDate, &req.Priority, &req.Status, &req.Notes, &req.RejectionReason,
		&req.RejectedBy, &req.RejectedDate, &req.ApprovedBy, &req.ApprovedDate,
		&req.DispatchedBy, &req.DispatchDate, &req.ReceivedBy, &req.ReceivedDate,
		&req.Version, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetByID obtiene una solicitud con sus líneas; nil si no existe.
func (r *StockRequestRepo) GetByID(id string) (*entity.StockRequest, error) {
	return r.getOne(`WHERE id = $1`, id, false)
}

// GetByNumber obtiene una solicitud por su número único; nil si no existe.
func (r *StockRequestRepo) GetByNumber(number string) (*entity.StockRequest, error) {
	return r.getOne(`WHERE request_number = $1`, number, false)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) y carga las líneas.
func (r *StockRequestRepo) GetForUpdate(id string) (*entity.StockRequest, error) {
	return r.getOne(`WHERE id = $1`, id, true)
}

func (r *StockRequestRepo) getOne(where, arg string, lock bool) (*entity.StockRequest, error) {
	query := `SELECT ` + stockRequestColumns + ` FROM stock_requests ` + where
	if lock {
		query += ` FOR UPDATE`
	}
	req, err := scanStockRequest(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock request: %w", err)
	}
	if err := r.loadItems(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *StockRequestRepo) loadItems(req *entity.StockRequest) error {
	query := `
		SELECT id, request_id, item_id, quantity_requested, quantity_approved,
		       quantity_dispatched, quantity_received, unit_price, created_at, updated_at
		FROM stock_request_items
		WHERE request_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, req.ID)
	if err != nil {
		return fmt.Errorf("load request items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it entity.StockRequestItem
		err := rows.Scan(&it.ID, &it.RequestID, &it.ItemID, &it.QuantityRequested, &it.QuantityApproved,
			&it.QuantityDispatched, &it.QuantityReceived, &it.UnitPrice, &it.CreatedAt, &it.UpdatedAt)
		if err != nil {
			return fmt.Errorf("scan request item: %w", err)
		}
		req.Items = append(req.Items, &it)
	}
	return rows.Err()
}

// UpdateStatus escribe estado + auditoría con verificación optimista de versión.
// Cero filas afectadas significa que otro escritor ganó la carrera.
func (r *StockRequestRepo) UpdateStatus(req *entity.StockRequest) error {
	query := `
		UPDATE stock_requests SET
			status = $2,
			notes = $3,
			rejection_reason = NULLIF($4, ''),
			rejected_by = NULLIF($5, ''),
			rejected_date = $6,
			approved_by = NULLIF($7, ''),
			approved_date = $8,
			dispatched_by = NULLIF($9, ''),
			dispatch_date = $10,
			received_by = NULLIF($11, ''),
			received_date = $12,
			version = version + 1,
			updated_at = now()
		WHERE id = $1 AND version = $13`
	cmd, err := r.q.Exec(context.Background(), query,
		req.ID, req.Status, req.Notes, req.RejectionReason,
		req.RejectedBy, req.RejectedDate, req.ApprovedBy, req.ApprovedDate,
		req.DispatchedBy, req.DispatchDate, req.ReceivedBy, req.ReceivedDate,
		req.Version,
	)
	if err != nil {
		return fmt.Errorf("update stock request: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: solicitud %s versión %d", domain.ErrConcurrentModification, req.ID, req.Version)
	}
	req.Version++
	return nil
}

// UpdateItems persiste las cantidades approved/dispatched/received de las líneas.
func (r *StockRequestRepo) UpdateItems(items []*entity.StockRequestItem) error {
	query := `
		UPDATE stock_request_items SET
			quantity_approved = $2,
			quantity_dispatched = $3,
			quantity_received = $4,
			updated_at = now()
		WHERE id = $1`
	for _, it := range items {
		cmd, err := r.q.Exec(context.Background(), query,
			it.ID, it.QuantityApproved, it.QuantityDispatched, it.QuantityReceived,
		)
		if err != nil {
			return fmt.Errorf("update request item: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("%w: línea %s", domain.ErrNotFound, it.ID)
		}
	}
	return nil
}

// ListByFacility lista solicitudes de un establecimiento, opcionalmente por estado.
func (r *StockRequestRepo) ListByFacility(facilityID, status string, limit, offset int) ([]*entity.StockRequest, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + stockRequestColumns + `
		FROM stock_requests
		WHERE requesting_facility_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY request_date DESC
		LIMIT $3 OFFSET $4`
	return r.list(query, facilityID, status, limit, offset)
}

// ListByStatus lista solicitudes por estado (bandeja de revisión).
func (r *StockRequestRepo) ListByStatus(status string, limit, offset int) ([]*entity.StockRequest, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + stockRequestColumns + `
		FROM stock_requests
		WHERE ($1 = '' OR status = $1)
		ORDER BY request_date DESC
		LIMIT $2 OFFSET $3`
	return r.list(query, status, limit, offset)
}

func (r *StockRequestRepo) list(query string, args ...any) ([]*entity.StockRequest, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.StockRequest
	for rows.Next() {
		req, err := scanStockRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, req := range requests {
		if err := r.loadItems(req); err != nil {
			return nil, err
		}
	}
	return requests, nil
}

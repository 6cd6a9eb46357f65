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

var _ repository.FacilityRepository = (*FacilityRepo)(nil)

// FacilityRepo implementación de establecimientos sobre PostgreSQL.
type FacilityRepo struct {
	q Querier
}

func NewFacilityRepository(q Querier) *FacilityRepo {
	return &FacilityRepo{q: q}
}

func (r *FacilityRepo) Create(f *entity.Facility) error {
	query := `
		INSERT INTO facilities (id, name, location_type, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		f.ID, f.Name, f.LocationType, f.Address, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: establecimiento %s", domain.ErrDuplicate, f.Name)
		}
		return fmt.Errorf("insert facility: %w", err)
	}
	return nil
}

// GetByID obtiene un establecimiento; nil si no existe.
func (r *FacilityRepo) GetByID(id string) (*entity.Facility, error) {
	query := `
		SELECT id, name, location_type, COALESCE(address, ''), created_at, updated_at
		FROM facilities WHERE id = $1`
	var f entity.Facility
	err := r.q.QueryRow(context.Background(), query, id).
		Scan(&f.ID, &f.Name, &f.LocationType, &f.Address, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get facility: %w", err)
	}
	return &f, nil
}

func (r *FacilityRepo) List(limit, offset int) ([]*entity.Facility, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, name, location_type, COALESCE(address, ''), created_at, updated_at
		FROM facilities ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	defer rows.Close()

	var facilities []*entity.Facility
	for rows.Next() {
		var f entity.Facility
		if err := rows.Scan(&f.ID, &f.Name, &f.LocationType, &f.Address, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan facility: %w", err)
		}
		facilities = append(facilities, &f)
	}
	return facilities, rows.Err()
}

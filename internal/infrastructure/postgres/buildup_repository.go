package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/henn-dt/carbonitor-v2/internal/domain/entity"
	"github.com/henn-dt/carbonitor-v2/internal/domain/repository"
)

var _ repository.BuildupRepository = (*BuildupRepo)(nil)

const buildupColumns = `id, user_id_created, user_id_updated, name, status, classification,
	COALESCE(comment, ''), COALESCE(description, ''), quantity, COALESCE(unit, ''), meta_data, products, results,
	created_at, updated_at`

// BuildupRepo persists buildups over PostgreSQL (usable with pool or tx).
type BuildupRepo struct {
	q Querier
}

// NewBuildupRepository builds the adapter. Pass pool or tx.
func NewBuildupRepository(q Querier) *BuildupRepo {
	return &BuildupRepo{q: q}
}

func scanBuildup(s interface{ Scan(...any) error }) (*entity.Buildup, error) {
	var b entity.Buildup
	err := s.Scan(&b.ID, &b.UserIDCreated, &b.UserIDUpdated, &b.Name, &b.Status, &b.Classification,
		&b.Comment, &b.Description, &b.Quantity, &b.Unit, &b.MetaData, &b.Products, &b.Results,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new buildup.
func (r *BuildupRepo) Create(buildup *entity.Buildup) (*entity.Buildup, error) {
	query := `
		INSERT INTO buildups (user_id_created, user_id_updated, name, status, classification, comment,
			description, quantity, unit, meta_data, products, results, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())
		RETURNING ` + buildupColumns
	created, err := scanBuildup(r.q.QueryRow(context.Background(), query,
		buildup.UserIDCreated, buildup.UserIDUpdated, buildup.Name, buildup.Status, buildup.Classification,
		buildup.Comment, buildup.Description, buildup.Quantity, buildup.Unit, buildup.MetaData,
		buildup.Products, buildup.Results,
	))
	if err != nil {
		return nil, fmt.Errorf("insert buildup: %w", err)
	}
	return created, nil
}

// GetByID fetches a buildup by id. Returns (nil, nil) when absent.
func (r *BuildupRepo) GetByID(id int) (*entity.Buildup, error) {
	b, err := scanBuildup(r.q.QueryRow(context.Background(),
		`SELECT `+buildupColumns+` FROM buildups WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get buildup: %w", err)
	}
	return b, nil
}

// List lists buildups with pagination.
func (r *BuildupRepo) List(limit, offset int) ([]*entity.Buildup, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+buildupColumns+` FROM buildups ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query buildups: %w", err)
	}
	defer rows.Close()
	var out []*entity.Buildup
	for rows.Next() {
		b, err := scanBuildup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan buildup: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update rewrites a buildup.
func (r *BuildupRepo) Update(buildup *entity.Buildup) (*entity.Buildup, error) {
	query := `
		UPDATE buildups
		SET user_id_updated = $2, name = $3, status = $4, classification = $5, comment = $6, description = $7,
			quantity = $8, unit = $9, meta_data = $10, products = $11, results = $12, updated_at = now()
		WHERE id = $1
		RETURNING ` + buildupColumns
	updated, err := scanBuildup(r.q.QueryRow(context.Background(), query,
		buildup.ID, buildup.UserIDUpdated, buildup.Name, buildup.Status, buildup.Classification,
		buildup.Comment, buildup.Description, buildup.Quantity, buildup.Unit, buildup.MetaData,
		buildup.Products, buildup.Results,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update buildup: %w", err)
	}
	return updated, nil
}

// Delete removes a buildup by id.
func (r *BuildupRepo) Delete(id int) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM buildups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete buildup: %w", err)
	}
	return nil
}

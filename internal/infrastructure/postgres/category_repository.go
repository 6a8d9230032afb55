package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/henn-dt/carbonitor-v2/internal/domain"
	"github.com/henn-dt/carbonitor-v2/internal/domain/entity"
	"github.com/henn-dt/carbonitor-v2/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id, user_id_created, user_id_updated, name, type, status, COALESCE(description, ''), property_schema, created_at, updated_at`

// CategoryRepo persists categories over PostgreSQL (usable with pool or tx).
// property_schema lives in one JSON column, read and written whole.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository builds the adapter. Pass pool or tx.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func scanCategory(s interface{ Scan(...any) error }) (*entity.Category, error) {
	var (
		c          entity.Category
		catType    string
		schemaJSON []byte
	)
	err := s.Scan(&c.ID, &c.UserIDCreated, &c.UserIDUpdated, &c.Name, &catType, &c.Status,
		&c.Description, &schemaJSON, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Type = entity.EntityType(catType)
	if len(schemaJSON) > 0 {
		if err := json.Unmarshal(schemaJSON, &c.PropertySchema); err != nil {
			return nil, fmt.Errorf("decode property schema: %w", err)
		}
	}
	return &c, nil
}

func marshalSchema(schema entity.PropertySchemaMap) ([]byte, error) {
	if schema == nil {
		return nil, nil
	}
	return json.Marshal(schema)
}

// Create inserts a new category. A (name, type) collision returns
// domain.ErrDuplicate via the unique constraint.
func (r *CategoryRepo) Create(category *entity.Category) (*entity.Category, error) {
	schemaJSON, err := marshalSchema(category.PropertySchema)
	if err != nil {
		return nil, fmt.Errorf("encode property schema: %w", err)
	}
	query := `
		INSERT INTO categories (user_id_created, user_id_updated, name, type, status, description, property_schema, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING ` + categoryColumns
	created, err := scanCategory(r.q.QueryRow(context.Background(), query,
		category.UserIDCreated, category.UserIDUpdated, category.Name, string(category.Type),
		category.Status, category.Description, schemaJSON,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return created, nil
}

// GetByID fetches a category by id. Returns (nil, nil) when absent.
func (r *CategoryRepo) GetByID(id int) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	c, err := scanCategory(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// GetByNameAndType fetches a category by its unique (name, type) pair.
func (r *CategoryRepo) GetByNameAndType(name string, entityType entity.EntityType) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name = $1 AND type = $2`
	c, err := scanCategory(r.q.QueryRow(context.Background(), query, name, string(entityType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category by name and type: %w", err)
	}
	return c, nil
}

// ExistsByNameAndType reports whether a (name, type) pair is registered.
func (r *CategoryRepo) ExistsByNameAndType(name string, entityType entity.EntityType) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1 AND type = $2)`,
		name, string(entityType)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category exists: %w", err)
	}
	return exists, nil
}

// ListByType lists categories scoped to one entity type.
func (r *CategoryRepo) ListByType(entityType entity.EntityType) ([]*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE type = $1 ORDER BY name`
	return r.queryCategories(query, string(entityType))
}

// List lists all categories.
func (r *CategoryRepo) List() ([]*entity.Category, error) {
	return r.queryCategories(`SELECT ` + categoryColumns + ` FROM categories ORDER BY type, name`)
}

func (r *CategoryRepo) queryCategories(query string, args ...any) ([]*entity.Category, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()
	var out []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites a category, property schema included (the schema is
// read-modify-written as a whole).
func (r *CategoryRepo) Update(category *entity.Category) (*entity.Category, error) {
	schemaJSON, err := marshalSchema(category.PropertySchema)
	if err != nil {
		return nil, fmt.Errorf("encode property schema: %w", err)
	}
	query := `
		UPDATE categories
		SET user_id_updated = $2, name = $3, type = $4, status = $5, description = $6, property_schema = $7, updated_at = now()
		WHERE id = $1
		RETURNING ` + categoryColumns
	updated, err := scanCategory(r.q.QueryRow(context.Background(), query,
		category.ID, category.UserIDUpdated, category.Name, string(category.Type),
		category.Status, category.Description, schemaJSON,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return updated, nil
}

// Delete removes a category; associations cascade at the storage layer.
func (r *CategoryRepo) Delete(id int) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

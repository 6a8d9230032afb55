package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/henn-dt/carbonitor-v2/internal/domain"
	"github.com/henn-dt/carbonitor-v2/internal/domain/entity"
	"github.com/henn-dt/carbonitor-v2/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, user_id_created, user_id_updated, status, epd_name, epd_declared_unit, epd_version,
	COALESCE(epd_published_date, ''), COALESCE(epd_valid_until, ''), COALESCE(epd_standard, ''), COALESCE(epd_comment, ''),
	COALESCE(epd_location, ''), COALESCE(epd_format_version, ''), epd_id, epdx, epd_source_name, COALESCE(epd_source_url, ''),
	epd_linear_density, epd_gross_density, epd_grammage, epd_layer_thickness, epd_bulk_density,
	COALESCE(epd_subtype, ''), COALESCE(epd_description, ''), created_at, updated_at`

// ProductRepo persists EPD products over PostgreSQL (usable with pool or tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository builds the adapter. Pass pool or tx.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(s interface{ Scan(...any) error }) (*entity.Product, error) {
	var p entity.Product
	err := s.Scan(&p.ID, &p.UserIDCreated, &p.UserIDUpdated, &p.Status, &p.EPDName, &p.EPDDeclaredUnit, &p.EPDVersion,
		&p.EPDPublishedDate, &p.EPDValidUntil, &p.EPDStandard, &p.EPDComment,
		&p.EPDLocation, &p.EPDFormatVersion, &p.EPDID, &p.EPDx, &p.EPDSourceName, &p.EPDSourceURL,
		&p.EPDLinearDensity, &p.EPDGrossDensity, &p.EPDGrammage, &p.EPDLayerThickness, &p.EPDBulkDensity,
		&p.EPDSubtype, &p.EPDDescription, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new product snapshot.
func (r *ProductRepo) Create(product *entity.Product) (*entity.Product, error) {
	query := `
		INSERT INTO products (user_id_created, user_id_updated, status, epd_name, epd_declared_unit, epd_version,
			epd_published_date, epd_valid_until, epd_standard, epd_comment, epd_location, epd_format_version,
			epd_id, epdx, epd_source_name, epd_source_url, epd_linear_density, epd_gross_density, epd_grammage,
			epd_layer_thickness, epd_bulk_density, epd_subtype, epd_description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, now(), now())
		RETURNING ` + productColumns
	created, err := scanProduct(r.q.QueryRow(context.Background(), query,
		product.UserIDCreated, product.UserIDUpdated, product.Status, product.EPDName, product.EPDDeclaredUnit,
		product.EPDVersion, product.EPDPublishedDate, product.EPDValidUntil, product.EPDStandard, product.EPDComment,
		product.EPDLocation, product.EPDFormatVersion, product.EPDID, product.EPDx, product.EPDSourceName,
		product.EPDSourceURL, product.EPDLinearDensity, product.EPDGrossDensity, product.EPDGrammage,
		product.EPDLayerThickness, product.EPDBulkDensity, product.EPDSubtype, product.EPDDescription,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return created, nil
}

// GetByID fetches a product by id. Returns (nil, nil) when absent.
func (r *ProductRepo) GetByID(id int) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByEPDID fetches a product by its source EPD identifier.
func (r *ProductRepo) GetByEPDID(epdID string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE epd_id = $1`, epdID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by epd id: %w", err)
	}
	return p, nil
}

// List lists products with pagination.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()
	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites a product's mutable fields.
func (r *ProductRepo) Update(product *entity.Product) (*entity.Product, error) {
	query := `
		UPDATE products
		SET user_id_updated = $2, status = $3, epd_name = $4, epd_declared_unit = $5, epd_version = $6,
			epd_published_date = $7, epd_valid_until = $8, epd_standard = $9, epd_comment = $10, epd_location = $11,
			epd_format_version = $12, epdx = $13, epd_source_name = $14, epd_source_url = $15,
			epd_linear_density = $16, epd_gross_density = $17, epd_grammage = $18, epd_layer_thickness = $19,
			epd_bulk_density = $20, epd_subtype = $21, epd_description = $22, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns
	updated, err := scanProduct(r.q.QueryRow(context.Background(), query,
		product.ID, product.UserIDUpdated, product.Status, product.EPDName, product.EPDDeclaredUnit,
		product.EPDVersion, product.EPDPublishedDate, product.EPDValidUntil, product.EPDStandard,
		product.EPDComment, product.EPDLocation, product.EPDFormatVersion, product.EPDx, product.EPDSourceName,
		product.EPDSourceURL, product.EPDLinearDensity, product.EPDGrossDensity, product.EPDGrammage,
		product.EPDLayerThickness, product.EPDBulkDensity, product.EPDSubtype, product.EPDDescription,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

// Delete removes a product by id.
func (r *ProductRepo) Delete(id int) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

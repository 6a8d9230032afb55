package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/henn-dt/carbonitor-v2/internal/domain/entity"
	"github.com/henn-dt/carbonitor-v2/internal/domain/repository"
)

var _ repository.CategoryAssociationRepository = (*CategoryAssociationRepo)(nil)

var associationColumns = []string{"id", "category_id", "entity_id", "entity_type", "values"}

// CategoryAssociationRepo persists category associations over PostgreSQL
// (usable with pool or tx). The generic AssociationRepo carries the
// key-column mechanics; the specialized read paths below add the joins and
// groupings the association service needs.
type CategoryAssociationRepo struct {
	q    Querier
	base *AssociationRepo[entity.CategoryAssociation]
}

// NewCategoryAssociationRepository builds the adapter. Pass pool or tx.
func NewCategoryAssociationRepository(q Querier) *CategoryAssociationRepo {
	return &CategoryAssociationRepo{
		q: q,
		base: NewAssociationRepo(q, "category_associations", associationColumns,
			[]string{"category_id", "entity_id", "entity_type"}, scanAssociation),
	}
}

func scanAssociation(s interface{ Scan(...any) error }) (*entity.CategoryAssociation, error) {
	var (
		a          entity.CategoryAssociation
		entityType string
		valuesJSON []byte
	)
	if err := s.Scan(&a.ID, &a.CategoryID, &a.EntityID, &entityType, &valuesJSON); err != nil {
		return nil, err
	}
	a.EntityType = entity.EntityType(entityType)
	if len(valuesJSON) > 0 {
		if err := json.Unmarshal(valuesJSON, &a.Values); err != nil {
			return nil, fmt.Errorf("decode association values: %w", err)
		}
	}
	return &a, nil
}

func marshalValues(values entity.PropertyValues) ([]byte, error) {
	if values == nil {
		return nil, nil
	}
	return json.Marshal(values)
}

func keyFilters(key repository.AssociationKey) RowValues {
	return RowValues{
		"category_id": key.CategoryID,
		"entity_id":   key.EntityID,
		"entity_type": string(key.EntityType),
	}
}

// GetByID fetches one association by surrogate id.
func (r *CategoryAssociationRepo) GetByID(id int) (*entity.CategoryAssociation, error) {
	records, err := r.base.GetFiltered(RowValues{"id": id})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// GetByKeys fetches the association for one (category, entity, type) triple.
func (r *CategoryAssociationRepo) GetByKeys(key repository.AssociationKey) (*entity.CategoryAssociation, error) {
	return r.base.GetByKeys(keyFilters(key))
}

// GetByEntity lists all associations attached to one entity.
func (r *CategoryAssociationRepo) GetByEntity(entityType entity.EntityType, entityID int) ([]*entity.CategoryAssociation, error) {
	return r.base.GetFiltered(RowValues{"entity_type": string(entityType), "entity_id": entityID})
}

// GetByCategory lists all associations of one category, narrowed to one
// entity type when given. An empty type matches every type.
func (r *CategoryAssociationRepo) GetByCategory(categoryID int, entityType entity.EntityType) ([]*entity.CategoryAssociation, error) {
	filters := RowValues{"category_id": categoryID}
	if entityType != "" {
		filters["entity_type"] = string(entityType)
	}
	return r.base.GetFiltered(filters)
}

// GetValuesForEntity returns categoryID -> values for one entity, optionally
// narrowed to a single category. Associations without values are skipped.
func (r *CategoryAssociationRepo) GetValuesForEntity(entityType entity.EntityType, entityID int, categoryID *int) (map[int]entity.PropertyValues, error) {
	query := `
		SELECT category_id, "values" FROM category_associations
		WHERE entity_type = $1 AND entity_id = $2`
	args := []any{string(entityType), entityID}
	if categoryID != nil {
		query += " AND category_id = $3"
		args = append(args, *categoryID)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query association values: %w", err)
	}
	defer rows.Close()

	out := map[int]entity.PropertyValues{}
	for rows.Next() {
		var (
			catID      int
			valuesJSON []byte
		)
		if err := rows.Scan(&catID, &valuesJSON); err != nil {
			return nil, fmt.Errorf("scan association values: %w", err)
		}
		if len(valuesJSON) == 0 {
			continue
		}
		var values entity.PropertyValues
		if err := json.Unmarshal(valuesJSON, &values); err != nil {
			return nil, fmt.Errorf("decode association values: %w", err)
		}
		out[catID] = values
	}
	return out, rows.Err()
}

// GetCategoryPropertiesForEntity joins category definitions with the values
// the entity stores for them, one record per matching category.
func (r *CategoryAssociationRepo) GetCategoryPropertiesForEntity(entityID int, categoryID *int) ([]*entity.CategoryProperties, error) {
	query := `
		SELECT c.id, c.name, c.type, COALESCE(c.description, ''), c.property_schema, ca."values"
		FROM categories c
		JOIN category_associations ca ON c.id = ca.category_id AND ca.entity_id = $1`
	args := []any{entityID}
	if categoryID != nil {
		query += " WHERE c.id = $2"
		args = append(args, *categoryID)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query category properties: %w", err)
	}
	defer rows.Close()

	var out []*entity.CategoryProperties
	for rows.Next() {
		var (
			rec        entity.CategoryProperties
			catType    string
			schemaJSON []byte
			valuesJSON []byte
		)
		if err := rows.Scan(&rec.CategoryID, &rec.CategoryName, &catType, &rec.CategoryDescription, &schemaJSON, &valuesJSON); err != nil {
			return nil, fmt.Errorf("scan category properties: %w", err)
		}
		rec.CategoryType = entity.EntityType(catType)
		if len(schemaJSON) > 0 {
			if err := json.Unmarshal(schemaJSON, &rec.PropertySchema); err != nil {
				return nil, fmt.Errorf("decode property schema: %w", err)
			}
		}
		if len(valuesJSON) > 0 {
			if err := json.Unmarshal(valuesJSON, &rec.Values); err != nil {
				return nil, fmt.Errorf("decode association values: %w", err)
			}
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// GetEntityListByCategoryProperties groups stored values by entity, then
// keeps entities whose per-category values match every filter exactly.
func (r *CategoryAssociationRepo) GetEntityListByCategoryProperties(categoryIDs []int, filters map[int]entity.PropertyValues) (map[int]map[int]entity.PropertyValues, error) {
	query := `SELECT entity_id, category_id, "values" FROM category_associations`
	var args []any
	if len(categoryIDs) > 0 {
		query += " WHERE category_id = ANY($1)"
		args = append(args, categoryIDs)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query associations: %w", err)
	}
	defer rows.Close()

	grouped := map[int]map[int]entity.PropertyValues{}
	for rows.Next() {
		var (
			entityID   int
			catID      int
			valuesJSON []byte
		)
		if err := rows.Scan(&entityID, &catID, &valuesJSON); err != nil {
			return nil, fmt.Errorf("scan associations: %w", err)
		}
		var values entity.PropertyValues
		if len(valuesJSON) > 0 {
			if err := json.Unmarshal(valuesJSON, &values); err != nil {
				return nil, fmt.Errorf("decode association values: %w", err)
			}
		}
		if _, ok := grouped[entityID]; !ok {
			grouped[entityID] = map[int]entity.PropertyValues{}
		}
		grouped[entityID][catID] = values
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return grouped, nil
	}

	matched := map[int]map[int]entity.PropertyValues{}
	for entityID, categories := range grouped {
		if entityMatchesFilters(categories, filters) {
			matched[entityID] = categories
		}
	}
	return matched, nil
}

func entityMatchesFilters(categories map[int]entity.PropertyValues, filters map[int]entity.PropertyValues) bool {
	for catID, wanted := range filters {
		stored, ok := categories[catID]
		if !ok {
			return false
		}
		for propID, want := range wanted {
			got, ok := stored[propID]
			if !ok || !got.Equal(want) {
				return false
			}
		}
	}
	return true
}

// AssociateEntityWithCategory inserts one association, values included.
func (r *CategoryAssociationRepo) AssociateEntityWithCategory(key repository.AssociationKey, values entity.PropertyValues) (*entity.CategoryAssociation, error) {
	valuesJSON, err := marshalValues(values)
	if err != nil {
		return nil, fmt.Errorf("encode association values: %w", err)
	}
	created, err := r.base.CreateForColumn("entity_id", []any{key.EntityID}, RowValues{
		"category_id": key.CategoryID,
		"entity_type": string(key.EntityType),
		"values":      valuesJSON,
	})
	if err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, nil
	}
	return created[0], nil
}

// BatchAssociateEntityWithCategories attaches several categories to one
// entity in a single insert statement.
func (r *CategoryAssociationRepo) BatchAssociateEntityWithCategories(entityID int, entityType entity.EntityType, data []repository.CategoryValues) ([]*entity.CategoryAssociation, error) {
	rows := make([]RowValues, 0, len(data))
	for _, d := range data {
		valuesJSON, err := marshalValues(d.Values)
		if err != nil {
			return nil, fmt.Errorf("encode association values: %w", err)
		}
		rows = append(rows, RowValues{
			"entity_id":   entityID,
			"entity_type": string(entityType),
			"category_id": d.CategoryID,
			"values":      valuesJSON,
		})
	}
	return r.base.CreateRows(rows)
}

// UpdateEntityCategoryValues persists the whole values map back for one
// association. Returns (nil, nil) when the key matches nothing.
func (r *CategoryAssociationRepo) UpdateEntityCategoryValues(key repository.AssociationKey, values entity.PropertyValues) (*entity.CategoryAssociation, error) {
	valuesJSON, err := marshalValues(values)
	if err != nil {
		return nil, fmt.Errorf("encode association values: %w", err)
	}
	updated, err := r.base.UpdateWhere(RowValues{"values": valuesJSON}, keyFilters(key))
	if err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, nil
	}
	return updated[0], nil
}

// RemoveEntityFromCategory deletes one association by key.
func (r *CategoryAssociationRepo) RemoveEntityFromCategory(key repository.AssociationKey) (bool, error) {
	count, err := r.base.DeleteForColumns([]RowValues{keyFilters(key)}, nil)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RemoveEntityFromAllCategories deletes every association of one entity.
// Zero deletions is a valid outcome, not an error.
func (r *CategoryAssociationRepo) RemoveEntityFromAllCategories(entityType entity.EntityType, entityID int) (int, error) {
	return r.base.DeleteForColumns([]RowValues{{
		"entity_id":   entityID,
		"entity_type": string(entityType),
	}}, nil)
}

// RemoveAllForCategory deletes every association referencing a category
// (used before category deletion).
func (r *CategoryAssociationRepo) RemoveAllForCategory(categoryID int) (int, error) {
	return r.base.DeleteForColumn("category_id", []any{categoryID}, nil)
}

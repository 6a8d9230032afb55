package repository

import "github.com/henn-dt/carbonitor-v2/internal/domain/entity"

// AssociationKey is the composite key identifying one association.
type AssociationKey struct {
	CategoryID int
	EntityID   int
	EntityType entity.EntityType
}

// CategoryValues pairs a category with the values to store for it, the unit
// of batch association.
type CategoryValues struct {
	CategoryID int
	Values     entity.PropertyValues
}

// CategoryAssociationRepository is the persistence port for category
// associations. Reads return (nil, nil) when nothing matches; creating a
// duplicate key surfaces as domain.ErrDuplicate (the uniqueness constraint
// lives in the store, not in application code). Batch writes are atomic.
type CategoryAssociationRepository interface {
	GetByID(id int) (*entity.CategoryAssociation, error)
	GetByKeys(key AssociationKey) (*entity.CategoryAssociation, error)
	GetByEntity(entityType entity.EntityType, entityID int) ([]*entity.CategoryAssociation, error)
	GetByCategory(categoryID int, entityType entity.EntityType) ([]*entity.CategoryAssociation, error)

	// GetValuesForEntity returns categoryID -> stored values for one entity,
	// optionally narrowed to a single category.
	GetValuesForEntity(entityType entity.EntityType, entityID int, categoryID *int) (map[int]entity.PropertyValues, error)

	// GetCategoryPropertiesForEntity joins category definitions with the
	// entity's stored values, one record per matching category.
	GetCategoryPropertiesForEntity(entityID int, categoryID *int) ([]*entity.CategoryProperties, error)

	// GetEntityListByCategoryProperties groups stored values by entity and
	// keeps only entities whose per-category values match every filter
	// exactly. Result shape: entityID -> categoryID -> values.
	GetEntityListByCategoryProperties(categoryIDs []int, filters map[int]entity.PropertyValues) (map[int]map[int]entity.PropertyValues, error)

	AssociateEntityWithCategory(key AssociationKey, values entity.PropertyValues) (*entity.CategoryAssociation, error)
	BatchAssociateEntityWithCategories(entityID int, entityType entity.EntityType, data []CategoryValues) ([]*entity.CategoryAssociation, error)
	UpdateEntityCategoryValues(key AssociationKey, values entity.PropertyValues) (*entity.CategoryAssociation, error)
	RemoveEntityFromCategory(key AssociationKey) (bool, error)
	RemoveEntityFromAllCategories(entityType entity.EntityType, entityID int) (int, error)
	RemoveAllForCategory(categoryID int) (int, error)
}

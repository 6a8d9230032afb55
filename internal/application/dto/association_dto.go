package dto

import "github.com/henn-dt/carbonitor-v2/internal/domain/entity"

// AssignCategoryRequest attaches one category to one entity.
type AssignCategoryRequest struct {
	EntityID   int                   `json:"entity_id"`
	EntityType entity.EntityType     `json:"entity_type"`
	CategoryID int                   `json:"category_id"`
	Values     entity.PropertyValues `json:"values,omitempty"`
}

// AssignCategoryToListRequest attaches one category to many entities.
// EntityTypes may hold a single type (broadcast to all entities) or one per
// entity; ValuesList may be empty (no values), hold a single set (broadcast)
// or one set per entity.
type AssignCategoryToListRequest struct {
	EntityIDs   []int                   `json:"entity_ids"`
	EntityTypes []entity.EntityType     `json:"entity_types"`
	CategoryID  int                     `json:"category_id"`
	ValuesList  []entity.PropertyValues `json:"values_list,omitempty"`
}

// CategoryValuesRequest pairs a category with the values to store for it.
type CategoryValuesRequest struct {
	CategoryID int                   `json:"category_id"`
	Values     entity.PropertyValues `json:"values,omitempty"`
}

// AssignCategoriesRequest attaches several categories to one entity.
type AssignCategoriesRequest struct {
	EntityID   int                     `json:"entity_id"`
	EntityType entity.EntityType       `json:"entity_type"`
	Categories []CategoryValuesRequest `json:"categories"`
}

// AssignCategoriesToListRequest attaches several categories to several
// entities of one type, the same values applied to each entity.
type AssignCategoriesToListRequest struct {
	EntityIDs  []int                   `json:"entity_ids"`
	EntityType entity.EntityType       `json:"entity_type"`
	Categories []CategoryValuesRequest `json:"categories"`
}

// EntityQueryRequest filters entities by their per-category property
// values: an entity matches when, for every category in Filters, each
// filtered property equals the stored value exactly.
type EntityQueryRequest struct {
	CategoryIDs []int                         `json:"category_ids"`
	Filters     map[int]entity.PropertyValues `json:"filters,omitempty"`
}

// SetPropertyValueRequest sets one property on one association.
type SetPropertyValueRequest struct {
	Value entity.PropertyValue `json:"value"`
}

// CategoryAssociationResponse returns one association.
type CategoryAssociationResponse struct {
	ID         int                   `json:"id"`
	CategoryID int                   `json:"category_id"`
	EntityID   int                   `json:"entity_id"`
	EntityType entity.EntityType     `json:"entity_type"`
	Values     entity.PropertyValues `json:"values,omitempty"`
}

// BatchAssignResponse returns the subset of a batch that succeeded plus the
// entity or category ids that were skipped.
type BatchAssignResponse struct {
	Created []CategoryAssociationResponse `json:"created"`
	Failed  []int                         `json:"failed,omitempty"`
}

// CategoryPropertiesResponse joins a category definition with the values one
// entity stores for it.
type CategoryPropertiesResponse struct {
	CategoryID          int                      `json:"category_id"`
	CategoryName        string                   `json:"category_name"`
	CategoryType        entity.EntityType        `json:"category_type"`
	CategoryDescription string                   `json:"category_description,omitempty"`
	PropertySchema      entity.PropertySchemaMap `json:"property_schema,omitempty"`
	Values              entity.PropertyValues    `json:"values,omitempty"`
}

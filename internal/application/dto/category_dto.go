package dto

import "github.com/henn-dt/carbonitor-v2/internal/domain/entity"

// CreateCategoryRequest creates a category with its full property schema.
type CreateCategoryRequest struct {
	Name           string                   `json:"name"`
	Type           entity.EntityType        `json:"type"`
	Status         string                   `json:"status,omitempty"`
	Description    string                   `json:"description,omitempty"`
	PropertySchema entity.PropertySchemaMap `json:"property_schema,omitempty"`
}

// UpdateCategoryRequest partially updates a category. Nil fields are left
// untouched; PropertySchema replaces the whole schema when present.
type UpdateCategoryRequest struct {
	Name           *string                  `json:"name,omitempty"`
	Status         *string                  `json:"status,omitempty"`
	Description    *string                  `json:"description,omitempty"`
	PropertySchema entity.PropertySchemaMap `json:"property_schema,omitempty"`
}

// CategoryPropertyRequest declares one property to add to or update in a
// category's schema. ID is ignored on add (a fresh id is allocated).
type CategoryPropertyRequest struct {
	ID          string                 `json:"id,omitempty"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Format      entity.PropertyFormat  `json:"format"`
	Default     *entity.PropertyValue  `json:"default,omitempty"`
	Required    bool                   `json:"required,omitempty"`
	Enum        []entity.PropertyValue `json:"enum,omitempty"`
}

// Schema converts the request into the stored per-property schema.
func (r CategoryPropertyRequest) Schema() entity.PropertySchema {
	return entity.PropertySchema{
		Name:        r.Name,
		Description: r.Description,
		Format:      r.Format,
		Default:     r.Default,
		Required:    r.Required,
		Enum:        r.Enum,
	}
}

// CategoryPropertyResponse is one schema entry flattened with its id, the
// shape UIs iterate over.
type CategoryPropertyResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Format      entity.PropertyFormat  `json:"format"`
	Default     *entity.PropertyValue  `json:"default,omitempty"`
	Required    bool                   `json:"required"`
	Enum        []entity.PropertyValue `json:"enum,omitempty"`
}

// CategoryResponse returns a category with both the raw schema map and the
// flat property list.
type CategoryResponse struct {
	ID             int                        `json:"id"`
	Name           string                     `json:"name"`
	Type           entity.EntityType          `json:"type"`
	Status         string                     `json:"status,omitempty"`
	Description    string                     `json:"description,omitempty"`
	PropertySchema entity.PropertySchemaMap   `json:"property_schema,omitempty"`
	Properties     []CategoryPropertyResponse `json:"properties"`
}

// CategoryListResponse wraps a category list.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
}

package entity

import "time"

// EntityType is the closed tag identifying which kind of record a category
// can be attached to. A category is scoped to exactly one entity type.
type EntityType string

const (
	EntityTypeProduct EntityType = "Product"
	EntityTypeBuildup EntityType = "Buildup"
	EntityTypeModel   EntityType = "Model"
	EntityTypeProject EntityType = "Project"
	EntityTypeOther   EntityType = "Other"
)

// Valid reports whether t is one of the declared entity types.
func (t EntityType) Valid() bool {
	switch t {
	case EntityTypeProduct, EntityTypeBuildup, EntityTypeModel, EntityTypeProject, EntityTypeOther:
		return true
	}
	return false
}

// PropertyFormat declares the scalar format a category property accepts.
type PropertyFormat string

const (
	FormatString  PropertyFormat = "STRING"
	FormatNumber  PropertyFormat = "NUMBER"
	FormatBoolean PropertyFormat = "BOOLEAN"
	FormatDate    PropertyFormat = "DATE"
)

// Category statuses.
const (
	CategoryStatusActive   = "active"
	CategoryStatusInactive = "inactive"
)

// PropertySchema is the per-property metadata a category declares: display
// name, format, optional default, required flag and an optional list of
// allowed values.
type PropertySchema struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Format      PropertyFormat  `json:"format"`
	Default     *PropertyValue  `json:"default,omitempty"`
	Required    bool            `json:"required,omitempty"`
	Enum        []PropertyValue `json:"enum,omitempty"`
}

// PropertySchemaMap maps property ids (numeric-looking strings, unique within
// the category) to their schemas. Stored as one JSON column on categories.
type PropertySchemaMap map[string]PropertySchema

// Clone returns a shallow copy so read-modify-write updates never mutate a
// caller's map; nil stays nil.
func (m PropertySchemaMap) Clone() PropertySchemaMap {
	if m == nil {
		return nil
	}
	out := make(PropertySchemaMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Category is a named, typed set of properties that can be attached to
// entities of its Type. (Name, Type) is unique across categories.
type Category struct {
	ID             int
	UserIDCreated  *int
	UserIDUpdated  *int
	Name           string
	Type           EntityType
	Status         string // active, inactive
	Description    string // tooltip explaining category use
	PropertySchema PropertySchemaMap
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

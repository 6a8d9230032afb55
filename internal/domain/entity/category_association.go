package entity

// CategoryAssociation links one category to one external entity and carries
// the property values for that pairing. (CategoryID, EntityID, EntityType)
// is unique: an entity is tagged by a given category at most once.
//
// EntityID plus EntityType is an untyped reference; the association engine
// never dereferences it or checks the target exists.
type CategoryAssociation struct {
	ID         int
	CategoryID int
	EntityID   int
	EntityType EntityType
	Values     PropertyValues // property id -> value, stored as one JSON column
}

// EntityRef identifies the external record an association points at.
type EntityRef struct {
	Type EntityType
	ID   int
}

// Ref returns the association's entity reference.
func (a *CategoryAssociation) Ref() EntityRef {
	return EntityRef{Type: a.EntityType, ID: a.EntityID}
}

// CategoryProperties is the join of a category definition with the values
// one entity stores for it, one record per matching category.
type CategoryProperties struct {
	CategoryID          int
	CategoryName        string
	CategoryType        EntityType
	CategoryDescription string
	PropertySchema      PropertySchemaMap
	Values              PropertyValues
}

package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henn-dt/carbonitor-v2/internal/application/dto"
	"github.com/henn-dt/carbonitor-v2/internal/application/usecase"
	"github.com/henn-dt/carbonitor-v2/internal/domain/entity"
	"github.com/henn-dt/carbonitor-v2/pkg/logger"
)

// newAssociationUC wires the use case against in-memory repositories and
// seeds one product category with a string property (default "B") and a
// required number property.
func newAssociationUC(t *testing.T) (*usecase.CategoryAssociationUseCase, int) {
	t.Helper()
	categories := newFakeCategoryRepo()
	associations := newFakeAssociationRepo()

	created, err := categories.Create(&entity.Category{
		Name: "Fire Rating",
		Type: entity.EntityTypeProduct,
		PropertySchema: entity.PropertySchemaMap{
			"1": {
				Name:    "class",
				Format:  entity.FormatString,
				Default: ptrValue(entity.StringValue("B")),
				Enum:    []entity.PropertyValue{entity.StringValue("A"), entity.StringValue("B"), entity.StringValue("C")},
			},
			"2": {Name: "minutes", Format: entity.FormatNumber, Required: true},
		},
	})
	require.NoError(t, err)

	uc := usecase.NewCategoryAssociationUseCase(categories, associations, nil, logger.Nop())
	return uc, created.ID
}

func ptrValue(v entity.PropertyValue) *entity.PropertyValue { return &v }

func TestAssignCategoryToEntity(t *testing.T) {
	uc, categoryID := newAssociationUC(t)

	resp, err := uc.AssignCategoryToEntity(10, entity.EntityTypeProduct, categoryID, entity.PropertyValues{
		"2": entity.NumberValue(90),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, categoryID, resp.CategoryID)
	assert.Equal(t, 10, resp.EntityID)

	// Default filled for the absent property, provided value kept.
	assert.True(t, entity.StringValue("B").Equal(resp.Values["1"]))
	assert.True(t, entity.NumberValue(90).Equal(resp.Values["2"]))
}

func TestAssignCategoryToEntityRejections(t *testing.T) {
	uc, categoryID := newAssociationUC(t)

	tests := []struct {
		name       string
		entityID   int
		entityType entity.EntityType
		categoryID int
		values     entity.PropertyValues
	}{
		{"unknown category", 10, entity.EntityTypeProduct, 999, nil},
		{"entity type mismatch", 10, entity.EntityTypeBuildup, categoryID, nil},
		{"unknown property id", 10, entity.EntityTypeProduct, categoryID, entity.PropertyValues{"9": entity.NumberValue(1)}},
		{"format mismatch", 10, entity.EntityTypeProduct, categoryID, entity.PropertyValues{"2": entity.StringValue("ninety")}},
		{"enum violation", 10, entity.EntityTypeProduct, categoryID, entity.PropertyValues{"1": entity.StringValue("Z")}},
		{"required property missing", 10, entity.EntityTypeProduct, categoryID, entity.PropertyValues{"1": entity.StringValue("A")}},
		{"invalid entity type", 10, entity.EntityType("Widget"), categoryID, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := uc.AssignCategoryToEntity(tt.entityID, tt.entityType, tt.categoryID, tt.values)
			require.NoError(t, err)
			assert.Nil(t, resp)
		})
	}
}

func TestAssignCategoryToEntityRequiredWithDefault(t *testing.T) {
	categories := newFakeCategoryRepo()
	associations := newFakeAssociationRepo()
	created, err := categories.Create(&entity.Category{
		Name: "Acoustic Rating",
		Type: entity.EntityTypeProduct,
		PropertySchema: entity.PropertySchemaMap{
			"1": {Name: "rating", Format: entity.FormatNumber, Required: true, Default: ptrValue(entity.NumberValue(30))},
			"2": {Name: "note", Format: entity.FormatString},
		},
	})
	require.NoError(t, err)
	uc := usecase.NewCategoryAssociationUseCase(categories, associations, nil, logger.Nop())

	// A required property backed by a default may stay unsupplied.
	resp, err := uc.AssignCategoryToEntity(10, entity.EntityTypeProduct, created.ID, entity.PropertyValues{
		"2": entity.StringValue("lab-measured"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.True(t, entity.NumberValue(30).Equal(resp.Values["1"]))
}

func TestAssignCategoryToEntityExisting(t *testing.T) {
	uc, categoryID := newAssociationUC(t)

	first, err := uc.AssignCategoryToEntity(10, entity.EntityTypeProduct, categoryID, nil)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := uc.AssignCategoryToEntity(10, entity.EntityTypeProduct, categoryID, nil)
	require.NoError(t, err)
	assert.Nil(t, second)

	// The original association keeps its values.
	got, err := uc.GetByID(first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, entity.StringValue("B").Equal(got.Values["1"]))
}

func TestAssignCategoryToEntityListPartialSuccess(t *testing.T) {
	uc, categoryID := newAssociationUC(t)

	// Entity 2 is already associated.
	existing, err := uc.AssignCategoryToEntity(2, entity.EntityTypeProduct, categoryID, nil)
	require.NoError(t, err)
	require.NotNil(t, existing)

	resp, err := uc.AssignCategoryToEntityList(dto.AssignCategoryToListRequest{
		EntityIDs:   []int{1, 2, 3},
		EntityTypes: []entity.EntityType{entity.EntityTypeProduct},
		CategoryID:  categoryID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Created, 2)
	assert.Equal(t, 1, resp.Created[0].EntityID)
	assert.Equal(t, 3, resp.Created[1].EntityID)
	assert.Equal(t, []int{2}, resp.Failed)
}

func TestAssignCategoryToEntityListMisalignedTypes(t *testing.T) {
	uc, categoryID := newAssociationUC(t)

	resp, err := uc.AssignCategoryToEntityList(dto.AssignCategoryToListRequest{
		EntityIDs:   []int{1, 2, 3},
		EntityTypes: []entity.EntityType{entity.EntityTypeProduct, entity.EntityTypeProduct},
		CategoryID:  categoryID,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Created)
	assert.Equal(t, []int{1, 2, 3}, resp.Failed)

	// Nothing was written.
	assocs, err := uc.GetByCategory(categoryID, "")
	require.NoError(t, err)
	assert.Empty(t, assocs)
}

func TestAssignCategoryToEntityListValuesBroadcast(t *testing.T) {
	uc, categoryID := newAssociationUC(t)

	values := entity.PropertyValues{"2": entity.NumberValue(30)}
	resp, err := uc.AssignCategoryToEntityList(dto.AssignCategoryToListRequest{
		EntityIDs:   []int{1, 2},
		EntityTypes: []entity.EntityType{entity.EntityTypeProduct},
		CategoryID:  categoryID,
		ValuesList:  []entity.PropertyValues{values},
	})
	require.NoError(t, err)
	require.Len(t, resp.Created, 2)
	for _, a := range resp.Created {
		assert.True(t, entity.NumberValue(30).Equal(a.Values["2"]))
	}
}

func TestAssignCategoriesToEntityDropsRejected(t *testing.T) {
	categories := newFakeCategoryRepo()
	associations := newFakeAssociationRepo()

	good, err := categories.Create(&entity.Category{
		Name: "Good",
		Type: entity.EntityTypeProduct,
		PropertySchema: entity.PropertySchemaMap{
			"1": {Name: "grade", Format: entity.FormatString},
		},
	})
	require.NoError(t, err)
	wrongType, err := categories.Create(&entity.Category{
		Name: "Wrong Type",
		Type: entity.EntityTypeBuildup,
	})
	require.NoError(t, err)

	uc := usecase.NewCategoryAssociationUseCase(categories, associations, nil, logger.Nop())

	created, err := uc.AssignCategoriesToEntity(7, entity.EntityTypeProduct, []dto.CategoryValuesRequest{
		{CategoryID: good.ID, Values: entity.PropertyValues{"1": entity.StringValue("A")}},
		{CategoryID: wrongType.ID},
		{CategoryID: 999},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, good.ID, created[0].CategoryID)
}

func TestDeleteAssociationIdempotent(t *testing.T) {
	uc, categoryID := newAssociationUC(t)

	_, err := uc.AssignCategoryToEntity(5, entity.EntityTypeProduct, categoryID, nil)
	require.NoError(t, err)

	ok, err := uc.DeleteAssociation(5, entity.EntityTypeProduct, categoryID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.DeleteAssociation(5, entity.EntityTypeProduct, categoryID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveEntityFromAllCategories(t *testing.T) {
	categories := newFakeCategoryRepo()
	associations := newFakeAssociationRepo()

	var ids []int
	for _, name := range []string{"One", "Two"} {
		c, err := categories.Create(&entity.Category{Name: name, Type: entity.EntityTypeProduct})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	uc := usecase.NewCategoryAssociationUseCase(categories, associations, nil, logger.Nop())
	for _, id := range ids {
		_, err := uc.AssignCategoryToEntity(3, entity.EntityTypeProduct, id, nil)
		require.NoError(t, err)
	}

	removed, err := uc.RemoveEntityFromAllCategories(entity.EntityTypeProduct, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	removed, err = uc.RemoveEntityFromAllCategories(entity.EntityTypeProduct, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestSetPropertyValue(t *testing.T) {
	uc, categoryID := newAssociationUC(t)

	_, err := uc.AssignCategoryToEntity(4, entity.EntityTypeProduct, categoryID, nil)
	require.NoError(t, err)

	ok, err := uc.SetPropertyValue(4, entity.EntityTypeProduct, categoryID, "2", entity.NumberValue(120))
	require.NoError(t, err)
	assert.True(t, ok)

	values, err := uc.GetValuesForEntity(entity.EntityTypeProduct, 4, &categoryID)
	require.NoError(t, err)
	assert.True(t, entity.NumberValue(120).Equal(values[categoryID]["2"]))

	// Value failing the property's format is rejected.
	ok, err = uc.SetPropertyValue(4, entity.EntityTypeProduct, categoryID, "2", entity.StringValue("long"))
	require.NoError(t, err)
	assert.False(t, ok)

	// Unknown property id is rejected.
	ok, err = uc.SetPropertyValue(4, entity.EntityTypeProduct, categoryID, "9", entity.NumberValue(1))
	require.NoError(t, err)
	assert.False(t, ok)

	// Missing association is a miss, not an error.
	ok, err = uc.SetPropertyValue(99, entity.EntityTypeProduct, categoryID, "2", entity.NumberValue(1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeletePropertyValue(t *testing.T) {
	uc, categoryID := newAssociationUC(t)

	_, err := uc.AssignCategoryToEntity(4, entity.EntityTypeProduct, categoryID, entity.PropertyValues{
		"2": entity.NumberValue(60),
	})
	require.NoError(t, err)

	ok, err := uc.DeletePropertyValue(4, entity.EntityTypeProduct, categoryID, "2")
	require.NoError(t, err)
	assert.True(t, ok)

	// Already gone.
	ok, err = uc.DeletePropertyValue(4, entity.EntityTypeProduct, categoryID, "2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetValuesByProperty(t *testing.T) {
	uc, categoryID := newAssociationUC(t)

	a1, err := uc.AssignCategoryToEntity(1, entity.EntityTypeProduct, categoryID, entity.PropertyValues{"2": entity.NumberValue(30)})
	require.NoError(t, err)
	a2, err := uc.AssignCategoryToEntity(2, entity.EntityTypeProduct, categoryID, entity.PropertyValues{"2": entity.NumberValue(60)})
	require.NoError(t, err)

	out, err := uc.GetValuesByProperty(categoryID, entity.EntityTypeProduct, "2")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, entity.NumberValue(30).Equal(out[a1.ID]))
	assert.True(t, entity.NumberValue(60).Equal(out[a2.ID]))
}

func TestGetEntityIDsByCategory(t *testing.T) {
	uc, categoryID := newAssociationUC(t)

	for _, id := range []int{3, 1, 2} {
		_, err := uc.AssignCategoryToEntity(id, entity.EntityTypeProduct, categoryID, nil)
		require.NoError(t, err)
	}

	ids, err := uc.GetEntityIDsByCategory(categoryID, entity.EntityTypeProduct)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestGetCategoriesByEntity(t *testing.T) {
	uc, categoryID := newAssociationUC(t)

	_, err := uc.AssignCategoryToEntity(8, entity.EntityTypeProduct, categoryID, nil)
	require.NoError(t, err)

	got, err := uc.GetCategoriesByEntity(entity.EntityTypeProduct, 8)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Fire Rating", got[0].Name)
}

func TestUpdateValues(t *testing.T) {
	uc, categoryID := newAssociationUC(t)

	_, err := uc.AssignCategoryToEntity(6, entity.EntityTypeProduct, categoryID, entity.PropertyValues{"2": entity.NumberValue(30)})
	require.NoError(t, err)

	resp, err := uc.UpdateValues(6, entity.EntityTypeProduct, categoryID, entity.PropertyValues{
		"1": entity.StringValue("A"),
		"2": entity.NumberValue(45),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.True(t, entity.StringValue("A").Equal(resp.Values["1"]))
	assert.True(t, entity.NumberValue(45).Equal(resp.Values["2"]))

	// Schema violation rejects the whole update.
	resp, err = uc.UpdateValues(6, entity.EntityTypeProduct, categoryID, entity.PropertyValues{
		"1": entity.NumberValue(7),
	})
	require.NoError(t, err)
	assert.Nil(t, resp)
}

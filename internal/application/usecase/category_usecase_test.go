package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henn-dt/carbonitor-v2/internal/application/dto"
	"github.com/henn-dt/carbonitor-v2/internal/application/usecase"
	"github.com/henn-dt/carbonitor-v2/internal/domain"
	"github.com/henn-dt/carbonitor-v2/internal/domain/entity"
	"github.com/henn-dt/carbonitor-v2/pkg/logger"
)

func newCategoryUC() (*usecase.CategoryUseCase, *fakeCategoryRepo) {
	repo := newFakeCategoryRepo()
	return usecase.NewCategoryUseCase(repo, logger.Nop()), repo
}

func TestCategoryCreate(t *testing.T) {
	uc, _ := newCategoryUC()

	created, err := uc.Create(dto.CreateCategoryRequest{
		Name: "Fire Rating",
		Type: entity.EntityTypeProduct,
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Fire Rating", created.Name)
	assert.Equal(t, entity.CategoryStatusActive, created.Status)

	// Same name under another entity type is a different category.
	other, err := uc.Create(dto.CreateCategoryRequest{
		Name: "Fire Rating",
		Type: entity.EntityTypeBuildup,
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, other)
	assert.NotEqual(t, created.ID, other.ID)

	// Registered (name, type) pair is rejected.
	_, err = uc.Create(dto.CreateCategoryRequest{
		Name: "Fire Rating",
		Type: entity.EntityTypeProduct,
	}, nil)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Unknown entity type is rejected.
	_, err = uc.Create(dto.CreateCategoryRequest{
		Name: "Bad",
		Type: entity.EntityType("Widget"),
	}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryCreateListPartialSuccess(t *testing.T) {
	uc, _ := newCategoryUC()

	_, err := uc.Create(dto.CreateCategoryRequest{Name: "Existing", Type: entity.EntityTypeProduct}, nil)
	require.NoError(t, err)

	resp, err := uc.CreateList([]dto.CreateCategoryRequest{
		{Name: "Existing", Type: entity.EntityTypeProduct},
		{Name: "New", Type: entity.EntityTypeProduct},
	}, nil)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "New", resp.Items[0].Name)
}

func TestCategoryUpdateMissing(t *testing.T) {
	uc, _ := newCategoryUC()

	name := "renamed"
	resp, err := uc.Update(99, dto.UpdateCategoryRequest{Name: &name}, nil)
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestCategoryDelete(t *testing.T) {
	uc, _ := newCategoryUC()

	created, err := uc.Create(dto.CreateCategoryRequest{Name: "Gone", Type: entity.EntityTypeProduct}, nil)
	require.NoError(t, err)

	ok, err := uc.Delete(created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.Delete(created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddPropertyAllocatesIDs(t *testing.T) {
	uc, _ := newCategoryUC()

	created, err := uc.Create(dto.CreateCategoryRequest{Name: "Props", Type: entity.EntityTypeProduct}, nil)
	require.NoError(t, err)

	// Empty schema allocates "1".
	resp, err := uc.AddProperty(created.ID, dto.CategoryPropertyRequest{Name: "first", Format: entity.FormatString})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Contains(t, resp.PropertySchema, "1")

	resp, err = uc.AddProperty(created.ID, dto.CategoryPropertyRequest{Name: "second", Format: entity.FormatNumber})
	require.NoError(t, err)
	assert.Contains(t, resp.PropertySchema, "2")

	// A gap does not get reused: max+1 keeps ids from colliding with
	// values stored under a removed property's id.
	ok, err := uc.RemoveProperty(created.ID, "1")
	require.NoError(t, err)
	require.True(t, ok)

	resp, err = uc.AddProperty(created.ID, dto.CategoryPropertyRequest{Name: "third", Format: entity.FormatBoolean})
	require.NoError(t, err)
	assert.Contains(t, resp.PropertySchema, "3")
	assert.NotContains(t, resp.PropertySchema, "1")
}

func TestAddPropertySkipsGaps(t *testing.T) {
	uc, _ := newCategoryUC()

	created, err := uc.Create(dto.CreateCategoryRequest{
		Name: "Gappy",
		Type: entity.EntityTypeProduct,
		PropertySchema: entity.PropertySchemaMap{
			"1": {Name: "one", Format: entity.FormatString},
			"3": {Name: "three", Format: entity.FormatString},
		},
	}, nil)
	require.NoError(t, err)

	resp, err := uc.AddProperty(created.ID, dto.CategoryPropertyRequest{Name: "four", Format: entity.FormatString})
	require.NoError(t, err)
	assert.Contains(t, resp.PropertySchema, "4")
	assert.NotContains(t, resp.PropertySchema, "2")
}

func TestUpdateProperty(t *testing.T) {
	uc, _ := newCategoryUC()

	created, err := uc.Create(dto.CreateCategoryRequest{
		Name: "Props",
		Type: entity.EntityTypeProduct,
		PropertySchema: entity.PropertySchemaMap{
			"1": {Name: "grade", Format: entity.FormatString},
		},
	}, nil)
	require.NoError(t, err)

	resp, err := uc.UpdateProperty(created.ID, dto.CategoryPropertyRequest{
		ID:     "1",
		Name:   "grade",
		Format: entity.FormatNumber,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, entity.FormatNumber, resp.PropertySchema["1"].Format)

	// Unknown property id is a miss, not an upsert.
	resp, err = uc.UpdateProperty(created.ID, dto.CategoryPropertyRequest{
		ID:     "9",
		Name:   "ghost",
		Format: entity.FormatString,
	})
	require.NoError(t, err)
	assert.Nil(t, resp)

	// Missing id is rejected outright.
	_, err = uc.UpdateProperty(created.ID, dto.CategoryPropertyRequest{Name: "no-id"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRemovePropertyMissing(t *testing.T) {
	uc, _ := newCategoryUC()

	created, err := uc.Create(dto.CreateCategoryRequest{Name: "Props", Type: entity.EntityTypeProduct}, nil)
	require.NoError(t, err)

	ok, err := uc.RemoveProperty(created.ID, "1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCategoryResponsePropertyOrder(t *testing.T) {
	uc, _ := newCategoryUC()

	created, err := uc.Create(dto.CreateCategoryRequest{
		Name: "Ordered",
		Type: entity.EntityTypeProduct,
		PropertySchema: entity.PropertySchemaMap{
			"10": {Name: "ten", Format: entity.FormatString},
			"2":  {Name: "two", Format: entity.FormatString},
			"1":  {Name: "one", Format: entity.FormatString},
		},
	}, nil)
	require.NoError(t, err)

	ids := make([]string, 0, len(created.Properties))
	for _, p := range created.Properties {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"1", "2", "10"}, ids)
}
